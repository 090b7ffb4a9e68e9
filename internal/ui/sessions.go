package ui

import (
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/NathanMorier/ultimatetimer/internal/models"
	"github.com/NathanMorier/ultimatetimer/internal/service"
)

const editTimeLayout = "2006-01-02 15:04:05"

// Sessions is the session log tab: newest-first history with edit/delete.
// It re-reads the collection every second so sessions appended by the
// engines show up without a manual refresh.
type Sessions struct {
	sessions    *service.SessionService
	categories  *service.CategoryService
	sessionList []models.Session
}

func NewSessions(sessions *service.SessionService, categories *service.CategoryService) *Sessions {
	return &Sessions{sessions: sessions, categories: categories}
}

func (v *Sessions) MakeUI() fyne.CanvasObject {
	var list *widget.List
	refresh := func() {
		v.sessionList = v.sessions.Sessions()
		list.Refresh()
	}

	list = widget.NewList(
		func() int { return len(v.sessionList) },
		func() fyne.CanvasObject {
			swatch := canvas.NewRectangle(theme.DisabledColor())
			swatch.SetMinSize(fyne.NewSize(12, 12))
			return container.NewBorder(nil, nil, swatch,
				container.NewHBox(
					widget.NewLabel("00:00:00"),
					widget.NewButtonWithIcon("", theme.DocumentCreateIcon(), nil),
					widget.NewButtonWithIcon("", theme.DeleteIcon(), nil),
				),
				container.NewVBox(
					widget.NewLabelWithStyle("Title", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
					widget.NewLabelWithStyle("Date", fyne.TextAlignLeading, fyne.TextStyle{Italic: true}),
				))
		},
		func(i int, o fyne.CanvasObject) {
			if i >= len(v.sessionList) {
				return
			}
			session := v.sessionList[i]
			box := o.(*fyne.Container)
			info := box.Objects[0].(*fyne.Container)
			swatch := box.Objects[1].(*canvas.Rectangle)
			right := box.Objects[2].(*fyne.Container)
			title := info.Objects[0].(*widget.Label)
			date := info.Objects[1].(*widget.Label)
			dur := right.Objects[0].(*widget.Label)
			editBtn := right.Objects[1].(*widget.Button)
			delBtn := right.Objects[2].(*widget.Button)

			if category, ok := v.categories.ByID(session.CategoryID); ok {
				title.SetText(category.Title)
				swatch.FillColor = parseHexColor(category.Color)
			} else {
				title.SetText("Unknown Category")
				swatch.FillColor = parseHexColor("")
			}
			swatch.Refresh()

			sub := session.StartTime.Format("Mon, 02 Jan 15:04")
			if session.Note != "" {
				sub += " - " + session.Note
			}
			date.SetText(sub)
			dur.SetText(FormatHuman(session.Duration))

			editBtn.OnTapped = func() {
				v.showEditDialog(session, refresh)
			}
			delBtn.OnTapped = func() {
				dialog.ShowConfirm("Confirm Deletion", "Are you sure you want to delete this session?",
					func(confirmed bool) {
						if !confirmed {
							return
						}
						if err := v.sessions.Delete(session.ID); err != nil {
							dialog.ShowError(err, mainWindow())
							return
						}
						refresh()
					}, mainWindow())
			}
		},
	)

	v.sessionList = v.sessions.Sessions()

	go func() {
		ticker := time.NewTicker(1 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			fyne.Do(refresh)
		}
	}()

	exportBtn := widget.NewButtonWithIcon("Export PDF", theme.DocumentSaveIcon(), func() {
		v.showExportDialog()
	})

	header := container.NewBorder(nil, nil,
		widget.NewLabelWithStyle("Session History", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		exportBtn)

	return container.NewBorder(header, nil, nil, nil, list)
}

func (v *Sessions) showEditDialog(session models.Session, onSuccess func()) {
	startEntry := widget.NewEntry()
	startEntry.SetText(session.StartTime.Format(editTimeLayout))
	endEntry := widget.NewEntry()
	endEntry.SetText(session.EndTime.Format(editTimeLayout))
	noteEntry := widget.NewEntry()
	noteEntry.SetText(session.Note)

	items := []*widget.FormItem{
		widget.NewFormItem("Start Time", startEntry),
		widget.NewFormItem("End Time", endEntry),
		widget.NewFormItem("Note", noteEntry),
	}

	dlg := dialog.NewForm("Edit Session", "Save", "Cancel", items, func(confirmed bool) {
		if !confirmed {
			return
		}

		newStart, err1 := time.ParseInLocation(editTimeLayout, startEntry.Text, time.Local)
		newEnd, err2 := time.ParseInLocation(editTimeLayout, endEntry.Text, time.Local)
		if err1 != nil || err2 != nil {
			dialog.ShowInformation("Invalid Time", "Times must look like 2006-01-02 15:04:05.", mainWindow())
			return
		}

		err := v.sessions.Update(session.ID, service.SessionEdit{
			StartTime: newStart,
			EndTime:   newEnd,
			Note:      noteEntry.Text,
		})
		if err != nil {
			dialog.ShowError(err, mainWindow())
			return
		}
		onSuccess()
	}, mainWindow())
	dlg.Resize(fyne.NewSize(mainWindow().Canvas().Size().Width, dlg.MinSize().Height))
	dlg.Show()
}

func (v *Sessions) showExportDialog() {
	groupSelect := widget.NewSelect([]string{service.GroupByNone, service.GroupByDay, service.GroupByWeek}, nil)
	groupSelect.SetSelected(service.GroupByDay)

	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -7)

	items := []*widget.FormItem{
		widget.NewFormItem("Group By", groupSelect),
	}

	dialog.ShowForm("Export Report", "Export", "Cancel", items, func(confirmed bool) {
		if !confirmed {
			return
		}
		dialog.ShowFileSave(func(writer fyne.URIWriteCloser, err error) {
			if err != nil {
				dialog.ShowError(err, mainWindow())
				return
			}
			if writer == nil {
				return
			}
			path := writer.URI().Path()
			writer.Close()

			sessions := service.SessionsForRange(v.sessions.Sessions(), startDate, endDate)
			if err := GeneratePDF(path, sessions, v.categories, startDate, endDate, groupSelect.Selected); err != nil {
				dialog.ShowError(err, mainWindow())
				return
			}
			dialog.ShowInformation("Success", "Report exported to "+path, mainWindow())
		}, mainWindow())
	}, mainWindow())
}
