package ui

import (
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/NathanMorier/ultimatetimer/internal/engine"
	"github.com/NathanMorier/ultimatetimer/internal/models"
	"github.com/NathanMorier/ultimatetimer/internal/service"
)

// Timers is the stopwatch tab: a start form plus the live list of active
// timers. The list re-renders from an engine snapshot once per second.
type Timers struct {
	engine     *engine.TimerEngine
	categories *service.CategoryService
	timerList  []models.ActiveTimer
	picker     *categoryPicker
}

func NewTimers(e *engine.TimerEngine, categories *service.CategoryService) *Timers {
	return &Timers{engine: e, categories: categories}
}

func (t *Timers) MakeUI() fyne.CanvasObject {
	t.picker = newCategoryPicker(t.categories)

	noteEntry := widget.NewEntry()
	noteEntry.PlaceHolder = "Add a note for this timer..."

	var list *widget.List

	startBtn := widget.NewButtonWithIcon("Start Timer", theme.MediaPlayIcon(), func() {
		if _, err := t.engine.Start(t.picker.SelectedID(), noteEntry.Text); err != nil {
			dialog.ShowError(err, mainWindow())
			return
		}
		noteEntry.SetText("")
		t.timerList = t.engine.ActiveTimers()
		list.Refresh()
	})

	list = widget.NewList(
		func() int { return len(t.timerList) },
		func() fyne.CanvasObject {
			return container.NewBorder(nil, nil, nil,
				container.NewHBox(
					widget.NewLabel("00:00:00"),
					widget.NewButtonWithIcon("", theme.MediaPauseIcon(), nil),
					widget.NewButtonWithIcon("", theme.DocumentCreateIcon(), nil),
					widget.NewButtonWithIcon("", theme.MediaStopIcon(), nil),
				),
				widget.NewLabel("Category"))
		},
		func(i int, o fyne.CanvasObject) {
			if i >= len(t.timerList) {
				return
			}
			timer := t.timerList[i]
			box := o.(*fyne.Container)
			title := box.Objects[0].(*widget.Label)
			right := box.Objects[1].(*fyne.Container)
			dur := right.Objects[0].(*widget.Label)
			pauseBtn := right.Objects[1].(*widget.Button)
			noteBtn := right.Objects[2].(*widget.Button)
			stopBtn := right.Objects[3].(*widget.Button)

			title.SetText(categoryTitle(t.categories, timer.CategoryID) + pausedSuffix(timer.IsPaused))
			dur.SetText(FormatClock(t.engine.Elapsed(timer)))
			dur.TextStyle = fyne.TextStyle{Italic: timer.IsPaused}

			if timer.IsPaused {
				pauseBtn.SetIcon(theme.MediaPlayIcon())
				pauseBtn.OnTapped = func() { t.engine.Resume(timer.ID) }
			} else {
				pauseBtn.SetIcon(theme.MediaPauseIcon())
				pauseBtn.OnTapped = func() { t.engine.Pause(timer.ID) }
			}
			noteBtn.OnTapped = func() {
				showNoteDialog(timer.Note, func(note string) {
					t.engine.UpdateNote(timer.ID, note)
				})
			}
			stopBtn.OnTapped = func() {
				t.engine.Stop(timer.ID)
				t.timerList = t.engine.ActiveTimers()
				list.Refresh()
			}
		},
	)

	t.timerList = t.engine.ActiveTimers()

	go func() {
		ticker := time.NewTicker(1 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			fyne.Do(func() {
				t.timerList = t.engine.ActiveTimers()
				t.picker.Reload()
				list.Refresh()
			})
		}
	}()

	form := container.NewVBox(
		widget.NewLabelWithStyle("Start New Timer", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		t.picker.Widget(),
		container.NewBorder(nil, nil, nil, startBtn, noteEntry),
	)

	return container.NewBorder(form, nil, nil, nil, list)
}

func pausedSuffix(paused bool) string {
	if paused {
		return " (PAUSED)"
	}
	return ""
}

// categoryTitle degrades to a placeholder for deleted categories.
func categoryTitle(categories *service.CategoryService, id string) string {
	if category, ok := categories.ByID(id); ok {
		return category.Title
	}
	return "Unknown Category"
}

func showNoteDialog(current string, onSave func(string)) {
	noteEntry := widget.NewEntry()
	noteEntry.SetText(current)

	items := []*widget.FormItem{
		widget.NewFormItem("Note", noteEntry),
	}
	dialog.ShowForm("Edit Note", "Save", "Cancel", items, func(confirmed bool) {
		if confirmed {
			onSave(noteEntry.Text)
		}
	}, mainWindow())
}

func mainWindow() fyne.Window {
	return fyne.CurrentApp().Driver().AllWindows()[0]
}

// categoryPicker is a select widget tracking the category collection.
type categoryPicker struct {
	categories *service.CategoryService
	selectBox  *widget.Select
	ids        []string
}

func newCategoryPicker(categories *service.CategoryService) *categoryPicker {
	p := &categoryPicker{categories: categories}
	p.selectBox = widget.NewSelect(nil, nil)
	p.selectBox.PlaceHolder = "Select a category..."
	p.Reload()
	return p
}

func (p *categoryPicker) Widget() fyne.CanvasObject {
	return p.selectBox
}

// Reload refreshes options from the category collection, keeping the
// current selection when it still exists.
func (p *categoryPicker) Reload() {
	all := p.categories.Categories()
	titles := make([]string, len(all))
	ids := make([]string, len(all))
	for i, category := range all {
		titles[i] = category.Title
		ids[i] = category.ID
	}

	selected := p.SelectedID()
	p.ids = ids
	p.selectBox.Options = titles
	if selected != "" {
		for i, id := range ids {
			if id == selected {
				p.selectBox.SetSelectedIndex(i)
				break
			}
		}
	}
	p.selectBox.Refresh()
}

func (p *categoryPicker) SelectedID() string {
	index := p.selectBox.SelectedIndex()
	if index < 0 || index >= len(p.ids) {
		return ""
	}
	return p.ids[index]
}
