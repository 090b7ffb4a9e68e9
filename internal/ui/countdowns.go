package ui

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/NathanMorier/ultimatetimer/internal/engine"
	"github.com/NathanMorier/ultimatetimer/internal/models"
	"github.com/NathanMorier/ultimatetimer/internal/service"
)

// Countdowns is the countdown tab. Unlike the timer tab it does not poll:
// the coordinator pushes the full collection to this view on every tick and
// mutation, so the list always renders the same state every other surface
// sees.
type Countdowns struct {
	engine        *engine.CountdownEngine
	categories    *service.CategoryService
	countdownList []models.ActiveCountdown
	picker        *categoryPicker
	handle        int
	list          *widget.List
}

func NewCountdowns(e *engine.CountdownEngine, categories *service.CategoryService) *Countdowns {
	return &Countdowns{engine: e, categories: categories}
}

func (c *Countdowns) MakeUI() fyne.CanvasObject {
	c.picker = newCategoryPicker(c.categories)

	noteEntry := widget.NewEntry()
	noteEntry.PlaceHolder = "Add a note for this countdown..."

	hoursEntry := newDigitsEntry("Hours")
	minutesEntry := newDigitsEntry("Minutes")
	secondsEntry := newDigitsEntry("Seconds")

	startBtn := widget.NewButtonWithIcon("Start Countdown", theme.MediaPlayIcon(), func() {
		total := entrySeconds(hoursEntry)*3600 + entrySeconds(minutesEntry)*60 + entrySeconds(secondsEntry)
		if _, err := c.engine.Start(c.picker.SelectedID(), total, noteEntry.Text); err != nil {
			dialog.ShowError(err, mainWindow())
			return
		}
		noteEntry.SetText("")
		hoursEntry.SetText("")
		minutesEntry.SetText("")
		secondsEntry.SetText("")
	})

	c.list = widget.NewList(
		func() int { return len(c.countdownList) },
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
			if i >= len(c.countdownList) {
				return
			}
			countdown := c.countdownList[i]
			box := o.(*fyne.Container)
			title := box.Objects[0].(*widget.Label)
			right := box.Objects[1].(*fyne.Container)
			dur := right.Objects[0].(*widget.Label)
			pauseBtn := right.Objects[1].(*widget.Button)
			noteBtn := right.Objects[2].(*widget.Button)
			stopBtn := right.Objects[3].(*widget.Button)

			title.SetText(categoryTitle(c.categories, countdown.CategoryID) + countdownSuffix(countdown))

			switch {
			case countdown.ShowOverlay:
				dur.SetText("--:--:--")
				dur.TextStyle = fyne.TextStyle{Italic: true}
			default:
				dur.SetText(FormatClock(c.engine.RemainingFor(countdown)))
				dur.TextStyle = fyne.TextStyle{Italic: countdown.IsPaused}
			}

			if countdown.IsComplete {
				pauseBtn.Disable()
				stopBtn.SetIcon(theme.ConfirmIcon())
				stopBtn.OnTapped = func() { c.engine.RemoveCompleted(countdown.ID) }
			} else {
				pauseBtn.Enable()
				stopBtn.SetIcon(theme.MediaStopIcon())
				stopBtn.OnTapped = func() { c.engine.Stop(countdown.ID) }
				if countdown.IsPaused {
					pauseBtn.SetIcon(theme.MediaPlayIcon())
					pauseBtn.OnTapped = func() { c.engine.Resume(countdown.ID) }
				} else {
					pauseBtn.SetIcon(theme.MediaPauseIcon())
					pauseBtn.OnTapped = func() { c.engine.Pause(countdown.ID) }
				}
			}
			noteBtn.OnTapped = func() {
				showNoteDialog(countdown.Note, func(note string) {
					c.engine.UpdateNote(countdown.ID, note)
				})
			}
		},
	)

	c.countdownList = c.engine.ActiveCountdowns()
	c.handle = c.engine.Subscribe(func(snapshot []models.ActiveCountdown) {
		fyne.Do(func() {
			c.countdownList = snapshot
			c.picker.Reload()
			c.list.Refresh()
		})
	})

	durationRow := container.NewGridWithColumns(3, hoursEntry, minutesEntry, secondsEntry)
	form := container.NewVBox(
		widget.NewLabelWithStyle("Start New Countdown", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		c.picker.Widget(),
		durationRow,
		container.NewBorder(nil, nil, nil, startBtn, noteEntry),
	)

	return container.NewBorder(form, nil, nil, nil, c.list)
}

// ShowCompletionModal is registered with the coordinator as its modal hook.
// Dismissing the modal removes the completed countdown from the active set.
func (c *Countdowns) ShowCompletionModal(countdown models.ActiveCountdown) {
	fyne.Do(func() {
		message := "Your countdown has finished!"
		if category, ok := c.categories.ByID(countdown.CategoryID); ok {
			message = fmt.Sprintf("Your %s countdown has finished!", category.Title)
		}

		content := container.NewVBox(widget.NewLabel(message))
		if countdown.Note != "" {
			note := widget.NewLabel("“" + countdown.Note + "”")
			note.TextStyle = fyne.TextStyle{Italic: true}
			content.Add(note)
		}

		d := dialog.NewCustom("Countdown Complete!", "OK", content, mainWindow())
		d.SetOnClosed(func() {
			c.engine.RemoveCompleted(countdown.ID)
		})
		d.Show()
	})
}

// Close unregisters this view from the coordinator.
func (c *Countdowns) Close() {
	c.engine.Unsubscribe(c.handle)
}

func countdownSuffix(countdown models.ActiveCountdown) string {
	switch {
	case countdown.IsComplete:
		return " (DONE)"
	case countdown.IsPaused:
		return " (PAUSED)"
	default:
		return ""
	}
}

func newDigitsEntry(placeholder string) *widget.Entry {
	entry := widget.NewEntry()
	entry.PlaceHolder = placeholder
	return entry
}

func entrySeconds(entry *widget.Entry) int64 {
	value, err := strconv.ParseInt(entry.Text, 10, 64)
	if err != nil || value < 0 {
		return 0
	}
	return value
}
