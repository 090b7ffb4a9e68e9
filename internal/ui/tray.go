package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"github.com/NathanMorier/ultimatetimer/internal/engine"
)

// SetupTray installs the system tray menu and makes the close button hide
// the window instead of quitting, so the engines keep ticking.
func SetupTray(a fyne.App, w fyne.Window, icon fyne.Resource, timers *engine.TimerEngine, countdowns *engine.CountdownEngine) {
	if desk, ok := a.(desktop.App); ok {
		m := fyne.NewMenu("Ultimate Timer",
			fyne.NewMenuItem("Show", func() {
				w.Show()
			}),
			fyne.NewMenuItem("Stop All Timers", func() {
				for _, timer := range timers.ActiveTimers() {
					timers.Stop(timer.ID)
				}
			}),
			fyne.NewMenuItem("Stop All Countdowns", func() {
				for _, countdown := range countdowns.ActiveCountdowns() {
					if countdown.IsComplete {
						countdowns.RemoveCompleted(countdown.ID)
					} else {
						countdowns.Stop(countdown.ID)
					}
				}
			}),
			fyne.NewMenuItemSeparator(),
			fyne.NewMenuItem("Quit", func() {
				a.Quit()
			}),
		)
		desk.SetSystemTrayMenu(m)
		if icon != nil {
			desk.SetSystemTrayIcon(icon)
		}
	}

	w.SetCloseIntercept(func() {
		w.Hide()
	})
}
