package ui

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/NathanMorier/ultimatetimer/internal/service"
)

// Analytics is the monthly breakdown tab: per-category totals, shares of
// tracked time and of the whole month, and the untracked remainder.
type Analytics struct {
	sessions   *service.SessionService
	categories *service.CategoryService

	selectedMonth time.Time
	monthLabel    *widget.Label
	content       *fyne.Container
}

func NewAnalytics(sessions *service.SessionService, categories *service.CategoryService) *Analytics {
	return &Analytics{sessions: sessions, categories: categories}
}

func (a *Analytics) MakeUI() fyne.CanvasObject {
	a.selectedMonth = monthStart(time.Now())
	a.monthLabel = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	a.content = container.NewStack()

	header := container.NewHBox(
		widget.NewButtonWithIcon("", theme.NavigateBackIcon(), func() {
			a.selectedMonth = a.selectedMonth.AddDate(0, -1, 0)
			a.update()
		}),
		widget.NewButton("This Month", func() {
			a.selectedMonth = monthStart(time.Now())
			a.update()
		}),
		widget.NewButtonWithIcon("", theme.NavigateNextIcon(), func() {
			a.selectedMonth = a.selectedMonth.AddDate(0, 1, 0)
			a.update()
		}),
		layout.NewSpacer(),
		a.monthLabel,
		widget.NewButtonWithIcon("", theme.ViewRefreshIcon(), func() {
			a.update()
		}),
	)

	a.update()

	return container.NewBorder(header, nil, nil, nil, container.NewVScroll(a.content))
}

func (a *Analytics) update() {
	year, month := a.selectedMonth.Year(), a.selectedMonth.Month()
	a.monthLabel.SetText("Analytics for " + a.selectedMonth.Format("January 2006"))

	sessions := service.SessionsForMonth(a.sessions.Sessions(), year, month, time.Local)
	monthSeconds := service.SecondsInMonth(year, month, time.Local)
	stats, totalTracked := service.Aggregate(sessions, monthSeconds, a.categories.ByID)

	summary := widget.NewLabel(fmt.Sprintf(
		"Total Time: %s    Sessions: %d    Categories Used: %d",
		FormatHuman(totalTracked), len(sessions), len(stats)))
	summary.TextStyle = fyne.TextStyle{Bold: true}

	breakdown := container.NewVBox(summary, widget.NewSeparator())

	for _, stat := range stats {
		title := "Unknown Category"
		hex := ""
		if stat.Category != nil {
			title = stat.Category.Title
			hex = stat.Category.Color
		}

		swatch := canvas.NewRectangle(parseHexColor(hex))
		swatch.SetMinSize(fyne.NewSize(12, 12))

		row := container.NewBorder(nil, nil, swatch, nil, container.NewVBox(
			widget.NewLabelWithStyle(title, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			widget.NewLabel(fmt.Sprintf(
				"%s - %d%% of tracked time, %d%% of month, %d sessions, avg %s",
				FormatHuman(stat.TotalSeconds), stat.Percentage, stat.PeriodShare,
				stat.SessionCount, FormatHuman(stat.AveragePerCount))),
		))
		breakdown.Add(row)
	}

	if untracked := monthSeconds - totalTracked; untracked > 0 {
		breakdown.Add(widget.NewSeparator())
		untrackedLabel := widget.NewLabel(fmt.Sprintf(
			"Untracked Time: %s (%d%% of month)",
			FormatHuman(untracked), service.Percentage(untracked, monthSeconds)))
		untrackedLabel.TextStyle = fyne.TextStyle{Italic: true}
		breakdown.Add(untrackedLabel)
	}

	if len(sessions) == 0 {
		breakdown.Add(widget.NewLabel("No data available for this month."))
	}

	a.content.Objects = []fyne.CanvasObject{breakdown}
	a.content.Refresh()
}
