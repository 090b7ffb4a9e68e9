package ui

import (
	"fmt"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/NathanMorier/ultimatetimer/internal/models"
	"github.com/NathanMorier/ultimatetimer/internal/service"
)

// Calendar is the month-view tab: a day grid with per-category color
// indicators, and a per-day breakdown for the selected day.
type Calendar struct {
	sessions   *service.SessionService
	categories *service.CategoryService

	selectedMonth time.Time
	grid          *fyne.Container
	monthLabel    *widget.Label
	dayDetail     *fyne.Container
}

func NewCalendar(sessions *service.SessionService, categories *service.CategoryService) *Calendar {
	return &Calendar{
		sessions:   sessions,
		categories: categories,
	}
}

func (c *Calendar) MakeUI() fyne.CanvasObject {
	c.selectedMonth = monthStart(time.Now())
	c.monthLabel = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	c.grid = container.NewVBox()
	c.dayDetail = container.NewStack()

	header := container.NewHBox(
		widget.NewButtonWithIcon("", theme.NavigateBackIcon(), func() {
			c.selectedMonth = c.selectedMonth.AddDate(0, -1, 0)
			c.update()
		}),
		widget.NewButton("Today", func() {
			c.selectedMonth = monthStart(time.Now())
			c.update()
		}),
		widget.NewButtonWithIcon("", theme.NavigateNextIcon(), func() {
			c.selectedMonth = c.selectedMonth.AddDate(0, 1, 0)
			c.update()
		}),
		layout.NewSpacer(),
		c.monthLabel,
	)

	c.update()

	return container.NewBorder(header, nil, nil, nil,
		container.NewVScroll(container.NewVBox(c.grid, widget.NewSeparator(), c.dayDetail)))
}

func (c *Calendar) update() {
	year, month := c.selectedMonth.Year(), c.selectedMonth.Month()
	c.monthLabel.SetText(c.selectedMonth.Format("January 2006"))

	sessions := service.SessionsForMonth(c.sessions.Sessions(), year, month, time.Local)
	byDay := service.SessionsByDayOfMonth(sessions)

	weekdays := container.NewGridWithColumns(7)
	for _, name := range []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"} {
		weekdays.Add(widget.NewLabelWithStyle(name, fyne.TextAlignCenter, fyne.TextStyle{Bold: true}))
	}

	days := container.NewGridWithColumns(7)
	firstWeekday := int(c.selectedMonth.Weekday())
	for i := 0; i < firstWeekday; i++ {
		days.Add(layout.NewSpacer())
	}

	daysInMonth := c.selectedMonth.AddDate(0, 1, -1).Day()
	today := time.Now()
	for day := 1; day <= daysInMonth; day++ {
		day := day
		label := strconv.Itoa(day)
		if today.Day() == day && today.Month() == month && today.Year() == year {
			label = "[" + label + "]"
		}

		dayBtn := widget.NewButton(label, func() {
			c.showDayDetail(time.Date(year, month, day, 0, 0, 0, 0, time.Local))
		})

		cell := container.NewVBox(dayBtn)
		if daySessions := byDay[day]; len(daySessions) > 0 {
			cell.Add(c.dayIndicators(daySessions))
		}
		days.Add(cell)
	}

	c.grid.Objects = []fyne.CanvasObject{weekdays, days}
	c.grid.Refresh()
	c.dayDetail.Objects = nil
	c.dayDetail.Refresh()
}

// dayIndicators draws one color dot per category active on the day.
func (c *Calendar) dayIndicators(sessions []models.Session) fyne.CanvasObject {
	seen := map[string]bool{}
	dots := container.NewHBox(layout.NewSpacer())
	for _, s := range sessions {
		if seen[s.CategoryID] {
			continue
		}
		seen[s.CategoryID] = true

		hex := ""
		if category, ok := c.categories.ByID(s.CategoryID); ok {
			hex = category.Color
		}
		dot := canvas.NewCircle(parseHexColor(hex))
		dot.Resize(fyne.NewSize(8, 8))
		wrap := container.NewWithoutLayout(dot)
		wrap.Resize(fyne.NewSize(10, 10))
		dots.Add(wrap)
	}
	dots.Add(layout.NewSpacer())
	return dots
}

func (c *Calendar) showDayDetail(day time.Time) {
	sessions := service.SessionsForDay(c.sessions.Sessions(), day)
	if len(sessions) == 0 {
		c.dayDetail.Objects = []fyne.CanvasObject{
			widget.NewLabel(fmt.Sprintf("No activity on %s.", day.Format("Mon, 02 Jan 2006"))),
		}
		c.dayDetail.Refresh()
		return
	}

	stats, total := service.Aggregate(sessions, 24*3600, c.categories.ByID)

	detail := container.NewVBox(
		widget.NewLabelWithStyle(
			fmt.Sprintf("%s - %s tracked in %d sessions", day.Format("Mon, 02 Jan 2006"), FormatHuman(total), len(sessions)),
			fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
	)
	for _, stat := range stats {
		title := "Unknown Category"
		if stat.Category != nil {
			title = stat.Category.Title
		}
		detail.Add(widget.NewLabel(fmt.Sprintf("%s: %s (%d%% of tracked time, %d%% of day, %d sessions)",
			title, FormatHuman(stat.TotalSeconds), stat.Percentage, stat.PeriodShare, stat.SessionCount)))
	}

	c.dayDetail.Objects = []fyne.CanvasObject{detail}
	c.dayDetail.Refresh()
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
