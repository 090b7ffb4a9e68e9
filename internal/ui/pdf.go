package ui

import (
	"fmt"
	"sort"
	"time"

	"github.com/johnfercher/maroto/pkg/color"
	"github.com/johnfercher/maroto/pkg/consts"
	"github.com/johnfercher/maroto/pkg/pdf"
	"github.com/johnfercher/maroto/pkg/props"

	"github.com/NathanMorier/ultimatetimer/internal/models"
	"github.com/NathanMorier/ultimatetimer/internal/service"
)

var tableGrid = []uint{3, 4, 2, 3}

// GeneratePDF writes a session report for the date range, optionally grouped
// by day or ISO week with per-group subtotals.
func GeneratePDF(path string, sessions []models.Session, categories *service.CategoryService, start, end time.Time, groupBy string) error {
	m := pdf.NewMaroto(consts.Portrait, consts.A4)
	m.SetPageMargins(20, 10, 20)

	m.RegisterHeader(func() {
		m.Row(10, func() {
			m.Col(12, func() {
				m.Text("Time Tracking Report", props.Text{
					Top:   3,
					Style: consts.Bold,
					Align: consts.Center,
					Size:  16,
				})
			})
		})
		m.Row(10, func() {
			m.Col(12, func() {
				dateRange := fmt.Sprintf("%s - %s", start.Format("2006-01-02"), end.Format("2006-01-02"))
				m.Text(dateRange, props.Text{
					Top:   3,
					Style: consts.Normal,
					Align: consts.Center,
					Size:  12,
				})
			})
		})
	})

	headers := []string{"Date", "Category", "Duration", "Note"}

	var totalSeconds int64
	for _, s := range sessions {
		totalSeconds += s.Duration
	}

	m.Row(10, func() {
		m.Col(12, func() {
			m.Text("Session History", props.Text{
				Top:   5,
				Style: consts.Bold,
				Size:  14,
			})
		})
	})

	tableProps := props.TableList{
		HeaderProp: props.TableListContent{
			Size:      10,
			GridSizes: tableGrid,
		},
		ContentProp: props.TableListContent{
			Size:      10,
			GridSizes: tableGrid,
		},
		Align:                consts.Center,
		AlternatedBackground: &color.Color{Red: 240, Green: 240, Blue: 240},
		HeaderContentSpace:   1,
		Line:                 false,
	}

	if groupBy == service.GroupByNone {
		m.TableList(headers, sessionRows(sessions, categories), tableProps)
	} else {
		groups := make(map[string][]models.Session)
		var keys []string
		for _, s := range sessions {
			key := service.GetGroupKey(s.StartTime, groupBy)
			if _, exists := groups[key]; !exists {
				keys = append(keys, key)
			}
			groups[key] = append(groups[key], s)
		}

		sort.Sort(sort.Reverse(sort.StringSlice(keys)))

		for _, key := range keys {
			groupSessions := groups[key]
			var groupTotal int64
			for _, s := range groupSessions {
				groupTotal += s.Duration
			}

			title := ""
			if len(groupSessions) > 0 {
				title = service.GetGroupTitle(groupSessions[0].StartTime, groupBy)
			}

			m.Row(10, func() {
				m.Col(12, func() {
					m.Text(title, props.Text{
						Top:   5,
						Style: consts.Bold,
						Size:  12,
						Align: consts.Left,
					})
				})
			})

			m.TableList(headers, sessionRows(groupSessions, categories), tableProps)

			m.Row(10, func() {
				m.Col(12, func() {
					m.Text(fmt.Sprintf("Subtotal: %s", FormatClock(groupTotal)), props.Text{
						Top:   0,
						Style: consts.Bold,
						Align: consts.Right,
						Size:  10,
					})
				})
			})

			m.Row(5, func() {})
		}
	}

	m.Row(20, func() {
		m.Col(12, func() {
			m.Text(fmt.Sprintf("Total Time: %s", FormatClock(totalSeconds)), props.Text{
				Top:   10,
				Style: consts.Bold,
				Align: consts.Right,
				Size:  12,
			})
		})
	})

	return m.OutputFileAndClose(path)
}

func sessionRows(sessions []models.Session, categories *service.CategoryService) [][]string {
	rows := [][]string{}
	for _, s := range sessions {
		rows = append(rows, []string{
			s.StartTime.Format("2006-01-02"),
			categoryTitle(categories, s.CategoryID),
			FormatClock(s.Duration),
			s.Note,
		})
	}
	return rows
}
