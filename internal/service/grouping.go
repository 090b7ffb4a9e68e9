package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/NathanMorier/ultimatetimer/internal/models"
)

const (
	GroupByNone = "None"
	GroupByDay  = "Daily"
	GroupByWeek = "Weekly"
)

// SessionsForRange filters sessions whose start falls inside [start, end].
func SessionsForRange(sessions []models.Session, start, end time.Time) []models.Session {
	filtered := []models.Session{}
	for _, s := range sessions {
		if !s.StartTime.Before(start) && !s.StartTime.After(end) {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

// SessionsForMonth returns the sessions of a calendar month.
func SessionsForMonth(sessions []models.Session, year int, month time.Month, loc *time.Location) []models.Session {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return SessionsForRange(sessions, start, end)
}

// SessionsForDay returns the sessions of a single day.
func SessionsForDay(sessions []models.Session, day time.Time) []models.Session {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return SessionsForRange(sessions, start, end)
}

// SessionsByDayOfMonth buckets a month's sessions by day number, for the
// calendar grid indicators.
func SessionsByDayOfMonth(sessions []models.Session) map[int][]models.Session {
	byDay := make(map[int][]models.Session)
	for _, s := range sessions {
		day := s.StartTime.Day()
		byDay[day] = append(byDay[day], s)
	}
	return byDay
}

// CategoryStat aggregates one category's share of a period.
type CategoryStat struct {
	CategoryID      string
	Category        *models.Category // nil when the category was deleted
	TotalSeconds    int64
	SessionCount    int
	Percentage      int // share of tracked time
	PeriodShare     int // share of the whole period
	AveragePerCount int64
}

// Aggregate computes per-category totals over sessions, sorted by total
// descending. periodSeconds sizes the share-of-period percentage; pass 0 to
// skip it. lookup resolves category ids; deleted categories still aggregate
// with a nil Category so callers can render a placeholder.
func Aggregate(sessions []models.Session, periodSeconds int64, lookup func(id string) (models.Category, bool)) (stats []CategoryStat, totalSeconds int64) {
	byCategory := make(map[string]*CategoryStat)
	order := []string{}

	for _, s := range sessions {
		stat, ok := byCategory[s.CategoryID]
		if !ok {
			stat = &CategoryStat{CategoryID: s.CategoryID}
			if category, found := lookup(s.CategoryID); found {
				c := category
				stat.Category = &c
			}
			byCategory[s.CategoryID] = stat
			order = append(order, s.CategoryID)
		}
		stat.TotalSeconds += s.Duration
		stat.SessionCount++
		totalSeconds += s.Duration
	}

	for _, id := range order {
		stat := byCategory[id]
		stat.Percentage = Percentage(stat.TotalSeconds, totalSeconds)
		if periodSeconds > 0 {
			stat.PeriodShare = Percentage(stat.TotalSeconds, periodSeconds)
		}
		if stat.SessionCount > 0 {
			stat.AveragePerCount = stat.TotalSeconds / int64(stat.SessionCount)
		}
		stats = append(stats, *stat)
	}

	sort.Slice(stats, func(i, j int) bool {
		return stats[i].TotalSeconds > stats[j].TotalSeconds
	})
	return stats, totalSeconds
}

// Percentage is value/total rounded to the nearest whole percent.
func Percentage(value, total int64) int {
	if total == 0 {
		return 0
	}
	return int(float64(value)/float64(total)*100 + 0.5)
}

// SecondsInMonth is the full length of a calendar month in seconds.
func SecondsInMonth(year int, month time.Month, loc *time.Location) int64 {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return int64(start.AddDate(0, 1, 0).Sub(start) / time.Second)
}

// GetWeekRange returns the Monday and Sunday containing t.
func GetWeekRange(t time.Time) (time.Time, time.Time) {
	offset := int(t.Weekday())
	if offset == 0 {
		offset = 7
	}
	start := t.AddDate(0, 0, -offset+1)
	end := start.AddDate(0, 0, 6)
	return start, end
}

func GetGroupKey(t time.Time, groupBy string) string {
	if groupBy == GroupByDay {
		return t.Format("2006-01-02")
	} else if groupBy == GroupByWeek {
		year, week := t.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	}
	return ""
}

func GetGroupTitle(t time.Time, groupBy string) string {
	if groupBy == GroupByDay {
		return t.Format("Monday, 02 Jan 2006")
	} else if groupBy == GroupByWeek {
		start, end := GetWeekRange(t)
		return fmt.Sprintf("%s - %s", start.Format("Jan 02"), end.Format("Jan 02, 2006"))
	}
	return ""
}
