package stats

import (
	"alcyxob/liftlog/internal/domain"
	"fmt"
	"time"
)

// View is the calendar window granularity.
type View string

const (
	ViewWeek  View = "week"
	ViewMonth View = "month"
	ViewYear  View = "year"
)

// ParseView validates a view name; empty means month.
func ParseView(s string) (View, error) {
	switch View(s) {
	case "":
		return ViewMonth, nil
	case ViewWeek, ViewMonth, ViewYear:
		return View(s), nil
	}
	return "", fmt.Errorf("unknown calendar view %q", s)
}

// CalendarDay is one cell of a week or month view.
type CalendarDay struct {
	Date       string `json:"date"`
	Day        int    `json:"day"`
	Weekday    string `json:"weekday"`
	HasWorkout bool   `json:"hasWorkout"`
	Workouts   int    `json:"workouts"`
	IsToday    bool   `json:"isToday"`
}

// MonthBucket is one cell of the year view.
type MonthBucket struct {
	Month    int    `json:"month"`
	Label    string `json:"label"`
	Workouts int    `json:"workouts"`
}

// Calendar is an annotated window of days or months.
type Calendar struct {
	View   View          `json:"view"`
	Start  string        `json:"start"`
	End    string        `json:"end"`
	Days   []CalendarDay `json:"days,omitempty"`
	Months []MonthBucket `json:"months,omitempty"`
}

// BuildCalendar annotates the window around anchor. Workouts are matched by
// their local calendar day in loc, so time of day never matters. The year view
// always covers the year of now.
func BuildCalendar(view View, anchor, now time.Time, workouts []domain.Workout, loc *time.Location) Calendar {
	if loc == nil {
		loc = time.UTC
	}
	perDay := make(map[string]int, len(workouts))
	for _, w := range workouts {
		perDay[localDate(w.Date, loc)]++
	}
	today := localDate(now, loc)

	switch view {
	case ViewYear:
		return yearView(now.In(loc).Year(), workouts, loc)
	case ViewWeek:
		start := startOfDay(anchor, loc)
		start = start.AddDate(0, 0, -int(start.Weekday()))
		return dayView(ViewWeek, start, 7, perDay, today)
	default:
		a := anchor.In(loc)
		start := time.Date(a.Year(), a.Month(), 1, 0, 0, 0, 0, loc)
		days := start.AddDate(0, 1, -1).Day()
		return dayView(ViewMonth, start, days, perDay, today)
	}
}

func dayView(view View, start time.Time, n int, perDay map[string]int, today string) Calendar {
	cal := Calendar{View: view, Days: make([]CalendarDay, 0, n)}
	for i := 0; i < n; i++ {
		d := start.AddDate(0, 0, i)
		key := d.Format(time.DateOnly)
		cal.Days = append(cal.Days, CalendarDay{
			Date:       key,
			Day:        d.Day(),
			Weekday:    d.Weekday().String()[:3],
			HasWorkout: perDay[key] > 0,
			Workouts:   perDay[key],
			IsToday:    key == today,
		})
	}
	cal.Start = cal.Days[0].Date
	cal.End = cal.Days[len(cal.Days)-1].Date
	return cal
}

func yearView(year int, workouts []domain.Workout, loc *time.Location) Calendar {
	cal := Calendar{
		View:   ViewYear,
		Start:  fmt.Sprintf("%04d-01-01", year),
		End:    fmt.Sprintf("%04d-12-31", year),
		Months: make([]MonthBucket, 12),
	}
	for m := range cal.Months {
		cal.Months[m] = MonthBucket{Month: m + 1, Label: time.Month(m + 1).String()[:3]}
	}
	for _, w := range workouts {
		d := w.Date.In(loc)
		if d.Year() != year {
			continue
		}
		cal.Months[d.Month()-1].Workouts++
	}
	return cal
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	l := t.In(loc)
	return time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, loc)
}

func localDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(time.DateOnly)
}
