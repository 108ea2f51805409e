package plan

import (
	"time"
)

// WeekKey identifies the Sunday-start week containing t, as the local date of
// that Sunday in YYYY-MM-DD form.
func WeekKey(t time.Time, loc *time.Location) string {
	return WeekStart(t, loc).Format(time.DateOnly)
}

// WeekStart returns local midnight of the Sunday on or before t.
func WeekStart(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return midnight.AddDate(0, 0, -int(midnight.Weekday()))
}

// Completed is the ordered set of day tags finished in one week.
type Completed []string

// Contains reports whether tag was completed.
func (c Completed) Contains(tag string) bool {
	for _, t := range c {
		if t == tag {
			return true
		}
	}
	return false
}

// Add returns c with tag appended, unchanged when already present.
func (c Completed) Add(tag string) Completed {
	if tag == "" || c.Contains(tag) {
		return c
	}
	return append(c, tag)
}
