package stats

import (
	"alcyxob/liftlog/internal/domain"
	"fmt"
	"time"
)

// Streak is the run of consecutive training days.
type Streak struct {
	Days  int    `json:"days"`
	Label string `json:"label"`
}

// CurrentStreak counts consecutive local days with at least one workout,
// ending today, or yesterday when nothing has been logged today yet.
func CurrentStreak(workouts []domain.Workout, now time.Time, loc *time.Location) Streak {
	if loc == nil {
		loc = time.UTC
	}
	trained := make(map[string]bool, len(workouts))
	for _, w := range workouts {
		trained[localDate(w.Date, loc)] = true
	}

	day := startOfDay(now, loc)
	if !trained[day.Format(time.DateOnly)] {
		day = day.AddDate(0, 0, -1)
	}

	n := 0
	for trained[day.Format(time.DateOnly)] {
		n++
		day = day.AddDate(0, 0, -1)
	}

	return Streak{Days: n, Label: fmt.Sprintf("%d-day streak", n)}
}
