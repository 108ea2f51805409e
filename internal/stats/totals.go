// Package stats holds the pure folds behind the history and profile screens.
// Every function is deterministic for a given input slice.
package stats

import (
	"alcyxob/liftlog/internal/domain"
	"math"
	"time"
)

// WeeklyWindow is how far back the weekly load looks.
const WeeklyWindow = 7 * 24 * time.Hour

// Totals summarises a list of workouts.
type Totals struct {
	WorkoutCount int `json:"workoutCount"`
	TotalMinutes int `json:"totalMinutes"`
	AvgMinutes   int `json:"avgMinutes"`
}

// ComputeTotals counts workouts and their minutes. The average is rounded and
// zero for an empty list.
func ComputeTotals(workouts []domain.Workout) Totals {
	t := Totals{WorkoutCount: len(workouts)}
	for _, w := range workouts {
		t.TotalMinutes += w.DurationMin
	}
	if t.WorkoutCount > 0 {
		t.AvgMinutes = int(math.Round(float64(t.TotalMinutes) / float64(t.WorkoutCount)))
	}
	return t
}

// WeeklyLoad is the lifted volume and set count of the trailing week.
type WeeklyLoad struct {
	Volume float64 `json:"volume"`
	Sets   int     `json:"sets"`
}

// Weekly sums volume and sets over workouts dated at or after now minus seven days.
func Weekly(workouts []domain.Workout, now time.Time) WeeklyLoad {
	cutoff := now.Add(-WeeklyWindow)
	var load WeeklyLoad
	for _, w := range workouts {
		if w.Date.Before(cutoff) {
			continue
		}
		load.Volume += w.Volume()
		load.Sets += w.SetCount()
	}
	return load
}

// ExerciseSummary is one line of a workout card.
type ExerciseSummary struct {
	ExerciseID string  `json:"exerciseId"`
	Name       string  `json:"name"`
	Sets       int     `json:"sets"`
	Volume     float64 `json:"volume"`
}

// WorkoutCard is the per-workout summary shown in history.
type WorkoutCard struct {
	WorkoutID   string            `json:"workoutId"`
	Date        time.Time         `json:"date"`
	DurationMin int               `json:"durationMin"`
	Exercises   []ExerciseSummary `json:"exercises"`
	TotalSets   int               `json:"totalSets"`
	Volume      float64           `json:"volume"`
}

// Card builds the summary for a single workout.
func Card(w domain.Workout) WorkoutCard {
	card := WorkoutCard{
		WorkoutID:   w.ID,
		Date:        w.Date,
		DurationMin: w.DurationMin,
		Exercises:   make([]ExerciseSummary, 0, len(w.Exercises)),
	}
	for _, e := range w.Exercises {
		line := ExerciseSummary{
			ExerciseID: e.ExerciseID,
			Name:       e.Name,
			Sets:       len(e.Sets),
			Volume:     e.Volume(),
		}
		card.Exercises = append(card.Exercises, line)
		card.TotalSets += line.Sets
		card.Volume += line.Volume
	}
	return card
}

// Cards maps Card over workouts, keeping order.
func Cards(workouts []domain.Workout) []WorkoutCard {
	cards := make([]WorkoutCard, 0, len(workouts))
	for _, w := range workouts {
		cards = append(cards, Card(w))
	}
	return cards
}
