package domain

import (
	"strings"
	"time"
)

// WeightUnit is the unit a set's weight was recorded in.
type WeightUnit string

const (
	UnitKg WeightUnit = "kg"
	UnitLb WeightUnit = "lb"
)

// ParseWeightUnit maps user or stored input onto a unit. Anything that is not
// pounds is treated as kilograms.
func ParseWeightUnit(s string) WeightUnit {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lb", "lbs":
		return UnitLb
	default:
		return UnitKg
	}
}

// Set is a single recorded set. A nil Weight means bodyweight.
type Set struct {
	Reps       int        `bson:"reps" json:"reps"`
	Weight     *float64   `bson:"weight,omitempty" json:"weight,omitempty"`
	WeightUnit WeightUnit `bson:"weightUnit" json:"weightUnit"`
}

// Volume is reps × weight, zero when no weight was recorded.
func (s Set) Volume() float64 {
	if s.Weight == nil {
		return 0
	}
	return float64(s.Reps) * *s.Weight
}

// WorkoutExercise is one exercise performed inside a workout. The name is
// denormalised so history stays readable after catalog edits.
type WorkoutExercise struct {
	ExerciseID string `bson:"exerciseId" json:"exerciseId"`
	Name       string `bson:"name" json:"name"`
	Sets       []Set  `bson:"sets" json:"sets"`
}

// Volume sums the volume of all sets.
func (e WorkoutExercise) Volume() float64 {
	var total float64
	for _, s := range e.Sets {
		total += s.Volume()
	}
	return total
}

// Workout is a completed and saved training session. Workouts are never
// edited after insert, only deleted.
type Workout struct {
	ID          string            `bson:"_id,omitempty" json:"id"`
	UserID      string            `bson:"userId" json:"userId"`
	Date        time.Time         `bson:"date" json:"date"`
	StartedAt   time.Time         `bson:"startedAt" json:"startedAt"`
	EndedAt     time.Time         `bson:"endedAt" json:"endedAt"`
	DurationMin int               `bson:"durationMin" json:"durationMin"`
	Exercises   []WorkoutExercise `bson:"exercises" json:"exercises"`
}

// Volume sums the volume of every exercise in the workout.
func (w Workout) Volume() float64 {
	var total float64
	for _, e := range w.Exercises {
		total += e.Volume()
	}
	return total
}

// SetCount returns the number of sets across all exercises.
func (w Workout) SetCount() int {
	n := 0
	for _, e := range w.Exercises {
		n += len(e.Sets)
	}
	return n
}

// LastSetFor returns the final set logged for exerciseID in this workout.
func (w Workout) LastSetFor(exerciseID string) (Set, bool) {
	for _, e := range w.Exercises {
		if e.ExerciseID == exerciseID && len(e.Sets) > 0 {
			return e.Sets[len(e.Sets)-1], true
		}
	}
	return Set{}, false
}
