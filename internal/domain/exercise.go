// internal/domain/exercise.go
package domain

import (
	"time"
)

// MuscleGroup is one of the fixed muscle tags an exercise can target.
type MuscleGroup string

const (
	MuscleGluteusMaximus      MuscleGroup = "gluteusMaximus"
	MuscleGluteusMedius       MuscleGroup = "gluteusMedius"
	MusclePosteriorChain      MuscleGroup = "posteriorChain"
	MuscleHamstrings          MuscleGroup = "hamstrings"
	MuscleAdductorsInnerThigh MuscleGroup = "adductorsInnerThigh"
	MuscleQuadriceps          MuscleGroup = "quadriceps"
	MuscleCalves              MuscleGroup = "calves"
	MuscleDeltoids            MuscleGroup = "deltoids"
	MuscleAnteriorDeltoid     MuscleGroup = "anteriorDeltoid"
	MuscleTriceps             MuscleGroup = "triceps"
	MuscleBiceps              MuscleGroup = "biceps"
	MusclePecMajorUpper       MuscleGroup = "pecMajorUpper"
	MusclePecMajorMid         MuscleGroup = "pecMajorMid"
	MusclePecMajorLower       MuscleGroup = "pecMajorLower"
	MusclePecMinor            MuscleGroup = "pecMinor"
	MuscleLatissimusDorsi     MuscleGroup = "latissimusDorsi"
	MuscleRhomboids           MuscleGroup = "rhomboids"
	MuscleLowerBack           MuscleGroup = "lowerBack"
	MuscleLowerAbs            MuscleGroup = "lowerAbs"
	MuscleUpperAbs            MuscleGroup = "upperAbs"
	MuscleObliques            MuscleGroup = "obliques"
	MuscleTransverseAbdominis MuscleGroup = "transverseAbdominis"
)

// MuscleGroups lists every valid muscle tag in display order.
var MuscleGroups = []MuscleGroup{
	MuscleGluteusMaximus, MuscleGluteusMedius, MusclePosteriorChain, MuscleHamstrings,
	MuscleAdductorsInnerThigh, MuscleQuadriceps, MuscleCalves, MuscleDeltoids,
	MuscleAnteriorDeltoid, MuscleTriceps, MuscleBiceps, MusclePecMajorUpper,
	MusclePecMajorMid, MusclePecMajorLower, MusclePecMinor, MuscleLatissimusDorsi,
	MuscleRhomboids, MuscleLowerBack, MuscleLowerAbs, MuscleUpperAbs,
	MuscleObliques, MuscleTransverseAbdominis,
}

// Valid reports whether m is a known muscle tag.
func (m MuscleGroup) Valid() bool {
	for _, known := range MuscleGroups {
		if m == known {
			return true
		}
	}
	return false
}

// TrainingDay is one of the fixed training-day tags. Plan days reference
// these through their Tag field.
type TrainingDay string

const (
	DayLegsGlutes       TrainingDay = "legsGlutesDay"
	DayShouldersArms    TrainingDay = "shouldersArmsDay"
	DayBack             TrainingDay = "backDay"
	DayChestArms        TrainingDay = "chestArmsDay"
	DayGlutesHamstrings TrainingDay = "glutesHamstringsDay"
	DayAbsCore          TrainingDay = "absCoreDay"
)

// TrainingDays lists every valid training-day tag.
var TrainingDays = []TrainingDay{
	DayLegsGlutes, DayShouldersArms, DayBack, DayChestArms, DayGlutesHamstrings, DayAbsCore,
}

var trainingDayLabels = map[TrainingDay]string{
	DayLegsGlutes:       "Legs & Glutes Day",
	DayShouldersArms:    "Shoulders & Arms Day",
	DayBack:             "Back Day",
	DayChestArms:        "Chest & Arms Day",
	DayGlutesHamstrings: "Glutes & Hamstrings Day",
	DayAbsCore:          "Abs & Core Day",
}

// Valid reports whether d is a known training-day tag.
func (d TrainingDay) Valid() bool {
	_, ok := trainingDayLabels[d]
	return ok
}

// Label returns the human readable name, or the raw tag for unknown values.
func (d TrainingDay) Label() string {
	if label, ok := trainingDayLabels[d]; ok {
		return label
	}
	return string(d)
}

// DefaultExerciseDescription is used when a catalog entry carries no text.
const DefaultExerciseDescription = "No description provided."

// Exercise represents a single exercise definition in the catalog.
type Exercise struct {
	ID                string        `bson:"_id,omitempty" json:"id"`
	Name              string        `bson:"name" json:"name"`
	Description       string        `bson:"description" json:"description"`
	ImageURL          string        `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	VideoURL          string        `bson:"videoUrl,omitempty" json:"videoUrl,omitempty"`
	MajorMuscleGroups []MuscleGroup `bson:"majorMuscleGroups" json:"majorMuscleGroups"`
	TrainingDays      []TrainingDay `bson:"trainingDays" json:"trainingDays"`
	// IsActive is nil for legacy rows; those count as active.
	IsActive  *bool     `bson:"isActive,omitempty" json:"isActive,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Active reports whether the exercise should show up in searches.
func (e *Exercise) Active() bool {
	return e.IsActive == nil || *e.IsActive
}

// HasTrainingDay reports whether the exercise is tagged with day.
func (e *Exercise) HasTrainingDay(day string) bool {
	for _, d := range e.TrainingDays {
		if string(d) == day {
			return true
		}
	}
	return false
}

// HasMuscleGroup reports whether the exercise targets m.
func (e *Exercise) HasMuscleGroup(m MuscleGroup) bool {
	for _, g := range e.MajorMuscleGroups {
		if g == m {
			return true
		}
	}
	return false
}
