// Package catalog talks to the ExerciseDB search API and maps both remote and
// local exercises onto a single list item shape.
package catalog

import (
	"alcyxob/liftlog/internal/domain"
	"strings"
)

// Sources a search can run against.
const (
	SourceAPI   = "api"
	SourceLocal = "local"
)

// Item is one row of a catalog search result.
type Item struct {
	ID                string   `json:"id,omitempty"`
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	Muscle            string   `json:"muscle,omitempty"`
	Type              string   `json:"type,omitempty"`
	Image             string   `json:"image,omitempty"`
	Video             string   `json:"video,omitempty"`
	Targets           []string `json:"targets,omitempty"`
	SecondaryTargets  []string `json:"secondaryTargets,omitempty"`
	BodyParts         []string `json:"bodyParts,omitempty"`
	Equipments        []string `json:"equipments,omitempty"`
	MajorMuscleGroups []string `json:"majorMuscleGroups,omitempty"`
	TrainingDays      []string `json:"trainingDays,omitempty"`
}

// FromExercise maps a stored exercise onto a list item.
func FromExercise(e domain.Exercise) Item {
	item := Item{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		Image:       e.ImageURL,
		Video:       e.VideoURL,
	}
	if item.Description == "" {
		item.Description = domain.DefaultExerciseDescription
	}
	for _, m := range e.MajorMuscleGroups {
		item.MajorMuscleGroups = append(item.MajorMuscleGroups, string(m))
	}
	for _, d := range e.TrainingDays {
		item.TrainingDays = append(item.TrainingDays, string(d))
	}
	if len(item.MajorMuscleGroups) > 0 {
		item.Muscle = item.MajorMuscleGroups[0]
	}
	if len(item.TrainingDays) > 0 {
		item.Type = item.TrainingDays[0]
	}
	return item
}

// FromExercises maps FromExercise over a slice.
func FromExercises(exercises []domain.Exercise) []Item {
	items := make([]Item, 0, len(exercises))
	for _, e := range exercises {
		items = append(items, FromExercise(e))
	}
	return items
}

// FilterByTrainingDay keeps items tagged with day. An empty day keeps everything.
func FilterByTrainingDay(items []Item, day string) []Item {
	return filter(items, day, func(it Item) []string { return it.TrainingDays })
}

// FilterByMuscleGroup keeps items whose major muscle groups or API targets
// contain muscle, compared case-insensitively.
func FilterByMuscleGroup(items []Item, muscle string) []Item {
	return filter(items, muscle, func(it Item) []string {
		return append(append([]string{}, it.MajorMuscleGroups...), it.Targets...)
	})
}

func filter(items []Item, want string, values func(Item) []string) []Item {
	want = strings.TrimSpace(want)
	if want == "" {
		return items
	}
	out := []Item{}
	for _, it := range items {
		for _, v := range values(it) {
			if strings.EqualFold(v, want) {
				out = append(out, it)
				break
			}
		}
	}
	return out
}
