// Package plan holds the weekly training schedule and its editing rules.
package plan

import (
	"alcyxob/liftlog/internal/domain"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultDayLabel = "New Day"
	DefaultFocus    = "Training Day"

	maxSlugLength = 40
)

var ErrDayNotFound = errors.New("plan day not found")

// Palette is the set of card colours assigned to new days.
var Palette = []string{"#F2E8FF", "#E8F3FF", "#E9FBF2", "#FFF4E5", "#E8F7FF", "#FFF0F2", "#E7ECFF"}

// DefaultDays is the schedule a user starts with: Monday to Saturday, one
// catalog training day each.
func DefaultDays() []domain.PlanDay {
	return []domain.PlanDay{
		{ID: "plan-mon", DayLabel: "Monday", Tag: string(domain.DayLegsGlutes), Focus: "Legs / Glutes",
			Exercises: []string{"Hip thrusts - 4x20", "Cable kickbacks - 3x12", "Squats (Smith) - 4x10"}, Color: "#F2E8FF"},
		{ID: "plan-tue", DayLabel: "Tuesday", Tag: string(domain.DayShouldersArms), Focus: "Shoulders / Arms",
			Exercises: []string{"Pushup machine - 4x10", "Arnold press - 4x10", "Cable curl - 4x15"}, Color: "#E8F3FF"},
		{ID: "plan-wed", DayLabel: "Wednesday", Tag: string(domain.DayBack), Focus: "Back",
			Exercises: []string{"Lat pulldown - 4x20", "Cable row - 4x20", "Upright row - 3x12"}, Color: "#E9FBF2"},
		{ID: "plan-thu", DayLabel: "Thursday", Tag: string(domain.DayChestArms), Focus: "Chest / Arms",
			Exercises: []string{"Incline bench - 4x10", "Chest fly - 4x12", "Triceps dips - 4x15"}, Color: "#FFF4E5"},
		{ID: "plan-fri", DayLabel: "Friday", Tag: string(domain.DayGlutesHamstrings), Focus: "Glutes / Hamstrings",
			Exercises: []string{"Bulgarian split squat - 3x10", "Romanian deadlift - 4x12", "Sumo squat - 3x15"}, Color: "#E8F7FF"},
		{ID: "plan-sat", DayLabel: "Saturday", Tag: string(domain.DayAbsCore), Focus: "Abs / Core",
			Exercises: []string{"Captain's chair - 3x30", "Cable crunch - 3x30", "Plank - 3x30 sec"}, Color: "#FFF0F2"},
	}
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slug lower-cases text, collapses every run of non-alphanumerics into one
// hyphen, strips leading and trailing hyphens and truncates to 40 characters.
func Slug(text string) string {
	s := nonSlug.ReplaceAllString(strings.ToLower(text), "-")
	s = strings.Trim(s, "-")
	if len(s) > maxSlugLength {
		s = s[:maxSlugLength]
	}
	return s
}

// FallbackTag is the tag used when no candidate produces a usable slug.
func FallbackTag(now time.Time) string {
	return fmt.Sprintf("plan-%d", now.UnixMilli())
}

// DeriveTag picks the tag for a day from, in priority order, the explicit
// value, the day label and the focus, then the timestamp fallback. A value that
// is already a catalog training day is kept verbatim.
func DeriveTag(value, dayLabel, focus string, now time.Time) string {
	if v := strings.TrimSpace(value); domain.TrainingDay(v).Valid() {
		return v
	}
	for _, candidate := range []string{value, dayLabel, focus} {
		if s := Slug(candidate); s != "" {
			return s
		}
	}
	return FallbackTag(now)
}

// PickColor hashes label onto the palette.
func PickColor(label string) string {
	sum := 0
	for _, r := range label {
		sum += int(r)
	}
	return Palette[sum%len(Palette)]
}

// ParseExerciseLines splits free text into trimmed, non-empty lines.
func ParseExerciseLines(text string) []string {
	lines := []string{}
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// Form is the user input for creating or editing a day. An empty ID creates.
type Form struct {
	ID        string   `json:"id"`
	DayLabel  string   `json:"dayLabel"`
	Value     string   `json:"value"`
	Focus     string   `json:"focus"`
	Exercises []string `json:"exercises"`
	Color     string   `json:"color"`
}

// Removed is the single-slot undo buffer for deleted days.
type Removed struct {
	Day   domain.PlanDay `json:"day"`
	Index int            `json:"index"`
}

// Plan is an ordered weekly schedule with one level of delete undo.
type Plan struct {
	Days []domain.PlanDay
	Undo *Removed

	now   func() time.Time
	newID func() string
}

// New wraps days. A nil slice yields the default schedule.
func New(days []domain.PlanDay) *Plan {
	if days == nil {
		days = DefaultDays()
	}
	return &Plan{
		Days:  days,
		now:   time.Now,
		newID: func() string { return "plan-" + uuid.NewString() },
	}
}

// Upsert applies form, replacing the day with the same ID in place or
// appending a new one. It returns the stored day.
func (p *Plan) Upsert(form Form) domain.PlanDay {
	label := strings.TrimSpace(form.DayLabel)
	if label == "" {
		label = DefaultDayLabel
	}
	focus := strings.TrimSpace(form.Focus)
	if focus == "" {
		focus = DefaultFocus
	}

	lines := []string{}
	for _, raw := range form.Exercises {
		lines = append(lines, ParseExerciseLines(raw)...)
	}

	idx := p.indexOf(form.ID)
	id := form.ID
	if idx < 0 && id == "" {
		id = p.newID()
	}

	value := form.Value
	if idx >= 0 && strings.TrimSpace(value) == "" {
		// An edit without a value keeps the day's current tag.
		value = p.Days[idx].Tag
	}
	tag := p.uniqueTag(DeriveTag(value, form.DayLabel, form.Focus, p.now()), id)

	color := strings.TrimSpace(form.Color)
	if color == "" {
		color = PickColor(label)
	}

	day := domain.PlanDay{
		ID:        id,
		DayLabel:  label,
		Tag:       tag,
		Focus:     focus,
		Exercises: lines,
		Color:     color,
	}

	if idx >= 0 {
		p.Days[idx] = day
	} else {
		p.Days = append(p.Days, day)
	}
	return day
}

// uniqueTag suffixes custom tags that another day already uses. Catalog tags
// are shared on purpose and left alone.
func (p *Plan) uniqueTag(tag, id string) string {
	if domain.TrainingDay(tag).Valid() {
		return tag
	}
	taken := func(candidate string) bool {
		for _, d := range p.Days {
			if d.ID != id && d.Tag == candidate {
				return true
			}
		}
		return false
	}
	if !taken(tag) {
		return tag
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s-%d", tag, n)
		if !taken(candidate) {
			return candidate
		}
	}
}

// Delete removes the day and records it for undo.
func (p *Plan) Delete(id string) error {
	i := p.indexOf(id)
	if i < 0 {
		return ErrDayNotFound
	}
	removed := p.Days[i]
	p.Days = append(p.Days[:i], p.Days[i+1:]...)
	p.Undo = &Removed{Day: removed, Index: i}
	return nil
}

// UndoDelete restores the last deleted day at its old index, clamped. It is a
// no-op when the buffer is empty or the day is back already.
func (p *Plan) UndoDelete() bool {
	pending := p.Undo
	p.Undo = nil
	if pending == nil || p.indexOf(pending.Day.ID) >= 0 {
		return false
	}

	at := min(max(pending.Index, 0), len(p.Days))
	p.Days = append(p.Days, domain.PlanDay{})
	copy(p.Days[at+1:], p.Days[at:])
	p.Days[at] = pending.Day
	return true
}

// Find returns the day with id.
func (p *Plan) Find(id string) (domain.PlanDay, bool) {
	i := p.indexOf(id)
	if i < 0 {
		return domain.PlanDay{}, false
	}
	return p.Days[i], true
}

func (p *Plan) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, d := range p.Days {
		if d.ID == id {
			return i
		}
	}
	return -1
}
