// Package session models the in-progress workout a user is logging.
package session

import (
	"alcyxob/liftlog/internal/domain"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNoExercises   = errors.New("add at least one exercise before completing the workout")
	ErrEntryNotFound = errors.New("exercise is not part of this session")
	ErrSetNotFound   = errors.New("set index out of range")
	ErrUnknownField  = errors.New("unknown set field")
)

// SetField names an editable column of a set.
type SetField string

const (
	FieldReps   SetField = "reps"
	FieldWeight SetField = "weight"
	FieldUnit   SetField = "unit"
)

// SetEntry is a set as typed by the user. Reps and weight stay raw strings
// until the workout is completed.
type SetEntry struct {
	Reps   string            `json:"reps"`
	Weight string            `json:"weight"`
	Unit   domain.WeightUnit `json:"unit"`
}

// Volume parses reps and weight, counting anything unparseable or negative
// as zero.
func (s SetEntry) Volume() float64 {
	return max(parseNumber(s.Reps), 0) * max(parseNumber(s.Weight), 0)
}

// Entry is one exercise in the active session.
type Entry struct {
	Key        string     `json:"key"`
	ExerciseID string     `json:"exerciseId"`
	Name       string     `json:"name"`
	Sets       []SetEntry `json:"sets"`
	Completed  bool       `json:"completed"`
	Expanded   bool       `json:"expanded"`
}

// Volume sums the parsed volume of the entry's sets.
func (e Entry) Volume() float64 {
	var total float64
	for _, s := range e.Sets {
		total += s.Volume()
	}
	return total
}

// Removed is the single-slot undo buffer: the last removed entry and where it was.
type Removed struct {
	Entry Entry `json:"entry"`
	Index int   `json:"index"`
}

// Session is the mutable state of a workout being logged.
type Session struct {
	StartedAt time.Time         `json:"startedAt"`
	Unit      domain.WeightUnit `json:"unit"`
	// Day is the plan tag the session was started from, if any.
	Day     string   `json:"day,omitempty"`
	Entries []Entry  `json:"entries"`
	Undo    *Removed `json:"undo,omitempty"`

	newKey func(exerciseID string) string
}

// New starts an empty session at startedAt.
func New(startedAt time.Time, unit domain.WeightUnit, day string) *Session {
	if unit == "" {
		unit = domain.UnitKg
	}
	return &Session{
		StartedAt: startedAt,
		Unit:      unit,
		Day:       day,
		Entries:   []Entry{},
	}
}

func (s *Session) key(exerciseID string) string {
	if s.newKey != nil {
		return s.newKey(exerciseID)
	}
	return exerciseID + "-" + uuid.NewString()
}

// BaselineSet finds the set to seed a newly added exercise with: the last set
// of the first workout in recent (newest first) that contains exerciseID.
func BaselineSet(recent []domain.Workout, exerciseID string, unit domain.WeightUnit) SetEntry {
	for _, w := range recent {
		if s, ok := w.LastSetFor(exerciseID); ok {
			weight := "0"
			if s.Weight != nil {
				weight = formatNumber(*s.Weight)
			}
			return SetEntry{
				Reps:   strconv.Itoa(s.Reps),
				Weight: weight,
				Unit:   domain.ParseWeightUnit(string(s.WeightUnit)),
			}
		}
	}
	return zeroSet(unit)
}

func zeroSet(unit domain.WeightUnit) SetEntry {
	if unit == "" {
		unit = domain.UnitKg
	}
	return SetEntry{Reps: "0", Weight: "0", Unit: unit}
}

// AddExercise appends exerciseID seeded with one copy of baseline.
func (s *Session) AddExercise(exerciseID, name string, baseline SetEntry) Entry {
	entry := Entry{
		Key:        s.key(exerciseID),
		ExerciseID: exerciseID,
		Name:       name,
		Sets:       []SetEntry{baseline},
		Completed:  false,
		Expanded:   true,
	}
	s.Entries = append(s.Entries, entry)
	return entry
}

// AddSet appends a copy of the entry's last set and reopens the entry.
func (s *Session) AddSet(key string) error {
	i := s.indexOf(key)
	if i < 0 {
		return ErrEntryNotFound
	}
	e := &s.Entries[i]
	next := zeroSet(s.Unit)
	if len(e.Sets) > 0 {
		next = e.Sets[len(e.Sets)-1]
	}
	e.Sets = append(e.Sets, next)
	e.Completed = false
	return nil
}

// UpdateSet replaces one field of one set. Values are not validated.
func (s *Session) UpdateSet(key string, setIndex int, field SetField, value string) error {
	i := s.indexOf(key)
	if i < 0 {
		return ErrEntryNotFound
	}
	e := &s.Entries[i]
	if setIndex < 0 || setIndex >= len(e.Sets) {
		return ErrSetNotFound
	}

	set := &e.Sets[setIndex]
	switch field {
	case FieldReps:
		set.Reps = value
	case FieldWeight:
		set.Weight = value
	case FieldUnit:
		set.Unit = domain.ParseWeightUnit(value)
	default:
		return ErrUnknownField
	}
	return nil
}

// RemoveSet drops one set from an entry.
func (s *Session) RemoveSet(key string, setIndex int) error {
	i := s.indexOf(key)
	if i < 0 {
		return ErrEntryNotFound
	}
	e := &s.Entries[i]
	if setIndex < 0 || setIndex >= len(e.Sets) {
		return ErrSetNotFound
	}
	e.Sets = append(e.Sets[:setIndex], e.Sets[setIndex+1:]...)
	return nil
}

// RemoveExercise drops the entry and records it in the undo slot, replacing
// whatever was there.
func (s *Session) RemoveExercise(key string) error {
	i := s.indexOf(key)
	if i < 0 {
		return ErrEntryNotFound
	}
	removed := s.Entries[i]
	s.Entries = append(s.Entries[:i], s.Entries[i+1:]...)
	s.Undo = &Removed{Entry: removed, Index: i}
	return nil
}

// UndoRemove restores the last removed entry at its old position (clamped to
// the current length). It reports whether anything was restored and always
// empties the undo slot.
func (s *Session) UndoRemove() bool {
	pending := s.Undo
	s.Undo = nil
	if pending == nil || s.indexOf(pending.Entry.Key) >= 0 {
		return false
	}

	at := pending.Index
	if at < 0 {
		at = 0
	}
	if at > len(s.Entries) {
		at = len(s.Entries)
	}
	s.Entries = append(s.Entries, Entry{})
	copy(s.Entries[at+1:], s.Entries[at:])
	s.Entries[at] = pending.Entry
	return true
}

// MarkComplete closes the entry.
func (s *Session) MarkComplete(key string) error {
	i := s.indexOf(key)
	if i < 0 {
		return ErrEntryNotFound
	}
	s.Entries[i].Completed = true
	s.Entries[i].Expanded = false
	return nil
}

// ToggleExpanded flips whether the entry's sets are shown.
func (s *Session) ToggleExpanded(key string) error {
	i := s.indexOf(key)
	if i < 0 {
		return ErrEntryNotFound
	}
	s.Entries[i].Expanded = !s.Entries[i].Expanded
	return nil
}

// SetUnit changes the unit new zero sets start with.
func (s *Session) SetUnit(unit domain.WeightUnit) {
	s.Unit = domain.ParseWeightUnit(string(unit))
}

// Volume sums the parsed volume of the whole session.
func (s *Session) Volume() float64 {
	var total float64
	for _, e := range s.Entries {
		total += e.Volume()
	}
	return total
}

// Elapsed is the wall time since the session started.
func (s *Session) Elapsed(now time.Time) time.Duration {
	if s.StartedAt.IsZero() {
		return 0
	}
	return now.Sub(s.StartedAt)
}

// Build converts the session into a workout ended at now. The session itself
// is left untouched so it survives a failed save.
func (s *Session) Build(userID string, now time.Time, elapsed time.Duration) (*domain.Workout, error) {
	if len(s.Entries) == 0 {
		return nil, ErrNoExercises
	}

	started := s.StartedAt
	if started.IsZero() {
		started = now.Add(-elapsed)
	} else {
		elapsed = s.Elapsed(now)
	}

	exercises := make([]domain.WorkoutExercise, 0, len(s.Entries))
	for _, e := range s.Entries {
		sets := make([]domain.Set, 0, len(e.Sets))
		for _, raw := range e.Sets {
			sets = append(sets, toSet(raw))
		}
		exercises = append(exercises, domain.WorkoutExercise{
			ExerciseID: e.ExerciseID,
			Name:       e.Name,
			Sets:       sets,
		})
	}

	return &domain.Workout{
		UserID:      userID,
		Date:        now,
		StartedAt:   started,
		EndedAt:     now,
		DurationMin: durationMinutes(elapsed),
		Exercises:   exercises,
	}, nil
}

// durationMinutes rounds to whole minutes with a floor of one.
func durationMinutes(d time.Duration) int {
	m := int(math.Round(d.Minutes()))
	if m < 1 {
		return 1
	}
	return m
}

func toSet(raw SetEntry) domain.Set {
	set := domain.Set{
		Reps:       int(parseNumber(raw.Reps)),
		WeightUnit: domain.ParseWeightUnit(string(raw.Unit)),
	}
	if w := strings.TrimSpace(raw.Weight); w != "" {
		if v, err := strconv.ParseFloat(w, 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
			v = max(v, 0)
			set.Weight = &v
		}
	}
	if set.Reps < 0 {
		set.Reps = 0
	}
	return set
}

func (s *Session) indexOf(key string) int {
	for i, e := range s.Entries {
		if e.Key == key {
			return i
		}
	}
	return -1
}

func parseNumber(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Clone returns a deep copy that shares no slices with s.
func (s *Session) Clone() *Session {
	cp := *s
	cp.Entries = make([]Entry, len(s.Entries))
	for i, e := range s.Entries {
		e.Sets = append([]SetEntry(nil), e.Sets...)
		cp.Entries[i] = e
	}
	if s.Undo != nil {
		undo := *s.Undo
		undo.Entry.Sets = append([]SetEntry(nil), s.Undo.Entry.Sets...)
		cp.Undo = &undo
	}
	return &cp
}
