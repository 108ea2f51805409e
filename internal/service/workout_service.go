package service

import (
	"alcyxob/liftlog/internal/domain"
	"alcyxob/liftlog/internal/metrics"
	"alcyxob/liftlog/internal/repository"
	"alcyxob/liftlog/internal/session"
	"alcyxob/liftlog/internal/stats"
	"context"
	"errors"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// --- Error Definitions ---
var (
	ErrNoActiveSession = errors.New("no workout in progress")
	ErrSessionActive   = errors.New("a workout is already in progress")
	ErrWorkoutNotFound = errors.New("workout not found")
	ErrSaveInProgress  = errors.New("the workout is being saved")
)

const (
	// BaselineWorkouts is how many recent workouts seed a new exercise's first set.
	BaselineWorkouts = 10
	// DefaultHistoryLimit is the default size of the recent workouts list.
	DefaultHistoryLimit = 10
)

// StartSessionInput begins a new session.
type StartSessionInput struct {
	Unit domain.WeightUnit
	// Day is the plan tag to mark completed once the workout is saved.
	Day string
	// Force discards an unsaved session instead of failing.
	Force bool
}

// SetUpdate edits one field of one set.
type SetUpdate struct {
	Key      string
	SetIndex int
	Field    session.SetField
	Value    string
}

// HistorySummary backs the history screen.
type HistorySummary struct {
	Totals stats.Totals        `json:"totals"`
	Weekly stats.WeeklyLoad    `json:"weekly"`
	Streak stats.Streak        `json:"streak"`
	Cards  []stats.WorkoutCard `json:"cards"`
}

// DayCompleter records finished plan days. PlanService implements it.
type DayCompleter interface {
	MarkCompleted(ctx context.Context, userID, tag string, at time.Time) error
}

// WorkoutService runs the per-user active session and the saved history.
type WorkoutService interface {
	StartSession(ctx context.Context, userID string, in StartSessionInput) (*session.Session, error)
	GetSession(userID string) (*session.Session, error)
	AddExercise(ctx context.Context, userID, exerciseID, name string) (*session.Session, error)
	AddSet(userID, key string) (*session.Session, error)
	UpdateSet(userID string, in SetUpdate) (*session.Session, error)
	RemoveSet(userID, key string, setIndex int) (*session.Session, error)
	RemoveExercise(userID, key string) (*session.Session, error)
	UndoRemove(userID string) (*session.Session, bool, error)
	MarkComplete(userID, key string) (*session.Session, error)
	ToggleExpanded(userID, key string) (*session.Session, error)
	SetUnit(userID string, unit domain.WeightUnit) (*session.Session, error)
	AbandonSession(userID string) error
	// CompleteSession saves the session. elapsed is used only when the
	// session has no start time.
	CompleteSession(ctx context.Context, userID string, elapsed time.Duration) (*domain.Workout, error)

	ListRecent(ctx context.Context, userID string, limit int) ([]domain.Workout, error)
	GetWorkout(ctx context.Context, userID, workoutID string) (*domain.Workout, error)
	DeleteWorkout(ctx context.Context, userID, workoutID string, confirm bool) error
	Summary(ctx context.Context, userID string) (*HistorySummary, error)
	Calendar(ctx context.Context, userID string, view stats.View, anchor time.Time) (*stats.Calendar, error)
}

type workoutService struct {
	workoutRepo repository.WorkoutRepository
	days        DayCompleter
	loc         *time.Location
	now         func() time.Time
	metrics     *metrics.Manager

	mu       sync.Mutex
	sessions map[string]*session.Session
	// saving holds users whose session is being inserted; their session is
	// frozen until the insert finishes.
	saving map[string]bool
}

// NewWorkoutService creates the service. workoutRepo may be nil when no
// backend is configured; sessions still work but cannot be saved.
func NewWorkoutService(workoutRepo repository.WorkoutRepository, days DayCompleter, loc *time.Location, m *metrics.Manager) WorkoutService {
	if loc == nil {
		loc = time.UTC
	}
	return &workoutService{
		workoutRepo: workoutRepo,
		days:        days,
		loc:         loc,
		now:         time.Now,
		metrics:     m,
		sessions:    make(map[string]*session.Session),
		saving:      make(map[string]bool),
	}
}

// --- Session ---

func (s *workoutService) StartSession(ctx context.Context, userID string, in StartSessionInput) (*session.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.saving[userID] {
		return nil, ErrSaveInProgress
	}
	if cur, ok := s.sessions[userID]; ok && len(cur.Entries) > 0 && !in.Force {
		return nil, ErrSessionActive
	}
	sess := session.New(s.now(), domain.ParseWeightUnit(string(in.Unit)), in.Day)
	s.sessions[userID] = sess
	s.metrics.SessionsActive(len(s.sessions))
	return sess.Clone(), nil
}

func (s *workoutService) GetSession(userID string) (*session.Session, error) {
	return s.mutate(userID, func(*session.Session) error { return nil })
}

// mutate applies fn to the user's session under the lock and returns a copy.
func (s *workoutService) mutate(userID string, fn func(*session.Session) error) (*session.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok {
		return nil, ErrNoActiveSession
	}
	if s.saving[userID] {
		return nil, ErrSaveInProgress
	}
	if err := fn(sess); err != nil {
		return nil, err
	}
	return sess.Clone(), nil
}

// AddExercise seeds the new entry from the last time the user did it. A
// missing backend or a failed lookup falls back to an empty set.
func (s *workoutService) AddExercise(ctx context.Context, userID, exerciseID, name string) (*session.Session, error) {
	if exerciseID == "" {
		return nil, validationError("exerciseId is required")
	}

	var recent []domain.Workout
	if s.workoutRepo != nil {
		var err error
		recent, err = s.workoutRepo.ListRecent(ctx, userID, BaselineWorkouts)
		if err != nil {
			log.Warnf("load baseline for %s: %v", exerciseID, err)
			recent = nil
		}
	}

	return s.mutate(userID, func(sess *session.Session) error {
		sess.AddExercise(exerciseID, name, session.BaselineSet(recent, exerciseID, sess.Unit))
		return nil
	})
}

func (s *workoutService) AddSet(userID, key string) (*session.Session, error) {
	return s.mutate(userID, func(sess *session.Session) error { return sess.AddSet(key) })
}

func (s *workoutService) UpdateSet(userID string, in SetUpdate) (*session.Session, error) {
	return s.mutate(userID, func(sess *session.Session) error {
		return sess.UpdateSet(in.Key, in.SetIndex, in.Field, in.Value)
	})
}

func (s *workoutService) RemoveSet(userID, key string, setIndex int) (*session.Session, error) {
	return s.mutate(userID, func(sess *session.Session) error { return sess.RemoveSet(key, setIndex) })
}

func (s *workoutService) RemoveExercise(userID, key string) (*session.Session, error) {
	return s.mutate(userID, func(sess *session.Session) error { return sess.RemoveExercise(key) })
}

func (s *workoutService) UndoRemove(userID string) (*session.Session, bool, error) {
	var restored bool
	sess, err := s.mutate(userID, func(sess *session.Session) error {
		restored = sess.UndoRemove()
		return nil
	})
	return sess, restored, err
}

func (s *workoutService) MarkComplete(userID, key string) (*session.Session, error) {
	return s.mutate(userID, func(sess *session.Session) error { return sess.MarkComplete(key) })
}

func (s *workoutService) ToggleExpanded(userID, key string) (*session.Session, error) {
	return s.mutate(userID, func(sess *session.Session) error { return sess.ToggleExpanded(key) })
}

func (s *workoutService) SetUnit(userID string, unit domain.WeightUnit) (*session.Session, error) {
	return s.mutate(userID, func(sess *session.Session) error {
		sess.SetUnit(unit)
		return nil
	})
}

func (s *workoutService) AbandonSession(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[userID]; !ok {
		return ErrNoActiveSession
	}
	if s.saving[userID] {
		return ErrSaveInProgress
	}
	delete(s.sessions, userID)
	s.metrics.SessionsActive(len(s.sessions))
	return nil
}

// CompleteSession inserts the workout. The session is frozen while the insert
// runs, survives any failure and is cleared only after the insert succeeds.
func (s *workoutService) CompleteSession(ctx context.Context, userID string, elapsed time.Duration) (*domain.Workout, error) {
	s.mu.Lock()
	sess, ok := s.sessions[userID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNoActiveSession
	}
	if s.saving[userID] {
		s.mu.Unlock()
		return nil, ErrSaveInProgress
	}
	now := s.now()
	workout, err := sess.Build(userID, now, elapsed)
	if err != nil {
		s.mu.Unlock()
		if errors.Is(err, session.ErrNoExercises) {
			return nil, validationError(err.Error())
		}
		return nil, err
	}
	if s.workoutRepo == nil {
		s.mu.Unlock()
		return nil, ErrBackendNotConfigured
	}
	day := sess.Day
	s.saving[userID] = true
	s.mu.Unlock()

	id, err := s.workoutRepo.Create(ctx, workout)

	s.mu.Lock()
	delete(s.saving, userID)
	if err == nil {
		delete(s.sessions, userID)
	}
	s.metrics.SessionsActive(len(s.sessions))
	s.mu.Unlock()

	if err != nil {
		log.Errorf("save workout for user %s: %v", userID, err)
		return nil, err
	}
	workout.ID = id
	s.metrics.WorkoutSaved()

	if s.days != nil && day != "" {
		if err := s.days.MarkCompleted(ctx, userID, day, now); err != nil {
			log.Warnf("mark plan day %s completed for user %s: %v", day, userID, err)
		}
	}
	return workout, nil
}

// --- History ---

func (s *workoutService) ListRecent(ctx context.Context, userID string, limit int) ([]domain.Workout, error) {
	if s.workoutRepo == nil {
		return nil, ErrBackendNotConfigured
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return s.workoutRepo.ListRecent(ctx, userID, limit)
}

func (s *workoutService) GetWorkout(ctx context.Context, userID, workoutID string) (*domain.Workout, error) {
	if s.workoutRepo == nil {
		return nil, ErrBackendNotConfigured
	}
	workout, err := s.workoutRepo.GetByID(ctx, userID, workoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	return workout, nil
}

func (s *workoutService) DeleteWorkout(ctx context.Context, userID, workoutID string, confirm bool) error {
	if s.workoutRepo == nil {
		return ErrBackendNotConfigured
	}
	if !confirm {
		return ErrConfirmationRequired
	}
	if err := s.workoutRepo.Delete(ctx, userID, workoutID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrWorkoutNotFound
		}
		return err
	}
	return nil
}

// Summary folds the most recent DefaultHistoryLimit workouts. The streak
// walks the whole history so it is not capped by that window.
func (s *workoutService) Summary(ctx context.Context, userID string) (*HistorySummary, error) {
	recent, err := s.ListRecent(ctx, userID, DefaultHistoryLimit)
	if err != nil {
		return nil, err
	}
	all, err := s.allWorkouts(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	return &HistorySummary{
		Totals: stats.ComputeTotals(recent),
		Weekly: stats.Weekly(recent, now),
		Streak: stats.CurrentStreak(all, now, s.loc),
		Cards:  stats.Cards(recent),
	}, nil
}

func (s *workoutService) Calendar(ctx context.Context, userID string, view stats.View, anchor time.Time) (*stats.Calendar, error) {
	workouts, err := s.allWorkouts(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if anchor.IsZero() {
		anchor = now
	}
	cal := stats.BuildCalendar(view, anchor, now, workouts, s.loc)
	return &cal, nil
}

// allWorkouts loads the full history for the calendar and the streak.
func (s *workoutService) allWorkouts(ctx context.Context, userID string) ([]domain.Workout, error) {
	if s.workoutRepo == nil {
		return nil, ErrBackendNotConfigured
	}
	return s.workoutRepo.ListRecent(ctx, userID, 0)
}
