package service

import (
	"alcyxob/liftlog/internal/catalog"
	"alcyxob/liftlog/internal/domain"
	"alcyxob/liftlog/internal/repository"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

var errBackendDown = errors.New("backend down")

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return "", repository.ErrDuplicateEmail
		}
	}
	user.ID = fmt.Sprintf("user-%d", len(r.users)+1)
	r.users[user.ID] = *user
	return user.ID, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

type fakeExerciseRepo struct {
	mu        sync.Mutex
	exercises map[string]domain.Exercise
	seq       int
	searchErr error
}

func newFakeExerciseRepo() *fakeExerciseRepo {
	return &fakeExerciseRepo{exercises: map[string]domain.Exercise{}}
}

func (r *fakeExerciseRepo) Create(_ context.Context, e *domain.Exercise) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	e.ID = fmt.Sprintf("ex-%d", r.seq)
	r.exercises[e.ID] = *e
	return e.ID, nil
}

func (r *fakeExerciseRepo) GetByID(_ context.Context, id string) (*domain.Exercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.exercises[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &e, nil
}

func (r *fakeExerciseRepo) sorted(keep func(domain.Exercise) bool, limit int) []domain.Exercise {
	out := []domain.Exercise{}
	for _, e := range r.exercises {
		if keep(e) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (r *fakeExerciseRepo) Search(_ context.Context, query string, limit int) ([]domain.Exercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.searchErr != nil {
		return nil, r.searchErr
	}
	q := strings.ToLower(query)
	return r.sorted(func(e domain.Exercise) bool {
		return e.Active() && strings.Contains(strings.ToLower(e.Name), q)
	}, limit), nil
}

func (r *fakeExerciseRepo) ListByTrainingDay(_ context.Context, day string, limit int) ([]domain.Exercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted(func(e domain.Exercise) bool {
		return e.Active() && (day == "" || e.HasTrainingDay(day))
	}, limit), nil
}

func (r *fakeExerciseRepo) ListAll(_ context.Context) ([]domain.Exercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted(func(domain.Exercise) bool { return true }, 0), nil
}

func (r *fakeExerciseRepo) Update(_ context.Context, e *domain.Exercise) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.exercises[e.ID]; !ok {
		return repository.ErrNotFound
	}
	r.exercises[e.ID] = *e
	return nil
}

func (r *fakeExerciseRepo) Upsert(_ context.Context, e *domain.Exercise) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exercises[e.ID] = *e
	return nil
}

func (r *fakeExerciseRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.exercises[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.exercises, id)
	return nil
}

type fakeWorkoutRepo struct {
	mu        sync.Mutex
	workouts  []domain.Workout
	createErr error
	listErr   error
	// when set, Create reports on entered and blocks until release is closed
	entered chan struct{}
	release chan struct{}
}

func (r *fakeWorkoutRepo) Create(_ context.Context, w *domain.Workout) (string, error) {
	if r.entered != nil {
		r.entered <- struct{}{}
		<-r.release
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return "", r.createErr
	}
	w.ID = fmt.Sprintf("w-%d", len(r.workouts)+1)
	r.workouts = append(r.workouts, *w)
	return w.ID, nil
}

func (r *fakeWorkoutRepo) GetByID(_ context.Context, userID, id string) (*domain.Workout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, w := range r.workouts {
		if w.ID == id && w.UserID == userID {
			return &w, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeWorkoutRepo) ListRecent(_ context.Context, userID string, limit int) ([]domain.Workout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := []domain.Workout{}
	for _, w := range r.workouts {
		if w.UserID == userID {
			out = append(out, w)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeWorkoutRepo) ListAll(_ context.Context) ([]domain.Workout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Workout(nil), r.workouts...), nil
}

func (r *fakeWorkoutRepo) Upsert(_ context.Context, w *domain.Workout) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.workouts = append(r.workouts, *w)
	return nil
}

func (r *fakeWorkoutRepo) Delete(_ context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, w := range r.workouts {
		if w.ID == id && w.UserID == userID {
			r.workouts = append(r.workouts[:i], r.workouts[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakePlanRepo struct {
	mu      sync.Mutex
	plans   map[string][]domain.PlanDay
	err     error
	listErr error
}

func (r *fakePlanRepo) List(_ context.Context, userID string) ([]domain.PlanDay, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.plans[userID], nil
}

func (r *fakePlanRepo) ReplaceAll(_ context.Context, userID string, days []domain.PlanDay) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if r.plans == nil {
		r.plans = map[string][]domain.PlanDay{}
	}
	r.plans[userID] = append([]domain.PlanDay(nil), days...)
	return nil
}

type fakeMeasurementRepo struct {
	mu    sync.Mutex
	rows  map[string]domain.Measurement
	err   error
	calls int
}

func newFakeMeasurementRepo() *fakeMeasurementRepo {
	return &fakeMeasurementRepo{rows: map[string]domain.Measurement{}}
}

func (r *fakeMeasurementRepo) Create(_ context.Context, m *domain.Measurement) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return "", r.err
	}
	r.rows[m.ID] = *m
	return m.ID, nil
}

func (r *fakeMeasurementRepo) Update(_ context.Context, m *domain.Measurement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return r.err
	}
	if _, ok := r.rows[m.ID]; !ok {
		return repository.ErrNotFound
	}
	r.rows[m.ID] = *m
	return nil
}

func (r *fakeMeasurementRepo) ListRecent(_ context.Context, userID string, limit int) ([]domain.Measurement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Measurement{}
	for _, m := range r.rows {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TakenAt.After(out[j].TakenAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeMeasurementRepo) Delete(_ context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if m, ok := r.rows[id]; !ok || m.UserID != userID {
		return repository.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

type fakeGoalRepo struct {
	mu    sync.Mutex
	goals map[string]domain.Goal
}

func (r *fakeGoalRepo) Get(_ context.Context, userID string) (*domain.Goal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.goals[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &g, nil
}

func (r *fakeGoalRepo) Upsert(_ context.Context, g *domain.Goal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.goals == nil {
		r.goals = map[string]domain.Goal{}
	}
	r.goals[g.UserID] = *g
	return nil
}

type fakeStorage struct {
	err     error
	deleted []string
}

func (f *fakeStorage) GeneratePresignedUploadURL(_ context.Context, objectKey, contentType string, _ time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "https://upload.test/" + objectKey + "?ct=" + contentType, nil
}

func (f *fakeStorage) PublicURL(objectKey string) string {
	return "https://cdn.test/" + objectKey
}

func (f *fakeStorage) DeleteObject(_ context.Context, objectKey string) error {
	f.deleted = append(f.deleted, objectKey)
	return nil
}

type fakeSearcher struct {
	mu    sync.Mutex
	items []catalog.Item
	err   error
	calls int
}

func (f *fakeSearcher) Search(_ context.Context, query string) ([]catalog.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

type fakeCompleter struct {
	mu    sync.Mutex
	marks []string
}

func (f *fakeCompleter) MarkCompleted(_ context.Context, userID, tag string, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.marks = append(f.marks, userID+":"+tag)
	return nil
}

func ptr(v float64) *float64 { return &v }
