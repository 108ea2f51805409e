package migrate

import (
	"alcyxob/liftlog/internal/domain"
	"alcyxob/liftlog/internal/repository"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// exerciseStore and workoutStore embed the interfaces so only the methods
// the migration touches need bodies.
type exerciseStore struct {
	repository.ExerciseRepository
	rows      []domain.Exercise
	upserted  []string
	upsertErr error
}

func (s *exerciseStore) ListAll(context.Context) ([]domain.Exercise, error) {
	return s.rows, nil
}

func (s *exerciseStore) Upsert(_ context.Context, e *domain.Exercise) error {
	if s.upsertErr != nil && len(s.upserted) == 1 {
		return s.upsertErr
	}
	s.upserted = append(s.upserted, e.ID)
	return nil
}

type workoutStore struct {
	repository.WorkoutRepository
	rows     []domain.Workout
	upserted []string
	listErr  error
}

func (s *workoutStore) ListAll(context.Context) ([]domain.Workout, error) {
	return s.rows, s.listErr
}

func (s *workoutStore) Upsert(_ context.Context, w *domain.Workout) error {
	s.upserted = append(s.upserted, w.ID)
	return nil
}

func sourceRepos() (*exerciseStore, *workoutStore) {
	return &exerciseStore{rows: []domain.Exercise{{ID: "e1", Name: "Squat"}, {ID: "e2", Name: "Row"}}},
		&workoutStore{rows: []domain.Workout{{ID: "w1", UserID: "u1"}}}
}

func TestRun_CopiesEverything(t *testing.T) {
	srcEx, srcW := sourceRepos()
	dstEx, dstW := &exerciseStore{}, &workoutStore{}

	report, err := Run(context.Background(),
		&repository.Repositories{Exercises: srcEx, Workouts: srcW},
		&repository.Repositories{Exercises: dstEx, Workouts: dstW},
		Options{})
	require.NoError(t, err)
	assert.Equal(t, Report{Exercises: 2, Workouts: 1}, report)
	assert.Equal(t, []string{"e1", "e2"}, dstEx.upserted)
	assert.Equal(t, []string{"w1"}, dstW.upserted)
}

func TestRun_DryRunWritesNothing(t *testing.T) {
	srcEx, srcW := sourceRepos()
	dstEx, dstW := &exerciseStore{}, &workoutStore{}

	report, err := Run(context.Background(),
		&repository.Repositories{Exercises: srcEx, Workouts: srcW},
		&repository.Repositories{Exercises: dstEx, Workouts: dstW},
		Options{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, Report{Exercises: 2, Workouts: 1}, report)
	assert.Empty(t, dstEx.upserted)
	assert.Empty(t, dstW.upserted)
}

func TestRun_StopsAtFirstFailure(t *testing.T) {
	srcEx, srcW := sourceRepos()
	boom := errors.New("disk full")
	dstEx, dstW := &exerciseStore{upsertErr: boom}, &workoutStore{}

	report, err := Run(context.Background(),
		&repository.Repositories{Exercises: srcEx, Workouts: srcW},
		&repository.Repositories{Exercises: dstEx, Workouts: dstW},
		Options{})
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "e2")
	assert.Equal(t, Report{Exercises: 1}, report)
	assert.Empty(t, dstW.upserted, "workouts are not touched after a failure")
}

func TestRun_SourceListFailure(t *testing.T) {
	srcEx, srcW := sourceRepos()
	srcW.listErr = errors.New("timeout")

	report, err := Run(context.Background(),
		&repository.Repositories{Exercises: srcEx, Workouts: srcW},
		&repository.Repositories{Exercises: &exerciseStore{}, Workouts: &workoutStore{}},
		Options{})
	require.Error(t, err)
	assert.Equal(t, 2, report.Exercises)
	assert.Zero(t, report.Workouts)
}

func TestRun_MissingRepositories(t *testing.T) {
	_, err := Run(context.Background(), &repository.Repositories{}, &repository.Repositories{}, Options{})
	assert.ErrorIs(t, err, ErrMissingRepository)
}
