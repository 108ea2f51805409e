package repository

import (
	"alcyxob/liftlog/internal/domain"
	"context"
)

// Error constants for the repository layer.
var (
	ErrNotFound       = RepositoryError("not found")
	ErrUpdateFailed   = RepositoryError("update failed")
	ErrDeleteFailed   = RepositoryError("delete failed")
	ErrDuplicateEmail = RepositoryError("user with this email already exists")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// DefaultSearchLimit caps local catalog searches.
const DefaultSearchLimit = 50

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (string, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// ExerciseRepository defines the interface for interacting with the exercise catalog.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (string, error)
	GetByID(ctx context.Context, id string) (*domain.Exercise, error)
	// Search matches name case-insensitively against active (or unflagged)
	// exercises, returning at most limit rows.
	Search(ctx context.Context, query string, limit int) ([]domain.Exercise, error)
	// ListByTrainingDay returns active exercises tagged with day. An empty day
	// returns every active exercise.
	ListByTrainingDay(ctx context.Context, day string, limit int) ([]domain.Exercise, error)
	ListAll(ctx context.Context) ([]domain.Exercise, error)
	Update(ctx context.Context, exercise *domain.Exercise) error
	// Upsert inserts or replaces the exercise keeping its ID. Used to restore
	// deleted rows and by the store migration.
	Upsert(ctx context.Context, exercise *domain.Exercise) error
	Delete(ctx context.Context, id string) error
}

// WorkoutRepository defines the interface for interacting with saved workouts.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.Workout) (string, error)
	GetByID(ctx context.Context, userID, id string) (*domain.Workout, error)
	// ListRecent returns the user's workouts newest first.
	ListRecent(ctx context.Context, userID string, limit int) ([]domain.Workout, error)
	ListAll(ctx context.Context) ([]domain.Workout, error)
	Upsert(ctx context.Context, workout *domain.Workout) error
	Delete(ctx context.Context, userID, id string) error
}

// MeasurementRepository mirrors body measurements to the remote store.
type MeasurementRepository interface {
	Create(ctx context.Context, m *domain.Measurement) (string, error)
	Update(ctx context.Context, m *domain.Measurement) error
	ListRecent(ctx context.Context, userID string, limit int) ([]domain.Measurement, error)
	Delete(ctx context.Context, userID, id string) error
}

// GoalRepository stores the single goal row per user.
type GoalRepository interface {
	Get(ctx context.Context, userID string) (*domain.Goal, error)
	Upsert(ctx context.Context, goal *domain.Goal) error
}

// PlanRepository mirrors the weekly plan to the remote store.
type PlanRepository interface {
	List(ctx context.Context, userID string) ([]domain.PlanDay, error)
	// ReplaceAll swaps the stored plan for days, preserving their order.
	ReplaceAll(ctx context.Context, userID string, days []domain.PlanDay) error
}

// Repositories bundles one backend's adapters. It is built once at startup.
type Repositories struct {
	Users        UserRepository
	Exercises    ExerciseRepository
	Workouts     WorkoutRepository
	Measurements MeasurementRepository
	Goals        GoalRepository
	Plans        PlanRepository
}
