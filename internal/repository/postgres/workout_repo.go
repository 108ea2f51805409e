package postgres

import (
	"alcyxob/liftlog/internal/domain"
	"alcyxob/liftlog/internal/repository"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const workoutColumns = `id, user_id, date, started_at, ended_at, duration_min, exercises`

type WorkoutRepo struct {
	db *pgxpool.Pool
}

func NewWorkoutRepo(db *pgxpool.Pool) *WorkoutRepo {
	return &WorkoutRepo{db: db}
}

func (r *WorkoutRepo) Create(ctx context.Context, workout *domain.Workout) (string, error) {
	if workout.UserID == "" {
		return "", errors.New("workout user ID is required")
	}
	if workout.ID == "" {
		workout.ID = newID()
	}

	exercisesJson, err := json.Marshal(workout.Exercises)
	if err != nil {
		return "", fmt.Errorf("marshal exercises: %w", err)
	}

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO workouts (`+workoutColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		workout.ID, workout.UserID, workout.Date, workout.StartedAt, workout.EndedAt, workout.DurationMin, exercisesJson,
	)
	if err != nil {
		return "", fmt.Errorf("insert workout: %w", err)
	}
	return workout.ID, nil
}

func (r *WorkoutRepo) GetByID(ctx context.Context, userID, id string) (*domain.Workout, error) {
	row := r.db.QueryRow(ctx, `SELECT `+workoutColumns+` FROM workouts WHERE id = $1 AND user_id = $2`, id, userID)
	workout, err := scanWorkout(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return workout, nil
}

func (r *WorkoutRepo) ListRecent(ctx context.Context, userID string, limit int) ([]domain.Workout, error) {
	if limit <= 0 {
		return r.list(ctx, `SELECT `+workoutColumns+` FROM workouts WHERE user_id = $1 ORDER BY date DESC`, userID)
	}
	return r.list(ctx, `SELECT `+workoutColumns+` FROM workouts WHERE user_id = $1 ORDER BY date DESC LIMIT $2`, userID, limit)
}

func (r *WorkoutRepo) ListAll(ctx context.Context) ([]domain.Workout, error) {
	return r.list(ctx, `SELECT `+workoutColumns+` FROM workouts ORDER BY date`)
}

func (r *WorkoutRepo) Upsert(ctx context.Context, workout *domain.Workout) error {
	if workout.ID == "" {
		return errors.New("workout ID is required for upsert")
	}
	exercisesJson, err := json.Marshal(workout.Exercises)
	if err != nil {
		return fmt.Errorf("marshal exercises: %w", err)
	}

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO workouts (`+workoutColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id) DO UPDATE SET
				user_id = excluded.user_id,
				date = excluded.date,
				started_at = excluded.started_at,
				ended_at = excluded.ended_at,
				duration_min = excluded.duration_min,
				exercises = excluded.exercises`,
		workout.ID, workout.UserID, workout.Date, workout.StartedAt, workout.EndedAt, workout.DurationMin, exercisesJson,
	)
	if err != nil {
		return fmt.Errorf("upsert workout: %w", err)
	}
	return nil
}

func (r *WorkoutRepo) Delete(ctx context.Context, userID, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM workouts WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *WorkoutRepo) list(ctx context.Context, query string, args ...any) ([]domain.Workout, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	workouts := []domain.Workout{}
	for rows.Next() {
		workout, err := scanWorkout(rows)
		if err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		workouts = append(workouts, *workout)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return workouts, nil
}

func scanWorkout(row pgx.Row) (*domain.Workout, error) {
	var (
		w             domain.Workout
		exercisesJson []byte
	)
	if err := row.Scan(&w.ID, &w.UserID, &w.Date, &w.StartedAt, &w.EndedAt, &w.DurationMin, &exercisesJson); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(exercisesJson, &w.Exercises); err != nil {
		return nil, fmt.Errorf("unmarshal exercises: %w", err)
	}
	return &w, nil
}
