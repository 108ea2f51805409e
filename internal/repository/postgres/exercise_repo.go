package postgres

import (
	"alcyxob/liftlog/internal/domain"
	"alcyxob/liftlog/internal/repository"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const exerciseColumns = `id, name, description, COALESCE(image_url, ''), COALESCE(video_url, ''),
	major_muscle_groups, training_days, is_active, created_at, updated_at`

type ExerciseRepo struct {
	db *pgxpool.Pool
}

func NewExerciseRepo(db *pgxpool.Pool) *ExerciseRepo {
	return &ExerciseRepo{db: db}
}

func (r *ExerciseRepo) Create(ctx context.Context, exercise *domain.Exercise) (string, error) {
	if exercise.Name == "" {
		return "", errors.New("exercise name is required")
	}

	exercise.ID = newID()
	now := time.Now().UTC()
	exercise.CreatedAt = now
	exercise.UpdatedAt = now

	_, err := r.db.Exec(
		ctx,
		`INSERT INTO exercises
				(id, name, description, image_url, video_url, major_muscle_groups, training_days, is_active, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		exerciseArgs(exercise)...,
	)
	if err != nil {
		return "", fmt.Errorf("insert exercise: %w", err)
	}
	return exercise.ID, nil
}

func (r *ExerciseRepo) GetByID(ctx context.Context, id string) (*domain.Exercise, error) {
	row := r.db.QueryRow(ctx, `SELECT `+exerciseColumns+` FROM exercises WHERE id = $1`, id)
	exercise, err := scanExercise(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return exercise, nil
}

// Search is an ILIKE match over active or unflagged exercises.
func (r *ExerciseRepo) Search(ctx context.Context, query string, limit int) ([]domain.Exercise, error) {
	return r.list(
		ctx,
		`SELECT `+exerciseColumns+` FROM exercises
			WHERE name ILIKE $1 AND (is_active IS NULL OR is_active = TRUE)
			ORDER BY name
			LIMIT $2`,
		"%"+escapeLike(query)+"%", limit,
	)
}

func (r *ExerciseRepo) ListByTrainingDay(ctx context.Context, day string, limit int) ([]domain.Exercise, error) {
	if limit <= 0 {
		limit = 1000
	}
	return r.list(
		ctx,
		`SELECT `+exerciseColumns+` FROM exercises
			WHERE (is_active IS NULL OR is_active = TRUE) AND ($1 = '' OR $1 = ANY(training_days))
			ORDER BY name
			LIMIT $2`,
		day, limit,
	)
}

func (r *ExerciseRepo) ListAll(ctx context.Context) ([]domain.Exercise, error) {
	return r.list(ctx, `SELECT `+exerciseColumns+` FROM exercises ORDER BY created_at`)
}

func (r *ExerciseRepo) Update(ctx context.Context, exercise *domain.Exercise) error {
	if exercise.ID == "" {
		return errors.New("exercise ID is required for update")
	}
	exercise.UpdatedAt = time.Now().UTC()
	args := exerciseArgs(exercise)

	tag, err := r.db.Exec(
		ctx,
		`UPDATE exercises SET name = $2, description = $3, image_url = $4, video_url = $5,
				major_muscle_groups = $6, training_days = $7, is_active = $8, updated_at = $9
			WHERE id = $1`,
		args[0], args[1], args[2], args[3], args[4], args[5], args[6], args[7], args[9],
	)
	if err != nil {
		return fmt.Errorf("update exercise: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ExerciseRepo) Upsert(ctx context.Context, exercise *domain.Exercise) error {
	if exercise.ID == "" {
		return errors.New("exercise ID is required for upsert")
	}
	if exercise.CreatedAt.IsZero() {
		exercise.CreatedAt = time.Now().UTC()
	}
	if exercise.UpdatedAt.IsZero() {
		exercise.UpdatedAt = exercise.CreatedAt
	}

	_, err := r.db.Exec(
		ctx,
		`INSERT INTO exercises
				(id, name, description, image_url, video_url, major_muscle_groups, training_days, is_active, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (id) DO UPDATE SET
				name = excluded.name,
				description = excluded.description,
				image_url = excluded.image_url,
				video_url = excluded.video_url,
				major_muscle_groups = excluded.major_muscle_groups,
				training_days = excluded.training_days,
				is_active = excluded.is_active,
				updated_at = excluded.updated_at`,
		exerciseArgs(exercise)...,
	)
	if err != nil {
		return fmt.Errorf("upsert exercise: %w", err)
	}
	return nil
}

func (r *ExerciseRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM exercises WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ExerciseRepo) list(ctx context.Context, query string, args ...any) ([]domain.Exercise, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	exercises := []domain.Exercise{}
	for rows.Next() {
		exercise, err := scanExercise(rows)
		if err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		exercises = append(exercises, *exercise)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return exercises, nil
}

func exerciseArgs(e *domain.Exercise) []any {
	muscles := make([]string, len(e.MajorMuscleGroups))
	for i, m := range e.MajorMuscleGroups {
		muscles[i] = string(m)
	}
	days := make([]string, len(e.TrainingDays))
	for i, d := range e.TrainingDays {
		days[i] = string(d)
	}
	return []any{
		e.ID, e.Name, e.Description, nullIfEmpty(e.ImageURL), nullIfEmpty(e.VideoURL),
		muscles, days, e.IsActive, e.CreatedAt, e.UpdatedAt,
	}
}

func scanExercise(row pgx.Row) (*domain.Exercise, error) {
	var (
		e       domain.Exercise
		muscles []string
		days    []string
	)
	err := row.Scan(
		&e.ID, &e.Name, &e.Description, &e.ImageURL, &e.VideoURL,
		&muscles, &days, &e.IsActive, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	for _, m := range muscles {
		e.MajorMuscleGroups = append(e.MajorMuscleGroups, domain.MuscleGroup(m))
	}
	for _, d := range days {
		e.TrainingDays = append(e.TrainingDays, domain.TrainingDay(d))
	}
	return &e, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes user input match literally inside an ILIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
