package postgres

import (
	"alcyxob/liftlog/internal/repository"
	"alcyxob/liftlog/internal/repository/postgres/migrations"
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// NewDBPool parses dsn and opens a connection pool, verifying it with a ping.
func NewDBPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}

	db, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return db, nil
}

// RunMigrations applies the embedded goose migrations.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// NewRepositories builds the relational adapters over pool.
func NewRepositories(pool *pgxpool.Pool) *repository.Repositories {
	return &repository.Repositories{
		Users:        NewUserRepo(pool),
		Exercises:    NewExerciseRepo(pool),
		Workouts:     NewWorkoutRepo(pool),
		Measurements: NewMeasurementRepo(pool),
		Goals:        NewGoalRepo(pool),
		Plans:        NewPlanRepo(pool),
	}
}

func newID() string {
	return uuid.NewString()
}
