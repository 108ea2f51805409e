package postgres

import (
	"alcyxob/liftlog/internal/domain"
	"alcyxob/liftlog/internal/repository"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type GoalRepo struct {
	db *pgxpool.Pool
}

func NewGoalRepo(db *pgxpool.Pool) *GoalRepo {
	return &GoalRepo{db: db}
}

func (r *GoalRepo) Get(ctx context.Context, userID string) (*domain.Goal, error) {
	var g domain.Goal
	err := r.db.QueryRow(
		ctx,
		`SELECT user_id, updated_at, weight_kg, chest_cm, waist_cm, hips_cm, thigh_cm, arm_cm, calf_cm
			FROM goals WHERE user_id = $1`,
		userID,
	).Scan(&g.UserID, &g.UpdatedAt, &g.WeightKg, &g.ChestCm, &g.WaistCm, &g.HipsCm, &g.ThighCm, &g.ArmCm, &g.CalfCm)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &g, nil
}

func (r *GoalRepo) Upsert(ctx context.Context, g *domain.Goal) error {
	if g.UserID == "" {
		return errors.New("goal user ID is required")
	}
	g.UpdatedAt = time.Now().UTC()

	_, err := r.db.Exec(
		ctx,
		`INSERT INTO goals (user_id, updated_at, weight_kg, chest_cm, waist_cm, hips_cm, thigh_cm, arm_cm, calf_cm)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (user_id) DO UPDATE SET
				updated_at = excluded.updated_at,
				weight_kg = excluded.weight_kg,
				chest_cm = excluded.chest_cm,
				waist_cm = excluded.waist_cm,
				hips_cm = excluded.hips_cm,
				thigh_cm = excluded.thigh_cm,
				arm_cm = excluded.arm_cm,
				calf_cm = excluded.calf_cm`,
		g.UserID, g.UpdatedAt, g.WeightKg, g.ChestCm, g.WaistCm, g.HipsCm, g.ThighCm, g.ArmCm, g.CalfCm,
	)
	if err != nil {
		return fmt.Errorf("upsert goal: %w", err)
	}
	return nil
}
