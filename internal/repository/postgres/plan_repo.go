package postgres

import (
	"alcyxob/liftlog/internal/domain"
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PlanRepo struct {
	db *pgxpool.Pool
}

func NewPlanRepo(db *pgxpool.Pool) *PlanRepo {
	return &PlanRepo{db: db}
}

func (r *PlanRepo) List(ctx context.Context, userID string) ([]domain.PlanDay, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT id, day_label, tag, focus, exercises, color
			FROM plan_days WHERE user_id = $1 ORDER BY position`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	days := []domain.PlanDay{}
	for rows.Next() {
		var d domain.PlanDay
		if err := rows.Scan(&d.ID, &d.DayLabel, &d.Tag, &d.Focus, &d.Exercises, &d.Color); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

// ReplaceAll rewrites the user's plan inside one transaction.
func (r *PlanRepo) ReplaceAll(ctx context.Context, userID string, days []domain.PlanDay) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM plan_days WHERE user_id = $1`, userID); err != nil {
			return fmt.Errorf("clear plan: %w", err)
		}

		batch := &pgx.Batch{}
		for i, d := range days {
			exercises := d.Exercises
			if exercises == nil {
				exercises = []string{}
			}
			batch.Queue(
				`INSERT INTO plan_days (user_id, id, position, day_label, tag, focus, exercises, color)
					VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				userID, d.ID, i, d.DayLabel, d.Tag, d.Focus, exercises, d.Color,
			)
		}
		if batch.Len() == 0 {
			return nil
		}
		return tx.SendBatch(ctx, batch).Close()
	})
}
