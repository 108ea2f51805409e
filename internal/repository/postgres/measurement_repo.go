package postgres

import (
	"alcyxob/liftlog/internal/domain"
	"alcyxob/liftlog/internal/repository"
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type MeasurementRepo struct {
	db *pgxpool.Pool
}

func NewMeasurementRepo(db *pgxpool.Pool) *MeasurementRepo {
	return &MeasurementRepo{db: db}
}

func (r *MeasurementRepo) Create(ctx context.Context, m *domain.Measurement) (string, error) {
	if m.UserID == "" {
		return "", errors.New("measurement user ID is required")
	}
	if m.ID == "" {
		m.ID = newID()
	}

	_, err := r.db.Exec(
		ctx,
		`INSERT INTO measurements
				(id, user_id, taken_at, weight_kg, chest_cm, waist_cm, hips_cm, thigh_cm, arm_cm, calf_cm)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		m.ID, m.UserID, m.TakenAt,
		m.WeightKg, m.ChestCm, m.WaistCm, m.HipsCm, m.ThighCm, m.ArmCm, m.CalfCm,
	)
	if err != nil {
		return "", fmt.Errorf("insert measurement: %w", err)
	}
	return m.ID, nil
}

func (r *MeasurementRepo) Update(ctx context.Context, m *domain.Measurement) error {
	tag, err := r.db.Exec(
		ctx,
		`UPDATE measurements SET taken_at = $3, weight_kg = $4, chest_cm = $5, waist_cm = $6,
				hips_cm = $7, thigh_cm = $8, arm_cm = $9, calf_cm = $10
			WHERE id = $1 AND user_id = $2`,
		m.ID, m.UserID, m.TakenAt,
		m.WeightKg, m.ChestCm, m.WaistCm, m.HipsCm, m.ThighCm, m.ArmCm, m.CalfCm,
	)
	if err != nil {
		return fmt.Errorf("update measurement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *MeasurementRepo) ListRecent(ctx context.Context, userID string, limit int) ([]domain.Measurement, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT id, user_id, taken_at, weight_kg, chest_cm, waist_cm, hips_cm, thigh_cm, arm_cm, calf_cm
			FROM measurements
			WHERE user_id = $1
			ORDER BY taken_at DESC
			LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	measurements := []domain.Measurement{}
	for rows.Next() {
		var m domain.Measurement
		if err := rows.Scan(
			&m.ID, &m.UserID, &m.TakenAt,
			&m.WeightKg, &m.ChestCm, &m.WaistCm, &m.HipsCm, &m.ThighCm, &m.ArmCm, &m.CalfCm,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		measurements = append(measurements, m)
	}
	return measurements, rows.Err()
}

func (r *MeasurementRepo) Delete(ctx context.Context, userID, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM measurements WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
