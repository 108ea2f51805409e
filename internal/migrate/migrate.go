// Package migrate copies catalog exercises and saved workouts between two
// backends, keeping their IDs.
package migrate

import (
	"alcyxob/liftlog/internal/repository"
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
)

var ErrMissingRepository = errors.New("source and target need exercise and workout repositories")

// Report counts what was copied, or would be copied on a dry run.
type Report struct {
	Exercises int
	Workouts  int
}

// Options tunes a run.
type Options struct {
	// DryRun reads the source and counts without writing.
	DryRun bool
}

// Run upserts every exercise and then every workout from src into dst. It
// stops at the first failed write; the report holds what was written so far.
func Run(ctx context.Context, src, dst *repository.Repositories, opts Options) (Report, error) {
	var report Report
	if src == nil || dst == nil ||
		src.Exercises == nil || src.Workouts == nil ||
		dst.Exercises == nil || dst.Workouts == nil {
		return report, ErrMissingRepository
	}

	exercises, err := src.Exercises.ListAll(ctx)
	if err != nil {
		return report, fmt.Errorf("list source exercises: %w", err)
	}
	log.Infof("migrating %d exercises", len(exercises))
	for i := range exercises {
		if !opts.DryRun {
			if err := dst.Exercises.Upsert(ctx, &exercises[i]); err != nil {
				return report, fmt.Errorf("upsert exercise %s: %w", exercises[i].ID, err)
			}
		}
		report.Exercises++
	}

	workouts, err := src.Workouts.ListAll(ctx)
	if err != nil {
		return report, fmt.Errorf("list source workouts: %w", err)
	}
	log.Infof("migrating %d workouts", len(workouts))
	for i := range workouts {
		if !opts.DryRun {
			if err := dst.Workouts.Upsert(ctx, &workouts[i]); err != nil {
				return report, fmt.Errorf("upsert workout %s: %w", workouts[i].ID, err)
			}
		}
		report.Workouts++
	}

	return report, nil
}
