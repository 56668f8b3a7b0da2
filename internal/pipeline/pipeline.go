// Package pipeline replays source results through a rating calculator and
// persists the resulting event history. A rebuild is destructive and
// deterministic: it deletes the system's prior events, replays every result
// in order through a fresh calculator, and bulk-inserts the new history in
// one transaction. A dry run does all of that and rolls the transaction back.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/veldt/rerate/internal/adapters/store"
	"github.com/veldt/rerate/pkg/logger"
	"github.com/veldt/rerate/pkg/metrics"
)

// progressInterval is how many processed results sit between progress logs.
const progressInterval = 10000

// Options carries the run-wide knobs shared by every rebuild.
type Options struct {
	// DryRun replays and validates everything, then rolls back.
	DryRun bool
	// BatchSize bounds one bulk event insert. Zero keeps the store default.
	BatchSize int
	// ConfigRoot is the directory holding per-algorithm system config dirs.
	ConfigRoot string
}

// Summary reports one system's rebuild.
type Summary struct {
	RunID            string
	Algorithm        string
	Granularity      string
	Subject          string
	System           string
	ResultsProcessed int
	EventsInserted   int
	TrackedEntities  int64
	Duration         time.Duration
	DryRun           bool
}

// Spec wires one named system's rebuild: where results come from, which
// calculator replays them, and which table rows land in. Res is the source
// result type, E the calculator event type, Row the persisted row model.
type Spec[Res, E, Row any] struct {
	Algorithm    string
	Granularity  string
	Subject      string
	Name         string
	Description  string
	ConfigJSON   string
	LookbackDays int

	// Fetch loads ordered results with an optional lookback in days.
	Fetch func(db *gorm.DB, lookbackDays int) ([]Res, error)
	// Process replays one result through the calculator.
	Process func(Res) ([]E, error)
	// Convert turns calculator events into rows owned by the system id.
	Convert func(systemID uint, events []E) []Row

	Repository *store.Repository[Row]
}

// Rebuild runs one system's full replay. The returned summary is valid even
// for dry runs, where the transaction is rolled back after counting.
func (s Spec[Res, E, Row]) Rebuild(ctx context.Context, opts Options) (Summary, error) {
	start := time.Now()
	summary := Summary{
		RunID:       uuid.NewString(),
		Algorithm:   s.Algorithm,
		Granularity: s.Granularity,
		Subject:     s.Subject,
		System:      s.Name,
		DryRun:      opts.DryRun,
	}
	log := logger.Named("pipeline")

	log.Info(ctx, "rebuild starting",
		logger.String("run_id", summary.RunID),
		logger.String("algorithm", s.Algorithm),
		logger.String("granularity", s.Granularity),
		logger.String("subject", s.Subject),
		logger.String("system", s.Name),
		logger.Bool("dry_run", opts.DryRun),
	)

	if err := s.Repository.EnsureSchema(); err != nil {
		return summary, s.fail(ctx, summary, err)
	}

	results, err := s.Fetch(s.Repository.DB(), s.LookbackDays)
	if err != nil {
		return summary, s.fail(ctx, summary, err)
	}

	err = s.Repository.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		systemID, err := s.Repository.UpsertSystem(tx, s.Granularity, s.Subject, s.Name, s.Description, s.ConfigJSON)
		if err != nil {
			return err
		}
		if err := s.Repository.DeleteEvents(tx, systemID); err != nil {
			return err
		}

		var events []E
		for i, r := range results {
			produced, err := s.Process(r)
			if err != nil {
				return err
			}
			events = append(events, produced...)
			if (i+1)%progressInterval == 0 {
				log.Info(ctx, "rebuild progress",
					logger.String("run_id", summary.RunID),
					logger.Int("results", i+1),
					logger.Int("events", len(events)),
				)
			}
		}
		summary.ResultsProcessed = len(results)

		rows := s.Convert(systemID, events)
		if err := s.Repository.InsertEvents(tx, rows); err != nil {
			return err
		}
		summary.EventsInserted = len(rows)

		tracked, err := s.Repository.CountTrackedEntities(tx, systemID)
		if err != nil {
			return err
		}
		summary.TrackedEntities = tracked

		if opts.DryRun {
			return errDryRunRollback
		}
		return nil
	})
	if opts.DryRun && errors.Is(err, errDryRunRollback) {
		err = nil
	}
	if err != nil {
		return summary, s.fail(ctx, summary, err)
	}

	summary.Duration = time.Since(start)
	outcome := "success"
	if opts.DryRun {
		outcome = "dry_run"
	} else {
		metrics.UpdateLastRebuildUnix(s.Algorithm, s.Granularity, s.Subject, time.Now().Unix())
	}
	metrics.RecordRebuildOutcome(s.Algorithm, s.Granularity, s.Subject, outcome)
	metrics.RecordResultsProcessed(s.Algorithm, s.Granularity, s.Subject, summary.ResultsProcessed)
	metrics.RecordEventsInserted(s.Algorithm, s.Granularity, s.Subject, summary.EventsInserted)
	metrics.RecordRebuildDuration(s.Algorithm, s.Granularity, s.Subject, summary.Duration.Seconds())
	metrics.UpdateTrackedEntities(s.Algorithm, s.Granularity, s.Subject, s.Name, summary.TrackedEntities)

	log.Info(ctx, "rebuild finished",
		logger.String("run_id", summary.RunID),
		logger.String("system", s.Name),
		logger.Int("results", summary.ResultsProcessed),
		logger.Int("events", summary.EventsInserted),
		logger.Int64("tracked_entities", summary.TrackedEntities),
		logger.Float64("seconds", summary.Duration.Seconds()),
		logger.Bool("dry_run", opts.DryRun),
	)
	return summary, nil
}

func (s Spec[Res, E, Row]) fail(ctx context.Context, summary Summary, err error) error {
	metrics.RecordRebuildOutcome(s.Algorithm, s.Granularity, s.Subject, "failure")
	logger.Named("pipeline").Error(ctx, "rebuild failed",
		logger.String("run_id", summary.RunID),
		logger.String("system", s.Name),
		logger.Error(err),
	)
	return fmt.Errorf("%w: %s/%s/%s %q: %v", ErrRebuild, s.Algorithm, s.Granularity, s.Subject, s.Name, err)
}
