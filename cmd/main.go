package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/veldt/rerate/internal/config"
	"github.com/veldt/rerate/internal/pipeline"
	"github.com/veldt/rerate/internal/registry"
	"github.com/veldt/rerate/internal/systems"
	"github.com/veldt/rerate/pkg/logger"
	"github.com/veldt/rerate/pkg/metrics"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load configuration: " + err.Error() + "\n")
		return 1
	}

	algorithm := flag.String("algorithm", "all", "rating algorithm to rebuild (elo, glicko2, openskill, all)")
	granularity := flag.String("granularity", "all", "rating granularity to rebuild (map, match, map_specific, all)")
	subject := flag.String("subject", "all", "rating subject to rebuild (team, player, all)")
	dryRun := flag.Bool("dry-run", false, "replay and validate everything, then roll back")
	continueOnError := flag.Bool("continue-on-error", false, "keep rebuilding remaining combinations after a failure")
	batchSize := flag.Int("batch-size", cfg.BatchSize, "rows per bulk event insert")
	configDir := flag.String("config-dir", cfg.ConfigRoot, "directory holding per-algorithm system configs")
	driver := flag.String("driver", cfg.DBDriver, "database driver (sqlite or postgres)")
	dsn := flag.String("dsn", cfg.DBDSN, "database connection string")
	logLevel := flag.String("log-level", cfg.LogLevel, "log verbosity (debug, info, warn, error)")
	metricsFile := flag.String("metrics-file", "", "write prometheus text-format metrics to this file at end of run")
	flag.Parse()

	if err := validateBatchSize(*batchSize); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		return 1
	}

	if err := logger.Init(*logLevel); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	log := logger.Named("cmd")

	db, err := openDB(*driver, *dsn)
	if err != nil {
		log.Error(ctx, "failed to open database", logger.Error(err))
		return 1
	}

	if err := systems.RegisterAll(); err != nil {
		log.Error(ctx, "failed to register rating systems", logger.Error(err))
		return 1
	}

	selected := registry.Select(*algorithm, *granularity, *subject)
	if len(selected) == 0 {
		log.Error(ctx, "no rating combinations match the selection",
			logger.String("algorithm", *algorithm),
			logger.String("granularity", *granularity),
			logger.String("subject", *subject),
		)
		return 1
	}

	opts := pipeline.Options{
		DryRun:     *dryRun,
		BatchSize:  *batchSize,
		ConfigRoot: *configDir,
	}

	log.Info(ctx, "rebuild run starting",
		logger.Int("combinations", len(selected)),
		logger.Bool("dry_run", opts.DryRun),
		logger.String("driver", *driver),
	)

	failed := 0
	for _, d := range selected {
		summaries, err := d.Run(ctx, db, opts)
		for _, s := range summaries {
			log.Info(ctx, "system rebuilt",
				logger.String("key", d.Key.String()),
				logger.String("system", s.System),
				logger.Int("results", s.ResultsProcessed),
				logger.Int("events", s.EventsInserted),
				logger.Int64("tracked_entities", s.TrackedEntities),
				logger.Float64("seconds", s.Duration.Seconds()),
				logger.Bool("dry_run", s.DryRun),
			)
		}
		if err != nil {
			failed++
			log.Error(ctx, "combination failed",
				logger.String("key", d.Key.String()),
				logger.Error(err),
			)
			if !*continueOnError {
				break
			}
		}
	}

	if *metricsFile != "" {
		if err := metrics.WriteToFile(*metricsFile); err != nil {
			log.Error(ctx, "failed to write metrics file",
				logger.String("path", *metricsFile),
				logger.Error(err),
			)
			return 1
		}
		log.Info(ctx, "metrics written", logger.String("path", *metricsFile))
	}

	if failed > 0 {
		log.Error(ctx, "rebuild run finished with failures", logger.Int("failed", failed))
		return 1
	}
	log.Info(ctx, "rebuild run finished", logger.Int("combinations", len(selected)))
	return 0
}

// validateBatchSize rejects sizes the config loader would reject, so the
// flag and environment entry paths agree.
func validateBatchSize(n int) error {
	if n <= 0 {
		return fmt.Errorf("batch-size must be > 0, got %d", n)
	}
	return nil
}

// openDB opens a gorm connection for the configured driver. Query logging is
// silenced since the pipeline emits its own progress logs.
func openDB(driver, dsn string) (*gorm.DB, error) {
	gormCfg := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)}
	switch driver {
	case "sqlite":
		return gorm.Open(sqlite.Open(dsn), gormCfg)
	case "postgres":
		return gorm.Open(postgres.Open(dsn), gormCfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}
