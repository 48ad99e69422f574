package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/flockreport/internal/config"
	"github.com/mamadbah2/flockreport/internal/service/reporting"
)

const snapshotTimeout = 5 * time.Minute

// SnapshotRunner produces one report snapshot.
type SnapshotRunner interface {
	RunSnapshot(ctx context.Context) (reporting.SnapshotResult, error)
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron   *cron.Cron
	runner SnapshotRunner
	cfg    config.ReportingConfig
	logger *zap.Logger
}

// NewScheduler creates a scheduler running on the configured timezone.
func NewScheduler(cfg config.ReportingConfig, runner SnapshotRunner, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("load scheduler timezone: %w", err)
	}

	// Standard 5-field cron (min, hour, dom, month, dow). A tick that fires
	// while a snapshot is still running is skipped.
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)

	return &Scheduler{
		cron:   c,
		runner: runner,
		cfg:    cfg,
		logger: logger,
	}, nil
}

// Start registers the snapshot job and starts the scheduler.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.CronSchedule), zap.String("timezone", s.cfg.Timezone))

	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.runSnapshot); err != nil {
		return fmt.Errorf("schedule report snapshot: %w", err)
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running snapshot to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runSnapshot() {
	s.logger.Info("generating report snapshot")
	ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
	defer cancel()

	result, err := s.runner.RunSnapshot(ctx)
	if err != nil {
		s.logger.Error("report snapshot failed", zap.Error(err))
		return
	}

	s.logger.Info("report snapshot delivered",
		zap.Int("production_rows", result.ProductionRows),
		zap.Int("balance_mismatches", result.Mismatches))
}
