package scheduler

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ReorderScanner re-checks inventory records against their reorder points.
// Implemented by the inventory ledger service.
type ReorderScanner interface {
	ScanReorderPoints(ctx context.Context) (int, error)
}

// OutboxCleaner deletes sent outbox entries older than a cutoff.
// Implemented by the outbox repository.
type OutboxCleaner interface {
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
}

// JobExecutorConfig holds tunables for the job executor
type JobExecutorConfig struct {
	// OutboxRetention is how long sent outbox entries are kept before
	// cleanup deletes them.
	OutboxRetention time.Duration
}

// DefaultJobExecutorConfig returns default executor configuration
func DefaultJobExecutorConfig() JobExecutorConfig {
	return JobExecutorConfig{
		OutboxRetention: 7 * 24 * time.Hour,
	}
}

// BackgroundJobExecutor dispatches scheduler jobs to the services that
// actually perform the work.
type BackgroundJobExecutor struct {
	scanner ReorderScanner
	cleaner OutboxCleaner
	config  JobExecutorConfig
	logger  *zap.Logger
}

// NewBackgroundJobExecutor creates an executor wired to the given services.
// Either dependency may be nil; jobs of the corresponding type then fail.
func NewBackgroundJobExecutor(
	scanner ReorderScanner,
	cleaner OutboxCleaner,
	config JobExecutorConfig,
	logger *zap.Logger,
) *BackgroundJobExecutor {
	if config.OutboxRetention <= 0 {
		config.OutboxRetention = DefaultJobExecutorConfig().OutboxRetention
	}
	return &BackgroundJobExecutor{
		scanner: scanner,
		cleaner: cleaner,
		config:  config,
		logger:  logger,
	}
}

var _ JobExecutor = (*BackgroundJobExecutor)(nil)

// Execute runs the job according to its type
func (e *BackgroundJobExecutor) Execute(ctx context.Context, job *Job) error {
	switch job.Type {
	case JobTypeReorderScan:
		return e.runReorderScan(ctx)
	case JobTypeOutboxCleanup:
		return e.runOutboxCleanup(ctx)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownJobType, job.Type)
	}
}

func (e *BackgroundJobExecutor) runReorderScan(ctx context.Context) error {
	if e.scanner == nil {
		return fmt.Errorf("reorder scan: no scanner configured")
	}

	count, err := e.scanner.ScanReorderPoints(ctx)
	if err != nil {
		return fmt.Errorf("reorder scan failed: %w", err)
	}

	e.logger.Info("Reorder point scan completed",
		zap.Int("records_below_reorder_point", count),
	)
	return nil
}

func (e *BackgroundJobExecutor) runOutboxCleanup(ctx context.Context) error {
	if e.cleaner == nil {
		return fmt.Errorf("outbox cleanup: no cleaner configured")
	}

	cutoff := time.Now().Add(-e.config.OutboxRetention)
	deleted, err := e.cleaner.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("outbox cleanup failed: %w", err)
	}

	if deleted > 0 {
		e.logger.Info("Outbox cleanup completed",
			zap.Int64("deleted", deleted),
			zap.Time("cutoff", cutoff),
		)
	}
	return nil
}
