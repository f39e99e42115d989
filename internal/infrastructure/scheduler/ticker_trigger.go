package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// TickerTriggerConfig holds configuration for the periodic job trigger
type TickerTriggerConfig struct {
	// ReorderScanInterval is how often the reorder-point scan runs.
	ReorderScanInterval time.Duration

	// CleanupHour and CleanupMinute set the local time of day for the
	// daily outbox cleanup.
	CleanupHour   int
	CleanupMinute int

	// CheckInterval is how often the trigger checks the daily schedule.
	CheckInterval time.Duration
}

// DefaultTickerTriggerConfig returns default trigger configuration
func DefaultTickerTriggerConfig() TickerTriggerConfig {
	return TickerTriggerConfig{
		ReorderScanInterval: time.Hour,
		CleanupHour:         3, // 3am, outside trading hours
		CleanupMinute:       0,
		CheckInterval:       time.Minute,
	}
}

// TickerTrigger submits recurring jobs to the scheduler: the reorder-point
// scan on a fixed interval and the outbox cleanup once per day.
type TickerTrigger struct {
	config    TickerTriggerConfig
	scheduler *Scheduler
	logger    *zap.Logger

	cancel         context.CancelFunc
	wg             sync.WaitGroup
	mu             sync.Mutex
	isRunning      bool
	lastCleanupDay string
}

// NewTickerTrigger creates a new periodic job trigger
func NewTickerTrigger(config TickerTriggerConfig, sched *Scheduler, logger *zap.Logger) *TickerTrigger {
	if config.ReorderScanInterval <= 0 {
		config.ReorderScanInterval = DefaultTickerTriggerConfig().ReorderScanInterval
	}
	if config.CheckInterval <= 0 {
		config.CheckInterval = DefaultTickerTriggerConfig().CheckInterval
	}
	return &TickerTrigger{
		config:    config,
		scheduler: sched,
		logger:    logger,
	}
}

// Start starts the trigger loop
func (t *TickerTrigger) Start(ctx context.Context) error {
	t.mu.Lock()
	if t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = true
	t.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel

	t.wg.Add(1)
	go t.runLoop(ctx)

	t.logger.Info("Job trigger started",
		zap.Duration("reorder_scan_interval", t.config.ReorderScanInterval),
		zap.Int("cleanup_hour", t.config.CleanupHour),
		zap.Int("cleanup_minute", t.config.CleanupMinute),
	)

	return nil
}

// Stop stops the trigger loop
func (t *TickerTrigger) Stop(ctx context.Context) error {
	t.mu.Lock()
	if !t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = false
	t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.logger.Info("Job trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *TickerTrigger) runLoop(ctx context.Context) {
	defer t.wg.Done()

	scanTicker := time.NewTicker(t.config.ReorderScanInterval)
	defer scanTicker.Stop()

	checkTicker := time.NewTicker(t.config.CheckInterval)
	defer checkTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-scanTicker.C:
			t.submit(JobTypeReorderScan)
		case <-checkTicker.C:
			t.checkDailyCleanup()
		}
	}
}

// checkDailyCleanup submits the cleanup job once when the configured time
// of day is reached.
func (t *TickerTrigger) checkDailyCleanup() {
	now := time.Now()
	currentDay := now.Format("2006-01-02")

	t.mu.Lock()
	alreadyRan := t.lastCleanupDay == currentDay
	t.mu.Unlock()

	if alreadyRan {
		return
	}
	if now.Hour() != t.config.CleanupHour || now.Minute() != t.config.CleanupMinute {
		return
	}

	t.mu.Lock()
	t.lastCleanupDay = currentDay
	t.mu.Unlock()

	t.submit(JobTypeOutboxCleanup)
}

// TriggerReorderScan submits an immediate reorder-point scan. Exposed for
// admin endpoints and startup catch-up.
func (t *TickerTrigger) TriggerReorderScan() error {
	return t.scheduler.Schedule(JobTypeReorderScan)
}

func (t *TickerTrigger) submit(jobType JobType) {
	if err := t.scheduler.Schedule(jobType); err != nil {
		t.logger.Error("Failed to submit scheduled job",
			zap.String("job_type", string(jobType)),
			zap.Error(err),
		)
	}
}
