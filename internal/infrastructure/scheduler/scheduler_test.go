package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type recordingExecutor struct {
	mu       sync.Mutex
	executed []JobType
	failures int
	err      error
	done     chan struct{}
}

func newRecordingExecutor() *recordingExecutor {
	return &recordingExecutor{done: make(chan struct{}, 16)}
}

func (e *recordingExecutor) Execute(_ context.Context, job *Job) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.executed = append(e.executed, job.Type)
	e.done <- struct{}{}
	if e.failures > 0 {
		e.failures--
		return e.err
	}
	return nil
}

func (e *recordingExecutor) executedTypes() []JobType {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]JobType(nil), e.executed...)
}

func (e *recordingExecutor) waitForExecutions(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-e.done:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for execution %d of %d", i+1, n)
		}
	}
}

func testConfig() SchedulerConfig {
	cfg := DefaultSchedulerConfig()
	cfg.JobTimeout = time.Second
	cfg.RetryDelay = time.Millisecond
	return cfg
}

func TestJob_Lifecycle(t *testing.T) {
	job := NewJob(JobTypeReorderScan, 3)

	assert.Equal(t, JobStatusPending, job.Status)
	assert.Equal(t, JobTypeReorderScan, job.Type)
	assert.NotEqual(t, "", job.ID.String())

	job.Start()
	assert.Equal(t, JobStatusRunning, job.Status)
	require.NotNil(t, job.StartedAt)

	job.Complete()
	assert.Equal(t, JobStatusSuccess, job.Status)
	require.NotNil(t, job.CompletedAt)
}

func TestJob_FailAndRetry(t *testing.T) {
	job := NewJob(JobTypeOutboxCleanup, 2)

	job.Start()
	job.Fail("boom")
	assert.Equal(t, JobStatusFailed, job.Status)
	assert.Equal(t, "boom", job.Error)
	assert.True(t, job.ShouldRetry())

	job.ScheduleRetry(time.Minute)
	assert.Equal(t, JobStatusPending, job.Status)
	assert.Equal(t, 1, job.RetryCount)
	require.NotNil(t, job.NextRetryAt)
	assert.Empty(t, job.Error)

	job.Start()
	job.Fail("boom again")
	job.ScheduleRetry(time.Minute)
	job.Start()
	job.Fail("boom a third time")
	assert.False(t, job.ShouldRetry())
}

func TestScheduler_SubmitBeforeStart(t *testing.T) {
	s := NewScheduler(testConfig(), newRecordingExecutor(), zaptest.NewLogger(t))

	err := s.SubmitJob(NewJob(JobTypeReorderScan, 0))
	assert.ErrorIs(t, err, ErrSchedulerNotRunning)
}

func TestScheduler_ExecutesSubmittedJobs(t *testing.T) {
	executor := newRecordingExecutor()
	s := NewScheduler(testConfig(), executor, zaptest.NewLogger(t))

	ctx := context.Background()
	require.NoError(t, s.Start(ctx))

	require.NoError(t, s.Schedule(JobTypeReorderScan))
	require.NoError(t, s.Schedule(JobTypeOutboxCleanup))

	executor.waitForExecutions(t, 2)

	stopCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	require.NoError(t, s.Stop(stopCtx))

	types := executor.executedTypes()
	assert.Contains(t, types, JobTypeReorderScan)
	assert.Contains(t, types, JobTypeOutboxCleanup)
}

func TestScheduler_RetriesFailedJobs(t *testing.T) {
	executor := newRecordingExecutor()
	executor.failures = 1
	executor.err = errors.New("transient failure")

	s := NewScheduler(testConfig(), executor, zaptest.NewLogger(t))

	ctx := context.Background()
	require.NoError(t, s.Start(ctx))

	require.NoError(t, s.Schedule(JobTypeReorderScan))

	// First attempt fails, the retry succeeds
	executor.waitForExecutions(t, 2)

	stopCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	require.NoError(t, s.Stop(stopCtx))

	assert.Len(t, executor.executedTypes(), 2)
}

func TestScheduler_StartIsIdempotent(t *testing.T) {
	s := NewScheduler(testConfig(), newRecordingExecutor(), zaptest.NewLogger(t))

	ctx := context.Background()
	require.NoError(t, s.Start(ctx))
	require.NoError(t, s.Start(ctx))

	stopCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	require.NoError(t, s.Stop(stopCtx))
	require.NoError(t, s.Stop(stopCtx))
}
