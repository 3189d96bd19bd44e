package coordinator

import (
	"context"
	"log/slog"
	gosync "sync"
	"time"

	"github.com/google/uuid"

	"github.com/healthsync/healthsync/internal/db/pgtypes"
	"github.com/healthsync/healthsync/internal/db/sqlc"
	pkgsync "github.com/healthsync/healthsync/internal/sync"
	"github.com/healthsync/healthsync/internal/sync/lease"
	"github.com/healthsync/healthsync/internal/telemetry"
)

// ProgressReporter receives one notification per finished unit of work.
// Implementations must be cheap; they are called synchronously from the
// sync loop.
type ProgressReporter interface {
	ReportProgress(jobID uuid.UUID, username string, p pkgsync.Progress)
}

// Coordinator starts and supervises sync jobs across users
type Coordinator interface {
	// StartJob begins a sync job for the user named in req. It rejects the
	// request with lease.ErrUserBusy when a job for that user is already
	// active. The returned Job is the control handle; the job itself runs
	// in the background.
	StartJob(ctx context.Context, req pkgsync.Request) (*Job, error)

	// Shutdown waits for all running jobs to finish or ctx to expire.
	// It does not stop the jobs; call Stop on each job first for a fast
	// shutdown.
	Shutdown(ctx context.Context) error
}

// defaultCoordinator is the default implementation of Coordinator
type defaultCoordinator struct {
	manager pkgsync.Manager
	leases  *lease.Controller
	queries sqlc.Querier

	reporter    ProgressReporter
	syncMetrics *telemetry.SyncMetrics

	wg gosync.WaitGroup
}

// Option is a function that configures the coordinator
type Option func(*defaultCoordinator)

// WithSyncMetrics sets the metrics instruments for the coordinator
func WithSyncMetrics(metrics *telemetry.SyncMetrics) Option {
	return func(c *defaultCoordinator) {
		c.syncMetrics = metrics
	}
}

// WithProgressReporter sets the external progress collaborator
func WithProgressReporter(reporter ProgressReporter) Option {
	return func(c *defaultCoordinator) {
		c.reporter = reporter
	}
}

// New creates a new coordinator with injected dependencies
func New(
	manager pkgsync.Manager,
	leases *lease.Controller,
	queries sqlc.Querier,
	opts ...Option,
) Coordinator {
	c := &defaultCoordinator{
		manager: manager,
		leases:  leases,
		queries: queries,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// StartJob acquires the user's lease and launches the job.
func (c *defaultCoordinator) StartJob(ctx context.Context, req pkgsync.Request) (*Job, error) {
	ls, err := c.leases.Acquire(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	jobCtx, cancel := context.WithCancel(ctx)
	job := &Job{
		id:     uuid.New(),
		req:    req,
		state:  StatePending,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	c.wg.Add(1)
	go c.run(jobCtx, job, ls)

	return job, nil
}

// Shutdown waits for running jobs to drain.
func (c *defaultCoordinator) Shutdown(ctx context.Context) error {
	drained := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(drained)
	}()

	select {
	case <-drained:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run executes one job to a terminal state. The lease is released on every
// exit path.
func (c *defaultCoordinator) run(ctx context.Context, job *Job, ls *lease.Lease) {
	defer c.wg.Done()
	defer ls.Release()
	defer close(job.done)
	defer job.cancel()

	job.setRunning()
	started := time.Now()

	req := job.req
	callerProgress := req.OnProgress
	req.OnProgress = func(p pkgsync.Progress) {
		if callerProgress != nil {
			callerProgress(p)
		}
		if c.reporter != nil {
			c.reporter.ReportProgress(job.id, req.Username, p)
		}
		// Pause and stop are observed here, after the unit committed.
		job.gate(ctx)
	}

	slog.Info("starting sync job",
		"job", job.id,
		"user", req.Username,
		"start", req.Start.String(),
		"end", req.End.String())

	result, runErr := c.manager.SyncUser(ctx, req)
	elapsed := time.Since(started)

	final := job.finish(result, runErr)
	c.syncMetrics.RecordRunDuration(ctx, req.Username, elapsed, final == StateCompleted)

	switch final {
	case StateCompleted:
		c.recordLastSync(ctx, job)
		slog.Info("sync job completed",
			"job", job.id,
			"user", req.Username,
			"completed", result.Completed,
			"skipped", result.Skipped,
			"failed", result.Failed,
			"elapsed", elapsed)
	case StateStopped:
		slog.Info("sync job stopped",
			"job", job.id,
			"user", req.Username,
			"units", unitCount(result))
	default:
		slog.Error("sync job failed",
			"job", job.id,
			"user", req.Username,
			"reason", runErr.Reason,
			"error", runErr.Message)
	}
}

// recordLastSync stamps the user row after a fully completed run.
func (c *defaultCoordinator) recordLastSync(ctx context.Context, job *Job) {
	err := c.queries.UpdateUserLastSync(ctx, sqlc.UpdateUserLastSyncParams{
		ID:         pgtypes.UUID(job.req.UserID),
		LastSyncAt: pgtypes.Timestamptz(time.Now()),
	})
	if err != nil {
		slog.Error("failed to record last sync time",
			"job", job.id,
			"user", job.req.Username,
			"error", err)
	}
}

func unitCount(result *pkgsync.Result) int {
	if result == nil {
		return 0
	}
	return result.Units
}
