// Package sync implements the per-user synchronization pipeline. The
// manager walks the scheduled units of work for one user, fetches and
// normalizes remote data, and hands rows to the transactional writer.
// Every unit outcome lands in the checkpoint table, so a crashed or
// interrupted run resumes exactly where it stopped.
package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/healthsync/healthsync/internal/checksum"
	"github.com/healthsync/healthsync/internal/extract"
	"github.com/healthsync/healthsync/internal/metrics"
	"github.com/healthsync/healthsync/internal/source"
	"github.com/healthsync/healthsync/internal/sync/retry"
	"github.com/healthsync/healthsync/internal/sync/schedule"
	"github.com/healthsync/healthsync/internal/sync/state"
	"github.com/healthsync/healthsync/internal/sync/writer"
	"github.com/healthsync/healthsync/internal/telemetry"
)

// Sync failure reason constants
const (
	ReasonAuthFailed        = "auth-failed"
	ReasonFetchFailed       = "fetch-failed"
	ReasonExtractFailed     = "extract-failed"
	ReasonStorageFailed     = "storage-failed"
	ReasonIntegrityMismatch = "integrity-mismatch"
	ReasonAborted           = "run-aborted"
)

// Result contains the aggregated outcome of one per-user sync run
type Result struct {
	// Units is the number of units the run covered.
	Units int
	// Completed counts units stored during this run.
	Completed int
	// Skipped counts units the remote had no data for.
	Skipped int
	// Failed counts units whose last attempt errored, including
	// quarantined units.
	Failed int
	// Quarantined counts completed units whose stored content no longer
	// matched its recorded digest during a forced re-sync.
	Quarantined int
	// AlreadyDone counts units recovered from checkpoints without a fetch.
	AlreadyDone int
	// Elapsed is the wall-clock duration of the run.
	Elapsed time.Duration
}

// Error represents a structured sync failure with a tagged reason
type Error struct {
	Err     error
	Message string
	Reason  string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Progress describes one finished unit of work during a run.
type Progress struct {
	Unit   state.Unit
	Status state.Status
	Done   int
	Total  int
	Err    error
}

// ProgressFunc receives progress updates during a run. It is called
// synchronously from the sync loop and must be cheap.
type ProgressFunc func(Progress)

// Request describes one per-user sync run.
type Request struct {
	UserID        uuid.UUID
	Username      string
	CredentialRef string
	Start         metrics.Date
	End           metrics.Date

	// Metrics restricts the run to the given types. Empty means all.
	Metrics []metrics.Type

	// BatchSize is the number of days per batch, defaulted when zero.
	BatchSize int

	// Order is the batch processing order.
	Order schedule.Order

	// Force refetches units that are already completed or skipped.
	// Completed units are integrity-checked first and quarantined
	// instead of overwritten when their stored content does not match
	// the recorded digest.
	Force bool

	OnProgress ProgressFunc
}

// Manager runs synchronization for a single user
//
//go:generate mockgen -destination=mocks/mock_manager.go -package=mocks github.com/healthsync/healthsync/internal/sync Manager
type Manager interface {
	// SyncUser executes a complete sync run for one user. Per-unit
	// failures are contained and recorded; only authentication failures,
	// cancellation, and checkpoint write failures abort the run.
	SyncUser(ctx context.Context, req Request) (*Result, *Error)
}

// defaultSyncManager is the default implementation of Manager
type defaultSyncManager struct {
	authenticator source.Authenticator
	client        source.Client
	extractor     extract.Extractor
	store         state.CheckpointStore
	syncWriter    writer.SyncWriter
	verifier      Verifier
	policy        retry.Policy
	syncMetrics   *telemetry.SyncMetrics
}

// ManagerOption configures a Manager at construction time.
type ManagerOption func(*defaultSyncManager)

// WithRetryPolicy overrides the retry policy for remote operations.
func WithRetryPolicy(p retry.Policy) ManagerOption {
	return func(m *defaultSyncManager) {
		m.policy = p
	}
}

// WithExtractor overrides the payload extractor.
func WithExtractor(e extract.Extractor) ManagerOption {
	return func(m *defaultSyncManager) {
		m.extractor = e
	}
}

// WithSyncMetrics attaches metrics instruments. A nil value disables
// instrumentation.
func WithSyncMetrics(sm *telemetry.SyncMetrics) ManagerOption {
	return func(m *defaultSyncManager) {
		m.syncMetrics = sm
	}
}

// NewDefaultSyncManager creates a new defaultSyncManager
func NewDefaultSyncManager(
	authenticator source.Authenticator,
	client source.Client,
	store state.CheckpointStore,
	syncWriter writer.SyncWriter,
	verifier Verifier,
	opts ...ManagerOption,
) Manager {
	m := &defaultSyncManager{
		authenticator: authenticator,
		client:        client,
		extractor:     extract.NewJSONExtractor(),
		store:         store,
		syncWriter:    syncWriter,
		verifier:      verifier,
		policy:        retry.DefaultPolicy(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *defaultSyncManager) SyncUser(ctx context.Context, req Request) (*Result, *Error) {
	started := time.Now()

	metricList := req.Metrics
	if len(metricList) == 0 {
		metricList = metrics.All()
	}

	scheduler, err := schedule.New(req.Start, req.End, req.BatchSize, req.Order)
	if err != nil {
		return nil, &Error{
			Err:     err,
			Message: fmt.Sprintf("invalid sync request: %v", err),
			Reason:  ReasonAborted,
		}
	}

	session, err := retry.Do(ctx, m.policy, func() (*source.Session, error) {
		return m.authenticator.Authenticate(ctx, req.CredentialRef)
	})
	if err != nil {
		return nil, &Error{
			Err:     err,
			Message: fmt.Sprintf("authentication failed for user %s: %v", req.Username, err),
			Reason:  ReasonAuthFailed,
		}
	}

	result := &Result{}
	total := scheduler.TotalDays() * len(metricList)

	slog.Info("starting sync run",
		"user", req.Username,
		"start", req.Start.String(),
		"end", req.End.String(),
		"units", total,
		"force", req.Force)

	for {
		batch, ok := scheduler.Next()
		if !ok {
			break
		}
		for _, day := range batch.Dates(scheduler.Order()) {
			for _, metric := range metricList {
				unit := state.Unit{UserID: req.UserID, Date: day, Metric: metric}

				status, syncErr := m.processUnit(ctx, session, unit, req.Force, result)
				if syncErr != nil {
					result.Elapsed = time.Since(started)
					return result, syncErr
				}

				result.Units++
				m.syncMetrics.RecordUnitOutcome(ctx, metric.String(), string(status))
				if req.OnProgress != nil {
					req.OnProgress(Progress{
						Unit:   unit,
						Status: status,
						Done:   result.Units,
						Total:  total,
					})
				}
			}
		}
	}

	result.Elapsed = time.Since(started)
	slog.Info("sync run finished",
		"user", req.Username,
		"completed", result.Completed,
		"skipped", result.Skipped,
		"failed", result.Failed,
		"alreadyDone", result.AlreadyDone,
		"elapsed", result.Elapsed)

	return result, nil
}

// processUnit runs the pipeline for one unit: checkpoint check, fetch,
// extract, store. It returns the unit's final status, or a run-level error
// when the whole run must stop.
func (m *defaultSyncManager) processUnit(
	ctx context.Context,
	session *source.Session,
	unit state.Unit,
	force bool,
	result *Result,
) (state.Status, *Error) {
	if err := ctx.Err(); err != nil {
		return "", &Error{
			Err:     err,
			Message: fmt.Sprintf("sync run aborted: %v", err),
			Reason:  ReasonAborted,
		}
	}

	cp, err := m.store.Get(ctx, unit)
	if err != nil && !errors.Is(err, state.ErrCheckpointNotFound) {
		return "", &Error{
			Err:     err,
			Message: fmt.Sprintf("failed to read checkpoint: %v", err),
			Reason:  ReasonStorageFailed,
		}
	}

	if cp.Done() {
		if !force {
			result.AlreadyDone++
			return cp.Status, nil
		}
		// Forced re-sync of a completed unit: verify the stored content
		// first. A unit whose stored row no longer matches its digest is
		// quarantined, never silently overwritten.
		if cp.Status == state.StatusCompleted {
			if verifyErr := m.verifier.VerifyUnit(ctx, unit); verifyErr != nil {
				var mismatch *checksum.MismatchError
				if errors.As(verifyErr, &mismatch) {
					return m.quarantine(ctx, unit, cp, mismatch, result)
				}
				return "", &Error{
					Err:     verifyErr,
					Message: fmt.Sprintf("integrity check failed: %v", verifyErr),
					Reason:  ReasonStorageFailed,
				}
			}
		}
	}

	return m.fetchAndStore(ctx, session, unit, result)
}

// quarantine marks a tampered unit failed without touching its stored rows.
func (m *defaultSyncManager) quarantine(
	ctx context.Context,
	unit state.Unit,
	cp *state.Checkpoint,
	mismatch *checksum.MismatchError,
	result *Result,
) (state.Status, *Error) {
	slog.Warn("stored content does not match recorded digest, quarantining unit",
		"date", unit.Date.String(),
		"metric", unit.Metric.String(),
		"stored", mismatch.Stored,
		"computed", mismatch.Computed)

	if err := m.syncWriter.MarkFailed(ctx, unit, cp.AttemptCount, mismatch); err != nil {
		return "", &Error{
			Err:     err,
			Message: fmt.Sprintf("failed to record quarantine: %v", err),
			Reason:  ReasonStorageFailed,
		}
	}
	result.Quarantined++
	result.Failed++
	return state.StatusFailed, nil
}

func (m *defaultSyncManager) fetchAndStore(
	ctx context.Context,
	session *source.Session,
	unit state.Unit,
	result *Result,
) (state.Status, *Error) {
	attempt := 1
	policy := m.policy
	callerOnRetry := policy.OnRetry
	policy.OnRetry = func(err error, delay time.Duration) {
		attempt++
		slog.Debug("retrying unit fetch",
			"date", unit.Date.String(),
			"metric", unit.Metric.String(),
			"attempt", attempt,
			"delay", delay,
			"error", err)
		if callerOnRetry != nil {
			callerOnRetry(err, delay)
		}
	}

	raw, err := retry.Do(ctx, policy, func() ([]byte, error) {
		return m.client.Fetch(ctx, session, unit.Metric, unit.Date)
	})
	if err != nil {
		if errors.Is(err, source.ErrNotFound) {
			return m.markSkipped(ctx, unit, attempt, result)
		}
		return m.handleUnitError(ctx, unit, attempt, err, ReasonFetchFailed, result)
	}

	normalized, err := m.extractor.Normalize(unit.Metric, raw)
	if err != nil {
		// Malformed payloads are not retried; the structure will not fix
		// itself on the next attempt.
		return m.markFailed(ctx, unit, attempt, err, result)
	}

	if normalized.Empty() {
		return m.markSkipped(ctx, unit, attempt, result)
	}

	digest, err := checksum.Compute(normalized)
	if err != nil {
		return m.markFailed(ctx, unit, attempt, err, result)
	}

	if err := m.syncWriter.StoreUnit(ctx, unit, normalized, digest, attempt); err != nil {
		return m.handleUnitError(ctx, unit, attempt, err, ReasonStorageFailed, result)
	}

	result.Completed++
	return state.StatusCompleted, nil
}

// handleUnitError decides between containing a unit failure and aborting the
// run. Cancellation and dead sessions abort; everything else is recorded on
// the unit's checkpoint and the run moves on.
func (m *defaultSyncManager) handleUnitError(
	ctx context.Context,
	unit state.Unit,
	attempt int,
	err error,
	reason string,
	result *Result,
) (state.Status, *Error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "", &Error{
			Err:     err,
			Message: fmt.Sprintf("sync run aborted: %v", err),
			Reason:  ReasonAborted,
		}
	}

	var remoteErr *source.Error
	if errors.As(err, &remoteErr) && remoteErr.Kind == source.KindAuth {
		// The session died mid-run; no subsequent unit can succeed.
		if markErr := m.syncWriter.MarkFailed(ctx, unit, attempt, err); markErr != nil {
			err = errors.Join(err, markErr)
		}
		return "", &Error{
			Err:     err,
			Message: fmt.Sprintf("session rejected mid-run: %v", err),
			Reason:  ReasonAuthFailed,
		}
	}

	slog.Warn("unit failed",
		"date", unit.Date.String(),
		"metric", unit.Metric.String(),
		"attempts", attempt,
		"reason", reason,
		"error", err)

	return m.markFailed(ctx, unit, attempt, err, result)
}

func (m *defaultSyncManager) markFailed(
	ctx context.Context,
	unit state.Unit,
	attempt int,
	cause error,
	result *Result,
) (state.Status, *Error) {
	if err := m.syncWriter.MarkFailed(ctx, unit, attempt, cause); err != nil {
		return "", &Error{
			Err:     err,
			Message: fmt.Sprintf("failed to record unit failure: %v", err),
			Reason:  ReasonStorageFailed,
		}
	}
	result.Failed++
	return state.StatusFailed, nil
}

func (m *defaultSyncManager) markSkipped(
	ctx context.Context,
	unit state.Unit,
	attempt int,
	result *Result,
) (state.Status, *Error) {
	if err := m.syncWriter.MarkSkipped(ctx, unit, attempt); err != nil {
		return "", &Error{
			Err:     err,
			Message: fmt.Sprintf("failed to record skipped unit: %v", err),
			Reason:  ReasonStorageFailed,
		}
	}
	result.Skipped++
	return state.StatusSkipped, nil
}
