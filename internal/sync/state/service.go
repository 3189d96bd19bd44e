// Package state contains logic for managing the durable sync checkpoints
// the engine persists. Checkpoints are the recovery log: one row per
// (user, date, metric) unit of work, and a unit marked completed or
// skipped is never refetched on a later run.
package state

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/healthsync/healthsync/internal/metrics"
)

// ErrCheckpointNotFound is returned when no checkpoint exists for a unit.
var ErrCheckpointNotFound = errors.New("checkpoint not found")

// Status is the durable outcome of one unit of sync work.
type Status string

const (
	// StatusPending marks a unit that was started but not finished.
	StatusPending Status = "pending"
	// StatusCompleted marks a unit whose rows are stored and verified.
	StatusCompleted Status = "completed"
	// StatusFailed marks a unit whose last attempt errored. Failed units
	// are retried on the next run.
	StatusFailed Status = "failed"
	// StatusSkipped marks a unit the remote had no data for. Skipped is
	// terminal like completed.
	StatusSkipped Status = "skipped"
)

// Unit identifies one (user, date, metric) unit of sync work.
type Unit struct {
	UserID uuid.UUID
	Date   metrics.Date
	Metric metrics.Type
}

// Checkpoint is the durable record for a unit.
type Checkpoint struct {
	Unit
	Status       Status
	Checksum     string
	ErrorMsg     string
	AttemptCount int
	SyncedAt     *time.Time
	UpdatedAt    time.Time
}

// Done reports whether the unit needs no further work.
func (c *Checkpoint) Done() bool {
	return c != nil && (c.Status == StatusCompleted || c.Status == StatusSkipped)
}

// Summary aggregates checkpoint outcomes over a date range.
type Summary struct {
	Pending   int64
	Completed int64
	Failed    int64
	Skipped   int64
}

// Total returns the number of checkpointed units in the summary.
func (s Summary) Total() int64 {
	return s.Pending + s.Completed + s.Failed + s.Skipped
}

// CheckpointStore provides durable access to sync checkpoints.
//
//go:generate mockgen -destination=mocks/mock_checkpoint_store.go -package=mocks github.com/healthsync/healthsync/internal/sync/state CheckpointStore
type CheckpointStore interface {
	// Get returns the checkpoint for a unit, or ErrCheckpointNotFound.
	Get(ctx context.Context, unit Unit) (*Checkpoint, error)
	// IsDone reports whether a unit is completed or skipped. A missing
	// checkpoint is not an error; it simply means the unit is not done.
	IsDone(ctx context.Context, unit Unit) (bool, error)
	// Save upserts the checkpoint for a unit.
	Save(ctx context.Context, cp Checkpoint) error
	// List returns the checkpoints for a user over a date range.
	List(ctx context.Context, userID uuid.UUID, start, end metrics.Date) ([]Checkpoint, error)
	// Summarize counts checkpoint outcomes for a user over a date range.
	Summarize(ctx context.Context, userID uuid.UUID, start, end metrics.Date) (Summary, error)
	// Reset deletes all checkpoints for a user and returns the number
	// removed. The stored metric rows are left untouched.
	Reset(ctx context.Context, userID uuid.UUID) (int64, error)
}
