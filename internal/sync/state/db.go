package state

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/healthsync/healthsync/internal/db/pgtypes"
	"github.com/healthsync/healthsync/internal/db/sqlc"
	"github.com/healthsync/healthsync/internal/metrics"
)

type dbCheckpointStore struct {
	queries *sqlc.Queries
}

// NewDBCheckpointStore creates a database-backed checkpoint store.
func NewDBCheckpointStore(pool *pgxpool.Pool) CheckpointStore {
	return &dbCheckpointStore{
		queries: sqlc.New(pool),
	}
}

func (d *dbCheckpointStore) Get(ctx context.Context, unit Unit) (*Checkpoint, error) {
	row, err := d.queries.GetCheckpoint(ctx, sqlc.GetCheckpointParams{
		UserID:     pgtypes.UUID(unit.UserID),
		MetricDate: pgtypes.Date(unit.Date),
		MetricType: sqlc.MetricType(unit.Metric),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCheckpointNotFound
		}
		return nil, fmt.Errorf("failed to get checkpoint: %w", err)
	}
	return fromDBCheckpoint(row), nil
}

func (d *dbCheckpointStore) IsDone(ctx context.Context, unit Unit) (bool, error) {
	cp, err := d.Get(ctx, unit)
	if err != nil {
		if errors.Is(err, ErrCheckpointNotFound) {
			return false, nil
		}
		return false, err
	}
	return cp.Done(), nil
}

func (d *dbCheckpointStore) Save(ctx context.Context, cp Checkpoint) error {
	return SaveCheckpoint(ctx, d.queries, cp)
}

func (d *dbCheckpointStore) List(
	ctx context.Context,
	userID uuid.UUID,
	start, end metrics.Date,
) ([]Checkpoint, error) {
	rows, err := d.queries.ListCheckpoints(ctx, sqlc.ListCheckpointsParams{
		UserID:       pgtypes.UUID(userID),
		MetricDate:   pgtypes.Date(start),
		MetricDate_2: pgtypes.Date(end),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list checkpoints: %w", err)
	}

	out := make([]Checkpoint, 0, len(rows))
	for _, row := range rows {
		out = append(out, *fromDBCheckpoint(row))
	}
	return out, nil
}

func (d *dbCheckpointStore) Summarize(
	ctx context.Context,
	userID uuid.UUID,
	start, end metrics.Date,
) (Summary, error) {
	rows, err := d.queries.SummarizeCheckpoints(ctx, sqlc.SummarizeCheckpointsParams{
		UserID:       pgtypes.UUID(userID),
		MetricDate:   pgtypes.Date(start),
		MetricDate_2: pgtypes.Date(end),
	})
	if err != nil {
		return Summary{}, fmt.Errorf("failed to summarize checkpoints: %w", err)
	}

	var summary Summary
	for _, row := range rows {
		switch row.Status {
		case sqlc.CheckpointStatusPending:
			summary.Pending = row.Count
		case sqlc.CheckpointStatusCompleted:
			summary.Completed = row.Count
		case sqlc.CheckpointStatusFailed:
			summary.Failed = row.Count
		case sqlc.CheckpointStatusSkipped:
			summary.Skipped = row.Count
		}
	}
	return summary, nil
}

func (d *dbCheckpointStore) Reset(ctx context.Context, userID uuid.UUID) (int64, error) {
	deleted, err := d.queries.DeleteCheckpoints(ctx, pgtypes.UUID(userID))
	if err != nil {
		return 0, fmt.Errorf("failed to reset checkpoints: %w", err)
	}
	return deleted, nil
}

// SaveCheckpoint upserts a checkpoint through the given querier. The write
// path calls this with a transaction-scoped querier so the checkpoint
// commits atomically with the metric rows it describes.
func SaveCheckpoint(ctx context.Context, q sqlc.Querier, cp Checkpoint) error {
	_, err := q.UpsertCheckpoint(ctx, sqlc.UpsertCheckpointParams{
		UserID:       pgtypes.UUID(cp.UserID),
		MetricDate:   pgtypes.Date(cp.Date),
		MetricType:   sqlc.MetricType(cp.Metric),
		Status:       sqlc.CheckpointStatus(cp.Status),
		Checksum:     pgtypes.Text(cp.Checksum),
		ErrorMsg:     pgtypes.Text(cp.ErrorMsg),
		AttemptCount: int32(cp.AttemptCount),
		SyncedAt:     pgtypes.NullTimestamptz(cp.SyncedAt),
	})
	if err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}
	return nil
}

func fromDBCheckpoint(row sqlc.SyncCheckpoint) *Checkpoint {
	return &Checkpoint{
		Unit: Unit{
			UserID: pgtypes.ToUUID(row.UserID),
			Date:   pgtypes.ToDate(row.MetricDate),
			Metric: metrics.Type(row.MetricType),
		},
		Status:       Status(row.Status),
		Checksum:     pgtypes.ToText(row.Checksum),
		ErrorMsg:     pgtypes.ToText(row.ErrorMsg),
		AttemptCount: int(row.AttemptCount),
		SyncedAt:     pgtypes.ToTimePtr(row.SyncedAt),
		UpdatedAt:    row.UpdatedAt.Time,
	}
}
