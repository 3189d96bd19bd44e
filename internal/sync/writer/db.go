package writer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/healthsync/healthsync/internal/checksum"
	"github.com/healthsync/healthsync/internal/db/pgtypes"
	"github.com/healthsync/healthsync/internal/db/sqlc"
	"github.com/healthsync/healthsync/internal/extract"
	"github.com/healthsync/healthsync/internal/sync/state"
)

// dbSyncWriter is a SyncWriter implementation that persists data to a database
type dbSyncWriter struct {
	pool *pgxpool.Pool
}

// NewDBSyncWriter creates a new dbSyncWriter with the given connection pool.
// The caller is responsible for closing the pool when done.
func NewDBSyncWriter(pool *pgxpool.Pool) (SyncWriter, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgx pool is required")
	}
	return &dbSyncWriter{pool: pool}, nil
}

// StoreUnit writes all rows for one unit inside a single serializable
// transaction:
//  1. Upsert the daily aggregate, if any. The upsert only advances
//     updated_at when the content checksum changed.
//  2. Upsert each activity row.
//  3. Replace the unit's intraday samples for that day.
//  4. Mark the checkpoint completed.
//
// A crash at any point leaves either the previous state or the full new
// state, never a torn unit.
func (d *dbSyncWriter) StoreUnit(
	ctx context.Context,
	unit state.Unit,
	data *extract.Normalized,
	cpChecksum string,
	attempt int,
) error {
	if data == nil {
		return fmt.Errorf("normalized data is required")
	}

	tx, err := d.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.Serializable,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			_ = rollbackErr
		}
	}()

	querier := sqlc.New(tx)

	if len(data.Daily) > 0 {
		if err := d.storeDaily(ctx, querier, unit, data.Daily); err != nil {
			return err
		}
	}

	for _, activity := range data.Activities {
		if err := d.storeActivity(ctx, querier, unit, activity); err != nil {
			return err
		}
	}

	if err := d.storePoints(ctx, querier, unit, data.Points); err != nil {
		return err
	}

	now := time.Now().UTC()
	err = state.SaveCheckpoint(ctx, querier, state.Checkpoint{
		Unit:         unit,
		Status:       state.StatusCompleted,
		Checksum:     cpChecksum,
		AttemptCount: attempt,
		SyncedAt:     &now,
	})
	if err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (*dbSyncWriter) storeDaily(
	ctx context.Context,
	querier *sqlc.Queries,
	unit state.Unit,
	daily map[string]any,
) error {
	payload, err := checksum.Canonical(daily)
	if err != nil {
		return fmt.Errorf("failed to encode daily payload: %w", err)
	}
	digest, err := checksum.Compute(daily)
	if err != nil {
		return fmt.Errorf("failed to checksum daily payload: %w", err)
	}

	_, err = querier.UpsertDailyMetric(ctx, sqlc.UpsertDailyMetricParams{
		UserID:     pgtypes.UUID(unit.UserID),
		MetricDate: pgtypes.Date(unit.Date),
		MetricType: sqlc.MetricType(unit.Metric),
		Payload:    payload,
		Checksum:   digest,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert daily metric: %w", err)
	}
	return nil
}

func (*dbSyncWriter) storeActivity(
	ctx context.Context,
	querier *sqlc.Queries,
	unit state.Unit,
	activity extract.Activity,
) error {
	digest, err := checksum.Compute(activity)
	if err != nil {
		return fmt.Errorf("failed to checksum activity %s: %w", activity.ID, err)
	}

	date := activity.Date
	if date.IsZero() {
		// Activities without an explicit date belong to the unit's day.
		date = unit.Date
	}

	_, err = querier.UpsertActivity(ctx, sqlc.UpsertActivityParams{
		UserID:          pgtypes.UUID(unit.UserID),
		ActivityID:      activity.ID,
		ActivityDate:    pgtypes.Date(date),
		Name:            pgtypes.Text(activity.Name),
		Sport:           pgtypes.Text(activity.Sport),
		DurationSeconds: activity.DurationSeconds,
		DistanceMeters:  activity.DistanceMeters,
		Calories:        activity.Calories,
		AvgHeartRate:    activity.AvgHeartRate,
		TrainingLoad:    activity.TrainingLoad,
		StartTime:       pgtypes.NullTimestamptz(activity.StartTime),
		Checksum:        digest,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert activity %s: %w", activity.ID, err)
	}
	return nil
}

// storePoints replaces the unit's intraday samples for its day. The delete
// covers the whole day window so samples the remote no longer reports do
// not linger after a forced re-sync.
func (*dbSyncWriter) storePoints(
	ctx context.Context,
	querier *sqlc.Queries,
	unit state.Unit,
	points []extract.Point,
) error {
	dayStart := unit.Date.Time()
	dayEnd := dayStart.Add(24 * time.Hour)

	_, err := querier.DeleteTimeseriesInRange(ctx, sqlc.DeleteTimeseriesInRangeParams{
		UserID:     pgtypes.UUID(unit.UserID),
		MetricType: sqlc.MetricType(unit.Metric),
		Ts:         pgtypes.Timestamptz(dayStart),
		Ts_2:       pgtypes.Timestamptz(dayEnd),
	})
	if err != nil {
		return fmt.Errorf("failed to clear stale samples: %w", err)
	}

	for _, point := range points {
		var metadata []byte
		if point.Metadata != nil {
			metadata, err = json.Marshal(point.Metadata)
			if err != nil {
				return fmt.Errorf("failed to encode sample metadata: %w", err)
			}
		}
		err = querier.UpsertTimeseriesSample(ctx, sqlc.UpsertTimeseriesSampleParams{
			UserID:     pgtypes.UUID(unit.UserID),
			MetricType: sqlc.MetricType(unit.Metric),
			Ts:         pgtypes.Timestamptz(point.Timestamp),
			Value:      point.Value,
			Metadata:   metadata,
		})
		if err != nil {
			return fmt.Errorf("failed to upsert sample: %w", err)
		}
	}
	return nil
}

func (d *dbSyncWriter) MarkSkipped(ctx context.Context, unit state.Unit, attempt int) error {
	now := time.Now().UTC()
	return state.SaveCheckpoint(ctx, sqlc.New(d.pool), state.Checkpoint{
		Unit:         unit,
		Status:       state.StatusSkipped,
		AttemptCount: attempt,
		SyncedAt:     &now,
	})
}

func (d *dbSyncWriter) MarkFailed(ctx context.Context, unit state.Unit, attempt int, cause error) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	return state.SaveCheckpoint(ctx, sqlc.New(d.pool), state.Checkpoint{
		Unit:         unit,
		Status:       state.StatusFailed,
		ErrorMsg:     msg,
		AttemptCount: attempt,
	})
}
