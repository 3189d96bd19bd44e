// Package database provides a database-backed implementation of the
// ReportingService interface. All operations are reads; nothing here touches
// the per-user sync lease.
package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/healthsync/healthsync/internal/db/pgtypes"
	"github.com/healthsync/healthsync/internal/db/sqlc"
	"github.com/healthsync/healthsync/internal/metrics"
	"github.com/healthsync/healthsync/internal/service"
	"github.com/healthsync/healthsync/internal/sync/state"
)

// options holds configuration options for the database service
type options struct {
	pool *pgxpool.Pool
}

// Option is a functional option for configuring the database service
type Option func(*options) error

// WithConnectionPool creates a new database-backed reporting service with the
// given pgx pool. The caller is responsible for closing the pool when it is
// done.
func WithConnectionPool(pool *pgxpool.Pool) Option {
	return func(o *options) error {
		if pool == nil {
			return fmt.Errorf("pgx pool is required")
		}
		o.pool = pool
		return nil
	}
}

// dbService implements the ReportingService interface using a database backend
type dbService struct {
	pool        *pgxpool.Pool
	queries     *sqlc.Queries
	checkpoints state.CheckpointStore
}

// New creates a new database-backed reporting service
func New(opts ...Option) (service.ReportingService, error) {
	var o options
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, err
		}
	}
	if o.pool == nil {
		return nil, fmt.Errorf("a connection pool is required")
	}

	return &dbService{
		pool:        o.pool,
		queries:     sqlc.New(o.pool),
		checkpoints: state.NewDBCheckpointStore(o.pool),
	}, nil
}

// CheckReadiness checks if the service is ready to serve requests
func (s *dbService) CheckReadiness(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

// GetUser returns one user by username
func (s *dbService) GetUser(ctx context.Context, username string) (*service.User, error) {
	row, err := s.lookupUser(ctx, username)
	if err != nil {
		return nil, err
	}
	return userView(row), nil
}

// ListUsers returns all known users
func (s *dbService) ListUsers(ctx context.Context) ([]*service.User, error) {
	rows, err := s.queries.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	users := make([]*service.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, userView(row))
	}
	return users, nil
}

// GetSyncStatus summarizes checkpoint outcomes for a user over a date range
func (s *dbService) GetSyncStatus(
	ctx context.Context,
	username string,
	opts ...service.Option[service.SyncStatusOptions],
) (*service.SyncStatus, error) {
	o := service.SyncStatusOptions{}
	if err := service.Apply(&o, opts); err != nil {
		return nil, err
	}
	start, end := defaultRange(o.Start, o.End)

	row, err := s.lookupUser(ctx, username)
	if err != nil {
		return nil, err
	}
	userID := pgtypes.ToUUID(row.ID)

	summary, err := s.checkpoints.Summarize(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize checkpoints: %w", err)
	}

	status := &service.SyncStatus{
		Username:   row.Username,
		Start:      start,
		End:        end,
		LastSyncAt: pgtypes.ToTimePtr(row.LastSyncAt),
		Counts: service.Counts{
			Pending:   summary.Pending,
			Completed: summary.Completed,
			Failed:    summary.Failed,
			Skipped:   summary.Skipped,
			Total:     summary.Total(),
		},
	}

	if o.IncludeFailures && summary.Failed > 0 {
		failures, err := s.listFailures(ctx, row.ID, start, end)
		if err != nil {
			return nil, err
		}
		status.Failures = failures
	}

	return status, nil
}

// listFailures returns the last error per failed unit inside [start, end].
func (s *dbService) listFailures(
	ctx context.Context,
	userID pgtype.UUID,
	start, end metrics.Date,
) ([]service.UnitFailure, error) {
	rows, err := s.queries.ListCheckpointsByStatus(ctx, sqlc.ListCheckpointsByStatusParams{
		UserID: userID,
		Status: sqlc.CheckpointStatusFailed,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list failed checkpoints: %w", err)
	}

	failures := make([]service.UnitFailure, 0, len(rows))
	for _, r := range rows {
		date := pgtypes.ToDate(r.MetricDate)
		if date.Before(start) || date.After(end) {
			continue
		}
		failures = append(failures, service.UnitFailure{
			Date:         date,
			Metric:       metrics.Type(r.MetricType),
			ErrorMsg:     r.ErrorMsg.String,
			AttemptCount: int(r.AttemptCount),
			UpdatedAt:    r.UpdatedAt.Time,
		})
	}
	return failures, nil
}

// ListDailyRecords returns stored daily metric rows for a user
func (s *dbService) ListDailyRecords(
	ctx context.Context,
	username string,
	opts ...service.Option[service.ListDailyRecordsOptions],
) ([]*service.DailyRecord, error) {
	o := service.ListDailyRecordsOptions{}
	if err := service.Apply(&o, opts); err != nil {
		return nil, err
	}
	if o.Metric == "" {
		return nil, service.ErrMetricRequired
	}
	start, end := defaultRange(o.Start, o.End)

	row, err := s.lookupUser(ctx, username)
	if err != nil {
		return nil, err
	}

	rows, err := s.queries.ListDailyMetrics(ctx, sqlc.ListDailyMetricsParams{
		UserID:       row.ID,
		MetricType:   sqlc.MetricType(o.Metric),
		MetricDate:   pgtypes.Date(start),
		MetricDate_2: pgtypes.Date(end),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list daily metrics: %w", err)
	}

	records := make([]*service.DailyRecord, 0, len(rows))
	for _, r := range rows {
		records = append(records, &service.DailyRecord{
			Date:      pgtypes.ToDate(r.MetricDate),
			Metric:    metrics.Type(r.MetricType),
			Payload:   r.Payload,
			Checksum:  r.Checksum,
			UpdatedAt: r.UpdatedAt.Time,
		})
	}
	return records, nil
}

// ListActivities returns stored activities for a user
func (s *dbService) ListActivities(
	ctx context.Context,
	username string,
	opts ...service.Option[service.ListActivitiesOptions],
) ([]*service.ActivityRecord, error) {
	o := service.ListActivitiesOptions{}
	if err := service.Apply(&o, opts); err != nil {
		return nil, err
	}
	start, end := defaultRange(o.Start, o.End)

	row, err := s.lookupUser(ctx, username)
	if err != nil {
		return nil, err
	}

	rows, err := s.queries.ListActivities(ctx, sqlc.ListActivitiesParams{
		UserID:         row.ID,
		ActivityDate:   pgtypes.Date(start),
		ActivityDate_2: pgtypes.Date(end),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}

	records := make([]*service.ActivityRecord, 0, len(rows))
	for _, r := range rows {
		records = append(records, &service.ActivityRecord{
			ActivityID:      r.ActivityID,
			Date:            pgtypes.ToDate(r.ActivityDate),
			Name:            r.Name.String,
			Sport:           r.Sport.String,
			DurationSeconds: r.DurationSeconds,
			DistanceMeters:  r.DistanceMeters,
			Calories:        r.Calories,
			AvgHeartRate:    r.AvgHeartRate,
			TrainingLoad:    r.TrainingLoad,
			StartTime:       pgtypes.ToTimePtr(r.StartTime),
		})
	}
	return records, nil
}

// ListSamples returns stored intraday samples for a user
func (s *dbService) ListSamples(
	ctx context.Context,
	username string,
	opts ...service.Option[service.ListSamplesOptions],
) ([]*service.SamplePoint, error) {
	o := service.ListSamplesOptions{}
	if err := service.Apply(&o, opts); err != nil {
		return nil, err
	}
	if o.Metric == "" {
		return nil, service.ErrMetricRequired
	}
	start, end := defaultRange(o.Start, o.End)

	row, err := s.lookupUser(ctx, username)
	if err != nil {
		return nil, err
	}

	rows, err := s.queries.ListTimeseriesSamples(ctx, sqlc.ListTimeseriesSamplesParams{
		UserID:     row.ID,
		MetricType: sqlc.MetricType(o.Metric),
		Ts:         pgtypes.Timestamptz(start.Time()),
		Ts_2:       pgtypes.Timestamptz(end.AddDays(1).Time()),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list samples: %w", err)
	}

	points := make([]*service.SamplePoint, 0, len(rows))
	for _, r := range rows {
		points = append(points, &service.SamplePoint{
			Metric:    metrics.Type(r.MetricType),
			Timestamp: r.Ts.Time,
			Value:     r.Value,
			Metadata:  r.Metadata,
		})
	}
	return points, nil
}

func (s *dbService) lookupUser(ctx context.Context, username string) (sqlc.User, error) {
	row, err := s.queries.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return sqlc.User{}, service.ErrUserNotFound
		}
		return sqlc.User{}, fmt.Errorf("failed to look up user: %w", err)
	}
	return row, nil
}

func userView(row sqlc.User) *service.User {
	return &service.User{
		ID:          pgtypes.ToUUID(row.ID),
		Username:    row.Username,
		DisplayName: row.DisplayName.String,
		CreatedAt:   row.CreatedAt.Time,
		LastSyncAt:  pgtypes.ToTimePtr(row.LastSyncAt),
	}
}

// defaultRange falls back to the trailing reporting window ending today.
func defaultRange(start, end metrics.Date) (metrics.Date, metrics.Date) {
	if !start.IsZero() && !end.IsZero() {
		return start, end
	}
	today := metrics.DateOf(time.Now())
	return today.AddDays(-(service.DefaultRangeDays - 1)), today
}
