// Package service provides the read-only reporting operations over synced
// health data. Reporting never takes the per-user sync lease; reads run
// concurrently with active sync jobs.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/healthsync/healthsync/internal/metrics"
)

var (
	// ErrUserNotFound is returned when a user is not found
	ErrUserNotFound = errors.New("user not found")
	// ErrMetricRequired is returned when an operation needs a metric filter
	ErrMetricRequired = errors.New("metric type is required")
)

//go:generate mockgen -destination=mocks/mock_service.go -package=mocks -source=service.go ReportingService

// ReportingService defines the read-only query operations over users,
// checkpoints, and stored metric rows.
type ReportingService interface {
	// CheckReadiness checks if the service is ready to serve requests
	CheckReadiness(ctx context.Context) error

	// GetUser returns one user by username
	GetUser(ctx context.Context, username string) (*User, error)

	// ListUsers returns all known users
	ListUsers(ctx context.Context) ([]*User, error)

	// GetSyncStatus summarizes checkpoint outcomes for a user over a date range
	GetSyncStatus(ctx context.Context, username string, opts ...Option[SyncStatusOptions]) (*SyncStatus, error)

	// ListDailyRecords returns stored daily metric rows for a user
	ListDailyRecords(ctx context.Context, username string, opts ...Option[ListDailyRecordsOptions]) ([]*DailyRecord, error)

	// ListActivities returns stored activities for a user
	ListActivities(ctx context.Context, username string, opts ...Option[ListActivitiesOptions]) ([]*ActivityRecord, error)

	// ListSamples returns stored intraday samples for a user
	ListSamples(ctx context.Context, username string, opts ...Option[ListSamplesOptions]) ([]*SamplePoint, error)
}

// DefaultRangeDays is the reporting window used when no range is given.
const DefaultRangeDays = 30

// Options is the constraint over all reporting option structs.
type Options interface {
	SyncStatusOptions | ListDailyRecordsOptions | ListActivitiesOptions | ListSamplesOptions
}

// Option is a function that sets an option for one reporting operation
type Option[T Options] func(*T) error

// Apply runs opts over target, stopping at the first error.
func Apply[T Options](target *T, opts []Option[T]) error {
	for _, opt := range opts {
		if err := opt(target); err != nil {
			return err
		}
	}
	return nil
}

// SyncStatusOptions is the options for the GetSyncStatus operation
type SyncStatusOptions struct {
	Start           metrics.Date
	End             metrics.Date
	IncludeFailures bool
}

// ListDailyRecordsOptions is the options for the ListDailyRecords operation
type ListDailyRecordsOptions struct {
	Metric metrics.Type
	Start  metrics.Date
	End    metrics.Date
}

// ListActivitiesOptions is the options for the ListActivities operation
type ListActivitiesOptions struct {
	Start metrics.Date
	End   metrics.Date
}

// ListSamplesOptions is the options for the ListSamples operation
type ListSamplesOptions struct {
	Metric metrics.Type
	Start  metrics.Date
	End    metrics.Date
}

func validRange(start, end metrics.Date) error {
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("both range bounds are required")
	}
	if start.After(end) {
		return fmt.Errorf("invalid date range: start %s is after end %s", start, end)
	}
	return nil
}

// WithStatusRange restricts the status summary to [start, end].
func WithStatusRange(start, end metrics.Date) Option[SyncStatusOptions] {
	return func(o *SyncStatusOptions) error {
		if err := validRange(start, end); err != nil {
			return err
		}
		o.Start, o.End = start, end
		return nil
	}
}

// WithFailures includes per-unit failure details in the status summary.
func WithFailures() Option[SyncStatusOptions] {
	return func(o *SyncStatusOptions) error {
		o.IncludeFailures = true
		return nil
	}
}

// WithDailyMetric sets the metric filter for the ListDailyRecords operation
func WithDailyMetric(m metrics.Type) Option[ListDailyRecordsOptions] {
	return func(o *ListDailyRecordsOptions) error {
		if m == "" {
			return ErrMetricRequired
		}
		o.Metric = m
		return nil
	}
}

// WithDailyRange restricts the ListDailyRecords operation to [start, end].
func WithDailyRange(start, end metrics.Date) Option[ListDailyRecordsOptions] {
	return func(o *ListDailyRecordsOptions) error {
		if err := validRange(start, end); err != nil {
			return err
		}
		o.Start, o.End = start, end
		return nil
	}
}

// WithActivityRange restricts the ListActivities operation to [start, end].
func WithActivityRange(start, end metrics.Date) Option[ListActivitiesOptions] {
	return func(o *ListActivitiesOptions) error {
		if err := validRange(start, end); err != nil {
			return err
		}
		o.Start, o.End = start, end
		return nil
	}
}

// WithSampleMetric sets the metric filter for the ListSamples operation
func WithSampleMetric(m metrics.Type) Option[ListSamplesOptions] {
	return func(o *ListSamplesOptions) error {
		if m == "" {
			return ErrMetricRequired
		}
		o.Metric = m
		return nil
	}
}

// WithSampleRange restricts the ListSamples operation to [start, end].
func WithSampleRange(start, end metrics.Date) Option[ListSamplesOptions] {
	return func(o *ListSamplesOptions) error {
		if err := validRange(start, end); err != nil {
			return err
		}
		o.Start, o.End = start, end
		return nil
	}
}

// User is the reporting view of one synced account.
type User struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	DisplayName string     `json:"display_name,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	LastSyncAt  *time.Time `json:"last_sync_at,omitempty"`
}

// Counts aggregates checkpoint outcomes over a date range.
type Counts struct {
	Pending   int64 `json:"pending"`
	Completed int64 `json:"completed"`
	Failed    int64 `json:"failed"`
	Skipped   int64 `json:"skipped"`
	Total     int64 `json:"total"`
}

// UnitFailure is the last recorded error for one failed unit of work.
type UnitFailure struct {
	Date         metrics.Date `json:"date"`
	Metric       metrics.Type `json:"metric"`
	ErrorMsg     string       `json:"error"`
	AttemptCount int          `json:"attempts"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// SyncStatus is the checkpoint summary for one user over a date range.
type SyncStatus struct {
	Username   string        `json:"username"`
	Start      metrics.Date  `json:"start"`
	End        metrics.Date  `json:"end"`
	LastSyncAt *time.Time    `json:"last_sync_at,omitempty"`
	Counts     Counts        `json:"counts"`
	Failures   []UnitFailure `json:"failures,omitempty"`
}

// DailyRecord is the reporting view of one stored daily metric row.
type DailyRecord struct {
	Date      metrics.Date    `json:"date"`
	Metric    metrics.Type    `json:"metric"`
	Payload   json.RawMessage `json:"payload"`
	Checksum  string          `json:"checksum"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ActivityRecord is the reporting view of one stored activity.
type ActivityRecord struct {
	ActivityID      string       `json:"activity_id"`
	Date            metrics.Date `json:"date"`
	Name            string       `json:"name,omitempty"`
	Sport           string       `json:"sport,omitempty"`
	DurationSeconds int64        `json:"duration_seconds"`
	DistanceMeters  float64      `json:"distance_meters"`
	Calories        int64        `json:"calories"`
	AvgHeartRate    int64        `json:"avg_heart_rate"`
	TrainingLoad    float64      `json:"training_load"`
	StartTime       *time.Time   `json:"start_time,omitempty"`
}

// SamplePoint is the reporting view of one intraday sample.
type SamplePoint struct {
	Metric    metrics.Type    `json:"metric"`
	Timestamp time.Time       `json:"timestamp"`
	Value     float64         `json:"value"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
}
