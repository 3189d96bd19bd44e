// Package telemetry provides OpenTelemetry instrumentation for the sync engine.
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// SyncMetricsMeterName is the name used for the sync metrics meter
const SyncMetricsMeterName = "github.com/healthsync/healthsync/sync"

// SyncMetrics holds the OpenTelemetry instruments for sync operation metrics
type SyncMetrics struct {
	runDuration  metric.Float64Histogram
	unitOutcomes metric.Int64Counter
}

// NewSyncMetrics creates a new SyncMetrics instance with the given meter provider.
// If provider is nil, it returns nil (no-op metrics).
func NewSyncMetrics(provider metric.MeterProvider) (*SyncMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(SyncMetricsMeterName)

	runDuration, err := meter.Float64Histogram(
		"healthsync_run_duration_seconds",
		metric.WithDescription("Duration of per-user sync runs in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300),
	)
	if err != nil {
		return nil, err
	}

	unitOutcomes, err := meter.Int64Counter(
		"healthsync_units_total",
		metric.WithDescription("Sync unit outcomes by metric type and status"),
		metric.WithUnit("{unit}"),
	)
	if err != nil {
		return nil, err
	}

	return &SyncMetrics{
		runDuration:  runDuration,
		unitOutcomes: unitOutcomes,
	}, nil
}

// RecordRunDuration records the duration of one per-user sync run
func (m *SyncMetrics) RecordRunDuration(ctx context.Context, username string, duration time.Duration, success bool) {
	if m == nil || m.runDuration == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("user", username),
		attribute.Bool("success", success),
	}

	m.runDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordUnitOutcome counts the outcome of one unit of sync work
func (m *SyncMetrics) RecordUnitOutcome(ctx context.Context, metricType, status string) {
	if m == nil || m.unitOutcomes == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("metric", metricType),
		attribute.String("status", status),
	}

	m.unitOutcomes.Add(ctx, 1, metric.WithAttributes(attrs...))
}
