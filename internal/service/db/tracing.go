package database

import (
	"context"

	"go.opentelemetry.io/otel/trace"

	hsotel "github.com/healthsync/healthsync/internal/otel"
	"github.com/healthsync/healthsync/internal/service"
)

// tracingService decorates a ReportingService with OpenTelemetry spans. Each
// operation gets one span carrying the username and, for list operations, the
// result count.
type tracingService struct {
	inner  service.ReportingService
	tracer trace.Tracer
}

// NewTracing wraps svc so every operation is recorded as a span on the given
// tracer provider. A nil provider returns svc unchanged.
func NewTracing(svc service.ReportingService, provider trace.TracerProvider) service.ReportingService {
	if provider == nil {
		return svc
	}
	return &tracingService{
		inner:  svc,
		tracer: provider.Tracer("healthsync/reporting"),
	}
}

func (t *tracingService) CheckReadiness(ctx context.Context) error {
	ctx, span := hsotel.StartSpan(ctx, t.tracer, "reporting.CheckReadiness")
	defer span.End()

	err := t.inner.CheckReadiness(ctx)
	hsotel.RecordError(span, err)
	return err
}

func (t *tracingService) GetUser(ctx context.Context, username string) (*service.User, error) {
	ctx, span := hsotel.StartSpan(ctx, t.tracer, "reporting.GetUser",
		trace.WithAttributes(hsotel.AttrUsername.String(username)))
	defer span.End()

	user, err := t.inner.GetUser(ctx, username)
	hsotel.RecordError(span, err)
	return user, err
}

func (t *tracingService) ListUsers(ctx context.Context) ([]*service.User, error) {
	ctx, span := hsotel.StartSpan(ctx, t.tracer, "reporting.ListUsers")
	defer span.End()

	users, err := t.inner.ListUsers(ctx)
	if err == nil {
		span.SetAttributes(hsotel.AttrResultCount.Int(len(users)))
	}
	hsotel.RecordError(span, err)
	return users, err
}

func (t *tracingService) GetSyncStatus(
	ctx context.Context,
	username string,
	opts ...service.Option[service.SyncStatusOptions],
) (*service.SyncStatus, error) {
	ctx, span := hsotel.StartSpan(ctx, t.tracer, "reporting.GetSyncStatus",
		trace.WithAttributes(hsotel.AttrUsername.String(username)))
	defer span.End()

	status, err := t.inner.GetSyncStatus(ctx, username, opts...)
	if err == nil {
		span.SetAttributes(
			hsotel.AttrRangeStart.String(status.Start.String()),
			hsotel.AttrRangeEnd.String(status.End.String()),
		)
	}
	hsotel.RecordError(span, err)
	return status, err
}

func (t *tracingService) ListDailyRecords(
	ctx context.Context,
	username string,
	opts ...service.Option[service.ListDailyRecordsOptions],
) ([]*service.DailyRecord, error) {
	ctx, span := hsotel.StartSpan(ctx, t.tracer, "reporting.ListDailyRecords",
		trace.WithAttributes(hsotel.AttrUsername.String(username)))
	defer span.End()

	records, err := t.inner.ListDailyRecords(ctx, username, opts...)
	if err == nil {
		span.SetAttributes(hsotel.AttrResultCount.Int(len(records)))
	}
	hsotel.RecordError(span, err)
	return records, err
}

func (t *tracingService) ListActivities(
	ctx context.Context,
	username string,
	opts ...service.Option[service.ListActivitiesOptions],
) ([]*service.ActivityRecord, error) {
	ctx, span := hsotel.StartSpan(ctx, t.tracer, "reporting.ListActivities",
		trace.WithAttributes(hsotel.AttrUsername.String(username)))
	defer span.End()

	records, err := t.inner.ListActivities(ctx, username, opts...)
	if err == nil {
		span.SetAttributes(hsotel.AttrResultCount.Int(len(records)))
	}
	hsotel.RecordError(span, err)
	return records, err
}

func (t *tracingService) ListSamples(
	ctx context.Context,
	username string,
	opts ...service.Option[service.ListSamplesOptions],
) ([]*service.SamplePoint, error) {
	ctx, span := hsotel.StartSpan(ctx, t.tracer, "reporting.ListSamples",
		trace.WithAttributes(hsotel.AttrUsername.String(username)))
	defer span.End()

	points, err := t.inner.ListSamples(ctx, username, opts...)
	if err == nil {
		span.SetAttributes(hsotel.AttrResultCount.Int(len(points)))
	}
	hsotel.RecordError(span, err)
	return points, err
}
