package v0_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	v0 "github.com/healthsync/healthsync/internal/api/v0"
	"github.com/healthsync/healthsync/internal/metrics"
	"github.com/healthsync/healthsync/internal/service"
	"github.com/healthsync/healthsync/internal/service/mocks"
)

func mustParseDate(t *testing.T, s string) metrics.Date {
	t.Helper()
	d, err := metrics.ParseDate(s)
	require.NoError(t, err)
	return d
}

func doRequest(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	svc := mocks.NewMockReportingService(ctrl)
	router := v0.HealthRouter(svc)

	rec := doRequest(t, router, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())

	svc.EXPECT().CheckReadiness(gomock.Any()).Return(nil)
	rec = doRequest(t, router, "/readiness")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ready"}`, rec.Body.String())

	svc.EXPECT().CheckReadiness(gomock.Any()).Return(errors.New("database unreachable"))
	rec = doRequest(t, router, "/readiness")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = doRequest(t, router, "/version")
	assert.Equal(t, http.StatusOK, rec.Code)
	var version map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &version))
	assert.Contains(t, version, "version")
	assert.Contains(t, version, "go_version")
}

func TestListUsers(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	svc := mocks.NewMockReportingService(ctrl)
	router := v0.Router(svc)

	svc.EXPECT().ListUsers(gomock.Any()).Return([]*service.User{
		{ID: uuid.New(), Username: "alice"},
		{ID: uuid.New(), Username: "bob"},
	}, nil)

	rec := doRequest(t, router, "/users")
	require.Equal(t, http.StatusOK, rec.Code)

	var users []*service.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Username)
}

func TestGetUserNotFound(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	svc := mocks.NewMockReportingService(ctrl)
	router := v0.Router(svc)

	svc.EXPECT().GetUser(gomock.Any(), "nobody").Return(nil, service.ErrUserNotFound)

	rec := doRequest(t, router, "/users/nobody")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetSyncStatus(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	svc := mocks.NewMockReportingService(ctrl)
	router := v0.Router(svc)

	svc.EXPECT().GetSyncStatus(gomock.Any(), "alice", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, opts ...service.Option[service.SyncStatusOptions]) (*service.SyncStatus, error) {
			var o service.SyncStatusOptions
			require.NoError(t, service.Apply(&o, opts))
			assert.Equal(t, mustParseDate(t, "2024-02-01"), o.Start)
			assert.Equal(t, mustParseDate(t, "2024-02-28"), o.End)
			assert.True(t, o.IncludeFailures)
			return &service.SyncStatus{
				Username: "alice",
				Start:    o.Start,
				End:      o.End,
				Counts:   service.Counts{Completed: 10, Failed: 1, Total: 11},
			}, nil
		})

	rec := doRequest(t, router, "/users/alice/status?start=2024-02-01&end=2024-02-28&failures=true")
	require.Equal(t, http.StatusOK, rec.Code)

	var status service.SyncStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, int64(10), status.Counts.Completed)
	assert.Equal(t, "2024-02-01", status.Start.String())
}

func TestGetSyncStatusRejectsHalfRange(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	svc := mocks.NewMockReportingService(ctrl)
	router := v0.Router(svc)

	rec := doRequest(t, router, "/users/alice/status?start=2024-02-01")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListDailyRecords(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	svc := mocks.NewMockReportingService(ctrl)
	router := v0.Router(svc)

	svc.EXPECT().ListDailyRecords(gomock.Any(), "alice", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, opts ...service.Option[service.ListDailyRecordsOptions]) ([]*service.DailyRecord, error) {
			var o service.ListDailyRecordsOptions
			require.NoError(t, service.Apply(&o, opts))
			assert.Equal(t, metrics.TypeSteps, o.Metric)
			return []*service.DailyRecord{{
				Date:     mustParseDate(t, "2024-02-01"),
				Metric:   metrics.TypeSteps,
				Payload:  json.RawMessage(`{"total_steps":1000}`),
				Checksum: "v1:abc",
			}}, nil
		})

	rec := doRequest(t, router, "/users/alice/metrics/steps")
	require.Equal(t, http.StatusOK, rec.Code)

	var records []*service.DailyRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.JSONEq(t, `{"total_steps":1000}`, string(records[0].Payload))
}

func TestListDailyRecordsUnknownMetric(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	svc := mocks.NewMockReportingService(ctrl)
	router := v0.Router(svc)

	rec := doRequest(t, router, "/users/alice/metrics/bloodtype")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListActivities(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	svc := mocks.NewMockReportingService(ctrl)
	router := v0.Router(svc)

	start := time.Date(2024, 2, 1, 7, 30, 0, 0, time.UTC)
	svc.EXPECT().ListActivities(gomock.Any(), "alice", gomock.Any()).
		Return([]*service.ActivityRecord{{
			ActivityID: "12345",
			Date:       mustParseDate(t, "2024-02-01"),
			Sport:      "running",
			StartTime:  &start,
		}}, nil)

	rec := doRequest(t, router, "/users/alice/activities?start=2024-02-01&end=2024-02-28")
	require.Equal(t, http.StatusOK, rec.Code)

	var activities []*service.ActivityRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &activities))
	require.Len(t, activities, 1)
	assert.Equal(t, "running", activities[0].Sport)
}

func TestListSamples(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	svc := mocks.NewMockReportingService(ctrl)
	router := v0.Router(svc)

	svc.EXPECT().ListSamples(gomock.Any(), "alice", gomock.Any()).
		Return([]*service.SamplePoint{
			{Metric: metrics.TypeHeartRate, Timestamp: time.Now().UTC(), Value: 64},
		}, nil)

	rec := doRequest(t, router, "/users/alice/samples/heart_rate")
	require.Equal(t, http.StatusOK, rec.Code)

	var samples []*service.SamplePoint
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &samples))
	require.Len(t, samples, 1)
	assert.Equal(t, float64(64), samples[0].Value)
}

func TestServiceFailureReturns500(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	svc := mocks.NewMockReportingService(ctrl)
	router := v0.Router(svc)

	svc.EXPECT().ListUsers(gomock.Any()).Return(nil, errors.New("connection refused"))

	rec := doRequest(t, router, "/users")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
