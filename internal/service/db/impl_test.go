package database

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbtest "github.com/healthsync/healthsync/database"
	"github.com/healthsync/healthsync/internal/db/pgtypes"
	"github.com/healthsync/healthsync/internal/db/sqlc"
	"github.com/healthsync/healthsync/internal/metrics"
	"github.com/healthsync/healthsync/internal/service"
)

func setupService(t *testing.T) (service.ReportingService, *sqlc.Queries, sqlc.User) {
	t.Helper()

	pool, cleanupFunc := dbtest.SetupTestDB(t)
	t.Cleanup(cleanupFunc)

	queries := sqlc.New(pool)
	user, err := queries.CreateUser(context.Background(), sqlc.CreateUserParams{
		Username:      "alice",
		DisplayName:   pgtype.Text{String: "Alice", Valid: true},
		CredentialRef: "cred/alice",
	})
	require.NoError(t, err)

	svc, err := New(WithConnectionPool(pool))
	require.NoError(t, err)
	return svc, queries, user
}

func svcDate(t *testing.T, s string) metrics.Date {
	t.Helper()
	d, err := metrics.ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestNewRequiresPool(t *testing.T) {
	t.Parallel()

	_, err := New()
	require.Error(t, err)

	_, err = New(WithConnectionPool((*pgxpool.Pool)(nil)))
	require.Error(t, err)
}

func TestGetUser(t *testing.T) {
	t.Parallel()

	svc, _, created := setupService(t)
	ctx := context.Background()

	user, err := svc.GetUser(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "Alice", user.DisplayName)
	assert.Equal(t, pgtypes.ToUUID(created.ID), user.ID)
	assert.Nil(t, user.LastSyncAt)

	_, err = svc.GetUser(ctx, "nobody")
	require.ErrorIs(t, err, service.ErrUserNotFound)
}

func TestListUsers(t *testing.T) {
	t.Parallel()

	svc, queries, _ := setupService(t)
	ctx := context.Background()

	_, err := queries.CreateUser(ctx, sqlc.CreateUserParams{
		Username:      "bob",
		CredentialRef: "cred/bob",
	})
	require.NoError(t, err)

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, "bob", users[1].Username)
}

func TestGetSyncStatus(t *testing.T) {
	t.Parallel()

	svc, queries, user := setupService(t)
	ctx := context.Background()

	checkpoints := []struct {
		date   string
		metric sqlc.MetricType
		status sqlc.CheckpointStatus
		errMsg string
	}{
		{"2024-02-01", sqlc.MetricTypeSteps, sqlc.CheckpointStatusCompleted, ""},
		{"2024-02-01", sqlc.MetricTypeSleep, sqlc.CheckpointStatusSkipped, ""},
		{"2024-02-02", sqlc.MetricTypeSteps, sqlc.CheckpointStatusFailed, "remote request timed out"},
		{"2024-02-09", sqlc.MetricTypeSteps, sqlc.CheckpointStatusFailed, "outside the queried range"},
	}
	for _, cp := range checkpoints {
		_, err := queries.UpsertCheckpoint(ctx, sqlc.UpsertCheckpointParams{
			UserID:     user.ID,
			MetricDate: pgtypes.Date(svcDate(t, cp.date)),
			MetricType: cp.metric,
			Status:     cp.status,
			ErrorMsg:   pgtype.Text{String: cp.errMsg, Valid: cp.errMsg != ""},
		})
		require.NoError(t, err)
	}

	status, err := svc.GetSyncStatus(ctx, "alice",
		service.WithStatusRange(svcDate(t, "2024-02-01"), svcDate(t, "2024-02-05")),
		service.WithFailures())
	require.NoError(t, err)

	assert.Equal(t, "alice", status.Username)
	assert.Equal(t, int64(1), status.Counts.Completed)
	assert.Equal(t, int64(1), status.Counts.Skipped)
	assert.Equal(t, int64(1), status.Counts.Failed)
	assert.Equal(t, int64(3), status.Counts.Total)

	require.Len(t, status.Failures, 1)
	assert.Equal(t, svcDate(t, "2024-02-02"), status.Failures[0].Date)
	assert.Equal(t, metrics.TypeSteps, status.Failures[0].Metric)
	assert.Equal(t, "remote request timed out", status.Failures[0].ErrorMsg)

	// Without the option, failure details are omitted.
	status, err = svc.GetSyncStatus(ctx, "alice",
		service.WithStatusRange(svcDate(t, "2024-02-01"), svcDate(t, "2024-02-05")))
	require.NoError(t, err)
	assert.Empty(t, status.Failures)

	_, err = svc.GetSyncStatus(ctx, "nobody")
	require.ErrorIs(t, err, service.ErrUserNotFound)
}

func TestGetSyncStatusRejectsBadRange(t *testing.T) {
	t.Parallel()

	svc, _, _ := setupService(t)

	_, err := svc.GetSyncStatus(context.Background(), "alice",
		service.WithStatusRange(svcDate(t, "2024-02-05"), svcDate(t, "2024-02-01")))
	require.Error(t, err)
}

func TestListDailyRecords(t *testing.T) {
	t.Parallel()

	svc, queries, user := setupService(t)
	ctx := context.Background()

	for _, day := range []string{"2024-02-01", "2024-02-02", "2024-02-20"} {
		_, err := queries.UpsertDailyMetric(ctx, sqlc.UpsertDailyMetricParams{
			UserID:     user.ID,
			MetricDate: pgtypes.Date(svcDate(t, day)),
			MetricType: sqlc.MetricTypeSteps,
			Payload:    []byte(`{"total_steps":1000}`),
			Checksum:   "v1:" + day,
		})
		require.NoError(t, err)
	}

	records, err := svc.ListDailyRecords(ctx, "alice",
		service.WithDailyMetric(metrics.TypeSteps),
		service.WithDailyRange(svcDate(t, "2024-02-01"), svcDate(t, "2024-02-10")))
	require.NoError(t, err)
	require.Len(t, records, 2)
	// Most recent date first.
	assert.Equal(t, svcDate(t, "2024-02-02"), records[0].Date)
	assert.JSONEq(t, `{"total_steps":1000}`, string(records[0].Payload))

	_, err = svc.ListDailyRecords(ctx, "alice")
	require.ErrorIs(t, err, service.ErrMetricRequired)
}

func TestListActivities(t *testing.T) {
	t.Parallel()

	svc, queries, user := setupService(t)
	ctx := context.Background()

	start := time.Date(2024, 2, 1, 7, 30, 0, 0, time.UTC)
	_, err := queries.UpsertActivity(ctx, sqlc.UpsertActivityParams{
		UserID:          user.ID,
		ActivityID:      "12345",
		ActivityDate:    pgtypes.Date(svcDate(t, "2024-02-01")),
		Name:            pgtype.Text{String: "Morning Run", Valid: true},
		Sport:           pgtype.Text{String: "running", Valid: true},
		DurationSeconds: 1800,
		DistanceMeters:  5000,
		Calories:        320,
		AvgHeartRate:    151,
		TrainingLoad:    85.5,
		StartTime:       pgtypes.Timestamptz(start),
		Checksum:        "v1:run",
	})
	require.NoError(t, err)

	activities, err := svc.ListActivities(ctx, "alice",
		service.WithActivityRange(svcDate(t, "2024-02-01"), svcDate(t, "2024-02-28")))
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, "12345", activities[0].ActivityID)
	assert.Equal(t, "Morning Run", activities[0].Name)
	assert.Equal(t, "running", activities[0].Sport)
	assert.Equal(t, int64(1800), activities[0].DurationSeconds)
	require.NotNil(t, activities[0].StartTime)
	assert.True(t, activities[0].StartTime.Equal(start))

	// Outside the range nothing is returned.
	activities, err = svc.ListActivities(ctx, "alice",
		service.WithActivityRange(svcDate(t, "2024-03-01"), svcDate(t, "2024-03-31")))
	require.NoError(t, err)
	assert.Empty(t, activities)
}

func TestListSamples(t *testing.T) {
	t.Parallel()

	svc, queries, user := setupService(t)
	ctx := context.Background()

	base := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	for i, v := range []float64{62, 68, 75} {
		err := queries.UpsertTimeseriesSample(ctx, sqlc.UpsertTimeseriesSampleParams{
			UserID:     user.ID,
			MetricType: sqlc.MetricTypeHeartRate,
			Ts:         pgtypes.Timestamptz(base.Add(time.Duration(i) * time.Hour)),
			Value:      v,
		})
		require.NoError(t, err)
	}

	samples, err := svc.ListSamples(ctx, "alice",
		service.WithSampleMetric(metrics.TypeHeartRate),
		service.WithSampleRange(svcDate(t, "2024-02-01"), svcDate(t, "2024-02-01")))
	require.NoError(t, err)
	require.Len(t, samples, 3)
	// Ascending by timestamp.
	assert.Equal(t, float64(62), samples[0].Value)
	assert.Equal(t, float64(75), samples[2].Value)

	_, err = svc.ListSamples(ctx, "alice")
	require.ErrorIs(t, err, service.ErrMetricRequired)
}
