package state

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthsync/healthsync/database"
	"github.com/healthsync/healthsync/internal/db/sqlc"
	"github.com/healthsync/healthsync/internal/metrics"
)

func setupStore(t *testing.T) (CheckpointStore, uuid.UUID, *pgxpool.Pool) {
	t.Helper()

	pool, cleanupFunc := database.SetupTestDB(t)
	t.Cleanup(cleanupFunc)

	user, err := sqlc.New(pool).CreateUser(context.Background(), sqlc.CreateUserParams{
		Username:      "alice",
		DisplayName:   pgtype.Text{String: "Alice", Valid: true},
		CredentialRef: "cred/alice",
	})
	require.NoError(t, err)

	return NewDBCheckpointStore(pool), user.ID.Bytes, pool
}

func mustDate(t *testing.T, s string) metrics.Date {
	t.Helper()
	d, err := metrics.ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestGetMissingCheckpoint(t *testing.T) {
	t.Parallel()

	store, userID, _ := setupStore(t)
	unit := Unit{UserID: userID, Date: mustDate(t, "2024-01-05"), Metric: metrics.TypeSteps}

	_, err := store.Get(context.Background(), unit)
	require.ErrorIs(t, err, ErrCheckpointNotFound)

	done, err := store.IsDone(context.Background(), unit)
	require.NoError(t, err)
	assert.False(t, done)
}

func TestSaveAndGetCheckpoint(t *testing.T) {
	t.Parallel()

	store, userID, _ := setupStore(t)
	unit := Unit{UserID: userID, Date: mustDate(t, "2024-01-05"), Metric: metrics.TypeSleep}
	now := time.Now().UTC()

	err := store.Save(context.Background(), Checkpoint{
		Unit:         unit,
		Status:       StatusCompleted,
		Checksum:     "v1:abc",
		AttemptCount: 2,
		SyncedAt:     &now,
	})
	require.NoError(t, err)

	cp, err := store.Get(context.Background(), unit)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, cp.Status)
	assert.Equal(t, "v1:abc", cp.Checksum)
	assert.Equal(t, 2, cp.AttemptCount)
	require.NotNil(t, cp.SyncedAt)
	assert.True(t, cp.Done())

	done, err := store.IsDone(context.Background(), unit)
	require.NoError(t, err)
	assert.True(t, done)
}

func TestFailedCheckpointIsNotDone(t *testing.T) {
	t.Parallel()

	store, userID, _ := setupStore(t)
	unit := Unit{UserID: userID, Date: mustDate(t, "2024-01-05"), Metric: metrics.TypeSteps}

	err := store.Save(context.Background(), Checkpoint{
		Unit:         unit,
		Status:       StatusFailed,
		ErrorMsg:     "remote request timed out",
		AttemptCount: 3,
	})
	require.NoError(t, err)

	done, err := store.IsDone(context.Background(), unit)
	require.NoError(t, err)
	assert.False(t, done)

	// A later successful attempt overwrites the failure in place.
	err = store.Save(context.Background(), Checkpoint{
		Unit:     unit,
		Status:   StatusSkipped,
		ErrorMsg: "",
	})
	require.NoError(t, err)

	cp, err := store.Get(context.Background(), unit)
	require.NoError(t, err)
	assert.Equal(t, StatusSkipped, cp.Status)
	assert.Empty(t, cp.ErrorMsg)
	assert.True(t, cp.Done())
}

func TestListAndSummarize(t *testing.T) {
	t.Parallel()

	store, userID, _ := setupStore(t)
	ctx := context.Background()

	units := []struct {
		date   string
		metric metrics.Type
		status Status
	}{
		{"2024-01-01", metrics.TypeSteps, StatusCompleted},
		{"2024-01-01", metrics.TypeSleep, StatusSkipped},
		{"2024-01-02", metrics.TypeSteps, StatusFailed},
		{"2024-01-03", metrics.TypeSteps, StatusPending},
	}
	for _, u := range units {
		err := store.Save(ctx, Checkpoint{
			Unit:   Unit{UserID: userID, Date: mustDate(t, u.date), Metric: u.metric},
			Status: u.status,
		})
		require.NoError(t, err)
	}

	cps, err := store.List(ctx, userID, mustDate(t, "2024-01-01"), mustDate(t, "2024-01-31"))
	require.NoError(t, err)
	require.Len(t, cps, 4)
	// Most recent date first.
	assert.Equal(t, mustDate(t, "2024-01-03"), cps[0].Date)

	summary, err := store.Summarize(ctx, userID, mustDate(t, "2024-01-01"), mustDate(t, "2024-01-31"))
	require.NoError(t, err)
	assert.Equal(t, Summary{Pending: 1, Completed: 1, Failed: 1, Skipped: 1}, summary)
	assert.Equal(t, int64(4), summary.Total())

	// Range excludes units outside it.
	summary, err = store.Summarize(ctx, userID, mustDate(t, "2024-01-02"), mustDate(t, "2024-01-02"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.Total())
}

func TestReset(t *testing.T) {
	t.Parallel()

	store, userID, _ := setupStore(t)
	ctx := context.Background()

	for _, day := range []string{"2024-01-01", "2024-01-02"} {
		err := store.Save(ctx, Checkpoint{
			Unit:   Unit{UserID: userID, Date: mustDate(t, day), Metric: metrics.TypeSteps},
			Status: StatusCompleted,
		})
		require.NoError(t, err)
	}

	deleted, err := store.Reset(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	summary, err := store.Summarize(ctx, userID, mustDate(t, "2024-01-01"), mustDate(t, "2024-01-31"))
	require.NoError(t, err)
	assert.Equal(t, int64(0), summary.Total())
}
