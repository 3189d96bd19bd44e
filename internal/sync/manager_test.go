package sync_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/healthsync/healthsync/internal/checksum"
	"github.com/healthsync/healthsync/internal/metrics"
	"github.com/healthsync/healthsync/internal/source"
	sourcemocks "github.com/healthsync/healthsync/internal/source/mocks"
	syncpkg "github.com/healthsync/healthsync/internal/sync"
	syncmocks "github.com/healthsync/healthsync/internal/sync/mocks"
	"github.com/healthsync/healthsync/internal/sync/retry"
	"github.com/healthsync/healthsync/internal/sync/state"
	statemocks "github.com/healthsync/healthsync/internal/sync/state/mocks"
	writermocks "github.com/healthsync/healthsync/internal/sync/writer/mocks"
)

type managerFixture struct {
	authenticator *sourcemocks.MockAuthenticator
	client        *sourcemocks.MockClient
	store         *statemocks.MockCheckpointStore
	writer        *writermocks.MockSyncWriter
	verifier      *syncmocks.MockVerifier
	manager       syncpkg.Manager
}

func newManagerFixture(t *testing.T, opts ...syncpkg.ManagerOption) *managerFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &managerFixture{
		authenticator: sourcemocks.NewMockAuthenticator(ctrl),
		client:        sourcemocks.NewMockClient(ctrl),
		store:         statemocks.NewMockCheckpointStore(ctrl),
		writer:        writermocks.NewMockSyncWriter(ctrl),
		verifier:      syncmocks.NewMockVerifier(ctrl),
	}

	opts = append([]syncpkg.ManagerOption{
		syncpkg.WithRetryPolicy(retry.Policy{
			MaxAttempts:  3,
			InitialDelay: time.Millisecond,
			MaxDelay:     5 * time.Millisecond,
		}),
	}, opts...)

	f.manager = syncpkg.NewDefaultSyncManager(
		f.authenticator, f.client, f.store, f.writer, f.verifier, opts...)
	return f
}

func (f *managerFixture) expectAuth() {
	f.authenticator.EXPECT().
		Authenticate(gomock.Any(), "cred/alice").
		Return(&source.Session{Token: "tok", UserRef: "alice"}, nil)
}

func baseRequest(t *testing.T) syncpkg.Request {
	t.Helper()
	start, err := metrics.ParseDate("2024-01-01")
	require.NoError(t, err)
	end, err := metrics.ParseDate("2024-01-02")
	require.NoError(t, err)
	return syncpkg.Request{
		UserID:        uuid.New(),
		Username:      "alice",
		CredentialRef: "cred/alice",
		Start:         start,
		End:           end,
		Metrics:       []metrics.Type{metrics.TypeSteps},
	}
}

func TestSyncUserStoresFreshUnits(t *testing.T) {
	t.Parallel()

	f := newManagerFixture(t)
	req := baseRequest(t)

	f.expectAuth()
	f.store.EXPECT().Get(gomock.Any(), gomock.Any()).
		Return(nil, state.ErrCheckpointNotFound).Times(2)
	f.client.EXPECT().Fetch(gomock.Any(), gomock.Any(), metrics.TypeSteps, gomock.Any()).
		Return(json.RawMessage(`{"total_steps": 100}`), nil).Times(2)
	f.writer.EXPECT().StoreUnit(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), 1).
		Return(nil).Times(2)

	var progress []syncpkg.Progress
	req.OnProgress = func(p syncpkg.Progress) { progress = append(progress, p) }

	result, syncErr := f.manager.SyncUser(context.Background(), req)
	require.Nil(t, syncErr)
	assert.Equal(t, 2, result.Units)
	assert.Equal(t, 2, result.Completed)
	assert.Zero(t, result.Failed)

	require.Len(t, progress, 2)
	assert.Equal(t, 1, progress[0].Done)
	assert.Equal(t, 2, progress[0].Total)
	assert.Equal(t, state.StatusCompleted, progress[0].Status)
	// Default order is reverse chronological: most recent day first.
	assert.Equal(t, "2024-01-02", progress[0].Unit.Date.String())
}

func TestSyncUserKeepsCallerRetryCallback(t *testing.T) {
	t.Parallel()

	var notified []error
	f := newManagerFixture(t, syncpkg.WithRetryPolicy(retry.Policy{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		OnRetry: func(err error, _ time.Duration) {
			notified = append(notified, err)
		},
	}))

	req := baseRequest(t)
	req.End = req.Start

	f.expectAuth()
	f.store.EXPECT().Get(gomock.Any(), gomock.Any()).
		Return(nil, state.ErrCheckpointNotFound)
	gomock.InOrder(
		f.client.EXPECT().Fetch(gomock.Any(), gomock.Any(), metrics.TypeSteps, gomock.Any()).
			Return(nil, &source.Error{Kind: source.KindTimeout, Op: "fetch"}),
		f.client.EXPECT().Fetch(gomock.Any(), gomock.Any(), metrics.TypeSteps, gomock.Any()).
			Return(json.RawMessage(`{"total_steps": 100}`), nil),
	)
	f.writer.EXPECT().StoreUnit(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), 2).
		Return(nil)

	result, syncErr := f.manager.SyncUser(context.Background(), req)
	require.Nil(t, syncErr)
	assert.Equal(t, 1, result.Completed)

	// The configured callback still fires alongside the per-unit logging.
	require.Len(t, notified, 1)
	var remoteErr *source.Error
	require.ErrorAs(t, notified[0], &remoteErr)
	assert.Equal(t, source.KindTimeout, remoteErr.Kind)
}

func TestSyncUserRecoversFromCheckpoints(t *testing.T) {
	t.Parallel()

	f := newManagerFixture(t)
	req := baseRequest(t)

	f.expectAuth()
	done := &state.Checkpoint{Status: state.StatusCompleted}
	notDone := (*state.Checkpoint)(nil)

	gomock.InOrder(
		f.store.EXPECT().Get(gomock.Any(), gomock.Any()).Return(done, nil),
		f.store.EXPECT().Get(gomock.Any(), gomock.Any()).Return(notDone, state.ErrCheckpointNotFound),
	)
	// Only the unfinished unit is fetched.
	f.client.EXPECT().Fetch(gomock.Any(), gomock.Any(), metrics.TypeSteps, gomock.Any()).
		Return(json.RawMessage(`{"total_steps": 100}`), nil)
	f.writer.EXPECT().StoreUnit(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), 1).
		Return(nil)

	result, syncErr := f.manager.SyncUser(context.Background(), req)
	require.Nil(t, syncErr)
	assert.Equal(t, 1, result.AlreadyDone)
	assert.Equal(t, 1, result.Completed)
}

func TestSyncUserSkipsEmptyRemoteData(t *testing.T) {
	t.Parallel()

	f := newManagerFixture(t)
	req := baseRequest(t)

	f.expectAuth()
	f.store.EXPECT().Get(gomock.Any(), gomock.Any()).
		Return(nil, state.ErrCheckpointNotFound).Times(2)

	gomock.InOrder(
		// Remote explicitly has nothing for the first unit.
		f.client.EXPECT().Fetch(gomock.Any(), gomock.Any(), metrics.TypeSteps, gomock.Any()).
			Return(nil, source.ErrNotFound),
		// Second unit returns a payload with no usable fields.
		f.client.EXPECT().Fetch(gomock.Any(), gomock.Any(), metrics.TypeSteps, gomock.Any()).
			Return(json.RawMessage(`{"irrelevant": 1}`), nil),
	)
	f.writer.EXPECT().MarkSkipped(gomock.Any(), gomock.Any(), 1).Return(nil).Times(2)

	result, syncErr := f.manager.SyncUser(context.Background(), req)
	require.Nil(t, syncErr)
	assert.Equal(t, 2, result.Skipped)
	assert.Zero(t, result.Completed)
	assert.Zero(t, result.Failed)
}

func TestSyncUserRetriesTransientFailures(t *testing.T) {
	t.Parallel()

	f := newManagerFixture(t)
	req := baseRequest(t)
	req.End = req.Start // single day

	f.expectAuth()
	f.store.EXPECT().Get(gomock.Any(), gomock.Any()).
		Return(nil, state.ErrCheckpointNotFound)

	transient := &source.Error{Kind: source.KindTimeout, Op: "fetch", Err: errors.New("i/o timeout")}
	gomock.InOrder(
		f.client.EXPECT().Fetch(gomock.Any(), gomock.Any(), metrics.TypeSteps, gomock.Any()).
			Return(nil, transient),
		f.client.EXPECT().Fetch(gomock.Any(), gomock.Any(), metrics.TypeSteps, gomock.Any()).
			Return(nil, transient),
		f.client.EXPECT().Fetch(gomock.Any(), gomock.Any(), metrics.TypeSteps, gomock.Any()).
			Return(json.RawMessage(`{"total_steps": 100}`), nil),
	)
	// The attempt count on the stored checkpoint reflects all three tries.
	f.writer.EXPECT().StoreUnit(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), 3).
		Return(nil)

	result, syncErr := f.manager.SyncUser(context.Background(), req)
	require.Nil(t, syncErr)
	assert.Equal(t, 1, result.Completed)
}

func TestSyncUserContainsUnitFailures(t *testing.T) {
	t.Parallel()

	f := newManagerFixture(t)
	req := baseRequest(t)

	f.expectAuth()
	f.store.EXPECT().Get(gomock.Any(), gomock.Any()).
		Return(nil, state.ErrCheckpointNotFound).Times(2)

	structural := &source.Error{Kind: source.KindBadRequest, Op: "fetch", Err: errors.New("bad request")}
	gomock.InOrder(
		f.client.EXPECT().Fetch(gomock.Any(), gomock.Any(), metrics.TypeSteps, gomock.Any()).
			Return(nil, structural),
		f.client.EXPECT().Fetch(gomock.Any(), gomock.Any(), metrics.TypeSteps, gomock.Any()).
			Return(json.RawMessage(`{"total_steps": 100}`), nil),
	)
	f.writer.EXPECT().MarkFailed(gomock.Any(), gomock.Any(), 1, gomock.Any()).Return(nil)
	f.writer.EXPECT().StoreUnit(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), 1).
		Return(nil)

	result, syncErr := f.manager.SyncUser(context.Background(), req)
	require.Nil(t, syncErr)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 1, result.Completed)
}

func TestSyncUserMalformedPayloadFailsWithoutRetry(t *testing.T) {
	t.Parallel()

	f := newManagerFixture(t)
	req := baseRequest(t)
	req.End = req.Start

	f.expectAuth()
	f.store.EXPECT().Get(gomock.Any(), gomock.Any()).
		Return(nil, state.ErrCheckpointNotFound)
	// Steps payload must be an object; a list is a structure error.
	f.client.EXPECT().Fetch(gomock.Any(), gomock.Any(), metrics.TypeSteps, gomock.Any()).
		Return(json.RawMessage(`[1,2,3]`), nil)
	f.writer.EXPECT().MarkFailed(gomock.Any(), gomock.Any(), 1, gomock.Any()).Return(nil)

	result, syncErr := f.manager.SyncUser(context.Background(), req)
	require.Nil(t, syncErr)
	assert.Equal(t, 1, result.Failed)
}

func TestSyncUserAuthFailureAbortsRun(t *testing.T) {
	t.Parallel()

	f := newManagerFixture(t)
	req := baseRequest(t)

	f.authenticator.EXPECT().
		Authenticate(gomock.Any(), "cred/alice").
		Return(nil, &source.Error{Kind: source.KindAuth, Op: "authenticate", Err: errors.New("bad credentials")})

	result, syncErr := f.manager.SyncUser(context.Background(), req)
	require.NotNil(t, syncErr)
	assert.Equal(t, syncpkg.ReasonAuthFailed, syncErr.Reason)
	assert.Nil(t, result)
}

func TestSyncUserAbortsOnCancellation(t *testing.T) {
	t.Parallel()

	f := newManagerFixture(t)
	req := baseRequest(t)

	f.expectAuth()
	f.store.EXPECT().Get(gomock.Any(), gomock.Any()).
		Return(nil, state.ErrCheckpointNotFound)
	f.client.EXPECT().Fetch(gomock.Any(), gomock.Any(), metrics.TypeSteps, gomock.Any()).
		Return(nil, context.Canceled)

	result, syncErr := f.manager.SyncUser(context.Background(), req)
	require.NotNil(t, syncErr)
	assert.Equal(t, syncpkg.ReasonAborted, syncErr.Reason)
	require.NotNil(t, result)
	// The second unit was never attempted.
	assert.Equal(t, 0, result.Units)
}

func TestSyncUserForceQuarantinesTamperedUnit(t *testing.T) {
	t.Parallel()

	f := newManagerFixture(t)
	req := baseRequest(t)
	req.End = req.Start
	req.Force = true

	f.expectAuth()
	f.store.EXPECT().Get(gomock.Any(), gomock.Any()).
		Return(&state.Checkpoint{Status: state.StatusCompleted, Checksum: "v1:old", AttemptCount: 1}, nil)

	mismatch := &checksum.MismatchError{Stored: "v1:old", Computed: "v1:new"}
	f.verifier.EXPECT().VerifyUnit(gomock.Any(), gomock.Any()).Return(mismatch)
	// The tampered unit is quarantined, never refetched or overwritten.
	f.writer.EXPECT().MarkFailed(gomock.Any(), gomock.Any(), 1, mismatch).Return(nil)

	result, syncErr := f.manager.SyncUser(context.Background(), req)
	require.Nil(t, syncErr)
	assert.Equal(t, 1, result.Quarantined)
	assert.Equal(t, 1, result.Failed)
	assert.Zero(t, result.Completed)
}

func TestSyncUserForceRefetchesVerifiedUnits(t *testing.T) {
	t.Parallel()

	f := newManagerFixture(t)
	req := baseRequest(t)
	req.End = req.Start
	req.Force = true

	f.expectAuth()
	f.store.EXPECT().Get(gomock.Any(), gomock.Any()).
		Return(&state.Checkpoint{Status: state.StatusCompleted, Checksum: "v1:old"}, nil)
	f.verifier.EXPECT().VerifyUnit(gomock.Any(), gomock.Any()).Return(nil)
	f.client.EXPECT().Fetch(gomock.Any(), gomock.Any(), metrics.TypeSteps, gomock.Any()).
		Return(json.RawMessage(`{"total_steps": 500}`), nil)
	f.writer.EXPECT().StoreUnit(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), 1).
		Return(nil)

	result, syncErr := f.manager.SyncUser(context.Background(), req)
	require.Nil(t, syncErr)
	assert.Equal(t, 1, result.Completed)
	assert.Zero(t, result.AlreadyDone)
}

func TestSyncUserSessionDeathMidRunAborts(t *testing.T) {
	t.Parallel()

	f := newManagerFixture(t)
	req := baseRequest(t)

	f.expectAuth()
	f.store.EXPECT().Get(gomock.Any(), gomock.Any()).
		Return(nil, state.ErrCheckpointNotFound)
	f.client.EXPECT().Fetch(gomock.Any(), gomock.Any(), metrics.TypeSteps, gomock.Any()).
		Return(nil, &source.Error{Kind: source.KindAuth, Op: "fetch", Err: errors.New("session expired")})
	f.writer.EXPECT().MarkFailed(gomock.Any(), gomock.Any(), 1, gomock.Any()).Return(nil)

	result, syncErr := f.manager.SyncUser(context.Background(), req)
	require.NotNil(t, syncErr)
	assert.Equal(t, syncpkg.ReasonAuthFailed, syncErr.Reason)
	require.NotNil(t, result)
}

func TestSyncUserRejectsInvalidRange(t *testing.T) {
	t.Parallel()

	f := newManagerFixture(t)
	req := baseRequest(t)
	req.Start, req.End = req.End.AddDays(5), req.Start

	result, syncErr := f.manager.SyncUser(context.Background(), req)
	require.NotNil(t, syncErr)
	assert.Equal(t, syncpkg.ReasonAborted, syncErr.Reason)
	assert.Nil(t, result)
}
