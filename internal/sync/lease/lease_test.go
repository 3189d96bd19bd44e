package lease

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireIsExclusivePerUser(t *testing.T) {
	t.Parallel()

	c := NewController(4)
	userID := uuid.New()

	first, err := c.Acquire(context.Background(), userID)
	require.NoError(t, err)
	assert.True(t, c.Active(userID))

	_, err = c.Acquire(context.Background(), userID)
	require.ErrorIs(t, err, ErrUserBusy)

	first.Release()
	assert.False(t, c.Active(userID))

	// After release the user can be acquired again.
	second, err := c.Acquire(context.Background(), userID)
	require.NoError(t, err)
	second.Release()
}

func TestAcquireDifferentUsersInParallel(t *testing.T) {
	t.Parallel()

	c := NewController(4)

	leases := make([]*Lease, 0, 3)
	for range 3 {
		l, err := c.Acquire(context.Background(), uuid.New())
		require.NoError(t, err)
		leases = append(leases, l)
	}
	for _, l := range leases {
		l.Release()
	}
}

func TestPoolBoundsCrossUserParallelism(t *testing.T) {
	t.Parallel()

	c := NewController(1)

	first, err := c.Acquire(context.Background(), uuid.New())
	require.NoError(t, err)

	// Second user blocks on the pool until the first releases.
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	blockedUser := uuid.New()
	_, err = c.Acquire(ctx, blockedUser)
	require.Error(t, err)

	// The failed pool acquisition must not leave the user marked busy.
	assert.False(t, c.Active(blockedUser))

	first.Release()

	l, err := c.Acquire(context.Background(), blockedUser)
	require.NoError(t, err)
	l.Release()
}

func TestReleaseIsIdempotent(t *testing.T) {
	t.Parallel()

	c := NewController(1)
	userID := uuid.New()

	l, err := c.Acquire(context.Background(), userID)
	require.NoError(t, err)

	l.Release()
	l.Release()
	l.Release()

	// A double release must not free a slot twice: acquiring and releasing
	// again still works, and the pool still holds exactly one slot.
	again, err := c.Acquire(context.Background(), userID)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = c.Acquire(ctx, uuid.New())
	require.Error(t, err, "pool must still be bounded to one slot")

	again.Release()
}

func TestSameUserRejectedWhilePoolFull(t *testing.T) {
	t.Parallel()

	c := NewController(1)
	userID := uuid.New()

	l, err := c.Acquire(context.Background(), userID)
	require.NoError(t, err)
	defer l.Release()

	// Same-user contention reports busy immediately instead of queueing on
	// the exhausted pool.
	start := time.Now()
	_, err = c.Acquire(context.Background(), userID)
	require.ErrorIs(t, err, ErrUserBusy)
	assert.Less(t, time.Since(start), time.Second)
}
