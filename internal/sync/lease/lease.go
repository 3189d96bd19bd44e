// Package lease provides the per-user mutual exclusion that protects the
// checkpoint rows, plus the bounded worker pool that caps cross-user
// parallelism. A lease is an explicit, releasable right to run one sync job
// for one user; release is idempotent and safe to defer on every exit path.
package lease

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

// DefaultMaxConcurrent is the worker pool size when none is configured.
const DefaultMaxConcurrent = 4

// ErrUserBusy is returned when a sync job is already holding the lease for
// the requested user. Requests are rejected, never queued, so the caller can
// surface the conflict instead of silently interleaving writers.
var ErrUserBusy = errors.New("a sync job is already active for this user")

// Controller hands out per-user leases bounded by a fixed-size worker pool.
type Controller struct {
	mu     sync.Mutex
	active map[uuid.UUID]struct{}
	pool   *semaphore.Weighted
}

// NewController creates a controller allowing at most maxConcurrent jobs
// across all users.
func NewController(maxConcurrent int) *Controller {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrent
	}
	return &Controller{
		active: make(map[uuid.UUID]struct{}),
		pool:   semaphore.NewWeighted(int64(maxConcurrent)),
	}
}

// Lease is an exclusive right to sync one user. It must be released exactly
// once; calling Release more than once is harmless.
type Lease struct {
	userID     uuid.UUID
	controller *Controller
	release    sync.Once
}

// UserID returns the user the lease belongs to.
func (l *Lease) UserID() uuid.UUID {
	return l.userID
}

// Release returns the user slot and the worker slot to the controller.
func (l *Lease) Release() {
	l.release.Do(func() {
		l.controller.mu.Lock()
		delete(l.controller.active, l.userID)
		l.controller.mu.Unlock()
		l.controller.pool.Release(1)
	})
}

// Acquire takes the exclusive lease for userID and a slot in the worker pool.
// A second acquisition for the same user fails immediately with ErrUserBusy,
// even while the pool has free slots. Acquisition of a pool slot blocks until
// one frees up or ctx is done.
func (c *Controller) Acquire(ctx context.Context, userID uuid.UUID) (*Lease, error) {
	c.mu.Lock()
	if _, busy := c.active[userID]; busy {
		c.mu.Unlock()
		return nil, ErrUserBusy
	}
	// Reserve the user before waiting on the pool so a concurrent request
	// for the same user is rejected rather than queued behind this one.
	c.active[userID] = struct{}{}
	c.mu.Unlock()

	if err := c.pool.Acquire(ctx, 1); err != nil {
		c.mu.Lock()
		delete(c.active, userID)
		c.mu.Unlock()
		return nil, err
	}

	return &Lease{userID: userID, controller: c}, nil
}

// Active reports whether a lease is currently held for userID.
func (c *Controller) Active(userID uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, busy := c.active[userID]
	return busy
}
