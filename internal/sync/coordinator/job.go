package coordinator

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	syncpkg "github.com/healthsync/healthsync/internal/sync"
)

// State is the lifecycle state of a sync job.
type State string

const (
	// StatePending is a job that has been accepted but not yet started.
	StatePending State = "pending"

	// StateRunning is a job actively processing units.
	StateRunning State = "running"

	// StatePaused is a job suspended at a unit boundary. The in-flight unit
	// finished and committed before the loop observed the pause.
	StatePaused State = "paused"

	// StateCompleted is a job that exhausted its schedule.
	StateCompleted State = "completed"

	// StateFailed is a job stopped by a run-level error.
	StateFailed State = "failed"

	// StateStopped is a job cancelled by request. It is not resumable as the
	// same job; a new job over the same range recovers from checkpoints.
	StateStopped State = "stopped"
)

// Job is the in-memory handle for one running sync. It holds no durable
// state; everything needed to resume after a crash lives in the checkpoint
// table.
type Job struct {
	id  uuid.UUID
	req syncpkg.Request

	cancel context.CancelFunc
	done   chan struct{}

	mu      sync.Mutex
	state   State
	resume  chan struct{}
	stopped bool
	result  *syncpkg.Result
	runErr  *syncpkg.Error
}

// ID returns the job identifier, unique per invocation.
func (j *Job) ID() uuid.UUID {
	return j.id
}

// Username returns the name of the user the job syncs.
func (j *Job) Username() string {
	return j.req.Username
}

// State returns the current lifecycle state.
func (j *Job) State() State {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.state
}

// Done is closed when the job reaches a terminal state.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Result returns the run outcome. Both values are nil until the job is done.
func (j *Job) Result() (*syncpkg.Result, *syncpkg.Error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.result, j.runErr
}

// Pause requests a cooperative suspension. The job observes the request at
// the next unit boundary; the unit in flight completes and commits first.
func (j *Job) Pause() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.state != StateRunning {
		return fmt.Errorf("cannot pause job in state %s", j.state)
	}
	j.state = StatePaused
	j.resume = make(chan struct{})
	return nil
}

// Resume lets a paused job continue with its next unit.
func (j *Job) Resume() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.state != StatePaused {
		return fmt.Errorf("cannot resume job in state %s", j.state)
	}
	close(j.resume)
	j.resume = nil
	j.state = StateRunning
	return nil
}

// Stop cancels the job cooperatively. The unit in flight completes and
// commits; no later unit starts. Stopping a finished job is a no-op.
func (j *Job) Stop() {
	j.mu.Lock()
	switch j.state {
	case StateCompleted, StateFailed, StateStopped:
		j.mu.Unlock()
		return
	default:
	}
	j.stopped = true
	if j.resume != nil {
		close(j.resume)
		j.resume = nil
	}
	j.mu.Unlock()
	j.cancel()
}

// gate blocks while the job is paused. It is called between units, after the
// previous unit has committed.
func (j *Job) gate(ctx context.Context) {
	j.mu.Lock()
	ch := j.resume
	j.mu.Unlock()
	if ch == nil {
		return
	}
	select {
	case <-ch:
	case <-ctx.Done():
	}
}

func (j *Job) setRunning() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.state == StatePending {
		j.state = StateRunning
	}
}

// finish records the run outcome and resolves the terminal state. A stop
// request wins over the abort error it caused.
func (j *Job) finish(result *syncpkg.Result, runErr *syncpkg.Error) State {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.result = result
	j.runErr = runErr
	switch {
	case j.stopped:
		j.state = StateStopped
	case runErr != nil:
		j.state = StateFailed
	default:
		j.state = StateCompleted
	}
	return j.state
}
