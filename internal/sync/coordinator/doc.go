// Package coordinator supervises sync jobs across users.
//
// This package implements the orchestration layer above sync.Manager. It
// handles:
//
//   - Per-user mutual exclusion through lease.Controller
//   - The job lifecycle state machine (pending, running, paused,
//     completed, failed, stopped)
//   - Cooperative pause, resume, and stop at unit boundaries
//   - Progress notifications to an external reporting collaborator
//   - Recording the user's last successful sync time
//
// # Architecture
//
// The coordinator separates concerns between:
//
//   - internal/sync: Domain logic (fetch, extract, verify, store one unit)
//   - internal/sync/coordinator: Orchestration (leasing, lifecycle, control)
//   - cmd layer: wiring and invocation
//
// # Lifecycle
//
// A job moves through pending -> running -> {paused, completed, failed,
// stopped}, with paused -> running on resume and paused -> stopped on stop.
// Pause and stop are cooperative: the flag is observed between units, after
// the in-flight unit has committed, so no transaction is ever torn.
//
// A stopped job is not resumable as the same job. Because every unit outcome
// lives in the checkpoint table, starting a new job over the same range
// recovers naturally: units already completed or skipped are not refetched.
//
// # Usage Example
//
//	leases := lease.NewController(cfg.Sync.MaxConcurrentUsers)
//	coord := coordinator.New(manager, leases, conn.Queries,
//		coordinator.WithSyncMetrics(syncMetrics))
//
//	job, err := coord.StartJob(ctx, req)
//	if errors.Is(err, lease.ErrUserBusy) {
//		// another job is already syncing this user
//	}
//
//	<-job.Done()
//	result, runErr := job.Result()
//
// # Thread Safety
//
// Job control methods (Pause, Resume, Stop, State, Result) are safe to call
// from any goroutine. The sync loop itself runs in a single goroutine per
// job; units within one job never execute in parallel.
package coordinator
