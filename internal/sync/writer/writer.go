// Package writer contains the SyncWriter interface and implementations.
// The writer owns the transactional write path: the rows for one unit of
// work and the checkpoint describing them commit together or not at all.
package writer

import (
	"context"

	"github.com/healthsync/healthsync/internal/extract"
	"github.com/healthsync/healthsync/internal/sync/state"
)

//go:generate mockgen -destination=mocks/mock_sync_writer.go -package=mocks -source=writer.go SyncWriter

// SyncWriter defines the interface needed to persist synced health data.
type SyncWriter interface {
	// StoreUnit persists the normalized rows for one unit and marks its
	// checkpoint completed in the same transaction. The checksum is the
	// content digest recorded on the checkpoint.
	StoreUnit(ctx context.Context, unit state.Unit, data *extract.Normalized, checksum string, attempt int) error

	// MarkSkipped records that the remote had no data for the unit.
	// Skipped units are terminal and are not refetched.
	MarkSkipped(ctx context.Context, unit state.Unit, attempt int) error

	// MarkFailed records a failed attempt for the unit. It runs outside
	// any aborted data transaction so the failure itself is durable.
	MarkFailed(ctx context.Context, unit state.Unit, attempt int, cause error) error
}
