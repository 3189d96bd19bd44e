package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/healthsync/healthsync/internal/checksum"
	"github.com/healthsync/healthsync/internal/db/pgtypes"
	"github.com/healthsync/healthsync/internal/db/sqlc"
	"github.com/healthsync/healthsync/internal/sync/state"
)

// Verifier checks stored rows against their recorded content digests.
//
//go:generate mockgen -destination=mocks/mock_verifier.go -package=mocks github.com/healthsync/healthsync/internal/sync Verifier
type Verifier interface {
	// VerifyUnit re-derives the digest of the unit's stored daily row and
	// compares it with the digest recorded alongside it. A unit with no
	// stored daily row verifies trivially. A mismatch surfaces as
	// *checksum.MismatchError.
	VerifyUnit(ctx context.Context, unit state.Unit) error
}

type dbVerifier struct {
	queries *sqlc.Queries
}

// NewDBVerifier creates a verifier reading stored rows from the database.
func NewDBVerifier(pool *pgxpool.Pool) Verifier {
	return &dbVerifier{queries: sqlc.New(pool)}
}

func (d *dbVerifier) VerifyUnit(ctx context.Context, unit state.Unit) error {
	row, err := d.queries.GetDailyMetric(ctx, sqlc.GetDailyMetricParams{
		UserID:     pgtypes.UUID(unit.UserID),
		MetricDate: pgtypes.Date(unit.Date),
		MetricType: sqlc.MetricType(unit.Metric),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("failed to load stored row: %w", err)
	}

	var payload any
	if err := json.Unmarshal(row.Payload, &payload); err != nil {
		return fmt.Errorf("stored payload is not valid JSON: %w", err)
	}
	return checksum.Verify(payload, row.Checksum)
}
