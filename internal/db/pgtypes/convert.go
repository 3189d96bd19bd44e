// Package pgtypes provides conversions between domain types and the
// pgtype wrappers the generated query layer speaks. Keeping the
// conversions in one place stops pgtype plumbing from leaking into the
// sync engine.
package pgtypes

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/healthsync/healthsync/internal/metrics"
)

// UUID wraps a uuid.UUID for the query layer.
func UUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

// ToUUID unwraps a pgtype.UUID. A NULL value maps to uuid.Nil.
func ToUUID(id pgtype.UUID) uuid.UUID {
	if !id.Valid {
		return uuid.Nil
	}
	return id.Bytes
}

// Date wraps a metrics.Date as a Postgres DATE.
func Date(d metrics.Date) pgtype.Date {
	return pgtype.Date{Time: d.Time(), Valid: true}
}

// ToDate unwraps a pgtype.Date into a metrics.Date.
func ToDate(d pgtype.Date) metrics.Date {
	if !d.Valid {
		return metrics.Date{}
	}
	return metrics.DateOf(d.Time)
}

// Timestamptz wraps a time.Time. Times are stored in UTC.
func Timestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t.UTC(), Valid: true}
}

// NullTimestamptz wraps an optional time.Time, mapping nil to NULL.
func NullTimestamptz(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}
	return Timestamptz(*t)
}

// ToTimePtr unwraps an optional timestamp, mapping NULL to nil.
func ToTimePtr(t pgtype.Timestamptz) *time.Time {
	if !t.Valid {
		return nil
	}
	ts := t.Time.UTC()
	return &ts
}

// Text wraps a string, mapping "" to NULL.
func Text(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}

// ToText unwraps a pgtype.Text, mapping NULL to "".
func ToText(t pgtype.Text) string {
	if !t.Valid {
		return ""
	}
	return t.String
}
