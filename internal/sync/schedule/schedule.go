// Package schedule partitions a requested date range into ordered, contiguous
// batches of work. The scheduler is deliberately stateless beyond its cursor:
// resumability comes from the checkpoint store, so a scheduler can be thrown
// away and recreated at any time.
package schedule

import (
	"fmt"

	"github.com/healthsync/healthsync/internal/metrics"
)

// DefaultBatchSize is the number of days per batch when none is configured.
const DefaultBatchSize = 50

// Order controls the direction in which batches are produced.
type Order string

const (
	// OrderChronological yields the oldest batch first.
	OrderChronological Order = "chronological"

	// OrderReverseChronological yields the most recent batch first. This is
	// the default: a job stopped early still leaves the freshest data synced.
	OrderReverseChronological Order = "reverse-chronological"
)

// ParseOrder converts a string into an Order.
func ParseOrder(s string) (Order, error) {
	switch Order(s) {
	case OrderChronological:
		return OrderChronological, nil
	case OrderReverseChronological, "":
		return OrderReverseChronological, nil
	default:
		return "", fmt.Errorf("unknown ordering mode: %q", s)
	}
}

// Batch is one contiguous sub-range of dates, inclusive on both ends.
type Batch struct {
	Start metrics.Date
	End   metrics.Date
}

// Dates expands the batch into individual dates following the given order.
func (b Batch) Dates(order Order) []metrics.Date {
	n := b.Start.DaysUntil(b.End) + 1
	out := make([]metrics.Date, 0, n)
	if order == OrderChronological {
		for d := b.Start; !d.After(b.End); d = d.AddDays(1) {
			out = append(out, d)
		}
		return out
	}
	for d := b.End; !d.Before(b.Start); d = d.AddDays(-1) {
		out = append(out, d)
	}
	return out
}

// Scheduler produces the batches covering [start, end] exactly once.
type Scheduler struct {
	start     metrics.Date
	end       metrics.Date
	batchSize int
	order     Order

	// cursor is the start (chronological) or end (reverse) of the next batch.
	cursor metrics.Date
	done   bool
}

// New creates a scheduler over the inclusive range [start, end]. An empty
// order falls back to reverse-chronological.
// A start after end is a caller error, never silently swapped.
func New(start, end metrics.Date, batchSize int, order Order) (*Scheduler, error) {
	if start.After(end) {
		return nil, fmt.Errorf("invalid date range: start %s is after end %s", start, end)
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if order == "" {
		order = OrderReverseChronological
	}
	if order != OrderChronological && order != OrderReverseChronological {
		return nil, fmt.Errorf("unknown ordering mode: %q", order)
	}

	s := &Scheduler{
		start:     start,
		end:       end,
		batchSize: batchSize,
		order:     order,
	}
	if order == OrderChronological {
		s.cursor = start
	} else {
		s.cursor = end
	}
	return s, nil
}

// Order returns the configured ordering mode.
func (s *Scheduler) Order() Order {
	return s.order
}

// TotalDays returns the number of days covered by the full range.
func (s *Scheduler) TotalDays() int {
	return s.start.DaysUntil(s.end) + 1
}

// Next returns the next batch, or ok=false once the range is exhausted.
func (s *Scheduler) Next() (Batch, bool) {
	if s.done {
		return Batch{}, false
	}

	var b Batch
	if s.order == OrderChronological {
		batchEnd := s.cursor.AddDays(s.batchSize - 1)
		if batchEnd.After(s.end) {
			batchEnd = s.end
		}
		b = Batch{Start: s.cursor, End: batchEnd}
		if batchEnd == s.end {
			s.done = true
		} else {
			s.cursor = batchEnd.AddDays(1)
		}
		return b, true
	}

	batchStart := s.cursor.AddDays(-(s.batchSize - 1))
	if batchStart.Before(s.start) {
		batchStart = s.start
	}
	b = Batch{Start: batchStart, End: s.cursor}
	if batchStart == s.start {
		s.done = true
	} else {
		s.cursor = batchStart.AddDays(-1)
	}
	return b, true
}
