package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthsync/healthsync/internal/metrics"
)

func mustDate(t *testing.T, s string) metrics.Date {
	t.Helper()
	d, err := metrics.ParseDate(s)
	require.NoError(t, err)
	return d
}

func collect(s *Scheduler) []Batch {
	var out []Batch
	for {
		b, ok := s.Next()
		if !ok {
			return out
		}
		out = append(out, b)
	}
}

func TestSchedulerReverseChronological(t *testing.T) {
	t.Parallel()

	s, err := New(mustDate(t, "2024-01-01"), mustDate(t, "2024-01-10"), 3, OrderReverseChronological)
	require.NoError(t, err)

	batches := collect(s)
	require.Len(t, batches, 4)

	// Most recent sub-range first.
	assert.Equal(t, mustDate(t, "2024-01-08"), batches[0].Start)
	assert.Equal(t, mustDate(t, "2024-01-10"), batches[0].End)
	assert.Equal(t, mustDate(t, "2024-01-05"), batches[1].Start)
	assert.Equal(t, mustDate(t, "2024-01-07"), batches[1].End)
	assert.Equal(t, mustDate(t, "2024-01-02"), batches[2].Start)
	assert.Equal(t, mustDate(t, "2024-01-04"), batches[2].End)

	// The remainder batch is shorter.
	assert.Equal(t, mustDate(t, "2024-01-01"), batches[3].Start)
	assert.Equal(t, mustDate(t, "2024-01-01"), batches[3].End)
}

func TestSchedulerChronological(t *testing.T) {
	t.Parallel()

	s, err := New(mustDate(t, "2024-01-01"), mustDate(t, "2024-01-10"), 3, OrderChronological)
	require.NoError(t, err)

	batches := collect(s)
	require.Len(t, batches, 4)

	assert.Equal(t, mustDate(t, "2024-01-01"), batches[0].Start)
	assert.Equal(t, mustDate(t, "2024-01-03"), batches[0].End)
	assert.Equal(t, mustDate(t, "2024-01-10"), batches[3].End)
}

func TestSchedulerCoversRangeExactlyOnce(t *testing.T) {
	t.Parallel()

	for _, order := range []Order{OrderChronological, OrderReverseChronological} {
		s, err := New(mustDate(t, "2024-02-25"), mustDate(t, "2024-03-05"), 4, order)
		require.NoError(t, err)

		seen := make(map[string]int)
		for _, b := range collect(s) {
			for _, d := range b.Dates(order) {
				seen[d.String()]++
			}
		}

		assert.Len(t, seen, 10, "order %s", order)
		for day, count := range seen {
			assert.Equal(t, 1, count, "date %s scheduled %d times in order %s", day, count, order)
		}
	}
}

func TestSchedulerSingleBatchForSmallRange(t *testing.T) {
	t.Parallel()

	s, err := New(mustDate(t, "2024-01-01"), mustDate(t, "2024-01-03"), 50, OrderReverseChronological)
	require.NoError(t, err)

	batches := collect(s)
	require.Len(t, batches, 1)
	assert.Equal(t, mustDate(t, "2024-01-01"), batches[0].Start)
	assert.Equal(t, mustDate(t, "2024-01-03"), batches[0].End)
}

func TestSchedulerSingleDayRange(t *testing.T) {
	t.Parallel()

	s, err := New(mustDate(t, "2024-01-01"), mustDate(t, "2024-01-01"), 3, OrderChronological)
	require.NoError(t, err)

	batches := collect(s)
	require.Len(t, batches, 1)
	assert.Equal(t, batches[0].Start, batches[0].End)
	assert.Equal(t, 1, s.TotalDays())
}

func TestSchedulerDefaultsToReverseChronological(t *testing.T) {
	t.Parallel()

	s, err := New(mustDate(t, "2024-01-01"), mustDate(t, "2024-01-10"), 3, "")
	require.NoError(t, err)
	assert.Equal(t, OrderReverseChronological, s.Order())

	batches := collect(s)
	require.Len(t, batches, 4)
	assert.Equal(t, mustDate(t, "2024-01-08"), batches[0].Start)
	assert.Equal(t, mustDate(t, "2024-01-10"), batches[0].End)
}

func TestSchedulerRejectsUnknownOrder(t *testing.T) {
	t.Parallel()

	_, err := New(mustDate(t, "2024-01-01"), mustDate(t, "2024-01-10"), 3, Order("newest-first"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown ordering mode")
}

func TestSchedulerRejectsInvertedRange(t *testing.T) {
	t.Parallel()

	_, err := New(mustDate(t, "2024-01-10"), mustDate(t, "2024-01-01"), 3, OrderChronological)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid date range")
}

func TestBatchDatesOrder(t *testing.T) {
	t.Parallel()

	b := Batch{Start: mustDate(t, "2024-01-01"), End: mustDate(t, "2024-01-03")}

	chron := b.Dates(OrderChronological)
	require.Len(t, chron, 3)
	assert.Equal(t, "2024-01-01", chron[0].String())
	assert.Equal(t, "2024-01-03", chron[2].String())

	rev := b.Dates(OrderReverseChronological)
	require.Len(t, rev, 3)
	assert.Equal(t, "2024-01-03", rev[0].String())
	assert.Equal(t, "2024-01-01", rev[2].String())
}

func TestParseOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Order
		wantErr bool
	}{
		{input: "chronological", want: OrderChronological},
		{input: "reverse-chronological", want: OrderReverseChronological},
		{input: "", want: OrderReverseChronological},
		{input: "newest-first", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseOrder(tt.input)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.input)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}
