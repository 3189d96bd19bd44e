package metrics_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthsync/healthsync/internal/metrics"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    metrics.Type
		wantErr string
	}{
		{
			name:  "known type",
			input: "steps",
			want:  metrics.TypeSteps,
		},
		{
			name:  "case insensitive with whitespace",
			input: "  Heart_Rate ",
			want:  metrics.TypeHeartRate,
		},
		{
			name:    "unknown type",
			input:   "blood_pressure",
			wantErr: "unknown metric type",
		},
		{
			name:    "empty",
			input:   "",
			wantErr: "unknown metric type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := metrics.Parse(tt.input)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseList(t *testing.T) {
	t.Parallel()

	t.Run("deduplicates and preserves order", func(t *testing.T) {
		t.Parallel()

		got, err := metrics.ParseList("sleep,steps, sleep ,hrv")
		require.NoError(t, err)
		assert.Equal(t, []metrics.Type{metrics.TypeSleep, metrics.TypeSteps, metrics.TypeHRV}, got)
	})

	t.Run("rejects empty list", func(t *testing.T) {
		t.Parallel()

		_, err := metrics.ParseList(" , ,")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "metric list is empty")
	})

	t.Run("propagates unknown type", func(t *testing.T) {
		t.Parallel()

		_, err := metrics.ParseList("steps,nope")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown metric type")
	})
}

func TestAllCoversEveryType(t *testing.T) {
	t.Parallel()

	all := metrics.All()
	require.NotEmpty(t, all)

	seen := make(map[metrics.Type]bool, len(all))
	for _, m := range all {
		assert.False(t, seen[m], "duplicate type %s", m)
		seen[m] = true

		parsed, err := metrics.Parse(string(m))
		require.NoError(t, err)
		assert.Equal(t, m, parsed)
	}
}

func TestDateRoundTrip(t *testing.T) {
	t.Parallel()

	d, err := metrics.ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", d.String())
	assert.Equal(t, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), d.Time())

	_, err = metrics.ParseDate("02/29/2024")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid date")
}

func TestDateOfNormalizesToUTC(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("UTC-5", -5*60*60)
	// 23:30 local on Jan 1 is already Jan 2 in UTC.
	d := metrics.DateOf(time.Date(2024, time.January, 1, 23, 30, 0, 0, loc))
	assert.Equal(t, "2024-01-02", d.String())
}

func TestDateArithmetic(t *testing.T) {
	t.Parallel()

	start, err := metrics.ParseDate("2024-01-30")
	require.NoError(t, err)

	assert.Equal(t, "2024-02-01", start.AddDays(2).String())
	assert.Equal(t, "2024-01-27", start.AddDays(-3).String())

	end := start.AddDays(7)
	assert.Equal(t, 7, start.DaysUntil(end))
	assert.Equal(t, -7, end.DaysUntil(start))
	assert.True(t, start.Before(end))
	assert.True(t, end.After(start))
	assert.False(t, start.Before(start))
}

func TestDateJSON(t *testing.T) {
	t.Parallel()

	d, err := metrics.ParseDate("2024-06-15")
	require.NoError(t, err)

	encoded, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `"2024-06-15"`, string(encoded))

	var decoded metrics.Date
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	assert.Equal(t, d, decoded)

	assert.Error(t, json.Unmarshal([]byte(`"15/06/2024"`), &decoded))
	assert.Error(t, json.Unmarshal([]byte(`42`), &decoded))
}

func TestDateIsZero(t *testing.T) {
	t.Parallel()

	var zero metrics.Date
	assert.True(t, zero.IsZero())

	d, err := metrics.ParseDate("2024-01-01")
	require.NoError(t, err)
	assert.False(t, d.IsZero())
}
