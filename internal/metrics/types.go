// Package metrics defines the fixed set of health metric types the engine
// knows how to sync, together with the date-range type used to describe a
// sync request.
package metrics

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Type identifies one health metric category.
type Type string

const (
	// TypeSteps is the daily step count and goal
	TypeSteps Type = "steps"

	// TypeSleep is the nightly sleep summary
	TypeSleep Type = "sleep"

	// TypeHeartRate is the daily heart rate summary plus intraday readings
	TypeHeartRate Type = "heart_rate"

	// TypeStress is the daily stress summary plus intraday readings
	TypeStress Type = "stress"

	// TypeBodyBattery is the daily body battery summary plus intraday readings
	TypeBodyBattery Type = "body_battery"

	// TypeHRV is the heart rate variability summary
	TypeHRV Type = "hrv"

	// TypeRespiration is the respiration summary plus intraday readings
	TypeRespiration Type = "respiration"

	// TypeTrainingReadiness is the training readiness score
	TypeTrainingReadiness Type = "training_readiness"

	// TypeCalories is the daily calorie totals
	TypeCalories Type = "calories"

	// TypeDailySummary is the combined daily wellness summary
	TypeDailySummary Type = "daily_summary"

	// TypeActivities is recorded activities and workouts
	TypeActivities Type = "activities"
)

// All returns every known metric type in a stable order.
func All() []Type {
	return []Type{
		TypeSteps,
		TypeSleep,
		TypeHeartRate,
		TypeStress,
		TypeBodyBattery,
		TypeHRV,
		TypeRespiration,
		TypeTrainingReadiness,
		TypeCalories,
		TypeDailySummary,
		TypeActivities,
	}
}

// Parse converts a string into a metric Type, matching case-insensitively.
func Parse(s string) (Type, error) {
	candidate := Type(strings.ToLower(strings.TrimSpace(s)))
	for _, t := range All() {
		if t == candidate {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown metric type: %q", s)
}

// ParseList converts a comma-separated list into metric types. An empty input
// is an error; callers wanting "all metrics" should use All explicitly.
func ParseList(s string) ([]Type, error) {
	parts := strings.Split(s, ",")
	seen := make(map[Type]bool, len(parts))
	out := make([]Type, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			continue
		}
		t, err := Parse(p)
		if err != nil {
			return nil, err
		}
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("metric list is empty")
	}
	return out, nil
}

// String implements fmt.Stringer.
func (t Type) String() string {
	return string(t)
}

// DateLayout is the wire format for metric dates.
const DateLayout = "2006-01-02"

// Date is a calendar date with day precision. The zero value is invalid.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf truncates a time.Time to its calendar date in UTC.
func DateOf(t time.Time) Date {
	t = t.UTC()
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// Time returns the date at midnight UTC.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// String returns the date in YYYY-MM-DD form.
func (d Date) String() string {
	return d.Time().Format(DateLayout)
}

// MarshalJSON encodes the date as a YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes a YYYY-MM-DD string.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// IsZero reports whether d is the zero value.
func (d Date) IsZero() bool {
	return d == Date{}
}

// AddDays returns the date shifted by n calendar days.
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	return d.Time().Before(other.Time())
}

// After reports whether d is strictly later than other.
func (d Date) After(other Date) bool {
	return d.Time().After(other.Time())
}

// DaysUntil returns the number of days from d to other, negative if other is
// earlier.
func (d Date) DaysUntil(other Date) int {
	return int(other.Time().Sub(d.Time()) / (24 * time.Hour))
}
