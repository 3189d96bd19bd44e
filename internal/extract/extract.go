// Package extract normalizes raw remote payloads into storable rows. The
// extractor is a pure adapter: no I/O, no side effects, and it tolerates
// missing optional fields because the remote routinely omits sensor data.
package extract

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/healthsync/healthsync/internal/metrics"
)

// Activity is one normalized workout or recorded activity.
type Activity struct {
	ID              string
	Date            metrics.Date
	Name            string
	Sport           string
	DurationSeconds int64
	DistanceMeters  float64
	Calories        int64
	AvgHeartRate    int64
	TrainingLoad    float64
	StartTime       *time.Time
}

// Point is one normalized timeseries sample.
type Point struct {
	Timestamp time.Time
	Value     float64
	Metadata  map[string]any
}

// Normalized is the result of extracting one unit of raw remote data.
type Normalized struct {
	// Daily is the daily aggregate payload for the metric, nil when the
	// payload carries no daily summary.
	Daily map[string]any

	// Activities holds per-activity rows, keyed remotely by activity id.
	Activities []Activity

	// Points holds intraday samples for high-frequency metrics.
	Points []Point
}

// Empty reports whether extraction produced nothing worth storing.
func (n *Normalized) Empty() bool {
	return n == nil || (len(n.Daily) == 0 && len(n.Activities) == 0 && len(n.Points) == 0)
}

// Extractor converts a raw remote payload into normalized rows.
type Extractor interface {
	// Normalize extracts the rows for one metric from one raw payload.
	// It must not fail on absent optional fields; a payload with nothing
	// usable yields an empty Normalized, not an error.
	Normalize(metric metrics.Type, raw json.RawMessage) (*Normalized, error)
}

// jsonExtractor is the default Extractor over the remote's JSON payloads.
type jsonExtractor struct{}

// NewJSONExtractor returns the default extractor.
func NewJSONExtractor() Extractor {
	return &jsonExtractor{}
}

func (*jsonExtractor) Normalize(metric metrics.Type, raw json.RawMessage) (*Normalized, error) {
	if len(raw) == 0 {
		return &Normalized{}, nil
	}

	if metric == metrics.TypeActivities {
		return normalizeActivities(raw)
	}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("unexpected payload shape for %s: %w", metric, err)
	}

	out := &Normalized{}
	switch metric {
	case metrics.TypeSteps:
		out.Daily = pick(payload, "total_steps", "step_goal", "total_distance", "daily_average")
	case metrics.TypeSleep:
		out.Daily = pick(payload,
			"sleep_time_seconds", "deep_sleep_seconds", "light_sleep_seconds",
			"rem_sleep_seconds", "awake_sleep_seconds", "average_spo2", "average_respiration")
	case metrics.TypeHRV:
		out.Daily = pick(payload, "weekly_avg", "last_night_avg", "last_night_5_min_high", "status", "feedback_phrase")
	case metrics.TypeTrainingReadiness:
		out.Daily = pick(payload, "score", "level", "feedback")
	case metrics.TypeCalories:
		out.Daily = pick(payload, "total_calories", "active_calories", "bmr_calories")
	case metrics.TypeDailySummary:
		out.Daily = pick(payload,
			"total_steps", "total_distance_meters", "total_calories", "active_calories",
			"resting_heart_rate", "max_heart_rate", "min_heart_rate",
			"avg_stress_level", "max_stress_level", "body_battery_high", "body_battery_low")
	case metrics.TypeHeartRate, metrics.TypeStress, metrics.TypeBodyBattery, metrics.TypeRespiration:
		out.Daily = pick(payload, "min_value", "max_value", "avg_value", "resting_value")
		points, err := normalizePoints(payload)
		if err != nil {
			return nil, fmt.Errorf("unexpected payload shape for %s: %w", metric, err)
		}
		out.Points = points
	default:
		return nil, fmt.Errorf("no extractor for metric type %s", metric)
	}

	return out, nil
}

// pick copies the named fields that are present and non-nil. Absent fields
// are simply dropped; a payload with none of them yields an empty map.
func pick(payload map[string]any, fields ...string) map[string]any {
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		if v, ok := payload[f]; ok && v != nil {
			out[f] = v
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func normalizeActivities(raw json.RawMessage) (*Normalized, error) {
	var items []map[string]any
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("unexpected activities payload shape: %w", err)
	}

	out := &Normalized{}
	for _, item := range items {
		id := asString(item["activity_id"])
		if id == "" {
			// An activity without an id has no natural key; skip it rather
			// than fabricating one.
			continue
		}
		a := Activity{
			ID:              id,
			Name:            asString(item["activity_name"]),
			Sport:           asString(item["sport_type"]),
			DurationSeconds: asInt(item["duration"]),
			DistanceMeters:  asFloat(item["distance"]),
			Calories:        asInt(item["calories"]),
			AvgHeartRate:    asInt(item["avg_heart_rate"]),
			TrainingLoad:    asFloat(item["training_load"]),
		}
		if ts := asString(item["start_time"]); ts != "" {
			if parsed, err := time.Parse(time.RFC3339, ts); err == nil {
				a.StartTime = &parsed
			}
		}
		if day := asString(item["activity_date"]); day != "" {
			if parsed, err := metrics.ParseDate(day); err == nil {
				a.Date = parsed
			}
		}
		out.Activities = append(out.Activities, a)
	}
	return out, nil
}

// normalizePoints reads intraday samples. Two shapes are accepted:
// "readings" as a list of objects with timestamp/value plus extra metadata,
// and "values" as a list of [epoch_millis, value] pairs.
func normalizePoints(payload map[string]any) ([]Point, error) {
	var points []Point

	if readings, ok := payload["readings"].([]any); ok {
		for _, r := range readings {
			obj, ok := r.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("reading is not an object")
			}
			ms := asInt(obj["timestamp"])
			if ms == 0 {
				continue
			}
			meta := make(map[string]any)
			for k, v := range obj {
				if k == "timestamp" || k == "value" || v == nil {
					continue
				}
				meta[k] = v
			}
			if len(meta) == 0 {
				meta = nil
			}
			points = append(points, Point{
				Timestamp: time.UnixMilli(ms).UTC(),
				Value:     asFloat(obj["value"]),
				Metadata:  meta,
			})
		}
	}

	if values, ok := payload["values"].([]any); ok {
		for _, v := range values {
			pair, ok := v.([]any)
			if !ok || len(pair) < 2 {
				return nil, fmt.Errorf("value sample is not a [timestamp, value] pair")
			}
			ms := asInt(pair[0])
			if ms == 0 {
				continue
			}
			points = append(points, Point{
				Timestamp: time.UnixMilli(ms).UTC(),
				Value:     asFloat(pair[1]),
			})
		}
	}

	return points, nil
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asFloat(v any) float64 {
	f, _ := v.(float64)
	return f
}

func asInt(v any) int64 {
	f, _ := v.(float64)
	return int64(f)
}
