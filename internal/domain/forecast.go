package domain

import (
	"context"
	"math"
	"time"
)

// maxForecastDays caps the daily rollup to a one-week display window.
const maxForecastDays = 7

// UnknownCondition is the sentinel label for days where no forecast entry
// carried a sky condition.
const UnknownCondition = "Unknown"

// ForecastEntry is one timestamped prediction from the upstream weather API.
// Every field except Condition is optional: the API omits fields freely, so
// the wire adapter maps absent or malformed values to nil rather than zero.
type ForecastEntry struct {
	Timestamp         *int64   `json:"timestamp,omitempty"` // unix seconds
	Temperature       *float64 `json:"temperature,omitempty"`
	PrecipProbability *float64 `json:"precip_probability,omitempty"` // 0.0–1.0
	Condition         string   `json:"condition,omitempty"`          // e.g. "Clear", "Rain"
}

// DailyForecast summarizes one calendar day of forecast entries for the site
// weather preview. High, Low, and PrecipPercent are nil when no entry of the
// day carried a usable value.
type DailyForecast struct {
	Date          string `json:"date"`      // calendar day key, YYYY-MM-DD
	DayLabel      string `json:"day_label"` // short weekday name, e.g. "Mon"
	High          *int   `json:"high"`
	Low           *int   `json:"low"`
	PrecipPercent *int   `json:"precip_percent"`
	Condition     string `json:"condition"`
}

// ForecastSource fetches hourly forecast entries for a coordinate.
type ForecastSource interface {
	FetchEntries(ctx context.Context, lat, lon float64) ([]ForecastEntry, error)
}

// dayStats accumulates per-day values during a single aggregation pass.
type dayStats struct {
	day       time.Time
	temps     []float64
	precips   []float64
	condition string
}

// AggregateDaily buckets forecast entries by calendar day and rolls each day
// up into a DailyForecast with rounded high/low temperature and maximum
// precipitation probability.
//
// Entries are scanned in input order. Days appear in the output in the order
// they were first encountered, capped at seven. Day boundaries follow loc;
// a nil loc means the process-local timezone, which matches what a field
// crew's device would show. Entries without a timestamp are skipped, and
// non-finite temperatures or probabilities are excluded per field without
// affecting the entry's other fields. Never returns an error: malformed
// input degrades to absent statistics.
func AggregateDaily(entries []ForecastEntry, loc *time.Location) []DailyForecast {
	if loc == nil {
		loc = time.Local
	}

	stats := make(map[string]*dayStats)
	order := make([]string, 0, maxForecastDays)

	for _, e := range entries {
		if e.Timestamp == nil {
			continue
		}
		day := time.Unix(*e.Timestamp, 0).In(loc)
		key := day.Format("2006-01-02")

		s, ok := stats[key]
		if !ok {
			if len(order) >= maxForecastDays {
				// Past the display window; later entries for already-seen
				// days still count, new days do not.
				continue
			}
			s = &dayStats{day: day}
			stats[key] = s
			order = append(order, key)
		}

		if e.Temperature != nil && isFinite(*e.Temperature) {
			s.temps = append(s.temps, *e.Temperature)
		}
		if e.PrecipProbability != nil && isFinite(*e.PrecipProbability) {
			s.precips = append(s.precips, *e.PrecipProbability)
		}
		if s.condition == "" && e.Condition != "" {
			s.condition = e.Condition
		}
	}

	daily := make([]DailyForecast, 0, len(order))
	for _, key := range order {
		s := stats[key]
		d := DailyForecast{
			Date:      key,
			DayLabel:  s.day.Format("Mon"),
			Condition: s.condition,
		}
		if d.Condition == "" {
			d.Condition = UnknownCondition
		}
		if len(s.temps) > 0 {
			hi := roundToInt(maxOf(s.temps))
			lo := roundToInt(minOf(s.temps))
			d.High = &hi
			d.Low = &lo
		}
		if len(s.precips) > 0 {
			pct := roundToInt(maxOf(s.precips) * 100)
			pct = clampInt(pct, 0, 100)
			d.PrecipPercent = &pct
		}
		daily = append(daily, d)
	}

	return daily
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func roundToInt(v float64) int {
	return int(math.Round(v))
}

func maxOf(vs []float64) float64 {
	m := vs[0]
	for _, v := range vs[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func minOf(vs []float64) float64 {
	m := vs[0]
	for _, v := range vs[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
