package model

import "time"

// SyncRun is one synchronization pass over the offline sale queue, recorded
// in the local sync log. SkippedDecrements counts sales that committed while
// their stock decrement could not be applied (known drift, see sync engine).
type SyncRun struct {
	ID                int64     `json:"id"`
	Trigger           string    `json:"trigger"` // "online-transition" or "manual"
	Synced            int       `json:"synced"`
	Errors            int       `json:"errors"`
	SkippedDecrements int       `json:"skipped_decrements"`
	DurationMs        int64     `json:"duration_ms"`
	StartedAt         time.Time `json:"started_at"`
}

// ForecastPoint is one dated value in a sales series.
type ForecastPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// Forecast is the output of the sales forecast: the aggregated history, the
// projected points, a trend label and an R-squared confidence figure.
type Forecast struct {
	Historical []ForecastPoint `json:"historical"`
	Projected  []ForecastPoint `json:"forecast"`
	Trend      string          `json:"trend"` // "up", "down" or "stable"
	Confidence float64         `json:"confidence"`
}
