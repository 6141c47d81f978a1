package domain

import (
	"time"
)

// ForecastPoint is a single projected observation with confidence bounds.
type ForecastPoint struct {
	Time  time.Time `json:"time" validate:"required"`
	Value float64   `json:"value"`
	Lower float64   `json:"lower"`
	Upper float64   `json:"upper"`
}

// ForecastSegment is the projected continuation of an indicator's series.
// It is tagged as a forecast and kept separate from historical data;
// producers must never splice it into the Series it extends.
type ForecastSegment struct {
	IndicatorID string          `json:"indicator_id" validate:"required"`
	Method      string          `json:"method"` // e.g. "ols_trailing_12", "file"
	Source      string          `json:"source"`
	Synthetic   bool            `json:"synthetic"`
	GeneratedAt time.Time       `json:"generated_at"`
	Points      []ForecastPoint `json:"points"`
}

// Empty reports whether the segment carries no projected points.
func (f *ForecastSegment) Empty() bool {
	return f == nil || len(f.Points) == 0
}

// HorizonStart returns the timestamp of the first projected point and
// false when the segment is empty.
func (f *ForecastSegment) HorizonStart() (time.Time, bool) {
	if f.Empty() {
		return time.Time{}, false
	}
	return f.Points[0].Time, true
}
