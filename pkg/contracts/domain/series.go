package domain

import (
	"time"
)

// Observation is a single (timestamp, value) pair in a time series.
// Filled marks values substituted by the carry-forward gap-fill policy;
// such points are excluded from correlation computations.
type Observation struct {
	Time   time.Time `json:"time" validate:"required"`
	Value  float64   `json:"value"`
	Filled bool      `json:"filled,omitempty"`
}

// Series is a named, ordered sequence of observations.
// Timestamps are strictly increasing; AppendPoint enforces the invariant.
type Series struct {
	Name   string        `json:"name"`
	Points []Observation `json:"points"`
}

// NewSeries creates an empty series with the given name.
func NewSeries(name string) *Series {
	return &Series{Name: name}
}

// Len returns the number of observations in the series.
func (s *Series) Len() int {
	return len(s.Points)
}

// Empty reports whether the series has no observations.
func (s *Series) Empty() bool {
	return len(s.Points) == 0
}

// AppendPoint appends an observation, keeping timestamps strictly increasing.
// Observations at or before the current tail are dropped and reported false.
func (s *Series) AppendPoint(p Observation) bool {
	if n := len(s.Points); n > 0 && !p.Time.After(s.Points[n-1].Time) {
		return false
	}
	s.Points = append(s.Points, p)
	return true
}

// First returns the earliest observation and false when the series is empty.
func (s *Series) First() (Observation, bool) {
	if len(s.Points) == 0 {
		return Observation{}, false
	}
	return s.Points[0], true
}

// Last returns the latest observation and false when the series is empty.
func (s *Series) Last() (Observation, bool) {
	if len(s.Points) == 0 {
		return Observation{}, false
	}
	return s.Points[len(s.Points)-1], true
}

// Values returns the observation values in order.
func (s *Series) Values() []float64 {
	values := make([]float64, len(s.Points))
	for i, p := range s.Points {
		values[i] = p.Value
	}
	return values
}

// Clone returns a deep copy of the series.
func (s *Series) Clone() *Series {
	points := make([]Observation, len(s.Points))
	copy(points, s.Points)
	return &Series{Name: s.Name, Points: points}
}

// After returns a new series containing only observations at or after cutoff.
// The receiver is not modified.
func (s *Series) After(cutoff time.Time) *Series {
	out := &Series{Name: s.Name}
	for _, p := range s.Points {
		if !p.Time.Before(cutoff) {
			out.Points = append(out.Points, p)
		}
	}
	return out
}

// TrailingMonths returns a new series restricted to the trailing window of
// the given number of months, measured from the series' own latest
// timestamp rather than the wall clock. months <= 0 returns a full copy.
func (s *Series) TrailingMonths(months int) *Series {
	last, ok := s.Last()
	if !ok || months <= 0 {
		return s.Clone()
	}
	return s.After(last.Time.AddDate(0, -months, 0))
}
