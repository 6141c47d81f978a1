package domain

import (
	"time"
)

// CellState classifies a value on an aligned time axis.
type CellState int

const (
	// CellMissing marks a timestamp where the series has no value,
	// even after gap fill (before its first observation).
	CellMissing CellState = iota
	// CellActual marks an observed value.
	CellActual
	// CellFilled marks a value carried forward from the last observation.
	CellFilled
)

// Cell is one value of one series at one aligned timestamp.
type Cell struct {
	Value float64   `json:"value"`
	State CellState `json:"state"`
}

// Frame holds a set of series aligned onto a shared, strictly increasing
// time axis. Columns are keyed by indicator ID and all have len(Times)
// cells. The axis is the union of the members' monthly buckets.
type Frame struct {
	Times   []time.Time       `json:"times"`
	Order   []string          `json:"order"`
	Columns map[string][]Cell `json:"columns"`
}

// Width returns the number of aligned series.
func (f *Frame) Width() int {
	return len(f.Order)
}

// Len returns the number of shared timestamps.
func (f *Frame) Len() int {
	return len(f.Times)
}

// Column returns the aligned cells for an indicator ID and false when the
// frame does not contain it.
func (f *Frame) Column(id string) ([]Cell, bool) {
	cells, ok := f.Columns[id]
	return cells, ok
}

// TrailingMonths returns a frame restricted to the trailing window of the
// given number of months, measured from the frame's latest timestamp.
// months <= 0 returns the frame unchanged.
func (f *Frame) TrailingMonths(months int) *Frame {
	if months <= 0 || len(f.Times) == 0 {
		return f
	}
	cutoff := f.Times[len(f.Times)-1].AddDate(0, -months, 0)
	start := 0
	for start < len(f.Times) && f.Times[start].Before(cutoff) {
		start++
	}
	if start == 0 {
		return f
	}
	out := &Frame{
		Times:   f.Times[start:],
		Order:   f.Order,
		Columns: make(map[string][]Cell, len(f.Columns)),
	}
	for id, cells := range f.Columns {
		out.Columns[id] = cells[start:]
	}
	return out
}
