package dataprocessing

import (
	"sort"
	"time"

	"indicli/pkg/contracts/domain"
)

// Align buckets every input series to monthly resolution and merges them
// onto the union of their months. Within one month the last observation
// wins. Months where a series has no observation are left missing; columns
// keep the order of the input slice.
func Align(series []*domain.Series) *domain.Frame {
	frame := &domain.Frame{
		Columns: make(map[string][]domain.Cell),
	}

	// Bucket each series by month start.
	monthly := make(map[string]map[time.Time]float64, len(series))
	monthSet := make(map[time.Time]struct{})

	for _, s := range series {
		if s == nil || s.Empty() {
			continue
		}
		buckets := make(map[time.Time]float64)
		for _, p := range s.Points {
			m := monthStart(p.Time)
			buckets[m] = p.Value
			monthSet[m] = struct{}{}
		}
		monthly[s.Name] = buckets
		frame.Order = append(frame.Order, s.Name)
	}

	frame.Times = make([]time.Time, 0, len(monthSet))
	for m := range monthSet {
		frame.Times = append(frame.Times, m)
	}
	sort.Slice(frame.Times, func(i, j int) bool {
		return frame.Times[i].Before(frame.Times[j])
	})

	for _, name := range frame.Order {
		column := make([]domain.Cell, len(frame.Times))
		buckets := monthly[name]
		for i, m := range frame.Times {
			if v, ok := buckets[m]; ok {
				column[i] = domain.Cell{Value: v, State: domain.CellActual}
			}
		}
		frame.Columns[name] = column
	}

	return frame
}

// FillForward carries the last actual value of each column into subsequent
// missing months, marking carried cells as filled. Leading gaps before a
// column's first observation stay missing. The input frame is not modified.
func FillForward(frame *domain.Frame) *domain.Frame {
	out := &domain.Frame{
		Times:   frame.Times,
		Order:   frame.Order,
		Columns: make(map[string][]domain.Cell, len(frame.Columns)),
	}

	for name, column := range frame.Columns {
		filled := make([]domain.Cell, len(column))
		copy(filled, column)

		var last float64
		var have bool
		for i := range filled {
			switch filled[i].State {
			case domain.CellActual:
				last = filled[i].Value
				have = true
			case domain.CellMissing:
				if have {
					filled[i] = domain.Cell{Value: last, State: domain.CellFilled}
				}
			}
		}
		out.Columns[name] = filled
	}

	return out
}

// Component describes one weighted input of a composite indicator.
type Component struct {
	IndicatorID string
	Weight      float64
}

// Composite computes a weighted sum over the named frame columns for every
// month. Missing components are dropped from that month's sum rather than
// treated as zero, and the remaining weights are not renormalized. A month
// where every component is missing yields a missing cell, so the returned
// column is frame-shaped and can be attached back to the frame.
func Composite(frame *domain.Frame, components []Component) []domain.Cell {
	out := make([]domain.Cell, frame.Len())

	for i := range frame.Times {
		var sum float64
		var present, anyFilled bool
		for _, c := range components {
			column, ok := frame.Columns[c.IndicatorID]
			if !ok || i >= len(column) {
				continue
			}
			cell := column[i]
			if cell.State == domain.CellMissing {
				continue
			}
			sum += c.Weight * cell.Value
			present = true
			if cell.State == domain.CellFilled {
				anyFilled = true
			}
		}
		if !present {
			continue
		}
		state := domain.CellActual
		if anyFilled {
			state = domain.CellFilled
		}
		out[i] = domain.Cell{Value: sum, State: state}
	}

	return out
}

// AttachColumn appends a derived column to the frame under the given name.
// Existing columns with the same name are replaced.
func AttachColumn(frame *domain.Frame, name string, column []domain.Cell) {
	if _, exists := frame.Columns[name]; !exists {
		frame.Order = append(frame.Order, name)
	}
	frame.Columns[name] = column
}

// ColumnSeries converts a frame column back into a series, skipping missing
// cells and preserving the filled flag on carried observations.
func ColumnSeries(frame *domain.Frame, name string) *domain.Series {
	series := domain.NewSeries(name)
	column, ok := frame.Columns[name]
	if !ok {
		return series
	}
	for i, cell := range column {
		if cell.State == domain.CellMissing {
			continue
		}
		series.AppendPoint(domain.Observation{
			Time:   frame.Times[i],
			Value:  cell.Value,
			Filled: cell.State == domain.CellFilled,
		})
	}
	return series
}

// MonthlyChange returns the percent change between the last two observations,
// or false when fewer than two exist.
func MonthlyChange(s *domain.Series) (float64, bool) {
	return pctChange(s, 1)
}

// YoYChange returns the percent change against the observation twelve steps
// back, or false when the series is too short.
func YoYChange(s *domain.Series) (float64, bool) {
	return pctChange(s, 12)
}

func pctChange(s *domain.Series, lag int) (float64, bool) {
	if s == nil || s.Len() <= lag {
		return 0, false
	}
	prev := s.Points[s.Len()-1-lag].Value
	if prev == 0 {
		return 0, false
	}
	curr := s.Points[s.Len()-1].Value
	return (curr - prev) / prev * 100, true
}
