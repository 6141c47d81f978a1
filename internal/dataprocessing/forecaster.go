package dataprocessing

import (
	"math"
	"time"

	"indicli/pkg/contracts/domain"
)

// Forecaster fits a linear trend to the trailing window of a series and
// projects it forward at monthly steps.
type Forecaster struct {
	// Window is the number of trailing months fitted. Values below two
	// fall back to the default of twelve.
	Window int
	// Horizon is the number of monthly steps projected.
	Horizon int
}

// NewForecaster returns a forecaster with the given trailing window and
// projection horizon in months.
func NewForecaster(window, horizon int) *Forecaster {
	if window < 2 {
		window = 12
	}
	if horizon <= 0 {
		horizon = 6
	}
	return &Forecaster{Window: window, Horizon: horizon}
}

// Forecast fits ordinary least squares to the trailing window and returns
// projected points with confidence bounds that widen with distance from the
// last observation. Series with fewer than two usable observations yield an
// empty segment. The input series is never modified.
func (f *Forecaster) Forecast(indicator *domain.Indicator) domain.ForecastSegment {
	segment := domain.ForecastSegment{
		IndicatorID: indicator.ID,
		Method:      "linear",
		Source:      indicator.Source + " - FORECAST",
		Synthetic:   indicator.Synthetic,
		GeneratedAt: time.Now().UTC(),
	}

	if indicator.Series == nil {
		return segment
	}

	window := indicator.Series.TrailingMonths(f.Window)
	obs := actualObservations(window)
	if len(obs) < 2 {
		return segment
	}

	// Fit y = a + b*x with x measured in months from the first windowed
	// observation. Month offsets rather than raw indices keep irregular
	// gaps from distorting the slope.
	origin := obs[0].Time
	n := float64(len(obs))

	var sumX, sumY, sumXX, sumXY float64
	for _, o := range obs {
		x := monthsBetween(origin, o.Time)
		sumX += x
		sumY += o.Value
		sumXX += x * x
		sumXY += x * o.Value
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return segment
	}
	slope := (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n

	// Residual standard deviation drives the confidence band width.
	var ss float64
	for _, o := range obs {
		x := monthsBetween(origin, o.Time)
		resid := o.Value - (intercept + slope*x)
		ss += resid * resid
	}
	sd := math.Sqrt(ss / n)

	last := obs[len(obs)-1].Time
	lastX := monthsBetween(origin, last)

	segment.Points = make([]domain.ForecastPoint, 0, f.Horizon)
	for step := 1; step <= f.Horizon; step++ {
		t := monthStart(last).AddDate(0, step, 0)
		x := lastX + float64(step)
		value := intercept + slope*x

		// Bands widen as the projection moves away from observed data.
		spread := sd * (1 + 0.5*float64(step))
		segment.Points = append(segment.Points, domain.ForecastPoint{
			Time:  t,
			Value: value,
			Lower: value - 1.96*spread,
			Upper: value + 1.96*spread,
		})
	}

	return segment
}

// actualObservations filters out carried-forward values so fills do not
// flatten the fitted slope.
func actualObservations(s *domain.Series) []domain.Observation {
	if s == nil {
		return nil
	}
	out := make([]domain.Observation, 0, s.Len())
	for _, p := range s.Points {
		if !p.Filled {
			out = append(out, p)
		}
	}
	return out
}

// monthsBetween counts calendar months from a to b.
func monthsBetween(a, b time.Time) float64 {
	return float64((b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month()))
}
