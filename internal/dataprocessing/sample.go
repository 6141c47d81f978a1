package dataprocessing

import (
	"hash/fnv"
	"math"
	"math/rand"
	"strings"
	"time"

	"indicli/pkg/contracts/domain"
)

// sampleProfile controls the shape of generated sample data for one
// indicator family.
type sampleProfile struct {
	base       float64
	trend      float64 // mean monthly change, percent
	volatility float64 // noise stddev, percent
}

// profileFor picks generation parameters by indicator family so sample
// equipment indices sit near real index levels instead of all starting at 100.
func profileFor(indicatorID string) sampleProfile {
	switch {
	case strings.Contains(indicatorID, "equipment"):
		return sampleProfile{base: 180.0, trend: 0.3, volatility: 1.5}
	case strings.Contains(indicatorID, "steel"):
		return sampleProfile{base: 200.0, trend: 0.4, volatility: 2.0}
	case strings.Contains(indicatorID, "cement"):
		return sampleProfile{base: 220.0, trend: 0.25, volatility: 1.2}
	case strings.Contains(indicatorID, "explosives"):
		return sampleProfile{base: 175.0, trend: 0.35, volatility: 1.8}
	default:
		return sampleProfile{base: 100.0, trend: 0.5, volatility: 1.0}
	}
}

// GenerateSampleSeries produces a deterministic synthetic monthly series for
// an indicator with no backing file. The random source is seeded from the
// indicator ID so repeated loads return identical data.
func GenerateSampleSeries(indicatorID string, months int, now time.Time) *domain.Series {
	if months <= 0 {
		months = 24
	}

	rng := rand.New(rand.NewSource(seedFor(indicatorID)))
	profile := profileFor(indicatorID)

	start := monthStart(now).AddDate(0, -(months - 1), 0)

	series := domain.NewSeries(indicatorID)
	value := profile.base
	for i := 0; i < months; i++ {
		t := start.AddDate(0, i, 0)
		if i > 0 {
			seasonal := 0.2 * math.Sin(2*math.Pi*float64(t.Month())/12)
			monthlyChange := profile.trend/100 + seasonal/100 + rng.NormFloat64()*profile.volatility/100
			value = value * (1 + monthlyChange)
		}
		series.AppendPoint(domain.Observation{Time: t, Value: value})
	}

	return series
}

func seedFor(indicatorID string) int64 {
	h := fnv.New64a()
	h.Write([]byte(indicatorID))
	return int64(h.Sum64())
}

// monthStart truncates a time to midnight UTC on the first of its month.
func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
