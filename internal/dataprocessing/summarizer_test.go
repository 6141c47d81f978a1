package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"indicli/pkg/contracts/domain"
)

func growthIndicator(id string, monthlyPct float64, n int, direction domain.Direction) *domain.Indicator {
	s := domain.NewSeries(id)
	value := 100.0
	start := month(2024, time.January)
	for i := 0; i < n; i++ {
		s.AppendPoint(domain.Observation{Time: start.AddDate(0, i, 0), Value: value})
		value *= 1 + monthlyPct/100
	}
	return &domain.Indicator{
		Metadata: domain.Metadata{
			ID:                 id,
			Name:               id,
			PreferredDirection: direction,
		},
		DataSource: "test data",
		Series:     s,
	}
}

func TestSummarize(t *testing.T) {
	t.Run("RisingSeriesClassifiedUp", func(t *testing.T) {
		ind := growthIndicator("steel", 2.0, 14, domain.DirectionDown)

		summary := Summarize(ind, nil)

		assert.Equal(t, TrendUp, summary.Trend)
		assert.Equal(t, ImpactUnfavorable, summary.Impact)
		require.NotNil(t, summary.MonthlyChange)
		assert.InDelta(t, 2.0, *summary.MonthlyChange, 1e-6)
		require.NotNil(t, summary.YoYChange)
	})

	t.Run("FallingSeriesClassifiedDown", func(t *testing.T) {
		ind := growthIndicator("scrap", -2.0, 14, domain.DirectionDown)

		summary := Summarize(ind, nil)

		assert.Equal(t, TrendDown, summary.Trend)
		assert.Equal(t, ImpactFavorable, summary.Impact)
	})

	t.Run("FlatSeriesStableAndNeutral", func(t *testing.T) {
		ind := growthIndicator("flat", 0.0, 14, domain.DirectionDown)

		summary := Summarize(ind, nil)

		assert.Equal(t, TrendStable, summary.Trend)
		assert.Equal(t, ImpactNeutral, summary.Impact)
	})

	t.Run("SmallDriftStaysStable", func(t *testing.T) {
		// 0.5%/month is inside the +-0.7 stability band.
		ind := growthIndicator("drift", 0.5, 14, domain.DirectionNeutral)

		summary := Summarize(ind, nil)
		assert.Equal(t, TrendStable, summary.Trend)
	})

	t.Run("ForecastBlendsIntoTrend", func(t *testing.T) {
		// Flat history, sharply rising forecast: the blend must tip the
		// classification to up.
		ind := growthIndicator("turn", 0.0, 14, domain.DirectionNeutral)
		forecast := &domain.ForecastSegment{
			IndicatorID: "turn",
			Points: []domain.ForecastPoint{
				{Time: month(2025, time.March), Value: 100},
				{Time: month(2025, time.April), Value: 102},
				{Time: month(2025, time.May), Value: 104},
			},
		}

		summary := Summarize(ind, forecast)
		assert.Equal(t, TrendUp, summary.Trend)
	})

	t.Run("NeutralDirectionNeverHasImpact", func(t *testing.T) {
		ind := growthIndicator("bdi", 3.0, 14, domain.DirectionNeutral)

		summary := Summarize(ind, nil)
		assert.Equal(t, TrendUp, summary.Trend)
		assert.Equal(t, ImpactNeutral, summary.Impact)
	})

	t.Run("EmptyIndicator", func(t *testing.T) {
		ind := &domain.Indicator{Metadata: domain.Metadata{ID: "x", Name: "x"}}

		summary := Summarize(ind, nil)

		assert.Equal(t, TrendStable, summary.Trend)
		assert.Nil(t, summary.MonthlyChange)
		assert.Nil(t, summary.YoYChange)
		assert.Zero(t, summary.CurrentValue)
	})

	t.Run("SyntheticFlagPropagates", func(t *testing.T) {
		ind := growthIndicator("sample", 1.0, 5, domain.DirectionNeutral)
		ind.Synthetic = true
		ind.DataSource = "Sample data (test)"

		summary := Summarize(ind, nil)
		assert.True(t, summary.Synthetic)
		assert.Equal(t, "Sample data (test)", summary.DataSource)
	})
}

func TestClassifyTrendForecastBlend(t *testing.T) {
	// Rising history with a falling forecast should cancel to stable.
	s := domain.NewSeries("x")
	value := 100.0
	start := month(2024, time.June)
	for i := 0; i < 7; i++ {
		s.AppendPoint(domain.Observation{Time: start.AddDate(0, i, 0), Value: value})
		value *= 1.02
	}
	forecast := &domain.ForecastSegment{
		Points: []domain.ForecastPoint{
			{Value: 114},
			{Value: 111.7}, // about -2% over the horizon
		},
	}

	assert.Equal(t, TrendStable, classifyTrend(s, forecast))
}
