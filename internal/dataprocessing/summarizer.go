package dataprocessing

import (
	"time"

	"indicli/pkg/contracts/domain"
)

// Trend classifies the combined recent and projected movement of an indicator.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// trendThreshold is the average monthly percent change beyond which a
// series stops being classified as stable.
const trendThreshold = 0.7

// Impact expresses whether the current trend is favorable given the
// indicator's preferred direction.
type Impact string

const (
	ImpactFavorable   Impact = "favorable"
	ImpactUnfavorable Impact = "unfavorable"
	ImpactNeutral     Impact = "neutral"
)

// Summary is the card-level view of one indicator: its latest value, recent
// changes and classified trend.
type Summary struct {
	IndicatorID   string           `json:"indicator_id"`
	Name          string           `json:"name"`
	Unit          string           `json:"unit"`
	Description   string           `json:"description"`
	CurrentValue  float64          `json:"current_value"`
	MonthlyChange *float64         `json:"monthly_change,omitempty"`
	YoYChange     *float64         `json:"yoy_change,omitempty"`
	Trend         Trend            `json:"trend"`
	Impact        Impact           `json:"impact"`
	LastUpdated   time.Time        `json:"last_updated"`
	DataSource    string           `json:"data_source"`
	Synthetic     bool             `json:"synthetic"`
	Direction     domain.Direction `json:"preferred_direction"`
}

// Summarize builds the summary for one indicator, blending the recent
// historical trend with the forecast trend when a forecast is available.
func Summarize(indicator *domain.Indicator, forecast *domain.ForecastSegment) Summary {
	summary := Summary{
		IndicatorID: indicator.ID,
		Name:        indicator.Name,
		Unit:        indicator.Unit,
		Description: indicator.Description,
		DataSource:  indicator.DataSource,
		Synthetic:   indicator.Synthetic,
		Direction:   indicator.PreferredDirection,
		Trend:       TrendStable,
		Impact:      ImpactNeutral,
	}

	if indicator.Empty() {
		return summary
	}

	last, _ := indicator.Series.Last()
	summary.CurrentValue = last.Value
	summary.LastUpdated = last.Time

	if change, ok := MonthlyChange(indicator.Series); ok {
		summary.MonthlyChange = &change
	}
	if change, ok := YoYChange(indicator.Series); ok {
		summary.YoYChange = &change
	}

	summary.Trend = classifyTrend(indicator.Series, forecast)
	summary.Impact = classifyImpact(summary.Trend, indicator.PreferredDirection)

	return summary
}

// classifyTrend averages the recent monthly percent changes over the last
// six observations, blends in the forecast's end-to-end change when present,
// and classifies against the stability threshold.
func classifyTrend(s *domain.Series, forecast *domain.ForecastSegment) Trend {
	if s.Len() < 2 {
		return TrendStable
	}

	recent := s.Points
	if len(recent) > 6 {
		recent = recent[len(recent)-6:]
	}

	var sum float64
	var count int
	for i := 1; i < len(recent); i++ {
		prev := recent[i-1].Value
		if prev == 0 {
			continue
		}
		sum += (recent[i].Value - prev) / prev * 100
		count++
	}
	if count == 0 {
		return TrendStable
	}
	combined := sum / float64(count)

	if forecast != nil && len(forecast.Points) >= 2 {
		first := forecast.Points[0].Value
		lastVal := forecast.Points[len(forecast.Points)-1].Value
		if first != 0 {
			forecastTrend := (lastVal - first) / first * 100
			combined = (combined + forecastTrend) / 2
		}
	}

	switch {
	case combined > trendThreshold:
		return TrendUp
	case combined < -trendThreshold:
		return TrendDown
	default:
		return TrendStable
	}
}

func classifyImpact(trend Trend, preferred domain.Direction) Impact {
	if trend == TrendStable || preferred == domain.DirectionNeutral {
		return ImpactNeutral
	}
	if (trend == TrendUp && preferred == domain.DirectionUp) ||
		(trend == TrendDown && preferred == domain.DirectionDown) {
		return ImpactFavorable
	}
	return ImpactUnfavorable
}
