package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"indicli/internal/config"
	"indicli/internal/dataprocessing"
	"indicli/internal/files"
	"indicli/internal/infrastructure"
	"indicli/pkg/contracts/domain"
)

// AnalysisService produces forecasts, correlation matrices, composites and
// dashboard summaries on top of the indicator loader. Forecast files on
// disk win over computed forecasts so curated projections survive restarts.
type AnalysisService struct {
	indicators *IndicatorService
	discovery  *files.Discovery
	forecaster *dataprocessing.Forecaster
	analysis   config.AnalysisConfig
	logger     *slog.Logger
	metrics    *infrastructure.BusinessMetrics

	now func() time.Time
}

// NewAnalysisService creates an analysis service. metrics may be nil.
func NewAnalysisService(indicators *IndicatorService, discovery *files.Discovery, analysis config.AnalysisConfig, logger *slog.Logger, metrics *infrastructure.BusinessMetrics) *AnalysisService {
	return &AnalysisService{
		indicators: indicators,
		discovery:  discovery,
		forecaster: dataprocessing.NewForecaster(analysis.ForecastWindow, analysis.ForecastHorizon),
		analysis:   analysis,
		logger:     logger.With(slog.String("service", "analysis")),
		metrics:    metrics,
		now:        time.Now,
	}
}

// Forecast returns the projection for one indicator. A forecast file under
// forecasts/ takes precedence; otherwise a linear fit over the trailing
// window is computed. Indicators with too little history yield an empty
// segment, not an error.
func (s *AnalysisService) Forecast(ctx context.Context, indicatorID string) (domain.ForecastSegment, error) {
	indicator, err := s.indicators.Get(ctx, indicatorID)
	if err != nil {
		return domain.ForecastSegment{}, err
	}

	start := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.ForecastsTotal.Add(ctx, 1)
			s.metrics.ForecastDuration.Record(ctx, time.Since(start).Seconds())
		}
	}()

	for _, candidate := range s.discovery.ForecastCandidates(indicatorID) {
		segment, err := dataprocessing.ParseForecastCSV(candidate.Path, indicatorID, s.now())
		if err != nil {
			s.logger.WarnContext(ctx, "forecast file unusable",
				slog.String("indicator_id", indicatorID),
				slog.String("file", candidate.Path),
				slog.String("error", err.Error()))
			continue
		}
		s.logger.InfoContext(ctx, "forecast loaded from file",
			slog.String("indicator_id", indicatorID),
			slog.String("file", candidate.Path),
			slog.Int("points", len(segment.Points)))
		return segment, nil
	}

	segment := s.forecaster.Forecast(indicator)
	if segment.Empty() {
		s.logger.WarnContext(ctx, "not enough history to forecast",
			slog.String("indicator_id", indicatorID),
			slog.Int("observations", indicator.Series.Len()))
	}
	return segment, nil
}

// Correlations aligns every catalog indicator onto monthly buckets and
// computes the pairwise Pearson matrix over actual observations. A positive
// months value restricts each series to its trailing window first; zero
// means the full history.
func (s *AnalysisService) Correlations(ctx context.Context, months int) (*domain.CorrelationMatrix, error) {
	start := time.Now()

	indicators := s.indicators.All(ctx)
	if len(indicators) < 2 {
		return nil, fmt.Errorf("need at least two indicators for correlation, have %d", len(indicators))
	}

	series := make([]*domain.Series, 0, len(indicators))
	for _, ind := range indicators {
		series = append(series, ind.Series.TrailingMonths(months))
	}

	frame := dataprocessing.Align(series)
	matrix := dataprocessing.Correlate(frame, s.analysis.MinOverlap)

	if s.metrics != nil {
		s.metrics.CorrelationsTotal.Add(ctx, 1)
		s.metrics.CorrelationDuration.Record(ctx, time.Since(start).Seconds())
		undefined := 0
		for i, a := range matrix.Order {
			for j := i + 1; j < len(matrix.Order); j++ {
				if _, ok := matrix.At(a, matrix.Order[j]); !ok {
					undefined++
				}
			}
		}
		if undefined > 0 {
			s.metrics.UndefinedPairsTotal.Add(ctx, int64(undefined))
		}
	}

	return matrix, nil
}

// Frame aligns every catalog indicator and fills gaps by carry-forward,
// the view the dashboard charts consume.
func (s *AnalysisService) Frame(ctx context.Context) (*domain.Frame, error) {
	indicators := s.indicators.All(ctx)
	if len(indicators) == 0 {
		return nil, ErrEmptyDataset
	}

	series := make([]*domain.Series, 0, len(indicators))
	for _, ind := range indicators {
		series = append(series, ind.Series)
	}
	return dataprocessing.FillForward(dataprocessing.Align(series)), nil
}

// Composite computes a weighted index over the given components and returns
// it as a series. Months where every component is missing are omitted.
func (s *AnalysisService) Composite(ctx context.Context, name string, components []dataprocessing.Component) (*domain.Series, error) {
	if len(components) == 0 {
		return nil, fmt.Errorf("composite %q has no components", name)
	}

	series := make([]*domain.Series, 0, len(components))
	for _, c := range components {
		indicator, err := s.indicators.Get(ctx, c.IndicatorID)
		if err != nil {
			return nil, fmt.Errorf("component %s: %w", c.IndicatorID, err)
		}
		series = append(series, indicator.Series)
	}

	frame := dataprocessing.FillForward(dataprocessing.Align(series))
	column := dataprocessing.Composite(frame, components)
	dataprocessing.AttachColumn(frame, name, column)

	return dataprocessing.ColumnSeries(frame, name), nil
}

// Summaries builds the card-level summary for every catalog indicator,
// blending each indicator's forecast into its trend classification.
func (s *AnalysisService) Summaries(ctx context.Context) []dataprocessing.Summary {
	indicators := s.indicators.All(ctx)
	out := make([]dataprocessing.Summary, 0, len(indicators))

	for _, indicator := range indicators {
		var forecast *domain.ForecastSegment
		segment, err := s.Forecast(ctx, indicator.ID)
		if err == nil && !segment.Empty() {
			forecast = &segment
		}
		out = append(out, dataprocessing.Summarize(indicator, forecast))
	}

	return out
}
