package http

import (
	"context"

	"indicli/internal/dataprocessing"
	"indicli/pkg/contracts/domain"
)

// AnalysisServiceInterface defines the interface for analysis operations
type AnalysisServiceInterface interface {
	Forecast(ctx context.Context, indicatorID string) (domain.ForecastSegment, error)
	Correlations(ctx context.Context, months int) (*domain.CorrelationMatrix, error)
	Frame(ctx context.Context) (*domain.Frame, error)
	Composite(ctx context.Context, name string, components []dataprocessing.Component) (*domain.Series, error)
	Summaries(ctx context.Context) []dataprocessing.Summary
}
