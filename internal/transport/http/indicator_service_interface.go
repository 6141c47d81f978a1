package http

import (
	"context"

	"indicli/pkg/contracts/domain"
)

// IndicatorServiceInterface defines the interface for indicator operations
type IndicatorServiceInterface interface {
	IDs() []string
	Get(ctx context.Context, indicatorID string) (*domain.Indicator, error)
	GetPeriod(ctx context.Context, indicatorID string, months int) (*domain.Indicator, error)
	All(ctx context.Context) []*domain.Indicator
	Invalidate(indicatorID string)
}
