package services

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"indicli/internal/config"
	"indicli/internal/dataprocessing"
	"indicli/internal/files"
	"indicli/internal/infrastructure"
	"indicli/pkg/contracts/domain"
)

// IndicatorService loads indicator series from the data tree, falling back
// to deterministic sample data when no file backs an indicator. Loaded
// indicators are cached per process; the cache key is the indicator ID.
type IndicatorService struct {
	discovery *files.Discovery
	analysis  config.AnalysisConfig
	logger    *slog.Logger
	metrics   *infrastructure.BusinessMetrics

	mu    sync.RWMutex
	cache map[string]*domain.Indicator

	// now is swappable in tests so sample generation is reproducible.
	now func() time.Time
}

// NewIndicatorService creates an indicator service over the given data tree.
// metrics may be nil.
func NewIndicatorService(discovery *files.Discovery, analysis config.AnalysisConfig, logger *slog.Logger, metrics *infrastructure.BusinessMetrics) *IndicatorService {
	return &IndicatorService{
		discovery: discovery,
		analysis:  analysis,
		logger:    logger.With(slog.String("service", "indicator")),
		metrics:   metrics,
		cache:     make(map[string]*domain.Indicator),
		now:       time.Now,
	}
}

// IDs returns the catalog of known indicator IDs.
func (s *IndicatorService) IDs() []string {
	return config.CatalogIDs()
}

// Get loads one indicator, serving from cache when possible. Unknown IDs
// outside the catalog return ErrIndicatorNotFound.
func (s *IndicatorService) Get(ctx context.Context, indicatorID string) (*domain.Indicator, error) {
	if !config.IsCatalogID(indicatorID) {
		return nil, fmt.Errorf("%w: %s", ErrIndicatorNotFound, indicatorID)
	}

	s.mu.RLock()
	cached, ok := s.cache[indicatorID]
	s.mu.RUnlock()
	if ok {
		if s.metrics != nil {
			s.metrics.CacheHits.Add(ctx, 1)
		}
		return cached, nil
	}
	if s.metrics != nil {
		s.metrics.CacheMisses.Add(ctx, 1)
	}

	indicator, err := s.load(ctx, indicatorID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cache[indicatorID] = indicator
	s.mu.Unlock()

	return indicator, nil
}

// GetPeriod loads an indicator restricted to the trailing number of months,
// measured from the latest observation. months <= 0 returns the full series.
func (s *IndicatorService) GetPeriod(ctx context.Context, indicatorID string, months int) (*domain.Indicator, error) {
	indicator, err := s.Get(ctx, indicatorID)
	if err != nil {
		return nil, err
	}
	if months <= 0 {
		return indicator, nil
	}

	windowed := *indicator
	windowed.Series = indicator.Series.TrailingMonths(months)
	return &windowed, nil
}

// All loads every catalog indicator. Individual load failures are logged
// and skipped so one corrupt file cannot take down the dashboard.
func (s *IndicatorService) All(ctx context.Context) []*domain.Indicator {
	ids := config.CatalogIDs()
	out := make([]*domain.Indicator, 0, len(ids))
	for _, id := range ids {
		indicator, err := s.Get(ctx, id)
		if err != nil {
			s.logger.WarnContext(ctx, "skipping indicator",
				slog.String("indicator_id", id),
				slog.String("error", err.Error()))
			continue
		}
		out = append(out, indicator)
	}
	return out
}

// Invalidate drops the cached copy of one indicator, or the whole cache
// when id is empty.
func (s *IndicatorService) Invalidate(indicatorID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if indicatorID == "" {
		s.cache = make(map[string]*domain.Indicator)
		return
	}
	delete(s.cache, indicatorID)
}

// load reads the first parseable candidate file, or generates sample data
// when none exists.
func (s *IndicatorService) load(ctx context.Context, indicatorID string) (*domain.Indicator, error) {
	start := time.Now()
	meta := config.LookupMetadata(indicatorID)

	var (
		series     *domain.Series
		dataSource string
		synthetic  bool
		skipped    int
	)

	for _, candidate := range s.discovery.Candidates(indicatorID) {
		var result *dataprocessing.ParseResult
		var err error
		if candidate.Excel {
			result, err = dataprocessing.ParseExcelFile(candidate.Path, indicatorID)
		} else {
			result, err = dataprocessing.ParseCSVFile(candidate.Path, indicatorID)
		}
		if err != nil {
			s.logger.WarnContext(ctx, "candidate file unusable",
				slog.String("indicator_id", indicatorID),
				slog.String("file", candidate.Path),
				slog.String("error", err.Error()))
			continue
		}

		series = result.Series
		skipped = result.Skipped
		dataSource = "Data from file: " + filepath.Base(candidate.Path)
		s.logger.InfoContext(ctx, "indicator loaded",
			slog.String("indicator_id", indicatorID),
			slog.String("file", candidate.Path),
			slog.Int("observations", result.Parsed),
			slog.Int("skipped_rows", result.Skipped))
		break
	}

	if series == nil {
		// No usable file: fall back to generated placeholder data.
		synthetic = true
		series = dataprocessing.GenerateSampleSeries(indicatorID, s.analysis.SampleMonths, s.now())
		dataSource = fmt.Sprintf("Sample data (%s)", meta.Source)
		s.logger.WarnContext(ctx, "no data files found, using sample data",
			slog.String("indicator_id", indicatorID))
	}

	if series.Empty() {
		return nil, fmt.Errorf("%w: %s", ErrEmptyDataset, indicatorID)
	}

	if s.metrics != nil {
		infrastructure.RecordIndicatorLoad(ctx, s.metrics, indicatorID, time.Since(start), synthetic, skipped)
	}

	return &domain.Indicator{
		Metadata:   meta,
		Synthetic:  synthetic,
		DataSource: dataSource,
		LoadedAt:   time.Now().UTC(),
		Series:     series,
	}, nil
}
