package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"indicli/internal/config"
	"indicli/internal/dataprocessing"
	"indicli/internal/exporter"
	"indicli/internal/files"
	"indicli/internal/infrastructure"
	"indicli/pkg/contracts/domain"
)

// processor runs the offline batch pipeline: it parses every raw data file,
// writes the normalized monthly CSVs, computes forecasts, and exports the
// correlation matrix and summary table for the dashboard to serve.
func main() {
	workers := flag.Int("workers", 4, "number of indicators to process concurrently")
	skipForecasts := flag.Bool("no-forecasts", false, "skip forecast generation")
	flag.Parse()

	paths, err := config.GetPaths()
	if err != nil {
		slog.Error("Failed to resolve paths", "error", err)
		os.Exit(1)
	}

	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}

	logger, err := infrastructure.InitializeLogger(config.LoggingConfig{
		Level:    cfg.Logging.Level,
		Format:   "json",
		Output:   "both",
		FilePath: paths.GetLogPath("processor.log"),
	})
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	discovery := files.NewDiscovery(paths)
	writer := exporter.NewCSVWriter(paths)
	forecaster := dataprocessing.NewForecaster(cfg.Analysis.ForecastWindow, cfg.Analysis.ForecastHorizon)

	raw, err := discovery.RawFiles()
	if err != nil {
		logger.Error("Failed to scan raw directory", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Starting batch processing",
		slog.Int("files", len(raw)),
		slog.Int("workers", *workers),
		slog.String("raw_dir", paths.RawDir))

	if len(raw) == 0 {
		logger.Warn("No raw data files found, nothing to process",
			slog.String("raw_dir", paths.RawDir),
			slog.String("hint", "run the setup command to seed sample data"))
		fmt.Println("No raw files found. Run setup first.")
		return
	}

	indicators, forecasts, failed := processRawFiles(context.Background(), logger, writer, forecaster, raw, *workers, *skipForecasts)
	if len(indicators) == 0 {
		logger.Error("No indicators could be processed",
			slog.Int("failed", failed))
		infrastructure.CloseLogFile()
		os.Exit(1)
	}

	if err := exportAnalysis(logger, writer, indicators, forecasts, cfg.Analysis.MinOverlap); err != nil {
		logger.Error("Failed to export analysis artifacts", slog.String("error", err.Error()))
		os.Exit(1)
	}

	infrastructure.CloseLogFile()
	fmt.Printf("Processed %d indicators (%d failed)\n", len(indicators), failed)
}

// processRawFiles parses and exports every raw file across a bounded worker
// pool. An unusable file is logged and counted, never fatal: one corrupt
// file must not block the remaining indicators or the analysis export.
// Returned indicators are sorted by ID.
func processRawFiles(ctx context.Context, logger *slog.Logger, writer *exporter.CSVWriter, forecaster *dataprocessing.Forecaster, raw map[string]files.Candidate, workers int, skipForecasts bool) ([]*domain.Indicator, map[string]domain.ForecastSegment, int) {
	var (
		mu         sync.Mutex
		indicators []*domain.Indicator
		forecasts  = make(map[string]domain.ForecastSegment)
		failed     int
	)

	fail := func(id, path string, err error, stage string) {
		logger.ErrorContext(ctx, "Skipping indicator",
			slog.String("indicator_id", id),
			slog.String("file", path),
			slog.String("stage", stage),
			slog.String("error", err.Error()))
		mu.Lock()
		failed++
		mu.Unlock()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for id, candidate := range raw {
		g.Go(func() error {
			start := time.Now()

			var result *dataprocessing.ParseResult
			var err error
			if candidate.Excel {
				result, err = dataprocessing.ParseExcelFile(candidate.Path, id)
			} else {
				result, err = dataprocessing.ParseCSVFile(candidate.Path, id)
			}
			if err != nil {
				fail(id, candidate.Path, err, "parse")
				return nil
			}

			indicator := &domain.Indicator{
				Metadata:   config.LookupMetadata(id),
				DataSource: fmt.Sprintf("Data from file: %s", candidate.Path),
				LoadedAt:   time.Now().UTC(),
				Series:     result.Series,
			}

			if err := writer.WriteIndicatorCSV(indicator); err != nil {
				fail(id, candidate.Path, err, "write")
				return nil
			}

			var segment domain.ForecastSegment
			if !skipForecasts {
				segment = forecaster.Forecast(indicator)
				if !segment.Empty() {
					if err := writer.WriteForecastCSV(segment); err != nil {
						fail(id, candidate.Path, err, "forecast")
						return nil
					}
				}
			}

			logger.InfoContext(ctx, "Processed indicator",
				slog.String("indicator_id", id),
				slog.Int("parsed", result.Parsed),
				slog.Int("skipped", result.Skipped),
				slog.Bool("forecast", !segment.Empty()),
				slog.Duration("duration", time.Since(start)))

			mu.Lock()
			indicators = append(indicators, indicator)
			if !segment.Empty() {
				forecasts[id] = segment
			}
			mu.Unlock()
			return nil
		})
	}

	// Workers never return errors; Wait only synchronizes the pool.
	_ = g.Wait()

	sort.Slice(indicators, func(i, j int) bool {
		return indicators[i].ID < indicators[j].ID
	})

	return indicators, forecasts, failed
}

// exportAnalysis writes the correlation matrix and summary table across all
// processed indicators.
func exportAnalysis(logger *slog.Logger, writer *exporter.CSVWriter, indicators []*domain.Indicator, forecasts map[string]domain.ForecastSegment, minOverlap int) error {
	if len(indicators) < 2 {
		logger.Warn("Fewer than two indicators processed, skipping correlation export",
			slog.Int("count", len(indicators)))
		return nil
	}

	series := make([]*domain.Series, 0, len(indicators))
	for _, ind := range indicators {
		series = append(series, ind.Series)
	}

	frame := dataprocessing.Align(series)
	matrix := dataprocessing.Correlate(frame, minOverlap)
	if err := writer.WriteCorrelationCSV("correlations.csv", matrix); err != nil {
		return fmt.Errorf("write correlation csv: %w", err)
	}

	summaries := make([]dataprocessing.Summary, 0, len(indicators))
	for _, ind := range indicators {
		var forecast *domain.ForecastSegment
		if segment, ok := forecasts[ind.ID]; ok {
			forecast = &segment
		}
		summaries = append(summaries, dataprocessing.Summarize(ind, forecast))
	}
	if err := writer.WriteSummaryCSV("summaries.csv", summaries); err != nil {
		return fmt.Errorf("write summary csv: %w", err)
	}

	logger.Info("Exported analysis artifacts",
		slog.Int("indicators", len(indicators)),
		slog.Int("summaries", len(summaries)))
	return nil
}
