package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"indicli/internal/config"
	"indicli/internal/dataprocessing"
	"indicli/internal/exporter"
	"indicli/internal/files"
	"indicli/internal/infrastructure"
)

// setup prepares the data tree for the dashboard: it creates the directory
// layout and seeds sample CSVs for any catalog indicator that has no data
// file yet. Running it repeatedly is safe; existing files are never touched.
func main() {
	force := flag.Bool("force", false, "regenerate sample files even when data already exists")
	months := flag.Int("months", 0, "number of sample months to generate (defaults to configured sample_months)")
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
		Output:   "console",
		FilePath: cfg.Logging.FilePath,
	})
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	sampleMonths := cfg.Analysis.SampleMonths
	if *months > 0 {
		sampleMonths = *months
	}

	logger.Info("Preparing data tree",
		slog.String("base_dir", paths.BaseDir),
		slog.Int("sample_months", sampleMonths),
		slog.Bool("force", *force))

	discovery := files.NewDiscovery(paths)
	writer := exporter.NewCSVWriter(paths)
	now := time.Now().UTC()

	seeded := 0
	skipped := 0
	for _, id := range config.CatalogIDs() {
		if !*force && hasData(discovery, id) {
			skipped++
			continue
		}

		series := dataprocessing.GenerateSampleSeries(id, sampleMonths, now)

		records := make([][]string, 0, len(series.Points))
		for _, p := range series.Points {
			records = append(records, []string{
				p.Time.Format("2006-01-02"),
				fmt.Sprintf("%.2f", p.Value),
			})
		}

		fileName := fmt.Sprintf("raw/%s_sample.csv", id)
		if err := writer.WriteSimpleCSV(fileName, []string{"Date", "value"}, records); err != nil {
			logger.Error("Failed to write sample file",
				slog.String("indicator_id", id),
				slog.String("error", err.Error()))
			os.Exit(1)
		}

		logger.Info("Seeded sample data",
			slog.String("indicator_id", id),
			slog.Int("points", len(records)))
		seeded++
	}

	logger.Info("Setup complete",
		slog.Int("seeded", seeded),
		slog.Int("skipped", skipped),
		slog.String("raw_dir", paths.RawDir))

	fmt.Printf("Setup complete: %d indicators seeded, %d already had data\n", seeded, skipped)
}

// hasData reports whether any data file already exists for the indicator
func hasData(discovery *files.Discovery, indicatorID string) bool {
	for _, candidate := range discovery.Candidates(indicatorID) {
		if config.FileExists(candidate.Path) {
			return true
		}
	}
	return false
}
