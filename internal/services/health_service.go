package services

import (
	"context"
	"log/slog"
	"os"
	"time"

	"indicli/internal/config"
)

// HealthStatus reports the state of the data tree backing the dashboard.
type HealthStatus struct {
	Status      string         `json:"status"`
	Time        time.Time      `json:"time"`
	DataDirs    map[string]int `json:"data_dirs"`    // directory name -> file count, -1 when missing
	Indicators  int            `json:"indicators"`   // catalog size
	MissingDirs []string       `json:"missing_dirs"` // directories that do not exist
	Version     string         `json:"version"`
}

// HealthService checks that the data directories the dashboard depends on
// exist and reports their population.
type HealthService struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewHealthService creates a health service over the given path layout.
func NewHealthService(paths *config.Paths, logger *slog.Logger) *HealthService {
	return &HealthService{
		paths:  paths,
		logger: logger.With(slog.String("service", "health")),
	}
}

// Check inspects the data tree. Missing directories degrade the status to
// "degraded" rather than failing: the loaders fall back to sample data.
func (s *HealthService) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:     "ok",
		Time:       time.Now().UTC(),
		DataDirs:   make(map[string]int),
		Indicators: len(config.CatalogIDs()),
		Version:    "1.0.0",
	}

	dirs := map[string]string{
		"raw":       s.paths.RawDir,
		"processed": s.paths.ProcessedDir,
		"forecasts": s.paths.ForecastsDir,
		"exports":   s.paths.ExportsDir,
	}

	for name, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			status.DataDirs[name] = -1
			status.MissingDirs = append(status.MissingDirs, name)
			status.Status = "degraded"
			continue
		}
		count := 0
		for _, entry := range entries {
			if !entry.IsDir() {
				count++
			}
		}
		status.DataDirs[name] = count
	}

	if status.Status != "ok" {
		s.logger.WarnContext(ctx, "data tree incomplete",
			slog.Any("missing_dirs", status.MissingDirs))
	}

	return status
}
