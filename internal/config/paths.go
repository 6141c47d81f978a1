package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Paths contains all the application paths.
// This is the single source of truth for the data directory layout:
//
//	data/
//	  ├── raw/         (collector output, one CSV/XLSX per indicator)
//	  ├── processed/   (monthly series with derived change columns)
//	  ├── forecasts/   (collector-provided or computed projections)
//	  └── exports/     (CSV downloads generated on demand)
//	logs/
type Paths struct {
	BaseDir      string
	DataDir      string
	RawDir       string
	ProcessedDir string
	ForecastsDir string
	ExportsDir   string
	LogsDir      string
}

// GetPaths resolves the application paths. The data root comes from
// IND_DATA_DIR when set, otherwise ./data relative to the working
// directory, matching where the collectors drop their files.
func GetPaths() (*Paths, error) {
	base := os.Getenv("IND_DATA_DIR")
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		base = filepath.Join(wd, "data")
	}

	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory %s: %w", base, err)
	}

	return &Paths{
		BaseDir:      filepath.Dir(abs),
		DataDir:      abs,
		RawDir:       filepath.Join(abs, "raw"),
		ProcessedDir: filepath.Join(abs, "processed"),
		ForecastsDir: filepath.Join(abs, "forecasts"),
		ExportsDir:   filepath.Join(abs, "exports"),
		LogsDir:      filepath.Join(filepath.Dir(abs), "logs"),
	}, nil
}

// EnsureDirectories creates all required directories if they don't exist.
// Safe to call repeatedly; the setup command relies on this being idempotent.
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.DataDir,
		p.RawDir,
		p.ProcessedDir,
		p.ForecastsDir,
		p.ExportsDir,
		p.LogsDir,
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// GetRawPath returns the path for a raw data file.
func (p *Paths) GetRawPath(filename string) string {
	return filepath.Join(p.RawDir, filename)
}

// GetProcessedPath returns the path for a processed data file.
func (p *Paths) GetProcessedPath(filename string) string {
	return filepath.Join(p.ProcessedDir, filename)
}

// GetForecastPath returns the path for a forecast data file.
func (p *Paths) GetForecastPath(filename string) string {
	return filepath.Join(p.ForecastsDir, filename)
}

// GetExportPath returns the path for a generated export file.
func (p *Paths) GetExportPath(filename string) string {
	return filepath.Join(p.ExportsDir, filename)
}

// GetLogPath returns the path for a log file.
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// GetMonthlyCSVPath returns the processed monthly CSV path for an indicator
// (e.g. processed/wti_oil_monthly.csv).
func (p *Paths) GetMonthlyCSVPath(indicatorID string) string {
	return filepath.Join(p.ProcessedDir, fmt.Sprintf("%s_monthly.csv", indicatorID))
}

// GetForecastCSVPath returns the forecast CSV path for an indicator
// (e.g. forecasts/wti_oil_forecast.csv).
func (p *Paths) GetForecastCSVPath(indicatorID string) string {
	return filepath.Join(p.ForecastsDir, fmt.Sprintf("%s_forecast.csv", indicatorID))
}

// GetExportCSVPathForDate returns a dated export path, used when a client
// downloads the underlying data of a chart.
func (p *Paths) GetExportCSVPathForDate(indicatorID string, date time.Time) string {
	filename := fmt.Sprintf("%s_%s.csv", indicatorID, date.Format("20060102"))
	return filepath.Join(p.ExportsDir, filename)
}
