// Package files resolves indicator IDs to the data files that back them.
// The search order mirrors how the data tree is populated: processed
// monthly CSVs first, then raw exports, then sample seeds.
package files

import (
	"os"
	"path/filepath"
	"strings"

	"indicli/internal/config"
)

// Candidate is one file that may hold data for an indicator.
type Candidate struct {
	Path  string
	Excel bool
}

// Discovery locates data files inside a configured data tree.
type Discovery struct {
	paths *config.Paths
}

// NewDiscovery creates a Discovery over the given path layout.
func NewDiscovery(paths *config.Paths) *Discovery {
	return &Discovery{paths: paths}
}

// Candidates returns the candidate files for an indicator in search order.
// Only files that exist are returned; an empty slice means the caller
// should fall back to generated sample data.
func (d *Discovery) Candidates(indicatorID string) []Candidate {
	searchOrder := []string{
		filepath.Join(d.paths.ProcessedDir, indicatorID+"_monthly.csv"),
		filepath.Join(d.paths.ProcessedDir, indicatorID+".csv"),
		filepath.Join(d.paths.RawDir, indicatorID+".csv"),
		filepath.Join(d.paths.RawDir, indicatorID+"_sample.csv"),
		filepath.Join(d.paths.DataDir, indicatorID+".csv"),
		filepath.Join(d.paths.RawDir, indicatorID+".xlsx"),
		filepath.Join(d.paths.ProcessedDir, indicatorID+".xlsx"),
	}

	var out []Candidate
	for _, path := range searchOrder {
		if fileExists(path) {
			out = append(out, Candidate{
				Path:  path,
				Excel: strings.EqualFold(filepath.Ext(path), ".xlsx"),
			})
		}
	}
	return out
}

// ForecastCandidates returns candidate forecast files for an indicator in
// search order.
func (d *Discovery) ForecastCandidates(indicatorID string) []Candidate {
	searchOrder := []string{
		filepath.Join(d.paths.ForecastsDir, indicatorID+"_forecast.csv"),
		filepath.Join(d.paths.ForecastsDir, indicatorID+".csv"),
		filepath.Join(d.paths.DataDir, indicatorID+"_forecast.csv"),
	}

	var out []Candidate
	for _, path := range searchOrder {
		if fileExists(path) {
			out = append(out, Candidate{Path: path})
		}
	}
	return out
}

// RawFiles lists every CSV and Excel file under the raw directory, keyed by
// the indicator ID derived from the file name. The batch processor walks
// this map.
func (d *Discovery) RawFiles() (map[string]Candidate, error) {
	entries, err := os.ReadDir(d.paths.RawDir)
	if err != nil {
		return nil, err
	}

	out := make(map[string]Candidate)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".csv" && ext != ".xlsx" {
			continue
		}
		id := strings.TrimSuffix(name, filepath.Ext(name))
		id = strings.TrimSuffix(id, "_sample")
		out[id] = Candidate{
			Path:  filepath.Join(d.paths.RawDir, name),
			Excel: ext == ".xlsx",
		}
	}
	return out, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
