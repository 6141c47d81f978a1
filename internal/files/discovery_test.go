package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"indicli/internal/config"
)

func testPaths(t *testing.T) *config.Paths {
	t.Helper()
	base := t.TempDir()
	paths := &config.Paths{
		BaseDir:      base,
		DataDir:      filepath.Join(base, "data"),
		RawDir:       filepath.Join(base, "data", "raw"),
		ProcessedDir: filepath.Join(base, "data", "processed"),
		ForecastsDir: filepath.Join(base, "data", "forecasts"),
		ExportsDir:   filepath.Join(base, "data", "exports"),
		LogsDir:      filepath.Join(base, "logs"),
	}
	require.NoError(t, paths.EnsureDirectories())
	return paths
}

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("Date,value\n2025-01-01,1\n"), 0644))
}

func TestCandidates(t *testing.T) {
	t.Run("ProcessedMonthlyPreferred", func(t *testing.T) {
		paths := testPaths(t)
		d := NewDiscovery(paths)

		touch(t, filepath.Join(paths.RawDir, "wti_oil.csv"))
		touch(t, filepath.Join(paths.ProcessedDir, "wti_oil_monthly.csv"))

		candidates := d.Candidates("wti_oil")
		require.Len(t, candidates, 2)
		assert.Equal(t, filepath.Join(paths.ProcessedDir, "wti_oil_monthly.csv"), candidates[0].Path)
		assert.False(t, candidates[0].Excel)
	})

	t.Run("ExcelDetected", func(t *testing.T) {
		paths := testPaths(t)
		d := NewDiscovery(paths)

		touch(t, filepath.Join(paths.RawDir, "cruspi.xlsx"))

		candidates := d.Candidates("cruspi")
		require.Len(t, candidates, 1)
		assert.True(t, candidates[0].Excel)
	})

	t.Run("NoFilesMeansEmpty", func(t *testing.T) {
		d := NewDiscovery(testPaths(t))
		assert.Empty(t, d.Candidates("missing_indicator"))
	})
}

func TestForecastCandidates(t *testing.T) {
	paths := testPaths(t)
	d := NewDiscovery(paths)

	touch(t, filepath.Join(paths.ForecastsDir, "cruspi_forecast.csv"))
	touch(t, filepath.Join(paths.ForecastsDir, "cruspi.csv"))

	candidates := d.ForecastCandidates("cruspi")
	require.Len(t, candidates, 2)
	assert.Equal(t, filepath.Join(paths.ForecastsDir, "cruspi_forecast.csv"), candidates[0].Path)
}

func TestRawFiles(t *testing.T) {
	paths := testPaths(t)
	d := NewDiscovery(paths)

	touch(t, filepath.Join(paths.RawDir, "wti_oil.csv"))
	touch(t, filepath.Join(paths.RawDir, "cruspi_sample.csv"))
	touch(t, filepath.Join(paths.RawDir, "notes.txt"))
	require.NoError(t, os.Mkdir(filepath.Join(paths.RawDir, "archive"), 0755))

	raw, err := d.RawFiles()
	require.NoError(t, err)

	assert.Len(t, raw, 2)
	assert.Contains(t, raw, "wti_oil")
	// The _sample suffix is stripped so sample seeds map to their indicator.
	assert.Contains(t, raw, "cruspi")
}
