package services

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"indicli/internal/config"
	"indicli/internal/files"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testTree(t *testing.T) (*config.Paths, *files.Discovery) {
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
	return paths, files.NewDiscovery(paths)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func newTestIndicatorService(t *testing.T) (*IndicatorService, *config.Paths) {
	paths, discovery := testTree(t)
	svc := NewIndicatorService(discovery, config.Default().Analysis, testLogger(), nil)
	svc.now = func() time.Time {
		return time.Date(2025, time.August, 15, 0, 0, 0, 0, time.UTC)
	}
	return svc, paths
}

func TestIndicatorServiceGet(t *testing.T) {
	ctx := context.Background()

	t.Run("LoadsFromProcessedFile", func(t *testing.T) {
		svc, paths := newTestIndicatorService(t)
		writeFile(t, filepath.Join(paths.ProcessedDir, "wti_oil_monthly.csv"),
			"Date,value\n2025-01-01,75.5\n2025-02-01,78.25\n")

		ind, err := svc.Get(ctx, "wti_oil")
		require.NoError(t, err)

		assert.False(t, ind.Synthetic)
		assert.Equal(t, "Data from file: wti_oil_monthly.csv", ind.DataSource)
		assert.Equal(t, 2, ind.Series.Len())
		assert.Equal(t, "WTI Crude Oil Price", ind.Source)
	})

	t.Run("FallsBackToSampleData", func(t *testing.T) {
		svc, _ := newTestIndicatorService(t)

		ind, err := svc.Get(ctx, "cruspi")
		require.NoError(t, err)

		assert.True(t, ind.Synthetic)
		assert.Contains(t, ind.DataSource, "Sample data")
		assert.Equal(t, config.Default().Analysis.SampleMonths, ind.Series.Len())
	})

	t.Run("SampleFallbackIsDeterministic", func(t *testing.T) {
		a, _ := newTestIndicatorService(t)
		b, _ := newTestIndicatorService(t)

		indA, err := a.Get(ctx, "cruspi")
		require.NoError(t, err)
		indB, err := b.Get(ctx, "cruspi")
		require.NoError(t, err)

		require.Equal(t, indA.Series.Len(), indB.Series.Len())
		for i := range indA.Series.Points {
			assert.Equal(t, indA.Series.Points[i].Value, indB.Series.Points[i].Value)
		}
	})

	t.Run("UnknownIDRejected", func(t *testing.T) {
		svc, _ := newTestIndicatorService(t)

		_, err := svc.Get(ctx, "no_such_indicator")
		assert.ErrorIs(t, err, ErrIndicatorNotFound)
	})

	t.Run("CorruptFileFallsThroughToNextCandidate", func(t *testing.T) {
		svc, paths := newTestIndicatorService(t)
		writeFile(t, filepath.Join(paths.ProcessedDir, "wti_oil_monthly.csv"), "garbage\nwithout,any,dates\n")
		writeFile(t, filepath.Join(paths.RawDir, "wti_oil.csv"), "Date,value\n2025-01-01,75\n")

		ind, err := svc.Get(ctx, "wti_oil")
		require.NoError(t, err)
		assert.False(t, ind.Synthetic)
		assert.Equal(t, "Data from file: wti_oil.csv", ind.DataSource)
	})

	t.Run("CachesLoadedIndicator", func(t *testing.T) {
		svc, paths := newTestIndicatorService(t)
		path := filepath.Join(paths.ProcessedDir, "wti_oil_monthly.csv")
		writeFile(t, path, "Date,value\n2025-01-01,75\n")

		first, err := svc.Get(ctx, "wti_oil")
		require.NoError(t, err)

		// Changing the file must not affect the cached copy.
		writeFile(t, path, "Date,value\n2025-01-01,99\n")
		second, err := svc.Get(ctx, "wti_oil")
		require.NoError(t, err)
		assert.Same(t, first, second)

		// Invalidation forces a reload.
		svc.Invalidate("wti_oil")
		third, err := svc.Get(ctx, "wti_oil")
		require.NoError(t, err)
		assert.Equal(t, float64(99), third.Series.Points[0].Value)
	})
}

func TestIndicatorServiceGetPeriod(t *testing.T) {
	ctx := context.Background()
	svc, paths := newTestIndicatorService(t)

	var content string
	content = "Date,value\n"
	start := time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 30; i++ {
		content += start.AddDate(0, i, 0).Format("2006-01-02") + ",100\n"
	}
	writeFile(t, filepath.Join(paths.ProcessedDir, "wti_oil_monthly.csv"), content)

	full, err := svc.GetPeriod(ctx, "wti_oil", 0)
	require.NoError(t, err)
	assert.Equal(t, 30, full.Series.Len())

	windowed, err := svc.GetPeriod(ctx, "wti_oil", 12)
	require.NoError(t, err)
	assert.LessOrEqual(t, windowed.Series.Len(), 13)
	assert.Greater(t, windowed.Series.Len(), 0)

	// Window views must not shrink the cached series.
	again, err := svc.GetPeriod(ctx, "wti_oil", 0)
	require.NoError(t, err)
	assert.Equal(t, 30, again.Series.Len())
}

func TestIndicatorServiceAll(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestIndicatorService(t)

	all := svc.All(ctx)
	assert.Len(t, all, len(config.CatalogIDs()))
	for _, ind := range all {
		assert.True(t, ind.Synthetic, ind.ID)
		assert.False(t, ind.Empty(), ind.ID)
	}
}
