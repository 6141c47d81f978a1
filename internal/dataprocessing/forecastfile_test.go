package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseForecastCSV(t *testing.T) {
	cutoff := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)

	t.Run("ReadsBoundsAndSource", func(t *testing.T) {
		path := writeTempCSV(t,
			"Date,value,lower_ci,upper_ci,source\n"+
				"2025-03-01,100,95,105,CRU - FORECAST\n"+
				"2025-04-01,102,96,108,CRU - FORECAST\n")

		segment, err := ParseForecastCSV(path, "cruspi", cutoff)
		require.NoError(t, err)

		assert.Equal(t, "cruspi", segment.IndicatorID)
		assert.Equal(t, "file", segment.Method)
		assert.Equal(t, "CRU - FORECAST", segment.Source)
		require.Len(t, segment.Points, 2)
		assert.Equal(t, 95.0, segment.Points[0].Lower)
		assert.Equal(t, 108.0, segment.Points[1].Upper)
	})

	t.Run("DropsRowsBeforeCutoffMonth", func(t *testing.T) {
		path := writeTempCSV(t,
			"Date,value,lower_ci,upper_ci\n"+
				"2025-01-01,90,85,95\n"+
				"2025-03-01,100,95,105\n"+
				"2025-05-01,104,97,111\n")

		segment, err := ParseForecastCSV(path, "cruspi", cutoff)
		require.NoError(t, err)

		// The cutoff mid-March still keeps March: filtering is by month.
		require.Len(t, segment.Points, 2)
		assert.Equal(t, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), segment.Points[0].Time)
	})

	t.Run("MissingBoundsFallBackToValue", func(t *testing.T) {
		path := writeTempCSV(t, "Date,value\n2025-04-01,102\n")

		segment, err := ParseForecastCSV(path, "cruspi", cutoff)
		require.NoError(t, err)
		require.Len(t, segment.Points, 1)
		assert.Equal(t, 102.0, segment.Points[0].Lower)
		assert.Equal(t, 102.0, segment.Points[0].Upper)
	})

	t.Run("AllRowsStaleReturnsErrNoRows", func(t *testing.T) {
		path := writeTempCSV(t, "Date,value\n2024-01-01,90\n")

		_, err := ParseForecastCSV(path, "cruspi", cutoff)
		assert.ErrorIs(t, err, ErrNoRows)
	})
}
