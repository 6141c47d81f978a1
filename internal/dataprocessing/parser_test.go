package dataprocessing

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "series.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParseCSVFile(t *testing.T) {
	t.Run("StandardHeader", func(t *testing.T) {
		path := writeTempCSV(t, "Date,value\n2025-01-01,100.5\n2025-02-01,101.25\n")

		result, err := ParseCSVFile(path, "test")
		require.NoError(t, err)

		assert.Equal(t, 2, result.Parsed)
		assert.Equal(t, 0, result.Skipped)
		require.Equal(t, 2, result.Series.Len())
		assert.Equal(t, 100.5, result.Series.Points[0].Value)
		assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), result.Series.Points[0].Time)
	})

	t.Run("ColumnOrderIrrelevant", func(t *testing.T) {
		path := writeTempCSV(t, "value,extra,Date\n100,x,2025-01-01\n")

		result, err := ParseCSVFile(path, "test")
		require.NoError(t, err)
		require.Equal(t, 1, result.Series.Len())
		assert.Equal(t, float64(100), result.Series.Points[0].Value)
	})

	t.Run("ThousandsSeparatorsStripped", func(t *testing.T) {
		path := writeTempCSV(t, "Date,value\n2025-01-01,\"1,234.5\"\n")

		result, err := ParseCSVFile(path, "test")
		require.NoError(t, err)
		assert.Equal(t, 1234.5, result.Series.Points[0].Value)
	})

	t.Run("MalformedRowsSkippedNotFatal", func(t *testing.T) {
		path := writeTempCSV(t,
			"Date,value\n"+
				"2025-01-01,100\n"+
				"not-a-date,200\n"+
				"2025-03-01,abc\n"+
				"2025-04-01,400\n")

		result, err := ParseCSVFile(path, "test")
		require.NoError(t, err)

		assert.Equal(t, 2, result.Parsed)
		assert.Equal(t, 2, result.Skipped)
		assert.Equal(t, float64(400), result.Series.Points[1].Value)
	})

	t.Run("NewestFirstGetsSorted", func(t *testing.T) {
		path := writeTempCSV(t, "Date,value\n2025-03-01,3\n2025-01-01,1\n2025-02-01,2\n")

		result, err := ParseCSVFile(path, "test")
		require.NoError(t, err)
		require.Equal(t, 3, result.Series.Len())
		assert.Equal(t, float64(1), result.Series.Points[0].Value)
		assert.Equal(t, float64(3), result.Series.Points[2].Value)
	})

	t.Run("DuplicateTimestampLastWins", func(t *testing.T) {
		path := writeTempCSV(t, "Date,value\n2025-01-01,1\n2025-01-01,9\n")

		result, err := ParseCSVFile(path, "test")
		require.NoError(t, err)
		require.Equal(t, 1, result.Series.Len())
		assert.Equal(t, float64(9), result.Series.Points[0].Value)
	})

	t.Run("BOMAndAlternateHeaderNames", func(t *testing.T) {
		path := writeTempCSV(t, "\uFEFFMonth,Index\n2025-01,150\n")

		result, err := ParseCSVFile(path, "test")
		require.NoError(t, err)
		require.Equal(t, 1, result.Series.Len())
		assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), result.Series.Points[0].Time)
	})

	t.Run("HeaderlessFile", func(t *testing.T) {
		path := writeTempCSV(t, "2025-01-01,100\n2025-02-01,110\n")

		result, err := ParseCSVFile(path, "test")
		require.NoError(t, err)
		assert.Equal(t, 2, result.Series.Len())
	})

	t.Run("AllRowsMalformedReturnsErrNoRows", func(t *testing.T) {
		path := writeTempCSV(t, "Date,value\nnope,abc\n")

		_, err := ParseCSVFile(path, "test")
		assert.ErrorIs(t, err, ErrNoRows)
	})

	t.Run("EmptyFileReturnsErrNoRows", func(t *testing.T) {
		path := writeTempCSV(t, "")

		_, err := ParseCSVFile(path, "test")
		assert.ErrorIs(t, err, ErrNoRows)
	})

	t.Run("MissingFileReturnsError", func(t *testing.T) {
		_, err := ParseCSVFile(filepath.Join(t.TempDir(), "absent.csv"), "test")
		assert.Error(t, err)
	})
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{in: "2025-06-15", want: time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)},
		{in: "2025-06", want: time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)},
		{in: "6/15/2025", want: time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)},
		{in: "Jun-25", want: time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)},
		{in: "June 2025", want: time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseDate(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := parseDate("gibberish")
	assert.Error(t, err)
}
