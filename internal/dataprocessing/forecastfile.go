package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"indicli/pkg/contracts/domain"
)

// ParseForecastCSV reads a precomputed forecast file with confidence bound
// columns. Rows at or before the cutoff are dropped so stale forecast files
// only contribute their still-future points. Missing bound columns fall
// back to the projected value.
func ParseForecastCSV(filePath, indicatorID string, cutoff time.Time) (domain.ForecastSegment, error) {
	segment := domain.ForecastSegment{
		IndicatorID: indicatorID,
		Method:      "file",
	}

	f, err := os.Open(filePath)
	if err != nil {
		return segment, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return segment, fmt.Errorf("failed to read csv: %w", err)
	}
	if len(rows) == 0 {
		return segment, ErrNoRows
	}
	if len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\uFEFF")
	}

	header := -1
	columnMap := make(map[string]int)
	for i, row := range rows {
		m := forecastColumns(row)
		if m != nil {
			header = i
			columnMap = m
			break
		}
	}
	if header == -1 {
		return segment, fmt.Errorf("could not find forecast header in %s", filePath)
	}

	lowerCol, hasLower := columnMap["lower"]
	upperCol, hasUpper := columnMap["upper"]
	sourceCol, hasSource := columnMap["source"]

	cutoffMonth := time.Date(cutoff.Year(), cutoff.Month(), 1, 0, 0, 0, 0, time.UTC)

	for i := header + 1; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}
		if len(row) <= columnMap["date"] || len(row) <= columnMap["value"] {
			continue
		}

		t, err := parseDate(row[columnMap["date"]])
		if err != nil {
			slog.Warn("skipping forecast row with unparseable date",
				slog.String("file", filePath),
				slog.Int("row", i))
			continue
		}
		if t.Before(cutoffMonth) {
			continue
		}

		value, err := parseFloat(row[columnMap["value"]])
		if err != nil {
			slog.Warn("skipping forecast row with unparseable value",
				slog.String("file", filePath),
				slog.Int("row", i))
			continue
		}

		point := domain.ForecastPoint{Time: t, Value: value, Lower: value, Upper: value}
		if hasLower && lowerCol < len(row) {
			if v, err := parseFloat(row[lowerCol]); err == nil {
				point.Lower = v
			}
		}
		if hasUpper && upperCol < len(row) {
			if v, err := parseFloat(row[upperCol]); err == nil {
				point.Upper = v
			}
		}
		if hasSource && sourceCol < len(row) && segment.Source == "" {
			segment.Source = strings.TrimSpace(row[sourceCol])
		}

		segment.Points = append(segment.Points, point)
	}

	if len(segment.Points) == 0 {
		return segment, ErrNoRows
	}

	sort.Slice(segment.Points, func(a, b int) bool {
		return segment.Points[a].Time.Before(segment.Points[b].Time)
	})

	return segment, nil
}

func forecastColumns(row []string) map[string]int {
	if len(row) < 2 {
		return nil
	}
	columnMap := make(map[string]int)
	for j, header := range row {
		headerLower := strings.ToLower(strings.TrimSpace(header))
		switch headerLower {
		case "date", "month", "period":
			columnMap["date"] = j
		case "value", "forecast":
			columnMap["value"] = j
		case "lower_ci", "lower":
			columnMap["lower"] = j
		case "upper_ci", "upper":
			columnMap["upper"] = j
		case "source":
			columnMap["source"] = j
		}
	}
	if _, ok := columnMap["date"]; !ok {
		return nil
	}
	if _, ok := columnMap["value"]; !ok {
		return nil
	}
	return columnMap
}
