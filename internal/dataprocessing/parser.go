package dataprocessing

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"indicli/pkg/contracts/domain"
)

// ErrNoRows is returned when a file parses but yields zero usable observations.
var ErrNoRows = errors.New("no usable observations in file")

// ParseResult carries a parsed series together with row accounting.
type ParseResult struct {
	Series  *domain.Series
	Parsed  int
	Skipped int
}

// dateLayouts are tried in order when parsing the date column.
// Monthly data commonly arrives as "2006-01" or "Jan-06" depending on
// which upstream exported it.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01",
	"01/02/2006",
	"1/2/2006",
	"2006/01/02",
	"Jan-06",
	"Jan 2006",
	"January 2006",
	"02-Jan-2006",
}

// ParseCSVFile reads an indicator time-series CSV and extracts observations.
// The header row is located dynamically so column order does not matter;
// rows that fail to parse are skipped and logged rather than failing the file.
func ParseCSVFile(filePath, seriesName string) (*ParseResult, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	return parseCSV(f, filePath, seriesName)
}

func parseCSV(r io.Reader, filePath, seriesName string) (*ParseResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNoRows
	}

	// Strip a UTF-8 BOM from the first cell if present.
	if len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\uFEFF")
	}

	return parseRows(rows, filePath, seriesName)
}

// parseRows converts raw cell rows into a sorted series. Shared between the
// CSV and Excel readers.
func parseRows(rows [][]string, filePath, seriesName string) (*ParseResult, error) {
	dataStart, columnMap, ok := findHeader(rows)
	if !ok {
		return nil, fmt.Errorf("could not find header row with date and value columns in %s", filePath)
	}

	dateCol := columnMap["date"]
	valueCol := columnMap["value"]

	type rawPoint struct {
		t time.Time
		v float64
	}
	points := make([]rawPoint, 0, len(rows)-dataStart)
	skipped := 0

	for i := dataStart; i < len(rows); i++ {
		row := rows[i]

		if isEmptyRow(row) {
			continue
		}
		if len(row) <= dateCol || len(row) <= valueCol {
			skipped++
			slog.Warn("skipping row with insufficient columns",
				slog.String("file", filePath),
				slog.Int("row", i),
				slog.Int("got", len(row)))
			continue
		}

		t, err := parseDate(row[dateCol])
		if err != nil {
			skipped++
			slog.Warn("skipping row with unparseable date",
				slog.String("file", filePath),
				slog.Int("row", i),
				slog.String("date", row[dateCol]))
			continue
		}

		v, err := parseFloat(row[valueCol])
		if err != nil {
			skipped++
			slog.Warn("skipping row with unparseable value",
				slog.String("file", filePath),
				slog.Int("row", i),
				slog.String("value", row[valueCol]))
			continue
		}

		points = append(points, rawPoint{t: t, v: v})
	}

	if len(points) == 0 {
		return nil, ErrNoRows
	}

	// Sort chronologically; files exported from spreadsheets are sometimes
	// newest-first. On duplicate timestamps the later row wins.
	sort.SliceStable(points, func(a, b int) bool {
		return points[a].t.Before(points[b].t)
	})

	series := domain.NewSeries(seriesName)
	for _, p := range points {
		if !series.AppendPoint(domain.Observation{Time: p.t, Value: p.v}) {
			// Duplicate timestamp: replace the earlier observation.
			series.Points[len(series.Points)-1] = domain.Observation{Time: p.t, Value: p.v}
		}
	}

	return &ParseResult{
		Series:  series,
		Parsed:  series.Len(),
		Skipped: skipped,
	}, nil
}

// findHeader locates the header row and maps the date and value column
// positions, returning the index of the first data row. Column names vary
// across data vendors, so detection is done on lowercase names.
func findHeader(rows [][]string) (int, map[string]int, bool) {
	for i, row := range rows {
		if len(row) < 2 {
			continue
		}

		columnMap := make(map[string]int)
		for j, header := range row {
			headerLower := strings.ToLower(strings.TrimSpace(header))
			switch {
			case headerLower == "date" || headerLower == "month" || headerLower == "period" || headerLower == "time":
				if _, exists := columnMap["date"]; !exists {
					columnMap["date"] = j
				}
			case headerLower == "value" || headerLower == "close" || headerLower == "index" || headerLower == "price" || headerLower == "level":
				if _, exists := columnMap["value"]; !exists {
					columnMap["value"] = j
				}
			}
		}

		_, hasDate := columnMap["date"]
		_, hasValue := columnMap["value"]
		if hasDate && hasValue {
			return i + 1, columnMap, true
		}
	}

	// No labelled header. If the first row already parses as data, assume
	// column 0 is the date and column 1 the value.
	if len(rows) > 0 && len(rows[0]) >= 2 {
		if _, err := parseDate(rows[0][0]); err == nil {
			if _, err := parseFloat(rows[0][1]); err == nil {
				return 0, map[string]int{"date": 0, "value": 1}, true
			}
		}
	}
	return 0, nil, false
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// parseDate tries each supported layout in turn.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %q", s)
}

// parseFloat parses a numeric cell, tolerating thousands separators and
// surrounding whitespace.
func parseFloat(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return v, nil
}
