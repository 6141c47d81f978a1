package dataprocessing

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ParseExcelFile reads an indicator time-series from an Excel workbook.
// The sheet holding the data is located by name first, then by scanning
// for a sheet whose header carries date and value columns.
func ParseExcelFile(filePath, seriesName string) (*ParseResult, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	var rows [][]string
	var sheetFound bool
	var sheetName string

	possibleNames := []string{"Data", "data", "Monthly", "monthly", "Series", "Sheet1"}

	for _, name := range possibleNames {
		if testRows, testErr := f.GetRows(name); testErr == nil && len(testRows) > 0 {
			rows = testRows
			sheetFound = true
			sheetName = name
			break
		}
	}

	// None of the common names matched; scan every sheet for one whose
	// header looks like a time series.
	if !sheetFound {
		for _, name := range f.GetSheetList() {
			testRows, testErr := f.GetRows(name)
			if testErr != nil || len(testRows) < 2 {
				continue
			}
			limit := len(testRows)
			if limit > 4 {
				limit = 4
			}
			for _, row := range testRows[:limit] {
				rowText := strings.ToLower(strings.Join(row, " "))
				if (strings.Contains(rowText, "date") || strings.Contains(rowText, "month") || strings.Contains(rowText, "period")) &&
					(strings.Contains(rowText, "value") || strings.Contains(rowText, "index") || strings.Contains(rowText, "price")) {
					rows = testRows
					sheetFound = true
					sheetName = name
					break
				}
			}
			if sheetFound {
				break
			}
		}
	}

	if !sheetFound {
		return nil, fmt.Errorf("could not find time-series sheet in %s", filePath)
	}

	slog.Debug("found time series in sheet",
		slog.String("file", filePath),
		slog.String("sheet_name", sheetName),
		slog.Int("total_rows", len(rows)))

	return parseRows(rows, filePath, seriesName)
}
