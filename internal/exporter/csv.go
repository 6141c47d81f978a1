package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"indicli/internal/config"
)

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	paths *config.Paths
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(paths *config.Paths) *CSVWriter {
	return &CSVWriter{paths: paths}
}

// WriteSimpleCSV writes a CSV file with headers and records, replacing any
// existing file. A UTF-8 BOM is prepended so Excel recognizes the encoding.
func (w *CSVWriter) WriteSimpleCSV(filePath string, headers []string, records [][]string) error {
	fullPath := w.resolvePath(filePath)

	slog.Debug("writing csv file",
		slog.String("file_path", filePath),
		slog.String("full_path", fullPath),
		slog.Int("record_count", len(records)))

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return RenderCSV(file, headers, records)
}

// RenderCSV streams headers and records as CSV to dst, prefixed with a
// UTF-8 BOM so Excel recognizes the encoding. Shared by the file writers
// and the HTTP download endpoints.
func RenderCSV(dst io.Writer, headers []string, records [][]string) error {
	if _, err := dst.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	writer := csv.NewWriter(dst)
	if len(headers) > 0 {
		if err := writer.Write(headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}
	for i, record := range records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// resolvePath resolves a relative path against the data tree. Processed,
// forecast and export files each have a home directory; everything else
// lands under exports.
func (w *CSVWriter) resolvePath(filePath string) string {
	if filepath.IsAbs(filePath) {
		return filePath
	}

	switch {
	case strings.HasPrefix(filePath, "processed/"):
		return w.paths.GetProcessedPath(strings.TrimPrefix(filePath, "processed/"))
	case strings.HasPrefix(filePath, "forecasts/"):
		return w.paths.GetForecastPath(strings.TrimPrefix(filePath, "forecasts/"))
	case strings.HasPrefix(filePath, "raw/"):
		return w.paths.GetRawPath(strings.TrimPrefix(filePath, "raw/"))
	default:
		return w.paths.GetExportPath(filePath)
	}
}
