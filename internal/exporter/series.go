package exporter

import (
	"math"
	"strconv"

	"indicli/internal/dataprocessing"
	"indicli/pkg/contracts/domain"
)

// dateLayout is the column format shared by every exported CSV so files
// round-trip through the parser.
const dateLayout = "2006-01-02"

// IndicatorRecords renders a processed monthly series for one indicator,
// including derived change columns, as CSV headers and records.
func IndicatorRecords(indicator *domain.Indicator) ([]string, [][]string) {
	headers := []string{"Date", "value", "monthly_change", "yoy_change", "source", "unit", "preferred_direction"}

	var records [][]string
	points := indicator.Series.Points
	for i, p := range points {
		record := []string{
			p.Time.Format(dateLayout),
			formatFloat(p.Value),
			pctChangeCell(points, i, 1),
			pctChangeCell(points, i, 12),
			indicator.Source,
			indicator.Unit,
			string(indicator.PreferredDirection),
		}
		records = append(records, record)
	}

	return headers, records
}

// WriteIndicatorCSV writes a processed monthly series for one indicator.
// The file lands under processed/ as <id>_monthly.csv.
func (w *CSVWriter) WriteIndicatorCSV(indicator *domain.Indicator) error {
	headers, records := IndicatorRecords(indicator)
	return w.WriteSimpleCSV("processed/"+indicator.ID+"_monthly.csv", headers, records)
}

// WriteForecastCSV writes a forecast segment with confidence bounds.
// The file lands under forecasts/ as <id>_forecast.csv.
func (w *CSVWriter) WriteForecastCSV(segment domain.ForecastSegment) error {
	headers := []string{"Date", "value", "lower_ci", "upper_ci", "indicator_id", "source"}

	var records [][]string
	for _, p := range segment.Points {
		records = append(records, []string{
			p.Time.Format(dateLayout),
			formatFloat(p.Value),
			formatFloat(p.Lower),
			formatFloat(p.Upper),
			segment.IndicatorID,
			segment.Source,
		})
	}

	return w.WriteSimpleCSV("forecasts/"+segment.IndicatorID+"_forecast.csv", headers, records)
}

// CorrelationRecords renders the correlation matrix as a labelled grid.
// Undefined coefficients become empty cells.
func CorrelationRecords(matrix *domain.CorrelationMatrix) ([]string, [][]string) {
	headers := append([]string{"indicator"}, matrix.Order...)

	var records [][]string
	for i, id := range matrix.Order {
		record := make([]string, 0, len(matrix.Order)+1)
		record = append(record, id)
		for j := range matrix.Order {
			c := matrix.Coeffs[i][j]
			if math.IsNaN(c) {
				record = append(record, "")
			} else {
				record = append(record, strconv.FormatFloat(c, 'f', 4, 64))
			}
		}
		records = append(records, record)
	}

	return headers, records
}

// WriteCorrelationCSV writes the correlation matrix grid to a file.
func (w *CSVWriter) WriteCorrelationCSV(fileName string, matrix *domain.CorrelationMatrix) error {
	headers, records := CorrelationRecords(matrix)
	return w.WriteSimpleCSV(fileName, headers, records)
}

// WriteSummaryCSV writes the dashboard summary table for all indicators.
func (w *CSVWriter) WriteSummaryCSV(fileName string, summaries []dataprocessing.Summary) error {
	headers := []string{"indicator_id", "name", "current_value", "monthly_change", "yoy_change", "trend", "impact", "last_updated", "data_source"}

	var records [][]string
	for _, s := range summaries {
		records = append(records, []string{
			s.IndicatorID,
			s.Name,
			formatFloat(s.CurrentValue),
			optionalFloat(s.MonthlyChange),
			optionalFloat(s.YoYChange),
			string(s.Trend),
			string(s.Impact),
			s.LastUpdated.Format(dateLayout),
			s.DataSource,
		})
	}

	return w.WriteSimpleCSV(fileName, headers, records)
}

func pctChangeCell(points []domain.Observation, i, lag int) string {
	if i < lag {
		return ""
	}
	prev := points[i-lag].Value
	if prev == 0 {
		return ""
	}
	return formatFloat((points[i].Value - prev) / prev * 100)
}

func optionalFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

// formatFloat keeps exported values readable without losing precision on
// small index movements.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
