package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/sitepulse/sitepulse/internal/contract"
	"github.com/sitepulse/sitepulse/schema"
)

// reportCSVHeader is the column layout for the flattened report form.
// Every row carries its section so the one file stays spreadsheet
// friendly without losing the report structure.
var reportCSVHeader = []string{"section", "item", "value", "note"}

// writeJSONReport writes one report in JSON format with its health label added.
func writeJSONReport(w io.Writer, report *schema.Report) error {
	// 1. Prepare the data structure for JSON with the label added
	type JSONReport struct {
		Label string `json:"label"`
		schema.Report
	}

	output := JSONReport{
		Label:  contract.GetPlainLabel(float64(report.OverallScore)),
		Report: *report,
	}

	// 2. Use the generic JSON writer
	return writeJSON(w, output)
}

// writeCSVReportRows writes one report as section-tagged CSV rows.
func writeCSVReportRows(w *csv.Writer, report *schema.Report, fmtFloat func(float64) string) error {
	overall := float64(report.OverallScore)

	// 1. Summary rows
	summary := [][]string{
		{"summary", "url", report.URL, ""},
		{"summary", "period", report.Period, ""},
		{"summary", "overall_score", fmt.Sprintf("%d", report.OverallScore), contract.GetPlainLabel(overall)},
		{"summary", "benchmark_delta", fmtFloat(report.BenchmarkDelta), ""},
		{"summary", "generated_at", report.GeneratedAt.Format(contract.DateTimeFormat), ""},
	}
	for _, row := range summary {
		if err := w.Write(row); err != nil {
			return err
		}
	}

	// 2. Category rows in report order
	for _, category := range schema.AllCategories {
		cs, ok := report.CategoryScores[category]
		if !ok {
			continue
		}
		row := []string{"category", string(category), fmtFloat(cs.Value), formatTopFactors(cs)}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	// 3. Issue rows
	for _, issue := range report.Issues {
		row := []string{"issue", issue.Type, string(issue.Severity), issue.Message}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	// 4. Recommendation rows
	for _, rec := range report.Recommendations {
		note := fmt.Sprintf("impact %s, effort %s", formatSigned(rec.EstimatedImpact, fmtFloat), rec.EstimatedEffort)
		row := []string{"recommendation", rec.Title, string(rec.Priority), note}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	// 5. Trend rows, only when the series was long enough to analyze
	if report.Trend.HasEnoughData {
		trendRows := [][]string{
			{"trend", "direction", string(report.Trend.Direction), ""},
			{"trend", "weekly_change", fmtFloat(report.Trend.WeeklyChange), ""},
			{"trend", "monthly_slope", fmtFloat(report.Trend.MonthlySlope), ""},
			{"trend", "velocity", fmtFloat(report.Trend.Velocity), ""},
			{"trend", "confidence", fmtFloat(report.Trend.Confidence), ""},
		}
		for _, row := range trendRows {
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	// 6. Forecast rows
	forecastRows := [][]string{
		{"forecast", "predicted_score", fmtFloat(report.Forecast.PredictedScore), report.Forecast.Timeframe},
		{"forecast", "confidence", fmtFloat(report.Forecast.Confidence), report.Forecast.Note},
		{"forecast", "best_case", fmtFloat(report.Forecast.BestCase), ""},
		{"forecast", "worst_case", fmtFloat(report.Forecast.WorstCase), ""},
	}
	for _, row := range forecastRows {
		if err := w.Write(row); err != nil {
			return err
		}
	}

	// 7. Competitor rows
	for _, comp := range report.Competitors {
		row := []string{"competitor", comp.Name, fmt.Sprintf("%d", comp.OverallScore), fmt.Sprintf("gap %+d", comp.Gap)}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}
