package outwriter

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/sitepulse/sitepulse/internal/contract"
	"github.com/sitepulse/sitepulse/schema"
)

// PDF layout constants, in millimeters on an A4 page.
const (
	pdfLineHeight    = 6.0
	pdfHeadingHeight = 9.0
	pdfContentWidth  = 190.0
)

// severityTextColor maps issue severities to their RGB ink.
var severityTextColor = map[schema.Severity][3]int{
	schema.CriticalSeverity: {192, 57, 43},
	schema.WarningSeverity:  {211, 84, 0},
	schema.InfoSeverity:     {41, 128, 185},
}

// exportPDFPayload renders the report as a portable document. The core
// fonts only cover Latin text, which is all the pipeline produces.
func exportPDFPayload(report *schema.Report) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("SEO Report "+report.URL, false)
	pdf.SetCreator("sitepulse", false)
	pdf.SetAutoPageBreak(true, 15)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	writePDFTitle(pdf, report)
	writePDFCategories(pdf, report)
	writePDFIssues(pdf, report)
	writePDFRecommendations(pdf, report)
	writePDFOutlook(pdf, report)
	writePDFNarrative(pdf, report)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// pdfSectionTitle writes a bold section heading with a little breathing room.
func pdfSectionTitle(pdf *fpdf.Fpdf, title string) {
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, pdfHeadingHeight, title, "", 1, "L", false, 0, "")
}

// writePDFTitle renders the report header and the overall verdict.
func writePDFTitle(pdf *fpdf.Fpdf, report *schema.Report) {
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, "SEO Report", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, pdfLineHeight, report.URL, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(0, 5, fmt.Sprintf("Period %s, generated %s",
		report.Period, report.GeneratedAt.Format("2006-01-02 15:04 MST")), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 15)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 10, fmt.Sprintf("Overall score: %d (%s)",
		report.OverallScore, contract.GetPlainLabel(float64(report.OverallScore))), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, pdfLineHeight, fmt.Sprintf("Benchmark delta: %+.1f against the industry average",
		report.BenchmarkDelta), "", 1, "L", false, 0, "")
}

// writePDFCategories renders the five category scores as a bordered table.
func writePDFCategories(pdf *fpdf.Fpdf, report *schema.Report) {
	pdfSectionTitle(pdf, "Category Scores")

	colWidths := []float64{70, 35, 35, 50}
	headers := []string{"Category", "Score", "Label", "Top Factors"}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, header := range headers {
		pdf.CellFormat(colWidths[i], 7, header, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, category := range schema.AllCategories {
		cs, ok := report.CategoryScores[category]
		if !ok {
			continue
		}
		pdf.CellFormat(colWidths[0], 7, getDisplayNameForCategory(category), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colWidths[1], 7, fmt.Sprintf("%.1f", cs.Value), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[2], 7, contract.GetPlainLabel(cs.Value), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colWidths[3], 7, formatTopFactors(cs), "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}
}

// writePDFIssues renders each detected issue with its remediation.
func writePDFIssues(pdf *fpdf.Fpdf, report *schema.Report) {
	pdfSectionTitle(pdf, "Issues")
	if len(report.Issues) == 0 {
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, pdfLineHeight, "No issues detected.", "", 1, "L", false, 0, "")
		return
	}

	for _, issue := range report.Issues {
		ink := severityTextColor[issue.Severity]
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetTextColor(ink[0], ink[1], ink[2])
		pdf.CellFormat(0, pdfLineHeight, fmt.Sprintf("%s  %s  (impact %.1f)",
			issue.Severity, issue.Type, issue.Impact), "", 1, "L", false, 0, "")

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(60, 60, 60)
		pdf.MultiCell(pdfContentWidth, 5, issue.Message+" "+issue.Remediation, "", "L", false)
		pdf.Ln(1)
	}
	pdf.SetTextColor(0, 0, 0)
}

// writePDFRecommendations renders the prioritized action list.
func writePDFRecommendations(pdf *fpdf.Fpdf, report *schema.Report) {
	pdfSectionTitle(pdf, "Recommendations")
	if len(report.Recommendations) == 0 {
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, pdfLineHeight, "No recommendations.", "", 1, "L", false, 0, "")
		return
	}

	for i, rec := range report.Recommendations {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetTextColor(0, 0, 0)
		pdf.CellFormat(0, pdfLineHeight, fmt.Sprintf("%d. %s", i+1, rec.Title), "", 1, "L", false, 0, "")

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(0, 5, fmt.Sprintf("%s priority, %s, impact %+.1f, effort %s",
			rec.Priority, getDisplayNameForCategory(rec.Category), rec.EstimatedImpact, rec.EstimatedEffort), "", 1, "L", false, 0, "")

		pdf.SetTextColor(60, 60, 60)
		pdf.MultiCell(pdfContentWidth, 5, rec.Description, "", "L", false)
		pdf.Ln(1)
	}
	pdf.SetTextColor(0, 0, 0)
}

// writePDFOutlook renders the trend and forecast summary lines.
func writePDFOutlook(pdf *fpdf.Fpdf, report *schema.Report) {
	pdfSectionTitle(pdf, "Outlook")
	pdf.SetFont("Helvetica", "", 10)

	if report.Trend.HasEnoughData {
		pdf.CellFormat(0, pdfLineHeight, fmt.Sprintf("Trend: %s, velocity %+.1f points per month (confidence %.2f)",
			report.Trend.Direction, report.Trend.Velocity, report.Trend.Confidence), "", 1, "L", false, 0, "")
	} else {
		pdf.CellFormat(0, pdfLineHeight, "Trend: not enough history yet.", "", 1, "L", false, 0, "")
	}

	forecast := report.Forecast
	pdf.CellFormat(0, pdfLineHeight, fmt.Sprintf("Forecast (%s): %.1f predicted, %.1f best case, %.1f worst case",
		forecast.Timeframe, forecast.PredictedScore, forecast.BestCase, forecast.WorstCase), "", 1, "L", false, 0, "")
	if forecast.Note != "" {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(0, 5, forecast.Note, "", 1, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}
}

// writePDFNarrative renders the SWOT prose and insights as bullet lists.
func writePDFNarrative(pdf *fpdf.Fpdf, report *schema.Report) {
	narrative := report.Narrative
	sections := []struct {
		title string
		lines []string
	}{
		{"Strengths", narrative.Strengths},
		{"Weaknesses", narrative.Weaknesses},
		{"Opportunities", narrative.Opportunities},
		{"Threats", narrative.Threats},
		{"Insights", narrative.Insights},
	}
	for _, section := range sections {
		if len(section.lines) == 0 {
			continue
		}
		pdfSectionTitle(pdf, section.title)
		pdf.SetFont("Helvetica", "", 10)
		for _, line := range section.lines {
			pdf.MultiCell(pdfContentWidth, 5, "- "+line, "", "L", false)
		}
	}
}
