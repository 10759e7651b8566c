package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/sitepulse/sitepulse/internal/contract"
	"github.com/sitepulse/sitepulse/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintReportResults outputs one compiled report, dispatching based on the output format configured.
func PrintReportResults(report *schema.Report, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, _ := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := printJSONReport(report, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printCSVReport(report, cfg, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable tables
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportTables(w, report, cfg, fmtFloat, duration)
		}, "Wrote report")
	}
	return nil
}

// printJSONReport handles opening the file and calling the JSON writer.
func printJSONReport(report *schema.Report, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONReport(w, report)
	}, "Wrote JSON report")
}

// printCSVReport handles opening the file and calling the CSV writer.
func printCSVReport(report *schema.Report, cfg *contract.Config, fmtFloat func(float64) string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeCSVWithHeader(w, reportCSVHeader, func(cw *csv.Writer) error {
			return writeCSVReportRows(cw, report, fmtFloat)
		})
	}, "Wrote CSV report")
}

// writeReportTables generates and writes the human-readable report view.
func writeReportTables(w io.Writer, report *schema.Report, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	// --- 1. Summary ---
	overall := float64(report.OverallScore)
	fmt.Fprintf(w, "%s\n", sectionHeading("📊", "SEO Report", cfg))
	fmt.Fprintf(w, "URL: %s\n", report.URL)
	fmt.Fprintf(w, "Period: %s (%s to %s)\n",
		report.Period,
		report.PeriodStart.Format("2006-01-02"),
		report.PeriodEnd.Format("2006-01-02"))
	fmt.Fprintf(w, "Overall: %d %s (benchmark delta %s)\n\n",
		report.OverallScore,
		scoreLabel(overall, cfg),
		formatSigned(report.BenchmarkDelta, fmtFloat))

	// --- 2. Category scores ---
	if err := writeCategoryTable(w, report, cfg, fmtFloat); err != nil {
		return err
	}

	// --- 3. Issues ---
	if err := writeIssueTable(w, report, cfg, fmtFloat); err != nil {
		return err
	}

	// --- 4. Recommendations ---
	if err := writeRecommendationTable(w, report, cfg, fmtFloat); err != nil {
		return err
	}

	// --- 5. Trend and forecast ---
	writeTrendSection(w, report, cfg, fmtFloat)
	writeForecastSection(w, report, cfg, fmtFloat)

	// --- 6. Narrative ---
	writeNarrativeSection(w, report, cfg)

	// --- 7. Competitors ---
	if err := writeCompetitorTable(w, report, cfg); err != nil {
		return err
	}

	fmt.Fprintf(w, "Report %s compiled in %v\n", report.ID, duration)
	return nil
}

// writeCategoryTable renders the five category scores with their top factors.
func writeCategoryTable(w io.Writer, report *schema.Report, cfg *contract.Config, fmtFloat func(float64) string) error {
	fmt.Fprintf(w, "%s\n", sectionHeading("🧭", "Category Scores", cfg))

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Category", "Score", "Label", "Top Factors"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, category := range schema.AllCategories {
		cs, ok := report.CategoryScores[category]
		if !ok {
			continue
		}
		row := []string{
			getDisplayNameForCategory(category),
			fmtFloat(cs.Value),
			scoreLabel(cs.Value, cfg),
			formatTopFactors(cs),
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	fmt.Fprintln(w)
	return nil
}

// writeIssueTable renders detected issues ordered by severity.
func writeIssueTable(w io.Writer, report *schema.Report, cfg *contract.Config, fmtFloat func(float64) string) error {
	fmt.Fprintf(w, "%s\n", sectionHeading("🚨", "Issues", cfg))
	if len(report.Issues) == 0 {
		fmt.Fprintf(w, "No issues detected.\n\n")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Severity", "Type", "Message", "Impact"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignLeft
	})

	var data [][]string
	for _, issue := range report.Issues {
		row := []string{
			severityLabel(issue.Severity, cfg),
			issue.Type,
			issue.Message,
			fmtFloat(issue.Impact),
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	fmt.Fprintln(w)
	return nil
}

// writeRecommendationTable renders prioritized recommendations.
func writeRecommendationTable(w io.Writer, report *schema.Report, cfg *contract.Config, fmtFloat func(float64) string) error {
	fmt.Fprintf(w, "%s\n", sectionHeading("🛠️", "Recommendations", cfg))
	if len(report.Recommendations) == 0 {
		fmt.Fprintf(w, "No recommendations.\n\n")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Priority", "Category", "Title", "Impact", "Effort"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignLeft
	})

	var data [][]string
	for _, rec := range report.Recommendations {
		row := []string{
			priorityLabel(rec.Priority, cfg),
			getDisplayNameForCategory(rec.Category),
			rec.Title,
			formatSigned(rec.EstimatedImpact, fmtFloat),
			string(rec.EstimatedEffort),
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	fmt.Fprintln(w)
	return nil
}

// writeTrendSection renders the score movement summary.
func writeTrendSection(w io.Writer, report *schema.Report, cfg *contract.Config, fmtFloat func(float64) string) {
	fmt.Fprintf(w, "%s\n", sectionHeading("📈", "Trend", cfg))
	trend := report.Trend
	if !trend.HasEnoughData {
		fmt.Fprintf(w, "Not enough history for trend analysis yet.\n\n")
		return
	}
	fmt.Fprintf(w, "Direction: %s (confidence %s)\n",
		formatTrendDirection(trend.Direction), fmtFloat(trend.Confidence))
	fmt.Fprintf(w, "Weekly change: %s  Monthly slope: %s  Velocity: %s  Acceleration: %s\n\n",
		formatSigned(trend.WeeklyChange, fmtFloat),
		formatSigned(trend.MonthlySlope, fmtFloat),
		formatSigned(trend.Velocity, fmtFloat),
		formatSigned(trend.Acceleration, fmtFloat))
}

// writeForecastSection renders the projected score range.
func writeForecastSection(w io.Writer, report *schema.Report, cfg *contract.Config, fmtFloat func(float64) string) {
	fmt.Fprintf(w, "%s\n", sectionHeading("🔮", "Forecast", cfg))
	forecast := report.Forecast
	fmt.Fprintf(w, "Predicted score in %s: %s (confidence %s)\n",
		forecast.Timeframe, fmtFloat(forecast.PredictedScore), fmtFloat(forecast.Confidence))
	fmt.Fprintf(w, "Range: %s best case, %s worst case\n",
		fmtFloat(forecast.BestCase), fmtFloat(forecast.WorstCase))
	if forecast.Note != "" {
		fmt.Fprintf(w, "Note: %s\n", forecast.Note)
	}
	fmt.Fprintln(w)
}

// writeNarrativeSection renders the SWOT prose and actionable insights.
func writeNarrativeSection(w io.Writer, report *schema.Report, cfg *contract.Config) {
	narrative := report.Narrative
	sections := []struct {
		emoji string
		title string
		lines []string
	}{
		{"💪", "Strengths", narrative.Strengths},
		{"🩹", "Weaknesses", narrative.Weaknesses},
		{"🌱", "Opportunities", narrative.Opportunities},
		{"⚡", "Threats", narrative.Threats},
		{"💡", "Insights", narrative.Insights},
	}
	for _, section := range sections {
		if len(section.lines) == 0 {
			continue
		}
		fmt.Fprintf(w, "%s\n", sectionHeading(section.emoji, section.title, cfg))
		for _, line := range section.lines {
			fmt.Fprintf(w, "  - %s\n", line)
		}
		fmt.Fprintln(w)
	}
}

// writeCompetitorTable renders the competitive position, if any
// competitor scores were supplied.
func writeCompetitorTable(w io.Writer, report *schema.Report, cfg *contract.Config) error {
	if len(report.Competitors) == 0 {
		return nil
	}
	fmt.Fprintf(w, "%s\n", sectionHeading("🏁", "Competitors", cfg))

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Name", "Score", "Gap"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, comp := range report.Competitors {
		gap := fmt.Sprintf("%+d", comp.Gap)
		row := []string{comp.Name, fmt.Sprintf("%d", comp.OverallScore), gap}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	fmt.Fprintln(w)
	return nil
}
