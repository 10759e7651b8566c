package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/sitepulse/sitepulse/internal/contract"
	"github.com/sitepulse/sitepulse/internal/parquet"
	"github.com/sitepulse/sitepulse/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintHistoryResults outputs a URL's score series, dispatching based on the output format configured.
func PrintHistoryResults(url string, points []schema.HistoricalPoint, cfg *contract.Config) error {
	// Create formatters using helper
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := printJSONHistory(url, points, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printCSVHistory(url, points, cfg, fmtFloat, intFmt); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := printParquetHistory(url, points, cfg); err != nil {
			return fmt.Errorf("error writing parquet output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeHistoryTable(w, url, points, cfg, fmtFloat, intFmt)
		}, "Wrote history table")
	}
	return nil
}

// printJSONHistory handles opening the file and calling the JSON writer.
func printJSONHistory(url string, points []schema.HistoricalPoint, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONHistory(w, url, points)
	}, "Wrote JSON history")
}

// printCSVHistory handles opening the file and calling the CSV writer.
func printCSVHistory(url string, points []schema.HistoricalPoint, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeCSVWithHeader(w, historyCSVHeader, func(cw *csv.Writer) error {
			return writeCSVHistoryRows(cw, points, fmtFloat, intFmt)
		})
	}, "Wrote CSV history")
}

// printParquetHistory converts the series into parquet rows and writes
// them to a file. Parquet has no stdout form, so an unset output file
// falls back to a fixed name in the working directory.
func printParquetHistory(url string, points []schema.HistoricalPoint, cfg *contract.Config) error {
	outputFile := cfg.OutputFile
	if outputFile == "" {
		outputFile = "history.parquet"
	}

	rows := make([]parquet.HistoryRow, len(points))
	for i, point := range points {
		rows[i] = parquet.HistoryRow{
			URL:             url,
			Date:            point.Date,
			OverallScore:    point.OverallScore,
			IssueCount:      int32(point.IssueCount),
			FixCount:        int32(point.FixCount),
			TrafficEstimate: int32(point.TrafficEstimate),
		}
	}

	if err := parquet.WriteHistoryParquet(rows, outputFile); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote parquet history to %s\n", outputFile)
	return nil
}

// writeHistoryTable generates and writes the human-readable series view.
func writeHistoryTable(w io.Writer, url string, points []schema.HistoricalPoint, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	fmt.Fprintf(w, "%s\n", sectionHeading("🗓️", "Score History", cfg))
	fmt.Fprintf(w, "URL: %s\n", contract.TruncateURL(url, GetMaxTableURLWidth(cfg)))

	if len(points) == 0 {
		fmt.Fprintf(w, "No history recorded yet.\n")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Date", "Score", "Label", "Issues", "Fixes", "Traffic"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, point := range points {
		row := []string{
			point.Date.Format("2006-01-02"),
			fmtFloat(point.OverallScore),
			scoreLabel(point.OverallScore, cfg),
			fmt.Sprintf(intFmt, point.IssueCount),
			fmt.Sprintf(intFmt, point.FixCount),
			fmt.Sprintf(intFmt, point.TrafficEstimate),
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	// Compute summary stats
	latest := points[len(points)-1]
	first := points[0]
	if _, err := fmt.Fprintf(w, "Showing %d points (latest score: %s, change since %s: %s)\n",
		len(points),
		fmtFloat(latest.OverallScore),
		first.Date.Format("2006-01-02"),
		formatSigned(latest.OverallScore-first.OverallScore, fmtFloat)); err != nil {
		return err
	}
	return nil
}
