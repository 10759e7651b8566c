package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sitepulse/sitepulse/internal/contract"
	"github.com/sitepulse/sitepulse/internal/outwriter"
	"github.com/sitepulse/sitepulse/schema"
)

// exportCmd renders a stored report as a standalone file.
var exportCmd = &cobra.Command{
	Use:   "export [url]",
	Short: "Export a stored report as JSON, CSV or PDF.",
	Long: `Render a previously generated report as a standalone payload.

Exports never trigger report generation; the report must already be
stored. Formats:
- structured-json: the full report document, indented
- tabular-csv: flattened section-tagged rows
- portable-document: a printable PDF summary

Use this when:
- Feeding reports into spreadsheets or BI tooling
- Sharing a snapshot with someone without store access
- Archiving monthly results outside the database

Examples:
  # Export the current month's report for a URL
  sitepulse export https://example.com --format structured-json

  # Export a specific month as CSV
  sitepulse export https://example.com --period 2026-07 --format tabular-csv

  # Export one exact report by its ID
  sitepulse export --report-id 5f3c7d2e-... --format portable-document

  # Pick the destination file
  sitepulse export https://example.com --output-file report.json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		report, err := resolveExportReport()
		if err != nil {
			contract.LogFatal("Cannot load report", err)
		}

		payload, err := outwriter.ExportReport(report, cfg.Format)
		if err != nil {
			contract.LogFatal("Cannot export report", err)
		}

		outputFile := cfg.OutputFile
		if outputFile == "" {
			outputFile = fmt.Sprintf("seo-report-%s.%s", report.Period, outwriter.ExportFileExtension(cfg.Format))
		}
		if err := os.WriteFile(outputFile, payload, 0644); err != nil {
			contract.LogFatal("Cannot write export file", err)
		}
		fmt.Fprintf(os.Stderr, "💾 Exported report %s to %s\n", report.ID, outputFile)
	},
}

// resolveExportReport loads the report either by explicit ID or by the
// url+period pair.
func resolveExportReport() (*schema.Report, error) {
	store := storeManager.GetReportStore()

	if reportID := viper.GetString("report-id"); reportID != "" {
		return store.GetReportByID(rootCtx, reportID)
	}

	if cfg.URL == "" {
		return nil, fmt.Errorf("%w: url or --report-id is required", contract.ErrValidation)
	}
	return store.GetReport(rootCtx, cfg.URL, cfg.Period)
}
