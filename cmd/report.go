package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/sitepulse/sitepulse/core"
	"github.com/sitepulse/sitepulse/internal/contract"
	"github.com/sitepulse/sitepulse/internal/outwriter"
)

// reportCmd generates a full report for one URL and period.
var reportCmd = &cobra.Command{
	Use:   "report <url>",
	Short: "Generate an SEO report for a URL.",
	Long: `Collect measurements for a URL and compile a full SEO report.

Runs the complete pipeline, helping you:
- Score the page across on-page, technical, content, UX and authority
- Track score direction and velocity against stored history
- Get prioritized recommendations for the weakest categories
- Project next month's score with best and worst cases
- Compare the overall score against the industry benchmark

Reports are persisted per URL and period, so re-running the same
combination returns the stored report instead of collecting again.

Examples:
  # Report on the current month
  sitepulse report https://example.com

  # Report on a specific month
  sitepulse report https://example.com --period 2026-07

  # Deterministic run without live fetches
  sitepulse report https://example.com --fixture

  # Export findings to CSV for tracking
  sitepulse report https://example.com --output csv --output-file report.csv`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		start := time.Now()
		report, _, err := core.ExecuteReport(rootCtx, cfg, metricCollector, storeManager)
		if err != nil {
			contract.LogFatal("Cannot generate report", err)
		}
		if err := outwriter.NewOutWriter().WriteReport(report, cfg, time.Since(start)); err != nil {
			contract.LogFatal("Cannot write report", err)
		}
	},
}
