package cmd

import (
	"github.com/spf13/cobra"

	"github.com/sitepulse/sitepulse/internal/contract"
	"github.com/sitepulse/sitepulse/internal/outwriter"
)

// historyCmd shows a URL's stored score series.
var historyCmd = &cobra.Command{
	Use:   "history <url>",
	Short: "Show the stored score history for a URL.",
	Long: `Display the persisted score series for a URL, oldest first.

Displays:
- Overall score per period with direction markers
- Issue and fix counts per period
- Traffic estimates where the provider reported them

Use this when:
- Checking how a site has trended before generating a new report
- Auditing which periods have stored data
- Exporting the raw series for offline analysis

Examples:
  # Last 12 points as a table
  sitepulse history https://example.com

  # Shorter window
  sitepulse history https://example.com --points 4

  # Machine-readable series
  sitepulse history https://example.com --output json

  # Columnar archive for analytics tooling
  sitepulse history https://example.com --output parquet --output-file history.parquet`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		points, err := storeManager.GetHistoryStore().GetHistory(rootCtx, cfg.URL, cfg.HistoryPoints)
		if err != nil {
			contract.LogFatal("Cannot load history", err)
		}
		if err := outwriter.NewOutWriter().WriteHistory(cfg.URL, points, cfg); err != nil {
			contract.LogFatal("Cannot write history", err)
		}
	},
}
