// Package cmd defines the command-line interface for sitepulse.
package cmd

import (
	"github.com/sitepulse/sitepulse/internal/contract"
	"github.com/sitepulse/sitepulse/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(jobsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the schedule subcommands to the parent schedule command
	scheduleCmd.AddCommand(scheduleAddCmd)
	scheduleCmd.AddCommand(scheduleListCmd)

	// Add the store subcommands to the parent store command
	storeCmd.AddCommand(storeStatusCmd)
	storeCmd.AddCommand(storeClearCmd)
	storeCmd.AddCommand(storeMigrateCmd)
	storeCmd.AddCommand(storeExportCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringP("period", "p", "current", "Reporting period: YYYY-MM or current or previous")
	rootCmd.PersistentFlags().Int("points", contract.DefaultHistoryPoints, "Number of history points for trend analysis")
	rootCmd.PersistentFlags().IntP("workers", "w", contract.DefaultMaxWorkers, "Number of concurrent report workers")
	rootCmd.PersistentFlags().Int("queue-size", 0, "Pending job queue capacity (0 = auto)")
	rootCmd.PersistentFlags().String("timeout", "", "Collector timeout as time duration (e.g., '30 seconds')")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().StringP("output", "o", string(schema.TableOut), "Output format: table or csv or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("backend", string(schema.SQLiteBackend), "Persistence backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("emoji", "yes", "Enable emojis in section headers (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("preset", string(schema.DefaultPreset), "Tuning preset: default or quick or thorough (adjusts points and timeout)")
	rootCmd.PersistentFlags().Bool("fixture", false, "Use the deterministic built-in collector instead of live fetches")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of exportCmd to Viper
	exportCmd.Flags().StringP("format", "f", string(schema.JSONExport), "Export format: structured-json or tabular-csv or portable-document")
	exportCmd.Flags().String("report-id", "", "Export a specific report by ID instead of url and period")
	if err := viper.BindPFlags(exportCmd.Flags()); err != nil {
		contract.LogFatal("Error binding export flags", err)
	}

	// Bind all flags of serveCmd to Viper
	serveCmd.Flags().String("host", "", "Host interface to bind (empty = all interfaces)")
	serveCmd.Flags().Int("port", contract.DefaultServerPort, "HTTP port to listen on")
	serveCmd.Flags().String("log-level", "info", "Log level: debug or info or warn or error")
	serveCmd.Flags().Bool("log-json", false, "Emit logs as JSON")
	serveCmd.Flags().String("log-file", "", "Optional path to write logs to")
	if err := viper.BindPFlags(serveCmd.Flags()); err != nil {
		contract.LogFatal("Error binding serve flags", err)
	}

	// Bind all flags of scheduleAddCmd to Viper
	scheduleAddCmd.Flags().String("cadence", "", "Delivery cadence: daily or weekly or monthly")
	scheduleAddCmd.Flags().String("recipients", "", "Comma-separated recipient emails")
	if err := viper.BindPFlags(scheduleAddCmd.Flags()); err != nil {
		contract.LogFatal("Error binding schedule add flags", err)
	}

	// Bind all flags of storeMigrateCmd to Viper
	storeMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(storeMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding store migrate flags", err)
	}
}
