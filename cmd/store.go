package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sitepulse/sitepulse/internal/contract"
	"github.com/sitepulse/sitepulse/internal/iostore"
	"github.com/sitepulse/sitepulse/schema"
)

// storeSetup loads minimal configuration needed for store operations.
// This is used by commands that need store access without full shared setup.
func storeSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get store-related config values
	backend := schema.DatabaseBackend(viper.GetString("backend"))
	connStr := viper.GetString("db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// Initialize persistence with the loaded config
	if err := iostore.InitStores(backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize persistence: %w", err)
	}

	cfg.Backend = backend
	cfg.DBConnect = connStr
	storeManager = iostore.Manager

	return nil
}

// storeSetupWrapper wraps storeSetup to provide PreRunE for store commands.
func storeSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeSetup()
}

// storeCmd focused on report store management.
//
// Note: Store subcommands use minimal initialization (storeSetup) instead of
// the full sharedSetup used by report commands. This avoids URL and period
// processing for simple store operations.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage report persistence (reports, history, schedules)",
	Long: `Manage the store that holds reports, score history and schedules.

Reports are persisted per URL and period so repeated runs reuse stored
results, and history accumulates one point per period for trend analysis.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show store statistics and connection info
  clear   - Remove all persisted report data
  migrate - Run schema migrations
  export  - Dump all stored data as JSON

Examples:
  # Check store status
  sitepulse store status

  # Clear the store before re-seeding
  sitepulse store clear`,
}

// storeStatusCmd shows store status.
var storeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display store statistics and connection details",
	Long: `Show detailed information about the report store.

Displays:
- Backend type and connection status
- Total reports, history points and schedules
- Last and oldest report timestamps
- Database size per table

Use this to:
- Verify persistence is working and connected
- Monitor store growth over time
- Check when the last report was generated
- Debug store-related issues

Examples:
  # Check store status
  sitepulse store status`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := storeManager.GetReportStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
		iostore.PrintStoreStatus(status)
	},
}

// storeClearCmd clears the store.
var storeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all persisted reports, history and schedules",
	Long: `Delete all persisted report data from the configured backend.

Use this when:
- Starting a fresh measurement baseline
- The store may be stale or corrupted
- Tearing down a test environment

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the report tables

Examples:
  # Clear SQLite store (default)
  sitepulse store clear

  # Clear MySQL store (set connection string via env variable)
  SITEPULSE_BACKEND=mysql SITEPULSE_DB_CONNECT="..." sitepulse store clear`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iostore.ClearStore(cfg.Backend, iostore.GetDBFilePath(), cfg.DBConnect); err != nil {
			contract.LogFatal("Failed to clear store", err)
		}
		fmt.Println("Store cleared successfully.")
	},
}

// storeMigrateCmd runs store schema migrations.
var storeMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run report store schema migrations",
	Long: `Run schema migrations for the report store.

Migrations are embedded in the binary and tracked in a version table,
so re-running is safe. Use --target-version to pin a specific schema
version or roll back.

Use this when:
- Upgrading to a release that changed the store schema
- Rolling back after a bad deploy (--target-version)
- Preparing a fresh MySQL/PostgreSQL database

Examples:
  # Migrate to the latest schema
  sitepulse store migrate

  # Roll back everything
  sitepulse store migrate --target-version 0

  # Migrate a PostgreSQL store
  SITEPULSE_BACKEND=postgresql SITEPULSE_DB_CONNECT="..." sitepulse store migrate`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iostore.MigrateStore(cfg.Backend, cfg.DBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
		fmt.Println("Migrations completed successfully.")
	},
}

// storeExportCmd dumps the whole store as JSON.
var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Dump all stored reports and history as JSON",
	Long: `Export every stored report and history series to a JSON file.

Unlike 'sitepulse export', which renders one report, this dumps the
whole store for backup or migration between backends.

Examples:
  # Dump the store to a file
  sitepulse store export --output-file backup.json

  # Dump a MySQL store
  SITEPULSE_BACKEND=mysql SITEPULSE_DB_CONNECT="..." sitepulse store export --output-file backup.json`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iostore.ExecuteStoreExport(rootCtx, viper.GetString("output-file")); err != nil {
			contract.LogFatal("Failed to export store", err)
		}
	},
}
