package iostore

import (
	"context"
	"errors"
	"fmt"

	"github.com/sitepulse/sitepulse/internal/parquet"
)

// ExecuteStoreExport performs the actual export of stored report data to
// Parquet files.
func ExecuteStoreExport(ctx context.Context, outputFile string) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	// Get the stores
	reportStore := Manager.GetReportStore()
	historyStore := Manager.GetHistoryStore()

	// Check if there's any data to export
	status, err := reportStore.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get store status: %w", err)
	}

	if status.TotalReports == 0 && status.TotalPoints == 0 {
		return errors.New("no report data found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total reports: %d\n", status.TotalReports)
	fmt.Printf("Total history points: %d\n", status.TotalPoints)

	// Retrieve all report records
	reportRecords, err := reportStore.GetAllReportRecords(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve report records: %w", err)
	}

	// Retrieve all history records
	historyRecords, err := historyStore.GetAllHistoryRecords(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve history records: %w", err)
	}

	// Convert to Parquet format
	parquetReports := parquet.ConvertReportRecords(reportRecords)
	parquetHistory := parquet.ConvertHistoryRecords(historyRecords)

	// Write reports to Parquet
	reportsFile := outputFile + ".reports.parquet"
	if err := parquet.WriteReportsParquet(parquetReports, reportsFile); err != nil {
		return fmt.Errorf("failed to write reports: %w", err)
	}
	fmt.Printf("Exported %d reports to: %s\n", len(parquetReports), reportsFile)

	// Write history points to Parquet
	historyFile := outputFile + ".history.parquet"
	if err := parquet.WriteHistoryParquet(parquetHistory, historyFile); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	fmt.Printf("Exported %d history points to: %s\n", len(parquetHistory), historyFile)

	fmt.Println("\nExport complete! The Parquet files can be used with:")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Apache Arrow")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")
	fmt.Println("  - Any other Parquet-compatible tool")

	return nil
}
