// Package parquet provides data structures and functions for exporting
// report data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/sitepulse/sitepulse/schema"
)

// ReportRow represents a single compiled report with its lookup columns.
// This struct maps to the sitepulse_reports database table.
type ReportRow struct {
	// ID is the deterministic identifier of the report
	ID string `parquet:"id,snappy"`

	// URL is the page the report covers
	URL string `parquet:"url,snappy"`

	// Period is the YYYY-MM reporting period key
	Period string `parquet:"period,snappy"`

	// PeriodStart is the first instant of the reporting period (stored as TIMESTAMP with nanosecond precision)
	PeriodStart time.Time `parquet:"period_start,snappy"`

	// GeneratedAt is when the report was compiled (stored as TIMESTAMP with nanosecond precision)
	GeneratedAt time.Time `parquet:"generated_at,snappy"`

	// OverallScore is the weighted overall score on the 0-100 scale
	OverallScore int32 `parquet:"overall_score,snappy"`

	// Document contains the JSON-encoded report body
	Document string `parquet:"document,snappy"`
}

// HistoryRow represents one point of a URL's score series.
// This struct maps to the sitepulse_history database table.
type HistoryRow struct {
	// URL is the page the point belongs to
	URL string `parquet:"url,snappy"`

	// Date is the period start the point was recorded for (stored as TIMESTAMP with nanosecond precision)
	Date time.Time `parquet:"point_date,snappy"`

	// OverallScore is the overall score at that point
	OverallScore float64 `parquet:"overall_score,snappy"`

	// IssueCount is how many issues the report found
	IssueCount int32 `parquet:"issue_count,snappy"`

	// FixCount is how many issues disappeared since the previous point
	FixCount int32 `parquet:"fix_count,snappy"`

	// TrafficEstimate is the estimated monthly visits at that point
	TrafficEstimate int32 `parquet:"traffic_estimate,snappy"`
}

// WriteReportsParquet writes a slice of ReportRow structs to a Parquet file.
func WriteReportsParquet(data []ReportRow, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the ReportRow struct tags
	writer := parquet.NewGenericWriter[ReportRow](file)
	defer func() { _ = writer.Close() }()

	// Write all records to the file
	// The Write method accepts a variadic slice
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// WriteHistoryParquet writes a slice of HistoryRow structs to a Parquet file.
func WriteHistoryParquet(data []HistoryRow, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the HistoryRow struct tags
	writer := parquet.NewGenericWriter[HistoryRow](file)
	defer func() { _ = writer.Close() }()

	// Write all records to the file
	// The Write method accepts a variadic slice
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// MockFetchReportRows generates sample ReportRow data for demonstration.
func MockFetchReportRows() []ReportRow {
	now := time.Now()
	january := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	february := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	return []ReportRow{
		{
			ID:           "2f9d9f3e-7c3b-5d27-9a41-0c5a1f6b8e01",
			URL:          "https://example.com",
			Period:       "2025-01",
			PeriodStart:  january,
			GeneratedAt:  now.Add(-31 * 24 * time.Hour),
			OverallScore: 68,
			Document:     `{"url":"https://example.com","period":"2025-01","overallScore":68}`,
		},
		{
			ID:           "8c1b0a52-4e0f-5b96-b1d3-77aa20cf4a02",
			URL:          "https://example.com",
			Period:       "2025-02",
			PeriodStart:  february,
			GeneratedAt:  now.Add(-1 * 24 * time.Hour),
			OverallScore: 73,
			Document:     `{"url":"https://example.com","period":"2025-02","overallScore":73}`,
		},
		{
			ID:           "b4a6e9d0-1f82-5c34-a7c9-3d10fe6b2c03",
			URL:          "https://blog.example.org",
			Period:       "2025-02",
			PeriodStart:  february,
			GeneratedAt:  now.Add(-2 * time.Hour),
			OverallScore: 55,
			Document:     `{"url":"https://blog.example.org","period":"2025-02","overallScore":55}`,
		},
	}
}

// MockFetchHistoryRows generates sample HistoryRow data for demonstration.
func MockFetchHistoryRows() []HistoryRow {
	return []HistoryRow{
		{
			URL:             "https://example.com",
			Date:            time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC),
			OverallScore:    61,
			IssueCount:      9,
			FixCount:        0,
			TrafficEstimate: 12400,
		},
		{
			URL:             "https://example.com",
			Date:            time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC),
			OverallScore:    64,
			IssueCount:      7,
			FixCount:        2,
			TrafficEstimate: 13100,
		},
		{
			URL:             "https://example.com",
			Date:            time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			OverallScore:    68,
			IssueCount:      6,
			FixCount:        1,
			TrafficEstimate: 14800,
		},
		{
			URL:             "https://example.com",
			Date:            time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
			OverallScore:    73,
			IssueCount:      4,
			FixCount:        2,
			TrafficEstimate: 16200,
		},
	}
}

// ConvertReportRecords converts schema.ReportRecord to ReportRow for Parquet export.
func ConvertReportRecords(records []schema.ReportRecord) []ReportRow {
	result := make([]ReportRow, len(records))
	for i, record := range records {
		result[i] = ReportRow{
			ID:           record.ID,
			URL:          record.URL,
			Period:       record.Period,
			PeriodStart:  record.PeriodStart,
			GeneratedAt:  record.GeneratedAt,
			OverallScore: int32(record.OverallScore),
			Document:     string(record.Document),
		}
	}
	return result
}

// ConvertHistoryRecords converts schema.HistoryRecord to HistoryRow for Parquet export.
func ConvertHistoryRecords(records []schema.HistoryRecord) []HistoryRow {
	result := make([]HistoryRow, len(records))
	for i, record := range records {
		result[i] = HistoryRow{
			URL:             record.URL,
			Date:            record.Date,
			OverallScore:    record.OverallScore,
			IssueCount:      record.IssueCount,
			FixCount:        record.FixCount,
			TrafficEstimate: record.TrafficEstimate,
		}
	}
	return result
}
