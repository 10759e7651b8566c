package schema

import "time"

// StoreStatus represents the status of the persistence store.
type StoreStatus struct {
	Backend          string           `json:"backend"`
	Connected        bool             `json:"connected"`
	TotalReports     int              `json:"total_reports"`
	TotalPoints      int              `json:"total_points"`
	TotalSchedules   int              `json:"total_schedules"`
	LastReportTime   time.Time        `json:"last_report_time"`
	OldestReportTime time.Time        `json:"oldest_report_time"`
	TableSizes       map[string]int64 `json:"table_sizes"`
}

// ReportRecord represents a row from the sitepulse_reports table. The
// full document is stored as JSON; the remaining columns exist for
// lookup and listing without decoding it.
type ReportRecord struct {
	ID           string
	URL          string
	Period       string
	PeriodStart  time.Time
	GeneratedAt  time.Time
	OverallScore int
	Document     []byte
}

// HistoryRecord represents a row from the sitepulse_history table.
type HistoryRecord struct {
	URL             string
	Date            time.Time
	OverallScore    float64
	IssueCount      int32
	FixCount        int32
	TrafficEstimate int32
}
