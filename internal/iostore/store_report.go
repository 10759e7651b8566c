package iostore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sitepulse/sitepulse/internal/contract"
	"github.com/sitepulse/sitepulse/schema"
)

// GetReport returns the report for a (url, period) key.
func (s *SQLStore) GetReport(ctx context.Context, url, period string) (*schema.Report, error) {
	if s.backend == schema.NoneBackend || s.db == nil {
		return nil, fmt.Errorf("report for %s in %s: %w", url, period, contract.ErrNotFound)
	}

	quotedTableName := quoteTableName(reportsTable, s.backend)
	var query string
	switch s.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`SELECT document FROM %s WHERE url = $1 AND period = $2`, quotedTableName)
	default: // SQLite and MySQL
		query = fmt.Sprintf(`SELECT document FROM %s WHERE url = ? AND period = ?`, quotedTableName)
	}

	var document []byte
	if err := s.db.QueryRowContext(ctx, query, url, period).Scan(&document); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("report for %s in %s: %w", url, period, contract.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query report: %w", err)
	}

	return decodeReportDocument(document)
}

// GetReportByID returns the report with the given id.
func (s *SQLStore) GetReportByID(ctx context.Context, id string) (*schema.Report, error) {
	if s.backend == schema.NoneBackend || s.db == nil {
		return nil, fmt.Errorf("report %s: %w", id, contract.ErrNotFound)
	}

	quotedTableName := quoteTableName(reportsTable, s.backend)
	placeholder := s.getPlaceholder()
	query := fmt.Sprintf(`SELECT document FROM %s WHERE id = %s`, quotedTableName, placeholder)

	var document []byte
	if err := s.db.QueryRowContext(ctx, query, id).Scan(&document); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("report %s: %w", id, contract.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query report: %w", err)
	}

	return decodeReportDocument(document)
}

// PutReport persists a compiled report. The full document is stored as
// JSON; id, url and period columns exist for lookups. Writing the same
// identity again replaces the stored document.
func (s *SQLStore) PutReport(ctx context.Context, report *schema.Report) error {
	if s.backend == schema.NoneBackend || s.db == nil {
		return nil
	}

	document, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report document: %w", err)
	}

	quotedTableName := quoteTableName(reportsTable, s.backend)
	periodStart := formatTime(report.PeriodStart, s.backend)
	generatedAt := formatTime(report.GeneratedAt, s.backend)

	var query string
	switch s.backend {
	case schema.MySQLBackend:
		query = fmt.Sprintf(`INSERT INTO %s (id, url, period, period_start, generated_at, overall_score, document) VALUES (?, ?, ?, ?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE generated_at = new.generated_at, overall_score = new.overall_score, document = new.document`, quotedTableName)

	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`INSERT INTO %s (id, url, period, period_start, generated_at, overall_score, document) VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id) DO UPDATE SET generated_at = EXCLUDED.generated_at, overall_score = EXCLUDED.overall_score, document = EXCLUDED.document`, quotedTableName)

	default: // SQLite
		query = fmt.Sprintf(`INSERT OR REPLACE INTO %s (id, url, period, period_start, generated_at, overall_score, document) VALUES (?, ?, ?, ?, ?, ?, ?)`, quotedTableName)
	}

	args := []any{report.ID, report.URL, report.Period, periodStart, generatedAt, report.OverallScore, string(document)}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}

	return nil
}

// GetAllReportRecords retrieves raw rows for every stored report.
func (s *SQLStore) GetAllReportRecords(ctx context.Context) ([]schema.ReportRecord, error) {
	// Skip for NoneBackend
	if s.backend == schema.NoneBackend || s.db == nil {
		return nil, nil
	}

	quotedTableName := quoteTableName(reportsTable, s.backend)
	query := fmt.Sprintf("SELECT id, url, period, period_start, generated_at, overall_score, document FROM %s ORDER BY url, period", quotedTableName)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query report records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.ReportRecord

	for rows.Next() {
		var record schema.ReportRecord

		switch s.backend {
		case schema.SQLiteBackend:
			var periodStartStr, generatedAtStr string
			if err := rows.Scan(&record.ID, &record.URL, &record.Period, &periodStartStr, &generatedAtStr, &record.OverallScore, &record.Document); err != nil {
				return nil, fmt.Errorf("failed to scan report record: %w", err)
			}
			periodStart, err := time.Parse(time.RFC3339Nano, periodStartStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse period_start: %w", err)
			}
			record.PeriodStart = periodStart
			generatedAt, err := time.Parse(time.RFC3339Nano, generatedAtStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse generated_at: %w", err)
			}
			record.GeneratedAt = generatedAt
		default: // MySQL and PostgreSQL
			if err := rows.Scan(&record.ID, &record.URL, &record.Period, &record.PeriodStart, &record.GeneratedAt, &record.OverallScore, &record.Document); err != nil {
				return nil, fmt.Errorf("failed to scan report record: %w", err)
			}
		}

		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating report records: %w", err)
	}

	return results, nil
}

// GetStatus returns status information about the store.
func (s *SQLStore) GetStatus() (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:    string(s.backend),
		Connected:  s.db != nil,
		TableSizes: make(map[string]int64),
	}

	if s.backend == schema.NoneBackend || s.db == nil {
		return status, nil
	}

	// Get row counts per table
	tables := []string{reportsTable, historyTable, schedulesTable}
	for _, table := range tables {
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, s.backend))
		var count int64
		if err := s.db.QueryRow(countQuery).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	status.TotalReports = int(status.TableSizes[reportsTable])
	status.TotalPoints = int(status.TableSizes[historyTable])
	status.TotalSchedules = int(status.TableSizes[schedulesTable])

	if status.TotalReports > 0 {
		var err error
		status.LastReportTime, err = s.getBoundaryReportTime("DESC")
		if err != nil {
			return status, err
		}
		status.OldestReportTime, err = s.getBoundaryReportTime("ASC")
		if err != nil {
			return status, err
		}
	}

	return status, nil
}

// getBoundaryReportTime returns the newest or oldest generated_at value.
// SQLite stores times as RFC3339Nano strings, which do not sort
// chronologically once fractional seconds differ in length, so ordering
// goes through datetime() there.
func (s *SQLStore) getBoundaryReportTime(direction string) (time.Time, error) {
	quotedTableName := quoteTableName(reportsTable, s.backend)

	var query string
	switch s.backend {
	case schema.SQLiteBackend:
		query = fmt.Sprintf("SELECT generated_at FROM %s ORDER BY datetime(generated_at) %s LIMIT 1", quotedTableName, direction)
	default: // MySQL and PostgreSQL
		query = fmt.Sprintf("SELECT generated_at FROM %s ORDER BY generated_at %s LIMIT 1", quotedTableName, direction)
	}

	row := s.db.QueryRow(query)

	switch s.backend {
	case schema.SQLiteBackend:
		var generatedAtStr string
		if err := row.Scan(&generatedAtStr); err != nil {
			return time.Time{}, fmt.Errorf("failed to get report time boundary: %w", err)
		}
		generatedAt, err := time.Parse(time.RFC3339Nano, generatedAtStr)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse generated_at: %w", err)
		}
		return generatedAt, nil
	default: // MySQL and PostgreSQL store as native datetime
		var generatedAt time.Time
		if err := row.Scan(&generatedAt); err != nil {
			return time.Time{}, fmt.Errorf("failed to get report time boundary: %w", err)
		}
		return generatedAt, nil
	}
}

// decodeReportDocument deserializes a stored report document.
func decodeReportDocument(document []byte) (*schema.Report, error) {
	var report schema.Report
	if err := json.Unmarshal(document, &report); err != nil {
		return nil, fmt.Errorf("failed to decode report document: %w", err)
	}
	return &report, nil
}
