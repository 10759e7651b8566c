package iostore

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/sitepulse/sitepulse/schema"
)

// GetHistory returns up to periodCount points for the URL, oldest first.
func (s *SQLStore) GetHistory(ctx context.Context, url string, periodCount int) ([]schema.HistoricalPoint, error) {
	// Return an empty series for NoneBackend
	if s.backend == schema.NoneBackend || s.db == nil {
		return nil, nil
	}

	quotedTableName := quoteTableName(historyTable, s.backend)
	var query string
	switch s.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`SELECT point_date, overall_score, issue_count, fix_count, traffic_estimate FROM %s WHERE url = $1 ORDER BY point_date DESC LIMIT $2`, quotedTableName)
	default: // SQLite and MySQL
		query = fmt.Sprintf(`SELECT point_date, overall_score, issue_count, fix_count, traffic_estimate FROM %s WHERE url = ? ORDER BY point_date DESC LIMIT ?`, quotedTableName)
	}

	rows, err := s.db.QueryContext(ctx, query, url, periodCount)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var points []schema.HistoricalPoint

	for rows.Next() {
		var point schema.HistoricalPoint

		switch s.backend {
		case schema.SQLiteBackend:
			var dateStr string
			if err := rows.Scan(&dateStr, &point.OverallScore, &point.IssueCount, &point.FixCount, &point.TrafficEstimate); err != nil {
				return nil, fmt.Errorf("failed to scan history point: %w", err)
			}
			date, err := time.Parse(time.RFC3339Nano, dateStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse point_date: %w", err)
			}
			point.Date = date
		default: // MySQL and PostgreSQL
			if err := rows.Scan(&point.Date, &point.OverallScore, &point.IssueCount, &point.FixCount, &point.TrafficEstimate); err != nil {
				return nil, fmt.Errorf("failed to scan history point: %w", err)
			}
		}

		points = append(points, point)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating history points: %w", err)
	}

	// The query walks backwards from the newest point so LIMIT keeps the
	// most recent window; callers expect oldest first.
	slices.Reverse(points)
	return points, nil
}

// AppendPoint appends one point to the URL's series. Re-running the same
// period replaces its point rather than duplicating it.
func (s *SQLStore) AppendPoint(ctx context.Context, url string, point schema.HistoricalPoint) error {
	if s.backend == schema.NoneBackend || s.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(historyTable, s.backend)
	pointDate := formatTime(point.Date, s.backend)

	var query string
	switch s.backend {
	case schema.MySQLBackend:
		query = fmt.Sprintf(`INSERT INTO %s (url, point_date, overall_score, issue_count, fix_count, traffic_estimate) VALUES (?, ?, ?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE overall_score = new.overall_score, issue_count = new.issue_count, fix_count = new.fix_count, traffic_estimate = new.traffic_estimate`, quotedTableName)

	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`INSERT INTO %s (url, point_date, overall_score, issue_count, fix_count, traffic_estimate) VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (url, point_date) DO UPDATE SET overall_score = EXCLUDED.overall_score, issue_count = EXCLUDED.issue_count, fix_count = EXCLUDED.fix_count, traffic_estimate = EXCLUDED.traffic_estimate`, quotedTableName)

	default: // SQLite
		query = fmt.Sprintf(`INSERT OR REPLACE INTO %s (url, point_date, overall_score, issue_count, fix_count, traffic_estimate) VALUES (?, ?, ?, ?, ?, ?)`, quotedTableName)
	}

	args := []any{url, pointDate, point.OverallScore, point.IssueCount, point.FixCount, point.TrafficEstimate}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to append history point: %w", err)
	}

	return nil
}

// GetAllHistoryRecords retrieves raw rows for every stored history point.
func (s *SQLStore) GetAllHistoryRecords(ctx context.Context) ([]schema.HistoryRecord, error) {
	// Skip for NoneBackend
	if s.backend == schema.NoneBackend || s.db == nil {
		return nil, nil
	}

	quotedTableName := quoteTableName(historyTable, s.backend)
	query := fmt.Sprintf("SELECT url, point_date, overall_score, issue_count, fix_count, traffic_estimate FROM %s ORDER BY url, point_date", quotedTableName)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query history records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.HistoryRecord

	for rows.Next() {
		var record schema.HistoryRecord

		switch s.backend {
		case schema.SQLiteBackend:
			var dateStr string
			if err := rows.Scan(&record.URL, &dateStr, &record.OverallScore, &record.IssueCount, &record.FixCount, &record.TrafficEstimate); err != nil {
				return nil, fmt.Errorf("failed to scan history record: %w", err)
			}
			date, err := time.Parse(time.RFC3339Nano, dateStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse point_date: %w", err)
			}
			record.Date = date
		default: // MySQL and PostgreSQL
			if err := rows.Scan(&record.URL, &record.Date, &record.OverallScore, &record.IssueCount, &record.FixCount, &record.TrafficEstimate); err != nil {
				return nil, fmt.Errorf("failed to scan history record: %w", err)
			}
		}

		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating history records: %w", err)
	}

	return results, nil
}

// AddSchedule persists a recurring report registration.
func (s *SQLStore) AddSchedule(ctx context.Context, entry *schema.ScheduleEntry) error {
	if s.backend == schema.NoneBackend || s.db == nil {
		return nil
	}

	recipients, err := json.Marshal(entry.Recipients)
	if err != nil {
		return fmt.Errorf("failed to encode recipients: %w", err)
	}

	quotedTableName := quoteTableName(schedulesTable, s.backend)
	createdAt := formatTime(entry.CreatedAt, s.backend)

	var query string
	switch s.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`INSERT INTO %s (id, url, cadence, recipients, created_at) VALUES ($1, $2, $3, $4, $5)`, quotedTableName)
	default: // SQLite and MySQL
		query = fmt.Sprintf(`INSERT INTO %s (id, url, cadence, recipients, created_at) VALUES (?, ?, ?, ?, ?)`, quotedTableName)
	}

	if _, err := s.db.ExecContext(ctx, query, entry.ID, entry.URL, entry.Cadence, string(recipients), createdAt); err != nil {
		return fmt.Errorf("failed to insert schedule: %w", err)
	}

	return nil
}

// ListSchedules returns every registered schedule in creation order.
func (s *SQLStore) ListSchedules(ctx context.Context) ([]schema.ScheduleEntry, error) {
	if s.backend == schema.NoneBackend || s.db == nil {
		return nil, nil
	}

	quotedTableName := quoteTableName(schedulesTable, s.backend)
	query := fmt.Sprintf("SELECT id, url, cadence, recipients, created_at FROM %s ORDER BY created_at", quotedTableName)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedules: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []schema.ScheduleEntry

	for rows.Next() {
		var entry schema.ScheduleEntry
		var recipients string

		switch s.backend {
		case schema.SQLiteBackend:
			var createdAtStr string
			if err := rows.Scan(&entry.ID, &entry.URL, &entry.Cadence, &recipients, &createdAtStr); err != nil {
				return nil, fmt.Errorf("failed to scan schedule: %w", err)
			}
			createdAt, err := time.Parse(time.RFC3339Nano, createdAtStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse created_at: %w", err)
			}
			entry.CreatedAt = createdAt
		default: // MySQL and PostgreSQL
			if err := rows.Scan(&entry.ID, &entry.URL, &entry.Cadence, &recipients, &entry.CreatedAt); err != nil {
				return nil, fmt.Errorf("failed to scan schedule: %w", err)
			}
		}

		if err := json.Unmarshal([]byte(recipients), &entry.Recipients); err != nil {
			return nil, fmt.Errorf("failed to decode recipients: %w", err)
		}

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating schedules: %w", err)
	}

	return entries, nil
}
