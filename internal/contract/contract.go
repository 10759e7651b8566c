// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"

	"github.com/sitepulse/sitepulse/schema"
)

// MetricCollector supplies raw per-URL measurements. The pipeline only
// ever talks to this interface, so the live provider can be swapped for
// a fixture provider in tests without touching scoring logic.
type MetricCollector interface {
	// FetchMeasurement gathers every available fact for the URL in one
	// pass. Implementations must honor ctx deadlines; a deadline hit is
	// reported by wrapping ErrProviderTimeout. Provider sections that
	// returned nothing are left nil rather than failing the fetch.
	FetchMeasurement(ctx context.Context, url string) (*schema.RawMeasurement, error)
}

// StoreManager defines the interface for reaching the persistence stores.
// This allows the storage layer to be mocked for testing.
type StoreManager interface {
	GetReportStore() ReportStore
	GetHistoryStore() HistoryStore
	GetScheduleStore() ScheduleStore
	GetJobStore() JobStore
}

// ReportStore defines storage for compiled reports. Reports are written
// exactly once and never updated; (url, period) is the lookup identity.
type ReportStore interface {
	// GetReport returns the report for a (url, period) key, or
	// ErrNotFound when none has been compiled yet.
	GetReport(ctx context.Context, url, period string) (*schema.Report, error)

	// GetReportByID returns the report with the given id, or ErrNotFound.
	GetReportByID(ctx context.Context, id string) (*schema.Report, error)

	// PutReport persists a fully compiled report.
	PutReport(ctx context.Context, report *schema.Report) error

	// GetAllReportRecords returns raw rows for every stored report,
	// ordered by url then period. Used for bulk export.
	GetAllReportRecords(ctx context.Context) ([]schema.ReportRecord, error)

	// GetStatus returns status information about the backing database,
	// covering every table it holds.
	GetStatus() (schema.StoreStatus, error)

	// Close closes the underlying connection.
	Close() error
}

// HistoryStore defines the append-only score series kept per URL.
type HistoryStore interface {
	// GetHistory returns up to periodCount points for the URL, ordered
	// oldest first. A URL with no history yields an empty series, not
	// an error.
	GetHistory(ctx context.Context, url string, periodCount int) ([]schema.HistoricalPoint, error)

	// AppendPoint appends one point to the URL's series.
	AppendPoint(ctx context.Context, url string, point schema.HistoricalPoint) error

	// GetAllHistoryRecords returns raw rows for every stored history
	// point, ordered by url then date. Used for bulk export.
	GetAllHistoryRecords(ctx context.Context) ([]schema.HistoryRecord, error)
}

// ScheduleStore persists recurring report registrations.
type ScheduleStore interface {
	AddSchedule(ctx context.Context, entry *schema.ScheduleEntry) error
	ListSchedules(ctx context.Context) ([]schema.ScheduleEntry, error)
}

// JobStore defines storage for report jobs. The scheduler is the only
// writer; everything else reads. Implementations must reject status
// changes that schema.CanTransition does not allow, which is what makes
// job transitions monotonic regardless of backend.
type JobStore interface {
	// CreateJob stores a new pending job.
	CreateJob(ctx context.Context, job *schema.Job) error

	// GetJob returns a snapshot of the job, or ErrNotFound.
	GetJob(ctx context.Context, id string) (*schema.Job, error)

	// UpdateJob applies a mutation to the stored job under the store's
	// lock. The callback receives the current job and edits it in
	// place; returning an error abandons the update.
	UpdateJob(ctx context.Context, id string, mutate func(*schema.Job) error) error

	// FindActiveJob returns the pending or processing job for a
	// (url, period) key, or ErrNotFound when no such job is in flight.
	FindActiveJob(ctx context.Context, url, period string) (*schema.Job, error)

	// ListJobs returns snapshots of all known jobs, newest first.
	ListJobs(ctx context.Context) ([]schema.Job, error)

	// CountActive returns how many jobs are pending or processing.
	CountActive(ctx context.Context) (int, error)
}
