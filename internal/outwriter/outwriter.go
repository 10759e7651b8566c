// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/sitepulse/sitepulse/internal/contract"
	"github.com/sitepulse/sitepulse/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteReport prints one compiled report using the configured output format.
func (ow *OutWriter) WriteReport(report *schema.Report, cfg *contract.Config, duration time.Duration) error {
	return PrintReportResults(report, cfg, duration)
}

// WriteHistory prints a URL's score series using the configured output format.
func (ow *OutWriter) WriteHistory(url string, points []schema.HistoricalPoint, cfg *contract.Config) error {
	return PrintHistoryResults(url, points, cfg)
}

// WriteJobs prints job snapshots using the configured output format.
func (ow *OutWriter) WriteJobs(jobs []schema.Job, cfg *contract.Config) error {
	return PrintJobResults(jobs, cfg)
}

// WriteSchedules prints recurring schedule registrations using the configured output format.
func (ow *OutWriter) WriteSchedules(entries []schema.ScheduleEntry, cfg *contract.Config) error {
	return PrintScheduleResults(entries, cfg)
}
