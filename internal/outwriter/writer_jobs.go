package outwriter

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/sitepulse/sitepulse/internal/contract"
	"github.com/sitepulse/sitepulse/schema"
)

// jobCSVHeader is the column layout for the job snapshot form.
var jobCSVHeader = []string{
	"id",
	"url",
	"period",
	"status",
	"progress",
	"created_at",
	"completed_at",
	"report_id",
	"error",
}

// scheduleCSVHeader is the column layout for the schedule form.
var scheduleCSVHeader = []string{
	"id",
	"url",
	"cadence",
	"recipients",
	"created_at",
}

// writeJSONJobs marshals job snapshots to JSON and writes them.
func writeJSONJobs(w io.Writer, jobs []schema.Job) error {
	return writeJSON(w, jobs)
}

// writeCSVJobRows writes job snapshot data to a CSV writer.
func writeCSVJobRows(w *csv.Writer, jobs []schema.Job) error {
	for _, job := range jobs {
		completedAt := ""
		if job.CompletedAt != nil {
			completedAt = job.CompletedAt.Format(contract.DateTimeFormat)
		}
		row := []string{
			job.ID,
			job.URL,
			job.Period,
			string(job.Status),
			strconv.Itoa(job.Progress),
			job.CreatedAt.Format(contract.DateTimeFormat),
			completedAt,
			job.ReportID,
			job.Error,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// writeJSONSchedules marshals schedule registrations to JSON and writes them.
func writeJSONSchedules(w io.Writer, entries []schema.ScheduleEntry) error {
	return writeJSON(w, entries)
}

// writeCSVScheduleRows writes schedule registration data to a CSV writer.
func writeCSVScheduleRows(w *csv.Writer, entries []schema.ScheduleEntry) error {
	for _, entry := range entries {
		row := []string{
			entry.ID,
			entry.URL,
			entry.Cadence,
			strings.Join(entry.Recipients, "|"),
			entry.CreatedAt.Format(contract.DateTimeFormat),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
