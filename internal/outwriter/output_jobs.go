package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/sitepulse/sitepulse/internal/contract"
	"github.com/sitepulse/sitepulse/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintJobResults outputs job snapshots, dispatching based on the output format configured.
func PrintJobResults(jobs []schema.Job, cfg *contract.Config) error {
	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := printJSONJobs(jobs, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printCSVJobs(jobs, cfg); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJobTable(w, jobs, cfg)
		}, "Wrote job table")
	}
	return nil
}

// printJSONJobs handles opening the file and calling the JSON writer.
func printJSONJobs(jobs []schema.Job, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONJobs(w, jobs)
	}, "Wrote JSON jobs")
}

// printCSVJobs handles opening the file and calling the CSV writer.
func printCSVJobs(jobs []schema.Job, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeCSVWithHeader(w, jobCSVHeader, func(cw *csv.Writer) error {
			return writeCSVJobRows(cw, jobs)
		})
	}, "Wrote CSV jobs")
}

// writeJobTable generates and writes the human-readable job view.
func writeJobTable(w io.Writer, jobs []schema.Job, cfg *contract.Config) error {
	fmt.Fprintf(w, "%s\n", sectionHeading("⚙️", "Report Jobs", cfg))
	if len(jobs) == 0 {
		fmt.Fprintf(w, "No jobs submitted yet.\n")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"ID", "URL", "Period", "Status", "Progress", "Created"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	maxWidth := GetMaxTableURLWidth(cfg)
	var data [][]string
	active := 0
	for _, job := range jobs {
		if !job.Status.IsTerminal() {
			active++
		}
		row := []string{
			shortID(job.ID),
			contract.TruncateURL(job.URL, maxWidth),
			job.Period,
			string(job.Status),
			fmt.Sprintf("%d%%", job.Progress),
			job.CreatedAt.Format("2006-01-02 15:04"),
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Showing %d jobs (%d active)\n", len(jobs), active); err != nil {
		return err
	}
	return nil
}

// PrintScheduleResults outputs recurring schedule registrations, dispatching based on the output format configured.
func PrintScheduleResults(entries []schema.ScheduleEntry, cfg *contract.Config) error {
	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := printJSONSchedules(entries, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printCSVSchedules(entries, cfg); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeScheduleTable(w, entries, cfg)
		}, "Wrote schedule table")
	}
	return nil
}

// printJSONSchedules handles opening the file and calling the JSON writer.
func printJSONSchedules(entries []schema.ScheduleEntry, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONSchedules(w, entries)
	}, "Wrote JSON schedules")
}

// printCSVSchedules handles opening the file and calling the CSV writer.
func printCSVSchedules(entries []schema.ScheduleEntry, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeCSVWithHeader(w, scheduleCSVHeader, func(cw *csv.Writer) error {
			return writeCSVScheduleRows(cw, entries)
		})
	}, "Wrote CSV schedules")
}

// writeScheduleTable generates and writes the human-readable schedule view.
func writeScheduleTable(w io.Writer, entries []schema.ScheduleEntry, cfg *contract.Config) error {
	fmt.Fprintf(w, "%s\n", sectionHeading("🔁", "Recurring Schedules", cfg))
	if len(entries) == 0 {
		fmt.Fprintf(w, "No schedules registered yet.\n")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"ID", "URL", "Cadence", "Recipients", "Created"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	maxWidth := GetMaxTableURLWidth(cfg)
	var data [][]string
	for _, entry := range entries {
		row := []string{
			shortID(entry.ID),
			contract.TruncateURL(entry.URL, maxWidth),
			entry.Cadence,
			schema.FormatRecipients(entry.Recipients),
			entry.CreatedAt.Format("2006-01-02 15:04"),
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Showing %d schedules\n", len(entries)); err != nil {
		return err
	}
	return nil
}
