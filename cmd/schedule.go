package cmd

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sitepulse/sitepulse/internal/contract"
	"github.com/sitepulse/sitepulse/internal/outwriter"
	"github.com/sitepulse/sitepulse/schema"
)

// scheduleCmd manages recurring report registrations.
var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Manage recurring report schedules",
	Long: `Manage recurring report registrations for URLs.

A schedule records that a URL should be reported on at a fixed cadence
with an optional recipient list. Registrations are persisted in the
report store; an external trigger (cron, CI) drives the actual runs.

Subcommands:
  add  - Register a new recurring schedule
  list - Show all registered schedules

Examples:
  # Register a weekly schedule
  sitepulse schedule add https://example.com --cadence weekly

  # See everything registered
  sitepulse schedule list`,
}

// scheduleAddCmd registers a recurring schedule.
var scheduleAddCmd = &cobra.Command{
	Use:   "add <url>",
	Short: "Register a recurring report schedule for a URL",
	Long: `Register a URL for recurring reports at a fixed cadence.

Use this when:
- A site should be re-scored every day, week or month
- Stakeholders want the results delivered to their inbox
- You drive report generation from cron or CI

Examples:
  # Weekly schedule with no recipients
  sitepulse schedule add https://example.com --cadence weekly

  # Monthly schedule delivered to two addresses
  sitepulse schedule add https://example.com --cadence monthly --recipients "dev@example.com, seo@example.com"`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if cfg.URL == "" {
			contract.LogFatal("Cannot add schedule", fmt.Errorf("%w: url is required", contract.ErrValidation))
		}
		if cfg.Cadence == "" {
			contract.LogFatal("Cannot add schedule", fmt.Errorf("%w: cadence is required", contract.ErrValidation))
		}

		entry := &schema.ScheduleEntry{
			ID:         uuid.NewString(),
			URL:        cfg.URL,
			Cadence:    cfg.Cadence,
			Recipients: cfg.Recipients,
			CreatedAt:  time.Now().UTC(),
		}
		if err := storeManager.GetScheduleStore().AddSchedule(rootCtx, entry); err != nil {
			contract.LogFatal("Cannot add schedule", err)
		}
		fmt.Printf("Registered %s schedule %s for %s\n", entry.Cadence, entry.ID, entry.URL)
	},
}

// scheduleListCmd shows registered schedules.
var scheduleListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show all registered report schedules",
	Long: `Display every recurring report registration in the store.

Displays:
- Schedule ID, URL and cadence
- Recipient list per registration
- Registration timestamps

Examples:
  # List registered schedules
  sitepulse schedule list

  # Machine-readable listing
  sitepulse schedule list --output json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		entries, err := storeManager.GetScheduleStore().ListSchedules(rootCtx)
		if err != nil {
			contract.LogFatal("Cannot list schedules", err)
		}
		if err := outwriter.NewOutWriter().WriteSchedules(entries, cfg); err != nil {
			contract.LogFatal("Cannot write schedules", err)
		}
	},
}
