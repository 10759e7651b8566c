package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sitepulse/sitepulse/internal/contract"
	"github.com/sitepulse/sitepulse/internal/outwriter"
	"github.com/sitepulse/sitepulse/internal/scheduler"
	"github.com/sitepulse/sitepulse/schema"
)

// jobPollInterval is how often the batch command checks job progress.
const jobPollInterval = 200 * time.Millisecond

// jobsCmd runs report jobs for several URLs with bounded concurrency.
var jobsCmd = &cobra.Command{
	Use:   "jobs <url> [url...]",
	Short: "Generate reports for multiple URLs as scheduled jobs.",
	Long: `Submit one report job per URL and wait for all of them to finish.

Jobs run through the same admission-controlled scheduler the server
uses, helping you:
- Generate reports for a whole portfolio of sites in one run
- Bound concurrent collection with --workers
- See per-job status, progress and errors in a single table
- Keep one slow or failing site from blocking the others

URLs whose report already exists for the period are skipped. The final
table lists every job with its terminal status.

Examples:
  # Report on three sites for the current month
  sitepulse jobs https://a.example https://b.example https://c.example

  # Widen the worker pool for a large batch
  sitepulse jobs --workers 8 $(cat sites.txt)

  # Batch for a specific month, results as JSON
  sitepulse jobs https://a.example https://b.example --period 2026-07 --output json`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		sched := scheduler.New(cfg, metricCollector, storeManager)
		defer sched.Shutdown()

		jobIDs := make([]string, 0, len(args))
		for _, rawURL := range args {
			result, err := sched.Submit(rootCtx, rawURL, cfg.Period)
			if err != nil {
				contract.LogFatal("Cannot submit job", err)
			}
			// An empty job ID means a stored report was reused.
			if result.JobID != "" {
				jobIDs = append(jobIDs, result.JobID)
			}
		}

		waitForJobs(rootCtx, sched, jobIDs)

		jobs, err := storeManager.GetJobStore().ListJobs(rootCtx)
		if err != nil {
			contract.LogFatal("Cannot list jobs", err)
		}
		if err := outwriter.NewOutWriter().WriteJobs(jobs, cfg); err != nil {
			contract.LogFatal("Cannot write jobs", err)
		}

		var failed int
		for _, job := range jobs {
			if job.Status == schema.FailedStatus {
				failed++
			}
		}
		if failed > 0 {
			contract.LogFatal("Batch finished with failures", fmt.Errorf("%d of %d jobs failed", failed, len(jobs)))
		}
	},
}

// waitForJobs blocks until every listed job reaches a terminal status.
func waitForJobs(ctx context.Context, sched *scheduler.Scheduler, jobIDs []string) {
	remaining := make(map[string]struct{}, len(jobIDs))
	for _, id := range jobIDs {
		remaining[id] = struct{}{}
	}

	ticker := time.NewTicker(jobPollInterval)
	defer ticker.Stop()

	for len(remaining) > 0 {
		<-ticker.C
		for id := range remaining {
			job, err := sched.Status(ctx, id)
			if err != nil || job.Status.IsTerminal() {
				delete(remaining, id)
			}
		}
	}
}
