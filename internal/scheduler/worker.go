package scheduler

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sitepulse/sitepulse/core"
	"github.com/sitepulse/sitepulse/internal/contract"
	"github.com/sitepulse/sitepulse/internal/logger"
	"github.com/sitepulse/sitepulse/schema"
)

// workerLoop consumes job ids until the queue is closed. Each worker
// runs one job at a time, which is what bounds concurrent pipelines.
func (s *Scheduler) workerLoop() {
	for jobID := range s.queue {
		s.runJob(jobID)
	}
}

// runJob executes the full pipeline for one dequeued job and records
// its terminal state. Store updates use a background context so a
// cancelled run can still write its final status.
func (s *Scheduler) runJob(jobID string) {
	ctx := context.Background()
	store := s.mgr.GetJobStore()

	job, err := store.GetJob(ctx, jobID)
	if err != nil {
		logger.Log.WithField("job", jobID).WithError(err).Warn("dequeued unknown job")
		return
	}
	if job.Status != schema.PendingStatus {
		// Cancelled while waiting in the queue
		return
	}

	// Register the interrupt hook before going processing, so Cancel
	// always finds either a pending status or a live cancel func.
	runCtx, cancel := context.WithCancel(core.WithJobID(ctx, jobID))
	s.mu.Lock()
	s.cancels[jobID] = cancel
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.cancels, jobID)
		s.mu.Unlock()
		cancel()
	}()

	started := time.Now().UTC()
	if err := store.UpdateJob(ctx, jobID, func(j *schema.Job) error {
		j.Status = schema.ProcessingStatus
		j.StartedAt = &started
		j.Progress = 5
		return nil
	}); err != nil {
		// Lost the race with a cancel; the job is already terminal
		return
	}

	// The period window re-derives deterministically from the stored key
	_, start, end, err := contract.ParsePeriod(job.Period, started)
	if err != nil {
		s.failJob(jobID, err)
		return
	}
	cfg := s.cfg.CloneWithPeriod(job.Period, start, end)
	cfg.URL = job.URL

	report, err := core.RunReportPipeline(runCtx, cfg, s.collector, s.mgr, func(pct int) {
		_ = store.UpdateJob(ctx, jobID, func(j *schema.Job) error {
			if j.Status != schema.ProcessingStatus {
				return nil
			}
			if pct > j.Progress {
				j.Progress = pct
			}
			return nil
		})
	})
	if err != nil {
		if runCtx.Err() != nil {
			// Cancel already moved the job to its terminal status
			logger.Log.WithField("job", jobID).Info("job run interrupted")
			return
		}
		s.failJob(jobID, err)
		return
	}

	finished := time.Now().UTC()
	if err := store.UpdateJob(ctx, jobID, func(j *schema.Job) error {
		j.Status = schema.CompletedStatus
		j.Progress = 100
		j.CompletedAt = &finished
		j.ReportID = report.ID
		return nil
	}); err != nil {
		logger.Log.WithField("job", jobID).WithError(err).Warn("recording job completion")
		return
	}

	logger.Log.WithFields(logrus.Fields{
		"job":    jobID,
		"report": report.ID,
		"took":   finished.Sub(started).String(),
	}).Info("job completed")
}

// failJob records a pipeline failure on the job. The failure never
// propagates past here; other jobs and the workers keep running.
func (s *Scheduler) failJob(jobID string, cause error) {
	finished := time.Now().UTC()
	err := s.mgr.GetJobStore().UpdateJob(context.Background(), jobID, func(j *schema.Job) error {
		j.Status = schema.FailedStatus
		j.Error = cause.Error()
		j.CompletedAt = &finished
		return nil
	})
	if err != nil {
		logger.Log.WithField("job", jobID).WithError(err).Warn("recording job failure")
		return
	}
	logger.Log.WithField("job", jobID).WithError(cause).Warn("job failed")
}
