// Package scheduler has the bounded worker pool that turns submitted
// report requests into pipeline runs. It owns every Job mutation;
// other packages only read job state.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sitepulse/sitepulse/internal/contract"
	"github.com/sitepulse/sitepulse/internal/logger"
	"github.com/sitepulse/sitepulse/schema"
)

// Rough submit-time cost model: a fixed pipeline cost plus a share for
// every job already waiting in the queue.
const (
	baseEstimateSeconds      = 10
	perQueuedEstimateSeconds = 5
)

// SubmitResult is the outcome of one submit call. Either Report is set
// and the request was satisfied without a job, or JobID names the
// pending/processing job to poll.
type SubmitResult struct {
	JobID            string
	EstimatedSeconds int
	Report           *schema.Report
}

// Scheduler drains a FIFO queue of report jobs through a fixed number
// of workers. At most one non-terminal job exists per (url, period).
type Scheduler struct {
	cfg       *contract.Config
	collector contract.MetricCollector
	mgr       contract.StoreManager

	// mu guards queue sends, the cancel registry and the closed flag.
	// Workers only ever receive, so a capacity check under mu cannot
	// be invalidated before the send that follows it.
	mu      sync.Mutex
	queue   chan string
	cancels map[string]context.CancelFunc
	closed  bool

	wg sync.WaitGroup
}

// New builds a scheduler and starts its worker pool immediately.
// Worker count and queue capacity come from the config, falling back
// to the documented defaults.
func New(cfg *contract.Config, collector contract.MetricCollector, mgr contract.StoreManager) *Scheduler {
	workers := cfg.MaxWorkers
	if workers <= 0 {
		workers = contract.DefaultMaxWorkers
	}
	capacity := cfg.QueueCapacity
	if capacity <= 0 {
		capacity = contract.DefaultQueueFactor * workers
	}

	s := &Scheduler{
		cfg:       cfg,
		collector: collector,
		mgr:       mgr,
		queue:     make(chan string, capacity),
		cancels:   make(map[string]context.CancelFunc),
	}

	// Start worker pool
	for range workers {
		s.wg.Go(s.workerLoop)
	}

	logger.Log.WithFields(logrus.Fields{
		"workers":  workers,
		"capacity": capacity,
	}).Debug("scheduler started")
	return s
}

// Submit requests a report for (url, period). An already-compiled
// report is returned directly with no job. An in-flight job for the
// same key is returned instead of creating a duplicate. Otherwise a
// new pending job is queued, unless the queue is full.
func (s *Scheduler) Submit(ctx context.Context, rawURL, period string) (*SubmitResult, error) {
	url := schema.NormalizeURL(rawURL)
	if url == "" {
		return nil, fmt.Errorf("%w: url is required", contract.ErrValidation)
	}
	periodKey, _, _, err := contract.ParsePeriod(period, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("%w: %s", contract.ErrValidation, err)
	}

	// 1. An already-compiled report satisfies the request immediately
	existing, err := s.mgr.GetReportStore().GetReport(ctx, url, periodKey)
	if err != nil && !errors.Is(err, contract.ErrNotFound) {
		return nil, fmt.Errorf("check existing report: %w", err)
	}
	if existing != nil {
		return &SubmitResult{Report: existing}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, errors.New("scheduler is shut down")
	}

	// 2. Concurrent submits for one key converge on the first job's id
	active, err := s.mgr.GetJobStore().FindActiveJob(ctx, url, periodKey)
	if err == nil {
		return &SubmitResult{JobID: active.ID, EstimatedSeconds: s.estimateLocked()}, nil
	}
	if !errors.Is(err, contract.ErrNotFound) {
		return nil, fmt.Errorf("find active job: %w", err)
	}

	// 3. Admission control before any state is created
	if len(s.queue) == cap(s.queue) {
		return nil, fmt.Errorf("%w: %d jobs already queued", contract.ErrSchedulerOverload, len(s.queue))
	}

	job := &schema.Job{
		ID:        uuid.NewString(),
		URL:       url,
		Period:    periodKey,
		Status:    schema.PendingStatus,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.mgr.GetJobStore().CreateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	estimate := s.estimateLocked()
	s.queue <- job.ID // cannot block: capacity was checked under mu

	logger.Log.WithFields(logrus.Fields{
		"job":    job.ID,
		"url":    url,
		"period": periodKey,
	}).Info("job queued")
	return &SubmitResult{JobID: job.ID, EstimatedSeconds: estimate}, nil
}

// Status returns a snapshot of the job, or ErrNotFound. Completed jobs
// carry the report id that getReport resolves.
func (s *Scheduler) Status(ctx context.Context, jobID string) (*schema.Job, error) {
	return s.mgr.GetJobStore().GetJob(ctx, jobID)
}

// Cancel moves a pending or processing job to cancelled and interrupts
// its pipeline run if one is in flight. Terminal jobs cannot be
// cancelled.
func (s *Scheduler) Cancel(ctx context.Context, jobID string) error {
	store := s.mgr.GetJobStore()

	finished := time.Now().UTC()
	if err := store.UpdateJob(ctx, jobID, func(j *schema.Job) error {
		if j.Status.IsTerminal() {
			return fmt.Errorf("%w: job %s is already %s", contract.ErrValidation, jobID, j.Status)
		}
		j.Status = schema.CancelledStatus
		j.CompletedAt = &finished
		return nil
	}); err != nil {
		return err
	}

	// Interrupt the worker if the job already left the queue
	s.mu.Lock()
	if cancel, ok := s.cancels[jobID]; ok {
		cancel()
	}
	s.mu.Unlock()

	logger.Log.WithField("job", jobID).Info("job cancelled")
	return nil
}

// Shutdown closes intake and blocks until the workers drain every job
// still in the queue. Submit fails afterwards.
func (s *Scheduler) Shutdown() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.queue)
	}
	s.mu.Unlock()

	s.wg.Wait()
	logger.Log.Debug("scheduler stopped")
}

// estimateLocked computes the submit-time completion estimate. Callers
// must hold mu.
func (s *Scheduler) estimateLocked() int {
	return baseEstimateSeconds + perQueuedEstimateSeconds*len(s.queue)
}
