package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sitepulse/sitepulse/internal/collector"
	"github.com/sitepulse/sitepulse/internal/contract"
	"github.com/sitepulse/sitepulse/internal/iostore"
	"github.com/sitepulse/sitepulse/schema"
)

const testPeriod = "2025-03"

// newMemoryManager wires a fresh in-memory store stack for scheduler tests.
func newMemoryManager(t *testing.T) contract.StoreManager {
	t.Helper()
	store, err := iostore.NewSQLStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return iostore.NewStoreManager(store, store, store, iostore.NewMemoryJobStore())
}

func newSchedulerConfig(workers, capacity int) *contract.Config {
	return &contract.Config{
		HistoryPoints:        contract.DefaultHistoryPoints,
		MaxWorkers:           workers,
		QueueCapacity:        capacity,
		CollectorTimeout:     contract.DefaultCollectorTimeout,
		Precision:            contract.DefaultPrecision,
		Weights:              schema.GetDefaultCategoryWeights(),
		Defaults:             contract.GetDefaultProviderDefaults(),
		IndustryBenchmark:    contract.DefaultIndustryBenchmark,
		RecommendationImpact: contract.DefaultRecommendationImpact,
	}
}

// gateCollector blocks every fetch until released, so tests can observe
// scheduler concurrency at a fixed point.
type gateCollector struct {
	inner   *collector.FixtureCollector
	started chan string
	release chan struct{}
}

func newGateCollector() *gateCollector {
	return &gateCollector{
		inner:   collector.NewFixtureCollector(),
		started: make(chan string, 32),
		release: make(chan struct{}),
	}
}

func (g *gateCollector) FetchMeasurement(ctx context.Context, url string) (*schema.RawMeasurement, error) {
	g.started <- url
	select {
	case <-g.release:
		return g.inner.FetchMeasurement(ctx, url)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func waitForStatus(t *testing.T, s *Scheduler, jobID string, want schema.JobStatus) *schema.Job {
	t.Helper()
	var job *schema.Job
	require.Eventually(t, func() bool {
		snapshot, err := s.Status(context.Background(), jobID)
		if err != nil {
			return false
		}
		job = snapshot
		return snapshot.Status == want
	}, 5*time.Second, 10*time.Millisecond, "job %s never reached %s", jobID, want)
	return job
}

func TestSubmitRunsJobToCompletion(t *testing.T) {
	ctx := context.Background()
	mgr := newMemoryManager(t)
	s := New(newSchedulerConfig(2, 0), collector.NewFixtureCollector(), mgr)
	defer s.Shutdown()

	result, err := s.Submit(ctx, "https://example.com", testPeriod)
	require.NoError(t, err)
	require.NotEmpty(t, result.JobID)
	assert.Nil(t, result.Report)
	assert.Equal(t, baseEstimateSeconds, result.EstimatedSeconds)

	job := waitForStatus(t, s, result.JobID, schema.CompletedStatus)
	assert.Equal(t, 100, job.Progress)
	require.NotEmpty(t, job.ReportID)
	require.NotNil(t, job.CompletedAt)

	// The final status carries a resolvable report id
	report, err := mgr.GetReportStore().GetReportByID(ctx, job.ReportID)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", report.URL)
	assert.Equal(t, testPeriod, report.Period)
}

func TestSubmitReturnsExistingReport(t *testing.T) {
	ctx := context.Background()
	mgr := newMemoryManager(t)
	s := New(newSchedulerConfig(1, 0), collector.NewFixtureCollector(), mgr)
	defer s.Shutdown()

	first, err := s.Submit(ctx, "https://example.com", testPeriod)
	require.NoError(t, err)
	job := waitForStatus(t, s, first.JobID, schema.CompletedStatus)

	// The same key now resolves without creating another job
	second, err := s.Submit(ctx, "https://example.com", testPeriod)
	require.NoError(t, err)
	require.NotNil(t, second.Report)
	assert.Empty(t, second.JobID)
	assert.Equal(t, job.ReportID, second.Report.ID)
}

func TestSubmitDeduplicatesActiveJob(t *testing.T) {
	ctx := context.Background()
	mgr := newMemoryManager(t)
	gate := newGateCollector()
	s := New(newSchedulerConfig(1, 0), gate, mgr)
	defer s.Shutdown()

	first, err := s.Submit(ctx, "https://example.com", testPeriod)
	require.NoError(t, err)
	<-gate.started

	// Same key while the first job is in flight
	second, err := s.Submit(ctx, "https://example.com", testPeriod)
	require.NoError(t, err)
	assert.Equal(t, first.JobID, second.JobID)
	assert.Nil(t, second.Report)

	close(gate.release)
	waitForStatus(t, s, first.JobID, schema.CompletedStatus)
}

func TestSubmitValidatesInput(t *testing.T) {
	mgr := newMemoryManager(t)
	s := New(newSchedulerConfig(1, 0), collector.NewFixtureCollector(), mgr)
	defer s.Shutdown()

	_, err := s.Submit(context.Background(), "   ", testPeriod)
	assert.ErrorIs(t, err, contract.ErrValidation)

	_, err = s.Submit(context.Background(), "https://example.com", "not-a-period")
	assert.ErrorIs(t, err, contract.ErrValidation)
}

func TestSubmitOverloadWhenQueueFull(t *testing.T) {
	ctx := context.Background()
	mgr := newMemoryManager(t)
	gate := newGateCollector()
	s := New(newSchedulerConfig(1, 2), gate, mgr)
	defer s.Shutdown()

	// Occupy the single worker
	first, err := s.Submit(ctx, "https://one.example.com", testPeriod)
	require.NoError(t, err)
	<-gate.started

	// Fill both queue slots behind the running job
	second, err := s.Submit(ctx, "https://two.example.com", testPeriod)
	require.NoError(t, err)
	assert.Equal(t, baseEstimateSeconds, second.EstimatedSeconds)

	third, err := s.Submit(ctx, "https://three.example.com", testPeriod)
	require.NoError(t, err)
	assert.Equal(t, baseEstimateSeconds+perQueuedEstimateSeconds, third.EstimatedSeconds)

	// Nothing left for a fourth key
	_, err = s.Submit(ctx, "https://four.example.com", testPeriod)
	require.Error(t, err)
	assert.ErrorIs(t, err, contract.ErrSchedulerOverload)

	close(gate.release)
	waitForStatus(t, s, first.JobID, schema.CompletedStatus)
	waitForStatus(t, s, second.JobID, schema.CompletedStatus)
	waitForStatus(t, s, third.JobID, schema.CompletedStatus)
}

func TestProcessingNeverExceedsMaxWorkers(t *testing.T) {
	ctx := context.Background()
	mgr := newMemoryManager(t)
	gate := newGateCollector()
	s := New(newSchedulerConfig(2, 0), gate, mgr)

	urls := []string{
		"https://a.example.com",
		"https://b.example.com",
		"https://c.example.com",
		"https://d.example.com",
		"https://e.example.com",
	}
	jobIDs := make([]string, 0, len(urls))
	for _, url := range urls {
		result, err := s.Submit(ctx, url, testPeriod)
		require.NoError(t, err)
		jobIDs = append(jobIDs, result.JobID)
	}

	// Exactly two fetches begin, one per worker
	<-gate.started
	<-gate.started
	select {
	case url := <-gate.started:
		t.Fatalf("a third fetch for %s started with two workers configured", url)
	case <-time.After(150 * time.Millisecond):
	}

	close(gate.release)
	s.Shutdown()

	for _, jobID := range jobIDs {
		job, err := s.Status(ctx, jobID)
		require.NoError(t, err)
		assert.Equal(t, schema.CompletedStatus, job.Status)
	}
}

func TestCancelPendingJob(t *testing.T) {
	ctx := context.Background()
	mgr := newMemoryManager(t)
	gate := newGateCollector()
	s := New(newSchedulerConfig(1, 0), gate, mgr)

	// Occupy the worker so the second job stays queued
	running, err := s.Submit(ctx, "https://busy.example.com", testPeriod)
	require.NoError(t, err)
	<-gate.started

	queued, err := s.Submit(ctx, "https://queued.example.com", testPeriod)
	require.NoError(t, err)

	require.NoError(t, s.Cancel(ctx, queued.JobID))

	close(gate.release)
	s.Shutdown()

	job, err := s.Status(ctx, queued.JobID)
	require.NoError(t, err)
	assert.Equal(t, schema.CancelledStatus, job.Status)

	// The cancelled job produced no report
	_, err = mgr.GetReportStore().GetReport(ctx, "https://queued.example.com", testPeriod)
	assert.ErrorIs(t, err, contract.ErrNotFound)

	waitJob, err := s.Status(ctx, running.JobID)
	require.NoError(t, err)
	assert.Equal(t, schema.CompletedStatus, waitJob.Status)
}

func TestCancelProcessingJobInterruptsRun(t *testing.T) {
	ctx := context.Background()
	mgr := newMemoryManager(t)
	gate := newGateCollector()
	s := New(newSchedulerConfig(1, 0), gate, mgr)

	result, err := s.Submit(ctx, "https://example.com", testPeriod)
	require.NoError(t, err)
	<-gate.started
	waitForStatus(t, s, result.JobID, schema.ProcessingStatus)

	require.NoError(t, s.Cancel(ctx, result.JobID))
	s.Shutdown()

	job, err := s.Status(ctx, result.JobID)
	require.NoError(t, err)
	assert.Equal(t, schema.CancelledStatus, job.Status)

	// Interrupting the run left no partial report behind
	_, err = mgr.GetReportStore().GetReport(ctx, "https://example.com", testPeriod)
	assert.ErrorIs(t, err, contract.ErrNotFound)
}

func TestCancelTerminalJobRejected(t *testing.T) {
	ctx := context.Background()
	mgr := newMemoryManager(t)
	s := New(newSchedulerConfig(1, 0), collector.NewFixtureCollector(), mgr)
	defer s.Shutdown()

	result, err := s.Submit(ctx, "https://example.com", testPeriod)
	require.NoError(t, err)
	waitForStatus(t, s, result.JobID, schema.CompletedStatus)

	err = s.Cancel(ctx, result.JobID)
	require.Error(t, err)
	assert.ErrorIs(t, err, contract.ErrValidation)
}

func TestSubmitAfterShutdownFails(t *testing.T) {
	mgr := newMemoryManager(t)
	s := New(newSchedulerConfig(1, 0), collector.NewFixtureCollector(), mgr)
	s.Shutdown()

	_, err := s.Submit(context.Background(), "https://example.com", testPeriod)
	require.EqualError(t, err, "scheduler is shut down")
}

func TestFailedFetchFailsOnlyThatJob(t *testing.T) {
	ctx := context.Background()
	mgr := newMemoryManager(t)

	fixture, err := collector.NewFixtureCollector().FetchMeasurement(ctx, "https://fine.example.com")
	require.NoError(t, err)

	failing := &collector.MockCollector{}
	failing.On("FetchMeasurement", mock.Anything, "https://broken.example.com").Return(nil, errors.New("provider exploded"))
	failing.On("FetchMeasurement", mock.Anything, "https://fine.example.com").Return(fixture, nil)

	s := New(newSchedulerConfig(1, 0), failing, mgr)
	defer s.Shutdown()

	broken, err := s.Submit(ctx, "https://broken.example.com", testPeriod)
	require.NoError(t, err)
	fine, err := s.Submit(ctx, "https://fine.example.com", testPeriod)
	require.NoError(t, err)

	brokenJob := waitForStatus(t, s, broken.JobID, schema.FailedStatus)
	assert.Contains(t, brokenJob.Error, "provider exploded")
	assert.Empty(t, brokenJob.ReportID)

	fineJob := waitForStatus(t, s, fine.JobID, schema.CompletedStatus)
	assert.NotEmpty(t, fineJob.ReportID)
}
