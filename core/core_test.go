package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sitepulse/sitepulse/internal/collector"
	"github.com/sitepulse/sitepulse/internal/iostore"
	"github.com/sitepulse/sitepulse/schema"
)

// newMemoryManager wires a fresh in-memory store stack for pipeline tests.
func newMemoryManager(t *testing.T) *iostore.StoreManagerImpl {
	t.Helper()
	store, err := iostore.NewSQLStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return iostore.NewStoreManager(store, store, store, iostore.NewMemoryJobStore())
}

// TestExecuteReportGeneratesAndReuses validates the reuse-or-generate entry
// point end to end against in-memory stores.
func TestExecuteReportGeneratesAndReuses(t *testing.T) {
	ctx := context.Background()
	cfg := newTestConfig()
	mgr := newMemoryManager(t)
	fixture := collector.NewFixtureCollector()

	report, reused, err := ExecuteReport(ctx, cfg, fixture, mgr)
	require.NoError(t, err)
	require.NotNil(t, report)
	assert.False(t, reused)
	assert.Equal(t, cfg.URL, report.URL)
	assert.Equal(t, cfg.Period, report.Period)
	assert.Len(t, report.CategoryScores, 5)
	assert.True(t, report.OverallScore >= 0 && report.OverallScore <= 100)
	assert.NotEmpty(t, report.Recommendations)
	assert.Equal(t, "1 month", report.Forecast.Timeframe)

	// The run appended one history point carrying the fresh score
	points, err := mgr.GetHistoryStore().GetHistory(ctx, cfg.URL, cfg.HistoryPoints)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.InDelta(t, float64(report.OverallScore), points[0].OverallScore, 0.001)
	assert.Equal(t, len(report.Issues), points[0].IssueCount)

	// A second call reuses the stored document instead of regenerating
	again, reused, err := ExecuteReport(ctx, cfg, fixture, mgr)
	require.NoError(t, err)
	assert.True(t, reused)
	assert.Equal(t, report.ID, again.ID)

	points, err = mgr.GetHistoryStore().GetHistory(ctx, cfg.URL, cfg.HistoryPoints)
	require.NoError(t, err)
	assert.Len(t, points, 1, "reuse must not append another point")
}

// TestRunReportPipelineProgress ensures progress moves monotonically to 100.
func TestRunReportPipelineProgress(t *testing.T) {
	ctx := context.Background()
	cfg := newTestConfig()
	mgr := newMemoryManager(t)

	var progress []int
	report, err := RunReportPipeline(ctx, cfg, collector.NewFixtureCollector(), mgr, func(pct int) {
		progress = append(progress, pct)
	})
	require.NoError(t, err)
	require.NotNil(t, report)

	require.NotEmpty(t, progress)
	assert.Equal(t, 100, progress[len(progress)-1])
	for i := 1; i < len(progress); i++ {
		assert.Greater(t, progress[i], progress[i-1], "progress must be monotonic")
	}
}

// TestRunReportPipelineTrendFromHistory validates that stored points feed the
// trend stage.
func TestRunReportPipelineTrendFromHistory(t *testing.T) {
	ctx := context.Background()
	cfg := newTestConfig()
	mgr := newMemoryManager(t)

	// Seed three prior monthly points
	for month := 1; month <= 3; month++ {
		point := schema.HistoricalPoint{
			Date:         cfg.PeriodStart.AddDate(0, month-4, 0),
			OverallScore: float64(30 + month*2),
		}
		require.NoError(t, mgr.GetHistoryStore().AppendPoint(ctx, cfg.URL, point))
	}

	report, err := RunReportPipeline(ctx, cfg, collector.NewFixtureCollector(), mgr, nil)
	require.NoError(t, err)
	assert.True(t, report.Trend.HasEnoughData)
	assert.NotZero(t, report.Trend.Confidence)
}

// TestRunReportPipelineCollectorError ensures a failed fetch aborts the run
// without storing anything.
func TestRunReportPipelineCollectorError(t *testing.T) {
	ctx := context.Background()
	cfg := newTestConfig()
	mgr := newMemoryManager(t)

	mockCollector := &collector.MockCollector{}
	mockCollector.On("FetchMeasurement", mock.Anything, cfg.URL).Return(nil, assert.AnError)

	report, err := RunReportPipeline(ctx, cfg, mockCollector, mgr, nil)
	assert.Error(t, err)
	assert.Nil(t, report)

	status, err := mgr.GetReportStore().GetStatus()
	require.NoError(t, err)
	assert.Zero(t, status.TotalReports)

	mockCollector.AssertExpectations(t)
}

// TestRunReportPipelineCancelledContext ensures an already-cancelled caller
// never produces a report.
func TestRunReportPipelineCancelledContext(t *testing.T) {
	cfg := newTestConfig()
	mgr := newMemoryManager(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := RunReportPipeline(ctx, cfg, collector.NewFixtureCollector(), mgr, nil)
	assert.Error(t, err)
	assert.Nil(t, report)
}

// TestRunReportPipelineHistoryFetchTolerated ensures an unreadable history
// store degrades the trend instead of failing the run.
func TestRunReportPipelineHistoryFetchTolerated(t *testing.T) {
	ctx := context.Background()
	cfg := newTestConfig()

	mockReports := &iostore.MockReportStore{}
	mockHistory := &iostore.MockHistoryStore{}
	mockMgr := &iostore.MockStoreManager{}

	// Setup mock expectations
	mockMgr.On("GetReportStore").Return(mockReports)
	mockMgr.On("GetHistoryStore").Return(mockHistory)
	mockHistory.On("GetHistory", mock.Anything, cfg.URL, cfg.HistoryPoints).Return(nil, assert.AnError)
	mockReports.On("PutReport", mock.Anything, mock.Anything).Return(nil)
	mockHistory.On("AppendPoint", mock.Anything, cfg.URL, mock.Anything).Return(nil)

	report, err := RunReportPipeline(ctx, cfg, collector.NewFixtureCollector(), mockMgr, nil)
	require.NoError(t, err)
	require.NotNil(t, report)
	assert.False(t, report.Trend.HasEnoughData)

	mockMgr.AssertExpectations(t)
	mockReports.AssertExpectations(t)
	mockHistory.AssertExpectations(t)
}

// TestRunReportPipelinePersistError ensures a failed report write surfaces.
func TestRunReportPipelinePersistError(t *testing.T) {
	ctx := context.Background()
	cfg := newTestConfig()

	mockReports := &iostore.MockReportStore{}
	mockHistory := &iostore.MockHistoryStore{}
	mockMgr := &iostore.MockStoreManager{}

	// Setup mock expectations
	mockMgr.On("GetReportStore").Return(mockReports)
	mockMgr.On("GetHistoryStore").Return(mockHistory)
	mockHistory.On("GetHistory", mock.Anything, cfg.URL, cfg.HistoryPoints).Return(nil, nil)
	mockReports.On("PutReport", mock.Anything, mock.Anything).Return(assert.AnError)

	report, err := RunReportPipeline(ctx, cfg, collector.NewFixtureCollector(), mockMgr, nil)
	assert.Error(t, err)
	assert.Nil(t, report)
	assert.Contains(t, err.Error(), "store report")

	mockMgr.AssertExpectations(t)
	mockReports.AssertExpectations(t)
}

// TestNewHistoryPoint validates the fix-count derivation.
func TestNewHistoryPoint(t *testing.T) {
	report := &schema.Report{
		PeriodStart:  newTestConfig().PeriodStart,
		OverallScore: 70,
		Issues:       []schema.Issue{{Type: issueMissingViewport}},
	}
	m := &schema.RawMeasurement{TrafficEstimate: 1200}

	t.Run("no prior history", func(t *testing.T) {
		point := newHistoryPoint(report, m, nil)
		assert.Equal(t, report.PeriodStart, point.Date)
		assert.InDelta(t, 70, point.OverallScore, 0.001)
		assert.Equal(t, 1, point.IssueCount)
		assert.Zero(t, point.FixCount)
		assert.Equal(t, 1200, point.TrafficEstimate)
	})

	t.Run("issues resolved since the previous point", func(t *testing.T) {
		history := []schema.HistoricalPoint{{IssueCount: 4}}
		point := newHistoryPoint(report, m, history)
		assert.Equal(t, 3, point.FixCount)
	})

	t.Run("issue count grew", func(t *testing.T) {
		history := []schema.HistoricalPoint{{IssueCount: 1}}
		point := newHistoryPoint(report, m, history)
		assert.Zero(t, point.FixCount)
	})
}
