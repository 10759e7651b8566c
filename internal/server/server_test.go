package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitepulse/sitepulse/internal/collector"
	"github.com/sitepulse/sitepulse/internal/contract"
	"github.com/sitepulse/sitepulse/internal/iostore"
	"github.com/sitepulse/sitepulse/internal/scheduler"
	"github.com/sitepulse/sitepulse/schema"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T, coll contract.MetricCollector, workers, capacity int) (*Server, *gin.Engine) {
	t.Helper()
	store, err := iostore.NewSQLStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	mgr := iostore.NewStoreManager(store, store, store, iostore.NewMemoryJobStore())

	cfg := &contract.Config{
		HistoryPoints:        contract.DefaultHistoryPoints,
		MaxWorkers:           workers,
		QueueCapacity:        capacity,
		CollectorTimeout:     contract.DefaultCollectorTimeout,
		Precision:            contract.DefaultPrecision,
		Weights:              schema.GetDefaultCategoryWeights(),
		Defaults:             contract.GetDefaultProviderDefaults(),
		IndustryBenchmark:    contract.DefaultIndustryBenchmark,
		RecommendationImpact: contract.DefaultRecommendationImpact,
		ServerPort:           contract.DefaultServerPort,
	}
	sched := scheduler.New(cfg, coll, mgr)
	t.Cleanup(sched.Shutdown)

	srv := New(cfg, sched, mgr)
	return srv, srv.Router()
}

func doRequest(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			panic(err)
		}
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var parsed map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	return parsed
}

// waitForCompleted polls the scheduler directly so the poll loop does
// not eat into the HTTP rate limit budget.
func waitForCompleted(t *testing.T, srv *Server, jobID string) *schema.Job {
	t.Helper()
	var job *schema.Job
	require.Eventually(t, func() bool {
		snapshot, err := srv.sched.Status(context.Background(), jobID)
		if err != nil {
			return false
		}
		job = snapshot
		return snapshot.Status == schema.CompletedStatus
	}, 5*time.Second, 10*time.Millisecond)
	return job
}

func TestHealthEndpoint(t *testing.T) {
	_, router := newTestServer(t, collector.NewFixtureCollector(), 1, 0)

	w := doRequest(router, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decodeBody(t, w)["status"])
}

func TestSubmitReportLifecycle(t *testing.T) {
	srv, router := newTestServer(t, collector.NewFixtureCollector(), 2, 0)

	submitBody := map[string]string{"url": "https://example.com", "period": "2025-03"}
	w := doRequest(router, http.MethodPost, "/api/reports", submitBody)
	require.Equal(t, http.StatusAccepted, w.Code)
	accepted := decodeBody(t, w)
	jobID, _ := accepted["jobId"].(string)
	require.NotEmpty(t, jobID)
	assert.EqualValues(t, 10, accepted["estimatedSeconds"])
	assert.Equal(t, "pending", accepted["status"])

	job := waitForCompleted(t, srv, jobID)

	w = doRequest(router, http.MethodGet, "/api/jobs/"+jobID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	status := decodeBody(t, w)
	assert.Equal(t, "completed", status["status"])
	assert.Equal(t, job.ReportID, status["reportId"])

	w = doRequest(router, http.MethodGet, "/api/reports/"+job.ReportID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var report schema.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, "https://example.com", report.URL)
	assert.Equal(t, "2025-03", report.Period)

	// The same key now answers with the stored report, no new job
	w = doRequest(router, http.MethodPost, "/api/reports", submitBody)
	require.Equal(t, http.StatusOK, w.Code)
	var again schema.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &again))
	assert.Equal(t, report.ID, again.ID)
}

func TestSubmitReportValidation(t *testing.T) {
	_, router := newTestServer(t, collector.NewFixtureCollector(), 1, 0)

	w := doRequest(router, http.MethodPost, "/api/reports", map[string]string{"period": "2025-03"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, http.MethodPost, "/api/reports", map[string]string{
		"url":    "https://example.com",
		"period": "not-a-period",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody(t, w)["error"], "period")
}

func TestJobAndReportNotFound(t *testing.T) {
	_, router := newTestServer(t, collector.NewFixtureCollector(), 1, 0)

	w := doRequest(router, http.MethodGet, "/api/jobs/00000000-0000-0000-0000-000000000000", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(router, http.MethodGet, "/api/reports/00000000-0000-0000-0000-000000000000", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExportEndpointFormats(t *testing.T) {
	srv, router := newTestServer(t, collector.NewFixtureCollector(), 1, 0)

	w := doRequest(router, http.MethodPost, "/api/reports", map[string]string{
		"url": "https://example.com", "period": "2025-03",
	})
	require.Equal(t, http.StatusAccepted, w.Code)
	jobID, _ := decodeBody(t, w)["jobId"].(string)
	job := waitForCompleted(t, srv, jobID)
	base := "/api/reports/" + job.ReportID + "/export"

	w = doRequest(router, http.MethodGet, base+"?format=tabular-csv", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".csv")
	assert.Contains(t, w.Body.String(), "summary,url,https://example.com")

	w = doRequest(router, http.MethodGet, base+"?format=portable-document", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))

	w = doRequest(router, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	var exported schema.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &exported))
	assert.Equal(t, job.ReportID, exported.ID)

	w = doRequest(router, http.MethodGet, base+"?format=yaml", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateScheduleEndpoint(t *testing.T) {
	srv, router := newTestServer(t, collector.NewFixtureCollector(), 1, 0)

	w := doRequest(router, http.MethodPost, "/api/schedules", map[string]any{
		"url":        "example.com",
		"cadence":    "weekly",
		"recipients": []string{"dev@example.com", " seo@example.com "},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	scheduleID, _ := decodeBody(t, w)["scheduleId"].(string)
	require.NotEmpty(t, scheduleID)

	entries, err := srv.mgr.GetScheduleStore().ListSchedules(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, scheduleID, entries[0].ID)
	assert.Equal(t, "https://example.com", entries[0].URL)
	assert.Equal(t, []string{"dev@example.com", "seo@example.com"}, entries[0].Recipients)

	w = doRequest(router, http.MethodPost, "/api/schedules", map[string]any{
		"url": "example.com", "cadence": "hourly",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, http.MethodPost, "/api/schedules", map[string]any{"cadence": "weekly"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

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

func TestSubmitOverloadResponds503(t *testing.T) {
	gate := newGateCollector()
	_, router := newTestServer(t, gate, 1, 1)
	defer close(gate.release)

	w := doRequest(router, http.MethodPost, "/api/reports", map[string]string{
		"url": "https://one.example.com", "period": "2025-03",
	})
	require.Equal(t, http.StatusAccepted, w.Code)
	<-gate.started

	w = doRequest(router, http.MethodPost, "/api/reports", map[string]string{
		"url": "https://two.example.com", "period": "2025-03",
	})
	require.Equal(t, http.StatusAccepted, w.Code)

	w = doRequest(router, http.MethodPost, "/api/reports", map[string]string{
		"url": "https://three.example.com", "period": "2025-03",
	})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, decodeBody(t, w)["error"], "queued")
}

func TestRateLimiterBlocksBursts(t *testing.T) {
	engine := gin.New()
	engine.Use(newClientRateLimiter(1, 2).middleware())
	engine.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for range 3 {
		w := doRequest(engine, http.MethodGet, "/ping", nil)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestCORSPreflight(t *testing.T) {
	_, router := newTestServer(t, collector.NewFixtureCollector(), 1, 0)

	w := doRequest(router, http.MethodOptions, "/api/reports", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
