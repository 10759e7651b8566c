package mcp_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitepulse/sitepulse/internal/collector"
	"github.com/sitepulse/sitepulse/internal/contract"
	"github.com/sitepulse/sitepulse/internal/iostore"
	mcp_internal "github.com/sitepulse/sitepulse/internal/mcp"
	"github.com/sitepulse/sitepulse/internal/scheduler"
	"github.com/sitepulse/sitepulse/schema"
)

func newTestMCPServer(t *testing.T) (*server.MCPServer, *scheduler.Scheduler) {
	t.Helper()
	store, err := iostore.NewSQLStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	mgr := iostore.NewStoreManager(store, store, store, iostore.NewMemoryJobStore())

	cfg := &contract.Config{
		HistoryPoints:        contract.DefaultHistoryPoints,
		MaxWorkers:           2,
		CollectorTimeout:     contract.DefaultCollectorTimeout,
		Precision:            contract.DefaultPrecision,
		Weights:              schema.GetDefaultCategoryWeights(),
		Defaults:             contract.GetDefaultProviderDefaults(),
		IndustryBenchmark:    contract.DefaultIndustryBenchmark,
		RecommendationImpact: contract.DefaultRecommendationImpact,
	}
	sched := scheduler.New(cfg, collector.NewFixtureCollector(), mgr)
	t.Cleanup(sched.Shutdown)

	return mcp_internal.NewMCPServer(sched, mgr), sched
}

func callTool(t *testing.T, s *server.MCPServer, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	return res
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	return res.Content[0].(mcp.TextContent).Text
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	s, _ := newTestMCPServer(t)

	t.Run("generate_report missing url", func(t *testing.T) {
		res := callTool(t, s, "generate_report", map[string]any{"url": ""})
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, resultText(t, res), "url is required")
	})

	t.Run("generate_report invalid period", func(t *testing.T) {
		res := callTool(t, s, "generate_report", map[string]any{
			"url":    "https://example.com",
			"period": "next-tuesday",
		})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "invalid period")
	})

	t.Run("get_job_status unknown id", func(t *testing.T) {
		res := callTool(t, s, "get_job_status", map[string]any{"job_id": "no-such-job"})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "not found")
	})

	t.Run("get_report unknown id", func(t *testing.T) {
		res := callTool(t, s, "get_report", map[string]any{"report_id": "no-such-report"})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "not found")
	})

	t.Run("export_report unknown format", func(t *testing.T) {
		res := callTool(t, s, "export_report", map[string]any{
			"report_id": "whatever",
			"format":    "yaml",
		})
		assert.True(t, res.IsError)
	})

	t.Run("schedule_report missing url", func(t *testing.T) {
		res := callTool(t, s, "schedule_report", map[string]any{
			"url":     "",
			"cadence": "weekly",
		})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "url is required")
	})

	t.Run("schedule_report invalid cadence", func(t *testing.T) {
		res := callTool(t, s, "schedule_report", map[string]any{
			"url":     "https://example.com",
			"cadence": "hourly",
		})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "cadence")
	})
}

func TestMCPServerReportFlow(t *testing.T) {
	s, sched := newTestMCPServer(t)

	res := callTool(t, s, "generate_report", map[string]any{
		"url":    "https://example.com",
		"period": "2025-03",
	})
	require.False(t, res.IsError)

	var submitted struct {
		JobID string `json:"jobId"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &submitted))
	require.NotEmpty(t, submitted.JobID)

	var job *schema.Job
	require.Eventually(t, func() bool {
		snapshot, err := sched.Status(context.Background(), submitted.JobID)
		if err != nil {
			return false
		}
		job = snapshot
		return snapshot.Status == schema.CompletedStatus
	}, 5*time.Second, 10*time.Millisecond)

	res = callTool(t, s, "get_job_status", map[string]any{"job_id": submitted.JobID})
	require.False(t, res.IsError)
	assert.Contains(t, resultText(t, res), `"status": "completed"`)

	res = callTool(t, s, "get_report", map[string]any{"report_id": job.ReportID})
	require.False(t, res.IsError)
	assert.Contains(t, resultText(t, res), `"url": "https://example.com"`)

	res = callTool(t, s, "export_report", map[string]any{
		"report_id": job.ReportID,
		"format":    "tabular-csv",
	})
	require.False(t, res.IsError)
	assert.Contains(t, resultText(t, res), "summary,url,https://example.com")

	// Same key resolves straight to the stored report now
	res = callTool(t, s, "generate_report", map[string]any{
		"url":    "https://example.com",
		"period": "2025-03",
	})
	require.False(t, res.IsError)
	assert.Contains(t, resultText(t, res), `"overallScore"`)
}

func TestMCPServerScheduleTool(t *testing.T) {
	s, _ := newTestMCPServer(t)

	res := callTool(t, s, "schedule_report", map[string]any{
		"url":        "example.com",
		"cadence":    "Weekly",
		"recipients": "a@x.com, b@y.com",
	})
	require.False(t, res.IsError)

	var created struct {
		ScheduleID string `json:"scheduleId"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &created))
	assert.NotEmpty(t, created.ScheduleID)
}
