// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/sitepulse/sitepulse/internal/contract"
	"github.com/sitepulse/sitepulse/internal/scheduler"
)

// NewMCPServer initializes and configures the SitePulse MCP server
// without starting it. This is exposed for unit testing.
func NewMCPServer(sched *scheduler.Scheduler, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"SitePulse Report Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		sched: sched,
		mgr:   mgr,
	}

	// --- 1. Tool: generate_report ---
	s.AddTool(mcp.NewTool("generate_report",
		mcp.WithDescription("Submit an SEO report job for a site and period. Returns the stored report directly when one already exists."),
		mcp.WithString("url", mcp.Description("Site URL to analyze."), mcp.Required()),
		mcp.WithString("period", mcp.Description("Reporting period as YYYY-MM, 'current' or 'previous'. Defaults to the current month.")),
	), h.handleGenerateReport)

	// --- 2. Tool: get_job_status ---
	s.AddTool(mcp.NewTool("get_job_status",
		mcp.WithDescription("Check the status and progress of a submitted report job."),
		mcp.WithString("job_id", mcp.Description("Identifier returned by generate_report."), mcp.Required()),
	), h.handleGetJobStatus)

	// --- 3. Tool: get_report ---
	s.AddTool(mcp.NewTool("get_report",
		mcp.WithDescription("Fetch a compiled SEO report by its identifier."),
		mcp.WithString("report_id", mcp.Description("Report identifier, e.g. from a completed job."), mcp.Required()),
	), h.handleGetReport)

	// --- 4. Tool: export_report ---
	s.AddTool(mcp.NewTool("export_report",
		mcp.WithDescription("Render a compiled report as a standalone payload. The portable-document payload is base64 encoded."),
		mcp.WithString("report_id", mcp.Description("Report identifier to export."), mcp.Required()),
		mcp.WithString("format", mcp.Description("Export format. Defaults to structured-json."), mcp.Enum("structured-json", "tabular-csv", "portable-document")),
	), h.handleExportReport)

	// --- 5. Tool: schedule_report ---
	s.AddTool(mcp.NewTool("schedule_report",
		mcp.WithDescription("Register a recurring report for a site. Registration only; nothing executes the cadence here."),
		mcp.WithString("url", mcp.Description("Site URL to schedule."), mcp.Required()),
		mcp.WithString("cadence", mcp.Description("How often to rerun: daily, weekly or monthly."), mcp.Required()),
		mcp.WithString("recipients", mcp.Description("Comma separated email recipients.")),
	), h.handleScheduleReport)

	return s
}

// StartMCPServer starts the SitePulse MCP server on stdio.
func StartMCPServer(_ context.Context, sched *scheduler.Scheduler, mgr contract.StoreManager) error {
	s := NewMCPServer(sched, mgr)
	return server.ServeStdio(s)
}
