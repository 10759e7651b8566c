package mcp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/sitepulse/sitepulse/internal/contract"
	"github.com/sitepulse/sitepulse/internal/outwriter"
	"github.com/sitepulse/sitepulse/internal/scheduler"
	"github.com/sitepulse/sitepulse/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	sched *scheduler.Scheduler
	mgr   contract.StoreManager
}

func (h *toolHandler) handleGenerateReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url := request.GetString("url", "")
	period := request.GetString("period", "")

	result, err := h.sched.Submit(ctx, url, period)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("submit failed: %v", err)), nil
	}

	if result.Report != nil {
		jsonData, _ := json.MarshalIndent(result.Report, "", "  ")
		return mcp.NewToolResultText(string(jsonData)), nil
	}

	jsonData, _ := json.MarshalIndent(map[string]any{
		"jobId":            result.JobID,
		"estimatedSeconds": result.EstimatedSeconds,
		"status":           schema.PendingStatus,
	}, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetJobStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jobID := request.GetString("job_id", "")

	job, err := h.sched.Status(ctx, jobID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("job lookup failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(job, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reportID := request.GetString("report_id", "")

	report, err := h.mgr.GetReportStore().GetReportByID(ctx, reportID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("report lookup failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(report, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleExportReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reportID := request.GetString("report_id", "")
	format := schema.ExportFormat(request.GetString("format", ""))

	report, err := h.mgr.GetReportStore().GetReportByID(ctx, reportID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("report lookup failed: %v", err)), nil
	}

	payload, err := outwriter.ExportReport(report, format)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("export failed: %v", err)), nil
	}

	// PDF bytes do not survive a text content block as-is
	if format == schema.PDFExport {
		return mcp.NewToolResultText(base64.StdEncoding.EncodeToString(payload)), nil
	}
	return mcp.NewToolResultText(string(payload)), nil
}

func (h *toolHandler) handleScheduleReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url := schema.NormalizeURL(request.GetString("url", ""))
	cadence := request.GetString("cadence", "")

	if url == "" {
		return mcp.NewToolResultError("url is required"), nil
	}
	if !contract.IsValidCadence(cadence) {
		return mcp.NewToolResultError("cadence must be daily, weekly or monthly"), nil
	}

	entry := &schema.ScheduleEntry{
		ID:         uuid.NewString(),
		URL:        url,
		Cadence:    strings.ToLower(strings.TrimSpace(cadence)),
		Recipients: schema.ParseRecipients(request.GetString("recipients", "")),
		CreatedAt:  time.Now().UTC(),
	}
	if err := h.mgr.GetScheduleStore().AddSchedule(ctx, entry); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("schedule failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(map[string]any{"scheduleId": entry.ID}, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
