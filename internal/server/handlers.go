package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sitepulse/sitepulse/internal/contract"
	"github.com/sitepulse/sitepulse/internal/logger"
	"github.com/sitepulse/sitepulse/internal/outwriter"
	"github.com/sitepulse/sitepulse/schema"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type submitReportRequest struct {
	URL    string `json:"url" binding:"required"`
	Period string `json:"period"`
}

// handleSubmitReport enqueues a report job, or answers directly when a
// compiled report already exists for the (url, period) key.
func (s *Server) handleSubmitReport(c *gin.Context) {
	var req submitReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}

	result, err := s.sched.Submit(c.Request.Context(), req.URL, req.Period)
	if err != nil {
		writeError(c, err)
		return
	}
	if result.Report != nil {
		c.JSON(http.StatusOK, result.Report)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{
		"jobId":            result.JobID,
		"estimatedSeconds": result.EstimatedSeconds,
		"status":           schema.PendingStatus,
	})
}

func (s *Server) handleJobStatus(c *gin.Context) {
	job, err := s.sched.Status(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (s *Server) handleGetReport(c *gin.Context) {
	report, err := s.mgr.GetReportStore().GetReportByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// handleExportReport streams one report as a downloadable payload in
// the requested format. Unknown formats fail without enqueuing work.
func (s *Server) handleExportReport(c *gin.Context) {
	report, err := s.mgr.GetReportStore().GetReportByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	format := schema.ExportFormat(strings.ToLower(c.Query("format")))
	payload, err := outwriter.ExportReport(report, format)
	if err != nil {
		writeError(c, err)
		return
	}

	filename := fmt.Sprintf("seo-report-%s.%s", report.ID, outwriter.ExportFileExtension(format))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, outwriter.ExportContentType(format), payload)
}

type createScheduleRequest struct {
	URL        string   `json:"url" binding:"required"`
	Cadence    string   `json:"cadence" binding:"required"`
	Recipients []string `json:"recipients"`
}

// handleCreateSchedule registers a recurring report request. Only the
// registration is stored; nothing executes it here.
func (s *Server) handleCreateSchedule(c *gin.Context) {
	var req createScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url and cadence are required"})
		return
	}

	url := schema.NormalizeURL(req.URL)
	if url == "" {
		writeError(c, fmt.Errorf("%w: url is required", contract.ErrValidation))
		return
	}
	if !contract.IsValidCadence(req.Cadence) {
		writeError(c, fmt.Errorf("%w: cadence must be daily, weekly or monthly", contract.ErrValidation))
		return
	}

	entry := &schema.ScheduleEntry{
		ID:         uuid.NewString(),
		URL:        url,
		Cadence:    strings.ToLower(strings.TrimSpace(req.Cadence)),
		Recipients: schema.ParseRecipients(strings.Join(req.Recipients, ",")),
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.mgr.GetScheduleStore().AddSchedule(c.Request.Context(), entry); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"scheduleId": entry.ID})
}

// writeError maps the error taxonomy onto HTTP statuses. Validation
// messages pass through verbatim; anything unclassified stays opaque.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, contract.ErrValidation), errors.Is(err, contract.ErrUnsupportedFormat):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, contract.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, contract.ErrSchedulerOverload):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		logger.Log.WithError(err).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
