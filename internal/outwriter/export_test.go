package outwriter

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sitepulse/sitepulse/internal/contract"
	"github.com/sitepulse/sitepulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportReportJSON(t *testing.T) {
	report := sampleReport()

	payload, err := ExportReport(report, schema.JSONExport)
	require.NoError(t, err)

	// The JSON payload round-trips back into the report
	var decoded schema.Report
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, report.ID, decoded.ID)
	assert.Equal(t, report.URL, decoded.URL)
	assert.Equal(t, 66, decoded.OverallScore)
	assert.Len(t, decoded.Recommendations, 2)
	assert.Len(t, decoded.CategoryScores, 5)
}

func TestExportReportEmptyFormatDefaultsToJSON(t *testing.T) {
	report := sampleReport()

	explicit, err := ExportReport(report, schema.JSONExport)
	require.NoError(t, err)
	fallback, err := ExportReport(report, "")
	require.NoError(t, err)

	assert.Equal(t, explicit, fallback)
}

func TestExportReportCSV(t *testing.T) {
	report := sampleReport()

	payload, err := ExportReport(report, schema.CSVExport)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(payload)), "\n")
	assert.Equal(t, "section,item,value,note", lines[0])
	assert.Contains(t, string(payload), "summary,overall_score,66,Good")
	assert.Contains(t, string(payload), "category,onPage,78.0")
	assert.Contains(t, string(payload), "forecast,predicted_score,74.0,1 month")
}

func TestExportReportPDF(t *testing.T) {
	report := sampleReport()

	payload, err := ExportReport(report, schema.PDFExport)
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(payload, []byte("%PDF-")), "payload should start with the PDF magic bytes")
	assert.Greater(t, len(payload), 1000)
}

func TestExportReportUnsupportedFormat(t *testing.T) {
	report := sampleReport()

	payload, err := ExportReport(report, schema.ExportFormat("yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, contract.ErrUnsupportedFormat)
	assert.Nil(t, payload)
}

func TestExportContentType(t *testing.T) {
	assert.Equal(t, "application/json", ExportContentType(schema.JSONExport))
	assert.Equal(t, "text/csv", ExportContentType(schema.CSVExport))
	assert.Equal(t, "application/pdf", ExportContentType(schema.PDFExport))
	assert.Equal(t, "application/json", ExportContentType(""))
}

func TestExportFileExtension(t *testing.T) {
	assert.Equal(t, "json", ExportFileExtension(schema.JSONExport))
	assert.Equal(t, "csv", ExportFileExtension(schema.CSVExport))
	assert.Equal(t, "pdf", ExportFileExtension(schema.PDFExport))
	assert.Equal(t, "json", ExportFileExtension(""))
}
