package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"

	"github.com/sitepulse/sitepulse/internal/contract"
	"github.com/sitepulse/sitepulse/schema"
)

// ExportReport renders one compiled report as a standalone byte payload
// in the requested format. An empty format falls back to the default
// structured-json form. Unknown formats fail immediately with
// ErrUnsupportedFormat and never enqueue work.
func ExportReport(report *schema.Report, format schema.ExportFormat) ([]byte, error) {
	switch format {
	case schema.JSONExport, "":
		return exportJSONPayload(report)
	case schema.CSVExport:
		return exportCSVPayload(report)
	case schema.PDFExport:
		return exportPDFPayload(report)
	default:
		return nil, fmt.Errorf("%w: '%s'", contract.ErrUnsupportedFormat, format)
	}
}

// ExportContentType returns the MIME type matching an export payload.
func ExportContentType(format schema.ExportFormat) string {
	switch format {
	case schema.CSVExport:
		return "text/csv"
	case schema.PDFExport:
		return "application/pdf"
	default:
		return "application/json"
	}
}

// ExportFileExtension returns the conventional file extension for an
// export payload, without the leading dot.
func ExportFileExtension(format schema.ExportFormat) string {
	switch format {
	case schema.CSVExport:
		return "csv"
	case schema.PDFExport:
		return "pdf"
	default:
		return "json"
	}
}

// exportJSONPayload renders the report as indented JSON.
func exportJSONPayload(report *schema.Report) ([]byte, error) {
	payload, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}
	return payload, nil
}

// exportCSVPayload renders the report as section-tagged CSV rows, the
// same flattened form the CSV output mode prints.
func exportCSVPayload(report *schema.Report) ([]byte, error) {
	fmtFloat, _ := createFormatters(contract.DefaultPrecision)

	var buf bytes.Buffer
	if err := writeCSVWithHeader(&buf, reportCSVHeader, func(cw *csv.Writer) error {
		return writeCSVReportRows(cw, report, fmtFloat)
	}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
