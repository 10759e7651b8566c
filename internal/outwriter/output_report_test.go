package outwriter

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sitepulse/sitepulse/internal/contract"
	"github.com/sitepulse/sitepulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReportTables(t *testing.T) {
	report := sampleReport()
	cfg := &contract.Config{Output: schema.TableOut, Precision: 1, Width: 120}
	fmtFloat, _ := createFormatters(cfg.Precision)

	var buf bytes.Buffer
	err := writeReportTables(&buf, report, cfg, fmtFloat, 100*time.Millisecond)
	require.NoError(t, err)

	output := buf.String()

	// Summary block
	assert.Contains(t, output, "SEO Report")
	assert.Contains(t, output, "URL: https://example.com")
	assert.Contains(t, output, "Period: 2025-03 (2025-03-01 to 2025-04-01)")
	assert.Contains(t, output, "Overall: 66 Good (benchmark delta +1.0)")

	// Category table
	assert.Contains(t, output, "Category Scores")
	assert.Contains(t, output, "On-Page")
	assert.Contains(t, output, "78.0")
	assert.Contains(t, output, "Authority")
	assert.Contains(t, output, "alt_text")

	// Issue and recommendation tables
	assert.Contains(t, output, "Issues")
	assert.Contains(t, output, "slow-lcp")
	assert.Contains(t, output, "critical")
	assert.Contains(t, output, "Recommendations")
	assert.Contains(t, output, "Vitals")

	// Trend and forecast sections
	assert.Contains(t, output, "Direction: ↑ increasing (confidence 0.6)")
	assert.Contains(t, output, "Predicted score in 1 month: 74.0 (confidence 0.6)")
	assert.Contains(t, output, "Range: 85.1 best case, 62.9 worst case")

	// Narrative and competitors
	assert.Contains(t, output, "Strengths")
	assert.Contains(t, output, "  - 2 quick wins are available")
	assert.Contains(t, output, "contoso.com")
	assert.Contains(t, output, "-8")

	assert.Contains(t, output, "Report 6ba7b810-9dad-11d1-80b4-00c04fd430c8 compiled in 100ms")
}

func TestWriteReportTablesEmptySections(t *testing.T) {
	report := sampleReport()
	report.Issues = nil
	report.Recommendations = nil
	report.Trend = schema.Trend{Direction: schema.StableTrend}
	report.Narrative = schema.Narrative{}
	report.Competitors = nil
	cfg := &contract.Config{Output: schema.TableOut, Precision: 1, Width: 120}
	fmtFloat, _ := createFormatters(cfg.Precision)

	var buf bytes.Buffer
	err := writeReportTables(&buf, report, cfg, fmtFloat, 50*time.Millisecond)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "No issues detected.")
	assert.Contains(t, output, "No recommendations.")
	assert.Contains(t, output, "Not enough history for trend analysis yet.")
	assert.NotContains(t, output, "Competitors")
	assert.NotContains(t, output, "Strengths")
}

func TestWriteReportTablesEmojiHeadings(t *testing.T) {
	report := sampleReport()
	cfg := &contract.Config{Output: schema.TableOut, Precision: 1, Width: 120, UseEmojis: true}
	fmtFloat, _ := createFormatters(cfg.Precision)

	var buf bytes.Buffer
	err := writeReportTables(&buf, report, cfg, fmtFloat, time.Millisecond)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "📊 SEO Report")
	assert.Contains(t, buf.String(), "🔮 Forecast")
}

func TestPrintReportResultsJSONFile(t *testing.T) {
	report := sampleReport()
	outputFile := filepath.Join(t.TempDir(), "report.json")
	cfg := &contract.Config{Output: schema.JSONOut, Precision: 1, OutputFile: outputFile}

	err := PrintReportResults(report, cfg, time.Second)
	require.NoError(t, err)

	data, err := os.ReadFile(outputFile)
	require.NoError(t, err)

	var result map[string]any
	require.NoError(t, json.Unmarshal(data, &result))
	assert.Equal(t, "Good", result["label"])
	assert.Equal(t, "https://example.com", result["url"])
}

func TestPrintReportResultsCSVFile(t *testing.T) {
	report := sampleReport()
	outputFile := filepath.Join(t.TempDir(), "report.csv")
	cfg := &contract.Config{Output: schema.CSVOut, Precision: 1, OutputFile: outputFile}

	err := PrintReportResults(report, cfg, time.Second)
	require.NoError(t, err)

	data, err := os.ReadFile(outputFile)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, "section,item,value,note", lines[0])
	assert.Contains(t, string(data), "summary,url,https://example.com")
}

func TestPrintReportResultsTableFile(t *testing.T) {
	report := sampleReport()
	outputFile := filepath.Join(t.TempDir(), "report.txt")
	cfg := &contract.Config{Output: schema.TableOut, Precision: 1, Width: 120, OutputFile: outputFile}

	err := PrintReportResults(report, cfg, time.Second)
	require.NoError(t, err)

	data, err := os.ReadFile(outputFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "SEO Report")
	assert.Contains(t, string(data), "compiled in 1s")
}
