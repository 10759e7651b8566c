package outwriter

import (
	"bytes"
	"encoding/csv"
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

func sampleHistory() []schema.HistoricalPoint {
	return []schema.HistoricalPoint{
		{
			Date:            time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			OverallScore:    60,
			IssueCount:      8,
			FixCount:        0,
			TrafficEstimate: 1200,
		},
		{
			Date:            time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
			OverallScore:    68,
			IssueCount:      6,
			FixCount:        3,
			TrafficEstimate: 1450,
		},
		{
			Date:            time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			OverallScore:    75,
			IssueCount:      4,
			FixCount:        5,
			TrafficEstimate: 1800,
		},
	}
}

func TestWriteJSONHistory(t *testing.T) {
	points := sampleHistory()

	var buf bytes.Buffer
	err := writeJSONHistory(&buf, "https://example.com", points)
	require.NoError(t, err)

	// Parse the JSON to verify structure
	var parsed map[string]any
	err = json.Unmarshal(buf.Bytes(), &parsed)
	require.NoError(t, err)

	assert.Equal(t, "https://example.com", parsed["url"])

	jsonPoints, ok := parsed["points"].([]any)
	require.True(t, ok)
	require.Len(t, jsonPoints, 3)

	first, ok := jsonPoints[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(60), first["overallScore"])
	assert.Equal(t, float64(8), first["issueCount"])
}

func TestWriteCSVHistoryRows(t *testing.T) {
	fmtFloat, intFmt := createFormatters(1)
	points := sampleHistory()

	var buf bytes.Buffer
	err := writeCSVWithHeader(&buf, historyCSVHeader, func(cw *csv.Writer) error {
		return writeCSVHistoryRows(cw, points, fmtFloat, intFmt)
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)

	assert.Equal(t, "date,overall_score,label,issue_count,fix_count,traffic_estimate", lines[0])
	assert.Contains(t, lines[1], "2025-01-01T00:00:00Z,60.0,Good,8,0,1200")
	assert.Contains(t, lines[3], "2025-03-01T00:00:00Z,75.0,Good,4,5,1800")
}

func TestWriteHistoryTable(t *testing.T) {
	cfg := &contract.Config{Output: schema.TableOut, Precision: 1, Width: 120}
	fmtFloat, intFmt := createFormatters(cfg.Precision)
	points := sampleHistory()

	var buf bytes.Buffer
	err := writeHistoryTable(&buf, "https://example.com", points, cfg, fmtFloat, intFmt)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "Score History")
	assert.Contains(t, output, "URL: https://example.com")
	assert.Contains(t, output, "2025-01-01")
	assert.Contains(t, output, "75.0")
	assert.Contains(t, output, "1800")
	assert.Contains(t, output, "Showing 3 points (latest score: 75.0, change since 2025-01-01: +15.0)")
}

func TestWriteHistoryTableEmpty(t *testing.T) {
	cfg := &contract.Config{Output: schema.TableOut, Precision: 1, Width: 120}
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	var buf bytes.Buffer
	err := writeHistoryTable(&buf, "https://example.com", nil, cfg, fmtFloat, intFmt)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "No history recorded yet.")
}

func TestPrintHistoryResultsJSONFile(t *testing.T) {
	outputFile := filepath.Join(t.TempDir(), "history.json")
	cfg := &contract.Config{Output: schema.JSONOut, Precision: 1, OutputFile: outputFile}

	err := PrintHistoryResults("https://example.com", sampleHistory(), cfg)
	require.NoError(t, err)

	data, err := os.ReadFile(outputFile)
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.Equal(t, "https://example.com", parsed["url"])
}

func TestPrintHistoryResultsParquetFile(t *testing.T) {
	outputFile := filepath.Join(t.TempDir(), "history.parquet")
	cfg := &contract.Config{Output: schema.ParquetOut, Precision: 1, OutputFile: outputFile}

	err := PrintHistoryResults("https://example.com", sampleHistory(), cfg)
	require.NoError(t, err)

	data, err := os.ReadFile(outputFile)
	require.NoError(t, err)
	require.Greater(t, len(data), 8)
	assert.Equal(t, "PAR1", string(data[:4]))
}
