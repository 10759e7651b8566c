package outwriter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sitepulse/sitepulse/internal/contract"
	"github.com/sitepulse/sitepulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMaxTableURLWidth(t *testing.T) {
	tests := []struct {
		name     string
		width    int
		expected int
	}{
		{name: "standard terminal", width: 120, expected: 60},
		{name: "wide terminal capped", width: 200, expected: 70},
		{name: "narrow terminal floored", width: 40, expected: 15},
		{name: "default fallback width", width: 80, expected: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &contract.Config{Width: tt.width}
			assert.Equal(t, tt.expected, GetMaxTableURLWidth(cfg))
		})
	}
}

// TestOutWriterWritesAllViews drives each view through the facade to a
// file, the same path the CLI takes with --output-file.
func TestOutWriterWritesAllViews(t *testing.T) {
	ow := NewOutWriter()
	dir := t.TempDir()

	t.Run("report", func(t *testing.T) {
		outputFile := filepath.Join(dir, "report.txt")
		cfg := &contract.Config{Output: schema.TableOut, Precision: 1, Width: 120, OutputFile: outputFile}

		require.NoError(t, ow.WriteReport(sampleReport(), cfg, 250*time.Millisecond))

		data, err := os.ReadFile(outputFile)
		require.NoError(t, err)
		assert.Contains(t, string(data), "SEO Report")
		assert.Contains(t, string(data), "compiled in 250ms")
	})

	t.Run("history", func(t *testing.T) {
		outputFile := filepath.Join(dir, "history.txt")
		cfg := &contract.Config{Output: schema.TableOut, Precision: 1, Width: 120, OutputFile: outputFile}

		require.NoError(t, ow.WriteHistory("https://example.com", sampleHistory(), cfg))

		data, err := os.ReadFile(outputFile)
		require.NoError(t, err)
		assert.Contains(t, string(data), "Score History")
		assert.Contains(t, string(data), "Showing 3 points")
	})

	t.Run("jobs", func(t *testing.T) {
		outputFile := filepath.Join(dir, "jobs.txt")
		cfg := &contract.Config{Output: schema.TableOut, Precision: 1, Width: 120, OutputFile: outputFile}

		require.NoError(t, ow.WriteJobs(sampleJobs(), cfg))

		data, err := os.ReadFile(outputFile)
		require.NoError(t, err)
		assert.Contains(t, string(data), "Report Jobs")
		assert.Contains(t, string(data), "Showing 2 jobs (1 active)")
	})

	t.Run("schedules", func(t *testing.T) {
		outputFile := filepath.Join(dir, "schedules.txt")
		cfg := &contract.Config{Output: schema.TableOut, Precision: 1, Width: 120, OutputFile: outputFile}

		require.NoError(t, ow.WriteSchedules(sampleSchedules(), cfg))

		data, err := os.ReadFile(outputFile)
		require.NoError(t, err)
		assert.Contains(t, string(data), "Recurring Schedules")
		assert.Contains(t, string(data), "Showing 2 schedules")
	})
}
