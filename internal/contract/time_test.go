package contract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, time.August, 22, 10, 0, 0, 0, time.UTC)

// TestParsePeriod covers various valid and invalid cases.
func TestParsePeriod(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		expectedKey   string
		expectedStart time.Time
		expectError   bool
	}{
		{
			name:          "empty means current month",
			input:         "",
			expectedKey:   "2026-08",
			expectedStart: time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:          "current keyword (mixed case)",
			input:         "CuRrEnT",
			expectedKey:   "2026-08",
			expectedStart: time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:          "previous keyword",
			input:         "previous",
			expectedKey:   "2026-07",
			expectedStart: time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:          "explicit key",
			input:         "2025-12",
			expectedKey:   "2025-12",
			expectedStart: time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:        "invalid month zero",
			input:       "2026-00",
			expectError: true,
		},
		{
			name:        "invalid month thirteen",
			input:       "2026-13",
			expectError: true,
		},
		{
			name:        "invalid free text",
			input:       "last summer",
			expectError: true,
		},
		{
			name:        "invalid missing zero padding",
			input:       "2026-8",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, start, end, err := ParsePeriod(tt.input, fixedNow)

			if tt.expectError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedKey, key)
			assert.Equal(t, tt.expectedStart, start)
			assert.Equal(t, tt.expectedStart.AddDate(0, 1, 0), end, "end should be the exclusive start of the next month")
		})
	}
}

// TestParsePeriodDecemberRollover ensures the window crosses year ends cleanly.
func TestParsePeriodDecemberRollover(t *testing.T) {
	_, start, end, err := ParsePeriod("2025-12", fixedNow)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), end)
}

func TestPeriodOf(t *testing.T) {
	assert.Equal(t, "2026-08", PeriodOf(fixedNow))

	// Local times convert to UTC before keying.
	loc := time.FixedZone("UTC+10", 10*3600)
	lateNight := time.Date(2026, time.September, 1, 5, 0, 0, 0, loc)
	assert.Equal(t, "2026-08", PeriodOf(lateNight))
}

// TestParseLookbackDuration covers built-in and human-readable formats.
func TestParseLookbackDuration(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    time.Duration
		expectError bool
	}{
		{
			name:     "builtin seconds",
			input:    "30s",
			expected: 30 * time.Second,
		},
		{
			name:     "builtin minutes",
			input:    "2m",
			expected: 2 * time.Minute,
		},
		{
			name:     "human seconds (plural)",
			input:    "45 seconds",
			expected: 45 * time.Second,
		},
		{
			name:     "human minute (singular, capitalized)",
			input:    "1 Minute",
			expected: time.Minute,
		},
		{
			name:     "human weeks",
			input:    "2 weeks",
			expected: 2 * 7 * 24 * time.Hour,
		},
		{
			name:        "zero duration rejected",
			input:       "0s",
			expectError: true,
		},
		{
			name:        "zero human duration rejected",
			input:       "0 days",
			expectError: true,
		},
		{
			name:        "invalid unit",
			input:       "3 fortnights",
			expectError: true,
		},
		{
			name:        "invalid non-numeric value",
			input:       "one minute",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseLookbackDuration(tt.input)

			if tt.expectError {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, d)
			}
		})
	}
}

func TestWeeksBetween(t *testing.T) {
	start := fixedNow

	assert.Equal(t, 0, WeeksBetween(start, start))
	assert.Equal(t, 1, WeeksBetween(start, start.Add(7*24*time.Hour)))
	assert.Equal(t, 1, WeeksBetween(start, start.Add(13*24*time.Hour)), "partial weeks round down")
	assert.Equal(t, 4, WeeksBetween(start, start.Add(28*24*time.Hour)))
	assert.Equal(t, 0, WeeksBetween(start, start.Add(-7*24*time.Hour)), "reversed ranges clamp to zero")
}
