package contract

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Define the regular expression to capture a "YYYY-MM" period key,
// e.g., "2026-08".
var periodRe = regexp.MustCompile(`^(\d{4})-(0[1-9]|1[0-2])$`)

// PeriodOf returns the period key of the month containing t, in UTC.
func PeriodOf(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// ParsePeriod resolves a period argument into its key and time window.
// An empty string or "current" means the month containing now, and
// "previous" the month before that. Anything else must be an explicit
// "YYYY-MM" key. The returned end is exclusive.
func ParsePeriod(s string, now time.Time) (string, time.Time, time.Time, error) {
	s = strings.TrimSpace(strings.ToLower(s))

	var start time.Time
	switch s {
	case "", "current":
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	case "previous":
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	default:
		matches := periodRe.FindStringSubmatch(s)
		if len(matches) == 0 {
			return "", time.Time{}, time.Time{}, fmt.Errorf("invalid period '%s'. Expected YYYY-MM, current, previous", s)
		}

		// 1: Year (e.g., "2026")
		// 2: Month (e.g., "08")
		year, _ := strconv.Atoi(matches[1])
		month, _ := strconv.Atoi(matches[2])
		start = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	}

	end := start.AddDate(0, 1, 0)
	return start.Format("2006-01"), start, end, nil
}

// Define the regular expression to capture "N [units]".
var lookbackDurationRe = regexp.MustCompile(`^(\d+)\s+(week|day|hour|minute|second)s?$`)

// ParseLookbackDuration converts strings like "45 seconds" or "30s" into a single time.Duration.
// It first tries Go's built-in time.ParseDuration for standard formats, then falls back
// to custom parsing for human-readable formats.
func ParseLookbackDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)

	// Try Go's built-in duration parsing first (e.g., "30s", "2m", "1h")
	if duration, err := time.ParseDuration(s); err == nil {
		if duration == 0 {
			return 0, errors.New("zero duration is not useful")
		}
		return duration, nil
	}

	// Fall back to custom parsing for human-readable formats (e.g., "45 seconds", "2 minutes")
	s = strings.ToLower(s)
	matches := lookbackDurationRe.FindStringSubmatch(s)

	if len(matches) == 0 {
		return 0, fmt.Errorf("invalid duration format: %s", s)
	}

	// 1: Value (e.g., "2")
	// 2: Unit (e.g., "minute" or "second")
	value, _ := strconv.Atoi(matches[1])
	unit := matches[2]

	var totalDuration time.Duration

	switch unit {
	case "week":
		totalDuration = time.Duration(value) * 7 * 24 * time.Hour
	case "day":
		totalDuration = time.Duration(value) * 24 * time.Hour
	case "hour":
		totalDuration = time.Duration(value) * time.Hour
	case "minute":
		totalDuration = time.Duration(value) * time.Minute
	case "second":
		totalDuration = time.Duration(value) * time.Second
	default:
		// Should be caught by the regex
		return 0, errors.New("unsupported time unit")
	}

	if totalDuration == 0 {
		return 0, errors.New("zero duration is not useful")
	}

	return totalDuration, nil
}

// WeeksBetween computes the number of whole weeks from start to end.
// Adjacent history points are expected to be a week apart; this guards
// trend math when points were appended irregularly.
func WeeksBetween(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start) / (7 * 24 * time.Hour))
}
