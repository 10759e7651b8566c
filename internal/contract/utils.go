package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/sitepulse/sitepulse/schema"
)

// Scoring label constants.
const (
	ExcellentValue = "Excellent" // Excellent value
	GoodValue      = "Good"      // Good value
	FairValue      = "Fair"      // Fair value
	PoorValue      = "Poor"      // Poor value
)

// Color variables for console output.
var (
	ExcellentColor = color.New(color.FgGreen, color.Bold) // excellentColor represents a healthy score.
	GoodColor      = color.New(color.FgCyan)              // goodColor represents an acceptable score.
	FairColor      = color.New(color.FgYellow)            // fairColor represents standard caution, not bold.
	PoorColor      = color.New(color.FgRed, color.Bold)   // poorColor represents standard danger.

	CriticalColor = color.New(color.FgRed, color.Bold) // criticalColor flags issues needing immediate action.
	WarningColor  = color.New(color.FgYellow)          // warningColor flags issues worth scheduling.
	InfoColor     = color.New(color.FgCyan)            // infoColor flags informational findings.
)

// GetPlainLabel returns a plain text label indicating the health level
// based on a score. This is the core logic used for CSV, JSON, and
// table printing.
func GetPlainLabel(score float64) string {
	switch {
	case score >= 80:
		return ExcellentValue
	case score >= 60:
		return GoodValue
	case score >= 40:
		return FairValue
	default:
		return PoorValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
// It uses GetPlainLabel to determine the string, and then applies the appropriate color.
func GetColorLabel(score float64) string {
	text := GetPlainLabel(score)

	switch text {
	case ExcellentValue:
		return ExcellentColor.Sprint(text)
	case GoodValue:
		return GoodColor.Sprint(text)
	case FairValue:
		return FairColor.Sprint(text)
	default: // "Poor"
		return PoorColor.Sprint(text)
	}
}

// GetColorSeverity returns a colored severity label for table output.
func GetColorSeverity(severity schema.Severity) string {
	switch severity {
	case schema.CriticalSeverity:
		return CriticalColor.Sprint(string(severity))
	case schema.WarningSeverity:
		return WarningColor.Sprint(string(severity))
	default:
		return InfoColor.Sprint(string(severity))
	}
}

// GetColorPriority returns a colored priority label for table output.
func GetColorPriority(priority schema.Priority) string {
	switch priority {
	case schema.HighPriority:
		return CriticalColor.Sprint(string(priority))
	case schema.MediumPriority:
		return WarningColor.Sprint(string(priority))
	default:
		return InfoColor.Sprint(string(priority))
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path and format type. It falls back to os.Stdout on error.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetDBFilePath returns the path to the SQLite DB file for report storage.
func GetDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".sitepulse.db"
	}
	return filepath.Join(homeDir, ".sitepulse.db")
}

// TruncateURL truncates a URL to a maximum width with an ellipsis suffix.
// Unlike file paths, the informative part of a URL is its head, so the
// tail is dropped. Requires maxWidth > 3 to ensure there's space for both
// the "..." suffix and at least one character of content.
func TruncateURL(url string, maxWidth int) string {
	runes := []rune(url)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return url
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
