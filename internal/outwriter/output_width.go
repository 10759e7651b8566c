package outwriter

import (
	"os"

	"github.com/sitepulse/sitepulse/internal/contract"
	"golang.org/x/term"
)

// GetMaxTableURLWidth calculates the maximum width for URLs in table
// output based on terminal width and table configuration.
func GetMaxTableURLWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		// Get terminal width
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for the fixed columns that accompany a URL: period,
	// status, score and progress cells plus their borders and padding.
	baseWidth := 45

	// Reserve generous space for table borders, separators, and padding
	baseWidth += 15

	// Calculate available space for the URL
	available := termWidth - baseWidth
	if available < 15 {
		// Minimum reasonable URL width
		return 15
	}
	if available > 70 {
		// Maximum URL width to prevent overly long cells
		return 70
	}
	return available
}
