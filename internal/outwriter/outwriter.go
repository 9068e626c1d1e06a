// Package outwriter has output and writer logic.
package outwriter

import (
	"os"

	"github.com/huangsam/pulse/internal/contract"
	"golang.org/x/term"
)

// GetMaxTableNameWidth calculates the maximum width for contributor names in
// table output based on terminal width.
func GetMaxTableNameWidth(cfg *contract.Config) int {
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

	// Reserve space for the numeric columns with borders and padding
	baseWidth := 60 // Rank + Commits + Lines + Weeks + Share + Label

	// Calculate available space for the name column
	available := termWidth - baseWidth
	if available < 12 {
		// Minimum reasonable name width
		return 12
	}
	if available > 50 {
		// Maximum name width to prevent overly long merged identities
		return 50
	}
	return available
}
