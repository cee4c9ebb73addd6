package outwriter

import (
	"os"

	"github.com/huangsam/maturity/internal/contract"
	"golang.org/x/term"
)

// Lever title column bounds.
const (
	minTitleWidth = 15
	maxTitleWidth = 60
)

// getTerminalWidth returns the width override, the detected terminal width, or 80.
func getTerminalWidth(cfg *contract.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	detected, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detected <= 0 {
		return 80 // Conservative default for narrow terminals and CI
	}
	return detected
}

// getMaxTitleWidth calculates the maximum width for lever titles in table output.
func getMaxTitleWidth(cfg *contract.Config) int {
	// Priority + Ratio + Due + Status columns with borders/padding
	baseWidth := 50
	if cfg.Verbose {
		baseWidth += 30 // Risk column
	}

	available := getTerminalWidth(cfg) - baseWidth
	return max(minTitleWidth, min(available, maxTitleWidth))
}
