package contract

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/pulse/schema"
)

// Color variables for console output.
var (
	HighColor     = color.New(color.FgGreen, color.Bold) // highColor marks heavy contributors.
	ModerateColor = color.New(color.FgYellow)            // moderateColor marks steady contributors.
	LowColor      = color.New(color.FgCyan)              // lowColor marks occasional contributors.

	PositiveColor = color.New(color.FgGreen) // positiveColor marks upward trends.
	NegativeColor = color.New(color.FgRed)   // negativeColor marks downward trends.
)

// GetColorLabel returns a colored activity label for console output.
// It uses schema.GetPlainLabel to determine the string, and then applies
// the appropriate color.
func GetColorLabel(commits int) string {
	text := schema.GetPlainLabel(commits)

	switch text {
	case "High":
		return HighColor.Sprint(text)
	case "Moderate":
		return ModerateColor.Sprint(text)
	default: // "Low"
		return LowColor.Sprint(text)
	}
}

// FormatGrowthRate renders a growth rate as a signed percentage, colored
// when enabled.
func FormatGrowthRate(rate float64, useColors bool) string {
	text := fmt.Sprintf("%+.0f%%", rate*100)
	if !useColors {
		return text
	}
	if rate < 0 {
		return NegativeColor.Sprint(text)
	}
	return PositiveColor.Sprint(text)
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. It falls back to os.Stdout for an empty path.
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

// TruncateName shortens a contributor display name to maxWidth runes.
func TruncateName(name string, maxWidth int) string {
	runes := []rune(name)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return name
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
