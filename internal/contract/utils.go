package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/maturity/schema"
)

// Maturity label constants.
const (
	OptimizedValue  = "Optimized"
	ManagedValue    = "Managed"
	DefinedValue    = "Defined"
	DevelopingValue = "Developing"
	InitialValue    = "Initial"
)

// Color variables for console output.
var (
	OptimizedColor  = color.New(color.FgGreen, color.Bold)
	ManagedColor    = color.New(color.FgCyan, color.Bold)
	DefinedColor    = color.New(color.FgBlue)
	DevelopingColor = color.New(color.FgYellow)
	InitialColor    = color.New(color.FgRed, color.Bold)

	// BlockedColor highlights levers that are currently blocked.
	BlockedColor = color.New(color.FgMagenta)
)

// GetColorLabel returns a colored maturity label for console output (table).
// It uses schema.GetPlainLabel to determine the string, and then applies the appropriate color.
func GetColorLabel(score float64) string {
	text := schema.GetPlainLabel(score)

	switch text {
	case OptimizedValue:
		return OptimizedColor.Sprint(text)
	case ManagedValue:
		return ManagedColor.Sprint(text)
	case DefinedValue:
		return DefinedColor.Sprint(text)
	case DevelopingValue:
		return DevelopingColor.Sprint(text)
	default:
		return InitialColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It falls back to os.Stdout when the path is empty.
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

// LogIssue logs a recoverable scoring issue to stderr.
func LogIssue(issue schema.Issue) {
	_, _ = fmt.Fprintf(os.Stderr, "Issue %s [%s]: %s\n", issue.Key, issue.Kind, issue.Detail)
}

// GetDBFilePath returns the path to the SQLite DB file for the assessment store.
func GetDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".maturity.db"
	}
	return filepath.Join(homeDir, ".maturity.db")
}

// TruncateText truncates text to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so there is room for the "..." and at least one character.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
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
