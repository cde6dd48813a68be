package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/churnlab/churnscope/schema"
)

// Color variables for console output.
var (
	DangerColor  = color.New(color.FgRed, color.Bold) // dangerColor flags customers and alerts needing action now.
	WarningColor = color.New(color.FgYellow)          // warningColor represents standard caution, not bold.
	InfoColor    = color.New(color.FgCyan)            // infoColor represents informational / low-priority signal.
	SafeColor    = color.New(color.FgGreen)           // safeColor marks loyal, low-risk customers.
)

// GetPlainSegmentLabel returns the plain text risk band label.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainSegmentLabel(seg schema.Segment) string {
	return string(seg)
}

// GetColorSegmentLabel returns a colored risk band label for console output (table).
func GetColorSegmentLabel(seg schema.Segment) string {
	switch seg {
	case schema.SegmentAtRisk:
		return DangerColor.Sprint(string(seg))
	case schema.SegmentMedium:
		return WarningColor.Sprint(string(seg))
	default: // "Loyal"
		return SafeColor.Sprint(string(seg))
	}
}

// GetColorAlertLabel returns a colored alert severity label for console output.
func GetColorAlertLabel(typ schema.AlertType) string {
	switch typ {
	case schema.DangerAlert:
		return DangerColor.Sprint(string(typ))
	case schema.WarningAlert:
		return WarningColor.Sprint(string(typ))
	default: // "info"
		return InfoColor.Sprint(string(typ))
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. It falls back to os.Stdout for an empty path.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// GetSnapshotDBFilePath returns the path to the SQLite DB file for snapshot storage.
func GetSnapshotDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".churnscope_snapshots.db"
	}
	return filepath.Join(homeDir, ".churnscope_snapshots.db")
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
