package output

import (
	"fmt"
	"io"
	"time"

	"github.com/sdejongh/treediff/pkg/models"
)

// HumanFormatter prints one line per result
type HumanFormatter struct {
	writer  io.Writer
	summary bool
}

// NewHumanFormatter creates a new human-readable formatter
func NewHumanFormatter(summary bool) *HumanFormatter {
	return &HumanFormatter{summary: summary}
}

// Start initializes the formatter
func (f *HumanFormatter) Start(writer io.Writer, report *models.Report) error {
	if writer == nil {
		writer = io.Discard
	}
	f.writer = writer
	return nil
}

// Result prints the line for one shared entry
func (f *HumanFormatter) Result(result models.Result) error {
	_, err := fmt.Fprintln(f.writer, FormatResult(result))
	return err
}

// Complete prints the summary when enabled
func (f *HumanFormatter) Complete(report *models.Report) error {
	if !f.summary {
		return nil
	}

	w := f.writer
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "Compared %s and %s in %s\n", report.LeftRoot, report.RightRoot, report.Duration.Round(time.Millisecond))
	fmt.Fprintf(w, "  Identical files:   %d (%s)\n", report.Stats.IdenticalFiles, formatBytes(report.Stats.BytesIdentical))
	fmt.Fprintf(w, "  Differing files:   %d\n", report.Stats.DifferingFiles)
	fmt.Fprintf(w, "  Type mismatches:   %d\n", report.Stats.TypeMismatches)
	fmt.Fprintf(w, "  Directories:       %d\n", report.Stats.DirsCompared)
	_, err := fmt.Fprintf(w, "Status: %s\n", report.Status)
	return err
}

// Name returns the formatter name
func (f *HumanFormatter) Name() string {
	return "human"
}

// FormatResult renders a result as its human-readable line
func FormatResult(result models.Result) string {
	switch result.Kind {
	case models.IdenticalFiles:
		return fmt.Sprintf("Files %s are identical.", result.Name)
	case models.DifferingFiles:
		return fmt.Sprintf("Files %s differ.", result.Name)
	default:
		return fmt.Sprintf("Objects %s differ (one is a file, the other a directory).", result.Name)
	}
}

// formatBytes formats bytes in human-readable format
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
