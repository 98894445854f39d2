package output

import (
	"encoding/json"
	"io"
	"time"

	"github.com/sdejongh/treediff/pkg/models"
)

// JSONFormatter writes one JSON object per line for automation and scripting
type JSONFormatter struct {
	encoder *json.Encoder
}

// JSONResultEvent is emitted for every result
type JSONResultEvent struct {
	Type string `json:"type"`
	models.Result
}

// JSONSummaryEvent closes the stream
type JSONSummaryEvent struct {
	Type       string            `json:"type"`
	ID         string            `json:"id"`
	Left       string            `json:"left"`
	Right      string            `json:"right"`
	Status     string            `json:"status"`
	Duration   string            `json:"duration"`
	DurationMs int64             `json:"duration_ms"`
	Stats      models.Statistics `json:"stats"`
	Error      string            `json:"error,omitempty"`
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Start initializes the formatter
func (f *JSONFormatter) Start(writer io.Writer, report *models.Report) error {
	if writer == nil {
		writer = io.Discard
	}
	f.encoder = json.NewEncoder(writer)
	return nil
}

// Result writes a result event
func (f *JSONFormatter) Result(result models.Result) error {
	return f.encoder.Encode(JSONResultEvent{Type: "result", Result: result})
}

// Complete writes the summary event
func (f *JSONFormatter) Complete(report *models.Report) error {
	return f.encoder.Encode(JSONSummaryEvent{
		Type:       "summary",
		ID:         report.ID,
		Left:       report.LeftRoot,
		Right:      report.RightRoot,
		Status:     string(report.Status),
		Duration:   report.Duration.Round(time.Millisecond).String(),
		DurationMs: report.Duration.Milliseconds(),
		Stats:      report.Stats,
		Error:      report.Error,
	})
}

// Name returns the formatter name
func (f *JSONFormatter) Name() string {
	return "json"
}
