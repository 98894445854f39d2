package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// Config holds configuration for a stream logger
type Config struct {
	// Path is the log file path; empty logs to stderr
	Path string
	// Format is the line format (json or text)
	Format Format
	// Level is the minimum log level
	Level Level
}

// StreamLogger writes one line per entry to a file or stream
type StreamLogger struct {
	out    *output
	format Format
	level  Level
	fields Fields
}

// output is shared by a logger and all loggers derived with WithFields
type output struct {
	mu     sync.Mutex
	w      io.Writer
	closer io.Closer
}

// New creates a logger for cfg, opening cfg.Path in append mode when set
func New(cfg Config) (*StreamLogger, error) {
	if cfg.Path == "" {
		return NewStreamLogger(os.Stderr, cfg.Format, cfg.Level), nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	logger := NewStreamLogger(file, cfg.Format, cfg.Level)
	logger.out.closer = file
	return logger, nil
}

// NewStreamLogger creates a logger writing to w. Closing it does not close w.
func NewStreamLogger(w io.Writer, format Format, level Level) *StreamLogger {
	return &StreamLogger{
		out:    &output{w: w},
		format: format,
		level:  level,
	}
}

// Debug logs a debug message
func (l *StreamLogger) Debug(ctx context.Context, msg string, fields Fields) {
	l.log(DebugLevel, msg, nil, fields)
}

// Info logs an info message
func (l *StreamLogger) Info(ctx context.Context, msg string, fields Fields) {
	l.log(InfoLevel, msg, nil, fields)
}

// Warn logs a warning message
func (l *StreamLogger) Warn(ctx context.Context, msg string, fields Fields) {
	l.log(WarnLevel, msg, nil, fields)
}

// Error logs an error message
func (l *StreamLogger) Error(ctx context.Context, msg string, err error, fields Fields) {
	l.log(ErrorLevel, msg, err, fields)
}

// WithFields returns a logger with additional fields
func (l *StreamLogger) WithFields(fields Fields) Logger {
	return &StreamLogger{
		out:    l.out,
		format: l.format,
		level:  l.level,
		fields: merge(l.fields, fields),
	}
}

// Close closes the log file, if the logger owns one
func (l *StreamLogger) Close() error {
	l.out.mu.Lock()
	defer l.out.mu.Unlock()
	if l.out.closer == nil {
		return nil
	}
	err := l.out.closer.Close()
	l.out.closer = nil
	l.out.w = io.Discard
	return err
}

func (l *StreamLogger) log(level Level, msg string, err error, fields Fields) {
	if level < l.level {
		return
	}

	all := merge(l.fields, fields)

	var line []byte
	if l.format == FormatJSON {
		line = formatJSON(level, msg, err, all)
	} else {
		line = formatText(level, msg, err, all)
	}
	if line == nil {
		return
	}

	l.out.mu.Lock()
	defer l.out.mu.Unlock()
	l.out.w.Write(line)
}

func merge(base, extra Fields) Fields {
	all := make(Fields, len(base)+len(extra))
	for k, v := range base {
		all[k] = v
	}
	for k, v := range extra {
		all[k] = v
	}
	return all
}

func formatJSON(level Level, msg string, err error, fields Fields) []byte {
	entry := make(map[string]interface{}, len(fields)+4)
	for k, v := range fields {
		entry[k] = v
	}
	entry["timestamp"] = time.Now().UTC().Format(time.RFC3339)
	entry["level"] = level.String()
	entry["message"] = msg
	if err != nil {
		entry["error"] = err.Error()
	}

	data, jsonErr := json.Marshal(entry)
	if jsonErr != nil {
		return nil
	}
	return append(data, '\n')
}

// formatText writes fields sorted by key so lines are stable
func formatText(level Level, msg string, err error, fields Fields) []byte {
	var b strings.Builder
	b.WriteString(time.Now().UTC().Format("2006-01-02T15:04:05.000Z"))
	fmt.Fprintf(&b, " [%s] %s", level, msg)

	if err != nil {
		fmt.Fprintf(&b, " error=%q", err.Error())
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, fields[k])
	}

	b.WriteByte('\n')
	return []byte(b.String())
}
