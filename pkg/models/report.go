package models

import (
	"time"
)

// Report summarises one comparison run
type Report struct {
	// Run details
	ID        string
	LeftRoot  string
	RightRoot string

	// Timing
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	// Statistics
	Stats Statistics

	// Error is the fatal error that ended the run, if any
	Error string

	// Overall status
	Status RunStatus
}

// Statistics holds counters for a comparison run
type Statistics struct {
	IdenticalFiles int `json:"identical_files"`
	DifferingFiles int `json:"differing_files"`
	TypeMismatches int `json:"type_mismatches"`

	// DirsCompared counts directory pairs descended into, roots included
	DirsCompared int `json:"dirs_compared"`

	// BytesIdentical is the total size of identical files
	BytesIdentical int64 `json:"bytes_identical"`
}

// RunStatus represents the overall result
type RunStatus string

const (
	// StatusRunning indicates the walk has not finished
	StatusRunning RunStatus = "running"
	// StatusIdentical indicates every shared entry was identical
	StatusIdentical RunStatus = "identical"
	// StatusDifferent indicates at least one differing or mismatched entry
	StatusDifferent RunStatus = "different"
	// StatusFailed indicates the run stopped on an error
	StatusFailed RunStatus = "failed"
)

// NewReport creates a report for a run that starts now
func NewReport(id, leftRoot, rightRoot string) *Report {
	return &Report{
		ID:        id,
		LeftRoot:  leftRoot,
		RightRoot: rightRoot,
		StartTime: time.Now(),
		Status:    StatusRunning,
	}
}

// Record updates the counters for one result
func (r *Report) Record(result Result) {
	switch result.Kind {
	case IdenticalFiles:
		r.Stats.IdenticalFiles++
		r.Stats.BytesIdentical += result.Size
	case DifferingFiles:
		r.Stats.DifferingFiles++
	case TypeMismatch:
		r.Stats.TypeMismatches++
	}
}

// Differences returns the number of differing and mismatched entries
func (r *Report) Differences() int {
	return r.Stats.DifferingFiles + r.Stats.TypeMismatches
}

// Finish stamps the end time and derives the status
func (r *Report) Finish(err error) {
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)

	switch {
	case err != nil:
		r.Status = StatusFailed
		r.Error = err.Error()
	case r.Differences() > 0:
		r.Status = StatusDifferent
	default:
		r.Status = StatusIdentical
	}
}

// ExitCode returns the process exit code for the status.
// Differences only affect the code when failOnDiff is set.
func (s RunStatus) ExitCode(failOnDiff bool) int {
	switch s {
	case StatusIdentical:
		return 0
	case StatusDifferent:
		if failOnDiff {
			return 1
		}
		return 0
	case StatusFailed:
		return 2
	default:
		return 2
	}
}
