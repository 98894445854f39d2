package models

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
)

// ============== Result Tests ==============

func TestResultKind(t *testing.T) {
	tests := []struct {
		kind     ResultKind
		expected string
	}{
		{IdenticalFiles, "identical"},
		{DifferingFiles, "different"},
		{TypeMismatch, "type_mismatch"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			if string(tt.kind) != tt.expected {
				t.Errorf("ResultKind = %s, want %s", string(tt.kind), tt.expected)
			}
		})
	}
}

func TestResultIsDifference(t *testing.T) {
	if (Result{Kind: IdenticalFiles}).IsDifference() {
		t.Error("IdenticalFiles should not count as a difference")
	}
	if !(Result{Kind: DifferingFiles}).IsDifference() {
		t.Error("DifferingFiles should count as a difference")
	}
	if !(Result{Kind: TypeMismatch}).IsDifference() {
		t.Error("TypeMismatch should count as a difference")
	}
}

// ============== Report Tests ==============

func TestReportRecord(t *testing.T) {
	report := NewReport("run-1", "/a", "/b")

	report.Record(Result{Kind: IdenticalFiles, Name: "x.txt", Size: 5})
	report.Record(Result{Kind: IdenticalFiles, Name: "y.txt", Size: 7})
	report.Record(Result{Kind: DifferingFiles, Name: "z.txt", Size: 3})
	report.Record(Result{Kind: TypeMismatch, Name: "d"})

	if report.Stats.IdenticalFiles != 2 {
		t.Errorf("IdenticalFiles = %d, want 2", report.Stats.IdenticalFiles)
	}
	if report.Stats.DifferingFiles != 1 {
		t.Errorf("DifferingFiles = %d, want 1", report.Stats.DifferingFiles)
	}
	if report.Stats.TypeMismatches != 1 {
		t.Errorf("TypeMismatches = %d, want 1", report.Stats.TypeMismatches)
	}
	if report.Stats.BytesIdentical != 12 {
		t.Errorf("BytesIdentical = %d, want 12", report.Stats.BytesIdentical)
	}
	if report.Differences() != 2 {
		t.Errorf("Differences() = %d, want 2", report.Differences())
	}
}

func TestReportFinish(t *testing.T) {
	t.Run("Identical", func(t *testing.T) {
		report := NewReport("run", "/a", "/b")
		report.Record(Result{Kind: IdenticalFiles})
		report.Finish(nil)

		if report.Status != StatusIdentical {
			t.Errorf("Status = %s, want %s", report.Status, StatusIdentical)
		}
		if report.EndTime.Before(report.StartTime) {
			t.Error("EndTime should not be before StartTime")
		}
	})

	t.Run("Empty", func(t *testing.T) {
		report := NewReport("run", "/a", "/b")
		report.Finish(nil)

		if report.Status != StatusIdentical {
			t.Errorf("Status = %s, want %s", report.Status, StatusIdentical)
		}
	})

	t.Run("Different", func(t *testing.T) {
		report := NewReport("run", "/a", "/b")
		report.Record(Result{Kind: TypeMismatch})
		report.Finish(nil)

		if report.Status != StatusDifferent {
			t.Errorf("Status = %s, want %s", report.Status, StatusDifferent)
		}
	})

	t.Run("Failed", func(t *testing.T) {
		report := NewReport("run", "/a", "/b")
		report.Finish(errors.New("boom"))

		if report.Status != StatusFailed {
			t.Errorf("Status = %s, want %s", report.Status, StatusFailed)
		}
		if report.Error != "boom" {
			t.Errorf("Error = %q, want boom", report.Error)
		}
	})
}

func TestRunStatusExitCode(t *testing.T) {
	tests := []struct {
		status     RunStatus
		failOnDiff bool
		expected   int
	}{
		{StatusIdentical, false, 0},
		{StatusIdentical, true, 0},
		{StatusDifferent, false, 0},
		{StatusDifferent, true, 1},
		{StatusFailed, false, 2},
		{StatusFailed, true, 2},
		{StatusRunning, false, 2},
	}

	for _, tt := range tests {
		if got := tt.status.ExitCode(tt.failOnDiff); got != tt.expected {
			t.Errorf("%s.ExitCode(%v) = %d, want %d", tt.status, tt.failOnDiff, got, tt.expected)
		}
	}
}

// ============== Error Tests ==============

func TestFilesystemError(t *testing.T) {
	err := &FilesystemError{Op: "list", Path: "/a/sub", Err: fs.ErrPermission}

	if !strings.Contains(err.Error(), "/a/sub") {
		t.Errorf("Error() = %q, should contain the failing path", err.Error())
	}
	if !errors.Is(err, fs.ErrPermission) {
		t.Error("errors.Is should see the wrapped permission error")
	}

	var fsErr *FilesystemError
	wrapped := errors.Join(errors.New("context"), err)
	if !errors.As(wrapped, &fsErr) {
		t.Fatal("errors.As should find the FilesystemError")
	}
	if fsErr.Op != "list" {
		t.Errorf("Op = %s, want list", fsErr.Op)
	}
}

func TestInvalidRootError(t *testing.T) {
	err := &InvalidRootError{Arg: "folder1", Path: "/nope", Reason: "is not a directory"}

	expected := `folder1 "/nope" is not a directory`
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{
		Field:   "TestField",
		Message: "test message",
	}

	expected := "TestField: test message"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}
}

func TestExitError(t *testing.T) {
	err := &ExitError{Code: 1}
	if err.Error() != "exit status 1" {
		t.Errorf("Error() = %s, want 'exit status 1'", err.Error())
	}
}
