package models

import "fmt"

// UsageError reports a malformed command line
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string {
	return e.Message
}

// InvalidRootError reports a root path that cannot be compared
type InvalidRootError struct {
	Arg    string // "folder1" or "folder2"
	Path   string
	Reason string
}

func (e *InvalidRootError) Error() string {
	return fmt.Sprintf("%s %q %s", e.Arg, e.Path, e.Reason)
}

// FilesystemError reports a listing, stat or read failure during traversal
type FilesystemError struct {
	Op   string // "list", "stat", "open" or "read"
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error {
	return e.Err
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ExitError carries a non-zero exit status that is not a failure,
// such as differences found with fail-on-diff enabled
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}
