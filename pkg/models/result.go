package models

// ResultKind classifies a shared entry
type ResultKind string

const (
	// IdenticalFiles indicates both sides are regular files with the same bytes
	IdenticalFiles ResultKind = "identical"
	// DifferingFiles indicates both sides are regular files with different bytes
	DifferingFiles ResultKind = "different"
	// TypeMismatch indicates the two sides are not both files or both directories
	TypeMismatch ResultKind = "type_mismatch"
)

// Result is the classification of one entry present in both trees.
// Directory pairs never produce a Result themselves; their descendants do.
type Result struct {
	// Kind is the classification outcome
	Kind ResultKind `json:"kind"`

	// Name is the entry name within its parent directory
	Name string `json:"name"`

	// RelativePath is the slash-separated path from the compared roots
	RelativePath string `json:"path"`

	// Size is the left-hand file size (file pairs only)
	Size int64 `json:"size,omitempty"`

	// Digest is the xxh3 digest of the shared content (identical files only)
	Digest string `json:"digest,omitempty"`

	// Reason explains a DifferingFiles or TypeMismatch outcome
	Reason string `json:"reason,omitempty"`
}

// IsDifference reports whether the result counts as a difference between the trees
func (r Result) IsDifference() bool {
	return r.Kind != IdenticalFiles
}
