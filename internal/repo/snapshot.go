// Package repo provides read-only repository snapshots (local checkout or
// remote GitHub tree) and a deterministic text rendering of their layout.
package repo

import (
	"context"
	"errors"
)

// ErrNotFound marks a path that does not exist in the snapshot. Callers that
// tolerate stale candidate paths match it with errors.Is.
var ErrNotFound = errors.New("path not found in repository snapshot")

// Entry is one file or directory in a snapshot listing. Path is
// slash-separated and relative to the snapshot root.
type Entry struct {
	Path string
	Dir  bool
}

// Snapshot is an immutable view of one repository revision.
//
// Implementations must return List results in stable lexicographic order so
// that rendered trees, and therefore prompts, are reproducible across calls.
type Snapshot interface {
	// Root names the snapshot for display (a directory path or OWNER/REPO@REF).
	Root() string
	// List returns the full recursive listing.
	List(ctx context.Context) ([]Entry, error)
	// Read returns a file's text. A missing path yields ErrNotFound.
	Read(ctx context.Context, path string) (string, error)
}
