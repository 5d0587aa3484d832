// Package inject appends generated test code to an existing test file,
// exactly once per file.
package inject

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Marker is the sentinel recording that generated tests were already
// appended. Once a file contains it, Inject is a no-op for that file
// regardless of the text offered. It is written as a Python comment because
// the target files are test suites.
const Marker = "# --- generated tests (do not inject twice) ---"

// ErrEmptyInput rejects injection of blank generated text.
var ErrEmptyInput = errors.New("generated test text is empty")

// Inject appends generated test code to the file at path and returns the
// path. The write is a single append of separator, Marker, separator, the
// trimmed text, and a trailing newline; it either completes or never starts,
// so a failed call leaves the file untouched.
//
// Errors: a missing file wraps fs.ErrNotExist, an unwritable file wraps
// fs.ErrPermission, blank text yields ErrEmptyInput. Repeated calls after
// one successful injection return the path unchanged without modifying the
// file (checked via Marker), whatever text they carry.
//
// The read-check-append sequence is not atomic across processes; callers
// running tasks concurrently must not target the same file from two runs.
func Inject(path, generated string) (string, error) {
	trimmed := strings.TrimSpace(generated)
	if trimmed == "" {
		return "", fmt.Errorf("inject into %s: %w", path, ErrEmptyInput)
	}

	existing, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("inject into %s: %w", path, err)
	}
	if strings.Contains(string(existing), Marker) {
		return path, nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		return "", fmt.Errorf("inject into %s: %w", path, err)
	}
	block := "\n\n" + Marker + "\n\n" + trimmed + "\n"
	if _, err := f.WriteString(block); err != nil {
		f.Close()
		return "", fmt.Errorf("inject into %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("inject into %s: %w", path, err)
	}
	return path, nil
}
