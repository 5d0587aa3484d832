package task

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Result is the persisted outcome of one localization run.
type Result struct {
	TaskID string `json:"task_id"`
	// Files, Functions, and Ranges are the per-stage candidate outputs in
	// rank order. Ranges maps qualified names to "start-end" spans.
	Files          []string          `json:"files"`
	Functions      []string          `json:"functions"`
	Ranges         map[string]string `json:"ranges"`
	GeneratedTests string            `json:"generated_tests"`
	TestFile       string            `json:"test_file,omitempty"`
	Injected       bool              `json:"injected"`
}

// WriteResult persists r as <dir>/<taskID>_results.json, creating dir as
// needed, and returns the written path.
func WriteResult(dir string, r *Result) (string, error) {
	if r == nil || r.TaskID == "" {
		return "", fmt.Errorf("write result: missing task ID")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("write result: %w", err)
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("write result: %w", err)
	}
	path := filepath.Join(dir, r.TaskID+"_results.json")
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("write result: %w", err)
	}
	return path, nil
}
