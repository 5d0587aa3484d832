// Package task loads and persists the JSON task/result records this tool
// consumes but does not own. Unknown record fields pass through untouched.
package task

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileName is the record every task directory must contain.
const FileName = "passed_agent_passes.json"

// Task is one software-change task record. IssueDescription, ModelPatch, and
// TestFile are the fields this tool reads; anything else in the record is
// kept verbatim in Extra and written back on marshal.
type Task struct {
	ID               string
	IssueDescription string
	ModelPatch       string
	TestFile         string
	Extra            map[string]json.RawMessage
}

const (
	keyIssueDescription = "issue_description"
	keyModelPatch       = "model_patch"
	keyTestFile         = "test_file"
)

func (t *Task) UnmarshalJSON(data []byte) error {
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	take := func(key string, dst *string) error {
		v, ok := raw[key]
		if !ok {
			return nil
		}
		if err := json.Unmarshal(v, dst); err != nil {
			return fmt.Errorf("field %s: %w", key, err)
		}
		delete(raw, key)
		return nil
	}
	if err := take(keyIssueDescription, &t.IssueDescription); err != nil {
		return err
	}
	if err := take(keyModelPatch, &t.ModelPatch); err != nil {
		return err
	}
	if err := take(keyTestFile, &t.TestFile); err != nil {
		return err
	}
	if len(raw) > 0 {
		t.Extra = raw
	}
	return nil
}

func (t Task) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(t.Extra)+3)
	for k, v := range t.Extra {
		out[k] = v
	}
	put := func(key, val string) error {
		b, err := json.Marshal(val)
		if err != nil {
			return err
		}
		out[key] = b
		return nil
	}
	if err := put(keyIssueDescription, t.IssueDescription); err != nil {
		return nil, err
	}
	if err := put(keyModelPatch, t.ModelPatch); err != nil {
		return nil, err
	}
	if err := put(keyTestFile, t.TestFile); err != nil {
		return nil, err
	}
	return json.Marshal(out)
}

// Load reads one task record. The task ID is the name of the directory the
// record lives in.
func Load(path string) (*Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load task %s: %w", path, err)
	}
	var t Task
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("load task %s: %w", path, err)
	}
	t.ID = filepath.Base(filepath.Dir(path))
	return &t, nil
}

// RepoRef extracts a remote repository reference from the record's
// passthrough fields: "repo" as OWNER/NAME plus an optional "base_commit".
// ok is false when the record carries no usable reference.
func (t *Task) RepoRef() (owner, name, ref string, ok bool) {
	var repo string
	if v, found := t.Extra["repo"]; found {
		_ = json.Unmarshal(v, &repo)
	}
	owner, name, found := strings.Cut(strings.TrimSpace(repo), "/")
	if !found || owner == "" || name == "" {
		return "", "", "", false
	}
	if v, found := t.Extra["base_commit"]; found {
		_ = json.Unmarshal(v, &ref)
	}
	return owner, name, strings.TrimSpace(ref), true
}

// Discover returns the names of task directories under tasksDir that contain
// a task record, in lexicographic order.
func Discover(tasksDir string) ([]string, error) {
	entries, err := os.ReadDir(tasksDir)
	if err != nil {
		return nil, fmt.Errorf("discover tasks in %s: %w", tasksDir, err)
	}
	var ids []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(tasksDir, e.Name(), FileName)); err == nil {
			ids = append(ids, e.Name())
		}
	}
	return ids, nil
}
