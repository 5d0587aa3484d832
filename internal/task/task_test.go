package task

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

const sampleRecord = `{
	"issue_description": "parser crashes on empty input",
	"model_patch": "diff --git a/tests/test_parser.py b/tests/test_parser.py",
	"test_file": "tests/test_parser.py",
	"repo": "acme/widgets",
	"base_commit": "abc123",
	"instance_id": "acme__widgets-42"
}`

func writeTask(t *testing.T, dir, id, content string) string {
	t.Helper()
	taskDir := filepath.Join(dir, id)
	if err := os.MkdirAll(taskDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	path := filepath.Join(taskDir, FileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_KnownAndPassthroughFields(t *testing.T) {
	path := writeTask(t, t.TempDir(), "acme__widgets-42", sampleRecord)

	tk, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tk.ID != "acme__widgets-42" {
		t.Fatalf("ID: got %q", tk.ID)
	}
	if tk.IssueDescription != "parser crashes on empty input" {
		t.Fatalf("IssueDescription: got %q", tk.IssueDescription)
	}
	if tk.TestFile != "tests/test_parser.py" {
		t.Fatalf("TestFile: got %q", tk.TestFile)
	}
	if _, ok := tk.Extra["instance_id"]; !ok {
		t.Fatalf("expected instance_id passthrough, Extra: %v", tk.Extra)
	}
	if _, ok := tk.Extra["test_file"]; ok {
		t.Fatalf("known field leaked into Extra")
	}
}

func TestTask_MarshalRoundTripsUnknownFields(t *testing.T) {
	var tk Task
	if err := json.Unmarshal([]byte(sampleRecord), &tk); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	data, err := json.Marshal(tk)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal roundtrip: %v", err)
	}
	if got["instance_id"] != "acme__widgets-42" {
		t.Fatalf("instance_id lost: %v", got)
	}
	if got["test_file"] != "tests/test_parser.py" {
		t.Fatalf("test_file lost: %v", got)
	}
}

func TestTask_RepoRef(t *testing.T) {
	var tk Task
	if err := json.Unmarshal([]byte(sampleRecord), &tk); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	owner, name, ref, ok := tk.RepoRef()
	if !ok {
		t.Fatalf("expected RepoRef to resolve")
	}
	if owner != "acme" || name != "widgets" || ref != "abc123" {
		t.Fatalf("RepoRef: got %s/%s@%s", owner, name, ref)
	}

	bare := Task{}
	if _, _, _, ok := bare.RepoRef(); ok {
		t.Fatalf("expected no RepoRef on bare task")
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	writeTask(t, dir, "task_b", sampleRecord)
	writeTask(t, dir, "task_a", sampleRecord)
	// Directory without a record must be ignored.
	if err := os.MkdirAll(filepath.Join(dir, "not_a_task"), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	// Stray files too.
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	ids, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if !reflect.DeepEqual(ids, []string{"task_a", "task_b"}) {
		t.Fatalf("Discover: got %v", ids)
	}
}

func TestWriteResult(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "results")
	res := &Result{
		TaskID:    "task_a",
		Files:     []string{"pkg/mod.py"},
		Functions: []string{"Foo.bar"},
		Ranges:    map[string]string{"Foo.bar": "10-20"},
	}
	path, err := WriteResult(dir, res)
	if err != nil {
		t.Fatalf("WriteResult: %v", err)
	}
	if filepath.Base(path) != "task_a_results.json" {
		t.Fatalf("unexpected result path %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var got Result
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !reflect.DeepEqual(&got, res) {
		t.Fatalf("roundtrip mismatch: got %+v want %+v", got, res)
	}
}

func TestWriteResult_RequiresTaskID(t *testing.T) {
	if _, err := WriteResult(t.TempDir(), &Result{}); err == nil {
		t.Fatalf("expected error for missing task ID")
	}
}
