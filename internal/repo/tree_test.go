package repo

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestRenderTree_SortedBulletEntries(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "b.py", "x = 1\n")
	writeFile(t, root, "a.py", "y = 2\n")

	snap, err := NewLocalSnapshot(root)
	if err != nil {
		t.Fatalf("NewLocalSnapshot: %v", err)
	}
	got, err := RenderTree(context.Background(), snap)
	if err != nil {
		t.Fatalf("RenderTree: %v", err)
	}
	want := "- a.py\n- b.py\n"
	if got != want {
		t.Fatalf("tree mismatch: got %q want %q", got, want)
	}
}

func TestRenderTree_NestedDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "pkg/core/engine.py", "")
	writeFile(t, root, "pkg/util.py", "")
	writeFile(t, root, "README.md", "")

	snap, err := NewLocalSnapshot(root)
	if err != nil {
		t.Fatalf("NewLocalSnapshot: %v", err)
	}
	got, err := RenderTree(context.Background(), snap)
	if err != nil {
		t.Fatalf("RenderTree: %v", err)
	}
	want := "- README.md\n" +
		"- pkg/\n" +
		"- - core/\n" +
		"- - - engine.py\n" +
		"- - util.py\n"
	if got != want {
		t.Fatalf("tree mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderTree_Deterministic(t *testing.T) {
	root := t.TempDir()
	for _, rel := range []string{"z.py", "m/n.py", "a/b/c.py", "a/d.py"} {
		writeFile(t, root, rel, "pass\n")
	}

	snap, err := NewLocalSnapshot(root)
	if err != nil {
		t.Fatalf("NewLocalSnapshot: %v", err)
	}
	first, err := RenderTree(context.Background(), snap)
	if err != nil {
		t.Fatalf("RenderTree: %v", err)
	}
	second, err := RenderTree(context.Background(), snap)
	if err != nil {
		t.Fatalf("RenderTree: %v", err)
	}
	if first != second {
		t.Fatalf("tree rendering is not deterministic:\nfirst:\n%s\nsecond:\n%s", first, second)
	}
}
