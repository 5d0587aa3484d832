package repo

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LocalSnapshot reads a repository from a directory on disk.
type LocalSnapshot struct {
	root string
}

func NewLocalSnapshot(root string) (*LocalSnapshot, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("repository root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("repository root %s is not a directory", root)
	}
	return &LocalSnapshot{root: root}, nil
}

func (s *LocalSnapshot) Root() string { return s.root }

func (s *LocalSnapshot) List(ctx context.Context) ([]Entry, error) {
	var entries []Entry
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		// VCS internals are noise in a localization prompt.
		if d.IsDir() && d.Name() == ".git" {
			return filepath.SkipDir
		}
		entries = append(entries, Entry{Path: filepath.ToSlash(rel), Dir: d.IsDir()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.root, err)
	}
	// WalkDir is already lexical, but the listing order is a contract here,
	// not an accident of traversal.
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries, nil
}

func (s *LocalSnapshot) Read(_ context.Context, path string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(path))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("read %s: path escapes repository root", path)
	}
	data, err := os.ReadFile(filepath.Join(s.root, clean))
	if os.IsNotExist(err) {
		return "", fmt.Errorf("read %s: %w", path, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}
