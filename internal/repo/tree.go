package repo

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// treeGlyph is the connector repeated once per depth level when rendering a
// tree. Directories carry a trailing "/".
const treeGlyph = "- "

// RenderTree renders the snapshot's layout as an indented text tree for
// prompt inclusion. Each directory level is sorted lexicographically over the
// combined file/directory listing, so identical snapshot contents always
// render identical text regardless of filesystem iteration order.
func RenderTree(ctx context.Context, s Snapshot) (string, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return "", fmt.Errorf("render tree: %w", err)
	}

	children := make(map[string][]Entry)
	for _, e := range entries {
		parent := ""
		if i := strings.LastIndex(e.Path, "/"); i >= 0 {
			parent = e.Path[:i]
		}
		children[parent] = append(children[parent], e)
	}
	for _, kids := range children {
		sort.Slice(kids, func(i, j int) bool { return kids[i].Path < kids[j].Path })
	}

	var b strings.Builder
	var walk func(dir string, depth int)
	walk = func(dir string, depth int) {
		for _, e := range children[dir] {
			name := e.Path
			if i := strings.LastIndex(name, "/"); i >= 0 {
				name = name[i+1:]
			}
			b.WriteString(strings.Repeat(treeGlyph, depth+1))
			b.WriteString(name)
			if e.Dir {
				b.WriteString("/")
			}
			b.WriteString("\n")
			if e.Dir {
				walk(e.Path, depth+1)
			}
		}
	}
	walk("", 0)
	return b.String(), nil
}
