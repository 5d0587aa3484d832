package repo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"

	"github.com/google/go-github/v81/github"

	gh "testboost/internal/github"
)

// GitHubSnapshot reads a repository at a fixed ref through the GitHub API.
// File contents are cached per snapshot (bounded LRU) and concurrent reads of
// the same path are collapsed via singleflight; the listing and every read are
// pinned to the ref, so the view stays immutable for the snapshot's lifetime.
type GitHubSnapshot struct {
	client *gh.Client
	owner  string
	repo   string
	ref    string
	cache  *readCache
}

func NewGitHubSnapshot(client *gh.Client, owner, repo, ref string) (*GitHubSnapshot, error) {
	if client == nil || client.Client == nil {
		return nil, fmt.Errorf("github snapshot: nil client")
	}
	if owner == "" || repo == "" {
		return nil, fmt.Errorf("github snapshot: owner and repo are required")
	}
	if ref == "" {
		ref = "HEAD"
	}
	cache, err := newReadCache(defaultCacheSize)
	if err != nil {
		return nil, err
	}
	return &GitHubSnapshot{client: client, owner: owner, repo: repo, ref: ref, cache: cache}, nil
}

func (s *GitHubSnapshot) Root() string {
	return fmt.Sprintf("%s/%s@%s", s.owner, s.repo, s.ref)
}

func (s *GitHubSnapshot) List(ctx context.Context) ([]Entry, error) {
	tree, _, err := s.client.Client.Git.GetTree(ctx, s.owner, s.repo, s.ref, true)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.Root(), err)
	}
	entries := make([]Entry, 0, len(tree.Entries))
	for _, te := range tree.Entries {
		if te.GetPath() == "" {
			continue
		}
		entries = append(entries, Entry{Path: te.GetPath(), Dir: te.GetType() == "tree"})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries, nil
}

func (s *GitHubSnapshot) Read(ctx context.Context, path string) (string, error) {
	key := s.Root() + ":" + path
	return s.cache.get(key, func() (string, error) {
		file, _, _, err := s.client.Client.Repositories.GetContents(ctx, s.owner, s.repo, path,
			&github.RepositoryContentGetOptions{Ref: s.ref})
		if err != nil {
			if isNotFound(err) {
				return "", fmt.Errorf("read %s: %w", path, ErrNotFound)
			}
			return "", fmt.Errorf("read %s: %w", path, err)
		}
		if file == nil {
			// GetContents returns a directory listing for directories.
			return "", fmt.Errorf("read %s: %w", path, ErrNotFound)
		}
		content, err := file.GetContent()
		if err != nil {
			return "", fmt.Errorf("read %s: decode content: %w", path, err)
		}
		return content, nil
	})
}

func isNotFound(err error) bool {
	var er *github.ErrorResponse
	return errors.As(err, &er) && er.Response != nil && er.Response.StatusCode == http.StatusNotFound
}
