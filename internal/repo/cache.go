package repo

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// defaultCacheSize bounds how many remote file contents one snapshot keeps in
// memory. Localization touches a handful of files per run; this is generous.
const defaultCacheSize = 256

// readCache pairs a bounded LRU with singleflight so concurrent reads of the
// same remote path fetch once. Failed fetches are never cached; a retried
// read hits the API again.
type readCache struct {
	group singleflight.Group
	lru   *lru.Cache[string, string]
}

func newReadCache(size int) (*readCache, error) {
	if size <= 0 {
		size = defaultCacheSize
	}
	c, err := lru.New[string, string](size)
	if err != nil {
		return nil, err
	}
	return &readCache{lru: c}, nil
}

func (c *readCache) get(key string, fetch func() (string, error)) (string, error) {
	if val, ok := c.lru.Get(key); ok {
		return val, nil
	}
	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		if val, ok := c.lru.Get(key); ok {
			return val, nil
		}
		val, err := fetch()
		if err != nil {
			return "", err
		}
		c.lru.Add(key, val)
		return val, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}
