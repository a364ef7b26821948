// Package loader fetches raw document content from files, object storage
// and the web.
package loader

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

var (
	// ErrUnsupportedSource is returned when no loader is configured for a
	// source scheme.
	ErrUnsupportedSource = errors.New("unsupported document source")
	// ErrNotFound means the source was reachable but holds no document.
	ErrNotFound = errors.New("document source not found")
)

// DocumentLoader returns the content behind a source reference.
type DocumentLoader interface {
	Load(ctx context.Context, source string) ([]byte, error)
}

// Cache memoizes loads per key. Concurrent loads of the same key share a
// single call; failed loads are not cached.
type Cache struct {
	entries map[string][]byte
	mu      sync.RWMutex
	group   singleflight.Group
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string][]byte)}
}

func (c *Cache) lookup(key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	data, ok := c.entries[key]
	return data, ok
}

// Do returns the cached value for key or runs fn to produce it.
func (c *Cache) Do(key string, fn func() ([]byte, error)) ([]byte, error) {
	if cached, ok := c.lookup(key); ok {
		return cached, nil
	}

	result, err, _ := c.group.Do(key, func() (any, error) {
		if cached, ok := c.lookup(key); ok {
			return cached, nil
		}

		data, err := fn()
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[key] = data
		c.mu.Unlock()

		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}

// Forget drops key so the next load fetches it again.
func (c *Cache) Forget(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	c.group.Forget(key)
}

// Router picks a loader from the source scheme: "s3://" goes to S3,
// "http://" and "https://" to Web and everything else to File.
type Router struct {
	File DocumentLoader
	S3   DocumentLoader
	Web  DocumentLoader
}

func (r *Router) route(source string) DocumentLoader {
	switch {
	case strings.HasPrefix(source, "s3://"):
		return r.S3
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		return r.Web
	default:
		return r.File
	}
}

func (r *Router) Load(ctx context.Context, source string) ([]byte, error) {
	if strings.TrimSpace(source) == "" {
		return nil, fmt.Errorf("%w: empty source", ErrUnsupportedSource)
	}
	l := r.route(source)
	if l == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSource, source)
	}
	return l.Load(ctx, source)
}
