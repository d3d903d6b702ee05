package resolve

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache maps fragment identifiers to factories. Entries are never evicted;
// Reset exists for development reloads only.
//
// Concurrent first references to one identifier share a single build. The
// first factory stored for an identifier wins.
type Cache struct {
	mu        sync.RWMutex
	factories map[string]Factory
	group     singleflight.Group
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{factories: make(map[string]Factory)}
}

// Get returns the cached factory for name.
func (c *Cache) Get(name string) (Factory, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	f, ok := c.factories[name]
	return f, ok
}

// Load returns the cached factory for name, calling build on a miss.
// Concurrent misses for the same name wait for one build. The build runs
// under ctx without its cancellation, so a caller that gives up does not
// fail the others; each caller stops waiting when its own ctx is done.
func (c *Cache) Load(ctx context.Context, name string, build func(ctx context.Context) (Factory, error)) (Factory, error) {
	if f, ok := c.Get(name); ok {
		return f, nil
	}
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(name, func() (any, error) {
		if f, ok := c.Get(name); ok {
			return f, nil
		}
		f, err := build(shared)
		if err != nil {
			return nil, err
		}
		return c.store(name, f), nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(Factory), nil
	}
}

func (c *Cache) store(name string, f Factory) Factory {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.factories == nil {
		c.factories = make(map[string]Factory)
	}
	if have, ok := c.factories[name]; ok {
		return have
	}
	c.factories[name] = f
	return f
}

// Len returns the number of cached factories.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.factories)
}

// Reset drops every cached factory.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.factories = make(map[string]Factory)
}
