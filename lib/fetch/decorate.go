package fetch

import (
	"context"
	"fmt"
	"sync"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/html"
	"golang.org/x/sync/singleflight"
)

// Dedupe collapses concurrent fetches of the same path into one call to
// next. Callers that join an in-flight fetch share its result. The shared
// fetch ignores the cancellation of whichever caller started it; each caller
// still returns as soon as its own context is done.
func Dedupe(next Fetcher) Fetcher {
	return &dedupe{next: next}
}

type dedupe struct {
	next  Fetcher
	group singleflight.Group
}

func (d *dedupe) Fetch(ctx context.Context, path string) (string, error) {
	shared := context.WithoutCancel(ctx)
	ch := d.group.DoChan(path, func() (any, error) {
		return d.next.Fetch(shared, path)
	})
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

// Minify compacts every fetched body with the tdewolff HTML minifier.
// Document and end tags are kept so fragments stay structurally identical.
func Minify(next Fetcher) Fetcher {
	m := minify.New()
	m.Add("text/html", &html.Minifier{
		KeepDocumentTags: true,
		KeepEndTags:      true,
		KeepQuotes:       true,
	})
	return &minifier{next: next, m: m}
}

type minifier struct {
	next Fetcher
	m    *minify.M
}

func (f *minifier) Fetch(ctx context.Context, path string) (string, error) {
	body, err := f.next.Fetch(ctx, path)
	if err != nil {
		return "", err
	}
	out, err := f.m.String("text/html", body)
	if err != nil {
		return "", fmt.Errorf("fetch: minify %s: %w", path, err)
	}
	return out, nil
}

// Counting records how many fetches reach next, per path.
type Counting struct {
	next Fetcher

	mu    sync.Mutex
	paths map[string]int
	total int
}

// NewCounting wraps next.
func NewCounting(next Fetcher) *Counting {
	return &Counting{next: next, paths: make(map[string]int)}
}

func (c *Counting) Fetch(ctx context.Context, path string) (string, error) {
	c.mu.Lock()
	c.paths[path]++
	c.total++
	c.mu.Unlock()
	return c.next.Fetch(ctx, path)
}

// Requests returns the number of fetches of path.
func (c *Counting) Requests(path string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paths[path]
}

// Total returns the number of fetches across all paths.
func (c *Counting) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

// Reset zeroes every counter.
func (c *Counting) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paths = make(map[string]int)
	c.total = 0
}
