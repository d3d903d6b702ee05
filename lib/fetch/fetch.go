// Package fetch provides the sources fragments are read from.
//
// A Fetcher maps a fragment path such as "/components/card.html" to its
// raw HTML text. Success means the source produced the whole body; partial
// bodies are never returned.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"strings"
	"sync"
)

var (
	ErrNotFound = errors.New("fetch: not found")
	ErrStatus   = errors.New("fetch: unexpected status")
)

// StatusError reports a non-2xx response. It matches ErrStatus, and also
// ErrNotFound when the code is 404.
type StatusError struct {
	Path string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch: %s: status %d", e.Path, e.Code)
}

func (e *StatusError) Unwrap() error { return ErrStatus }

func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.Code == http.StatusNotFound
}

// Fetcher reads one fragment.
type Fetcher interface {
	Fetch(ctx context.Context, path string) (string, error)
}

// Func adapts a function to Fetcher.
type Func func(ctx context.Context, path string) (string, error)

func (f Func) Fetch(ctx context.Context, path string) (string, error) {
	return f(ctx, path)
}

// HTTP fetches fragments with GET requests relative to BaseURL.
type HTTP struct {
	BaseURL string
	Client  *http.Client
	// Header is added to every request.
	Header http.Header
}

func (h *HTTP) Fetch(ctx context.Context, path string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimSuffix(h.BaseURL, "/")+path, nil)
	if err != nil {
		return "", fmt.Errorf("fetch: %s: %w", path, err)
	}
	for k, vs := range h.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch: %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{Path: path, Code: resp.StatusCode}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("fetch: %s: read body: %w", path, err)
	}
	return string(body), nil
}

// FS reads fragments from a file system. The leading slash of the path is
// dropped, so "/content/home.html" reads "content/home.html".
type FS struct {
	FS fs.FS
}

func (f FS) Fetch(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name := strings.TrimPrefix(path, "/")
	if !fs.ValidPath(name) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	b, err := fs.ReadFile(f.FS, name)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return "", fmt.Errorf("fetch: %s: %w", path, err)
	}
	return string(b), nil
}

// Map is an in-memory Fetcher. It is safe for concurrent use.
type Map struct {
	mu    sync.RWMutex
	files map[string]string
	fail  map[string]error
}

// NewMap returns a Map serving files keyed by path.
func NewMap(files map[string]string) *Map {
	m := &Map{files: make(map[string]string, len(files)), fail: make(map[string]error)}
	for k, v := range files {
		m.files[k] = v
	}
	return m
}

// Set stores body under path.
func (m *Map) Set(path, body string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = body
	delete(m.fail, path)
}

// Fail makes every fetch of path return err.
func (m *Map) Fail(path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail[path] = err
}

func (m *Map) Fetch(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err, ok := m.fail[path]; ok {
		return "", err
	}
	body, ok := m.files[path]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return body, nil
}
