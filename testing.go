package subpage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing/fstest"
)

// TestResult holds the response of a site to one test request.
type TestResult struct {
	HTML       string
	StatusCode int
	Headers    http.Header
	// Route is the route the response showed.
	Route string
}

// TestSite returns a Site over an in-memory file tree keyed by slash
// path without leading slash, e.g. "content/home.html".
//
//	site, err := subpage.TestSite(map[string]string{
//	    "index.html":        `<html><body><main id="subpage"></main></body></html>`,
//	    "content/home.html": `<h1>Home</h1>`,
//	})
func TestSite(files map[string]string, opts ...Option) (*Site, error) {
	fsys := fstest.MapFS{}
	for name, body := range files {
		fsys[strings.TrimPrefix(name, "/")] = &fstest.MapFile{Data: []byte(body)}
	}
	return New(fsys, opts...)
}

// TestGet sends a GET for path through the site handler.
func TestGet(site *Site, path string) *TestResult {
	return NewTestRequest(http.MethodGet, path).Execute(site)
}

// TestFragment sends a client-side navigation request for path, answered
// with the mount's content only.
func TestFragment(site *Site, path string) *TestResult {
	return NewTestRequest(http.MethodGet, path).WithHeader(FragmentHeader, "true").Execute(site)
}

// TestNavigate starts a session at path and then follows routes in order,
// as a visitor clicking through the site would.
//
//	sess, err := subpage.TestNavigate(site, "/", "about", "contact")
//	if sess.Route() != "contact" { ... }
func TestNavigate(site *Site, path string, routes ...string) (*Session, error) {
	return TestNavigateWithContext(context.Background(), site, path, routes...)
}

// TestNavigateWithContext is TestNavigate with a custom context, e.g. one
// carrying a logger.
func TestNavigateWithContext(ctx context.Context, site *Site, path string, routes ...string) (*Session, error) {
	sess, err := site.NewSession(ctx, Request{Path: path})
	if err != nil {
		return nil, err
	}
	for _, route := range routes {
		sess.Navigate(ctx, route)
	}
	return sess, nil
}

// HTMLContains checks if the HTML contains the substring.
func (r *TestResult) HTMLContains(substr string) bool {
	return strings.Contains(r.HTML, substr)
}

// HTMLContainsAll checks if the HTML contains all substrings.
func (r *TestResult) HTMLContainsAll(substrs ...string) bool {
	for _, s := range substrs {
		if !strings.Contains(r.HTML, s) {
			return false
		}
	}
	return true
}

// IsOK checks if the status code is 200.
func (r *TestResult) IsOK() bool {
	return r.StatusCode == http.StatusOK
}

// IsNotFound checks if the status code is 404.
func (r *TestResult) IsNotFound() bool {
	return r.StatusCode == http.StatusNotFound
}

// HasStatus checks for a specific status code.
func (r *TestResult) HasStatus(code int) bool {
	return r.StatusCode == code
}

// HasHeader checks if a header has the given value.
func (r *TestResult) HasHeader(key, value string) bool {
	return r.Headers.Get(key) == value
}

// TestRequestBuilder builds a test request against a Site.
//
//	result := subpage.NewTestRequest("GET", "/de/about").
//	    WithHeader("Accept-Language", "de").
//	    Execute(site)
type TestRequestBuilder struct {
	method  string
	url     string
	headers map[string]string
	ctx     context.Context
}

// NewTestRequest creates a new test request builder.
func NewTestRequest(method, url string) *TestRequestBuilder {
	return &TestRequestBuilder{
		method:  method,
		url:     url,
		headers: make(map[string]string),
		ctx:     context.Background(),
	}
}

// WithHeader adds a header to the request.
func (b *TestRequestBuilder) WithHeader(key, value string) *TestRequestBuilder {
	b.headers[key] = value
	return b
}

// WithContext sets the context for the request.
func (b *TestRequestBuilder) WithContext(ctx context.Context) *TestRequestBuilder {
	b.ctx = ctx
	return b
}

// Execute sends the request through site's handler.
func (b *TestRequestBuilder) Execute(site *Site) *TestResult {
	req := httptest.NewRequest(b.method, b.url, nil).WithContext(b.ctx)
	for k, v := range b.headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	site.Handler().ServeHTTP(rec, req)

	return &TestResult{
		HTML:       rec.Body.String(),
		StatusCode: rec.Code,
		Headers:    rec.Header(),
		Route:      ShownRoute(rec.Header()),
	}
}
