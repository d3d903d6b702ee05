package subpage

import (
	"io"
	"log/slog"
	"net/http"
	"testing"
)

func TestTestResultHelpers(t *testing.T) {
	r := &TestResult{
		HTML:       `<h1>About</h1><p>text</p>`,
		StatusCode: http.StatusOK,
		Headers:    http.Header{"Subpage-Route": {"about"}},
		Route:      "about",
	}

	if !r.HTMLContains("<h1>About</h1>") {
		t.Error("HTMLContains missed the heading")
	}
	if r.HTMLContains("<h2>") {
		t.Error("HTMLContains matched absent text")
	}
	if !r.HTMLContainsAll("<h1>", "<p>") || r.HTMLContainsAll("<h1>", "<h2>") {
		t.Error("HTMLContainsAll wrong")
	}
	if !r.IsOK() || r.IsNotFound() || !r.HasStatus(http.StatusOK) {
		t.Error("status helpers wrong")
	}
	if !r.HasHeader(RouteHeader, "about") || r.HasHeader(RouteHeader, "home") {
		t.Error("HasHeader wrong")
	}
}

func TestTestRequestBuilder(t *testing.T) {
	site, err := TestSite(testFiles())
	if err != nil {
		t.Fatalf("TestSite failed: %v", err)
	}

	res := NewTestRequest(http.MethodGet, "/about").
		WithHeader(FragmentHeader, "true").
		WithContext(LoggingContext(t.Context(), slog.New(slog.NewTextHandler(io.Discard, nil)))).
		Execute(site)
	if !res.IsOK() || res.Route != "about" {
		t.Errorf("result = %d route %q", res.StatusCode, res.Route)
	}
	if res.HTMLContains("<html>") {
		t.Error("fragment request returned the whole document")
	}
}
