package subpage

import (
	"net/http"
	"strings"
	"testing"

	"github.com/pthm/subpage/lib/fetch"
)

func TestHandlerPages(t *testing.T) {
	site, err := TestSite(testFiles())
	if err != nil {
		t.Fatalf("TestSite failed: %v", err)
	}

	tests := []struct {
		name   string
		path   string
		status int
		route  string
		html   string
	}{
		{"home", "/", http.StatusOK, "home", `<h1>Home</h1>`},
		{"page", "/about", http.StatusOK, "about", `<div class="card">Ada</div>`},
		{"html suffix", "/contact.html", http.StatusOK, "contact", `<h1>Contact</h1>`},
		{"unknown", "/nope", http.StatusNotFound, "404", `<h1>Not found</h1>`},
		{"fallback itself", "/404", http.StatusOK, "404", `<h1>Not found</h1>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := TestGet(site, tt.path)
			if !res.HasStatus(tt.status) {
				t.Errorf("status = %d, want %d", res.StatusCode, tt.status)
			}
			if res.Route != tt.route {
				t.Errorf("route = %q, want %q", res.Route, tt.route)
			}
			if !res.HTMLContainsAll(tt.html, `<div class="banner" data-text="Hello">Banner</div>`, "</html>") {
				t.Errorf("page missing %q:\n%s", tt.html, res.HTML)
			}
			if !res.HasHeader("Content-Type", "text/html; charset=utf-8") {
				t.Errorf("Content-Type = %q", res.Headers.Get("Content-Type"))
			}
		})
	}
}

func TestHandlerFragment(t *testing.T) {
	site, err := TestSite(testFiles())
	if err != nil {
		t.Fatalf("TestSite failed: %v", err)
	}

	res := TestFragment(site, "/about")
	if !res.IsOK() {
		t.Fatalf("status = %d", res.StatusCode)
	}
	if want := `<h1>About</h1><div class="card">Ada</div>`; res.HTML != want {
		t.Errorf("body = %q, want %q", res.HTML, want)
	}

	res = TestFragment(site, "/nope")
	if !res.IsNotFound() || res.HTML != `<h1>Not found</h1>` {
		t.Errorf("unknown fragment = %d %q", res.StatusCode, res.HTML)
	}
}

func TestHandlerBrokenPage(t *testing.T) {
	files := testFiles()
	site, err := New(testMapFS(files), WithSitemap("home", "about", "broken", "404"))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	res := TestGet(site, "/broken")
	if !res.IsNotFound() || res.Route != "404" {
		t.Errorf("broken page = %d route %q, want 404 fallback", res.StatusCode, res.Route)
	}

	delete(files, "content/404.html")
	site, err = New(testMapFS(files), WithSitemap("home", "broken", "404"))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	res = TestGet(site, "/broken")
	if !res.HasStatus(http.StatusInternalServerError) {
		t.Errorf("status = %d without any page, want 500", res.StatusCode)
	}
	if !res.HTMLContains("<p>loading</p>") {
		t.Errorf("shell mount content not kept:\n%s", res.HTML)
	}
}

func TestHandlerMissingShell(t *testing.T) {
	files := testFiles()
	delete(files, "index.html")
	site, err := TestSite(files)
	if err != nil {
		t.Fatalf("TestSite failed: %v", err)
	}
	if res := TestGet(site, "/"); !res.IsNotFound() {
		t.Errorf("status = %d, want 404", res.StatusCode)
	}

	site.OnError = func(w http.ResponseWriter, r *http.Request, err error) {
		http.Error(w, "custom", http.StatusTeapot)
	}
	if res := TestGet(site, "/"); !res.HasStatus(http.StatusTeapot) {
		t.Errorf("status = %d, want OnError's", res.StatusCode)
	}
}

func TestHandlerFiles(t *testing.T) {
	site, err := TestSite(testFiles())
	if err != nil {
		t.Fatalf("TestSite failed: %v", err)
	}

	tests := []struct {
		path string
		body string
	}{
		{"/components/banner.html", `<div class="banner" data-text="{text}">Banner</div>`},
		{"/templates/card.html", `<div class="card">{{ name }}</div>`},
		{"/content/home.html", `<h1>Home</h1>`},
		{"/style.css", `body{margin:0}`},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			res := TestGet(site, tt.path)
			if !res.IsOK() {
				t.Fatalf("status = %d", res.StatusCode)
			}
			if res.HTML != tt.body {
				t.Errorf("body = %q, want %q", res.HTML, tt.body)
			}
		})
	}

	if res := TestGet(site, "/components/none.html"); !res.IsNotFound() {
		t.Errorf("missing fragment status = %d", res.StatusCode)
	}
}

func TestHandlerMethods(t *testing.T) {
	site, err := TestSite(testFiles())
	if err != nil {
		t.Fatalf("TestSite failed: %v", err)
	}

	res := NewTestRequest(http.MethodPost, "/about").Execute(site)
	if !res.HasStatus(http.StatusMethodNotAllowed) {
		t.Errorf("POST status = %d", res.StatusCode)
	}
	if !res.HasHeader("Allow", "GET, HEAD") {
		t.Errorf("Allow = %q", res.Headers.Get("Allow"))
	}

	res = NewTestRequest(http.MethodHead, "/about").Execute(site)
	if !res.IsOK() || res.HTML != "" {
		t.Errorf("HEAD = %d with %d bytes", res.StatusCode, len(res.HTML))
	}
}

func TestHandlerLingual(t *testing.T) {
	files := map[string]string{
		"index.html":           `<html><body><main id="subpage"></main></body></html>`,
		"content/en/home.html": `<h1>Home</h1>`,
		"content/en/404.html":  `<h1>Not found</h1>`,
		"content/de/home.html": `<h1>Start</h1>`,
		"content/de/404.html":  `<h1>Nicht gefunden</h1>`,
	}
	cfg := Config{Languages: []string{"en", "de"}}
	opts, err := cfg.Options()
	if err != nil {
		t.Fatalf("Options failed: %v", err)
	}
	site, err := TestSite(files, opts...)
	if err != nil {
		t.Fatalf("TestSite failed: %v", err)
	}

	res := NewTestRequest(http.MethodGet, "/").WithHeader("Accept-Language", "de").Execute(site)
	if !res.HTMLContains(`<h1>Start</h1>`) {
		t.Errorf("negotiated page:\n%s", res.HTML)
	}
	if !strings.Contains(strings.Join(res.Headers.Values("Vary"), ","), "Accept-Language") {
		t.Errorf("Vary = %v", res.Headers.Values("Vary"))
	}

	res = TestFragment(site, "/en/missing")
	if !res.IsNotFound() || res.HTML != `<h1>Not found</h1>` {
		t.Errorf("missing = %d %q", res.StatusCode, res.HTML)
	}
}

func TestHandlerWithFetcher(t *testing.T) {
	src := fetch.NewMap(map[string]string{
		"/index.html":        `<html><body><main id="subpage"></main></body></html>`,
		"/content/home.html": `<h1>Remote</h1>`,
		"/content/404.html":  `<h1>Missing</h1>`,
	})
	site, err := New(nil, WithFetcher(src), WithSitemap("home", "404"))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if res := TestFragment(site, "/"); res.HTML != `<h1>Remote</h1>` {
		t.Errorf("body = %q", res.HTML)
	}
	// no file system, so nothing is served as a file
	if res := TestGet(site, "/content/home.html"); res.Route != "404" {
		t.Errorf("route = %q, want the page handler's fallback", res.Route)
	}
}

func TestHandlerETag(t *testing.T) {
	site, err := TestSite(testFiles())
	if err != nil {
		t.Fatalf("TestSite failed: %v", err)
	}

	first := TestGet(site, "/about")
	etag := first.Headers.Get("ETag")
	if etag == "" {
		t.Fatal("no ETag on a page response")
	}

	res := NewTestRequest(http.MethodGet, "/about").WithHeader("If-None-Match", etag).Execute(site)
	if !res.HasStatus(http.StatusNotModified) || res.HTML != "" {
		t.Errorf("conditional GET = %d with %d bytes, want 304", res.StatusCode, len(res.HTML))
	}

	if other := TestGet(site, "/contact").Headers.Get("ETag"); other == etag {
		t.Error("different pages share an ETag")
	}
	if frag := TestFragment(site, "/about").Headers.Get("ETag"); frag == etag {
		t.Error("fragment and page share an ETag")
	}
}
