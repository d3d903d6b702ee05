package subpageecho

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pthm/subpage"
)

func testSite(t *testing.T) *subpage.Site {
	t.Helper()
	site, err := subpage.TestSite(map[string]string{
		"index.html":         `<html><head><title>Site</title></head><body><main id="subpage"></main></body></html>`,
		"content/home.html":  `<h1>Home</h1>`,
		"content/about.html": `<h1>About</h1>`,
		"content/404.html":   `<h1>Not found</h1>`,
	})
	if err != nil {
		t.Fatalf("TestSite failed: %v", err)
	}
	return site
}

func get(e *echo.Echo, path string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestMount(t *testing.T) {
	e := echo.New()
	Mount(e, testSite(t))

	rec := get(e, "/about")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "<h1>About</h1>") {
		t.Errorf("body = %q", rec.Body.String())
	}

	rec = get(e, "/about", subpage.FragmentHeader, "true")
	if rec.Body.String() != "<h1>About</h1>" {
		t.Errorf("fragment body = %q", rec.Body.String())
	}

	if rec := get(e, "/content/home.html"); rec.Body.String() != "<h1>Home</h1>" {
		t.Errorf("fragment file = %q", rec.Body.String())
	}
}

func TestMountGroup(t *testing.T) {
	e := echo.New()
	g := e.Group("/docs")
	MountGroup(g, testSite(t), WithStripPrefix("/docs"))

	rec := get(e, "/docs/about")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "<h1>About</h1>") {
		t.Errorf("GET /docs/about = %d %q", rec.Code, rec.Body.String())
	}

	rec = get(e, "/docs/missing")
	if rec.Code != http.StatusNotFound {
		t.Errorf("GET /docs/missing = %d, want 404", rec.Code)
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	e := echo.New()
	e.Use(Logger(logger))
	Mount(e, testSite(t))

	get(e, "/missing")
	if !strings.Contains(buf.String(), "unknown route") {
		t.Errorf("site did not log through the middleware logger:\n%s", buf.String())
	}
}

func TestSessionAndRender(t *testing.T) {
	site := testSite(t)
	e := echo.New()
	e.GET("/page/*", func(c echo.Context) error {
		sess, err := Session(c, site)
		if err != nil {
			return err
		}
		sess.Navigate(c.Request().Context(), "about")
		return Render(c, sess.Mount())
	})

	rec := get(e, "/page/home")
	if rec.Body.String() != "<h1>About</h1>" {
		t.Errorf("body = %q", rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
}
