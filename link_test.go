package subpage

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/a-h/templ"
)

func TestLinkAttrs(t *testing.T) {
	tests := []struct {
		name string
		link *LinkBuilder
		want templ.Attributes
	}{
		{"plain", Link("about"), templ.Attributes{"subpage": "about"}},
		{"default event", Link("about").On("click"), templ.Attributes{"subpage": "about"}},
		{"event", Link("about").On("mouseover"), templ.Attributes{"subpage": "about", "subpage-event": "mouseover"}},
		{"href", Link("home").Href("/"), templ.Attributes{"subpage": "home", "href": "/"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.link.Attrs()
			if len(got) != len(tt.want) {
				t.Fatalf("Attrs() = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("Attrs()[%q] = %v, want %v", k, got[k], v)
				}
			}
		})
	}
}

func TestRenderAndFragmentRequest(t *testing.T) {
	site, err := TestSite(testFiles())
	if err != nil {
		t.Fatalf("TestSite failed: %v", err)
	}
	sess, err := site.NewSession(context.Background(), Request{Path: "/contact"})
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/contact", nil)
	if IsFragmentRequest(req) {
		t.Error("plain request reported as fragment request")
	}
	req.Header.Set(FragmentHeader, "true")
	if !IsFragmentRequest(req) {
		t.Error("fragment request not detected")
	}

	rec := httptest.NewRecorder()
	if err := Render(rec, req, sess.Mount()); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if rec.Body.String() != `<h1>Contact</h1>` {
		t.Errorf("body = %q", rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}

	var page bytes.Buffer
	if err := sess.Component().Render(context.Background(), &page); err != nil {
		t.Fatalf("Component().Render failed: %v", err)
	}
	if page.String() != sess.Document.String() {
		t.Error("Component() output differs from the document")
	}
}
