package subpage

import (
	"bytes"
	"fmt"
	"net/http"
	"path"

	"github.com/cespare/xxhash/v2"
)

// Handler serves the site: fragment files under /components/, /templates/
// and /content/, other static files by extension, and a rendered session
// for every other GET.
//
// A page request whose route is unknown, or that could only show the
// fallback route, answers 404 with the fallback page.
func (s *Site) Handler() http.Handler {
	mux := http.NewServeMux()

	var files http.Handler
	if s.fsys != nil {
		files = http.FileServerFS(s.fsys)
		mux.Handle("/components/", files)
		mux.Handle("/templates/", files)
		mux.Handle("/content/", files)
	}

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if ext := path.Ext(r.URL.Path); files != nil && ext != "" && ext != ".html" {
			files.ServeHTTP(w, r)
			return
		}
		s.servePage(w, r)
	})
	return mux
}

func (s *Site) servePage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	req := RequestFrom(r)
	sess, err := s.NewSession(ctx, req)
	if err != nil {
		Logger(ctx).Error("session failed", "path", r.URL.Path, "error", err)
		s.OnError(w, r, err)
		return
	}

	strategy := sess.Router.Strategy()
	requested := strategy.RouteFromPath(req.Path)
	status := http.StatusOK
	switch shown := sess.Route(); {
	case shown == "":
		status = http.StatusInternalServerError
	case shown != requested && requested != strategy.Fallback():
		status = http.StatusNotFound
	}

	var buf bytes.Buffer
	if IsFragmentRequest(r) {
		html, err := sess.MountHTML()
		if err != nil {
			s.OnError(w, r, err)
			return
		}
		buf.WriteString(html)
	} else if err := sess.Render(&buf); err != nil {
		s.OnError(w, r, err)
		return
	}

	h := w.Header()
	h.Set("Content-Type", "text/html; charset=utf-8")
	h.Set(RouteHeader, sess.Route())
	if s.lingual != nil {
		h.Add("Vary", "Accept-Language")
	}
	h.Add("Vary", FragmentHeader)

	etag := fmt.Sprintf(`"%016x"`, xxhash.Sum64(buf.Bytes()))
	h.Set("ETag", etag)
	if status == http.StatusOK && r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	Logger(ctx).Debug("page served", "path", req.Path, "route", sess.Route(), "session", sess.ID, "status", status)
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(buf.Bytes())
}
