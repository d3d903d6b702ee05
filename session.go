package subpage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/google/uuid"
	"github.com/pthm/subpage/lib/dom"
	"github.com/pthm/subpage/lib/frame"
	"github.com/pthm/subpage/lib/router"
	"golang.org/x/net/html"
)

// Request carries what a session needs to know about the client.
type Request struct {
	// Path is the URL path the session starts at.
	Path string
	// AcceptLanguage is the raw Accept-Language header, used by language
	// prefixed sites when Path carries no language.
	AcceptLanguage string
	// Connection gates background preloading. Nil means unconstrained.
	Connection router.Connection
}

// RequestFrom reads a Request off an HTTP request.
func RequestFrom(r *http.Request) Request {
	return Request{
		Path:           r.URL.Path,
		AcceptLanguage: r.Header.Get("Accept-Language"),
		Connection:     router.HeaderConnection(r.Header),
	}
}

// Session is one document navigated by one router, the server-side
// counterpart of a browser tab.
type Session struct {
	// ID identifies the session in logs.
	ID string

	Document *dom.Document
	Router   *router.Router
	Frame    *frame.Frame
}

// NewSession loads the shell, resolves its placeholders and shows the route
// req.Path designates. Only a missing or unparsable shell is an error; a
// route that cannot be shown leaves the shell's own mount content.
func (s *Site) NewSession(ctx context.Context, req Request) (*Session, error) {
	id := uuid.NewString()
	ctx = LoggingContext(ctx, Logger(ctx).With("session", id))

	shellPath := "/" + strings.TrimPrefix(s.shell, "/")
	text, ok := s.texts.Get(shellPath)
	if !ok {
		var err error
		text, err = s.fetcher.Fetch(ctx, shellPath)
		if err != nil {
			return nil, fmt.Errorf("subpage: load shell: %w", err)
		}
		s.texts.Set(shellPath, text)
	}
	doc, err := dom.ParseString(text)
	if err != nil {
		return nil, fmt.Errorf("subpage: parse shell: %w", err)
	}

	err = doc.Do(func(root *html.Node) error {
		return s.resolver.Resolve(ctx, root)
	})
	if err != nil {
		Logger(ctx).Warn("shell placeholders unresolved", "shell", s.shell, "error", err)
	}

	fr := frame.New(doc, s.fetcher,
		frame.WithMountID(s.mountID),
		frame.WithResolver(s.resolver),
		frame.WithTextCache(s.texts),
	)

	opts := []router.Option{
		router.WithStrategy(s.strategyFor(req)),
		router.WithCodec(s.codec),
		router.WithConnection(req.Connection),
	}
	if s.title != nil {
		opts = append(opts, router.WithTitle(s.title))
	}
	if s.preload {
		opts = append(opts, router.WithPreload(s.preloadDelay, 0), router.WithPreloadRate(s.preloadRate))
	} else {
		opts = append(opts, router.WithoutPreload())
	}
	rt := router.New(fr, s.sitemap, opts...)
	rt.Start(s.preloadContext(ctx), req.Path)

	return &Session{ID: id, Document: doc, Router: rt, Frame: fr}, nil
}

// Route returns the route currently shown.
func (ss *Session) Route() string {
	return ss.Router.Last()
}

// Navigate shows route and records it in the session history.
func (ss *Session) Navigate(ctx context.Context, route string) {
	ss.Router.SetPage(ctx, route, true)
}

// Render writes the whole document.
func (ss *Session) Render(w io.Writer) error {
	return ss.Document.Render(w)
}

// MountHTML returns the inner HTML of the mount element.
func (ss *Session) MountHTML() (string, error) {
	var out string
	err := ss.Document.Do(func(root *html.Node) error {
		mount := dom.ByID(root, ss.Frame.MountID())
		if mount == nil {
			return fmt.Errorf("%w: #%s", frame.ErrNoMount, ss.Frame.MountID())
		}
		out = dom.InnerHTML(mount)
		return nil
	})
	return out, err
}

// Component renders the whole document as a templ component.
func (ss *Session) Component() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return ss.Render(w)
	})
}

// Mount renders the mount's inner HTML as a templ component, for embedding
// the current page inside a templ layout.
func (ss *Session) Mount() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		out, err := ss.MountHTML()
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	})
}
