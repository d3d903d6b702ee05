package subpage

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/pthm/subpage/lib/eval"
	"github.com/pthm/subpage/lib/fetch"
	"github.com/pthm/subpage/lib/frame"
	"github.com/pthm/subpage/lib/resolve"
	"github.com/pthm/subpage/lib/router"
	"github.com/pthm/subpage/lib/state"
	"golang.org/x/text/language"
)

// DefaultShell is the document every session starts from.
const DefaultShell = "index.html"

// Site is the wiring point of one subpage site: the fragment source, the
// process-wide fragment and text caches, and the sitemap. Sessions created
// from one Site share its caches.
type Site struct {
	fsys      fs.FS
	fetcher   fetch.Fetcher
	sitemap   []string
	strategy  router.Plain
	languages []language.Tag
	lingual   *router.Lingual

	components *resolve.Cache
	templates  *resolve.Cache
	texts      *frame.TextCache
	resolver   resolve.Chain

	codec        *state.Codec
	title        func(route string) string
	shell        string
	mountID      string
	maxDepth     int
	minify       bool
	preloadDelay time.Duration
	preloadRate  float64
	preload      bool

	// OnError is called when a page cannot be rendered.
	OnError func(http.ResponseWriter, *http.Request, error)
}

// Option configures a Site.
type Option func(*Site)

// WithFetcher reads fragments from f instead of the site file system.
func WithFetcher(f fetch.Fetcher) Option {
	return func(s *Site) { s.fetcher = f }
}

// WithSitemap fixes the accepted routes. By default they are discovered
// from content/**/*.html.
func WithSitemap(routes ...string) Option {
	return func(s *Site) { s.sitemap = routes }
}

// WithRoutes sets the home and fallback routes. Defaults "home" and "404".
func WithRoutes(home, fallback string) Option {
	return func(s *Site) {
		s.strategy = router.Plain{HomeRoute: home, FallbackRoute: fallback}
	}
}

// WithLanguages serves every route under a language prefix, /de/about
// from content/de/about.html. The first language is the default.
func WithLanguages(tags ...language.Tag) Option {
	return func(s *Site) { s.languages = tags }
}

// WithTitle sets the document title after every navigation.
func WithTitle(format func(route string) string) Option {
	return func(s *Site) { s.title = format }
}

// WithShell names the shell document. Default "index.html".
func WithShell(name string) Option {
	return func(s *Site) { s.shell = name }
}

// WithMountID sets the id of the element pages mount into.
func WithMountID(id string) Option {
	return func(s *Site) { s.mountID = id }
}

// WithStateKey signs history state with key.
func WithStateKey(key []byte) Option {
	return func(s *Site) { s.codec = state.NewCodec(key) }
}

// WithMaxDepth bounds fragment nesting.
func WithMaxDepth(n int) Option {
	return func(s *Site) { s.maxDepth = n }
}

// WithMinify minifies every fetched fragment.
func WithMinify() Option {
	return func(s *Site) { s.minify = true }
}

// WithPreload warms the text cache with every route after delay when a
// session starts. Preloading outlives the request that started it.
func WithPreload(delay time.Duration) Option {
	return func(s *Site) {
		s.preload = true
		s.preloadDelay = delay
	}
}

// WithPreloadRate caps preload fetches of each session at perSecond.
func WithPreloadRate(perSecond float64) Option {
	return func(s *Site) { s.preloadRate = perSecond }
}

// New returns a Site serving fsys.
func New(fsys fs.FS, opts ...Option) (*Site, error) {
	s := &Site{
		fsys:       fsys,
		strategy:   router.DefaultPlain,
		components: resolve.NewCache(),
		templates:  resolve.NewCache(),
		texts:      frame.NewTextCache(),
		codec:      state.NewCodec(nil),
		shell:      DefaultShell,
		mountID:    frame.DefaultMountID,
		maxDepth:   resolve.DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(s)
	}

	if len(s.languages) > 0 {
		l := router.NewLingual(s.strategy, s.languages...)
		s.lingual = &l
	}

	if s.fetcher == nil {
		if fsys == nil {
			return nil, fmt.Errorf("subpage: no file system and no fetcher")
		}
		s.fetcher = fetch.FS{FS: fsys}
	}
	if s.minify {
		s.fetcher = fetch.Minify(s.fetcher)
	}
	s.fetcher = fetch.Dedupe(s.fetcher)

	if s.sitemap == nil {
		if fsys == nil {
			return nil, fmt.Errorf("subpage: a sitemap is required without a file system")
		}
		dir := "content"
		if s.lingual != nil {
			dir += "/" + s.lingual.Lang.String()
		}
		routes, err := SitemapFromFS(fsys, dir)
		if err != nil {
			return nil, err
		}
		s.sitemap = routes
	}

	ev := eval.New()
	s.resolver = resolve.Chain{
		resolve.NewComponentEngine(s.fetcher, resolve.WithCache(s.components), resolve.WithMaxDepth(s.maxDepth)),
		resolve.NewTemplateEngine(s.fetcher, ev, resolve.WithCache(s.templates), resolve.WithMaxDepth(s.maxDepth)),
	}

	s.OnError = func(w http.ResponseWriter, r *http.Request, err error) {
		if IsNotFound(err) {
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Internal error", http.StatusInternalServerError)
	}
	return s, nil
}

// Sitemap returns the accepted routes.
func (s *Site) Sitemap() []string {
	return append([]string(nil), s.sitemap...)
}

// Fetcher returns the fetcher sessions read fragments with.
func (s *Site) Fetcher() fetch.Fetcher { return s.fetcher }

// Resolver returns the placeholder resolver shared by every session.
func (s *Site) Resolver() resolve.Resolver { return s.resolver }

// Reset drops every cached fragment and page text.
func (s *Site) Reset() {
	s.components.Reset()
	s.templates.Reset()
	s.texts.Reset()
}

// Stats reports cache sizes.
func (s *Site) Stats() (components, templates, texts int) {
	return s.components.Len(), s.templates.Len(), s.texts.Len()
}

// strategyFor picks the path strategy of one request.
func (s *Site) strategyFor(req Request) router.PathStrategy {
	if s.lingual == nil {
		return s.strategy
	}
	if lang, ok := s.lingual.LangFromPath(req.Path); ok {
		return s.lingual.WithLang(lang)
	}
	return s.lingual.WithLang(s.lingual.Negotiate(req.AcceptLanguage))
}

func (s *Site) preloadContext(ctx context.Context) context.Context {
	if s.preload {
		return context.WithoutCancel(ctx)
	}
	return ctx
}
