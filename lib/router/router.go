// Package router swaps the content of a frame between the routes of a fixed
// sitemap, keeping history, CSS marker classes, the document title and
// anchor bindings in step with what is shown.
//
// Navigation never fails from the caller's point of view. An unknown route
// shows the fallback route; a route whose content cannot be injected falls
// back once and otherwise leaves the display as it was. Both cases are
// logged through the context logger.
package router

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/pthm/subpage/lib/dom"
	"github.com/pthm/subpage/lib/frame"
	"github.com/pthm/subpage/lib/logctx"
	"github.com/pthm/subpage/lib/state"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/html"
	"golang.org/x/time/rate"
)

var ErrUnknownRoute = errors.New("router: route not in sitemap")

const (
	DefaultRouteAttr    = "subpage"
	DefaultEventAttr    = "subpage-event"
	DefaultEvent        = "click"
	DefaultPreloadDelay = 2 * time.Second
	DefaultPreloadLimit = 4
)

var tracer = otel.Tracer("github.com/pthm/subpage/lib/router")

// Option configures a Router.
type Option func(*Router)

// WithStrategy sets the path strategy. Default DefaultPlain.
func WithStrategy(s PathStrategy) Option {
	return func(r *Router) { r.strategy = s }
}

// WithHistory sets the history kept in sync. Default a MemoryHistory.
func WithHistory(h History) Option {
	return func(r *Router) { r.history = h }
}

// WithCodec sets the codec for history state. Default unsigned.
func WithCodec(c *state.Codec) Option {
	return func(r *Router) { r.codec = c }
}

// WithConnection sets the connection consulted before preloading.
func WithConnection(c Connection) Option {
	return func(r *Router) { r.conn = c }
}

// WithTitle sets the document title after each navigation.
func WithTitle(format func(route string) string) Option {
	return func(r *Router) { r.title = format }
}

// WithAnchorAttrs sets the route and trigger-event attributes read from
// anchors.
func WithAnchorAttrs(routeAttr, eventAttr string) Option {
	return func(r *Router) {
		r.routeAttr = routeAttr
		r.eventAttr = eventAttr
	}
}

// WithDefaultEvent sets the event anchors are bound to when they carry no
// event attribute. Default "click".
func WithDefaultEvent(event string) Option {
	return func(r *Router) { r.defaultEvent = event }
}

// WithPreload enables background preloading, starting after delay with at
// most limit fetches at once.
func WithPreload(delay time.Duration, limit int) Option {
	return func(r *Router) {
		r.noPreload = false
		r.preloadDelay = delay
		if limit > 0 {
			r.preloadLimit = limit
		}
	}
}

// WithPreloadRate caps background fetches at r per second, with bursts of
// one. Default unlimited.
func WithPreloadRate(r float64) Option {
	return func(rt *Router) {
		if r > 0 {
			rt.preloadRate = rate.NewLimiter(rate.Limit(r), 1)
		}
	}
}

// WithoutPreload disables background preloading.
func WithoutPreload() Option {
	return func(r *Router) { r.noPreload = true }
}

type binding struct {
	route string
	event string
}

// Router owns the navigation state of one document.
type Router struct {
	frame    *frame.Frame
	sitemap  []string
	routes   map[string]bool
	strategy PathStrategy
	history  History
	codec    *state.Codec
	conn     Connection
	title    func(string) string

	routeAttr    string
	eventAttr    string
	defaultEvent string

	noPreload    bool
	preloadDelay time.Duration
	preloadLimit int
	preloadRate  *rate.Limiter
	preloadOnce  sync.Once
	preloaded    chan struct{}

	// nav serializes transitions.
	nav sync.Mutex

	mu       sync.Mutex
	last     string
	nextID   int
	before   []listener
	after    []listener
	bindings map[*html.Node]binding
}

// New returns a router over fr accepting the routes of sitemap. Nothing is
// shown until Start.
func New(fr *frame.Frame, sitemap []string, opts ...Option) *Router {
	r := &Router{
		frame:        fr,
		sitemap:      slices.Clone(sitemap),
		routes:       make(map[string]bool, len(sitemap)),
		strategy:     DefaultPlain,
		routeAttr:    DefaultRouteAttr,
		eventAttr:    DefaultEventAttr,
		defaultEvent: DefaultEvent,
		preloadDelay: DefaultPreloadDelay,
		preloadLimit: DefaultPreloadLimit,
		preloaded:    make(chan struct{}),
		bindings:     make(map[*html.Node]binding),
	}
	for _, route := range sitemap {
		r.routes[route] = true
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.history == nil {
		r.history = NewMemoryHistory()
	}
	if r.codec == nil {
		r.codec = state.NewCodec(nil)
	}
	return r
}

// Start shows the route designated by urlPath, then preloads the other
// routes in the background. It returns once the initial route settles.
func (r *Router) Start(ctx context.Context, urlPath string) {
	r.SetPage(ctx, r.strategy.RouteFromPath(urlPath), true)
	r.preloadOnce.Do(func() {
		paths := r.preloadPaths(ctx)
		if len(paths) == 0 {
			close(r.preloaded)
			return
		}
		go r.preload(ctx, paths)
	})
}

// Sitemap returns the accepted routes.
func (r *Router) Sitemap() []string { return slices.Clone(r.sitemap) }

// Has reports whether route is in the sitemap.
func (r *Router) Has(route string) bool { return r.routes[route] }

// Strategy returns the path strategy.
func (r *Router) Strategy() PathStrategy { return r.strategy }

// Frame returns the frame the router injects into.
func (r *Router) Frame() *frame.Frame { return r.frame }

// Last returns the route currently shown, or "" before the first one.
func (r *Router) Last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// SetPage shows target. With updateHistory, a history entry is pushed
// unless target is already the current entry. SetPage never fails; see the
// package documentation.
func (r *Router) SetPage(ctx context.Context, target string, updateHistory bool) {
	r.nav.Lock()
	defer r.nav.Unlock()

	ctx, span := tracer.Start(ctx, "router.SetPage", trace.WithAttributes(
		attribute.String("subpage.route", target),
	))
	defer span.End()

	r.transition(ctx, target, updateHistory)
	span.SetAttributes(attribute.String("subpage.shown", r.Last()))
}

// transition reports whether target's content was injected.
func (r *Router) transition(ctx context.Context, target string, updateHistory bool) bool {
	log := logctx.From(ctx)

	before := &Event{Route: target, cancelable: true}
	r.fire(ctx, &r.before, before)
	if before.Canceled() {
		log.Debug("navigation canceled", "route", target)
		return false
	}

	fallback := r.strategy.Fallback()
	if !r.Has(target) && target != fallback {
		log.Warn("unknown route, showing fallback", "route", target, "fallback", fallback, "error", ErrUnknownRoute)
		if updateHistory {
			r.syncHistory(ctx, fallback)
		}
		if err := r.frame.Inject(ctx, r.strategy.StoreLocation(fallback)); err != nil {
			log.Error("fallback injection failed", "route", fallback, "path", r.strategy.StoreLocation(fallback), "error", err)
			return false
		}
		r.settle(ctx, fallback)
		return true
	}

	path := r.strategy.StoreLocation(target)
	if err := r.frame.Inject(ctx, path); err != nil {
		log.Error("injection failed", "route", target, "path", path, "error", err)
		if target == fallback {
			return false
		}
		if !r.transition(ctx, fallback, updateHistory) {
			log.Error("fallback failed, keeping current page", "route", target, "fallback", fallback, "shown", r.Last())
			return false
		}
		return true
	}

	if updateHistory {
		r.syncHistory(ctx, target)
	}
	r.settle(ctx, target)
	return true
}

// settle applies the side effects of showing route and notifies listeners.
func (r *Router) settle(ctx context.Context, route string) {
	if r.title != nil {
		r.frame.Document().SetTitle(r.title(route))
	}
	_ = r.frame.Document().Do(func(root *html.Node) error {
		r.markClasses(root, route)
		r.bind(ctx, root)
		return nil
	})

	r.mu.Lock()
	r.last = route
	r.mu.Unlock()

	r.fire(ctx, &r.after, &Event{Route: route})
}

// ClassFor returns the CSS marker class of route.
func ClassFor(route string) string {
	return strings.ReplaceAll(route, "/", "-")
}

func (r *Router) markClasses(root *html.Node, route string) {
	body := dom.Body(root)
	if body == nil {
		return
	}
	for _, s := range r.sitemap {
		dom.RemoveClass(body, ClassFor(s))
	}
	if r.Has(route) {
		dom.AddClass(body, ClassFor(route))
	}
}

func (r *Router) syncHistory(ctx context.Context, route string) {
	if cur, ok := r.history.Current(); ok {
		if st, err := r.codec.Decode(cur.State); err == nil {
			if st.Route == route {
				return
			}
			r.pushState(ctx, route, r.history.Push)
			return
		}
	}
	r.pushState(ctx, route, r.history.Replace)
}

func (r *Router) pushState(ctx context.Context, route string, write func(Entry)) {
	path := r.strategy.PathFromRoute(route)
	encoded, err := r.codec.Encode(state.State{Route: route, Path: path})
	if err != nil {
		logctx.From(ctx).Error("history state encoding failed", "route", route, "error", err)
		return
	}
	write(Entry{Path: path, State: encoded})
}

// PopState shows the route stored in a history entry without touching
// history, as on back and forward traversal.
func (r *Router) PopState(ctx context.Context, encoded string) {
	st, err := r.codec.Decode(encoded)
	if err != nil {
		logctx.From(ctx).Warn("ignoring history entry", "error", err)
		return
	}
	r.SetPage(ctx, st.Route, false)
}
