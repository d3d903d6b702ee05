package router

import (
	"context"
	"sort"

	"github.com/pthm/subpage/lib/dom"
	"github.com/pthm/subpage/lib/logctx"
	"golang.org/x/net/html"
)

// Anchor describes an intercepted link.
type Anchor struct {
	Route string
	Event string
	Href  string
}

// bind rebuilds the binding table from every routed anchor in the
// document. Anchors without href get one built from their route.
func (r *Router) bind(ctx context.Context, root *html.Node) {
	anchors, err := dom.ElementsWithAttr(root, "a", r.routeAttr)
	if err != nil {
		logctx.From(ctx).Error("anchor scan failed", "error", err)
		return
	}

	bindings := make(map[*html.Node]binding, len(anchors))
	for _, a := range anchors {
		route, _ := dom.Attr(a, r.routeAttr)
		if !r.Has(route) {
			logctx.From(ctx).Warn("anchor route not in sitemap, leaving it unbound", "route", route)
			continue
		}
		if _, ok := dom.Attr(a, "href"); !ok {
			dom.SetAttr(a, "href", r.strategy.PathFromRoute(route))
		}
		event, ok := dom.Attr(a, r.eventAttr)
		if !ok || event == "" {
			event = r.defaultEvent
		}
		bindings[a] = binding{route: route, event: event}
	}

	r.mu.Lock()
	r.bindings = bindings
	r.mu.Unlock()
}

// Dispatch delivers event to anchor. It reports whether the router took
// over, in which case the anchor's default action must be suppressed.
func (r *Router) Dispatch(ctx context.Context, anchor *html.Node, event string) bool {
	r.mu.Lock()
	b, ok := r.bindings[anchor]
	r.mu.Unlock()
	if !ok || b.event != event {
		return false
	}
	r.SetPage(ctx, b.route, true)
	return true
}

// Anchors lists the bound anchors, ordered by route then href.
func (r *Router) Anchors() []Anchor {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Anchor, 0, len(r.bindings))
	for n, b := range r.bindings {
		href, _ := dom.Attr(n, "href")
		out = append(out, Anchor{Route: b.route, Event: b.event, Href: href})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Route != out[j].Route {
			return out[i].Route < out[j].Route
		}
		return out[i].Href < out[j].Href
	})
	return out
}
