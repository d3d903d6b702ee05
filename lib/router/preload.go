package router

import (
	"context"
	"net/http"
	"strings"

	"github.com/pthm/subpage/lib/logctx"
	"github.com/pthm/subpage/lib/timing"
	"golang.org/x/sync/errgroup"
)

// Connection describes the client's network conditions.
type Connection interface {
	// SaveData reports reduced-data mode.
	SaveData() bool
	// EffectiveType is the effective connection class: "slow-2g", "2g",
	// "3g" or "4g".
	EffectiveType() string
}

// StaticConnection is a fixed Connection.
type StaticConnection struct {
	Data bool
	Type string
}

func (c StaticConnection) SaveData() bool        { return c.Data }
func (c StaticConnection) EffectiveType() string { return c.Type }

// HeaderConnection reads the Save-Data and ECT client hints of a request.
func HeaderConnection(h http.Header) Connection {
	return StaticConnection{
		Data: strings.EqualFold(h.Get("Save-Data"), "on"),
		Type: strings.ToLower(h.Get("ECT")),
	}
}

// Constrained reports whether c asks for no speculative traffic.
func Constrained(c Connection) bool {
	if c == nil {
		return false
	}
	if c.SaveData() {
		return true
	}
	switch c.EffectiveType() {
	case "slow-2g", "2g":
		return true
	}
	return false
}

// Preloaded returns a channel closed when background preloading has
// finished or was skipped.
func (r *Router) Preloaded() <-chan struct{} {
	return r.preloaded
}

// preloadPaths returns the content paths background preloading would
// fetch: every route but the current one whose text is not cached yet.
func (r *Router) preloadPaths(ctx context.Context) []string {
	if r.noPreload {
		return nil
	}
	if Constrained(r.conn) {
		logctx.From(ctx).Debug("constrained connection, skipping preload")
		return nil
	}
	current := r.Last()
	texts := r.frame.Texts()
	var paths []string
	for _, route := range r.sitemap {
		if route == current {
			continue
		}
		path := r.strategy.StoreLocation(route)
		if _, ok := texts.Get(path); ok {
			continue
		}
		paths = append(paths, path)
	}
	return paths
}

func (r *Router) preload(ctx context.Context, paths []string) {
	defer close(r.preloaded)

	if err := timing.Delay(ctx, r.preloadDelay); err != nil {
		return
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.preloadLimit)
	for _, path := range paths {
		g.Go(func() error {
			if r.preloadRate != nil {
				if err := r.preloadRate.Wait(ctx); err != nil {
					return err
				}
			}
			r.frame.Preload(ctx, path)
			return nil
		})
	}
	_ = g.Wait()
	logctx.From(ctx).Debug("preload finished", "paths", len(paths))
}
