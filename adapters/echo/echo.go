// Package subpageecho mounts a subpage site on the Echo framework.
//
//	site, err := subpage.Open(subpage.Config{Dir: "site"})
//	e := echo.New()
//	e.Use(subpageecho.Logger(slog.Default()))
//	subpageecho.Mount(e, site)
//
// Or under a group, sharing its middleware:
//
//	g := e.Group("/docs", authMiddleware)
//	subpageecho.MountGroup(g, site, subpageecho.WithStripPrefix("/docs"))
package subpageecho

import (
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/pthm/subpage"
)

// Option configures Mount and MountGroup.
type Option func(*options)

type options struct {
	strip string
}

// WithStripPrefix removes prefix from request paths before the site sees
// them. Use it with MountGroup so /docs/about is served as /about.
func WithStripPrefix(prefix string) Option {
	return func(o *options) {
		o.strip = prefix
	}
}

// Mount serves site for every path of e not matched by another route.
func Mount(e *echo.Echo, site *subpage.Site, opts ...Option) {
	e.Any("/*", wrap(site, opts))
}

// MountGroup serves site for every path of g not matched by another route.
func MountGroup(g *echo.Group, site *subpage.Site, opts ...Option) {
	g.Any("/*", wrap(site, opts))
	g.Any("", wrap(site, opts))
}

func wrap(site *subpage.Site, opts []Option) echo.HandlerFunc {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	var h http.Handler = site.Handler()
	if o.strip != "" {
		h = http.StripPrefix(o.strip, h)
	}
	return echo.WrapHandler(h)
}

// Logger is middleware that hands logger to the site through the request
// context.
func Logger(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			c.SetRequest(req.WithContext(subpage.LoggingContext(req.Context(), logger)))
			return next(c)
		}
	}
}

// Session starts a session for the request of c, for handlers that embed
// the current page in their own templ layout.
//
//	e.GET("/app/*", func(c echo.Context) error {
//	    sess, err := subpageecho.Session(c, site)
//	    if err != nil {
//	        return err
//	    }
//	    return subpageecho.Render(c, layout(sess.Mount()))
//	})
func Session(c echo.Context, site *subpage.Site) (*subpage.Session, error) {
	req := c.Request()
	return site.NewSession(req.Context(), subpage.RequestFrom(req))
}

// Render writes a templ component to the Echo response.
func Render(c echo.Context, component templ.Component) error {
	c.Response().Header().Set("Content-Type", "text/html; charset=utf-8")
	return component.Render(c.Request().Context(), c.Response())
}
