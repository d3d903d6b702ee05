package router

import (
	"strings"

	"golang.org/x/text/language"
)

// PathStrategy maps between routes, URL paths and content locations.
type PathStrategy interface {
	// Home is the route shown for an empty path.
	Home() string
	// Fallback is the route shown when a route is unknown or fails.
	Fallback() string
	// RouteFromPath returns the route a URL path designates.
	RouteFromPath(urlPath string) string
	// PathFromRoute returns the URL path shown for route.
	PathFromRoute(route string) string
	// StoreLocation returns the fetch path of route's content.
	StoreLocation(route string) string
}

// Plain serves /about from /content/about.html.
type Plain struct {
	HomeRoute     string
	FallbackRoute string
	// ContentPrefix defaults to "/content/", ContentSuffix to ".html".
	ContentPrefix string
	ContentSuffix string
}

// DefaultPlain uses "home" and "404".
var DefaultPlain = Plain{HomeRoute: "home", FallbackRoute: "404"}

func (p Plain) Home() string     { return p.HomeRoute }
func (p Plain) Fallback() string { return p.FallbackRoute }

func (p Plain) RouteFromPath(urlPath string) string {
	route := strings.Trim(urlPath, "/")
	route = strings.TrimSuffix(route, ".html")
	if route == "" || route == "index" {
		return p.HomeRoute
	}
	return route
}

func (p Plain) PathFromRoute(route string) string {
	if route == p.HomeRoute {
		return "/"
	}
	return "/" + route
}

func (p Plain) StoreLocation(route string) string {
	prefix, suffix := p.ContentPrefix, p.ContentSuffix
	if prefix == "" {
		prefix = "/content/"
	}
	if suffix == "" {
		suffix = ".html"
	}
	return prefix + route + suffix
}

// Lingual prefixes every URL and content location with a language:
// /de/about is served from /content/de/about.html.
type Lingual struct {
	Plain
	Supported []language.Tag
	// Lang is the language paths are built for. It defaults to the first
	// supported language.
	Lang language.Tag
}

// NewLingual returns a strategy over base for the supported languages.
func NewLingual(base Plain, supported ...language.Tag) Lingual {
	l := Lingual{Plain: base, Supported: supported}
	if len(supported) > 0 {
		l.Lang = supported[0]
	}
	return l
}

// WithLang returns a copy building paths for lang.
func (l Lingual) WithLang(lang language.Tag) Lingual {
	l.Lang = lang
	return l
}

// LangFromPath reports the supported language a URL path starts with.
func (l Lingual) LangFromPath(urlPath string) (language.Tag, bool) {
	first, _, _ := strings.Cut(strings.TrimPrefix(urlPath, "/"), "/")
	if first == "" {
		return language.Und, false
	}
	tag, err := language.Parse(first)
	if err != nil {
		return language.Und, false
	}
	for _, s := range l.Supported {
		if s.String() == tag.String() {
			return s, true
		}
	}
	return language.Und, false
}

// Negotiate picks the supported language best matching an Accept-Language
// header value.
func (l Lingual) Negotiate(acceptLanguage string) language.Tag {
	if len(l.Supported) == 0 {
		return language.Und
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return l.Supported[0]
	}
	_, idx, _ := language.NewMatcher(l.Supported).Match(tags...)
	return l.Supported[idx]
}

func (l Lingual) RouteFromPath(urlPath string) string {
	if _, ok := l.LangFromPath(urlPath); ok {
		_, rest, _ := strings.Cut(strings.TrimPrefix(urlPath, "/"), "/")
		urlPath = rest
	}
	return l.Plain.RouteFromPath(urlPath)
}

func (l Lingual) PathFromRoute(route string) string {
	if route == l.HomeRoute {
		return "/" + l.Lang.String() + "/"
	}
	return "/" + l.Lang.String() + l.Plain.PathFromRoute(route)
}

func (l Lingual) StoreLocation(route string) string {
	return l.Plain.StoreLocation(l.Lang.String() + "/" + route)
}
