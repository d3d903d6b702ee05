// Package frame mounts fetched subpages into one element of a document.
package frame

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/pthm/subpage/lib/dom"
	"github.com/pthm/subpage/lib/fetch"
	"github.com/pthm/subpage/lib/logctx"
	"github.com/pthm/subpage/lib/resolve"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/html"
)

// DefaultMountID is the id of the element a Frame mounts into.
const DefaultMountID = "subpage"

var ErrNoMount = errors.New("frame: mount element not found")

var tracer = otel.Tracer("github.com/pthm/subpage/lib/frame")

// TextCache keeps raw subpage text by fetch path. Entries never expire.
type TextCache struct {
	mu    sync.RWMutex
	texts map[string]string
}

func NewTextCache() *TextCache {
	return &TextCache{texts: make(map[string]string)}
}

func (c *TextCache) Get(path string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.texts[path]
	return t, ok
}

func (c *TextCache) Set(path, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.texts == nil {
		c.texts = make(map[string]string)
	}
	c.texts[path] = text
}

func (c *TextCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.texts)
}

// Reset drops every entry. Only development reloads call it.
func (c *TextCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.texts = make(map[string]string)
}

// Option configures a Frame.
type Option func(*Frame)

// WithMountID sets the id of the mount element. Default "subpage".
func WithMountID(id string) Option {
	return func(f *Frame) {
		f.mountID = id
	}
}

// WithResolver sets what runs over freshly mounted content. Default is a
// component engine over the frame's fetcher.
func WithResolver(r resolve.Resolver) Option {
	return func(f *Frame) {
		f.resolver = r
	}
}

// WithTextCache shares a text cache between frames.
func WithTextCache(c *TextCache) Option {
	return func(f *Frame) {
		f.texts = c
	}
}

// Frame owns one mount point of a document.
type Frame struct {
	doc      *dom.Document
	fetcher  fetch.Fetcher
	resolver resolve.Resolver
	texts    *TextCache
	mountID  string

	mu   sync.Mutex
	last string
}

// New returns a frame mounting into doc.
func New(doc *dom.Document, f fetch.Fetcher, opts ...Option) *Frame {
	fr := &Frame{
		doc:     doc,
		fetcher: f,
		mountID: DefaultMountID,
	}
	for _, opt := range opts {
		opt(fr)
	}
	if fr.resolver == nil {
		fr.resolver = resolve.NewComponentEngine(f)
	}
	if fr.texts == nil {
		fr.texts = NewTextCache()
	}
	return fr
}

// Document returns the document the frame mounts into.
func (f *Frame) Document() *dom.Document { return f.doc }

// MountID returns the id of the mount element.
func (f *Frame) MountID() string { return f.mountID }

// Texts returns the frame's text cache.
func (f *Frame) Texts() *TextCache { return f.texts }

// Last returns the path most recently injected successfully.
func (f *Frame) Last() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

// Inject mounts the subpage at path. Injecting the path already mounted
// does nothing. A failed fetch leaves the mount untouched. Placeholders in
// the new content are resolved before it is mounted; if that fails the
// partially resolved content is still mounted and the error returned.
func (f *Frame) Inject(ctx context.Context, path string) (err error) {
	if f.Last() == path {
		return nil
	}

	ctx, span := tracer.Start(ctx, "frame.Inject", trace.WithAttributes(attribute.String("subpage.path", path)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	text, cached := f.texts.Get(path)
	span.SetAttributes(attribute.Bool("subpage.cached", cached))
	if !cached {
		text, err = f.fetcher.Fetch(ctx, path)
		if err != nil {
			return fmt.Errorf("frame: inject %s: %w", path, err)
		}
	}

	var container *html.Node
	err = f.doc.Do(func(root *html.Node) error {
		mount := dom.ByID(root, f.mountID)
		if mount == nil {
			return fmt.Errorf("%w: #%s", ErrNoMount, f.mountID)
		}
		container = &html.Node{Type: html.ElementNode, Data: mount.Data, DataAtom: mount.DataAtom}
		return nil
	})
	if err != nil {
		return err
	}
	if err := dom.SetInnerHTML(container, text); err != nil {
		return fmt.Errorf("frame: inject %s: %w", path, err)
	}
	f.texts.Set(path, text)

	resolveErr := f.resolver.Resolve(ctx, container)

	err = f.doc.Do(func(root *html.Node) error {
		mount := dom.ByID(root, f.mountID)
		if mount == nil {
			return fmt.Errorf("%w: #%s", ErrNoMount, f.mountID)
		}
		dom.ReplaceChildren(mount, dom.Children(container)...)
		return nil
	})
	if err != nil {
		return err
	}

	f.mu.Lock()
	if resolveErr == nil {
		f.last = path
	} else {
		f.last = ""
	}
	f.mu.Unlock()

	if resolveErr != nil {
		return fmt.Errorf("frame: resolve %s: %w", path, resolveErr)
	}
	logctx.From(ctx).Debug("injected subpage", "path", path, "cached", cached)
	return nil
}

// Preload fetches path into the text cache without mounting it. Failures
// are logged, never returned.
func (f *Frame) Preload(ctx context.Context, path string) {
	if _, ok := f.texts.Get(path); ok {
		return
	}
	ctx, span := tracer.Start(ctx, "frame.Preload", trace.WithAttributes(attribute.String("subpage.path", path)))
	defer span.End()

	text, err := f.fetcher.Fetch(ctx, path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logctx.From(ctx).Warn("preload failed", "path", path, "error", err)
		return
	}
	f.texts.Set(path, text)
}
