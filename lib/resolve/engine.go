// Package resolve expands placeholder elements into fetched fragments.
//
// An Engine scans a subtree for placeholders of one Kind, replaces each one
// through a cached Factory and rescans until none remain, so fragments may
// contain further placeholders. Each inserted subtree remembers the chain
// of fragment identifiers that produced it; a placeholder naming an
// identifier already on its chain fails the pass with ErrCycle instead of
// expanding forever.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/pthm/subpage/lib/dom"
	"github.com/pthm/subpage/lib/eval"
	"github.com/pthm/subpage/lib/fetch"
	"github.com/pthm/subpage/lib/logctx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/html"
)

var (
	ErrCycle         = errors.New("resolve: fragment cycle")
	ErrDepthExceeded = errors.New("resolve: nesting depth exceeded")
	ErrMissingName   = errors.New("resolve: placeholder has no fragment name")
)

// DefaultMaxDepth bounds how deeply fragments may nest.
const DefaultMaxDepth = 32

var tracer = otel.Tracer("github.com/pthm/subpage/lib/resolve")

// Resolver expands every placeholder under a root node.
type Resolver interface {
	Resolve(ctx context.Context, root *html.Node) error
}

// Option configures an Engine.
type Option func(*Engine)

// WithCache shares a fragment cache between engines of the same Kind.
func WithCache(c *Cache) Option {
	return func(e *Engine) {
		e.cache = c
	}
}

// WithMaxDepth sets the nesting limit. Values below 1 are ignored.
func WithMaxDepth(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxDepth = n
		}
	}
}

// WithKind overrides the placeholder markup and fetch paths.
func WithKind(k Kind) Option {
	return func(e *Engine) {
		e.kind = k
	}
}

// Engine resolves placeholders of one Kind.
type Engine struct {
	kind     Kind
	fetcher  fetch.Fetcher
	build    Builder
	cache    *Cache
	maxDepth int
}

// NewEngine returns an engine fetching fragments with f and compiling them
// with build.
func NewEngine(kind Kind, f fetch.Fetcher, build Builder, opts ...Option) *Engine {
	e := &Engine{
		kind:     kind,
		fetcher:  f,
		build:    build,
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.cache == nil {
		e.cache = NewCache()
	}
	return e
}

// NewComponentEngine resolves <component> placeholders.
func NewComponentEngine(f fetch.Fetcher, opts ...Option) *Engine {
	return NewEngine(ComponentKind, f, BuildComponent, opts...)
}

// NewTemplateEngine resolves <use-template> placeholders, evaluating
// expressions with ev.
func NewTemplateEngine(f fetch.Fetcher, ev eval.Evaluator, opts ...Option) *Engine {
	return NewEngine(TemplateKind, f, BuildTemplate(ev), opts...)
}

// Kind returns the placeholder kind the engine resolves.
func (e *Engine) Kind() Kind { return e.kind }

// Cache returns the engine's fragment cache.
func (e *Engine) Cache() *Cache { return e.cache }

// Resolve expands every placeholder under root, including those introduced
// by earlier expansions. Work already done is kept when it fails.
func (e *Engine) Resolve(ctx context.Context, root *html.Node) error {
	_, err := e.run(ctx, root, newTrail())
	return err
}

func (e *Engine) run(ctx context.Context, root *html.Node, tr *trail) (n int, err error) {
	ctx, span := tracer.Start(ctx, "resolve.Resolve", trace.WithAttributes(
		attribute.String("subpage.kind", e.kind.Tag),
	))
	defer func() {
		span.SetAttributes(attribute.Int("subpage.expanded", n))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	for {
		found, err := dom.ElementsNamed(root, e.kind.Tag)
		if err != nil {
			return n, fmt.Errorf("resolve: scan: %w", err)
		}
		expanded := 0
		for _, ph := range found {
			if err := ctx.Err(); err != nil {
				return n, err
			}
			// an earlier expansion in this round may have consumed it
			if !dom.Contains(root, ph) {
				continue
			}
			if err := e.expand(ctx, root, ph, tr); err != nil {
				return n, err
			}
			expanded++
		}
		n += expanded
		if expanded == 0 {
			return n, nil
		}
	}
}

func (e *Engine) expand(ctx context.Context, root, ph *html.Node, tr *trail) error {
	name, _ := dom.Attr(ph, e.kind.NameAttr)
	if name == "" {
		return fmt.Errorf("%w: <%s>", ErrMissingName, e.kind.Tag)
	}
	key := e.kind.Tag + ":" + name

	chain := tr.chainOf(root, ph)
	if slices.Contains(chain, key) {
		return fmt.Errorf("%w: %s -> %s", ErrCycle, strings.Join(chain, " -> "), key)
	}
	if len(chain) >= e.maxDepth {
		return fmt.Errorf("%w: %s at depth %d", ErrDepthExceeded, key, len(chain))
	}

	f, err := e.Factory(ctx, name)
	if err != nil {
		return err
	}
	exp, err := f.Expand(ph)
	if err != nil {
		return fmt.Errorf("resolve: %s: %w", key, err)
	}

	next := append(slices.Clone(chain), key)
	for _, n := range exp.Nodes {
		tr.mark(n, next)
	}
	for _, n := range exp.Carried {
		tr.mark(n, chain)
	}
	logctx.From(ctx).Debug("expanded placeholder", "kind", e.kind.Tag, "name", name, "depth", len(next))
	return nil
}

// Factory returns the factory for name, fetching and compiling it on the
// first reference.
func (e *Engine) Factory(ctx context.Context, name string) (Factory, error) {
	return e.cache.Load(ctx, name, func(ctx context.Context) (Factory, error) {
		path := e.kind.Path(name)
		ctx, span := tracer.Start(ctx, "resolve.fetchFactory", trace.WithAttributes(
			attribute.String("subpage.kind", e.kind.Tag),
			attribute.String("subpage.fragment", name),
		))
		defer span.End()

		source, err := e.fetcher.Fetch(ctx, path)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			logctx.From(ctx).Warn("fragment fetch failed", "kind", e.kind.Tag, "name", name, "path", path, "error", err)
			return nil, fmt.Errorf("resolve: fetch %s %q: %w", e.kind.Tag, name, err)
		}
		return e.build(name, source)
	})
}

// trail records, for inserted nodes, the chain of fragment keys that
// produced them.
type trail struct {
	chains map[*html.Node][]string
}

func newTrail() *trail {
	return &trail{chains: make(map[*html.Node][]string)}
}

func (t *trail) mark(n *html.Node, chain []string) {
	t.chains[n] = chain
}

// chainOf returns the chain of the nearest marked ancestor of n, n included.
func (t *trail) chainOf(root, n *html.Node) []string {
	for p := n; p != nil; p = p.Parent {
		if c, ok := t.chains[p]; ok {
			return c
		}
		if p == root {
			break
		}
	}
	return nil
}

// Chain runs several engines over the same subtree until none of them
// finds a placeholder, so components may use templates and the reverse.
// The cycle guard spans every engine of the chain.
type Chain []*Engine

func (c Chain) Resolve(ctx context.Context, root *html.Node) error {
	tr := newTrail()
	for {
		total := 0
		for _, e := range c {
			n, err := e.run(ctx, root, tr)
			if err != nil {
				return err
			}
			total += n
		}
		if total == 0 {
			return nil
		}
	}
}
