package resolve

import (
	"errors"
	"regexp"
	"strings"
	"unicode"

	"github.com/pthm/subpage/lib/dom"
	"github.com/pthm/subpage/lib/eval"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	// ContentKey is bound to a component placeholder's own inner markup.
	ContentKey = "content"
	// Undefined replaces component variables missing from the data map.
	Undefined = "undefined"
)

// ErrDetached is returned when a placeholder has no parent to splice into.
var ErrDetached = errors.New("resolve: placeholder is detached")

// Expansion is what replaced one placeholder.
type Expansion struct {
	// Nodes are the top-level nodes inserted where the placeholder was.
	Nodes []*html.Node
	// Carried are nodes moved in from the placeholder's own markup. They
	// belong to the placeholder's surroundings, not to the fragment.
	Carried []*html.Node
}

// Factory instantiates one named fragment against placeholders.
// Factories are immutable and safe to share.
type Factory interface {
	Name() string
	Source() string
	// Expand replaces placeholder, in place, with the fragment's nodes.
	Expand(placeholder *html.Node) (Expansion, error)
}

// Builder compiles fetched fragment source into a Factory.
type Builder func(name, source string) (Factory, error)

// BuildComponent is the Builder for component fragments.
func BuildComponent(name, source string) (Factory, error) {
	return NewComponentFactory(name, source), nil
}

// BuildTemplate returns the Builder for template fragments evaluated by ev.
func BuildTemplate(ev eval.Evaluator) Builder {
	return func(name, source string) (Factory, error) {
		return NewTemplateFactory(name, source, ev), nil
	}
}

// ComponentFactory substitutes attribute values of the exact form {name}
// with the placeholder's attributes. A value of {content}, or a text node
// reading {content}, receives the placeholder's inner markup unescaped.
//
// Only the first top-level node of the source is inserted, so component
// fragments must have a single root element.
type ComponentFactory struct {
	name   string
	source string
}

func NewComponentFactory(name, source string) *ComponentFactory {
	return &ComponentFactory{name: name, source: strings.TrimLeftFunc(source, unicode.IsSpace)}
}

func (f *ComponentFactory) Name() string   { return f.name }
func (f *ComponentFactory) Source() string { return f.source }

var variable = regexp.MustCompile(`^\{([^{}]+)\}$`)

func (f *ComponentFactory) Expand(placeholder *html.Node) (Expansion, error) {
	var exp Expansion
	if placeholder.Parent == nil {
		return exp, ErrDetached
	}

	data := make(map[string]string, len(placeholder.Attr)+1)
	for _, a := range placeholder.Attr {
		data[a.Key] = a.Val
	}
	data[ContentKey] = dom.InnerHTML(placeholder)

	nodes, err := dom.ParseFragmentIn(placeholder.Parent, f.source)
	if err != nil {
		return exp, err
	}
	root := firstNode(nodes)
	if root == nil {
		dom.Remove(placeholder)
		return exp, nil
	}

	var hosts, texts []*html.Node
	dom.Walk(root, func(n *html.Node) bool {
		switch n.Type {
		case html.ElementNode:
			for i, a := range n.Attr {
				m := variable.FindStringSubmatch(a.Val)
				if m == nil {
					continue
				}
				if m[1] == ContentKey {
					hosts = append(hosts, n)
					continue
				}
				if v, ok := data[m[1]]; ok {
					n.Attr[i].Val = v
				} else {
					n.Attr[i].Val = Undefined
				}
			}
		case html.TextNode:
			if n.Parent != nil && strings.TrimSpace(n.Data) == "{"+ContentKey+"}" {
				texts = append(texts, n)
			}
		}
		return true
	})

	content := data[ContentKey]
	for _, host := range hosts {
		removeContentAttrs(host)
		carried, err := dom.ParseFragmentIn(host, content)
		if err != nil {
			return exp, err
		}
		dom.ReplaceChildren(host, carried...)
		exp.Carried = append(exp.Carried, carried...)
	}
	for _, text := range texts {
		if text.Parent == nil {
			// its host already took the content
			continue
		}
		carried, err := dom.ParseFragmentIn(text.Parent, content)
		if err != nil {
			return exp, err
		}
		dom.InsertBefore(text, carried...)
		dom.Remove(text)
		exp.Carried = append(exp.Carried, carried...)
	}

	dom.InsertBefore(placeholder, root)
	dom.Remove(placeholder)
	exp.Nodes = []*html.Node{root}
	return exp, nil
}

func removeContentAttrs(n *html.Node) {
	kept := n.Attr[:0]
	for _, a := range n.Attr {
		if m := variable.FindStringSubmatch(a.Val); m != nil && m[1] == ContentKey {
			continue
		}
		kept = append(kept, a)
	}
	n.Attr = kept
}

func firstNode(nodes []*html.Node) *html.Node {
	for _, n := range nodes {
		if !dom.IsBlank(n) {
			return n
		}
	}
	return nil
}

// TemplateFactory evaluates every {{ expression }} in its source against the
// placeholder's child elements. Every top-level node of the result is
// inserted; <script> elements are dropped.
type TemplateFactory struct {
	name   string
	source string
	eval   eval.Evaluator
}

func NewTemplateFactory(name, source string, ev eval.Evaluator) *TemplateFactory {
	if ev == nil {
		ev = eval.New()
	}
	return &TemplateFactory{name: name, source: source, eval: ev}
}

func (f *TemplateFactory) Name() string   { return f.name }
func (f *TemplateFactory) Source() string { return f.source }

func (f *TemplateFactory) Expand(placeholder *html.Node) (Expansion, error) {
	var exp Expansion
	if placeholder.Parent == nil {
		return exp, ErrDetached
	}

	out := eval.Interpolate(f.eval, f.source, TemplateData(placeholder))
	nodes, err := dom.ParseFragmentIn(placeholder.Parent, out)
	if err != nil {
		return exp, err
	}
	nodes = stripScripts(nodes)

	dom.InsertBefore(placeholder, nodes...)
	dom.Remove(placeholder)
	exp.Nodes = nodes
	return exp, nil
}

// TemplateData builds the variables of a template placeholder. Each child
// element contributes its inner markup under its tag name; a repeated tag
// name turns the value into a []string in document order. Tag names are
// lower case (HTML parsing folds them) and characters that cannot appear
// in an identifier become underscores.
func TemplateData(placeholder *html.Node) map[string]any {
	data := make(map[string]any)
	for c := placeholder.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		key := Ident(c.Data)
		val := dom.InnerHTML(c)
		switch have := data[key].(type) {
		case nil:
			data[key] = val
		case string:
			data[key] = []string{have, val}
		case []string:
			data[key] = append(have, val)
		}
	}
	return data
}

var nonIdent = regexp.MustCompile(`[^A-Za-z0-9_]`)

// Ident turns a tag name into an expression identifier.
func Ident(tag string) string {
	id := nonIdent.ReplaceAllString(tag, "_")
	if id == "" || (id[0] >= '0' && id[0] <= '9') {
		id = "_" + id
	}
	return id
}

func stripScripts(nodes []*html.Node) []*html.Node {
	kept := nodes[:0]
	for _, n := range nodes {
		if isScript(n) {
			continue
		}
		dom.Walk(n, func(c *html.Node) bool {
			if c != n && isScript(c) {
				dom.Remove(c)
				return false
			}
			return true
		})
		kept = append(kept, n)
	}
	return kept
}

func isScript(n *html.Node) bool {
	return n.Type == html.ElementNode && n.DataAtom == atom.Script
}
