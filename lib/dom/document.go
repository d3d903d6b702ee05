package dom

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document owns one parsed HTML document. Every read or mutation of the
// tree goes through Do so that a frame mounting content and a renderer
// serializing the page never interleave.
type Document struct {
	mu   sync.Mutex
	root *html.Node
}

// NewDocument wraps an already parsed tree.
func NewDocument(root *html.Node) *Document {
	return &Document{root: root}
}

// Parse reads a full HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return NewDocument(root), nil
}

// ParseString is Parse over a string.
func ParseString(src string) (*Document, error) {
	return Parse(strings.NewReader(src))
}

// Do runs fn with exclusive access to the document root.
func (d *Document) Do(fn func(root *html.Node) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return fn(d.root)
}

// Render writes the serialized document to w.
func (d *Document) Render(w io.Writer) error {
	return d.Do(func(root *html.Node) error {
		return html.Render(w, root)
	})
}

// String returns the serialized document.
func (d *Document) String() string {
	var b strings.Builder
	_ = d.Render(&b)
	return b.String()
}

// Title returns the text of the document's <title>.
func (d *Document) Title() string {
	var title string
	_ = d.Do(func(root *html.Node) error {
		if t := findElement(root, atom.Title); t != nil {
			title = InnerText(t)
		}
		return nil
	})
	return title
}

// SetTitle replaces the document's <title>, creating it inside <head> when
// missing.
func (d *Document) SetTitle(title string) {
	_ = d.Do(func(root *html.Node) error {
		setTitle(root, title)
		return nil
	})
}

func setTitle(root *html.Node, title string) {
	t := findElement(root, atom.Title)
	if t == nil {
		head := findElement(root, atom.Head)
		if head == nil {
			return
		}
		t = &html.Node{Type: html.ElementNode, Data: "title", DataAtom: atom.Title}
		head.AppendChild(t)
	}
	ReplaceChildren(t, &html.Node{Type: html.TextNode, Data: title})
}

// Body returns the <body> element under root.
func Body(root *html.Node) *html.Node {
	return findElement(root, atom.Body)
}

func findElement(root *html.Node, a atom.Atom) *html.Node {
	var found *html.Node
	Walk(root, func(n *html.Node) bool {
		if found != nil {
			return false
		}
		if n.Type == html.ElementNode && n.DataAtom == a {
			found = n
			return false
		}
		return true
	})
	return found
}
