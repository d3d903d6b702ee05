// Package dom is the small slice of DOM behaviour the resolvers, frame and
// router need, expressed over golang.org/x/net/html trees.
//
// Functions here never lock. Callers that share a tree across goroutines go
// through Document.Do.
package dom

import (
	"fmt"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var bodyContext = &html.Node{
	Type:     html.ElementNode,
	Data:     "body",
	DataAtom: atom.Body,
}

// ParseFragment parses src as the children of a <body> element. The returned
// nodes are detached and may be inserted anywhere.
func ParseFragment(src string) ([]*html.Node, error) {
	nodes, err := html.ParseFragment(strings.NewReader(src), bodyContext)
	if err != nil {
		return nil, fmt.Errorf("parse fragment: %w", err)
	}
	return nodes, nil
}

// ParseFragmentIn parses src as the children of context, so that content
// models like <tr> inside <tbody> survive.
func ParseFragmentIn(context *html.Node, src string) ([]*html.Node, error) {
	if context == nil || context.Type != html.ElementNode {
		return ParseFragment(src)
	}
	nodes, err := html.ParseFragment(strings.NewReader(src), &html.Node{
		Type:     html.ElementNode,
		Data:     context.Data,
		DataAtom: context.DataAtom,
	})
	if err != nil {
		return nil, fmt.Errorf("parse fragment: %w", err)
	}
	return nodes, nil
}

// OuterHTML serializes n including its own tag.
func OuterHTML(n *html.Node) string {
	return htmlquery.OutputHTML(n, true)
}

// InnerHTML serializes the children of n.
func InnerHTML(n *html.Node) string {
	return htmlquery.OutputHTML(n, false)
}

// RenderNodes serializes a list of sibling nodes.
func RenderNodes(nodes []*html.Node) string {
	var b strings.Builder
	for _, n := range nodes {
		html.Render(&b, n)
	}
	return b.String()
}

// SetInnerHTML replaces the children of n with the parsed src.
func SetInnerHTML(n *html.Node, src string) error {
	nodes, err := ParseFragmentIn(n, src)
	if err != nil {
		return err
	}
	ReplaceChildren(n, nodes...)
	return nil
}

// ReplaceChildren removes every child of n and appends nodes in order.
func ReplaceChildren(n *html.Node, nodes ...*html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
	for _, c := range nodes {
		detach(c)
		n.AppendChild(c)
	}
}

// InsertBefore inserts nodes, in order, as previous siblings of ref.
func InsertBefore(ref *html.Node, nodes ...*html.Node) {
	parent := ref.Parent
	if parent == nil {
		return
	}
	for _, c := range nodes {
		detach(c)
		parent.InsertBefore(c, ref)
	}
}

// Remove detaches n from its parent. It is a no-op for detached nodes.
func Remove(n *html.Node) {
	detach(n)
}

func detach(n *html.Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// Children returns the child nodes of n as a slice snapshot.
func Children(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

// Contains reports whether n is root or one of its descendants.
func Contains(root, n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p == root {
			return true
		}
	}
	return false
}

// Walk visits n and its descendants in document order. Returning false from
// fn skips the children of the visited node.
func Walk(n *html.Node, fn func(*html.Node) bool) {
	if !fn(n) {
		return
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		Walk(c, fn)
		c = next
	}
}

// IsBlank reports whether n is a text node holding only whitespace.
func IsBlank(n *html.Node) bool {
	return n.Type == html.TextNode && strings.TrimSpace(n.Data) == ""
}
