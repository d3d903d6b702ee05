package dom

import (
	"errors"
	"fmt"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// Attr returns the value of the attribute key on n.
func Attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets or adds the attribute key on n.
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// DelAttr removes the attribute key from n.
func DelAttr(n *html.Node, key string) {
	out := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			continue
		}
		out = append(out, a)
	}
	n.Attr = out
}

// Classes returns the class list of n.
func Classes(n *html.Node) []string {
	v, _ := Attr(n, "class")
	return strings.Fields(v)
}

// HasClass reports whether n carries class c.
func HasClass(n *html.Node, c string) bool {
	for _, have := range Classes(n) {
		if have == c {
			return true
		}
	}
	return false
}

// AddClass adds c to the class list of n if missing.
func AddClass(n *html.Node, c string) {
	if c == "" || HasClass(n, c) {
		return
	}
	SetAttr(n, "class", strings.TrimSpace(strings.Join(append(Classes(n), c), " ")))
}

// RemoveClass removes every occurrence of c from the class list of n.
func RemoveClass(n *html.Node, c string) {
	classes := Classes(n)
	kept := classes[:0]
	for _, have := range classes {
		if have != c {
			kept = append(kept, have)
		}
	}
	if len(kept) == 0 {
		DelAttr(n, "class")
		return
	}
	SetAttr(n, "class", strings.Join(kept, " "))
}

// QueryAll returns every node under root matching the XPath expression, in
// document order. root itself never matches.
func QueryAll(root *html.Node, xpath string) ([]*html.Node, error) {
	return htmlquery.QueryAll(root, xpath)
}

// Query returns the first node under root matching the XPath expression.
func Query(root *html.Node, xpath string) (*html.Node, error) {
	return htmlquery.Query(root, xpath)
}

// ErrInvalidName is returned for an element name no query can express.
var ErrInvalidName = errors.New("dom: invalid name")

// ElementsNamed returns the elements named tag under root, in document
// order. The name is compared as a string literal, so any tag the HTML
// parser accepts can be matched.
func ElementsNamed(root *html.Node, tag string) ([]*html.Node, error) {
	lit, err := literal(strings.ToLower(tag))
	if err != nil {
		return nil, err
	}
	return QueryAll(root, "//*[name()="+lit+"]")
}

// ElementsWithAttr returns the elements named tag that carry attr.
func ElementsWithAttr(root *html.Node, tag, attr string) ([]*html.Node, error) {
	nodes, err := ElementsNamed(root, tag)
	if err != nil {
		return nil, err
	}
	key := strings.ToLower(attr)
	kept := nodes[:0]
	for _, n := range nodes {
		if _, ok := Attr(n, key); ok {
			kept = append(kept, n)
		}
	}
	return kept, nil
}

// literal quotes s as an XPath string literal.
func literal(s string) (string, error) {
	switch {
	case s == "":
		return "", fmt.Errorf("%w: empty", ErrInvalidName)
	case !strings.Contains(s, "'"):
		return "'" + s + "'", nil
	case !strings.Contains(s, `"`):
		return `"` + s + `"`, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidName, s)
}

// ByID returns the element under root whose id is id.
func ByID(root *html.Node, id string) *html.Node {
	var found *html.Node
	Walk(root, func(n *html.Node) bool {
		if found != nil {
			return false
		}
		if n.Type == html.ElementNode {
			if v, ok := Attr(n, "id"); ok && v == id {
				found = n
				return false
			}
		}
		return true
	})
	return found
}

// InnerText returns the concatenated text content of n.
func InnerText(n *html.Node) string {
	return htmlquery.InnerText(n)
}
