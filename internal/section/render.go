package section

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Render serialises blocks, one per line. The block nodes are copied
// first: <strong> becomes <b> and <a>/<span> wrappers are unwrapped with
// their content kept.
func Render(blocks []Block) (string, error) {
	parts := make([]string, 0, len(blocks))

	for _, b := range blocks {
		holder := &html.Node{Type: html.ElementNode, DataAtom: atom.Div, Data: "div"}
		holder.AppendChild(clone(b.Node))
		normalize(holder)

		var sb strings.Builder
		for c := holder.FirstChild; c != nil; c = c.NextSibling {
			if err := html.Render(&sb, c); err != nil {
				return "", err
			}
		}
		parts = append(parts, sb.String())
	}

	return strings.Join(parts, "\n"), nil
}

func normalize(root *html.Node) {
	var wrappers []*html.Node
	walk(root, func(n *html.Node) {
		if n.Type != html.ElementNode || n == root {
			return
		}
		switch n.DataAtom {
		case atom.Strong:
			n.DataAtom = atom.B
			n.Data = "b"
		case atom.A, atom.Span:
			wrappers = append(wrappers, n)
		}
	})

	// Unwrap innermost first so nested wrappers keep their parents valid.
	for i := len(wrappers) - 1; i >= 0; i-- {
		unwrap(wrappers[i])
	}
}

func unwrap(n *html.Node) {
	parent := n.Parent
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		parent.InsertBefore(c, n)
		c = next
	}
	parent.RemoveChild(n)
}

func clone(n *html.Node) *html.Node {
	c := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
	}
	if len(n.Attr) > 0 {
		c.Attr = append([]html.Attribute(nil), n.Attr...)
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		c.AppendChild(clone(child))
	}
	return c
}
