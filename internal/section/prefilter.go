package section

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const tocID = "toc"

// blockTags are removed when they carry no text. Table rows and cells are
// left alone so fixed table layouts keep their positions.
var blockTags = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Aside: true, atom.Blockquote: true,
	atom.Caption: true, atom.Dd: true, atom.Div: true, atom.Dl: true, atom.Dt: true,
	atom.Fieldset: true, atom.Figcaption: true, atom.Figure: true, atom.Footer: true,
	atom.Form: true, atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true,
	atom.H5: true, atom.H6: true, atom.Header: true, atom.Hr: true, atom.Li: true,
	atom.Main: true, atom.Nav: true, atom.Ol: true, atom.P: true, atom.Pre: true,
	atom.Section: true, atom.Table: true, atom.Ul: true,
}

// Prefilter cleans root in place. Attribute stripping runs after the
// id-based removal because it destroys the ids.
func Prefilter(root *html.Node) {
	removeWhere(root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && (n.DataAtom == atom.Script || n.DataAtom == atom.Noscript)
	})
	removeWhere(root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && attr(n, "id") == tocID
	})
	removeWhere(root, func(n *html.Node) bool {
		return n.Type == html.CommentNode
	})
	walk(root, func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			n.Data = strings.ReplaceAll(n.Data, "\u00a0", " ")
		case html.ElementNode:
			n.Attr = nil
		}
	})
	removeEmptyBlocks(root)
}

// removeWhere marks every matching node below root, then detaches them.
// Matches are not descended into.
func removeWhere(root *html.Node, match func(*html.Node) bool) {
	var marked []*html.Node
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if match(c) {
				marked = append(marked, c)
				continue
			}
			visit(c)
		}
	}
	visit(root)

	for _, n := range marked {
		n.Parent.RemoveChild(n)
	}
}

func removeEmptyBlocks(root *html.Node) {
	removeWhere(root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && blockTags[n.DataAtom] && !hasText(n)
	})
}

func hasText(n *html.Node) bool {
	if n.Type == html.TextNode {
		return strings.TrimSpace(n.Data) != ""
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if hasText(c) {
			return true
		}
	}
	return false
}

func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
