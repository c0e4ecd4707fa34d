package section

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Block is one top-level element of the content root.
type Block struct {
	Tag string
	// Level is 1..6 for headings and 0 for everything else.
	Level int
	Text  string
	Node  *html.Node
}

func (b Block) IsHeading(level int) bool {
	return b.Level == level
}

// IsSubheading reports level 3 to 5 headings, the ones that open
// subsections inside a language section.
func (b Block) IsSubheading() bool {
	return b.Level >= 3 && b.Level <= 5
}

var headingLevels = map[atom.Atom]int{
	atom.H1: 1, atom.H2: 2, atom.H3: 3, atom.H4: 4, atom.H5: 5, atom.H6: 6,
}

// Blocks lists the element children of root in document order.
func Blocks(root *html.Node) []Block {
	var out []Block
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		out = append(out, newBlock(c))
	}
	return out
}

func newBlock(n *html.Node) Block {
	b := Block{Tag: n.Data, Node: n}

	h := n
	if n.DataAtom == atom.Div {
		// <div class="mw-heading"><h3>Noun</h3><span>[edit]</span></div>
		if first := firstElementChild(n); first != nil && headingLevels[first.DataAtom] > 0 {
			h = first
		}
	}

	if level := headingLevels[h.DataAtom]; level > 0 {
		b.Level = level
		b.Text = headingText(h)
		return b
	}

	b.Text = collapse(textOf(n))
	return b
}

func headingText(n *html.Node) string {
	t := collapse(textOf(n))
	t = strings.TrimSuffix(t, "[edit]")
	return strings.TrimSpace(t)
}

func firstElementChild(n *html.Node) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return c
		}
	}
	return nil
}

func textOf(n *html.Node) string {
	var sb strings.Builder
	walk(n, func(c *html.Node) {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	})
	return sb.String()
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
