package pipeline

import (
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/brogergvhs/wikidict/internal/conjugation"
	"github.com/brogergvhs/wikidict/internal/section"
)

// ConjugationHeading names the subsection holding a verb's table.
const ConjugationHeading = "Conjugation"

type refiner struct {
	// notice opens the "<Language> Wikipedia has an article on" boxes.
	notice string
	ext    *conjugation.Extractor
	log    Logger
}

// refine drops the conjugation subsection and Wikipedia notices from the
// classified blocks, feeding tables and inflection lines to the extractor
// on the way. key is the surface form for inflection lines.
func (r *refiner) refine(key string, blocks []section.Block) ([]section.Block, error) {
	out := make([]section.Block, 0, len(blocks))
	skipping := false

	for _, b := range blocks {
		if b.IsSubheading() {
			skipping = b.Text == ConjugationHeading
			if skipping {
				continue
			}
			out = append(out, b)
			continue
		}

		if skipping {
			if err := r.table(key, b.Node); err != nil {
				return nil, err
			}
			continue
		}

		if r.notice != "" && strings.HasPrefix(b.Text, r.notice) {
			continue
		}

		if b.Node.DataAtom == atom.Ol {
			if err := r.sentences(key, b.Node); err != nil {
				return nil, err
			}
		}

		out = append(out, b)
	}

	return out, nil
}

func (r *refiner) table(key string, n *html.Node) error {
	sel := goquery.NewDocumentFromNode(n).Selection
	if goquery.NodeName(sel) != "table" {
		sel = sel.Find("table").First()
	}
	if sel.Length() == 0 {
		return nil
	}

	if err := r.ext.ExtractFromTable(key, sel); err != nil {
		if errors.Is(err, conjugation.ErrTableLayout) {
			r.log.Warnf("%s: %v", key, err)
			return nil
		}
		return err
	}
	return nil
}

func (r *refiner) sentences(key string, ol *html.Node) error {
	var err error
	goquery.NewDocumentFromNode(ol).Selection.ChildrenFiltered("li").EachWithBreak(func(_ int, li *goquery.Selection) bool {
		_, err = r.ext.TryExtract(key, li.Text())
		return err == nil
	})
	return err
}
