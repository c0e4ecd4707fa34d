package section

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/PuerkitoBio/goquery"
)

const parserOutput = "div.mw-parser-output"

// ErrParse is returned for documents without a usable content root.
var ErrParse = errors.New("parse error")

// Document parses a stored article, cleans it and classifies its blocks.
// selector picks the content root, e.g. "#mw-content-text".
func Document(raw []byte, selector string, rules Rules) (Result, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrParse, err)
	}

	content := doc.Find(selector).First()
	if content.Length() == 0 {
		return Result{}, fmt.Errorf("%w: no %s element", ErrParse, selector)
	}

	// MediaWiki wraps the article in a parser output div.
	if inner := content.ChildrenFiltered(parserOutput).First(); inner.Length() > 0 {
		content = inner
	}

	root := content.Get(0)
	Prefilter(root)

	return Classify(Blocks(root), rules), nil
}
