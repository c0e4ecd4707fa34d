// Package wordlist picks dictionary candidates out of a MediaWiki XML
// dump. The dump is read forward-only, one <page> at a time, so memory use
// does not depend on dump size.
package wordlist

import (
	"compress/bzip2"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// NamespaceSeparator marks non-article titles such as "Category:French nouns".
const NamespaceSeparator = ":"

// ErrLimitReached stops a scan once Options.Limit candidates were emitted.
var ErrLimitReached = errors.New("candidate limit reached")

type Options struct {
	// Marker must occur in the page text, e.g. "==French==".
	Marker string
	// Limit caps the number of candidates; 0 means no cap.
	Limit int
}

type Stats struct {
	Pages      int
	Candidates int
	Namespaced int
}

type page struct {
	Title    string `xml:"title"`
	Revision struct {
		Text string `xml:"text"`
	} `xml:"revision"`
}

// IsCandidate reports whether a page belongs in the word list.
func IsCandidate(title, text, marker string) bool {
	if title == "" || strings.Contains(title, NamespaceSeparator) {
		return false
	}

	return strings.Contains(text, marker)
}

// Scan streams pages from r and calls fn with every candidate title.
// Returning an error from fn stops the scan and Scan returns that error.
func Scan(r io.Reader, opts Options, fn func(key string) error) (Stats, error) {
	var stats Stats
	if opts.Marker == "" {
		return stats, errors.New("wordlist: empty language marker")
	}

	dec := xml.NewDecoder(r)
	dec.Strict = false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return stats, nil
		}
		if err != nil {
			return stats, fmt.Errorf("wordlist: read dump: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "page" {
			continue
		}

		var p page
		if err := dec.DecodeElement(&p, &start); err != nil {
			return stats, fmt.Errorf("wordlist: decode page %d: %w", stats.Pages+1, err)
		}
		stats.Pages++

		title := strings.TrimSpace(p.Title)
		if strings.Contains(title, NamespaceSeparator) {
			stats.Namespaced++
			continue
		}
		if !IsCandidate(title, p.Revision.Text, opts.Marker) {
			continue
		}

		stats.Candidates++
		if err := fn(title); err != nil {
			return stats, err
		}

		if opts.Limit > 0 && stats.Candidates >= opts.Limit {
			return stats, ErrLimitReached
		}
	}
}

// Extract collects every candidate from the dump at path. Files ending in
// .bz2 are decompressed on the fly.
func Extract(path string, opts Options) ([]string, Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("wordlist: open dump: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(strings.ToLower(path), ".bz2") {
		r = bzip2.NewReader(f)
	}

	keys := make([]string, 0, 1024)
	stats, err := Scan(r, opts, func(key string) error {
		keys = append(keys, key)
		return nil
	})
	if err != nil && !errors.Is(err, ErrLimitReached) {
		return nil, stats, err
	}

	return keys, stats, nil
}
