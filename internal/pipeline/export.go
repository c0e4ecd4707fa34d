package pipeline

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"

	"github.com/brogergvhs/wikidict/internal/conjugation"
	"github.com/brogergvhs/wikidict/internal/store"
)

// ExportedEntry is one line of the JSON lines export.
type ExportedEntry struct {
	Word     string `json:"word"`
	Markdown string `json:"markdown"`
	// Conjugation maps tense names to the six person slots, for verbs.
	Conjugation map[string][]string `json:"conjugation,omitempty"`
}

// Export writes every cleaned entry of db to w as JSON lines, converting
// the stored HTML to Markdown. It returns the number of entries written.
func Export(ctx context.Context, db *store.Store, w io.Writer) (int, error) {
	conv := md.NewConverter("", true, nil)
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)

	n := 0
	err := db.Words().Scan(ctx, func(e store.Entry) error {
		text, err := conv.ConvertString(e.Definition)
		if err != nil {
			return fmt.Errorf("convert %s: %w", e.Name, err)
		}

		out := ExportedEntry{Word: e.Name, Markdown: text}

		row, ok, err := db.Conjugation(ctx, e.Name)
		if err != nil {
			return err
		}
		if ok {
			out.Conjugation = tenseMap(row)
		}

		if err := enc.Encode(out); err != nil {
			return err
		}
		n++
		return nil
	})
	if err != nil {
		return n, err
	}

	return n, bw.Flush()
}

func tenseMap(row conjugation.Row) map[string][]string {
	m := make(map[string][]string, len(row.Tenses))
	for t, joined := range row.Tenses {
		m[conjugation.TenseMood(t).String()] = strings.Split(joined, conjugation.SlotSeparator)
	}
	return m
}
