package conjugation

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
)

// ErrTableLayout is returned when a conjugation table does not have the
// expected rows or cells. The article is skipped.
var ErrTableLayout = errors.New("unexpected conjugation table layout")

const (
	// FormSeparator joins alternative spellings sharing one slot.
	FormSeparator = "/"
	// SlotSeparator joins the six person slots of one tense in Rows.
	SlotSeparator = "|"
)

// Longer alternatives come first so "future indicative" is not cut short
// at "future".
var sentencePattern = regexp.MustCompile(
	`([Ff]irst|[Ss]econd|[Tt]hird)-person (singular|plural) ` +
		`(present indicative|imperfect indicative|past historic|simple future|` +
		`future indicative|indicative future|future|present subjunctive|` +
		`imperfect subjunctive|conditional|present imperative|imperative) ` +
		`of ([\p{L}\p{N}]+)`)

// Layout maps table row positions (within the table body) to tenses, in
// tense order.
type Layout [numTenseMoods]int

// DefaultLayout matches the French verb conjugation tables: present,
// imperfect, past historic, future, conditional, then the subjunctives and
// the imperative further down.
var DefaultLayout = Layout{
	PresentIndicative:    8,
	ImperfectIndicative:  9,
	PastHistoric:         10,
	SimpleFuture:         11,
	Conditional:          12,
	PresentSubjunctive:   19,
	ImperfectSubjunctive: 20,
	Imperative:           24,
}

// LayoutFromRows builds a layout from row positions listed in table order:
// present, imperfect, past historic, future, conditional, present
// subjunctive, imperfect subjunctive, imperative.
func LayoutFromRows(rows []int) (Layout, error) {
	if len(rows) != int(numTenseMoods) {
		return Layout{}, fmt.Errorf("conjugation rows: want %d positions, got %d", numTenseMoods, len(rows))
	}

	order := [numTenseMoods]TenseMood{
		PresentIndicative, ImperfectIndicative, PastHistoric, SimpleFuture,
		Conditional, PresentSubjunctive, ImperfectSubjunctive, Imperative,
	}

	var l Layout
	for i, t := range order {
		if rows[i] < 0 {
			return Layout{}, fmt.Errorf("conjugation rows: negative position %d", rows[i])
		}
		l[t] = rows[i]
	}
	return l, nil
}

type record struct {
	slots     [numTenseMoods][Persons]string
	fromTable bool
}

// Row is one exported infinitive: eight tense columns in TenseMood order,
// each the SlotSeparator-joined person slots.
type Row struct {
	Infinitive string
	Tenses     [numTenseMoods]string
}

type Logger interface {
	Debugf(format string, args ...any)
}

// Extractor accumulates conjugations for many infinitives. It is safe for
// concurrent use.
//
// Table data is authoritative: a table replaces whatever sentences
// contributed for its infinitive, and later sentences for that infinitive
// are ignored. The final state therefore does not depend on the order in
// which articles are processed.
type Extractor struct {
	layout Layout
	log    Logger

	mu      sync.Mutex
	records map[string]*record
}

func NewExtractor(layout Layout, log Logger) *Extractor {
	if log == nil {
		log = nopLogger{}
	}
	return &Extractor{
		layout:  layout,
		log:     log,
		records: make(map[string]*record),
	}
}

// TryExtract looks for a conjugation reference in sentence and, if found,
// records surface under the referenced infinitive. It reports whether the
// sentence matched.
func (e *Extractor) TryExtract(surface, sentence string) (bool, error) {
	m := sentencePattern.FindStringSubmatch(sentence)
	if m == nil {
		return false, nil
	}

	person, err := ResolvePerson(m[1], m[2])
	if err != nil {
		return true, err
	}
	tense, err := ResolveTenseMood(m[3])
	if err != nil {
		return true, err
	}
	infinitive := m[4]

	e.mu.Lock()
	defer e.mu.Unlock()

	rec := e.record(infinitive)
	if rec.fromTable {
		e.log.Debugf("conjugation: %s already has a table, ignoring %q (%s)", infinitive, surface, sentence)
		return true, nil
	}

	addForm(&rec.slots[tense][person], surface)
	return true, nil
}

func addForm(slot *string, form string) {
	if *slot == "" {
		*slot = form
		return
	}
	for _, f := range strings.Split(*slot, FormSeparator) {
		if f == form {
			return
		}
	}
	*slot += FormSeparator + form
}

// ExtractFromTable replaces the record for infinitive with the contents
// of a conjugation table. Rows and cells without text are skipped before
// the layout positions are applied.
func (e *Extractor) ExtractFromTable(infinitive string, table *goquery.Selection) error {
	body := table.Find("tbody").First()
	if body.Length() == 0 {
		body = table
	}
	rows := body.Find("tr").FilterFunction(hasText)

	var slots [numTenseMoods][Persons]string
	for t, pos := range e.layout {
		if pos >= rows.Length() {
			return fmt.Errorf("%w: %s: row %d of %d", ErrTableLayout, infinitive, pos, rows.Length())
		}

		cells := rows.Eq(pos).Find("td").FilterFunction(hasText)
		if cells.Length() < Persons {
			return fmt.Errorf("%w: %s: row %d has %d cells", ErrTableLayout, infinitive, pos, cells.Length())
		}

		for p := 0; p < Persons; p++ {
			slots[t][p] = firstText(cells.Eq(p))
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	rec := e.record(infinitive)
	if rec.fromTable {
		e.log.Debugf("conjugation: second table for %s replaces the first", infinitive)
	}
	rec.slots = slots
	rec.fromTable = true
	return nil
}

func hasText(_ int, s *goquery.Selection) bool {
	return strings.TrimSpace(s.Text()) != ""
}

// firstText returns the first non-blank text node of a cell. Footnote
// markers and other trailing annotations are ignored.
func firstText(cell *goquery.Selection) string {
	var out string
	cell.Contents().EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if goquery.NodeName(s) == "#text" {
			out = strings.TrimSpace(s.Text())
		} else {
			out = strings.TrimSpace(firstText(s))
		}
		return out == ""
	})
	return out
}

func (e *Extractor) record(infinitive string) *record {
	rec, ok := e.records[infinitive]
	if !ok {
		rec = &record{}
		e.records[infinitive] = rec
	}
	return rec
}

// Len is the number of infinitives seen so far.
func (e *Extractor) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.records)
}

// Forms returns a copy of the slots recorded for infinitive.
func (e *Extractor) Forms(infinitive string) (slots [numTenseMoods][Persons]string, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	rec, ok := e.records[infinitive]
	if !ok {
		return slots, false
	}
	return rec.slots, true
}

// Rows exports every record sorted by infinitive.
func (e *Extractor) Rows() []Row {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Row, 0, len(e.records))
	for inf, rec := range e.records {
		row := Row{Infinitive: inf}
		for t := range rec.slots {
			row.Tenses[t] = strings.Join(rec.slots[t][:], SlotSeparator)
		}
		out = append(out, row)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Infinitive < out[j].Infinitive })
	return out
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
