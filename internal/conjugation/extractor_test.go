package conjugation

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveTenseMood(t *testing.T) {
	cases := map[string]TenseMood{
		"present indicative":    PresentIndicative,
		"future":                SimpleFuture,
		"future indicative":     SimpleFuture,
		"Indicative future":     SimpleFuture,
		"simple future":         SimpleFuture,
		"present imperative":    Imperative,
		"imperfect subjunctive": ImperfectSubjunctive,
	}
	for label, want := range cases {
		got, err := ResolveTenseMood(label)
		require.NoError(t, err, label)
		assert.Equal(t, want, got, label)
	}

	_, err := ResolveTenseMood("pluperfect")
	require.ErrorIs(t, err, ErrUnknownCoordinate)
}

func TestResolvePerson(t *testing.T) {
	slot, err := ResolvePerson("Third", "plural")
	require.NoError(t, err)
	assert.Equal(t, 5, slot)

	slot, err = ResolvePerson("first", "singular")
	require.NoError(t, err)
	assert.Equal(t, 0, slot)

	_, err = ResolvePerson("fourth", "singular")
	require.ErrorIs(t, err, ErrUnknownCoordinate)
}

func TestTryExtractManger(t *testing.T) {
	e := NewExtractor(DefaultLayout, nil)

	ok, err := e.TryExtract("mange", "third-person singular present indicative of manger")
	require.NoError(t, err)
	require.True(t, ok)

	slots, found := e.Forms("manger")
	require.True(t, found)
	assert.Equal(t, "mange", slots[PresentIndicative][2])
	assert.Equal(t, "", slots[PresentIndicative][0])
}

func TestTryExtractNoMatch(t *testing.T) {
	e := NewExtractor(DefaultLayout, nil)

	ok, err := e.TryExtract("chat", "cat (domestic feline)")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, e.Len())
}

func TestTryExtractFutureVariants(t *testing.T) {
	e := NewExtractor(DefaultLayout, nil)

	_, err := e.TryExtract("mangerai", "first-person singular future indicative of manger")
	require.NoError(t, err)
	_, err = e.TryExtract("mangeras", "Second-person singular future of manger")
	require.NoError(t, err)

	slots, _ := e.Forms("manger")
	assert.Equal(t, "mangerai", slots[SimpleFuture][0])
	assert.Equal(t, "mangeras", slots[SimpleFuture][1])
}

func TestTryExtractMergesAlternativeForms(t *testing.T) {
	e := NewExtractor(DefaultLayout, nil)

	for _, form := range []string{"paye", "paie", "paye"} {
		_, err := e.TryExtract(form, "first-person singular present indicative of payer")
		require.NoError(t, err)
	}

	slots, _ := e.Forms("payer")
	assert.Equal(t, "paye/paie", slots[PresentIndicative][0])
}

func TestTryExtractAccentedInfinitive(t *testing.T) {
	e := NewExtractor(DefaultLayout, nil)

	_, err := e.TryExtract("espère", "third-person singular present subjunctive of espérer")
	require.NoError(t, err)

	slots, ok := e.Forms("espérer")
	require.True(t, ok)
	assert.Equal(t, "espère", slots[PresentSubjunctive][2])
}

// conjugationTable builds a table whose row r holds cells "r-0".."r-5",
// with a footnote marker after the first text node.
func conjugationTable(t *testing.T, rows int, prefix string) *goquery.Selection {
	t.Helper()

	var sb strings.Builder
	sb.WriteString("<table><tbody>")
	for r := 0; r < rows; r++ {
		sb.WriteString("<tr><th>h</th>")
		for c := 0; c < Persons; c++ {
			fmt.Fprintf(&sb, "<td><span>%s%d-%d</span><sup>1</sup></td>", prefix, r, c)
		}
		sb.WriteString("</tr>")
	}
	sb.WriteString("</tbody></table>")

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(sb.String()))
	require.NoError(t, err)
	return doc.Find("table").First()
}

func TestExtractFromTable(t *testing.T) {
	e := NewExtractor(DefaultLayout, nil)

	require.NoError(t, e.ExtractFromTable("manger", conjugationTable(t, 25, "a")))

	slots, ok := e.Forms("manger")
	require.True(t, ok)
	assert.Equal(t, "a8-0", slots[PresentIndicative][0])
	assert.Equal(t, "a12-3", slots[Conditional][3])
	assert.Equal(t, "a19-5", slots[PresentSubjunctive][5])
	assert.Equal(t, "a24-1", slots[Imperative][1])
}

// frConjTable mimics the fr-conj template: header rows, empty spacer rows
// between the mood groups, and an imperative row padded with an empty cell
// and dashes for the persons it lacks.
const frConjTable = `<table><tbody>
<tr><th>infinitive</th><td>manger</td></tr>
<tr><th>present participle</th><td>mangeant</td></tr>
<tr><th>past participle</th><td>mangé</td></tr>
<tr><td colspan="7"></td></tr>
<tr><th>person</th><th>singular</th><th>plural</th></tr>
<tr><th></th><th>first</th><th>second</th><th>third</th><th>first</th><th>second</th><th>third</th></tr>
<tr><th>indicative</th><th>je</th><th>tu</th><th>il</th><th>nous</th><th>vous</th><th>ils</th></tr>
<tr><th colspan="7">(simple tenses)</th></tr>
<tr><td colspan="7"> </td></tr>
<tr><th>(simple tenses)</th><th>present</th></tr>
<tr><th>present</th><td>mange</td><td>manges</td><td>mange</td><td>mangeons</td><td>mangez</td><td>mangent</td></tr>
<tr><th>imperfect</th><td>mangeais</td><td>mangeais</td><td>mangeait</td><td>mangions</td><td>mangiez</td><td>mangeaient</td></tr>
<tr><th>past historic</th><td>mangeai</td><td>mangeas</td><td>mangea</td><td>mangeâmes</td><td>mangeâtes</td><td>mangèrent</td></tr>
<tr><th>future</th><td>mangerai</td><td>mangeras</td><td>mangera</td><td>mangerons</td><td>mangerez</td><td>mangeront</td></tr>
<tr><th>conditional</th><td>mangerais</td><td>mangerais</td><td>mangerait</td><td>mangerions</td><td>mangeriez</td><td>mangeraient</td></tr>
<tr><td colspan="7"></td></tr>
<tr><th>(compound tenses)</th><th>past</th></tr>
<tr><th>pluperfect</th><td>avais mangé</td></tr>
<tr><th>past anterior</th><td>eus mangé</td></tr>
<tr><th>future perfect</th><td>aurai mangé</td></tr>
<tr><th>conditional perfect</th><td>aurais mangé</td></tr>
<tr><td colspan="7"></td></tr>
<tr><th>subjunctive</th><th>que je</th><th>que tu</th><th>qu’il</th><th>que nous</th><th>que vous</th><th>qu’ils</th></tr>
<tr><th>present</th><td>mange</td><td>manges</td><td>mange</td><td>mangions</td><td>mangiez</td><td>mangent</td></tr>
<tr><th>imperfect</th><td>mangeasse</td><td>mangeasses</td><td>mangeât</td><td>mangeassions</td><td>mangeassiez</td><td>mangeassent</td></tr>
<tr><th>(compound tenses)</th><th>past</th></tr>
<tr><th>pluperfect</th><td>aie mangé</td></tr>
<tr><td colspan="7"></td></tr>
<tr><th>imperative</th><th>–</th><th>tu</th><th>–</th><th>nous</th><th>vous</th><th>–</th></tr>
<tr><th>present</th><td></td><td>—</td><td>mange</td><td>—</td><td>mangeons</td><td>mangez</td><td>—</td></tr>
</tbody></table>`

func TestExtractFromTableSkipsEmptyRowsAndCells(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(frConjTable))
	require.NoError(t, err)

	e := NewExtractor(DefaultLayout, nil)
	require.NoError(t, e.ExtractFromTable("manger", doc.Find("table").First()))

	slots, ok := e.Forms("manger")
	require.True(t, ok)
	assert.Equal(t, [Persons]string{"mange", "manges", "mange", "mangeons", "mangez", "mangent"}, slots[PresentIndicative])
	assert.Equal(t, "mangeaient", slots[ImperfectIndicative][5])
	assert.Equal(t, "mangèrent", slots[PastHistoric][5])
	assert.Equal(t, "mangerons", slots[SimpleFuture][3])
	assert.Equal(t, "mangeraient", slots[Conditional][5])
	assert.Equal(t, "mangions", slots[PresentSubjunctive][3])
	assert.Equal(t, "mangeât", slots[ImperfectSubjunctive][2])
	assert.Equal(t, [Persons]string{"—", "mange", "—", "mangeons", "mangez", "—"}, slots[Imperative])
}

func TestExtractFromTableOverwrites(t *testing.T) {
	e := NewExtractor(DefaultLayout, nil)

	require.NoError(t, e.ExtractFromTable("manger", conjugationTable(t, 25, "a")))
	require.NoError(t, e.ExtractFromTable("manger", conjugationTable(t, 25, "b")))

	slots, _ := e.Forms("manger")
	assert.Equal(t, "b8-0", slots[PresentIndicative][0])
	assert.Equal(t, "b24-5", slots[Imperative][5])
}

func TestExtractFromTableLayoutErrors(t *testing.T) {
	e := NewExtractor(DefaultLayout, nil)

	err := e.ExtractFromTable("court", conjugationTable(t, 10, "a"))
	require.ErrorIs(t, err, ErrTableLayout)
	assert.Zero(t, e.Len())

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		"<table>" + strings.Repeat("<tr><td>x</td></tr>", 30) + "</table>"))
	require.NoError(t, err)
	require.ErrorIs(t, e.ExtractFromTable("court", doc.Find("table")), ErrTableLayout)
}

func TestTableWinsRegardlessOfOrder(t *testing.T) {
	sentence := "third-person singular present indicative of manger"

	first := NewExtractor(DefaultLayout, nil)
	_, err := first.TryExtract("mange", sentence)
	require.NoError(t, err)
	require.NoError(t, first.ExtractFromTable("manger", conjugationTable(t, 25, "a")))

	second := NewExtractor(DefaultLayout, nil)
	require.NoError(t, second.ExtractFromTable("manger", conjugationTable(t, 25, "a")))
	ok, err := second.TryExtract("mange", sentence)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, first.Rows(), second.Rows())

	slots, _ := second.Forms("manger")
	assert.Equal(t, "a8-2", slots[PresentIndicative][2])
}

func TestRows(t *testing.T) {
	e := NewExtractor(DefaultLayout, nil)

	_, err := e.TryExtract("vont", "third-person plural present indicative of aller")
	require.NoError(t, err)
	_, err = e.TryExtract("es", "second-person singular present indicative of être")
	require.NoError(t, err)

	rows := e.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, "aller", rows[0].Infinitive)
	assert.Equal(t, "|||||vont", rows[0].Tenses[PresentIndicative])
	assert.Equal(t, "|||||", rows[0].Tenses[Imperative])
	assert.Equal(t, "être", rows[1].Infinitive)
	assert.Equal(t, "|es||||", rows[1].Tenses[PresentIndicative])
}

func TestLayoutFromRows(t *testing.T) {
	l, err := LayoutFromRows([]int{8, 9, 10, 11, 12, 19, 20, 24})
	require.NoError(t, err)
	assert.Equal(t, DefaultLayout, l)

	_, err = LayoutFromRows([]int{1, 2})
	require.Error(t, err)
}

func TestExtractorConcurrentUse(t *testing.T) {
	e := NewExtractor(DefaultLayout, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			form := fmt.Sprintf("f%d", i)
			_, err := e.TryExtract(form, "first-person plural imperfect indicative of faire")
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	slots, _ := e.Forms("faire")
	assert.Len(t, strings.Split(slots[ImperfectIndicative][3], FormSeparator), 8)
}
