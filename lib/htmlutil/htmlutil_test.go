package htmlutil

import (
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

const page = `<html><body>
<table>
	<tr><td>Наименование   закупки</td><td> Поставка <b>бумаги</b> </td></tr>
	<tr><td>Дата окончания <span>(по местному времени заказчика)</span></td><td>01.02.2020 10:00</td></tr>
</table>
<div>
	<span class="section__title">ИНН</span>
	<p>unrelated</p>
</div>
<div><span class="section__info">7700000000</span></div>
<a href="/docs/1">Документ&nbsp;1</a>
<a>no href</a>
<a href="https://example.com/2">two</a>
</body></html>`

func parse(t *testing.T) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestCleanText(t *testing.T) {
	table := []struct {
		input    string
		expected string
	}{
		{input: "  a  b ", expected: "a b"},
		{input: "1 234 567,89 ₽", expected: "1 234 567,89 ₽"},
		{input: "\n\t line\n\tnext ", expected: "line next"},
		{input: "", expected: ""},
	}
	for _, row := range table {
		require.Equal(t, row.expected, CleanText(row.input))
	}
}

func TestFindByTextAndNext(t *testing.T) {
	doc := parse(t)

	label := FindByText(doc.Selection, "td", "Наименование закупки")
	require.Equal(t, 1, label.Length())
	require.Equal(t, "Поставка бумаги", Text(FindNext(label, "td")))

	// the marker span is nested inside a td, the next td in document order is the value cell
	marker := FindByText(doc.Selection, "span", "(по местному времени заказчика)")
	require.Equal(t, "01.02.2020 10:00", Text(FindNext(marker, "td")))

	// the value lives outside the title's parent, a forward scan still reaches it
	title := FindByText(doc.Selection, "span.section__title", "ИНН")
	require.Equal(t, "7700000000", Text(FindNext(title, "span.section__info")))

	missing := FindByText(doc.Selection, "td", "ОГРН")
	require.Equal(t, 0, missing.Length())
	require.Equal(t, 0, FindNext(missing, "td").Length())
	require.Equal(t, 0, FindNext(title, "td.never").Length())
}

func TestGetAnchors(t *testing.T) {
	doc := parse(t)
	base, err := url.Parse("https://zakupki.gov.ru/epz/order/notice/view/documents.html")
	if err != nil {
		t.Fatal(err)
	}

	anchors := GetAnchors(doc.Find("a"), base)
	require.Equal(t, []Anchor{
		{Name: "Документ 1", Href: "https://zakupki.gov.ru/docs/1"},
		{Name: "two", Href: "https://example.com/2"},
	}, anchors)
}
