package zakupki

import (
	"strings"
	"tenderbot/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

const (
	layoutTable = "table"
	layoutSpan  = "span"
	layoutCard  = "card"
)

// labelled finds the first `labelSelector` element captioned `label` and
// returns the first `valueSelector` element that follows it.
func labelled(doc *goquery.Selection, labelSelector, label, valueSelector string) (*goquery.Selection, bool) {
	caption := htmlutil.FindByText(doc, labelSelector, label)
	if caption.Length() == 0 {
		return nil, false
	}
	value := htmlutil.FindNext(caption, valueSelector)
	if value.Length() == 0 {
		return nil, false
	}
	return value, true
}

// tableCell reads the cell after a <td> caption, used by the table based
// layout.
func tableCell(doc *goquery.Selection, label string) (*goquery.Selection, bool) {
	return labelled(doc, "td", label, "td")
}

// sectionInfo reads the section__info span after a section__title caption,
// used by the span based layout.
func sectionInfo(doc *goquery.Selection, label string) (*goquery.Selection, bool) {
	return labelled(doc, "span.section__title", label, "span.section__info")
}

// cardInfo reads the content span after a cardMainInfo__title caption in the
// header of the span based layout.
func cardInfo(doc *goquery.Selection, label string) (*goquery.Selection, bool) {
	return labelled(doc, "span.cardMainInfo__title", label, "span.cardMainInfo__content")
}

// textStrategy builds a strategy that returns the cleaned text of a lookup.
func textStrategy(layout, label string, lookup func(*goquery.Selection, string) (*goquery.Selection, bool)) strategy[string] {
	return strategy[string]{
		layout: layout,
		label:  label,
		find: func(doc *goquery.Selection) (string, bool) {
			value, ok := lookup(doc, label)
			if !ok {
				return "", false
			}
			return htmlutil.Text(value), true
		},
	}
}

// tokenStrategy builds a strategy that returns the n-th whitespace separated
// token of a lookup, failing when there are not enough tokens.
func tokenStrategy(layout, label string, n int, lookup func(*goquery.Selection, string) (*goquery.Selection, bool)) strategy[string] {
	return strategy[string]{
		layout: layout,
		label:  label,
		find: func(doc *goquery.Selection) (string, bool) {
			value, ok := lookup(doc, label)
			if !ok {
				return "", false
			}
			return nthField(htmlutil.Text(value), n)
		},
	}
}

func nthField(text string, n int) (string, bool) {
	fields := strings.Fields(text)
	if n >= len(fields) {
		return "", false
	}
	return fields[n], true
}

// mapStrategy transforms the value found by another strategy.
func mapStrategy[T, U any](s strategy[T], transform func(T) U) strategy[U] {
	return strategy[U]{
		layout: s.layout,
		label:  s.label,
		find: func(doc *goquery.Selection) (U, bool) {
			value, ok := s.find(doc)
			if !ok {
				var zero U
				return zero, false
			}
			return transform(value), true
		},
	}
}
