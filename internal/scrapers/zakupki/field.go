package zakupki

import (
	"tenderbot/internal/components/assert"
	"tenderbot/internal/components/telemetry"
	"tenderbot/internal/normalize"
	"tenderbot/lib/htmlutil"
	"tenderbot/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

const (
	report_extractor_field = "extractor.field"
	report_extractor_found = "extractor.found"
)

// nearestLabelThreshold is the minimum Jaro-Winkler similarity for a label on
// the page to be reported as the likely renamed version of a missing one.
const nearestLabelThreshold = 0.85

// strategy locates a field in one generation of the markup. It reports false
// when the elements it expects are absent, it never falls through to another
// layout on its own.
type strategy[T any] struct {
	layout string
	// label is the caption the strategy anchors on, "" when it uses classes only.
	label string
	find  func(doc *goquery.Selection) (T, bool)
}

// field describes how to extract a single value and how to describe its
// absence to a user.
type field[T any] struct {
	key        string
	missing    string
	empty      T
	strategies []strategy[T]
}

// Extractor holds the field extractors for listing cards, detail pages and
// documents sub-pages. Extraction never fails, values that cannot be found are
// replaced by their defaults and noted.
type Extractor struct {
	norm normalize.Normalizer
	tel  telemetry.API
}

func NewExtractor(tel telemetry.API) Extractor {
	assert.NotNil(tel)
	return Extractor{
		norm: normalize.New(tel),
		tel:  tel,
	}
}

// extract runs the strategies of a field in order, the first one that finds
// its markup wins.
func extract[T any](x Extractor, doc *goquery.Selection, note *Note, f field[T]) T {
	for _, s := range f.strategies {
		value, ok := s.find(doc)
		if ok {
			x.tel.ReportDebug(report_extractor_found, f.key, s.layout)
			return value
		}
	}

	note.Write(f.missing)
	reportMissing(x, doc, f)
	return f.empty
}

func reportMissing[T any](x Extractor, doc *goquery.Selection, f field[T]) {
	labels := pageLabels(doc)
	for _, s := range f.strategies {
		if s.label == "" {
			continue
		}
		nearest, score, ok := textutil.Nearest(s.label, labels, nearestLabelThreshold)
		if ok {
			x.tel.ReportWarning(report_extractor_field, f.key, "not found", s.layout, s.label, "nearest", nearest, score)
			return
		}
	}
	x.tel.ReportWarning(report_extractor_field, f.key, "not found")
}

// pageLabels collects the captions a detail page uses in either layout.
func pageLabels(doc *goquery.Selection) []string {
	var labels []string
	doc.Find("td, span.section__title, span.cardMainInfo__title").Each(func(_ int, s *goquery.Selection) {
		text := htmlutil.Text(s)
		if text == "" || len([]rune(text)) > 200 {
			return
		}
		labels = append(labels, text)
	})
	return labels
}
