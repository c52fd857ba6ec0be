package zakupki

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	report_extractor_documents = "extractor.documents"

	missingDocs = "\t• ссылки на документы;"
)

const (
	commonInfoSegment = "common-info."
	pageSuffix        = ".html?"

	// PartDocuments is the documents sub-page of a notice.
	PartDocuments = "documents"
)

// ErrNoPartSegment is returned when a detail url does not point at the
// common-info page of a notice, so no other sub-page can be derived from it.
var ErrNoPartSegment = errors.New("url has no common-info segment")

// PartURL derives the url of another sub-page of a notice from its
// common-info url by swapping the page name, the query is kept as is.
func PartURL(commonURL, part string) (string, error) {
	start := strings.Index(commonURL, commonInfoSegment)
	if start < 0 {
		return "", fmt.Errorf("%w: %s", ErrNoPartSegment, commonURL)
	}
	end := strings.Index(commonURL[start:], pageSuffix)
	if end < 0 {
		return "", fmt.Errorf("%w: %s", ErrNoPartSegment, commonURL)
	}
	end += start
	return commonURL[:start] + part + commonURL[end:], nil
}

// documentsVariant reads the attachment links of one layout of the documents
// sub-page, it reports false when the layout's containers are absent.
type documentsVariant struct {
	name string
	find func(doc *goquery.Selection) ([]string, bool)
}

var documentsVariants = []documentsVariant{
	{name: "adding-table", find: addingTableLinks},
	{name: "attachment-rows", find: attachmentRowLinks},
}

func addingTableLinks(doc *goquery.Selection) ([]string, bool) {
	container := doc.Find("div.addingTbl.padTop10.padBtm10.autoTh").First()
	if container.Length() == 0 {
		return nil, false
	}
	return registryLinks(container.Find("a.epz_aware")), true
}

func attachmentRowLinks(doc *goquery.Selection) ([]string, bool) {
	rows := doc.Find("div.attachment.row")
	if rows.Length() == 0 {
		return nil, false
	}
	var links []string
	ok := true
	rows.EachWithBreak(func(_ int, row *goquery.Selection) bool {
		anchor := row.Find("span.section__value").First().Find("a").First()
		if _, exists := anchor.Attr("href"); !exists {
			ok = false
			return false
		}
		links = append(links, registryLinks(anchor)...)
		return true
	})
	if !ok {
		return nil, false
	}
	return links, true
}

// ExtractDocumentLinks returns the newline joined attachment urls of a
// documents sub-page. The layouts are tried in order and the first one whose
// markup is present wins, false is returned when none of them match.
func (x Extractor) ExtractDocumentLinks(doc *goquery.Selection) (string, bool) {
	for _, variant := range documentsVariants {
		links, ok := variant.find(doc)
		if ok {
			x.tel.ReportDebug(report_extractor_documents, variant.name, len(links))
			return strings.Join(links, "\n"), true
		}
	}
	x.tel.ReportWarning(report_extractor_documents, "docs", "not found")
	return "", false
}
