package zakupki

import (
	"context"
	"embed"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

//go:embed testdata/*.html
var fixtures embed.FS

const (
	firstDetailURL    = "https://zakupki.gov.ru/epz/order/notice/ea44/view/common-info.html?regNumber=12345"
	firstDocumentsURL = "https://zakupki.gov.ru/epz/order/notice/ea44/view/documents.html?regNumber=12345"
)

func fixture(t *testing.T, name string) string {
	t.Helper()
	contents, err := fixtures.ReadFile("testdata/" + name)
	if err != nil {
		t.Fatal(err)
	}
	return string(contents)
}

func parseHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func fixtureDoc(t *testing.T, name string) *goquery.Document {
	t.Helper()
	return parseHTML(t, fixture(t, name))
}

func searchCard(t *testing.T, i int) *goquery.Selection {
	t.Helper()
	cards := SearchCards(fixtureDoc(t, "search.html").Selection)
	if i >= len(cards) {
		t.Fatalf("search fixture has %d cards, wanted card %d", len(cards), i)
	}
	return cards[i]
}

// fakeFetcher serves pages from memory, any other url is unreachable.
type fakeFetcher struct {
	lock  sync.Mutex
	pages map[string]string
	calls map[string]int
}

func newFakeFetcher(pages map[string]string) *fakeFetcher {
	return &fakeFetcher{pages: pages, calls: map[string]int{}}
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (string, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.calls[url]++
	page, ok := f.pages[url]
	if !ok {
		return "", fmt.Errorf("dial %s: connection refused", url)
	}
	return page, nil
}

func (f *fakeFetcher) Calls(url string) int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.calls[url]
}

// memorySink keeps persisted records, ids listed in `fail` are rejected.
type memorySink struct {
	lock    sync.Mutex
	records []Record
	fail    map[int64]bool
}

func (s *memorySink) Persist(_ context.Context, record Record) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.fail[record.ID] {
		return fmt.Errorf("insert listing %d: database is locked", record.ID)
	}
	s.records = append(s.records, record)
	return nil
}
