package zakupki

import (
	"net/url"
	"strconv"
	"strings"
	"tenderbot/internal/normalize"
	"tenderbot/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// Origin is the base relative registry links are resolved against.
const Origin = "https://zakupki.gov.ru"

var originURL = &url.URL{Scheme: "https", Host: "zakupki.gov.ru"}

const (
	cardSelector   = "div.registry-entry__form"
	numberSelector = "div.registry-entry__header-mid__number"
	lawSelector    = "div.registry-entry__header-top__title"
	priceSelector  = "div.price-block__value"
)

const (
	missingID    = "\t• реестровый номер извещения;"
	missingLaw   = "\t• номер федерального закона;"
	missingURL   = "\t• URL-закупки на ЕИС в сфере закупок;"
	missingPrice = "\t• начальную (максимальную) цену договора;"
)

// SearchCards returns every listing card of a search results page.
func SearchCards(doc *goquery.Selection) []*goquery.Selection {
	var cards []*goquery.Selection
	doc.Find(cardSelector).Each(func(_ int, card *goquery.Selection) {
		cards = append(cards, card)
	})
	return cards
}

// DetailLinks returns the absolute detail page url of every card on a search
// results page, cards without a link are skipped.
func DetailLinks(doc *goquery.Selection) []string {
	var links []string
	for _, card := range SearchCards(doc) {
		link, ok := cardLink(card)
		if ok {
			links = append(links, link)
		}
	}
	return links
}

// registryLinks resolves the hrefs of the anchors in `sel` against Origin.
func registryLinks(sel *goquery.Selection) []string {
	var links []string
	for _, anchor := range htmlutil.GetAnchors(sel, originURL) {
		links = append(links, anchor.Href)
	}
	return links
}

func cardLink(card *goquery.Selection) (string, bool) {
	links := registryLinks(card.Find(numberSelector).Find("a").First())
	if len(links) == 0 {
		return "", false
	}
	return links[0], true
}

func (x Extractor) idField() field[int64] {
	return field[int64]{
		key:     "id",
		missing: missingID,
		strategies: []strategy[int64]{
			{
				layout: "header",
				find: func(doc *goquery.Selection) (int64, bool) {
					number := doc.Find(numberSelector).First()
					if number.Length() == 0 {
						return 0, false
					}
					token, ok := nthField(htmlutil.Text(number), 1)
					if !ok {
						return 0, false
					}
					id, err := strconv.ParseInt(strings.TrimPrefix(token, "№"), 10, 64)
					if err != nil {
						return 0, false
					}
					return id, true
				},
			},
			{
				layout: "href",
				find: func(doc *goquery.Selection) (int64, bool) {
					link, ok := cardLink(doc)
					if !ok {
						return 0, false
					}
					return regNumber(link)
				},
			},
		},
	}
}

// regNumber reads the registry number from the query of a detail link.
func regNumber(link string) (int64, bool) {
	parsed, err := url.Parse(link)
	if err != nil {
		return 0, false
	}
	value := parsed.Query().Get("regNumber")
	if value == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func (x Extractor) lawField() field[string] {
	return field[string]{
		key:     "law",
		missing: missingLaw,
		strategies: []strategy[string]{{
			layout: "header",
			find: func(doc *goquery.Selection) (string, bool) {
				title := doc.Find(lawSelector).First()
				if title.Length() == 0 {
					return "", false
				}
				return nthField(htmlutil.Text(title), 0)
			},
		}},
	}
}

func (x Extractor) urlField() field[string] {
	return field[string]{
		key:        "url",
		missing:    missingURL,
		strategies: []strategy[string]{{layout: "header", find: cardLink}},
	}
}

func (x Extractor) priceField() field[normalize.Amount] {
	return field[normalize.Amount]{
		key:     "price",
		missing: missingPrice,
		empty:   normalize.NaN(),
		strategies: []strategy[normalize.Amount]{{
			layout: "price-block",
			find: func(doc *goquery.Selection) (normalize.Amount, bool) {
				block := doc.Find(priceSelector).First()
				if block.Length() == 0 {
					return normalize.NaN(), false
				}
				// the registry groups digits with non-breaking spaces and
				// separates the currency sign with a regular one
				raw := strings.ReplaceAll(block.Text(), "\u00a0", "")
				token, ok := nthField(raw, 0)
				if !ok {
					return normalize.NaN(), false
				}
				return x.norm.Amount(token), true
			},
		}},
	}
}

// ExtractListing reads the fields of a search results card. Fields that are
// missing are written to `note` in extraction order.
func (x Extractor) ExtractListing(card *goquery.Selection, note *Note) Listing {
	return Listing{
		ID:    extract(x, card, note, x.idField()),
		Law:   extract(x, card, note, x.lawField()),
		URL:   extract(x, card, note, x.urlField()),
		Price: extract(x, card, note, x.priceField()),
	}
}
