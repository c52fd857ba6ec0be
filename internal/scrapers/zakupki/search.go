package zakupki

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	searchPath = "/epz/order/extendedsearch/results.html"

	// DefaultFilter sorts results by publication date.
	DefaultFilter = "Дате размещения"
)

// SearchQuery describes one page of the extended notice search. From and To
// bound the publication date and use the registry's DD.MM.YYYY format.
type SearchQuery struct {
	Text   string
	From   string
	To     string
	Filter string
	// Page starts at 1, values below that are treated as 1.
	Page int
}

// URL builds the search results url. Both 44-FZ and 223-FZ notices are
// requested, 100 per page, newest first.
func (q SearchQuery) URL() string {
	filter := q.Filter
	if filter == "" {
		filter = DefaultFilter
	}
	page := q.Page
	if page < 1 {
		page = 1
	}

	values := url.Values{}
	values.Set("searchString", strings.Join(strings.Fields(q.Text), " "))
	values.Set("morphology", "on")
	values.Set("search-filter", filter)
	values.Set("pageNumber", strconv.Itoa(page))
	values.Set("sortDirection", "true")
	values.Set("recordsPerPage", "_100")
	values.Set("showLotsInfoHidden", "true")
	values.Set("sortBy", "PUBLISH_DATE")
	values.Set("fz44", "on")
	values.Set("fz223", "on")
	values.Set("af", "on")
	values.Set("selectedSubjectsIdNameHidden", "{}")
	values.Set("publishDateFrom", q.From)
	values.Set("publishDateTo", q.To)
	values.Set("currencyIdGeneral", "-1")
	values.Set("OrderPlacementSmallBusinessSubject", "on")
	values.Set("OrderPlacementRnpData", "on")
	values.Set("OrderPlacementExecutionRequirement", "on")
	values.Set("orderPlacement94_0", "0")
	values.Set("orderPlacement94_1", "0")
	values.Set("orderPlacement94_2", "0")

	return Origin + searchPath + "?" + values.Encode()
}
