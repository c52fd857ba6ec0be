package zakupki

import (
	"tenderbot/internal/normalize"
	"time"
)

// Listing holds the fields available from a search results card.
type Listing struct {
	// ID is the registry number of the notice, 0 when unknown.
	ID    int64
	Law   string
	URL   string
	Price normalize.Amount
}

// Detail holds the fields read from the detail page of a listing. Dates are
// stored as strings because a date that failed to parse is kept verbatim.
type Detail struct {
	Type        string
	Description string
	InitDate    string
	Platform    string
	PlatformURL string

	TenderDeposit normalize.Amount
	// ContractDeposit and WarrantyDeposit are always absolute amounts in the
	// currency of Price.
	ContractDeposit normalize.Amount
	WarrantyDeposit normalize.Amount

	AuthorName    string
	AuthorINN     string
	AuthorOGRN    string
	Address       string
	AuthorManager string
	AuthorEmail   string
	AuthorPhone   string

	StartDate  string
	EndDate    string
	Timezone   string
	ResultDate string

	Requirements string
}

// EmptyDetail is the value of every detail field that could not be found.
func EmptyDetail() Detail {
	return Detail{
		TenderDeposit:   normalize.NaN(),
		ContractDeposit: normalize.NaN(),
		WarrantyDeposit: normalize.NaN(),
	}
}

// Record is one fully assembled listing.
type Record struct {
	Listing
	Detail

	// Docs is the newline joined list of attachment urls.
	Docs string
	// Note is the missing-field note, "" when every field was found.
	Note string

	CapturedAt time.Time
	RunID      string
}
