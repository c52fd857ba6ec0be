package db

import "tenderbot/internal/normalize"

// Listing is a row of the listing table, column names follow the keys of a
// registry card.
type Listing struct {
	RunID           string           `db:"run_id"`
	ID              int64            `db:"id"`
	Law             string           `db:"law"`
	Url             string           `db:"url"`
	Price           normalize.Amount `db:"price"`
	Type            string           `db:"type"`
	Description     string           `db:"description"`
	InitDate        string           `db:"init_date"`
	Platform        string           `db:"platform"`
	PlatformUrl     string           `db:"platform_url"`
	TenderDeposit   normalize.Amount `db:"tender_deposit"`
	ContractDeposit normalize.Amount `db:"contract_deposit"`
	WarrantyDeposit normalize.Amount `db:"warranty_deposit"`
	AuthorName      string           `db:"author_name"`
	AuthorInn       string           `db:"author_inn"`
	AuthorOgrn      string           `db:"author_ogrn"`
	Address         string           `db:"address"`
	AuthorManager   string           `db:"author_manager"`
	AuthorEmail     string           `db:"author_email"`
	AuthorPhone     string           `db:"author_phone"`
	StartDate       string           `db:"start_date"`
	EndDate         string           `db:"end_date"`
	Timezone        string           `db:"timezone"`
	ResultDate      string           `db:"result_date"`
	Requirements    string           `db:"requirements"`
	Docs            string           `db:"docs"`
	Comment         string           `db:"comment"`
	// Time is the capture time in unix seconds.
	Time int64 `db:"time"`
}

type RunSummary struct {
	RunID      string `db:"run_id"`
	Listings   int64  `db:"listings"`
	Incomplete int64  `db:"incomplete"`
	StartedAt  int64  `db:"started_at"`
}
