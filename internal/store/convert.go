package store

import (
	"tenderbot/internal/components/db"
	"tenderbot/internal/scrapers/zakupki"
	"time"
)

func ToRow(record zakupki.Record) db.Listing {
	return db.Listing{
		RunID:           record.RunID,
		ID:              record.ID,
		Law:             record.Law,
		Url:             record.URL,
		Price:           record.Price,
		Type:            record.Type,
		Description:     record.Description,
		InitDate:        record.InitDate,
		Platform:        record.Platform,
		PlatformUrl:     record.PlatformURL,
		TenderDeposit:   record.TenderDeposit,
		ContractDeposit: record.ContractDeposit,
		WarrantyDeposit: record.WarrantyDeposit,
		AuthorName:      record.AuthorName,
		AuthorInn:       record.AuthorINN,
		AuthorOgrn:      record.AuthorOGRN,
		Address:         record.Address,
		AuthorManager:   record.AuthorManager,
		AuthorEmail:     record.AuthorEmail,
		AuthorPhone:     record.AuthorPhone,
		StartDate:       record.StartDate,
		EndDate:         record.EndDate,
		Timezone:        record.Timezone,
		ResultDate:      record.ResultDate,
		Requirements:    record.Requirements,
		Docs:            record.Docs,
		Comment:         record.Note,
		Time:            record.CapturedAt.Unix(),
	}
}

func FromRow(row db.Listing) zakupki.Record {
	return zakupki.Record{
		Listing: zakupki.Listing{
			ID:    row.ID,
			Law:   row.Law,
			URL:   row.Url,
			Price: row.Price,
		},
		Detail: zakupki.Detail{
			Type:            row.Type,
			Description:     row.Description,
			InitDate:        row.InitDate,
			Platform:        row.Platform,
			PlatformURL:     row.PlatformUrl,
			TenderDeposit:   row.TenderDeposit,
			ContractDeposit: row.ContractDeposit,
			WarrantyDeposit: row.WarrantyDeposit,
			AuthorName:      row.AuthorName,
			AuthorINN:       row.AuthorInn,
			AuthorOGRN:      row.AuthorOgrn,
			Address:         row.Address,
			AuthorManager:   row.AuthorManager,
			AuthorEmail:     row.AuthorEmail,
			AuthorPhone:     row.AuthorPhone,
			StartDate:       row.StartDate,
			EndDate:         row.EndDate,
			Timezone:        row.Timezone,
			ResultDate:      row.ResultDate,
			Requirements:    row.Requirements,
		},
		Docs:       row.Docs,
		Note:       row.Comment,
		CapturedAt: time.Unix(row.Time, 0).UTC(),
		RunID:      row.RunID,
	}
}
