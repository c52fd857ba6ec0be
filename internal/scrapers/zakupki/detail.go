package zakupki

import (
	"regexp"
	"strings"
	"tenderbot/internal/normalize"
	"tenderbot/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

const (
	missingType            = "\t• способ размещения закупки;"
	missingDescription     = "\t• наименование/объект закупки;"
	missingInitDate        = "\t• дату размещения извещения о закупке;"
	missingPlatform        = "\t• наименование электронной площадки;"
	missingPlatformURL     = "\t• адрес электронной площадки;"
	missingTenderDeposit   = "\t• обеспечение заявки;"
	missingContractDeposit = "\t• обеспечение контракта;"
	missingWarrantyDeposit = "\t• обеспечение гарантийных обязательств;"
	missingAuthorName      = "\t• наименование организации;"
	missingAuthorINN       = "\t• ИНН организации;"
	missingAuthorOGRN      = "\t• ОГРН организации;"
	missingAddress         = "\t• адрес место нахождения организации;"
	missingAuthorManager   = "\t• ФИО контактного лица организации;"
	missingAuthorEmail     = "\t• электронную почту организации;"
	missingAuthorPhone     = "\t• телефон организации;"
	missingStartDate       = "\t• дату начала срока подачи заявок;"
	missingEndDate         = "\t• дату и время окончания подачи заявок;"
	missingTimezone        = "\t• часовой пояс заказчика;"
	missingResultDate      = "\t• дату подведения итогов;"
	missingRequirements    = "\t• требования и ограничения к участникам;"
)

// captions of the table based layout
const (
	tableType        = "Способ размещения закупки"
	tableDescription = "Наименование закупки"
	tableInitDate    = "Дата размещения извещения"
	tablePlatform    = "Наименование электронной площадки в информационно-телекоммуникационной сети «Интернет»"
	tablePlatformURL = "Адрес электронной площадки в информационно-телекоммуникационной сети «Интернет»"
	tableTenderDep   = "Обеспечение заявки"
	tableAuthorName  = "Наименование организации"
	tableINN         = "ИНН"
	tableOGRN        = "ОГРН"
	tableAddress     = "Место нахождения"
	tableManager     = "Контактное лицо"
	tableEmail       = "Электронная почта"
	tablePhone       = "Телефон"
	tableStartDate   = "Дата начала срока подачи заявок"
	tableEndDateMark = "(по местному времени заказчика)"
	tableResultDate  = "Дата подведения итогов"
	tableNotRequired = "Не требуется"
)

// captions of the span based layout
const (
	spanType         = "Способ определения поставщика (подрядчика, исполнителя)"
	cardDescription  = "Объект закупки"
	cardInitDate     = "Размещено в ЕИС"
	spanPlatform     = `Наименование электронной площадки в информационно-телекоммуникационной сети "Интернет"`
	spanPlatformURL  = `Адрес электронной площадки в информационно-телекоммуникационной сети "Интернет"`
	spanTenderDep    = "Размер обеспечения заявки"
	spanContractDep  = "Размер обеспечения исполнения контракта"
	spanWarrantyDep  = "Размер обеспечения гарантийных обязательств"
	spanAuthorName   = "Организация, осуществляющая размещение"
	spanAddress      = "Почтовый адрес"
	spanManager      = "Ответственное должностное лицо"
	spanEmail        = "Адрес электронной почты"
	spanPhone        = "Номер контактного телефона"
	spanStartDate    = "Дата и время начала срока подачи заявок"
	spanEndDate      = "Дата и время окончания срока подачи заявок"
	spanResultDate   = "Дата и время рассмотрения и оценки первых частей заявок"
	spanAdvantages   = "Преимущества"
	spanRequirements = "Требования к участникам"
	spanRestrictions = "Ограничения и запреты"
)

var currencySuffix = regexp.MustCompile(`(?i)\s*(₽|руб\.?|rub)\s*$`)

func stripCurrency(text string) string {
	return strings.TrimSpace(currencySuffix.ReplaceAllString(strings.TrimSpace(text), ""))
}

// SecurityAmount resolves a security deposit caption against the contract
// price. A value below 1 is a fraction of the price, anything else (1
// included) is already an absolute amount.
func (x Extractor) SecurityAmount(text string, price normalize.Amount) normalize.Amount {
	value, ok := x.norm.Decimal(stripCurrency(text))
	if !ok {
		return normalize.NaN()
	}
	if value < 1 {
		return price.Scale(value)
	}
	return normalize.FromFloat(value)
}

func (x Extractor) date(layout, label string, lookup func(*goquery.Selection, string) (*goquery.Selection, bool)) strategy[string] {
	return mapStrategy(tokenStrategy(layout, label, 0, lookup), func(token string) string {
		return x.norm.Date(token, "")
	})
}

func (x Extractor) dateTime(layout, label string, lookup func(*goquery.Selection, string) (*goquery.Selection, bool)) strategy[string] {
	return mapStrategy(textStrategy(layout, label, lookup), func(text string) string {
		return x.norm.DateTime(text, "")
	})
}

func textField(key, missing string, strategies ...strategy[string]) field[string] {
	return field[string]{key: key, missing: missing, strategies: strategies}
}

func (x Extractor) tenderDepositField() field[normalize.Amount] {
	return field[normalize.Amount]{
		key:     "tender_deposit",
		missing: missingTenderDeposit,
		empty:   normalize.NaN(),
		strategies: []strategy[normalize.Amount]{
			mapStrategy(textStrategy(layoutTable, tableTenderDep, tableCell), func(text string) normalize.Amount {
				if text == tableNotRequired {
					return normalize.FromMinor(0)
				}
				return x.norm.Amount(stripCurrency(text))
			}),
			mapStrategy(textStrategy(layoutSpan, spanTenderDep, sectionInfo), func(text string) normalize.Amount {
				return x.norm.Amount(stripCurrency(text))
			}),
		},
	}
}

func (x Extractor) securityField(key, missing, label string, price normalize.Amount) field[normalize.Amount] {
	return field[normalize.Amount]{
		key:     key,
		missing: missing,
		empty:   normalize.NaN(),
		strategies: []strategy[normalize.Amount]{
			mapStrategy(textStrategy(layoutSpan, label, sectionInfo), func(text string) normalize.Amount {
				return x.SecurityAmount(text, price)
			}),
		},
	}
}

func endDateMarker(doc *goquery.Selection, label string) (*goquery.Selection, bool) {
	return labelled(doc, "span", label, "td")
}

func (x Extractor) timezoneField() field[string] {
	return textField("timezone", missingTimezone,
		mapStrategy(tokenStrategy(layoutTable, tableStartDate, 1, tableCell), func(token string) string {
			return strings.TrimSpace(strings.NewReplacer("(", "", ")", "").Replace(token))
		}),
		strategy[string]{
			layout: layoutSpan,
			label:  spanStartDate,
			find: func(doc *goquery.Selection) (string, bool) {
				info, ok := sectionInfo(doc, spanStartDate)
				if !ok {
					return "", false
				}
				label := normalize.TimezoneLabel(htmlutil.Text(info))
				return label, label != ""
			},
		},
	)
}

func requirementsField() field[string] {
	return textField("requirements", missingRequirements, strategy[string]{
		layout: layoutSpan,
		label:  spanRequirements,
		find: func(doc *goquery.Selection) (string, bool) {
			var sections []string
			for _, caption := range []string{spanAdvantages, spanRequirements, spanRestrictions} {
				info, ok := sectionInfo(doc, caption)
				if !ok {
					return "", false
				}
				sections = append(sections, caption+":\n\n"+htmlutil.Text(info)+"\n")
			}
			return strings.Join(sections, "\n"), true
		},
	})
}

// ExtractDetail reads the fields of a detail page, `price` must be the already
// resolved price of the listing because security deposits may be expressed as
// a fraction of it. Fields that are missing are written to `note` in
// extraction order.
func (x Extractor) ExtractDetail(doc *goquery.Selection, price normalize.Amount, note *Note) Detail {
	d := EmptyDetail()

	d.Type = extract(x, doc, note, textField("type", missingType,
		textStrategy(layoutTable, tableType, tableCell),
		textStrategy(layoutSpan, spanType, sectionInfo),
	))
	d.Description = extract(x, doc, note, textField("description", missingDescription,
		textStrategy(layoutTable, tableDescription, tableCell),
		textStrategy(layoutCard, cardDescription, cardInfo),
	))
	d.InitDate = extract(x, doc, note, textField("init_date", missingInitDate,
		x.date(layoutTable, tableInitDate, tableCell),
		x.dateTime(layoutCard, cardInitDate, cardInfo),
	))
	d.Platform = extract(x, doc, note, textField("platform", missingPlatform,
		textStrategy(layoutTable, tablePlatform, tableCell),
		textStrategy(layoutSpan, spanPlatform, sectionInfo),
	))
	d.PlatformURL = extract(x, doc, note, textField("platform_url", missingPlatformURL,
		textStrategy(layoutTable, tablePlatformURL, tableCell),
		textStrategy(layoutSpan, spanPlatformURL, sectionInfo),
	))

	d.TenderDeposit = extract(x, doc, note, x.tenderDepositField())
	d.ContractDeposit = extract(x, doc, note, x.securityField("contract_deposit", missingContractDeposit, spanContractDep, price))
	d.WarrantyDeposit = extract(x, doc, note, x.securityField("warranty_deposit", missingWarrantyDeposit, spanWarrantyDep, price))

	d.AuthorName = extract(x, doc, note, textField("author_name", missingAuthorName,
		textStrategy(layoutTable, tableAuthorName, tableCell),
		textStrategy(layoutSpan, spanAuthorName, sectionInfo),
	))
	d.AuthorINN = extract(x, doc, note, textField("author_inn", missingAuthorINN,
		textStrategy(layoutTable, tableINN, tableCell),
	))
	d.AuthorOGRN = extract(x, doc, note, textField("author_ogrn", missingAuthorOGRN,
		textStrategy(layoutTable, tableOGRN, tableCell),
	))
	d.Address = extract(x, doc, note, textField("address", missingAddress,
		textStrategy(layoutTable, tableAddress, tableCell),
		textStrategy(layoutSpan, spanAddress, sectionInfo),
	))
	d.AuthorManager = extract(x, doc, note, textField("author_manager", missingAuthorManager,
		textStrategy(layoutTable, tableManager, tableCell),
		textStrategy(layoutSpan, spanManager, sectionInfo),
	))
	d.AuthorEmail = extract(x, doc, note, textField("author_email", missingAuthorEmail,
		textStrategy(layoutTable, tableEmail, tableCell),
		textStrategy(layoutSpan, spanEmail, sectionInfo),
	))
	d.AuthorPhone = extract(x, doc, note, textField("author_phone", missingAuthorPhone,
		textStrategy(layoutTable, tablePhone, tableCell),
		textStrategy(layoutSpan, spanPhone, sectionInfo),
	))

	d.StartDate = extract(x, doc, note, textField("start_date", missingStartDate,
		x.date(layoutTable, tableStartDate, tableCell),
		x.dateTime(layoutSpan, spanStartDate, sectionInfo),
	))
	d.EndDate = extract(x, doc, note, textField("end_date", missingEndDate,
		x.date(layoutTable, tableEndDateMark, endDateMarker),
		x.dateTime(layoutSpan, spanEndDate, sectionInfo),
	))
	d.Timezone = extract(x, doc, note, x.timezoneField())
	d.ResultDate = extract(x, doc, note, textField("result_date", missingResultDate,
		x.date(layoutTable, tableResultDate, tableCell),
		x.dateTime(layoutSpan, spanResultDate, sectionInfo),
	))

	d.Requirements = extract(x, doc, note, requirementsField())

	return d
}

// detailFieldNotes lists the note line of every detail field in extraction
// order, they are all written when the detail page is unavailable.
var detailFieldNotes = []string{
	missingType,
	missingDescription,
	missingInitDate,
	missingPlatform,
	missingPlatformURL,
	missingTenderDeposit,
	missingContractDeposit,
	missingWarrantyDeposit,
	missingAuthorName,
	missingAuthorINN,
	missingAuthorOGRN,
	missingAddress,
	missingAuthorManager,
	missingAuthorEmail,
	missingAuthorPhone,
	missingStartDate,
	missingEndDate,
	missingTimezone,
	missingResultDate,
	missingRequirements,
}
