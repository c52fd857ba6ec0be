package commands

import (
	"fmt"
	"os"
	"strings"
	"tenderbot/internal/normalize"
	"tenderbot/internal/scrapers/zakupki"
	"tenderbot/lib/serviceutil"

	"github.com/PuerkitoBio/goquery"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	inspectKind  *string
	inspectPrice *float64
)

func init() {
	inspectKind = inspectCmd.Flags().String("kind", "auto", "The kind of page: auto, search, detail or documents.")
	inspectPrice = inspectCmd.Flags().Float64("price", 0, "The listing price used to scale fractional security amounts on a detail page.")
	rootCmd.AddCommand(inspectCmd)
}

func inspectSearch(x zakupki.Extractor, cards []*goquery.Selection) {
	t := newTable()
	t.AppendHeader(table.Row{"#", "ID", "Law", "Price", "URL", "Missing"})
	for i, card := range cards {
		note := zakupki.NewNote()
		listing := x.ExtractListing(card, note)
		t.AppendRow(table.Row{
			i + 1,
			listing.ID,
			listing.Law,
			listing.Price.String(),
			listing.URL,
			strings.ReplaceAll(note.Body(), "\n", " "),
		})
	}
	t.Render()
}

func inspectDetail(x zakupki.Extractor, doc *goquery.Document) {
	price := normalize.NaN()
	if *inspectPrice > 0 {
		price = normalize.FromFloat(*inspectPrice)
	}
	note := zakupki.NewNote()
	detail := x.ExtractDetail(doc.Selection, price, note)
	renderRecord(zakupki.Record{
		Listing: zakupki.Listing{Price: price},
		Detail:  detail,
		Note:    note.String(),
	})
}

func inspectDocuments(x zakupki.Extractor, doc *goquery.Document) {
	docs, ok := x.ExtractDocumentLinks(doc.Selection)
	if !ok {
		fmt.Println("no documents found")
		return
	}
	fmt.Println(docs)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <page.html> [--kind auto|search|detail|documents]",
	Short: "Runs the extractors over a saved page and prints what was found.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		f, err := os.Open(args[0])
		if err != nil {
			serviceutil.Fatal("failed to open page", err)
		}
		defer f.Close()
		doc, err := goquery.NewDocumentFromReader(f)
		if err != nil {
			serviceutil.Fatal("failed to parse page", err)
		}

		x := zakupki.NewExtractor(newTelemetry())
		cards := zakupki.SearchCards(doc.Selection)

		kind := *inspectKind
		if kind == "auto" {
			kind = "detail"
			if len(cards) > 0 {
				kind = "search"
			}
		}

		switch kind {
		case "search":
			inspectSearch(x, cards)
		case "detail":
			inspectDetail(x, doc)
		case "documents":
			inspectDocuments(x, doc)
		default:
			serviceutil.Fatal(fmt.Sprintf("unknown page kind '%s'", kind), nil)
		}
	},
}
