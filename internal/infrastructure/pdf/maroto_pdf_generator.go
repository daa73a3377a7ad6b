// Package pdf erzeugt die Druckansichten der Belege mit Maroto v2.
//
// Layout der A4-Seite:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  KOPF: Absender + USt-IdNr.  │  Belegart + Nummer + Datum   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  EMPFÄNGER: Name + Anschrift                                │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABELLE: Pos | Bezeichnung | Menge | Einzelpreis | USt | Σ │
//	│  ─────────────────────────────────────────────────────────  │
//	│  SUMMEN: Netto / USt / Brutto                               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FUSS: Zahlungsziel + Bankverbindung                        │
//	└─────────────────────────────────────────────────────────────┘
//
// Der Lieferschein benutzt dasselbe Layout ohne Preisspalten und Summen.
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/fakturahaus/faktura-api/internal/domain/entity"
)

// ── Farbpalette ───────────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 20, Green: 45, Blue: 90}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// dePrinter formatiert Zahlen mit deutschem Tausenderpunkt und Dezimalkomma.
var dePrinter = message.NewPrinter(language.German)

// Seller sind die Absenderdaten auf allen Belegen.
type Seller struct {
	Name   string
	Street string
	ZIP    string
	City   string
	Email  string
	Phone  string
	VATID  string
	IBAN   string
	BIC    string
}

// Generator erzeugt Rechnungs-, Angebots- und Lieferschein-PDFs.
type Generator struct {
	seller Seller
}

// NewGenerator baut den Generator mit den Absenderdaten.
func NewGenerator(seller Seller) *Generator {
	return &Generator{seller: seller}
}

// GenerateInvoicePDF erzeugt das Rechnungs-PDF und liefert die Bytes.
func (g *Generator) GenerateInvoicePDF(_ context.Context, inv *entity.Invoice, customer *entity.Customer) ([]byte, error) {
	doc := document{
		kind:     "RECHNUNG",
		number:   inv.Number,
		date:     inv.IssueDate,
		items:    inv.Items,
		customer: customer,
		footer: fmt.Sprintf("Zahlbar bis %s ohne Abzug auf das unten genannte Konto. Bitte geben Sie die Rechnungsnummer an.",
			inv.DueDate.Format("02.01.2006")),
		withPrices: true,
	}
	return g.render(doc)
}

// GenerateOfferPDF erzeugt das Angebots-PDF.
func (g *Generator) GenerateOfferPDF(_ context.Context, offer *entity.Offer, customer *entity.Customer) ([]byte, error) {
	doc := document{
		kind:     "ANGEBOT",
		number:   offer.Number,
		date:     offer.IssueDate,
		items:    offer.Items,
		customer: customer,
		footer: fmt.Sprintf("Dieses Angebot ist gültig bis %s. Alle Preise verstehen sich zuzüglich der gesetzlichen Umsatzsteuer.",
			offer.ValidUntil.Format("02.01.2006")),
		withPrices: true,
	}
	return g.render(doc)
}

// GenerateDeliveryNotePDF erzeugt den Lieferschein zur Rechnung: gleiches
// Layout, aber ohne Preise und Summen.
func (g *Generator) GenerateDeliveryNotePDF(_ context.Context, inv *entity.Invoice, customer *entity.Customer) ([]byte, error) {
	doc := document{
		kind:       "LIEFERSCHEIN",
		number:     inv.Number,
		date:       inv.IssueDate,
		items:      inv.Items,
		customer:   customer,
		footer:     "Bitte prüfen Sie die Lieferung auf Vollständigkeit und melden Sie Abweichungen innerhalb von 14 Tagen.",
		withPrices: false,
	}
	return g.render(doc)
}

// document bündelt die belegartabhängigen Teile des Layouts.
type document struct {
	kind       string
	number     string
	date       time.Time
	items      []entity.DocumentItem
	customer   *entity.Customer
	footer     string
	withPrices bool
}

func (g *Generator) render(doc document) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).WithRightMargin(15).
		WithTopMargin(12).WithBottomMargin(12).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(doc.kind+" "+doc.number, true).
		WithAuthor(g.seller.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(recipientRow(doc.customer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow(doc.withPrices))
	for _, r := range tableItemRows(doc.items, doc.withPrices) {
		m.AddRows(r)
	}

	if doc.withPrices {
		m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
		m.AddRows(totalsRow(doc.items))
	}

	m.AddRows(line.NewRow(3))
	for _, r := range g.footerRows(doc) {
		m.AddRows(r)
	}

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: Dokument erzeugen: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Abschnitte ────────────────────────────────────────────────────────────────

// headerRow: Absender links, Belegart mit Nummer und Datum rechts.
func (g *Generator) headerRow(doc document) core.Row {
	return row.New(20).Add(
		col.New(7).Add(
			text.New(g.seller.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%s · %s %s", g.seller.Street, g.seller.ZIP, g.seller.City), props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
			text.New("USt-IdNr.: "+g.seller.VATID, props.Text{
				Size: 8, Top: 14, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(doc.kind, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(doc.number, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 8,
			}),
			text.New("Datum: "+doc.date.Format("02.01.2006"), props.Text{
				Size: 8, Align: align.Right, Top: 15, Color: colorGray,
			}),
		),
	)
}

// recipientRow: Anschrift des Kunden.
func recipientRow(customer *entity.Customer) core.Row {
	address := fmt.Sprintf("%s · %s %s · %s", customer.Street, customer.ZIP, customer.City, customer.Country)
	contact := customer.Number
	if customer.VATID != "" {
		contact += "   |   USt-IdNr.: " + customer.VATID
	}
	return row.New(16).Add(
		col.New(12).Add(
			text.New("EMPFÄNGER", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(customer.Name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(address, props.Text{Size: 8, Top: 11, Color: colorGray}),
			text.New(contact, props.Text{Size: 8, Top: 15, Color: colorGray}),
		),
	)
}

// tableHeaderRow: Tabellenkopf, beim Lieferschein ohne Preisspalten.
func tableHeaderRow(withPrices bool) core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	if !withPrices {
		return row.New(8).Add(
			h("Pos.", 1, align.Center),
			h("Bezeichnung", 9, align.Left),
			h("Menge", 2, align.Right),
		)
	}
	return row.New(8).Add(
		h("Pos.", 1, align.Center),
		h("Bezeichnung", 5, align.Left),
		h("Menge", 1, align.Right),
		h("Einzelpreis", 2, align.Right),
		h("USt. %", 1, align.Center),
		h("Gesamt", 2, align.Right),
	)
}

// tableItemRows: eine Zeile je Belegposition.
func tableItemRows(items []entity.DocumentItem, withPrices bool) []core.Row {
	result := make([]core.Row, 0, len(items))
	for i := range items {
		it := &items[i]
		if !withPrices {
			result = append(result, row.New(7).Add(
				col.New(1).Add(text.New(fmt.Sprintf("%d", it.Position), props.Text{Size: 8, Align: align.Center, Top: 1})),
				col.New(9).Add(text.New(it.Description, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
				col.New(2).Add(text.New(formatQuantity(it.Quantity), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			))
			continue
		}
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(fmt.Sprintf("%d", it.Position), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(5).Add(text.New(it.Description, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(1).Add(text.New(formatQuantity(it.Quantity), props.Text{Size: 8, Align: align.Right, Top: 1})),
			col.New(2).Add(text.New(FormatEUR(it.UnitPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(it.VATRate.StringFixed(0), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(FormatEUR(it.Net()), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

// totalsRow: Summenblock rechtsbündig.
func totalsRow(items []entity.DocumentItem) core.Row {
	net, vat, gross := entity.SumItems(items)

	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grandLabel := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2,
		})
	}
	grandValue := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1,
		})
	}

	return row.New(26).Add(
		col.New(4),
		col.New(4).Add(
			label("Summe netto:"),
			label("Umsatzsteuer:"),
			grandLabel("Gesamtbetrag:"),
		),
		col.New(4).Add(
			value(FormatEUR(net)),
			value(FormatEUR(vat)),
			grandValue(FormatEUR(gross)),
		),
	)
}

// footerRows: Hinweistext plus Bankverbindung.
func (g *Generator) footerRows(doc document) []core.Row {
	rows := []core.Row{
		row.New(8).Add(col.New(12).Add(
			text.New(doc.footer, props.Text{Size: 8, Color: colorGray, Top: 1}),
		)),
	}
	if g.seller.IBAN != "" && doc.withPrices {
		rows = append(rows, row.New(6).Add(col.New(12).Add(
			text.New(fmt.Sprintf("Bankverbindung: IBAN %s · BIC %s", g.seller.IBAN, g.seller.BIC), props.Text{
				Size: 8, Color: colorGray, Top: 1,
			}),
		)))
	}
	rows = append(rows, row.New(6).Add(col.New(12).Add(
		text.New(fmt.Sprintf("%s · %s · %s", g.seller.Name, g.seller.Email, g.seller.Phone), props.Text{
			Size: 7, Color: colorGray, Top: 1, Align: align.Center,
		}),
	)))
	return rows
}

// ── Helfer ────────────────────────────────────────────────────────────────────

// FormatEUR formatiert einen Betrag deutsch mit zwei Nachkommastellen,
// z. B. 1234.5 -> "1.234,50 €".
func FormatEUR(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	return dePrinter.Sprintf("%.2f €", f)
}

// formatQuantity formatiert Mengen deutsch und ohne überflüssige Nullen.
func formatQuantity(d decimal.Decimal) string {
	f, _ := d.Float64()
	if d.Equal(d.Truncate(0)) {
		return dePrinter.Sprintf("%.0f", f)
	}
	return dePrinter.Sprintf("%.3f", f)
}
