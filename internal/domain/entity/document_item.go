package entity

import "github.com/shopspring/decimal"

// DocumentItem ist eine Position eines Angebots oder einer Rechnung.
// Preis und Steuersatz werden beim Anlegen aus dem Artikel kopiert, damit
// spätere Katalogänderungen alte Dokumente nicht verändern.
type DocumentItem struct {
	ID          int64
	DocumentID  int64
	Position    int
	ProductID   int64
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal // netto
	VATRate     decimal.Decimal
}

// Net liefert den Nettobetrag der Position.
func (it *DocumentItem) Net() decimal.Decimal {
	return it.Quantity.Mul(it.UnitPrice)
}

// VAT liefert den Steuerbetrag der Position.
func (it *DocumentItem) VAT() decimal.Decimal {
	return it.Net().Mul(it.VATRate).Div(decimal.NewFromInt(100))
}

// Gross liefert den Bruttobetrag der Position.
func (it *DocumentItem) Gross() decimal.Decimal {
	return it.Net().Add(it.VAT())
}

// SumItems summiert Netto, Steuer und Brutto über alle Positionen.
func SumItems(items []DocumentItem) (net, vat, gross decimal.Decimal) {
	net, vat = decimal.Zero, decimal.Zero
	for i := range items {
		net = net.Add(items[i].Net())
		vat = vat.Add(items[i].VAT())
	}
	return net, vat, net.Add(vat)
}
