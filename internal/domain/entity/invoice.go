package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Rechnungsstatus. cancelled (Storno) und paid sind Endzustände.
const (
	InvoiceStatusOpen      = "open"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusCancelled = "cancelled"
)

// Invoice ist eine Rechnung. Sie entsteht direkt oder aus einem angenommenen
// Angebot; im zweiten Fall wandelt das Lagerjournal die Reservierungen des
// Angebots in Abgänge um.
type Invoice struct {
	ID           int64
	Number       string // z. B. "RE-2026-00042"
	CustomerID   int64
	OfferID      *int64 // gesetzt, wenn aus Angebot erzeugt
	Status       string
	IssueDate    time.Time
	DueDate      time.Time
	Note         string
	Items        []DocumentItem
	DunningLevel int // 0 = keine Mahnung, max. 3
	DunnedAt     *time.Time
	PaidAt       *time.Time
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Overdue meldet, ob die Rechnung am Stichtag überfällig ist.
func (inv *Invoice) Overdue(at time.Time) bool {
	return inv.Status == InvoiceStatusOpen && at.After(inv.DueDate)
}

// Totals liefert Netto, Steuer und Brutto der Rechnung.
func (inv *Invoice) Totals() (net, vat, gross decimal.Decimal) {
	return SumItems(inv.Items)
}

// DunningLetter ist eine erzeugte Mahnung zu einer Rechnung.
type DunningLetter struct {
	ID        int64
	InvoiceID int64
	Level     int // 1..3
	Fee       decimal.Decimal
	IssuedAt  time.Time
}
