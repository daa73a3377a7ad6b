package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fakturahaus/faktura-api/internal/domain/entity"
)

// ItemRequest ist eine Belegposition beim Anlegen. Beschreibung, Preis und
// Steuersatz sind optional und werden sonst aus dem Artikel kopiert.
type ItemRequest struct {
	ProductID   int64            `json:"product_id"`
	Quantity    decimal.Decimal  `json:"quantity"`
	Description string           `json:"description,omitempty"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
	VATRate     *decimal.Decimal `json:"vat_rate,omitempty"`
}

// ItemResponse ist eine Belegposition in Antworten.
type ItemResponse struct {
	Position    int             `json:"position"`
	ProductID   int64           `json:"product_id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	VATRate     decimal.Decimal `json:"vat_rate"`
	Net         decimal.Decimal `json:"net"`
	Gross       decimal.Decimal `json:"gross"`
}

func toItemResponses(items []entity.DocumentItem) []ItemResponse {
	out := make([]ItemResponse, 0, len(items))
	for i := range items {
		it := &items[i]
		out = append(out, ItemResponse{
			Position:    it.Position,
			ProductID:   it.ProductID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			VATRate:     it.VATRate,
			Net:         it.Net(),
			Gross:       it.Gross(),
		})
	}
	return out
}

// CreateOfferRequest ist der Body für POST /api/offers.
type CreateOfferRequest struct {
	CustomerID int64         `json:"customer_id"`
	ValidUntil time.Time     `json:"valid_until,omitempty"`
	Note       string        `json:"note,omitempty"`
	Items      []ItemRequest `json:"items"`
}

// OfferResponse ist ein Angebot in Antworten.
type OfferResponse struct {
	ID         int64           `json:"id"`
	Number     string          `json:"number"`
	CustomerID int64           `json:"customer_id"`
	Status     string          `json:"status"`
	IssueDate  time.Time       `json:"issue_date"`
	ValidUntil time.Time       `json:"valid_until"`
	Note       string          `json:"note,omitempty"`
	Items      []ItemResponse  `json:"items"`
	Net        decimal.Decimal `json:"net"`
	VAT        decimal.Decimal `json:"vat"`
	Gross      decimal.Decimal `json:"gross"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ToOfferResponse baut die Antwort aus dem Angebot.
func ToOfferResponse(o *entity.Offer) *OfferResponse {
	if o == nil {
		return nil
	}
	net, vat, gross := entity.SumItems(o.Items)
	return &OfferResponse{
		ID:         o.ID,
		Number:     o.Number,
		CustomerID: o.CustomerID,
		Status:     o.Status,
		IssueDate:  o.IssueDate,
		ValidUntil: o.ValidUntil,
		Note:       o.Note,
		Items:      toItemResponses(o.Items),
		Net:        net,
		VAT:        vat,
		Gross:      gross,
		CreatedAt:  o.CreatedAt,
	}
}

// CreateInvoiceRequest ist der Body für POST /api/invoices (Direktrechnung).
type CreateInvoiceRequest struct {
	CustomerID int64         `json:"customer_id"`
	Note       string        `json:"note,omitempty"`
	Items      []ItemRequest `json:"items"`
}

// InvoiceResponse ist eine Rechnung in Antworten.
type InvoiceResponse struct {
	ID           int64           `json:"id"`
	Number       string          `json:"number"`
	CustomerID   int64           `json:"customer_id"`
	OfferID      *int64          `json:"offer_id,omitempty"`
	Status       string          `json:"status"`
	IssueDate    time.Time       `json:"issue_date"`
	DueDate      time.Time       `json:"due_date"`
	Note         string          `json:"note,omitempty"`
	Items        []ItemResponse  `json:"items"`
	Net          decimal.Decimal `json:"net"`
	VAT          decimal.Decimal `json:"vat"`
	Gross        decimal.Decimal `json:"gross"`
	DunningLevel int             `json:"dunning_level"`
	DunnedAt     *time.Time      `json:"dunned_at,omitempty"`
	PaidAt       *time.Time      `json:"paid_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ToInvoiceResponse baut die Antwort aus der Rechnung.
func ToInvoiceResponse(inv *entity.Invoice) *InvoiceResponse {
	if inv == nil {
		return nil
	}
	net, vat, gross := inv.Totals()
	return &InvoiceResponse{
		ID:           inv.ID,
		Number:       inv.Number,
		CustomerID:   inv.CustomerID,
		OfferID:      inv.OfferID,
		Status:       inv.Status,
		IssueDate:    inv.IssueDate,
		DueDate:      inv.DueDate,
		Note:         inv.Note,
		Items:        toItemResponses(inv.Items),
		Net:          net,
		VAT:          vat,
		Gross:        gross,
		DunningLevel: inv.DunningLevel,
		DunnedAt:     inv.DunnedAt,
		PaidAt:       inv.PaidAt,
		CreatedAt:    inv.CreatedAt,
	}
}

// DunningLetterResponse ist eine erzeugte Mahnung.
type DunningLetterResponse struct {
	ID        int64           `json:"id"`
	InvoiceID int64           `json:"invoice_id"`
	Level     int             `json:"level"`
	Fee       decimal.Decimal `json:"fee"`
	IssuedAt  time.Time       `json:"issued_at"`
}

// DunningRunResponse ist das Ergebnis eines Mahnlaufs.
type DunningRunResponse struct {
	Issued  int                     `json:"issued"`
	Letters []DunningLetterResponse `json:"letters"`
}
