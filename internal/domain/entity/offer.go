package entity

import "time"

// Angebotsstatus. accepted und rejected sind Endzustände.
const (
	OfferStatusDraft    = "draft"
	OfferStatusOpen     = "open"
	OfferStatusAccepted = "accepted"
	OfferStatusRejected = "rejected"
)

// Offer ist ein Angebot. Bei Annahme reserviert das Lagerjournal die
// Positionsmengen (Referenz "offers"/ID); bei Ablehnung werden sie freigegeben.
type Offer struct {
	ID         int64
	Number     string // z. B. "AN-2026-00017"
	CustomerID int64
	Status     string
	IssueDate  time.Time
	ValidUntil time.Time
	Note       string
	Items      []DocumentItem
	CreatedBy  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CanTransition prüft den Statusübergang des Angebots.
func (o *Offer) CanTransition(to string) bool {
	switch o.Status {
	case OfferStatusDraft:
		return to == OfferStatusOpen || to == OfferStatusRejected
	case OfferStatusOpen:
		return to == OfferStatusAccepted || to == OfferStatusRejected
	}
	return false
}
