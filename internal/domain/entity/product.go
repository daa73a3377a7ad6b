package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product ist ein Artikel im Katalog. NetPrice ist der Nettopreis je Einheit,
// VATRate der Umsatzsteuersatz in Prozent (19, 7 oder 0).
type Product struct {
	ID          int64
	SKU         string
	Name        string
	Description string
	Unit        string // "Stk", "kg", "h", ...
	NetPrice    decimal.Decimal
	VATRate     decimal.Decimal
	// IsService markiert Dienstleistungsartikel ohne Lagerführung;
	// für sie werden keine Journalbewegungen erzeugt.
	IsService bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
