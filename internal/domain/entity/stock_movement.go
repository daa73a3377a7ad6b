package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockMovement ist ein unveränderlicher, append-only Journaleintrag:
// "Menge Q von Artikel P bewegte sich in Lager W mit Art T zum Zeitpunkt S".
// Einmal geschrieben wird eine Zeile nie geändert; gelöscht werden
// ausschließlich RESERVE-Zeilen durch Umwandlung oder Freigabe.
type StockMovement struct {
	ID          int64
	WarehouseID int64
	ProductID   int64
	Type        MovementType
	// Quantity ist für IN/OUT/RESERVE strikt positiv (das Vorzeichen steckt
	// im Typ); nur ADJUST trägt ein explizites Vorzeichen.
	Quantity  decimal.Decimal
	RefTable  string // Quelldokument-Tabelle, z. B. "offers" oder "invoices"
	RefID     int64
	Note      string
	CreatedBy string // User-UUID, leer bei Systembewegungen
	CreatedAt time.Time
}

// SignedQuantity liefert den Beitrag der Zeile zum Gesamtbestand.
// RESERVE verändert den Gesamtbestand nicht.
func (m *StockMovement) SignedQuantity() decimal.Decimal {
	switch m.Type {
	case MovementIN:
		return m.Quantity
	case MovementOUT:
		return m.Quantity.Neg()
	case MovementADJUST:
		return m.Quantity
	}
	return decimal.Zero
}
