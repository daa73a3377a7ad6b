package entity

import "github.com/shopspring/decimal"

// StockSnapshot ist der abgeleitete Bestand eines (Artikel, Lager)-Paares.
// Er wird bei jedem Lesen aus dem vollständigen Journal berechnet und nie
// persistiert: reine Funktion des Journals, kein eigener Lebenszyklus.
type StockSnapshot struct {
	ProductID   int64
	WarehouseID int64
	Total       decimal.Decimal // Σ IN + Σ ADJUST − Σ OUT
	Reserved    decimal.Decimal // Σ ausstehende RESERVE
	Free        decimal.Decimal // Total − Reserved
}

// ZeroSnapshot liefert den leeren Bestand für ein Paar ohne Historie.
func ZeroSnapshot(productID, warehouseID int64) *StockSnapshot {
	return &StockSnapshot{
		ProductID:   productID,
		WarehouseID: warehouseID,
		Total:       decimal.Zero,
		Reserved:    decimal.Zero,
		Free:        decimal.Zero,
	}
}
