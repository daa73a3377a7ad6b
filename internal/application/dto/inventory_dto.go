package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fakturahaus/faktura-api/internal/domain/entity"
)

// RegisterMovementRequest ist der Body für POST /api/inventory/movements.
// WarehouseID 0 bedeutet Standardlager.
type RegisterMovementRequest struct {
	ProductID   int64           `json:"product_id"`
	WarehouseID int64           `json:"warehouse_id,omitempty"`
	Type        string          `json:"type"` // IN, OUT, RESERVE, ADJUST
	Quantity    decimal.Decimal `json:"quantity"`
	RefTable    string          `json:"ref_table,omitempty"`
	RefID       int64           `json:"ref_id,omitempty"`
	Note        string          `json:"note,omitempty"`
}

// MovementResponse ist eine Journalzeile in Antworten.
type MovementResponse struct {
	ID          int64           `json:"id"`
	ProductID   int64           `json:"product_id"`
	WarehouseID int64           `json:"warehouse_id"`
	Type        string          `json:"type"`
	Quantity    decimal.Decimal `json:"quantity"`
	RefTable    string          `json:"ref_table,omitempty"`
	RefID       int64           `json:"ref_id,omitempty"`
	Note        string          `json:"note,omitempty"`
	CreatedBy   string          `json:"created_by,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ToMovementResponse baut die Antwort aus der Journalzeile.
func ToMovementResponse(m *entity.StockMovement) MovementResponse {
	return MovementResponse{
		ID:          m.ID,
		ProductID:   m.ProductID,
		WarehouseID: m.WarehouseID,
		Type:        string(m.Type),
		Quantity:    m.Quantity,
		RefTable:    m.RefTable,
		RefID:       m.RefID,
		Note:        m.Note,
		CreatedBy:   m.CreatedBy,
		CreatedAt:   m.CreatedAt,
	}
}

// StockResponse ist der abgeleitete Bestand eines Artikels in einem Lager.
type StockResponse struct {
	ProductID   int64           `json:"product_id"`
	WarehouseID int64           `json:"warehouse_id"`
	Total       decimal.Decimal `json:"total"`
	Reserved    decimal.Decimal `json:"reserved"`
	Free        decimal.Decimal `json:"free"`
}

// ToStockResponse baut die Antwort aus dem Bestands-Snapshot.
func ToStockResponse(s *entity.StockSnapshot) StockResponse {
	return StockResponse{
		ProductID:   s.ProductID,
		WarehouseID: s.WarehouseID,
		Total:       s.Total,
		Reserved:    s.Reserved,
		Free:        s.Free,
	}
}

// ReleaseReservationsRequest gibt alle Reservierungen einer Dokumentreferenz
// frei. WarehouseID 0 bedeutet alle Lager.
type ReleaseReservationsRequest struct {
	RefTable    string `json:"ref_table"`
	RefID       int64  `json:"ref_id"`
	WarehouseID int64  `json:"warehouse_id,omitempty"`
}

// MinimumStockRequest ist der Body für PUT /api/inventory/min-stock.
type MinimumStockRequest struct {
	ProductID   int64           `json:"product_id"`
	WarehouseID int64           `json:"warehouse_id,omitempty"`
	MinQuantity decimal.Decimal `json:"min_quantity"`
}

// LowStockItemResponse ist ein Artikel unter Meldebestand.
type LowStockItemResponse struct {
	ProductID   int64           `json:"product_id"`
	WarehouseID int64           `json:"warehouse_id"`
	MinQuantity decimal.Decimal `json:"min_quantity"`
	Free        decimal.Decimal `json:"free"`
	Shortfall   decimal.Decimal `json:"shortfall"`
}
