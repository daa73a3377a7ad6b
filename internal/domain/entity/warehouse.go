package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Warehouse ist ein physischer oder logischer Lagerort. Das Hauptlager wird
// beim Bootstrap angelegt; Lager werden nie hart gelöscht (nur DeletedAt).
type Warehouse struct {
	ID        int64
	Name      string
	Code      string // kurzes Kürzel, z. B. "HL"
	DeletedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MinimumStock ist die optionale Meldebestandsgrenze eines Artikels je Lager.
type MinimumStock struct {
	ProductID   int64
	WarehouseID int64
	MinQuantity decimal.Decimal
	UpdatedAt   time.Time
}
