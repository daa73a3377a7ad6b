package repository

import (
	"context"

	"github.com/fakturahaus/faktura-api/internal/domain/entity"
)

// WarehouseRepository ist der Persistenz-Port für Lagerorte (DIP).
type WarehouseRepository interface {
	Create(ctx context.Context, w *entity.Warehouse) (int64, error)
	GetByID(ctx context.Context, id int64) (*entity.Warehouse, error)
	Update(ctx context.Context, w *entity.Warehouse) error
	List(ctx context.Context) ([]*entity.Warehouse, error)
	// SoftDelete setzt deleted_at; Lager werden nie hart gelöscht.
	SoftDelete(ctx context.Context, id int64) error
	CountActive(ctx context.Context) (int64, error)
}

// MinimumStockRepository verwaltet Meldebestände je Artikel und Lager.
type MinimumStockRepository interface {
	Upsert(ctx context.Context, ms *entity.MinimumStock) error
	Delete(ctx context.Context, productID, warehouseID int64) error
	Get(ctx context.Context, productID, warehouseID int64) (*entity.MinimumStock, error)
	// ListAll liefert alle Meldebestände eines Lagers (0 = alle Lager).
	ListAll(ctx context.Context, warehouseID int64) ([]*entity.MinimumStock, error)
}
