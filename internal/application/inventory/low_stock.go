package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fakturahaus/faktura-api/internal/domain"
	"github.com/fakturahaus/faktura-api/internal/domain/entity"
)

// LowStockItem ist eine Zeile des Meldebestand-Berichts: freie Menge liegt
// unter dem hinterlegten Mindestbestand.
type LowStockItem struct {
	ProductID   int64           `json:"product_id"`
	WarehouseID int64           `json:"warehouse_id"`
	MinQuantity decimal.Decimal `json:"min_quantity"`
	Free        decimal.Decimal `json:"free"`
	Shortfall   decimal.Decimal `json:"shortfall"`
}

// ListBelowMinimum projiziert für jeden hinterlegten Meldebestand die freie
// Menge und liefert die unterschrittenen Paare. warehouseID 0 = alle Lager.
// Bewusst je Paar eine Projektion statt eines Joins: gleiche Lesepfade wie
// GetStock, gleiche Semantik.
func (s *Service) ListBelowMinimum(ctx context.Context, warehouseID int64) ([]LowStockItem, error) {
	s.ensureBootstrap(ctx)
	settings, err := s.minStock.ListAll(ctx, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("Meldebestände lesen: %w", err)
	}
	var items []LowStockItem
	for _, ms := range settings {
		snap, err := s.movements.GetSnapshot(ctx, ms.ProductID, ms.WarehouseID)
		if err != nil {
			return nil, fmt.Errorf("Bestand projizieren (Artikel %d): %w", ms.ProductID, err)
		}
		if snap.Free.LessThan(ms.MinQuantity) {
			items = append(items, LowStockItem{
				ProductID:   ms.ProductID,
				WarehouseID: ms.WarehouseID,
				MinQuantity: ms.MinQuantity,
				Free:        snap.Free,
				Shortfall:   ms.MinQuantity.Sub(snap.Free),
			})
		}
	}
	return items, nil
}

// SetMinimum hinterlegt den Meldebestand eines Artikels in einem Lager.
// warehouseID 0 bedeutet Standardlager.
func (s *Service) SetMinimum(ctx context.Context, productID, warehouseID int64, minQuantity decimal.Decimal) error {
	if productID <= 0 || minQuantity.IsNegative() {
		return domain.ErrInvalidInput
	}
	s.ensureBootstrap(ctx)
	if warehouseID == 0 {
		warehouseID = s.cfg.DefaultWarehouseID
	}
	return s.minStock.Upsert(ctx, &entity.MinimumStock{
		ProductID:   productID,
		WarehouseID: warehouseID,
		MinQuantity: minQuantity,
		UpdatedAt:   time.Now(),
	})
}

// RemoveMinimum entfernt den Meldebestand eines Artikels.
func (s *Service) RemoveMinimum(ctx context.Context, productID, warehouseID int64) error {
	if productID <= 0 {
		return domain.ErrInvalidInput
	}
	s.ensureBootstrap(ctx)
	if warehouseID == 0 {
		warehouseID = s.cfg.DefaultWarehouseID
	}
	return s.minStock.Delete(ctx, productID, warehouseID)
}
