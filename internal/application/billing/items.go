package billing

import (
	"context"
	"fmt"

	"github.com/fakturahaus/faktura-api/internal/domain"
	"github.com/fakturahaus/faktura-api/internal/domain/entity"
	"github.com/fakturahaus/faktura-api/internal/domain/repository"
)

// formatDocNumber baut die Belegnummer, z. B. "RE-2026-00042".
func formatDocNumber(docType string, year int, no int64) string {
	return fmt.Sprintf("%s-%d-%05d", docType, year, no)
}

// resolveItems wandelt die Eingabepositionen in Belegzeilen um. Beschreibung,
// Preis und Steuersatz werden aus dem Artikel kopiert, sofern die Eingabe sie
// nicht überschreibt. Mengen müssen strikt positiv sein.
func resolveItems(ctx context.Context, products repository.ProductRepository, inputs []ItemInput) ([]entity.DocumentItem, error) {
	items := make([]entity.DocumentItem, 0, len(inputs))
	for i, in := range inputs {
		if in.ProductID <= 0 || !in.Quantity.IsPositive() {
			return nil, fmt.Errorf("Position %d: %w", i+1, domain.ErrInvalidInput)
		}
		p, err := products.GetByID(ctx, in.ProductID)
		if err != nil {
			return nil, fmt.Errorf("Artikel %d laden: %w", in.ProductID, err)
		}
		if p == nil {
			return nil, fmt.Errorf("Artikel %d: %w", in.ProductID, domain.ErrNotFound)
		}
		item := entity.DocumentItem{
			Position:    i + 1,
			ProductID:   p.ID,
			Description: p.Name,
			Quantity:    in.Quantity,
			UnitPrice:   p.NetPrice,
			VATRate:     p.VATRate,
		}
		if in.Description != "" {
			item.Description = in.Description
		}
		if in.UnitPrice != nil {
			item.UnitPrice = *in.UnitPrice
		}
		if in.VATRate != nil {
			item.VATRate = *in.VATRate
		}
		items = append(items, item)
	}
	return items, nil
}

// stockManagedItems filtert die Belegzeilen auf lagergeführte Artikel.
// Dienstleistungspositionen erzeugen keine Journalbewegungen.
func stockManagedItems(ctx context.Context, products repository.ProductRepository, items []entity.DocumentItem) ([]entity.DocumentItem, error) {
	managed := make([]entity.DocumentItem, 0, len(items))
	for _, it := range items {
		p, err := products.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, fmt.Errorf("Artikel %d laden: %w", it.ProductID, err)
		}
		if p == nil || p.IsService {
			continue
		}
		managed = append(managed, it)
	}
	return managed, nil
}
