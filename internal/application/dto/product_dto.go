package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fakturahaus/faktura-api/internal/domain/entity"
)

// CreateProductRequest ist der Body für POST /api/products.
type CreateProductRequest struct {
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Unit        string          `json:"unit,omitempty"`
	NetPrice    decimal.Decimal `json:"net_price"`
	VATRate     decimal.Decimal `json:"vat_rate"`
	IsService   bool            `json:"is_service,omitempty"`
}

// UpdateProductRequest ist der Body für PUT /api/products/:id. Nur gesetzte
// Felder werden übernommen.
type UpdateProductRequest struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Unit        *string          `json:"unit,omitempty"`
	NetPrice    *decimal.Decimal `json:"net_price,omitempty"`
	VATRate     *decimal.Decimal `json:"vat_rate,omitempty"`
}

// ProductResponse ist ein Artikel in Antworten.
type ProductResponse struct {
	ID          int64           `json:"id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Unit        string          `json:"unit"`
	NetPrice    decimal.Decimal `json:"net_price"`
	VATRate     decimal.Decimal `json:"vat_rate"`
	IsService   bool            `json:"is_service"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductListResponse ist die paginierte Artikelliste.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ToProductResponse baut die Antwort aus dem Artikel.
func ToProductResponse(p *entity.Product) *ProductResponse {
	if p == nil {
		return nil
	}
	return &ProductResponse{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		Unit:        p.Unit,
		NetPrice:    p.NetPrice,
		VATRate:     p.VATRate,
		IsService:   p.IsService,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
