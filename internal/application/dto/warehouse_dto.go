package dto

import (
	"time"

	"github.com/fakturahaus/faktura-api/internal/domain/entity"
)

// CreateWarehouseRequest ist der Body für POST /api/warehouses.
type CreateWarehouseRequest struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// UpdateWarehouseRequest ist der Body für PUT /api/warehouses/:id.
type UpdateWarehouseRequest struct {
	Name *string `json:"name,omitempty"`
	Code *string `json:"code,omitempty"`
}

// WarehouseResponse ist ein Lager in Antworten.
type WarehouseResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToWarehouseResponse baut die Antwort aus dem Lager.
func ToWarehouseResponse(w *entity.Warehouse) *WarehouseResponse {
	if w == nil {
		return nil
	}
	return &WarehouseResponse{
		ID:        w.ID,
		Name:      w.Name,
		Code:      w.Code,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}
