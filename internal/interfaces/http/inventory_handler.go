package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fakturahaus/faktura-api/internal/application/dto"
	"github.com/fakturahaus/faktura-api/internal/application/inventory"
	"github.com/fakturahaus/faktura-api/internal/domain/entity"
)

// InventoryHandler bedient das Lagerjournal: Bewegungen, Bestand,
// Reservierungen und Meldebestände.
type InventoryHandler struct {
	svc *inventory.Service
}

// NewInventoryHandler baut den Handler.
func NewInventoryHandler(svc *inventory.Service) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

// RegisterMovement hängt eine Journalzeile an (IN, OUT, RESERVE, ADJUST).
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	id, err := h.svc.AppendMovement(c.Context(), inventory.MovementInput{
		ProductID:   in.ProductID,
		Quantity:    in.Quantity,
		Type:        entity.MovementType(in.Type),
		WarehouseID: in.WarehouseID,
		RefTable:    in.RefTable,
		RefID:       in.RefID,
		Note:        in.Note,
		CreatedBy:   GetUserID(c),
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

// GetStock projiziert {total, reserved, free} für ?product_id=&warehouse_id=.
func (h *InventoryHandler) GetStock(c *fiber.Ctx) error {
	productID := int64(c.QueryInt("product_id"))
	warehouseID := int64(c.QueryInt("warehouse_id"))
	snap, err := h.svc.GetStock(c.Context(), productID, warehouseID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(dto.ToStockResponse(snap))
}

// History liefert die Journalhistorie eines Artikels, neueste zuerst.
func (h *InventoryHandler) History(c *fiber.Ctx) error {
	productID := int64(c.QueryInt("product_id"))
	warehouseID := int64(c.QueryInt("warehouse_id"))
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.DefaultPage()
	movements, err := h.svc.History(c.Context(), productID, warehouseID, page.Limit, page.Offset)
	if err != nil {
		return writeDomainError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.ToMovementResponse(m))
	}
	return c.JSON(out)
}

// ReleaseReservations gibt alle Reservierungen einer Dokumentreferenz frei.
func (h *InventoryHandler) ReleaseReservations(c *fiber.Ctx) error {
	var in dto.ReleaseReservationsRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.RefTable == "" || in.RefID <= 0 {
		return badBody(c)
	}
	n, err := h.svc.ReleaseReservations(c.Context(), in.RefTable, in.RefID, in.WarehouseID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(dto.CountResponse{Count: n})
}

// LowStock liefert alle Artikel unter Meldebestand (?warehouse_id= optional).
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	warehouseID := int64(c.QueryInt("warehouse_id"))
	items, err := h.svc.ListBelowMinimum(c.Context(), warehouseID)
	if err != nil {
		return writeDomainError(c, err)
	}
	out := make([]dto.LowStockItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.LowStockItemResponse{
			ProductID:   it.ProductID,
			WarehouseID: it.WarehouseID,
			MinQuantity: it.MinQuantity,
			Free:        it.Free,
			Shortfall:   it.Shortfall,
		})
	}
	return c.JSON(out)
}

// SetMinimumStock hinterlegt den Meldebestand eines Artikels.
func (h *InventoryHandler) SetMinimumStock(c *fiber.Ctx) error {
	var in dto.MinimumStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.svc.SetMinimum(c.Context(), in.ProductID, in.WarehouseID, in.MinQuantity); err != nil {
		return writeDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RemoveMinimumStock entfernt den Meldebestand (?product_id=&warehouse_id=).
func (h *InventoryHandler) RemoveMinimumStock(c *fiber.Ctx) error {
	productID := int64(c.QueryInt("product_id"))
	warehouseID := int64(c.QueryInt("warehouse_id"))
	if err := h.svc.RemoveMinimum(c.Context(), productID, warehouseID); err != nil {
		return writeDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
