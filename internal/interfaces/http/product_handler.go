package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fakturahaus/faktura-api/internal/application/dto"
	"github.com/fakturahaus/faktura-api/internal/application/usecase"
)

// ProductHandler bedient den Artikelkatalog.
type ProductHandler struct {
	uc *usecase.ProductUseCase
}

// NewProductHandler baut den Handler.
func NewProductHandler(uc *usecase.ProductUseCase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// Create legt einen Artikel an.
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	product, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// GetByID liefert einen Artikel.
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badBody(c)
	}
	product, err := h.uc.GetByID(c.Context(), int64(id))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(product)
}

// Update ändert einen Artikel.
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badBody(c)
	}
	var in dto.UpdateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	product, err := h.uc.Update(c.Context(), int64(id), in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(product)
}

// List liefert die paginierte Artikelliste.
func (h *ProductHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	list, err := h.uc.List(c.Context(), page)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(list)
}
