package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fakturahaus/faktura-api/internal/application/dto"
	"github.com/fakturahaus/faktura-api/internal/application/usecase"
)

// CustomerHandler bedient die Kundenverwaltung.
type CustomerHandler struct {
	uc *usecase.CustomerUseCase
}

// NewCustomerHandler baut den Handler.
func NewCustomerHandler(uc *usecase.CustomerUseCase) *CustomerHandler {
	return &CustomerHandler{uc: uc}
}

// Create legt einen Kunden an.
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCustomerRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	customer, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(customer)
}

// GetByID liefert einen Kunden.
func (h *CustomerHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badBody(c)
	}
	customer, err := h.uc.GetByID(c.Context(), int64(id))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(customer)
}

// Update ändert einen Kunden.
func (h *CustomerHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badBody(c)
	}
	var in dto.UpdateCustomerRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	customer, err := h.uc.Update(c.Context(), int64(id), in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(customer)
}

// List liefert die paginierte Kundenliste.
func (h *CustomerHandler) List(c *fiber.Ctx) error {
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
