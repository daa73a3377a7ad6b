package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fakturahaus/faktura-api/internal/application/billing"
	"github.com/fakturahaus/faktura-api/internal/application/dto"
	"github.com/fakturahaus/faktura-api/internal/domain"
	"github.com/fakturahaus/faktura-api/internal/domain/repository"
	"github.com/fakturahaus/faktura-api/internal/infrastructure/pdf"
)

// OfferHandler bedient den Angebots-Workflow vom Entwurf bis zur Annahme
// oder Ablehnung.
type OfferHandler struct {
	uc        *billing.OfferUsecase
	customers repository.CustomerRepository
	pdf       *pdf.Generator
}

// NewOfferHandler baut den Handler.
func NewOfferHandler(uc *billing.OfferUsecase, customers repository.CustomerRepository, pdfGen *pdf.Generator) *OfferHandler {
	return &OfferHandler{uc: uc, customers: customers, pdf: pdfGen}
}

func toItemInputs(items []dto.ItemRequest) []billing.ItemInput {
	out := make([]billing.ItemInput, 0, len(items))
	for _, it := range items {
		out = append(out, billing.ItemInput{
			ProductID:   it.ProductID,
			Quantity:    it.Quantity,
			Description: it.Description,
			UnitPrice:   it.UnitPrice,
			VATRate:     it.VATRate,
		})
	}
	return out
}

// Create legt ein Angebot im Status draft an.
func (h *OfferHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOfferRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	offer, err := h.uc.CreateOffer(c.Context(), billing.CreateOfferInput{
		CustomerID: in.CustomerID,
		ValidUntil: in.ValidUntil,
		Note:       in.Note,
		Items:      toItemInputs(in.Items),
		CreatedBy:  GetUserID(c),
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToOfferResponse(offer))
}

// Send stellt das Angebot zu (draft -> open).
func (h *OfferHandler) Send(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badBody(c)
	}
	if err := h.uc.SendOffer(c.Context(), int64(id)); err != nil {
		return writeDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Accept nimmt das Angebot an und reserviert die lagergeführten Positionen.
func (h *OfferHandler) Accept(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badBody(c)
	}
	if err := h.uc.AcceptOffer(c.Context(), int64(id), GetUserID(c)); err != nil {
		return writeDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Reject lehnt das Angebot ab und gibt etwaige Reservierungen frei.
func (h *OfferHandler) Reject(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badBody(c)
	}
	if err := h.uc.RejectOffer(c.Context(), int64(id)); err != nil {
		return writeDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetByID liefert ein Angebot mit Positionen und Summen.
func (h *OfferHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badBody(c)
	}
	offer, err := h.uc.GetOffer(c.Context(), int64(id))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(dto.ToOfferResponse(offer))
}

// List liefert Angebote, optional nach ?status= gefiltert.
func (h *OfferHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.DefaultPage()
	offers, err := h.uc.ListOffers(c.Context(), c.Query("status"), page.Limit, page.Offset)
	if err != nil {
		return writeDomainError(c, err)
	}
	out := make([]*dto.OfferResponse, 0, len(offers))
	for _, o := range offers {
		out = append(out, dto.ToOfferResponse(o))
	}
	return c.JSON(out)
}

// PDF liefert das Angebot als PDF-Download.
func (h *OfferHandler) PDF(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badBody(c)
	}
	offer, err := h.uc.GetOffer(c.Context(), int64(id))
	if err != nil {
		return writeDomainError(c, err)
	}
	customer, err := h.customers.GetByID(c.Context(), offer.CustomerID)
	if err != nil {
		return writeDomainError(c, err)
	}
	if customer == nil {
		return writeDomainError(c, domain.ErrNotFound)
	}
	data, err := h.pdf.GenerateOfferPDF(c.Context(), offer, customer)
	if err != nil {
		return writeDomainError(c, err)
	}
	return sendAttachment(c, "application/pdf", offer.Number+".pdf", data)
}
