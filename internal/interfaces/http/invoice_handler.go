package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/fakturahaus/faktura-api/internal/application/billing"
	"github.com/fakturahaus/faktura-api/internal/application/dto"
	"github.com/fakturahaus/faktura-api/internal/domain"
	"github.com/fakturahaus/faktura-api/internal/domain/entity"
	"github.com/fakturahaus/faktura-api/internal/domain/repository"
	"github.com/fakturahaus/faktura-api/internal/infrastructure/mail"
	"github.com/fakturahaus/faktura-api/internal/infrastructure/pdf"
	"github.com/fakturahaus/faktura-api/internal/infrastructure/xrechnung"
)

// InvoiceHandler bedient Rechnungen samt PDF, Lieferschein, XRechnung
// und Mailversand.
type InvoiceHandler struct {
	uc        *billing.InvoiceUsecase
	customers repository.CustomerRepository
	pdf       *pdf.Generator
	xml       *xrechnung.Builder
	mailer    *mail.Sender
}

// NewInvoiceHandler baut den Handler. mailer darf nil sein, dann ist der
// Versand-Endpunkt deaktiviert.
func NewInvoiceHandler(
	uc *billing.InvoiceUsecase,
	customers repository.CustomerRepository,
	pdfGen *pdf.Generator,
	xml *xrechnung.Builder,
	mailer *mail.Sender,
) *InvoiceHandler {
	return &InvoiceHandler{uc: uc, customers: customers, pdf: pdfGen, xml: xml, mailer: mailer}
}

// Create legt eine Direktrechnung an und bucht die Abgänge.
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	inv, err := h.uc.CreateDirect(c.Context(), billing.CreateInvoiceInput{
		CustomerID: in.CustomerID,
		Note:       in.Note,
		Items:      toItemInputs(in.Items),
		CreatedBy:  GetUserID(c),
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToInvoiceResponse(inv))
}

// CreateFromOffer erzeugt die Rechnung zu einem angenommenen Angebot und
// wandelt dessen Reservierungen in Abgänge um.
func (h *InvoiceHandler) CreateFromOffer(c *fiber.Ctx) error {
	offerID, err := c.ParamsInt("id")
	if err != nil || offerID <= 0 {
		return badBody(c)
	}
	inv, err := h.uc.CreateFromOffer(c.Context(), int64(offerID), GetUserID(c))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToInvoiceResponse(inv))
}

// Cancel storniert eine offene Rechnung und bucht die Abgänge zurück.
func (h *InvoiceHandler) Cancel(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badBody(c)
	}
	if err := h.uc.Cancel(c.Context(), int64(id), GetUserID(c)); err != nil {
		return writeDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// MarkPaid setzt den Zahlungseingang.
func (h *InvoiceHandler) MarkPaid(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badBody(c)
	}
	if err := h.uc.MarkPaid(c.Context(), int64(id), time.Now()); err != nil {
		return writeDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetByID liefert eine Rechnung mit Positionen und Summen.
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badBody(c)
	}
	inv, err := h.uc.GetInvoice(c.Context(), int64(id))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(dto.ToInvoiceResponse(inv))
}

// List liefert Rechnungen, optional nach ?status= gefiltert.
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.DefaultPage()
	invoices, err := h.uc.ListInvoices(c.Context(), c.Query("status"), page.Limit, page.Offset)
	if err != nil {
		return writeDomainError(c, err)
	}
	out := make([]*dto.InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, dto.ToInvoiceResponse(inv))
	}
	return c.JSON(out)
}

// PDF liefert die Rechnung als PDF-Download.
func (h *InvoiceHandler) PDF(c *fiber.Ctx) error {
	inv, customer, err := h.load(c)
	if err != nil {
		return writeDomainError(c, err)
	}
	data, err := h.pdf.GenerateInvoicePDF(c.Context(), inv, customer)
	if err != nil {
		return writeDomainError(c, err)
	}
	return sendAttachment(c, "application/pdf", inv.Number+".pdf", data)
}

// DeliveryNote liefert den Lieferschein zur Rechnung (gleiche Positionen,
// ohne Preise).
func (h *InvoiceHandler) DeliveryNote(c *fiber.Ctx) error {
	inv, customer, err := h.load(c)
	if err != nil {
		return writeDomainError(c, err)
	}
	data, err := h.pdf.GenerateDeliveryNotePDF(c.Context(), inv, customer)
	if err != nil {
		return writeDomainError(c, err)
	}
	return sendAttachment(c, "application/pdf", "LS-"+inv.Number+".pdf", data)
}

// XRechnung liefert die Rechnung als XRechnung-UBL-XML.
func (h *InvoiceHandler) XRechnung(c *fiber.Ctx) error {
	inv, customer, err := h.load(c)
	if err != nil {
		return writeDomainError(c, err)
	}
	data, err := h.xml.Build(inv, customer, c.Query("buyer_reference"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return sendAttachment(c, "application/xml", inv.Number+".xml", data)
}

// SendMail verschickt die Rechnung als PDF-Anhang an die Kunden-Adresse.
func (h *InvoiceHandler) SendMail(c *fiber.Ctx) error {
	if h.mailer == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
			Code:    "MAIL_DISABLED",
			Message: "Mailversand ist nicht konfiguriert",
		})
	}
	inv, customer, err := h.load(c)
	if err != nil {
		return writeDomainError(c, err)
	}
	data, err := h.pdf.GenerateInvoicePDF(c.Context(), inv, customer)
	if err != nil {
		return writeDomainError(c, err)
	}
	if err := h.mailer.SendInvoice(inv, customer, data); err != nil {
		return writeDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *InvoiceHandler) load(c *fiber.Ctx) (*entity.Invoice, *entity.Customer, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return nil, nil, domain.ErrInvalidInput
	}
	inv, err := h.uc.GetInvoice(c.Context(), int64(id))
	if err != nil {
		return nil, nil, err
	}
	customer, err := h.customers.GetByID(c.Context(), inv.CustomerID)
	if err != nil {
		return nil, nil, err
	}
	if customer == nil {
		return nil, nil, domain.ErrNotFound
	}
	return inv, customer, nil
}

func sendAttachment(c *fiber.Ctx, contentType, filename string, data []byte) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(data)
}
