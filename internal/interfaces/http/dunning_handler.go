package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/fakturahaus/faktura-api/internal/application/usecase"
)

// DunningHandler stößt Mahnläufe an und liefert die Mahnhistorie.
type DunningHandler struct {
	uc *usecase.DunningUseCase
}

// NewDunningHandler baut den Handler.
func NewDunningHandler(uc *usecase.DunningUseCase) *DunningHandler {
	return &DunningHandler{uc: uc}
}

// Run führt einen Mahnlauf zum aktuellen Zeitpunkt aus.
func (h *DunningHandler) Run(c *fiber.Ctx) error {
	result, err := h.uc.Run(c.Context(), time.Now())
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(result)
}

// Letters liefert alle Mahnungen einer Rechnung.
func (h *DunningHandler) Letters(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badBody(c)
	}
	letters, err := h.uc.Letters(c.Context(), int64(id))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(letters)
}
