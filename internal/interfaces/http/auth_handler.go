package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fakturahaus/faktura-api/internal/application/auth"
	"github.com/fakturahaus/faktura-api/internal/application/dto"
)

// AuthHandler bedient Registrierung und Login.
type AuthHandler struct {
	uc *auth.AuthUseCase
}

// NewAuthHandler baut den Handler.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Register legt einen Benutzer an.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	user, err := h.uc.RegisterUser(c.Context(), in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login prüft die Zugangsdaten und liefert Token plus Benutzer.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	resp, err := h.uc.Login(c.Context(), in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(resp)
}
