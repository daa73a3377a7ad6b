package dto

import (
	"time"

	"github.com/fakturahaus/faktura-api/internal/domain/entity"
)

// CreateCustomerRequest ist der Body für POST /api/customers. Number ist
// optional; fehlt sie, wird sie vergeben.
type CreateCustomerRequest struct {
	Number  string `json:"number,omitempty"`
	Name    string `json:"name"`
	Street  string `json:"street,omitempty"`
	ZIP     string `json:"zip,omitempty"`
	City    string `json:"city,omitempty"`
	Country string `json:"country,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	VATID   string `json:"vat_id,omitempty"`
}

// UpdateCustomerRequest ist der Body für PUT /api/customers/:id.
type UpdateCustomerRequest struct {
	Name    *string `json:"name,omitempty"`
	Street  *string `json:"street,omitempty"`
	ZIP     *string `json:"zip,omitempty"`
	City    *string `json:"city,omitempty"`
	Country *string `json:"country,omitempty"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	VATID   *string `json:"vat_id,omitempty"`
}

// CustomerResponse ist ein Kunde in Antworten.
type CustomerResponse struct {
	ID        int64     `json:"id"`
	Number    string    `json:"number"`
	Name      string    `json:"name"`
	Street    string    `json:"street,omitempty"`
	ZIP       string    `json:"zip,omitempty"`
	City      string    `json:"city,omitempty"`
	Country   string    `json:"country"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	VATID     string    `json:"vat_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CustomerListResponse ist die paginierte Kundenliste.
type CustomerListResponse struct {
	Items []CustomerResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// ToCustomerResponse baut die Antwort aus dem Kunden.
func ToCustomerResponse(c *entity.Customer) *CustomerResponse {
	if c == nil {
		return nil
	}
	return &CustomerResponse{
		ID:        c.ID,
		Number:    c.Number,
		Name:      c.Name,
		Street:    c.Street,
		ZIP:       c.ZIP,
		City:      c.City,
		Country:   c.Country,
		Email:     c.Email,
		Phone:     c.Phone,
		VATID:     c.VATID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
