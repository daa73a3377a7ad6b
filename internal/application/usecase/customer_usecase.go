package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/fakturahaus/faktura-api/internal/application/dto"
	"github.com/fakturahaus/faktura-api/internal/domain"
	"github.com/fakturahaus/faktura-api/internal/domain/entity"
	"github.com/fakturahaus/faktura-api/internal/domain/repository"
)

// CustomerUseCase trägt die CRUD-Fälle der Kundenverwaltung.
type CustomerUseCase struct {
	repo repository.CustomerRepository
}

// NewCustomerUseCase baut den Usecase.
func NewCustomerUseCase(repo repository.CustomerRepository) *CustomerUseCase {
	return &CustomerUseCase{repo: repo}
}

// Create legt einen Kunden an. Fehlt die Kundennummer, wird sie aus dem
// Zeitstempel vergeben.
func (uc *CustomerUseCase) Create(ctx context.Context, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	number := in.Number
	if number == "" {
		number = fmt.Sprintf("KD-%d", now.UnixMilli())
	}
	country := in.Country
	if country == "" {
		country = "DE"
	}
	customer := &entity.Customer{
		Number:    number,
		Name:      in.Name,
		Street:    in.Street,
		ZIP:       in.ZIP,
		City:      in.City,
		Country:   country,
		Email:     in.Email,
		Phone:     in.Phone,
		VATID:     in.VATID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	id, err := uc.repo.Create(ctx, customer)
	if err != nil {
		return nil, err
	}
	customer.ID = id
	return dto.ToCustomerResponse(customer), nil
}

// GetByID liefert einen Kunden.
func (uc *CustomerUseCase) GetByID(ctx context.Context, id int64) (*dto.CustomerResponse, error) {
	customer, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	return dto.ToCustomerResponse(customer), nil
}

// Update übernimmt die gesetzten Felder. Die Kundennummer ist unveränderlich.
func (uc *CustomerUseCase) Update(ctx context.Context, id int64, in dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	customer, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		customer.Name = *in.Name
	}
	if in.Street != nil {
		customer.Street = *in.Street
	}
	if in.ZIP != nil {
		customer.ZIP = *in.ZIP
	}
	if in.City != nil {
		customer.City = *in.City
	}
	if in.Country != nil {
		customer.Country = *in.Country
	}
	if in.Email != nil {
		customer.Email = *in.Email
	}
	if in.Phone != nil {
		customer.Phone = *in.Phone
	}
	if in.VATID != nil {
		customer.VATID = *in.VATID
	}
	customer.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, customer); err != nil {
		return nil, err
	}
	return dto.ToCustomerResponse(customer), nil
}

// List liefert die paginierte Kundenliste.
func (uc *CustomerUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.CustomerListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *dto.ToCustomerResponse(c))
	}
	return &dto.CustomerListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}
