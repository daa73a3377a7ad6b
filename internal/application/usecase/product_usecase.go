package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fakturahaus/faktura-api/internal/application/dto"
	"github.com/fakturahaus/faktura-api/internal/domain"
	"github.com/fakturahaus/faktura-api/internal/domain/entity"
	"github.com/fakturahaus/faktura-api/internal/domain/repository"
)

// ProductUseCase trägt die CRUD-Fälle des Artikelkatalogs. Bestände laufen
// ausschließlich über das Lagerjournal, nicht über den Katalog.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase baut den Usecase.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// validVATRate erlaubt die deutschen Umsatzsteuersätze 0, 7 und 19 Prozent.
func validVATRate(rate decimal.Decimal) bool {
	return rate.IsZero() ||
		rate.Equal(decimal.NewFromInt(7)) ||
		rate.Equal(decimal.NewFromInt(19))
}

// Create legt einen Artikel an. SKU muss eindeutig sein.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.SKU == "" || in.Name == "" || in.NetPrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if !validVATRate(in.VATRate) {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetBySKU(ctx, in.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	unit := in.Unit
	if unit == "" {
		unit = "Stk"
	}
	now := time.Now()
	product := &entity.Product{
		SKU:         in.SKU,
		Name:        in.Name,
		Description: in.Description,
		Unit:        unit,
		NetPrice:    in.NetPrice,
		VATRate:     in.VATRate,
		IsService:   in.IsService,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	id, err := uc.repo.Create(ctx, product)
	if err != nil {
		return nil, err
	}
	product.ID = id
	return dto.ToProductResponse(product), nil
}

// GetByID liefert einen Artikel.
func (uc *ProductUseCase) GetByID(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return dto.ToProductResponse(product), nil
}

// Update übernimmt die gesetzten Felder. SKU und IsService sind nach dem
// Anlegen unveränderlich.
func (uc *ProductUseCase) Update(ctx context.Context, id int64, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Unit != nil {
		product.Unit = *in.Unit
	}
	if in.NetPrice != nil {
		if in.NetPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.NetPrice = *in.NetPrice
	}
	if in.VATRate != nil {
		if !validVATRate(*in.VATRate) {
			return nil, domain.ErrInvalidInput
		}
		product.VATRate = *in.VATRate
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return dto.ToProductResponse(product), nil
}

// List liefert die paginierte Artikelliste.
func (uc *ProductUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *dto.ToProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}
