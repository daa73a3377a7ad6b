package repository

import (
	"context"

	"github.com/fakturahaus/faktura-api/internal/domain/entity"
)

// ProductRepository ist der Persistenz-Port für den Artikelkatalog.
type ProductRepository interface {
	Create(ctx context.Context, p *entity.Product) (int64, error)
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	Update(ctx context.Context, p *entity.Product) error
	List(ctx context.Context, limit, offset int) ([]*entity.Product, error)
}

// CustomerRepository ist der Persistenz-Port für Kunden.
type CustomerRepository interface {
	Create(ctx context.Context, c *entity.Customer) (int64, error)
	GetByID(ctx context.Context, id int64) (*entity.Customer, error)
	Update(ctx context.Context, c *entity.Customer) error
	List(ctx context.Context, limit, offset int) ([]*entity.Customer, error)
}
