package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/fakturahaus/faktura-api/internal/domain"
	"github.com/fakturahaus/faktura-api/internal/domain/entity"
	"github.com/fakturahaus/faktura-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo ist die PostgreSQL-Implementierung des Artikel-Ports.
type ProductRepo struct {
	q Querier
}

// NewProductRepository baut den Adapter.
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, sku, name, description, unit, net_price, vat_rate, is_service, created_at, updated_at`

// Create persistiert einen neuen Artikel; doppelte SKU wird als
// domain.ErrDuplicate gemeldet.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) (int64, error) {
	query := `
		INSERT INTO products (sku, name, description, unit, net_price, vat_rate, is_service, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(ctx, query,
		p.SKU, p.Name, p.Description, p.Unit, p.NetPrice, p.VATRate, p.IsService,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, domain.ErrDuplicate
		}
		return 0, fmt.Errorf("insert product: %w", err)
	}
	return p.ID, nil
}

// GetByID liefert einen Artikel oder nil.
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	var p entity.Product
	err := r.q.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id,
	).Scan(&p.ID, &p.SKU, &p.Name, &p.Description, &p.Unit, &p.NetPrice, &p.VATRate, &p.IsService, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// GetBySKU liefert einen Artikel über die SKU oder nil.
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	var p entity.Product
	err := r.q.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE sku = $1`, sku,
	).Scan(&p.ID, &p.SKU, &p.Name, &p.Description, &p.Unit, &p.NetPrice, &p.VATRate, &p.IsService, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by sku: %w", err)
	}
	return &p, nil
}

// Update aktualisiert einen Artikel.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products
		SET sku = $2, name = $3, description = $4, unit = $5, net_price = $6, vat_rate = $7, is_service = $8, updated_at = now()
		WHERE id = $1`
	if _, err := r.q.Exec(ctx, query,
		p.ID, p.SKU, p.Name, p.Description, p.Unit, p.NetPrice, p.VATRate, p.IsService,
	); err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// List liefert Artikel mit Paginierung.
func (r *ProductRepo) List(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY sku LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.SKU, &p.Name, &p.Description, &p.Unit, &p.NetPrice, &p.VATRate, &p.IsService, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
