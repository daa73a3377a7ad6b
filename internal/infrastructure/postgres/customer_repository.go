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

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo ist die PostgreSQL-Implementierung des Kunden-Ports.
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository baut den Adapter.
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

const customerColumns = `id, number, name, street, zip, city, country, email, phone, vat_id, created_at, updated_at`

// Create persistiert einen neuen Kunden; doppelte Kundennummer wird als
// domain.ErrDuplicate gemeldet.
func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) (int64, error) {
	query := `
		INSERT INTO customers (number, name, street, zip, city, country, email, phone, vat_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(ctx, query,
		c.Number, c.Name, c.Street, c.ZIP, c.City, c.Country, c.Email, c.Phone, c.VATID,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, domain.ErrDuplicate
		}
		return 0, fmt.Errorf("insert customer: %w", err)
	}
	return c.ID, nil
}

// GetByID liefert einen Kunden oder nil.
func (r *CustomerRepo) GetByID(ctx context.Context, id int64) (*entity.Customer, error) {
	var c entity.Customer
	err := r.q.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE id = $1`, id,
	).Scan(&c.ID, &c.Number, &c.Name, &c.Street, &c.ZIP, &c.City, &c.Country, &c.Email, &c.Phone, &c.VATID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return &c, nil
}

// Update aktualisiert einen Kunden.
func (r *CustomerRepo) Update(ctx context.Context, c *entity.Customer) error {
	query := `
		UPDATE customers
		SET number = $2, name = $3, street = $4, zip = $5, city = $6, country = $7, email = $8, phone = $9, vat_id = $10, updated_at = now()
		WHERE id = $1`
	if _, err := r.q.Exec(ctx, query,
		c.ID, c.Number, c.Name, c.Street, c.ZIP, c.City, c.Country, c.Email, c.Phone, c.VATID,
	); err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	return nil
}

// List liefert Kunden mit Paginierung.
func (r *CustomerRepo) List(ctx context.Context, limit, offset int) ([]*entity.Customer, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+customerColumns+` FROM customers ORDER BY number LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Customer
	for rows.Next() {
		var c entity.Customer
		if err := rows.Scan(&c.ID, &c.Number, &c.Name, &c.Street, &c.ZIP, &c.City, &c.Country, &c.Email, &c.Phone, &c.VATID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
