package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/fakturahaus/faktura-api/internal/domain/entity"
	"github.com/fakturahaus/faktura-api/internal/domain/repository"
)

var _ repository.WarehouseRepository = (*WarehouseRepo)(nil)

// WarehouseRepo ist die PostgreSQL-Implementierung des Lager-Ports.
type WarehouseRepo struct {
	q Querier
}

// NewWarehouseRepository baut den Adapter.
func NewWarehouseRepository(q Querier) *WarehouseRepo {
	return &WarehouseRepo{q: q}
}

// Create persistiert ein neues Lager.
func (r *WarehouseRepo) Create(ctx context.Context, w *entity.Warehouse) (int64, error) {
	query := `
		INSERT INTO warehouses (name, code, created_at, updated_at)
		VALUES ($1, $2, now(), now())
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(ctx, query, w.Name, w.Code).Scan(&w.ID, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return 0, fmt.Errorf("insert warehouse: %w", err)
	}
	return w.ID, nil
}

// GetByID liefert ein Lager oder nil.
func (r *WarehouseRepo) GetByID(ctx context.Context, id int64) (*entity.Warehouse, error) {
	query := `
		SELECT id, name, code, deleted_at, created_at, updated_at
		FROM warehouses WHERE id = $1`
	var w entity.Warehouse
	err := r.q.QueryRow(ctx, query, id).Scan(
		&w.ID, &w.Name, &w.Code, &w.DeletedAt, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get warehouse: %w", err)
	}
	return &w, nil
}

// Update aktualisiert Name und Kürzel.
func (r *WarehouseRepo) Update(ctx context.Context, w *entity.Warehouse) error {
	query := `
		UPDATE warehouses SET name = $2, code = $3, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL`
	_, err := r.q.Exec(ctx, query, w.ID, w.Name, w.Code)
	if err != nil {
		return fmt.Errorf("update warehouse: %w", err)
	}
	return nil
}

// List liefert alle nicht gelöschten Lager.
func (r *WarehouseRepo) List(ctx context.Context) ([]*entity.Warehouse, error) {
	query := `
		SELECT id, name, code, deleted_at, created_at, updated_at
		FROM warehouses WHERE deleted_at IS NULL ORDER BY id`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list warehouses: %w", err)
	}
	defer rows.Close()
	var list []*entity.Warehouse
	for rows.Next() {
		var w entity.Warehouse
		if err := rows.Scan(&w.ID, &w.Name, &w.Code, &w.DeletedAt, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan warehouse: %w", err)
		}
		list = append(list, &w)
	}
	return list, rows.Err()
}

// SoftDelete markiert ein Lager als gelöscht. Lager werden nie hart entfernt,
// weil das Journal per Fremdschlüssel darauf zeigt.
func (r *WarehouseRepo) SoftDelete(ctx context.Context, id int64) error {
	_, err := r.q.Exec(ctx,
		`UPDATE warehouses SET deleted_at = now(), updated_at = now() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("soft delete warehouse: %w", err)
	}
	return nil
}

// CountActive zählt nicht gelöschte Lager.
func (r *WarehouseRepo) CountActive(ctx context.Context) (int64, error) {
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM warehouses WHERE deleted_at IS NULL`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count warehouses: %w", err)
	}
	return n, nil
}

var _ repository.MinimumStockRepository = (*MinimumStockRepo)(nil)

// MinimumStockRepo verwaltet die Meldebestände (product_min_stock).
type MinimumStockRepo struct {
	q Querier
}

// NewMinimumStockRepository baut den Adapter.
func NewMinimumStockRepository(q Querier) *MinimumStockRepo {
	return &MinimumStockRepo{q: q}
}

// Upsert legt den Meldebestand an oder aktualisiert ihn.
func (r *MinimumStockRepo) Upsert(ctx context.Context, ms *entity.MinimumStock) error {
	query := `
		INSERT INTO product_min_stock (product_id, warehouse_id, min_quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (product_id, warehouse_id)
		DO UPDATE SET min_quantity = EXCLUDED.min_quantity, updated_at = now()`
	if _, err := r.q.Exec(ctx, query, ms.ProductID, ms.WarehouseID, ms.MinQuantity); err != nil {
		return fmt.Errorf("upsert min stock: %w", err)
	}
	return nil
}

// Delete entfernt einen Meldebestand.
func (r *MinimumStockRepo) Delete(ctx context.Context, productID, warehouseID int64) error {
	_, err := r.q.Exec(ctx,
		`DELETE FROM product_min_stock WHERE product_id = $1 AND warehouse_id = $2`,
		productID, warehouseID)
	if err != nil {
		return fmt.Errorf("delete min stock: %w", err)
	}
	return nil
}

// Get liefert den Meldebestand eines Paares oder nil.
func (r *MinimumStockRepo) Get(ctx context.Context, productID, warehouseID int64) (*entity.MinimumStock, error) {
	var ms entity.MinimumStock
	err := r.q.QueryRow(ctx,
		`SELECT product_id, warehouse_id, min_quantity, updated_at
		 FROM product_min_stock WHERE product_id = $1 AND warehouse_id = $2`,
		productID, warehouseID,
	).Scan(&ms.ProductID, &ms.WarehouseID, &ms.MinQuantity, &ms.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get min stock: %w", err)
	}
	return &ms, nil
}

// ListAll liefert alle Meldebestände, optional auf ein Lager gefiltert.
func (r *MinimumStockRepo) ListAll(ctx context.Context, warehouseID int64) ([]*entity.MinimumStock, error) {
	query := `SELECT product_id, warehouse_id, min_quantity, updated_at FROM product_min_stock`
	args := []any{}
	if warehouseID != 0 {
		query += ` WHERE warehouse_id = $1`
		args = append(args, warehouseID)
	}
	query += ` ORDER BY product_id, warehouse_id`
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list min stock: %w", err)
	}
	defer rows.Close()
	var list []*entity.MinimumStock
	for rows.Next() {
		var ms entity.MinimumStock
		if err := rows.Scan(&ms.ProductID, &ms.WarehouseID, &ms.MinQuantity, &ms.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan min stock: %w", err)
		}
		list = append(list, &ms)
	}
	return list, rows.Err()
}
