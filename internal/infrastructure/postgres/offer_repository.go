package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/fakturahaus/faktura-api/internal/domain/entity"
	"github.com/fakturahaus/faktura-api/internal/domain/repository"
)

var _ repository.OfferRepository = (*OfferRepo)(nil)

// OfferRepo ist die PostgreSQL-Implementierung des Angebots-Ports.
// Positionen liegen in document_items mit doc_type = 'offer'.
type OfferRepo struct {
	q Querier
}

// NewOfferRepository baut den Adapter.
func NewOfferRepository(q Querier) *OfferRepo {
	return &OfferRepo{q: q}
}

// Create persistiert Angebot plus Positionen.
func (r *OfferRepo) Create(ctx context.Context, o *entity.Offer) (int64, error) {
	query := `
		INSERT INTO offers (number, customer_id, status, issue_date, valid_until, note, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(ctx, query,
		o.Number, o.CustomerID, o.Status, o.IssueDate, o.ValidUntil, o.Note, o.CreatedBy,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return 0, fmt.Errorf("insert offer: %w", err)
	}
	if err := insertItems(ctx, r.q, "offer", o.ID, o.Items); err != nil {
		return 0, err
	}
	return o.ID, nil
}

// GetByID lädt Angebot und Positionen; nil bei Unbekannt.
func (r *OfferRepo) GetByID(ctx context.Context, id int64) (*entity.Offer, error) {
	var o entity.Offer
	err := r.q.QueryRow(ctx, `
		SELECT id, number, customer_id, status, issue_date, valid_until, note, created_by, created_at, updated_at
		FROM offers WHERE id = $1`, id,
	).Scan(&o.ID, &o.Number, &o.CustomerID, &o.Status, &o.IssueDate, &o.ValidUntil, &o.Note, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get offer: %w", err)
	}
	items, err := loadItems(ctx, r.q, "offer", o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

// UpdateStatus setzt den Angebotsstatus.
func (r *OfferRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	if _, err := r.q.Exec(ctx,
		`UPDATE offers SET status = $2, updated_at = now() WHERE id = $1`, id, status); err != nil {
		return fmt.Errorf("update offer status: %w", err)
	}
	return nil
}

// List liefert Angebote, optional nach Status gefiltert, neueste zuerst
// (ohne Positionen, Listenansicht).
func (r *OfferRepo) List(ctx context.Context, status string, limit, offset int) ([]*entity.Offer, error) {
	query := `
		SELECT id, number, customer_id, status, issue_date, valid_until, note, created_by, created_at, updated_at
		FROM offers`
	args := []any{}
	pos := 1
	if status != "" {
		query += fmt.Sprintf(" WHERE status = $%d", pos)
		args = append(args, status)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY id DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Offer
	for rows.Next() {
		var o entity.Offer
		if err := rows.Scan(&o.ID, &o.Number, &o.CustomerID, &o.Status, &o.IssueDate, &o.ValidUntil, &o.Note, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan offer: %w", err)
		}
		list = append(list, &o)
	}
	return list, rows.Err()
}

// ── gemeinsame Positionslogik für Angebote und Rechnungen ─────────────────────

func insertItems(ctx context.Context, q Querier, docType string, docID int64, items []entity.DocumentItem) error {
	for i := range items {
		it := &items[i]
		err := q.QueryRow(ctx, `
			INSERT INTO document_items (doc_type, document_id, position, product_id, description, quantity, unit_price, vat_rate)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id`,
			docType, docID, it.Position, it.ProductID, it.Description, it.Quantity, it.UnitPrice, it.VATRate,
		).Scan(&it.ID)
		if err != nil {
			return fmt.Errorf("insert document item: %w", err)
		}
		it.DocumentID = docID
	}
	return nil
}

func loadItems(ctx context.Context, q Querier, docType string, docID int64) ([]entity.DocumentItem, error) {
	rows, err := q.Query(ctx, `
		SELECT id, document_id, position, product_id, description, quantity, unit_price, vat_rate
		FROM document_items
		WHERE doc_type = $1 AND document_id = $2
		ORDER BY position`, docType, docID)
	if err != nil {
		return nil, fmt.Errorf("load document items: %w", err)
	}
	defer rows.Close()
	var items []entity.DocumentItem
	for rows.Next() {
		var it entity.DocumentItem
		if err := rows.Scan(&it.ID, &it.DocumentID, &it.Position, &it.ProductID, &it.Description, &it.Quantity, &it.UnitPrice, &it.VATRate); err != nil {
			return nil, fmt.Errorf("scan document item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
