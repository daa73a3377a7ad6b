package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/fakturahaus/faktura-api/internal/domain/entity"
	"github.com/fakturahaus/faktura-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo ist die PostgreSQL-Implementierung des Rechnungs-Ports.
// Positionen liegen in document_items mit doc_type = 'invoice'.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository baut den Adapter.
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, number, customer_id, offer_id, status, issue_date, due_date, note, dunning_level, dunned_at, paid_at, created_by, created_at, updated_at`

// Create persistiert Rechnung plus Positionen.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) (int64, error) {
	query := `
		INSERT INTO invoices (number, customer_id, offer_id, status, issue_date, due_date, note, dunning_level, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(ctx, query,
		inv.Number, inv.CustomerID, inv.OfferID, inv.Status, inv.IssueDate, inv.DueDate, inv.Note, inv.DunningLevel, inv.CreatedBy,
	).Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return 0, fmt.Errorf("insert invoice: %w", err)
	}
	if err := insertItems(ctx, r.q, "invoice", inv.ID, inv.Items); err != nil {
		return 0, err
	}
	return inv.ID, nil
}

// GetByID lädt Rechnung und Positionen; nil bei Unbekannt.
func (r *InvoiceRepo) GetByID(ctx context.Context, id int64) (*entity.Invoice, error) {
	var inv entity.Invoice
	err := r.q.QueryRow(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id,
	).Scan(&inv.ID, &inv.Number, &inv.CustomerID, &inv.OfferID, &inv.Status, &inv.IssueDate, &inv.DueDate, &inv.Note,
		&inv.DunningLevel, &inv.DunnedAt, &inv.PaidAt, &inv.CreatedBy, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	items, err := loadItems(ctx, r.q, "invoice", inv.ID)
	if err != nil {
		return nil, err
	}
	inv.Items = items
	return &inv, nil
}

// UpdateStatus setzt den Rechnungsstatus; paid stempelt zusätzlich paid_at.
func (r *InvoiceRepo) UpdateStatus(ctx context.Context, id int64, status string, at time.Time) error {
	query := `UPDATE invoices SET status = $2, updated_at = now() WHERE id = $1`
	args := []any{id, status}
	if status == entity.InvoiceStatusPaid {
		query = `UPDATE invoices SET status = $2, paid_at = $3, updated_at = now() WHERE id = $1`
		args = append(args, at)
	}
	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}
	return nil
}

// List liefert Rechnungen, optional nach Status gefiltert, neueste zuerst
// (ohne Positionen, Listenansicht).
func (r *InvoiceRepo) List(ctx context.Context, status string, limit, offset int) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices`
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
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	return scanInvoices(rows)
}

// ListOverdue liefert offene Rechnungen, deren Fälligkeit plus Karenztage am
// Stichtag überschritten ist und deren Mahnstufe unter maxLevel liegt
// (Positionen inklusive, die Mahnung braucht die Beträge).
func (r *InvoiceRepo) ListOverdue(ctx context.Context, at time.Time, graceDays, maxLevel int) ([]*entity.Invoice, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+invoiceColumns+`
		FROM invoices
		WHERE status = 'open'
		  AND due_date + make_interval(days => $2) < $1
		  AND dunning_level < $3
		ORDER BY due_date`, at, graceDays, maxLevel)
	if err != nil {
		return nil, fmt.Errorf("list overdue invoices: %w", err)
	}
	defer rows.Close()
	list, err := scanInvoices(rows)
	if err != nil {
		return nil, err
	}
	for _, inv := range list {
		items, err := loadItems(ctx, r.q, "invoice", inv.ID)
		if err != nil {
			return nil, err
		}
		inv.Items = items
	}
	return list, nil
}

// SetDunning erhöht die Mahnstufe.
func (r *InvoiceRepo) SetDunning(ctx context.Context, invoiceID int64, level int, at time.Time) error {
	if _, err := r.q.Exec(ctx,
		`UPDATE invoices SET dunning_level = $2, dunned_at = $3, updated_at = now() WHERE id = $1`,
		invoiceID, level, at); err != nil {
		return fmt.Errorf("set dunning level: %w", err)
	}
	return nil
}

// CreateDunningLetter persistiert eine erzeugte Mahnung.
func (r *InvoiceRepo) CreateDunningLetter(ctx context.Context, d *entity.DunningLetter) (int64, error) {
	err := r.q.QueryRow(ctx, `
		INSERT INTO dunning_letters (invoice_id, level, fee, issued_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`, d.InvoiceID, d.Level, d.Fee, d.IssuedAt,
	).Scan(&d.ID)
	if err != nil {
		return 0, fmt.Errorf("insert dunning letter: %w", err)
	}
	return d.ID, nil
}

// ListDunningLetters liefert die Mahnungen einer Rechnung.
func (r *InvoiceRepo) ListDunningLetters(ctx context.Context, invoiceID int64) ([]*entity.DunningLetter, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, invoice_id, level, fee, issued_at
		FROM dunning_letters WHERE invoice_id = $1 ORDER BY level`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list dunning letters: %w", err)
	}
	defer rows.Close()
	var list []*entity.DunningLetter
	for rows.Next() {
		var d entity.DunningLetter
		if err := rows.Scan(&d.ID, &d.InvoiceID, &d.Level, &d.Fee, &d.IssuedAt); err != nil {
			return nil, fmt.Errorf("scan dunning letter: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}

func scanInvoices(rows pgx.Rows) ([]*entity.Invoice, error) {
	var list []*entity.Invoice
	for rows.Next() {
		var inv entity.Invoice
		if err := rows.Scan(&inv.ID, &inv.Number, &inv.CustomerID, &inv.OfferID, &inv.Status, &inv.IssueDate, &inv.DueDate, &inv.Note,
			&inv.DunningLevel, &inv.DunnedAt, &inv.PaidAt, &inv.CreatedBy, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, &inv)
	}
	return list, rows.Err()
}

var _ repository.NumberSequenceRepository = (*NumberSequenceRepo)(nil)

// NumberSequenceRepo vergibt fortlaufende Belegnummern je Belegart und Jahr
// über eine Zählertabelle mit Upsert; der UPDATE sperrt die Zeile, die Nummer
// ist damit innerhalb einer Transaktion lückenfrei eindeutig.
type NumberSequenceRepo struct {
	q Querier
}

// NewNumberSequenceRepository baut den Adapter.
func NewNumberSequenceRepository(q Querier) *NumberSequenceRepo {
	return &NumberSequenceRepo{q: q}
}

// Next liefert die nächste laufende Nummer für (Belegart, Jahr).
func (r *NumberSequenceRepo) Next(ctx context.Context, docType string, year int) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `
		INSERT INTO document_numbers (doc_type, year, last_no)
		VALUES ($1, $2, 1)
		ON CONFLICT (doc_type, year)
		DO UPDATE SET last_no = document_numbers.last_no + 1
		RETURNING last_no`, docType, year,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("next document number: %w", err)
	}
	return n, nil
}
