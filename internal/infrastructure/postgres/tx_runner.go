package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fakturahaus/faktura-api/internal/application/billing"
	"github.com/fakturahaus/faktura-api/internal/application/inventory"
	"github.com/fakturahaus/faktura-api/internal/domain/repository"
)

// Ensure TxRunner implements inventory.TxRunner and billing.BillingTxRunner.
var _ inventory.TxRunner = (*TxRunner)(nil)
var _ billing.BillingTxRunner = (*TxRunner)(nil)

// TxRunner führt Callbacks innerhalb einer PostgreSQL-Transaktion aus und
// reicht transaktionsgebundene Repositories hinein.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner baut den Runner über dem Pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run startet eine Transaktion, ruft fn mit dem tx-gebundenen
// Journal-Repository und macht Commit bzw. Rollback. Innerhalb von fn läuft
// kein Schema-Bootstrap (DDL in offener Transaktion ist tabu).
func (r *TxRunner) Run(ctx context.Context, fn func(movRepo repository.StockMovementRepository) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewStockMovementRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunBilling startet eine Transaktion mit Journal-, Angebots-, Rechnungs- und
// Nummernkreis-Repositories (für Angebot-annehmen und Rechnung-erstellen).
func (r *TxRunner) RunBilling(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	offerRepo repository.OfferRepository,
	invoiceRepo repository.InvoiceRepository,
	seqRepo repository.NumberSequenceRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(
		NewStockMovementRepository(tx),
		NewOfferRepository(tx),
		NewInvoiceRepository(tx),
		NewNumberSequenceRepository(tx),
	); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
