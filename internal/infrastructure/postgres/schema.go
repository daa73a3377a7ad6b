package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fakturahaus/faktura-api/internal/application/inventory"
)

var _ inventory.SchemaBootstrapper = (*LedgerBootstrapper)(nil)

// LedgerBootstrapper stellt die drei Journal-Relationen und das Hauptlager
// sicher. Er hängt bewusst direkt am Pool und nie an einer Transaktion:
// CREATE TABLE in einer offenen Transaktion würde sie auf manchen Backends
// stillschweigend committen. Idempotent über IF NOT EXISTS.
type LedgerBootstrapper struct {
	pool *pgxpool.Pool
}

// NewLedgerBootstrapper baut den Bootstrapper über dem Pool.
func NewLedgerBootstrapper(pool *pgxpool.Pool) *LedgerBootstrapper {
	return &LedgerBootstrapper{pool: pool}
}

const ledgerSchema = `
CREATE TABLE IF NOT EXISTS warehouses (
	id          BIGSERIAL PRIMARY KEY,
	name        TEXT        NOT NULL,
	code        TEXT        NOT NULL DEFAULT '',
	deleted_at  TIMESTAMPTZ,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS product_min_stock (
	product_id    BIGINT         NOT NULL,
	warehouse_id  BIGINT         NOT NULL REFERENCES warehouses(id),
	min_quantity  NUMERIC(14,3)  NOT NULL,
	updated_at    TIMESTAMPTZ    NOT NULL DEFAULT now(),
	PRIMARY KEY (product_id, warehouse_id)
);

CREATE TABLE IF NOT EXISTS stock_movements (
	id            BIGSERIAL PRIMARY KEY,
	warehouse_id  BIGINT         NOT NULL REFERENCES warehouses(id),
	product_id    BIGINT         NOT NULL,
	type          TEXT           NOT NULL CHECK (type IN ('IN','OUT','RESERVE','ADJUST')),
	quantity      NUMERIC(14,3)  NOT NULL,
	ref_table     TEXT           NOT NULL DEFAULT '',
	ref_id        BIGINT         NOT NULL DEFAULT 0,
	note          TEXT           NOT NULL DEFAULT '',
	created_by    TEXT           NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ    NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_stock_movements_product_warehouse
	ON stock_movements (product_id, warehouse_id);
CREATE INDEX IF NOT EXISTS idx_stock_movements_ref
	ON stock_movements (ref_table, ref_id) WHERE type = 'RESERVE';
`

// EnsureLedgerSchema legt die Relationen an (falls nötig) und sorgt dafür,
// dass mindestens ein Lager existiert. Der Standardlager-Insert ist
// race-tolerant: "einfügen, wenn Anzahl null" plus Duplikatfehler als Erfolg.
func (b *LedgerBootstrapper) EnsureLedgerSchema(ctx context.Context) error {
	if _, err := b.pool.Exec(ctx, ledgerSchema); err != nil {
		return fmt.Errorf("Journal-Schema anlegen: %w", err)
	}

	var count int64
	if err := b.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM warehouses WHERE deleted_at IS NULL`,
	).Scan(&count); err != nil {
		return fmt.Errorf("Lager zählen: %w", err)
	}
	if count > 0 {
		return nil
	}

	_, err := b.pool.Exec(ctx, `
		INSERT INTO warehouses (name, code)
		SELECT 'Hauptlager', 'HL'
		WHERE NOT EXISTS (SELECT 1 FROM warehouses WHERE deleted_at IS NULL)`)
	if err != nil && !isUniqueViolation(err) {
		return fmt.Errorf("Hauptlager anlegen: %w", err)
	}
	return nil
}
