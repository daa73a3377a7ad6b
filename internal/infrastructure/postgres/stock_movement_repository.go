package postgres

import (
	"context"
	"fmt"

	"github.com/fakturahaus/faktura-api/internal/domain/entity"
	"github.com/fakturahaus/faktura-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo ist die PostgreSQL-Implementierung des Journal-Ports
// (nutzbar mit Pool oder Transaktion).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository baut den Adapter. Pool oder Tx übergeben.
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create hängt genau eine Journalzeile an; die ID kommt per RETURNING.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) (int64, error) {
	query := `
		INSERT INTO stock_movements (warehouse_id, product_id, type, quantity, ref_table, ref_id, note, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	var id int64
	err := r.q.QueryRow(ctx, query,
		m.WarehouseID, m.ProductID, string(m.Type), m.Quantity,
		m.RefTable, m.RefID, m.Note, m.CreatedBy, m.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert stock movement: %w", err)
	}
	m.ID = id
	return id, nil
}

// GetSnapshot aggregiert das Journal in einem einzigen Durchlauf: bedingte
// Summen statt drei Roundtrips, damit Total und Reserved aus demselben
// Lesezeitpunkt stammen. Volle Konsistenz unter parallelen Schreibern braucht
// zusätzlich eine Snapshot-isolierte oder gesperrte Transaktion des Aufrufers.
func (r *StockMovementRepo) GetSnapshot(ctx context.Context, productID, warehouseID int64) (*entity.StockSnapshot, error) {
	query := `
		SELECT
			COALESCE(SUM(CASE type
				WHEN 'IN'     THEN quantity
				WHEN 'OUT'    THEN -quantity
				WHEN 'ADJUST' THEN quantity
				ELSE 0 END), 0) AS total,
			COALESCE(SUM(CASE WHEN type = 'RESERVE' THEN quantity ELSE 0 END), 0) AS reserved
		FROM stock_movements
		WHERE product_id = $1 AND warehouse_id = $2`
	snap := entity.ZeroSnapshot(productID, warehouseID)
	err := r.q.QueryRow(ctx, query, productID, warehouseID).Scan(&snap.Total, &snap.Reserved)
	if err != nil {
		return nil, fmt.Errorf("aggregate stock movements: %w", err)
	}
	snap.Free = snap.Total.Sub(snap.Reserved)
	return snap, nil
}

// ListReservations liefert ausstehende RESERVE-Zeilen einer Dokumentreferenz
// in Einfügereihenfolge. warehouseID 0 = alle Lager.
func (r *StockMovementRepo) ListReservations(ctx context.Context, refTable string, refID, warehouseID int64) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, warehouse_id, product_id, type, quantity, ref_table, ref_id, note, created_by, created_at
		FROM stock_movements
		WHERE type = 'RESERVE' AND ref_table = $1 AND ref_id = $2`
	args := []any{refTable, refID}
	if warehouseID != 0 {
		query += ` AND warehouse_id = $3`
		args = append(args, warehouseID)
	}
	query += ` ORDER BY id`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	defer rows.Close()
	return scanMovements(rows)
}

// DeleteReservationByID entfernt genau eine RESERVE-Zeile. Andere
// Bewegungsarten sind unantastbar, deshalb die Typ-Bedingung im WHERE.
func (r *StockMovementRepo) DeleteReservationByID(ctx context.Context, id int64) (bool, error) {
	cmd, err := r.q.Exec(ctx,
		`DELETE FROM stock_movements WHERE id = $1 AND type = 'RESERVE'`, id)
	if err != nil {
		return false, fmt.Errorf("delete reservation: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// DeleteReservations entfernt alle RESERVE-Zeilen einer Referenz und liefert
// die Anzahl. Null Treffer sind kein Fehler.
func (r *StockMovementRepo) DeleteReservations(ctx context.Context, refTable string, refID, warehouseID int64) (int64, error) {
	query := `DELETE FROM stock_movements WHERE type = 'RESERVE' AND ref_table = $1 AND ref_id = $2`
	args := []any{refTable, refID}
	if warehouseID != 0 {
		query += ` AND warehouse_id = $3`
		args = append(args, warehouseID)
	}
	cmd, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete reservations: %w", err)
	}
	return cmd.RowsAffected(), nil
}

// ListByProduct liefert die Historie eines Artikels, neueste zuerst.
func (r *StockMovementRepo) ListByProduct(ctx context.Context, productID, warehouseID int64, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, warehouse_id, product_id, type, quantity, ref_table, ref_id, note, created_by, created_at
		FROM stock_movements
		WHERE product_id = $1`
	args := []any{productID}
	pos := 2
	if warehouseID != 0 {
		query += fmt.Sprintf(" AND warehouse_id = $%d", pos)
		args = append(args, warehouseID)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY id DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements by product: %w", err)
	}
	defer rows.Close()
	return scanMovements(rows)
}

// CountAll zählt alle Journalzeilen.
func (r *StockMovementRepo) CountAll(ctx context.Context) (int64, error) {
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM stock_movements`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count movements: %w", err)
	}
	return n, nil
}

type movementRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanMovements(rows movementRows) ([]*entity.StockMovement, error) {
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		var typ string
		if err := rows.Scan(&m.ID, &m.WarehouseID, &m.ProductID, &typ,
			&m.Quantity, &m.RefTable, &m.RefID, &m.Note, &m.CreatedBy, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		m.Type = entity.MovementType(typ)
		list = append(list, &m)
	}
	return list, rows.Err()
}
