package repository

import (
	"context"

	"github.com/fakturahaus/faktura-api/internal/domain/entity"
)

// StockMovementRepository ist der Persistenz-Port für das Lagerjournal.
// Einziger Schreibpfad in die Tabelle stock_movements; niemand sonst fügt
// dort Zeilen ein, ändert oder löscht sie.
type StockMovementRepository interface {
	// Create hängt genau eine Zeile an und liefert deren ID.
	Create(ctx context.Context, m *entity.StockMovement) (int64, error)

	// GetSnapshot aggregiert das Journal für ein (Artikel, Lager)-Paar in
	// einem einzigen Durchlauf (bedingte Summen, keine drei Roundtrips).
	// Paare ohne Historie liefern den Null-Snapshot, keinen Fehler.
	GetSnapshot(ctx context.Context, productID, warehouseID int64) (*entity.StockSnapshot, error)

	// ListReservations liefert alle ausstehenden RESERVE-Zeilen zu einer
	// Dokumentreferenz. warehouseID 0 bedeutet alle Lager.
	ListReservations(ctx context.Context, refTable string, refID, warehouseID int64) ([]*entity.StockMovement, error)

	// DeleteReservationByID entfernt genau eine RESERVE-Zeile (Umwandlung).
	// Andere Bewegungsarten werden nie gelöscht.
	DeleteReservationByID(ctx context.Context, id int64) (bool, error)

	// DeleteReservations entfernt alle RESERVE-Zeilen einer Referenz
	// (Freigabe) und liefert die Anzahl. 0 ist Erfolg, kein Fehler.
	DeleteReservations(ctx context.Context, refTable string, refID, warehouseID int64) (int64, error)

	// ListByProduct liefert die Journalhistorie eines Artikels, neueste zuerst.
	ListByProduct(ctx context.Context, productID, warehouseID int64, limit, offset int) ([]*entity.StockMovement, error)

	// CountAll liefert die Gesamtzahl der Journalzeilen (für Prüfungen und Tests).
	CountAll(ctx context.Context) (int64, error)
}
