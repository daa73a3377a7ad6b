package inventory

import (
	"context"

	"github.com/fakturahaus/faktura-api/internal/domain/repository"
)

// TxRunner führt eine Funktion innerhalb einer DB-Transaktion aus und reicht
// ein an diese Transaktion gebundenes Journal-Repository hinein. Aufrufer,
// die die Bestandsprüfung und das Anhängen atomar brauchen (siehe Hinweis zur
// Wettlaufsituation in Service.AppendMovement), kapseln beides hierüber.
type TxRunner interface {
	Run(ctx context.Context, fn func(movRepo repository.StockMovementRepository) error) error
}

// SchemaBootstrapper stellt die drei Journal-Relationen und das Hauptlager
// sicher. Läuft ausschließlich gegen den Pool, nie innerhalb einer offenen
// Transaktion (DDL würde sie auf manchen Backends stillschweigend committen).
type SchemaBootstrapper interface {
	EnsureLedgerSchema(ctx context.Context) error
}

// Config sind die Ledger-Einstellungen aus der Konfigurationsquelle.
type Config struct {
	// PreventNegativeStock aktiviert die Prüfung "Menge > frei" für OUT und
	// RESERVE. Standard: aus.
	PreventNegativeStock bool
	// DefaultWarehouseID wird benutzt, wenn der Aufrufer kein Lager angibt.
	// Standard: 1.
	DefaultWarehouseID int64
}
