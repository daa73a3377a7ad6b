package billing

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/fakturahaus/faktura-api/internal/application/inventory"
	"github.com/fakturahaus/faktura-api/internal/domain/repository"
)

// BillingTxRunner führt Beleg-Workflows in einer Transaktion aus. Der
// Callback bekommt transaktionsgebundene Repositories; Nummernvergabe,
// Belegzeilen und Journalbewegungen landen so im selben Commit.
type BillingTxRunner interface {
	RunBilling(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		offerRepo repository.OfferRepository,
		invoiceRepo repository.InvoiceRepository,
		seqRepo repository.NumberSequenceRepository,
	) error) error
}

// StockService ist die Sicht der Beleg-Workflows auf das Lagerjournal.
// Implementiert von inventory.Service; als Interface geschnitten, damit die
// Workflows mit Fakes getestet werden können.
type StockService interface {
	AppendMovementTx(ctx context.Context, movRepo repository.StockMovementRepository, in inventory.MovementInput) (int64, error)
	ConvertReservationsTx(ctx context.Context, movRepo repository.StockMovementRepository, refTable string, refID, warehouseID int64) (int, error)
	ReleaseReservationsTx(ctx context.Context, movRepo repository.StockMovementRepository, refTable string, refID, warehouseID int64) (int, error)
}

var _ StockService = (*inventory.Service)(nil)

// Referenztabellen für Journalbewegungen aus Beleg-Workflows.
const (
	RefOffers   = "offers"
	RefInvoices = "invoices"
)

// Belegarten für den Nummernkreis.
const (
	DocTypeOffer   = "AN"
	DocTypeInvoice = "RE"
)

// ItemInput ist eine Belegposition beim Anlegen. Beschreibung, Preis und
// Steuersatz sind optional und werden sonst aus dem Artikel kopiert.
type ItemInput struct {
	ProductID   int64
	Quantity    decimal.Decimal
	Description string
	UnitPrice   *decimal.Decimal
	VATRate     *decimal.Decimal
}
