package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/fakturahaus/faktura-api/internal/application/inventory"
	"github.com/fakturahaus/faktura-api/internal/domain"
	"github.com/fakturahaus/faktura-api/internal/domain/entity"
	"github.com/fakturahaus/faktura-api/internal/domain/repository"
	"github.com/fakturahaus/faktura-api/pkg/logger"
)

// InvoiceUsecase trägt die Rechnungs-Workflows. Eine Rechnung aus einem
// angenommenen Angebot wandelt dessen Reservierungen im selben Commit in
// Abgänge um; eine Direktrechnung bucht die Abgänge unmittelbar. Storno
// bucht kompensierende Zugänge, der Journaleintrag selbst bleibt stehen.
type InvoiceUsecase struct {
	invoices repository.InvoiceRepository
	offers   repository.OfferRepository
	products repository.ProductRepository
	stock    StockService
	tx       BillingTxRunner
	dueDays  int
	log      *logger.Logger
}

// NewInvoiceUsecase baut den Rechnungs-Workflow. dueDays ist das
// Zahlungsziel in Tagen ab Rechnungsdatum (0 ergibt 14).
func NewInvoiceUsecase(
	invoices repository.InvoiceRepository,
	offers repository.OfferRepository,
	products repository.ProductRepository,
	stock StockService,
	tx BillingTxRunner,
	dueDays int,
	log *logger.Logger,
) *InvoiceUsecase {
	if dueDays <= 0 {
		dueDays = 14
	}
	return &InvoiceUsecase{
		invoices: invoices,
		offers:   offers,
		products: products,
		stock:    stock,
		tx:       tx,
		dueDays:  dueDays,
		log:      log,
	}
}

// CreateInvoiceInput ist die Eingabe für eine Direktrechnung.
type CreateInvoiceInput struct {
	CustomerID int64
	Note       string
	Items      []ItemInput
	CreatedBy  string
}

// CreateDirect legt eine Rechnung ohne Angebotsbezug an und bucht je
// lagergeführter Position einen OUT-Abgang unter der Referenz
// "invoices"/Rechnungs-ID. Nummernvergabe, Belegzeilen und Bewegungen laufen
// in einer Transaktion.
func (u *InvoiceUsecase) CreateDirect(ctx context.Context, in CreateInvoiceInput) (*entity.Invoice, error) {
	if in.CustomerID <= 0 || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	items, err := resolveItems(ctx, u.products, in.Items)
	if err != nil {
		return nil, err
	}
	stockItems, err := stockManagedItems(ctx, u.products, items)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	inv := &entity.Invoice{
		CustomerID: in.CustomerID,
		Status:     entity.InvoiceStatusOpen,
		IssueDate:  now,
		DueDate:    now.AddDate(0, 0, u.dueDays),
		Note:       in.Note,
		Items:      items,
		CreatedBy:  in.CreatedBy,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err = u.tx.RunBilling(ctx, func(
		movRepo repository.StockMovementRepository,
		_ repository.OfferRepository,
		invoiceRepo repository.InvoiceRepository,
		seqRepo repository.NumberSequenceRepository,
	) error {
		no, err := seqRepo.Next(ctx, DocTypeInvoice, now.Year())
		if err != nil {
			return fmt.Errorf("Belegnummer vergeben: %w", err)
		}
		inv.Number = formatDocNumber(DocTypeInvoice, now.Year(), no)
		id, err := invoiceRepo.Create(ctx, inv)
		if err != nil {
			return fmt.Errorf("Rechnung anlegen: %w", err)
		}
		inv.ID = id
		for _, it := range stockItems {
			_, err := u.stock.AppendMovementTx(ctx, movRepo, inventory.MovementInput{
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				Type:      entity.MovementOUT,
				RefTable:  RefInvoices,
				RefID:     id,
				Note:      "Rechnung " + inv.Number,
				CreatedBy: in.CreatedBy,
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.log.Info().
		Int64("invoice_id", inv.ID).
		Str("number", inv.Number).
		Msg("Rechnung angelegt")
	return inv, nil
}

// CreateFromOffer legt die Rechnung zu einem angenommenen Angebot an. Die
// Reservierungen des Angebots werden im selben Commit in OUT-Abgänge
// umgewandelt; die Bewegungen behalten die Angebotsreferenz, die Umwandlung
// bleibt damit im Journal nachvollziehbar.
func (u *InvoiceUsecase) CreateFromOffer(ctx context.Context, offerID int64, createdBy string) (*entity.Invoice, error) {
	offer, err := u.offers.GetByID(ctx, offerID)
	if err != nil {
		return nil, fmt.Errorf("Angebot laden: %w", err)
	}
	if offer == nil {
		return nil, fmt.Errorf("Angebot %d: %w", offerID, domain.ErrNotFound)
	}
	if offer.Status != entity.OfferStatusAccepted {
		return nil, fmt.Errorf("Angebot %s ist nicht angenommen: %w", offer.Number, domain.ErrInvalidTransition)
	}

	now := time.Now()
	items := make([]entity.DocumentItem, len(offer.Items))
	copy(items, offer.Items)
	for i := range items {
		items[i].ID = 0
		items[i].DocumentID = 0
	}
	inv := &entity.Invoice{
		CustomerID: offer.CustomerID,
		OfferID:    &offer.ID,
		Status:     entity.InvoiceStatusOpen,
		IssueDate:  now,
		DueDate:    now.AddDate(0, 0, u.dueDays),
		Note:       offer.Note,
		Items:      items,
		CreatedBy:  createdBy,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	converted := 0
	err = u.tx.RunBilling(ctx, func(
		movRepo repository.StockMovementRepository,
		_ repository.OfferRepository,
		invoiceRepo repository.InvoiceRepository,
		seqRepo repository.NumberSequenceRepository,
	) error {
		no, err := seqRepo.Next(ctx, DocTypeInvoice, now.Year())
		if err != nil {
			return fmt.Errorf("Belegnummer vergeben: %w", err)
		}
		inv.Number = formatDocNumber(DocTypeInvoice, now.Year(), no)
		id, err := invoiceRepo.Create(ctx, inv)
		if err != nil {
			return fmt.Errorf("Rechnung anlegen: %w", err)
		}
		inv.ID = id
		converted, err = u.stock.ConvertReservationsTx(ctx, movRepo, RefOffers, offerID, 0)
		return err
	})
	if err != nil {
		return nil, err
	}

	u.log.Info().
		Int64("invoice_id", inv.ID).
		Str("number", inv.Number).
		Int64("offer_id", offerID).
		Int("converted", converted).
		Msg("Rechnung aus Angebot erzeugt")
	return inv, nil
}

// Cancel storniert eine offene Rechnung. Je lagergeführter Position wird ein
// kompensierender IN-Zugang gebucht; die ursprünglichen Abgänge bleiben im
// Journal stehen.
func (u *InvoiceUsecase) Cancel(ctx context.Context, id int64, actor string) error {
	inv, err := u.getInvoice(ctx, id)
	if err != nil {
		return err
	}
	if inv.Status != entity.InvoiceStatusOpen {
		return fmt.Errorf("Rechnung %s (%s -> cancelled): %w", inv.Number, inv.Status, domain.ErrInvalidTransition)
	}
	stockItems, err := stockManagedItems(ctx, u.products, inv.Items)
	if err != nil {
		return err
	}

	now := time.Now()
	err = u.tx.RunBilling(ctx, func(
		movRepo repository.StockMovementRepository,
		_ repository.OfferRepository,
		invoiceRepo repository.InvoiceRepository,
		_ repository.NumberSequenceRepository,
	) error {
		if err := invoiceRepo.UpdateStatus(ctx, id, entity.InvoiceStatusCancelled, now); err != nil {
			return fmt.Errorf("Rechnungsstatus setzen: %w", err)
		}
		for _, it := range stockItems {
			_, err := u.stock.AppendMovementTx(ctx, movRepo, inventory.MovementInput{
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				Type:      entity.MovementIN,
				RefTable:  RefInvoices,
				RefID:     id,
				Note:      "Storno " + inv.Number,
				CreatedBy: actor,
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	u.log.Info().
		Int64("invoice_id", id).
		Str("number", inv.Number).
		Msg("Rechnung storniert")
	return nil
}

// MarkPaid setzt eine offene Rechnung auf bezahlt und stempelt paid_at.
func (u *InvoiceUsecase) MarkPaid(ctx context.Context, id int64, at time.Time) error {
	inv, err := u.getInvoice(ctx, id)
	if err != nil {
		return err
	}
	if inv.Status != entity.InvoiceStatusOpen {
		return fmt.Errorf("Rechnung %s (%s -> paid): %w", inv.Number, inv.Status, domain.ErrInvalidTransition)
	}
	if at.IsZero() {
		at = time.Now()
	}
	if err := u.invoices.UpdateStatus(ctx, id, entity.InvoiceStatusPaid, at); err != nil {
		return fmt.Errorf("Rechnungsstatus setzen: %w", err)
	}
	u.log.Info().Int64("invoice_id", id).Msg("Rechnung als bezahlt markiert")
	return nil
}

// GetInvoice lädt eine Rechnung mit Positionen.
func (u *InvoiceUsecase) GetInvoice(ctx context.Context, id int64) (*entity.Invoice, error) {
	return u.getInvoice(ctx, id)
}

// ListInvoices listet Rechnungen, optional nach Status gefiltert.
func (u *InvoiceUsecase) ListInvoices(ctx context.Context, status string, limit, offset int) ([]*entity.Invoice, error) {
	return u.invoices.List(ctx, status, limit, offset)
}

func (u *InvoiceUsecase) getInvoice(ctx context.Context, id int64) (*entity.Invoice, error) {
	inv, err := u.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("Rechnung laden: %w", err)
	}
	if inv == nil {
		return nil, fmt.Errorf("Rechnung %d: %w", id, domain.ErrNotFound)
	}
	return inv, nil
}
