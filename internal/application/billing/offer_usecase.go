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

// OfferUsecase trägt die Angebots-Workflows: anlegen, versenden, annehmen,
// ablehnen. Annahme reserviert die Positionsmengen im Lagerjournal unter der
// Referenz "offers"/Angebots-ID, Ablehnung gibt sie wieder frei.
type OfferUsecase struct {
	offers    repository.OfferRepository
	products  repository.ProductRepository
	customers repository.CustomerRepository
	stock     StockService
	tx        BillingTxRunner
	log       *logger.Logger
}

// NewOfferUsecase baut den Angebots-Workflow.
func NewOfferUsecase(
	offers repository.OfferRepository,
	products repository.ProductRepository,
	customers repository.CustomerRepository,
	stock StockService,
	tx BillingTxRunner,
	log *logger.Logger,
) *OfferUsecase {
	return &OfferUsecase{
		offers:    offers,
		products:  products,
		customers: customers,
		stock:     stock,
		tx:        tx,
		log:       log,
	}
}

// CreateOfferInput ist die Eingabe zum Anlegen eines Angebots.
type CreateOfferInput struct {
	CustomerID int64
	ValidUntil time.Time
	Note       string
	Items      []ItemInput
	CreatedBy  string
}

// CreateOffer legt ein Angebot im Status draft an. Belegnummer und Zeilen
// entstehen im selben Commit, damit der Nummernkreis keine Lücken durch
// Abbrüche bekommt.
func (u *OfferUsecase) CreateOffer(ctx context.Context, in CreateOfferInput) (*entity.Offer, error) {
	if in.CustomerID <= 0 || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	customer, err := u.customers.GetByID(ctx, in.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("Kunde laden: %w", err)
	}
	if customer == nil {
		return nil, fmt.Errorf("Kunde %d: %w", in.CustomerID, domain.ErrNotFound)
	}
	items, err := resolveItems(ctx, u.products, in.Items)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	offer := &entity.Offer{
		CustomerID: in.CustomerID,
		Status:     entity.OfferStatusDraft,
		IssueDate:  now,
		ValidUntil: in.ValidUntil,
		Note:       in.Note,
		Items:      items,
		CreatedBy:  in.CreatedBy,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err = u.tx.RunBilling(ctx, func(
		_ repository.StockMovementRepository,
		offerRepo repository.OfferRepository,
		_ repository.InvoiceRepository,
		seqRepo repository.NumberSequenceRepository,
	) error {
		no, err := seqRepo.Next(ctx, DocTypeOffer, now.Year())
		if err != nil {
			return fmt.Errorf("Belegnummer vergeben: %w", err)
		}
		offer.Number = formatDocNumber(DocTypeOffer, now.Year(), no)
		id, err := offerRepo.Create(ctx, offer)
		if err != nil {
			return fmt.Errorf("Angebot anlegen: %w", err)
		}
		offer.ID = id
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.log.Info().
		Int64("offer_id", offer.ID).
		Str("number", offer.Number).
		Int("items", len(offer.Items)).
		Msg("Angebot angelegt")
	return offer, nil
}

// SendOffer stellt das Angebot von draft auf open.
func (u *OfferUsecase) SendOffer(ctx context.Context, id int64) error {
	return u.transition(ctx, id, entity.OfferStatusOpen)
}

// AcceptOffer nimmt ein offenes Angebot an. Statuswechsel und die
// RESERVE-Bewegungen je Lagerposition laufen in einer Transaktion; schlägt
// eine Reservierung fehl (z. B. Negativbestands-Sperre), bleibt das Angebot
// offen.
func (u *OfferUsecase) AcceptOffer(ctx context.Context, id int64, actor string) error {
	offer, err := u.getOffer(ctx, id)
	if err != nil {
		return err
	}
	if !offer.CanTransition(entity.OfferStatusAccepted) {
		return fmt.Errorf("Angebot %s (%s -> accepted): %w", offer.Number, offer.Status, domain.ErrInvalidTransition)
	}
	stockItems, err := stockManagedItems(ctx, u.products, offer.Items)
	if err != nil {
		return err
	}

	err = u.tx.RunBilling(ctx, func(
		movRepo repository.StockMovementRepository,
		offerRepo repository.OfferRepository,
		_ repository.InvoiceRepository,
		_ repository.NumberSequenceRepository,
	) error {
		if err := offerRepo.UpdateStatus(ctx, id, entity.OfferStatusAccepted); err != nil {
			return fmt.Errorf("Angebotsstatus setzen: %w", err)
		}
		for _, it := range stockItems {
			_, err := u.stock.AppendMovementTx(ctx, movRepo, inventory.MovementInput{
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				Type:      entity.MovementRESERVE,
				RefTable:  RefOffers,
				RefID:     id,
				Note:      "Angebot " + offer.Number + " angenommen",
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
		Int64("offer_id", id).
		Int("reserved_items", len(stockItems)).
		Msg("Angebot angenommen")
	return nil
}

// RejectOffer lehnt das Angebot ab und gibt vorhandene Reservierungen frei.
// Ohne Reservierungen (Ablehnung aus draft oder open) ist die Freigabe ein
// No-op mit Zähler 0.
func (u *OfferUsecase) RejectOffer(ctx context.Context, id int64) error {
	offer, err := u.getOffer(ctx, id)
	if err != nil {
		return err
	}
	if !offer.CanTransition(entity.OfferStatusRejected) {
		return fmt.Errorf("Angebot %s (%s -> rejected): %w", offer.Number, offer.Status, domain.ErrInvalidTransition)
	}

	released := 0
	err = u.tx.RunBilling(ctx, func(
		movRepo repository.StockMovementRepository,
		offerRepo repository.OfferRepository,
		_ repository.InvoiceRepository,
		_ repository.NumberSequenceRepository,
	) error {
		if err := offerRepo.UpdateStatus(ctx, id, entity.OfferStatusRejected); err != nil {
			return fmt.Errorf("Angebotsstatus setzen: %w", err)
		}
		released, err = u.stock.ReleaseReservationsTx(ctx, movRepo, RefOffers, id, 0)
		return err
	})
	if err != nil {
		return err
	}

	u.log.Info().
		Int64("offer_id", id).
		Int("released", released).
		Msg("Angebot abgelehnt")
	return nil
}

// GetOffer lädt ein Angebot mit Positionen.
func (u *OfferUsecase) GetOffer(ctx context.Context, id int64) (*entity.Offer, error) {
	return u.getOffer(ctx, id)
}

// ListOffers listet Angebote, optional nach Status gefiltert.
func (u *OfferUsecase) ListOffers(ctx context.Context, status string, limit, offset int) ([]*entity.Offer, error) {
	return u.offers.List(ctx, status, limit, offset)
}

func (u *OfferUsecase) getOffer(ctx context.Context, id int64) (*entity.Offer, error) {
	offer, err := u.offers.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("Angebot laden: %w", err)
	}
	if offer == nil {
		return nil, fmt.Errorf("Angebot %d: %w", id, domain.ErrNotFound)
	}
	return offer, nil
}

func (u *OfferUsecase) transition(ctx context.Context, id int64, to string) error {
	offer, err := u.getOffer(ctx, id)
	if err != nil {
		return err
	}
	if !offer.CanTransition(to) {
		return fmt.Errorf("Angebot %s (%s -> %s): %w", offer.Number, offer.Status, to, domain.ErrInvalidTransition)
	}
	if err := u.offers.UpdateStatus(ctx, id, to); err != nil {
		return fmt.Errorf("Angebotsstatus setzen: %w", err)
	}
	return nil
}
