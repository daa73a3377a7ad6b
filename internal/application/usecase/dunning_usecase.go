package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fakturahaus/faktura-api/internal/application/dto"
	"github.com/fakturahaus/faktura-api/internal/domain/entity"
	"github.com/fakturahaus/faktura-api/internal/domain/repository"
	"github.com/fakturahaus/faktura-api/pkg/logger"
)

// MaxDunningLevel ist die höchste Mahnstufe.
const MaxDunningLevel = 3

// DunningConfig steuert den Mahnlauf. GraceDays sind die Karenztage nach
// Fälligkeit bzw. nach der letzten Mahnung, Fees die Mahngebühr je Stufe.
type DunningConfig struct {
	GraceDays int
	Fees      [MaxDunningLevel]decimal.Decimal
}

// DunningUseCase ist der Mahnlauf über offene, überfällige Rechnungen.
type DunningUseCase struct {
	invoices repository.InvoiceRepository
	cfg      DunningConfig
	log      *logger.Logger
}

// NewDunningUseCase baut den Mahnlauf. GraceDays 0 ergibt 3 Tage Karenz.
func NewDunningUseCase(invoices repository.InvoiceRepository, cfg DunningConfig, log *logger.Logger) *DunningUseCase {
	if cfg.GraceDays <= 0 {
		cfg.GraceDays = 3
	}
	return &DunningUseCase{invoices: invoices, cfg: cfg, log: log}
}

// Run mahnt alle offenen Rechnungen an, deren Fälligkeit plus Karenztage am
// Stichtag überschritten ist. Jede Rechnung steigt pro Lauf höchstens eine
// Stufe; bereits auf der letzten Mahnung liegende Karenz wird über DunnedAt
// geprüft, damit aufeinanderfolgende Läufe nicht direkt durchmahnen.
func (uc *DunningUseCase) Run(ctx context.Context, at time.Time) (*dto.DunningRunResponse, error) {
	if at.IsZero() {
		at = time.Now()
	}
	overdue, err := uc.invoices.ListOverdue(ctx, at, uc.cfg.GraceDays, MaxDunningLevel)
	if err != nil {
		return nil, fmt.Errorf("überfällige Rechnungen lesen: %w", err)
	}

	resp := &dto.DunningRunResponse{}
	for _, inv := range overdue {
		if inv.DunnedAt != nil && !at.After(inv.DunnedAt.AddDate(0, 0, uc.cfg.GraceDays)) {
			continue
		}
		level := inv.DunningLevel + 1
		fee := uc.cfg.Fees[level-1]

		letter := &entity.DunningLetter{
			InvoiceID: inv.ID,
			Level:     level,
			Fee:       fee,
			IssuedAt:  at,
		}
		id, err := uc.invoices.CreateDunningLetter(ctx, letter)
		if err != nil {
			return nil, fmt.Errorf("Mahnung anlegen (Rechnung %d): %w", inv.ID, err)
		}
		if err := uc.invoices.SetDunning(ctx, inv.ID, level, at); err != nil {
			return nil, fmt.Errorf("Mahnstufe setzen (Rechnung %d): %w", inv.ID, err)
		}

		resp.Issued++
		resp.Letters = append(resp.Letters, dto.DunningLetterResponse{
			ID:        id,
			InvoiceID: inv.ID,
			Level:     level,
			Fee:       fee,
			IssuedAt:  at,
		})
		uc.log.Info().
			Int64("invoice_id", inv.ID).
			Str("number", inv.Number).
			Int("level", level).
			Msg("Mahnung erzeugt")
	}
	return resp, nil
}

// Letters liefert alle Mahnungen einer Rechnung.
func (uc *DunningUseCase) Letters(ctx context.Context, invoiceID int64) ([]dto.DunningLetterResponse, error) {
	list, err := uc.invoices.ListDunningLetters(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DunningLetterResponse, 0, len(list))
	for _, d := range list {
		out = append(out, dto.DunningLetterResponse{
			ID:        d.ID,
			InvoiceID: d.InvoiceID,
			Level:     d.Level,
			Fee:       d.Fee,
			IssuedAt:  d.IssuedAt,
		})
	}
	return out, nil
}
