package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fakturahaus/faktura-api/internal/application/usecase"
	"github.com/fakturahaus/faktura-api/internal/domain/entity"
	"github.com/fakturahaus/faktura-api/pkg/logger"
)

type fakeInvoiceRepo struct {
	entries map[int64]*entity.Invoice
	letters []*entity.DunningLetter
}

func (r *fakeInvoiceRepo) Create(_ context.Context, inv *entity.Invoice) (int64, error) {
	id := int64(len(r.entries) + 1)
	cp := *inv
	cp.ID = id
	r.entries[id] = &cp
	return id, nil
}

func (r *fakeInvoiceRepo) GetByID(_ context.Context, id int64) (*entity.Invoice, error) {
	inv, ok := r.entries[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (r *fakeInvoiceRepo) UpdateStatus(_ context.Context, id int64, status string, at time.Time) error {
	if inv, ok := r.entries[id]; ok {
		inv.Status = status
		if status == entity.InvoiceStatusPaid {
			inv.PaidAt = &at
		}
	}
	return nil
}

func (r *fakeInvoiceRepo) List(_ context.Context, _ string, _, _ int) ([]*entity.Invoice, error) {
	return nil, nil
}

func (r *fakeInvoiceRepo) ListOverdue(_ context.Context, at time.Time, graceDays, maxLevel int) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	for _, inv := range r.entries {
		if inv.Status != entity.InvoiceStatusOpen || inv.DunningLevel >= maxLevel {
			continue
		}
		if at.After(inv.DueDate.AddDate(0, 0, graceDays)) {
			cp := *inv
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeInvoiceRepo) SetDunning(_ context.Context, invoiceID int64, level int, at time.Time) error {
	if inv, ok := r.entries[invoiceID]; ok {
		inv.DunningLevel = level
		inv.DunnedAt = &at
	}
	return nil
}

func (r *fakeInvoiceRepo) CreateDunningLetter(_ context.Context, d *entity.DunningLetter) (int64, error) {
	cp := *d
	cp.ID = int64(len(r.letters) + 1)
	r.letters = append(r.letters, &cp)
	return cp.ID, nil
}

func (r *fakeInvoiceRepo) ListDunningLetters(_ context.Context, invoiceID int64) ([]*entity.DunningLetter, error) {
	var out []*entity.DunningLetter
	for _, d := range r.letters {
		if d.InvoiceID == invoiceID {
			cp := *d
			out = append(out, &cp)
		}
	}
	return out, nil
}

func newDunningEnv() (*usecase.DunningUseCase, *fakeInvoiceRepo) {
	repo := &fakeInvoiceRepo{entries: map[int64]*entity.Invoice{}}
	cfg := usecase.DunningConfig{
		GraceDays: 3,
		Fees: [usecase.MaxDunningLevel]decimal.Decimal{
			decimal.Zero,
			decimal.NewFromInt(5),
			decimal.NewFromInt(10),
		},
	}
	log := logger.New(logger.Config{Env: "development", Level: "error"})
	return usecase.NewDunningUseCase(repo, cfg, log), repo
}

func openInvoice(repo *fakeInvoiceRepo, number string, due time.Time) int64 {
	id, _ := repo.Create(context.Background(), &entity.Invoice{
		Number:     number,
		CustomerID: 1,
		Status:     entity.InvoiceStatusOpen,
		DueDate:    due,
	})
	return id
}

func TestDunningRun_MahntNurNachKarenz(t *testing.T) {
	uc, repo := newDunningEnv()
	due := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	overdueID := openInvoice(repo, "RE-2026-00001", due)
	openInvoice(repo, "RE-2026-00002", due.AddDate(0, 1, 0)) // noch nicht fällig

	// Innerhalb der Karenz passiert nichts.
	resp, err := uc.Run(context.Background(), due.AddDate(0, 0, 2))
	require.NoError(t, err)
	assert.Zero(t, resp.Issued)

	resp, err = uc.Run(context.Background(), due.AddDate(0, 0, 5))
	require.NoError(t, err)
	require.Equal(t, 1, resp.Issued)
	assert.Equal(t, 1, resp.Letters[0].Level)
	assert.True(t, resp.Letters[0].Fee.IsZero())
	assert.Equal(t, 1, repo.entries[overdueID].DunningLevel)
}

func TestDunningRun_EineStufeProLauf(t *testing.T) {
	uc, repo := newDunningEnv()
	due := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	id := openInvoice(repo, "RE-2026-00001", due)

	// Erster Lauf weit nach Fälligkeit: trotzdem nur Stufe 1.
	resp, err := uc.Run(context.Background(), due.AddDate(0, 2, 0))
	require.NoError(t, err)
	require.Equal(t, 1, resp.Issued)
	assert.Equal(t, 1, repo.entries[id].DunningLevel)

	// Direkt folgender Lauf: Karenz nach der letzten Mahnung greift.
	resp, err = uc.Run(context.Background(), due.AddDate(0, 2, 1))
	require.NoError(t, err)
	assert.Zero(t, resp.Issued)

	// Nach Ablauf der Karenz folgt Stufe 2 mit Gebühr.
	resp, err = uc.Run(context.Background(), due.AddDate(0, 2, 10))
	require.NoError(t, err)
	require.Equal(t, 1, resp.Issued)
	assert.Equal(t, 2, resp.Letters[0].Level)
	assert.True(t, resp.Letters[0].Fee.Equal(decimal.NewFromInt(5)))
}

func TestDunningRun_StopptBeiStufeDrei(t *testing.T) {
	uc, repo := newDunningEnv()
	due := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	id := openInvoice(repo, "RE-2026-00001", due)
	at := due

	for i := 0; i < 5; i++ {
		at = at.AddDate(0, 0, 10)
		_, err := uc.Run(context.Background(), at)
		require.NoError(t, err)
	}

	assert.Equal(t, usecase.MaxDunningLevel, repo.entries[id].DunningLevel)
	letters, err := uc.Letters(context.Background(), id)
	require.NoError(t, err)
	assert.Len(t, letters, usecase.MaxDunningLevel)
}
