package billing_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fakturahaus/faktura-api/internal/application/billing"
	"github.com/fakturahaus/faktura-api/internal/application/inventory"
	"github.com/fakturahaus/faktura-api/internal/domain/entity"
	"github.com/fakturahaus/faktura-api/internal/domain/repository"
	"github.com/fakturahaus/faktura-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// In-Memory-Fakes für die Beleg-Workflows. Das Journal-Fake bildet die
// SQL-Semantik des echten Repositories nach; der Tx-Fake reicht schlicht
// dieselben Fakes in den Callback (keine Rollback-Simulation).
// ──────────────────────────────────────────────────────────────────────────────

type fakeMovementRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   []*entity.StockMovement
}

func (r *fakeMovementRepo) Create(_ context.Context, m *entity.StockMovement) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	cp := *m
	cp.ID = r.nextID
	r.rows = append(r.rows, &cp)
	return cp.ID, nil
}

func (r *fakeMovementRepo) GetSnapshot(_ context.Context, productID, warehouseID int64) (*entity.StockSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := entity.ZeroSnapshot(productID, warehouseID)
	for _, m := range r.rows {
		if m.ProductID != productID || m.WarehouseID != warehouseID {
			continue
		}
		if m.Type == entity.MovementRESERVE {
			snap.Reserved = snap.Reserved.Add(m.Quantity)
			continue
		}
		snap.Total = snap.Total.Add(m.SignedQuantity())
	}
	snap.Free = snap.Total.Sub(snap.Reserved)
	return snap, nil
}

func (r *fakeMovementRepo) ListReservations(_ context.Context, refTable string, refID, warehouseID int64) ([]*entity.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.StockMovement
	for _, m := range r.rows {
		if m.Type != entity.MovementRESERVE || m.RefTable != refTable || m.RefID != refID {
			continue
		}
		if warehouseID != 0 && m.WarehouseID != warehouseID {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeMovementRepo) DeleteReservationByID(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, m := range r.rows {
		if m.ID == id && m.Type == entity.MovementRESERVE {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeMovementRepo) DeleteReservations(_ context.Context, refTable string, refID, warehouseID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kept []*entity.StockMovement
	var n int64
	for _, m := range r.rows {
		match := m.Type == entity.MovementRESERVE && m.RefTable == refTable && m.RefID == refID &&
			(warehouseID == 0 || m.WarehouseID == warehouseID)
		if match {
			n++
			continue
		}
		kept = append(kept, m)
	}
	r.rows = kept
	return n, nil
}

func (r *fakeMovementRepo) ListByProduct(_ context.Context, productID, warehouseID int64, limit, offset int) ([]*entity.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.StockMovement
	for i := len(r.rows) - 1; i >= 0; i-- {
		m := r.rows[i]
		if m.ProductID != productID {
			continue
		}
		if warehouseID != 0 && m.WarehouseID != warehouseID {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeMovementRepo) CountAll(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.rows)), nil
}

type fakeOfferRepo struct {
	nextID int64
	offers map[int64]*entity.Offer
}

func newFakeOfferRepo() *fakeOfferRepo { return &fakeOfferRepo{offers: map[int64]*entity.Offer{}} }

func (r *fakeOfferRepo) Create(_ context.Context, o *entity.Offer) (int64, error) {
	r.nextID++
	cp := *o
	cp.ID = r.nextID
	r.offers[cp.ID] = &cp
	return cp.ID, nil
}

func (r *fakeOfferRepo) GetByID(_ context.Context, id int64) (*entity.Offer, error) {
	o, ok := r.offers[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOfferRepo) UpdateStatus(_ context.Context, id int64, status string) error {
	if o, ok := r.offers[id]; ok {
		o.Status = status
	}
	return nil
}

func (r *fakeOfferRepo) List(_ context.Context, status string, _, _ int) ([]*entity.Offer, error) {
	var out []*entity.Offer
	for _, o := range r.offers {
		if status == "" || o.Status == status {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeInvoiceRepo struct {
	nextID  int64
	entries map[int64]*entity.Invoice
	letters []*entity.DunningLetter
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{entries: map[int64]*entity.Invoice{}}
}

func (r *fakeInvoiceRepo) Create(_ context.Context, inv *entity.Invoice) (int64, error) {
	r.nextID++
	cp := *inv
	cp.ID = r.nextID
	r.entries[cp.ID] = &cp
	return cp.ID, nil
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

func (r *fakeInvoiceRepo) List(_ context.Context, status string, _, _ int) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	for _, inv := range r.entries {
		if status == "" || inv.Status == status {
			cp := *inv
			out = append(out, &cp)
		}
	}
	return out, nil
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

type fakeProductRepo struct {
	products map[int64]*entity.Product
}

func (r *fakeProductRepo) Create(_ context.Context, p *entity.Product) (int64, error) {
	id := int64(len(r.products) + 1)
	cp := *p
	cp.ID = id
	r.products[id] = &cp
	return id, nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) GetBySKU(_ context.Context, _ string) (*entity.Product, error) {
	return nil, nil
}
func (r *fakeProductRepo) Update(_ context.Context, _ *entity.Product) error { return nil }
func (r *fakeProductRepo) List(_ context.Context, _, _ int) ([]*entity.Product, error) {
	return nil, nil
}

type fakeCustomerRepo struct {
	customers map[int64]*entity.Customer
}

func (r *fakeCustomerRepo) Create(_ context.Context, c *entity.Customer) (int64, error) {
	id := int64(len(r.customers) + 1)
	cp := *c
	cp.ID = id
	r.customers[id] = &cp
	return id, nil
}

func (r *fakeCustomerRepo) GetByID(_ context.Context, id int64) (*entity.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCustomerRepo) Update(_ context.Context, _ *entity.Customer) error { return nil }
func (r *fakeCustomerRepo) List(_ context.Context, _, _ int) ([]*entity.Customer, error) {
	return nil, nil
}

type fakeSeqRepo struct {
	counters map[string]int64
}

func (r *fakeSeqRepo) Next(_ context.Context, docType string, year int) (int64, error) {
	if r.counters == nil {
		r.counters = map[string]int64{}
	}
	key := fmt.Sprintf("%s/%d", docType, year)
	r.counters[key]++
	return r.counters[key], nil
}

// fakeTxRunner reicht die Fakes unverändert in den Callback. Fehler aus fn
// werden durchgereicht; bereits angewandte Änderungen bleiben stehen, die
// Tests prüfen daher nur die Fehlerpropagation, nicht das Rollback.
type fakeTxRunner struct {
	mov      *fakeMovementRepo
	offers   *fakeOfferRepo
	invoices *fakeInvoiceRepo
	seq      *fakeSeqRepo
}

func (r *fakeTxRunner) RunBilling(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	offerRepo repository.OfferRepository,
	invoiceRepo repository.InvoiceRepository,
	seqRepo repository.NumberSequenceRepository,
) error) error {
	return fn(r.mov, r.offers, r.invoices, r.seq)
}

// ── Aufbau ────────────────────────────────────────────────────────────────────

// billingEnv bündelt die verdrahteten Fakes und Usecases eines Tests.
type billingEnv struct {
	mov      *fakeMovementRepo
	offers   *fakeOfferRepo
	invoices *fakeInvoiceRepo
	products *fakeProductRepo
	offerUC  *billing.OfferUsecase
	invUC    *billing.InvoiceUsecase
}

func newBillingEnv(invCfg inventory.Config) *billingEnv {
	log := logger.New(logger.Config{Env: "development", Level: "error"})
	mov := &fakeMovementRepo{}
	offers := newFakeOfferRepo()
	invoices := newFakeInvoiceRepo()
	products := &fakeProductRepo{products: map[int64]*entity.Product{
		1: {ID: 1, SKU: "SCHR-M8", Name: "Schraube M8", Unit: "Stk", NetPrice: dec("0.12"), VATRate: dec("19")},
		2: {ID: 2, SKU: "MONT-H", Name: "Montagestunde", Unit: "h", NetPrice: dec("85"), VATRate: dec("19"), IsService: true},
	}}
	customers := &fakeCustomerRepo{customers: map[int64]*entity.Customer{
		7: {ID: 7, Name: "Beispiel GmbH"},
	}}
	tx := &fakeTxRunner{mov: mov, offers: offers, invoices: invoices, seq: &fakeSeqRepo{}}
	stock := inventory.NewService(mov, nil, nil, nil, invCfg, log)

	return &billingEnv{
		mov:      mov,
		offers:   offers,
		invoices: invoices,
		products: products,
		offerUC:  billing.NewOfferUsecase(offers, products, customers, stock, tx, log),
		invUC:    billing.NewInvoiceUsecase(invoices, offers, products, stock, tx, 14, log),
	}
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}
