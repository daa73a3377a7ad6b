package inventory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fakturahaus/faktura-api/internal/application/inventory"
	"github.com/fakturahaus/faktura-api/internal/domain"
	"github.com/fakturahaus/faktura-api/internal/domain/entity"
	"github.com/fakturahaus/faktura-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// In-Memory-Fakes. Das Journal-Fake bildet die SQL-Semantik des echten
// Repositories nach (eine Aggregation, bedingte Summen), damit die
// Ableitungsregeln des Ledgers ohne Datenbank prüfbar sind.
// ──────────────────────────────────────────────────────────────────────────────

type fakeMovementRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   []*entity.StockMovement
}

func newFakeMovementRepo() *fakeMovementRepo { return &fakeMovementRepo{} }

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

type fakeMinStockRepo struct {
	settings []*entity.MinimumStock
}

func (r *fakeMinStockRepo) Upsert(_ context.Context, ms *entity.MinimumStock) error {
	r.settings = append(r.settings, ms)
	return nil
}
func (r *fakeMinStockRepo) Delete(_ context.Context, _, _ int64) error { return nil }
func (r *fakeMinStockRepo) Get(_ context.Context, _, _ int64) (*entity.MinimumStock, error) {
	return nil, nil
}
func (r *fakeMinStockRepo) ListAll(_ context.Context, warehouseID int64) ([]*entity.MinimumStock, error) {
	var out []*entity.MinimumStock
	for _, ms := range r.settings {
		if warehouseID == 0 || ms.WarehouseID == warehouseID {
			out = append(out, ms)
		}
	}
	return out, nil
}

type fakeBootstrapper struct {
	calls int
	err   error
}

func (b *fakeBootstrapper) EnsureLedgerSchema(_ context.Context) error {
	b.calls++
	return b.err
}

// ── Aufbau ────────────────────────────────────────────────────────────────────

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "development", Level: "error"})
}

func newTestService(cfg inventory.Config) (*inventory.Service, *fakeMovementRepo, *fakeBootstrapper) {
	movements := newFakeMovementRepo()
	boot := &fakeBootstrapper{}
	svc := inventory.NewService(movements, nil, &fakeMinStockRepo{}, boot, cfg, testLogger())
	return svc, movements, boot
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// ── Bewegungen und Projektion ─────────────────────────────────────────────────

func TestAppendMovement_InDannOut_TotalIstDifferenz(t *testing.T) {
	svc, _, _ := newTestService(inventory.Config{DefaultWarehouseID: 1})
	ctx := context.Background()

	id1, err := svc.AppendMovement(ctx, inventory.MovementInput{ProductID: 7, Quantity: dec("10"), Type: entity.MovementIN})
	require.NoError(t, err)
	assert.Positive(t, id1)

	id2, err := svc.AppendMovement(ctx, inventory.MovementInput{ProductID: 7, Quantity: dec("4"), Type: entity.MovementOUT})
	require.NoError(t, err)
	assert.Greater(t, id2, id1, "IDs müssen monoton wachsen")

	snap, err := svc.GetStock(ctx, 7, 0)
	require.NoError(t, err)
	assert.True(t, snap.Total.Equal(dec("6")), "Total = 10 − 4, bekam %s", snap.Total)
	assert.True(t, snap.Reserved.IsZero())
	assert.True(t, snap.Free.Equal(dec("6")))
}

func TestGetStock_OhneHistorie_LiefertNullen(t *testing.T) {
	svc, _, _ := newTestService(inventory.Config{})
	snap, err := svc.GetStock(context.Background(), 99, 0)
	require.NoError(t, err)
	assert.True(t, snap.Total.IsZero())
	assert.True(t, snap.Reserved.IsZero())
	assert.True(t, snap.Free.IsZero())
}

func TestAppendMovement_Validierung_NichtsGeschrieben(t *testing.T) {
	svc, movements, _ := newTestService(inventory.Config{})
	ctx := context.Background()

	cases := []struct {
		name string
		in   inventory.MovementInput
		want error
	}{
		{"Artikel null", inventory.MovementInput{ProductID: 0, Quantity: dec("1"), Type: entity.MovementIN}, domain.ErrInvalidInput},
		{"Artikel negativ", inventory.MovementInput{ProductID: -3, Quantity: dec("1"), Type: entity.MovementIN}, domain.ErrInvalidInput},
		{"Menge null", inventory.MovementInput{ProductID: 1, Quantity: decimal.Zero, Type: entity.MovementIN}, domain.ErrInvalidInput},
		{"Menge negativ bei OUT", inventory.MovementInput{ProductID: 1, Quantity: dec("-2"), Type: entity.MovementOUT}, domain.ErrInvalidInput},
		{"ADJUST null", inventory.MovementInput{ProductID: 1, Quantity: decimal.Zero, Type: entity.MovementADJUST}, domain.ErrInvalidInput},
		{"unbekannter Typ", inventory.MovementInput{ProductID: 1, Quantity: dec("1"), Type: entity.MovementType("TRANSFER")}, domain.ErrUnknownMovement},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id, err := svc.AppendMovement(ctx, tc.in)
			assert.ErrorIs(t, err, tc.want)
			assert.Zero(t, id, "Sentinel-ID 0 bei Validierungsfehler")
		})
	}
	n, _ := movements.CountAll(ctx)
	assert.Zero(t, n, "Validierungsfehler dürfen keine Zeilen hinterlassen")
}

func TestAppendMovement_StandardlagerAusKonfiguration(t *testing.T) {
	svc, movements, _ := newTestService(inventory.Config{DefaultWarehouseID: 5})
	ctx := context.Background()

	_, err := svc.AppendMovement(ctx, inventory.MovementInput{ProductID: 1, Quantity: dec("3"), Type: entity.MovementIN})
	require.NoError(t, err)

	rows, err := movements.ListByProduct(ctx, 1, 0, 10, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(5), rows[0].WarehouseID)

	// Lager sind getrennt: im Lager 2 existiert nichts.
	snap, err := svc.GetStock(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, snap.Total.IsZero())
}

func TestAdjust_NegativReduziertTotal_NichtReserved(t *testing.T) {
	svc, _, _ := newTestService(inventory.Config{DefaultWarehouseID: 1})
	ctx := context.Background()

	_, err := svc.AppendMovement(ctx, inventory.MovementInput{ProductID: 2, Quantity: dec("10"), Type: entity.MovementIN})
	require.NoError(t, err)
	_, err = svc.AppendMovement(ctx, inventory.MovementInput{ProductID: 2, Quantity: dec("-2.5"), Type: entity.MovementADJUST})
	require.NoError(t, err)
	_, err = svc.AppendMovement(ctx, inventory.MovementInput{ProductID: 2, Quantity: dec("0.5"), Type: entity.MovementADJUST})
	require.NoError(t, err)

	snap, err := svc.GetStock(ctx, 2, 0)
	require.NoError(t, err)
	assert.True(t, snap.Total.Equal(dec("8")), "10 − 2.5 + 0.5, bekam %s", snap.Total)
	assert.True(t, snap.Reserved.IsZero(), "ADJUST zählt nie in Reserved")
}

// ── Reservierungslebenszyklus ─────────────────────────────────────────────────

func TestReserve_ZeigtReservedUndFree(t *testing.T) {
	svc, _, _ := newTestService(inventory.Config{DefaultWarehouseID: 1})
	ctx := context.Background()

	_, err := svc.AppendMovement(ctx, inventory.MovementInput{ProductID: 3, Quantity: dec("12"), Type: entity.MovementIN})
	require.NoError(t, err)

	id, err := svc.ReserveStock(ctx, inventory.ReserveInput{ProductID: 3, Quantity: dec("5"), RefTable: "offers", RefID: 1})
	require.NoError(t, err)
	assert.Positive(t, id)

	snap, err := svc.GetStock(ctx, 3, 0)
	require.NoError(t, err)
	assert.True(t, snap.Total.Equal(dec("12")), "Reservieren ändert Total nicht")
	assert.True(t, snap.Reserved.Equal(dec("5")))
	assert.True(t, snap.Free.Equal(dec("7")))
}

func TestConvert_ErsetztReserveDurchOut(t *testing.T) {
	svc, movements, _ := newTestService(inventory.Config{DefaultWarehouseID: 1})
	ctx := context.Background()

	_, err := svc.AppendMovement(ctx, inventory.MovementInput{ProductID: 3, Quantity: dec("12"), Type: entity.MovementIN})
	require.NoError(t, err)
	_, err = svc.ReserveStock(ctx, inventory.ReserveInput{ProductID: 3, Quantity: dec("5"), RefTable: "offers", RefID: 1})
	require.NoError(t, err)

	n, err := svc.ConvertReservationsToConsumption(ctx, "offers", 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// RESERVE-Zeile weg, OUT-Zeile da.
	res, err := movements.ListReservations(ctx, "offers", 1, 0)
	require.NoError(t, err)
	assert.Empty(t, res)

	snap, err := svc.GetStock(ctx, 3, 0)
	require.NoError(t, err)
	assert.True(t, snap.Total.Equal(dec("7")), "Total sinkt um die verbrauchte Menge")
	assert.True(t, snap.Reserved.IsZero(), "Reserved zurück auf den Wert vor der Reservierung")
	assert.True(t, snap.Free.Equal(dec("7")))
}

func TestRelease_StelltFreieMengeWiederHer(t *testing.T) {
	svc, _, _ := newTestService(inventory.Config{DefaultWarehouseID: 1})
	ctx := context.Background()

	_, err := svc.AppendMovement(ctx, inventory.MovementInput{ProductID: 3, Quantity: dec("12"), Type: entity.MovementIN})
	require.NoError(t, err)
	_, err = svc.ReserveStock(ctx, inventory.ReserveInput{ProductID: 3, Quantity: dec("5"), RefTable: "offers", RefID: 9})
	require.NoError(t, err)

	n, err := svc.ReleaseReservations(ctx, "offers", 9, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	snap, err := svc.GetStock(ctx, 3, 0)
	require.NoError(t, err)
	assert.True(t, snap.Total.Equal(dec("12")), "Freigeben lässt Total unverändert")
	assert.True(t, snap.Free.Equal(dec("12")))
}

// Doppelte Freigabe und Umwandlung ohne Treffer sind Erfolg mit 0; der
// Aufrufer kann "schon verarbeitet" nicht von "nie vorhanden" unterscheiden.
// Bewusste Vereinfachung; dieser Test dokumentiert sie.
func TestLifecycle_KeineTreffer_ErfolgMitNull(t *testing.T) {
	svc, _, _ := newTestService(inventory.Config{DefaultWarehouseID: 1})
	ctx := context.Background()

	n, err := svc.ConvertReservationsToConsumption(ctx, "offers", 12345, 0)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = svc.ReleaseReservations(ctx, "offers", 12345, 0)
	require.NoError(t, err)
	assert.Zero(t, n)

	// Doppelte Freigabe nach echter Freigabe ebenfalls 0.
	_, err = svc.AppendMovement(ctx, inventory.MovementInput{ProductID: 1, Quantity: dec("4"), Type: entity.MovementIN})
	require.NoError(t, err)
	_, err = svc.ReserveStock(ctx, inventory.ReserveInput{ProductID: 1, Quantity: dec("2"), RefTable: "offers", RefID: 8})
	require.NoError(t, err)
	n, err = svc.ReleaseReservations(ctx, "offers", 8, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = svc.ReleaseReservations(ctx, "offers", 8, 0)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestConvert_MehrereReservierungenEinerReferenz(t *testing.T) {
	svc, movements, _ := newTestService(inventory.Config{DefaultWarehouseID: 1})
	ctx := context.Background()

	for _, p := range []int64{10, 11, 12} {
		_, err := svc.AppendMovement(ctx, inventory.MovementInput{ProductID: p, Quantity: dec("20"), Type: entity.MovementIN})
		require.NoError(t, err)
		_, err = svc.ReserveStock(ctx, inventory.ReserveInput{ProductID: p, Quantity: dec("3"), RefTable: "invoices", RefID: 77})
		require.NoError(t, err)
	}

	n, err := svc.ConvertReservationsToConsumption(ctx, "invoices", 77, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	for _, p := range []int64{10, 11, 12} {
		snap, err := svc.GetStock(ctx, p, 0)
		require.NoError(t, err)
		assert.True(t, snap.Total.Equal(dec("17")))
		assert.True(t, snap.Reserved.IsZero())
	}
	res, _ := movements.ListReservations(ctx, "invoices", 77, 0)
	assert.Empty(t, res)
}

// ── Bestandsschutz ────────────────────────────────────────────────────────────

func TestPreventNegativeStock_LehntUeberziehungAb(t *testing.T) {
	svc, movements, _ := newTestService(inventory.Config{DefaultWarehouseID: 1, PreventNegativeStock: true})
	ctx := context.Background()

	_, err := svc.AppendMovement(ctx, inventory.MovementInput{ProductID: 4, Quantity: dec("3"), Type: entity.MovementIN})
	require.NoError(t, err)
	before, _ := movements.CountAll(ctx)

	id, err := svc.AppendMovement(ctx, inventory.MovementInput{ProductID: 4, Quantity: dec("5"), Type: entity.MovementOUT})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Zero(t, id)

	var insErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &insErr)
	assert.True(t, insErr.Requested.Equal(dec("5")), "Meldung nennt die angeforderte Menge")
	assert.True(t, insErr.Available.Equal(dec("3")), "Meldung nennt die verfügbare Menge")

	after, _ := movements.CountAll(ctx)
	assert.Equal(t, before, after, "abgelehnter Abgang darf keine Zeile schreiben")
}

func TestPreventNegativeStock_ZaehltReservierungenGegenFrei(t *testing.T) {
	svc, _, _ := newTestService(inventory.Config{DefaultWarehouseID: 1, PreventNegativeStock: true})
	ctx := context.Background()

	_, err := svc.AppendMovement(ctx, inventory.MovementInput{ProductID: 4, Quantity: dec("10"), Type: entity.MovementIN})
	require.NoError(t, err)
	_, err = svc.ReserveStock(ctx, inventory.ReserveInput{ProductID: 4, Quantity: dec("8"), RefTable: "offers", RefID: 2})
	require.NoError(t, err)

	// Frei sind nur noch 2; 3 abgehen lassen scheitert.
	_, err = svc.AppendMovement(ctx, inventory.MovementInput{ProductID: 4, Quantity: dec("3"), Type: entity.MovementOUT})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Genau die freie Menge geht durch.
	_, err = svc.AppendMovement(ctx, inventory.MovementInput{ProductID: 4, Quantity: dec("2"), Type: entity.MovementOUT})
	assert.NoError(t, err)
}

func TestGuardAus_ErlaubtNegativenBestand(t *testing.T) {
	svc, _, _ := newTestService(inventory.Config{DefaultWarehouseID: 1})
	ctx := context.Background()

	_, err := svc.AppendMovement(ctx, inventory.MovementInput{ProductID: 4, Quantity: dec("5"), Type: entity.MovementOUT})
	require.NoError(t, err, "ohne Guard ist Überziehung zulässig")

	snap, err := svc.GetStock(ctx, 4, 0)
	require.NoError(t, err)
	assert.True(t, snap.Total.Equal(dec("-5")))
}

func TestGuard_AdjustNegativNichtGeprueft(t *testing.T) {
	svc, _, _ := newTestService(inventory.Config{DefaultWarehouseID: 1, PreventNegativeStock: true})
	ctx := context.Background()

	// ADJUST ist eine manuelle Korrektur und läuft am Guard vorbei.
	_, err := svc.AppendMovement(ctx, inventory.MovementInput{ProductID: 6, Quantity: dec("-4"), Type: entity.MovementADJUST})
	require.NoError(t, err)
	snap, _ := svc.GetStock(ctx, 6, 0)
	assert.True(t, snap.Total.Equal(dec("-4")))
}

// ── Bootstrap ─────────────────────────────────────────────────────────────────

func TestBootstrap_LaeuftHoechstensEinmal(t *testing.T) {
	svc, _, boot := newTestService(inventory.Config{DefaultWarehouseID: 1})
	ctx := context.Background()

	_, _ = svc.GetStock(ctx, 1, 0)
	_, _ = svc.AppendMovement(ctx, inventory.MovementInput{ProductID: 1, Quantity: dec("1"), Type: entity.MovementIN})
	_, _ = svc.GetStock(ctx, 1, 0)

	assert.Equal(t, 1, boot.calls, "Bootstrap genau einmal pro Prozesslaufzeit")
}

func TestBootstrap_FehlerWirdVerschluckt(t *testing.T) {
	movements := newFakeMovementRepo()
	boot := &fakeBootstrapper{err: assert.AnError}
	svc := inventory.NewService(movements, nil, &fakeMinStockRepo{}, boot, inventory.Config{DefaultWarehouseID: 1}, testLogger())

	// Bootstrap-Fehler ist nicht fatal; die Operation selbst läuft weiter.
	id, err := svc.AppendMovement(context.Background(), inventory.MovementInput{ProductID: 1, Quantity: dec("1"), Type: entity.MovementIN})
	require.NoError(t, err)
	assert.Positive(t, id)
	assert.Equal(t, 1, boot.calls)
}

// Tx-Varianten überspringen den Bootstrap (kein DDL in offener Transaktion).
func TestTxVarianten_KeinBootstrap(t *testing.T) {
	svc, movements, boot := newTestService(inventory.Config{DefaultWarehouseID: 1})
	ctx := context.Background()

	_, err := svc.AppendMovementTx(ctx, movements, inventory.MovementInput{ProductID: 1, Quantity: dec("2"), Type: entity.MovementIN})
	require.NoError(t, err)
	_, err = svc.ConvertReservationsTx(ctx, movements, "offers", 1, 0)
	require.NoError(t, err)
	_, err = svc.ReleaseReservationsTx(ctx, movements, "offers", 1, 0)
	require.NoError(t, err)

	assert.Zero(t, boot.calls)
}

// ── Meldebestand ──────────────────────────────────────────────────────────────

func TestListBelowMinimum(t *testing.T) {
	movements := newFakeMovementRepo()
	minStock := &fakeMinStockRepo{}
	svc := inventory.NewService(movements, nil, minStock, nil, inventory.Config{DefaultWarehouseID: 1}, testLogger())
	ctx := context.Background()

	require.NoError(t, minStock.Upsert(ctx, &entity.MinimumStock{ProductID: 1, WarehouseID: 1, MinQuantity: dec("5")}))
	require.NoError(t, minStock.Upsert(ctx, &entity.MinimumStock{ProductID: 2, WarehouseID: 1, MinQuantity: dec("5")}))

	_, err := svc.AppendMovement(ctx, inventory.MovementInput{ProductID: 1, Quantity: dec("3"), Type: entity.MovementIN})
	require.NoError(t, err)
	_, err = svc.AppendMovement(ctx, inventory.MovementInput{ProductID: 2, Quantity: dec("9"), Type: entity.MovementIN})
	require.NoError(t, err)

	items, err := svc.ListBelowMinimum(ctx, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(1), items[0].ProductID)
	assert.True(t, items[0].Shortfall.Equal(dec("2")))
}
