package billing_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fakturahaus/faktura-api/internal/application/billing"
	"github.com/fakturahaus/faktura-api/internal/application/inventory"
	"github.com/fakturahaus/faktura-api/internal/domain"
	"github.com/fakturahaus/faktura-api/internal/domain/entity"
)

func acceptedOffer(t *testing.T, env *billingEnv) *entity.Offer {
	t.Helper()
	offer := createOffer(t, env)
	require.NoError(t, env.offerUC.SendOffer(context.Background(), offer.ID))
	require.NoError(t, env.offerUC.AcceptOffer(context.Background(), offer.ID, "vertrieb@example.de"))
	return offer
}

func TestCreateFromOffer_ConvertsReservationsToConsumption(t *testing.T) {
	env := newBillingEnv(inventory.Config{})
	seedStock(t, env, 1, "500")
	offer := acceptedOffer(t, env)

	inv, err := env.invUC.CreateFromOffer(context.Background(), offer.ID, "buchhaltung@example.de")
	require.NoError(t, err)

	assert.Equal(t, fmt.Sprintf("RE-%d-00001", time.Now().Year()), inv.Number)
	require.NotNil(t, inv.OfferID)
	assert.Equal(t, offer.ID, *inv.OfferID)
	assert.Equal(t, entity.InvoiceStatusOpen, inv.Status)
	require.Len(t, inv.Items, 2)

	// Reservierung weg, Bestand um die Angebotsmenge reduziert.
	snap, err := env.mov.GetSnapshot(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.True(t, snap.Reserved.IsZero())
	assert.True(t, snap.Total.Equal(dec("400")))
	assert.True(t, snap.Free.Equal(dec("400")))
}

func TestCreateFromOffer_RequiresAcceptedOffer(t *testing.T) {
	env := newBillingEnv(inventory.Config{})
	offer := createOffer(t, env)

	_, err := env.invUC.CreateFromOffer(context.Background(), offer.ID, "x")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = env.invUC.CreateFromOffer(context.Background(), 999, "x")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateDirect_BooksOutgoingMovements(t *testing.T) {
	env := newBillingEnv(inventory.Config{})
	seedStock(t, env, 1, "50")

	inv, err := env.invUC.CreateDirect(context.Background(), billing.CreateInvoiceInput{
		CustomerID: 7,
		Items: []billing.ItemInput{
			{ProductID: 1, Quantity: dec("30")},
			{ProductID: 2, Quantity: dec("1")},
		},
		CreatedBy: "buchhaltung@example.de",
	})
	require.NoError(t, err)
	assert.Nil(t, inv.OfferID)

	snap, err := env.mov.GetSnapshot(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.True(t, snap.Total.Equal(dec("20")))

	// Dienstleistungsposition ohne Journalbewegung.
	svcSnap, err := env.mov.GetSnapshot(context.Background(), 2, 1)
	require.NoError(t, err)
	assert.True(t, svcSnap.Total.IsZero())
}

func TestCreateDirect_GuardStopsOversell(t *testing.T) {
	env := newBillingEnv(inventory.Config{PreventNegativeStock: true})
	seedStock(t, env, 1, "10")

	_, err := env.invUC.CreateDirect(context.Background(), billing.CreateInvoiceInput{
		CustomerID: 7,
		Items:      []billing.ItemInput{{ProductID: 1, Quantity: dec("11")}},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestCancel_BooksCompensatingInbound(t *testing.T) {
	env := newBillingEnv(inventory.Config{})
	seedStock(t, env, 1, "50")
	inv, err := env.invUC.CreateDirect(context.Background(), billing.CreateInvoiceInput{
		CustomerID: 7,
		Items:      []billing.ItemInput{{ProductID: 1, Quantity: dec("30")}},
	})
	require.NoError(t, err)

	require.NoError(t, env.invUC.Cancel(context.Background(), inv.ID, "buchhaltung@example.de"))

	stored, err := env.invoices.GetByID(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusCancelled, stored.Status)

	// Der OUT-Abgang bleibt stehen, der Storno-Zugang gleicht ihn aus.
	snap, err := env.mov.GetSnapshot(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.True(t, snap.Total.Equal(dec("50")))
	count, err := env.mov.CountAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestCancel_OnlyOpenInvoices(t *testing.T) {
	env := newBillingEnv(inventory.Config{})
	inv, err := env.invUC.CreateDirect(context.Background(), billing.CreateInvoiceInput{
		CustomerID: 7,
		Items:      []billing.ItemInput{{ProductID: 2, Quantity: dec("1")}},
	})
	require.NoError(t, err)
	require.NoError(t, env.invUC.MarkPaid(context.Background(), inv.ID, time.Now()))

	err = env.invUC.Cancel(context.Background(), inv.ID, "x")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestMarkPaid_StampsPaidAt(t *testing.T) {
	env := newBillingEnv(inventory.Config{})
	inv, err := env.invUC.CreateDirect(context.Background(), billing.CreateInvoiceInput{
		CustomerID: 7,
		Items:      []billing.ItemInput{{ProductID: 2, Quantity: dec("1")}},
	})
	require.NoError(t, err)

	paidAt := time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)
	require.NoError(t, env.invUC.MarkPaid(context.Background(), inv.ID, paidAt))

	stored, err := env.invoices.GetByID(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusPaid, stored.Status)
	require.NotNil(t, stored.PaidAt)
	assert.True(t, stored.PaidAt.Equal(paidAt))

	err = env.invUC.MarkPaid(context.Background(), inv.ID, paidAt)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}
