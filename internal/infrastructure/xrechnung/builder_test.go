package xrechnung

import (
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fakturahaus/faktura-api/internal/domain/entity"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func sampleInvoice() (*entity.Invoice, *entity.Customer) {
	inv := &entity.Invoice{
		ID:         42,
		Number:     "RE-2026-00042",
		CustomerID: 7,
		Status:     entity.InvoiceStatusOpen,
		IssueDate:  time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		DueDate:    time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC),
		Items: []entity.DocumentItem{
			{Position: 1, ProductID: 1, Description: "Schraube M8", Quantity: dec("100"), UnitPrice: dec("0.12"), VATRate: dec("19")},
			{Position: 2, ProductID: 2, Description: "Fachbuch", Quantity: dec("1"), UnitPrice: dec("30"), VATRate: dec("7")},
		},
	}
	customer := &entity.Customer{
		ID:      7,
		Number:  "KD-1042",
		Name:    "Beispiel GmbH",
		Street:  "Musterstraße 1",
		ZIP:     "10115",
		City:    "Berlin",
		Country: "DE",
		VATID:   "DE123456789",
	}
	return inv, customer
}

func testBuilder() *Builder {
	return NewBuilder(Seller{
		Name:   "Fakturahaus GmbH",
		Street: "Rechnungsweg 2",
		ZIP:    "50667",
		City:   "Köln",
		Email:  "rechnung@fakturahaus.example",
		VATID:  "DE987654321",
		IBAN:   "DE02120300000000202051",
		BIC:    "BYLADEM1001",
	})
}

func TestBuild_HeaderFelder(t *testing.T) {
	inv, customer := sampleInvoice()

	out, err := testBuilder().Build(inv, customer, "04011000-1234512345-06")
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))
	root := doc.Root()
	require.NotNil(t, root)
	assert.Equal(t, "Invoice", root.Tag)

	assert.Equal(t, "RE-2026-00042", root.FindElement("cbc:ID").Text())
	assert.Equal(t, "2026-08-01", root.FindElement("cbc:IssueDate").Text())
	assert.Equal(t, "2026-08-15", root.FindElement("cbc:DueDate").Text())
	assert.Equal(t, "380", root.FindElement("cbc:InvoiceTypeCode").Text())
	assert.Equal(t, "EUR", root.FindElement("cbc:DocumentCurrencyCode").Text())
	assert.Equal(t, "04011000-1234512345-06", root.FindElement("cbc:BuyerReference").Text())
}

func TestBuild_KundennummerAlsBuyerReferenceFallback(t *testing.T) {
	inv, customer := sampleInvoice()

	out, err := testBuilder().Build(inv, customer, "")
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))
	assert.Equal(t, "KD-1042", doc.Root().FindElement("cbc:BuyerReference").Text())
}

func TestBuild_SummenUndSteuergruppen(t *testing.T) {
	inv, customer := sampleInvoice()

	out, err := testBuilder().Build(inv, customer, "x")
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))
	root := doc.Root()

	// Netto 12 + 30 = 42, USt 2,28 + 2,10 = 4,38, Brutto 46,38.
	assert.Equal(t, "4.38", root.FindElement("cac:TaxTotal/cbc:TaxAmount").Text())
	assert.Equal(t, "42.00", root.FindElement("cac:LegalMonetaryTotal/cbc:LineExtensionAmount").Text())
	assert.Equal(t, "46.38", root.FindElement("cac:LegalMonetaryTotal/cbc:PayableAmount").Text())

	subtotals := root.FindElements("cac:TaxTotal/cac:TaxSubtotal")
	require.Len(t, subtotals, 2)
	assert.Equal(t, "19", subtotals[0].FindElement("cac:TaxCategory/cbc:Percent").Text())
	assert.Equal(t, "7", subtotals[1].FindElement("cac:TaxCategory/cbc:Percent").Text())

	lines := root.FindElements("cac:InvoiceLine")
	require.Len(t, lines, 2)
	assert.Equal(t, "Schraube M8", lines[0].FindElement("cac:Item/cbc:Name").Text())
	assert.Equal(t, "0.12", lines[0].FindElement("cac:Price/cbc:PriceAmount").Text())
}

func TestBuild_Zahlungsweg(t *testing.T) {
	inv, customer := sampleInvoice()

	out, err := testBuilder().Build(inv, customer, "x")
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))
	root := doc.Root()

	assert.Equal(t, "58", root.FindElement("cac:PaymentMeans/cbc:PaymentMeansCode").Text())
	assert.Equal(t, "DE02120300000000202051", root.FindElement("cac:PaymentMeans/cac:PayeeFinancialAccount/cbc:ID").Text())
}
