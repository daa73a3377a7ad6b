// Package xrechnung erzeugt UBL-2.1-Rechnungs-XML nach dem deutschen
// XRechnung-Profil (EN 16931).
package xrechnung

import (
	"fmt"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/fakturahaus/faktura-api/internal/domain/entity"
)

// UBL-Namespaces und Profilkennung.
const (
	nsInvoice = "urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"
	nsCAC     = "urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
	nsCBC     = "urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"

	customizationID = "urn:cen.eu:en16931:2017#compliant#urn:xeinkauf.de:kosit:xrechnung_3.0"
	profileID       = "urn:fdc:peppol.eu:2017:poacc:billing:01:1.0"

	// invoiceTypeCode 380 = Handelsrechnung (UNTDID 1001).
	invoiceTypeCode = "380"
)

// Seller sind die Verkäuferdaten im XML.
type Seller struct {
	Name    string
	Street  string
	ZIP     string
	City    string
	Country string // ISO-3166-1 alpha-2
	Email   string
	VATID   string
	IBAN    string
	BIC     string
}

// Builder erzeugt XRechnung-XML für Rechnungen.
type Builder struct {
	seller Seller
}

// NewBuilder baut den Builder mit den Verkäuferdaten.
func NewBuilder(seller Seller) *Builder {
	if seller.Country == "" {
		seller.Country = "DE"
	}
	return &Builder{seller: seller}
}

// Build serialisiert die Rechnung als UBL-2.1-XML. buyerReference ist die
// Leitweg-ID des Rechnungsempfängers; fehlt sie, wird die Kundennummer
// eingesetzt (Pflichtfeld BT-10).
func (b *Builder) Build(inv *entity.Invoice, customer *entity.Customer, buyerReference string) ([]byte, error) {
	if inv == nil || customer == nil {
		return nil, fmt.Errorf("xrechnung: Rechnung und Kunde erforderlich")
	}
	if buyerReference == "" {
		buyerReference = customer.Number
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("Invoice")
	root.CreateAttr("xmlns", nsInvoice)
	root.CreateAttr("xmlns:cac", nsCAC)
	root.CreateAttr("xmlns:cbc", nsCBC)

	cbc(root, "CustomizationID", customizationID)
	cbc(root, "ProfileID", profileID)
	cbc(root, "ID", inv.Number)
	cbc(root, "IssueDate", inv.IssueDate.Format("2006-01-02"))
	cbc(root, "DueDate", inv.DueDate.Format("2006-01-02"))
	cbc(root, "InvoiceTypeCode", invoiceTypeCode)
	if inv.Note != "" {
		cbc(root, "Note", inv.Note)
	}
	cbc(root, "DocumentCurrencyCode", "EUR")
	cbc(root, "BuyerReference", buyerReference)

	b.appendSupplier(root)
	appendCustomer(root, customer)
	b.appendPaymentMeans(root)

	net, vat, gross := inv.Totals()
	appendTaxTotal(root, inv.Items, vat)
	appendMonetaryTotal(root, net, gross)

	for i := range inv.Items {
		appendInvoiceLine(root, &inv.Items[i])
	}

	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("xrechnung: XML serialisieren: %w", err)
	}
	return out, nil
}

func (b *Builder) appendSupplier(root *etree.Element) {
	party := root.CreateElement("cac:AccountingSupplierParty").CreateElement("cac:Party")

	addr := party.CreateElement("cac:PostalAddress")
	cbc(addr, "StreetName", b.seller.Street)
	cbc(addr, "CityName", b.seller.City)
	cbc(addr, "PostalZone", b.seller.ZIP)
	cbc(addr.CreateElement("cac:Country"), "IdentificationCode", b.seller.Country)

	if b.seller.VATID != "" {
		scheme := party.CreateElement("cac:PartyTaxScheme")
		cbc(scheme, "CompanyID", b.seller.VATID)
		cbc(scheme.CreateElement("cac:TaxScheme"), "ID", "VAT")
	}

	legal := party.CreateElement("cac:PartyLegalEntity")
	cbc(legal, "RegistrationName", b.seller.Name)

	if b.seller.Email != "" {
		contact := party.CreateElement("cac:Contact")
		cbc(contact, "ElectronicMail", b.seller.Email)
	}
}

func appendCustomer(root *etree.Element, customer *entity.Customer) {
	party := root.CreateElement("cac:AccountingCustomerParty").CreateElement("cac:Party")

	addr := party.CreateElement("cac:PostalAddress")
	cbc(addr, "StreetName", customer.Street)
	cbc(addr, "CityName", customer.City)
	cbc(addr, "PostalZone", customer.ZIP)
	country := customer.Country
	if country == "" {
		country = "DE"
	}
	cbc(addr.CreateElement("cac:Country"), "IdentificationCode", country)

	if customer.VATID != "" {
		scheme := party.CreateElement("cac:PartyTaxScheme")
		cbc(scheme, "CompanyID", customer.VATID)
		cbc(scheme.CreateElement("cac:TaxScheme"), "ID", "VAT")
	}

	legal := party.CreateElement("cac:PartyLegalEntity")
	cbc(legal, "RegistrationName", customer.Name)
}

func (b *Builder) appendPaymentMeans(root *etree.Element) {
	if b.seller.IBAN == "" {
		return
	}
	// PaymentMeansCode 58 = SEPA-Überweisung.
	means := root.CreateElement("cac:PaymentMeans")
	cbc(means, "PaymentMeansCode", "58")
	account := means.CreateElement("cac:PayeeFinancialAccount")
	cbc(account, "ID", b.seller.IBAN)
	cbc(account, "Name", b.seller.Name)
	if b.seller.BIC != "" {
		branch := account.CreateElement("cac:FinancialInstitutionBranch")
		cbc(branch, "ID", b.seller.BIC)
	}
}

// appendTaxTotal gruppiert die Positionen nach Steuersatz (BG-23 je Satz).
func appendTaxTotal(root *etree.Element, items []entity.DocumentItem, vatTotal decimal.Decimal) {
	taxTotal := root.CreateElement("cac:TaxTotal")
	amount(taxTotal, "cbc:TaxAmount", vatTotal)

	type group struct {
		net decimal.Decimal
		vat decimal.Decimal
	}
	groups := map[string]*group{}
	var order []string
	for i := range items {
		it := &items[i]
		key := it.VATRate.String()
		g, ok := groups[key]
		if !ok {
			g = &group{}
			groups[key] = g
			order = append(order, key)
		}
		g.net = g.net.Add(it.Net())
		g.vat = g.vat.Add(it.VAT())
	}

	for _, key := range order {
		g := groups[key]
		sub := taxTotal.CreateElement("cac:TaxSubtotal")
		amount(sub, "cbc:TaxableAmount", g.net)
		amount(sub, "cbc:TaxAmount", g.vat)
		cat := sub.CreateElement("cac:TaxCategory")
		// Kategorie S = Standardsatz, Z = Nullsatz (UNTDID 5305).
		code := "S"
		if key == "0" {
			code = "Z"
		}
		cbc(cat, "ID", code)
		cbc(cat, "Percent", key)
		cbc(cat.CreateElement("cac:TaxScheme"), "ID", "VAT")
	}
}

func appendMonetaryTotal(root *etree.Element, net, gross decimal.Decimal) {
	total := root.CreateElement("cac:LegalMonetaryTotal")
	amount(total, "cbc:LineExtensionAmount", net)
	amount(total, "cbc:TaxExclusiveAmount", net)
	amount(total, "cbc:TaxInclusiveAmount", gross)
	amount(total, "cbc:PayableAmount", gross)
}

func appendInvoiceLine(root *etree.Element, it *entity.DocumentItem) {
	line := root.CreateElement("cac:InvoiceLine")
	cbc(line, "ID", fmt.Sprintf("%d", it.Position))

	qty := line.CreateElement("cbc:InvoicedQuantity")
	// C62 = Stück (UN/ECE Rec 20); die Einheit kommt nicht mit auf den Beleg.
	qty.CreateAttr("unitCode", "C62")
	qty.SetText(it.Quantity.String())

	amount(line, "cbc:LineExtensionAmount", it.Net())

	item := line.CreateElement("cac:Item")
	cbc(item, "Name", it.Description)
	cat := item.CreateElement("cac:ClassifiedTaxCategory")
	code := "S"
	if it.VATRate.IsZero() {
		code = "Z"
	}
	cbc(cat, "ID", code)
	cbc(cat, "Percent", it.VATRate.String())
	cbc(cat.CreateElement("cac:TaxScheme"), "ID", "VAT")

	price := line.CreateElement("cac:Price")
	amount(price, "cbc:PriceAmount", it.UnitPrice)
}

// cbc hängt ein cbc:-Blattelement mit Text an.
func cbc(parent *etree.Element, tag, text string) *etree.Element {
	el := parent.CreateElement("cbc:" + tag)
	el.SetText(text)
	return el
}

// amount hängt ein Betragselement mit currencyID EUR an.
func amount(parent *etree.Element, tag string, d decimal.Decimal) {
	el := parent.CreateElement(tag)
	el.CreateAttr("currencyID", "EUR")
	el.SetText(d.Round(2).StringFixed(2))
}
