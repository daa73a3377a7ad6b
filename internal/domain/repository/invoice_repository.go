package repository

import (
	"context"
	"time"

	"github.com/fakturahaus/faktura-api/internal/domain/entity"
)

// InvoiceRepository ist der Persistenz-Port für Rechnungen und Mahnungen.
type InvoiceRepository interface {
	Create(ctx context.Context, inv *entity.Invoice) (int64, error)
	GetByID(ctx context.Context, id int64) (*entity.Invoice, error)
	UpdateStatus(ctx context.Context, id int64, status string, at time.Time) error
	List(ctx context.Context, status string, limit, offset int) ([]*entity.Invoice, error)
	// ListOverdue liefert offene Rechnungen, deren Fälligkeit plus Karenztage
	// am Stichtag überschritten ist und deren Mahnstufe unter maxLevel liegt.
	ListOverdue(ctx context.Context, at time.Time, graceDays, maxLevel int) ([]*entity.Invoice, error)
	// SetDunning erhöht die Mahnstufe der Rechnung.
	SetDunning(ctx context.Context, invoiceID int64, level int, at time.Time) error
	CreateDunningLetter(ctx context.Context, d *entity.DunningLetter) (int64, error)
	ListDunningLetters(ctx context.Context, invoiceID int64) ([]*entity.DunningLetter, error)
}

// NumberSequenceRepository vergibt fortlaufende Belegnummern je Belegart und
// Jahr (z. B. RE-2026-00042). Muss innerhalb einer Transaktion benutzt werden,
// wenn Lücken bei Abbrüchen vermieden werden sollen.
type NumberSequenceRepository interface {
	Next(ctx context.Context, docType string, year int) (int64, error)
}
