package repository

import (
	"context"

	"github.com/fakturahaus/faktura-api/internal/domain/entity"
)

// OfferRepository ist der Persistenz-Port für Angebote inklusive Positionen.
type OfferRepository interface {
	// Create persistiert Angebot plus Positionen und liefert die Angebots-ID.
	Create(ctx context.Context, o *entity.Offer) (int64, error)
	// GetByID lädt das Angebot mit Positionen; nil bei Unbekannt.
	GetByID(ctx context.Context, id int64) (*entity.Offer, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	List(ctx context.Context, status string, limit, offset int) ([]*entity.Offer, error)
}
