package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fakturahaus/faktura-api/internal/domain"
	"github.com/fakturahaus/faktura-api/internal/domain/entity"
)

func TestParseMovementType(t *testing.T) {
	for _, s := range []string{"IN", "OUT", "RESERVE", "ADJUST"} {
		mt, err := entity.ParseMovementType(s)
		require.NoError(t, err)
		assert.Equal(t, entity.MovementType(s), mt)
		assert.True(t, mt.Valid())
	}

	// Die Aufzählung ist geschlossen: alles andere scheitert an der Grenze.
	for _, s := range []string{"", "in", "TRANSFER", "RETURN", " IN"} {
		_, err := entity.ParseMovementType(s)
		assert.ErrorIs(t, err, domain.ErrUnknownMovement, "Eingabe %q", s)
	}
}

func TestSignedQuantity(t *testing.T) {
	q := decimal.NewFromInt(3)
	assert.True(t, (&entity.StockMovement{Type: entity.MovementIN, Quantity: q}).SignedQuantity().Equal(q))
	assert.True(t, (&entity.StockMovement{Type: entity.MovementOUT, Quantity: q}).SignedQuantity().Equal(q.Neg()))
	assert.True(t, (&entity.StockMovement{Type: entity.MovementADJUST, Quantity: q.Neg()}).SignedQuantity().Equal(q.Neg()))
	// RESERVE trägt nichts zum Gesamtbestand bei.
	assert.True(t, (&entity.StockMovement{Type: entity.MovementRESERVE, Quantity: q}).SignedQuantity().IsZero())
}
