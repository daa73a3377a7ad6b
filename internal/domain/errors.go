package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Domänenfehler (ohne externe Abhängigkeiten).
var (
	ErrNotFound           = errors.New("Ressource nicht gefunden")
	ErrInvalidInput       = errors.New("ungültige Eingabe")
	ErrDuplicate          = errors.New("Ressource bereits vorhanden")
	ErrUnauthorized       = errors.New("nicht autorisiert")
	ErrForbidden          = errors.New("Zugriff verweigert")
	ErrConflict           = errors.New("Konflikt mit dem aktuellen Zustand")
	ErrInsufficientStock  = errors.New("Bestand nicht ausreichend")
	ErrUnknownMovement    = errors.New("unbekannte Bewegungsart")
	ErrInvalidTransition  = errors.New("ungültiger Statusübergang")
	ErrEmailAlreadyExists = errors.New("E-Mail ist bereits registriert")
)

// InsufficientStockError trägt angeforderte und verfügbare Menge, damit die
// Fehlermeldung beide Werte nennt. errors.Is gegen ErrInsufficientStock
// funktioniert weiterhin.
type InsufficientStockError struct {
	ProductID   int64
	WarehouseID int64
	Requested   decimal.Decimal
	Available   decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Bestand nicht ausreichend: angefordert %s, verfügbar %s (Artikel %d, Lager %d)",
		e.Requested.String(), e.Available.String(), e.ProductID, e.WarehouseID)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
