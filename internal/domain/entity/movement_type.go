package entity

import "github.com/fakturahaus/faktura-api/internal/domain"

// MovementType ist die geschlossene Aufzählung der Bewegungsarten im
// Lagerjournal. Alles andere wird an der Grenze abgelehnt.
type MovementType string

const (
	MovementIN      MovementType = "IN"      // Zugang
	MovementOUT     MovementType = "OUT"     // Abgang
	MovementRESERVE MovementType = "RESERVE" // Reservierung gegen ein Dokument
	MovementADJUST  MovementType = "ADJUST"  // manuelle, vorzeichenbehaftete Korrektur
)

// ParseMovementType validiert einen rohen String gegen die Aufzählung.
func ParseMovementType(s string) (MovementType, error) {
	switch MovementType(s) {
	case MovementIN, MovementOUT, MovementRESERVE, MovementADJUST:
		return MovementType(s), nil
	}
	return "", domain.ErrUnknownMovement
}

// Valid meldet, ob der Typ einer der vier bekannten ist.
func (t MovementType) Valid() bool {
	switch t {
	case MovementIN, MovementOUT, MovementRESERVE, MovementADJUST:
		return true
	}
	return false
}
