package entity

import "time"

// Customer ist ein Kunde (Debitor).
type Customer struct {
	ID        int64
	Number    string // Kundennummer, z. B. "KD-1042"
	Name      string
	Street    string
	ZIP       string
	City      string
	Country   string // ISO-3166-1 alpha-2, Standard "DE"
	Email     string
	Phone     string
	VATID     string // USt-IdNr., optional
	CreatedAt time.Time
	UpdatedAt time.Time
}
