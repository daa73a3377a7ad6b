package entity

import "time"

// Benutzerrollen.
const (
	RoleAdmin      = "admin"
	RoleBuchhalter = "buchhalter"
	RoleVertrieb   = "vertrieb"
)

// User ist ein Benutzer des Systems. PasswordHash ist ein bcrypt-Hash.
type User struct {
	ID           string // UUID
	Email        string
	Name         string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}
