package repository

import (
	"context"

	"github.com/fakturahaus/faktura-api/internal/domain/entity"
)

// UserRepository ist der Persistenz-Port für Benutzer.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByID(ctx context.Context, id string) (*entity.User, error)
}
