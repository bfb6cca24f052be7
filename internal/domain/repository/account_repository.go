package repository

import (
	"context"

	"github.com/jhoicas/carwash-api/internal/domain/account"
	"github.com/jhoicas/carwash-api/internal/domain/entity"
)

// AccountRepository define el puerto de persistencia para cuentas (DIP).
type AccountRepository interface {
	// Create inserta la cuenta en estado pending y devuelve el id asignado.
	// Devuelve domain.ErrUsernameAlreadyExists si el username ya existe.
	Create(ctx context.Context, reg account.Registration) (int64, error)
	// FindByUsername devuelve (nil, nil) si no existe.
	FindByUsername(ctx context.Context, username string) (*entity.Account, error)
}
