package auth

import (
	"context"

	"github.com/jhoicas/carwash-api/internal/domain/entity"
	"github.com/jhoicas/carwash-api/internal/domain/repository"
)

// Store entrega repositorios atados a una conexión del pool y la libera al terminar,
// también cuando fn devuelve error.
type Store interface {
	// WithinTx ejecuta fn en una transacción: Commit si fn termina bien, Rollback si no.
	WithinTx(ctx context.Context, fn func(accounts repository.AccountRepository) error) error
	// WithConn ejecuta fn sobre una única conexión para toda la secuencia de lectura.
	WithConn(ctx context.Context, fn func(accounts repository.AccountRepository, subs repository.SubscriptionRepository) error) error
}

// PasswordHasher deriva y verifica password_hash.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) (bool, error)
	// CompareDummy iguala el costo de una verificación cuando el username no existe.
	CompareDummy(password string)
}

// VerificationNotifier se invoca después del commit del registro.
// Su error se registra y nunca deshace la cuenta ya creada.
type VerificationNotifier interface {
	NotifyRegistered(ctx context.Context, acc entity.Account) error
}

// Mailer capacidad sendMail(to, subject, body).
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}
