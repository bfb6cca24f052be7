package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/carwash-api/internal/application/auth"
	"github.com/jhoicas/carwash-api/internal/domain/repository"
)

var _ auth.Store = (*Store)(nil)

// Store entrega repositorios atados a una conexión adquirida del pool
// y garantiza su liberación en todas las salidas, incluidas las de error.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore construye el store con el pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// WithinTx inicia una transacción, ejecuta fn con el repositorio de cuentas atado a la tx
// y hace Commit, o Rollback si fn falla.
func (s *Store) WithinTx(ctx context.Context, fn func(accounts repository.AccountRepository) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewAccountRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// WithConn adquiere una única conexión para toda la secuencia de lectura del login.
func (s *Store) WithConn(ctx context.Context, fn func(accounts repository.AccountRepository, subs repository.SubscriptionRepository) error) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	return fn(NewAccountRepository(conn), NewSubscriptionRepository(conn))
}

// Ping verifica la conectividad para /health.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}
