package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/carwash-api/internal/domain"
	"github.com/jhoicas/carwash-api/internal/domain/account"
	"github.com/jhoicas/carwash-api/internal/domain/entity"
	"github.com/jhoicas/carwash-api/internal/domain/repository"
)

var _ repository.AccountRepository = (*AccountRepo)(nil)

// AccountRepo implementación del puerto AccountRepository sobre PostgreSQL (usable con pool, conn o tx).
type AccountRepo struct {
	q Querier
}

// NewAccountRepository construye el adaptador de persistencia para cuentas.
func NewAccountRepository(q Querier) *AccountRepo {
	return &AccountRepo{q: q}
}

// Create persiste la cuenta con la forma de insert que corresponde a la variante de registro.
func (r *AccountRepo) Create(ctx context.Context, reg account.Registration) (int64, error) {
	query, args, err := insertFor(reg)
	if err != nil {
		return 0, err
	}
	var id int64
	if err := r.q.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		if isUniqueViolation(err) {
			return 0, domain.ErrUsernameAlreadyExists
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}
	return id, nil
}

// insertFor arma el INSERT según el rol: admin y customer llevan business_id,
// customer además nombre y teléfono; staff y superadmin solo credenciales.
func insertFor(reg account.Registration) (string, []any, error) {
	creds := reg.Credentials()
	role := string(reg.Role())
	switch v := reg.(type) {
	case account.AdminRegistration:
		return `
		INSERT INTO users (business_id, username, password_hash, role, status)
		VALUES ($1, $2, $3, $4, 'pending')
		RETURNING id`, []any{v.BusinessID, creds.Username, creds.PasswordHash, role}, nil
	case account.CustomerRegistration:
		return `
		INSERT INTO users (business_id, username, password_hash, role, status, name, phone_number)
		VALUES ($1, $2, $3, $4, 'pending', $5, $6)
		RETURNING id`, []any{v.BusinessID, creds.Username, creds.PasswordHash, role, v.Name, v.PhoneNumber}, nil
	case account.StaffOrSuperadminRegistration:
		return `
		INSERT INTO users (username, password_hash, role, status)
		VALUES ($1, $2, $3, 'pending')
		RETURNING id`, []any{creds.Username, creds.PasswordHash, role}, nil
	default:
		return "", nil, fmt.Errorf("insert user: variante de registro desconocida %T", reg)
	}
}

// FindByUsername obtiene una cuenta por username. Devuelve (nil, nil) si no existe.
func (r *AccountRepo) FindByUsername(ctx context.Context, username string) (*entity.Account, error) {
	query := `
		SELECT id, business_id, username, password_hash, role, status, name, phone_number, created_at, updated_at
		FROM users WHERE username = $1`
	var (
		u            entity.Account
		role, status string
	)
	err := r.q.QueryRow(ctx, query, username).Scan(
		&u.ID, &u.BusinessID, &u.Username, &u.PasswordHash, &role, &status,
		&u.Name, &u.PhoneNumber, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	u.Role = entity.Role(role)
	u.Status = entity.Status(status)
	return &u, nil
}
