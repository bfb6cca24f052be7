package security

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/carwash-api/internal/domain"
)

// DefaultCost factor de trabajo por defecto (equivalente a genSalt(10)).
const DefaultCost = 10

// maxPasswordBytes límite de entrada de bcrypt.
const maxPasswordBytes = 72

// BcryptHasher deriva y verifica password_hash con bcrypt. La sal va embebida en el hash.
type BcryptHasher struct {
	cost      int
	dummyHash []byte
}

// NewBcryptHasher valida el costo y precalcula un hash de relleno para igualar
// el tiempo de respuesta cuando el usuario no existe.
func NewBcryptHasher(cost int) (*BcryptHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt: costo %d fuera de rango [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("carwash-dummy-password"), cost)
	if err != nil {
		return nil, fmt.Errorf("bcrypt: hash de relleno: %w", err)
	}
	return &BcryptHasher{cost: cost, dummyHash: dummy}, nil
}

// Hash genera el hash de password con sal aleatoria.
func (h *BcryptHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", domain.ErrMissingRequiredField
	}
	if len(password) > maxPasswordBytes {
		return "", domain.ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(hash), nil
}

// Compare informa si password corresponde a hash. Un hash corrupto es error, no un simple "no coincide".
func (h *BcryptHasher) Compare(hash, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("bcrypt: %w", err)
}

// CompareDummy consume el mismo tiempo que Compare sin que exista cuenta.
func (h *BcryptHasher) CompareDummy(password string) {
	_ = bcrypt.CompareHashAndPassword(h.dummyHash, []byte(password))
}
