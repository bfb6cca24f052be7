package domain

import "errors"

// Clases de error de dominio (sin dependencias externas).
// La capa HTTP traduce cada clase a un código estable (400/409/401/403).
// Cualquier error que no envuelva una de estas clases es un error interno (500).
var (
	ErrInvalidInput = errors.New("entrada inválida")
	ErrConflict     = errors.New("conflicto con el estado actual")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
)

// Errores concretos: el mensaje es visible para el cliente, la clase decide el código HTTP.
var (
	ErrMissingRequiredField = newKindError(ErrInvalidInput, "missing required field")
	ErrInvalidRole          = newKindError(ErrInvalidInput, "invalid role")
	ErrBusinessIDRequired   = newKindError(ErrInvalidInput, "business_id required")
	ErrPasswordTooLong      = newKindError(ErrInvalidInput, "password too long")
	ErrUsernameTooLong      = newKindError(ErrInvalidInput, "username too long")

	ErrUsernameAlreadyExists = newKindError(ErrConflict, "username already exists")

	// Usuario inexistente y contraseña incorrecta comparten este error a propósito.
	ErrInvalidCredentials = newKindError(ErrUnauthorized, "invalid credentials")

	ErrVerificationRequired = newKindError(ErrForbidden, "verification required")
	ErrAccountSuspended     = newKindError(ErrForbidden, "account suspended")
	ErrRoleMismatch         = newKindError(ErrForbidden, "role mismatch")
	ErrSubscriptionInactive = newKindError(ErrForbidden, "subscription inactive")
)

// kindError asocia un mensaje concreto a una clase de error.
type kindError struct {
	kind error
	msg  string
}

func newKindError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

// IsKnown informa si err pertenece a alguna clase de error de dominio.
func IsKnown(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrForbidden)
}
