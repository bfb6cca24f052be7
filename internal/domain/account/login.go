package account

import (
	"github.com/jhoicas/carwash-api/internal/domain"
	"github.com/jhoicas/carwash-api/internal/domain/entity"
)

// LoginInput datos de una solicitud de login.
type LoginInput struct {
	Username    string
	Password    string
	RoleAttempt entity.Role
}

// ValidateLogin exige los tres campos.
func ValidateLogin(in LoginInput) error {
	if in.Username == "" || in.Password == "" || in.RoleAttempt == "" {
		return domain.ErrMissingRequiredField
	}
	return nil
}

// CheckStatus bloquea cuentas pendientes de verificación o suspendidas.
func CheckStatus(acc *entity.Account) error {
	switch acc.Status {
	case entity.StatusPending:
		return domain.ErrVerificationRequired
	case entity.StatusSuspended:
		return domain.ErrAccountSuspended
	}
	return nil
}

// CheckRole exige que el rol declarado coincida con el de la cuenta.
func CheckRole(acc *entity.Account, roleAttempt entity.Role) error {
	if acc.Role != roleAttempt {
		return domain.ErrRoleMismatch
	}
	return nil
}

// Authorize aplica estado y rol, en ese orden. Se evalúa solo con credenciales ya verificadas.
func Authorize(acc *entity.Account, roleAttempt entity.Role) error {
	if err := CheckStatus(acc); err != nil {
		return err
	}
	return CheckRole(acc, roleAttempt)
}

// RequiresSubscription indica si el rol depende de una suscripción activa del negocio.
// superadmin y customer no pasan por este control.
func RequiresSubscription(role entity.Role) bool {
	return role == entity.RoleAdmin || role == entity.RoleStaff
}
