// Package account contiene las reglas de decisión de registro y login,
// sin dependencias de infraestructura.
package account

import (
	"errors"

	"github.com/jhoicas/carwash-api/internal/domain"
	"github.com/jhoicas/carwash-api/internal/domain/entity"
)

// errInvalidHash protege el invariante password_hash != "" y != texto plano.
var errInvalidHash = errors.New("account: hash de contraseña inválido")

// RegistrationInput datos crudos de una solicitud de registro.
type RegistrationInput struct {
	Username    string
	Password    string
	Role        entity.Role
	BusinessID  *int64
	Name        *string
	PhoneNumber *string
}

// ValidateRegistration aplica las validaciones en orden: campos requeridos,
// rol reconocido y business_id para roles con tenant. No toca el store.
func ValidateRegistration(in RegistrationInput) error {
	if in.Username == "" || in.Password == "" || in.Role == "" {
		return domain.ErrMissingRequiredField
	}
	if !in.Role.Valid() {
		return domain.ErrInvalidRole
	}
	if in.Role.TenantScoped() && !HasBusiness(in.BusinessID) {
		return domain.ErrBusinessIDRequired
	}
	return nil
}

// HasBusiness trata nil, cero y negativos como ausentes.
func HasBusiness(id *int64) bool {
	return id != nil && *id > 0
}

// Credentials identidad de login ya hasheada.
type Credentials struct {
	Username     string
	PasswordHash string
}

// Registration es la variante de alta según el rol. Cada variante lleva
// exactamente los campos que se persisten para ese rol.
type Registration interface {
	Role() entity.Role
	Credentials() Credentials
	registration()
}

// AdminRegistration dueño de negocio: business_id obligatorio.
type AdminRegistration struct {
	Creds      Credentials
	BusinessID int64
}

// CustomerRegistration cliente de un negocio con datos de perfil opcionales.
type CustomerRegistration struct {
	Creds       Credentials
	BusinessID  int64
	Name        *string
	PhoneNumber *string
}

// StaffOrSuperadminRegistration alta sin business_id.
type StaffOrSuperadminRegistration struct {
	Creds Credentials
	role  entity.Role
}

func (AdminRegistration) Role() entity.Role { return entity.RoleAdmin }
func (r AdminRegistration) Credentials() Credentials { return r.Creds }
func (AdminRegistration) registration() {}
func (CustomerRegistration) Role() entity.Role { return entity.RoleCustomer }
func (r CustomerRegistration) Credentials() Credentials { return r.Creds }
func (CustomerRegistration) registration() {}
func (r StaffOrSuperadminRegistration) Role() entity.Role { return r.role }
func (r StaffOrSuperadminRegistration) Credentials() Credentials { return r.Creds }
func (StaffOrSuperadminRegistration) registration() {}

// NewRegistration valida la entrada y construye la variante correspondiente al rol.
// passwordHash debe venir ya calculado; el texto plano no se conserva.
func NewRegistration(in RegistrationInput, passwordHash string) (Registration, error) {
	if err := ValidateRegistration(in); err != nil {
		return nil, err
	}
	if passwordHash == "" || passwordHash == in.Password {
		return nil, errInvalidHash
	}
	creds := Credentials{Username: in.Username, PasswordHash: passwordHash}
	switch in.Role {
	case entity.RoleAdmin:
		return AdminRegistration{Creds: creds, BusinessID: *in.BusinessID}, nil
	case entity.RoleCustomer:
		return CustomerRegistration{
			Creds:       creds,
			BusinessID:  *in.BusinessID,
			Name:        in.Name,
			PhoneNumber: in.PhoneNumber,
		}, nil
	default:
		return StaffOrSuperadminRegistration{Creds: creds, role: in.Role}, nil
	}
}

// PendingAccount describe la cuenta tal como queda tras el insert con el id asignado.
func PendingAccount(reg Registration, id int64) entity.Account {
	creds := reg.Credentials()
	acc := entity.Account{
		ID:           id,
		Username:     creds.Username,
		PasswordHash: creds.PasswordHash,
		Role:         reg.Role(),
		Status:       entity.StatusPending,
	}
	switch r := reg.(type) {
	case AdminRegistration:
		acc.BusinessID = &r.BusinessID
	case CustomerRegistration:
		acc.BusinessID = &r.BusinessID
		acc.Name = r.Name
		acc.PhoneNumber = r.PhoneNumber
	}
	return acc
}
