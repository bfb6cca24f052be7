package entity

import "time"

// Role rol de una cuenta. Inmutable después del registro.
type Role string

// Roles válidos para Account.
const (
	RoleSuperadmin Role = "superadmin"
	RoleAdmin      Role = "admin"
	RoleStaff      Role = "staff"
	RoleCustomer   Role = "customer"
)

// Valid informa si el rol es uno de los cuatro reconocidos.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperadmin, RoleAdmin, RoleStaff, RoleCustomer:
		return true
	}
	return false
}

// TenantScoped informa si el rol exige business_id al registrarse.
func (r Role) TenantScoped() bool {
	return r == RoleAdmin || r == RoleCustomer
}

// Status estado del ciclo de vida de la cuenta.
type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
)

// Account representa una fila de users.
type Account struct {
	ID           int64
	BusinessID   *int64 // nil para superadmin y staff registrados sin tenant
	Username     string
	PasswordHash string // bcrypt, nunca el texto plano
	Role         Role
	Status       Status
	Name         *string
	PhoneNumber  *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
