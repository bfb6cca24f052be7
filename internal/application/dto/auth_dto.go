package dto

// RegisterRequest entrada para registro. business_id es obligatorio para admin y customer;
// name y phone_number solo se guardan para customer.
type RegisterRequest struct {
	Username    string  `json:"username" validate:"required,max=255"`
	Password    string  `json:"password" validate:"required,max=72"`
	Role        string  `json:"role" validate:"required,oneof=superadmin admin staff customer"`
	BusinessID  *int64  `json:"business_id,omitempty"`
	Name        *string `json:"name,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`
}

// RegisterResponse salida del registro: no se emite token hasta verificar la cuenta.
type RegisterResponse struct {
	Message string `json:"message"`
	UserID  int64  `json:"userId"`
}

// LoginRequest entrada para login. role_attempt es el tipo de acceso que elige el usuario.
type LoginRequest struct {
	Username    string `json:"username" validate:"required"`
	Password    string `json:"password" validate:"required"`
	RoleAttempt string `json:"role_attempt" validate:"required"`
}

// AccountSummary datos no sensibles de la cuenta (nunca password_hash).
type AccountSummary struct {
	ID          int64   `json:"id"`
	Username    string  `json:"username"`
	Role        string  `json:"role"`
	BusinessID  *int64  `json:"business_id"`
	Name        *string `json:"name"`
	PhoneNumber *string `json:"phone_number"`
}

// LoginResponse salida con token JWT y resumen de la cuenta.
type LoginResponse struct {
	Message string         `json:"message"`
	Token   string         `json:"token"`
	User    AccountSummary `json:"user"`
}

// SessionResponse claims verificados del token (GET /api/auth/me).
type SessionResponse struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	Role       string `json:"role"`
	BusinessID *int64 `json:"business_id"`
}
