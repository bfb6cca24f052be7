package entity

import "time"

// Business tenant que agrupa cuentas admin y customer.
// Su alta no forma parte del flujo de autenticación; solo la usa cmd/migrate para datos de ejemplo.
type Business struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}
