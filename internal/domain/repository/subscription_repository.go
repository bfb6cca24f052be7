package repository

import "context"

// SubscriptionRepository puerto de lectura de suscripciones por negocio.
type SubscriptionRepository interface {
	HasActiveSubscription(ctx context.Context, businessID int64) (bool, error)
}
