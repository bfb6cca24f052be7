package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/carwash-api/internal/domain/entity"
	"github.com/jhoicas/carwash-api/internal/domain/repository"
)

var _ repository.SubscriptionRepository = (*SubscriptionRepo)(nil)

// SubscriptionRepo lectura de suscripciones sobre PostgreSQL.
type SubscriptionRepo struct {
	q Querier
}

// NewSubscriptionRepository construye el adaptador. Pasar pool, conn o tx.
func NewSubscriptionRepository(q Querier) *SubscriptionRepo {
	return &SubscriptionRepo{q: q}
}

// HasActiveSubscription informa si el negocio tiene al menos una suscripción activa.
func (r *SubscriptionRepo) HasActiveSubscription(ctx context.Context, businessID int64) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM subscriptions
			 WHERE business_id = $1
			   AND status      = $2
		)`
	var active bool
	if err := r.q.QueryRow(ctx, query, businessID, entity.SubscriptionActive).Scan(&active); err != nil {
		return false, fmt.Errorf("check subscription for business %d: %w", businessID, err)
	}
	return active, nil
}
