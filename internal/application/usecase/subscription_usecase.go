package usecase

import (
	"context"

	"github.com/jhoicas/carwash-api/internal/domain/account"
	"github.com/jhoicas/carwash-api/internal/domain/entity"
	"github.com/jhoicas/carwash-api/internal/domain/repository"
)

// SubscriptionService decide si una sesión ya emitida sigue habilitada por la suscripción
// de su negocio. Aplica la misma regla que el login a rutas protegidas.
type SubscriptionService struct {
	subs repository.SubscriptionRepository
}

// NewSubscriptionService construye el servicio de suscripciones.
func NewSubscriptionService(subs repository.SubscriptionRepository) *SubscriptionService {
	return &SubscriptionService{subs: subs}
}

// SessionAllowed devuelve true para roles que no dependen de suscripción.
// Para admin y staff exige business_id con al menos una suscripción activa.
// Devuelve error solo ante fallos de infraestructura.
func (s *SubscriptionService) SessionAllowed(ctx context.Context, role entity.Role, businessID *int64) (bool, error) {
	if !account.RequiresSubscription(role) {
		return true, nil
	}
	if !account.HasBusiness(businessID) {
		return false, nil
	}
	return s.subs.HasActiveSubscription(ctx, *businessID)
}
