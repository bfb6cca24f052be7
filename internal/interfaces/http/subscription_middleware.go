package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/carwash-api/internal/application/dto"
	"github.com/jhoicas/carwash-api/internal/domain/entity"
)

// SubscriptionChecker es el contrato mínimo que necesita el middleware.
// Lo implementa *usecase.SubscriptionService.
type SubscriptionChecker interface {
	SessionAllowed(ctx context.Context, role entity.Role, businessID *int64) (bool, error)
}

// RequireActiveSubscription revalida en cada request la regla de suscripción del login
// para sesiones admin/staff ya emitidas. Debe usarse DESPUÉS de AuthMiddleware.
//
// Comportamiento:
//   - 403 SUBSCRIPTION_INACTIVE → el negocio ya no tiene suscripción activa.
//   - 503 SUBSCRIPTION_CHECK_FAILED → fallo de infraestructura al consultar la DB.
//   - 401 si no hay sesión en el contexto.
func RequireActiveSubscription(checker SubscriptionChecker, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s := GetSession(c)
		if s == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "sesión no encontrada",
			})
		}

		ok, err := checker.SessionAllowed(c.UserContext(), entity.Role(s.Role), s.BusinessID)
		if err != nil {
			log.Error().Err(err).Int64("user_id", s.ID).Msg("verificación de suscripción")
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "SUBSCRIPTION_CHECK_FAILED",
				Message: "no se pudo verificar la suscripción, intente más tarde",
			})
		}
		if !ok {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "SUBSCRIPTION_INACTIVE",
				Message: "subscription inactive",
			})
		}
		return c.Next()
	}
}
