package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/carwash-api/internal/application/dto"
	"github.com/jhoicas/carwash-api/internal/domain"
)

// forbiddenCodes código estable por cada motivo de 403.
var forbiddenCodes = map[error]string{
	domain.ErrVerificationRequired: "VERIFICATION_REQUIRED",
	domain.ErrAccountSuspended:     "ACCOUNT_SUSPENDED",
	domain.ErrRoleMismatch:         "ROLE_MISMATCH",
	domain.ErrSubscriptionInactive: "SUBSCRIPTION_INACTIVE",
}

// statusFor traduce un error de dominio a (status HTTP, código). Todo lo no clasificado es 500.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, "USERNAME_EXISTS"
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, "INVALID_CREDENTIALS"
	case errors.Is(err, domain.ErrForbidden):
		for target, code := range forbiddenCodes {
			if errors.Is(err, target) {
				return fiber.StatusForbidden, code
			}
		}
		return fiber.StatusForbidden, "FORBIDDEN"
	default:
		return fiber.StatusInternalServerError, "INTERNAL"
	}
}

// writeError responde con el código y el mensaje del error de dominio.
// Los errores internos se registran y al cliente solo le llega un mensaje genérico.
func writeError(c *fiber.Ctx, log zerolog.Logger, op string, err error) error {
	status, code := statusFor(err)
	msg := err.Error()
	if !domain.IsKnown(err) {
		log.Error().Err(err).Str("op", op).Str("request_id", requestID(c)).Msg("error interno")
		msg = "internal server error"
	}
	recordAuthOutcome(op, code)
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

// ErrorHandler reemplaza el handler por defecto de Fiber para responder siempre con dto.ErrorResponse.
func ErrorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: "HTTP_ERROR", Message: fe.Message})
		}
		log.Error().Err(err).Str("path", c.Path()).Str("request_id", requestID(c)).Msg("error no controlado")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "internal server error"})
	}
}
