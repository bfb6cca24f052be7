package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/carwash-api/internal/domain/entity"
)

// accountRoles roles que puede traer un token emitido por el login.
var accountRoles = []string{
	string(entity.RoleSuperadmin),
	string(entity.RoleAdmin),
	string(entity.RoleStaff),
	string(entity.RoleCustomer),
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        AuthService
	Subscriptions SubscriptionChecker
	JWTSecret     string
	Log           zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, deps.Log)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Sesión actual (Bearer Token + rol conocido + suscripción vigente para admin/staff)
	authGroup.Get("/me",
		AuthMiddleware(deps.JWTSecret),
		RequireRole(accountRoles...),
		RequireActiveSubscription(deps.Subscriptions, deps.Log),
		authHandler.Me,
	)
}
