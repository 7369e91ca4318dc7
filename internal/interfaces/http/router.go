package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestor-rh-api/internal/application/auth"
	"github.com/jhoicas/gestor-rh-api/internal/domain/authz"
	"github.com/jhoicas/gestor-rh-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	RecoveryUC   *auth.RecoveryUseCase
	ActivationUC *auth.ActivationUseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	authenticated := AuthMiddleware(deps.AuthUC)

	// Auth (público salvo logout y me)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, deps.RecoveryUC, deps.ActivationUC)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", authHandler.Refresh)
	authGroup.Post("/forgot-password", authHandler.ForgotPassword)
	authGroup.Post("/reset-password", authHandler.ResetPassword)
	authGroup.Post("/activate", authHandler.Activate)
	// Cerrar sesión también vale para una cuenta desactivada con sesión abierta.
	authGroup.Post("/logout", authenticated, RequireRole(entity.RoleVisualizador, authz.AllowInactive()), authHandler.Logout)
	authGroup.Get("/me", authenticated, RequireRole(entity.RoleVisualizador), authHandler.Me)

	// Users (ADMIN o superior; el alcance por organización lo aplica el caso de uso)
	users := api.Group("/users", authenticated, RequireRole(entity.RoleAdmin))
	userHandler := NewUserHandler(deps.ActivationUC)
	users.Post("/invite", userHandler.Invite)
	users.Post("/resend-invite", userHandler.ResendInvite)
}
