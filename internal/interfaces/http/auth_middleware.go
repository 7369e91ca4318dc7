package http

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestor-rh-api/internal/application/dto"
	"github.com/jhoicas/gestor-rh-api/internal/domain"
	"github.com/jhoicas/gestor-rh-api/internal/domain/authz"
	"github.com/jhoicas/gestor-rh-api/internal/domain/entity"
)

// LocalUser key del usuario autenticado en c.Locals.
const LocalUser = "user"

// Authenticator resuelve un bearer token al registro actual del usuario. Lo implementa *auth.AuthUseCase.
type Authenticator interface {
	Authenticate(ctx context.Context, bearer string) (*entity.User, error)
}

// AuthMiddleware valida el Bearer Token JWT y deja el usuario actual en c.Locals.
// No decide por estado ni rol: eso es de RequireRole.
func AuthMiddleware(authn Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		user, err := authn.Authenticate(c.UserContext(), tokenString)
		if err != nil {
			if errors.Is(err, domain.ErrUnavailable) {
				return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "UNAVAILABLE", Message: domain.PublicMessage(err)})
			}
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalUser, user)
		return c.Next()
	}
}

// RequireRole autoriza contra el registro actual: rol mínimo y cuenta activa (salvo AllowInactive).
// Debe usarse DESPUÉS de AuthMiddleware.
func RequireRole(required entity.Role, opts ...authz.Option) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := GetUser(c)
		if user == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "usuario no autenticado"})
		}
		if err := authz.Authorize(authz.SubjectOf(user), required, opts...); err != nil {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "no tiene permisos para esta operación"})
		}
		return c.Next()
	}
}

// GetUser devuelve el usuario autenticado (nil antes del middleware de auth).
func GetUser(c *fiber.Ctx) *entity.User {
	u, _ := c.Locals(LocalUser).(*entity.User)
	return u
}

// GetUserID devuelve el id del usuario autenticado o 0.
func GetUserID(c *fiber.Ctx) int64 {
	if u := GetUser(c); u != nil {
		return u.ID
	}
	return 0
}

// GetSubject vista del usuario autenticado para el guard.
func GetSubject(c *fiber.Ctx) authz.Subject {
	return authz.SubjectOf(GetUser(c))
}
