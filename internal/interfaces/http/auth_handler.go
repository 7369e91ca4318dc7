package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestor-rh-api/internal/application/auth"
	"github.com/jhoicas/gestor-rh-api/internal/application/dto"
)

// AuthHandler maneja sesión, recuperación de password y activación.
type AuthHandler struct {
	auth       *auth.AuthUseCase
	recovery   *auth.RecoveryUseCase
	activation *auth.ActivationUseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(authUC *auth.AuthUseCase, recovery *auth.RecoveryUseCase, activation *auth.ActivationUseCase) *AuthHandler {
	return &AuthHandler{auth: authUC, recovery: recovery, activation: activation}
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.APIResponse{data=dto.TokenData}
// @Failure      400   {object}  dto.APIResponse
// @Failure      401   {object}  dto.APIResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if valid, err := bind(c, &in); !valid {
		return err
	}
	out, err := h.auth.Login(c.UserContext(), in)
	if err != nil {
		return failed(c, err)
	}
	return ok(c, fiber.StatusOK, out, "sesión iniciada")
}

// Refresh godoc
// @Summary      Rotar refresh token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RefreshRequest  true  "user_id, refresh_token"
// @Success      200   {object}  dto.APIResponse{data=dto.TokenData}
// @Failure      401   {object}  dto.APIResponse
// @Router       /api/auth/refresh [post]
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var in dto.RefreshRequest
	if valid, err := bind(c, &in); !valid {
		return err
	}
	out, err := h.auth.Refresh(c.UserContext(), in)
	if err != nil {
		return failed(c, err)
	}
	return ok(c, fiber.StatusOK, out, "token renovado")
}

// Logout godoc
// @Summary      Cerrar sesión
// @Tags         auth
// @Security     BearerAuth
// @Produce      json
// @Success      200   {object}  dto.APIResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.auth.Logout(c.UserContext(), GetUserID(c)); err != nil {
		return failed(c, err)
	}
	return ok(c, fiber.StatusOK, nil, "sesión cerrada")
}

// Me godoc
// @Summary      Usuario autenticado
// @Tags         auth
// @Security     BearerAuth
// @Produce      json
// @Success      200   {object}  dto.APIResponse{data=dto.UserResponse}
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	out, err := h.auth.Me(c.UserContext(), GetUserID(c))
	if err != nil {
		return failed(c, err)
	}
	return ok(c, fiber.StatusOK, out, "")
}

// ForgotPassword godoc
// @Summary      Pedir enlace de recuperación
// @Description  Responde igual exista o no el email.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ForgotPasswordRequest  true  "email"
// @Success      200   {object}  dto.APIResponse
// @Router       /api/auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var in dto.ForgotPasswordRequest
	if valid, err := bind(c, &in); !valid {
		return err
	}
	if err := h.recovery.RequestRecovery(c.UserContext(), in.Email); err != nil {
		return failed(c, err)
	}
	return ok(c, fiber.StatusOK, nil, "si el email pertenece a una cuenta activa recibirá un enlace de recuperación")
}

// ResetPassword godoc
// @Summary      Restablecer password con token de recuperación
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ResetPasswordRequest  true  "token, password"
// @Success      200   {object}  dto.APIResponse
// @Failure      400   {object}  dto.APIResponse
// @Router       /api/auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var in dto.ResetPasswordRequest
	if valid, err := bind(c, &in); !valid {
		return err
	}
	if err := h.recovery.Redeem(c.UserContext(), in.Token, in.Password); err != nil {
		return failed(c, err)
	}
	return ok(c, fiber.StatusOK, nil, "password actualizado")
}

// Activate godoc
// @Summary      Activar cuenta invitada
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ActivateRequest  true  "token, password"
// @Success      200   {object}  dto.APIResponse
// @Failure      400   {object}  dto.APIResponse
// @Failure      409   {object}  dto.APIResponse
// @Router       /api/auth/activate [post]
func (h *AuthHandler) Activate(c *fiber.Ctx) error {
	var in dto.ActivateRequest
	if valid, err := bind(c, &in); !valid {
		return err
	}
	if err := h.activation.Activate(c.UserContext(), in.Token, in.Password); err != nil {
		return failed(c, err)
	}
	return ok(c, fiber.StatusOK, nil, "cuenta activada")
}
