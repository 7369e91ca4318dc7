package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestor-rh-api/internal/application/auth"
	"github.com/jhoicas/gestor-rh-api/internal/application/dto"
)

// UserHandler alta de usuarios por invitación.
type UserHandler struct {
	activation *auth.ActivationUseCase
}

// NewUserHandler construye el handler de usuarios.
func NewUserHandler(activation *auth.ActivationUseCase) *UserHandler {
	return &UserHandler{activation: activation}
}

// Invite godoc
// @Summary      Invitar usuario
// @Description  Crea el usuario inactivo y envía el enlace de activación. El rol otorgado no puede superar el del actor.
// @Tags         users
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.InviteUserRequest  true  "name, email, role, organization_id"
// @Success      201   {object}  dto.APIResponse{data=dto.InvitationResponse}
// @Failure      403   {object}  dto.APIResponse
// @Failure      409   {object}  dto.APIResponse
// @Router       /api/users/invite [post]
func (h *UserHandler) Invite(c *fiber.Ctx) error {
	var in dto.InviteUserRequest
	if valid, err := bind(c, &in); !valid {
		return err
	}
	out, err := h.activation.CreateInitialUser(c.UserContext(), GetSubject(c), in)
	if err != nil {
		return failed(c, err)
	}
	return ok(c, fiber.StatusCreated, out, "invitación enviada")
}

// ResendInvite godoc
// @Summary      Reenviar invitación
// @Tags         users
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ResendInviteRequest  true  "email"
// @Success      200   {object}  dto.APIResponse{data=dto.InvitationResponse}
// @Failure      404   {object}  dto.APIResponse
// @Failure      409   {object}  dto.APIResponse
// @Router       /api/users/resend-invite [post]
func (h *UserHandler) ResendInvite(c *fiber.Ctx) error {
	var in dto.ResendInviteRequest
	if valid, err := bind(c, &in); !valid {
		return err
	}
	out, err := h.activation.ResendInvite(c.UserContext(), GetSubject(c), in.Email)
	if err != nil {
		return failed(c, err)
	}
	return ok(c, fiber.StatusOK, out, "invitación reenviada")
}
