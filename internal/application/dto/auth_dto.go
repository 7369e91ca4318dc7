package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// TokenTypeBearer tipo de credencial devuelto en login/refresh.
const TokenTypeBearer = "Bearer"

// Límites del password elegido por el usuario. El máximo es el de bcrypt.
const (
	PasswordMinLength = 8
	PasswordMaxLength = 72
)

var passwordRules = []validation.Rule{validation.Required, validation.Length(PasswordMinLength, PasswordMaxLength)}

// APIResponse envoltorio común de los endpoints de autenticación.
type APIResponse struct {
	Succeeded bool        `json:"succeeded"`
	Data      interface{} `json:"data"`
	Message   string      `json:"message"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate solo exige presencia: el formato del email no se revela en login.
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// TokenData credenciales emitidas por login y refresh.
type TokenData struct {
	AccessToken    string `json:"access_token"`
	TokenType      string `json:"token_type"`
	ExpirationDate string `json:"expiration_date"` // RFC 3339
	RefreshToken   string `json:"refresh_token,omitempty"`
}

// RefreshRequest entrada para rotar el refresh token.
type RefreshRequest struct {
	UserID       int64  `json:"user_id"`
	RefreshToken string `json:"refresh_token"`
}

func (r RefreshRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.UserID, validation.Required, validation.Min(int64(1))),
		validation.Field(&r.RefreshToken, validation.Required),
	)
}

// ForgotPasswordRequest solicitud de recuperación.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

func (r ForgotPasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

// ResetPasswordRequest canje de un token de recuperación.
type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (r ResetPasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Token, validation.Required),
		validation.Field(&r.Password, passwordRules...),
	)
}

// ActivateRequest canje de una invitación.
type ActivateRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (r ActivateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Token, validation.Required),
		validation.Field(&r.Password, passwordRules...),
	)
}

// InviteUserRequest alta de un usuario sin password (flujo de invitación).
type InviteUserRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Role           string `json:"role"` // vacío = VISUALIZADOR
	OrganizationID *int64 `json:"organization_id"`
}

func (r InviteUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Length(0, 200)),
		validation.Field(&r.Email, validation.Required, validation.Length(3, 254), is.Email),
		validation.Field(&r.Role, validation.In("SUPER_ADMIN", "ADMIN", "GESTOR_1", "GESTOR_2", "VISUALIZADOR")),
		validation.Field(&r.OrganizationID, validation.NilOrNotEmpty),
	)
}

// ResendInviteRequest reenvío de invitación.
type ResendInviteRequest struct {
	Email string `json:"email"`
}

func (r ResendInviteRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

// InvitationResponse resultado de una invitación; el token solo viaja por el canal de notificación.
type InvitationResponse struct {
	User      UserResponse `json:"user"`
	ExpiresAt time.Time    `json:"expires_at"`
}
