package auth

import (
	"context"
	"time"
)

// PasswordHasher hash lento + verificación en tiempo constante.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, digest string) bool
}

// TokenService emite y valida access tokens firmados.
type TokenService interface {
	Issue(subject string) (token string, expiresAt time.Time, err error)
	Validate(token string) (subject string, err error)
}

// RecoveryNotice datos para entregar un enlace de recuperación.
type RecoveryNotice struct {
	Email     string
	Token     string
	ExpiresAt time.Time
}

// InvitationNotice datos para entregar una invitación.
type InvitationNotice struct {
	Name      string
	Email     string
	Token     string
	ExpiresAt time.Time
}

// Notifier entrega los tokens de un solo uso al dueño del email.
type Notifier interface {
	SendRecovery(ctx context.Context, n RecoveryNotice) error
	SendInvitation(ctx context.Context, n InvitationNotice) error
}
