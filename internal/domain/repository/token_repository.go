package repository

import (
	"context"
	"time"

	"github.com/jhoicas/gestor-rh-api/internal/domain/entity"
)

// RecoveryTokenRepository ledger de tokens de recuperación de password.
type RecoveryTokenRepository interface {
	Create(ctx context.Context, token *entity.RecoveryToken) error
	// DeletePendingByEmail elimina los tokens no consumidos del email (solo el último pedido vale).
	DeletePendingByEmail(ctx context.Context, email string) error
	// ConsumeIfValid marca el token como consumido en una única escritura condicional
	// (no consumido y no expirado en now). Si no aplica devuelve ErrTokenNotFound,
	// ErrTokenAlreadyConsumed o ErrTokenExpired.
	ConsumeIfValid(ctx context.Context, token string, now time.Time) (*entity.RecoveryToken, error)
}

// ActivationTokenRepository ledger de invitaciones.
type ActivationTokenRepository interface {
	// Replace borra toda invitación previa del email y guarda la nueva.
	Replace(ctx context.Context, token *entity.ActivationToken) error
	ConsumeIfValid(ctx context.Context, token string, now time.Time) (*entity.ActivationToken, error)
}
