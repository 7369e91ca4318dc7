package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/gestor-rh-api/internal/domain"
	"github.com/jhoicas/gestor-rh-api/internal/domain/entity"
	"github.com/jhoicas/gestor-rh-api/internal/domain/repository"
)

var (
	_ repository.RecoveryTokenRepository   = (*RecoveryTokenRepo)(nil)
	_ repository.ActivationTokenRepository = (*ActivationTokenRepo)(nil)
)

// RecoveryTokenRepo ledger de recuperación sobre la tabla recovery_tokens.
type RecoveryTokenRepo struct {
	q Querier
}

// NewRecoveryTokenRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRecoveryTokenRepository(q Querier) *RecoveryTokenRepo {
	return &RecoveryTokenRepo{q: q}
}

func (r *RecoveryTokenRepo) Create(ctx context.Context, t *entity.RecoveryToken) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO recovery_tokens (id, email, token, expires_at, created_at) VALUES ($1, $2, $3, $4, $5)`,
		t.ID, t.Email, t.Token, t.ExpiresAt, t.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("insert recovery token: %w", err)
	}
	return nil
}

func (r *RecoveryTokenRepo) DeletePendingByEmail(ctx context.Context, email string) error {
	if _, err := r.q.Exec(ctx,
		`DELETE FROM recovery_tokens WHERE email = $1 AND consumed_at IS NULL`, email); err != nil {
		return fmt.Errorf("delete pending recovery tokens: %w", err)
	}
	return nil
}

// ConsumeIfValid: el UPDATE condicional es la única escritura; dos canjes simultáneos
// no pueden ver ambos consumed_at IS NULL.
func (r *RecoveryTokenRepo) ConsumeIfValid(ctx context.Context, token string, now time.Time) (*entity.RecoveryToken, error) {
	var t entity.RecoveryToken
	err := r.q.QueryRow(ctx, `
		UPDATE recovery_tokens SET consumed_at = $2
		WHERE token = $1 AND consumed_at IS NULL AND expires_at > $2
		RETURNING id, email, token, expires_at, created_at, consumed_at`, token, now,
	).Scan(&t.ID, &t.Email, &t.Token, &t.ExpiresAt, &t.CreatedAt, &t.ConsumedAt)
	if err == nil {
		return &t, nil
	}
	if !isNoRows(err) {
		return nil, fmt.Errorf("consume recovery token: %w", err)
	}
	return nil, classifyToken(ctx, r.q, `SELECT consumed_at IS NOT NULL FROM recovery_tokens WHERE token = $1`, token)
}

// ActivationTokenRepo ledger de invitaciones sobre la tabla activation_tokens.
type ActivationTokenRepo struct {
	q Querier
}

// NewActivationTokenRepository construye el adaptador. Pasar pool o tx (Querier).
func NewActivationTokenRepository(q Querier) *ActivationTokenRepo {
	return &ActivationTokenRepo{q: q}
}

// Replace es un único upsert sobre uq_activation_tokens_email: dos reenvíos simultáneos
// dejan una sola invitación viva.
func (r *ActivationTokenRepo) Replace(ctx context.Context, t *entity.ActivationToken) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO activation_tokens (email, token, expires_at, created_at) VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE
		SET token = EXCLUDED.token, expires_at = EXCLUDED.expires_at,
			created_at = EXCLUDED.created_at, consumed_at = NULL`,
		t.Email, t.Token, t.ExpiresAt, t.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("upsert activation token: %w", err)
	}
	return nil
}

func (r *ActivationTokenRepo) ConsumeIfValid(ctx context.Context, token string, now time.Time) (*entity.ActivationToken, error) {
	var t entity.ActivationToken
	err := r.q.QueryRow(ctx, `
		UPDATE activation_tokens SET consumed_at = $2
		WHERE token = $1 AND consumed_at IS NULL AND expires_at > $2
		RETURNING email, token, expires_at, created_at, consumed_at`, token, now,
	).Scan(&t.Email, &t.Token, &t.ExpiresAt, &t.CreatedAt, &t.ConsumedAt)
	if err == nil {
		return &t, nil
	}
	if !isNoRows(err) {
		return nil, fmt.Errorf("consume activation token: %w", err)
	}
	return nil, classifyToken(ctx, r.q, `SELECT consumed_at IS NOT NULL FROM activation_tokens WHERE token = $1`, token)
}

// classifyToken explica por qué el UPDATE condicional no tocó filas. Consumido gana sobre expirado.
func classifyToken(ctx context.Context, q Querier, query, token string) error {
	var consumed bool
	err := q.QueryRow(ctx, query, token).Scan(&consumed)
	switch {
	case isNoRows(err):
		return domain.ErrTokenNotFound
	case err != nil:
		return fmt.Errorf("classify token: %w", err)
	case consumed:
		return domain.ErrTokenAlreadyConsumed
	default:
		return domain.ErrTokenExpired
	}
}
