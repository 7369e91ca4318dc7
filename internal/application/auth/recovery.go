package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/gestor-rh-api/internal/domain"
	"github.com/jhoicas/gestor-rh-api/internal/domain/entity"
	"github.com/jhoicas/gestor-rh-api/internal/domain/repository"
	"github.com/jhoicas/gestor-rh-api/pkg/logger"
)

// RecoveryUseCase flujo "olvidé mi password": emisión y canje de tokens de un solo uso.
type RecoveryUseCase struct {
	tx       repository.TxRunner
	users    repository.UserRepository
	hasher   PasswordHasher
	notifier Notifier
	ttl      time.Duration
	now      func() time.Time
	log      *logger.Logger
}

// NewRecoveryUseCase construye el caso de uso.
func NewRecoveryUseCase(tx repository.TxRunner, users repository.UserRepository, hasher PasswordHasher, notifier Notifier, ttl time.Duration, log *logger.Logger) *RecoveryUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &RecoveryUseCase{
		tx:       tx,
		users:    users,
		hasher:   hasher,
		notifier: notifier,
		ttl:      ttl,
		now:      time.Now,
		log:      log.Named("recovery"),
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *RecoveryUseCase) WithClock(now func() time.Time) *RecoveryUseCase {
	uc.now = now
	return uc
}

// RequestRecovery emite un token para el email si pertenece a un usuario activo.
// Nunca revela si el email existe. Los tokens pendientes anteriores del mismo email se eliminan:
// solo el último pedido puede canjearse.
func (uc *RecoveryUseCase) RequestRecovery(ctx context.Context, email string) error {
	email = entity.NormalizeEmail(email)
	if email == "" {
		return nil
	}
	user, err := uc.users.FindByEmail(ctx, email)
	if err != nil {
		return uc.fail("request", domain.Unavailable(err))
	}
	if user == nil || !user.IsActive() {
		uc.log.Debug().Msg("recuperación pedida para email sin cuenta activa")
		return nil
	}

	now := uc.now()
	token := &entity.RecoveryToken{
		ID:        uuid.NewString(),
		Email:     email,
		Token:     uuid.NewString(),
		ExpiresAt: now.Add(uc.ttl),
		CreatedAt: now,
	}
	err = uc.tx.Run(ctx, func(r repository.AuthRepos) error {
		if err := r.Recovery.DeletePendingByEmail(ctx, email); err != nil {
			return err
		}
		return r.Recovery.Create(ctx, token)
	})
	if err != nil {
		return uc.fail("request", err)
	}

	if err := uc.notifier.SendRecovery(ctx, RecoveryNotice{Email: email, Token: token.Token, ExpiresAt: token.ExpiresAt}); err != nil {
		uc.log.Warn().Err(err).Int64("user_id", user.ID).Msg("no se pudo entregar el enlace de recuperación")
	}
	uc.log.Info().Int64("user_id", user.ID).Msg("token de recuperación emitido")
	return nil
}

// Redeem consume el token y fija el password nuevo en la misma transacción.
// El consumo es una escritura condicional: de dos canjes concurrentes exactamente uno gana.
// Los demás tokens pendientes del email se eliminan en la misma transacción.
func (uc *RecoveryUseCase) Redeem(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return uc.fail("redeem", domain.ErrTokenNotFound)
	}
	if newPassword == "" {
		return uc.fail("redeem", domain.ErrInvalidInput)
	}
	hash, err := uc.hasher.Hash(newPassword)
	if err != nil {
		return uc.fail("redeem", err)
	}
	err = uc.tx.Run(ctx, func(r repository.AuthRepos) error {
		rec, err := r.Recovery.ConsumeIfValid(ctx, token, uc.now())
		if err != nil {
			return err
		}
		// Un pedido concurrente pudo dejar otro token pendiente para el mismo email.
		if err := r.Recovery.DeletePendingByEmail(ctx, rec.Email); err != nil {
			return err
		}
		return r.Users.UpdatePassword(ctx, rec.Email, hash)
	})
	if err != nil {
		return uc.fail("redeem", err)
	}
	uc.log.Info().Msg("password restablecido")
	return nil
}

func (uc *RecoveryUseCase) fail(op string, err error) error {
	err = categorize(err)
	kind := domain.Kind(err)
	if kind == "Unavailable" {
		uc.log.Error().Err(err).Str("op", op).Str("kind", kind).Msg("fallo de infraestructura")
	} else {
		uc.log.Warn().Str("op", op).Str("kind", kind).Msg("recuperación rechazada")
	}
	return err
}
