package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/gestor-rh-api/internal/application/dto"
	"github.com/jhoicas/gestor-rh-api/internal/domain"
	"github.com/jhoicas/gestor-rh-api/internal/domain/authz"
	"github.com/jhoicas/gestor-rh-api/internal/domain/entity"
	"github.com/jhoicas/gestor-rh-api/internal/domain/repository"
	"github.com/jhoicas/gestor-rh-api/pkg/logger"
)

// ActivationUseCase flujo de invitación: alta sin password, reenvío y activación.
type ActivationUseCase struct {
	tx       repository.TxRunner
	users    repository.UserRepository
	orgs     repository.OrganizationRepository
	hasher   PasswordHasher
	notifier Notifier
	ttl      time.Duration
	now      func() time.Time
	log      *logger.Logger
}

// NewActivationUseCase construye el caso de uso.
func NewActivationUseCase(
	tx repository.TxRunner,
	users repository.UserRepository,
	orgs repository.OrganizationRepository,
	hasher PasswordHasher,
	notifier Notifier,
	ttl time.Duration,
	log *logger.Logger,
) *ActivationUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ActivationUseCase{
		tx:       tx,
		users:    users,
		orgs:     orgs,
		hasher:   hasher,
		notifier: notifier,
		ttl:      ttl,
		now:      time.Now,
		log:      log.Named("activation"),
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *ActivationUseCase) WithClock(now func() time.Time) *ActivationUseCase {
	uc.now = now
	return uc
}

// CreateInitialUser crea un usuario inactivo y su invitación en una transacción.
// El actor solo puede otorgar roles iguales o inferiores al propio y, salvo SUPER_ADMIN,
// solo dentro de su organización (por defecto la invitación hereda la organización del actor).
func (uc *ActivationUseCase) CreateInitialUser(ctx context.Context, actor authz.Subject, in dto.InviteUserRequest) (*dto.InvitationResponse, error) {
	email := entity.NormalizeEmail(in.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, uc.fail("invite", domain.ErrInvalidInput)
	}
	role := entity.Role(in.Role)
	if role == "" {
		role = entity.RoleVisualizador
	}
	if !role.IsValid() {
		return nil, uc.fail("invite", domain.ErrInvalidInput)
	}
	if !authz.CanAssign(actor, role) {
		return nil, uc.fail("invite", domain.ErrForbidden)
	}
	orgID := in.OrganizationID
	if orgID == nil && actor.Role != entity.RoleSuperAdmin {
		orgID = actor.OrganizationID
	}
	if err := authz.AuthorizeOrganization(actor, orgID); err != nil {
		return nil, uc.fail("invite", err)
	}
	if orgID != nil {
		org, err := uc.orgs.GetByID(ctx, *orgID)
		if err != nil {
			return nil, uc.fail("invite", domain.Unavailable(err))
		}
		if org == nil {
			return nil, uc.fail("invite", domain.ErrNotFound)
		}
	}
	existing, err := uc.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, uc.fail("invite", domain.Unavailable(err))
	}
	if existing != nil {
		return nil, uc.fail("invite", domain.ErrEmailAlreadyExists)
	}

	now := uc.now()
	var createdBy *int64
	if actor.UserID != 0 {
		id := actor.UserID
		createdBy = &id
	}
	name := strings.TrimSpace(in.Name)
	user := &entity.User{
		Name:           name,
		Email:          email,
		Role:           role,
		OrganizationID: orgID,
		Status:         entity.StatusInactive,
		CreatedBy:      createdBy,
		CreatedAt:      now,
		UpdatedBy:      createdBy,
		UpdatedAt:      now,
	}
	token := uc.newToken(email, now)
	err = uc.tx.Run(ctx, func(r repository.AuthRepos) error {
		if err := r.Users.Create(ctx, user); err != nil {
			return err
		}
		return r.Activation.Replace(ctx, token)
	})
	if err != nil {
		return nil, uc.fail("invite", err)
	}

	uc.notify(ctx, user, token)
	uc.log.Info().Int64("user_id", user.ID).Int64("actor_id", actor.UserID).Str("role", string(role)).Msg("usuario invitado")
	return &dto.InvitationResponse{User: *toUserResponse(user), ExpiresAt: token.ExpiresAt}, nil
}

// BootstrapSuperAdmin invita al primer SUPER_ADMIN cuando todavía no existe nadie que pueda invitar.
// El actor es sintético y no queda registrado en created_by.
func (uc *ActivationUseCase) BootstrapSuperAdmin(ctx context.Context, email, name string, orgID *int64) (*dto.InvitationResponse, error) {
	bootstrap := authz.Subject{Role: entity.RoleSuperAdmin, Status: entity.StatusActive}
	return uc.CreateInitialUser(ctx, bootstrap, dto.InviteUserRequest{
		Name:           name,
		Email:          email,
		Role:           string(entity.RoleSuperAdmin),
		OrganizationID: orgID,
	})
}

// ResendInvite emite una invitación nueva e invalida cualquier anterior del mismo email.
func (uc *ActivationUseCase) ResendInvite(ctx context.Context, actor authz.Subject, email string) (*dto.InvitationResponse, error) {
	email = entity.NormalizeEmail(email)
	user, err := uc.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, uc.fail("resend", domain.Unavailable(err))
	}
	if user == nil || user.Status == entity.StatusExcluded {
		return nil, uc.fail("resend", domain.ErrUserNotFound)
	}
	if err := authz.AuthorizeOrganization(actor, user.OrganizationID); err != nil {
		return nil, uc.fail("resend", err)
	}
	if user.Status == entity.StatusActive {
		return nil, uc.fail("resend", domain.ErrAlreadyActive)
	}

	token := uc.newToken(email, uc.now())
	err = uc.tx.Run(ctx, func(r repository.AuthRepos) error {
		return r.Activation.Replace(ctx, token)
	})
	if err != nil {
		return nil, uc.fail("resend", err)
	}
	uc.notify(ctx, user, token)
	uc.log.Info().Int64("user_id", user.ID).Msg("invitación reenviada")
	return &dto.InvitationResponse{User: *toUserResponse(user), ExpiresAt: token.ExpiresAt}, nil
}

// Activate consume la invitación, fija el password inicial y activa la cuenta.
func (uc *ActivationUseCase) Activate(ctx context.Context, token, password string) error {
	if token == "" {
		return uc.fail("activate", domain.ErrTokenNotFound)
	}
	if password == "" {
		return uc.fail("activate", domain.ErrInvalidInput)
	}
	hash, err := uc.hasher.Hash(password)
	if err != nil {
		return uc.fail("activate", err)
	}
	err = uc.tx.Run(ctx, func(r repository.AuthRepos) error {
		inv, err := r.Activation.ConsumeIfValid(ctx, token, uc.now())
		if err != nil {
			return err
		}
		return r.Users.Activate(ctx, inv.Email, hash)
	})
	if err != nil {
		return uc.fail("activate", err)
	}
	uc.log.Info().Msg("cuenta activada")
	return nil
}

func (uc *ActivationUseCase) newToken(email string, now time.Time) *entity.ActivationToken {
	return &entity.ActivationToken{
		Email:     email,
		Token:     uuid.NewString(),
		ExpiresAt: now.Add(uc.ttl),
		CreatedAt: now,
	}
}

func (uc *ActivationUseCase) notify(ctx context.Context, user *entity.User, token *entity.ActivationToken) {
	err := uc.notifier.SendInvitation(ctx, InvitationNotice{
		Name:      user.Name,
		Email:     user.Email,
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt,
	})
	if err != nil {
		uc.log.Warn().Err(err).Int64("user_id", user.ID).Msg("no se pudo entregar la invitación")
	}
}

func (uc *ActivationUseCase) fail(op string, err error) error {
	err = categorize(err)
	kind := domain.Kind(err)
	if kind == "Unavailable" {
		uc.log.Error().Err(err).Str("op", op).Str("kind", kind).Msg("fallo de infraestructura")
	} else {
		uc.log.Warn().Str("op", op).Str("kind", kind).Msg("invitación rechazada")
	}
	return err
}
