package auth

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/gestor-rh-api/internal/application/dto"
	"github.com/jhoicas/gestor-rh-api/internal/domain"
	"github.com/jhoicas/gestor-rh-api/internal/domain/entity"
	"github.com/jhoicas/gestor-rh-api/internal/domain/repository"
	"github.com/jhoicas/gestor-rh-api/internal/infrastructure/security"
	"github.com/jhoicas/gestor-rh-api/pkg/logger"
)

// Password de referencia para igualar el costo de login cuando el email no existe.
const timingDummyPassword = "gestor-rh/timing-equalizer"

// AuthUseCase casos de uso de sesión: login, rotación de refresh token, logout.
type AuthUseCase struct {
	users     repository.UserRepository
	hasher    PasswordHasher
	tokens    TokenService
	newSecret func() (string, error)
	dummyHash string
	log       *logger.Logger
}

// NewAuthUseCase construye el caso de uso de auth. Calcula una vez el hash de relleno.
func NewAuthUseCase(users repository.UserRepository, hasher PasswordHasher, tokens TokenService, log *logger.Logger) (*AuthUseCase, error) {
	dummy, err := hasher.Hash(timingDummyPassword)
	if err != nil {
		return nil, fmt.Errorf("auth: hash de relleno: %w", err)
	}
	if log == nil {
		log = logger.Nop()
	}
	return &AuthUseCase{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		newSecret: security.NewSecret,
		dummyHash: dummy,
		log:       log.Named("auth"),
	}, nil
}

// Login verifica email/password y abre una sesión: access token + refresh secret nuevo.
// Email inexistente, password incorrecto y cuenta no activa devuelven ErrInvalidCredentials;
// la cuenta no activa además satisface errors.Is(err, ErrInactiveAccount) para los logs.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.TokenData, error) {
	email := entity.NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, uc.fail("login", 0, domain.ErrInvalidCredentials)
	}
	user, err := uc.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, uc.fail("login", 0, domain.Unavailable(err))
	}
	if user == nil {
		uc.hasher.Verify(in.Password, uc.dummyHash)
		return nil, uc.fail("login", 0, domain.ErrInvalidCredentials)
	}
	digest := user.PasswordHash
	if digest == "" {
		digest = uc.dummyHash
	}
	if !uc.hasher.Verify(in.Password, digest) || user.PasswordHash == "" {
		return nil, uc.fail("login", user.ID, domain.ErrInvalidCredentials)
	}
	if !user.IsActive() {
		return nil, uc.fail("login", user.ID, fmt.Errorf("%w: %w", domain.ErrInvalidCredentials, domain.ErrInactiveAccount))
	}

	secret, hash, err := uc.refreshSecret()
	if err != nil {
		return nil, uc.fail("login", user.ID, err)
	}
	if err := uc.users.SetRefreshTokenHash(ctx, user.ID, hash); err != nil {
		return nil, uc.fail("login", user.ID, domain.Unavailable(err))
	}
	out, err := uc.issue(user.ID, secret)
	if err != nil {
		return nil, uc.fail("login", user.ID, err)
	}
	uc.log.Info().Int64("user_id", user.ID).Msg("login exitoso")
	return out, nil
}

// RotateRefreshToken canjea el refresh secret presentado por uno nuevo. Solo se guarda el hash;
// la instalación es condicional al hash anterior, así una rotación concurrente no revive un secreto ya reemplazado.
func (uc *AuthUseCase) RotateRefreshToken(ctx context.Context, userID int64, presented string) (string, error) {
	if presented == "" {
		return "", uc.fail("refresh", userID, domain.ErrInvalidRefreshToken)
	}
	user, err := uc.users.FindByID(ctx, userID)
	if err != nil {
		return "", uc.fail("refresh", userID, domain.Unavailable(err))
	}
	if user == nil || !user.IsActive() || user.RefreshTokenHash == nil {
		return "", uc.fail("refresh", userID, domain.ErrInvalidRefreshToken)
	}
	prev := *user.RefreshTokenHash
	if !uc.hasher.Verify(presented, prev) {
		return "", uc.fail("refresh", userID, domain.ErrInvalidRefreshToken)
	}
	secret, next, err := uc.refreshSecret()
	if err != nil {
		return "", uc.fail("refresh", userID, err)
	}
	swapped, err := uc.users.SwapRefreshTokenHash(ctx, userID, prev, next)
	if err != nil {
		return "", uc.fail("refresh", userID, domain.Unavailable(err))
	}
	if !swapped {
		return "", uc.fail("refresh", userID, domain.ErrInvalidRefreshToken)
	}
	return secret, nil
}

// Refresh rota el refresh secret y emite un access token nuevo.
func (uc *AuthUseCase) Refresh(ctx context.Context, in dto.RefreshRequest) (*dto.TokenData, error) {
	secret, err := uc.RotateRefreshToken(ctx, in.UserID, in.RefreshToken)
	if err != nil {
		return nil, err
	}
	out, err := uc.issue(in.UserID, secret)
	if err != nil {
		return nil, uc.fail("refresh", in.UserID, err)
	}
	return out, nil
}

// Logout borra el hash de refresh. Idempotente.
func (uc *AuthUseCase) Logout(ctx context.Context, userID int64) error {
	if err := uc.users.ClearRefreshTokenHash(ctx, userID); err != nil {
		return uc.fail("logout", userID, domain.Unavailable(err))
	}
	return nil
}

// Authenticate valida el bearer token y devuelve el registro actual del sujeto.
// No filtra por estado: esa decisión es del guard de autorización.
func (uc *AuthUseCase) Authenticate(ctx context.Context, bearer string) (*entity.User, error) {
	subject, err := uc.tokens.Validate(bearer)
	if err != nil {
		return nil, tokenError(err)
	}
	id, err := strconv.ParseInt(subject, 10, 64)
	if err != nil || id <= 0 {
		return nil, domain.ErrMalformed
	}
	user, err := uc.users.FindByID(ctx, id)
	if err != nil {
		return nil, uc.fail("authenticate", id, domain.Unavailable(err))
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

// Me devuelve el usuario autenticado.
func (uc *AuthUseCase) Me(ctx context.Context, userID int64) (*dto.UserResponse, error) {
	user, err := uc.users.FindByID(ctx, userID)
	if err != nil {
		return nil, domain.Unavailable(err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return toUserResponse(user), nil
}

func (uc *AuthUseCase) refreshSecret() (secret, hash string, err error) {
	secret, err = uc.newSecret()
	if err != nil {
		return "", "", domain.Unavailable(err)
	}
	hash, err = uc.hasher.Hash(secret)
	if err != nil {
		return "", "", domain.Unavailable(err)
	}
	return secret, hash, nil
}

func (uc *AuthUseCase) issue(userID int64, refresh string) (*dto.TokenData, error) {
	token, expiresAt, err := uc.tokens.Issue(strconv.FormatInt(userID, 10))
	if err != nil {
		return nil, domain.Unavailable(err)
	}
	return &dto.TokenData{
		AccessToken:    token,
		TokenType:      dto.TokenTypeBearer,
		ExpirationDate: expiresAt.UTC().Format(time.RFC3339),
		RefreshToken:   refresh,
	}, nil
}

func (uc *AuthUseCase) fail(op string, userID int64, err error) error {
	err = categorize(err)
	var ev *zerolog.Event
	if domain.Kind(err) == "Unavailable" {
		ev = uc.log.Error().Err(err)
	} else {
		ev = uc.log.Warn()
	}
	if userID != 0 {
		ev = ev.Int64("user_id", userID)
	}
	ev.Str("op", op).Str("kind", domain.Kind(err)).Msg("operación de sesión rechazada")
	return err
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Role:           string(u.Role),
		Status:         string(u.Status),
		OrganizationID: u.OrganizationID,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}
