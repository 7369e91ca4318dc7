package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/gestor-rh-api/internal/domain"
	"github.com/jhoicas/gestor-rh-api/internal/domain/entity"
	"github.com/jhoicas/gestor-rh-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `id, name, email, password_hash, role, organization_id, status, refresh_token_hash,
	created_by, created_at, updated_by, updated_at`

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios. Pasar pool o tx (Querier).
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create persiste un nuevo usuario y completa user.ID con el asignado por la base.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (name, email, password_hash, role, organization_id, status,
			created_by, created_at, updated_by, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		user.Name, user.Email, user.PasswordHash, user.Role, user.OrganizationID, user.Status,
		user.CreatedBy, user.CreatedAt, user.UpdatedBy, user.UpdatedAt,
	).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// FindByID obtiene un usuario por ID.
func (r *UserRepo) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// FindByEmail obtiene un usuario por email normalizado.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

func (r *UserRepo) SetRefreshTokenHash(ctx context.Context, id int64, hash string) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE users SET refresh_token_hash = $2, updated_at = $3 WHERE id = $1`, id, hash, time.Now())
	if err != nil {
		return fmt.Errorf("set refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// SwapRefreshTokenHash compara y reemplaza en una sola sentencia.
func (r *UserRepo) SwapRefreshTokenHash(ctx context.Context, id int64, prev, next string) (bool, error) {
	tag, err := r.q.Exec(ctx,
		`UPDATE users SET refresh_token_hash = $3, updated_at = $4
		 WHERE id = $1 AND refresh_token_hash = $2`, id, prev, next, time.Now())
	if err != nil {
		return false, fmt.Errorf("swap refresh token: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *UserRepo) ClearRefreshTokenHash(ctx context.Context, id int64) error {
	_, err := r.q.Exec(ctx,
		`UPDATE users SET refresh_token_hash = NULL, updated_at = $2
		 WHERE id = $1 AND refresh_token_hash IS NOT NULL`, id, time.Now())
	if err != nil {
		return fmt.Errorf("clear refresh token: %w", err)
	}
	return nil
}

func (r *UserRepo) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE users SET password_hash = $2, refresh_token_hash = NULL, updated_at = $3
		 WHERE email = $1 AND status <> $4`, email, passwordHash, time.Now(), entity.StatusExcluded)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// Activate solo actualiza si el usuario está inactivo; si no, consulta el estado para devolver el error correcto.
func (r *UserRepo) Activate(ctx context.Context, email, passwordHash string) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE users SET password_hash = $2, status = $3, updated_at = $4
		 WHERE email = $1 AND status = $5`,
		email, passwordHash, entity.StatusActive, time.Now(), entity.StatusInactive)
	if err != nil {
		return fmt.Errorf("activate user: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	var status entity.Status
	err = r.q.QueryRow(ctx, `SELECT status FROM users WHERE email = $1`, email).Scan(&status)
	switch {
	case isNoRows(err):
		return domain.ErrUserNotFound
	case err != nil:
		return fmt.Errorf("activate user: %w", err)
	case status == entity.StatusActive:
		return domain.ErrAlreadyActive
	default:
		return domain.ErrUserNotFound
	}
}

func scanUser(row interface{ Scan(dest ...any) error }) (*entity.User, error) {
	var u entity.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.OrganizationID, &u.Status, &u.RefreshTokenHash,
		&u.CreatedBy, &u.CreatedAt, &u.UpdatedBy, &u.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
