package repository

import (
	"context"

	"github.com/jhoicas/gestor-rh-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Find* devuelven (nil, nil) cuando no existe el registro.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id int64) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	// SetRefreshTokenHash reemplaza el hash sin condición (login).
	SetRefreshTokenHash(ctx context.Context, id int64, hash string) error
	// SwapRefreshTokenHash instala next solo si el hash guardado sigue siendo prev.
	// Devuelve false si otro proceso ya rotó o cerró la sesión.
	SwapRefreshTokenHash(ctx context.Context, id int64, prev, next string) (bool, error)
	ClearRefreshTokenHash(ctx context.Context, id int64) error
	// UpdatePassword fija el hash y cierra sesiones abiertas. ErrUserNotFound si no hay usuario no excluido con ese email.
	UpdatePassword(ctx context.Context, email, passwordHash string) error
	// Activate fija el password inicial y pasa el estado a A.
	Activate(ctx context.Context, email, passwordHash string) error
}
