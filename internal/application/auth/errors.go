package auth

import (
	"errors"

	"github.com/jhoicas/gestor-rh-api/internal/domain"
	pkgjwt "github.com/jhoicas/gestor-rh-api/pkg/jwt"
)

var knownErrors = []error{
	domain.ErrInvalidCredentials,
	domain.ErrInactiveAccount,
	domain.ErrInvalidRefreshToken,
	domain.ErrTokenNotFound,
	domain.ErrTokenExpired,
	domain.ErrTokenAlreadyConsumed,
	domain.ErrAlreadyActive,
	domain.ErrForbidden,
	domain.ErrInvalidSignature,
	domain.ErrMalformed,
	domain.ErrUserNotFound,
	domain.ErrEmailAlreadyExists,
	domain.ErrNotFound,
	domain.ErrInvalidInput,
	domain.ErrUnavailable,
}

// categorize deja pasar los errores del dominio y convierte cualquier otro en ErrUnavailable.
func categorize(err error) error {
	if err == nil {
		return nil
	}
	for _, known := range knownErrors {
		if errors.Is(err, known) {
			return err
		}
	}
	return domain.Unavailable(err)
}

// tokenError traduce los errores del validador JWT a la taxonomía del dominio.
func tokenError(err error) error {
	switch {
	case errors.Is(err, pkgjwt.ErrExpired):
		return domain.ErrTokenExpired
	case errors.Is(err, pkgjwt.ErrInvalidSignature):
		return domain.ErrInvalidSignature
	default:
		return domain.ErrMalformed
	}
}
