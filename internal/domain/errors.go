package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrUnavailable        = errors.New("servicio no disponible")

	// Credenciales y sesión.
	ErrInvalidCredentials  = errors.New("credenciales inválidas")
	ErrInactiveAccount     = errors.New("cuenta inactiva")
	ErrInvalidRefreshToken = errors.New("refresh token inválido")

	// Tokens de un solo uso (recuperación / activación).
	ErrTokenNotFound        = errors.New("token no encontrado")
	ErrTokenExpired         = errors.New("token expirado")
	ErrTokenAlreadyConsumed = errors.New("token ya utilizado")
	ErrAlreadyActive        = errors.New("el usuario ya está activo")

	// Autorización y access token.
	ErrForbidden        = errors.New("acceso denegado")
	ErrInvalidSignature = errors.New("firma de token inválida")
	ErrMalformed        = errors.New("token mal formado")
)

// Mensajes visibles para el cliente. Agrupan kinds que no deben distinguirse desde fuera.
const (
	msgInvalidCredentials = "credenciales inválidas"
	msgInvalidToken       = "token inválido o expirado"
	msgUnavailable        = "servicio no disponible, intente más tarde"
)

// Unavailable envuelve un fallo de infraestructura; errors.Is(err, ErrUnavailable) es true
// y la causa original sigue accesible con errors.Unwrap/As.
func Unavailable(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}

// Kind devuelve el nombre estable del error para logs y métricas.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInactiveAccount):
		return "InactiveAccount"
	case errors.Is(err, ErrInvalidCredentials):
		return "InvalidCredentials"
	case errors.Is(err, ErrInvalidRefreshToken):
		return "InvalidRefreshToken"
	case errors.Is(err, ErrTokenNotFound):
		return "TokenNotFound"
	case errors.Is(err, ErrTokenExpired):
		return "TokenExpired"
	case errors.Is(err, ErrTokenAlreadyConsumed):
		return "TokenAlreadyConsumed"
	case errors.Is(err, ErrAlreadyActive):
		return "AlreadyActive"
	case errors.Is(err, ErrForbidden):
		return "Forbidden"
	case errors.Is(err, ErrInvalidSignature):
		return "InvalidSignature"
	case errors.Is(err, ErrMalformed):
		return "Malformed"
	case errors.Is(err, ErrUserNotFound):
		return "UserNotFound"
	case errors.Is(err, ErrEmailAlreadyExists):
		return "EmailAlreadyExists"
	case errors.Is(err, ErrNotFound):
		return "NotFound"
	case errors.Is(err, ErrInvalidInput):
		return "InvalidInput"
	default:
		return "Unavailable"
	}
}

// PublicMessage normaliza el mensaje que ve el cliente: usuario inexistente, password incorrecto
// y cuenta inactiva producen el mismo texto; lo mismo para token desconocido, expirado o usado.
func PublicMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrInactiveAccount):
		return msgInvalidCredentials
	case errors.Is(err, ErrTokenNotFound),
		errors.Is(err, ErrTokenExpired),
		errors.Is(err, ErrTokenAlreadyConsumed),
		errors.Is(err, ErrInvalidRefreshToken),
		errors.Is(err, ErrInvalidSignature),
		errors.Is(err, ErrMalformed):
		return msgInvalidToken
	case errors.Is(err, ErrUnavailable):
		return msgUnavailable
	}
	for _, known := range []error{
		ErrAlreadyActive, ErrForbidden, ErrUserNotFound, ErrEmailAlreadyExists, ErrNotFound, ErrInvalidInput,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return msgUnavailable
}
