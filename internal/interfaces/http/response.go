package http

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestor-rh-api/internal/application/dto"
	"github.com/jhoicas/gestor-rh-api/internal/domain"
)

const msgInvalidBody = "datos inválidos"

// statusFor traduce la taxonomía del dominio a códigos HTTP.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnavailable):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrInactiveAccount),
		errors.Is(err, domain.ErrInvalidRefreshToken),
		errors.Is(err, domain.ErrInvalidSignature),
		errors.Is(err, domain.ErrMalformed):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrTokenNotFound),
		errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrTokenAlreadyConsumed),
		errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrEmailAlreadyExists), errors.Is(err, domain.ErrAlreadyActive):
		return fiber.StatusConflict
	default:
		return fiber.StatusServiceUnavailable
	}
}

func ok(c *fiber.Ctx, status int, data interface{}, message string) error {
	return c.Status(status).JSON(dto.APIResponse{Succeeded: true, Data: data, Message: message})
}

func failed(c *fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(dto.APIResponse{Succeeded: false, Message: domain.PublicMessage(err)})
}

// bind parsea el cuerpo y corre las reglas de validación del DTO. Si falla ya escribió la respuesta 400.
func bind(c *fiber.Ctx, in validation.Validatable) (bool, error) {
	if err := c.BodyParser(in); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.APIResponse{Succeeded: false, Message: msgInvalidBody})
	}
	if err := in.Validate(); err != nil {
		var fields validation.Errors
		if errors.As(err, &fields) {
			return false, c.Status(fiber.StatusBadRequest).JSON(dto.APIResponse{Succeeded: false, Data: fields, Message: msgInvalidBody})
		}
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.APIResponse{Succeeded: false, Message: msgInvalidBody})
	}
	return true, nil
}
