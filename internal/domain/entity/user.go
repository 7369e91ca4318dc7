package entity

import (
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Status estado de la cuenta.
type Status string

const (
	StatusActive   Status = "A"
	StatusInactive Status = "I"
	StatusExcluded Status = "E" // baja lógica; los usuarios nunca se borran
)

// IsValid informa si el estado pertenece al conjunto conocido.
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusExcluded:
		return true
	default:
		return false
	}
}

// User representa una identidad del sistema (opcionalmente ligada a una Organization).
type User struct {
	ID               int64
	Name             string
	Email            string // normalizado, único global
	PasswordHash     string // bcrypt; vacío mientras la invitación no se activa
	Role             Role
	OrganizationID   *int64
	Status           Status
	RefreshTokenHash *string // nil sin sesión abierta
	CreatedBy        *int64
	CreatedAt        time.Time
	UpdatedBy        *int64
	UpdatedAt        time.Time
}

// IsActive informa si la cuenta puede autenticarse.
func (u *User) IsActive() bool {
	return u != nil && u.Status == StatusActive
}

// NormalizeEmail aplica trim, NFKC y minúsculas para que la unicidad no dependa de la forma escrita.
func NormalizeEmail(email string) string {
	return strings.ToLower(norm.NFKC.String(strings.TrimSpace(email)))
}
