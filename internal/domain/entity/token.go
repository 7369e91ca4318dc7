package entity

import "time"

// RecoveryToken capacidad de un solo uso para restablecer el password.
type RecoveryToken struct {
	ID         string // UUID
	Email      string
	Token      string // UUID v4, no adivinable
	ExpiresAt  time.Time
	CreatedAt  time.Time
	ConsumedAt *time.Time
}

// ActivationToken invitación de un solo uso: el invitado define su password inicial.
type ActivationToken struct {
	Email      string
	Token      string
	ExpiresAt  time.Time
	CreatedAt  time.Time
	ConsumedAt *time.Time
}

// IsExpired informa si el token ya no es válido en now (expiresAt es exclusivo).
func (t *RecoveryToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// IsExpired informa si la invitación ya no es válida en now.
func (t *ActivationToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
