// Package authz evalúa permisos contra el registro actual del sujeto autenticado.
package authz

import (
	"github.com/jhoicas/gestor-rh-api/internal/domain"
	"github.com/jhoicas/gestor-rh-api/internal/domain/entity"
)

// Subject vista mínima del usuario autenticado que necesita el guard.
type Subject struct {
	UserID         int64
	Role           entity.Role
	Status         entity.Status
	OrganizationID *int64
}

// SubjectOf construye el Subject a partir del registro persistido.
func SubjectOf(u *entity.User) Subject {
	if u == nil {
		return Subject{}
	}
	return Subject{UserID: u.ID, Role: u.Role, Status: u.Status, OrganizationID: u.OrganizationID}
}

type options struct {
	allowInactive bool
}

// Option ajusta una evaluación puntual.
type Option func(*options)

// AllowInactive deja pasar cuentas en estado I. Reservado para operaciones que existen para
// recuperar o reactivar la cuenta; el estado E se rechaza igual.
func AllowInactive() Option {
	return func(o *options) { o.allowInactive = true }
}

// Authorize permite si el rol del sujeto es required o superior y la cuenta está activa.
func Authorize(s Subject, required entity.Role, opts ...Option) error {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	switch s.Status {
	case entity.StatusActive:
	case entity.StatusInactive:
		if !o.allowInactive {
			return domain.ErrForbidden
		}
	default:
		return domain.ErrForbidden
	}
	if !s.Role.AtLeast(required) {
		return domain.ErrForbidden
	}
	return nil
}

// AuthorizeOrganization exige que el recurso pertenezca a la organización del sujeto.
// SUPER_ADMIN opera sobre cualquier organización.
func AuthorizeOrganization(s Subject, resourceOrg *int64) error {
	if s.Role == entity.RoleSuperAdmin {
		return nil
	}
	if s.OrganizationID == nil || resourceOrg == nil || *s.OrganizationID != *resourceOrg {
		return domain.ErrForbidden
	}
	return nil
}

// CanAssign informa si el sujeto puede otorgar role (nunca por encima del propio).
func CanAssign(s Subject, role entity.Role) bool {
	return role.IsValid() && s.Role.AtLeast(role)
}
