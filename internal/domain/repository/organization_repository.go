package repository

import (
	"context"

	"github.com/jhoicas/gestor-rh-api/internal/domain/entity"
)

// OrganizationRepository lectura de organizaciones; el CRUD completo es externo.
type OrganizationRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.Organization, error)
}
