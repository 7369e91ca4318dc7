package entity

import "time"

// Organization empresa a la que pertenecen los usuarios. El CRUD vive fuera de este servicio;
// aquí solo se consulta para validar invitaciones y el alcance de autorización.
type Organization struct {
	ID        int64
	Name      string
	Status    string // active, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}
