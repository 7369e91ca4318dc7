package entity

// Role nivel de permisos. El orden total es SUPER_ADMIN > ADMIN > GESTOR_1 > GESTOR_2 > VISUALIZADOR.
type Role string

const (
	RoleSuperAdmin   Role = "SUPER_ADMIN"
	RoleAdmin        Role = "ADMIN"
	RoleGestor1      Role = "GESTOR_1"
	RoleGestor2      Role = "GESTOR_2"
	RoleVisualizador Role = "VISUALIZADOR"
)

var roleLevels = map[Role]int{
	RoleVisualizador: 1,
	RoleGestor2:      2,
	RoleGestor1:      3,
	RoleAdmin:        4,
	RoleSuperAdmin:   5,
}

// Level devuelve la posición del rol en la jerarquía; 0 si el rol no existe.
func (r Role) Level() int {
	return roleLevels[r]
}

// IsValid informa si el rol es uno de los valores enumerados.
func (r Role) IsValid() bool {
	return r.Level() > 0
}

// AtLeast informa si r es igual o superior a required. Roles desconocidos nunca cumplen.
func (r Role) AtLeast(required Role) bool {
	if !r.IsValid() || !required.IsValid() {
		return false
	}
	return r.Level() >= required.Level()
}

// AllRoles devuelve los roles de mayor a menor.
func AllRoles() []Role {
	return []Role{RoleSuperAdmin, RoleAdmin, RoleGestor1, RoleGestor2, RoleVisualizador}
}
