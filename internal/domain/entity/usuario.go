package entity

import "time"

// Roles válidos para Usuario. No hay jerarquía: cada operación declara
// explícitamente qué roles admite.
const (
	RolAdmin       = "admin"
	RolLiderEquipo = "lider_equipo"
	RolTecnico     = "tecnico"
)

// RolValido informa si el rol es uno de los conocidos.
func RolValido(rol string) bool {
	switch rol {
	case RolAdmin, RolLiderEquipo, RolTecnico:
		return true
	}
	return false
}

// Usuario representa un usuario del sistema (pertenece a una Empresa).
// El username es único por empresa, no global: dos empresas pueden tener
// cada una su propio "admin".
type Usuario struct {
	ID           string
	EmpresaID    string
	Username     string
	Email        string
	Nombre       string
	Apellido     string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Rol          string // admin, lider_equipo, tecnico
	Activo       bool
	UltimoLogin  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal usuario autenticado resuelto desde un token, con su empresa.
// Se reconstruye desde almacenamiento en cada request; nunca se cachea.
type Principal struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	Nombre        string `json:"nombre"`
	Apellido      string `json:"apellido"`
	Rol           string `json:"rol"`
	EmpresaID     string `json:"empresaId"`
	EmpresaCodigo string `json:"empresaCodigo"`
}
