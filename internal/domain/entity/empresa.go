package entity

import "time"

// Empresa representa una organización/tenant del sistema. Todas las demás
// entidades le pertenecen transitivamente; una empresa inactiva niega logins
// y todo acceso a sus datos sin borrarlos.
type Empresa struct {
	ID        string
	Codigo    string // código único legible, usado en el login
	Nombre    string
	Activa    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
