package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
)

// UsuarioRepository puerto de persistencia para usuarios. Toda operación
// recibe el empresaID explícito: el aislamiento por tenant es parte del
// contrato, no un detalle del adaptador. Devuelve (nil, nil) si no existe.
type UsuarioRepository interface {
	GetByID(ctx context.Context, empresaID, id string) (*entity.Usuario, error)
	GetByUsername(ctx context.Context, empresaID, username string) (*entity.Usuario, error)
	UpdateUltimoLogin(ctx context.Context, empresaID, id string, cuando time.Time) error
}
