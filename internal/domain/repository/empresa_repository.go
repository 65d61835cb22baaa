package repository

import (
	"context"

	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
)

// EmpresaRepository puerto de persistencia para empresas (tenants).
// Devuelve (nil, nil) cuando no existe el registro.
type EmpresaRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Empresa, error)
	GetByCodigo(ctx context.Context, codigo string) (*entity.Empresa, error)
}
