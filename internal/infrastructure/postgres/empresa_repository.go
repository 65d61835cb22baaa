package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
)

var _ repository.EmpresaRepository = (*EmpresaRepo)(nil)

// EmpresaRepo implementación del puerto EmpresaRepository sobre PostgreSQL.
// La tabla empresas no lleva RLS: es la raíz del modelo de tenants y se
// consulta antes de conocer la empresa activa (login por código).
type EmpresaRepo struct {
	db querier
}

// NewEmpresaRepository construye el adaptador de persistencia para empresas.
func NewEmpresaRepository(db querier) *EmpresaRepo {
	return &EmpresaRepo{db: db}
}

const empresaColumns = `id, codigo, nombre, activa, created_at, updated_at`

// GetByID obtiene una empresa por ID. Devuelve (nil, nil) si no existe.
func (r *EmpresaRepo) GetByID(ctx context.Context, id string) (*entity.Empresa, error) {
	query := `SELECT ` + empresaColumns + ` FROM empresas WHERE id = $1`
	return r.scanOne(ctx, query, id)
}

// GetByCodigo obtiene una empresa por su código único.
func (r *EmpresaRepo) GetByCodigo(ctx context.Context, codigo string) (*entity.Empresa, error) {
	query := `SELECT ` + empresaColumns + ` FROM empresas WHERE codigo = $1`
	return r.scanOne(ctx, query, codigo)
}

func (r *EmpresaRepo) scanOne(ctx context.Context, query string, arg any) (*entity.Empresa, error) {
	var e entity.Empresa
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&e.ID, &e.Codigo, &e.Nombre, &e.Activa, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get empresa: %w", err)
	}
	return &e, nil
}
