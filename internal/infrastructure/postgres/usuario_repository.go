package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
)

var _ repository.UsuarioRepository = (*UsuarioRepo)(nil)

// UsuarioRepo implementación del puerto UsuarioRepository sobre PostgreSQL.
// Toda query filtra por empresa_id: el username es único por empresa
// (constraint UNIQUE (empresa_id, username)), no global.
type UsuarioRepo struct {
	db querier
}

// NewUsuarioRepository construye el adaptador de persistencia para usuarios.
func NewUsuarioRepository(db querier) *UsuarioRepo {
	return &UsuarioRepo{db: db}
}

const usuarioColumns = `id, empresa_id, username, email, nombre, apellido, password_hash, rol, activo, ultimo_login, created_at, updated_at`

// GetByID obtiene un usuario por ID dentro de la empresa. (nil, nil) si no existe.
func (r *UsuarioRepo) GetByID(ctx context.Context, empresaID, id string) (*entity.Usuario, error) {
	query := `SELECT ` + usuarioColumns + ` FROM usuarios WHERE empresa_id = $1 AND id = $2`
	return r.scanOne(ctx, query, empresaID, id)
}

// GetByUsername obtiene un usuario por username dentro de la empresa.
func (r *UsuarioRepo) GetByUsername(ctx context.Context, empresaID, username string) (*entity.Usuario, error) {
	query := `SELECT ` + usuarioColumns + ` FROM usuarios WHERE empresa_id = $1 AND username = $2`
	return r.scanOne(ctx, query, empresaID, username)
}

// UpdateUltimoLogin registra la fecha del último inicio de sesión.
func (r *UsuarioRepo) UpdateUltimoLogin(ctx context.Context, empresaID, id string, cuando time.Time) error {
	query := `UPDATE usuarios SET ultimo_login = $3 WHERE empresa_id = $1 AND id = $2`
	if _, err := r.db.Exec(ctx, query, empresaID, id, cuando); err != nil {
		return fmt.Errorf("update ultimo login: %w", err)
	}
	return nil
}

func (r *UsuarioRepo) scanOne(ctx context.Context, query string, args ...any) (*entity.Usuario, error) {
	var u entity.Usuario
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&u.ID, &u.EmpresaID, &u.Username, &u.Email, &u.Nombre, &u.Apellido,
		&u.PasswordHash, &u.Rol, &u.Activo, &u.UltimoLogin, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get usuario: %w", err)
	}
	return &u, nil
}
