package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// querier abstrae pool y transacción: los repositorios funcionan igual
// atados a *pgxpool.Pool o a pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// bindEmpresa vincula la empresa activa a la transacción actual. Las
// tablas con datos de empresa llevan políticas de row-level security
// sobre current_setting('app.empresa_id'); esa es la red de seguridad en
// escrituras, el mecanismo primario es el empresa_id explícito en cada
// query. Con is_local=true el valor se limpia solo al terminar la
// transacción, por cualquier camino de salida.
func bindEmpresa(ctx context.Context, q querier, empresaID string) error {
	_, err := q.Exec(ctx, `SELECT set_config('app.empresa_id', $1, true)`, empresaID)
	return err
}

// isNoRows informa si el error es la ausencia de filas.
func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// nullToPtr convierte un NullDecimal de la base a puntero de dominio.
func nullToPtr(d decimal.NullDecimal) *decimal.Decimal {
	if d.Valid {
		return &d.Decimal
	}
	return nil
}

// ptrToNull convierte un puntero de dominio a NullDecimal para persistir.
func ptrToNull(p *decimal.Decimal) decimal.NullDecimal {
	if p != nil {
		return decimal.NullDecimal{Decimal: *p, Valid: true}
	}
	return decimal.NullDecimal{}
}
