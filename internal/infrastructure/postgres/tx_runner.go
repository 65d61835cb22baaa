package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Mantenimiento-api/internal/application/cotizacion"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
)

// Asegura que TxRunner implementa cotizacion.TxRunner.
var _ cotizacion.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL con el
// contexto de empresa vinculado.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunCotizacion inicia una transacción, vincula la empresa activa como
// primera operación (respaldo RLS, tx-local) y ejecuta fn con un repo atado
// a la tx. Commit solo si fn no falla; el rollback diferido cubre todo
// camino de salida y con él se limpia también el contexto de empresa.
func (r *TxRunner) RunCotizacion(ctx context.Context, empresaID string, fn func(repo repository.CotizacionRepository) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := bindEmpresa(ctx, tx, empresaID); err != nil {
		return fmt.Errorf("bind empresa context: %w", err)
	}

	if err := fn(NewCotizacionRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
