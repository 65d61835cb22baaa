package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Mantenimiento-api/internal/domain"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
)

var _ repository.CotizacionRepository = (*CotizacionRepo)(nil)

// CotizacionRepo implementación del puerto CotizacionRepository sobre
// PostgreSQL. Cada query lleva empresa_id explícito; en las transacciones
// de escritura las políticas RLS sobre current_setting('app.empresa_id')
// actúan como respaldo.
type CotizacionRepo struct {
	db querier
}

// NewCotizacionRepository construye el adaptador; acepta pool o transacción.
func NewCotizacionRepository(db querier) *CotizacionRepo {
	return &CotizacionRepo{db: db}
}

// NextNumero incrementa el consecutivo por empresa y año con un upsert
// atómico sobre cotizacion_secuencias: dos creaciones concurrentes del
// mismo tenant-año serializan en la fila del contador y nunca repiten.
func (r *CotizacionRepo) NextNumero(ctx context.Context, empresaID string, anio int) (int, error) {
	const query = `
		INSERT INTO cotizacion_secuencias (empresa_id, anio, consecutivo)
		VALUES ($1, $2, 1)
		ON CONFLICT (empresa_id, anio)
		DO UPDATE SET consecutivo = cotizacion_secuencias.consecutivo + 1
		RETURNING consecutivo`
	var consecutivo int
	if err := r.db.QueryRow(ctx, query, empresaID, anio).Scan(&consecutivo); err != nil {
		return 0, fmt.Errorf("next numero cotizacion: %w", err)
	}
	return consecutivo, nil
}

// Create persiste la cabecera de una nueva cotización.
func (r *CotizacionRepo) Create(ctx context.Context, empresaID string, c *entity.Cotizacion) error {
	const query = `
		INSERT INTO cotizaciones (
			id, empresa_id, cliente_id, activo_id, numero, titulo, descripcion,
			validez_dias, estado, creado_por, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.db.Exec(ctx, query,
		c.ID, empresaID, c.ClienteID, c.ActivoID, c.Numero, c.Titulo, c.Descripcion,
		c.ValidezDias, c.Estado, c.CreadoPor, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert cotizacion: %w", err)
	}
	return nil
}

const cotizacionSelect = `
	SELECT c.id, c.empresa_id, c.cliente_id, c.activo_id, c.numero, c.titulo,
	       c.descripcion, c.validez_dias, c.estado, c.creado_por, c.aprobado_por,
	       c.fecha_aprobacion, c.subtotal, c.impuestos, c.total,
	       c.created_at, c.updated_at,
	       cl.nombre, cl.email, cl.telefono,
	       a.nombre, a.codigo
	FROM cotizaciones c
	LEFT JOIN clientes cl ON cl.id = c.cliente_id AND cl.empresa_id = c.empresa_id
	LEFT JOIN activos a ON a.id = c.activo_id AND a.empresa_id = c.empresa_id`

// ListByEmpresa devuelve cabeceras de cotización de la empresa, más
// recientes primero.
func (r *CotizacionRepo) ListByEmpresa(ctx context.Context, empresaID string, limit, offset int) ([]*entity.Cotizacion, error) {
	query := cotizacionSelect + `
	WHERE c.empresa_id = $1
	ORDER BY c.created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, empresaID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list cotizaciones: %w", err)
	}
	defer rows.Close()

	var list []*entity.Cotizacion
	for rows.Next() {
		c, err := scanCotizacion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cotizacion: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// GetByID devuelve la cotización completa con cliente, activo e items en
// orden de creación. (nil, nil) si no existe dentro de la empresa.
func (r *CotizacionRepo) GetByID(ctx context.Context, empresaID, id string) (*entity.Cotizacion, error) {
	query := cotizacionSelect + `
	WHERE c.empresa_id = $1 AND c.id = $2`
	row := r.db.QueryRow(ctx, query, empresaID, id)
	c, err := scanCotizacion(row)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cotizacion: %w", err)
	}

	items, err := r.listItems(ctx, empresaID, id)
	if err != nil {
		return nil, err
	}
	c.Items = items
	return c, nil
}

// UpdateCabecera actualiza los campos editables de la cabecera.
func (r *CotizacionRepo) UpdateCabecera(ctx context.Context, empresaID string, c *entity.Cotizacion) error {
	const query = `
		UPDATE cotizaciones
		SET titulo = $3, descripcion = $4, validez_dias = $5, updated_at = $6
		WHERE empresa_id = $1 AND id = $2`
	cmd, err := r.db.Exec(ctx, query, empresaID, c.ID, c.Titulo, c.Descripcion, c.ValidezDias, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update cotizacion: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CambiarEstado persiste la transición; al aprobar registra quién y cuándo.
func (r *CotizacionRepo) CambiarEstado(ctx context.Context, empresaID, id, estado string, aprobadoPor *string, fechaAprobacion *time.Time) error {
	const query = `
		UPDATE cotizaciones
		SET estado = $3,
		    aprobado_por = COALESCE($4, aprobado_por),
		    fecha_aprobacion = COALESCE($5, fecha_aprobacion),
		    updated_at = now()
		WHERE empresa_id = $1 AND id = $2`
	cmd, err := r.db.Exec(ctx, query, empresaID, id, estado, aprobadoPor, fechaAprobacion)
	if err != nil {
		return fmt.Errorf("cambiar estado cotizacion: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la cotización; los items caen por ON DELETE CASCADE.
func (r *CotizacionRepo) Delete(ctx context.Context, empresaID, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM cotizaciones WHERE empresa_id = $1 AND id = $2`, empresaID, id)
	if err != nil {
		return fmt.Errorf("delete cotizacion: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

const itemColumns = `id, cotizacion_id, empresa_id, descripcion, cantidad, urgencia,
	precio_unitario, subtotal, agregado_por, precio_asignado_por, created_at, updated_at`

// AddItem persiste un nuevo item de cotización.
func (r *CotizacionRepo) AddItem(ctx context.Context, empresaID string, item *entity.CotizacionItem) error {
	const query = `
		INSERT INTO cotizacion_items (
			id, cotizacion_id, empresa_id, descripcion, cantidad, urgencia,
			precio_unitario, subtotal, agregado_por, precio_asignado_por,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.db.Exec(ctx, query,
		item.ID, item.CotizacionID, empresaID, item.Descripcion, item.Cantidad, item.Urgencia,
		ptrToNull(item.PrecioUnitario), ptrToNull(item.Subtotal),
		item.AgregadoPor, item.PrecioAsignadoPor, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert item cotizacion: %w", err)
	}
	return nil
}

// GetItem devuelve el item y la cabecera de su cotización.
func (r *CotizacionRepo) GetItem(ctx context.Context, empresaID, itemID string) (*entity.CotizacionItem, *entity.Cotizacion, error) {
	const query = `
		SELECT i.id, i.cotizacion_id, i.empresa_id, i.descripcion, i.cantidad, i.urgencia,
		       i.precio_unitario, i.subtotal, i.agregado_por, i.precio_asignado_por,
		       i.created_at, i.updated_at,
		       c.id, c.estado, c.numero
		FROM cotizacion_items i
		JOIN cotizaciones c ON c.id = i.cotizacion_id AND c.empresa_id = i.empresa_id
		WHERE i.empresa_id = $1 AND i.id = $2`
	var item entity.CotizacionItem
	var cab entity.Cotizacion
	var precio, subtotal decimal.NullDecimal
	err := r.db.QueryRow(ctx, query, empresaID, itemID).Scan(
		&item.ID, &item.CotizacionID, &item.EmpresaID, &item.Descripcion, &item.Cantidad, &item.Urgencia,
		&precio, &subtotal, &item.AgregadoPor, &item.PrecioAsignadoPor,
		&item.CreatedAt, &item.UpdatedAt,
		&cab.ID, &cab.Estado, &cab.Numero,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("get item cotizacion: %w", err)
	}
	item.PrecioUnitario = nullToPtr(precio)
	item.Subtotal = nullToPtr(subtotal)
	cab.EmpresaID = empresaID
	return &item, &cab, nil
}

// UpdateItem persiste descripción, cantidad, urgencia y precios del item.
func (r *CotizacionRepo) UpdateItem(ctx context.Context, empresaID string, item *entity.CotizacionItem) error {
	const query = `
		UPDATE cotizacion_items
		SET descripcion = $3, cantidad = $4, urgencia = $5,
		    precio_unitario = $6, subtotal = $7, precio_asignado_por = $8,
		    updated_at = $9
		WHERE empresa_id = $1 AND id = $2`
	cmd, err := r.db.Exec(ctx, query,
		empresaID, item.ID, item.Descripcion, item.Cantidad, item.Urgencia,
		ptrToNull(item.PrecioUnitario), ptrToNull(item.Subtotal),
		item.PrecioAsignadoPor, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update item cotizacion: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateItemPrecio fija cantidad, precio, subtotal y el usuario asignador.
func (r *CotizacionRepo) UpdateItemPrecio(ctx context.Context, empresaID, itemID string, cantidad, precioUnitario, subtotal decimal.Decimal, asignadoPor string) error {
	const query = `
		UPDATE cotizacion_items
		SET cantidad = $3, precio_unitario = $4, subtotal = $5,
		    precio_asignado_por = $6, updated_at = now()
		WHERE empresa_id = $1 AND id = $2`
	cmd, err := r.db.Exec(ctx, query, empresaID, itemID, cantidad, precioUnitario, subtotal, asignadoPor)
	if err != nil {
		return fmt.Errorf("update precio item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateTotales fija totales y estado de la cotización en una sola escritura.
func (r *CotizacionRepo) UpdateTotales(ctx context.Context, empresaID, id string, subtotal, impuestos, total decimal.Decimal, estado string) error {
	const query = `
		UPDATE cotizaciones
		SET subtotal = $3, impuestos = $4, total = $5, estado = $6, updated_at = now()
		WHERE empresa_id = $1 AND id = $2`
	cmd, err := r.db.Exec(ctx, query, empresaID, id, subtotal, impuestos, total, estado)
	if err != nil {
		return fmt.Errorf("update totales cotizacion: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CotizacionRepo) listItems(ctx context.Context, empresaID, cotizacionID string) ([]entity.CotizacionItem, error) {
	query := `SELECT ` + itemColumns + `
		FROM cotizacion_items
		WHERE empresa_id = $1 AND cotizacion_id = $2
		ORDER BY created_at ASC`
	rows, err := r.db.Query(ctx, query, empresaID, cotizacionID)
	if err != nil {
		return nil, fmt.Errorf("list items cotizacion: %w", err)
	}
	defer rows.Close()

	var items []entity.CotizacionItem
	for rows.Next() {
		var item entity.CotizacionItem
		var precio, subtotal decimal.NullDecimal
		if err := rows.Scan(
			&item.ID, &item.CotizacionID, &item.EmpresaID, &item.Descripcion, &item.Cantidad, &item.Urgencia,
			&precio, &subtotal, &item.AgregadoPor, &item.PrecioAsignadoPor,
			&item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan item cotizacion: %w", err)
		}
		item.PrecioUnitario = nullToPtr(precio)
		item.Subtotal = nullToPtr(subtotal)
		items = append(items, item)
	}
	return items, rows.Err()
}

// scanCotizacion mapea una fila del select base (cabecera + resúmenes).
func scanCotizacion(row interface{ Scan(dest ...any) error }) (*entity.Cotizacion, error) {
	var c entity.Cotizacion
	var subtotal, impuestos, total decimal.NullDecimal
	var clNombre, clEmail, clTelefono *string
	var acNombre, acCodigo *string
	err := row.Scan(
		&c.ID, &c.EmpresaID, &c.ClienteID, &c.ActivoID, &c.Numero, &c.Titulo,
		&c.Descripcion, &c.ValidezDias, &c.Estado, &c.CreadoPor, &c.AprobadoPor,
		&c.FechaAprobacion, &subtotal, &impuestos, &total,
		&c.CreatedAt, &c.UpdatedAt,
		&clNombre, &clEmail, &clTelefono,
		&acNombre, &acCodigo,
	)
	if err != nil {
		return nil, err
	}
	c.Subtotal = nullToPtr(subtotal)
	c.Impuestos = nullToPtr(impuestos)
	c.Total = nullToPtr(total)
	if clNombre != nil {
		c.Cliente = &entity.ClienteResumen{
			ID:       c.ClienteID,
			Nombre:   *clNombre,
			Email:    deref(clEmail),
			Telefono: deref(clTelefono),
		}
	}
	if acNombre != nil {
		c.Activo = &entity.ActivoResumen{
			ID:     c.ActivoID,
			Nombre: *acNombre,
			Codigo: deref(acCodigo),
		}
	}
	return &c, nil
}

func deref(s *string) string {
	if s != nil {
		return *s
	}
	return ""
}
