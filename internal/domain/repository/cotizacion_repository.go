package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
)

// CotizacionRepository puerto de persistencia para cotizaciones y sus items.
// Toda operación recibe el empresaID explícito y debe filtrar por él; una
// cotización de otra empresa es invisible (nil, nil), nunca un error distinto.
type CotizacionRepository interface {
	// NextNumero incrementa y devuelve el consecutivo de numeración para la
	// empresa y el año dados, de forma atómica frente a creaciones concurrentes.
	NextNumero(ctx context.Context, empresaID string, anio int) (int, error)

	Create(ctx context.Context, empresaID string, c *entity.Cotizacion) error

	// ListByEmpresa devuelve cabeceras (con resúmenes de cliente y activo,
	// sin items) ordenadas por fecha de creación descendente.
	ListByEmpresa(ctx context.Context, empresaID string, limit, offset int) ([]*entity.Cotizacion, error)

	// GetByID devuelve la cotización completa: cliente, activo e items en
	// orden de creación.
	GetByID(ctx context.Context, empresaID, id string) (*entity.Cotizacion, error)

	UpdateCabecera(ctx context.Context, empresaID string, c *entity.Cotizacion) error

	CambiarEstado(ctx context.Context, empresaID, id, estado string, aprobadoPor *string, fechaAprobacion *time.Time) error

	// Delete elimina la cotización y sus items (cascada en la base de datos).
	Delete(ctx context.Context, empresaID, id string) error

	AddItem(ctx context.Context, empresaID string, item *entity.CotizacionItem) error

	// GetItem devuelve el item y la cabecera de su cotización (sin items).
	GetItem(ctx context.Context, empresaID, itemID string) (*entity.CotizacionItem, *entity.Cotizacion, error)

	UpdateItem(ctx context.Context, empresaID string, item *entity.CotizacionItem) error

	// UpdateItemPrecio fija cantidad, precio unitario, subtotal y el usuario
	// que asignó el precio.
	UpdateItemPrecio(ctx context.Context, empresaID, itemID string, cantidad, precioUnitario, subtotal decimal.Decimal, asignadoPor string) error

	// UpdateTotales fija los totales de la cotización y su estado en una sola
	// escritura.
	UpdateTotales(ctx context.Context, empresaID, id string, subtotal, impuestos, total decimal.Decimal, estado string) error
}
