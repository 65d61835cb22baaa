package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCotizacionRequest datos para crear una cotización.
type CreateCotizacionRequest struct {
	ClienteID   string `json:"clienteId"`
	ActivoID    string `json:"activoId"`
	Titulo      string `json:"titulo"`
	Descripcion string `json:"descripcion"`
	ValidezDias int    `json:"validezDias"`
}

// UpdateCotizacionRequest actualización parcial de la cabecera. Campos nil
// se dejan como están.
type UpdateCotizacionRequest struct {
	Titulo      *string `json:"titulo"`
	Descripcion *string `json:"descripcion"`
	ValidezDias *int    `json:"validezDias"`
}

// AddItemRequest alta de un item. Sin campos de precio: los técnicos agregan
// items con descripción, cantidad y urgencia; el precio llega después por
// asignar-precios.
type AddItemRequest struct {
	Descripcion string           `json:"descripcion"`
	Cantidad    *decimal.Decimal `json:"cantidad"` // default 1
	Urgencia    string           `json:"urgencia"` // default media
}

// UpdateItemRequest actualización parcial de un item. El precio unitario
// solo se aplica para admin y líder; para técnico se descarta en silencio.
type UpdateItemRequest struct {
	Descripcion    *string          `json:"descripcion"`
	Cantidad       *decimal.Decimal `json:"cantidad"`
	Urgencia       *string          `json:"urgencia"`
	PrecioUnitario *decimal.Decimal `json:"precioUnitario"`
}

// ItemPrecio precio asignado a un item dentro de asignar-precios.
type ItemPrecio struct {
	ItemID         string          `json:"itemId"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precioUnitario"`
}

// AsignarPreciosRequest lote de precios más el porcentaje de impuestos.
type AsignarPreciosRequest struct {
	Items               []ItemPrecio     `json:"items"`
	PorcentajeImpuestos *decimal.Decimal `json:"porcentajeImpuestos"` // default 19
}

// CambiarEstadoRequest transición de estado solicitada.
type CambiarEstadoRequest struct {
	Estado string `json:"estado"`
}

// ClienteResponse resumen del cliente en respuestas de cotización.
type ClienteResponse struct {
	ID       string `json:"id"`
	Nombre   string `json:"nombre"`
	Email    string `json:"email"`
	Telefono string `json:"telefono"`
}

// ActivoResponse resumen del activo en respuestas de cotización.
type ActivoResponse struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
	Codigo string `json:"codigo"`
}

// CotizacionItemResponse item en respuestas. Los campos de precio son
// punteros: para un técnico viajan como null aunque existan en la base.
type CotizacionItemResponse struct {
	ID                string           `json:"id"`
	Descripcion       string           `json:"descripcion"`
	Cantidad          decimal.Decimal  `json:"cantidad"`
	Urgencia          string           `json:"urgencia"`
	PrecioUnitario    *decimal.Decimal `json:"precioUnitario"`
	Subtotal          *decimal.Decimal `json:"subtotal"`
	AgregadoPor       string           `json:"agregadoPor"`
	PrecioAsignadoPor *string          `json:"precioAsignadoPor"`
	CreatedAt         time.Time        `json:"createdAt"`
}

// CotizacionResponse cotización completa en respuestas.
type CotizacionResponse struct {
	ID              string                   `json:"id"`
	Numero          string                   `json:"numero"`
	Titulo          string                   `json:"titulo"`
	Descripcion     string                   `json:"descripcion"`
	ValidezDias     int                      `json:"validezDias"`
	Estado          string                   `json:"estado"`
	ClienteID       string                   `json:"clienteId"`
	ActivoID        string                   `json:"activoId"`
	Cliente         *ClienteResponse         `json:"cliente,omitempty"`
	Activo          *ActivoResponse          `json:"activo,omitempty"`
	Items           []CotizacionItemResponse `json:"items,omitempty"`
	Subtotal        *decimal.Decimal         `json:"subtotal"`
	Impuestos       *decimal.Decimal         `json:"impuestos"`
	Total           *decimal.Decimal         `json:"total"`
	CreadoPor       string                   `json:"creadoPor"`
	AprobadoPor     *string                  `json:"aprobadoPor"`
	FechaAprobacion *time.Time               `json:"fechaAprobacion"`
	CreatedAt       time.Time                `json:"createdAt"`
	UpdatedAt       time.Time                `json:"updatedAt"`
}
