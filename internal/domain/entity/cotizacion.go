package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una cotización. El ciclo de vida completo es:
// borrador → en_revision ⇄ lista_envio → enviada → aprobada|rechazada → cerrada.
const (
	EstadoBorrador   = "borrador"
	EstadoEnRevision = "en_revision"
	EstadoListaEnvio = "lista_envio"
	EstadoEnviada    = "enviada"
	EstadoAprobada   = "aprobada"
	EstadoRechazada  = "rechazada"
	EstadoCerrada    = "cerrada" // terminal, sin transiciones de salida
)

// Urgencias válidas para un item.
const (
	UrgenciaBaja  = "baja"
	UrgenciaMedia = "media"
	UrgenciaAlta  = "alta"
)

// transicionesValidas: por cada estado, los destinos permitidos.
var transicionesValidas = map[string][]string{
	EstadoBorrador:   {EstadoEnRevision},
	EstadoEnRevision: {EstadoListaEnvio, EstadoBorrador},
	EstadoListaEnvio: {EstadoEnviada, EstadoEnRevision},
	EstadoEnviada:    {EstadoAprobada, EstadoRechazada},
	EstadoAprobada:   {EstadoCerrada},
	EstadoRechazada:  {EstadoCerrada},
	EstadoCerrada:    {},
}

// TransicionValida informa si el cambio desde → hacia está permitido.
func TransicionValida(desde, hacia string) bool {
	for _, destino := range transicionesValidas[desde] {
		if destino == hacia {
			return true
		}
	}
	return false
}

// EstadoMutable informa si la cotización admite mutaciones de cabecera o items.
// Una vez enviada (o más allá), queda bloqueada.
func EstadoMutable(estado string) bool {
	switch estado {
	case EstadoBorrador, EstadoEnRevision, EstadoListaEnvio:
		return true
	}
	return false
}

// EstadoValido informa si el valor es un estado conocido.
func EstadoValido(estado string) bool {
	_, ok := transicionesValidas[estado]
	return ok
}

// UrgenciaValida informa si el valor es una urgencia conocida.
func UrgenciaValida(urgencia string) bool {
	switch urgencia {
	case UrgenciaBaja, UrgenciaMedia, UrgenciaAlta:
		return true
	}
	return false
}

// CantidadValida informa si la cantidad de un item es admisible: positiva y
// con a lo sumo dos decimales.
func CantidadValida(cantidad decimal.Decimal) bool {
	return cantidad.GreaterThan(decimal.Zero) && cantidad.Equal(cantidad.Round(2))
}

// ClienteResumen datos mínimos del cliente anexados a la cotización.
type ClienteResumen struct {
	ID       string
	Nombre   string
	Email    string
	Telefono string
}

// ActivoResumen datos mínimos del activo (equipo) anexados a la cotización.
type ActivoResumen struct {
	ID     string
	Nombre string
	Codigo string
}

// Cotizacion propuesta de mantenimiento anclada a un cliente y un activo.
// Los campos de precio son nil hasta que un admin o líder asigna precios.
type Cotizacion struct {
	ID              string
	EmpresaID       string
	ClienteID       string
	ActivoID        string
	Numero          string // COT-<año>-<consecutivo>, secuencial por empresa y año
	Titulo          string
	Descripcion     string
	ValidezDias     int
	Estado          string
	CreadoPor       string
	AprobadoPor     *string
	FechaAprobacion *time.Time
	Subtotal        *decimal.Decimal
	Impuestos       *decimal.Decimal
	Total           *decimal.Decimal
	Cliente         *ClienteResumen
	Activo          *ActivoResumen
	Items           []CotizacionItem
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CotizacionItem línea de una cotización. PrecioUnitario y Subtotal son nil
// hasta que se asignan precios; Subtotal = Cantidad × PrecioUnitario siempre
// que ambos existan, y se recalcula en cada mutación de cantidad o precio.
type CotizacionItem struct {
	ID                string
	CotizacionID      string
	EmpresaID         string
	Descripcion       string
	Cantidad          decimal.Decimal
	Urgencia          string // baja, media, alta
	PrecioUnitario    *decimal.Decimal
	Subtotal          *decimal.Decimal
	AgregadoPor       string
	PrecioAsignadoPor *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// RecalcularSubtotal fija Subtotal = Cantidad × PrecioUnitario si hay precio;
// sin precio el subtotal queda nil.
func (i *CotizacionItem) RecalcularSubtotal() {
	if i.PrecioUnitario == nil {
		i.Subtotal = nil
		return
	}
	s := i.Cantidad.Mul(*i.PrecioUnitario)
	i.Subtotal = &s
}
