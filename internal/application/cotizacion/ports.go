package cotizacion

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con el contexto de empresa
// vinculado; el repo recibido está atado a esa transacción. Si fn devuelve
// error, nada queda persistido.
type TxRunner interface {
	RunCotizacion(ctx context.Context, empresaID string, fn func(repo repository.CotizacionRepository) error) error
}

// CotizacionPDFData proyección saneada que recibe el generador de PDF.
// Cuando IncluirPrecios es false, todos los campos de precio llegan en nil;
// el generador nunca ve un precio que el solicitante no puede ver.
type CotizacionPDFData struct {
	Numero         string
	Titulo         string
	Estado         string
	Fecha          time.Time
	ValidezDias    int
	Cliente        *entity.ClienteResumen
	Activo         *entity.ActivoResumen
	Items          []CotizacionPDFItem
	Subtotal       *decimal.Decimal
	Impuestos      *decimal.Decimal
	Total          *decimal.Decimal
	IncluirPrecios bool
}

// CotizacionPDFItem línea de la tabla del PDF.
type CotizacionPDFItem struct {
	Descripcion    string
	Cantidad       decimal.Decimal
	Urgencia       string
	PrecioUnitario *decimal.Decimal
	Subtotal       *decimal.Decimal
}

// CotizacionPDFGenerator contrato del renderizador de documentos. Devuelve
// los bytes del PDF; el caso de uso valida que el buffer no esté vacío.
type CotizacionPDFGenerator interface {
	Generar(ctx context.Context, data *CotizacionPDFData) ([]byte, error)
}
