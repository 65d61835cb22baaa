package cotizacion

import (
	"context"
	"fmt"
	"regexp"

	"github.com/jhoicas/Mantenimiento-api/internal/domain"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
)

// nombreArchivoRe caracteres no admitidos en el nombre del archivo.
var nombreArchivoRe = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// PDFUseCase genera el PDF de una cotización. La verificación de empresa es
// un chequeo dedicado de este camino: si la cotización no pertenece a la
// empresa del principal, el generador nunca llega a invocarse.
type PDFUseCase struct {
	cotRepo   repository.CotizacionRepository
	generator CotizacionPDFGenerator
}

// PDFResult documento renderizado más su nombre de archivo seguro.
type PDFResult struct {
	Filename  string
	Contenido []byte
}

// NewPDFUseCase construye el caso de uso.
func NewPDFUseCase(cotRepo repository.CotizacionRepository, generator CotizacionPDFGenerator) *PDFUseCase {
	return &PDFUseCase{cotRepo: cotRepo, generator: generator}
}

// GenerarCotizacionPDF relee la cotización, construye la proyección saneada
// (precios en nil para técnico) y la entrega al generador. El buffer
// devuelto debe ser no vacío.
func (uc *PDFUseCase) GenerarCotizacionPDF(ctx context.Context, p *entity.Principal, id string) (*PDFResult, error) {
	c, err := uc.cotRepo.GetByID(ctx, p.EmpresaID, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if c.EmpresaID != p.EmpresaID {
		return nil, domain.ErrCrossTenant
	}

	incluirPrecios := p.Rol != entity.RolTecnico
	data := buildCotizacionPDFData(c, incluirPrecios)

	buf, err := uc.generator.Generar(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("generar pdf de cotización %s: %w", c.Numero, err)
	}
	if len(buf) == 0 {
		return nil, fmt.Errorf("generar pdf de cotización %s: documento vacío", c.Numero)
	}

	base := c.Numero
	if base == "" {
		base = c.ID
	}
	return &PDFResult{
		Filename:  "cotizacion-" + sanitizarNombreArchivo(base) + ".pdf",
		Contenido: buf,
	}, nil
}

// buildCotizacionPDFData proyecta la cotización para el renderizador; con
// incluirPrecios en false todos los campos de precio salen en nil.
func buildCotizacionPDFData(c *entity.Cotizacion, incluirPrecios bool) *CotizacionPDFData {
	data := &CotizacionPDFData{
		Numero:         c.Numero,
		Titulo:         c.Titulo,
		Estado:         c.Estado,
		Fecha:          c.CreatedAt,
		ValidezDias:    c.ValidezDias,
		Cliente:        c.Cliente,
		Activo:         c.Activo,
		IncluirPrecios: incluirPrecios,
	}
	if incluirPrecios {
		data.Subtotal = c.Subtotal
		data.Impuestos = c.Impuestos
		data.Total = c.Total
	}
	for _, item := range c.Items {
		pdfItem := CotizacionPDFItem{
			Descripcion: item.Descripcion,
			Cantidad:    item.Cantidad,
			Urgencia:    item.Urgencia,
		}
		if incluirPrecios {
			pdfItem.PrecioUnitario = item.PrecioUnitario
			pdfItem.Subtotal = item.Subtotal
		}
		data.Items = append(data.Items, pdfItem)
	}
	return data
}

// sanitizarNombreArchivo reemplaza todo carácter fuera de [A-Za-z0-9_-]
// para garantizar un nombre seguro en la cabecera Content-Disposition.
func sanitizarNombreArchivo(s string) string {
	return nombreArchivoRe.ReplaceAllString(s, "_")
}
