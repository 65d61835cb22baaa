// Package pdf implementa la representación imprimible de una cotización de
// mantenimiento usando Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + Estado     │  N° Cotización + Fecha       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: Nombre + contacto                                  │
//	│  ACTIVO: Nombre + código                                     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Descripción | Urgencia | P.Unit | Subtotal    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Impuestos / TOTAL  (solo con precios)   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: Validez de la oferta + leyenda                      │
//	└─────────────────────────────────────────────────────────────┘
//
// Las versiones sin precios (solicitante técnico) omiten las columnas de
// valores y el bloque de totales completo; los datos llegan ya saneados.
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	appcotizacion "github.com/jhoicas/Mantenimiento-api/internal/application/cotizacion"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ appcotizacion.CotizacionPDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa cotizacion.CotizacionPDFGenerator usando
// Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// Generar renderiza el PDF de la cotización y devuelve sus bytes.
func (g *MarotoPDFGenerator) Generar(_ context.Context, data *appcotizacion.CotizacionPDFData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Cotización "+data.Numero, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(data))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(clienteRow(data))
	m.AddRows(activoRow(data))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	// Tabla de items
	m.AddRows(tableHeaderRow(data.IncluirPrecios))
	for _, r := range tableItemRows(data.Items, data.IncluirPrecios) {
		m.AddRows(r)
	}

	// Totales solo cuando el solicitante puede ver precios
	if data.IncluirPrecios {
		m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
		m.AddRows(totalsRow(data))
	}

	// Footer
	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRows(data)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título + estado (izq) y N° cotización + fecha (der).
func headerRow(data *appcotizacion.CotizacionPDFData) core.Row {
	fecha := data.Fecha.Format("02/01/2006")

	return row.New(18).Add(
		col.New(7).Add(
			text.New(data.Titulo, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Estado: "+data.Estado, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("COTIZACIÓN DE MANTENIMIENTO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(data.Numero, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// clienteRow: datos del cliente destinatario.
func clienteRow(data *appcotizacion.CotizacionPDFData) core.Row {
	nombre, contacto := "—", "—"
	if data.Cliente != nil {
		nombre = data.Cliente.Nombre
		contacto = fmt.Sprintf("Email: %s   |   Tel: %s",
			nonEmpty(data.Cliente.Email, "—"),
			nonEmpty(data.Cliente.Telefono, "—"),
		)
	}
	return row.New(14).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(nombre, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(contacto, props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// activoRow: equipo o activo objeto del mantenimiento.
func activoRow(data *appcotizacion.CotizacionPDFData) core.Row {
	detalle := "—"
	if data.Activo != nil {
		detalle = fmt.Sprintf("%s   |   Código: %s",
			data.Activo.Nombre,
			nonEmpty(data.Activo.Codigo, "—"),
		)
	}
	return row.New(12).Add(
		col.New(12).Add(
			text.New("ACTIVO / EQUIPO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(detalle, props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de items. Sin precios, la descripción
// absorbe las columnas de valores.
func tableHeaderRow(conPrecios bool) core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	if !conPrecios {
		return row.New(8).Add(
			h("Cant.", 1, align.Center),
			h("Descripción del trabajo", 9, align.Left),
			h("Urgencia", 2, align.Center),
		)
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Descripción del trabajo", 4, align.Left),
		h("Urgencia", 2, align.Center),
		h("Precio Unit.", 2, align.Right),
		h("Subtotal", 3, align.Right),
	)
}

// tableItemRows: una fila por item.
func tableItemRows(items []appcotizacion.CotizacionPDFItem, conPrecios bool) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		cols := []core.Col{
			col.New(1).Add(text.New(
				it.Cantidad.StringFixed(0),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
		}
		if !conPrecios {
			cols = append(cols,
				col.New(9).Add(text.New(
					it.Descripcion,
					props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
				)),
				col.New(2).Add(text.New(
					it.Urgencia,
					props.Text{Size: 8, Align: align.Center, Top: 1},
				)),
			)
		} else {
			cols = append(cols,
				col.New(4).Add(text.New(
					it.Descripcion,
					props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
				)),
				col.New(2).Add(text.New(
					it.Urgencia,
					props.Text{Size: 8, Align: align.Center, Top: 1},
				)),
				col.New(2).Add(text.New(
					money(it.PrecioUnitario),
					props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
				)),
				col.New(3).Add(text.New(
					money(it.Subtotal),
					props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
				)),
			)
		}
		result = append(result, row.New(7).Add(cols...))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(data *appcotizacion.CotizacionPDFData) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grandLabel := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2,
		})
	}
	grandValue := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1,
		})
	}

	return row.New(26).Add(
		col.New(3), // espacio izquierdo
		col.New(3).Add(
			label("Subtotal:"),
			label("Impuestos:"),
			grandLabel("TOTAL:"),
		),
		col.New(3).Add(
			value(money(data.Subtotal)),
			value(money(data.Impuestos)),
			grandValue(money(data.Total)),
		),
		col.New(3), // espacio derecho
	)
}

// footerRows: validez de la oferta + leyenda.
func footerRows(data *appcotizacion.CotizacionPDFData) []core.Row {
	return []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New(fmt.Sprintf("Validez de la oferta: %d días a partir de la fecha de emisión.", data.ValidezDias), props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
		row.New(8).Add(col.New(12).Add(
			text.New(
				"Esta cotización no constituye orden de trabajo. Los valores están "+
					"sujetos a disponibilidad de repuestos y condiciones del activo al "+
					"momento de la intervención.",
				props.Text{Size: 6.5, Color: colorGray, Top: 2},
			),
		)),
	}
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// money formatea un precio con signo de pesos y puntos de miles; en las
// versiones sin precios los valores llegan en nil y la celda queda vacía.
func money(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return "$" + formatMoney(d.StringFixed(0))
}

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func formatMoney(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
