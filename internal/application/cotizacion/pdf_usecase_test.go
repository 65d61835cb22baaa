package cotizacion

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Mantenimiento-api/internal/domain"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
)

// fakeGenerator registra las invocaciones y los datos recibidos.
type fakeGenerator struct {
	invocaciones int
	ultimo       *CotizacionPDFData
	resultado    []byte
	err          error
}

func (g *fakeGenerator) Generar(_ context.Context, data *CotizacionPDFData) ([]byte, error) {
	g.invocaciones++
	g.ultimo = data
	if g.err != nil {
		return nil, g.err
	}
	return g.resultado, nil
}

// foreignRepo devuelve una cotización de otra empresa sin importar el filtro;
// simula un adaptador con el aislamiento roto para probar el chequeo dedicado.
type foreignRepo struct {
	repository.CotizacionRepository
	c *entity.Cotizacion
}

func (r *foreignRepo) GetByID(_ context.Context, _, _ string) (*entity.Cotizacion, error) {
	return r.c, nil
}

func pdfCotizacion() *entity.Cotizacion {
	precio := decimal.NewFromInt(50000)
	sub := decimal.NewFromInt(100000)
	imp := decimal.NewFromInt(19000)
	tot := decimal.NewFromInt(119000)
	return &entity.Cotizacion{
		ID:          "cot-1",
		EmpresaID:   testEmpresaID,
		Numero:      "COT-2026-007",
		Titulo:      "Mantenimiento compresor",
		Estado:      entity.EstadoEnviada,
		ValidezDias: 30,
		Subtotal:    &sub,
		Impuestos:   &imp,
		Total:       &tot,
		Cliente:     &entity.ClienteResumen{ID: "cliente-1", Nombre: "Acerías del Norte"},
		Activo:      &entity.ActivoResumen{ID: "activo-1", Nombre: "Compresor #3", Codigo: "CMP-003"},
		Items: []entity.CotizacionItem{
			{Descripcion: "Cambio de rodamientos", Cantidad: decimal.NewFromInt(2), Urgencia: entity.UrgenciaAlta, PrecioUnitario: &precio, Subtotal: &sub},
		},
		CreatedAt: time.Now(),
	}
}

func TestGenerarPDF_OtraEmpresa_NuncaInvocaElGenerador(t *testing.T) {
	gen := &fakeGenerator{resultado: []byte("%PDF-1.7")}
	uc := NewPDFUseCase(&foreignRepo{c: pdfCotizacion()}, gen)

	ajeno := &entity.Principal{ID: "intruso", Rol: entity.RolAdmin, EmpresaID: otraEmpresaID}
	_, err := uc.GenerarCotizacionPDF(context.Background(), ajeno, "cot-1")

	assert.ErrorIs(t, err, domain.ErrCrossTenant)
	assert.Zero(t, gen.invocaciones, "el generador no debe ver datos de otra empresa")
}

func TestGenerarPDF_TecnicoRecibeProyeccionSinPrecios(t *testing.T) {
	repo := newFakeRepo()
	c := pdfCotizacion()
	require.NoError(t, repo.Create(context.Background(), testEmpresaID, c))
	for i := range c.Items {
		c.Items[i].ID = "item-1"
		c.Items[i].CotizacionID = c.ID
		require.NoError(t, repo.AddItem(context.Background(), testEmpresaID, &c.Items[i]))
	}

	gen := &fakeGenerator{resultado: []byte("%PDF-1.7")}
	uc := NewPDFUseCase(repo, gen)

	_, err := uc.GenerarCotizacionPDF(context.Background(), principalCon(entity.RolTecnico), c.ID)
	require.NoError(t, err)

	require.NotNil(t, gen.ultimo)
	assert.False(t, gen.ultimo.IncluirPrecios)
	assert.Nil(t, gen.ultimo.Subtotal)
	assert.Nil(t, gen.ultimo.Total)
	require.Len(t, gen.ultimo.Items, 1)
	assert.Nil(t, gen.ultimo.Items[0].PrecioUnitario)
	assert.Equal(t, "Cambio de rodamientos", gen.ultimo.Items[0].Descripcion, "los campos no sensibles viajan completos")
}

func TestGenerarPDF_LiderRecibePreciosCompletos(t *testing.T) {
	repo := newFakeRepo()
	c := pdfCotizacion()
	require.NoError(t, repo.Create(context.Background(), testEmpresaID, c))

	gen := &fakeGenerator{resultado: []byte("%PDF-1.7")}
	uc := NewPDFUseCase(repo, gen)

	result, err := uc.GenerarCotizacionPDF(context.Background(), principalCon(entity.RolLiderEquipo), c.ID)
	require.NoError(t, err)

	assert.True(t, gen.ultimo.IncluirPrecios)
	require.NotNil(t, gen.ultimo.Total)
	assert.True(t, gen.ultimo.Total.Equal(decimal.NewFromInt(119000)))
	assert.Equal(t, "cotizacion-COT-2026-007.pdf", result.Filename)
	assert.NotEmpty(t, result.Contenido)
}

func TestGenerarPDF_NombreDeArchivoSaneado(t *testing.T) {
	repo := newFakeRepo()
	c := pdfCotizacion()
	c.Numero = `COT/2026\..;"007`
	require.NoError(t, repo.Create(context.Background(), testEmpresaID, c))

	gen := &fakeGenerator{resultado: []byte("%PDF-1.7")}
	uc := NewPDFUseCase(repo, gen)

	result, err := uc.GenerarCotizacionPDF(context.Background(), principalCon(entity.RolAdmin), c.ID)
	require.NoError(t, err)
	assert.Equal(t, "cotizacion-COT_2026_____007.pdf", result.Filename)
}

func TestGenerarPDF_NoEncontrada(t *testing.T) {
	gen := &fakeGenerator{resultado: []byte("%PDF-1.7")}
	uc := NewPDFUseCase(newFakeRepo(), gen)

	_, err := uc.GenerarCotizacionPDF(context.Background(), principalCon(entity.RolAdmin), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Zero(t, gen.invocaciones)
}

func TestGenerarPDF_BufferVacio_EsError(t *testing.T) {
	repo := newFakeRepo()
	c := pdfCotizacion()
	require.NoError(t, repo.Create(context.Background(), testEmpresaID, c))

	uc := NewPDFUseCase(repo, &fakeGenerator{resultado: nil})
	_, err := uc.GenerarCotizacionPDF(context.Background(), principalCon(entity.RolAdmin), c.ID)
	assert.Error(t, err)
}

func TestGenerarPDF_ErrorDelGenerador_SePropaga(t *testing.T) {
	repo := newFakeRepo()
	c := pdfCotizacion()
	require.NoError(t, repo.Create(context.Background(), testEmpresaID, c))

	causa := errors.New("fuente no disponible")
	uc := NewPDFUseCase(repo, &fakeGenerator{err: causa})
	_, err := uc.GenerarCotizacionPDF(context.Background(), principalCon(entity.RolAdmin), c.ID)
	assert.ErrorIs(t, err, causa)
}
