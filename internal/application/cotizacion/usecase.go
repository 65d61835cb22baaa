package cotizacion

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Mantenimiento-api/internal/application/dto"
	"github.com/jhoicas/Mantenimiento-api/internal/domain"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
)

// porcentajeImpuestosDefault IVA aplicado cuando la petición no lo indica.
var porcentajeImpuestosDefault = decimal.NewFromInt(19)

// CotizacionUseCase motor del flujo de cotizaciones: numeración, máquina de
// estados, reglas de precios por rol y totales. Toda operación recibe el
// principal ya resuelto; el empresaID del principal acota cada acceso a datos.
type CotizacionUseCase struct {
	cotRepo repository.CotizacionRepository
	tx      TxRunner
}

// NewCotizacionUseCase construye el caso de uso.
func NewCotizacionUseCase(cotRepo repository.CotizacionRepository, tx TxRunner) *CotizacionUseCase {
	return &CotizacionUseCase{cotRepo: cotRepo, tx: tx}
}

// Create crea una cotización en borrador con número COT-<año>-<consecutivo>.
// El consecutivo sale de un contador por empresa y año incrementado dentro
// de la misma transacción del insert: dos creaciones concurrentes nunca
// repiten número.
func (uc *CotizacionUseCase) Create(ctx context.Context, p *entity.Principal, in dto.CreateCotizacionRequest) (*dto.CotizacionResponse, error) {
	if in.ClienteID == "" || in.ActivoID == "" || in.Titulo == "" {
		return nil, domain.ErrInvalidInput
	}
	validez := in.ValidezDias
	if validez <= 0 {
		validez = 30
	}

	now := time.Now()
	anio := now.Year()
	c := &entity.Cotizacion{
		ID:          uuid.New().String(),
		EmpresaID:   p.EmpresaID,
		ClienteID:   in.ClienteID,
		ActivoID:    in.ActivoID,
		Titulo:      in.Titulo,
		Descripcion: in.Descripcion,
		ValidezDias: validez,
		Estado:      entity.EstadoBorrador,
		CreadoPor:   p.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := uc.tx.RunCotizacion(ctx, p.EmpresaID, func(repo repository.CotizacionRepository) error {
		seq, err := repo.NextNumero(ctx, p.EmpresaID, anio)
		if err != nil {
			return err
		}
		c.Numero = fmt.Sprintf("COT-%d-%03d", anio, seq)
		return repo.Create(ctx, p.EmpresaID, c)
	})
	if err != nil {
		return nil, err
	}

	return uc.fetchResponse(ctx, p, c.ID)
}

// List devuelve las cotizaciones de la empresa del principal (cabeceras).
func (uc *CotizacionUseCase) List(ctx context.Context, p *entity.Principal, page dto.PageRequest) ([]*dto.CotizacionResponse, error) {
	page.DefaultPage()
	list, err := uc.cotRepo.ListByEmpresa(ctx, p.EmpresaID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.CotizacionResponse, 0, len(list))
	for _, c := range list {
		resp := toCotizacionResponse(c)
		if p.Rol == entity.RolTecnico {
			redactarPrecios(resp)
		}
		out = append(out, resp)
	}
	return out, nil
}

// Get devuelve la cotización completa. Para un técnico, todo campo de
// precio viaja como null; el dato almacenado no se toca.
func (uc *CotizacionUseCase) Get(ctx context.Context, p *entity.Principal, id string) (*dto.CotizacionResponse, error) {
	return uc.fetchResponse(ctx, p, id)
}

// Update actualiza la cabecera. Solo admin y líder, y solo en estados
// mutables; el chequeo de rol precede al de estado.
func (uc *CotizacionUseCase) Update(ctx context.Context, p *entity.Principal, id string, in dto.UpdateCotizacionRequest) (*dto.CotizacionResponse, error) {
	c, err := uc.cotRepo.GetByID(ctx, p.EmpresaID, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if err := autorizarRol(opActualizar, p.Rol); err != nil {
		return nil, err
	}
	if err := autorizarEstado(opActualizar, c.Estado); err != nil {
		return nil, err
	}

	if in.Titulo != nil {
		c.Titulo = *in.Titulo
	}
	if in.Descripcion != nil {
		c.Descripcion = *in.Descripcion
	}
	if in.ValidezDias != nil {
		c.ValidezDias = *in.ValidezDias
	}
	c.UpdatedAt = time.Now()

	if err := uc.cotRepo.UpdateCabecera(ctx, p.EmpresaID, c); err != nil {
		return nil, err
	}
	return uc.fetchResponse(ctx, p, id)
}

// AddItem agrega un item. Cualquier rol puede hacerlo mientras la
// cotización sea mutable; el DTO no admite precio, así que un técnico crea
// items sin valorizar por construcción.
func (uc *CotizacionUseCase) AddItem(ctx context.Context, p *entity.Principal, cotizacionID string, in dto.AddItemRequest) (*dto.CotizacionItemResponse, error) {
	if in.Descripcion == "" {
		return nil, domain.ErrInvalidInput
	}
	c, err := uc.cotRepo.GetByID(ctx, p.EmpresaID, cotizacionID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if err := autorizarEstado(opAgregarItem, c.Estado); err != nil {
		return nil, err
	}

	cantidad := decimal.NewFromInt(1)
	if in.Cantidad != nil {
		if !entity.CantidadValida(*in.Cantidad) {
			return nil, domain.ErrInvalidInput
		}
		cantidad = *in.Cantidad
	}
	urgencia := in.Urgencia
	if urgencia == "" {
		urgencia = entity.UrgenciaMedia
	}
	if !entity.UrgenciaValida(urgencia) {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	item := &entity.CotizacionItem{
		ID:           uuid.New().String(),
		CotizacionID: cotizacionID,
		EmpresaID:    p.EmpresaID,
		Descripcion:  in.Descripcion,
		Cantidad:     cantidad,
		Urgencia:     urgencia,
		AgregadoPor:  p.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.cotRepo.AddItem(ctx, p.EmpresaID, item); err != nil {
		return nil, err
	}
	resp := toItemResponse(item)
	return &resp, nil
}

// UpdateItem actualiza un item. Para un técnico el precio unitario se
// descarta en silencio antes de tocar almacenamiento; para admin y líder se
// aplica y el subtotal se recalcula para no quedar obsoleto.
func (uc *CotizacionUseCase) UpdateItem(ctx context.Context, p *entity.Principal, itemID string, in dto.UpdateItemRequest) (*dto.CotizacionItemResponse, error) {
	item, cab, err := uc.cotRepo.GetItem(ctx, p.EmpresaID, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil || cab == nil {
		return nil, domain.ErrNotFound
	}
	if err := autorizarEstado(opActualizarItem, cab.Estado); err != nil {
		return nil, err
	}

	in = filtrarCamposItem(p.Rol, in)

	if in.Descripcion != nil {
		item.Descripcion = *in.Descripcion
	}
	if in.Cantidad != nil {
		if !entity.CantidadValida(*in.Cantidad) {
			return nil, domain.ErrInvalidInput
		}
		item.Cantidad = *in.Cantidad
	}
	if in.Urgencia != nil {
		if !entity.UrgenciaValida(*in.Urgencia) {
			return nil, domain.ErrInvalidInput
		}
		item.Urgencia = *in.Urgencia
	}
	if in.PrecioUnitario != nil {
		if in.PrecioUnitario.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		item.PrecioUnitario = in.PrecioUnitario
		item.PrecioAsignadoPor = &p.ID
	}
	item.RecalcularSubtotal()
	item.UpdatedAt = time.Now()

	if err := uc.cotRepo.UpdateItem(ctx, p.EmpresaID, item); err != nil {
		return nil, err
	}
	resp := toItemResponse(item)
	if p.Rol == entity.RolTecnico {
		resp.PrecioUnitario = nil
		resp.Subtotal = nil
	}
	return &resp, nil
}

// AsignarPrecios valoriza los items y recalcula los totales de la
// cotización en una sola transacción: o todos los items quedan con precio y
// los totales reflejan el conjunto completo, o nada se persiste. El estado
// vuelve siempre a en_revision; es una regla del flujo, no un efecto
// accidental.
func (uc *CotizacionUseCase) AsignarPrecios(ctx context.Context, p *entity.Principal, cotizacionID string, in dto.AsignarPreciosRequest) (*dto.CotizacionResponse, error) {
	if err := autorizarRol(opAsignarPrecios, p.Rol); err != nil {
		return nil, err
	}
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}

	c, err := uc.cotRepo.GetByID(ctx, p.EmpresaID, cotizacionID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if err := autorizarEstado(opAsignarPrecios, c.Estado); err != nil {
		return nil, err
	}

	porcentaje := porcentajeImpuestosDefault
	if in.PorcentajeImpuestos != nil {
		porcentaje = *in.PorcentajeImpuestos
		if porcentaje.IsNegative() || porcentaje.GreaterThan(decimal.NewFromInt(100)) {
			return nil, domain.ErrInvalidInput
		}
	}

	err = uc.tx.RunCotizacion(ctx, p.EmpresaID, func(repo repository.CotizacionRepository) error {
		subtotal := decimal.Zero
		for _, it := range in.Items {
			if it.ItemID == "" || !entity.CantidadValida(it.Cantidad) || it.PrecioUnitario.IsNegative() {
				return domain.ErrInvalidInput
			}
			sub := it.Cantidad.Mul(it.PrecioUnitario)
			if err := repo.UpdateItemPrecio(ctx, p.EmpresaID, it.ItemID, it.Cantidad, it.PrecioUnitario, sub, p.ID); err != nil {
				return err
			}
			subtotal = subtotal.Add(sub)
		}
		impuestos := subtotal.Mul(porcentaje).Div(decimal.NewFromInt(100))
		total := subtotal.Add(impuestos)
		return repo.UpdateTotales(ctx, p.EmpresaID, cotizacionID, subtotal, impuestos, total, entity.EstadoEnRevision)
	})
	if err != nil {
		return nil, err
	}

	return uc.fetchResponse(ctx, p, cotizacionID)
}

// CambiarEstado aplica una transición de la máquina de estados. Ambos
// chequeos deben pasar: la transición debe ser legal en la tabla y un
// técnico solo puede solicitar el destino borrador. Aprobar registra quién
// y cuándo.
func (uc *CotizacionUseCase) CambiarEstado(ctx context.Context, p *entity.Principal, id, nuevoEstado string) (*dto.CotizacionResponse, error) {
	if !entity.EstadoValido(nuevoEstado) {
		return nil, domain.ErrInvalidInput
	}
	c, err := uc.cotRepo.GetByID(ctx, p.EmpresaID, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if !entity.TransicionValida(c.Estado, nuevoEstado) {
		return nil, &domain.TransicionInvalidaError{Desde: c.Estado, Hacia: nuevoEstado}
	}
	if p.Rol == entity.RolTecnico && nuevoEstado != entity.EstadoBorrador {
		return nil, domain.ErrForbidden
	}

	var aprobadoPor *string
	var fechaAprobacion *time.Time
	if nuevoEstado == entity.EstadoAprobada {
		aprobadoPor = &p.ID
		now := time.Now()
		fechaAprobacion = &now
	}
	if err := uc.cotRepo.CambiarEstado(ctx, p.EmpresaID, id, nuevoEstado, aprobadoPor, fechaAprobacion); err != nil {
		return nil, err
	}
	return uc.fetchResponse(ctx, p, id)
}

// Delete elimina una cotización. Solo admin, y nunca aprobada o cerrada;
// el chequeo de rol precede al de estado.
func (uc *CotizacionUseCase) Delete(ctx context.Context, p *entity.Principal, id string) error {
	c, err := uc.cotRepo.GetByID(ctx, p.EmpresaID, id)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.ErrNotFound
	}
	if err := autorizarRol(opEliminar, p.Rol); err != nil {
		return err
	}
	if err := autorizarEstado(opEliminar, c.Estado); err != nil {
		return err
	}
	return uc.cotRepo.Delete(ctx, p.EmpresaID, id)
}

// fetchResponse relee la cotización y la proyecta, aplicando la redacción
// de precios cuando el principal es técnico.
func (uc *CotizacionUseCase) fetchResponse(ctx context.Context, p *entity.Principal, id string) (*dto.CotizacionResponse, error) {
	c, err := uc.cotRepo.GetByID(ctx, p.EmpresaID, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	resp := toCotizacionResponse(c)
	if p.Rol == entity.RolTecnico {
		redactarPrecios(resp)
	}
	return resp, nil
}

func toCotizacionResponse(c *entity.Cotizacion) *dto.CotizacionResponse {
	resp := &dto.CotizacionResponse{
		ID:              c.ID,
		Numero:          c.Numero,
		Titulo:          c.Titulo,
		Descripcion:     c.Descripcion,
		ValidezDias:     c.ValidezDias,
		Estado:          c.Estado,
		ClienteID:       c.ClienteID,
		ActivoID:        c.ActivoID,
		Subtotal:        c.Subtotal,
		Impuestos:       c.Impuestos,
		Total:           c.Total,
		CreadoPor:       c.CreadoPor,
		AprobadoPor:     c.AprobadoPor,
		FechaAprobacion: c.FechaAprobacion,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
	if c.Cliente != nil {
		resp.Cliente = &dto.ClienteResponse{
			ID:       c.Cliente.ID,
			Nombre:   c.Cliente.Nombre,
			Email:    c.Cliente.Email,
			Telefono: c.Cliente.Telefono,
		}
	}
	if c.Activo != nil {
		resp.Activo = &dto.ActivoResponse{
			ID:     c.Activo.ID,
			Nombre: c.Activo.Nombre,
			Codigo: c.Activo.Codigo,
		}
	}
	for _, item := range c.Items {
		resp.Items = append(resp.Items, toItemResponse(&item))
	}
	return resp
}

func toItemResponse(i *entity.CotizacionItem) dto.CotizacionItemResponse {
	return dto.CotizacionItemResponse{
		ID:                i.ID,
		Descripcion:       i.Descripcion,
		Cantidad:          i.Cantidad,
		Urgencia:          i.Urgencia,
		PrecioUnitario:    i.PrecioUnitario,
		Subtotal:          i.Subtotal,
		AgregadoPor:       i.AgregadoPor,
		PrecioAsignadoPor: i.PrecioAsignadoPor,
		CreatedAt:         i.CreatedAt,
	}
}
