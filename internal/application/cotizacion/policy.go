package cotizacion

import (
	"github.com/jhoicas/Mantenimiento-api/internal/application/dto"
	"github.com/jhoicas/Mantenimiento-api/internal/domain"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
)

// Operaciones con política declarada. Cada entrada nombra los roles que
// admite y los estados en los que la mutación queda bloqueada; la
// evaluación es uniforme en lugar de ramas por rol repartidas por handler.
const (
	opActualizar     = "actualizar"
	opAgregarItem    = "agregar_item"
	opActualizarItem = "actualizar_item"
	opAsignarPrecios = "asignar_precios"
	opEliminar       = "eliminar"
)

type politicaOperacion struct {
	// RolesPermitidos vacío = cualquier rol autenticado.
	RolesPermitidos []string
	// EstadosBloqueados rechazan la operación con EstadoBloqueadoError.
	EstadosBloqueados []string
}

var estadosNoMutables = []string{
	entity.EstadoEnviada, entity.EstadoAprobada, entity.EstadoRechazada, entity.EstadoCerrada,
}

var politicas = map[string]politicaOperacion{
	opActualizar:     {RolesPermitidos: []string{entity.RolAdmin, entity.RolLiderEquipo}, EstadosBloqueados: estadosNoMutables},
	opAgregarItem:    {EstadosBloqueados: estadosNoMutables},
	opActualizarItem: {EstadosBloqueados: estadosNoMutables},
	opAsignarPrecios: {RolesPermitidos: []string{entity.RolAdmin, entity.RolLiderEquipo}, EstadosBloqueados: estadosNoMutables},
	// Eliminar: solo admin; una vez aprobada o cerrada nadie la borra.
	opEliminar: {RolesPermitidos: []string{entity.RolAdmin}, EstadosBloqueados: []string{entity.EstadoAprobada, entity.EstadoCerrada}},
}

// autorizarRol verifica el rol contra la política de la operación.
func autorizarRol(op, rol string) error {
	pol := politicas[op]
	if len(pol.RolesPermitidos) == 0 {
		return nil
	}
	for _, permitido := range pol.RolesPermitidos {
		if rol == permitido {
			return nil
		}
	}
	return domain.ErrForbidden
}

// autorizarEstado verifica que el estado actual admita la operación.
func autorizarEstado(op, estado string) error {
	pol := politicas[op]
	for _, bloqueado := range pol.EstadosBloqueados {
		if estado == bloqueado {
			return &domain.EstadoBloqueadoError{Estado: estado}
		}
	}
	return nil
}

// filtrarCamposItem proyecta la actualización a los campos permitidos para
// el rol. Un técnico nunca fija precios: el campo se descarta en silencio,
// sin señal de error, y el resto de la actualización se aplica normal.
func filtrarCamposItem(rol string, in dto.UpdateItemRequest) dto.UpdateItemRequest {
	if rol == entity.RolTecnico {
		in.PrecioUnitario = nil
	}
	return in
}

// redactarPrecios anula todo campo de precio de la respuesta. Se aplica en
// lectura para el rol técnico; los valores almacenados quedan intactos.
func redactarPrecios(c *dto.CotizacionResponse) {
	c.Subtotal = nil
	c.Impuestos = nil
	c.Total = nil
	for i := range c.Items {
		c.Items[i].PrecioUnitario = nil
		c.Items[i].Subtotal = nil
	}
}
