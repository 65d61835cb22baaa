package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
//
// Los errores de autenticación se distinguen internamente para logging, pero
// la capa HTTP los colapsa todos en un 401 genérico para no permitir
// enumeración de empresas ni usuarios.
var (
	ErrNotFound              = errors.New("recurso no encontrado")
	ErrEmpresaNotFound       = errors.New("empresa no encontrada o inactiva")
	ErrUsuarioNotFound       = errors.New("usuario no encontrado o inactivo")
	ErrCredencialesInvalidas = errors.New("credenciales inválidas")
	ErrTokenInvalido         = errors.New("token inválido o expirado")
	ErrCuentaInactiva        = errors.New("usuario o empresa inactivos")
	ErrForbidden             = errors.New("acceso denegado")
	ErrCrossTenant           = errors.New("acceso denegado a recursos de otra empresa")
	ErrInvalidInput          = errors.New("entrada inválida")
	ErrDuplicate             = errors.New("recurso duplicado")
)

// TransicionInvalidaError indica un cambio de estado no permitido por la
// máquina de estados de cotizaciones. Siempre nombra origen y destino.
type TransicionInvalidaError struct {
	Desde string
	Hacia string
}

func (e *TransicionInvalidaError) Error() string {
	return fmt.Sprintf("transición inválida de %s a %s", e.Desde, e.Hacia)
}

// EstadoBloqueadoError indica que la cotización está en un estado que no
// admite la mutación solicitada.
type EstadoBloqueadoError struct {
	Estado string
}

func (e *EstadoBloqueadoError) Error() string {
	return "no se puede modificar una cotización en estado " + e.Estado
}
