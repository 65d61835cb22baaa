package http

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	appcotizacion "github.com/jhoicas/Mantenimiento-api/internal/application/cotizacion"
	"github.com/jhoicas/Mantenimiento-api/internal/application/dto"
	"github.com/jhoicas/Mantenimiento-api/internal/domain"
)

// CotizacionHandler maneja las peticiones HTTP del flujo de cotizaciones
// (protegido).
type CotizacionHandler struct {
	uc    *appcotizacion.CotizacionUseCase
	pdfUC *appcotizacion.PDFUseCase
}

// NewCotizacionHandler construye el handler.
func NewCotizacionHandler(uc *appcotizacion.CotizacionUseCase, pdfUC *appcotizacion.PDFUseCase) *CotizacionHandler {
	return &CotizacionHandler{uc: uc, pdfUC: pdfUC}
}

// Create crea una cotización en borrador.
// POST /api/cotizaciones
func (h *CotizacionHandler) Create(c *fiber.Ctx) error {
	p := GetPrincipal(c)
	if p == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateCotizacionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(c.Context(), p, in)
	if err != nil {
		return cotizacionError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List lista las cotizaciones de la empresa.
// GET /api/cotizaciones?limit=&offset=
func (h *CotizacionHandler) List(c *fiber.Ctx) error {
	p := GetPrincipal(c)
	if p == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	page := dto.PageRequest{
		Limit:  c.QueryInt("limit"),
		Offset: c.QueryInt("offset"),
	}
	out, err := h.uc.List(c.Context(), p, page)
	if err != nil {
		return cotizacionError(c, err)
	}
	return c.JSON(out)
}

// GetByID obtiene la cotización completa con items.
// GET /api/cotizaciones/:id
func (h *CotizacionHandler) GetByID(c *fiber.Ctx) error {
	p := GetPrincipal(c)
	if p == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	out, err := h.uc.Get(c.Context(), p, c.Params("id"))
	if err != nil {
		return cotizacionError(c, err)
	}
	return c.JSON(out)
}

// Update actualiza la cabecera de la cotización.
// PATCH /api/cotizaciones/:id
func (h *CotizacionHandler) Update(c *fiber.Ctx) error {
	p := GetPrincipal(c)
	if p == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.UpdateCotizacionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(c.Context(), p, c.Params("id"), in)
	if err != nil {
		return cotizacionError(c, err)
	}
	return c.JSON(out)
}

// AddItem agrega un item a la cotización.
// POST /api/cotizaciones/:id/items
func (h *CotizacionHandler) AddItem(c *fiber.Ctx) error {
	p := GetPrincipal(c)
	if p == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.AddItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.AddItem(c.Context(), p, c.Params("id"), in)
	if err != nil {
		return cotizacionError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateItem actualiza un item existente.
// PATCH /api/cotizaciones/items/:itemId
func (h *CotizacionHandler) UpdateItem(c *fiber.Ctx) error {
	p := GetPrincipal(c)
	if p == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.UpdateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.UpdateItem(c.Context(), p, c.Params("itemId"), in)
	if err != nil {
		return cotizacionError(c, err)
	}
	return c.JSON(out)
}

// AsignarPrecios valoriza los items y recalcula totales.
// POST /api/cotizaciones/:id/asignar-precios
func (h *CotizacionHandler) AsignarPrecios(c *fiber.Ctx) error {
	p := GetPrincipal(c)
	if p == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.AsignarPreciosRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.AsignarPrecios(c.Context(), p, c.Params("id"), in)
	if err != nil {
		return cotizacionError(c, err)
	}
	return c.JSON(out)
}

// CambiarEstado aplica una transición de la máquina de estados.
// PATCH /api/cotizaciones/:id/estado
func (h *CotizacionHandler) CambiarEstado(c *fiber.Ctx) error {
	p := GetPrincipal(c)
	if p == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CambiarEstadoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.CambiarEstado(c.Context(), p, c.Params("id"), in.Estado)
	if err != nil {
		return cotizacionError(c, err)
	}
	return c.JSON(out)
}

// Delete elimina una cotización (solo admin).
// DELETE /api/cotizaciones/:id
func (h *CotizacionHandler) Delete(c *fiber.Ctx) error {
	p := GetPrincipal(c)
	if p == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	if err := h.uc.Delete(c.Context(), p, c.Params("id")); err != nil {
		return cotizacionError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ExportPDF descarga el PDF de la cotización.
// GET /api/cotizaciones/:id/pdf
func (h *CotizacionHandler) ExportPDF(c *fiber.Ctx) error {
	p := GetPrincipal(c)
	if p == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	result, err := h.pdfUC.GenerarCotizacionPDF(c.Context(), p, c.Params("id"))
	if err != nil {
		return cotizacionError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Set(fiber.HeaderContentLength, fmt.Sprintf("%d", len(result.Contenido)))
	return c.Send(result.Contenido)
}

// cotizacionError mapea errores de dominio a códigos HTTP.
func cotizacionError(c *fiber.Ctx, err error) error {
	var transicion *domain.TransicionInvalidaError
	var bloqueado *domain.EstadoBloqueadoError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "cotización no encontrada"})
	case errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrCrossTenant):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado"})
	case errors.As(err, &transicion):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_TRANSITION", Message: transicion.Error()})
	case errors.As(err, &bloqueado):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "STATE_LOCKED", Message: bloqueado.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}
