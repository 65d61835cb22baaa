package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Mantenimiento-api/internal/application/auth"
	appcotizacion "github.com/jhoicas/Mantenimiento-api/internal/application/cotizacion"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	CotizacionUC *appcotizacion.CotizacionUseCase
	PDFUC        *appcotizacion.PDFUseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth: login y refresh públicos, perfil protegido
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", authHandler.Refresh)
	authGroup.Get("/profile", AuthMiddleware(deps.AuthUC), authHandler.Profile)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.AuthUC))

	// Cotizaciones: los chequeos finos de rol y estado viven en el caso de
	// uso; RequireRole corta temprano solo las rutas cuyo rol es absoluto.
	cotizaciones := protected.Group("/cotizaciones")
	cotizacionHandler := NewCotizacionHandler(deps.CotizacionUC, deps.PDFUC)
	cotizaciones.Post("/", cotizacionHandler.Create)
	cotizaciones.Get("/", cotizacionHandler.List)
	cotizaciones.Get("/:id", cotizacionHandler.GetByID)
	cotizaciones.Patch("/:id", RequireRole(entity.RolAdmin, entity.RolLiderEquipo), cotizacionHandler.Update)
	cotizaciones.Delete("/:id", RequireRole(entity.RolAdmin), cotizacionHandler.Delete)
	cotizaciones.Post("/:id/items", cotizacionHandler.AddItem)
	cotizaciones.Patch("/items/:itemId", cotizacionHandler.UpdateItem)
	cotizaciones.Post("/:id/asignar-precios", RequireRole(entity.RolAdmin, entity.RolLiderEquipo), cotizacionHandler.AsignarPrecios)
	cotizaciones.Patch("/:id/estado", cotizacionHandler.CambiarEstado)
	cotizaciones.Get("/:id/pdf", cotizacionHandler.ExportPDF)
}
