package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Mantenimiento-api/internal/domain"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	apphttp "github.com/jhoicas/Mantenimiento-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const tokenValido = "token-valido-de-test"

// fakeResolver resuelve un principal fijo para el token conocido; cualquier
// otro token falla como lo haría el caso de uso real.
type fakeResolver struct {
	principal *entity.Principal
}

func (r *fakeResolver) ResolvePrincipal(_ context.Context, accessToken string) (*entity.Principal, error) {
	if accessToken != tokenValido {
		return nil, domain.ErrTokenInvalido
	}
	if r.principal == nil {
		return nil, errors.New("sin principal configurado")
	}
	return r.principal, nil
}

// buildTestApp construye una aplicación Fiber mínima con:
//   - AuthMiddleware para resolver el principal y cargarlo en locals
//   - RequireRole para autorizar el acceso
//   - Un handler dummy que devuelve 200 si pasa los middlewares
func buildTestApp(resolver *fakeResolver, allowedRoles ...string) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(resolver),
		apphttp.RequireRole(allowedRoles...),
		func(c *fiber.Ctx) error {
			p := apphttp.GetPrincipal(c)
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"ok":  true,
				"rol": p.Rol,
			})
		},
	)
	return app
}

func principalConRol(rol string) *entity.Principal {
	return &entity.Principal{
		ID:        "usuario-1",
		Username:  "jperez",
		Rol:       rol,
		EmpresaID: "empresa-1",
	}
}

// doRequest lanza una petición GET /protected y devuelve la respuesta.
func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireRole
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole_AdminAccedeRutaAdmin(t *testing.T) {
	resolver := &fakeResolver{principal: principalConRol(entity.RolAdmin)}
	app := buildTestApp(resolver, entity.RolAdmin)

	resp := doRequest(t, app, "Bearer "+tokenValido)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode,
		"admin debe poder acceder a ruta restringida a admin")

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, entity.RolAdmin, body["rol"])
}

func TestRequireRole_LiderAccedeRutaAdminOLider(t *testing.T) {
	resolver := &fakeResolver{principal: principalConRol(entity.RolLiderEquipo)}
	app := buildTestApp(resolver, entity.RolAdmin, entity.RolLiderEquipo)

	resp := doRequest(t, app, "Bearer "+tokenValido)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode,
		"líder debe poder acceder a ruta que permite admin o líder")
}

func TestRequireRole_TecnicoBloqueadoEnRutaAdmin(t *testing.T) {
	resolver := &fakeResolver{principal: principalConRol(entity.RolTecnico)}
	app := buildTestApp(resolver, entity.RolAdmin)

	resp := doRequest(t, app, "Bearer "+tokenValido)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode,
		"técnico no debe poder acceder a ruta restringida a admin")

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN")
}

func TestRequireRole_PrincipalSinRol_Retorna401(t *testing.T) {
	resolver := &fakeResolver{principal: principalConRol("")}
	app := buildTestApp(resolver, entity.RolAdmin)

	resp := doRequest(t, app, "Bearer "+tokenValido)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_ROLE")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_SinAuthHeader_Retorna401(t *testing.T) {
	resolver := &fakeResolver{principal: principalConRol(entity.RolAdmin)}
	app := buildTestApp(resolver, entity.RolAdmin)

	resp := doRequest(t, app, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_TOKEN")
}

func TestAuthMiddleware_FormatoInvalido_Retorna401(t *testing.T) {
	resolver := &fakeResolver{principal: principalConRol(entity.RolAdmin)}
	app := buildTestApp(resolver, entity.RolAdmin)

	resp := doRequest(t, app, "Basic abc123")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "INVALID_TOKEN")
}

func TestAuthMiddleware_TokenRechazado_Retorna401Generico(t *testing.T) {
	resolver := &fakeResolver{principal: principalConRol(entity.RolAdmin)}
	app := buildTestApp(resolver, entity.RolAdmin)

	resp := doRequest(t, app, "Bearer token-desconocido")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "INVALID_TOKEN",
		"toda falla de resolución colapsa en el mismo 401")
	assert.NotContains(t, string(body), "inactiv",
		"la respuesta no distingue causas")
}

func TestAuthMiddleware_CargaElPrincipalEnLocals(t *testing.T) {
	resolver := &fakeResolver{principal: principalConRol(entity.RolTecnico)}
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(resolver), func(c *fiber.Ctx) error {
		p := apphttp.GetPrincipal(c)
		return c.JSON(fiber.Map{
			"usuario_id": p.ID,
			"empresa_id": p.EmpresaID,
			"rol":        p.Rol,
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+tokenValido)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "usuario-1", body["usuario_id"])
	assert.Equal(t, "empresa-1", body["empresa_id"])
	assert.Equal(t, entity.RolTecnico, body["rol"])
}
