package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/prodsys-ledger/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/prodsys-ledger/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testIssuer    = "prodsys-ledger-test"
	testExpMin    = 60
)

// buildCapabilityApp aplicación Fiber mínima: AuthMiddleware + RequireCapability + handler dummy.
func buildCapabilityApp(capability apphttp.Capability) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireCapability(capability),
		func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"ok":   true,
				"role": apphttp.GetRole(c),
			})
		},
	)
	return app
}

// tokenForRole genera un JWT con el rol indicado, listo para el header Authorization.
func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, role, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

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
// Tests RequireCapability
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireCapability_SupervisorApruebaReporte(t *testing.T) {
	app := buildCapabilityApp(apphttp.CapReportApprove)
	resp := doRequest(t, app, tokenForRole(t, apphttp.RoleSupervisor))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, apphttp.RoleSupervisor, body["role"])
}

func TestRequireCapability_RolSuperiorHereda(t *testing.T) {
	app := buildCapabilityApp(apphttp.CapStockMove)
	for _, role := range []string{apphttp.RoleOperator, apphttp.RoleSupervisor, apphttp.RoleManager, apphttp.RoleAdmin} {
		resp := doRequest(t, app, tokenForRole(t, role))
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, role)
	}
}

func TestRequireCapability_OperadorNoApruebaNiReversa(t *testing.T) {
	for _, capability := range []apphttp.Capability{apphttp.CapReportApprove, apphttp.CapReportReverse, apphttp.CapCatalogWrite} {
		app := buildCapabilityApp(capability)
		resp := doRequest(t, app, tokenForRole(t, apphttp.RoleOperator))
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		assert.Equal(t, http.StatusForbidden, resp.StatusCode, string(capability))
		assert.Contains(t, string(body), "FORBIDDEN")
	}
}

func TestRequireCapability_RolDesconocido_Retorna403(t *testing.T) {
	app := buildCapabilityApp(apphttp.CapStockMove)
	resp := doRequest(t, app, tokenForRole(t, "bodeguero"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRequireCapability_TokenSinRol_Retorna401(t *testing.T) {
	app := buildCapabilityApp(apphttp.CapStockMove)
	resp := doRequest(t, app, tokenForRole(t, ""))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_ROLE")
}

func TestRequireCapability_SinAuthHeader_Retorna401(t *testing.T) {
	app := buildCapabilityApp(apphttp.CapStockMove)
	resp := doRequest(t, app, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequireCapability_TokenInvalido_Retorna401(t *testing.T) {
	app := buildCapabilityApp(apphttp.CapStockMove)
	resp := doRequest(t, app, "Bearer token.invalido.aqui")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "INVALID_TOKEN")
}

func TestAllows_CapacidadDesconocida(t *testing.T) {
	assert.False(t, apphttp.Allows(apphttp.RoleAdmin, apphttp.Capability("billing:write")))
	assert.True(t, apphttp.Allows(apphttp.RoleManager, apphttp.CapReportDelete))
	assert.False(t, apphttp.Allows(apphttp.RoleSupervisor, apphttp.CapReportDelete))
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware: extracción de claims del token
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_ExtraeClaims(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id": apphttp.GetUserID(c),
			"role":    apphttp.GetRole(c),
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", tokenForRole(t, apphttp.RoleAdmin))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, apphttp.RoleAdmin, body["role"])
}
