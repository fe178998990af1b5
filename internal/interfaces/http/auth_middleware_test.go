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

	apphttp "github.com/jdrojas/repuestos-lan/internal/interfaces/http"
	pkgjwt "github.com/jdrojas/repuestos-lan/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testOperator  = "jose"
	testIssuer    = "repuestos-lan-test"
	testExpMin    = 60
)

// buildAdminApp construye una aplicación Fiber mínima con AdminMiddleware y un
// handler dummy que devuelve 200 con el operador extraído del token.
func buildAdminApp() *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AdminMiddleware(testJWTSecret),
		func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"ok":       true,
				"operator": apphttp.GetOperator(c),
			})
		},
	)
	return app
}

// tokenForOperator genera un JWT de administración para el operador indicado.
func tokenForOperator(t *testing.T, operator string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, operator, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
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
// Tests AdminMiddleware
// ──────────────────────────────────────────────────────────────────────────────

// Caso 1: token válido → pasa y el operador queda disponible en el handler.
func TestAdminMiddleware_TokenValidoExtraeOperador(t *testing.T) {
	app := buildAdminApp()
	resp := doRequest(t, app, tokenForOperator(t, testOperator))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode,
		"un token de administración válido debe pasar")

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"], "la respuesta debe incluir ok:true")
	assert.Equal(t, testOperator, body["operator"], "el operador debe salir del token")
}

// Caso 2: sin header Authorization → HTTP 401 MISSING_TOKEN.
func TestAdminMiddleware_SinAuthHeader_Retorna401(t *testing.T) {
	app := buildAdminApp()
	resp := doRequest(t, app, "") // sin header
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_TOKEN",
		"la respuesta debe indicar el código MISSING_TOKEN")
}

// Caso 3: esquema distinto de Bearer → HTTP 401 INVALID_TOKEN.
func TestAdminMiddleware_EsquemaIncorrecto_Retorna401(t *testing.T) {
	app := buildAdminApp()
	resp := doRequest(t, app, "Basic dXN1YXJpbzpjbGF2ZQ==")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "INVALID_TOKEN")
}

// Caso 4: token malformado → HTTP 401 INVALID_TOKEN.
func TestAdminMiddleware_TokenInvalido_Retorna401(t *testing.T) {
	app := buildAdminApp()
	resp := doRequest(t, app, "Bearer token.invalido.aqui")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// Caso 5: token firmado con otro secret → HTTP 401.
func TestAdminMiddleware_SecretIncorrecto_Retorna401(t *testing.T) {
	app := buildAdminApp()
	tok, err := pkgjwt.Generate("otro-secret-completamente-distinto", testOperator, testIssuer, testExpMin)
	require.NoError(t, err)

	resp := doRequest(t, app, "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// Caso 6: token sin operador → HTTP 401 MISSING_OPERATOR.
func TestAdminMiddleware_TokenSinOperador_Retorna401(t *testing.T) {
	app := buildAdminApp()
	tok, err := pkgjwt.Generate(testJWTSecret, "", testIssuer, testExpMin)
	require.NoError(t, err)

	resp := doRequest(t, app, "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode,
		"token sin operador debe retornar 401")

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_OPERATOR",
		"la respuesta debe indicar el código MISSING_OPERATOR")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests JWT pkg — integridad del generate/parse
// ──────────────────────────────────────────────────────────────────────────────

func TestJWT_GenerateAndParse(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testOperator, testIssuer, testExpMin)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	operator, err := pkgjwt.Parse(testJWTSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, testOperator, operator)
}

func TestJWT_TokenExpirado_RetornaError(t *testing.T) {
	// Token con expiración -1 minuto (ya expirado)
	tok, err := pkgjwt.Generate(testJWTSecret, testOperator, testIssuer, -1)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testJWTSecret, tok)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestJWT_SecretIncorrecto_RetornaError(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testOperator, testIssuer, testExpMin)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secret-completamente-distinto", tok)
	assert.Error(t, err, "secret incorrecto debe invalidar el token")
}
