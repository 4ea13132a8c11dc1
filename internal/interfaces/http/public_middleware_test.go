package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tablas-api/internal/domain"
	"github.com/jhoicas/Tablas-api/internal/domain/entity"
	apphttp "github.com/jhoicas/Tablas-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// publicAuthStub resuelve secretos contra un mapa en memoria, con la misma
// semántica que el caso de uso real: secreto desconocido → unauthorized.
type publicAuthStub struct {
	tokens map[string]*entity.AccessToken
	err    error
}

func (s *publicAuthStub) Authenticate(secret string) (*entity.AccessToken, error) {
	if s.err != nil {
		return nil, s.err
	}
	if tok, ok := s.tokens[secret]; ok {
		return tok, nil
	}
	return nil, domain.ErrUnauthorized
}

// buildPublicApp monta una ruta pública dummy que devuelve el id del token.
func buildPublicApp(auth *publicAuthStub) *fiber.App {
	app := fiber.New()
	app.Get("/public/ping",
		apphttp.PublicAuthMiddleware(auth),
		func(c *fiber.Ctx) error {
			tok := apphttp.GetPublicToken(c)
			return c.JSON(fiber.Map{"tokenId": tok.ID})
		},
	)
	return app
}

func doPublicRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/public/ping", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests PublicAuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

// Caso 1: Secreto válido → el token queda en locals y el handler responde 200.
func TestPublicAuthMiddleware_TokenValido(t *testing.T) {
	auth := &publicAuthStub{tokens: map[string]*entity.AccessToken{
		"sk-valido": {ID: "frontend-token", Name: "Frontend"},
	}}
	app := buildPublicApp(auth)

	resp := doPublicRequest(t, app, "Bearer sk-valido")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "frontend-token", body["tokenId"],
		"el handler debe ver el token resuelto por el middleware")
}

// Caso 2: Sin header Authorization → 401 con el contrato {success:false, error}.
func TestPublicAuthMiddleware_SinHeader_Retorna401(t *testing.T) {
	app := buildPublicApp(&publicAuthStub{})

	resp := doPublicRequest(t, app, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, false, body["success"], "el contrato público lleva success:false")
	assert.NotEmpty(t, body["error"])
}

// Caso 3: Secreto desconocido → 401.
func TestPublicAuthMiddleware_SecretoDesconocido_Retorna401(t *testing.T) {
	auth := &publicAuthStub{tokens: map[string]*entity.AccessToken{
		"sk-valido": {ID: "t1"},
	}}
	app := buildPublicApp(auth)

	resp := doPublicRequest(t, app, "Bearer sk-otro")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// Caso 4: Header sin esquema Bearer → 401 (el secreto no se extrae).
func TestPublicAuthMiddleware_EsquemaInvalido_Retorna401(t *testing.T) {
	auth := &publicAuthStub{tokens: map[string]*entity.AccessToken{
		"sk-valido": {ID: "t1"},
	}}
	app := buildPublicApp(auth)

	resp := doPublicRequest(t, app, "Basic sk-valido")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// Caso 5: Fallo de infraestructura → 500 y el mensaje interno no se filtra.
func TestPublicAuthMiddleware_ErrorDeInfra_Retorna500(t *testing.T) {
	auth := &publicAuthStub{err: assert.AnError}
	app := buildPublicApp(auth)

	resp := doPublicRequest(t, app, "Bearer sk-valido")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Internal server error", body["error"],
		"los errores de infraestructura no deben filtrar detalle")
}
