package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/Distribucion-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Distribucion-api/pkg/jwt"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "distribucion-api-test"
	testActorID   = "00000000-0000-0000-0000-000000000001"
)

// buildActorApp app mínima: ActorMiddleware + handler que devuelve el actor y el rol leídos.
func buildActorApp(cfg apphttp.ActorConfig) *fiber.App {
	app := fiber.New()
	app.Get("/protected", apphttp.ActorMiddleware(cfg), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"actor": apphttp.GetActorID(c), "role": apphttp.GetRole(c)})
	})
	return app
}

func doGet(t *testing.T, app *fiber.App, headers map[string]string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestActorMiddleware_JWT(t *testing.T) {
	app := buildActorApp(apphttp.ActorConfig{JWTSecret: testJWTSecret, JWTIssuer: testIssuer})
	valid, err := pkgjwt.Generate(testJWTSecret, testActorID, "bodega", testIssuer, 60)
	require.NoError(t, err)
	otherIssuer, err := pkgjwt.Generate(testJWTSecret, testActorID, "bodega", "otro", 60)
	require.NoError(t, err)

	tests := []struct {
		name       string
		headers    map[string]string
		wantStatus int
		wantCode   string
	}{
		{"token válido", map[string]string{"Authorization": "Bearer " + valid}, http.StatusOK, ""},
		{"sin header", nil, http.StatusUnauthorized, "MISSING_TOKEN"},
		{"sin Bearer", map[string]string{"Authorization": valid}, http.StatusUnauthorized, "INVALID_TOKEN"},
		{"emisor distinto", map[string]string{"Authorization": "Bearer " + otherIssuer}, http.StatusUnauthorized, "INVALID_TOKEN"},
		{"X-Actor-ID no basta con JWT", map[string]string{apphttp.HeaderActorID: "alguien"}, http.StatusUnauthorized, "MISSING_TOKEN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doGet(t, app, tt.headers)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			body := decodeMap(t, resp)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, body["code"])
				return
			}
			assert.Equal(t, testActorID, body["actor"])
			assert.Equal(t, "bodega", body["role"])
		})
	}
}

func TestActorMiddleware_HeaderMode(t *testing.T) {
	app := buildActorApp(apphttp.ActorConfig{})

	resp := doGet(t, app, map[string]string{apphttp.HeaderActorID: "vendedor-3"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeMap(t, resp)
	assert.Equal(t, "vendedor-3", body["actor"])
	assert.Equal(t, "", body["role"])

	resp = doGet(t, app, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_ACTOR", decodeMap(t, resp)["code"])
}
