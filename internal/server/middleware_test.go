package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"glowup/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupMiddleware_CORS(t *testing.T) {
	srv := &Server{
		config: &config.Config{
			AllowedOrigins: "http://localhost:5173",
		},
	}

	app := fiber.New()
	srv.SetupMiddleware(app)
	app.Post("/rpc/createUser", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	preflightReq := httptest.NewRequest(http.MethodOptions, "/rpc/createUser", nil)
	preflightReq.Header.Set("Origin", "http://localhost:5173")
	preflightReq.Header.Set("Access-Control-Request-Method", http.MethodPost)
	preflightReq.Header.Set("Access-Control-Request-Headers", "content-type")
	preflightResp, err := app.Test(preflightReq, -1)
	require.NoError(t, err)
	defer func() { _ = preflightResp.Body.Close() }()

	assert.Equal(t, fiber.StatusNoContent, preflightResp.StatusCode)
	assert.Equal(t, "http://localhost:5173", preflightResp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, preflightResp.Header.Get("Access-Control-Allow-Methods"), http.MethodPost)

	req := httptest.NewRequest(http.MethodPost, "/rpc/createUser", nil)
	req.Header.Set("Origin", "http://evil.example")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestSetupMiddleware_DefaultsToAnyOrigin(t *testing.T) {
	srv := &Server{config: &config.Config{}}

	app := fiber.New()
	srv.SetupMiddleware(app)
	app.Get("/ping", func(c *fiber.Ctx) error {
		return c.SendString("pong")
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://anywhere.example")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestSetupMiddleware_RequestIDAndSecurityHeaders(t *testing.T) {
	_, app, _ := newTestServer(t)

	resp, _ := rpcGet(t, app, "healthcheck", "")
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))
	assert.Equal(t, "nosniff", resp.Header.Get(fiber.HeaderXContentTypeOptions))
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXFrameOptions))

	req := httptest.NewRequest(http.MethodGet, "/rpc/healthcheck", nil)
	req.Header.Set(fiber.HeaderXRequestID, "req-123")
	resp, _ = doRequest(t, app, req)
	assert.Equal(t, "req-123", resp.Header.Get(fiber.HeaderXRequestID))
}

func TestSetupMiddleware_RecoversPanics(t *testing.T) {
	srv := &Server{config: &config.Config{}}

	app := fiber.New(fiber.Config{ErrorHandler: errorHandler})
	srv.SetupMiddleware(app)
	app.Get("/boom", func(c *fiber.Ctx) error {
		panic("boom")
	})

	resp, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, string(body), "INTERNAL_ERROR")
	assert.NotContains(t, string(body), "boom")
}

func TestSetupRoutes_Metrics(t *testing.T) {
	_, app, _ := newTestServer(t)

	resp, _ := rpcGet(t, app, "healthcheck", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	text := string(body)
	assert.True(t, strings.Contains(text, "glowup_procedure_calls_total"), "procedure counter exported")
	assert.Contains(t, text, `procedure="healthcheck"`)
}

func TestErrorHandler_UnknownRoute(t *testing.T) {
	_, app, _ := newTestServer(t)

	resp, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body), `"code":"NOT_FOUND"`)
}
