package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/itsyosefali/zoho-integration/internal/interfaces/http/handler"
)

func TestZohoRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	NewRouter(engine).
		Register(NewZohoRoutes(handler.NewZohoConnectionHandler(nil), handler.NewZohoSyncHandler(nil, nil, nil, nil))).
		Setup()

	registered := make(map[string]bool)
	for _, route := range engine.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	for _, want := range []string{
		"GET /api/v1/zoho/oauth/callback",
		"GET /api/v1/zoho/oauth/authorize-url",
		"POST /api/v1/zoho/oauth/refresh",
		"GET /api/v1/zoho/connection",
		"PUT /api/v1/zoho/connection",
		"DELETE /api/v1/zoho/connection",
		"POST /api/v1/zoho/connection/test",
		"POST /api/v1/zoho/sync/customers",
		"POST /api/v1/zoho/sync/items",
		"GET /api/v1/zoho/sync/jobs",
		"POST /api/v1/zoho/sync/jobs/:entity",
		"POST /api/v1/zoho/invoices/:id/push",
	} {
		assert.True(t, registered[want], "missing route %s", want)
	}
}

func TestWithAPIVersion(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	NewRouter(engine, WithAPIVersion("v2")).
		Register(NewZohoRoutes(handler.NewZohoConnectionHandler(nil), handler.NewZohoSyncHandler(nil, nil, nil, nil))).
		Setup()

	for _, route := range engine.Routes() {
		assert.Contains(t, route.Path, "/api/v2/")
	}
}

func TestNewEngine(t *testing.T) {
	gin.SetMode(gin.TestMode)

	engine, err := NewEngine(EngineConfig{ServiceName: "zoho-integration", Tracing: true}, zap.NewNop())
	require.NoError(t, err)

	engine.GET("/panic", func(c *gin.Context) { panic("boom") })
	engine.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
