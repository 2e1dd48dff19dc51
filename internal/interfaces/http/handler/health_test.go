package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler(t *testing.T) {
	ok := func(context.Context) error { return nil }
	fail := func(context.Context) error { return errors.New("down") }

	cases := []struct {
		name       string
		checks     []HealthCheck
		wantCode   int
		wantStatus string
	}{
		{"all healthy", []HealthCheck{{Name: "database", Critical: true, Check: ok}, {Name: "credential_cache", Check: ok}}, http.StatusOK, "healthy"},
		{"cache down degrades", []HealthCheck{{Name: "database", Critical: true, Check: ok}, {Name: "credential_cache", Check: fail}}, http.StatusOK, "degraded"},
		{"database down", []HealthCheck{{Name: "database", Critical: true, Check: fail}, {Name: "credential_cache", Check: fail}}, http.StatusServiceUnavailable, "unhealthy"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			engine := newTestEngine()
			engine.GET("/health", NewHealthHandler(tc.checks...).Health)

			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tc.wantCode, w.Code)
			assert.Contains(t, w.Body.String(), `"status":"`+tc.wantStatus+`"`)
		})
	}

	t.Run("reports components", func(t *testing.T) {
		engine := newTestEngine()
		engine.GET("/health", NewHealthHandler(HealthCheck{Name: "database", Critical: true, Check: fail}).Health)

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		require.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), `"database":"error"`)
	})
}
