package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"venuehub/internal/chat/handler"
	"venuehub/internal/config"
	"venuehub/internal/wire"
)

func testApp() *wire.Application {
	logger := zap.NewNop()
	return &wire.Application{
		Config: &config.Config{Auth: config.AuthConfig{JWTSecret: "test-secret"}},
		Log:    logger,
		HTTP:   handler.NewHTTPHandler(nil, logger),
	}
}

func TestSetupRouter_Preflight(t *testing.T) {
	router := setupRouter(testApp())

	tests := []struct {
		name string
		path string
	}{
		{name: "read endpoint", path: "/api/v1/conversations/A/read"},
		{name: "list endpoint", path: "/api/v1/conversations"},
		{name: "send endpoint", path: "/api/v1/messages"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, tt.path, nil)
			req.Header.Set("Origin", "http://localhost:3000")
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
			assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")
		})
	}
}

func TestSetupRouter_CORSOnRegularRequests(t *testing.T) {
	router := setupRouter(testApp())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/conversations", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
