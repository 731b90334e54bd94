package common

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func echoViewer(ctx context.Context, req interface{}) (interface{}, error) {
	return ViewerFromContext(ctx), nil
}

func incoming(auth string) context.Context {
	return metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", auth))
}

func TestAuthInterceptor(t *testing.T) {
	token, err := GenerateToken(secret, "user-1", "alice", time.Hour)
	require.NoError(t, err)
	interceptor := AuthInterceptor(secret)
	info := &grpc.UnaryServerInfo{FullMethod: "/venuehub.v1.ConversationService/ListConversations"}

	tests := []struct {
		name       string
		ctx        context.Context
		wantViewer string
		wantCode   codes.Code
	}{
		{name: "valid token", ctx: incoming("Bearer " + token), wantViewer: "user-1"},
		{name: "lowercase scheme", ctx: incoming("bearer " + token), wantViewer: "user-1"},
		{name: "no metadata", ctx: context.Background()},
		{name: "no authorization", ctx: metadata.NewIncomingContext(context.Background(), metadata.Pairs("x", "y"))},
		{name: "malformed header", ctx: incoming(token), wantCode: codes.Unauthenticated},
		{name: "bad token", ctx: incoming("Bearer nope"), wantCode: codes.Unauthenticated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := interceptor(tt.ctx, nil, info, echoViewer)
			if tt.wantCode != codes.OK {
				assert.Equal(t, tt.wantCode, status.Code(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantViewer, resp)
		})
	}
}

func TestAuthInterceptor_HealthIsPublic(t *testing.T) {
	interceptor := AuthInterceptor(secret)
	info := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}

	resp, err := interceptor(incoming("Bearer broken"), nil, info, echoViewer)

	require.NoError(t, err)
	assert.Equal(t, "", resp)
}

func TestLoggingUnaryInterceptor(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	interceptor := LoggingUnaryInterceptor(zap.New(core))
	info := &grpc.UnaryServerInfo{FullMethod: "/svc/Method"}

	_, _ = interceptor(context.Background(), nil, info, echoViewer)
	_, _ = interceptor(context.Background(), nil, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return nil, status.Error(codes.Internal, "boom")
	})

	assert.Equal(t, 1, logs.FilterMessage("grpc call completed").Len())
	assert.Equal(t, 1, logs.FilterMessage("grpc call failed").Len())
}

func TestAuthMiddleware(t *testing.T) {
	token, err := GenerateToken(secret, "user-1", "alice", time.Hour)
	require.NoError(t, err)

	var seen string
	h := AuthMiddleware(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ViewerFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantViewer string
		wantBody   string
	}{
		{name: "valid", header: "Bearer " + token, wantStatus: http.StatusNoContent, wantViewer: "user-1"},
		{name: "anonymous", header: "", wantStatus: http.StatusNoContent},
		{name: "wrong scheme", header: "Basic abc", wantStatus: http.StatusUnauthorized, wantBody: `{"error":"invalid auth header"}`},
		{name: "invalid token", header: "Bearer abc", wantStatus: http.StatusUnauthorized, wantBody: `{"error":"invalid or expired token"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = ""
			req := httptest.NewRequest(http.MethodGet, "/api/v1/conversations", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantViewer, seen)
			if tt.wantBody != "" {
				assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestLoggingMiddleware(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h := LoggingMiddleware(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	entries := logs.FilterMessage("http request").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "/api/v1/health", entries[0].ContextMap()["path"])
}
