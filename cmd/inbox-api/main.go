package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"venuehub/internal/common"
	"venuehub/internal/wire"
)

func main() {
	log.Println("Initializing inbox API...")
	app, cleanup, err := wire.InitializeApplication()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer cleanup()

	router := setupRouter(app)

	server := &http.Server{
		Addr:           net.JoinHostPort(app.Config.Server.Host, app.Config.Server.HTTPPort),
		Handler:        router,
		ReadTimeout:    time.Duration(app.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(app.Config.Server.WriteTimeout) * time.Second,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	go func() {
		app.Log.Info("inbox API listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.Log.Fatal("server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Log.Info("shutting down inbox API")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		app.Log.Warn("server forced to shutdown", zap.Error(err))
	}
	app.Log.Info("inbox API stopped")
}

// setupRouter wraps the whole router in CORS so preflight requests are
// answered before mux matches methods.
func setupRouter(app *wire.Application) http.Handler {
	router := mux.NewRouter()

	router.Use(common.LoggingMiddleware(app.Log))
	router.Use(common.AuthMiddleware([]byte(app.Config.Auth.JWTSecret)))

	app.HTTP.RegisterRoutes(router)
	return corsMiddleware(router)
}

// corsMiddleware adds CORS headers
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
