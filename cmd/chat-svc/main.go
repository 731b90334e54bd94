package main

import (
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"venuehub/internal/common"
	"venuehub/internal/wire"
)

func main() {
	log.Println("Starting conversation service...")

	app, cleanup, err := wire.InitializeApplication()
	if err != nil {
		log.Fatalf("Failed to initialize conversation service: %v", err)
	}
	defer cleanup()

	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			common.LoggingUnaryInterceptor(app.Log),
			common.AuthInterceptor([]byte(app.Config.Auth.JWTSecret)),
		),
	)
	app.GRPC.Register(grpcServer)

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	addr := net.JoinHostPort(app.Config.Server.Host, app.Config.Server.GRPCPort)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		app.Log.Fatal("failed to listen", zap.String("addr", addr), zap.Error(err))
	}

	go func() {
		app.Log.Info("conversation service listening", zap.String("addr", addr))
		if err := grpcServer.Serve(lis); err != nil {
			app.Log.Fatal("failed to serve", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Log.Info("shutting down conversation service")
	healthServer.Shutdown()
	grpcServer.GracefulStop()
	app.Log.Info("conversation service stopped")
}
