package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	vektria "github.com/vektria-cloud/vektria-go"
	"github.com/vektria-cloud/vektria-go/internal/config"
	logpkg "github.com/vektria-cloud/vektria-go/internal/logger"
	"github.com/vektria-cloud/vektria-go/internal/metrics"
	chiTransport "github.com/vektria-cloud/vektria-go/internal/transport/chi"
	"github.com/vektria-cloud/vektria-go/internal/version"
)

func main() {
	// Load .env if present, then configuration based on ENV
	_ = godotenv.Load()
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting vektria schema registry",
		zap.String("version", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	client, err := buildClient(cfg)
	if err != nil {
		logger.Fatal("Failed to create client", zap.Error(err))
	}
	defer client.Close()
	logger.Info("Connected to schema store")

	server := chiTransport.NewServer(client, logger)

	r := chi.NewRouter()
	r.Use(chiTransport.JSONRecoverer(logger))
	r.Use(chiTransport.RequestLogMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildClient assembles the SDK client from server configuration.
func buildClient(cfg config.Config) (*vektria.Client, error) {
	opts := []vektria.Option{
		vektria.WithKeyPrefix(cfg.Storage.KeyPrefix),
		vektria.WithPrometheus(prometheus.DefaultRegisterer),
	}
	switch cfg.Database.Driver {
	case "redis":
		opts = append(opts, vektria.WithRedis(cfg.Database.Addrs[0], cfg.Database.Password))
	default:
		opts = append(opts, vektria.WithMemory())
	}

	ctx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Database.ReadinessTimeout)*time.Second)
	defer cancel()

	client, err := vektria.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create vektria client: %w", err)
	}
	return client, nil
}
