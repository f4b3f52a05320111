// Package main initializes and starts the credstore HTTP server, setting up
// configuration, logging, the database connection, repositories, services,
// handlers and routing.
package main

import (
	"cmp"
	"context"
	"fmt"
	"time"

	nethttp "net/http"

	"github.com/atinyakov/credstore/internal/config"
	"github.com/atinyakov/credstore/internal/db"
	"github.com/atinyakov/credstore/internal/logger"
	"github.com/atinyakov/credstore/internal/metrics"
	"github.com/atinyakov/credstore/internal/repository"
	"github.com/atinyakov/credstore/internal/server/handler/http"
	"github.com/atinyakov/credstore/internal/service"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line, config-file and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init("Info"); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// Initialize the PostgreSQL backend. Serving must not start until the
	// backend is verified reachable.
	postgresDB, err := db.InitPostgres(options.Database.DSN(), options.Database.PoolSize)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	// Log backend reachability changes while serving.
	db.StartHealthMonitor(context.Background(), postgresDB, 30*time.Second, zapLogger)

	// Initialize repositories for secrets and devices.
	secretRepo := repository.NewPostgresSecretRepository(postgresDB)
	deviceRepo := repository.NewPostgresDeviceRepository(postgresDB)

	// Initialize business-logic services.
	secretService := service.NewSecretService(secretRepo)
	deviceService := service.NewDeviceService(deviceRepo, zapLogger)

	// Create HTTP handlers for the secrets and devices endpoints.
	secretHandler := &http.SecretHandler{SecretService: secretService, Devices: deviceService}
	deviceHandler := &http.DeviceHandler{DeviceService: deviceService}

	// Build the router with middleware and routes.
	m := metrics.New()
	router := http.NewRouter(secretHandler, deviceHandler, m, zapLogger)

	server := &nethttp.Server{
		Addr:    options.Address,
		Handler: router,
	}

	zapLogger.Info("starting HTTP server", zap.String("addr", options.Address))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
