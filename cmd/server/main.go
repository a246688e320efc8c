// Package main initializes and starts the cmdc clipboard server,
// setting up configuration, logging, database connections, repositories,
// services and handlers.
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"github.com/cmdc/cmdc/internal/config"
	"github.com/cmdc/cmdc/internal/db"
	"github.com/cmdc/cmdc/internal/identity"
	"github.com/cmdc/cmdc/internal/logger"
	"github.com/cmdc/cmdc/internal/repository"
	"github.com/cmdc/cmdc/internal/server/handler/http"
	"github.com/cmdc/cmdc/internal/service"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

// sessionTTL is how long an issued session stays valid.
const sessionTTL = 30 * 24 * time.Hour

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()
	addr := options.Port
	dbName := options.DatabaseDSN

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

	// Initialize PostgreSQL connection.
	postgressDB, err := db.InitPostgres(dbName)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	// Periodically purge expired sessions.
	db.StartSessionCleaner(context.Background(), postgressDB,
		time.Hour, // interval
		zapLogger,
	)

	// Initialize repositories for clipboards and authentication.
	clipboardRepo := repository.NewPostgresClipboardRepository(postgressDB)
	authRepo := repository.NewPostgresAuthRepository(postgressDB)

	// Initialize business-logic services.
	clipboardService := service.NewClipboardService(clipboardRepo, zapLogger)
	authService := service.NewAuthService(authRepo, identity.NewGoogleVerifier(), sessionTTL)

	// Create HTTP handlers for the clipboard and auth endpoints.
	clipboardHandler := &http.ClipboardHandler{
		ClipboardService: clipboardService,
		BaseURL:          options.BaseURL,
	}
	authHandler := &http.AuthHandler{AuthService: authService}

	// Build the router with middleware and routes.
	router := http.NewRouter(clipboardHandler, authHandler, authService, zapLogger)

	// Create and start the HTTP server.
	server := &nethttp.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		zapLogger.Info("starting HTTP server", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
		}
	}()

	// Block until an interrupt or termination signal arrives.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("shutdown signal received, stopping server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		zapLogger.Error("graceful shutdown failed", zap.Error(err))
	}
	zapLogger.Info("server stopped")
}
