// @title CRM Sync API
// @version 1.0
// @description Records newsletter and course signups from web forms in SugarCRM.
// @BasePath /
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crmsync/config"
	"crmsync/internal/adapters/auth"
	"crmsync/internal/app"
	httpdelivery "crmsync/internal/delivery/http"
	"crmsync/internal/delivery/http/middleware"
)

const shutdownTimeout = 15 * time.Second

// main boots the service: config, logger, CRM gateway and notifier, then the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger := config.NewLogger(cfg.Environment, cfg.LogLevel)

	svc, err := app.NewSignupService(cfg, nil, logger)
	if err != nil {
		logger.Error("failed to build signup service", "error", err)
		os.Exit(1)
	}

	var guard func(http.HandlerFunc) http.HandlerFunc
	if cfg.SignupJWTSecret != "" {
		guard = middleware.RequireSignupToken(auth.NewJWTVerifier(cfg.SignupJWTSecret, 30*time.Second), logger)
	} else {
		logger.Warn("SIGNUP_JWT_SECRET not set, signup endpoint accepts unauthenticated requests")
	}

	router := httpdelivery.NewRouter(httpdelivery.NewSignupController(svc, logger), guard)
	handler := middleware.CORS(cfg.AllowedOrigins, router)
	handler = middleware.LoggingMiddleware(logger, handler)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		// Requests fan out to several CRM calls, each bounded by CRMTimeout.
		WriteTimeout: 6 * cfg.CRMTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
