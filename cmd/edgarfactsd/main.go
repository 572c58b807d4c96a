// Package main is the entry point for the edgarfacts HTTP demonstration
// server.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/cruxfin/edgarfacts/internal/config"
	"github.com/cruxfin/edgarfacts/internal/corectx"
	"github.com/cruxfin/edgarfacts/internal/engine"
	"github.com/cruxfin/edgarfacts/internal/httpapi"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	cctx, err := corectx.New(corectx.Options{
		UserAgent: cfg.UserAgent,
		CacheDir:  cfg.CacheDir,
		RateLimit: cfg.RateLimit,
	})
	if err != nil {
		return err
	}
	defer cctx.Close()

	startCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := cctx.LoadResolver(startCtx); err != nil {
		cancel()
		return err
	}
	cancel()
	slog.Info("company resolver loaded")

	eng := engine.New(cctx)

	shutdownCtx, shutdownCancel := context.WithCancel(context.Background())
	defer shutdownCancel()
	router := httpapi.NewRouter(shutdownCtx, eng, cfg.AllowedOrigins)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("starting server", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
		}
	}()

	return gracefulShutdown(srv, shutdownCancel)
}

func gracefulShutdown(srv *http.Server, cancelMiddleware context.CancelFunc) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	cancelMiddleware()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return err
	}

	slog.Info("server stopped")
	return nil
}
