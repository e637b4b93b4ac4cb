//go:generate sh ../../scripts/buildwasm.sh

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/drywaters/muadzin/internal/board"
	"github.com/drywaters/muadzin/internal/config"
	"github.com/drywaters/muadzin/internal/server"
	"github.com/drywaters/muadzin/internal/styling"
)

func main() {
	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Set up logging
	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	slog.Info("starting muadzin", "port", cfg.Port, "timezone", cfg.Location.String())

	// Initialize display store (passed targets are kept for TARGET_RETENTION)
	displays := board.NewStore(cfg.TargetRetention)
	defer displays.Close()

	for _, name := range cfg.Displays {
		d, err := displays.Create(name)
		if err != nil {
			if errors.Is(err, board.ErrExists) {
				slog.Warn("duplicate display name in config", "name", name)
				continue
			}
			return fmt.Errorf("failed to register display %q: %w", name, err)
		}
		slog.Info("display registered", "name", d.Name, "id", d.ID)
	}

	if missing := server.MissingAssets(cfg.StaticDir); len(missing) > 0 {
		slog.Warn("browser countdown assets missing, run scripts/buildwasm.sh",
			"static_dir", cfg.StaticDir, "missing", missing)
	}

	// Create server
	srv, err := server.New(cfg, displays, styling.Default())
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	// Start HTTP server
	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
		}
	}()

	<-shutdownChan
	slog.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
