package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/memecat/memecat"
	"github.com/memecat/memecat/database"
	"github.com/memecat/memecat/gateway"
	memecathttp "github.com/memecat/memecat/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the meme catalog HTTP server",
	Long:  `Start the catalog API. Blob-store access goes through the gateway.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Int("port", 8000, "catalog HTTP server port")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()
	slog.Info("connected to database", "type", cfg.Database.Type)

	gw, err := gateway.New(cfg.Gateway)
	if err != nil {
		return fmt.Errorf("create gateway client: %w", err)
	}

	service, err := memecat.NewCatalogService(db.Memes, gw)
	if err != nil {
		return fmt.Errorf("create catalog service: %w", err)
	}

	handlerConfig := memecathttp.CatalogConfig{
		CORS:          cfg.CORS,
		MaxUploadSize: cfg.Catalog.MaxUploadSize,
	}
	handler := memecathttp.NewCatalogHandler(&handlerConfig, service)

	return serveHTTP(ctx, cancel, cfg.Catalog.Port, handler.Router())
}

// serveHTTP runs an HTTP server with graceful shutdown on SIGINT/SIGTERM.
func serveHTTP(ctx context.Context, cancel context.CancelFunc, port int, handler http.Handler) error {
	addr := fmt.Sprintf(":%d", port)

	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-sigCh:
		case <-ctx.Done():
		}

		slog.Info("shutting down server...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "err", err)
		}
		cancel()
	}()

	slog.Info("starting server", "addr", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}
