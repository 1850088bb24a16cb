package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/memecat/memecat/database"
	memecathttp "github.com/memecat/memecat/http"
	"github.com/memecat/memecat/miniostore"
	"github.com/memecat/memecat/token"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Start the blob-store HTTP server",
	Long: `Start the blob-store boundary: MinIO-backed object operations plus
bearer-token issuance. All object routes require authentication.`,
	RunE: runStore,
}

func init() {
	storeCmd.Flags().Int("store-port", 8001, "blob-store HTTP server port")

	rootCmd.AddCommand(storeCmd)
}

func runStore(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()
	slog.Info("connected to database", "type", cfg.Database.Type)

	store, err := miniostore.Connect(cfg.Minio)
	if err != nil {
		return fmt.Errorf("connect minio: %w", err)
	}

	if err := store.EnsureBucket(ctx); err != nil {
		return fmt.Errorf("ensure bucket: %w", err)
	}
	slog.Info("connected to minio", "endpoint", cfg.Minio.Endpoint, "bucket", cfg.Minio.Bucket)

	tokens, err := token.NewService(cfg.Auth, db.Users)
	if err != nil {
		return fmt.Errorf("create token service: %w", err)
	}

	handlerConfig := memecathttp.StoreConfig{
		CORS:          cfg.CORS,
		MaxUploadSize: cfg.Store.MaxUploadSize,
	}
	handler := memecathttp.NewStoreHandler(&handlerConfig, store, tokens, tokens)

	return serveHTTP(ctx, cancel, cfg.Store.Port, handler.Router())
}
