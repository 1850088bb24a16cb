package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/memecat/memecat/database"
	"github.com/memecat/memecat/token"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the gateway service user",
	Long: `Create (or refresh) the user account the catalog's gateway client
authenticates with, using the configured gateway username and password.`,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	hash, err := token.HashPassword(cfg.Gateway.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user, err := db.Users.Create(ctx, cfg.Gateway.Username, hash)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	slog.Info("seeded gateway user", "username", user.Username, "id", user.ID)
	return nil
}
