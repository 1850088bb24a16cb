package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/memecat/memecat/config"
)

var version = "dev"

// cfg is loaded once in the root PersistentPreRunE and read-only afterwards.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Version: version,
	Use:     "memecat",
	Short:   "Meme catalog backed by MinIO and a relational index",
	Long: `Memecat runs two collaborating services: an authenticated blob store
backed by MinIO and a meme catalog that mirrors it into a relational
database for querying.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var configFiles []string
		if f, _ := cmd.Flags().GetString("config"); f != "" {
			configFiles = append(configFiles, f)
		}

		loaded, err := config.Load(configFiles, cmd.Flags())
		if err != nil {
			return err
		}
		cfg = loaded

		setupLogging(cfg.Log.Level)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config.yaml)")
	rootCmd.PersistentFlags().String("db-type", "", "database type: sqlite, postgres (env: MEMECAT_DATABASE_TYPE)")
	rootCmd.PersistentFlags().String("db-dsn", "", "database connection string (env: MEMECAT_DATABASE_DSN)")
	rootCmd.PersistentFlags().String("minio-endpoint", "", "MinIO endpoint (env: MEMECAT_MINIO_ENDPOINT)")
	rootCmd.PersistentFlags().String("minio-bucket", "", "MinIO bucket (env: MEMECAT_MINIO_BUCKET)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
