// memecat-cli is a small command line client for the catalog API.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/memecat/memecat/clientcli"
)

var version = "dev"

var (
	configPath string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:     "memecat-cli",
	Short:   "Client for the memecat catalog API",
	Version: version,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/memecat/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print results as JSON")
}

// newClient loads the config file and builds a client from it.
func newClient() (*clientcli.Client, error) {
	path, err := resolveConfigPath()
	if err != nil {
		return nil, err
	}

	cfg, err := clientcli.LoadConfig(path)
	if err != nil {
		return nil, err
	}

	return clientcli.New(cfg)
}

func resolveConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return clientcli.DefaultConfigPath()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
