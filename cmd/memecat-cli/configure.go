package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/memecat/memecat/clientcli"
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Interactively set up the client configuration",
	RunE:  runConfigure,
}

func init() {
	rootCmd.AddCommand(configureCmd)
}

func runConfigure(cmd *cobra.Command, args []string) error {
	path, err := resolveConfigPath()
	if err != nil {
		return err
	}

	cfg, err := clientcli.LoadConfig(path)
	if err != nil {
		return err
	}

	if err := cfg.Configure(); err != nil {
		return err
	}

	if err := cfg.SaveConfig(path); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Configuration saved to", path)
	return nil
}
