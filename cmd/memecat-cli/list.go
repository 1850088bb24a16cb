package main

import (
	"github.com/spf13/cobra"

	"github.com/memecat/memecat/clientcli"
)

var (
	listOffset int
	listLimit  int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog records",
	RunE:  runList,
}

func init() {
	listCmd.Flags().IntVar(&listOffset, "offset", 0, "number of records to skip")
	listCmd.Flags().IntVar(&listLimit, "limit", 50, "maximum number of records to return")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	memes, err := client.List(cmd.Context(), listOffset, listLimit)
	if err != nil {
		return err
	}

	if jsonOutput {
		return clientcli.PrintJSON(cmd.OutOrStdout(), memes)
	}

	return clientcli.PrintTable(cmd.OutOrStdout(), memes)
}
