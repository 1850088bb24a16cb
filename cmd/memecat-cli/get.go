package main

import (
	"strconv"

	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a catalog record by id",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return err
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	meme, err := client.Get(cmd.Context(), id)
	if err != nil {
		return err
	}

	return printMeme(cmd, meme)
}
