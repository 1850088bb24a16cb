package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/memecat/memecat"
	"github.com/memecat/memecat/clientcli"
)

var uploadDescription string

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a file to the catalog",
	Args:  cobra.ExactArgs(1),
	RunE:  runUpload,
}

func init() {
	uploadCmd.Flags().StringVarP(&uploadDescription, "description", "d", "", "description for the uploaded file")
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	meme, err := client.Upload(cmd.Context(), args[0], uploadDescription)
	if err != nil {
		return err
	}

	if jsonOutput {
		return clientcli.PrintJSON(cmd.OutOrStdout(), meme)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %q with id %d\n", meme.Name, meme.ID)
	return nil
}

func printMeme(cmd *cobra.Command, meme memecat.Meme) error {
	if jsonOutput {
		return clientcli.PrintJSON(cmd.OutOrStdout(), meme)
	}
	return clientcli.PrintTable(cmd.OutOrStdout(), []memecat.Meme{meme})
}
