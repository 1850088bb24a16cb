package main

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/memecat/memecat"
)

var (
	updateName        string
	updateDescription string
)

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a catalog record's metadata",
	Long: `Update a catalog record's metadata.

Only the catalog row changes; the stored blob and its metadata are left
as they are.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdate,
}

func init() {
	updateCmd.Flags().StringVar(&updateName, "name", "", "new name for the record")
	updateCmd.Flags().StringVarP(&updateDescription, "description", "d", "", "new description for the record")
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return err
	}

	var patch memecat.MemePatch
	if cmd.Flags().Changed("name") {
		patch.Name = &updateName
	}
	if cmd.Flags().Changed("description") {
		patch.Description = &updateDescription
	}
	now := memecat.NormalizeTime(time.Now())
	patch.LastUpdatedAt = &now

	client, err := newClient()
	if err != nil {
		return err
	}

	meme, err := client.Update(cmd.Context(), id, patch)
	if err != nil {
		return err
	}

	return printMeme(cmd, meme)
}
