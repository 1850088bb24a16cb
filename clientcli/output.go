package clientcli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/memecat/memecat"
)

// PrintTable writes catalog records as an aligned text table.
func PrintTable(w io.Writer, memes []memecat.Meme) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)

	fmt.Fprintln(tw, "ID\tNAME\tDESCRIPTION\tLAST UPDATED")
	for _, m := range memes {
		desc := ""
		if m.Description != nil {
			desc = *m.Description
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", m.ID, m.Name, desc, m.LastUpdatedAt.Format(time.RFC3339))
	}

	return tw.Flush()
}

// PrintJSON writes catalog records as indented JSON.
func PrintJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
