// cmd_list.go - List Command
// Hauptfunktionen: ListHandler
package cmd

import (
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ollama/ollama-client/api"
)

// ListHandler - Listet alle installierten Modelle auf
func ListHandler(cmd *cobra.Command, args []string) error {
	client, err := clientFromFlags(cmd)
	if err != nil {
		return err
	}

	resp, err := client.List(cmd.Context())
	if err != nil {
		return err
	}

	if rawOutput(cmd) {
		return writeResponse(cmd, resp, "list")
	}
	if err := checkResponse(resp, "list"); err != nil {
		return err
	}

	var models api.ListResponse
	if err := resp.Decode(&models); err != nil {
		return errors.Wrap(err, "decode list response")
	}

	var data [][]string
	for _, m := range models.Models {
		if len(args) == 0 || strings.HasPrefix(strings.ToLower(m.Name), strings.ToLower(args[0])) {
			modified := "Never"
			if !m.ModifiedAt.IsZero() {
				modified = humanize.Time(m.ModifiedAt)
			}

			data = append(data, []string{m.Name, shortDigest(m.Digest), humanize.Bytes(uint64(max(m.Size, 0))), modified})
		}
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"NAME", "ID", "SIZE", "MODIFIED"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()

	return nil
}

// shortDigest - Kuerzt einen Digest auf 12 Zeichen
func shortDigest(digest string) string {
	digest = strings.TrimPrefix(digest, "sha256:")
	return digest[:min(12, len(digest))]
}

// newListCmd - Erstellt den list Command
func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list [PREFIX]",
		Aliases: []string{"ls"},
		Short:   "List models",
		Args:    cobra.MaximumNArgs(1),
		RunE:    ListHandler,
	}
}
