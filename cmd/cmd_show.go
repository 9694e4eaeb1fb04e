// cmd_show.go - Show Command und Modell-Info Anzeige
// Hauptfunktionen: ShowHandler, showInfo
package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ollama/ollama-client/api"
)

// ShowHandler - Zeigt Modell-Informationen an
func ShowHandler(cmd *cobra.Command, args []string) error {
	client, err := clientFromFlags(cmd)
	if err != nil {
		return err
	}

	flagsSet := 0
	showType := ""
	for _, name := range []string{"license", "modelfile", "parameters", "system", "template"} {
		set, err := cmd.Flags().GetBool(name)
		if err != nil {
			return errors.New("error retrieving flags")
		}
		if set {
			flagsSet++
			showType = name
		}
	}

	if flagsSet > 1 {
		return errors.New("only one of '--license', '--modelfile', '--parameters', '--system', or '--template' can be specified")
	}

	resp, err := client.Show(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if rawOutput(cmd) {
		return writeResponse(cmd, resp, "show")
	}
	if err := checkResponse(resp, "show "+args[0]); err != nil {
		return err
	}

	var info api.ShowResponse
	if err := resp.Decode(&info); err != nil {
		return pkgerrors.Wrap(err, "decode show response")
	}

	out := cmd.OutOrStdout()
	switch showType {
	case "license":
		fmt.Fprintln(out, info.License)
	case "modelfile":
		fmt.Fprintln(out, info.Modelfile)
	case "parameters":
		fmt.Fprintln(out, info.Parameters)
	case "system":
		fmt.Fprintln(out, info.System)
	case "template":
		fmt.Fprintln(out, info.Template)
	default:
		showInfo(&info, out)
	}
	return nil
}

// showInfo - Gibt Details und Parameter als Tabelle aus
func showInfo(resp *api.ShowResponse, w io.Writer) {
	tableRender := func(header string, rows func() [][]string) {
		fmt.Fprintln(w, " ", header)
		table := tablewriter.NewWriter(w)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		table.SetBorder(false)
		table.SetNoWhiteSpace(true)
		table.SetTablePadding("    ")
		table.AppendBulk(rows())
		table.Render()
		fmt.Fprintln(w)
	}

	tableRender("Model", func() (rows [][]string) {
		d := resp.Details
		if d.Family != "" {
			rows = append(rows, []string{"", "architecture", d.Family})
		}
		if d.ParameterSize != "" {
			rows = append(rows, []string{"", "parameters", d.ParameterSize})
		}
		if d.QuantizationLevel != "" {
			rows = append(rows, []string{"", "quantization", d.QuantizationLevel})
		}
		if d.Format != "" {
			rows = append(rows, []string{"", "format", d.Format})
		}
		return
	})

	if resp.Parameters != "" {
		tableRender("Parameters", func() (rows [][]string) {
			for _, line := range strings.Split(strings.TrimSpace(resp.Parameters), "\n") {
				if fields := strings.Fields(line); len(fields) > 1 {
					rows = append(rows, []string{"", fields[0], strings.Join(fields[1:], " ")})
				}
			}
			return
		})
	}

	if resp.System != "" {
		tableRender("System", func() [][]string {
			return [][]string{{"", strings.TrimSpace(resp.System)}}
		})
	}

	if resp.License != "" {
		tableRender("License", func() [][]string {
			line, _, _ := strings.Cut(strings.TrimSpace(resp.License), "\n")
			return [][]string{{"", line}}
		})
	}
}

// newShowCmd - Erstellt den show Command
func newShowCmd() *cobra.Command {
	showCmd := &cobra.Command{
		Use:   "show MODEL",
		Short: "Show information for a model",
		Args:  cobra.ExactArgs(1),
		RunE:  ShowHandler,
	}

	showCmd.Flags().Bool("license", false, "Show license of a model")
	showCmd.Flags().Bool("modelfile", false, "Show Modelfile of a model")
	showCmd.Flags().Bool("parameters", false, "Show parameters of a model")
	showCmd.Flags().Bool("template", false, "Show template of a model")
	showCmd.Flags().Bool("system", false, "Show system message of a model")

	return showCmd
}
