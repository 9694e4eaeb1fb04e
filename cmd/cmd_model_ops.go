// cmd_model_ops.go - Model-Operationen: Copy und Delete Handler
// Hauptfunktionen: CopyHandler, DeleteHandler, newCopyCmd, newDeleteCmd
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// CopyHandler - Kopiert ein Modell
func CopyHandler(cmd *cobra.Command, args []string) error {
	client, err := clientFromFlags(cmd)
	if err != nil {
		return err
	}

	resp, err := client.Copy(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}
	if err := checkResponse(resp, "copy"); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "copied '%s' to '%s'\n", args[0], args[1])
	return nil
}

// DeleteHandler - Loescht ein oder mehrere Modelle
func DeleteHandler(cmd *cobra.Command, args []string) error {
	client, err := clientFromFlags(cmd)
	if err != nil {
		return err
	}

	for _, arg := range args {
		resp, err := client.Delete(cmd.Context(), arg)
		if err != nil {
			return err
		}
		if err := checkResponse(resp, "delete "+arg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted '%s'\n", arg)
	}
	return nil
}

// newCopyCmd - Erstellt den copy Command
func newCopyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cp SOURCE DESTINATION",
		Short: "Copy a model",
		Args:  cobra.ExactArgs(2),
		RunE:  CopyHandler,
	}
}

// newDeleteCmd - Erstellt den delete Command
func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm MODEL [MODEL...]",
		Short: "Remove a model",
		Args:  cobra.MinimumNArgs(1),
		RunE:  DeleteHandler,
	}
}
