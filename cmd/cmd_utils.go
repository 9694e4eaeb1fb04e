// cmd_utils.go - Gemeinsame Hilfsfunktionen
// Hauptfunktionen: clientFromFlags, writeResponse, checkResponse
package cmd

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ollama/ollama-client/api"
)

// clientFromFlags - Erstellt den Client aus --host oder OLLAMA_HOST
func clientFromFlags(cmd *cobra.Command) (*api.Client, error) {
	host, err := cmd.Flags().GetString("host")
	if err != nil {
		return nil, err
	}

	if host == "" {
		return api.ClientFromEnvironment()
	}

	client, err := api.New(host)
	if err != nil {
		return nil, errors.Wrap(err, "--host")
	}
	return client, nil
}

// rawOutput - Prueft ob --json gesetzt ist
func rawOutput(cmd *cobra.Command) bool {
	raw, _ := cmd.Flags().GetBool("json")
	return raw
}

// checkResponse - Wandelt Fehlerstatus in einen Fehler um
func checkResponse(resp *api.Response, what string) error {
	if err := resp.Err(); err != nil {
		return errors.Wrap(err, what)
	}
	return nil
}

// writeResponse - Gibt den Body unveraendert aus, bei Fehlerstatus als Fehler
func writeResponse(cmd *cobra.Command, resp *api.Response, what string) error {
	if err := checkResponse(resp, what); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if _, err := out.Write(resp.Body); err != nil {
		return err
	}
	if n := len(resp.Body); n > 0 && resp.Body[n-1] != '\n' {
		fmt.Fprintln(out)
	}
	return nil
}
