// cmd_pull_push.go - Pull und Push Commands
// Hauptfunktionen: PullHandler, PushHandler
package cmd

import (
	"context"
	"fmt"
	"iter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ollama/ollama-client/api"
	"github.com/ollama/ollama-client/envconfig"
)

// transferFuncs - Stream- und Nicht-Stream-Variante von Pull bzw. Push
type transferFuncs struct {
	name   string
	stream func(ctx context.Context, client *api.Client, name string, insecure bool) iter.Seq2[[]byte, error]
	wait   func(ctx context.Context, client *api.Client, name string, insecure bool) (*api.JSONResponse, error)
}

var pullFuncs = transferFuncs{
	name: "pull",
	stream: func(ctx context.Context, client *api.Client, name string, insecure bool) iter.Seq2[[]byte, error] {
		return client.PullStream(ctx, &api.PullRequest{Name: name, Insecure: insecure})
	},
	wait: func(ctx context.Context, client *api.Client, name string, insecure bool) (*api.JSONResponse, error) {
		return client.Pull(ctx, &api.PullRequest{Name: name, Insecure: insecure})
	},
}

var pushFuncs = transferFuncs{
	name: "push",
	stream: func(ctx context.Context, client *api.Client, name string, insecure bool) iter.Seq2[[]byte, error] {
		return client.PushStream(ctx, &api.PushRequest{Name: name, Insecure: insecure})
	},
	wait: func(ctx context.Context, client *api.Client, name string, insecure bool) (*api.JSONResponse, error) {
		return client.Push(ctx, &api.PushRequest{Name: name, Insecure: insecure})
	},
}

// PullHandler - Laedt ein Modell von einer Registry herunter
func PullHandler(cmd *cobra.Command, args []string) error {
	return transferHandler(cmd, args[0], pullFuncs)
}

// PushHandler - Laedt ein Modell in eine Registry hoch
func PushHandler(cmd *cobra.Command, args []string) error {
	return transferHandler(cmd, args[0], pushFuncs)
}

func transferHandler(cmd *cobra.Command, name string, fns transferFuncs) error {
	client, err := clientFromFlags(cmd)
	if err != nil {
		return err
	}

	insecure := envconfig.Insecure()
	if cmd.Flags().Changed("insecure") {
		insecure, _ = cmd.Flags().GetBool("insecure")
	}
	noStream, _ := cmd.Flags().GetBool("no-stream")

	if noStream {
		resp, err := fns.wait(cmd.Context(), client, name, insecure)
		if err != nil {
			return err
		}

		if msg, ok := resp.Field("error"); ok && msg != "" {
			return errors.Errorf("%s %s: %s (status %d)", fns.name, name, msg, resp.StatusCode)
		}
		if status, ok := resp.Field("status"); ok {
			fmt.Fprintln(cmd.OutOrStdout(), status)
		}
		return nil
	}

	raw := rawOutput(cmd)
	p := newProgressPrinter(cmd)
	defer p.done()

	for line, err := range fns.stream(cmd.Context(), client, name, insecure) {
		if err != nil {
			return errors.Wrapf(err, "%s %s", fns.name, name)
		}

		if raw {
			fmt.Fprintln(cmd.OutOrStdout(), string(line))
			continue
		}
		if err := p.print(line); err != nil {
			return errors.Wrapf(err, "%s %s", fns.name, name)
		}
	}

	return nil
}

// newPullCmd - Erstellt den pull Command
func newPullCmd() *cobra.Command {
	pullCmd := &cobra.Command{
		Use:   "pull MODEL",
		Short: "Pull a model from a registry",
		Args:  cobra.ExactArgs(1),
		RunE:  PullHandler,
	}

	pullCmd.Flags().Bool("insecure", false, "Use an insecure registry")
	pullCmd.Flags().Bool("no-stream", false, "Wait for the server to finish instead of showing progress")

	return pullCmd
}

// newPushCmd - Erstellt den push Command
func newPushCmd() *cobra.Command {
	pushCmd := &cobra.Command{
		Use:   "push MODEL",
		Short: "Push a model to a registry",
		Args:  cobra.ExactArgs(1),
		RunE:  PushHandler,
	}

	pushCmd.Flags().Bool("insecure", false, "Use an insecure registry")
	pushCmd.Flags().Bool("no-stream", false, "Wait for the server to finish instead of showing progress")

	return pushCmd
}
