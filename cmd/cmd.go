// cmd.go - Haupt-CLI Setup und Root Command
// Hauptfunktionen: NewCLI, appendEnvDocs
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ollama/ollama-client/envconfig"
	"github.com/ollama/ollama-client/logutil"
	"github.com/ollama/ollama-client/version"
)

// appendEnvDocs - Fuegt Umgebungsvariablen-Dokumentation zum Command hinzu
func appendEnvDocs(cmd *cobra.Command, envs []envconfig.EnvVar) {
	if len(envs) == 0 {
		return
	}

	envUsage := `
Environment Variables:
`
	for _, e := range envs {
		envUsage += fmt.Sprintf("      %-24s   %s\n", e.Name, e.Description)
	}

	cmd.SetUsageTemplate(cmd.UsageTemplate() + envUsage)
}

// NewCLI - Erstellt das Haupt-CLI mit allen Commands
func NewCLI() *cobra.Command {
	cobra.EnableCommandSorting = false

	rootCmd := &cobra.Command{
		Use:           "ollama-client",
		Short:         "Command line client for the ollama REST API",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Version,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			slog.SetDefault(logutil.NewLogger(os.Stderr, envconfig.LogLevel()))
		},
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Print(cmd.UsageString())
		},
	}

	rootCmd.PersistentFlags().String("host", "", "Server address (default $OLLAMA_HOST or "+envconfig.DefaultHost+":"+envconfig.DefaultPort+")")
	rootCmd.PersistentFlags().Bool("json", false, "Print the raw response body")

	// Commands erstellen
	generateCmd := newGenerateCmd()
	chatCmd := newChatCmd()
	embedCmd := newEmbedCmd()
	createCmd := newCreateCmd()
	blobCmd := newBlobCmd()
	showCmd := newShowCmd()
	listCmd := newListCmd()
	copyCmd := newCopyCmd()
	deleteCmd := newDeleteCmd()
	pullCmd := newPullCmd()
	pushCmd := newPushCmd()

	// Environment-Dokumentation hinzufuegen
	envVars := envconfig.AsMap()
	envs := []envconfig.EnvVar{envVars["OLLAMA_HOST"], envVars["OLLAMA_DEBUG"]}

	for _, cmd := range []*cobra.Command{
		generateCmd,
		chatCmd,
		embedCmd,
		createCmd,
		blobCmd,
		showCmd,
		listCmd,
		copyCmd,
		deleteCmd,
		pullCmd,
		pushCmd,
	} {
		switch cmd {
		case generateCmd, chatCmd, embedCmd:
			appendEnvDocs(cmd, append(envs, envVars["OLLAMA_OPTIONS_FILE"]))
		case pullCmd, pushCmd:
			appendEnvDocs(cmd, append(envs, envVars["OLLAMA_INSECURE"]))
		default:
			appendEnvDocs(cmd, envs)
		}
	}

	rootCmd.AddCommand(
		generateCmd,
		chatCmd,
		embedCmd,
		createCmd,
		blobCmd,
		showCmd,
		listCmd,
		copyCmd,
		deleteCmd,
		pullCmd,
		pushCmd,
	)

	return rootCmd
}
