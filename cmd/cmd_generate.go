// cmd_generate.go - Generate, Chat und Embed Commands
// Hauptfunktionen: GenerateHandler, ChatHandler, EmbedHandler
package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ollama/ollama-client/api"
)

// GenerateHandler - Erzeugt eine Completion fuer einen Prompt
func GenerateHandler(cmd *cobra.Command, args []string) error {
	client, err := clientFromFlags(cmd)
	if err != nil {
		return err
	}

	opts, err := optionsFromFlags(cmd)
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	system, _ := cmd.Flags().GetString("system")
	template, _ := cmd.Flags().GetString("template")
	stream, _ := cmd.Flags().GetBool("stream")
	raw, _ := cmd.Flags().GetBool("raw")

	resp, err := client.Generate(cmd.Context(), &api.GenerateRequest{
		Model:    args[0],
		Prompt:   strings.Join(args[1:], " "),
		Format:   format,
		Options:  opts,
		System:   system,
		Template: template,
		Stream:   stream,
		Raw:      raw,
	})
	if err != nil {
		return err
	}

	if rawOutput(cmd) {
		return writeResponse(cmd, resp, "generate")
	}
	if err := checkResponse(resp, "generate"); err != nil {
		return err
	}

	var text strings.Builder
	for line := range resp.Lines() {
		var part api.GenerateResponse
		if err := json.Unmarshal(line, &part); err != nil {
			return errors.Wrap(err, "decode generate response")
		}
		text.WriteString(part.Response)
	}

	fmt.Fprintln(cmd.OutOrStdout(), text.String())
	return nil
}

// ChatHandler - Sendet Nachrichten an ein Chat-Modell
func ChatHandler(cmd *cobra.Command, args []string) error {
	client, err := clientFromFlags(cmd)
	if err != nil {
		return err
	}

	opts, err := optionsFromFlags(cmd)
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	system, _ := cmd.Flags().GetString("system")
	template, _ := cmd.Flags().GetString("template")
	stream, _ := cmd.Flags().GetBool("stream")

	var messages []api.Message
	if system != "" {
		messages = append(messages, api.Message{Role: "system", Content: system})
	}
	for _, content := range args[1:] {
		msg, err := messageWithImages("user", content)
		if err != nil {
			return err
		}
		messages = append(messages, msg)
	}

	resp, err := client.Chat(cmd.Context(), &api.ChatRequest{
		Model:    args[0],
		Messages: messages,
		Format:   format,
		Options:  opts,
		Template: template,
		Stream:   api.Bool(stream),
	})
	if err != nil {
		return err
	}

	if rawOutput(cmd) {
		return writeResponse(cmd, resp, "chat")
	}
	if err := checkResponse(resp, "chat"); err != nil {
		return err
	}

	var text strings.Builder
	for line := range resp.Lines() {
		var part api.ChatResponse
		if err := json.Unmarshal(line, &part); err != nil {
			return errors.Wrap(err, "decode chat response")
		}
		text.WriteString(part.Message.Content)
	}

	fmt.Fprintln(cmd.OutOrStdout(), text.String())
	return nil
}

// EmbedHandler - Erzeugt ein Embedding fuer einen Prompt
func EmbedHandler(cmd *cobra.Command, args []string) error {
	client, err := clientFromFlags(cmd)
	if err != nil {
		return err
	}

	opts, err := optionsFromFlags(cmd)
	if err != nil {
		return err
	}

	resp, err := client.Embeddings(cmd.Context(), &api.EmbeddingRequest{
		Model:   args[0],
		Prompt:  strings.Join(args[1:], " "),
		Options: opts,
	})
	if err != nil {
		return err
	}

	if rawOutput(cmd) {
		return writeResponse(cmd, resp, "embeddings")
	}
	if err := checkResponse(resp, "embeddings"); err != nil {
		return err
	}

	var embedding api.EmbeddingResponse
	if err := resp.Decode(&embedding); err != nil {
		return errors.Wrap(err, "decode embeddings response")
	}

	bts, err := json.Marshal(embedding.Embedding)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(bts))
	return nil
}

// newGenerateCmd - Erstellt den generate Command
func newGenerateCmd() *cobra.Command {
	generateCmd := &cobra.Command{
		Use:   "generate MODEL PROMPT...",
		Short: "Generate a completion for a prompt",
		Args:  cobra.MinimumNArgs(2),
		RunE:  GenerateHandler,
	}

	generateCmd.Flags().String("format", "", "Response format (default \""+api.DefaultFormat+"\")")
	generateCmd.Flags().String("system", "", "System prompt (overrides the Modelfile)")
	generateCmd.Flags().String("template", "", "Prompt template (overrides the Modelfile)")
	generateCmd.Flags().Bool("stream", false, "Ask the server for a streamed response")
	generateCmd.Flags().Bool("raw", false, "Send the prompt without applying the template")
	addOptionFlags(generateCmd)

	return generateCmd
}

// newChatCmd - Erstellt den chat Command
func newChatCmd() *cobra.Command {
	chatCmd := &cobra.Command{
		Use:   "chat MODEL MESSAGE...",
		Short: "Send user messages to a chat model",
		Args:  cobra.MinimumNArgs(2),
		RunE:  ChatHandler,
	}

	chatCmd.Flags().String("format", "", "Response format (default \""+api.DefaultFormat+"\")")
	chatCmd.Flags().String("system", "", "System message sent before the user messages")
	chatCmd.Flags().String("template", "", "Prompt template (overrides the Modelfile)")
	chatCmd.Flags().Bool("stream", true, "Ask the server for a streamed response")
	addOptionFlags(chatCmd)

	return chatCmd
}

// newEmbedCmd - Erstellt den embed Command
func newEmbedCmd() *cobra.Command {
	embedCmd := &cobra.Command{
		Use:   "embed MODEL PROMPT...",
		Short: "Generate an embedding for a prompt",
		Args:  cobra.MinimumNArgs(2),
		RunE:  EmbedHandler,
	}

	addOptionFlags(embedCmd)

	return embedCmd
}
