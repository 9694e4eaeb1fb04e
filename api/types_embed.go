// types_embed.go - Embedding API Types
// Enthaelt: EmbeddingRequest, EmbeddingResponse
package api

// EmbeddingRequest is the request passed to [Client.Embeddings].
type EmbeddingRequest struct {
	// Model is the model name.
	Model string

	// Prompt is the textual prompt to embed.
	Prompt string

	// Options lists model-specific options. None are forwarded at the moment;
	// see optionPolicies.
	Options map[string]any
}

// EmbeddingResponse is the body of [Client.Embeddings].
type EmbeddingResponse struct {
	Embedding []float64 `json:"embedding"`
}
