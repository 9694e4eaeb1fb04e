// types_generate.go - Generate und Chat API Types
// Enthaelt: GenerateRequest, GenerateResponse, ChatRequest, ChatResponse, Message, Metrics

package api

import "time"

// DefaultFormat is sent when a generate or chat request leaves Format empty.
const DefaultFormat = "json"

// GenerateRequest describes a request sent by [Client.Generate]. Empty text
// fields (System, Template) and a nil Context are sent as null.
type GenerateRequest struct {
	// Model is the model name; it should be a name familiar to Ollama from
	// the library at https://ollama.com/library
	Model string

	// Prompt is the textual prompt to send to the model.
	Prompt string

	// Format is the output format; [DefaultFormat] if empty.
	Format string

	// Options lists model-specific options. Only the known runtime options
	// are forwarded, anything else is dropped.
	Options map[string]any

	// System overrides the model's default system message/prompt.
	System string

	// Template overrides the model's default prompt template.
	Template string

	// Context is the context parameter returned from a previous call to
	// [Client.Generate]. It can be used to keep a short conversational memory.
	Context []int

	// Stream asks the server for newline delimited partial responses. The
	// client still returns the whole body; see [Response.Lines].
	Stream bool

	// Raw set to true means that no formatting will be applied to the prompt.
	Raw bool
}

// GenerateResponse is a single (possibly partial) response of the generate
// endpoint.
type GenerateResponse struct {
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
	Response  string    `json:"response"`
	Done      bool      `json:"done"`
	Context   []int     `json:"context,omitempty"`

	Metrics
}

// Message is a single message in a chat sequence.
type Message struct {
	Role    string      `json:"role"`
	Content string      `json:"content"`
	Images  []ImageData `json:"images,omitempty"`
}

// ImageData represents the raw binary data of an image file.
type ImageData []byte

// ChatRequest describes a request sent by [Client.Chat].
type ChatRequest struct {
	// Model is the model name.
	Model string

	// Messages is the messages of the chat - can be used to keep a chat memory.
	Messages []Message

	// Format is the output format; [DefaultFormat] if empty.
	Format string

	// Options lists model-specific options. They are forwarded unfiltered.
	Options map[string]any

	// Template overrides the model's default prompt template.
	Template string

	// Stream enables streaming of the returned response; true by default.
	Stream *bool
}

// ChatResponse is a single (possibly partial) response of the chat endpoint.
type ChatResponse struct {
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
	Message   Message   `json:"message"`
	Done      bool      `json:"done"`

	Metrics
}

// Metrics enthaelt Performance-Metriken fuer Anfragen
type Metrics struct {
	TotalDuration      time.Duration `json:"total_duration,omitempty"`
	LoadDuration       time.Duration `json:"load_duration,omitempty"`
	PromptEvalCount    int           `json:"prompt_eval_count,omitempty"`
	PromptEvalDuration time.Duration `json:"prompt_eval_duration,omitempty"`
	EvalCount          int           `json:"eval_count,omitempty"`
	EvalDuration       time.Duration `json:"eval_duration,omitempty"`
}

// Bool returns a pointer to b, for fields such as [ChatRequest.Stream].
func Bool(b bool) *bool {
	return &b
}
