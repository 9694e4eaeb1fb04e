// Package api - Einfache API-Methoden des Clients.
// Dieses Modul enthaelt alle Methoden mit genau einer Anfrage und Antwort.

package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Generate generates a completion for a prompt. Options outside the known
// runtime options are dropped before the request is sent. The request's
// Stream flag is passed on to the server but does not change what is
// returned: the whole body, which is newline delimited JSON when streaming.
func (c *Client) Generate(ctx context.Context, req *GenerateRequest) (*Response, error) {
	format := req.Format
	if format == "" {
		format = DefaultFormat
	}

	body := newPayload().
		set("model", req.Model).
		set("prompt", req.Prompt).
		set("format", format).
		set("options", filterOptions(endpointGenerate, req.Options)).
		set("system", nullable(req.System)).
		set("template", nullable(req.Template)).
		set("context", req.Context).
		set("stream", req.Stream).
		set("raw", req.Raw)

	return c.do(ctx, http.MethodPost, endpointGenerate, body)
}

// Chat generates the next message in a chat. Options are forwarded as given.
func (c *Client) Chat(ctx context.Context, req *ChatRequest) (*Response, error) {
	format := req.Format
	if format == "" {
		format = DefaultFormat
	}

	stream := true
	if req.Stream != nil {
		stream = *req.Stream
	}

	body := newPayload().
		set("model", req.Model).
		set("messages", req.Messages).
		set("format", format).
		set("options", filterOptions(endpointChat, req.Options)).
		set("template", nullable(req.Template)).
		set("stream", stream)

	return c.do(ctx, http.MethodPost, endpointChat, body)
}

// Create creates a model from a Modelfile given inline or by path.
func (c *Client) Create(ctx context.Context, req *CreateRequest) (*Response, error) {
	body := newPayload().
		set("name", req.Name).
		set("modelfile", nullable(req.Modelfile)).
		set("stream", req.Stream).
		set("path", nullable(req.Path))

	return c.do(ctx, http.MethodPost, endpointCreate, body)
}

// List lists models that are available locally.
func (c *Client) List(ctx context.Context) (*Response, error) {
	return c.do(ctx, http.MethodGet, endpointTags, nil)
}

// Show obtains model information, including details, modelfile, license etc.
func (c *Client) Show(ctx context.Context, name string) (*Response, error) {
	return c.do(ctx, http.MethodPost, endpointShow, newPayload().set("name", name))
}

// Copy copies a model - creating a model with another name from an existing
// model.
func (c *Client) Copy(ctx context.Context, source, destination string) (*Response, error) {
	body := newPayload().
		set("source", source).
		set("destination", destination)

	return c.do(ctx, http.MethodPost, endpointCopy, body)
}

// Delete deletes a model and its data.
func (c *Client) Delete(ctx context.Context, name string) (*Response, error) {
	return c.do(ctx, http.MethodDelete, endpointDelete, newPayload().set("name", name))
}

// Embeddings generates an embedding from a model. No options are forwarded:
// the allow-list for this endpoint is empty.
func (c *Client) Embeddings(ctx context.Context, req *EmbeddingRequest) (*Response, error) {
	body := newPayload().
		set("model", req.Model).
		set("prompt", req.Prompt).
		set("options", filterOptions(endpointEmbeddings, req.Options))

	return c.do(ctx, http.MethodPost, endpointEmbeddings, body)
}

// Pull downloads a model from the ollama library and waits for the server to
// finish. The server reports a single JSON object, which is returned parsed.
// See [Client.PullStream] for progress updates.
func (c *Client) Pull(ctx context.Context, req *PullRequest) (*JSONResponse, error) {
	return c.transfer(ctx, endpointPull, req.Name, req.Insecure)
}

// Push uploads a model to a model library and waits for the server to
// finish. See [Client.PushStream] for progress updates.
func (c *Client) Push(ctx context.Context, req *PushRequest) (*JSONResponse, error) {
	return c.transfer(ctx, endpointPush, req.Name, req.Insecure)
}

func transferPayload(name string, insecure, stream bool) *payload {
	return newPayload().
		set("name", name).
		set("insecure", insecure).
		set("stream", stream)
}

// transfer runs a non-streaming pull or push.
func (c *Client) transfer(ctx context.Context, endpoint, name string, insecure bool) (*JSONResponse, error) {
	resp, err := c.do(ctx, http.MethodPost, endpoint, transferPayload(name, insecure, false))
	if err != nil {
		return nil, err
	}

	var body any
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, fmt.Errorf("%s: decode response (status %d): %w", endpoint, resp.StatusCode, err)
	}

	return &JSONResponse{StatusCode: resp.StatusCode, Body: body}, nil
}
