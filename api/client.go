// Package api - Hauptmodul des API-Clients.
// Dieses Modul enthaelt die Client-Struktur und Basis-Methoden.
// Stream-Methoden sind in client_stream.go, Blob-Methoden in client_blob.go,
// API-Methoden in client_api.go.
//
// Package api implements a client for the ollama REST API. Every method of
// [Client] issues exactly one HTTP request and hands back the raw outcome:
// the status code and body for ordinary calls, or an iterator of lines for
// the streaming pull and push calls. Error statuses are returned, not turned
// into errors; use [Response.Err] where that is wanted.
//
// The client does not retry, cache, or set timeouts of its own. Cancel a
// call through its context.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"runtime"

	"github.com/google/uuid"

	"github.com/ollama/ollama-client/envconfig"
	"github.com/ollama/ollama-client/version"
)

// DefaultBaseURL is the address of a local ollama server.
const DefaultBaseURL = "http://localhost:11434"

const (
	endpointGenerate   = "generate"
	endpointChat       = "chat"
	endpointCreate     = "create"
	endpointBlobs      = "blobs"
	endpointTags       = "tags"
	endpointShow       = "show"
	endpointCopy       = "copy"
	endpointDelete     = "delete"
	endpointPull       = "pull"
	endpointPush       = "push"
	endpointEmbeddings = "embeddings"
)

// Client encapsulates client state for interacting with the ollama
// service. The base address is fixed at construction.
type Client struct {
	base *url.URL
	http *http.Client
}

// ClientFromEnvironment creates a new [Client] using configuration from the
// environment variable OLLAMA_HOST, which points to the network host and
// port on which the ollama service is listening. The format of this variable
// is:
//
//	<scheme>://<host>:<port>
//
// If the variable is not specified, [DefaultBaseURL] is used.
func ClientFromEnvironment() (*Client, error) {
	return &Client{
		base: envconfig.Host(),
		http: http.DefaultClient,
	}, nil
}

// New creates a [Client] for the given base address, e.g.
// "http://localhost:11434". An empty address selects [DefaultBaseURL].
func New(baseURL string) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base url %q: scheme and host are required", baseURL)
	}

	return NewClient(base, http.DefaultClient), nil
}

// NewClient creates a [Client] from a parsed base address and an HTTP client.
// A nil http client selects [http.DefaultClient].
func NewClient(base *url.URL, hc *http.Client) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}

	return &Client{
		base: base,
		http: hc,
	}
}

// Base returns a copy of the client's base address.
func (c *Client) Base() *url.URL {
	u := *c.base
	return &u
}

// endpointURL returns {base}/api/{endpoint}.
func (c *Client) endpointURL(endpoint string) *url.URL {
	return c.base.JoinPath("api", endpoint)
}

func userAgent() string {
	return fmt.Sprintf("ollama-client/%s (%s %s) Go/%s", version.Version, runtime.GOARCH, runtime.GOOS, runtime.Version())
}

// newRequest builds a request against {base}/api/{endpoint}. A nil reqData
// sends no body.
func (c *Client) newRequest(ctx context.Context, method, endpoint string, reqData any, accept string) (*http.Request, error) {
	var reqBody io.Reader
	if reqData != nil {
		data, err := json.Marshal(reqData)
		if err != nil {
			return nil, err
		}

		reqBody = bytes.NewReader(data)
	}

	requestURL := c.endpointURL(endpoint)
	request, err := http.NewRequestWithContext(ctx, method, requestURL.String(), reqBody)
	if err != nil {
		return nil, err
	}

	if reqBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	request.Header.Set("Accept", accept)
	request.Header.Set("User-Agent", userAgent())

	return request, nil
}

// requestLog returns a logger that tags every line of one call with a fresh
// request id.
func requestLog(method, endpoint string) *slog.Logger {
	return slog.With("request_id", uuid.NewString(), "method", method, "endpoint", endpoint)
}

// do sends a single request and reads the whole response body. Transport
// errors are returned as is; error statuses are not.
func (c *Client) do(ctx context.Context, method, endpoint string, reqData any) (*Response, error) {
	log := requestLog(method, endpoint)

	request, err := c.newRequest(ctx, method, endpoint, reqData, "application/json")
	if err != nil {
		return nil, err
	}

	log.Debug("request", "url", request.URL.String())
	respObj, err := c.http.Do(request)
	if err != nil {
		log.Debug("request failed", "error", err)
		return nil, err
	}
	defer respObj.Body.Close()

	respBody, err := io.ReadAll(respObj.Body)
	if err != nil {
		return nil, err
	}

	log.Debug("response", "status", respObj.StatusCode, "bytes", len(respBody))
	return &Response{
		StatusCode: respObj.StatusCode,
		Status:     respObj.Status,
		Header:     respObj.Header,
		Body:       respBody,
	}, nil
}
