// Package api - Stream-basierte Client-Methoden.
// Dieses Modul enthaelt PullStream und PushStream, die die Antwort
// zeilenweise liefern, waehrend sie vom Server eintrifft.

package api

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"iter"
	"net/http"
	"sync/atomic"

	"github.com/ollama/ollama-client/logutil"
)

const maxBufferSize = 8 << 20

// ErrStreamConsumed is yielded when a stream returned by [Client.PullStream]
// or [Client.PushStream] is ranged over a second time.
var ErrStreamConsumed = errors.New("stream already consumed")

// PullStream downloads a model from the ollama library and yields the raw
// progress lines as they arrive. Empty lines are skipped.
//
// The request is sent when iteration starts. Breaking out of the loop or
// cancelling ctx closes the connection. The stream can be ranged over only
// once. A transport error ends the stream with a non-nil error.
func (c *Client) PullStream(ctx context.Context, req *PullRequest) iter.Seq2[[]byte, error] {
	return c.stream(ctx, endpointPull, transferPayload(req.Name, req.Insecure, true))
}

// PushStream uploads a model and yields the raw progress lines as they
// arrive. It behaves like [Client.PullStream].
func (c *Client) PushStream(ctx context.Context, req *PushRequest) iter.Seq2[[]byte, error] {
	return c.stream(ctx, endpointPush, transferPayload(req.Name, req.Insecure, true))
}

// stream posts data to endpoint and yields each non-empty line of the body.
// The status code is not inspected; error bodies are yielded like any other.
func (c *Client) stream(ctx context.Context, endpoint string, data any) iter.Seq2[[]byte, error] {
	var started atomic.Bool

	return func(yield func([]byte, error) bool) {
		if !started.CompareAndSwap(false, true) {
			yield(nil, ErrStreamConsumed)
			return
		}

		log := requestLog(http.MethodPost, endpoint)

		request, err := c.newRequest(ctx, http.MethodPost, endpoint, data, "application/x-ndjson")
		if err != nil {
			yield(nil, err)
			return
		}

		log.Debug("request", "url", request.URL.String())
		response, err := c.http.Do(request)
		if err != nil {
			log.Debug("request failed", "error", err)
			yield(nil, err)
			return
		}
		defer response.Body.Close()

		log.Debug("stream opened", "status", response.StatusCode)

		scanner := bufio.NewScanner(response.Body)
		// increase the buffer size to avoid running out of space
		scanBuf := make([]byte, 0, maxBufferSize)
		scanner.Buffer(scanBuf, maxBufferSize)
		for scanner.Scan() {
			bts := scanner.Bytes()
			if len(bts) == 0 {
				continue
			}

			log.Log(ctx, logutil.LevelTrace, "stream line", "line", string(bts))
			if !yield(bytes.Clone(bts), nil) {
				return
			}
		}

		if err := scanner.Err(); err != nil {
			yield(nil, err)
		}
	}
}
