// types.go - Core API Types (Response, Fehler)
// Enthaelt: StatusError, Response, JSONResponse
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"
	"net/http"
)

// StatusError is an error with an HTTP status code and message.
type StatusError struct {
	StatusCode   int
	Status       string
	ErrorMessage string `json:"error"`
}

func (e StatusError) Error() string {
	switch {
	case e.Status != "" && e.ErrorMessage != "":
		return fmt.Sprintf("%s: %s", e.Status, e.ErrorMessage)
	case e.Status != "":
		return e.Status
	case e.ErrorMessage != "":
		return e.ErrorMessage
	default:
		// this should not happen
		return "something went wrong, please see the ollama server logs for details"
	}
}

// Response is the raw outcome of a single request. The body has been read
// in full and the connection released.
type Response struct {
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the body into v.
func (r *Response) Decode(v any) error {
	return json.Unmarshal(r.Body, v)
}

// Err returns a [StatusError] if the server answered with a status of 400 or
// above, and nil otherwise. Responses are never turned into errors by the
// [Client] itself.
func (r *Response) Err() error {
	if r.StatusCode < http.StatusBadRequest {
		return nil
	}

	apiError := StatusError{StatusCode: r.StatusCode, Status: r.Status}
	if err := json.Unmarshal(r.Body, &apiError); err != nil {
		// Use the full body as the message if we fail to decode a response.
		apiError.ErrorMessage = string(r.Body)
	}

	return apiError
}

// Lines iterates over the non-empty lines of the body without their line
// endings. Generate and chat responses with streaming enabled arrive as
// newline delimited JSON. Lines of any length are yielded.
func (r *Response) Lines() iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		for line := range bytes.Lines(r.Body) {
			line = bytes.TrimRight(line, "\r\n")
			if len(line) == 0 {
				continue
			}
			if !yield(bytes.Clone(line)) {
				return
			}
		}
	}
}

// JSONResponse is the result of a non-streaming pull or push: the status code
// and the parsed body. Body holds any JSON value; the server normally sends
// an object, which decodes to map[string]any.
type JSONResponse struct {
	StatusCode int
	Body       any
}

// Field returns the string value of key when Body is an object.
func (r *JSONResponse) Field(key string) (string, bool) {
	obj, ok := r.Body.(map[string]any)
	if !ok {
		return "", false
	}
	s, ok := obj[key].(string)
	return s, ok
}
