package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

type fakeReply struct {
	status int
	body   string
}

// fakeServer mirrors the server's route table and records every request.
// Replies and handlers are keyed by "METHOD /route", e.g. "POST /api/pull".
type fakeServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []recordedRequest
}

func newFakeServer(t *testing.T, replies map[string]fakeReply, handlers map[string]gin.HandlerFunc) (*fakeServer, *Client) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &fakeServer{}
	handle := func(c *gin.Context) {
		body, _ := io.ReadAll(c.Request.Body)
		s.mu.Lock()
		s.requests = append(s.requests, recordedRequest{
			Method: c.Request.Method,
			Path:   c.Request.URL.Path,
			Header: c.Request.Header.Clone(),
			Body:   body,
		})
		s.mu.Unlock()

		key := c.Request.Method + " " + c.FullPath()
		if h, ok := handlers[key]; ok {
			h(c)
			return
		}

		reply, ok := replies[key]
		if !ok {
			reply = fakeReply{status: http.StatusOK, body: "{}"}
		}
		c.Data(reply.status, "application/json", []byte(reply.body))
	}

	r := gin.New()
	r.POST("/api/generate", handle)
	r.POST("/api/chat", handle)
	r.POST("/api/create", handle)
	r.HEAD("/api/blobs/:digest", handle)
	r.POST("/api/blobs/:digest", handle)
	r.GET("/api/tags", handle)
	r.POST("/api/show", handle)
	r.POST("/api/copy", handle)
	r.DELETE("/api/delete", handle)
	r.POST("/api/pull", handle)
	r.POST("/api/push", handle)
	r.POST("/api/embeddings", handle)

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)

	base, err := url.Parse(s.URL)
	require.NoError(t, err)
	return s, NewClient(base, s.Client())
}

func (s *fakeServer) recorded() []recordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]recordedRequest(nil), s.requests...)
}

func (s *fakeServer) only(t *testing.T) recordedRequest {
	t.Helper()
	reqs := s.recorded()
	require.Len(t, reqs, 1, "genau eine Anfrage erwartet")
	return reqs[0]
}

func decodeBody(t *testing.T, body []byte) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(body, &m), "Body ist kein JSON: %s", body)
	return m
}

func TestGenerateFiltersOptions(t *testing.T) {
	tests := []struct {
		name    string
		options map[string]any
		want    map[string]any
	}{
		{
			name:    "unbekannte Option wird verworfen",
			options: map[string]any{"temperature": 0.5, "bogus": 1},
			want:    map[string]any{"temperature": 0.5},
		},
		{
			name:    "bekannte Optionen bleiben unveraendert",
			options: map[string]any{"top_k": 40, "stop": []string{"\n", "user:"}, "use_mmap": false},
			want:    map[string]any{"top_k": float64(40), "stop": []any{"\n", "user:"}, "use_mmap": false},
		},
		{
			name:    "nil wird zu leerem Objekt",
			options: nil,
			want:    map[string]any{},
		},
		{
			name:    "nur unbekannte Optionen",
			options: map[string]any{"min_p": 0.1, "Temperature": 1},
			want:    map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, client := newFakeServer(t, nil, nil)

			resp, err := client.Generate(t.Context(), &GenerateRequest{Model: "llama2", Prompt: "hello", Options: tt.options})
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, resp.StatusCode)

			got := decodeBody(t, srv.only(t).Body)["options"]
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("options stimmen nicht (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGeneratePayload(t *testing.T) {
	srv, client := newFakeServer(t, nil, nil)

	_, err := client.Generate(t.Context(), &GenerateRequest{
		Model:   "llama2",
		Prompt:  "hello",
		Options: map[string]any{"temperature": 0.5, "bogus": 1},
	})
	require.NoError(t, err)

	req := srv.only(t)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/api/generate", req.Path)
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	assert.True(t, strings.HasPrefix(req.Header.Get("User-Agent"), "ollama-client/"))

	want := `{"model":"llama2","prompt":"hello","format":"json","options":{"temperature":0.5},` +
		`"system":null,"template":null,"context":null,"stream":false,"raw":false}`
	assert.JSONEq(t, want, string(req.Body))
	assert.Equal(t, want, string(req.Body), "Feldreihenfolge")
}

func TestGenerateAllFields(t *testing.T) {
	srv, client := newFakeServer(t, nil, nil)

	_, err := client.Generate(t.Context(), &GenerateRequest{
		Model:    "llama2",
		Prompt:   "why is the sky blue?",
		Format:   "text",
		System:   "be brief",
		Template: "{{ .Prompt }}",
		Context:  []int{1, 2, 3},
		Stream:   true,
		Raw:      true,
	})
	require.NoError(t, err)

	got := decodeBody(t, srv.only(t).Body)
	want := map[string]any{
		"model":    "llama2",
		"prompt":   "why is the sky blue?",
		"format":   "text",
		"options":  map[string]any{},
		"system":   "be brief",
		"template": "{{ .Prompt }}",
		"context":  []any{float64(1), float64(2), float64(3)},
		"stream":   true,
		"raw":      true,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("payload stimmt nicht (-want +got):\n%s", diff)
	}
}

func TestGenerateStreamBodyReturnedWhole(t *testing.T) {
	body := `{"response":"Hel","done":false}` + "\n" + `{"response":"lo","done":true}` + "\n"
	_, client := newFakeServer(t, map[string]fakeReply{
		"POST /api/generate": {status: http.StatusOK, body: body},
	}, nil)

	resp, err := client.Generate(t.Context(), &GenerateRequest{Model: "llama2", Prompt: "hi", Stream: true})
	require.NoError(t, err)
	assert.Equal(t, body, string(resp.Body))

	var text strings.Builder
	for line := range resp.Lines() {
		var part GenerateResponse
		require.NoError(t, json.Unmarshal(line, &part))
		text.WriteString(part.Response)
	}
	assert.Equal(t, "Hello", text.String())
}

func TestResponseLines(t *testing.T) {
	long := `{"response":"` + strings.Repeat("x", maxBufferSize+10) + `"}`

	tests := []struct {
		name string
		body string
		want []string
	}{
		{name: "leerer Body", body: "", want: nil},
		{name: "ohne abschliessenden Zeilenumbruch", body: "{\"a\":1}\n{\"b\":2}", want: []string{`{"a":1}`, `{"b":2}`}},
		{name: "CRLF und Leerzeilen", body: "{\"a\":1}\r\n\r\n\n{\"b\":2}\r\n", want: []string{`{"a":1}`, `{"b":2}`}},
		{name: "Zeile groesser als Stream-Puffer", body: "{\"a\":1}\n" + long + "\n{\"b\":2}\n", want: []string{`{"a":1}`, long, `{"b":2}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &Response{StatusCode: http.StatusOK, Body: []byte(tt.body)}

			var got []string
			for line := range resp.Lines() {
				got = append(got, string(line))
			}
			require.Len(t, got, len(tt.want), "alle Zeilen muessen geliefert werden")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestChatPassesOptionsThrough(t *testing.T) {
	srv, client := newFakeServer(t, nil, nil)

	_, err := client.Chat(t.Context(), &ChatRequest{
		Model:    "llama2",
		Messages: []Message{{Role: "user", Content: "hi"}},
		Options:  map[string]any{"temperature": 0.2, "bogus": "kept"},
	})
	require.NoError(t, err)

	req := srv.only(t)
	assert.Equal(t, "/api/chat", req.Path)

	want := `{"model":"llama2","messages":[{"role":"user","content":"hi"}],"format":"json",` +
		`"options":{"bogus":"kept","temperature":0.2},"template":null,"stream":true}`
	assert.Equal(t, want, string(req.Body))
}

func TestChatStreamDisabled(t *testing.T) {
	srv, client := newFakeServer(t, nil, nil)

	_, err := client.Chat(t.Context(), &ChatRequest{Model: "llama2", Stream: Bool(false)})
	require.NoError(t, err)

	got := decodeBody(t, srv.only(t).Body)
	assert.Equal(t, false, got["stream"])
	assert.Nil(t, got["messages"])
}

func TestCreate(t *testing.T) {
	tests := []struct {
		name string
		req  CreateRequest
		want string
	}{
		{
			name: "Modelfile inline",
			req:  CreateRequest{Name: "mario", Modelfile: "FROM llama2\nSYSTEM you are mario"},
			want: `{"name":"mario","modelfile":"FROM llama2\nSYSTEM you are mario","stream":false,"path":null}`,
		},
		{
			name: "Modelfile ueber Pfad",
			req:  CreateRequest{Name: "mario", Path: "/models/Modelfile", Stream: true},
			want: `{"name":"mario","modelfile":null,"stream":true,"path":"/models/Modelfile"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, client := newFakeServer(t, nil, nil)

			_, err := client.Create(t.Context(), &tt.req)
			require.NoError(t, err)

			req := srv.only(t)
			assert.Equal(t, "/api/create", req.Path)
			assert.Equal(t, tt.want, string(req.Body))
		})
	}
}

func TestList(t *testing.T) {
	srv, client := newFakeServer(t, map[string]fakeReply{
		"GET /api/tags": {status: http.StatusOK, body: `{"models":[{"name":"llama2:latest","size":3825819519,"digest":"fe938a131f40"}]}`},
	}, nil)

	resp, err := client.List(t.Context())
	require.NoError(t, err)

	req := srv.only(t)
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Empty(t, req.Body)
	assert.Empty(t, req.Header.Get("Content-Type"))

	var list ListResponse
	require.NoError(t, resp.Decode(&list))
	require.Len(t, list.Models, 1)
	assert.Equal(t, "llama2:latest", list.Models[0].Name)
	assert.Equal(t, int64(3825819519), list.Models[0].Size)
}

func TestModelOperations(t *testing.T) {
	tests := []struct {
		name       string
		call       func(*Client) (*Response, error)
		wantMethod string
		wantPath   string
		wantBody   string
	}{
		{
			name:       "show",
			call:       func(c *Client) (*Response, error) { return c.Show(t.Context(), "llama2") },
			wantMethod: http.MethodPost,
			wantPath:   "/api/show",
			wantBody:   `{"name":"llama2"}`,
		},
		{
			name:       "copy",
			call:       func(c *Client) (*Response, error) { return c.Copy(t.Context(), "llama2", "llama2-backup") },
			wantMethod: http.MethodPost,
			wantPath:   "/api/copy",
			wantBody:   `{"source":"llama2","destination":"llama2-backup"}`,
		},
		{
			name:       "delete",
			call:       func(c *Client) (*Response, error) { return c.Delete(t.Context(), "llama2") },
			wantMethod: http.MethodDelete,
			wantPath:   "/api/delete",
			wantBody:   `{"name":"llama2"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, client := newFakeServer(t, nil, nil)

			resp, err := tt.call(client)
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, resp.StatusCode)

			req := srv.only(t)
			assert.Equal(t, tt.wantMethod, req.Method)
			assert.Equal(t, tt.wantPath, req.Path)
			assert.Equal(t, tt.wantBody, string(req.Body))
		})
	}
}

func TestEmbeddingsDropsAllOptions(t *testing.T) {
	srv, client := newFakeServer(t, map[string]fakeReply{
		"POST /api/embeddings": {status: http.StatusOK, body: `{"embedding":[0.1,0.2]}`},
	}, nil)

	resp, err := client.Embeddings(t.Context(), &EmbeddingRequest{
		Model:   "all-minilm",
		Prompt:  "hello",
		Options: map[string]any{"temperature": 0.5, "num_ctx": 2048},
	})
	require.NoError(t, err)

	assert.Equal(t, `{"model":"all-minilm","prompt":"hello","options":{}}`, string(srv.only(t).Body))

	var emb EmbeddingResponse
	require.NoError(t, resp.Decode(&emb))
	assert.Equal(t, []float64{0.1, 0.2}, emb.Embedding)
}

func TestErrorStatusIsReturned(t *testing.T) {
	_, client := newFakeServer(t, map[string]fakeReply{
		"POST /api/show": {status: http.StatusNotFound, body: `{"error":"model 'llama9' not found"}`},
	}, nil)

	resp, err := client.Show(t.Context(), "llama9")
	require.NoError(t, err, "Fehlerstatus darf kein Fehler sein")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var statusErr StatusError
	require.True(t, errors.As(resp.Err(), &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Equal(t, "model 'llama9' not found", statusErr.ErrorMessage)
}

func TestResponseErr(t *testing.T) {
	tests := []struct {
		name string
		resp Response
		want error
	}{
		{
			name: "Erfolg",
			resp: Response{StatusCode: http.StatusOK, Body: []byte(`{}`)},
			want: nil,
		},
		{
			name: "JSON-Fehler",
			resp: Response{StatusCode: http.StatusBadRequest, Status: "400 Bad Request", Body: []byte(`{"error":"invalid model name"}`)},
			want: StatusError{StatusCode: http.StatusBadRequest, Status: "400 Bad Request", ErrorMessage: "invalid model name"},
		},
		{
			name: "kein JSON",
			resp: Response{StatusCode: http.StatusBadGateway, Body: []byte("upstream down")},
			want: StatusError{StatusCode: http.StatusBadGateway, ErrorMessage: "upstream down"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.resp.Err())
		})
	}
}

func TestTransportErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base, err := url.Parse(srv.URL)
	require.NoError(t, err)
	srv.Close()

	client := NewClient(base, nil)

	_, err = client.List(t.Context())
	require.Error(t, err)

	_, err = client.Delete(t.Context(), "llama2")
	require.Error(t, err)
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		want    string
		wantErr bool
	}{
		{name: "Default", baseURL: "", want: "http://localhost:11434"},
		{name: "eigener Host", baseURL: "http://10.0.0.2:8080", want: "http://10.0.0.2:8080"},
		{name: "ohne Scheme", baseURL: "localhost:11434", wantErr: true},
		{name: "ungueltig", baseURL: "http://[::1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := New(tt.baseURL)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, client.Base().String())
			assert.Equal(t, tt.want+"/api/tags", client.endpointURL(endpointTags).String())
		})
	}
}
