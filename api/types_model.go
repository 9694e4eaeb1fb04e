// types_model.go - Model-Management API Types
// Enthaelt: CreateRequest, PullRequest, PushRequest, ProgressResponse,
//           ListResponse, ListModelResponse, ShowResponse, ModelDetails
package api

import "time"

// CreateRequest is the request passed to [Client.Create]. Modelfile and Path
// are sent as null when empty; their content is not validated.
type CreateRequest struct {
	// Name is the name of the model to create.
	Name string

	// Modelfile is the contents of the Modelfile.
	Modelfile string

	// Stream specifies whether the response is streaming.
	Stream bool

	// Path is the path to a Modelfile on the server.
	Path string
}

// PullRequest is the request passed to [Client.Pull] and [Client.PullStream].
type PullRequest struct {
	Name     string
	Insecure bool
}

// PushRequest is the request passed to [Client.Push] and [Client.PushStream].
type PushRequest struct {
	Name     string
	Insecure bool
}

// ProgressResponse is a single line of a pull, push or create stream.
type ProgressResponse struct {
	Status    string `json:"status"`
	Digest    string `json:"digest,omitempty"`
	Total     int64  `json:"total,omitempty"`
	Completed int64  `json:"completed,omitempty"`
}

// ListResponse is the body of [Client.List].
type ListResponse struct {
	Models []ListModelResponse `json:"models"`
}

// ListModelResponse is a single model description in [ListResponse].
type ListModelResponse struct {
	Name       string       `json:"name"`
	Model      string       `json:"model"`
	ModifiedAt time.Time    `json:"modified_at"`
	Size       int64        `json:"size"`
	Digest     string       `json:"digest"`
	Details    ModelDetails `json:"details,omitempty"`
}

// ShowResponse is the body of [Client.Show].
type ShowResponse struct {
	License    string       `json:"license,omitempty"`
	Modelfile  string       `json:"modelfile,omitempty"`
	Parameters string       `json:"parameters,omitempty"`
	Template   string       `json:"template,omitempty"`
	System     string       `json:"system,omitempty"`
	Details    ModelDetails `json:"details,omitempty"`
}

// ModelDetails provides details about a model.
type ModelDetails struct {
	ParentModel       string   `json:"parent_model"`
	Format            string   `json:"format"`
	Family            string   `json:"family"`
	Families          []string `json:"families"`
	ParameterSize     string   `json:"parameter_size"`
	QuantizationLevel string   `json:"quantization_level"`
}
