// types_options.go - Options und Options-Policies pro Endpoint
// Enthaelt: Options, Runner, optionPolicy, optionPolicies, filterOptions

package api

import (
	"encoding/json"
	"log/slog"
	"slices"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Options is a typed alternative to the open option map of [GenerateRequest],
// [ChatRequest] and [EmbeddingRequest]. Use [Options.Map] to convert it.
//
// Zero values are omitted when converting, so an explicit zero (for example a
// temperature of 0) has to be set in the map directly.
type Options struct {
	Runner

	// Predict options used at runtime
	NumKeep          int      `json:"num_keep,omitempty"`
	Seed             int      `json:"seed,omitempty"`
	NumPredict       int      `json:"num_predict,omitempty"`
	TopK             int      `json:"top_k,omitempty"`
	TopP             float32  `json:"top_p,omitempty"`
	TFSZ             float32  `json:"tfs_z,omitempty"`
	TypicalP         float32  `json:"typical_p,omitempty"`
	RepeatLastN      int      `json:"repeat_last_n,omitempty"`
	Temperature      float32  `json:"temperature,omitempty"`
	RepeatPenalty    float32  `json:"repeat_penalty,omitempty"`
	PresencePenalty  float32  `json:"presence_penalty,omitempty"`
	FrequencyPenalty float32  `json:"frequency_penalty,omitempty"`
	Mirostat         int      `json:"mirostat,omitempty"`
	MirostatTau      float32  `json:"mirostat_tau,omitempty"`
	MirostatEta      float32  `json:"mirostat_eta,omitempty"`
	PenalizeNewline  bool     `json:"penalize_newline,omitempty"`
	Stop             []string `json:"stop,omitempty"`
}

// Runner options which must be set when the model is loaded into memory
type Runner struct {
	NUMA               bool    `json:"numa,omitempty"`
	NumCtx             int     `json:"num_ctx,omitempty"`
	NumBatch           int     `json:"num_batch,omitempty"`
	NumGQA             int     `json:"num_gqa,omitempty"`
	NumGPU             int     `json:"num_gpu,omitempty"`
	MainGPU            int     `json:"main_gpu,omitempty"`
	LowVRAM            bool    `json:"low_vram,omitempty"`
	F16KV              bool    `json:"f16_kv,omitempty"`
	LogitsAll          bool    `json:"logits_all,omitempty"`
	VocabOnly          bool    `json:"vocab_only,omitempty"`
	UseMMap            *bool   `json:"use_mmap,omitempty"`
	UseMLock           bool    `json:"use_mlock,omitempty"`
	EmbeddingOnly      bool    `json:"embedding_only,omitempty"`
	RopeFrequencyBase  float32 `json:"rope_frequency_base,omitempty"`
	RopeFrequencyScale float32 `json:"rope_frequency_scale,omitempty"`
	NumThread          int     `json:"num_thread,omitempty"`
}

// Map returns the options that are set, keyed by their JSON names.
func (opts Options) Map() (map[string]any, error) {
	bts, err := json.Marshal(opts)
	if err != nil {
		return nil, err
	}

	m := make(map[string]any)
	if err := json.Unmarshal(bts, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// generateOptions lists the option names forwarded by [Client.Generate].
var generateOptions = []string{
	"num_keep",
	"seed",
	"num_predict",
	"top_k",
	"top_p",
	"tfs_z",
	"typical_p",
	"repeat_last_n",
	"temperature",
	"repeat_penalty",
	"presence_penalty",
	"frequency_penalty",
	"mirostat",
	"mirostat_tau",
	"mirostat_eta",
	"penalize_newline",
	"stop",
	"numa",
	"num_ctx",
	"num_batch",
	"num_gqa",
	"num_gpu",
	"main_gpu",
	"low_vram",
	"f16_kv",
	"logits_all",
	"vocab_only",
	"use_mmap",
	"use_mlock",
	"embedding_only",
	"rope_frequency_base",
	"rope_frequency_scale",
	"num_thread",
}

// optionPolicy decides which caller supplied options reach the server.
type optionPolicy struct {
	passThrough bool
	allowed     []string
}

func allowList(names ...string) optionPolicy {
	return optionPolicy{allowed: names}
}

func passThrough() optionPolicy {
	return optionPolicy{passThrough: true}
}

// optionPolicies is the per-endpoint option handling. The entries differ on
// purpose and must not be unified without confirmation from the server side:
//
//   - generate only forwards the known runtime options
//   - chat forwards everything unfiltered, so unknown keys reach the server
//   - embeddings has an empty allow-list and never forwards any option; it is
//     unclear whether this is intended or the list was never filled in
var optionPolicies = map[string]optionPolicy{
	endpointGenerate:   allowList(generateOptions...),
	endpointChat:       passThrough(),
	endpointEmbeddings: allowList(),
}

// filterOptions applies the endpoint's policy. The result is never nil so it
// is always sent as an object. Keys are ordered by name.
func filterOptions(endpoint string, opts map[string]any) *orderedmap.OrderedMap[string, any] {
	policy := optionPolicies[endpoint]

	keys := make([]string, 0, len(opts))
	for k := range opts {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	filtered := orderedmap.New[string, any]()
	for _, k := range keys {
		if !policy.passThrough && !slices.Contains(policy.allowed, k) {
			slog.Debug("dropping option", "endpoint", endpoint, "option", k)
			continue
		}
		filtered.Set(k, opts[k])
	}
	return filtered
}
