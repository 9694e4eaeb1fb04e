package api

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestGenerateOptionsMatchOptionsStruct(t *testing.T) {
	var tags []string
	for tag := range optionFields() {
		tags = append(tags, tag)
	}

	if diff := cmp.Diff(generateOptions, tags, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
		t.Errorf("Allow-List und Options-Struct weichen ab (-list +struct):\n%s", diff)
	}
	if len(generateOptions) != 33 {
		t.Errorf("len(generateOptions) = %d, erwartet 33", len(generateOptions))
	}
}

func TestOptionPolicies(t *testing.T) {
	opts := map[string]any{"temperature": 0.7, "num_ctx": 4096, "bogus": true}

	tests := []struct {
		endpoint string
		want     []string
	}{
		{endpoint: endpointGenerate, want: []string{"num_ctx", "temperature"}},
		{endpoint: endpointChat, want: []string{"bogus", "num_ctx", "temperature"}},
		{endpoint: endpointEmbeddings, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.endpoint, func(t *testing.T) {
			filtered := filterOptions(tt.endpoint, opts)

			var got []string
			for pair := filtered.Oldest(); pair != nil; pair = pair.Next() {
				got = append(got, pair.Key)
				if pair.Value != opts[pair.Key] {
					t.Errorf("Wert fuer %q veraendert: %v", pair.Key, pair.Value)
				}
			}

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Schluessel stimmen nicht (-want +got):\n%s", diff)
			}
		})
	}
}

func TestOptionsMap(t *testing.T) {
	useMMap := false
	opts := Options{
		Temperature: 0.5,
		TopK:        20,
		Stop:        []string{"</s>"},
		Runner:      Runner{NumCtx: 2048, UseMMap: &useMMap},
	}

	got, err := opts.Map()
	if err != nil {
		t.Fatal(err)
	}

	want := map[string]any{
		"temperature": 0.5,
		"top_k":       float64(20),
		"stop":        []any{"</s>"},
		"num_ctx":     float64(2048),
		"use_mmap":    false,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Map() (-want +got):\n%s", diff)
	}

	for key := range got {
		if !slices.Contains(generateOptions, key) {
			t.Errorf("Schluessel %q fehlt in der Allow-List", key)
		}
	}
}

func TestFormatParams(t *testing.T) {
	tests := []struct {
		name    string
		params  map[string][]string
		want    map[string]any
		wantErr bool
	}{
		{
			name: "gemischte Typen",
			params: map[string][]string{
				"temperature": {"0.5"},
				"num_ctx":     {"4096"},
				"numa":        {"true"},
				"use_mmap":    {"false"},
				"stop":        {"</s>", "user:"},
			},
			want: map[string]any{
				"temperature": float32(0.5),
				"num_ctx":     int64(4096),
				"numa":        true,
				"use_mmap":    false,
				"stop":        []string{"</s>", "user:"},
			},
		},
		{
			name:    "unbekannter Parameter",
			params:  map[string][]string{"bogus": {"1"}},
			wantErr: true,
		},
		{
			name:    "ungueltige Zahl",
			params:  map[string][]string{"top_k": {"many"}},
			wantErr: true,
		},
		{
			name:    "ungueltiger Bool",
			params:  map[string][]string{"low_vram": {"maybe"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FormatParams(tt.params)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Fehler erwartet, bekommen %v", got)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("FormatParams() (-want +got):\n%s", diff)
			}
		})
	}
}
