package envconfig

import (
	"log/slog"
	"net/url"
	"testing"
)

func TestHost(t *testing.T) {
	cases := map[string]struct {
		value  string
		expect string
	}{
		"empty":             {"", "http://localhost:11434"},
		"only address":      {"1.2.3.4", "http://1.2.3.4:11434"},
		"only port":         {":1234", "http://:1234"},
		"address and port":  {"1.2.3.4:1234", "http://1.2.3.4:1234"},
		"hostname":          {"example.com", "http://example.com:11434"},
		"hostname and port": {"example.com:1234", "http://example.com:1234"},
		"zero port":         {":0", "http://:0"},
		"too large port":    {":66000", "http://:11434"},
		"too small port":    {":-1", "http://:11434"},
		"ipv6 localhost":    {"[::1]", "http://[::1]:11434"},
		"ipv6 with port":    {"[::1]:1337", "http://[::1]:1337"},
		"extra space":       {" 1.2.3.4 ", "http://1.2.3.4:11434"},
		"extra quotes":      {"\"1.2.3.4\"", "http://1.2.3.4:11434"},
		"http scheme":       {"http://1.2.3.4", "http://1.2.3.4:80"},
		"https scheme":      {"https://example.com", "https://example.com:443"},
		"https with port":   {"https://example.com:11435", "https://example.com:11435"},
		"path":              {"https://example.com/ollama", "https://example.com:443/ollama"},
	}

	for name, tt := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("OLLAMA_HOST", tt.value)
			if host := Host(); host.String() != tt.expect {
				t.Errorf("%s: expected %s, got %s", name, tt.expect, host.String())
			}
		})
	}
}

func TestLogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":      slog.LevelInfo,
		"false": slog.LevelInfo,
		"t":     slog.LevelDebug,
		"1":     slog.LevelDebug,
		"2":     slog.Level(-8),
		"3":     slog.Level(-12),
	}

	for k, v := range cases {
		t.Run(k, func(t *testing.T) {
			t.Setenv("OLLAMA_DEBUG", k)
			if i := LogLevel(); i != v {
				t.Errorf("%s: expected %d, got %d", k, v, i)
			}
		})
	}
}

func TestBool(t *testing.T) {
	cases := map[string]bool{
		"":          false,
		"true":      true,
		"false":     false,
		"1":         true,
		"0":         false,
		"random":    true,
		"something": true,
	}

	for k, v := range cases {
		t.Run(k, func(t *testing.T) {
			t.Setenv("OLLAMA_INSECURE", k)
			if b := Insecure(); b != v {
				t.Errorf("%s: expected %t, got %t", k, v, b)
			}
		})
	}
}

func TestAsMap(t *testing.T) {
	t.Setenv("OLLAMA_HOST", "example.com:8080")
	t.Setenv("OLLAMA_INSECURE", "true")
	t.Setenv("OLLAMA_OPTIONS_FILE", "/etc/ollama/options.yaml")

	envs := AsMap()
	for _, name := range []string{"OLLAMA_DEBUG", "OLLAMA_HOST", "OLLAMA_INSECURE", "OLLAMA_OPTIONS_FILE"} {
		env, ok := envs[name]
		if !ok {
			t.Fatalf("%s fehlt", name)
		}
		if env.Name != name || env.Description == "" {
			t.Errorf("%s: unvollstaendiger Eintrag %+v", name, env)
		}
	}

	if got := envs["OLLAMA_HOST"].Value.(*url.URL).String(); got != "http://example.com:8080" {
		t.Errorf("OLLAMA_HOST = %q", got)
	}
	if got := envs["OLLAMA_INSECURE"].Value; got != true {
		t.Errorf("OLLAMA_INSECURE = %v", got)
	}
	if got := envs["OLLAMA_OPTIONS_FILE"].Value; got != "/etc/ollama/options.yaml" {
		t.Errorf("OLLAMA_OPTIONS_FILE = %v", got)
	}
}
