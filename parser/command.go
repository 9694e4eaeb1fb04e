// Package parser - Modelfile-Parser fuer den create Command
// Modul command: Command-Struktur, Validierung und Ausgabe
package parser

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/ollama/ollama-client/api"
)

var deprecatedParameters = []string{
	"penalize_newline",
	"low_vram",
	"f16_kv",
	"logits_all",
	"vocab_only",
	"use_mlock",
}

// Command is a single instruction. FROM is stored under the name "model",
// PARAMETER under the parameter name and MESSAGE as "role: content".
type Command struct {
	Name string
	Args string
}

func (c Command) String() string {
	var sb strings.Builder
	switch c.Name {
	case "model":
		fmt.Fprintf(&sb, "FROM %s", c.Args)
	case "license", "template", "system", "adapter":
		fmt.Fprintf(&sb, "%s %s", strings.ToUpper(c.Name), quote(c.Args))
	case "message":
		role, message, _ := strings.Cut(c.Args, ": ")
		fmt.Fprintf(&sb, "MESSAGE %s %s", role, quote(message))
	default:
		fmt.Fprintf(&sb, "PARAMETER %s %s", c.Name, quote(c.Args))
	}

	return sb.String()
}

// isInstruction reports whether the command is not a PARAMETER.
func (c Command) isInstruction() bool {
	switch c.Name {
	case "model", "license", "template", "system", "adapter", "message":
		return true
	default:
		return false
	}
}

// Parameters checks every PARAMETER line against the known model options and
// returns them typed. Repeated stop parameters are collected.
func (f Modelfile) Parameters() (map[string]any, error) {
	params := make(map[string]any)
	for _, c := range f.Commands {
		if c.isInstruction() {
			continue
		}

		if slices.Contains(deprecatedParameters, c.Name) {
			slog.Warn("parameter is deprecated", "parameter", c.Name)
			continue
		}

		ps, err := api.FormatParams(map[string][]string{c.Name: {c.Args}})
		if err != nil {
			return nil, err
		}

		for k, v := range ps {
			if ks, ok := params[k].([]string); ok {
				params[k] = append(ks, v.([]string)...)
			} else {
				params[k] = v
			}
		}
	}

	return params, nil
}

func quote(s string) string {
	if strings.Contains(s, "\n") || strings.HasPrefix(s, " ") || strings.HasSuffix(s, " ") {
		if strings.Contains(s, "\"") {
			return `"""` + s + `"""`
		}

		return `"` + s + `"`
	}

	return s
}

func unquote(s string) (string, bool) {
	if len(s) >= 3 && s[:3] == `"""` {
		if len(s) >= 6 && s[len(s)-3:] == `"""` {
			return s[3 : len(s)-3], true
		}

		return "", false
	}

	if len(s) >= 1 && s[0] == '"' {
		if len(s) >= 2 && s[len(s)-1] == '"' {
			return s[1 : len(s)-1], true
		}

		return "", false
	}

	return s, true
}

func isAlpha(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
}

func isNumber(r rune) bool {
	return r >= '0' && r <= '9'
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t'
}

func isNewline(r rune) bool {
	return r == '\r' || r == '\n'
}

func isValidMessageRole(role string) bool {
	return role == "system" || role == "user" || role == "assistant"
}

func isValidCommand(cmd string) bool {
	switch strings.ToLower(cmd) {
	case "from", "license", "template", "system", "adapter", "parameter", "message":
		return true
	default:
		return false
	}
}
