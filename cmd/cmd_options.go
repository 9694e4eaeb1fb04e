// cmd_options.go - Model-Optionen aus Flags und YAML-Datei
// Hauptfunktionen: optionsFromFlags, loadOptionsFile, addOptionFlags
package cmd

import (
	"maps"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ollama/ollama-client/api"
	"github.com/ollama/ollama-client/envconfig"
)

// addOptionFlags - Registriert -o und --options-file
func addOptionFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayP("option", "o", nil, "Model option as key=value (repeatable, e.g. -o temperature=0.5)")
	cmd.Flags().String("options-file", "", "YAML file with model options (default $OLLAMA_OPTIONS_FILE)")
}

// loadOptionsFile - Liest eine YAML-Datei mit Optionen
//
//	temperature: 0.5
//	num_ctx: 4096
//	stop: ["</s>"]
func loadOptionsFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read options file")
	}

	var opts map[string]any
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return nil, errors.Wrapf(err, "parse options file %s", path)
	}

	if opts == nil {
		opts = make(map[string]any)
	}
	return opts, nil
}

// parseOptionFlags - Wandelt key=value Paare in typisierte Optionen um
func parseOptionFlags(values []string) (map[string]any, error) {
	params := make(map[string][]string)
	for _, v := range values {
		key, value, ok := strings.Cut(v, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, errors.Errorf("invalid option %q, expected key=value", v)
		}

		key = strings.TrimSpace(key)
		params[key] = append(params[key], strings.TrimSpace(value))
	}

	opts, err := api.FormatParams(params)
	if err != nil {
		return nil, errors.Wrap(err, "option")
	}
	return opts, nil
}

// optionsFromFlags - Optionen aus Datei, ueberschrieben von -o Flags
func optionsFromFlags(cmd *cobra.Command) (map[string]any, error) {
	path, err := cmd.Flags().GetString("options-file")
	if err != nil {
		return nil, err
	}
	if path == "" {
		path = envconfig.OptionsFile()
	}

	opts := make(map[string]any)
	if path != "" {
		fromFile, err := loadOptionsFile(path)
		if err != nil {
			return nil, err
		}
		maps.Copy(opts, fromFile)
	}

	values, err := cmd.Flags().GetStringArray("option")
	if err != nil {
		return nil, err
	}

	fromFlags, err := parseOptionFlags(values)
	if err != nil {
		return nil, err
	}
	maps.Copy(opts, fromFlags)

	return opts, nil
}
