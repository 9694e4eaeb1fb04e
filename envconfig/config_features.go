// config_features.go - Client-Defaults fuer die CLI
//
// Dieses Modul enthaelt:
// - Defaults fuer Pull/Push (Insecure)
// - Pfad zur Options-Datei
package envconfig

var (
	// Insecure erlaubt unsichere Verbindungen zur Registry bei Pull/Push
	Insecure = Bool("OLLAMA_INSECURE")

	// OptionsFile ist eine YAML-Datei mit Standard-Optionen fuer generate/chat/embed
	OptionsFile = String("OLLAMA_OPTIONS_FILE")
)
