// config.go - Haupt-Konfigurationsfunktionen fuer den Client
//
// Dieses Modul enthaelt:
// - Host: Gibt Scheme und Host des Servers zurueck (OLLAMA_HOST)
// - LogLevel: Gibt Log-Level zurueck (OLLAMA_DEBUG)
// - Var: Liest eine bereinigte Environment-Variable
//
// Weitere Konfigurationen sind ausgelagert:
// - config_features.go: Client-Defaults fuer die CLI
// - config_utils.go: Utility-Funktionen und AsMap
package envconfig

import (
	"log/slog"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
)

const (
	// DefaultHost ist der Host, unter dem ein lokaler Server erwartet wird
	DefaultHost = "localhost"

	// DefaultPort ist der Standard-Port des Servers
	DefaultPort = "11434"
)

// Host gibt Scheme und Host zurueck
// Konfigurierbar via OLLAMA_HOST
// Default: http://localhost:11434
func Host() *url.URL {
	defaultPort := DefaultPort

	s := strings.TrimSpace(Var("OLLAMA_HOST"))
	scheme, hostport, ok := strings.Cut(s, "://")
	switch {
	case !ok:
		scheme, hostport = "http", s
	case scheme == "http":
		defaultPort = "80"
	case scheme == "https":
		defaultPort = "443"
	}

	hostport, path, _ := strings.Cut(hostport, "/")
	host, port, err := net.SplitHostPort(hostport)
	if err != nil {
		host, port = DefaultHost, defaultPort
		if ip := net.ParseIP(strings.Trim(hostport, "[]")); ip != nil {
			host = ip.String()
		} else if hostport != "" {
			host = hostport
		}
	}

	if n, err := strconv.ParseInt(port, 10, 32); err != nil || n > 65535 || n < 0 {
		slog.Warn("invalid port, using default", "port", port, "default", defaultPort)
		port = defaultPort
	}

	return &url.URL{
		Scheme: scheme,
		Host:   net.JoinHostPort(host, port),
		Path:   path,
	}
}

// LogLevel gibt das Log-Level zurueck
// Konfigurierbar via OLLAMA_DEBUG
// Werte: 0/false = INFO (Default), 1/true = DEBUG, 2 = TRACE
func LogLevel() slog.Level {
	level := slog.LevelInfo
	if s := Var("OLLAMA_DEBUG"); s != "" {
		if b, _ := strconv.ParseBool(s); b {
			level = slog.LevelDebug
		} else if i, _ := strconv.ParseInt(s, 10, 64); i != 0 {
			level = slog.Level(i * -4)
		}
	}

	return level
}

// Var gibt eine Environment-Variable zurueck
// Entfernt fuehrende/trailing Quotes und Leerzeichen
func Var(key string) string {
	return strings.Trim(strings.TrimSpace(os.Getenv(key)), "\"'")
}
