// Package config loads the runtime configuration of seahub-overlay itself
// (listen port, secret directory, output format, logging) from multiple
// sources with precedence: CLI flags > Environment variables > YAML config >
// Defaults. It does not describe the host settings; those are assembled by
// package settings.
package config
