// Package application provides application initialization and dependency wiring.
// It resolves secrets and environment into the settings snapshot, then builds
// the handler, router, metrics and HTTP server around it, keeping the main
// package focused on CLI parsing and orchestration.
package application
