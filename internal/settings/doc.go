// Package settings assembles the Seahub extra-settings overlay. Values are
// layered from built-in defaults, process environment variables and
// file-mounted secrets (lowest to highest precedence) into an immutable
// Settings value whose Entries form the surface consumed by the host at
// startup.
package settings
