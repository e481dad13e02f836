// Package secrets reads file-mounted secrets (one file per secret, as
// provided by Docker and Compose under /run/secrets). A missing file
// resolves to a caller-supplied default; every other failure is returned
// so that startup aborts instead of running with a silently empty secret.
package secrets
