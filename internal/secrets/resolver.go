package secrets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// DefaultBaseDir is where container runtimes mount secret files.
const DefaultBaseDir = "/run/secrets"

// Resolver reads secrets from a fixed base directory. It keeps no state
// between calls, so every lookup reflects the filesystem at call time.
type Resolver struct {
	baseDir string
	logger  *zap.Logger
}

// Option configures Resolver behaviour.
type Option func(*Resolver)

// WithLogger attaches a logger for lookup diagnostics. Secret values are never logged.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// NewResolver constructs a Resolver rooted at baseDir. An empty baseDir selects DefaultBaseDir.
func NewResolver(baseDir string, opts ...Option) *Resolver {
	if baseDir == "" {
		baseDir = DefaultBaseDir
	}
	r := &Resolver{
		baseDir: baseDir,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// BaseDir returns the directory secrets are read from.
func (r *Resolver) BaseDir() string {
	return r.baseDir
}

// Read returns the trimmed contents of the named secret. When the file does
// not exist it returns def[0], or the empty string if no default is given.
func (r *Resolver) Read(name string, def ...string) (string, error) {
	value, ok, err := r.Lookup(name)
	if err != nil {
		return "", err
	}
	if !ok {
		if len(def) > 0 {
			return def[0], nil
		}
		return "", nil
	}
	return value, nil
}

// Lookup reads the named secret and reports whether its file exists.
func (r *Resolver) Lookup(name string) (string, bool, error) {
	if err := validateName(name); err != nil {
		return "", false, err
	}

	path := filepath.Join(r.baseDir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			r.logger.Debug("secret not found", zap.String("secret", name), zap.String("path", path))
			return "", false, nil
		}
		return "", false, fmt.Errorf("read secret %q: %w", name, err)
	}

	if !utf8.Valid(data) {
		return "", false, fmt.Errorf("read secret %q: %w", name, ErrMalformed)
	}

	r.logger.Debug("secret loaded", zap.String("secret", name), zap.String("path", path))
	return strings.TrimSpace(string(data)), true, nil
}

func validateName(name string) error {
	if name == "" || name == "." || name == ".." {
		return ErrInvalidName
	}
	if strings.ContainsRune(name, '/') || strings.ContainsRune(name, filepath.Separator) {
		return ErrInvalidName
	}
	return nil
}
