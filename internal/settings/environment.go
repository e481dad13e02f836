package settings

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Environment holds the host environment variables the overlay depends on.
// An unset or empty variable takes its envDefault.
type Environment struct {
	ProviderDomain    string `env:"OAUTH_PROVIDER_DOMAIN" envDefault:"https://authentik.example.com"`
	ServerProtocol    string `env:"SEAFILE_SERVER_PROTOCOL" envDefault:"https"`
	ServerHostname    string `env:"SEAFILE_SERVER_HOSTNAME" envDefault:"seafile.example.com"`
	MaxUploadFileSize int    `env:"MAX_UPLOAD_FILE_SIZE" envDefault:"0"`
	MaxFilesPerUpload int    `env:"MAX_NUMBER_OF_FILES_FOR_FILEUPLOAD" envDefault:"500"`
	OfficeWebApp      string `env:"ENABLE_OFFICE_WEB_APP" envDefault:"false"`
	CollaboraServer   string `env:"COLLABORA_SERVER_NAME" envDefault:"office.example.com"`
}

// ParseEnvironment decodes environ into an Environment. The process
// environment is never consulted, so equal maps always decode equally.
func ParseEnvironment(environ map[string]string) (Environment, error) {
	if environ == nil {
		environ = map[string]string{}
	}
	var e Environment
	if err := env.ParseWithOptions(&e, env.Options{Environment: environ}); err != nil {
		return Environment{}, fmt.Errorf("%w: %w", ErrInvalidEnvironment, err)
	}
	return e, nil
}

// OfficeEnabled reports whether ENABLE_OFFICE_WEB_APP equals "true", ignoring case.
func (e Environment) OfficeEnabled() bool {
	return strings.EqualFold(e.OfficeWebApp, "true")
}

// ServerURL joins the protocol and hostname into the public Seafile base URL.
func (e Environment) ServerURL() string {
	return e.ServerProtocol + "://" + e.ServerHostname
}

// Environ returns the process environment as a map.
func Environ() map[string]string {
	return env.ToMap(os.Environ())
}

// MergeEnvFile overlays base onto the variables read from a dotenv file.
// Entries already in base win, matching godotenv.Load semantics. An empty
// path returns a copy of base.
func MergeEnvFile(base map[string]string, path string) (map[string]string, error) {
	merged := make(map[string]string, len(base))
	if path != "" {
		fileVars, err := godotenv.Read(path)
		if err != nil {
			return nil, fmt.Errorf("read env file %s: %w", path, err)
		}
		for k, v := range fileVars {
			merged[k] = v
		}
	}
	for k, v := range base {
		merged[k] = v
	}
	return merged, nil
}
