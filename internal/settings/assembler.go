package settings

import (
	"fmt"
	"slices"

	"go.uber.org/zap"
)

// Names of the settings backed by secret files.
const (
	SecretClientID     = "OAUTH_CLIENT_ID"
	SecretClientSecret = "OAUTH_CLIENT_SECRET"
)

// SecretSource looks up file-mounted secrets by name.
type SecretSource interface {
	Lookup(name string) (value string, ok bool, err error)
}

// Assembler builds Settings from an environment snapshot and a secret source.
type Assembler struct {
	environ map[string]string
	secrets SecretSource
	logger  *zap.Logger
}

// AssemblerOption configures Assembler behaviour.
type AssemblerOption func(*Assembler)

// WithLogger attaches a logger for assembly diagnostics.
func WithLogger(logger *zap.Logger) AssemblerOption {
	return func(a *Assembler) {
		a.logger = logger
	}
}

// NewAssembler constructs an Assembler. environ is copied; later changes to
// the caller's map do not affect assembly.
func NewAssembler(environ map[string]string, secrets SecretSource, opts ...AssemblerOption) *Assembler {
	copied := make(map[string]string, len(environ))
	for k, v := range environ {
		copied[k] = v
	}
	a := &Assembler{
		environ: copied,
		secrets: secrets,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble resolves every setting once. It fails on undecodable environment
// values and on secret files that exist but cannot be read.
func (a *Assembler) Assemble() (*Settings, error) {
	e, err := ParseEnvironment(a.environ)
	if err != nil {
		return nil, err
	}

	clientID, err := a.layered(SecretClientID, "")
	if err != nil {
		return nil, err
	}
	clientSecret, err := a.layered(SecretClientSecret, "")
	if err != nil {
		return nil, err
	}

	serverURL := e.ServerURL()
	domain := e.ProviderDomain

	s := &Settings{
		OAuth: OAuth{
			ClientID:         clientID,
			ClientSecret:     clientSecret,
			RedirectURL:      serverURL + "/oauth/callback/",
			ProviderDomain:   domain,
			AuthorizationURL: domain + "/application/o/authorize/",
			TokenURL:         domain + "/application/o/token/",
			UserInfoURL:      domain + "/application/o/userinfo/",
			Scope:            slices.Clone(defaultScope),
			AttributeMap:     slices.Clone(defaultAttributeMap),
		},
		LoginURL:           serverURL + "/oauth/login/",
		LogoutRedirectURL:  domain + "/application/o/seafile/end-session/",
		CSRFTrustedOrigins: []string{serverURL},
		AllowedHosts:       []string{e.ServerHostname, "localhost", "127.0.0.1"},
		MaxUploadFileSize:  e.MaxUploadFileSize,
		MaxFilesPerUpload:  e.MaxFilesPerUpload,
	}

	if e.OfficeEnabled() {
		s.Office = newOfficeWebApp(e.CollaboraServer)
	}

	a.logger.Info("settings assembled",
		zap.String("server_url", serverURL),
		zap.String("provider_domain", domain),
		zap.Bool("client_id_set", clientID != ""),
		zap.Bool("client_secret_set", clientSecret != ""),
		zap.Bool("office_web_app", s.Office != nil),
	)
	return s, nil
}

// layered resolves name through default < environment < secret file.
func (a *Assembler) layered(name, def string) (string, error) {
	value, source := def, "default"
	if v, ok := a.environ[name]; ok && v != "" {
		value, source = v, "environment"
	}

	if a.secrets != nil {
		secret, ok, err := a.secrets.Lookup(name)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrSecret, err)
		}
		if ok {
			value, source = secret, "secret"
		}
	}

	a.logger.Debug("setting resolved", zap.String("setting", name), zap.String("source", source))
	return value, nil
}

func newOfficeWebApp(hostname string) *OfficeWebApp {
	return &OfficeWebApp{
		ServerType:            officeServerType,
		BaseURL:               "https://" + hostname + "/hosting/discovery",
		Name:                  officeWebAppName,
		AccessTokenExpiration: wopiTokenExpiration,
		FileExtensions:        slices.Clone(officeViewExtensions),
		EnableEdit:            true,
		EditFileExtensions:    slices.Clone(officeEditExtensions),
	}
}
