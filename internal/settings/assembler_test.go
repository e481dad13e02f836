package settings

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/eugenenazirov/seahub-overlay/internal/secrets"
)

type staticSecrets map[string]string

func (s staticSecrets) Lookup(name string) (string, bool, error) {
	v, ok := s[name]
	return v, ok, nil
}

type failingSecrets struct{ err error }

func (f failingSecrets) Lookup(string) (string, bool, error) {
	return "", false, f.err
}

func assemble(t *testing.T, environ map[string]string, src SecretSource) *Settings {
	t.Helper()
	s, err := NewAssembler(environ, src, WithLogger(zaptest.NewLogger(t))).Assemble()
	if err != nil {
		t.Fatalf("Assemble returned error: %v", err)
	}
	return s
}

func entryValue(t *testing.T, s *Settings, name string) any {
	t.Helper()
	entry, ok := s.Lookup(name)
	if !ok {
		t.Fatalf("expected setting %s to be present", name)
	}
	return entry.Value
}

func TestAssembleDefaults(t *testing.T) {
	s := assemble(t, nil, staticSecrets{})

	want := map[string]any{
		"OAUTH_CLIENT_ID":         "",
		"OAUTH_CLIENT_SECRET":     "",
		"OAUTH_REDIRECT_URL":      "https://seafile.example.com/oauth/callback/",
		"OAUTH_PROVIDER":          "authentik",
		"OAUTH_PROVIDER_DOMAIN":   "https://authentik.example.com",
		"OAUTH_AUTHORIZATION_URL": "https://authentik.example.com/application/o/authorize/",
		"OAUTH_TOKEN_URL":         "https://authentik.example.com/application/o/token/",
		"OAUTH_USER_INFO_URL":     "https://authentik.example.com/application/o/userinfo/",
		"LOGIN_URL":               "https://seafile.example.com/oauth/login/",
		"LOGOUT_REDIRECT_URL":     "https://authentik.example.com/application/o/seafile/end-session/",
		"CSRF_TRUSTED_ORIGINS":    []string{"https://seafile.example.com"},
		"ALLOWED_HOSTS":           []string{"seafile.example.com", "localhost", "127.0.0.1"},
		"OAUTH_SCOPE":             []string{"openid", "profile", "email"},
		"MAX_UPLOAD_FILE_SIZE":    0,
		"ENABLE_OFFICE_WEB_APP":   false,
		"SESSION_COOKIE_AGE":      86400,
		"CSRF_COOKIE_SAMESITE":    "Strict",
		"ENABLE_SETTINGS_VIA_WEB": false,

		"MAX_NUMBER_OF_FILES_FOR_FILEUPLOAD": 500,
	}
	for name, value := range want {
		if got := entryValue(t, s, name); !reflect.DeepEqual(got, value) {
			t.Fatalf("%s = %#v, want %#v", name, got, value)
		}
	}
}

func TestAssembleAttributeMap(t *testing.T) {
	s := assemble(t, nil, nil)

	got, ok := entryValue(t, s, "OAUTH_ATTRIBUTE_MAP").([]AttributeMapping)
	if !ok {
		t.Fatalf("expected attribute map to be []AttributeMapping")
	}
	want := []AttributeMapping{
		{Claim: "sub", Required: true, Field: "uid"},
		{Claim: "email", Required: true, Field: "contact_email"},
		{Claim: "name", Required: false, Field: "name"},
	}
	if !slices.Equal(got, want) {
		t.Fatalf("unexpected attribute map %+v", got)
	}
}

func TestAssembleEnvironmentOverrides(t *testing.T) {
	s := assemble(t, map[string]string{
		"OAUTH_PROVIDER_DOMAIN":   "https://id.corp.test",
		"SEAFILE_SERVER_PROTOCOL": "http",
		"SEAFILE_SERVER_HOSTNAME": "cloud.corp.test",
		"MAX_UPLOAD_FILE_SIZE":    "1024",
	}, staticSecrets{})

	if s.OAuth.AuthorizationURL != "https://id.corp.test/application/o/authorize/" {
		t.Fatalf("unexpected authorization URL %s", s.OAuth.AuthorizationURL)
	}
	if s.OAuth.RedirectURL != "http://cloud.corp.test/oauth/callback/" {
		t.Fatalf("unexpected redirect URL %s", s.OAuth.RedirectURL)
	}
	if s.LogoutRedirectURL != "https://id.corp.test/application/o/seafile/end-session/" {
		t.Fatalf("unexpected logout URL %s", s.LogoutRedirectURL)
	}
	if !slices.Equal(s.AllowedHosts, []string{"cloud.corp.test", "localhost", "127.0.0.1"}) {
		t.Fatalf("unexpected allowed hosts %v", s.AllowedHosts)
	}
	if !slices.Equal(s.CSRFTrustedOrigins, []string{"http://cloud.corp.test"}) {
		t.Fatalf("unexpected trusted origins %v", s.CSRFTrustedOrigins)
	}
	if s.MaxUploadFileSize != 1024 {
		t.Fatalf("unexpected upload size %d", s.MaxUploadFileSize)
	}
}

func TestAssemblePrecedenceChain(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		s := assemble(t, nil, staticSecrets{})
		if s.OAuth.ClientID != "" {
			t.Fatalf("expected empty default, got %q", s.OAuth.ClientID)
		}
	})

	t.Run("environment overrides default", func(t *testing.T) {
		s := assemble(t, map[string]string{SecretClientID: "from-env"}, staticSecrets{})
		if s.OAuth.ClientID != "from-env" {
			t.Fatalf("expected environment value, got %q", s.OAuth.ClientID)
		}
	})

	t.Run("secret overrides environment", func(t *testing.T) {
		s := assemble(t,
			map[string]string{SecretClientID: "from-env", SecretClientSecret: "env-secret"},
			staticSecrets{SecretClientID: "from-file"},
		)
		if s.OAuth.ClientID != "from-file" {
			t.Fatalf("expected secret value, got %q", s.OAuth.ClientID)
		}
		if s.OAuth.ClientSecret != "env-secret" {
			t.Fatalf("expected environment value for client secret, got %q", s.OAuth.ClientSecret)
		}
	})
}

func TestAssembleWithSecretFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, SecretClientID), []byte("abc123\n"), 0o600); err != nil {
		t.Fatalf("write secret: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, SecretClientSecret), []byte("  s3cr3t  \n"), 0o600); err != nil {
		t.Fatalf("write secret: %v", err)
	}

	s := assemble(t, nil, secrets.NewResolver(dir))
	if s.OAuth.ClientID != "abc123" {
		t.Fatalf("expected abc123, got %q", s.OAuth.ClientID)
	}
	if s.OAuth.ClientSecret != "s3cr3t" {
		t.Fatalf("expected s3cr3t, got %q", s.OAuth.ClientSecret)
	}

	entry, ok := s.Lookup(SecretClientSecret)
	if !ok || !entry.Secret {
		t.Fatalf("expected client secret entry to be flagged secret")
	}
}

func TestAssembleSecretErrorAborts(t *testing.T) {
	boom := errors.New("permission denied")
	_, err := NewAssembler(nil, failingSecrets{err: boom}).Assemble()
	if !errors.Is(err, ErrSecret) || !errors.Is(err, boom) {
		t.Fatalf("expected wrapped secret error, got %v", err)
	}
}

func TestAssembleInvalidEnvironment(t *testing.T) {
	_, err := NewAssembler(map[string]string{"MAX_NUMBER_OF_FILES_FOR_FILEUPLOAD": "many"}, nil).Assemble()
	if !errors.Is(err, ErrInvalidEnvironment) {
		t.Fatalf("expected ErrInvalidEnvironment, got %v", err)
	}
}

func TestAssembleOfficeBlock(t *testing.T) {
	t.Run("disabled by default", func(t *testing.T) {
		s := assemble(t, nil, nil)
		if s.Office != nil {
			t.Fatalf("expected office block to be absent")
		}
		for _, name := range OfficeSettingNames() {
			if _, ok := s.Lookup(name); ok {
				t.Fatalf("expected %s to be absent when disabled", name)
			}
		}
	})

	t.Run("non true value disables", func(t *testing.T) {
		s := assemble(t, map[string]string{"ENABLE_OFFICE_WEB_APP": "yes"}, nil)
		if s.Office != nil {
			t.Fatalf("expected office block to be absent for %q", "yes")
		}
	})

	t.Run("enabled case insensitively", func(t *testing.T) {
		s := assemble(t, map[string]string{
			"ENABLE_OFFICE_WEB_APP": "TRUE",
			"COLLABORA_SERVER_NAME": "collabora.corp.test",
		}, nil)
		if s.Office == nil {
			t.Fatalf("expected office block to be present")
		}
		for _, name := range OfficeSettingNames() {
			if _, ok := s.Lookup(name); !ok {
				t.Fatalf("expected %s to be present when enabled", name)
			}
		}
		if got := entryValue(t, s, "OFFICE_WEB_APP_BASE_URL"); got != "https://collabora.corp.test/hosting/discovery" {
			t.Fatalf("unexpected discovery URL %v", got)
		}
		if got := entryValue(t, s, "WOPI_ACCESS_TOKEN_EXPIRATION"); got != 1800 {
			t.Fatalf("unexpected token expiration %v", got)
		}
		if got := entryValue(t, s, "ENABLE_OFFICE_WEB_APP"); got != true {
			t.Fatalf("expected ENABLE_OFFICE_WEB_APP to be true")
		}
		if n := len(s.Office.FileExtensions); n != 28 {
			t.Fatalf("expected 28 view extensions, got %d", n)
		}
		if n := len(s.Office.EditFileExtensions); n != 22 {
			t.Fatalf("expected 22 edit extensions, got %d", n)
		}
	})

	t.Run("default collabora host", func(t *testing.T) {
		s := assemble(t, map[string]string{"ENABLE_OFFICE_WEB_APP": "true"}, nil)
		if s.Office.BaseURL != "https://office.example.com/hosting/discovery" {
			t.Fatalf("unexpected discovery URL %s", s.Office.BaseURL)
		}
	})
}

func TestEntriesUniqueNames(t *testing.T) {
	s := assemble(t, map[string]string{"ENABLE_OFFICE_WEB_APP": "true"}, nil)

	seen := make(map[string]struct{})
	for _, entry := range s.Entries() {
		if _, dup := seen[entry.Name]; dup {
			t.Fatalf("duplicate setting %s", entry.Name)
		}
		seen[entry.Name] = struct{}{}
	}
}

func TestEntriesDeterministic(t *testing.T) {
	environ := map[string]string{
		"SEAFILE_SERVER_HOSTNAME": "seafile.corp.test",
		"ENABLE_OFFICE_WEB_APP":   "true",
	}
	src := staticSecrets{SecretClientID: "id", SecretClientSecret: "secret"}

	first := assemble(t, environ, src).Entries()
	second := assemble(t, environ, src).Entries()
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical entries across evaluations")
	}
}

func TestEntriesReturnCopies(t *testing.T) {
	s := assemble(t, nil, nil)

	hosts := entryValue(t, s, "ALLOWED_HOSTS").([]string)
	hosts[0] = "mutated"
	if s.AllowedHosts[0] != "seafile.example.com" {
		t.Fatalf("expected entries to be detached from Settings")
	}
}

func TestNewAssemblerCopiesEnvironment(t *testing.T) {
	environ := map[string]string{"SEAFILE_SERVER_HOSTNAME": "before.test"}
	a := NewAssembler(environ, nil)
	environ["SEAFILE_SERVER_HOSTNAME"] = "after.test"

	s, err := a.Assemble()
	if err != nil {
		t.Fatalf("Assemble returned error: %v", err)
	}
	if s.AllowedHosts[0] != "before.test" {
		t.Fatalf("expected assembler to use a snapshot, got %s", s.AllowedHosts[0])
	}
}
