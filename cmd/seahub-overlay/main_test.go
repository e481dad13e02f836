package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/eugenenazirov/seahub-overlay/internal/config"
	"github.com/eugenenazirov/seahub-overlay/internal/render"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		Port:                "0",
		SecretsDir:          t.TempDir(),
		Format:              render.FormatPython,
		Output:              "-",
		LogLevel:            "info",
		ShutdownGracePeriod: time.Second,
	}
}

func TestRunRenderStdout(t *testing.T) {
	cfg := testConfig(t)
	if err := os.WriteFile(filepath.Join(cfg.SecretsDir, "OAUTH_CLIENT_ID"), []byte("abc123\n"), 0o600); err != nil {
		t.Fatalf("write secret: %v", err)
	}

	var out bytes.Buffer
	if err := runRender(cfg, map[string]string{}, zaptest.NewLogger(t), &out); err != nil {
		t.Fatalf("runRender returned error: %v", err)
	}

	body := out.String()
	for _, line := range []string{
		`OAUTH_CLIENT_ID = "abc123"`,
		`OAUTH_AUTHORIZATION_URL = "https://authentik.example.com/application/o/authorize/"`,
		`ENABLE_OFFICE_WEB_APP = False`,
	} {
		if !strings.Contains(body, line+"\n") {
			t.Fatalf("expected %q in output:\n%s", line, body)
		}
	}
}

func TestRunRenderRedacted(t *testing.T) {
	cfg := testConfig(t)
	cfg.Format = render.FormatJSON
	cfg.Redact = true

	var out bytes.Buffer
	environ := map[string]string{"OAUTH_CLIENT_SECRET": "from-env"}
	if err := runRender(cfg, environ, zaptest.NewLogger(t), &out); err != nil {
		t.Fatalf("runRender returned error: %v", err)
	}
	if strings.Contains(out.String(), "from-env") {
		t.Fatalf("expected secret to be redacted:\n%s", out.String())
	}
	if !strings.Contains(out.String(), `"OAUTH_CLIENT_SECRET": "********"`) {
		t.Fatalf("expected redaction marker:\n%s", out.String())
	}
}

func TestRunRenderToFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.Output = filepath.Join(t.TempDir(), "seahub_settings_extra.py")

	environ := map[string]string{"ENABLE_OFFICE_WEB_APP": "true"}
	if err := runRender(cfg, environ, zaptest.NewLogger(t), &bytes.Buffer{}); err != nil {
		t.Fatalf("runRender returned error: %v", err)
	}

	data, err := os.ReadFile(cfg.Output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), `OFFICE_SERVER_TYPE = "CollaboraOffice"`) {
		t.Fatalf("expected office block in output:\n%s", data)
	}

	info, err := os.Stat(cfg.Output)
	if err != nil {
		t.Fatalf("stat output: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o640 {
		t.Fatalf("expected mode 0640, got %o", perm)
	}

	leftovers, _ := filepath.Glob(filepath.Join(filepath.Dir(cfg.Output), ".seahub_settings_extra.py.*"))
	if len(leftovers) != 0 {
		t.Fatalf("expected temporary files to be cleaned up, found %v", leftovers)
	}
}

func TestRunRenderIsDeterministic(t *testing.T) {
	cfg := testConfig(t)
	environ := map[string]string{"SEAFILE_SERVER_HOSTNAME": "files.corp.test", "ENABLE_OFFICE_WEB_APP": "true"}

	var first, second bytes.Buffer
	if err := runRender(cfg, environ, zaptest.NewLogger(t), &first); err != nil {
		t.Fatalf("runRender returned error: %v", err)
	}
	if err := runRender(cfg, environ, zaptest.NewLogger(t), &second); err != nil {
		t.Fatalf("runRender returned error: %v", err)
	}
	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Fatalf("expected byte-identical renders")
	}
}

func TestRunRenderErrors(t *testing.T) {
	t.Run("unknown format", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Format = "toml"
		err := runRender(cfg, nil, zaptest.NewLogger(t), &bytes.Buffer{})
		if !errors.Is(err, render.ErrUnknownFormat) {
			t.Fatalf("expected ErrUnknownFormat, got %v", err)
		}
	})

	t.Run("invalid environment", func(t *testing.T) {
		cfg := testConfig(t)
		err := runRender(cfg, map[string]string{"MAX_UPLOAD_FILE_SIZE": "x"}, zaptest.NewLogger(t), &bytes.Buffer{})
		if err == nil {
			t.Fatalf("expected error for invalid environment")
		}
	})

	t.Run("missing output directory", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Output = filepath.Join(t.TempDir(), "missing", "out.py")
		if err := runRender(cfg, nil, zaptest.NewLogger(t), &bytes.Buffer{}); err == nil {
			t.Fatalf("expected error for missing output directory")
		}
	})
}

func TestOptional(t *testing.T) {
	empty := ""
	if optional(&empty) != nil || optional(nil) != nil {
		t.Fatalf("expected empty values to be treated as unset")
	}
	value := "x"
	if got := optional(&value); got == nil || *got != "x" {
		t.Fatalf("expected value to be passed through")
	}
}
