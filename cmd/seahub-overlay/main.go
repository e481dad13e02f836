package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/seahub-overlay/internal/application"
	"github.com/eugenenazirov/seahub-overlay/internal/config"
	"github.com/eugenenazirov/seahub-overlay/internal/logging"
	"github.com/eugenenazirov/seahub-overlay/internal/render"
	"github.com/eugenenazirov/seahub-overlay/internal/settings"
)

var signalNotify = signal.Notify

func main() {
	kingpinApp := kingpin.New("seahub-overlay", "Seahub settings overlay - assembles OAuth, security and office settings from defaults, environment and secret files")
	configFile := kingpinApp.Flag("config", "Path to YAML configuration file").String()
	secretsDir := kingpinApp.Flag("secrets-dir", "Directory holding one file per secret").String()
	envFile := kingpinApp.Flag("env-file", "Dotenv file supplying variables missing from the process environment").String()
	logLevel := kingpinApp.Flag("log-level", "Log level (debug, info, warn, error)").String()
	logFile := kingpinApp.Flag("log-file", "Also write logs to this file, rotated by size").String()

	renderCmd := kingpinApp.Command("render", "Render the settings overlay for the host").Default()
	format := renderCmd.Flag("format", "Output format (python, json, yaml)").Short('f').String()
	output := renderCmd.Flag("output", "Output file, - for stdout").Short('o').String()
	redact := renderCmd.Flag("redact", "Mask secret values in the output").Bool()

	serveCmd := kingpinApp.Command("serve", "Serve a read-only, redacted view of the settings over HTTP")
	port := serveCmd.Flag("port", "HTTP port exposed by the service").String()
	rateLimitRPSFlag := serveCmd.Flag("rate-limit-rps", "Requests per second allowed (set 0 to disable)").Default("-1").Float64()
	rateLimitBurstFlag := serveCmd.Flag("rate-limit-burst", "Burst capacity for rate limiter (set 0 to disable)").Default("-1").Int()

	command := kingpin.MustParse(kingpinApp.Parse(os.Args[1:]))

	overrides := &config.CLIOverrides{
		ConfigFile: *configFile,
		Port:       optional(port),
		SecretsDir: optional(secretsDir),
		EnvFile:    optional(envFile),
		Format:     optional(format),
		Output:     optional(output),
		LogLevel:   optional(logLevel),
		LogFile:    optional(logFile),
	}

	if *redact {
		overrides.Redact = redact
	}

	if *rateLimitRPSFlag >= 0 {
		overrides.RateLimitRPS = rateLimitRPSFlag
	}

	if *rateLimitBurstFlag >= 0 {
		overrides.RateLimitBurst = rateLimitBurstFlag
	}

	cfg, err := config.Load(overrides)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	environ := settings.Environ()

	switch command {
	case renderCmd.FullCommand():
		if err := runRender(cfg, environ, logger, os.Stdout); err != nil {
			logger.Fatal("failed to render settings", zap.Error(err))
		}

	case serveCmd.FullCommand():
		app, err := application.New(cfg, environ, logger)
		if err != nil {
			logger.Fatal("failed to initialize application", zap.Error(err))
		}

		if err := app.Start(); err != nil {
			logger.Fatal("failed to start server", zap.Error(err))
		}

		shutdown(app.Server(), cfg.ShutdownGracePeriod, logger)
	}
}

// runRender assembles the settings and writes them to cfg.Output, or to
// stdout when the output is "-".
func runRender(cfg config.Config, environ map[string]string, logger *zap.Logger, stdout io.Writer) error {
	enc, err := render.New(cfg.Format)
	if err != nil {
		return err
	}

	s, err := application.Assemble(cfg, environ, logger)
	if err != nil {
		return err
	}

	entries := s.Entries()
	if cfg.Redact {
		entries = render.Redact(entries)
	}

	if cfg.Output == "-" {
		return enc.Encode(stdout, entries)
	}

	if err := writeFileAtomic(cfg.Output, func(w io.Writer) error {
		return enc.Encode(w, entries)
	}); err != nil {
		return err
	}

	logger.Info("settings rendered",
		zap.String("output", cfg.Output),
		zap.String("format", cfg.Format),
		zap.Int("settings", len(entries)),
		zap.Bool("redacted", cfg.Redact),
	)
	return nil
}

// writeFileAtomic writes through a temporary file in the target directory
// and renames it into place with mode 0640.
func writeFileAtomic(path string, write func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if err := write(tmp); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Chmod(0o640); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename into %s: %w", path, err)
	}
	return nil
}

func optional(value *string) *string {
	if value == nil || *value == "" {
		return nil
	}
	return value
}

func shutdown(server *http.Server, timeout time.Duration, logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("forced close failed", zap.Error(closeErr))
		}
	}
}
