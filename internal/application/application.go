package application

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/eugenenazirov/seahub-overlay/internal/api"
	"github.com/eugenenazirov/seahub-overlay/internal/config"
	"github.com/eugenenazirov/seahub-overlay/internal/secrets"
	"github.com/eugenenazirov/seahub-overlay/internal/settings"
)

// App encapsulates the application dependencies and HTTP server.
type App struct {
	settings *settings.Settings
	handler  *api.Handler
	metrics  *api.Metrics
	router   http.Handler
	logger   *zap.Logger
	server   *http.Server
}

// Assemble builds the settings snapshot described by cfg. environ is the
// process environment; cfg.EnvFile, when set, fills in variables it lacks.
func Assemble(cfg config.Config, environ map[string]string, logger *zap.Logger) (*settings.Settings, error) {
	merged, err := settings.MergeEnvFile(environ, cfg.EnvFile)
	if err != nil {
		return nil, err
	}

	resolver := secrets.NewResolver(cfg.SecretsDir, secrets.WithLogger(logger))
	s, err := settings.NewAssembler(merged, resolver, settings.WithLogger(logger)).Assemble()
	if err != nil {
		return nil, fmt.Errorf("assemble settings: %w", err)
	}
	return s, nil
}

// New initializes the application with all dependencies from the provided configuration.
func New(cfg config.Config, environ map[string]string, logger *zap.Logger) (*App, error) {
	s, err := Assemble(cfg, environ, logger)
	if err != nil {
		return nil, err
	}

	metrics := api.NewMetrics()
	handler := api.NewHandler(s)
	apiRouter := api.NewRouter(handler, logger,
		api.WithLogging(cfg.EnableRequestLogging),
		api.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
		api.WithMetrics(metrics),
	)

	return &App{
		settings: s,
		handler:  handler,
		metrics:  metrics,
		router:   apiRouter,
		logger:   logger,
		server:   NewServer(cfg, apiRouter),
	}, nil
}

// NewServer creates and configures an HTTP server from the provided configuration.
func NewServer(cfg config.Config, handler http.Handler) *http.Server {
	addr := cfg.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// Start starts the HTTP server in a goroutine and logs the listening address.
func (a *App) Start() error {
	go func() {
		a.logger.Info("server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("server error", zap.Error(err))
		}
	}()
	return nil
}

// Server returns the HTTP server instance for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}

// Settings returns the snapshot the server was started with.
func (a *App) Settings() *settings.Settings {
	return a.settings
}
