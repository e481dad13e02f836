package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/seahub-overlay/internal/render"
	"github.com/eugenenazirov/seahub-overlay/internal/secrets"
)

const (
	defaultPort           = "8080"
	defaultOutput         = "-"
	defaultLogLevel       = "info"
	defaultRateLimitRPS   = 25.0
	defaultRateLimitBurst = 50
)

var validate = validator.New()

// Config aggregates runtime configuration of the tool resolved from multiple sources.
// Precedence: CLI flags > Environment variables > YAML config > Defaults
type Config struct {
	Port                 string `validate:"required"`
	SecretsDir           string `validate:"required"`
	EnvFile              string
	Format               string `validate:"oneof=python json yaml"`
	Output               string `validate:"required"`
	Redact               bool
	LogLevel             string `validate:"oneof=debug info warn error"`
	LogFile              string
	ShutdownGracePeriod  time.Duration `validate:"gte=0"`
	ReadHeaderTimeout    time.Duration `validate:"gte=0"`
	WriteTimeout         time.Duration `validate:"gte=0"`
	IdleTimeout          time.Duration `validate:"gte=0"`
	EnableRequestLogging bool
	RateLimitRPS         float64 `validate:"gte=0"`
	RateLimitBurst       int     `validate:"gte=0"`
}

// yamlConfig represents the YAML configuration file structure.
type yamlConfig struct {
	Port                 string        `yaml:"port"`
	SecretsDir           string        `yaml:"secrets_dir"`
	EnvFile              string        `yaml:"env_file"`
	Format               string        `yaml:"format"`
	Output               string        `yaml:"output"`
	Redact               *bool         `yaml:"redact"`
	Log                  yamlLog       `yaml:"log"`
	ShutdownGracePeriod  string        `yaml:"shutdown_grace_period"`
	ReadHeaderTimeout    string        `yaml:"read_header_timeout"`
	WriteTimeout         string        `yaml:"write_timeout"`
	IdleTimeout          string        `yaml:"idle_timeout"`
	EnableRequestLogging *bool         `yaml:"enable_request_logging"`
	RateLimit            yamlRateLimit `yaml:"rate_limit"`
}

type yamlLog struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// yamlRateLimit represents the rate limit section in YAML.
type yamlRateLimit struct {
	RPS   *float64 `yaml:"rps"`
	Burst *int     `yaml:"burst"`
}

// CLIOverrides holds command-line flag overrides. Nil fields are not set on the command line.
type CLIOverrides struct {
	ConfigFile     string
	Port           *string
	SecretsDir     *string
	EnvFile        *string
	Format         *string
	Output         *string
	Redact         *bool
	LogLevel       *string
	LogFile        *string
	RateLimitRPS   *float64
	RateLimitBurst *int
}

// Load extracts configuration from multiple sources with precedence:
// CLI flags > Environment variables > YAML config > Defaults
func Load(overrides *CLIOverrides) (Config, error) {
	cfg := defaultConfig()

	if overrides != nil && overrides.ConfigFile != "" {
		yamlCfg, err := loadFromFile(overrides.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("load YAML config: %w", err)
		}
		if err := applyYAMLConfig(&cfg, yamlCfg); err != nil {
			return Config{}, fmt.Errorf("apply YAML config: %w", err)
		}
	}

	applyEnvConfig(&cfg)

	if overrides != nil {
		applyCLIOverrides(&cfg, overrides)
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// defaultConfig returns a Config with default values.
func defaultConfig() Config {
	return Config{
		Port:                 defaultPort,
		SecretsDir:           secrets.DefaultBaseDir,
		Format:               render.FormatPython,
		Output:               defaultOutput,
		LogLevel:             defaultLogLevel,
		ShutdownGracePeriod:  10 * time.Second,
		ReadHeaderTimeout:    5 * time.Second,
		WriteTimeout:         15 * time.Second,
		IdleTimeout:          60 * time.Second,
		EnableRequestLogging: true,
		RateLimitRPS:         defaultRateLimitRPS,
		RateLimitBurst:       defaultRateLimitBurst,
	}
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(path string) (*yamlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	return &yamlCfg, nil
}

// applyYAMLConfig applies YAML configuration to the Config struct.
func applyYAMLConfig(cfg *Config, yamlCfg *yamlConfig) error {
	setString(&cfg.Port, yamlCfg.Port)
	setString(&cfg.SecretsDir, yamlCfg.SecretsDir)
	setString(&cfg.EnvFile, yamlCfg.EnvFile)
	setString(&cfg.Format, yamlCfg.Format)
	setString(&cfg.Output, yamlCfg.Output)
	setString(&cfg.LogLevel, yamlCfg.Log.Level)
	setString(&cfg.LogFile, yamlCfg.Log.File)

	if yamlCfg.Redact != nil {
		cfg.Redact = *yamlCfg.Redact
	}
	if yamlCfg.EnableRequestLogging != nil {
		cfg.EnableRequestLogging = *yamlCfg.EnableRequestLogging
	}

	durations := []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"shutdown_grace_period", yamlCfg.ShutdownGracePeriod, &cfg.ShutdownGracePeriod},
		{"read_header_timeout", yamlCfg.ReadHeaderTimeout, &cfg.ReadHeaderTimeout},
		{"write_timeout", yamlCfg.WriteTimeout, &cfg.WriteTimeout},
		{"idle_timeout", yamlCfg.IdleTimeout, &cfg.IdleTimeout},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("%s: %w", d.name, err)
		}
		*d.dst = parsed
	}

	if yamlCfg.RateLimit.RPS != nil {
		cfg.RateLimitRPS = *yamlCfg.RateLimit.RPS
	}
	if yamlCfg.RateLimit.Burst != nil {
		cfg.RateLimitBurst = *yamlCfg.RateLimit.Burst
	}
	return nil
}

// applyEnvConfig applies environment variable configuration.
func applyEnvConfig(cfg *Config) {
	setString(&cfg.Port, os.Getenv("PORT"))
	setString(&cfg.SecretsDir, os.Getenv("SECRETS_DIR"))
	setString(&cfg.EnvFile, os.Getenv("ENV_FILE"))
	setString(&cfg.Format, os.Getenv("OUTPUT_FORMAT"))
	setString(&cfg.Output, os.Getenv("OUTPUT"))
	setString(&cfg.LogLevel, os.Getenv("LOG_LEVEL"))
	setString(&cfg.LogFile, os.Getenv("LOG_FILE"))

	if rps := strings.TrimSpace(os.Getenv("RATE_LIMIT_RPS")); rps != "" {
		if value, err := strconv.ParseFloat(rps, 64); err == nil && value >= 0 {
			cfg.RateLimitRPS = value
		}
	}

	if burst := strings.TrimSpace(os.Getenv("RATE_LIMIT_BURST")); burst != "" {
		if value, err := strconv.Atoi(burst); err == nil && value >= 0 {
			cfg.RateLimitBurst = value
		}
	}
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) {
	for _, o := range []struct {
		flag *string
		dst  *string
	}{
		{overrides.Port, &cfg.Port},
		{overrides.SecretsDir, &cfg.SecretsDir},
		{overrides.EnvFile, &cfg.EnvFile},
		{overrides.Format, &cfg.Format},
		{overrides.Output, &cfg.Output},
		{overrides.LogLevel, &cfg.LogLevel},
		{overrides.LogFile, &cfg.LogFile},
	} {
		if o.flag != nil {
			setString(o.dst, *o.flag)
		}
	}

	if overrides.Redact != nil {
		cfg.Redact = *overrides.Redact
	}

	if overrides.RateLimitRPS != nil && *overrides.RateLimitRPS >= 0 {
		cfg.RateLimitRPS = *overrides.RateLimitRPS
	}

	if overrides.RateLimitBurst != nil && *overrides.RateLimitBurst >= 0 {
		cfg.RateLimitBurst = *overrides.RateLimitBurst
	}
}

// validateConfig validates the final configuration.
func validateConfig(cfg Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func setString(dst *string, value string) {
	if value = strings.TrimSpace(value); value != "" {
		*dst = value
	}
}
