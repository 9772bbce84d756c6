// Package config loads phishcheck settings from an optional YAML file, a
// .env file and PHISHCHECK_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	valid "github.com/asaskevich/govalidator"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPath       = "phishcheck.yaml"
	DefaultEndpoint   = "https://127.0.0.1:5000"
	DefaultListen     = ":8080"
	DefaultSessionTTL = 30 * time.Minute
	DefaultLogLevel   = "info"

	envPrefix = "PHISHCHECK_"
)

var (
	ErrMissingEndpoint = errors.New("analysis endpoint is required")
	ErrInvalidEndpoint = errors.New("analysis endpoint must be an http(s) URL")
	ErrMissingListen   = errors.New("listen address is required")
	ErrInvalidLogLevel = errors.New("unknown log level")
)

type Config struct {
	Endpoint   string            `yaml:"endpoint"`
	Insecure   bool              `yaml:"insecure"`
	Timeout    time.Duration     `yaml:"timeout"`
	Headers    map[string]string `yaml:"headers"`
	Listen     string            `yaml:"listen"`
	SessionTTL time.Duration     `yaml:"session_ttl"`
	LogLevel   string            `yaml:"log_level"`
}

func Default() *Config {
	return &Config{
		Endpoint:   DefaultEndpoint,
		Headers:    map[string]string{},
		Listen:     DefaultListen,
		SessionTTL: DefaultSessionTTL,
		LogLevel:   DefaultLogLevel,
	}
}

// Loader reads configuration. The zero value is not usable, use NewLoader.
type Loader struct {
	useDotEnv bool
	lookupEnv func(string) (string, bool)
}

func NewLoader() *Loader {
	return &Loader{
		useDotEnv: true,
		lookupEnv: os.LookupEnv,
	}
}

// WithDotEnv toggles loading a .env file before reading the environment.
func (l *Loader) WithDotEnv(enabled bool) *Loader {
	l.useDotEnv = enabled
	return l
}

// WithLookupEnv overrides environment lookup (useful for tests).
func (l *Loader) WithLookupEnv(fn func(string) (string, bool)) *Loader {
	if fn != nil {
		l.lookupEnv = fn
	}
	return l
}

// Load builds a Config from defaults, the YAML file at path and the
// environment. A missing file is only an error when path is not the default.
func (l *Loader) Load(path string) (*Config, error) {
	if l.useDotEnv {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			log.Printf("could not load .env: %s", err)
		}
	}

	cfg := Default()
	if path != "" {
		if err := cfg.readFile(path); err != nil {
			if !(os.IsNotExist(err) && path == DefaultPath) {
				return nil, err
			}
		}
	}

	if err := cfg.applyEnv(l.lookupEnv); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("cannot parse %s: %w", path, err)
	}
	if c.Headers == nil {
		c.Headers = map[string]string{}
	}

	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(envPrefix + "ENDPOINT"); ok && v != "" {
		c.Endpoint = v
	}
	if v, ok := lookup(envPrefix + "LISTEN"); ok && v != "" {
		c.Listen = v
	}
	if v, ok := lookup(envPrefix + "LOG_LEVEL"); ok && v != "" {
		c.LogLevel = v
	}
	if v, ok := lookup(envPrefix + "INSECURE"); ok && v != "" {
		insecure, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sINSECURE: %w", envPrefix, err)
		}
		c.Insecure = insecure
	}
	if v, ok := lookup(envPrefix + "TIMEOUT"); ok && v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sTIMEOUT: %w", envPrefix, err)
		}
		c.Timeout = timeout
	}

	return nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Endpoint) == "" {
		return ErrMissingEndpoint
	}
	if !valid.IsRequestURL(c.Endpoint) ||
		!(strings.HasPrefix(c.Endpoint, "http://") || strings.HasPrefix(c.Endpoint, "https://")) {
		return fmt.Errorf("%q: %w", c.Endpoint, ErrInvalidEndpoint)
	}
	if strings.TrimSpace(c.Listen) == "" {
		return ErrMissingListen
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}

	return nil
}

// SlogLevel maps LogLevel onto a slog level.
func (c *Config) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%q: %w", c.LogLevel, ErrInvalidLogLevel)
	}
}
