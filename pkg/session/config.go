package session

import (
	"errors"
	"fmt"
	"os"
)

// EnvConfig holds environment driven provider settings. Values set here
// override the matching fields of ConfigFile.
type EnvConfig struct {
	Provider         string   `env:"SESSION_PROVIDER"`
	SessionURL       string   `env:"SESSION_URL"`
	Method           string   `env:"SESSION_METHOD"`
	Cookies          []string `env:"SESSION_COOKIES" envSeparator:","`
	DefaultValidated bool     `env:"SESSION_DEFAULT_VALIDATED" envDefault:"false"`

	// ConfigFile is an optional YAML or JSON provider configuration.
	ConfigFile string `env:"SESSION_CONFIG_FILE"`
}

// DefaultConfig returns default environment configuration. Provider and
// Method stay empty so they never override ConfigFile; Config falls back to
// the cookie provider and requests default to POST.
func DefaultConfig() EnvConfig {
	return EnvConfig{}
}

// Config builds a provider Config, reading ConfigFile first when set. The
// provider defaults to cookie when neither source names one.
func (e EnvConfig) Config(reg *Registry) (Config, error) {
	var cfg Config
	if e.ConfigFile != "" {
		data, err := os.ReadFile(e.ConfigFile)
		if err != nil {
			return Config{}, errors.Join(ErrInvalidConfig, err)
		}
		if cfg, err = ParseConfig(data, reg); err != nil {
			return Config{}, fmt.Errorf("%s: %w", e.ConfigFile, err)
		}
	}

	if e.Provider != "" {
		cfg.Provider = Kind(e.Provider)
	}
	if cfg.Provider == "" {
		cfg.Provider = KindCookie
	}
	if e.SessionURL != "" {
		cfg.Fetch.SessionURL = e.SessionURL
	}
	if e.Method != "" {
		cfg.Fetch.Method = e.Method
	}
	if len(e.Cookies) > 0 {
		if cfg.Client == nil {
			cfg.Client = &ClientConfig{}
		}
		cfg.Client.Cookies = e.Cookies
	}
	if e.DefaultValidated {
		cfg.DefaultValidated = true
	}

	return cfg, nil
}

// NewFromConfig creates a provider from environment configuration. The
// registry given with WithRegistry resolves names used in ConfigFile.
func NewFromConfig(e EnvConfig, transport Transport, opts ...Option) (Provider, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	cfg, err := e.Config(o.registry)
	if err != nil {
		return nil, err
	}
	return New(cfg, transport, opts...)
}
