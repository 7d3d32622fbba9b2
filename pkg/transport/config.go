package transport

import (
	"fmt"
	"net/url"
	"time"
)

// Config holds environment driven transport settings.
type Config struct {
	// BaseURL resolves relative request URLs such as "/api/auth/me".
	BaseURL string        `env:"TRANSPORT_BASE_URL"`
	Timeout time.Duration `env:"TRANSPORT_TIMEOUT" envDefault:"30s"`
}

// DefaultConfig returns default transport configuration.
func DefaultConfig() Config {
	return Config{Timeout: 30 * time.Second}
}

// NewFromConfig creates an HTTP transport from cfg. Options are applied after
// the config values.
func NewFromConfig(cfg Config, opts ...Option) (*HTTP, error) {
	var configOpts []Option
	if cfg.BaseURL != "" {
		u, err := url.Parse(cfg.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidBaseURL, err)
		}
		if u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("%w: %q must be absolute", ErrInvalidBaseURL, cfg.BaseURL)
		}
		configOpts = append(configOpts, WithBaseURL(u))
	}
	if cfg.Timeout > 0 {
		configOpts = append(configOpts, WithTimeout(cfg.Timeout))
	}

	return New(append(configOpts, opts...)...), nil
}
