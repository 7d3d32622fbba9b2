package handshake

import (
	"log/slog"
	"time"
)

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the registry logger. Nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithPollInterval sets how often a pending window is checked for closure.
func WithPollInterval(d time.Duration) Option {
	return func(r *Registry) {
		if d > 0 {
			r.poll = d
		}
	}
}

// WithPopupSize sets the popup window size.
func WithPopupSize(width, height int) Option {
	return func(r *Registry) {
		if width > 0 && height > 0 {
			r.width, r.height = width, height
		}
	}
}

// ActionOption configures an Action.
type ActionOption func(*actionConfig)

type actionConfig struct {
	url string
}

// WithURL overrides the default popup URL. An "url" argument passed to the
// action still takes precedence.
func WithURL(url string) ActionOption {
	return func(c *actionConfig) {
		c.url = url
	}
}
