package handshake

import "time"

// Config holds environment driven handshake settings.
type Config struct {
	PollInterval time.Duration `env:"HANDSHAKE_POLL_INTERVAL" envDefault:"500ms"`
	PopupWidth   int           `env:"HANDSHAKE_POPUP_WIDTH" envDefault:"500"`
	PopupHeight  int           `env:"HANDSHAKE_POPUP_HEIGHT" envDefault:"600"`
}

// DefaultConfig returns default handshake configuration.
func DefaultConfig() Config {
	return Config{
		PollInterval: 500 * time.Millisecond,
		PopupWidth:   500,
		PopupHeight:  600,
	}
}

// NewFromConfig creates a Registry from cfg. Options are applied after the
// config values.
func NewFromConfig(cfg Config, host Host, opts ...Option) *Registry {
	configOpts := []Option{
		WithPollInterval(cfg.PollInterval),
		WithPopupSize(cfg.PopupWidth, cfg.PopupHeight),
	}
	return NewRegistry(host, append(configOpts, opts...)...)
}
