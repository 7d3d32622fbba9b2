package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/clientsession/pkg/cookie"
	"github.com/dmitrymomot/clientsession/pkg/logger"
)

var (
	_ Controller = (*CookieProvider)(nil)
	_ Controller = (*BFFProvider)(nil)
	_ Controller = (*MockProvider)(nil)
)

// core is the state and collaborators shared by every provider variant.
type core struct {
	cfg       Config
	state     *State
	transport Transport
	navigator Navigator
	cookies   cookie.Source
	registry  *Registry
	trustOK   bool
	logger    *slog.Logger

	// self is the enclosing provider, handed to callbacks as Controller.
	self Controller
	// onClear runs after the session is cleared.
	onClear func()
}

func newCore(cfg Config, transport Transport, opts []Option) *core {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = logger.Noop()
	}
	if o.cookies == nil {
		if src, ok := transport.(cookie.Source); ok {
			o.cookies = src
		}
	}

	return &core{
		cfg:       cfg,
		state:     NewState(cfg.DefaultValidated),
		transport: transport,
		navigator: o.navigator,
		cookies:   o.cookies,
		registry:  o.registry,
		trustOK:   o.trustOK,
		logger:    o.logger.With(logger.Component("session"), logger.Provider(string(cfg.Provider))),
	}
}

func (c *core) actionContext() ActionContext {
	return ActionContext{Controller: c.self, Options: c.cfg}
}

// User returns the raw user.
func (c *core) User() User { return c.state.User() }

// SetSession replaces the user and the validity flag together.
func (c *core) SetSession(user User, validated bool) {
	c.state.Set(user, validated)
}

// ClearSession drops the user and marks the session invalid.
func (c *core) ClearSession() {
	c.state.Clear()
	if c.onClear != nil {
		c.onClear()
	}
}

// IsLoggedIn returns the last validity decision.
func (c *core) IsLoggedIn() bool { return c.state.Validated() }

// GetUser pipes the raw user through the normalizer when one is configured,
// otherwise returns the raw user or the default user.
func (c *core) GetUser() User {
	u := c.state.User()
	if c.cfg.NormalizeUser != nil {
		return c.cfg.NormalizeUser(c.actionContext(), u)
	}
	if u != nil {
		return u
	}
	return c.cfg.DefaultUser
}

func (c *core) readCookies(ctx context.Context) (cookie.Values, error) {
	return cookie.Read(ctx, c.cookies)
}

// New builds the provider selected by cfg.Provider. The transport is not
// owned by the provider and may be nil for the mock provider.
func New(cfg Config, transport Transport, opts ...Option) (Provider, error) {
	switch cfg.Provider {
	case KindCookie:
		return NewCookie(cfg, transport, opts...), nil
	case KindBFF:
		return NewBFF(cfg, transport, opts...), nil
	case KindMock:
		return NewMock(cfg, opts...), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}
