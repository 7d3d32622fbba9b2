package session

import (
	"log/slog"

	"github.com/dmitrymomot/clientsession/pkg/cookie"
)

// Option configures a provider.
type Option func(*options)

type options struct {
	logger    *slog.Logger
	navigator Navigator
	cookies   cookie.Source
	registry  *Registry
	trustOK   bool
}

// WithLogger sets the provider logger. Nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithNavigator sets the navigator used by redirect actions.
func WithNavigator(n Navigator) Option {
	return func(o *options) {
		o.navigator = n
	}
}

// WithCookieSource sets where cookies are read from. When unset and the
// transport implements cookie.Source, the transport is used.
func WithCookieSource(src cookie.Source) Option {
	return func(o *options) {
		o.cookies = src
	}
}

// WithRegistry sets the registry used to resolve NamedFunc actions.
func WithRegistry(r *Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

// WithTrustOKResponse makes a successful response count as a valid session
// when no response callback is configured. Without it such a response only
// records the body as user and the session stays invalid.
func WithTrustOKResponse() Option {
	return func(o *options) {
		o.trustOK = true
	}
}
