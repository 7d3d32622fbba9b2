package transport

import (
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// Option configures an HTTP transport.
type Option func(*HTTP)

// WithClient sets the underlying client. A client without a jar is copied and
// given one, so the caller's client is never modified.
func WithClient(c *http.Client) Option {
	return func(t *HTTP) {
		if c != nil {
			t.client = c
		}
	}
}

// WithBaseURL sets the URL relative request paths are resolved against.
func WithBaseURL(u *url.URL) Option {
	return func(t *HTTP) {
		t.baseURL = u
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(t *HTTP) {
		t.timeout = d
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(t *HTTP) {
		t.userAgent = ua
	}
}

// WithLogger sets the transport logger. Nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(t *HTTP) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithMaxBodySize limits how much of a response body is read.
func WithMaxBodySize(n int64) Option {
	return func(t *HTTP) {
		if n > 0 {
			t.maxBody = n
		}
	}
}
