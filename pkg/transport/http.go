package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/hashicorp/go-cleanhttp"

	"github.com/dmitrymomot/clientsession/pkg/cookie"
	"github.com/dmitrymomot/clientsession/pkg/logger"
	"github.com/dmitrymomot/clientsession/pkg/session"
)

const defaultMaxBody = 1 << 20

var (
	_ session.Transport = (*HTTP)(nil)
	_ cookie.Source     = (*HTTP)(nil)
)

// HTTP is a session.Transport backed by net/http with a cookie jar, so it
// behaves like a browser talking to a single backend.
type HTTP struct {
	client    *http.Client
	baseURL   *url.URL
	timeout   time.Duration
	userAgent string
	maxBody   int64
	logger    *slog.Logger
}

// New creates an HTTP transport. The default client is a pooled client from
// go-cleanhttp with an in-memory cookie jar.
func New(opts ...Option) *HTTP {
	t := &HTTP{
		timeout:   30 * time.Second,
		userAgent: "clientsession/1.0",
		maxBody:   defaultMaxBody,
	}
	for _, opt := range opts {
		opt(t)
	}

	if t.client == nil {
		t.client = cleanhttp.DefaultPooledClient()
	}
	if t.client.Jar == nil {
		c := *t.client
		// cookiejar.New only fails on a broken PublicSuffixList.
		c.Jar, _ = cookiejar.New(nil)
		t.client = &c
	}
	if t.logger == nil {
		t.logger = logger.Noop()
	}
	t.logger = t.logger.With(logger.Component("transport"))

	return t
}

// Jar returns the cookie jar shared by all requests.
func (t *HTTP) Jar() http.CookieJar { return t.client.Jar }

// SetCookies stores cookies for the base URL, as if the backend had set them.
func (t *HTTP) SetCookies(cookies ...*http.Cookie) error {
	if t.baseURL == nil {
		return fmt.Errorf("%w: base URL is required", ErrInvalidBaseURL)
	}
	t.client.Jar.SetCookies(t.baseURL, cookies)
	return nil
}

// Cookies serializes the cookies the jar holds for the base URL. It lets a
// cookie provider inspect exactly what the transport will send.
func (t *HTTP) Cookies(ctx context.Context) (string, error) {
	if t.baseURL == nil {
		return "", nil
	}
	return cookie.JarSource(t.client.Jar, t.baseURL).Cookies(ctx)
}

// Get performs a GET request.
func (t *HTTP) Get(ctx context.Context, rawURL string, opts session.RequestOptions) (*session.Response, error) {
	return t.do(ctx, http.MethodGet, rawURL, nil, opts)
}

// Post performs a POST request with data encoded as JSON. A nil data falls
// back to opts.Body.
func (t *HTTP) Post(ctx context.Context, rawURL string, data any, opts session.RequestOptions) (*session.Response, error) {
	if data == nil {
		data = opts.Body
	}

	var body []byte
	if data != nil {
		var err error
		if body, err = json.Marshal(data); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrEncodeBody, err)
		}
	}
	return t.do(ctx, http.MethodPost, rawURL, body, opts)
}

func (t *HTTP) do(ctx context.Context, method, rawURL string, body []byte, opts session.RequestOptions) (*session.Response, error) {
	target, err := t.resolve(rawURL)
	if err != nil {
		return nil, err
	}

	reqCtx := ctx
	if t.timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(reqCtx, method, target.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", t.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := t.clientFor(target, opts.Credentials).Do(req)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, fmt.Errorf("%w: %w", ErrTimeout, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, t.maxBody))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrRequestFailed, err)
	}

	t.logger.DebugContext(ctx, "request completed",
		logger.Method(method),
		logger.URL(target.String()),
		logger.Status(resp.StatusCode),
		logger.Duration(time.Since(start)),
	)

	return &session.Response{
		OK:     resp.StatusCode >= 200 && resp.StatusCode < 300,
		Status: resp.StatusCode,
		Header: resp.Header,
		Body:   decodeBody(raw),
	}, nil
}

func (t *HTTP) resolve(rawURL string) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	if t.baseURL != nil {
		u = t.baseURL.ResolveReference(u)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q is relative and no base URL is set", ErrInvalidURL, rawURL)
	}
	return u, nil
}

// clientFor honors the credentials mode: "omit" never sends or stores jar
// cookies, "same-origin" only does so for the base URL's host.
func (t *HTTP) clientFor(target *url.URL, credentials string) *http.Client {
	switch credentials {
	case session.CredentialsOmit:
	case session.CredentialsSameOrigin:
		if t.baseURL == nil || sameOrigin(t.baseURL, target) {
			return t.client
		}
	default:
		return t.client
	}
	c := *t.client
	c.Jar = nil
	return &c
}

func sameOrigin(a, b *url.URL) bool {
	return a.Scheme == b.Scheme && a.Host == b.Host
}

// decodeBody returns decoded JSON when possible, the raw text otherwise, and
// nil for an empty body.
func decodeBody(raw []byte) any {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	return v
}
