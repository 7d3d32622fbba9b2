package session

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrymomot/clientsession/pkg/cookie"
	"github.com/dmitrymomot/clientsession/pkg/logger"
)

// routePolicy captures where the cookie and BFF providers differ.
type routePolicy struct {
	// requireCookies enables the client.cookies presence gate.
	requireCookies bool
	// trustLocal is the result when neither a descriptor nor a request
	// override exists.
	trustLocal bool
	// capture post-processes a user accepted from the server.
	capture func(User) User
}

// resolveSession runs the local checks, builds the request descriptor and
// validates against the server when a route exists.
func resolveSession(ctx context.Context, c *core, p routePolicy) (bool, error) {
	values, err := c.readCookies(ctx)
	if err != nil {
		c.logger.WarnContext(ctx, "failed to read cookies", logger.Error(err))
		c.ClearSession()
		return false, fmt.Errorf("session: read cookies: %w", err)
	}

	actx := c.actionContext()

	if p.requireCookies && !requiredCookiesPresent(c.cfg.Client, values) {
		c.logger.DebugContext(ctx, "required cookies missing")
		c.ClearSession()
		return false, nil
	}

	if !clientValidation(ctx, c, actx, values) {
		c.logger.DebugContext(ctx, "client validation failed")
		c.ClearSession()
		return false, nil
	}

	desc := buildDescriptor(c.cfg, actx, values)
	if desc == nil && c.cfg.Request == nil {
		c.SetSession(nil, p.trustLocal)
		return p.trustLocal, nil
	}

	return validateWithServer(ctx, c, actx, desc, values, p.capture)
}

func requiredCookiesPresent(client *ClientConfig, values cookie.Values) bool {
	if client == nil || len(client.Cookies) == 0 {
		return true
	}
	return values.HasValue(client.Cookies...)
}

// clientValidation is fail-closed: errors and panics count as failure.
func clientValidation(ctx context.Context, c *core, actx ActionContext, values cookie.Values) (ok bool) {
	if c.cfg.Client == nil || c.cfg.Client.Validation == nil {
		return true
	}

	defer func() {
		if r := recover(); r != nil {
			c.logger.ErrorContext(ctx, "client validation panicked", "panic", r)
			ok = false
		}
	}()

	ok, err := c.cfg.Client.Validation(ctx, actx, values.Clone())
	if err != nil {
		c.logger.WarnContext(ctx, "client validation error", logger.Error(err))
		return false
	}
	return ok
}

// buildDescriptor returns the configured or auto-generated descriptor, or nil
// when there is no validation route.
func buildDescriptor(cfg Config, actx ActionContext, values cookie.Values) *RequestDescriptor {
	if cfg.Fetch.Fn != nil {
		return cfg.Fetch.Fn(actx, cfg.Fetch, values.Clone(), cfg)
	}
	return autoDescriptor(cfg.Fetch.SessionURL, cfg.Fetch.Method)
}

func autoDescriptor(url, method string) *RequestDescriptor {
	if url == "" {
		return nil
	}

	m := strings.ToUpper(method)
	if m == "" {
		m = http.MethodPost
	}

	desc := &RequestDescriptor{
		URL:    url,
		Method: m,
		Options: RequestOptions{
			Credentials: CredentialsInclude,
			Format:      FormatFull,
		},
	}
	if m == http.MethodPost {
		desc.Options.Headers = map[string]string{"Content-Type": "application/json"}
		desc.Options.Body = map[string]any{}
	}
	return desc
}

// validateWithServer executes the request and records the verdict in the
// provider state. Transport failures are returned wrapped in ErrTransportFailed;
// response callback failures are logged and only mark the session invalid.
func validateWithServer(ctx context.Context, c *core, actx ActionContext, desc *RequestDescriptor, values cookie.Values, capture func(User) User) (bool, error) {
	if capture == nil {
		capture = func(u User) User { return u }
	}

	res, err := execute(ctx, c, actx, desc, values)
	if err != nil {
		c.logger.WarnContext(ctx, "session request failed", logger.Error(err))
		c.ClearSession()
		return false, fmt.Errorf("%w: %w", ErrTransportFailed, err)
	}

	if c.cfg.Response != nil {
		verdict, err := interpret(ctx, c, actx, res, values)
		if err != nil {
			c.logger.ErrorContext(ctx, "response callback failed", logger.Error(err))
			c.ClearSession()
			return false, nil
		}
		if !verdict.Valid() {
			c.ClearSession()
			c.logger.DebugContext(ctx, "session rejected by server", logger.Validated(false))
			return false, nil
		}
		c.SetSession(capture(verdict.User()), true)
		c.logger.DebugContext(ctx, "session validated", logger.Validated(true), logger.UserID(verdict.User().ID()))
		return true, nil
	}

	if res == nil || !res.OK {
		c.ClearSession()
		return false, nil
	}

	user := capture(asUser(res.Body))
	// Without a response callback an OK body is recorded but not trusted.
	c.SetSession(user, c.trustOK)
	c.logger.DebugContext(ctx, "session body recorded", logger.Validated(c.trustOK))
	return c.trustOK, nil
}

func execute(ctx context.Context, c *core, actx ActionContext, desc *RequestDescriptor, values cookie.Values) (*Response, error) {
	if c.cfg.Request != nil {
		return c.cfg.Request(ctx, actx, desc, values.Clone(), c.cfg)
	}
	if c.transport == nil {
		return nil, ErrNoTransport
	}

	log := c.logger.With(logger.Method(desc.Method), logger.URL(desc.URL))
	log.DebugContext(ctx, "validating session with server")

	if desc.Method == http.MethodPost {
		return c.transport.Post(ctx, desc.URL, desc.Options.Body, desc.Options)
	}
	return c.transport.Get(ctx, desc.URL, desc.Options)
}

func interpret(ctx context.Context, c *core, actx ActionContext, res *Response, values cookie.Values) (v Verdict, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("response callback panicked: %v", r)
		}
	}()
	return c.cfg.Response(ctx, actx, res, values.Clone(), c.cfg)
}
