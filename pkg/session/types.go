package session

import (
	"context"
	"net/http"

	"github.com/dmitrymomot/clientsession/pkg/cookie"
)

// Kind selects a provider implementation.
type Kind string

const (
	KindCookie Kind = "cookie"
	KindBFF    Kind = "bff"
	KindMock   Kind = "mock"
)

// User is the raw user object as decoded from a server response or set by a
// callback. A nil User means there is no user.
type User map[string]any

// ID returns the "id" field, or nil.
func (u User) ID() any {
	if u == nil {
		return nil
	}
	return u["id"]
}

// Clone returns a shallow copy of u.
func (u User) Clone() User {
	if u == nil {
		return nil
	}
	c := make(User, len(u))
	for k, v := range u {
		c[k] = v
	}
	return c
}

// Provider is the uniform session contract implemented by the cookie, BFF and
// mock providers.
type Provider interface {
	// GetSession determines the current validity and updates the session
	// state as a side effect.
	GetSession(ctx context.Context) (bool, error)
	Login(ctx context.Context, credentials map[string]any) (User, error)
	Signup(ctx context.Context, credentials map[string]any) (User, error)
	Profile(ctx context.Context, data map[string]any) (User, error)
	Logout(ctx context.Context, args map[string]any) error
	// GetUser returns the normalized user, falling back to the configured default.
	GetUser() User
	IsLoggedIn() bool
	GetAuthHeaders(ctx context.Context) (http.Header, error)
	ClearSession()
}

// Controller is the provider as seen by configured callbacks. It adds raw
// state access so callbacks can record the outcome of a login.
type Controller interface {
	Provider
	// User returns the raw, non-normalized user.
	User() User
	// SetSession replaces user and validity together.
	SetSession(user User, validated bool)
}

// ActionContext is passed to every configured callback.
type ActionContext struct {
	Controller Controller
	Options    Config
}

type (
	// NormalizeFunc maps a raw user (possibly nil) to the public user shape.
	NormalizeFunc func(actx ActionContext, raw User) User

	// ClientValidationFunc validates cookies locally. Errors count as failure.
	ClientValidationFunc func(ctx context.Context, actx ActionContext, cookies cookie.Values) (bool, error)

	// FetchFunc builds the validation request. A nil descriptor means there is no route.
	FetchFunc func(actx ActionContext, fetch FetchConfig, cookies cookie.Values, opts Config) *RequestDescriptor

	// RequestFunc replaces the default transport call entirely.
	RequestFunc func(ctx context.Context, actx ActionContext, desc *RequestDescriptor, cookies cookie.Values, opts Config) (*Response, error)

	// ResponseFunc interprets the validation response.
	ResponseFunc func(ctx context.Context, actx ActionContext, res *Response, cookies cookie.Values, opts Config) (Verdict, error)
)

// ClientConfig holds local cookie checks run before any request.
type ClientConfig struct {
	// Cookies must all be present with non-empty values.
	Cookies    []string
	Validation ClientValidationFunc
}

// FetchConfig describes the session validation endpoint.
type FetchConfig struct {
	SessionURL string
	// Method defaults to POST.
	Method string
	Fn     FetchFunc
}

// Config is the per-provider configuration. It is not modified after the
// provider is built.
type Config struct {
	Provider         Kind
	DefaultValidated bool
	DefaultUser      User
	NormalizeUser    NormalizeFunc
	Client           *ClientConfig
	Fetch            FetchConfig
	Request          RequestFunc
	Response         ResponseFunc

	Login   Action
	Signup  Action
	Profile Action
	Logout  Action
}

// Credential modes carried in RequestOptions.
const (
	CredentialsInclude    = "include"
	CredentialsSameOrigin = "same-origin"
	CredentialsOmit       = "omit"
)

// FormatFull asks the transport for the complete response (ok flag and body).
const FormatFull = "full"

// RequestOptions are the per-request transport options.
type RequestOptions struct {
	Credentials string
	Format      string
	Headers     map[string]string
	Body        any
}

// RequestDescriptor is built for a single validation attempt.
type RequestDescriptor struct {
	URL     string
	Method  string
	Options RequestOptions
}

// Response is what a Transport returns. Body is the decoded payload.
type Response struct {
	OK     bool
	Status int
	Header http.Header
	Body   any
}

// BodyMap returns the body as a map when it is a JSON object.
func (r *Response) BodyMap() map[string]any {
	if r == nil {
		return nil
	}
	m, _ := r.Body.(map[string]any)
	return m
}

// Transport is the externally owned HTTP handle. Providers never close it.
type Transport interface {
	Get(ctx context.Context, url string, opts RequestOptions) (*Response, error)
	Post(ctx context.Context, url string, data any, opts RequestOptions) (*Response, error)
}

// Navigator performs redirect actions.
type Navigator interface {
	Navigate(ctx context.Context, url string) error
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(ctx context.Context, url string) error

func (f NavigatorFunc) Navigate(ctx context.Context, url string) error { return f(ctx, url) }
