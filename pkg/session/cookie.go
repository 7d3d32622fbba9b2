package session

import (
	"context"
	"net/http"
)

// CookieProvider validates a cookie-backed server session. When no
// validation route is configured, present and locally valid cookies are
// trusted.
type CookieProvider struct {
	*core
}

// NewCookie returns a cookie-backed provider.
func NewCookie(cfg Config, transport Transport, opts ...Option) *CookieProvider {
	p := &CookieProvider{core: newCore(cfg, transport, opts)}
	p.self = p
	return p
}

func (p *CookieProvider) GetSession(ctx context.Context) (bool, error) {
	return resolveSession(ctx, p.core, routePolicy{requireCookies: true, trustLocal: true})
}

func (p *CookieProvider) Login(ctx context.Context, credentials map[string]any) (User, error) {
	return dispatchAction(ctx, p.core, "login", p.cfg.Login, credentials)
}

func (p *CookieProvider) Signup(ctx context.Context, credentials map[string]any) (User, error) {
	return dispatchAction(ctx, p.core, "signup", p.cfg.Signup, credentials)
}

func (p *CookieProvider) Profile(ctx context.Context, data map[string]any) (User, error) {
	return dispatchAction(ctx, p.core, "profile", p.cfg.Profile, data)
}

func (p *CookieProvider) Logout(ctx context.Context, args map[string]any) error {
	return runLogout(ctx, p.core, p.cfg.Logout, args)
}

// GetAuthHeaders returns no headers; the browser sends the session cookie.
func (p *CookieProvider) GetAuthHeaders(context.Context) (http.Header, error) {
	return nil, nil
}
