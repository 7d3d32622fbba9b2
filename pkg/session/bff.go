package session

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// Token fields lifted out of an accepted user object.
const (
	fieldAccessToken = "access_token"
	fieldTokenType   = "token_type"
	fieldExpiresIn   = "expires_in"
)

// BFFProvider validates a session held by a backend-for-frontend. The refresh
// token lives in an HttpOnly cookie the client cannot inspect, so cookies never
// imply validity and a missing route is always invalid. An access token
// returned by the BFF is kept in memory only.
type BFFProvider struct {
	*core

	mu    sync.RWMutex
	token *oauth2.Token
	now   func() time.Time
}

// NewBFF returns a backend-for-frontend provider.
func NewBFF(cfg Config, transport Transport, opts ...Option) *BFFProvider {
	p := &BFFProvider{core: newCore(cfg, transport, opts), now: time.Now}
	p.self = p
	p.onClear = p.dropToken
	return p
}

func (p *BFFProvider) GetSession(ctx context.Context) (bool, error) {
	return resolveSession(ctx, p.core, routePolicy{trustLocal: false, capture: p.captureToken})
}

func (p *BFFProvider) Login(ctx context.Context, credentials map[string]any) (User, error) {
	return dispatchAction(ctx, p.core, "login", p.cfg.Login, credentials)
}

func (p *BFFProvider) Signup(ctx context.Context, credentials map[string]any) (User, error) {
	return dispatchAction(ctx, p.core, "signup", p.cfg.Signup, credentials)
}

func (p *BFFProvider) Profile(ctx context.Context, data map[string]any) (User, error) {
	return dispatchAction(ctx, p.core, "profile", p.cfg.Profile, data)
}

func (p *BFFProvider) Logout(ctx context.Context, args map[string]any) error {
	return runLogout(ctx, p.core, p.cfg.Logout, args)
}

// GetAuthHeaders returns an Authorization header while the in-memory access
// token is valid, and nil otherwise.
func (p *BFFProvider) GetAuthHeaders(context.Context) (http.Header, error) {
	tok := p.Token()
	if tok == nil {
		return nil, nil
	}
	h := make(http.Header)
	h.Set("Authorization", tok.Type()+" "+tok.AccessToken)
	return h, nil
}

// Token returns a copy of the current access token if it has not expired.
func (p *BFFProvider) Token() *oauth2.Token {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.token == nil || p.token.AccessToken == "" {
		return nil
	}
	if !p.token.Expiry.IsZero() && !p.token.Expiry.After(p.now()) {
		return nil
	}
	tok := *p.token
	return &tok
}

func (p *BFFProvider) dropToken() {
	p.mu.Lock()
	p.token = nil
	p.mu.Unlock()
}

// captureToken moves token fields from u into memory and returns the user
// without them. The original map is not modified.
func (p *BFFProvider) captureToken(u User) User {
	raw, ok := u[fieldAccessToken].(string)
	if !ok || raw == "" {
		p.dropToken()
		return u
	}

	tok := &oauth2.Token{AccessToken: raw}
	if tt, ok := u[fieldTokenType].(string); ok {
		tok.TokenType = tt
	}
	if secs, ok := seconds(u[fieldExpiresIn]); ok {
		tok.Expiry = p.now().Add(time.Duration(secs) * time.Second)
	} else if exp, ok := jwtExpiry(raw); ok {
		tok.Expiry = exp
	}

	p.mu.Lock()
	p.token = tok
	p.mu.Unlock()

	clean := u.Clone()
	delete(clean, fieldAccessToken)
	delete(clean, fieldTokenType)
	delete(clean, fieldExpiresIn)
	return clean
}

// jwtExpiry reads the exp claim without verifying the signature.
func jwtExpiry(raw string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

func seconds(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int:
		return int64(n), true
	case int64:
		return n, true
	default:
		return 0, false
	}
}
