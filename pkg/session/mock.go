package session

import (
	"context"
	"maps"
	"net/http"
)

// MockProvider keeps the session in memory only. Unconfigured actions get
// working defaults so it can stand in for a real backend during development.
type MockProvider struct {
	*core
}

// NewMock returns an in-memory provider.
func NewMock(cfg Config, opts ...Option) *MockProvider {
	p := &MockProvider{core: newCore(cfg, nil, opts)}
	p.self = p
	return p
}

// GetSession reports whether a user is present. It performs no I/O and does
// not change the state.
func (p *MockProvider) GetSession(context.Context) (bool, error) {
	return p.User() != nil, nil
}

func (p *MockProvider) Login(ctx context.Context, credentials map[string]any) (User, error) {
	if p.cfg.Login.IsZero() {
		return p.mockUser(credentials), nil
	}
	return dispatchAction(ctx, p.core, "login", p.cfg.Login, credentials)
}

func (p *MockProvider) Signup(ctx context.Context, credentials map[string]any) (User, error) {
	if p.cfg.Signup.IsZero() {
		return p.mockUser(credentials), nil
	}
	return dispatchAction(ctx, p.core, "signup", p.cfg.Signup, credentials)
}

// Profile merges data into the current user when unconfigured.
func (p *MockProvider) Profile(ctx context.Context, data map[string]any) (User, error) {
	if !p.cfg.Profile.IsZero() {
		return dispatchAction(ctx, p.core, "profile", p.cfg.Profile, data)
	}

	user, validated := p.state.Snapshot()
	merged := user.Clone()
	if merged == nil {
		merged = make(User, len(data))
	}
	maps.Copy(merged, data)
	p.SetSession(merged, validated)
	return merged, nil
}

func (p *MockProvider) Logout(ctx context.Context, args map[string]any) error {
	if p.cfg.Logout.IsZero() {
		p.ClearSession()
		return nil
	}
	return runLogout(ctx, p.core, p.cfg.Logout, args)
}

// GetAuthHeaders returns a fixed marker header.
func (p *MockProvider) GetAuthHeaders(context.Context) (http.Header, error) {
	return http.Header{"X-Mock-Auth": []string{"enabled"}}, nil
}

func (p *MockProvider) mockUser(credentials map[string]any) User {
	user := User{"id": "mock", "name": "Mock User"}
	maps.Copy(user, credentials)
	p.SetSession(user, true)
	return user
}
