package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/clientsession/pkg/cookie"
	"github.com/dmitrymomot/clientsession/pkg/session"
)

func TestBFFProvider_NoRouteIsInvalid(t *testing.T) {
	t.Parallel()

	src := session.WithCookieSource(cookie.StaticSource("__Host-refresh=opaque"))
	cfg := session.Config{Client: &session.ClientConfig{Cookies: []string{"__Host-refresh"}}}

	cfg.Provider = session.KindBFF
	bff, err := session.New(cfg, nil, src)
	require.NoError(t, err)
	ok, err := bff.GetSession(context.Background())
	require.NoError(t, err)
	assert.False(t, ok, "bff never trusts cookies alone")
	assert.False(t, bff.IsLoggedIn())

	cfg.Provider = session.KindCookie
	ck, err := session.New(cfg, nil, src)
	require.NoError(t, err)
	ok, err = ck.GetSession(context.Background())
	require.NoError(t, err)
	assert.True(t, ok, "cookie provider trusts present cookies")
}

func TestBFFProvider_NoCookieGate(t *testing.T) {
	t.Parallel()

	tr := &MockTransport{}
	tr.On("Post", mock.Anything, "/bff/session", mock.Anything, mock.Anything).
		Return(&session.Response{OK: true, Body: map[string]any{"id": "u1"}}, nil).Once()

	cfg := session.Config{
		Client: &session.ClientConfig{Cookies: []string{"refresh"}},
		Fetch:  session.FetchConfig{SessionURL: "/bff/session"},
	}
	p := session.NewBFF(cfg, tr, session.WithTrustOKResponse())

	ok, err := p.GetSession(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	tr.AssertExpectations(t)
}

func TestBFFProvider_AccessToken(t *testing.T) {
	t.Parallel()

	bffConfig := session.Config{
		Provider: session.KindBFF,
		Fetch:    session.FetchConfig{SessionURL: "/bff/session"},
		Response: func(_ context.Context, _ session.ActionContext, res *session.Response, _ cookie.Values, _ session.Config) (session.Verdict, error) {
			if !res.OK {
				return session.Reject(), nil
			}
			return session.AcceptUser(res.BodyMap()), nil
		},
	}

	respond := func(body map[string]any) *MockTransport {
		tr := &MockTransport{}
		tr.On("Post", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(&session.Response{OK: true, Body: body}, nil)
		return tr
	}

	t.Run("token moved out of user", func(t *testing.T) {
		t.Parallel()
		body := map[string]any{"id": "u1", "access_token": "at-1", "token_type": "Bearer", "expires_in": float64(300)}
		p := session.NewBFF(bffConfig, respond(body))

		ok, err := p.GetSession(context.Background())
		require.NoError(t, err)
		require.True(t, ok)

		assert.Equal(t, session.User{"id": "u1"}, p.User())
		assert.Contains(t, body, "access_token", "response body must not be mutated")

		h, err := p.GetAuthHeaders(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Bearer at-1", h.Get("Authorization"))

		tok := p.Token()
		require.NotNil(t, tok)
		assert.WithinDuration(t, time.Now().Add(300*time.Second), tok.Expiry, 5*time.Second)
	})

	t.Run("expiry from jwt exp claim", func(t *testing.T) {
		t.Parallel()
		exp := time.Now().Add(time.Hour).Truncate(time.Second)
		raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u1", "exp": exp.Unix()}).
			SignedString([]byte("test-secret"))
		require.NoError(t, err)

		p := session.NewBFF(bffConfig, respond(map[string]any{"id": "u1", "access_token": raw}))
		_, err = p.GetSession(context.Background())
		require.NoError(t, err)

		tok := p.Token()
		require.NotNil(t, tok)
		assert.True(t, tok.Expiry.Equal(exp))
	})

	t.Run("expired jwt gives no headers", func(t *testing.T) {
		t.Parallel()
		raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": time.Now().Add(-time.Minute).Unix()}).
			SignedString([]byte("test-secret"))
		require.NoError(t, err)

		p := session.NewBFF(bffConfig, respond(map[string]any{"id": "u1", "access_token": raw}))
		ok, err := p.GetSession(context.Background())
		require.NoError(t, err)
		assert.True(t, ok)

		h, err := p.GetAuthHeaders(context.Background())
		require.NoError(t, err)
		assert.Nil(t, h)
	})

	t.Run("opaque token without expiry stays valid", func(t *testing.T) {
		t.Parallel()
		p := session.NewBFF(bffConfig, respond(map[string]any{"id": "u1", "access_token": "opaque"}))
		_, err := p.GetSession(context.Background())
		require.NoError(t, err)

		h, err := p.GetAuthHeaders(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Bearer opaque", h.Get("Authorization"))
	})

	t.Run("logout drops token", func(t *testing.T) {
		t.Parallel()
		p := session.NewBFF(bffConfig, respond(map[string]any{"id": "u1", "access_token": "at-2"}))
		_, err := p.GetSession(context.Background())
		require.NoError(t, err)
		require.NotNil(t, p.Token())

		require.NoError(t, p.Logout(context.Background(), nil))

		assert.Nil(t, p.Token())
		assert.False(t, p.IsLoggedIn())
		h, err := p.GetAuthHeaders(context.Background())
		require.NoError(t, err)
		assert.Nil(t, h)
	})

	t.Run("rejected response drops token", func(t *testing.T) {
		t.Parallel()
		tr := &MockTransport{}
		tr.On("Post", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(&session.Response{OK: true, Body: map[string]any{"id": "u1", "access_token": "at-3"}}, nil).Once()
		tr.On("Post", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(&session.Response{OK: false, Status: 401}, nil).Once()

		p := session.NewBFF(bffConfig, tr)
		_, err := p.GetSession(context.Background())
		require.NoError(t, err)
		require.NotNil(t, p.Token())

		ok, err := p.GetSession(context.Background())
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, p.Token())
	})
}
