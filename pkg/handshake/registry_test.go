package handshake_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/clientsession/pkg/handshake"
	"github.com/dmitrymomot/clientsession/pkg/session"
)

type fakeWindow struct {
	url    string
	name   string
	f      handshake.Features
	closed atomic.Bool
}

func (w *fakeWindow) Closed() bool { return w.closed.Load() }

func (w *fakeWindow) Close() error {
	w.closed.Store(true)
	return nil
}

// fakeHost records opened windows and delivers messages to listeners.
type fakeHost struct {
	mu        sync.Mutex
	blocked   bool
	openErr   error
	windows   []*fakeWindow
	listeners map[int]func(handshake.Message)
	next      int
}

func newFakeHost() *fakeHost {
	return &fakeHost{listeners: make(map[int]func(handshake.Message))}
}

func (h *fakeHost) Open(_ context.Context, url, name string, f handshake.Features) (handshake.Window, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.openErr != nil {
		return nil, h.openErr
	}
	if h.blocked {
		return nil, nil
	}
	w := &fakeWindow{url: url, name: name, f: f}
	h.windows = append(h.windows, w)
	return w, nil
}

func (h *fakeHost) Listen(fn func(handshake.Message)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.next
	h.next++
	h.listeners[id] = fn
	return func() {
		h.mu.Lock()
		delete(h.listeners, id)
		h.mu.Unlock()
	}
}

func (h *fakeHost) Screen() (int, int) { return 1920, 1080 }

func (h *fakeHost) send(m handshake.Message) {
	h.mu.Lock()
	fns := make([]func(handshake.Message), 0, len(h.listeners))
	for _, fn := range h.listeners {
		fns = append(fns, fn)
	}
	h.mu.Unlock()
	for _, fn := range fns {
		fn(m)
	}
}

func (h *fakeHost) listenerCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.listeners)
}

func (h *fakeHost) window(i int) *fakeWindow {
	h.mu.Lock()
	defer h.mu.Unlock()
	if i >= len(h.windows) {
		return nil
	}
	return h.windows[i]
}

func (h *fakeHost) windowCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.windows)
}

type result struct {
	user session.User
	err  error
}

func startAsync(ctx context.Context, reg *handshake.Registry, kind handshake.Kind, ctrl session.Controller, url string) <-chan result {
	ch := make(chan result, 1)
	go func() {
		u, err := reg.Start(ctx, kind, ctrl, url)
		ch <- result{u, err}
	}()
	return ch
}

func waitResult(t *testing.T, ch <-chan result) result {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("handshake did not finish")
		return result{}
	}
}

func newRegistry(host handshake.Host) *handshake.Registry {
	return handshake.NewRegistry(host, handshake.WithPollInterval(5*time.Millisecond))
}

func TestStart_Success(t *testing.T) {
	t.Parallel()

	host := newFakeHost()
	reg := newRegistry(host)
	ctrl := session.NewMock(session.Config{})

	ch := startAsync(context.Background(), reg, handshake.KindLogin, ctrl, "")
	require.Eventually(t, func() bool { return host.listenerCount() == 1 }, time.Second, time.Millisecond)

	w := host.window(0)
	assert.Equal(t, "/login.html", w.url)
	assert.Equal(t, "LoginPopup", w.name)
	assert.Equal(t, handshake.Features{Width: 500, Height: 600, Left: 710, Top: 240}, w.f)

	host.send(handshake.Message{Type: "signupSuccess", User: session.User{"id": "wrong"}})
	host.send(handshake.Message{Type: "ping"})
	host.send(handshake.Message{Type: "loginSuccess", User: session.User{"id": "u1"}})

	res := waitResult(t, ch)
	require.NoError(t, res.err)
	assert.Equal(t, session.User{"id": "u1"}, res.user)
	assert.True(t, ctrl.IsLoggedIn())
	assert.Equal(t, session.User{"id": "u1"}, ctrl.User())

	assert.True(t, w.Closed())
	assert.Zero(t, host.listenerCount())
	assert.Zero(t, reg.Len())
}

func TestStart_SuccessThenSelfClose(t *testing.T) {
	t.Parallel()

	for i := 0; i < 20; i++ {
		host := newFakeHost()
		reg := newRegistry(host)
		ctrl := session.NewMock(session.Config{})

		ch := startAsync(context.Background(), reg, handshake.KindLogin, ctrl, "")
		require.Eventually(t, func() bool { return host.listenerCount() == 1 }, time.Second, time.Millisecond)

		host.send(handshake.Message{Type: "loginSuccess", User: session.User{"id": "u1"}})
		_ = host.window(0).Close()

		res := waitResult(t, ch)
		require.NoError(t, res.err)
		assert.Equal(t, session.User{"id": "u1"}, res.user)
		assert.True(t, ctrl.IsLoggedIn())
	}
}

func TestStart_IgnoresSuccessWithoutUser(t *testing.T) {
	t.Parallel()

	host := newFakeHost()
	reg := newRegistry(host)
	ctrl := session.NewMock(session.Config{})

	ch := startAsync(context.Background(), reg, handshake.KindLogin, ctrl, "")
	require.Eventually(t, func() bool { return host.listenerCount() == 1 }, time.Second, time.Millisecond)

	host.send(handshake.Message{Type: "loginSuccess"})
	_ = host.window(0).Close()

	res := waitResult(t, ch)
	assert.ErrorIs(t, res.err, handshake.ErrCancelled)
	assert.Nil(t, res.user)
	assert.False(t, ctrl.IsLoggedIn())
}

func TestStart_PopupBlocked(t *testing.T) {
	t.Parallel()

	t.Run("nil window", func(t *testing.T) {
		t.Parallel()
		host := newFakeHost()
		host.blocked = true
		reg := newRegistry(host)

		_, err := reg.Start(context.Background(), handshake.KindSignup, session.NewMock(session.Config{}), "")
		assert.ErrorIs(t, err, handshake.ErrPopupBlocked)
		assert.Zero(t, reg.Len())
		assert.Zero(t, host.listenerCount())
	})

	t.Run("open error", func(t *testing.T) {
		t.Parallel()
		host := newFakeHost()
		host.openErr = errors.New("no display")
		reg := newRegistry(host)

		_, err := reg.Start(context.Background(), handshake.KindLogin, session.NewMock(session.Config{}), "")
		assert.ErrorIs(t, err, handshake.ErrPopupBlocked)
		assert.ErrorContains(t, err, "no display")
	})
}

func TestStart_WindowClosed(t *testing.T) {
	t.Parallel()

	t.Run("login is cancelled", func(t *testing.T) {
		t.Parallel()
		host := newFakeHost()
		reg := newRegistry(host)
		ctrl := session.NewMock(session.Config{})

		ch := startAsync(context.Background(), reg, handshake.KindLogin, ctrl, "")
		require.Eventually(t, func() bool { return host.listenerCount() == 1 }, time.Second, time.Millisecond)

		_ = host.window(0).Close()

		res := waitResult(t, ch)
		assert.ErrorIs(t, res.err, handshake.ErrCancelled)
		assert.False(t, ctrl.IsLoggedIn())
		assert.Zero(t, host.listenerCount())
		assert.Zero(t, reg.Len())
	})

	t.Run("profile refreshes session", func(t *testing.T) {
		t.Parallel()
		host := newFakeHost()
		reg := newRegistry(host)
		ctrl := session.NewMock(session.Config{})
		ctrl.SetSession(session.User{"id": "u1", "name": "Ann"}, true)

		ch := startAsync(context.Background(), reg, handshake.KindProfile, ctrl, "/account")
		require.Eventually(t, func() bool { return host.listenerCount() == 1 }, time.Second, time.Millisecond)
		assert.Equal(t, "/account", host.window(0).url)
		assert.Equal(t, "ProfilePopup", host.window(0).name)

		// The profile page updated the server-side user before closing.
		ctrl.SetSession(session.User{"id": "u1", "name": "Annie"}, true)
		_ = host.window(0).Close()

		res := waitResult(t, ch)
		require.NoError(t, res.err)
		assert.Equal(t, session.User{"id": "u1", "name": "Annie"}, res.user)
		assert.Zero(t, host.listenerCount())
	})
}

func TestStart_Preemption(t *testing.T) {
	t.Parallel()

	host := newFakeHost()
	reg := newRegistry(host)
	ctrl := session.NewMock(session.Config{})

	first := startAsync(context.Background(), reg, handshake.KindLogin, ctrl, "")
	require.Eventually(t, func() bool { return host.listenerCount() == 1 }, time.Second, time.Millisecond)
	firstID, ok := reg.Active(handshake.KindLogin)
	require.True(t, ok)

	second := startAsync(context.Background(), reg, handshake.KindLogin, ctrl, "")

	res := waitResult(t, first)
	assert.ErrorIs(t, res.err, handshake.ErrPreempted)
	assert.True(t, host.window(0).Closed())

	require.Eventually(t, func() bool { return host.windowCount() == 2 && host.listenerCount() == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, 1, reg.Len())
	secondID, ok := reg.Active(handshake.KindLogin)
	require.True(t, ok)
	assert.NotEqual(t, firstID, secondID)

	host.send(handshake.Message{Type: "loginSuccess", User: session.User{"id": "u2"}})
	res = waitResult(t, second)
	require.NoError(t, res.err)
	assert.Equal(t, "u2", res.user.ID())
	assert.Zero(t, host.listenerCount())
	assert.Zero(t, reg.Len())
}

func TestStart_KindsAreIndependent(t *testing.T) {
	t.Parallel()

	host := newFakeHost()
	reg := newRegistry(host)
	ctrl := session.NewMock(session.Config{})

	login := startAsync(context.Background(), reg, handshake.KindLogin, ctrl, "")
	signup := startAsync(context.Background(), reg, handshake.KindSignup, ctrl, "")
	require.Eventually(t, func() bool { return host.listenerCount() == 2 }, time.Second, time.Millisecond)
	assert.Equal(t, 2, reg.Len())

	host.send(handshake.Message{Type: "signupSuccess", User: session.User{"id": "new"}})
	res := waitResult(t, signup)
	require.NoError(t, res.err)

	_, ok := reg.Active(handshake.KindLogin)
	assert.True(t, ok)

	assert.True(t, reg.Cancel(handshake.KindLogin))
	res = waitResult(t, login)
	assert.ErrorIs(t, res.err, handshake.ErrCancelled)
	assert.False(t, reg.Cancel(handshake.KindLogin))
	assert.Zero(t, host.listenerCount())
}

func TestStart_ContextCancelled(t *testing.T) {
	t.Parallel()

	host := newFakeHost()
	reg := newRegistry(host)
	ctx, cancel := context.WithCancel(context.Background())

	ch := startAsync(ctx, reg, handshake.KindLogin, session.NewMock(session.Config{}), "")
	require.Eventually(t, func() bool { return host.listenerCount() == 1 }, time.Second, time.Millisecond)

	cancel()

	res := waitResult(t, ch)
	assert.ErrorIs(t, res.err, context.Canceled)
	assert.True(t, host.window(0).Closed())
	assert.Zero(t, host.listenerCount())
	assert.Zero(t, reg.Len())
}

func TestStart_NoController(t *testing.T) {
	t.Parallel()
	_, err := newRegistry(newFakeHost()).Start(context.Background(), handshake.KindLogin, nil, "")
	assert.ErrorIs(t, err, handshake.ErrNoController)
}

func TestAction(t *testing.T) {
	t.Parallel()

	host := newFakeHost()
	reg := newRegistry(host)

	p := session.NewCookie(session.Config{
		Login: handshake.Action(handshake.KindLogin, reg, handshake.WithURL("/auth/popup")),
		NormalizeUser: func(_ session.ActionContext, raw session.User) session.User {
			if raw == nil {
				return nil
			}
			return session.User{"id": raw["id"], "name": raw["displayname"]}
		},
	}, nil)

	type loginResult struct {
		user session.User
		err  error
	}
	ch := make(chan loginResult, 1)
	go func() {
		u, err := p.Login(context.Background(), map[string]any{"url": "/login.html?next=/app"})
		ch <- loginResult{u, err}
	}()

	require.Eventually(t, func() bool { return host.listenerCount() == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, "/login.html?next=/app", host.window(0).url)

	host.send(handshake.Message{Type: "loginSuccess", User: session.User{"id": "u1", "displayname": "Ann"}})

	select {
	case res := <-ch:
		require.NoError(t, res.err)
		assert.Equal(t, session.User{"id": "u1", "displayname": "Ann"}, res.user)
	case <-time.After(2 * time.Second):
		t.Fatal("login did not finish")
	}
	assert.True(t, p.IsLoggedIn())
	assert.Equal(t, session.User{"id": "u1", "name": "Ann"}, p.GetUser())
}

func TestAction_PopupBlockedSurfacesAsLoginError(t *testing.T) {
	t.Parallel()

	host := newFakeHost()
	host.blocked = true
	p := session.NewMock(session.Config{Login: handshake.Action(handshake.KindLogin, newRegistry(host))})

	_, err := p.Login(context.Background(), nil)
	assert.ErrorIs(t, err, handshake.ErrPopupBlocked)
	assert.ErrorContains(t, err, "login:")
	assert.False(t, p.IsLoggedIn())
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	host := newFakeHost()
	reg := handshake.NewFromConfig(handshake.Config{PollInterval: 5 * time.Millisecond, PopupWidth: 400, PopupHeight: 300}, host)

	ch := startAsync(context.Background(), reg, handshake.KindLogin, session.NewMock(session.Config{}), "")
	require.Eventually(t, func() bool { return host.listenerCount() == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, handshake.Features{Width: 400, Height: 300, Left: 760, Top: 390}, host.window(0).f)
	assert.Equal(t, "width=400,height=300,top=390,left=760", host.window(0).f.String())

	_ = host.window(0).Close()
	assert.ErrorIs(t, waitResult(t, ch).err, handshake.ErrCancelled)
}
