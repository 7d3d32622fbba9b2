package handshake

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/clientsession/pkg/logger"
	"github.com/dmitrymomot/clientsession/pkg/session"
)

// Registry tracks at most one pending handshake per kind. Starting a new
// attempt of a kind tears down and replaces the previous one.
type Registry struct {
	host   Host
	poll   time.Duration
	width  int
	height int
	logger *slog.Logger

	mu     sync.Mutex
	active map[Kind]*attempt
}

// NewRegistry creates a registry opening popups through host.
func NewRegistry(host Host, opts ...Option) *Registry {
	r := &Registry{
		host:   host,
		poll:   500 * time.Millisecond,
		width:  500,
		height: 600,
		active: make(map[Kind]*attempt),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logger.Noop()
	}
	r.logger = r.logger.With(logger.Component("handshake"))
	return r
}

// attempt owns the window and listener of one handshake.
type attempt struct {
	id   string
	kind Kind

	mu       sync.Mutex
	window   Window
	remove   func()
	finished bool

	done   chan struct{}
	once   sync.Once
	reason error
}

func newAttempt(kind Kind) *attempt {
	return &attempt{id: uuid.NewString(), kind: kind, done: make(chan struct{})}
}

// attach records resources acquired after the attempt started. If the
// attempt was already stopped they are released immediately.
func (a *attempt) attach(w Window, remove func()) {
	a.mu.Lock()
	finished := a.finished
	if !finished {
		if w != nil {
			a.window = w
		}
		if remove != nil {
			a.remove = remove
		}
	}
	a.mu.Unlock()

	if finished {
		if remove != nil {
			remove()
		}
		if w != nil && !w.Closed() {
			_ = w.Close()
		}
	}
}

// teardown removes the listener and closes the window if still open. Safe to
// call more than once.
func (a *attempt) teardown() {
	a.mu.Lock()
	if a.finished {
		a.mu.Unlock()
		return
	}
	a.finished = true
	w, remove := a.window, a.remove
	a.window, a.remove = nil, nil
	a.mu.Unlock()

	if remove != nil {
		remove()
	}
	if w != nil && !w.Closed() {
		_ = w.Close()
	}
}

// stop tears the attempt down and wakes its loop with reason.
func (a *attempt) stop(reason error) {
	a.teardown()
	a.once.Do(func() {
		a.reason = reason
		close(a.done)
	})
}

// Start runs a popup handshake for kind and blocks until it completes.
// On a success message the user is stored through ctrl. Closing the window
// cancels a login or signup; for a profile it re-fetches the session and
// returns the refreshed user.
func (r *Registry) Start(ctx context.Context, kind Kind, ctrl session.Controller, url string) (session.User, error) {
	if ctrl == nil {
		return nil, ErrNoController
	}
	if url == "" {
		url = kind.defaultURL()
	}

	a := newAttempt(kind)
	log := r.logger.With(logger.Action(string(kind)), logger.HandshakeID(a.id))

	r.mu.Lock()
	prev := r.active[kind]
	r.active[kind] = a
	r.mu.Unlock()

	if prev != nil {
		log.DebugContext(ctx, "preempting pending handshake", slog.String("previous_id", prev.id))
		prev.stop(ErrPreempted)
	}

	sw, sh := r.host.Screen()
	features := centered(r.width, r.height, sw, sh)

	w, err := r.host.Open(ctx, url, kind.windowName(), features)
	if err != nil || w == nil {
		r.finish(a)
		log.WarnContext(ctx, "popup blocked", logger.URL(url), logger.Error(err))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrPopupBlocked, err)
		}
		return nil, ErrPopupBlocked
	}

	success := make(chan Message, 1)
	want := kind.SuccessType()
	remove := r.host.Listen(func(m Message) {
		if m.Type != want || m.User == nil {
			return
		}
		select {
		case success <- m:
		default:
		}
	})
	a.attach(w, remove)

	log.DebugContext(ctx, "handshake pending", logger.URL(url))

	complete := func(m Message) session.User {
		r.finish(a)
		ctrl.SetSession(m.User, true)
		log.InfoContext(ctx, "handshake completed", logger.UserID(m.User.ID()))
		return m.User
	}

	ticker := time.NewTicker(r.poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.finish(a)
			return nil, ctx.Err()

		case <-a.done:
			return nil, a.reason

		case m := <-success:
			return complete(m), nil

		case <-ticker.C:
			if !w.Closed() {
				continue
			}
			// A popup may post its result and close itself within one tick.
			select {
			case m := <-success:
				return complete(m), nil
			default:
			}
			r.finish(a)
			if kind != KindProfile {
				log.DebugContext(ctx, "popup closed before completion")
				return nil, ErrCancelled
			}
			if _, err := ctrl.GetSession(ctx); err != nil {
				return nil, fmt.Errorf("profile refresh: %w", err)
			}
			return ctrl.GetUser(), nil
		}
	}
}

// finish tears the attempt down and forgets it unless it was already replaced.
func (r *Registry) finish(a *attempt) {
	a.teardown()
	r.mu.Lock()
	if r.active[a.kind] == a {
		delete(r.active, a.kind)
	}
	r.mu.Unlock()
}

// Active returns the id of the pending attempt for kind.
func (r *Registry) Active(kind Kind) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.active[kind]
	if !ok {
		return "", false
	}
	return a.id, true
}

// Cancel stops the pending attempt for kind. Its Start returns ErrCancelled.
func (r *Registry) Cancel(kind Kind) bool {
	r.mu.Lock()
	a, ok := r.active[kind]
	if ok {
		delete(r.active, kind)
	}
	r.mu.Unlock()

	if ok {
		a.stop(ErrCancelled)
	}
	return ok
}

// Len returns the number of pending attempts.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.active)
}

// Action returns a session action that runs a handshake of kind. The popup URL
// is taken from the "url" argument, then WithURL, then the kind's default.
func Action(kind Kind, r *Registry, opts ...ActionOption) session.Action {
	cfg := &actionConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	fn := func(ctx context.Context, actx session.ActionContext, args map[string]any) (any, error) {
		url := cfg.url
		if u, ok := args["url"].(string); ok && u != "" {
			url = u
		}
		u, err := r.Start(ctx, kind, actx.Controller, url)
		if err != nil {
			return nil, err
		}
		return u, nil
	}
	return session.Func(fn, nil)
}
