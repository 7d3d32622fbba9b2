package transport_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// authBackend mimics a PHP session backend with login, logout and "who am I"
// endpoints.
type authBackend struct {
	mu       sync.Mutex
	sessions map[string]map[string]any
	meCalls  int
}

func newAuthBackend(t *testing.T) (*authBackend, *httptest.Server) {
	t.Helper()

	b := &authBackend{sessions: make(map[string]map[string]any)}

	r := chi.NewRouter()
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/login.php", b.login)
		r.Post("/logout.php", b.logout)
		r.Get("/me.php", b.me)
	})
	r.Get("/echo", echo)
	r.Post("/echo", echo)
	r.Get("/text", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = io.WriteString(w, "pong")
	})
	r.Get("/empty", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Get("/slow", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return b, srv
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (b *authBackend) login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Username != "ann" || in.Password != "secret" {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"ok": false, "error": "Invalid credentials"})
		return
	}

	sid := uuid.NewString()
	user := map[string]any{"id": "u1", "username": "ann", "displayname": "Ann", "roles": []string{"admin"}}

	b.mu.Lock()
	b.sessions[sid] = user
	b.mu.Unlock()

	http.SetCookie(w, &http.Cookie{Name: "PHPSESSID", Value: sid, Path: "/", HttpOnly: true})
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "user": user})
}

func (b *authBackend) logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie("PHPSESSID"); err == nil {
		b.mu.Lock()
		delete(b.sessions, c.Value)
		b.mu.Unlock()
	}
	http.SetCookie(w, &http.Cookie{Name: "PHPSESSID", Value: "", Path: "/", MaxAge: -1})
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "message": "Logged out"})
}

func (b *authBackend) me(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.meCalls++

	c, err := r.Cookie("PHPSESSID")
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"ok": false, "error": "Not authenticated"})
		return
	}
	user, ok := b.sessions[c.Value]
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"ok": false, "error": "Not authenticated"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "user": user})
}

func (b *authBackend) calls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.meCalls
}

// echo reports what the server received.
func echo(w http.ResponseWriter, r *http.Request) {
	var body any
	_ = json.NewDecoder(r.Body).Decode(&body)

	cookies := map[string]string{}
	for _, c := range r.Cookies() {
		cookies[c.Name] = c.Value
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"method":       r.Method,
		"content_type": r.Header.Get("Content-Type"),
		"x_custom":     r.Header.Get("X-Custom"),
		"cookies":      cookies,
		"body":         body,
	})
}
