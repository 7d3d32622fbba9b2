package cookie

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// Source yields the host's ambient cookie string.
type Source interface {
	Cookies(ctx context.Context) (string, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context) (string, error)

// Cookies implements Source.
func (f SourceFunc) Cookies(ctx context.Context) (string, error) {
	return f(ctx)
}

// StaticSource always returns the same cookie string.
type StaticSource string

// Cookies implements Source.
func (s StaticSource) Cookies(context.Context) (string, error) {
	return string(s), nil
}

// jarSource serializes the cookies a jar would send to a URL.
type jarSource struct {
	jar http.CookieJar
	u   *url.URL
}

// JarSource returns a Source backed by an http.CookieJar. The jar is queried
// for the cookies it would attach to a request for u.
func JarSource(jar http.CookieJar, u *url.URL) Source {
	return &jarSource{jar: jar, u: u}
}

// Cookies implements Source.
func (s *jarSource) Cookies(context.Context) (string, error) {
	if s.jar == nil {
		return "", ErrNoJar
	}
	if s.u == nil {
		return "", ErrNoURL
	}

	cookies := s.jar.Cookies(s.u)
	parts := make([]string, 0, len(cookies))
	for _, c := range cookies {
		parts = append(parts, c.Name+pairSeparator+c.Value)
	}
	return strings.Join(parts, entrySeparator), nil
}

// Read fetches the raw cookie string from src and parses it.
// A nil source yields empty Values.
func Read(ctx context.Context, src Source) (Values, error) {
	if src == nil {
		return make(Values), nil
	}

	raw, err := src.Cookies(ctx)
	if err != nil {
		return make(Values), err
	}
	return Parse(raw), nil
}
