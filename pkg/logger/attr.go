package logger

import "log/slog"

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Provider records the session provider kind under the key "provider".
func Provider(kind string) slog.Attr {
	return slog.String("provider", kind)
}

// Action records a session action (login, signup, profile, logout).
func Action(name string) slog.Attr {
	return slog.String("action", name)
}

// HandshakeID records a popup handshake attempt identifier.
func HandshakeID(id string) slog.Attr {
	return slog.String("handshake_id", id)
}

// URL records a target URL under the key "url".
func URL(u string) slog.Attr {
	return slog.String("url", u)
}

// Method records an HTTP method under the key "method".
func Method(m string) slog.Attr {
	return slog.String("method", m)
}

// Status records an HTTP status code under the key "status".
func Status(code int) slog.Attr {
	return slog.Int("status", code)
}

// Validated records the session validity flag.
func Validated(ok bool) slog.Attr {
	return slog.Bool("validated", ok)
}

// UserID records the user identifier under the key "user_id".
// If id is nil, it returns an empty Attr.
func UserID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("user_id", id)
}

// Duration records a duration under the key "duration".
func Duration(d any) slog.Attr {
	return slog.Any("duration", d)
}
