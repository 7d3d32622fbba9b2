package cookie

import "errors"

var (
	ErrCookieNotFound = errors.New("cookie.not_found")
	ErrNoJar          = errors.New("cookie.no_jar")
	ErrNoURL          = errors.New("cookie.no_url")
)
