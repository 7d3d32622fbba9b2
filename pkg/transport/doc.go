// Package transport provides the default session.Transport: a JSON-over-HTTP
// client with an in-memory cookie jar.
//
// The transport plays the role of the browser's fetch for server-side and CLI
// consumers. Requests resolve against a base URL, POST data is encoded as
// JSON, and response bodies are decoded into maps when they are JSON (other
// bodies are kept as strings). Response.OK reports a 2xx status.
//
//	t, err := transport.NewFromConfig(transport.Config{BaseURL: "https://app.example.com"})
//	if err != nil {
//		return err
//	}
//	p, err := session.New(cfg, t)
//
// Because *HTTP also implements cookie.Source, a cookie provider built on it
// inspects the same jar the transport sends, so cookies set by a login
// response are visible to the next GetSession.
//
// Credentials modes follow the fetch API. The default "include" always uses
// the jar; "same-origin" restricts it to the base URL's origin and "omit"
// disables it.
package transport
