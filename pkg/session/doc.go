// Package session implements client-side session providers behind a single
// Provider contract.
//
// Three variants are available:
//
//   - CookieProvider checks required cookies, runs optional local validation
//     and then validates against the server. Without a validation route the
//     cookies alone are trusted.
//   - BFFProvider follows the same pipeline but never trusts cookies on their
//     own: without a route the session is invalid. Access tokens returned by
//     the backend are kept in memory and exposed through GetAuthHeaders.
//   - MockProvider keeps everything in memory and synthesizes users on login.
//
// New selects a variant from Config.Provider:
//
//	p, err := session.New(session.Config{
//		Provider: session.KindCookie,
//		Client:   &session.ClientConfig{Cookies: []string{"PHPSESSID"}},
//		Fetch:    session.FetchConfig{SessionURL: "/api/auth/me", Method: "GET"},
//		Response: func(ctx context.Context, actx session.ActionContext, res *session.Response, _ cookie.Values, _ session.Config) (session.Verdict, error) {
//			body := res.BodyMap()
//			if !res.OK || body["ok"] != true {
//				return session.Reject(), nil
//			}
//			u, _ := body["user"].(map[string]any)
//			return session.AcceptUser(u), nil
//		},
//		Login:  session.Redirect("/login"),
//		Logout: session.Redirect("/"),
//	}, transport.New(), session.WithNavigator(nav))
//
// # Actions
//
// Login, Signup, Profile and Logout are configured with an Action: a redirect,
// a callback (Func) or a callback looked up by name in a Registry (NamedFunc).
// The zero Action means "not configured" and fails with ErrActionNotConfigured,
// except for Logout which then only clears local state. A logout callback
// clears the session only when it returns a truthy result.
//
// # Validation
//
// Failures of local validation and of the Response callback are logged and
// leave the session invalid; they are not returned. Errors from the transport
// or a Request override are returned wrapped in ErrTransportFailed.
//
// Without a Response callback a successful response body is recorded as the
// user but the session is still reported invalid, unless the provider was
// built with WithTrustOKResponse.
//
// # Raw configuration
//
// ParseConfig reads the same configuration from YAML or JSON, with callbacks
// referenced by Registry names. EnvConfig and NewFromConfig build a provider
// from environment variables.
package session
