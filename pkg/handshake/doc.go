// Package handshake runs out-of-band login, signup and profile flows in a
// secondary window.
//
// A handshake opens a popup through a Host, waits for a single message of
// type "<kind>Success" carrying the user, and polls the window so a user
// closing it is noticed. Exactly one outcome is returned per attempt, and the
// message listener and poll ticker are released on every path.
//
// A Registry owns the pending attempts, one per kind. Starting a second login
// while one is pending closes the first popup and makes its Start return
// ErrPreempted.
//
//	reg := handshake.NewRegistry(host)
//	cfg.Login = handshake.Action(handshake.KindLogin, reg)
//	cfg.Profile = handshake.Action(handshake.KindProfile, reg, handshake.WithURL("/account"))
//
// Closing a login or signup popup fails with ErrCancelled. Closing a profile
// popup means editing is done: the session is fetched again and the refreshed
// user is returned.
package handshake
