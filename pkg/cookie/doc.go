// Package cookie reads the cookies visible to a client and exposes them as a
// simple name to value mapping.
//
// It is the client-side counterpart of net/http's cookie handling: instead of
// writing Set-Cookie headers it parses the host's ambient cookie string (the
// "a=1; b=2" shape a browser exposes, or the serialized contents of an
// http.CookieJar) and answers presence questions that session providers use
// as a cheap local gate before talking to a backend.
//
// # Parsing
//
// Parse splits the raw string on "; " and every entry on the first "=" only,
// so values may themselves contain "=" (base64 padding, for example):
//
//	vals := cookie.Parse("PHPSESSID=abc; token=eyJ==")
//	vals["token"] // "eyJ=="
//
// Entries without a name ("=x") or without a separator ("novalue") are
// discarded silently. Empty values ("a=") are kept.
//
// # Presence checks
//
// Two query semantics are supported:
//
//   - Has reports that every named cookie exists, whatever its value.
//   - HasValue additionally requires a non-empty value.
//
// Called without names, both report whether any cookie exists at all.
//
// # Sources
//
// A Source yields the raw cookie string on demand. StaticSource and SourceFunc
// cover tests and custom hosts; JarSource serializes the cookies an
// http.CookieJar would send to a given URL, so a provider can inspect exactly
// what its HTTP transport will transmit.
//
//	jar, _ := cookiejar.New(nil)
//	src := cookie.JarSource(jar, sessionURL)
//	vals, err := cookie.Read(ctx, src)
//
// # Error Handling
//
// Parsing never fails. Sources return ErrNoJar or ErrNoURL when they are
// misconfigured.
package cookie
