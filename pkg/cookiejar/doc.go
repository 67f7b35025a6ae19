// Package cookiejar implements an RFC 6265 client-side cookie store.
//
// A Jar accepts raw Set-Cookie field values received for a request URL and
// later builds the Cookie header value for outgoing requests, selecting only
// the stored cookies that are applicable, unexpired and permitted by their
// Secure and HttpOnly attributes.
//
// Every Jar runs as a single goroutine that owns its store. Operations are
// applied strictly in the order they are submitted, so a CookieHeader call
// issued after a SetCookie call on the same Jar always observes its effect.
// Independent jars share nothing.
//
// Malformed or disallowed Set-Cookie values are ignored, never reported to
// the caller. Cookie values are never logged.
package cookiejar
