package cookiejar

import (
	"net/http"
	"net/url"
)

// Jar can be used as the cookie jar of an http.Client.
var _ http.CookieJar = (*Jar)(nil)

// SetCookies implements http.CookieJar. Each cookie is serialized back into
// its Set-Cookie form and submitted like SetCookie.
func (j *Jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	for _, c := range cookies {
		if raw := c.String(); raw != "" {
			j.SetCookie(u, raw)
		}
	}
}

// Cookies implements http.CookieJar. It returns the cookies CookieHeader
// would send, in the same order, with only Name and Value set.
func (j *Jar) Cookies(u *url.URL) []*http.Cookie {
	if u == nil {
		panic("cookiejar: Cookies with nil URL")
	}
	var cookies []*http.Cookie
	j.call(func(s *state) {
		for _, e := range s.selectFor(u, s.now()) {
			cookies = append(cookies, &http.Cookie{Name: e.id.Name, Value: e.rec.Value})
		}
	})
	return cookies
}
