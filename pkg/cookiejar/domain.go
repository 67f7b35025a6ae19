package cookiejar

import (
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

// Canonicalizer turns a request host into the form stored in cookie domains.
type Canonicalizer func(host string) string

// IdentityCanonicalizer returns host unchanged. It is the default and keeps
// hosts byte-identical to the request URL.
func IdentityCanonicalizer(host string) string {
	return host
}

// IDNACanonicalizer lower-cases host, drops a trailing dot and converts it to
// its ASCII (punycode) form. Hosts IDNA rejects, such as IPv6 literals, are
// returned lower-cased.
func IDNACanonicalizer(host string) string {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	if ascii, err := idna.Lookup.ToASCII(host); err == nil {
		return ascii
	}
	return host
}

// PublicSuffixList provides the public suffix of a domain, for example "com"
// for "example.com" or "co.uk" for "foo.co.uk".
// publicsuffix.List from golang.org/x/net/publicsuffix satisfies it.
type PublicSuffixList interface {
	PublicSuffix(domain string) string
}

// domainMatches reports whether host domain-matches domain. A suffix match
// only counts on a label boundary, so "evilexample.com" does not match
// "example.com". IP addresses get no special treatment.
func domainMatches(host, domain string) bool {
	if host == domain {
		return true
	}
	return len(host) > len(domain) &&
		strings.HasSuffix(host, domain) &&
		host[len(host)-len(domain)-1] == '.'
}

// defaultPath returns the RFC 6265 §5.1.4 default-path of u: the directory
// of its path, or "/".
func defaultPath(u *url.URL) string {
	p := u.Path
	if p == "" || p[0] != '/' || strings.Count(p, "/") <= 1 {
		return "/"
	}
	return p[:strings.LastIndexByte(p, '/')]
}

// pathMatches reports whether requestPath path-matches cookiePath.
func pathMatches(requestPath, cookiePath string) bool {
	if requestPath == cookiePath {
		return true
	}
	if !strings.HasPrefix(requestPath, cookiePath) {
		return false
	}
	if strings.HasSuffix(cookiePath, "/") {
		return true
	}
	return requestPath[len(cookiePath)] == '/'
}

// requestPath is the path used for matching. An empty path means "/".
func requestPath(u *url.URL) string {
	if u.Path == "" {
		return "/"
	}
	return u.Path
}

func isHTTPScheme(scheme string) bool {
	scheme = strings.ToLower(scheme)
	return scheme == "http" || scheme == "https"
}

func isSecureScheme(scheme string) bool {
	return strings.EqualFold(scheme, "https")
}
