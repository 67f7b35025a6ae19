package common

import (
	"cmp"
	"slices"

	"github.com/warpdl/warpjar/pkg/cookiejar"
)

// JSON-RPC method names served by the daemon.
const (
	MethodGetVersion      = "system.getVersion"
	MethodJarList         = "jar.list"
	MethodSetCookie       = "jar.setCookie"
	MethodCookieHeader    = "jar.cookieHeader"
	MethodCookies         = "jar.cookies"
	MethodFetchAll        = "jar.fetchAll"
	MethodImport          = "jar.import"
	MethodExport          = "jar.export"
	MethodDrop            = "jar.drop"
	NotifyCookieSubmitted = "jar.cookieSubmitted"
)

// VersionResult is the response for system.getVersion.
type VersionResult struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	BuildType string `json:"buildType,omitempty"`
}

// JarParam names a jar.
type JarParam struct {
	Jar string `json:"jar"`
}

// JarURLParams is the input for jar.cookieHeader and jar.cookies.
type JarURLParams struct {
	Jar string `json:"jar"`
	URL string `json:"url"`
}

// SetCookieParams is the input for jar.setCookie.
type SetCookieParams struct {
	Jar       string `json:"jar"`
	URL       string `json:"url"`
	SetCookie string `json:"setCookie"`
}

// ImportParams is the input for jar.import. Path is a cookie file on the
// daemon host or "auto" to scan installed browsers.
type ImportParams struct {
	Jar    string `json:"jar"`
	Path   string `json:"path"`
	Domain string `json:"domain,omitempty"`
}

// ImportResult is the response for jar.import.
type ImportResult struct {
	Imported int    `json:"imported"`
	Browser  string `json:"browser"`
}

// ExportResult is the response for jar.export.
type ExportResult struct {
	Netscape string `json:"netscape"`
}

// HeaderResult is the response for jar.cookieHeader.
type HeaderResult struct {
	Header string `json:"header"`
}

// CookiePair is one name/value pair of a Cookie header, in header order.
type CookiePair struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// CookiesResult is the response for jar.cookies.
type CookiesResult struct {
	Cookies []CookiePair `json:"cookies"`
}

// StoredCookie is one jar record with its identity.
type StoredCookie struct {
	cookiejar.Identity
	cookiejar.Record
}

// FetchAllResult is the response for jar.fetchAll.
type FetchAllResult struct {
	Cookies []StoredCookie `json:"cookies"`
}

// JarInfo describes a named jar.
type JarInfo struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// JarListResult is the response for jar.list.
type JarListResult struct {
	Jars []JarInfo `json:"jars"`
}

// CookieSubmittedNotification is pushed to WebSocket peers when a
// Set-Cookie value is submitted to a jar. It never carries the value.
type CookieSubmittedNotification struct {
	Jar  string `json:"jar"`
	Host string `json:"host"`
	Name string `json:"name"`
}

// EmptyResult is a placeholder for methods that return no data.
type EmptyResult struct{}

// Flatten turns a store snapshot into a list sorted by domain, path and name.
func Flatten(s cookiejar.Store) []StoredCookie {
	out := make([]StoredCookie, 0, len(s))
	for id, rec := range s {
		out = append(out, StoredCookie{Identity: id, Record: rec})
	}
	slices.SortFunc(out, func(a, b StoredCookie) int {
		return cmp.Or(
			cmp.Compare(a.Domain, b.Domain),
			cmp.Compare(a.Path, b.Path),
			cmp.Compare(a.Name, b.Name),
		)
	})
	return out
}

// Unflatten rebuilds a store from a flattened list.
func Unflatten(list []StoredCookie) cookiejar.Store {
	s := make(cookiejar.Store, len(list))
	for _, c := range list {
		s[c.Identity] = c.Record
	}
	return s
}
