package cookies

import (
	"errors"
	"time"
)

// ErrUnsupportedFormat is returned for files that are neither a Netscape
// cookie file nor a known browser cookie database.
var ErrUnsupportedFormat = errors.New("error: unsupported cookie database schema")

// CookieFormat identifies the format of a browser cookie store.
type CookieFormat int

const (
	// FormatUnknown means the cookie store format could not be detected.
	FormatUnknown CookieFormat = 0
	// FormatFirefox means the cookie store uses the Firefox moz_cookies SQLite schema.
	FormatFirefox CookieFormat = 1
	// FormatChrome means the cookie store uses the Chrome cookies SQLite schema.
	// Only unencrypted cookies (value != '') are usable.
	FormatChrome CookieFormat = 2
	// FormatNetscape means the cookie store uses the Netscape tab-separated text format.
	FormatNetscape CookieFormat = 3
)

// String returns the browser family name of the format.
func (f CookieFormat) String() string {
	switch f {
	case FormatFirefox:
		return "Firefox"
	case FormatChrome:
		return "Chrome"
	case FormatNetscape:
		return "Netscape"
	default:
		return "Unknown"
	}
}

// Cookie is a single cookie read from a browser cookie store.
// Value is SENSITIVE: it must never be logged or formatted into errors.
type Cookie struct {
	Name string
	// Value is the cookie value. SENSITIVE, never log.
	Value string
	// Domain may carry a leading dot for subdomain-inclusive cookies.
	Domain string
	Path   string
	// Expiry is zero for session cookies.
	Expiry   time.Time
	Secure   bool
	HttpOnly bool
}

// CookieSource describes where cookies were imported from.
type CookieSource struct {
	// Path is the location of the cookie store inside the source filesystem.
	Path   string
	Format CookieFormat
	// Browser is the detected browser name (e.g. "Firefox", "Chrome", "Netscape").
	Browser string
}
