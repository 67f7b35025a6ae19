package cookiejar

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// attrKind enumerates the recognized Set-Cookie attributes. Anything else is
// dropped during parsing.
type attrKind uint8

const (
	attrExpires attrKind = iota + 1
	attrMaxAge
	attrDomain
	attrPath
	attrSecure
	attrHTTPOnly
)

func (k attrKind) String() string {
	switch k {
	case attrExpires:
		return "expires"
	case attrMaxAge:
		return "max-age"
	case attrDomain:
		return "domain"
	case attrPath:
		return "path"
	case attrSecure:
		return "secure"
	case attrHTTPOnly:
		return "httponly"
	}
	return "attr(" + strconv.Itoa(int(k)) + ")"
}

// attribute is one recognized cookie-av. at is used by expires and max-age,
// text by domain and path.
type attribute struct {
	kind attrKind
	at   time.Time
	text string
}

// candidate is a parsed Set-Cookie value that has not been checked against
// the store yet.
type candidate struct {
	source *url.URL
	name   string
	value  string
	attrs  []attribute
}

// parseSetCookie parses a raw Set-Cookie field value received for u.
// It reports false when the name=value pair is unusable.
func parseSetCookie(u *url.URL, raw string, now time.Time) (*candidate, bool) {
	pair, rest, _ := strings.Cut(raw, ";")
	name, value, ok := strings.Cut(pair, "=")
	if !ok || value == "" {
		return nil, false
	}
	name = trimWSP(name)
	if name == "" {
		return nil, false
	}
	c := &candidate{
		source: u,
		name:   name,
		value:  trimWSP(value),
	}
	if rest == "" {
		return c, true
	}
	for _, tok := range strings.Split(rest, ";") {
		if a, ok := parseAttribute(tok, now); ok {
			c.attrs = append(c.attrs, a)
		}
	}
	return c, true
}

// parseAttribute parses a single cookie-av. Unrecognized or invalid
// attributes are dropped individually.
func parseAttribute(tok string, now time.Time) (attribute, bool) {
	key, val, _ := strings.Cut(tok, "=")
	key = strings.ToLower(trimWSP(key))
	val = trimWSP(val)

	switch key {
	case "expires":
		t, ok := parseCookieDate(val)
		if !ok {
			return attribute{}, false
		}
		return attribute{kind: attrExpires, at: t}, true
	case "max-age":
		t, ok := maxAgeExpiry(val, now)
		if !ok {
			return attribute{}, false
		}
		return attribute{kind: attrMaxAge, at: t}, true
	case "domain":
		val = strings.TrimPrefix(val, ".")
		if val == "" {
			return attribute{}, false
		}
		return attribute{kind: attrDomain, text: strings.ToLower(val)}, true
	case "path":
		if val == "" || val[0] != '/' {
			return attribute{}, false
		}
		return attribute{kind: attrPath, text: val}, true
	case "secure":
		return attribute{kind: attrSecure}, true
	case "httponly":
		return attribute{kind: attrHTTPOnly}, true
	}
	return attribute{}, false
}

// maxAgeExpiry converts a Max-Age value into an absolute expiry. The value
// must be an optional '-' followed by digits. Non-positive deltas expire the
// cookie at the Unix epoch; deltas past SessionExpiry are clamped to it.
func maxAgeExpiry(val string, now time.Time) (time.Time, bool) {
	digits := strings.TrimPrefix(val, "-")
	if digits == "" || strings.IndexFunc(digits, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
		return time.Time{}, false
	}
	if len(digits) != len(val) {
		return unixEpoch, true
	}
	limit := SessionExpiry.Unix() - now.Unix()
	delta, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || delta >= limit {
		// only ErrRange is possible here
		return SessionExpiry, true
	}
	if delta <= 0 {
		return unixEpoch, true
	}
	return time.Unix(now.Unix()+delta, int64(now.Nanosecond())).UTC(), true
}

// trimWSP trims spaces and horizontal tabs, nothing else.
func trimWSP(s string) string {
	return strings.Trim(s, " \t")
}
