package cookies

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/warpdl/warpjar/pkg/cookiejar"
)

// ImportCookies imports cookies from the cookie store at sourcePath in fsys.
// It detects the format, copies SQLite files out safely, parses cookies and
// returns them with source metadata. An empty domain imports everything.
func ImportCookies(fsys afero.Fs, sourcePath string, domain string) ([]Cookie, *CookieSource, error) {
	kind, err := sniff(fsys, sourcePath)
	if err != nil {
		return nil, nil, err
	}
	if kind == kindText {
		cookies, err := ParseNetscape(fsys, sourcePath, domain)
		if err != nil {
			return nil, nil, err
		}
		return cookies, &CookieSource{Path: sourcePath, Format: FormatNetscape, Browser: FormatNetscape.String()}, nil
	}

	tempDir, cleanup, err := SafeCopy(fsys, sourcePath)
	if err != nil {
		return nil, nil, err
	}
	defer cleanup()
	copiedPath := filepath.Join(tempDir, filepath.Base(sourcePath))

	format, err := detectSQLiteFormat(copiedPath)
	if err != nil {
		return nil, nil, err
	}

	var cookies []Cookie
	switch format {
	case FormatFirefox:
		cookies, err = ParseFirefox(copiedPath, domain)
	case FormatChrome:
		cookies, err = ParseChrome(copiedPath, domain)
	default:
		return nil, nil, fmt.Errorf("%w at %s", ErrUnsupportedFormat, sourcePath)
	}
	if err != nil {
		return nil, nil, err
	}
	return cookies, &CookieSource{Path: sourcePath, Format: format, Browser: format.String()}, nil
}

// ToStore converts imported cookies into jar records. A leading dot on the
// domain marks a domain cookie, anything else is host-only. A zero expiry
// becomes a session cookie. Cookies already expired at now are skipped, as
// are cookies with an empty name or domain.
func ToStore(cookies []Cookie, now time.Time) cookiejar.Store {
	store := make(cookiejar.Store, len(cookies))
	for _, c := range cookies {
		domain := strings.ToLower(c.Domain)
		hostOnly := !strings.HasPrefix(domain, ".")
		domain = strings.TrimPrefix(domain, ".")
		if c.Name == "" || domain == "" {
			continue
		}
		path := c.Path
		if !strings.HasPrefix(path, "/") {
			path = "/"
		}

		rec := cookiejar.Record{
			Value:          c.Value,
			ExpiryTime:     cookiejar.SessionExpiry,
			CreationTime:   now,
			LastAccessTime: now,
			HostOnly:       hostOnly,
			SecureOnly:     c.Secure,
			HttpOnly:       c.HttpOnly,
		}
		if !c.Expiry.IsZero() {
			if !c.Expiry.After(now) {
				continue
			}
			rec.ExpiryTime = c.Expiry.UTC()
			rec.Persistent = true
		}
		store[cookiejar.Identity{Name: c.Name, Domain: domain, Path: path}] = rec
	}
	return store
}

// ImportSource imports from source, where "auto" scans the known browser
// cookie stores instead of reading a single file.
func ImportSource(fsys afero.Fs, source, domain string) ([]Cookie, *CookieSource, error) {
	if source == "auto" {
		return DetectBrowserCookies(fsys, domain)
	}
	return ImportCookies(fsys, source, domain)
}
