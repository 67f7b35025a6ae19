package cookiejar

import (
	"cmp"
	"net/url"
	"slices"
	"strings"
	"time"
)

// entry pairs a record with its identity for ordering and serialization.
type entry struct {
	id  Identity
	rec Record
}

// selectFor returns the records applicable to a request for u, in Cookie
// header order, and marks them as accessed at now.
func (s *state) selectFor(u *url.URL, now time.Time) []entry {
	host := s.canonicalize(u.Hostname())
	path := requestPath(u)
	secure := isSecureScheme(u.Scheme)
	httpScheme := isHTTPScheme(u.Scheme)

	var selected []entry
	for id, rec := range s.store {
		if rec.Expired(now) {
			continue
		}
		if !pathMatches(path, id.Path) {
			continue
		}
		if rec.HostOnly && host != id.Domain {
			continue
		}
		if !rec.HostOnly && !domainMatches(host, id.Domain) {
			continue
		}
		if rec.SecureOnly && !secure {
			continue
		}
		if rec.HttpOnly && !httpScheme {
			continue
		}
		rec.LastAccessTime = now
		s.store[id] = rec
		selected = append(selected, entry{id: id, rec: rec})
	}

	slices.SortFunc(selected, func(a, b entry) int {
		if c := cmp.Compare(len(a.id.Path), len(b.id.Path)); c != 0 {
			if s.order == PathOrderDescending {
				return -c
			}
			return c
		}
		if c := a.rec.CreationTime.Compare(b.rec.CreationTime); c != 0 {
			return c
		}
		// Map iteration is random; keep the header deterministic.
		return strings.Compare(a.id.Name, b.id.Name)
	})
	return selected
}

// cookieHeader serializes entries as a Cookie header value.
func cookieHeader(entries []entry) string {
	if len(entries) == 0 {
		return ""
	}
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(e.id.Name)
		b.WriteByte('=')
		b.WriteString(e.rec.Value)
	}
	return b.String()
}
