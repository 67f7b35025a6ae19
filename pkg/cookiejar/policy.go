package cookiejar

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/warpdl/warpjar/pkg/logger"
)

// Reasons a parsed cookie is not stored. They are logged, never returned to
// callers of Jar.
var (
	errForeignDomain    = errors.New("domain attribute does not cover the request host")
	errPublicSuffix     = errors.New("domain attribute is a public suffix")
	errNonHTTPHostOnly  = errors.New("host-only cookie from a non-HTTP scheme")
	errNonHTTPOverwrite = errors.New("non-HTTP scheme cannot replace a host-only cookie")
)

// state is the store and its policy. It is owned by the jar goroutine and
// never touched concurrently.
type state struct {
	store        Store
	now          func() time.Time
	log          logger.Logger
	canonicalize Canonicalizer
	psl          PublicSuffixList
	order        PathOrder
}

func newState(o *options) *state {
	s := &state{
		store:        o.seed,
		now:          o.clock,
		log:          o.log,
		canonicalize: o.canonicalize,
		psl:          o.psl,
		order:        o.order,
	}
	if s.store == nil {
		s.store = make(Store)
	}
	return s
}

// working is a candidate folded into record form. Later attributes
// overwrite earlier ones of the same kind.
type working struct {
	expires, maxAge       time.Time
	hasExpires, hasMaxAge bool
	domain, path          string
	secure, httpOnly      bool
}

func fold(c *candidate) working {
	w := working{path: defaultPath(c.source)}
	for _, a := range c.attrs {
		switch a.kind {
		case attrExpires:
			w.expires, w.hasExpires = a.at, true
		case attrMaxAge:
			w.maxAge, w.hasMaxAge = a.at, true
		case attrDomain:
			w.domain = a.text
		case attrPath:
			w.path = a.text
		case attrSecure:
			w.secure = true
		case attrHTTPOnly:
			w.httpOnly = true
		default:
			panic(fmt.Sprintf("cookiejar: unhandled attribute %s", a.kind))
		}
	}
	return w
}

// setCookie parses raw and merges the result into the store. The store is
// either updated with one complete record or left untouched.
func (s *state) setCookie(u *url.URL, raw string) {
	now := s.now()
	c, ok := parseSetCookie(u, raw, now)
	if !ok {
		s.log.Warning("cookiejar: ignoring malformed Set-Cookie from %s", u.Hostname())
		return
	}
	if _, err := s.merge(c, now); err != nil {
		s.log.Warning("cookiejar: rejected cookie %q from %s: %v", c.name, u.Hostname(), err)
	}
}

// merge applies the storage policy to c and stores the accepted record.
// A stored record with the same identity that has already expired counts
// as absent: the new record gets a fresh creation time and the guard
// against non-HTTP overwrites of host-only cookies does not apply to it.
func (s *state) merge(c *candidate, now time.Time) (Identity, error) {
	w := fold(c)
	rec := Record{
		Value:          c.value,
		ExpiryTime:     SessionExpiry,
		CreationTime:   now,
		LastAccessTime: now,
		SecureOnly:     w.secure,
		HttpOnly:       w.httpOnly,
	}
	switch {
	case w.hasMaxAge:
		rec.Persistent, rec.ExpiryTime = true, w.maxAge
	case w.hasExpires:
		rec.Persistent, rec.ExpiryTime = true, w.expires
	}

	host := s.canonicalize(c.source.Hostname())
	domain, hostOnly, err := s.resolveDomain(host, w.domain)
	if err != nil {
		return Identity{}, err
	}
	rec.HostOnly = hostOnly

	httpScheme := isHTTPScheme(c.source.Scheme)
	if rec.HostOnly && !httpScheme {
		return Identity{}, errNonHTTPHostOnly
	}

	id := Identity{Name: c.name, Domain: domain, Path: w.path}
	// Expired records count as absent so that sweeping them stays invisible.
	if old, ok := s.store[id]; ok && !old.Expired(now) {
		if old.HostOnly && !httpScheme {
			return Identity{}, errNonHTTPOverwrite
		}
		rec.CreationTime = old.CreationTime
	}
	s.store[id] = rec
	return id, nil
}

// resolveDomain returns the domain to store and whether the cookie is
// host-only. attr is the folded Domain attribute, empty when absent. It is
// canonicalized like the request host so both compare in the same form.
func (s *state) resolveDomain(host, attr string) (string, bool, error) {
	if attr == "" {
		return host, true, nil
	}
	attr = s.canonicalize(attr)
	if s.psl != nil && s.psl.PublicSuffix(attr) == attr {
		if attr == host {
			return host, true, nil
		}
		return "", false, errPublicSuffix
	}
	if !domainMatches(host, attr) {
		return "", false, errForeignDomain
	}
	return attr, false, nil
}

// load merges seeded records, replacing any with the same identity.
func (s *state) load(seed Store) {
	for id, rec := range seed {
		s.store[id] = rec
	}
}

// sweep deletes records expired at now and returns how many were removed.
func (s *state) sweep(now time.Time) int {
	var n int
	for id, rec := range s.store {
		if rec.Expired(now) {
			delete(s.store, id)
			n++
		}
	}
	return n
}

// snapshot copies every unexpired record.
func (s *state) snapshot(now time.Time) Store {
	out := make(Store, len(s.store))
	for id, rec := range s.store {
		if !rec.Expired(now) {
			out[id] = rec
		}
	}
	return out
}
