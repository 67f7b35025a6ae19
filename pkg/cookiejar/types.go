package cookiejar

import "time"

// Identity is the unique key of a stored cookie. A new cookie with the same
// identity as a stored one replaces it.
type Identity struct {
	Name   string `json:"name"`
	Domain string `json:"domain"`
	Path   string `json:"path"`
}

// Record holds the attributes of a stored cookie.
// Value is SENSITIVE and must never be logged.
type Record struct {
	Value string `json:"value"`
	// ExpiryTime is absolute. Session cookies carry SessionExpiry.
	ExpiryTime time.Time `json:"expiryTime"`
	// CreationTime is set on first insertion of the identity and never
	// changed by later updates.
	CreationTime   time.Time `json:"creationTime"`
	LastAccessTime time.Time `json:"lastAccessTime"`
	Persistent     bool      `json:"persistent"`
	HostOnly       bool      `json:"hostOnly"`
	SecureOnly     bool      `json:"secureOnly"`
	HttpOnly       bool      `json:"httpOnly"`
}

// Store maps identities to records. It has no ordering.
type Store map[Identity]Record

// Clone returns a copy of s that shares nothing with it.
func (s Store) Clone() Store {
	c := make(Store, len(s))
	for id, rec := range s {
		c[id] = rec
	}
	return c
}

// SessionExpiry is the expiry assigned to non-persistent cookies.
// It keeps comparisons uniform; session cookies never expire on their own.
var SessionExpiry = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC)

// unixEpoch is the expiry of cookies deleted through a non-positive Max-Age.
var unixEpoch = time.Unix(0, 0).UTC()

// Expired reports whether the record is expired at now.
func (r Record) Expired(now time.Time) bool {
	return !r.ExpiryTime.After(now)
}
