package cookiejar

import "testing"

func TestDomainMatches(t *testing.T) {
	tests := []struct {
		host, domain string
		want         bool
	}{
		{"example.com", "example.com", true},
		{"a.example.com", "example.com", true},
		{"a.b.example.com", "example.com", true},
		{"evilexample.com", "example.com", false},
		{"example.com", "a.example.com", false},
		{"example.org", "example.com", false},
		{"com", "example.com", false},
		// No IP special-casing.
		{"1.2.3.4", "2.3.4", true},
	}
	for _, tt := range tests {
		if got := domainMatches(tt.host, tt.domain); got != tt.want {
			t.Errorf("domainMatches(%q, %q) = %v, want %v", tt.host, tt.domain, got, tt.want)
		}
	}
}

func TestDefaultPath(t *testing.T) {
	tests := []struct {
		url, want string
	}{
		{"http://example.com", "/"},
		{"http://example.com/", "/"},
		{"http://example.com/file", "/"},
		{"http://example.com/a/", "/a"},
		{"http://example.com/a/b", "/a"},
		{"http://example.com/a/b/c?q=1", "/a/b"},
		{"mailto:someone@example.com", "/"},
	}
	for _, tt := range tests {
		if got := defaultPath(mustURL(t, tt.url)); got != tt.want {
			t.Errorf("defaultPath(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestPathMatches(t *testing.T) {
	tests := []struct {
		req, cookie string
		want        bool
	}{
		{"/", "/", true},
		{"/a", "/a", true},
		{"/a/b", "/", true},
		{"/a/b", "/a", true},
		{"/a/b", "/a/", true},
		{"/ab", "/a", false},
		{"/a", "/a/", false},
		{"/b", "/a", false},
		{"/", "/a", false},
	}
	for _, tt := range tests {
		if got := pathMatches(tt.req, tt.cookie); got != tt.want {
			t.Errorf("pathMatches(%q, %q) = %v, want %v", tt.req, tt.cookie, got, tt.want)
		}
	}
}

func TestIDNACanonicalizer(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"EXAMPLE.com", "example.com"},
		{"example.com.", "example.com"},
		{"bücher.example", "xn--bcher-kva.example"},
		{"127.0.0.1", "127.0.0.1"},
	}
	for _, tt := range tests {
		if got := IDNACanonicalizer(tt.in); got != tt.want {
			t.Errorf("IDNACanonicalizer(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIdentityCanonicalizer(t *testing.T) {
	if got := IdentityCanonicalizer("Example.COM"); got != "Example.COM" {
		t.Errorf("expected host unchanged, got %q", got)
	}
}
