package cookies

import (
	"testing"
	"time"
)

func TestChromeToUnix(t *testing.T) {
	want := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC).Unix()
	if got := chromeToUnix(unixToChrome(want)); got != want {
		t.Fatalf("chromeToUnix round trip: want %d, got %d", want, got)
	}
}

func TestParseChrome_SkipEncrypted(t *testing.T) {
	dir := t.TempDir()
	future := unixToChrome(time.Now().Add(24 * time.Hour).Unix())
	dbPath := createChromeFixture(t, dir, []chromeRow{
		{"encrypted", "", []byte("v10blob"), ".example.com", "/", future, 0, 0},
		{"plain", "val", nil, ".example.com", "/", future, 0, 0},
	})

	cookies, err := ParseChrome(dbPath, "example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cookies) != 1 || cookies[0].Name != "plain" {
		t.Fatalf("expected only 'plain', got %+v", cookies)
	}
}

func TestParseChrome_ExpiryHandling(t *testing.T) {
	dir := t.TempDir()
	futureUnix := time.Now().Add(24 * time.Hour).Unix()
	dbPath := createChromeFixture(t, dir, []chromeRow{
		{"persistent", "1", nil, "example.com", "/", unixToChrome(futureUnix), 0, 0},
		{"session", "2", nil, "example.com", "/", 0, 0, 0},
		{"expired", "3", nil, "example.com", "/", unixToChrome(time.Now().Add(-time.Hour).Unix()), 0, 0},
	})

	cookies, err := ParseChrome(dbPath, "example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	byName := map[string]Cookie{}
	for _, c := range cookies {
		byName[c.Name] = c
	}
	if _, ok := byName["expired"]; ok {
		t.Error("expired cookie should be skipped")
	}
	if got := byName["persistent"].Expiry.Unix(); got != futureUnix {
		t.Errorf("persistent expiry: want %d, got %d", futureUnix, got)
	}
	s, ok := byName["session"]
	if !ok {
		t.Fatal("session cookie missing")
	}
	if !s.Expiry.IsZero() {
		t.Errorf("session cookie should have zero expiry, got %v", s.Expiry)
	}
}

func TestParseChrome_DomainFilteringAndFlags(t *testing.T) {
	dir := t.TempDir()
	future := unixToChrome(time.Now().Add(24 * time.Hour).Unix())
	dbPath := createChromeFixture(t, dir, []chromeRow{
		{"sid", "1", nil, ".example.com", "/", future, 1, 1},
		{"other", "2", nil, "other.com", "/", future, 0, 0},
	})

	cookies, err := ParseChrome(dbPath, "example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	if !cookies[0].Secure || !cookies[0].HttpOnly {
		t.Errorf("expected Secure and HttpOnly, got %+v", cookies[0])
	}

	all, err := ParseChrome(dbPath, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("empty domain: expected 2 cookies, got %d", len(all))
	}
}
