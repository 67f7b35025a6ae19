package cookies

import (
	"context"
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/warpdl/warpjar/pkg/cookiejar"
)

func TestImportCookies_Formats(t *testing.T) {
	future := time.Now().Add(24 * time.Hour).Unix()
	ff := createFirefoxFixture(t, t.TempDir(), []firefoxRow{
		{"ff", "1", ".example.com", "/", future, 0, 0},
	})
	ch := createChromeFixture(t, t.TempDir(), []chromeRow{
		{"ch", "2", nil, "example.com", "/", unixToChrome(future), 0, 0},
	})

	fsys := afero.NewMemMapFs()
	copyToMemFs(t, fsys, ff, "/ff/cookies.sqlite")
	copyToMemFs(t, fsys, ch, "/ch/Cookies")
	writeMemFile(t, fsys, "/ns.txt", fmt.Sprintf("# Netscape HTTP Cookie File\n.example.com\tTRUE\t/\tFALSE\t%d\tns\t3\n", future))

	tests := []struct {
		path    string
		format  CookieFormat
		browser string
		name    string
	}{
		{"/ff/cookies.sqlite", FormatFirefox, "Firefox", "ff"},
		{"/ch/Cookies", FormatChrome, "Chrome", "ch"},
		{"/ns.txt", FormatNetscape, "Netscape", "ns"},
	}
	for _, tt := range tests {
		t.Run(tt.browser, func(t *testing.T) {
			cookies, src, err := ImportCookies(fsys, tt.path, "example.com")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if src.Format != tt.format || src.Browser != tt.browser || src.Path != tt.path {
				t.Errorf("unexpected source: %+v", src)
			}
			if len(cookies) != 1 || cookies[0].Name != tt.name {
				t.Errorf("unexpected cookies: %+v", cookies)
			}
		})
	}
}

func TestImportCookies_Errors(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeMemFile(t, fsys, "/empty", "")
	for _, path := range []string{"/missing", "/empty"} {
		if _, _, err := ImportCookies(fsys, path, ""); err == nil {
			t.Errorf("ImportCookies(%q) expected error", path)
		}
	}
}

func TestImportSource_AutoFailsWithoutBrowsers(t *testing.T) {
	if _, _, err := ImportSource(afero.NewMemMapFs(), "auto", "example.com"); err == nil {
		t.Fatal("expected error when no browser store exists")
	}
}

func TestToStore(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	cookies := []Cookie{
		{Name: "dom", Value: "1", Domain: ".Example.com", Path: "/", Expiry: now.Add(time.Hour), Secure: true},
		{Name: "host", Value: "2", Domain: "example.com", Path: "/a", HttpOnly: true},
		{Name: "gone", Value: "3", Domain: "example.com", Path: "/", Expiry: now.Add(-time.Second)},
		{Name: "", Value: "4", Domain: "example.com", Path: "/"},
		{Name: "nopath", Value: "5", Domain: "example.com", Path: ""},
	}

	store := ToStore(cookies, now)
	if len(store) != 3 {
		t.Fatalf("expected 3 records, got %d: %+v", len(store), store)
	}

	dom, ok := store[cookiejar.Identity{Name: "dom", Domain: "example.com", Path: "/"}]
	if !ok {
		t.Fatal("domain cookie missing")
	}
	if dom.HostOnly || !dom.Persistent || !dom.SecureOnly || !dom.ExpiryTime.Equal(now.Add(time.Hour)) {
		t.Errorf("domain cookie wrong: %+v", dom)
	}
	if !dom.CreationTime.Equal(now) || !dom.LastAccessTime.Equal(now) {
		t.Errorf("times should be now: %+v", dom)
	}

	host, ok := store[cookiejar.Identity{Name: "host", Domain: "example.com", Path: "/a"}]
	if !ok {
		t.Fatal("host cookie missing")
	}
	if !host.HostOnly || host.Persistent || !host.HttpOnly || !host.ExpiryTime.Equal(cookiejar.SessionExpiry) {
		t.Errorf("host cookie wrong: %+v", host)
	}

	if _, ok := store[cookiejar.Identity{Name: "nopath", Domain: "example.com", Path: "/"}]; !ok {
		t.Error("empty path should default to /")
	}
}

func TestToStore_SeedsJar(t *testing.T) {
	now := time.Now()
	store := ToStore([]Cookie{
		{Name: "sid", Value: "abc", Domain: ".example.com", Path: "/"},
		{Name: "pref", Value: "dark", Domain: "www.example.com", Path: "/"},
	}, now)

	jar := cookiejar.New(context.Background())
	defer jar.Close()
	jar.Load(store)

	u, _ := url.Parse("http://www.example.com/")
	if got := jar.CookieHeader(u); got != "pref=dark; sid=abc" && got != "sid=abc; pref=dark" {
		t.Fatalf("unexpected header %q", got)
	}
	api, _ := url.Parse("http://api.example.com/")
	if got := jar.CookieHeader(api); got != "sid=abc" {
		t.Fatalf("api header: want %q, got %q", "sid=abc", got)
	}
}
