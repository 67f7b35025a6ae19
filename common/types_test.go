package common

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/warpdl/warpjar/pkg/cookiejar"
)

func TestFlatten_SortedAndReversible(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store := cookiejar.Store{
		{Name: "b", Domain: "b.com", Path: "/"}:  {Value: "2", ExpiryTime: cookiejar.SessionExpiry, CreationTime: now},
		{Name: "a", Domain: "a.com", Path: "/x"}: {Value: "1", ExpiryTime: cookiejar.SessionExpiry, CreationTime: now},
		{Name: "a", Domain: "a.com", Path: "/"}:  {Value: "0", ExpiryTime: cookiejar.SessionExpiry, CreationTime: now},
	}

	flat := Flatten(store)
	var got []string
	for _, c := range flat {
		got = append(got, c.Domain+c.Path+c.Name)
	}
	if want := "a.com/a,a.com/xa,b.com/b"; strings.Join(got, ",") != want {
		t.Fatalf("order: want %s, got %s", want, strings.Join(got, ","))
	}

	back := Unflatten(flat)
	if len(back) != len(store) {
		t.Fatalf("unflatten size: want %d, got %d", len(store), len(back))
	}
	for id, rec := range store {
		if back[id].Value != rec.Value {
			t.Errorf("%+v: want %q, got %q", id, rec.Value, back[id].Value)
		}
	}
}

func TestStoredCookie_JSONIsFlat(t *testing.T) {
	c := StoredCookie{
		Identity: cookiejar.Identity{Name: "sid", Domain: "example.com", Path: "/"},
		Record:   cookiejar.Record{Value: "abc", HostOnly: true},
	}
	data, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m["name"] != "sid" || m["domain"] != "example.com" || m["hostOnly"] != true {
		t.Fatalf("unexpected JSON: %s", data)
	}
}

func TestRPCPort(t *testing.T) {
	t.Setenv(RPCPortEnv, "")
	if got := RPCPort(); got != DefaultRPCPort {
		t.Fatalf("default: want %d, got %d", DefaultRPCPort, got)
	}
	t.Setenv(RPCPortEnv, "9000")
	if got := RPCPort(); got != 9000 {
		t.Fatalf("env: want 9000, got %d", got)
	}
	t.Setenv(RPCPortEnv, "nope")
	if got := RPCPort(); got != DefaultRPCPort {
		t.Fatalf("invalid: want %d, got %d", DefaultRPCPort, got)
	}
}

func TestDefaultRPCURL(t *testing.T) {
	t.Setenv(RPCURLEnv, "")
	t.Setenv(RPCPortEnv, "4000")
	if got, want := DefaultRPCURL(), "http://127.0.0.1:4000/jsonrpc"; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
	t.Setenv(RPCURLEnv, "http://remote:1/jsonrpc")
	if got := DefaultRPCURL(); got != "http://remote:1/jsonrpc" {
		t.Fatalf("env override ignored: %q", got)
	}
}
