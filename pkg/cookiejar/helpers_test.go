package cookiejar

import (
	"context"
	"net/url"
	"sync"
	"testing"
	"time"
)

// fakeClock is a time source the test goroutine can advance while the jar
// goroutine reads it.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("failed to parse %q: %v", raw, err)
	}
	return u
}

// newTestJar returns a jar on a fake clock that is closed with the test.
func newTestJar(t *testing.T, opts ...Option) (*Jar, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	j := New(context.Background(), append([]Option{WithClock(clock.Now)}, opts...)...)
	t.Cleanup(j.Close)
	return j, clock
}

// newTestState returns a bare state for policy tests.
func newTestState(opts ...Option) *state {
	return newState(newOptions(opts...))
}
