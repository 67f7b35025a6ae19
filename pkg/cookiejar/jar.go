package cookiejar

import (
	"context"
	"net/url"
	"time"

	"github.com/adhocore/gronx"
)

// maxSleepCap bounds how long the sweep timer sleeps so that clock steps and
// system suspend do not postpone a sweep indefinitely.
const maxSleepCap = 60 * time.Second

// Jar is an RFC 6265 cookie store. All of its methods are safe for
// concurrent use; they are applied one at a time in submission order by the
// goroutine that owns the store.
type Jar struct {
	ops    chan func(*state)
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates and starts a Jar. The jar goroutine exits when ctx is
// cancelled or Close is called; afterwards every method is a no-op that
// returns zero values.
func New(ctx context.Context, opts ...Option) *Jar {
	o := newOptions(opts...)
	ctx, cancel := context.WithCancel(ctx)
	j := &Jar{
		ops:    make(chan func(*state), o.queueSize),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	cron := o.sweepCron
	if cron != "" && !gronx.IsValid(cron) {
		o.log.Warning("cookiejar: invalid sweep expression %q, sweeping disabled", cron)
		cron = ""
	}
	go j.run(newState(o), cron, o.nextTick)
	return j
}

// run is the jar goroutine. It applies queued operations in order and,
// when cron is set, deletes expired records on each tick.
func (j *Jar) run(s *state, cron string, nextTick func(string, time.Time) (time.Time, error)) {
	defer close(j.done)

	var (
		timer     *time.Timer
		nextSweep time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	resetTimer := func() <-chan time.Time {
		if timer != nil {
			timer.Stop()
		}
		if nextSweep.IsZero() {
			return nil
		}
		dur := time.Until(nextSweep)
		if dur > maxSleepCap {
			dur = maxSleepCap
		}
		if dur < 0 {
			dur = 0
		}
		timer = time.NewTimer(dur)
		return timer.C
	}
	schedule := func() {
		nextSweep = time.Time{}
		if cron == "" {
			return
		}
		next, err := nextTick(cron, time.Now())
		if err != nil {
			s.log.Error("cookiejar: cannot schedule sweep: %v", err)
			return
		}
		nextSweep = next
	}

	schedule()
	timerCh := resetTimer()
	for {
		select {
		case <-j.ctx.Done():
			return
		case op := <-j.ops:
			op(s)
		case <-timerCh:
			if !time.Now().Before(nextSweep) {
				if n := s.sweep(s.now()); n > 0 {
					s.log.Info("cookiejar: swept %d expired cookies", n)
				}
				schedule()
			}
			timerCh = resetTimer()
		}
	}
}

// enqueue hands op to the jar goroutine. It reports false once the jar is
// closed.
func (j *Jar) enqueue(op func(*state)) bool {
	select {
	case <-j.ctx.Done():
		return false
	default:
	}
	select {
	case j.ops <- op:
		return true
	case <-j.ctx.Done():
		return false
	}
}

// call runs op on the jar goroutine and waits for it to finish.
func (j *Jar) call(op func(*state)) bool {
	finished := make(chan struct{})
	if !j.enqueue(func(s *state) {
		defer close(finished)
		op(s)
	}) {
		return false
	}
	select {
	case <-finished:
		return true
	case <-j.done:
		return false
	}
}

// SetCookie submits a raw Set-Cookie field value received in the response
// to a request for u. It does not wait for the value to be applied, but any
// operation submitted afterwards observes it. Malformed or disallowed values
// are ignored.
func (j *Jar) SetCookie(u *url.URL, raw string) {
	if u == nil {
		panic("cookiejar: SetCookie with nil URL")
	}
	// The caller may reuse u once SetCookie returns.
	uc := *u
	j.enqueue(func(s *state) {
		s.setCookie(&uc, raw)
	})
}

// CookieHeader returns the Cookie header value for a request to u, or ""
// when no cookie applies. Selected cookies have their last access time
// updated.
func (j *Jar) CookieHeader(u *url.URL) string {
	if u == nil {
		panic("cookiejar: CookieHeader with nil URL")
	}
	var header string
	j.call(func(s *state) {
		header = cookieHeader(s.selectFor(u, s.now()))
	})
	return header
}

// FetchAll returns a snapshot of every unexpired record.
func (j *Jar) FetchAll() Store {
	var snap Store
	if !j.call(func(s *state) {
		snap = s.snapshot(s.now())
	}) {
		return Store{}
	}
	return snap
}

// Len returns the number of unexpired records.
func (j *Jar) Len() int {
	var n int
	j.call(func(s *state) {
		now := s.now()
		for _, rec := range s.store {
			if !rec.Expired(now) {
				n++
			}
		}
	})
	return n
}

// Load merges seed into the jar. Records replace stored records with the
// same identity.
func (j *Jar) Load(seed Store) {
	seed = seed.Clone()
	j.enqueue(func(s *state) {
		s.load(seed)
	})
}

// Sync blocks until every operation submitted before it has been applied.
func (j *Jar) Sync() {
	j.call(func(*state) {})
}

// Close stops the jar goroutine and waits for it to exit. Queued operations
// that have not started are discarded.
func (j *Jar) Close() {
	j.cancel()
	<-j.done
}
