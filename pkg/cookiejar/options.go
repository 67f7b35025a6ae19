package cookiejar

import (
	"time"

	"github.com/adhocore/gronx"
	"github.com/warpdl/warpjar/pkg/logger"
)

// PathOrder selects how cookies of different path lengths are ordered in
// the Cookie header. Cookies of equal path length are always ordered by
// creation time, oldest first.
type PathOrder int

const (
	// PathOrderAscending sends shorter paths first. It is the default.
	PathOrderAscending PathOrder = iota
	// PathOrderDescending sends longer, more specific paths first as
	// suggested by RFC 6265 §5.4.
	PathOrderDescending
)

const defaultQueueSize = 64

// Option configures a Jar.
type Option func(*options)

type options struct {
	clock        func() time.Time
	log          logger.Logger
	canonicalize Canonicalizer
	psl          PublicSuffixList
	seed         Store
	sweepCron    string
	order        PathOrder
	queueSize    int
	// nextTick returns the first sweep tick after ref.
	nextTick func(expr string, ref time.Time) (time.Time, error)
}

func gronxNextTick(expr string, ref time.Time) (time.Time, error) {
	return gronx.NextTickAfter(expr, ref, false)
}

func newOptions(opts ...Option) *options {
	o := &options{
		clock:        time.Now,
		log:          logger.NewNopLogger(),
		canonicalize: IdentityCanonicalizer,
		queueSize:    defaultQueueSize,
		nextTick:     gronxNextTick,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithClock sets the time source. Defaults to time.Now.
func WithClock(clock func() time.Time) Option {
	if clock == nil {
		panic("cookiejar: nil clock")
	}
	return func(o *options) {
		o.clock = clock
	}
}

// WithLogger sets the logger used to report ignored cookies.
// Defaults to a NopLogger.
func WithLogger(l logger.Logger) Option {
	if l == nil {
		panic("cookiejar: nil logger")
	}
	return func(o *options) {
		o.log = l
	}
}

// WithCanonicalizer sets the host canonicalization applied to request hosts.
// Defaults to IdentityCanonicalizer.
func WithCanonicalizer(c Canonicalizer) Option {
	if c == nil {
		panic("cookiejar: nil canonicalizer")
	}
	return func(o *options) {
		o.canonicalize = c
	}
}

// WithPublicSuffixList rejects Domain attributes that name a public suffix.
// No list is consulted by default, which lets a server set cookies for a
// whole top-level domain.
func WithPublicSuffixList(psl PublicSuffixList) Option {
	return func(o *options) {
		o.psl = psl
	}
}

// WithStore pre-seeds the jar, for example with restored state.
// The store is copied.
func WithStore(s Store) Option {
	return func(o *options) {
		o.seed = s.Clone()
	}
}

// WithSweep deletes expired records on every tick of the cron expression.
// Expired records are invisible either way, so this only bounds memory.
func WithSweep(cronExpr string) Option {
	return func(o *options) {
		o.sweepCron = cronExpr
	}
}

// WithPathOrder sets the Cookie header ordering. Defaults to
// PathOrderAscending.
func WithPathOrder(order PathOrder) Option {
	return func(o *options) {
		o.order = order
	}
}

// WithQueueSize sets how many operations may wait for the jar goroutine
// before submitters block.
func WithQueueSize(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.queueSize = n
		}
	}
}
