package server

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/warpdl/warpjar/pkg/cookiejar"
	"github.com/warpdl/warpjar/pkg/logger"
	"golang.org/x/net/publicsuffix"
)

// ErrJarNotFound is returned when a named jar does not exist.
var ErrJarNotFound = errors.New("error: jar not found")

// JarConfig holds the options every daemon jar is created with.
type JarConfig struct {
	// Canonicalize enables IDNA host canonicalization.
	Canonicalize bool
	// PublicSuffix rejects Domain attributes that are public suffixes.
	PublicSuffix bool
	// SweepCron schedules expired-record sweeps. Empty disables sweeping.
	SweepCron string
	// LongestPathFirst orders Cookie headers by descending path length.
	LongestPathFirst bool
}

// DefaultJarConfig is what the daemon uses unless flags override it.
func DefaultJarConfig() JarConfig {
	return JarConfig{
		Canonicalize: true,
		PublicSuffix: true,
	}
}

func (c JarConfig) options(l logger.Logger) []cookiejar.Option {
	opts := []cookiejar.Option{cookiejar.WithLogger(l)}
	if c.Canonicalize {
		opts = append(opts, cookiejar.WithCanonicalizer(cookiejar.IDNACanonicalizer))
	}
	if c.PublicSuffix {
		opts = append(opts, cookiejar.WithPublicSuffixList(publicsuffix.List))
	}
	if c.SweepCron != "" {
		opts = append(opts, cookiejar.WithSweep(c.SweepCron))
	}
	if c.LongestPathFirst {
		opts = append(opts, cookiejar.WithPathOrder(cookiejar.PathOrderDescending))
	}
	return opts
}

// jarRegistry owns the daemon's named jars. Each jar is an independent
// actor; the registry lock only guards the name table.
type jarRegistry struct {
	mu   sync.Mutex
	ctx  context.Context
	cfg  JarConfig
	log  logger.Logger
	jars map[string]*cookiejar.Jar
}

func newJarRegistry(ctx context.Context, cfg JarConfig, l logger.Logger) *jarRegistry {
	return &jarRegistry{
		ctx:  ctx,
		cfg:  cfg,
		log:  l,
		jars: make(map[string]*cookiejar.Jar),
	}
}

// get returns the named jar, creating it when create is set.
func (r *jarRegistry) get(name string, create bool) (*cookiejar.Jar, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if j, ok := r.jars[name]; ok {
		return j, nil
	}
	if !create {
		return nil, ErrJarNotFound
	}
	j := cookiejar.New(r.ctx, r.cfg.options(r.log)...)
	r.jars[name] = j
	r.log.Info("created jar %q", name)
	return j, nil
}

// names returns the jar names in sorted order.
func (r *jarRegistry) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.jars))
	for name := range r.jars {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// drop closes and forgets the named jar.
func (r *jarRegistry) drop(name string) error {
	r.mu.Lock()
	j, ok := r.jars[name]
	delete(r.jars, name)
	r.mu.Unlock()
	if !ok {
		return ErrJarNotFound
	}
	j.Close()
	r.log.Info("dropped jar %q", name)
	return nil
}

// closeAll closes every jar and empties the registry.
func (r *jarRegistry) closeAll() {
	r.mu.Lock()
	jars := r.jars
	r.jars = make(map[string]*cookiejar.Jar)
	r.mu.Unlock()
	for _, j := range jars {
		j.Close()
	}
}
