package scan

import (
	"log/slog"
	"maps"
	"runtime"
	"slices"

	"github.com/meigma/reasset/pak"
	"github.com/meigma/reasset/rsz"
)

// Option configures a pass.
type Option func(*config)

type config struct {
	workers    int
	logger     *slog.Logger
	progress   ProgressFunc
	registry   *rsz.Registry
	extensions []string
}

func newConfig(opts []Option) *config {
	c := &config{
		workers:    runtime.GOMAXPROCS(0),
		extensions: slices.Sorted(maps.Keys(pak.DefaultSuffixes)),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.workers < 1 {
		c.workers = 1
	}
	return c
}

// log returns the logger, falling back to a discard logger if nil.
func (c *config) log() *slog.Logger {
	if c.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.logger
}

// WithWorkers sets how many entries are processed concurrently.
// Values < 1 process one entry at a time.
//
// Default: GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(c *config) {
		c.workers = n
	}
}

// WithLogger sets the logger for per-entry failures and unresolved names.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithProgress sets a callback invoked after each entry.
func WithProgress(fn ProgressFunc) Option {
	return func(c *config) {
		c.progress = fn
	}
}

// WithRegistry makes Collisions decode and claim the user data of every
// collision file with reg. Without it only the tables are validated.
func WithRegistry(reg *rsz.Registry) Option {
	return func(c *config) {
		c.registry = reg
	}
}

// WithExtensions sets the file extensions Paths searches for.
//
// Default: the extensions of pak.DefaultSuffixes.
func WithExtensions(exts ...string) Option {
	return func(c *config) {
		c.extensions = slices.Clone(exts)
	}
}
