package reasset

import (
	"log/slog"
	"slices"

	"github.com/meigma/reasset/pak"
	"github.com/meigma/reasset/rsz"
	"github.com/meigma/reasset/scan"
)

// Option configures the package-level entry points.
type Option func(*config)

type config struct {
	logger      *slog.Logger
	workers     int
	progress    scan.ProgressFunc
	registry    *rsz.Registry
	archiveOpts []pak.Option
}

func newConfig(opts []Option) *config {
	c := &config{}
	for _, opt := range opts {
		opt(c)
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

// WithLogger sets the logger passed to the archive reader and scans.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithWorkers sets the scan concurrency.
//
// Default: GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(c *config) {
		c.workers = n
	}
}

// WithProgress sets a callback invoked after each scanned entry.
func WithProgress(fn scan.ProgressFunc) Option {
	return func(c *config) {
		c.progress = fn
	}
}

// WithRegistry sets the schema registry used to decode RSZ user data.
// ScanRCOL decodes and claims user data only when a registry is set.
//
// Default for DumpRCOL: the compiled-in class table.
func WithRegistry(reg *rsz.Registry) Option {
	return func(c *config) {
		c.registry = reg
	}
}

// WithArchiveOptions appends options for opening the archive.
func WithArchiveOptions(opts ...pak.Option) Option {
	return func(c *config) {
		c.archiveOpts = append(c.archiveOpts, opts...)
	}
}

func (c *config) open(path string) (*pak.Reader, error) {
	opts := slices.Concat([]pak.Option{pak.WithLogger(c.log())}, c.archiveOpts)
	return pak.Open(path, opts...)
}

func (c *config) scanOptions() []scan.Option {
	opts := []scan.Option{scan.WithLogger(c.log()), scan.WithProgress(c.progress)}
	if c.workers > 0 {
		opts = append(opts, scan.WithWorkers(c.workers))
	}
	if c.registry != nil {
		opts = append(opts, scan.WithRegistry(c.registry))
	}
	return opts
}
