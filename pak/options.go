package pak

import (
	"log/slog"
	"maps"
	"slices"
)

const (
	// DefaultMaxFileSize is the default maximum uncompressed entry size (1GB).
	DefaultMaxFileSize = 1 << 30

	// DefaultMaxDecoderMemory is the default maximum zstd decoder memory (256MB).
	DefaultMaxDecoderMemory = 256 << 20
)

// Option configures a Reader.
type Option func(*Reader)

// WithMaxFileSize sets the maximum uncompressed entry size.
// Set to 0 to disable the limit.
func WithMaxFileSize(limit uint64) Option {
	return func(r *Reader) {
		r.maxFileSize = limit
	}
}

// WithMaxDecoderMemory sets the maximum zstd decoder memory.
// Set to 0 to disable the limit.
func WithMaxDecoderMemory(limit uint64) Option {
	return func(r *Reader) {
		r.maxDecoderMemory = limit
	}
}

// WithDecoderConcurrency sets the zstd decoder concurrency (default: 1).
// Values < 0 are treated as 0 (use GOMAXPROCS).
func WithDecoderConcurrency(n int) Option {
	return func(r *Reader) {
		if n < 0 {
			n = 0
		}
		r.decoderConcurrency = n
	}
}

// WithDecoderLowmem sets whether zstd decoders use low-memory mode (default: false).
func WithDecoderLowmem(enabled bool) Option {
	return func(r *Reader) {
		r.decoderLowmem = enabled
	}
}

// WithCacheEntries keeps up to n decompressed entries in an LRU cache.
// Zero (the default) disables caching.
func WithCacheEntries(n int) Option {
	return func(r *Reader) {
		r.cacheEntries = n
	}
}

// WithPathPrefixes replaces the prefixes tried by Find (default: DefaultPrefixes).
func WithPathPrefixes(prefixes ...string) Option {
	return func(r *Reader) {
		r.prefixes = slices.Clone(prefixes)
	}
}

// WithSuffixes replaces the extension to version-suffix table used by Find
// (default: DefaultSuffixes).
func WithSuffixes(suffixes map[string]string) Option {
	return func(r *Reader) {
		r.suffixes = maps.Clone(suffixes)
	}
}

// WithLogger sets the logger for archive operations.
// If not set, logging is disabled.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reader) {
		r.logger = logger
	}
}
