// Package cache provides bounded storage for decompressed archive entries.
package cache

// Cache maps an archive entry key to its decompressed content.
//
// Implementations must be safe for concurrent use. Content handed to Put
// and returned from Get is shared; callers must treat it as immutable.
type Cache interface {
	// Get returns cached content for key.
	// Returns nil, false if content is not cached.
	Get(key uint32) ([]byte, bool)

	// Put stores content for key, evicting older entries as needed.
	Put(key uint32, content []byte)

	// Delete removes cached content for key.
	// Missing entries are a no-op.
	Delete(key uint32)

	// Len returns the number of cached entries.
	Len() int

	// SizeBytes returns the total size of cached content.
	SizeBytes() int64
}
