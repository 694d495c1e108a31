package pak

import "github.com/meigma/reasset/internal/errdefs"

// Sentinel errors re-exported from internal/errdefs.
var (
	// ErrFormat is returned when the archive header or entry table is invalid.
	ErrFormat = errdefs.ErrFormat

	// ErrIndexOutOfRange is returned when an index is not below FileCount.
	ErrIndexOutOfRange = errdefs.ErrIndexOutOfRange

	// ErrNotFound is returned when no entry matches any candidate path hash.
	ErrNotFound = errdefs.ErrNotFound

	// ErrCorruptData is returned when stored sizes or payloads are inconsistent.
	ErrCorruptData = errdefs.ErrCorruptData

	// ErrSizeOverflow is returned when a stored size does not fit in memory.
	ErrSizeOverflow = errdefs.ErrSizeOverflow
)
