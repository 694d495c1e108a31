package format

import "github.com/meigma/reasset/internal/errdefs"

// Sentinel errors re-exported from internal/errdefs.
var (
	// ErrFormat is returned for an unrecognized magic or invalid header.
	ErrFormat = errdefs.ErrFormat

	// ErrCorruptData is returned when tables or offsets are inconsistent.
	ErrCorruptData = errdefs.ErrCorruptData
)
