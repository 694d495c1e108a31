package reasset

import (
	"github.com/meigma/reasset/internal/errdefs"
	"github.com/meigma/reasset/pak"
)

// Re-export types from pak for public API.
type (
	// Index identifies an archive entry by position.
	Index = pak.Index

	// ExtractStats summarizes an ExtractTree run.
	ExtractStats = pak.ExtractStats
)

// Sentinel errors re-exported from internal/errdefs.
var (
	// ErrFormat is returned when a container or file header is invalid.
	ErrFormat = errdefs.ErrFormat

	// ErrIndexOutOfRange is returned when an archive index is not below the file count.
	ErrIndexOutOfRange = errdefs.ErrIndexOutOfRange

	// ErrNotFound is returned when no archive entry matches a path.
	ErrNotFound = errdefs.ErrNotFound

	// ErrCorruptData is returned when stored sizes, bounds or values are inconsistent.
	ErrCorruptData = errdefs.ErrCorruptData

	// ErrUnknownType is returned when an RSZ type is missing from the registry.
	ErrUnknownType = errdefs.ErrUnknownType

	// ErrAlreadyClaimed is returned when an RSZ root is referenced twice.
	ErrAlreadyClaimed = errdefs.ErrAlreadyClaimed

	// ErrOrphanedRoot is returned when RSZ roots remain unreferenced.
	ErrOrphanedRoot = errdefs.ErrOrphanedRoot

	// ErrCycleDetected is returned when the dependency structure is not a forest.
	ErrCycleDetected = errdefs.ErrCycleDetected
)
