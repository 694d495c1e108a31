// Package errdefs holds the sentinel errors shared by the archive, RSZ and
// scan packages. Public packages re-export the ones they return.
package errdefs

import "errors"

var (
	// ErrFormat is returned when a container or file header is invalid.
	ErrFormat = errors.New("reasset: invalid format")

	// ErrIndexOutOfRange is returned when an archive index is not below the file count.
	ErrIndexOutOfRange = errors.New("reasset: index out of range")

	// ErrNotFound is returned when no archive entry matches a path hash.
	ErrNotFound = errors.New("reasset: not found")

	// ErrCorruptData is returned for size, bounds, enum or flag violations
	// found while decoding. It aborts the enclosing atomic unit.
	ErrCorruptData = errors.New("reasset: corrupt data")

	// ErrSizeOverflow is returned when a stored size does not fit the host integer type.
	ErrSizeOverflow = errors.New("reasset: size overflow")

	// ErrUnknownType is returned when a type hash is missing from the schema registry.
	ErrUnknownType = errors.New("reasset: unknown type")

	// ErrAlreadyClaimed is returned when an RSZ root is claimed a second time.
	ErrAlreadyClaimed = errors.New("reasset: root already claimed")

	// ErrOrphanedRoot is returned when RSZ roots remain unclaimed after resolution.
	ErrOrphanedRoot = errors.New("reasset: orphaned root")

	// ErrCycleDetected is returned when the dependency structure is not a forest.
	ErrCycleDetected = errors.New("reasset: cycle detected")
)
