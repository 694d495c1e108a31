package rsz

import (
	"fmt"
	"strings"

	"github.com/meigma/reasset/internal/errdefs"
)

// Sentinel errors re-exported from internal/errdefs.
var (
	// ErrFormat is returned when the block header is invalid.
	ErrFormat = errdefs.ErrFormat

	// ErrCorruptData is returned for bounds, enum, flag and reference violations.
	ErrCorruptData = errdefs.ErrCorruptData

	// ErrUnknownType is returned when a type tag is missing from the registry.
	ErrUnknownType = errdefs.ErrUnknownType

	// ErrAlreadyClaimed is returned when a root is claimed a second time.
	ErrAlreadyClaimed = errdefs.ErrAlreadyClaimed

	// ErrOrphanedRoot is returned when roots remain unclaimed.
	ErrOrphanedRoot = errdefs.ErrOrphanedRoot

	// ErrIndexOutOfRange is returned when a root index is not below the root count.
	ErrIndexOutOfRange = errdefs.ErrIndexOutOfRange
)

// UnknownTypeError reports a type tag the registry cannot resolve.
type UnknownTypeError struct {
	// Tag is the raw tag read from the block.
	Tag Tag

	// Index is the instance slot carrying the tag, or 0 when not known.
	Index int

	// Name is set when the hash matched a registered class whose pinned crc
	// differs from the tag's.
	Name string
}

func (e *UnknownTypeError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v: %s", ErrUnknownType, e.Tag)
	if e.Index != 0 {
		fmt.Fprintf(&b, " at instance %d", e.Index)
	}
	if e.Name != "" {
		fmt.Fprintf(&b, " (crc mismatch for %s)", e.Name)
	}
	return b.String()
}

func (e *UnknownTypeError) Unwrap() error { return ErrUnknownType }

// OrphanedRootError lists the roots nobody claimed.
type OrphanedRootError struct {
	Indices []int
}

func (e *OrphanedRootError) Error() string {
	return fmt.Sprintf("%v: %d unclaimed %v", ErrOrphanedRoot, len(e.Indices), e.Indices)
}

func (e *OrphanedRootError) Unwrap() error { return ErrOrphanedRoot }

func corruptf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCorruptData, fmt.Sprintf(format, args...))
}
