package rcol

import (
	"errors"

	"github.com/meigma/reasset/internal/errdefs"
)

// Sentinel errors re-exported from internal/errdefs.
var (
	// ErrFormat is returned when the magic is not RCOL.
	ErrFormat = errdefs.ErrFormat

	// ErrCorruptData is returned when tables, offsets or shapes are inconsistent.
	ErrCorruptData = errdefs.ErrCorruptData

	// ErrAlreadyClaimed is returned when two references claim the same root.
	ErrAlreadyClaimed = errdefs.ErrAlreadyClaimed

	// ErrOrphanedRoot is returned when a root of the RSZ block is not
	// referenced by any collider or attachment.
	ErrOrphanedRoot = errdefs.ErrOrphanedRoot
)

var (
	// ErrUnknownBone is returned by BindSkeleton when a collider names a
	// bone the skeleton does not have.
	ErrUnknownBone = errors.New("rcol: unknown bone")

	// ErrUnsupportedShape is returned when a distance is requested from a
	// shape of unknown type.
	ErrUnsupportedShape = errors.New("rcol: unsupported shape")

	// ErrUserDataNotDecoded is returned by operations that need the user
	// data of colliders before it has been decoded.
	ErrUserDataNotDecoded = errors.New("rcol: user data not decoded")
)
