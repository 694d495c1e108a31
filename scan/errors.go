package scan

import (
	"fmt"

	"github.com/meigma/reasset/internal/errdefs"
)

// ErrCycleDetected is returned when the dependency structure is not a forest.
var ErrCycleDetected = errdefs.ErrCycleDetected

// CycleError lists the entries that take part in, or are only reachable
// through, a reference cycle.
type CycleError struct {
	Nodes []int
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%v: %d entries %v", ErrCycleDetected, len(e.Nodes), e.Nodes)
}

func (e *CycleError) Unwrap() error { return ErrCycleDetected }

// EntryError records a failure confined to one archive entry.
type EntryError struct {
	Index int
	Err   error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("entry %d: %v", e.Index, e.Err)
}

func (e *EntryError) Unwrap() error { return e.Err }
