package rsz

import "fmt"

// Roots is the arena of a block's root instances. Each slot can be claimed
// exactly once.
type Roots struct {
	slots   []*Instance
	claimed []bool
}

// NewRoots returns an arena over the roots returned by Deserialize.
func NewRoots(insts []*Instance) *Roots {
	return &Roots{slots: insts, claimed: make([]bool, len(insts))}
}

// Len returns the number of root slots.
func (r *Roots) Len() int { return len(r.slots) }

// Claim takes ownership of root i and clears its slot.
func (r *Roots) Claim(i int) (*Instance, error) {
	if i < 0 || i >= len(r.slots) {
		return nil, fmt.Errorf("%w: root %d of %d", ErrIndexOutOfRange, i, len(r.slots))
	}
	if r.claimed[i] {
		return nil, fmt.Errorf("%w: root %d", ErrAlreadyClaimed, i)
	}
	inst := r.slots[i]
	r.slots[i] = nil
	r.claimed[i] = true
	return inst, nil
}

// Unclaimed returns the indices of roots not yet claimed.
func (r *Roots) Unclaimed() []int {
	var out []int
	for i, c := range r.claimed {
		if !c {
			out = append(out, i)
		}
	}
	return out
}

// Verify returns an *OrphanedRootError if any root is unclaimed.
func (r *Roots) Verify() error {
	if left := r.Unclaimed(); len(left) > 0 {
		return &OrphanedRootError{Indices: left}
	}
	return nil
}

// UserDataRef is a reference from an enclosing format to a root. It starts
// as a root index and is converted, once, into the claimed instance.
type UserDataRef struct {
	index    int
	inst     *Instance
	resolved bool
}

// RootRef returns an unresolved reference to root index.
func RootRef(index int) UserDataRef {
	return UserDataRef{index: index}
}

// Index returns the root index. It reports false once the reference has
// been resolved.
func (u *UserDataRef) Index() (int, bool) {
	if u.resolved {
		return 0, false
	}
	return u.index, true
}

// Resolved reports whether Resolve has succeeded.
func (u *UserDataRef) Resolved() bool { return u.resolved }

// Resolve claims the referenced root from roots.
func (u *UserDataRef) Resolve(roots *Roots) error {
	if u.resolved {
		return fmt.Errorf("%w: reference already resolved", ErrAlreadyClaimed)
	}
	inst, err := roots.Claim(u.index)
	if err != nil {
		return err
	}
	u.inst = inst
	u.resolved = true
	return nil
}

// Instance returns the claimed instance, or nil before Resolve.
func (u *UserDataRef) Instance() *Instance { return u.inst }

// RefAs returns the bound value of the claimed instance as T.
func RefAs[T any](u *UserDataRef) (T, bool) {
	return As[T](u.inst)
}
