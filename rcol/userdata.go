package rcol

import (
	"fmt"

	"github.com/meigma/reasset/rsz"
)

// DecodeUserData deserializes the embedded RSZ block with reg and resolves
// every user data reference.
//
// Attachment i claims root i; colliders then claim their recorded roots in
// group order. A root claimed twice fails with ErrAlreadyClaimed and a root
// nobody claims fails with ErrOrphanedRoot; on failure the file is left as
// it was. Calling it again after a success fails with ErrAlreadyClaimed.
func (f *File) DecodeUserData(reg *rsz.Registry) error {
	if f.decoded {
		return fmt.Errorf("%w: user data already decoded", ErrAlreadyClaimed)
	}
	insts, err := f.RSZ.Deserialize(reg)
	if err != nil {
		return fmt.Errorf("rcol user data: %w", err)
	}
	roots := rsz.NewRoots(insts)

	// Resolve copies so a failed decode leaves every reference untouched.
	attachments := make([]rsz.UserDataRef, len(f.Attachments))
	for i := range f.Attachments {
		attachments[i] = f.Attachments[i].UserData
		if err := attachments[i].Resolve(roots); err != nil {
			return fmt.Errorf("rcol attachment %d: %w", i, err)
		}
	}
	colliders := make([][]rsz.UserDataRef, len(f.Groups))
	for gi := range f.Groups {
		g := &f.Groups[gi]
		colliders[gi] = make([]rsz.UserDataRef, len(g.Colliders))
		for ci := range g.Colliders {
			colliders[gi][ci] = g.Colliders[ci].UserData
			if err := colliders[gi][ci].Resolve(roots); err != nil {
				return fmt.Errorf("rcol group %s collider %d: %w", g.Name, ci, err)
			}
		}
	}
	if err := roots.Verify(); err != nil {
		return fmt.Errorf("rcol user data: %w", err)
	}

	for i := range f.Attachments {
		f.Attachments[i].UserData = attachments[i]
	}
	for gi := range f.Groups {
		for ci := range f.Groups[gi].Colliders {
			f.Groups[gi].Colliders[ci].UserData = colliders[gi][ci]
		}
	}
	f.decoded = true
	return nil
}

// UserDataDecoded reports whether DecodeUserData has succeeded.
func (f *File) UserDataDecoded() bool { return f.decoded }
