package format

import (
	"fmt"
	"slices"

	"github.com/meigma/reasset/internal/binio"
	"github.com/meigma/reasset/rsz"
)

const userHeaderSize = 48

// User is a parsed USER data file.
type User struct {
	Resources []string
	Children  []Child

	// RSZ is the embedded block, parsed but not decoded.
	RSZ *rsz.Block
}

// ParseUser parses the tables of a USER file and the header of its RSZ block.
func ParseUser(data []byte) (*User, error) {
	r := binio.NewReader(data)
	var resCount, childCount, reserved uint32
	if err := header(r, "USR\x00", &resCount, &childCount, &reserved); err != nil {
		return nil, err
	}
	var resOff, childOff, rszOff, rszSize uint64
	if err := offsets(r, &resOff, &childOff, &rszOff, &rszSize); err != nil {
		return nil, err
	}

	f := &User{}
	var err error
	if err = r.SeekNoop(resOff); err != nil {
		return nil, fmt.Errorf("user resource list: %w", err)
	}
	if f.Resources, err = readResources(r, resCount); err != nil {
		return nil, fmt.Errorf("user: %w", err)
	}
	if f.Children, err = readChildren(r, childOff, childCount); err != nil {
		return nil, fmt.Errorf("user: %w", err)
	}
	end := rszOff + rszSize
	if end < rszOff {
		return nil, fmt.Errorf("%w: user rsz size 0x%x overflows", ErrCorruptData, rszSize)
	}
	if f.RSZ, err = embedded(r, rszOff, end); err != nil {
		return nil, fmt.Errorf("user: %w", err)
	}
	return f, nil
}

// Names returns the child names followed by the resource names.
func (f *User) Names() []string {
	return slices.Concat(childNames(f.Children), f.Resources)
}

// DecodeUser parses a USER file and deserializes its RSZ roots with reg.
func DecodeUser(data []byte, reg *rsz.Registry) (*User, []*rsz.Instance, error) {
	f, err := ParseUser(data)
	if err != nil {
		return nil, nil, err
	}
	roots, err := f.RSZ.Deserialize(reg)
	if err != nil {
		return nil, nil, fmt.Errorf("user: %w", err)
	}
	return f, roots, nil
}
