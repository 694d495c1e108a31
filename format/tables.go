package format

import (
	"fmt"

	"github.com/meigma/reasset/internal/binio"
	"github.com/meigma/reasset/internal/sizing"
	"github.com/meigma/reasset/rsz"
)

// Child is one entry of a child list.
type Child struct {
	Hash uint32
	Name string
}

func childNames(children []Child) []string {
	out := make([]string, len(children))
	for i, c := range children {
		out[i] = c.Name
	}
	return out
}

// header reads the magic and count fields shared by all three formats.
func header(r *binio.Reader, want string, counts ...*uint32) error {
	m, err := r.Magic()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFormat, err)
	}
	if string(m[:]) != want {
		return fmt.Errorf("%w: magic %q, want %q", ErrFormat, m[:], want)
	}
	for _, c := range counts {
		if *c, err = r.U32(); err != nil {
			return fmt.Errorf("%w: header: %v", ErrFormat, err)
		}
	}
	return nil
}

// offsets reads consecutive u64 header offsets.
func offsets(r *binio.Reader, offs ...*uint64) error {
	var err error
	for _, o := range offs {
		if *o, err = r.U64(); err != nil {
			return fmt.Errorf("%w: header: %v", ErrFormat, err)
		}
	}
	return nil
}

// fits checks that count records of size bytes fit after the cursor before
// anything is allocated for them.
func fits(r *binio.Reader, what string, count uint32, size int) error {
	if !sizing.InBounds(uint64(r.Pos()), uint64(count)*uint64(size), uint64(r.Len())) { //nolint:gosec // non-negative
		return fmt.Errorf("%w: %d %s records exceed file", ErrCorruptData, count, what)
	}
	return nil
}

// stringAt reads an offset field and the UTF-16 string it points to.
func stringAt(r *binio.Reader) (string, error) {
	off, err := r.U64()
	if err != nil {
		return "", err
	}
	return r.U16StrAt(off)
}

func readResources(r *binio.Reader, count uint32) ([]string, error) {
	if err := fits(r, "resource", count, 8); err != nil {
		return nil, err
	}
	out := make([]string, count)
	for i := range out {
		s, err := stringAt(r)
		if err != nil {
			return nil, fmt.Errorf("resource %d: %w", i, err)
		}
		out[i] = s
	}
	return out, nil
}

func readChildren(r *binio.Reader, off uint64, count uint32) ([]Child, error) {
	if err := r.SeekAssertAlignUp(off, 16); err != nil {
		return nil, fmt.Errorf("child list: %w", err)
	}
	if err := fits(r, "child", count, 16); err != nil {
		return nil, err
	}
	out := make([]Child, count)
	for i := range out {
		hash, _ := r.U32() //nolint:errcheck // bounds checked by fits
		if err := r.ExpectU32(0); err != nil {
			return nil, fmt.Errorf("child %d: %w", i, err)
		}
		name, err := stringAt(r)
		if err != nil {
			return nil, fmt.Errorf("child %d: %w", i, err)
		}
		out[i] = Child{Hash: hash, Name: name}
	}
	return out, nil
}

// embedded validates the placement of the RSZ block and parses its header.
// The block ends at end, or at the end of the file when end is zero.
func embedded(r *binio.Reader, off, end uint64) (*rsz.Block, error) {
	if off%16 != 0 || off < uint64(r.Pos()) { //nolint:gosec // non-negative
		return nil, fmt.Errorf("%w: rsz offset 0x%x before 0x%x or misaligned", ErrCorruptData, off, r.Pos())
	}
	buf := r.Bytes()
	if end != 0 {
		if end > uint64(len(buf)) || end < off {
			return nil, fmt.Errorf("%w: rsz block [0x%x, 0x%x) exceeds file", ErrCorruptData, off, end)
		}
		buf = buf[:end]
	}
	return rsz.Parse(buf, off)
}
