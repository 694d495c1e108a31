package rsz

import (
	"fmt"

	"github.com/meigma/reasset/internal/binio"
	"github.com/meigma/reasset/internal/sizing"
)

// Version is the only supported block version.
const Version = 0x10

var magic = [4]byte{'R', 'S', 'Z', 0}

// Block is a parsed but not yet decoded RSZ block.
type Block struct {
	// Roots are the instance indices of the block's roots, in file order.
	Roots []uint32

	// Tags holds one type tag per instance slot; slot 0 is the null slot.
	Tags []Tag

	// Externs lists the slots stored in other files.
	Externs []ExternRef

	data []byte
}

// Parse reads the block header and tables at base. Offsets inside the block
// are relative to base; the data section runs to the end of buf, so callers
// embedding a block in a larger file pass buf sliced to the block's end.
func Parse(buf []byte, base uint64) (*Block, error) {
	r := binio.NewReader(buf)
	if err := r.Seek(base); err != nil {
		return nil, fmt.Errorf("%w: rsz base 0x%x: %v", ErrFormat, base, err)
	}

	m, err := r.Magic()
	if err != nil {
		return nil, fmt.Errorf("%w: rsz header: %v", ErrFormat, err)
	}
	if m != magic {
		return nil, fmt.Errorf("%w: rsz magic %q", ErrFormat, m[:])
	}
	var h struct {
		version, roots, types, externs, reserved uint32
		typeOff, dataOff, externOff              uint64
	}
	for _, p := range []*uint32{&h.version, &h.roots, &h.types, &h.externs, &h.reserved} {
		if *p, err = r.U32(); err != nil {
			return nil, fmt.Errorf("%w: rsz header: %v", ErrFormat, err)
		}
	}
	for _, p := range []*uint64{&h.typeOff, &h.dataOff, &h.externOff} {
		if *p, err = r.U64(); err != nil {
			return nil, fmt.Errorf("%w: rsz header: %v", ErrFormat, err)
		}
	}
	if h.version != Version {
		return nil, fmt.Errorf("%w: rsz version 0x%x", ErrFormat, h.version)
	}
	if h.types == 0 {
		return nil, corruptf("rsz type table has no null slot")
	}

	size := uint64(len(buf)) - base
	b := &Block{}
	if !sizing.InBounds(uint64(r.Pos())-base, uint64(h.roots)*4, size) {
		return nil, corruptf("%d roots exceed block", h.roots)
	}
	b.Roots = make([]uint32, h.roots)
	for i := range b.Roots {
		if b.Roots[i], err = r.U32(); err != nil {
			return nil, err
		}
	}
	headerEnd := uint64(r.Pos()) - base

	if err := checkTable("type", h.typeOff, 8, uint64(h.types)*8, headerEnd, size); err != nil {
		return nil, err
	}
	_ = r.Seek(base + h.typeOff) //nolint:errcheck // bounds checked above
	b.Tags = make([]Tag, h.types)
	for i := range b.Tags {
		hash, _ := r.U32() //nolint:errcheck // bounds checked above
		crc, _ := r.U32()  //nolint:errcheck // bounds checked above
		b.Tags[i] = MakeTag(hash, crc)
	}
	if b.Tags[0] != 0 {
		return nil, corruptf("rsz null slot holds %s", b.Tags[0])
	}
	typeEnd := h.typeOff + uint64(h.types)*8

	if err := checkTable("extern", h.externOff, 16, uint64(h.externs)*16, typeEnd, size); err != nil {
		return nil, err
	}
	if b.Externs, err = readExterns(r, base, h.externOff, h.externs, b.Tags); err != nil {
		return nil, err
	}
	externEnd := h.externOff + uint64(h.externs)*16

	if err := checkTable("data", h.dataOff, 16, 0, externEnd, size); err != nil {
		return nil, err
	}
	b.data = buf[base+h.dataOff:]
	return b, nil
}

// checkTable validates a table's alignment and placement after prev.
func checkTable(name string, off uint64, align int, length, prev, size uint64) error {
	if off%uint64(align) != 0 { //nolint:gosec // small constant
		return corruptf("rsz %s offset 0x%x is not %d-aligned", name, off, align)
	}
	if off < prev {
		return corruptf("rsz %s offset 0x%x overlaps preceding table ending at 0x%x", name, off, prev)
	}
	if !sizing.InBounds(off, length, size) {
		return corruptf("rsz %s table [0x%x, +0x%x) exceeds block of 0x%x bytes", name, off, length, size)
	}
	return nil
}

func readExterns(r *binio.Reader, base, off uint64, count uint32, tags []Tag) ([]ExternRef, error) {
	_ = r.Seek(base + off) //nolint:errcheck // bounds checked by caller
	externs := make([]ExternRef, 0, count)
	seen := make(map[uint32]bool, count)
	for range count {
		slot, _ := r.U32()    //nolint:errcheck // bounds checked by caller
		hash, _ := r.U32()    //nolint:errcheck // bounds checked by caller
		pathOff, _ := r.U64() //nolint:errcheck // bounds checked by caller
		if slot == 0 || int(slot) >= len(tags) {
			return nil, corruptf("rsz extern slot %d out of range", slot)
		}
		if seen[slot] {
			return nil, corruptf("rsz extern slot %d listed twice", slot)
		}
		seen[slot] = true
		if tags[slot].Hash() != hash {
			return nil, corruptf("rsz extern slot %d hash 0x%08x does not match %s", slot, hash, tags[slot])
		}
		abs, ok := sizing.AddUint64(base, pathOff)
		if !ok {
			return nil, corruptf("rsz extern path offset 0x%x overflows", pathOff)
		}
		path, err := r.U16StrAt(abs)
		if err != nil {
			return nil, fmt.Errorf("rsz extern slot %d path: %w", slot, err)
		}
		externs = append(externs, ExternRef{Slot: int(slot), Tag: tags[slot], Path: path})
	}
	return externs, nil
}

// InstanceCount returns the number of instance slots excluding the null slot.
func (b *Block) InstanceCount() int { return len(b.Tags) - 1 }

// DataSize returns the size of the data section in bytes.
func (b *Block) DataSize() int { return len(b.data) }

// Unresolved returns the distinct non-external tags reg cannot resolve, in
// slot order.
func (b *Block) Unresolved(reg *Registry) []Tag {
	external := make(map[int]bool, len(b.Externs))
	for _, e := range b.Externs {
		external[e.Slot] = true
	}
	var out []Tag
	seen := make(map[Tag]bool)
	for i := 1; i < len(b.Tags); i++ {
		tag := b.Tags[i]
		if external[i] || seen[tag] {
			continue
		}
		if _, err := reg.Resolve(tag); err != nil {
			seen[tag] = true
			out = append(out, tag)
		}
	}
	return out
}
