package rsz

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"github.com/meigma/reasset/internal/binio"
)

// Deserialize parses the block at base and decodes it with reg.
func Deserialize(buf []byte, base uint64, reg *Registry) ([]*Instance, error) {
	b, err := Parse(buf, base)
	if err != nil {
		return nil, err
	}
	return b.Deserialize(reg)
}

// Deserialize decodes every instance of the block and returns the roots in
// file order.
//
// Instances are decoded in slot order. An object reference must point to an
// earlier slot and takes ownership of it; roots take ownership of their
// slots; a slot owned twice or not at all is ErrCorruptData. The data
// section must be consumed exactly, apart from fewer than 16 zero bytes of
// trailing alignment. Any failure discards the whole block.
func (b *Block) Deserialize(reg *Registry) ([]*Instance, error) {
	d := &decoder{
		reg:   reg,
		r:     binio.NewReader(b.data),
		insts: make([]*Instance, len(b.Tags)),
		owned: make([]bool, len(b.Tags)),
	}
	external := make(map[int]*ExternRef, len(b.Externs))
	for i := range b.Externs {
		external[b.Externs[i].Slot] = &b.Externs[i]
	}

	for i := 1; i < len(b.Tags); i++ {
		if ext, ok := external[i]; ok {
			d.insts[i] = &Instance{Index: i, Extern: ext}
			continue
		}
		inst, err := d.instance(i, b.Tags[i])
		if err != nil {
			return nil, err
		}
		d.insts[i] = inst
	}

	if err := d.checkTail(); err != nil {
		return nil, err
	}

	roots := make([]*Instance, len(b.Roots))
	for k, idx := range b.Roots {
		if idx == 0 || int(idx) >= len(d.insts) {
			return nil, corruptf("root %d names instance %d of %d", k, idx, len(d.insts)-1)
		}
		if d.owned[idx] {
			return nil, corruptf("root %d names instance %d which is already referenced", k, idx)
		}
		d.owned[idx] = true
		roots[k] = d.insts[idx]
	}
	for i := 1; i < len(d.owned); i++ {
		if !d.owned[i] {
			return nil, corruptf("instance %d is neither referenced nor a root", i)
		}
	}
	return roots, nil
}

type decoder struct {
	reg     *Registry
	r       *binio.Reader
	insts   []*Instance
	owned   []bool
	current int
}

func (d *decoder) instance(i int, tag Tag) (*Instance, error) {
	t, err := d.reg.Resolve(tag)
	if err != nil {
		var unknown *UnknownTypeError
		if errors.As(err, &unknown) {
			unknown.Index = i
		}
		return nil, err
	}

	d.current = i
	inst := &Instance{Index: i, Object: Object{Type: t}}
	if inst.Fields, err = d.fields(t.Fields); err != nil {
		return nil, fmt.Errorf("instance %d (%s): %w", i, t.Name, err)
	}
	if t.bind != nil {
		if inst.Value, err = t.bind(inst); err != nil {
			return nil, fmt.Errorf("instance %d (%s): bind: %w", i, t.Name, err)
		}
	}
	return inst, nil
}

// checkTail accepts only a short run of zero padding after the last instance.
func (d *decoder) checkTail() error {
	rest := d.r.Bytes()[d.r.Pos():]
	if len(rest) >= 16 {
		return corruptf("%d bytes left after last instance", len(rest))
	}
	for _, c := range rest {
		if c != 0 {
			return corruptf("non-zero trailing byte after last instance")
		}
	}
	return nil
}

func (d *decoder) fields(specs []FieldSpec) ([]Field, error) {
	out := make([]Field, 0, len(specs))
	for i := range specs {
		f := &specs[i]
		if f.Kind == KindAlign {
			if err := d.r.AlignUp(f.Align); err != nil {
				return nil, err
			}
			continue
		}
		v, err := d.value(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Name, err)
		}
		out = append(out, Field{Name: f.Name, Value: v})
	}
	return out, nil
}

func (d *decoder) value(f *FieldSpec) (any, error) {
	if err := d.r.AlignUp(f.alignment()); err != nil {
		return nil, err
	}

	switch f.Kind {
	case KindBool:
		v, err := d.r.U8()
		if err != nil {
			return nil, err
		}
		if v > 1 {
			return nil, corruptf("bool value %d", v)
		}
		return v == 1, nil
	case KindU8, KindS8, KindU16, KindS16, KindU32, KindS32, KindU64, KindS64:
		return d.scalar(f.Kind)
	case KindF32:
		return d.r.F32()
	case KindF64:
		return d.r.F64()
	case KindVec2:
		x, err := d.r.F32()
		if err != nil {
			return nil, err
		}
		y, err := d.r.F32()
		if err != nil {
			return nil, err
		}
		return mgl32.Vec2{x, y}, nil
	case KindVec3:
		v, err := d.r.Vec4()
		if err != nil {
			return nil, err
		}
		return v.Vec3(), nil
	case KindVec4:
		return d.r.Vec4()
	case KindQuat:
		v, err := d.r.Vec4()
		if err != nil {
			return nil, err
		}
		return mgl32.Quat{W: v[3], V: v.Vec3()}, nil
	case KindString:
		return d.str()
	case KindGUID:
		raw, err := d.r.Read(16)
		if err != nil {
			return nil, err
		}
		return uuid.FromBytes(raw)
	case KindObject:
		idx, err := d.r.U32()
		if err != nil {
			return nil, err
		}
		return d.ref(idx, f.Class)
	case KindStruct:
		fields, err := d.fields(f.Struct.Fields)
		if err != nil {
			return nil, err
		}
		return &Object{Type: f.Struct, Fields: fields}, nil
	case KindEnum:
		v, _, err := d.integer(f.Enum.Width)
		if err != nil {
			return nil, err
		}
		name, ok := f.Enum.Lookup(v)
		if !ok {
			return nil, corruptf("%d is not a %s", v, f.Enum.Name)
		}
		return EnumValue{Spec: f.Enum, Name: name, Value: v}, nil
	case KindFlags:
		_, bits, err := d.integer(f.Flags.Width)
		if err != nil {
			return nil, err
		}
		if extra := bits &^ f.Flags.Mask(); extra != 0 {
			return nil, corruptf("%s has undeclared bits 0x%x", f.Flags.Name, extra)
		}
		return FlagsValue{Spec: f.Flags, Bits: bits}, nil
	case KindSequence, KindArray:
		return d.sequence(f)
	}
	return nil, corruptf("unsupported field kind %s", f.Kind)
}

func (d *decoder) scalar(k Kind) (any, error) {
	v, bits, err := d.integer(k)
	if err != nil {
		return nil, err
	}
	switch k {
	case KindU8:
		return uint8(bits), nil //nolint:gosec // width-checked
	case KindS8:
		return int8(v), nil //nolint:gosec // width-checked
	case KindU16:
		return uint16(bits), nil //nolint:gosec // width-checked
	case KindS16:
		return int16(v), nil //nolint:gosec // width-checked
	case KindU32:
		return uint32(bits), nil //nolint:gosec // width-checked
	case KindS32:
		return int32(v), nil //nolint:gosec // width-checked
	case KindU64:
		return bits, nil
	default:
		return v, nil
	}
}

// integer reads an integer of kind k and returns it both sign-extended per
// k and as raw bits.
func (d *decoder) integer(k Kind) (int64, uint64, error) {
	switch k {
	case KindU8, KindS8:
		v, err := d.r.U8()
		if k == KindS8 {
			return int64(int8(v)), uint64(v), err //nolint:gosec // reinterpretation
		}
		return int64(v), uint64(v), err
	case KindU16, KindS16:
		v, err := d.r.U16()
		if k == KindS16 {
			return int64(int16(v)), uint64(v), err //nolint:gosec // reinterpretation
		}
		return int64(v), uint64(v), err
	case KindU32, KindS32:
		v, err := d.r.U32()
		if k == KindS32 {
			return int64(int32(v)), uint64(v), err //nolint:gosec // reinterpretation
		}
		return int64(v), uint64(v), err
	case KindU64, KindS64:
		v, err := d.r.U64()
		return int64(v), v, err //nolint:gosec // reinterpretation
	}
	return 0, 0, corruptf("%s is not an integer kind", k)
}

// str reads a count-prefixed UTF-16 string. The count includes the
// terminator; a zero count is the empty string.
func (d *decoder) str() (string, error) {
	count, err := d.r.U32()
	if err != nil {
		return "", err
	}
	if count == 0 {
		return "", nil
	}
	if uint64(count)*2 > uint64(d.r.Remaining()) { //nolint:gosec // Remaining is non-negative
		return "", corruptf("string of %d units exceeds data", count)
	}
	raw, err := d.r.Read(int(count) * 2)
	if err != nil {
		return "", err
	}
	if raw[len(raw)-2] != 0 || raw[len(raw)-1] != 0 {
		return "", corruptf("string is not NUL-terminated")
	}
	return binio.DecodeUTF16(raw[:len(raw)-2])
}

func (d *decoder) ref(idx uint32, class string) (*Instance, error) {
	if idx == 0 {
		return nil, nil
	}
	if int(idx) >= d.current {
		return nil, corruptf("instance %d references %d which is not decoded yet", d.current, idx)
	}
	if d.owned[idx] {
		return nil, corruptf("instance %d is referenced twice", idx)
	}
	target := d.insts[idx]
	if class != "" && target.Type != nil && target.Type.Name != class {
		return nil, corruptf("instance %d is %s, want %s", idx, target.Type.Name, class)
	}
	d.owned[idx] = true
	return target, nil
}

func (d *decoder) sequence(f *FieldSpec) ([]any, error) {
	count, err := d.r.U32()
	if err != nil {
		return nil, err
	}
	if f.Kind == KindArray && int(count) != f.Len {
		return nil, corruptf("array holds %d elements, want %d", count, f.Len)
	}
	if uint64(count) > uint64(d.r.Remaining()) { //nolint:gosec // Remaining is non-negative
		return nil, corruptf("sequence of %d elements exceeds data", count)
	}
	out := make([]any, 0, count)
	for i := range count {
		v, err := d.value(f.Elem)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}
