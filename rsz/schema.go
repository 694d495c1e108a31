package rsz

import "strconv"

// Kind identifies how a field is encoded.
type Kind uint8

const (
	KindBool Kind = iota + 1
	KindU8
	KindS8
	KindU16
	KindS16
	KindU32
	KindS32
	KindU64
	KindS64
	KindF32
	KindF64
	KindVec2
	KindVec3
	KindVec4
	KindQuat
	KindString
	KindGUID
	KindObject
	KindStruct
	KindEnum
	KindFlags
	KindSequence
	KindArray
	KindAlign
)

var kindNames = [...]string{
	KindBool:     "bool",
	KindU8:       "u8",
	KindS8:       "s8",
	KindU16:      "u16",
	KindS16:      "s16",
	KindU32:      "u32",
	KindS32:      "s32",
	KindU64:      "u64",
	KindS64:      "s64",
	KindF32:      "f32",
	KindF64:      "f64",
	KindVec2:     "vec2",
	KindVec3:     "vec3",
	KindVec4:     "vec4",
	KindQuat:     "quat",
	KindString:   "string",
	KindGUID:     "guid",
	KindObject:   "object",
	KindStruct:   "struct",
	KindEnum:     "enum",
	KindFlags:    "flags",
	KindSequence: "sequence",
	KindArray:    "array",
	KindAlign:    "align",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// integer reports whether k is a fixed-width integer kind usable as the
// storage of an enum or flag set.
func (k Kind) integer() bool {
	switch k {
	case KindU8, KindS8, KindU16, KindS16, KindU32, KindS32, KindU64, KindS64:
		return true
	}
	return false
}

// size returns the encoded size of fixed-size kinds and 0 otherwise.
func (k Kind) size() int {
	switch k {
	case KindBool, KindU8, KindS8:
		return 1
	case KindU16, KindS16:
		return 2
	case KindU32, KindS32, KindF32, KindObject:
		return 4
	case KindU64, KindS64, KindF64, KindVec2:
		return 8
	case KindVec3, KindVec4, KindQuat, KindGUID:
		return 16
	}
	return 0
}

// align returns the alignment of kinds that have one of their own.
func (k Kind) align() int {
	switch k {
	case KindVec2, KindString, KindSequence, KindArray, KindObject:
		return 4
	case KindVec3, KindVec4, KindQuat:
		return 16
	case KindGUID:
		return 8
	}
	return k.size()
}

// FieldSpec describes one field of a class layout.
type FieldSpec struct {
	Name string
	Kind Kind

	// Class restricts an object reference to instances of the named class.
	// Empty accepts any class.
	Class string

	// Struct is the inlined layout of a KindStruct field.
	Struct *TypeDescriptor

	// Enum is the value set of a KindEnum field.
	Enum *EnumSpec

	// Flags is the bit set of a KindFlags field.
	Flags *FlagsSpec

	// Elem is the element layout of a sequence or array.
	Elem *FieldSpec

	// Len is the declared length of a fixed array.
	Len int

	// Align is the boundary of an alignment marker.
	Align int
}

func scalar(name string, k Kind) FieldSpec { return FieldSpec{Name: name, Kind: k} }

// Scalar field constructors.
func Bool(name string) FieldSpec   { return scalar(name, KindBool) }
func U8(name string) FieldSpec     { return scalar(name, KindU8) }
func S8(name string) FieldSpec     { return scalar(name, KindS8) }
func U16(name string) FieldSpec    { return scalar(name, KindU16) }
func S16(name string) FieldSpec    { return scalar(name, KindS16) }
func U32(name string) FieldSpec    { return scalar(name, KindU32) }
func S32(name string) FieldSpec    { return scalar(name, KindS32) }
func U64(name string) FieldSpec    { return scalar(name, KindU64) }
func S64(name string) FieldSpec    { return scalar(name, KindS64) }
func F32(name string) FieldSpec    { return scalar(name, KindF32) }
func F64(name string) FieldSpec    { return scalar(name, KindF64) }
func Vec2(name string) FieldSpec   { return scalar(name, KindVec2) }
func Vec3(name string) FieldSpec   { return scalar(name, KindVec3) }
func Vec4(name string) FieldSpec   { return scalar(name, KindVec4) }
func Quat(name string) FieldSpec   { return scalar(name, KindQuat) }
func String(name string) FieldSpec { return scalar(name, KindString) }
func GUID(name string) FieldSpec   { return scalar(name, KindGUID) }

// ObjectRef is a reference to another instance, optionally of a given class.
func ObjectRef(name, class string) FieldSpec {
	return FieldSpec{Name: name, Kind: KindObject, Class: class}
}

// Inline embeds the fields of t without a type tag.
func Inline(name string, t *TypeDescriptor) FieldSpec {
	return FieldSpec{Name: name, Kind: KindStruct, Struct: t}
}

// Enum is an integer restricted to the values of e.
func Enum(name string, e *EnumSpec) FieldSpec {
	return FieldSpec{Name: name, Kind: KindEnum, Enum: e}
}

// Flags is an integer restricted to the bits of f.
func Flags(name string, f *FlagsSpec) FieldSpec {
	return FieldSpec{Name: name, Kind: KindFlags, Flags: f}
}

// Seq is a count-prefixed sequence of elem. The element name is ignored.
func Seq(name string, elem FieldSpec) FieldSpec {
	return FieldSpec{Name: name, Kind: KindSequence, Elem: &elem}
}

// Array is a sequence whose stored count must equal n.
func Array(name string, n int, elem FieldSpec) FieldSpec {
	return FieldSpec{Name: name, Kind: KindArray, Elem: &elem, Len: n}
}

// Align pads the cursor to a multiple of n bytes without producing a value.
func Align(n int) FieldSpec {
	return FieldSpec{Kind: KindAlign, Align: n}
}

// alignment returns the boundary this field's encoding starts on.
func (f *FieldSpec) alignment() int {
	switch f.Kind {
	case KindEnum:
		return f.Enum.Width.align()
	case KindFlags:
		return f.Flags.Width.align()
	case KindAlign:
		return f.Align
	case KindStruct:
		return 1
	}
	return f.Kind.align()
}

// EnumRange names an open range of values, bounds inclusive.
type EnumRange struct {
	Name     string
	Min, Max int64
}

// EnumSpec is a closed set of named integer values stored with Width.
type EnumSpec struct {
	Name   string
	Width  Kind
	Values map[int64]string
	Ranges []EnumRange
}

// NewEnum returns an enum stored as width with the given named values.
func NewEnum(name string, width Kind, values map[int64]string, ranges ...EnumRange) *EnumSpec {
	return &EnumSpec{Name: name, Width: width, Values: values, Ranges: ranges}
}

// Lookup returns the name of v and whether v belongs to the set.
func (e *EnumSpec) Lookup(v int64) (string, bool) {
	if name, ok := e.Values[v]; ok {
		return name, true
	}
	for _, r := range e.Ranges {
		if v >= r.Min && v <= r.Max {
			return r.Name, true
		}
	}
	return "", false
}

// FlagBit names one bit of a flag set.
type FlagBit struct {
	Name  string
	Value uint64
}

// FlagsSpec is a set of named bits stored with Width.
type FlagsSpec struct {
	Name  string
	Width Kind
	Bits  []FlagBit
	mask  uint64
}

// NewFlags returns a flag set stored as width.
func NewFlags(name string, width Kind, bits ...FlagBit) *FlagsSpec {
	f := &FlagsSpec{Name: name, Width: width, Bits: bits}
	for _, b := range bits {
		f.mask |= b.Value
	}
	return f
}

// Mask returns the union of all declared bits.
func (f *FlagsSpec) Mask() uint64 { return f.mask }
