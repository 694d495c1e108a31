package rsz

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type leaf struct {
	Value uint32
}

type node struct {
	Child *leaf
	Items []*leaf
	Kinds []int32
	Attr  uint16
}

var (
	partsEnum = NewEnum("test.Parts", KindS32, map[int64]string{0: "None"},
		EnumRange{Name: "RandomId", Min: 1, Max: 100})
	attrFlags = NewFlags("test.Attr", KindU16,
		FlagBit{Name: "A", Value: 1}, FlagBit{Name: "B", Value: 2}, FlagBit{Name: "C", Value: 4})

	leafType = Define("test.Leaf", []FieldSpec{U32("value")},
		WithBinder(func(inst *Instance) (any, error) {
			b := NewBinder(&inst.Object)
			l := &leaf{Value: Get[uint32](b, "value")}
			return l, b.Err()
		}))
	nodeType = Define("test.Node", []FieldSpec{
		ObjectRef("child", "test.Leaf"),
		Seq("items", ObjectRef("", "test.Leaf")),
		Seq("kinds", Enum("", partsEnum)),
		Flags("attr", attrFlags),
	}, WithBinder(func(inst *Instance) (any, error) {
		b := NewBinder(&inst.Object)
		n := &node{
			Child: Ref[*leaf](b, "child"),
			Items: Slice[*leaf](b, "items"),
			Kinds: EnumSlice[int32](b, "kinds"),
			Attr:  FlagsOf[uint16](b, "attr"),
		}
		return n, b.Err()
	}))
	baseType    = Define("test.Base", []FieldSpec{String("name")})
	derivedType = Define("test.Derived", []FieldSpec{
		Inline("base", baseType),
		U16("group"),
		Array("pair", 2, U8("")),
		Align(8),
		GUID("id"),
	})
	pinnedType = Define("test.Pinned", []FieldSpec{U8("v")}, WithCRC(0xC0FFEE))
	anyRefType = Define("test.AnyRef", []FieldSpec{ObjectRef("target", "")})
	switchType = Define("test.Switch", []FieldSpec{Bool("on")})
)

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	reg, err := NewRegistry(leafType, nodeType, baseType, derivedType, pinnedType, anyRefType, switchType)
	require.NoError(t, err)
	return reg
}
