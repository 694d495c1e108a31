package rsz

import (
	"fmt"
	"strings"
)

// Field is one decoded field. Value holds a Go scalar, mgl32 vector,
// string, uuid.UUID, *Instance (object reference, nil for null), *Object
// (inline struct), EnumValue, FlagsValue, or []any for sequences and arrays.
type Field struct {
	Name  string
	Value any
}

// Object is a decoded field list.
type Object struct {
	Type   *TypeDescriptor
	Fields []Field
}

// Field returns the value of the named field.
func (o *Object) Field(name string) (any, bool) {
	for _, f := range o.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// ExternRef is an instance stored in another file.
type ExternRef struct {
	Slot int
	Tag  Tag
	Path string
}

// Instance is one decoded instance of a block.
type Instance struct {
	// Index is the instance slot within its block.
	Index int

	Object

	// Extern is set for instances stored in another file; such instances
	// have no Type and no Fields.
	Extern *ExternRef

	// Value is the typed value produced by the class binder, if any.
	Value any
}

// ClassName returns the class of the instance, or "" for external instances.
func (i *Instance) ClassName() string {
	if i.Type == nil {
		return ""
	}
	return i.Type.Name
}

// As returns inst's bound value as T. It reports false when inst is nil or
// was bound to a different type, so callers can probe a set of expected
// types.
func As[T any](inst *Instance) (T, bool) {
	var zero T
	if inst == nil {
		return zero, false
	}
	v, ok := inst.Value.(T)
	if !ok {
		return zero, false
	}
	return v, true
}

// EnumValue is a decoded enum field.
type EnumValue struct {
	Spec  *EnumSpec
	Name  string
	Value int64
}

func (e EnumValue) String() string {
	return fmt.Sprintf("%s(%d)", e.Name, e.Value)
}

// FlagsValue is a decoded flag set.
type FlagsValue struct {
	Spec *FlagsSpec
	Bits uint64
}

// Has reports whether the named bit is set.
func (f FlagsValue) Has(name string) bool {
	for _, b := range f.Spec.Bits {
		if b.Name == name {
			return f.Bits&b.Value == b.Value
		}
	}
	return false
}

func (f FlagsValue) String() string {
	var names []string
	for _, b := range f.Spec.Bits {
		if f.Bits&b.Value == b.Value && b.Value != 0 {
			names = append(names, b.Name)
		}
	}
	if len(names) == 0 {
		return "0"
	}
	return strings.Join(names, "|")
}
