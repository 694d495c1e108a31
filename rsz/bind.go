package rsz

import "fmt"

// Integer is the set of integer types enum and flag values convert to.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Binder reads decoded fields into Go values for a BindFunc. The first
// failure sticks and later reads return zero values; check Err once at the
// end.
type Binder struct {
	obj *Object
	err *error
}

// NewBinder returns a binder over obj.
func NewBinder(obj *Object) *Binder {
	var err error
	return &Binder{obj: obj, err: &err}
}

// Err returns the first failure.
func (b *Binder) Err() error { return *b.err }

func (b *Binder) fail(format string, args ...any) {
	if *b.err == nil {
		*b.err = fmt.Errorf("%w: %s", ErrCorruptData, fmt.Sprintf(format, args...))
	}
}

func (b *Binder) field(name string) (any, bool) {
	if *b.err != nil {
		return nil, false
	}
	v, ok := b.obj.Field(name)
	if !ok {
		typ := "<anonymous>"
		if b.obj.Type != nil {
			typ = b.obj.Type.Name
		}
		b.fail("%s has no field %s", typ, name)
	}
	return v, ok
}

// Get returns field name as T.
func Get[T any](b *Binder, name string) T {
	var zero T
	v, ok := b.field(name)
	if !ok {
		return zero
	}
	t, ok := v.(T)
	if !ok {
		b.fail("field %s is %T, want %T", name, v, zero)
		return zero
	}
	return t
}

// Inline returns a binder over the inline struct field name. It shares the
// parent's error.
func (b *Binder) Inline(name string) *Binder {
	obj := Get[*Object](b, name)
	if obj == nil {
		obj = &Object{}
	}
	return &Binder{obj: obj, err: b.err}
}

// Ref returns the bound value of the object referenced by field name as T.
// A null reference yields the zero value.
func Ref[T any](b *Binder, name string) T {
	var zero T
	inst := Get[*Instance](b, name)
	if inst == nil {
		return zero
	}
	return elem[T](b, name, inst)
}

// Slice returns a sequence field as []T. Elements are either values of type
// T or object references bound to T.
func Slice[T any](b *Binder, name string) []T {
	items := Get[[]any](b, name)
	out := make([]T, 0, len(items))
	for _, item := range items {
		if t, ok := item.(T); ok {
			out = append(out, t)
			continue
		}
		if inst, ok := item.(*Instance); ok {
			out = append(out, elem[T](b, name, inst))
			continue
		}
		var zero T
		b.fail("element of %s is %T, want %T", name, item, zero)
		out = append(out, zero)
	}
	return out
}

func elem[T any](b *Binder, name string, inst *Instance) T {
	if inst == nil {
		var zero T
		return zero
	}
	t, ok := As[T](inst)
	if !ok {
		b.fail("%s references %s bound to %T", name, inst.ClassName(), inst.Value)
	}
	return t
}

// EnumOf returns an enum field converted to T.
func EnumOf[T Integer](b *Binder, name string) T {
	return T(Get[EnumValue](b, name).Value)
}

// EnumSlice returns a sequence of enums converted to []T.
func EnumSlice[T Integer](b *Binder, name string) []T {
	values := Slice[EnumValue](b, name)
	out := make([]T, len(values))
	for i, v := range values {
		out[i] = T(v.Value)
	}
	return out
}

// FlagsOf returns a flag field converted to T.
func FlagsOf[T Integer](b *Binder, name string) T {
	return T(Get[FlagsValue](b, name).Bits)
}
