package rsz

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/spaolacci/murmur3"
)

const hashSeed = 0xFFFFFFFF

// ClassHash returns the type hash of a fully-qualified class name.
func ClassHash(name string) uint32 {
	return murmur3.Sum32WithSeed([]byte(name), hashSeed)
}

// Tag is an on-disk type tag: the class-name hash in the low half and the
// layout crc in the high half.
type Tag uint64

// MakeTag combines a hash and crc.
func MakeTag(hash, crc uint32) Tag { return Tag(uint64(crc)<<32 | uint64(hash)) }

// Hash returns the class-name hash.
func (t Tag) Hash() uint32 { return uint32(t) } //nolint:gosec // low half

// CRC returns the layout crc.
func (t Tag) CRC() uint32 { return uint32(t >> 32) } //nolint:gosec // high half

func (t Tag) String() string {
	return fmt.Sprintf("hash=0x%08x crc=0x%08x", t.Hash(), t.CRC())
}

// BindFunc converts a decoded instance into a typed Go value.
type BindFunc func(inst *Instance) (any, error)

// TypeDescriptor is a class layout.
type TypeDescriptor struct {
	// Name is the fully-qualified engine class name.
	Name string

	// Fields are decoded in order.
	Fields []FieldSpec

	hash uint32
	crc  uint32
	bind BindFunc
}

// TypeOption configures a TypeDescriptor.
type TypeOption func(*TypeDescriptor)

// WithCRC pins the layout crc the class must be stored with.
// Zero accepts any crc.
func WithCRC(crc uint32) TypeOption {
	return func(t *TypeDescriptor) {
		t.crc = crc
	}
}

// WithBinder sets the function producing the instance's typed value.
func WithBinder(fn BindFunc) TypeOption {
	return func(t *TypeDescriptor) {
		t.bind = fn
	}
}

// Define returns the descriptor for class name.
func Define(name string, fields []FieldSpec, opts ...TypeOption) *TypeDescriptor {
	t := &TypeDescriptor{Name: name, Fields: fields, hash: ClassHash(name)}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Hash returns the class-name hash.
func (t *TypeDescriptor) Hash() uint32 { return t.hash }

// CRC returns the pinned crc, or zero.
func (t *TypeDescriptor) CRC() uint32 { return t.crc }

func (t *TypeDescriptor) String() string { return t.Name }

// validate checks the layout is decodable.
func (t *TypeDescriptor) validate() error {
	for i := range t.Fields {
		if err := validateField(&t.Fields[i]); err != nil {
			return fmt.Errorf("%s.%s: %w", t.Name, t.Fields[i].Name, err)
		}
	}
	return nil
}

func validateField(f *FieldSpec) error {
	switch f.Kind {
	case KindStruct:
		if f.Struct == nil {
			return errors.New("inline struct without layout")
		}
		return f.Struct.validate()
	case KindEnum:
		if f.Enum == nil || !f.Enum.Width.integer() {
			return errors.New("enum needs an integer width")
		}
	case KindFlags:
		if f.Flags == nil || !f.Flags.Width.integer() {
			return errors.New("flags need an integer width")
		}
	case KindSequence, KindArray:
		if f.Elem == nil {
			return fmt.Errorf("%s without element", f.Kind)
		}
		if f.Elem.Kind == KindAlign {
			return fmt.Errorf("%s of alignment markers", f.Kind)
		}
		return validateField(f.Elem)
	case KindAlign:
		if f.Align < 1 || f.Align&(f.Align-1) != 0 {
			return fmt.Errorf("alignment %d is not a power of two", f.Align)
		}
	default:
		if f.Kind.size() == 0 && f.Kind != KindString {
			return fmt.Errorf("unsupported kind %s", f.Kind)
		}
	}
	return nil
}

// Registry maps type hashes to class layouts. It is safe for concurrent use;
// in practice it is filled once at start-up and only read afterwards.
type Registry struct {
	mu     sync.RWMutex
	byHash map[uint32]*TypeDescriptor
	byName map[string]*TypeDescriptor
}

// NewRegistry returns a registry holding types.
func NewRegistry(types ...*TypeDescriptor) (*Registry, error) {
	r := &Registry{
		byHash: make(map[uint32]*TypeDescriptor),
		byName: make(map[string]*TypeDescriptor),
	}
	if err := r.Register(types...); err != nil {
		return nil, err
	}
	return r, nil
}

// Register adds types. Registering a name twice, or two names with the same
// hash, is an error.
func (r *Registry) Register(types ...*TypeDescriptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range types {
		if err := t.validate(); err != nil {
			return err
		}
		if prev, ok := r.byHash[t.hash]; ok {
			return fmt.Errorf("rsz: %s: hash 0x%08x already registered by %s", t.Name, t.hash, prev.Name)
		}
		r.byHash[t.hash] = t
		r.byName[t.Name] = t
	}
	return nil
}

// Resolve returns the layout for tag. A hash miss, or a hash hit whose
// pinned crc differs from the tag's, is an *UnknownTypeError.
func (r *Registry) Resolve(tag Tag) (*TypeDescriptor, error) {
	r.mu.RLock()
	t, ok := r.byHash[tag.Hash()]
	r.mu.RUnlock()
	if !ok {
		return nil, &UnknownTypeError{Tag: tag}
	}
	if t.crc != 0 && t.crc != tag.CRC() {
		return nil, &UnknownTypeError{Tag: tag, Name: t.Name}
	}
	return t, nil
}

// Lookup returns the layout registered under a class name.
func (r *Registry) Lookup(name string) (*TypeDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byName[name]
	return t, ok
}

// Len returns the number of registered classes.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byName)
}

// Names returns the registered class names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.byName))
}
