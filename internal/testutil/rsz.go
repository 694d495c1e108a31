package testutil

// RSZ builds an RSZ block. Instances are numbered from 1 in the order they
// are added; slot 0 is the null descriptor.
type RSZ struct {
	slots   []rszSlot
	externs []rszExtern
	roots   []uint32
	data    Writer
}

type rszSlot struct {
	hash, crc uint32
}

type rszExtern struct {
	slot uint32
	path string
}

// NewRSZ returns an empty block builder.
func NewRSZ() *RSZ {
	return &RSZ{}
}

// Instance appends an instance of class whose field bytes are written by
// encode. The data writer's positions are relative to the data section, so
// Align calls inside encode match the decoder's alignment.
func (b *RSZ) Instance(class string, encode func(w *Writer)) uint32 {
	return b.RawInstance(Hash(class), 0, encode)
}

// RawInstance appends an instance with an explicit type hash and crc.
func (b *RSZ) RawInstance(hash, crc uint32, encode func(w *Writer)) uint32 {
	b.slots = append(b.slots, rszSlot{hash: hash, crc: crc})
	if encode != nil {
		encode(&b.data)
	}
	return uint32(len(b.slots)) //nolint:gosec // test data
}

// Extern appends an instance slot of class stored in the external file path.
// It consumes no data bytes.
func (b *RSZ) Extern(class, path string) uint32 {
	slot := b.RawInstance(Hash(class), 0, nil)
	b.externs = append(b.externs, rszExtern{slot: slot, path: path})
	return slot
}

// Root appends root indices.
func (b *RSZ) Root(indices ...uint32) *RSZ {
	b.roots = append(b.roots, indices...)
	return b
}

// Data exposes the data writer for trailing bytes.
func (b *RSZ) Data() *Writer {
	return &b.data
}

// Build serializes the block with all offsets relative to its first byte.
func (b *RSZ) Build() []byte {
	var w Writer
	w.Raw([]byte("RSZ\x00")).U32(0x10)
	w.U32(uint32(len(b.roots)))     //nolint:gosec // test data
	w.U32(uint32(len(b.slots) + 1)) //nolint:gosec // test data
	w.U32(uint32(len(b.externs)))   //nolint:gosec // test data
	w.U32(0)
	typeOff := w.Placeholder()
	dataOff := w.Placeholder()
	externOff := w.Placeholder()
	for _, r := range b.roots {
		w.U32(r)
	}

	w.Align(8)
	w.PatchU64(typeOff, uint64(w.Pos())) //nolint:gosec // test data
	w.U32(0).U32(0)
	for _, s := range b.slots {
		w.U32(s.hash).U32(s.crc)
	}

	w.Align(16)
	w.PatchU64(externOff, uint64(w.Pos())) //nolint:gosec // test data
	for _, e := range b.externs {
		w.U32(e.slot).U32(b.slots[e.slot-1].hash).StringRef(e.path)
	}
	w.FlushStrings()

	w.Align(16)
	w.PatchU64(dataOff, uint64(w.Pos())) //nolint:gosec // test data
	w.Raw(b.data.Bytes())
	return w.Bytes()
}

// Engine class names used by the collision fixtures.
const (
	ClassPhysicsUserData = "via.physics.UserData"
	ClassRequestSetData  = "via.physics.RequestSetColliderUserData"
	ClassDamageRSData    = "snow.hit.userdata.EmHitDamageRSData"
	ClassDamageShapeData = "snow.hit.userdata.EmHitDamageShapeData"
)

// EncodeDamageRSData writes the fields of an EmHitDamageRSData instance.
func EncodeDamageRSData(name string, partsGroup uint16) func(*Writer) {
	return func(w *Writer) {
		w.RSZString(name)
		w.Align(2).U16(partsGroup)
	}
}

// EncodeDamageShapeData writes the fields of an EmHitDamageShapeData instance
// with the given meat id and zero for everything else.
func EncodeDamageShapeData(name string, meat int32) func(*Writer) {
	return func(w *Writer) {
		w.RSZString(name)
		w.Align(4)
		w.I32(0) // custom shape type
		w.F32(0) // ring radius
		w.I32(0) // limited hit attr
		w.I32(0) // hit sound attr
		w.F32(0) // hit pos correction
		w.I32(meat)
		w.U16(0) // damage attr
		w.Align(4).I32(0)
	}
}

// EncodePhysicsUserData writes the fields of a via.physics.UserData instance.
func EncodePhysicsUserData(name string) func(*Writer) {
	return func(w *Writer) {
		w.RSZString(name)
	}
}
