package testutil

import "github.com/go-gl/mathgl/mgl32"

// Collider shape codes.
const (
	ShapeSphere  = 1
	ShapeCapsule = 3
)

// RcolShape is a collider shape. Spheres use P0 and R.
type RcolShape struct {
	Type uint32
	P0   mgl32.Vec3
	P1   mgl32.Vec3
	R    float32
}

// RcolCollider is one collider record.
type RcolCollider struct {
	Name          string
	BoneA         string
	BoneB         string
	Root          uint32
	AttributeBits uint32
	Shape         RcolShape
}

// RcolGroup is one collider group with its colliders.
type RcolGroup struct {
	Name      string
	Colliders []RcolCollider
	MCount    int
}

// RcolAttachment binds a collider group to user data.
type RcolAttachment struct {
	Name  string
	NameB string
	P     uint32
	Group uint32
	R     uint64
}

// RcolFile describes an RCOL file for BuildRcol.
type RcolFile struct {
	Groups      []RcolGroup
	Attachments []RcolAttachment
	Attributes  []string
	RequestSets []string
	RSZ         []byte
}

// BuildRcol serializes an RCOL file.
func BuildRcol(f RcolFile) []byte {
	total := 0
	for _, g := range f.Groups {
		total += len(g.Colliders)
	}

	var w Writer
	w.Raw([]byte("RCOL"))
	w.U32(uint32(len(f.Groups))) //nolint:gosec // test data
	w.U32(uint32(total))         //nolint:gosec // test data
	w.U32(0)
	w.U32(uint32(len(f.Attachments))) //nolint:gosec // test data
	w.U32(0)
	w.U32(uint32(len(f.Attributes)))  //nolint:gosec // test data
	w.U32(uint32(len(f.RequestSets))) //nolint:gosec // test data
	w.U32(uint32(len(f.RSZ)))         //nolint:gosec // test data
	w.U32(0)
	groupOff := w.Placeholder()
	rszOff := w.Placeholder()
	attachOff := w.Placeholder()
	attrOff := w.Placeholder()
	eOff := w.Placeholder()

	w.PatchU64(groupOff, uint64(w.Pos())) //nolint:gosec // test data
	colliderPos := w.Pos() + 0x50*len(f.Groups)
	mSlots := make([]int, len(f.Groups))
	for i, g := range f.Groups {
		w.Zero(0x10).StringRef(g.Name).U32(HashUTF16(g.Name)).U32(0)
		w.U32(uint32(len(g.Colliders))).U32(uint32(g.MCount)) //nolint:gosec // test data
		w.U64(uint64(colliderPos))                            //nolint:gosec // test data
		w.U64(0)
		mSlots[i] = w.Placeholder()
		w.Zero(0x10)
		colliderPos += 0xA0 * len(g.Colliders)
	}
	for _, g := range f.Groups {
		for _, c := range g.Colliders {
			writeCollider(&w, c)
		}
	}

	w.PatchU64(rszOff, uint64(w.Pos())) //nolint:gosec // test data
	w.Raw(f.RSZ)

	w.Align(16)
	w.PatchU64(attachOff, uint64(w.Pos())) //nolint:gosec // test data
	for _, a := range f.Attachments {
		w.U32(a.P).U32(a.Group).U64(a.R)
		w.StringRef(a.Name).U32(HashUTF16(a.Name)).U32(0)
		w.StringRef(a.NameB).U32(HashUTF16(a.NameB)).U32(0)
	}

	for i, g := range f.Groups {
		w.PatchU64(mSlots[i], uint64(w.Pos())) //nolint:gosec // test data
		w.Zero(16 * g.MCount)
	}

	w.PatchU64(attrOff, uint64(w.Pos())) //nolint:gosec // test data
	for _, a := range f.Attributes {
		w.StringRef(a).U32(HashUTF16(a)).U32(0)
	}

	w.PatchU64(eOff, uint64(w.Pos())) //nolint:gosec // test data
	for _, e := range f.RequestSets {
		w.StringRef(e).Zero(0x38)
	}
	w.FlushStrings()
	return w.Bytes()
}

func writeCollider(w *Writer, c RcolCollider) {
	w.Zero(0x10).StringRef(c.Name).U32(HashUTF16(c.Name)).U32(c.Root)
	w.U32(0).U32(0xFFFFFFFF).U32(0).U32(c.AttributeBits)
	w.StringRef(c.BoneA).StringRef(c.BoneB)
	w.U32(HashUTF16(c.BoneA)).U32(HashUTF16(c.BoneB))
	w.U32(c.Shape.Type).U32(0)
	s := c.Shape
	switch s.Type {
	case ShapeSphere:
		w.Vec4(s.P0.Vec4(s.R)).Zero(0x40)
	case ShapeCapsule:
		w.Vec4(s.P0.Vec4(0)).Vec4(s.P1.Vec4(0)).Vec4(mgl32.Vec4{s.R, s.R, s.R, s.R}).Zero(0x20)
	default:
		w.Zero(0x50)
	}
}
