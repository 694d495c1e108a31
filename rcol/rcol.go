package rcol

import (
	"fmt"

	"github.com/meigma/reasset/internal/binio"
	"github.com/meigma/reasset/internal/sizing"
	"github.com/meigma/reasset/rsz"
	"github.com/meigma/reasset/rsz/classes"
)

const (
	groupSize      = 0x50
	colliderSize   = 0xA0
	shapeSize      = 0x50
	attachmentSize = 0x30
	mRecordSize    = 0x10
	attributeSize  = 0x10
	requestSetSize = 0x40
)

var magic = [4]byte{'R', 'C', 'O', 'L'}

// Collider is one collision primitive attached to up to two bones.
type Collider struct {
	Name  string
	BoneA string
	BoneB string
	Shape Shape

	// AttributeBits has bit i set when attribute i applies.
	AttributeBits uint32

	UserData rsz.UserDataRef
}

// Group is a named group of colliders.
type Group struct {
	Name      string
	Colliders []Collider
}

// Attachment binds a collider group to user data.
type Attachment struct {
	Name  string
	NameB string
	P     uint32
	Group int
	R     uint64

	UserData rsz.UserDataRef
}

// RequestSet is a named request set record.
type RequestSet struct {
	Name string
}

// File is a parsed RCOL file.
type File struct {
	Groups      []Group
	Attributes  []string
	Attachments []Attachment
	RequestSets []RequestSet

	// RSZ is the embedded block holding the user data.
	RSZ *rsz.Block

	decoded bool
}

type header struct {
	groupCount, colliderCount, attachmentCount, attributeCount, requestSetCount, rszLen uint32

	groupOff, rszOff, attachmentOff, attributeOff, requestSetOff uint64
}

// parser carries the cursor and the derived bounds shared by every table.
type parser struct {
	r           *binio.Reader
	h           header
	stringTable uint64
}

// Parse parses an RCOL file.
func Parse(data []byte, opts ...Option) (*File, error) {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}

	p := &parser{r: binio.NewReader(data)}
	if err := p.header(); err != nil {
		return nil, err
	}

	f := &File{}
	var err error
	if f.Groups, err = p.groups(); err != nil {
		return nil, err
	}
	if f.RSZ, err = p.block(); err != nil {
		return nil, err
	}
	if f.Attachments, err = p.attachments(); err != nil {
		return nil, err
	}
	if f.Attributes, err = p.attributes(); err != nil {
		return nil, err
	}
	if f.RequestSets, err = p.requestSets(); err != nil {
		return nil, err
	}

	if cfg.userData {
		reg := cfg.registry
		if reg == nil {
			if reg, err = classes.NewRegistry(); err != nil {
				return nil, err
			}
		}
		if err := f.DecodeUserData(reg); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func (p *parser) header() error {
	m, err := p.r.Magic()
	if err != nil {
		return fmt.Errorf("%w: rcol header: %v", ErrFormat, err)
	}
	if m != magic {
		return fmt.Errorf("%w: rcol magic %q", ErrFormat, m[:])
	}
	h := &p.h
	var reserved uint32
	for _, v := range []*uint32{
		&h.groupCount, &h.colliderCount, &reserved, &h.attachmentCount, &reserved,
		&h.attributeCount, &h.requestSetCount, &h.rszLen, &reserved,
	} {
		if *v, err = p.r.U32(); err != nil {
			return fmt.Errorf("%w: rcol header: %v", ErrFormat, err)
		}
	}
	for _, v := range []*uint64{&h.groupOff, &h.rszOff, &h.attachmentOff, &h.attributeOff, &h.requestSetOff} {
		if *v, err = p.r.U64(); err != nil {
			return fmt.Errorf("%w: rcol header: %v", ErrFormat, err)
		}
	}
	p.stringTable = h.requestSetOff + uint64(h.requestSetCount)*requestSetSize
	return nil
}

func (p *parser) corruptf(format string, args ...any) error {
	return fmt.Errorf("%w: rcol at 0x%x: %s", ErrCorruptData, p.r.Pos(), fmt.Sprintf(format, args...))
}

// fits checks that count records of size bytes lie inside the file at off.
func (p *parser) fits(what string, off uint64, count uint32, size uint64) error {
	if !sizing.InBounds(off, uint64(count)*size, uint64(p.r.Len())) { //nolint:gosec // non-negative
		return p.corruptf("%d %s records at 0x%x exceed file", count, what, off)
	}
	return nil
}

// name reads a string offset field and resolves it in the string table.
func (p *parser) name() (string, error) {
	off, err := p.r.U64()
	if err != nil {
		return "", err
	}
	if off < p.stringTable {
		return "", p.corruptf("name offset 0x%x below string table 0x%x", off, p.stringTable)
	}
	return p.r.U16StrAt(off)
}

func (p *parser) groups() ([]Group, error) {
	h := &p.h
	if err := p.r.SeekNoop(h.groupOff); err != nil {
		return nil, fmt.Errorf("rcol group table: %w", err)
	}
	if err := p.fits("group", h.groupOff, h.groupCount, groupSize); err != nil {
		return nil, err
	}
	if err := p.fits("collider", h.groupOff+uint64(h.groupCount)*groupSize, h.colliderCount, colliderSize); err != nil {
		return nil, err
	}

	groups := make([]Group, h.groupCount)
	for i := range groups {
		g, err := p.group()
		if err != nil {
			return nil, fmt.Errorf("rcol group %d: %w", i, err)
		}
		groups[i] = g
	}
	if err := p.r.Skip(colliderSize * int(h.colliderCount)); err != nil {
		return nil, err
	}
	return groups, nil
}

func (p *parser) group() (Group, error) {
	h := &p.h
	var g Group
	if err := p.r.Skip(0x10); err != nil {
		return g, err
	}
	name, err := p.name()
	if err != nil {
		return g, err
	}
	g.Name = name
	_, _ = p.r.U32() //nolint:errcheck // name hash; bounds checked by fits
	if err := p.r.ExpectU32(0); err != nil {
		return g, err
	}
	colliderCount, _ := p.r.U32() //nolint:errcheck // bounds checked by fits
	mCount, _ := p.r.U32()        //nolint:errcheck // bounds checked by fits
	colliderOff, _ := p.r.U64()   //nolint:errcheck // bounds checked by fits
	if colliderOff < h.groupOff+uint64(h.groupCount)*groupSize || colliderOff > h.rszOff {
		return g, p.corruptf("collider offset 0x%x out of bounds", colliderOff)
	}
	if err := p.r.ExpectU64(0); err != nil {
		return g, err
	}
	mOff, _ := p.r.U64() //nolint:errcheck // bounds checked by fits
	if mOff < h.attachmentOff+uint64(h.attachmentCount)*attachmentSize || mOff > h.attributeOff {
		return g, p.corruptf("m offset 0x%x out of bounds", mOff)
	}
	if err := p.r.Skip(0x10); err != nil {
		return g, err
	}

	next := uint64(p.r.Pos()) //nolint:gosec // non-negative
	defer func() { _ = p.r.Seek(next) }()

	if err := p.fits("collider", colliderOff, colliderCount, colliderSize); err != nil {
		return g, err
	}
	_ = p.r.Seek(colliderOff) //nolint:errcheck // bounds checked by fits
	g.Colliders = make([]Collider, colliderCount)
	for i := range g.Colliders {
		if g.Colliders[i], err = p.collider(); err != nil {
			return g, fmt.Errorf("collider %d: %w", i, err)
		}
	}

	// The m records carry nothing the parser needs, but must be in bounds.
	if err := p.fits("m", mOff, mCount, mRecordSize); err != nil {
		return g, err
	}
	return g, nil
}

func (p *parser) collider() (Collider, error) {
	var c Collider
	var err error
	if err = p.r.Skip(0x10); err != nil {
		return c, err
	}
	if c.Name, err = p.name(); err != nil {
		return c, err
	}
	_, _ = p.r.U32()     //nolint:errcheck // name hash; bounds checked by fits
	root, _ := p.r.U32() //nolint:errcheck // bounds checked by fits
	c.UserData = rsz.RootRef(int(root))
	for _, want := range []uint32{0, 0xFFFFFFFF, 0} {
		if err = p.r.ExpectU32(want); err != nil {
			return c, err
		}
	}
	c.AttributeBits, _ = p.r.U32() //nolint:errcheck // bounds checked by fits
	if p.h.attributeCount < 32 && c.AttributeBits >= 1<<p.h.attributeCount {
		return c, p.corruptf("attribute bits 0x%x exceed %d attributes", c.AttributeBits, p.h.attributeCount)
	}
	if c.BoneA, err = p.name(); err != nil {
		return c, err
	}
	if c.BoneB, err = p.name(); err != nil {
		return c, err
	}
	_, _ = p.r.U64()          //nolint:errcheck // bone hashes; bounds checked by fits
	shapeType, _ := p.r.U32() //nolint:errcheck // bounds checked by fits
	if err = p.r.ExpectU32(0); err != nil {
		return c, err
	}
	c.Shape, err = p.shape(shapeType)
	return c, err
}

func (p *parser) shape(shapeType uint32) (Shape, error) {
	switch shapeType {
	case ShapeTypeSphere:
		v, _ := p.r.Vec4() //nolint:errcheck // bounds checked by fits
		_ = p.r.Skip(0x40) //nolint:errcheck // bounds checked by fits
		return Sphere{Center: v.Vec3(), Radius: v[3]}, nil
	case ShapeTypeCapsule:
		p0, _ := p.r.Vec4()          //nolint:errcheck // bounds checked by fits
		p1, _ := p.r.Vec4()          //nolint:errcheck // bounds checked by fits
		r, _ := p.r.Vec4()           //nolint:errcheck // bounds checked by fits
		padding, _ := p.r.Read(0x20) //nolint:errcheck // bounds checked by fits
		if p0[3] != 0 || p1[3] != 0 {
			return nil, p.corruptf("capsule end points have non-zero w")
		}
		if r[0] != r[1] || r[0] != r[2] || r[0] != r[3] {
			return nil, p.corruptf("capsule radius components differ: %v", r)
		}
		for _, b := range padding {
			if b != 0 {
				return nil, p.corruptf("capsule padding is not zero")
			}
		}
		return Capsule{P0: p0.Vec3(), P1: p1.Vec3(), Radius: r[0]}, nil
	default:
		if err := p.r.Skip(shapeSize); err != nil {
			return nil, err
		}
		return Unknown{Type: shapeType}, nil
	}
}

func (p *parser) block() (*rsz.Block, error) {
	h := &p.h
	if err := p.r.SeekNoop(h.rszOff); err != nil {
		return nil, fmt.Errorf("rcol rsz: %w", err)
	}
	raw, err := p.r.Read(int(h.rszLen))
	if err != nil {
		return nil, fmt.Errorf("rcol rsz: %w", err)
	}
	b, err := rsz.Parse(raw, 0)
	if err != nil {
		return nil, fmt.Errorf("rcol rsz: %w", err)
	}
	return b, nil
}

func (p *parser) attachments() ([]Attachment, error) {
	h := &p.h
	if err := p.r.SeekAssertAlignUp(h.attachmentOff, 16); err != nil {
		return nil, fmt.Errorf("rcol attachment table: %w", err)
	}
	if err := p.fits("attachment", h.attachmentOff, h.attachmentCount, attachmentSize); err != nil {
		return nil, err
	}
	out := make([]Attachment, h.attachmentCount)
	for i := range out {
		a := &out[i]
		a.UserData = rsz.RootRef(i)
		a.P, _ = p.r.U32()    //nolint:errcheck // bounds checked by fits
		group, _ := p.r.U32() //nolint:errcheck // bounds checked by fits
		if group >= h.groupCount {
			return nil, p.corruptf("attachment %d names group %d of %d", i, group, h.groupCount)
		}
		a.Group = int(group)
		a.R, _ = p.r.U64() //nolint:errcheck // bounds checked by fits
		var err error
		for _, dst := range []*string{&a.Name, &a.NameB} {
			if *dst, err = p.name(); err != nil {
				return nil, fmt.Errorf("rcol attachment %d: %w", i, err)
			}
			_, _ = p.r.U32() //nolint:errcheck // name hash; bounds checked by fits
			if err = p.r.ExpectU32(0); err != nil {
				return nil, fmt.Errorf("rcol attachment %d: %w", i, err)
			}
		}
	}
	return out, nil
}

func (p *parser) attributes() ([]string, error) {
	h := &p.h
	if err := p.fits("attribute", h.attributeOff, h.attributeCount, attributeSize); err != nil {
		return nil, err
	}
	_ = p.r.Seek(h.attributeOff) //nolint:errcheck // bounds checked by fits
	out := make([]string, h.attributeCount)
	for i := range out {
		name, err := p.name()
		if err != nil {
			return nil, fmt.Errorf("rcol attribute %d: %w", i, err)
		}
		out[i] = name
		_, _ = p.r.U32() //nolint:errcheck // name hash; bounds checked by fits
		if err := p.r.ExpectU32(0); err != nil {
			return nil, fmt.Errorf("rcol attribute %d: %w", i, err)
		}
	}
	return out, nil
}

func (p *parser) requestSets() ([]RequestSet, error) {
	h := &p.h
	if err := p.r.SeekNoop(h.requestSetOff); err != nil {
		return nil, fmt.Errorf("rcol request set table: %w", err)
	}
	if err := p.fits("request set", h.requestSetOff, h.requestSetCount, requestSetSize); err != nil {
		return nil, err
	}
	out := make([]RequestSet, h.requestSetCount)
	for i := range out {
		name, err := p.name()
		if err != nil {
			return nil, fmt.Errorf("rcol request set %d: %w", i, err)
		}
		out[i].Name = name
		_ = p.r.Skip(requestSetSize - 8) //nolint:errcheck // bounds checked by fits
	}
	return out, nil
}
