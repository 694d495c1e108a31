package format

import (
	"fmt"
	"slices"

	"github.com/meigma/reasset/internal/binio"
	"github.com/meigma/reasset/rsz"
)

// GameObject is one game object row of a prefab.
type GameObject struct {
	ID             uint32
	Parent         int32
	ComponentCount uint32
}

// RefInfo links a property of one game object to another.
type RefInfo struct {
	ObjectID   uint32
	PropertyID uint16
	ArrayIndex uint16
	TargetID   uint32
}

// Pfb is a parsed prefab.
type Pfb struct {
	GameObjects []GameObject
	RefInfos    []RefInfo
	Resources   []string
	Children    []Child

	// RSZ is the embedded block, parsed but not decoded. It runs to the end
	// of the file.
	RSZ *rsz.Block
}

// ParsePfb parses the tables of a prefab and the header of its RSZ block.
func ParsePfb(data []byte) (*Pfb, error) {
	r := binio.NewReader(data)
	var goCount, resCount, refCount, childCount, reserved uint32
	if err := header(r, "PFB\x00", &goCount, &resCount, &refCount, &childCount, &reserved); err != nil {
		return nil, err
	}
	var refOff, resOff, childOff, rszOff uint64
	if err := offsets(r, &refOff, &resOff, &childOff, &rszOff); err != nil {
		return nil, err
	}

	f := &Pfb{}
	if err := fits(r, "pfb gameobject", goCount, 12); err != nil {
		return nil, err
	}
	f.GameObjects = make([]GameObject, goCount)
	for i := range f.GameObjects {
		g := &f.GameObjects[i]
		g.ID, _ = r.U32()             //nolint:errcheck // bounds checked by fits
		g.Parent, _ = r.I32()         //nolint:errcheck // bounds checked by fits
		g.ComponentCount, _ = r.U32() //nolint:errcheck // bounds checked by fits
	}

	if err := r.SeekAssertAlignUp(refOff, 8); err != nil {
		return nil, fmt.Errorf("pfb ref info: %w", err)
	}
	if err := fits(r, "pfb ref info", refCount, 16); err != nil {
		return nil, err
	}
	f.RefInfos = make([]RefInfo, refCount)
	for i := range f.RefInfos {
		ri := &f.RefInfos[i]
		ri.ObjectID, _ = r.U32()   //nolint:errcheck // bounds checked by fits
		ri.PropertyID, _ = r.U16() //nolint:errcheck // bounds checked by fits
		ri.ArrayIndex, _ = r.U16() //nolint:errcheck // bounds checked by fits
		ri.TargetID, _ = r.U32()   //nolint:errcheck // bounds checked by fits
		if err := r.ExpectU32(0); err != nil {
			return nil, fmt.Errorf("pfb ref info %d: %w", i, err)
		}
	}

	var err error
	if err = r.SeekNoop(resOff); err != nil {
		return nil, fmt.Errorf("pfb resource list: %w", err)
	}
	if f.Resources, err = readResources(r, resCount); err != nil {
		return nil, fmt.Errorf("pfb: %w", err)
	}
	if f.Children, err = readChildren(r, childOff, childCount); err != nil {
		return nil, fmt.Errorf("pfb: %w", err)
	}
	if f.RSZ, err = embedded(r, rszOff, 0); err != nil {
		return nil, fmt.Errorf("pfb: %w", err)
	}
	return f, nil
}

// Names returns the child names followed by the resource names.
func (f *Pfb) Names() []string {
	return slices.Concat(childNames(f.Children), f.Resources)
}
