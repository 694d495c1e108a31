package format

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/meigma/reasset/internal/binio"
	"github.com/meigma/reasset/rsz"
)

// SceneObject is one game object row of a scene.
type SceneObject struct {
	GUID           uuid.UUID
	ID             uint32
	Parent         int32
	ComponentCount uint16
	PrefabID       int32
}

// Folder is one folder row of a scene.
type Folder struct {
	ID     uint32
	Parent int32
}

// Prefab is a prefab instantiated by a scene.
type Prefab struct {
	Name     string
	ParentID uint32
}

// Scn is a parsed scene.
type Scn struct {
	GameObjects []SceneObject
	Folders     []Folder
	Resources   []string
	Prefabs     []Prefab
	Children    []Child

	// RSZ is the embedded block, parsed but not decoded. It runs to the end
	// of the file.
	RSZ *rsz.Block
}

// ParseScn parses the tables of a scene and the header of its RSZ block.
func ParseScn(data []byte) (*Scn, error) {
	r := binio.NewReader(data)
	var goCount, resCount, folderCount, prefabCount, childCount uint32
	if err := header(r, "SCN\x00", &goCount, &resCount, &folderCount, &prefabCount, &childCount); err != nil {
		return nil, err
	}
	var folderOff, resOff, prefabOff, childOff, rszOff uint64
	if err := offsets(r, &folderOff, &resOff, &prefabOff, &childOff, &rszOff); err != nil {
		return nil, err
	}

	f := &Scn{}
	if err := fits(r, "scn gameobject", goCount, 32); err != nil {
		return nil, err
	}
	f.GameObjects = make([]SceneObject, goCount)
	for i := range f.GameObjects {
		g := &f.GameObjects[i]
		raw, _ := r.Read(16) //nolint:errcheck // bounds checked by fits
		copy(g.GUID[:], raw)
		g.ID, _ = r.U32()             //nolint:errcheck // bounds checked by fits
		g.Parent, _ = r.I32()         //nolint:errcheck // bounds checked by fits
		g.ComponentCount, _ = r.U16() //nolint:errcheck // bounds checked by fits
		_, _ = r.U16()                //nolint:errcheck // bounds checked by fits
		g.PrefabID, _ = r.I32()       //nolint:errcheck // bounds checked by fits
	}

	if err := r.SeekAssertAlignUp(folderOff, 16); err != nil {
		return nil, fmt.Errorf("scn folder list: %w", err)
	}
	if err := fits(r, "scn folder", folderCount, 8); err != nil {
		return nil, err
	}
	f.Folders = make([]Folder, folderCount)
	for i := range f.Folders {
		f.Folders[i].ID, _ = r.U32()     //nolint:errcheck // bounds checked by fits
		f.Folders[i].Parent, _ = r.I32() //nolint:errcheck // bounds checked by fits
	}

	var err error
	if err = r.SeekAssertAlignUp(resOff, 8); err != nil {
		return nil, fmt.Errorf("scn resource list: %w", err)
	}
	if f.Resources, err = readResources(r, resCount); err != nil {
		return nil, fmt.Errorf("scn: %w", err)
	}

	if err = r.SeekAssertAlignUp(prefabOff, 16); err != nil {
		return nil, fmt.Errorf("scn prefab list: %w", err)
	}
	if err = fits(r, "scn prefab", prefabCount, 16); err != nil {
		return nil, err
	}
	f.Prefabs = make([]Prefab, prefabCount)
	for i := range f.Prefabs {
		p := &f.Prefabs[i]
		if p.Name, err = stringAt(r); err != nil {
			return nil, fmt.Errorf("scn prefab %d: %w", i, err)
		}
		p.ParentID, _ = r.U32() //nolint:errcheck // bounds checked by fits
		if err = r.ExpectU32(0); err != nil {
			return nil, fmt.Errorf("scn prefab %d: %w", i, err)
		}
	}

	if f.Children, err = readChildren(r, childOff, childCount); err != nil {
		return nil, fmt.Errorf("scn: %w", err)
	}
	if f.RSZ, err = embedded(r, rszOff, 0); err != nil {
		return nil, fmt.Errorf("scn: %w", err)
	}
	return f, nil
}

// Names returns the child names, then the resource names, then the prefab
// names.
func (f *Scn) Names() []string {
	prefabs := make([]string, len(f.Prefabs))
	for i, p := range f.Prefabs {
		prefabs[i] = p.Name
	}
	return slices.Concat(childNames(f.Children), f.Resources, prefabs)
}
