package testutil

import "github.com/google/uuid"

// UserFile describes a USER file for BuildUser.
type UserFile struct {
	Resources []string
	Children  []string
	RSZ       []byte
}

// BuildUser serializes a USER file. Strings precede the 16-aligned RSZ block.
func BuildUser(f UserFile) []byte {
	var w Writer
	w.Raw([]byte("USR\x00"))
	w.U32(uint32(len(f.Resources))) //nolint:gosec // test data
	w.U32(uint32(len(f.Children)))  //nolint:gosec // test data
	w.U32(0)
	resOff := w.Placeholder()
	childOff := w.Placeholder()
	rszOff := w.Placeholder()
	w.U64(uint64(len(f.RSZ)))

	w.PatchU64(resOff, uint64(w.Pos())) //nolint:gosec // test data
	for _, r := range f.Resources {
		w.StringRef(r)
	}
	writeChildList(&w, childOff, f.Children)
	w.FlushStrings()

	w.Align(16)
	w.PatchU64(rszOff, uint64(w.Pos())) //nolint:gosec // test data
	w.Raw(f.RSZ)
	return w.Bytes()
}

// PfbGameObject is one game object row of a PFB file.
type PfbGameObject struct {
	ID         uint32
	Parent     int32
	Components uint32
}

// PfbRefInfo is one reference row of a PFB file.
type PfbRefInfo struct {
	ObjectID   uint32
	PropertyID uint16
	ArrayIndex uint16
	TargetID   uint32
}

// PfbFile describes a PFB file for BuildPfb.
type PfbFile struct {
	GameObjects []PfbGameObject
	RefInfos    []PfbRefInfo
	Resources   []string
	Children    []string
	RSZ         []byte
}

// BuildPfb serializes a PFB file. The RSZ block runs to the end of the file.
func BuildPfb(f PfbFile) []byte {
	var w Writer
	w.Raw([]byte("PFB\x00"))
	w.U32(uint32(len(f.GameObjects))) //nolint:gosec // test data
	w.U32(uint32(len(f.Resources)))   //nolint:gosec // test data
	w.U32(uint32(len(f.RefInfos)))    //nolint:gosec // test data
	w.U32(uint32(len(f.Children)))    //nolint:gosec // test data
	w.U32(0)
	refOff := w.Placeholder()
	resOff := w.Placeholder()
	childOff := w.Placeholder()
	rszOff := w.Placeholder()

	for _, g := range f.GameObjects {
		w.U32(g.ID).I32(g.Parent).U32(g.Components)
	}

	w.Align(8)
	w.PatchU64(refOff, uint64(w.Pos())) //nolint:gosec // test data
	for _, r := range f.RefInfos {
		w.U32(r.ObjectID).U16(r.PropertyID).U16(r.ArrayIndex).U32(r.TargetID).U32(0)
	}

	w.PatchU64(resOff, uint64(w.Pos())) //nolint:gosec // test data
	for _, r := range f.Resources {
		w.StringRef(r)
	}
	writeChildList(&w, childOff, f.Children)
	w.FlushStrings()

	w.Align(16)
	w.PatchU64(rszOff, uint64(w.Pos())) //nolint:gosec // test data
	w.Raw(f.RSZ)
	return w.Bytes()
}

// ScnGameObject is one game object row of a SCN file.
type ScnGameObject struct {
	GUID       uuid.UUID
	ID         uint32
	Parent     int32
	Components uint16
	PrefabID   int32
}

// ScnFolder is one folder row of a SCN file.
type ScnFolder struct {
	ID     uint32
	Parent int32
}

// ScnPrefab is one prefab row of a SCN file.
type ScnPrefab struct {
	Name     string
	ParentID uint32
}

// ScnFile describes a SCN file for BuildScn.
type ScnFile struct {
	GameObjects []ScnGameObject
	Folders     []ScnFolder
	Resources   []string
	Prefabs     []ScnPrefab
	Children    []string
	RSZ         []byte
}

// BuildScn serializes a SCN file. The RSZ block runs to the end of the file.
func BuildScn(f ScnFile) []byte {
	var w Writer
	w.Raw([]byte("SCN\x00"))
	w.U32(uint32(len(f.GameObjects))) //nolint:gosec // test data
	w.U32(uint32(len(f.Resources)))   //nolint:gosec // test data
	w.U32(uint32(len(f.Folders)))     //nolint:gosec // test data
	w.U32(uint32(len(f.Prefabs)))     //nolint:gosec // test data
	w.U32(uint32(len(f.Children)))    //nolint:gosec // test data
	folderOff := w.Placeholder()
	resOff := w.Placeholder()
	prefabOff := w.Placeholder()
	childOff := w.Placeholder()
	rszOff := w.Placeholder()

	for _, g := range f.GameObjects {
		w.Raw(g.GUID[:]).U32(g.ID).I32(g.Parent).U16(g.Components).U16(0).I32(g.PrefabID)
	}

	w.Align(16)
	w.PatchU64(folderOff, uint64(w.Pos())) //nolint:gosec // test data
	for _, d := range f.Folders {
		w.U32(d.ID).I32(d.Parent)
	}

	w.Align(8)
	w.PatchU64(resOff, uint64(w.Pos())) //nolint:gosec // test data
	for _, r := range f.Resources {
		w.StringRef(r)
	}

	w.Align(16)
	w.PatchU64(prefabOff, uint64(w.Pos())) //nolint:gosec // test data
	for _, p := range f.Prefabs {
		w.StringRef(p.Name).U32(p.ParentID).U32(0)
	}
	writeChildList(&w, childOff, f.Children)
	w.FlushStrings()

	w.Align(16)
	w.PatchU64(rszOff, uint64(w.Pos())) //nolint:gosec // test data
	w.Raw(f.RSZ)
	return w.Bytes()
}

func writeChildList(w *Writer, slot int, children []string) {
	w.Align(16)
	w.PatchU64(slot, uint64(w.Pos())) //nolint:gosec // test data
	for _, c := range children {
		w.U32(HashUTF16(c)).U32(0).StringRef(c)
	}
}
