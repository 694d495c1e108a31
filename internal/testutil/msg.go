package testutil

import "github.com/google/uuid"

// MsgKey is the string section key of text tables.
var MsgKey = [16]byte{
	0xCF, 0xCE, 0xFB, 0xF8, 0xEC, 0x0A, 0x33, 0x66,
	0x93, 0xA9, 0x1D, 0x93, 0x50, 0x39, 0x5F, 0x09,
}

// MsgAttribute is one attribute column of a text table.
type MsgAttribute struct {
	Type int32
	Name string
}

// MsgEntry is one text table row. Attributes and Content must have one value
// per attribute and per language.
type MsgEntry struct {
	GUID       uuid.UUID
	Name       string
	Attributes []string
	Content    []string
}

// MsgFile describes a text table for BuildMsg.
type MsgFile struct {
	Languages  int
	Attributes []MsgAttribute
	Entries    []MsgEntry
}

// BuildMsg serializes a version 17 text table with an obfuscated string
// section.
func BuildMsg(f MsgFile) []byte {
	var w Writer
	w.U32(17).Raw([]byte("GMSG")).U64(0x10)
	w.U32(uint32(len(f.Entries)))    //nolint:gosec // test data
	w.U32(uint32(len(f.Attributes))) //nolint:gosec // test data
	w.U32(uint32(f.Languages))       //nolint:gosec // test data
	w.Align(8)
	dataOff := w.Placeholder()
	reservedOff := w.Placeholder()
	langOff := w.Placeholder()
	typeOff := w.Placeholder()
	nameOff := w.Placeholder()
	entryOffs := make([]int, len(f.Entries))
	for i := range entryOffs {
		entryOffs[i] = w.Placeholder()
	}

	type ref struct {
		pos   int
		value string
	}
	var refs []ref
	str := func(s string) { refs = append(refs, ref{pos: w.Placeholder(), value: s}) }

	w.PatchU64(reservedOff, uint64(w.Pos())) //nolint:gosec // test data
	w.U64(0)
	w.PatchU64(langOff, uint64(w.Pos())) //nolint:gosec // test data
	for i := range f.Languages {
		w.U32(uint32(i)) //nolint:gosec // test data
	}
	w.PatchU64(typeOff, uint64(w.Pos())) //nolint:gosec // test data
	for _, a := range f.Attributes {
		w.I32(a.Type)
	}
	w.Align(8)
	w.PatchU64(nameOff, uint64(w.Pos())) //nolint:gosec // test data
	for _, a := range f.Attributes {
		str(a.Name)
	}

	attrPtrs := make([]int, len(f.Entries))
	for i, e := range f.Entries {
		w.PatchU64(entryOffs[i], uint64(w.Pos())) //nolint:gosec // test data
		w.Raw(e.GUID[:]).Zero(8)
		str(e.Name)
		attrPtrs[i] = w.Placeholder()
		for _, c := range e.Content {
			str(c)
		}
	}
	for i, e := range f.Entries {
		w.PatchU64(attrPtrs[i], uint64(w.Pos())) //nolint:gosec // test data
		for _, a := range e.Attributes {
			str(a)
		}
	}

	data := w.Pos()
	w.PatchU64(dataOff, uint64(data)) //nolint:gosec // test data
	for _, r := range refs {
		w.PatchU64(r.pos, uint64(w.Pos())) //nolint:gosec // test data
		w.UTF16Z(r.value)
	}

	buf := w.Bytes()
	var prev byte
	for i := data; i < len(buf); i++ {
		buf[i] ^= prev ^ MsgKey[(i-data)&0xF]
		prev = buf[i]
	}
	return buf
}
