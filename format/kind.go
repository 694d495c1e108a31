package format

import "fmt"

// Kind identifies a recognized file format.
type Kind uint8

const (
	// KindUnknown is any content without a recognized magic.
	KindUnknown Kind = iota
	// KindUser is a USER data file.
	KindUser
	// KindPfb is a prefab.
	KindPfb
	// KindScn is a scene.
	KindScn
	// KindRcol is a collision file.
	KindRcol
	// KindMsg is a localized text table.
	KindMsg
)

var kindMagics = []struct {
	kind  Kind
	magic string
}{
	{KindUser, "USR\x00"},
	{KindPfb, "PFB\x00"},
	{KindScn, "SCN\x00"},
	{KindRcol, "RCOL"},
}

// String returns the format name.
func (k Kind) String() string {
	switch k {
	case KindUser:
		return "user"
	case KindPfb:
		return "pfb"
	case KindScn:
		return "scn"
	case KindRcol:
		return "rcol"
	case KindMsg:
		return "msg"
	default:
		return "unknown"
	}
}

// HasChildren reports whether files of this kind reference other entries
// by name.
func (k Kind) HasChildren() bool {
	return k == KindUser || k == KindPfb || k == KindScn
}

// Sniff identifies data by its magic. Text tables carry theirs after a
// leading version field.
func Sniff(data []byte) Kind {
	if len(data) < 4 {
		return KindUnknown
	}
	if len(data) >= 8 && string(data[4:8]) == msgMagic {
		return KindMsg
	}
	for _, m := range kindMagics {
		if string(data[:4]) == m.magic {
			return m.kind
		}
	}
	return KindUnknown
}

// ExtractChildren parses data far enough to list the names it references:
// child names first, then resource names, then (for scenes) prefab names.
// Names keep file order and may repeat.
func ExtractChildren(data []byte) ([]string, error) {
	switch k := Sniff(data); k {
	case KindUser:
		f, err := ParseUser(data)
		if err != nil {
			return nil, err
		}
		return f.Names(), nil
	case KindPfb:
		f, err := ParsePfb(data)
		if err != nil {
			return nil, err
		}
		return f.Names(), nil
	case KindScn:
		f, err := ParseScn(data)
		if err != nil {
			return nil, err
		}
		return f.Names(), nil
	default:
		return nil, fmt.Errorf("%w: %s files have no child list", ErrFormat, k)
	}
}
