package format

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/meigma/reasset/internal/binio"
)

// MsgVersion is the only text table version understood.
const MsgVersion = 17

const msgMagic = "GMSG"

// msgKey is XORed over the string section together with the previous
// ciphertext byte.
var msgKey = [16]byte{
	0xCF, 0xCE, 0xFB, 0xF8, 0xEC, 0x0A, 0x33, 0x66,
	0x93, 0xA9, 0x1D, 0x93, 0x50, 0x39, 0x5F, 0x09,
}

// MsgAttribute describes one per-entry attribute column.
type MsgAttribute struct {
	Type int32  `json:"j"`
	Name string `json:"name"`
}

// MsgEntry is one localized text.
type MsgEntry struct {
	GUID       uuid.UUID `json:"guid"`
	Name       string    `json:"name"`
	Attributes []string  `json:"attributes"`

	// Content holds one string per language, in language index order.
	Content []string `json:"content"`
}

// Msg is a parsed text table.
type Msg struct {
	Attributes []MsgAttribute `json:"attribute_headers"`
	Entries    []MsgEntry     `json:"entries"`
}

type msgHeader struct {
	entryCount, attrCount, langCount                        uint32
	dataOff, reservedOff, langOff, attrTypeOff, attrNameOff uint64
}

type msgRecord struct {
	guid      uuid.UUID
	name      uint64
	attrOff   uint64
	attrNames []uint64
	content   []uint64
}

// ParseMsg parses a text table. Every table must list its languages in
// index order; strings live in an obfuscated section at the end of the file.
func ParseMsg(data []byte) (*Msg, error) {
	r := binio.NewReader(data)
	h, err := msgHead(r)
	if err != nil {
		return nil, err
	}

	entryOffs := make([]uint64, h.entryCount)
	for i := range entryOffs {
		if entryOffs[i], err = r.U64(); err != nil {
			return nil, fmt.Errorf("msg entry table: %w", err)
		}
	}
	if err := r.SeekNoop(h.reservedOff); err != nil {
		return nil, fmt.Errorf("msg reserved: %w", err)
	}
	if err := r.ExpectU64(0); err != nil {
		return nil, fmt.Errorf("msg reserved: %w", err)
	}
	if err := r.SeekNoop(h.langOff); err != nil {
		return nil, fmt.Errorf("msg languages: %w", err)
	}
	for i := range h.langCount {
		if err := r.ExpectU32(i); err != nil {
			return nil, fmt.Errorf("msg language %d: %w", i, err)
		}
	}

	attrs := make([]MsgAttribute, h.attrCount)
	if err := r.SeekNoop(h.attrTypeOff); err != nil {
		return nil, fmt.Errorf("msg attribute types: %w", err)
	}
	for i := range attrs {
		if attrs[i].Type, err = r.I32(); err != nil {
			return nil, fmt.Errorf("msg attribute types: %w", err)
		}
	}
	if err := r.SeekAssertAlignUp(h.attrNameOff, 8); err != nil {
		return nil, fmt.Errorf("msg attribute names: %w", err)
	}
	attrNames, err := u64s(r, h.attrCount)
	if err != nil {
		return nil, fmt.Errorf("msg attribute names: %w", err)
	}

	records := make([]msgRecord, len(entryOffs))
	for i, off := range entryOffs {
		if records[i], err = msgEntry(r, off, h.langCount); err != nil {
			return nil, fmt.Errorf("msg entry %d: %w", i, err)
		}
	}
	for i := range records {
		if err := r.SeekNoop(records[i].attrOff); err != nil {
			return nil, fmt.Errorf("msg entry %d attributes: %w", i, err)
		}
		if records[i].attrNames, err = u64s(r, h.attrCount); err != nil {
			return nil, fmt.Errorf("msg entry %d attributes: %w", i, err)
		}
	}

	if err := r.SeekNoop(h.dataOff); err != nil {
		return nil, fmt.Errorf("msg strings: %w", err)
	}
	s := msgStrings{base: h.dataOff, r: binio.NewReader(decryptMsg(data[r.Pos():]))}

	m := &Msg{Attributes: attrs, Entries: make([]MsgEntry, len(records))}
	for i, off := range attrNames {
		if m.Attributes[i].Name, err = s.at(off); err != nil {
			return nil, fmt.Errorf("msg attribute %d name: %w", i, err)
		}
	}
	for i := range records {
		rec := &records[i]
		e := MsgEntry{GUID: rec.guid}
		if e.Name, err = s.at(rec.name); err != nil {
			return nil, fmt.Errorf("msg entry %d name: %w", i, err)
		}
		if e.Attributes, err = s.all(rec.attrNames); err != nil {
			return nil, fmt.Errorf("msg entry %d attributes: %w", i, err)
		}
		if e.Content, err = s.all(rec.content); err != nil {
			return nil, fmt.Errorf("msg entry %d content: %w", i, err)
		}
		m.Entries[i] = e
	}
	return m, nil
}

func msgHead(r *binio.Reader) (*msgHeader, error) {
	version, err := r.U32()
	if err != nil {
		return nil, fmt.Errorf("%w: msg header: %v", ErrFormat, err)
	}
	m, err := r.Magic()
	if err != nil || string(m[:]) != msgMagic {
		return nil, fmt.Errorf("%w: msg magic %q", ErrFormat, m[:])
	}
	if version != MsgVersion {
		return nil, fmt.Errorf("%w: msg version %d, want %d", ErrFormat, version, MsgVersion)
	}
	if err := r.ExpectU64(0x10); err != nil {
		return nil, fmt.Errorf("%w: msg header: %v", ErrFormat, err)
	}

	h := &msgHeader{}
	for _, c := range []*uint32{&h.entryCount, &h.attrCount, &h.langCount} {
		if *c, err = r.U32(); err != nil {
			return nil, fmt.Errorf("%w: msg header: %v", ErrFormat, err)
		}
	}
	if err := r.AlignUp(8); err != nil {
		return nil, fmt.Errorf("%w: msg header: %v", ErrFormat, err)
	}
	for _, v := range []*uint64{&h.dataOff, &h.reservedOff, &h.langOff, &h.attrTypeOff, &h.attrNameOff} {
		if *v, err = r.U64(); err != nil {
			return nil, fmt.Errorf("%w: msg header: %v", ErrFormat, err)
		}
	}
	if err := fits(r, "msg entry", h.entryCount, 8+24+16); err != nil {
		return nil, err
	}
	if err := fits(r, "msg attribute", h.attrCount, 4+8); err != nil {
		return nil, err
	}
	return h, nil
}

func msgEntry(r *binio.Reader, off uint64, langs uint32) (msgRecord, error) {
	var rec msgRecord
	if err := r.SeekNoop(off); err != nil {
		return rec, err
	}
	raw, err := r.Read(16)
	if err != nil {
		return rec, err
	}
	copy(rec.guid[:], raw)
	if err := r.Skip(8); err != nil {
		return rec, err
	}
	if rec.name, err = r.U64(); err != nil {
		return rec, err
	}
	if rec.attrOff, err = r.U64(); err != nil {
		return rec, err
	}
	rec.content, err = u64s(r, langs)
	return rec, err
}

func u64s(r *binio.Reader, n uint32) ([]uint64, error) {
	if err := fits(r, "offset", n, 8); err != nil {
		return nil, err
	}
	out := make([]uint64, n)
	for i := range out {
		v, err := r.U64()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// decryptMsg returns a deobfuscated copy of the string section.
func decryptMsg(enc []byte) []byte {
	out := make([]byte, len(enc))
	var prev byte
	for i, cur := range enc {
		out[i] = cur ^ prev ^ msgKey[i&0xF]
		prev = cur
	}
	return out
}

// msgStrings resolves file offsets into the decrypted string section.
type msgStrings struct {
	base uint64
	r    *binio.Reader
}

func (s msgStrings) at(off uint64) (string, error) {
	if off < s.base {
		return "", fmt.Errorf("%w: string offset 0x%x outside section at 0x%x", ErrCorruptData, off, s.base)
	}
	return s.r.U16StrAt(off - s.base)
}

func (s msgStrings) all(offs []uint64) ([]string, error) {
	out := make([]string, len(offs))
	for i, off := range offs {
		v, err := s.at(off)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
