// Package testutil builds synthetic archive and asset files for tests.
package testutil

import (
	"encoding/binary"
	"math"
	"unicode/utf16"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaolacci/murmur3"
)

// Writer appends little-endian primitives to a growing buffer.
type Writer struct {
	buf     []byte
	pending []pendingString
}

type pendingString struct {
	pos   int
	value string
}

// Bytes returns the written buffer.
func (w *Writer) Bytes() []byte { return w.buf }

// Pos returns the current write position.
func (w *Writer) Pos() int { return len(w.buf) }

// Raw appends b verbatim.
func (w *Writer) Raw(b []byte) *Writer {
	w.buf = append(w.buf, b...)
	return w
}

// Zero appends n zero bytes.
func (w *Writer) Zero(n int) *Writer {
	w.buf = append(w.buf, make([]byte, n)...)
	return w
}

// Align pads with zeros up to a multiple of n.
func (w *Writer) Align(n int) *Writer {
	if pad := (n - len(w.buf)%n) % n; pad > 0 {
		w.Zero(pad)
	}
	return w
}

// U8 appends a byte.
func (w *Writer) U8(v uint8) *Writer {
	w.buf = append(w.buf, v)
	return w
}

// U16 appends a uint16.
func (w *Writer) U16(v uint16) *Writer {
	w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
	return w
}

// U32 appends a uint32.
func (w *Writer) U32(v uint32) *Writer {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
	return w
}

// I32 appends an int32.
func (w *Writer) I32(v int32) *Writer {
	return w.U32(uint32(v)) //nolint:gosec // bit reinterpretation
}

// U64 appends a uint64.
func (w *Writer) U64(v uint64) *Writer {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, v)
	return w
}

// F32 appends a float32.
func (w *Writer) F32(v float32) *Writer {
	return w.U32(math.Float32bits(v))
}

// F64 appends a float64.
func (w *Writer) F64(v float64) *Writer {
	return w.U64(math.Float64bits(v))
}

// Vec4 appends four float32 values.
func (w *Writer) Vec4(v mgl32.Vec4) *Writer {
	for _, f := range v {
		w.F32(f)
	}
	return w
}

// UTF16Z appends s as NUL-terminated UTF-16LE.
func (w *Writer) UTF16Z(s string) *Writer {
	for _, unit := range utf16.Encode([]rune(s)) {
		w.U16(unit)
	}
	return w.U16(0)
}

// RSZString appends an RSZ string field: aligned count then UTF-16 units
// including the terminator.
func (w *Writer) RSZString(s string) *Writer {
	units := utf16.Encode([]rune(s))
	w.Align(4).U32(uint32(len(units) + 1)) //nolint:gosec // test data
	for _, unit := range units {
		w.U16(unit)
	}
	return w.U16(0)
}

// Placeholder reserves a uint64 slot and returns its position.
func (w *Writer) Placeholder() int {
	pos := len(w.buf)
	w.U64(0)
	return pos
}

// PatchU64 overwrites the uint64 at pos.
func (w *Writer) PatchU64(pos int, v uint64) {
	binary.LittleEndian.PutUint64(w.buf[pos:], v)
}

// StringRef reserves a uint64 offset slot that FlushStrings fills with the
// position of s.
func (w *Writer) StringRef(s string) *Writer {
	w.pending = append(w.pending, pendingString{pos: w.Placeholder(), value: s})
	return w
}

// FlushStrings writes every string referenced since the last flush as
// NUL-terminated UTF-16LE and patches the reserved slots. Equal strings are
// written once.
func (w *Writer) FlushStrings() *Writer {
	written := make(map[string]int, len(w.pending))
	for _, ref := range w.pending {
		off, ok := written[ref.value]
		if !ok {
			off = w.Pos()
			written[ref.value] = off
			w.UTF16Z(ref.value)
		}
		w.PatchU64(ref.pos, uint64(off)) //nolint:gosec // test data
	}
	w.pending = nil
	return w
}

// PatchU32 overwrites the uint32 at pos.
func (w *Writer) PatchU32(pos int, v uint32) {
	binary.LittleEndian.PutUint32(w.buf[pos:], v)
}

// Hash returns the engine name hash of s (UTF-8 bytes).
func Hash(s string) uint32 {
	return murmur3.Sum32WithSeed([]byte(s), 0xFFFFFFFF)
}

// HashUTF16 returns the engine name hash of s encoded as UTF-16LE.
func HashUTF16(s string) uint32 {
	var w Writer
	for _, unit := range utf16.Encode([]rune(s)) {
		w.U16(unit)
	}
	return murmur3.Sum32WithSeed(w.Bytes(), 0xFFFFFFFF)
}
