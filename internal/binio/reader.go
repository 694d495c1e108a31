// Package binio reads little-endian primitives from an in-memory byte slice.
//
// Every read is bounds-checked; a read past the end of the buffer returns an
// error wrapping errdefs.ErrCorruptData that records the failing position.
package binio

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/text/encoding/unicode"

	"github.com/meigma/reasset/internal/errdefs"
)

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// Reader is a forward cursor over a byte slice.
type Reader struct {
	buf []byte
	pos int
}

// NewReader returns a Reader positioned at the start of buf.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Pos returns the current absolute position.
func (r *Reader) Pos() int { return r.pos }

// Len returns the length of the underlying buffer.
func (r *Reader) Len() int { return len(r.buf) }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.buf) - r.pos }

// Bytes returns the underlying buffer.
func (r *Reader) Bytes() []byte { return r.buf }

func (r *Reader) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: at 0x%x: %s", errdefs.ErrCorruptData, r.pos, fmt.Sprintf(format, args...))
}

// Seek moves the cursor to an absolute position.
func (r *Reader) Seek(off uint64) error {
	if off > uint64(len(r.buf)) {
		return r.errorf("seek to 0x%x past end 0x%x", off, len(r.buf))
	}
	r.pos = int(off)
	return nil
}

// Skip advances the cursor by n bytes.
func (r *Reader) Skip(n int) error {
	if n < 0 || n > r.Remaining() {
		return r.errorf("skip %d bytes with %d remaining", n, r.Remaining())
	}
	r.pos += n
	return nil
}

// SeekNoop asserts the cursor already sits at off.
func (r *Reader) SeekNoop(off uint64) error {
	if uint64(r.pos) != off {
		return r.errorf("expected position 0x%x", off)
	}
	return nil
}

// AlignUp advances the cursor to the next multiple of align.
func (r *Reader) AlignUp(align int) error {
	return r.Skip(Padding(r.pos, align))
}

// SeekAssertAlignUp aligns the cursor up to align and asserts the result is off.
func (r *Reader) SeekAssertAlignUp(off uint64, align int) error {
	aligned := r.pos + Padding(r.pos, align)
	if uint64(aligned) != off {
		return r.errorf("aligned position 0x%x does not match 0x%x", aligned, off)
	}
	return r.Seek(off)
}

// Padding returns the number of bytes needed to align pos up to align.
// align must be a power of two; values below 2 need no padding.
func Padding(pos, align int) int {
	if align < 2 {
		return 0
	}
	return (align - pos%align) % align
}

// Read returns the next n bytes without copying.
func (r *Reader) Read(n int) ([]byte, error) {
	if n < 0 || n > r.Remaining() {
		return nil, r.errorf("read %d bytes with %d remaining", n, r.Remaining())
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// Magic reads a four byte tag.
func (r *Reader) Magic() ([4]byte, error) {
	var m [4]byte
	b, err := r.Read(4)
	if err != nil {
		return m, err
	}
	copy(m[:], b)
	return m, nil
}

// U8 reads an unsigned byte.
func (r *Reader) U8() (uint8, error) {
	b, err := r.Read(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// U16 reads a little-endian uint16.
func (r *Reader) U16() (uint16, error) {
	b, err := r.Read(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// U32 reads a little-endian uint32.
func (r *Reader) U32() (uint32, error) {
	b, err := r.Read(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// U64 reads a little-endian uint64.
func (r *Reader) U64() (uint64, error) {
	b, err := r.Read(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// I32 reads a little-endian int32.
func (r *Reader) I32() (int32, error) {
	v, err := r.U32()
	return int32(v), err //nolint:gosec // bit reinterpretation
}

// F32 reads a little-endian IEEE 754 float32.
func (r *Reader) F32() (float32, error) {
	v, err := r.U32()
	return math.Float32frombits(v), err
}

// F64 reads a little-endian IEEE 754 float64.
func (r *Reader) F64() (float64, error) {
	v, err := r.U64()
	return math.Float64frombits(v), err
}

// Vec4 reads four consecutive float32 values.
func (r *Reader) Vec4() (mgl32.Vec4, error) {
	var v mgl32.Vec4
	for i := range v {
		f, err := r.F32()
		if err != nil {
			return v, err
		}
		v[i] = f
	}
	return v, nil
}

// ExpectU32 reads a uint32 and fails unless it equals want.
func (r *Reader) ExpectU32(want uint32) error {
	v, err := r.U32()
	if err != nil {
		return err
	}
	if v != want {
		return fmt.Errorf("%w: at 0x%x: expected 0x%x, got 0x%x", errdefs.ErrCorruptData, r.pos-4, want, v)
	}
	return nil
}

// ExpectU64 reads a uint64 and fails unless it equals want.
func (r *Reader) ExpectU64(want uint64) error {
	v, err := r.U64()
	if err != nil {
		return err
	}
	if v != want {
		return fmt.Errorf("%w: at 0x%x: expected 0x%x, got 0x%x", errdefs.ErrCorruptData, r.pos-8, want, v)
	}
	return nil
}

// U16Str reads a NUL-terminated UTF-16LE string.
func (r *Reader) U16Str() (string, error) {
	start := r.pos
	for {
		unit, err := r.U16()
		if err != nil {
			r.pos = start
			return "", r.errorf("unterminated UTF-16 string")
		}
		if unit == 0 {
			break
		}
	}
	return DecodeUTF16(r.buf[start : r.pos-2])
}

// U16StrAt reads a NUL-terminated UTF-16LE string at off and restores the cursor.
func (r *Reader) U16StrAt(off uint64) (string, error) {
	saved := r.pos
	defer func() { r.pos = saved }()
	if err := r.Seek(off); err != nil {
		return "", err
	}
	return r.U16Str()
}

// DecodeUTF16 converts UTF-16LE bytes to a Go string.
func DecodeUTF16(b []byte) (string, error) {
	if len(b)%2 != 0 {
		return "", fmt.Errorf("%w: odd UTF-16 byte length %d", errdefs.ErrCorruptData, len(b))
	}
	out, err := utf16le.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errdefs.ErrCorruptData, err)
	}
	return string(out), nil
}

// EncodeUTF16 converts a Go string to UTF-16LE bytes without a terminator.
func EncodeUTF16(s string) ([]byte, error) {
	return utf16le.NewEncoder().Bytes([]byte(s))
}
