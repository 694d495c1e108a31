package binio

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/reasset/internal/errdefs"
)

func TestReader_Integers(t *testing.T) {
	t.Parallel()

	r := NewReader([]byte{
		0x01,
		0x02, 0x01,
		0x04, 0x03, 0x02, 0x01,
		0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01,
	})
	u8, err := r.U8()
	require.NoError(t, err)
	assert.Equal(t, uint8(1), u8)

	u16, err := r.U16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0102), u16)

	u32, err := r.U32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x01020304), u32)

	u64, err := r.U64()
	require.NoError(t, err)
	assert.Equal(t, uint64(0x0102030405060708), u64)

	_, err = r.U8()
	require.ErrorIs(t, err, errdefs.ErrCorruptData)
}

func TestReader_Vec4(t *testing.T) {
	t.Parallel()

	// 1.0, 2.0, -1.0, 0.5
	r := NewReader([]byte{
		0x00, 0x00, 0x80, 0x3f,
		0x00, 0x00, 0x00, 0x40,
		0x00, 0x00, 0x80, 0xbf,
		0x00, 0x00, 0x00, 0x3f,
	})
	v, err := r.Vec4()
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec4{1, 2, -1, 0.5}, v)
}

func TestReader_U16Str(t *testing.T) {
	t.Parallel()

	encoded, err := EncodeUTF16("enemy/em001")
	require.NoError(t, err)
	buf := append([]byte{0xff, 0xff}, encoded...)
	buf = append(buf, 0, 0, 0xaa)

	r := NewReader(buf)
	s, err := r.U16StrAt(2)
	require.NoError(t, err)
	assert.Equal(t, "enemy/em001", s)
	assert.Equal(t, 0, r.Pos(), "U16StrAt restores the cursor")

	require.NoError(t, r.Skip(2))
	s, err = r.U16Str()
	require.NoError(t, err)
	assert.Equal(t, "enemy/em001", s)
	assert.Equal(t, 1, r.Remaining())
}

func TestReader_U16StrUnterminated(t *testing.T) {
	t.Parallel()

	r := NewReader([]byte{'a', 0, 'b', 0})
	_, err := r.U16Str()
	require.ErrorIs(t, err, errdefs.ErrCorruptData)
	assert.Equal(t, 0, r.Pos())
}

func TestReader_Seeks(t *testing.T) {
	t.Parallel()

	r := NewReader(make([]byte, 32))
	require.NoError(t, r.Skip(3))
	require.NoError(t, r.SeekNoop(3))
	require.ErrorIs(t, r.SeekNoop(4), errdefs.ErrCorruptData)

	require.NoError(t, r.SeekAssertAlignUp(16, 16))
	assert.Equal(t, 16, r.Pos())
	require.ErrorIs(t, r.SeekAssertAlignUp(24, 16), errdefs.ErrCorruptData)

	require.NoError(t, r.Skip(1))
	require.NoError(t, r.AlignUp(8))
	assert.Equal(t, 24, r.Pos())

	require.ErrorIs(t, r.Seek(33), errdefs.ErrCorruptData)
	require.ErrorIs(t, r.Skip(9), errdefs.ErrCorruptData)
}

func TestReader_Expect(t *testing.T) {
	t.Parallel()

	r := NewReader([]byte{0xff, 0xff, 0xff, 0xff, 1, 0, 0, 0})
	require.NoError(t, r.ExpectU32(0xFFFFFFFF))
	require.ErrorIs(t, r.ExpectU32(0), errdefs.ErrCorruptData)
}

func TestPadding(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, Padding(16, 16))
	assert.Equal(t, 15, Padding(17, 16))
	assert.Equal(t, 3, Padding(5, 4))
	assert.Equal(t, 0, Padding(5, 1))
}
