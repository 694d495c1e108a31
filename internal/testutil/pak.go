package testutil

import (
	"bytes"
	"strings"
	"testing"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zstd"
)

// Archive compression codes, mirroring the low nibble of the entry attributes.
const (
	StoreNone    = 0
	StoreDeflate = 1
	StoreZstd    = 2
)

// PakFile describes one archive member for BuildPak.
type PakFile struct {
	// Path is the full archive path the entry is hashed under.
	Path string
	// Content is the uncompressed payload.
	Content []byte
	// Compression is one of StoreNone, StoreDeflate or StoreZstd.
	Compression uint8
}

// BuildPak assembles a KPKA archive holding files in order, so file i has
// archive index i.
func BuildPak(t testing.TB, files []PakFile) []byte {
	t.Helper()

	payloads := make([][]byte, len(files))
	for i, f := range files {
		payloads[i] = compress(t, f.Compression, f.Content)
	}

	var w Writer
	w.Raw([]byte("KPKA")).U8(4).U8(0).U16(0)
	w.U32(uint32(len(files))) //nolint:gosec // test data
	w.U32(0x12345678)

	offset := uint64(16 + 48*len(files)) //nolint:gosec // test data
	for i, f := range files {
		w.U32(HashUTF16(strings.ToLower(f.Path)))
		w.U32(HashUTF16(strings.ToUpper(f.Path)))
		w.U64(offset)
		w.U64(uint64(len(payloads[i])))
		w.U64(uint64(len(f.Content)))
		w.U64(uint64(f.Compression))
		w.U64(0)
		offset += uint64(len(payloads[i]))
	}
	for _, p := range payloads {
		w.Raw(p)
	}
	return w.Bytes()
}

// EntryOffset returns the byte offset of entry i's table row.
func EntryOffset(i int) int {
	return 16 + 48*i
}

func compress(t testing.TB, method uint8, content []byte) []byte {
	t.Helper()
	switch method {
	case StoreDeflate:
		var buf bytes.Buffer
		fw, err := flate.NewWriter(&buf, flate.BestSpeed)
		if err != nil {
			t.Fatalf("flate writer: %v", err)
		}
		if _, err := fw.Write(content); err != nil {
			t.Fatalf("flate write: %v", err)
		}
		if err := fw.Close(); err != nil {
			t.Fatalf("flate close: %v", err)
		}
		return buf.Bytes()
	case StoreZstd:
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			t.Fatalf("zstd writer: %v", err)
		}
		defer enc.Close()
		return enc.EncodeAll(content, nil)
	default:
		return bytes.Clone(content)
	}
}
