package pak

import "strconv"

// Index identifies an archive member. It is stable for the archive's
// lifetime and unrelated to any path ordering.
type Index uint32

// Raw returns the index as a plain integer.
func (i Index) Raw() uint32 { return uint32(i) }

// String returns the decimal form of the index.
func (i Index) String() string { return strconv.FormatUint(uint64(i), 10) }

// Compression identifies how an entry payload is stored.
type Compression uint8

const (
	CompressionNone Compression = iota
	CompressionDeflate
	CompressionZstd
)

// String returns the human-readable name of the compression algorithm.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionDeflate:
		return "deflate"
	case CompressionZstd:
		return "zstd"
	default:
		return "unknown(" + strconv.Itoa(int(c)) + ")"
	}
}

// Entry is one row of the archive's entry table.
type Entry struct {
	// HashLower is the path hash of the lower-cased path.
	HashLower uint32

	// HashUpper is the path hash of the upper-cased path.
	HashUpper uint32

	// Offset is the byte offset of the payload in the archive.
	Offset uint64

	// CompressedSize is the stored payload size.
	CompressedSize uint64

	// UncompressedSize is the size of the content after decompression.
	UncompressedSize uint64

	// Attributes holds the compression type in its low nibble; the rest is opaque.
	Attributes uint64

	// Checksum is stored verbatim; its algorithm is not known.
	Checksum uint64
}

// Key returns the lookup key combining both path hashes.
func (e Entry) Key() uint64 {
	return uint64(e.HashUpper)<<32 | uint64(e.HashLower)
}

// Compression returns the payload compression declared by the entry.
func (e Entry) Compression() Compression {
	return Compression(e.Attributes & 0xF)
}
