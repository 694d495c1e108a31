package pak

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strconv"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/singleflight"

	"github.com/meigma/reasset/cache"
	"github.com/meigma/reasset/internal/binio"
	"github.com/meigma/reasset/internal/errdefs"
	"github.com/meigma/reasset/internal/sizing"
)

const (
	headerSize = 16
	entrySize  = 48

	majorVersion = 4
	minorVersion = 0
)

var magic = [4]byte{'K', 'P', 'K', 'A'}

// Header is the fixed archive header.
type Header struct {
	Major       uint8
	Minor       uint8
	Feature     uint16
	FileCount   uint32
	Fingerprint uint32
}

// Reader provides random access to archive entries.
type Reader struct {
	source io.ReaderAt
	size   int64
	closer io.Closer

	header  Header
	entries []Entry
	byHash  map[uint64]Index

	prefixes           []string
	suffixes           map[string]string
	maxFileSize        uint64
	maxDecoderMemory   uint64
	decoderConcurrency int
	decoderLowmem      bool
	cacheEntries       int

	pool      *decompressPool
	cache     cache.Cache        // nil = no caching
	readGroup singleflight.Group // zero value is valid
	logger    *slog.Logger
}

// log returns the logger, falling back to a discard logger if nil.
func (r *Reader) log() *slog.Logger {
	if r.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.logger
}

// Open opens the archive file at path. The returned Reader owns the file
// and must be closed.
func Open(path string, opts ...Option) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	r, err := New(f, info.Size(), opts...)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	r.closer = f
	return r, nil
}

// NewFromReadSeeker creates a Reader over a handle that is not safe for
// concurrent positioned reads. Reads are serialized through a single lock.
func NewFromReadSeeker(rs io.ReadSeeker, opts ...Option) (*Reader, error) {
	size, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, err
	}
	return New(&lockedReaderAt{rs: rs}, size, opts...)
}

// New reads the archive header and entry table from source.
//
// source must support concurrent ReadAt calls (as *os.File does); size is
// the total archive size in bytes.
func New(source io.ReaderAt, size int64, opts ...Option) (*Reader, error) {
	r := &Reader{
		source:             source,
		size:               size,
		prefixes:           slices.Clone(DefaultPrefixes),
		suffixes:           maps.Clone(DefaultSuffixes),
		maxFileSize:        DefaultMaxFileSize,
		maxDecoderMemory:   DefaultMaxDecoderMemory,
		decoderConcurrency: 1,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.pool = newDecompressPool(r.maxDecoderMemory, r.decoderConcurrency, r.decoderLowmem)
	if r.cacheEntries > 0 {
		c, err := cache.NewLRU(r.cacheEntries)
		if err != nil {
			return nil, err
		}
		r.cache = c
	}

	if err := r.readTable(); err != nil {
		return nil, err
	}
	r.log().Debug("archive opened",
		"files", r.header.FileCount,
		"size", humanize.IBytes(uint64(size))) //nolint:gosec // size is non-negative
	return r, nil
}

// readTable parses the header and entry table and builds the hash index.
func (r *Reader) readTable() error {
	head := make([]byte, headerSize)
	if _, err := r.source.ReadAt(head, 0); err != nil {
		return fmt.Errorf("%w: reading header: %v", ErrFormat, err)
	}
	hr := binio.NewReader(head)
	m, _ := hr.Magic() //nolint:errcheck // length checked above
	if m != magic {
		return fmt.Errorf("%w: bad magic %q", ErrFormat, m[:])
	}
	r.header.Major, _ = hr.U8()        //nolint:errcheck // length checked above
	r.header.Minor, _ = hr.U8()        //nolint:errcheck // length checked above
	r.header.Feature, _ = hr.U16()     //nolint:errcheck // length checked above
	r.header.FileCount, _ = hr.U32()   //nolint:errcheck // length checked above
	r.header.Fingerprint, _ = hr.U32() //nolint:errcheck // length checked above

	if r.header.Major != majorVersion || r.header.Minor != minorVersion {
		return fmt.Errorf("%w: unsupported version %d.%d", ErrFormat, r.header.Major, r.header.Minor)
	}
	if r.header.Feature != 0 {
		return fmt.Errorf("%w: unsupported feature flags 0x%x", ErrFormat, r.header.Feature)
	}

	tableSize := uint64(r.header.FileCount) * entrySize
	if !sizing.InBounds(headerSize, tableSize, uint64(r.size)) { //nolint:gosec // size is non-negative
		return fmt.Errorf("%w: entry table of %d files exceeds archive size", ErrFormat, r.header.FileCount)
	}
	table := make([]byte, tableSize)
	if _, err := r.source.ReadAt(table, headerSize); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: reading entry table: %v", ErrFormat, err)
	}

	tr := binio.NewReader(table)
	r.entries = make([]Entry, r.header.FileCount)
	r.byHash = make(map[uint64]Index, r.header.FileCount)
	for i := range r.entries {
		e, err := readEntry(tr)
		if err != nil {
			return fmt.Errorf("%w: entry %d: %v", ErrFormat, i, err)
		}
		r.entries[i] = e
		if prev, dup := r.byHash[e.Key()]; dup {
			r.log().Warn("duplicate path hash", "index", i, "first", prev.Raw())
			continue
		}
		r.byHash[e.Key()] = Index(i) //nolint:gosec // bounded by FileCount
	}
	return nil
}

func readEntry(r *binio.Reader) (Entry, error) {
	var e Entry
	var err error
	read32 := func(dst *uint32) {
		if err == nil {
			*dst, err = r.U32()
		}
	}
	read64 := func(dst *uint64) {
		if err == nil {
			*dst, err = r.U64()
		}
	}
	read32(&e.HashLower)
	read32(&e.HashUpper)
	read64(&e.Offset)
	read64(&e.CompressedSize)
	read64(&e.UncompressedSize)
	read64(&e.Attributes)
	read64(&e.Checksum)
	return e, err
}

// Close releases the underlying file when the Reader was created by Open.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// Header returns the archive header.
func (r *Reader) Header() Header {
	return r.header
}

// FileCount returns the number of addressable entries.
func (r *Reader) FileCount() uint32 {
	return r.header.FileCount
}

// Entry returns the table row for index.
func (r *Reader) Entry(index Index) (Entry, error) {
	if uint64(index) >= uint64(len(r.entries)) {
		return Entry{}, fmt.Errorf("%w: %d >= %d", ErrIndexOutOfRange, index, len(r.entries))
	}
	return r.entries[index], nil
}

// Entries returns an iterator over all table rows in index order.
func (r *Reader) Entries() iter.Seq2[Index, Entry] {
	return func(yield func(Index, Entry) bool) {
		for i, e := range r.entries {
			if !yield(Index(i), e) { //nolint:gosec // bounded by FileCount
				return
			}
		}
	}
}

// ReadFileAt decompresses and returns the full content of entry index.
//
// When caching is enabled, concurrent calls for the same index are
// deduplicated and the returned slice is shared; callers must not modify it.
func (r *Reader) ReadFileAt(index Index) ([]byte, error) {
	if uint64(index) >= uint64(len(r.entries)) {
		return nil, fmt.Errorf("%w: %d >= %d", ErrIndexOutOfRange, index, len(r.entries))
	}
	entry := &r.entries[index]

	if r.cache == nil {
		return r.readEntryContent(index, entry)
	}
	if content, ok := r.cache.Get(index.Raw()); ok {
		r.log().Debug("entry cache hit", "index", index.Raw())
		return content, nil
	}

	result, err, _ := r.readGroup.Do(strconv.FormatUint(uint64(index), 10), func() (any, error) {
		if content, ok := r.cache.Get(index.Raw()); ok {
			return content, nil
		}
		content, err := r.readEntryContent(index, entry)
		if err != nil {
			return nil, err
		}
		r.cache.Put(index.Raw(), content)
		return content, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil //nolint:errcheck // type assertion always succeeds when err is nil
}

// ReadFile returns the content of an index previously resolved by Find.
func (r *Reader) ReadFile(index Index) ([]byte, error) {
	return r.ReadFileAt(index)
}

// ReadPath resolves path with Find and returns its content and canonical path.
func (r *Reader) ReadPath(path string) ([]byte, string, error) {
	index, full, err := r.Find(path)
	if err != nil {
		return nil, "", err
	}
	content, err := r.ReadFileAt(index)
	if err != nil {
		return nil, "", err
	}
	return content, full, nil
}

// Find resolves a path to an entry index by hash.
//
// Candidates are built from the configured prefixes and version suffixes and
// tried in order; the first candidate whose hash is in the table wins and is
// returned as the canonical path. Only hashes are stored, so a colliding or
// mistyped path can resolve to the wrong entry.
func (r *Reader) Find(path string) (Index, string, error) {
	for _, candidate := range candidates(path, r.prefixes, r.suffixes) {
		key, err := PathHash(candidate)
		if err != nil {
			return 0, "", err
		}
		if index, ok := r.byHash[key]; ok {
			return index, candidate, nil
		}
	}
	return 0, "", fmt.Errorf("%w: %s", ErrNotFound, path)
}

// readEntryContent reads and decompresses a single entry.
func (r *Reader) readEntryContent(index Index, e *Entry) ([]byte, error) {
	if !sizing.InBounds(e.Offset, e.CompressedSize, uint64(r.size)) { //nolint:gosec // size is non-negative
		return nil, fmt.Errorf("read %d: %w: payload [0x%x, +0x%x) outside archive of %d bytes",
			index, errdefs.ErrCorruptData, e.Offset, e.CompressedSize, r.size)
	}
	if r.maxFileSize != 0 && e.UncompressedSize > r.maxFileSize {
		return nil, fmt.Errorf("read %d: %w: %s exceeds limit %s", index, ErrSizeOverflow,
			humanize.IBytes(e.UncompressedSize), humanize.IBytes(r.maxFileSize))
	}

	length, err := sizing.ToInt(e.CompressedSize)
	if err != nil {
		return nil, fmt.Errorf("read %d: %w", index, err)
	}
	offset, err := sizing.ToInt64(e.Offset)
	if err != nil {
		return nil, fmt.Errorf("read %d: %w", index, err)
	}
	raw := make([]byte, length)
	if _, err := io.ReadFull(io.NewSectionReader(r.source, offset, int64(length)), raw); err != nil {
		return nil, fmt.Errorf("read %d: %w", index, err)
	}

	content, err := r.pool.decompress(e, raw)
	if err != nil {
		return nil, fmt.Errorf("read %d: %w", index, err)
	}
	return content, nil
}
