package pak

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/reasset/internal/testutil"
)

func openTestArchive(t *testing.T, files []testutil.PakFile, opts ...Option) *Reader {
	t.Helper()
	data := testutil.BuildPak(t, files)
	r, err := New(testutil.NewMockByteSource(data), int64(len(data)), opts...)
	require.NoError(t, err)
	return r
}

func TestReader_FindAndReadAgree(t *testing.T) {
	t.Parallel()

	files := []testutil.PakFile{
		{Path: "natives/STM/enemy/em001/00/em001.user.2", Content: []byte("user payload"), Compression: testutil.StoreNone},
		{Path: "natives/STM/enemy/em001/00/em001.pfb.17", Content: bytes.Repeat([]byte("pfb "), 512), Compression: testutil.StoreDeflate},
		{Path: "natives/STM/stage/st101.scn.20", Content: bytes.Repeat([]byte("scene"), 1000), Compression: testutil.StoreZstd},
	}
	r := openTestArchive(t, files)
	assert.Equal(t, uint32(3), r.FileCount())

	for i, f := range files {
		t.Run(f.Path, func(t *testing.T) {
			t.Parallel()
			index, full, err := r.Find(f.Path)
			require.NoError(t, err)
			assert.Equal(t, Index(i), index) //nolint:gosec // small test index
			assert.Equal(t, f.Path, full)

			viaFind, err := r.ReadFile(index)
			require.NoError(t, err)
			direct, err := r.ReadFileAt(Index(i)) //nolint:gosec // small test index
			require.NoError(t, err)
			assert.Equal(t, direct, viaFind)
			assert.Equal(t, f.Content, direct)
		})
	}
}

func TestReader_FindAppliesPrefixAndSuffix(t *testing.T) {
	t.Parallel()

	r := openTestArchive(t, []testutil.PakFile{
		{Path: "natives/STM/enemy/em002/collision/em002_00_colliders.rcol.18", Content: []byte("rcol")},
		{Path: "natives/NSW/gui/title.gui.270020", Content: []byte("gui")},
		{Path: "plain.bin", Content: []byte("bin")},
	})

	tests := []struct {
		name  string
		query string
		index Index
		full  string
	}{
		{"stm prefix and version", "enemy/em002/collision/em002_00_colliders.rcol", 0, "natives/STM/enemy/em002/collision/em002_00_colliders.rcol.18"},
		{"backslashes", `enemy\em002\collision\em002_00_colliders.rcol`, 0, "natives/STM/enemy/em002/collision/em002_00_colliders.rcol.18"},
		{"leading slash", "/enemy/em002/collision/em002_00_colliders.rcol", 0, "natives/STM/enemy/em002/collision/em002_00_colliders.rcol.18"},
		{"nsw fallback", "gui/title.gui", 1, "natives/NSW/gui/title.gui.270020"},
		{"case insensitive", "GUI/Title.GUI", 1, "natives/NSW/GUI/Title.GUI.270020"},
		{"bare path", "plain.bin", 2, "plain.bin"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			index, full, err := r.Find(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.index, index)
			assert.Equal(t, tt.full, full)
		})
	}
}

func TestReader_FindNotFound(t *testing.T) {
	t.Parallel()

	r := openTestArchive(t, []testutil.PakFile{{Path: "a.user.2", Content: []byte("a")}})
	_, _, err := r.Find("b.user")
	require.ErrorIs(t, err, ErrNotFound)

	_, _, err = r.ReadPath("b.user")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestReader_ReadPath(t *testing.T) {
	t.Parallel()

	r := openTestArchive(t, []testutil.PakFile{{Path: "natives/STM/a.msg.17", Content: []byte("msg"), Compression: testutil.StoreZstd}})
	content, full, err := r.ReadPath("a.msg")
	require.NoError(t, err)
	assert.Equal(t, []byte("msg"), content)
	assert.Equal(t, "natives/STM/a.msg.17", full)
}

func TestReader_CustomPrefixesAndSuffixes(t *testing.T) {
	t.Parallel()

	r := openTestArchive(t, []testutil.PakFile{{Path: "root/x.foo.9", Content: []byte("x")}},
		WithPathPrefixes("root/"),
		WithSuffixes(map[string]string{"foo": "9"}))
	index, full, err := r.Find("x.foo")
	require.NoError(t, err)
	assert.Equal(t, Index(0), index)
	assert.Equal(t, "root/x.foo.9", full)

	_, _, err = r.Find("root/x.foo.9")
	require.ErrorIs(t, err, ErrNotFound, "empty prefix is not configured")
}

func TestReader_IndexOutOfRange(t *testing.T) {
	t.Parallel()

	r := openTestArchive(t, []testutil.PakFile{{Path: "a", Content: []byte("a")}})
	_, err := r.ReadFileAt(1)
	require.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = r.Entry(7)
	require.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestReader_EntriesMetadata(t *testing.T) {
	t.Parallel()

	r := openTestArchive(t, []testutil.PakFile{
		{Path: "a", Content: []byte("aaaa"), Compression: testutil.StoreNone},
		{Path: "b", Content: bytes.Repeat([]byte("b"), 64), Compression: testutil.StoreZstd},
	})

	var seen []Index
	for i, e := range r.Entries() {
		seen = append(seen, i)
		key, err := PathHash([]string{"a", "b"}[i])
		require.NoError(t, err)
		assert.Equal(t, key, e.Key())
	}
	assert.Equal(t, []Index{0, 1}, seen)

	e, err := r.Entry(1)
	require.NoError(t, err)
	assert.Equal(t, CompressionZstd, e.Compression())
	assert.Equal(t, uint64(64), e.UncompressedSize)
	assert.Equal(t, "zstd", e.Compression().String())
}

func TestNew_InvalidHeader(t *testing.T) {
	t.Parallel()

	valid := testutil.BuildPak(t, []testutil.PakFile{{Path: "a", Content: []byte("a")}})

	tests := []struct {
		name   string
		mutate func([]byte) []byte
	}{
		{"bad magic", func(b []byte) []byte { b[0] = 'X'; return b }},
		{"bad major version", func(b []byte) []byte { b[4] = 3; return b }},
		{"encrypted feature flags", func(b []byte) []byte { b[6] = 8; return b }},
		{"truncated header", func(b []byte) []byte { return b[:10] }},
		{"truncated table", func(b []byte) []byte { binary.LittleEndian.PutUint32(b[8:], 1000); return b }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			data := tt.mutate(bytes.Clone(valid))
			_, err := New(testutil.NewMockByteSource(data), int64(len(data)))
			require.ErrorIs(t, err, ErrFormat)
		})
	}
}

func TestReader_CorruptEntries(t *testing.T) {
	t.Parallel()

	content := bytes.Repeat([]byte("corrupt"), 100)
	tests := []struct {
		name        string
		compression uint8
		field       int // byte offset within the entry row
		value       uint64
	}{
		{"stored size mismatch", testutil.StoreNone, 24, uint64(len(content)) + 1},
		{"deflate shorter than declared", testutil.StoreDeflate, 24, uint64(len(content)) + 10},
		{"deflate longer than declared", testutil.StoreDeflate, 24, uint64(len(content)) - 10},
		{"zstd shorter than declared", testutil.StoreZstd, 24, uint64(len(content)) + 10},
		{"payload outside archive", testutil.StoreNone, 8, 1 << 40},
		{"unknown compression", testutil.StoreNone, 32, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			data := testutil.BuildPak(t, []testutil.PakFile{{Path: "x", Content: content, Compression: tt.compression}})
			binary.LittleEndian.PutUint64(data[testutil.EntryOffset(0)+tt.field:], tt.value)

			r, err := New(testutil.NewMockByteSource(data), int64(len(data)))
			require.NoError(t, err)
			_, err = r.ReadFileAt(0)
			require.ErrorIs(t, err, ErrCorruptData)
		})
	}
}

func TestReader_MaxFileSize(t *testing.T) {
	t.Parallel()

	r := openTestArchive(t, []testutil.PakFile{{Path: "big", Content: make([]byte, 128)}}, WithMaxFileSize(64))
	_, err := r.ReadFileAt(0)
	require.ErrorIs(t, err, ErrSizeOverflow)
}

func TestReader_DuplicateHashFirstWins(t *testing.T) {
	t.Parallel()

	r := openTestArchive(t, []testutil.PakFile{
		{Path: "dup.user.2", Content: []byte("first")},
		{Path: "dup.user.2", Content: []byte("second")},
	})
	index, _, err := r.Find("dup.user")
	require.NoError(t, err)
	assert.Equal(t, Index(0), index)

	second, err := r.ReadFileAt(1)
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), second)
}

func TestReader_CacheDeduplicatesReads(t *testing.T) {
	t.Parallel()

	data := testutil.BuildPak(t, []testutil.PakFile{{Path: "a", Content: bytes.Repeat([]byte("z"), 4096), Compression: testutil.StoreZstd}})
	src := testutil.NewMockByteSource(data)
	r, err := New(src, int64(len(data)), WithCacheEntries(4), WithDecoderConcurrency(2))
	require.NoError(t, err)

	first, err := r.ReadFileAt(0)
	require.NoError(t, err)
	readsAfterFirst := src.Reads()

	var wg sync.WaitGroup
	for range 8 {
		wg.Go(func() {
			got, err := r.ReadFileAt(0)
			assert.NoError(t, err)
			assert.Equal(t, first, got)
		})
	}
	wg.Wait()
	assert.Equal(t, readsAfterFirst, src.Reads(), "cached entry is not read again")
}

func TestReader_ConcurrentReadsWithoutCache(t *testing.T) {
	t.Parallel()

	var files []testutil.PakFile
	for i := range 16 {
		files = append(files, testutil.PakFile{
			Path:        strings.Repeat("d/", i) + "f.bin",
			Content:     bytes.Repeat([]byte{byte(i)}, 100*(i+1)),
			Compression: uint8(i % 3), //nolint:gosec // 0..2
		})
	}
	r := openTestArchive(t, files)

	var wg sync.WaitGroup
	for i, f := range files {
		wg.Go(func() {
			got, err := r.ReadFileAt(Index(i)) //nolint:gosec // small test index
			assert.NoError(t, err)
			assert.Equal(t, f.Content, got)
		})
	}
	wg.Wait()
}

func TestNewFromReadSeeker(t *testing.T) {
	t.Parallel()

	data := testutil.BuildPak(t, []testutil.PakFile{
		{Path: "a.tex.28", Content: []byte("texture"), Compression: testutil.StoreDeflate},
		{Path: "b.mesh.2109148288", Content: []byte("mesh"), Compression: testutil.StoreZstd},
	})
	r, err := NewFromReadSeeker(bytes.NewReader(data))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 4 {
		wg.Go(func() {
			content, _, err := r.ReadPath("b.mesh")
			assert.NoError(t, err)
			assert.Equal(t, []byte("mesh"), content)
		})
	}
	wg.Wait()
	require.NoError(t, r.Close())
}

func TestOpen_File(t *testing.T) {
	t.Parallel()

	data := testutil.BuildPak(t, []testutil.PakFile{{Path: "natives/STM/a.user.2", Content: []byte("hello")}})
	path := filepath.Join(t.TempDir(), "re_chunk_000.pak")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, Header{Major: 4, Minor: 0, FileCount: 1, Fingerprint: 0x12345678}, r.Header())
	content, full, err := r.ReadPath("a.user")
	require.NoError(t, err)
	assert.Equal(t, "natives/STM/a.user.2", full)
	assert.Equal(t, []byte("hello"), content)
}

func TestOpen_Missing(t *testing.T) {
	t.Parallel()

	_, err := Open(filepath.Join(t.TempDir(), "missing.pak"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
