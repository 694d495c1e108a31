package reasset

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/reasset/internal/testutil"
	"github.com/meigma/reasset/scan"
)

func writeArchive(t *testing.T, files []testutil.PakFile) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.pak")
	require.NoError(t, os.WriteFile(path, testutil.BuildPak(t, files), 0o600))
	return path
}

func emptyRSZ() []byte {
	return testutil.NewRSZ().Build()
}

func sampleRcol() []byte {
	b := testutil.NewRSZ()
	b.Root(b.Instance(testutil.ClassDamageShapeData, testutil.EncodeDamageShapeData("BodyShape", 4)))
	return testutil.BuildRcol(testutil.RcolFile{
		Groups: []testutil.RcolGroup{{
			Name: "Body",
			Colliders: []testutil.RcolCollider{{
				Name: "body", BoneA: "spine",
				Shape: testutil.RcolShape{Type: testutil.ShapeSphere, R: 1},
			}},
		}},
		RSZ: b.Build(),
	})
}

func sampleFiles() []testutil.PakFile {
	return []testutil.PakFile{
		{Path: "natives/STM/root.user.2", Content: testutil.BuildUser(testutil.UserFile{
			Children: []string{"enemy/em001.pfb"}, RSZ: emptyRSZ(),
		})},
		{Path: "natives/STM/enemy/em001.pfb.17", Content: testutil.BuildPfb(testutil.PfbFile{
			Resources: []string{"enemy/em001.rcol"}, RSZ: emptyRSZ(),
		}), Compression: testutil.StoreDeflate},
		{Path: "natives/STM/enemy/em001.rcol.18", Content: sampleRcol(), Compression: testutil.StoreZstd},
	}
}

func TestDump(t *testing.T) {
	t.Parallel()

	archive := writeArchive(t, sampleFiles())
	out := filepath.Join(t.TempDir(), "em001.rcol")

	res, err := Dump(archive, "enemy/em001.rcol", out)
	require.NoError(t, err)
	assert.Equal(t, Index(2), res.Index)
	assert.Equal(t, "natives/STM/enemy/em001.rcol.18", res.Path)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, sampleRcol(), got)
	assert.Equal(t, len(got), res.Size)

	_, err = Dump(archive, "enemy/em002.rcol", out)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDumpIndex(t *testing.T) {
	t.Parallel()

	archive := writeArchive(t, sampleFiles())
	out := filepath.Join(t.TempDir(), "entry")

	res, err := DumpIndex(archive, 2, out)
	require.NoError(t, err)
	assert.Equal(t, Index(2), res.Index)
	assert.Empty(t, res.Path)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, sampleRcol(), got)

	_, err = DumpIndex(archive, 3, out)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestScan(t *testing.T) {
	t.Parallel()

	archive := writeArchive(t, sampleFiles())
	var buf bytes.Buffer
	g, err := Scan(context.Background(), archive, &buf, WithWorkers(2))
	require.NoError(t, err)
	assert.Equal(t, []int{0}, g.Roots())
	assert.Equal(t, "- 0\n    - enemy/em001.pfb\n        - enemy/em001.rcol\n"+
		"Named file ratio = 0.6666666666666666\nDone\n", buf.String())
}

func TestScan_Cycle(t *testing.T) {
	t.Parallel()

	archive := writeArchive(t, []testutil.PakFile{
		{Path: "a.user.2", Content: testutil.BuildUser(testutil.UserFile{Children: []string{"b.user"}, RSZ: emptyRSZ()})},
		{Path: "b.user.2", Content: testutil.BuildUser(testutil.UserFile{Children: []string{"a.user"}, RSZ: emptyRSZ()})},
	})
	var buf bytes.Buffer
	g, err := Scan(context.Background(), archive, &buf)
	require.ErrorIs(t, err, ErrCycleDetected)
	require.NotNil(t, g)
	assert.Equal(t, "Named file ratio = 1\n", buf.String())
}

func TestScanRCOL(t *testing.T) {
	t.Parallel()

	archive := writeArchive(t, sampleFiles())
	var events []scan.ProgressEvent
	report, err := ScanRCOL(context.Background(), archive, WithWorkers(1), WithProgress(func(e scan.ProgressEvent) {
		events = append(events, e)
	}))
	require.NoError(t, err)
	assert.Equal(t, 1, report.Files)
	assert.Equal(t, 1, report.Colliders)
	assert.Empty(t, report.Failed)
	require.Len(t, events, 3)
	assert.Equal(t, scan.StageCollisions, events[2].Stage)
}

func TestSearchPaths(t *testing.T) {
	t.Parallel()

	var w testutil.Writer
	w.U16(0xFFFF).UTF16Z("enemy/em001.rcol").UTF16Z("enemy/em404.rcol")
	archive := writeArchive(t, append(sampleFiles(), testutil.PakFile{Path: "refs.bin", Content: w.Bytes()}))

	var buf bytes.Buffer
	hits, err := SearchPaths(context.Background(), archive, &buf)
	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, "enemy/em001.pfb $ 1\nenemy/em001.rcol $ 2\nenemy/em404.rcol $ -\n", buf.String())
}

func TestDumpRCOL(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "body.rcol")
	require.NoError(t, os.WriteFile(path, sampleRcol(), 0o600))

	var buf bytes.Buffer
	f, err := DumpRCOL(path, &buf)
	require.NoError(t, err)
	require.Len(t, f.Groups, 1)
	assert.Contains(t, buf.String(), "Body")
	assert.Contains(t, buf.String(), "spine")
	assert.Contains(t, buf.String(), "BodyShape")
	assert.Contains(t, buf.String(), "Meat:4")
}

func TestDumpRCOL_Invalid(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.rcol")
	require.NoError(t, os.WriteFile(path, []byte("NOPE"), 0o600))

	_, err := DumpRCOL(path, &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrFormat)
}

func TestExtractTree(t *testing.T) {
	t.Parallel()

	archive := writeArchive(t, sampleFiles())
	list := filepath.Join(t.TempDir(), "list.txt")
	require.NoError(t, os.WriteFile(list, []byte(
		"enemy/em001.pfb 1234\n\nenemy/em001.rcol\r\nenemy/missing.user extra\n"), 0o600))
	out := t.TempDir()

	stats, err := ExtractTree(archive, list, out)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Named)
	assert.Equal(t, 1, stats.Unnamed)
	assert.Equal(t, 1, stats.Missing)

	got, err := os.ReadFile(filepath.Join(out, "enemy", "em001.rcol"))
	require.NoError(t, err)
	assert.Equal(t, sampleRcol(), got)
	_, err = os.Stat(filepath.Join(out, "_unknown", "0"))
	assert.NoError(t, err)
}

func TestParseList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"fields", "a/b.user 1\nc.pfb\n", []string{"a/b.user", "c.pfb"}},
		{"blank and crlf", "\r\n  \nx.scn\r\n", []string{"x.scn"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := parseList(strings.NewReader(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
