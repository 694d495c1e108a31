package reasset

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/reasset/format"
	"github.com/meigma/reasset/internal/testutil"
)

func sampleMsg() []byte {
	return testutil.BuildMsg(testutil.MsgFile{
		Languages:  2,
		Attributes: []testutil.MsgAttribute{{Type: 1, Name: "Kind"}},
		Entries: []testutil.MsgEntry{
			{Name: "Title", Attributes: []string{"quest"}, Content: []string{"Hunt", "狩猟"}},
		},
	})
}

func TestReadMsg(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "text.msg")
	require.NoError(t, os.WriteFile(path, sampleMsg(), 0o600))

	var buf bytes.Buffer
	m, err := ReadMsg(path, &buf)
	require.NoError(t, err)
	require.Len(t, m.Entries, 1)

	var decoded format.Msg
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, *m, decoded)
	assert.Contains(t, buf.String(), "\n  \"entries\": [")
}

func TestReadMsg_Invalid(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.msg")
	require.NoError(t, os.WriteFile(path, []byte("\x10\x00\x00\x00GMSG"), 0o600))

	_, err := ReadMsg(path, &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrFormat)
}

func TestScanMsg(t *testing.T) {
	t.Parallel()

	archive := writeArchive(t, append(sampleFiles(), testutil.PakFile{
		Path: "text/title.msg.17", Content: sampleMsg(), Compression: testutil.StoreZstd,
	}))
	out := filepath.Join(t.TempDir(), "msg")

	report, err := ScanMsg(context.Background(), archive, out)
	require.NoError(t, err)
	require.Len(t, report.Tables, 1)
	assert.Equal(t, 3, report.Tables[0].Index)
	assert.Empty(t, report.Failed)

	got, err := os.ReadFile(filepath.Join(out, "3.txt"))
	require.NoError(t, err)
	var decoded format.Msg
	require.NoError(t, json.Unmarshal(got, &decoded))
	assert.Equal(t, []string{"Hunt", "狩猟"}, decoded.Entries[0].Content)
}

func TestGrep(t *testing.T) {
	t.Parallel()

	archive := writeArchive(t, sampleFiles())

	var buf bytes.Buffer
	matched, err := Grep(context.Background(), archive, `RCOL|PFB\x00`, &buf, WithWorkers(2))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, matched)
	assert.Equal(t, "Matched @ 1\nMatched @ 2\n", buf.String())

	_, err = Grep(context.Background(), archive, `(`, &buf)
	assert.Error(t, err)
}
