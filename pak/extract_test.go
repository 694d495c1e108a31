package pak

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/reasset/internal/testutil"
)

func TestExtractTree(t *testing.T) {
	t.Parallel()

	r := openTestArchive(t, []testutil.PakFile{
		{Path: "natives/STM/enemy/em001.user.2", Content: []byte("named"), Compression: testutil.StoreDeflate},
		{Path: "natives/STM/hidden.bin", Content: []byte("unnamed")},
	})

	dest := t.TempDir()
	stats, err := r.ExtractTree(dest, []string{"natives/STM/enemy/em001.user.2", "natives/STM/absent.user.2"})
	require.NoError(t, err)
	assert.Equal(t, ExtractStats{Named: 1, Unnamed: 1, Missing: 1, TotalBytes: 12}, stats)

	got, err := os.ReadFile(filepath.Join(dest, "natives", "STM", "enemy", "em001.user.2"))
	require.NoError(t, err)
	assert.Equal(t, []byte("named"), got)

	got, err = os.ReadFile(filepath.Join(dest, UnknownDir, "1"))
	require.NoError(t, err)
	assert.Equal(t, []byte("unnamed"), got)
}

func TestExtractTree_RejectsTraversal(t *testing.T) {
	t.Parallel()

	r := openTestArchive(t, []testutil.PakFile{{Path: "../pwned.txt", Content: []byte("pwned")}})
	dest := t.TempDir()
	_, err := r.ExtractTree(dest, []string{"../pwned.txt"})
	var pathErr *fs.PathError
	require.ErrorAs(t, err, &pathErr)
	require.ErrorIs(t, pathErr.Err, fs.ErrInvalid)
	_, statErr := os.Stat(filepath.Join(dest, "..", "pwned.txt"))
	require.Error(t, statErr)
}
