package pak

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/reasset/internal/testutil"
)

func TestCandidates(t *testing.T) {
	t.Parallel()

	got := candidates("enemy/em001.user", DefaultPrefixes, DefaultSuffixes)
	assert.Equal(t, []string{
		"enemy/em001.user",
		"enemy/em001.user.2",
		"natives/STM/enemy/em001.user",
		"natives/STM/enemy/em001.user.2",
		"natives/NSW/enemy/em001.user",
		"natives/NSW/enemy/em001.user.2",
	}, got)
}

func TestCandidates_SkipsPresentPrefix(t *testing.T) {
	t.Parallel()

	got := candidates("natives/STM/a.scn.20", []string{"", "natives/STM/"}, DefaultSuffixes)
	assert.Equal(t, []string{"natives/STM/a.scn.20"}, got)
}

func TestVersionSuffix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
	}{
		{"a.user", "2"},
		{"A.USER", "2"},
		{"a.mesh", "2109148288"},
		{"a.mesh.2109148288", ""},
		{"a.unknown", ""},
		{"noext", ""},
		{"dir.v2/noext", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, versionSuffix(tt.path, DefaultSuffixes), tt.path)
	}
}

func TestPathHash_MatchesEngineHash(t *testing.T) {
	t.Parallel()

	for _, p := range []string{"natives/STM/enemy/em001.user.2", "GUI/Title.gui", "日本語/パス.msg.17"} {
		key, err := PathHash(p)
		require.NoError(t, err)
		assert.Equal(t, testutil.HashUTF16(strings.ToLower(p)), uint32(key), p) //nolint:gosec // low half
		assert.Equal(t, testutil.HashUTF16(strings.ToUpper(p)), uint32(key>>32), p)
	}
}
