package format

import (
	"encoding/binary"
	"slices"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/reasset/internal/testutil"
	"github.com/meigma/reasset/rsz"
	"github.com/meigma/reasset/rsz/classes"
)

func emptyRSZ() []byte {
	return testutil.NewRSZ().Build()
}

func TestSniff(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		data     []byte
		want     Kind
		children bool
	}{
		{"user", []byte("USR\x00rest"), KindUser, true},
		{"pfb", []byte("PFB\x00"), KindPfb, true},
		{"scn", []byte("SCN\x00...."), KindScn, true},
		{"rcol", []byte("RCOL"), KindRcol, false},
		{"msg", []byte("\x11\x00\x00\x00GMSG"), KindMsg, false},
		{"other", []byte("MESH"), KindUnknown, false},
		{"short", []byte("US"), KindUnknown, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Sniff(tt.data)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.children, got.HasChildren())
		})
	}
	assert.Equal(t, "scn", KindScn.String())
	assert.Equal(t, "unknown", KindUnknown.String())
}

func TestParseUser(t *testing.T) {
	t.Parallel()

	data := testutil.BuildUser(testutil.UserFile{
		Resources: []string{"a/res.tex", "a/other.mdf2"},
		Children:  []string{"a/child.user"},
		RSZ:       emptyRSZ(),
	})

	f, err := ParseUser(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"a/res.tex", "a/other.mdf2"}, f.Resources)
	require.Len(t, f.Children, 1)
	assert.Equal(t, Child{Hash: testutil.HashUTF16("a/child.user"), Name: "a/child.user"}, f.Children[0])
	assert.Zero(t, f.RSZ.InstanceCount())

	names, err := ExtractChildren(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"a/child.user", "a/res.tex", "a/other.mdf2"}, names)
}

func TestDecodeUser(t *testing.T) {
	t.Parallel()

	b := testutil.NewRSZ()
	root := b.Instance(testutil.ClassDamageRSData, testutil.EncodeDamageRSData("Head", 2))
	b.Root(root)
	data := testutil.BuildUser(testutil.UserFile{RSZ: b.Build()})
	// Bytes after the declared block are not part of it.
	data = append(data, 0xFF, 0xFF, 0xFF, 0xFF)

	reg, err := classes.NewRegistry()
	require.NoError(t, err)

	f, roots, err := DecodeUser(data, reg)
	require.NoError(t, err)
	assert.Empty(t, f.Names())
	require.Len(t, roots, 1)
	rs, ok := rsz.As[*classes.EmHitDamageRSData](roots[0])
	require.True(t, ok)
	assert.Equal(t, uint16(2), rs.PartsGroup)
}

func TestDecodeUser_UnknownType(t *testing.T) {
	t.Parallel()

	b := testutil.NewRSZ()
	b.Root(b.Instance("not.a.Class", nil))
	data := testutil.BuildUser(testutil.UserFile{RSZ: b.Build()})

	reg, err := classes.NewRegistry()
	require.NoError(t, err)

	_, _, err = DecodeUser(data, reg)
	require.ErrorIs(t, err, rsz.ErrUnknownType)
}

func TestParsePfb(t *testing.T) {
	t.Parallel()

	data := testutil.BuildPfb(testutil.PfbFile{
		GameObjects: []testutil.PfbGameObject{
			{ID: 0, Parent: -1, Components: 2},
			{ID: 1, Parent: 0, Components: 1},
		},
		RefInfos:  []testutil.PfbRefInfo{{ObjectID: 1, PropertyID: 4, ArrayIndex: 0, TargetID: 0}},
		Resources: []string{"x/mesh.mesh"},
		Children:  []string{"x/sub.pfb", "x/data.user"},
		RSZ:       emptyRSZ(),
	})

	f, err := ParsePfb(data)
	require.NoError(t, err)
	assert.Equal(t, []GameObject{
		{ID: 0, Parent: -1, ComponentCount: 2},
		{ID: 1, Parent: 0, ComponentCount: 1},
	}, f.GameObjects)
	assert.Equal(t, []RefInfo{{ObjectID: 1, PropertyID: 4, TargetID: 0}}, f.RefInfos)

	names, err := ExtractChildren(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"x/sub.pfb", "x/data.user", "x/mesh.mesh"}, names)
}

func TestParseScn(t *testing.T) {
	t.Parallel()

	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	data := testutil.BuildScn(testutil.ScnFile{
		GameObjects: []testutil.ScnGameObject{{GUID: id, ID: 3, Parent: -1, Components: 5, PrefabID: 0}},
		Folders:     []testutil.ScnFolder{{ID: 9, Parent: -1}},
		Resources:   []string{"s/a.tex"},
		Prefabs:     []testutil.ScnPrefab{{Name: "s/p.pfb", ParentID: 3}},
		Children:    []string{"s/child.scn"},
		RSZ:         emptyRSZ(),
	})

	f, err := ParseScn(data)
	require.NoError(t, err)
	assert.Equal(t, []SceneObject{{GUID: id, ID: 3, Parent: -1, ComponentCount: 5}}, f.GameObjects)
	assert.Equal(t, []Folder{{ID: 9, Parent: -1}}, f.Folders)
	assert.Equal(t, []Prefab{{Name: "s/p.pfb", ParentID: 3}}, f.Prefabs)

	names, err := ExtractChildren(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"s/child.scn", "s/a.tex", "s/p.pfb"}, names)
}

func TestExtractChildren_Errors(t *testing.T) {
	t.Parallel()

	user := testutil.BuildUser(testutil.UserFile{Children: []string{"c"}, RSZ: emptyRSZ()})

	withU64 := func(data []byte, off int, v uint64) []byte {
		out := slices.Clone(data)
		binary.LittleEndian.PutUint64(out[off:], v)
		return out
	}

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"unknown magic", []byte("NOPE0000"), ErrFormat},
		{"rcol has no children", []byte("RCOL"), ErrFormat},
		{"truncated header", user[:20], ErrFormat},
		{"resource list moved", withU64(user, 16, 56), ErrCorruptData},
		{"child list misaligned", withU64(user, 24, 52), ErrCorruptData},
		{"rsz misaligned", withU64(user, 32, 0x68), ErrCorruptData},
		{"rsz size past end", withU64(user, 40, 1<<20), ErrCorruptData},
		{"rsz bad magic", slices.Concat(user[:len(user)-len(emptyRSZ())], make([]byte, 64)), ErrFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ExtractChildren(tt.data)
			require.ErrorIs(t, err, tt.want)
		})
	}
}
