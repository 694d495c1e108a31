package format

import (
	"encoding/binary"
	"encoding/json"
	"slices"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/reasset/internal/testutil"
)

var msgGUID = uuid.MustParse("6f1d2c3b-4a59-4e68-8f7a-0b1c2d3e4f50")

func sampleMsg() []byte {
	return testutil.BuildMsg(testutil.MsgFile{
		Languages:  2,
		Attributes: []testutil.MsgAttribute{{Type: 2, Name: "Speaker"}},
		Entries: []testutil.MsgEntry{
			{GUID: msgGUID, Name: "Greeting", Attributes: []string{"Hunter"}, Content: []string{"Hello", "こんにちは"}},
			{Name: "Empty", Attributes: []string{""}, Content: []string{"", ""}},
		},
	})
}

func TestParseMsg(t *testing.T) {
	t.Parallel()

	data := sampleMsg()
	assert.Equal(t, KindMsg, Sniff(data))
	assert.False(t, KindMsg.HasChildren())
	assert.Equal(t, "msg", KindMsg.String())

	m, err := ParseMsg(data)
	require.NoError(t, err)
	assert.Equal(t, []MsgAttribute{{Type: 2, Name: "Speaker"}}, m.Attributes)
	require.Len(t, m.Entries, 2)
	assert.Equal(t, MsgEntry{
		GUID: msgGUID, Name: "Greeting", Attributes: []string{"Hunter"}, Content: []string{"Hello", "こんにちは"},
	}, m.Entries[0])
	assert.Equal(t, []string{"", ""}, m.Entries[1].Content)

	_, err = ExtractChildren(data)
	assert.ErrorIs(t, err, ErrFormat)
}

func TestParseMsg_JSON(t *testing.T) {
	t.Parallel()

	m, err := ParseMsg(sampleMsg())
	require.NoError(t, err)
	out, err := json.Marshal(m)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(out, &got))
	assert.Contains(t, got, "attribute_headers")
	entries, ok := got["entries"].([]any)
	require.True(t, ok)
	first, ok := entries[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Greeting", first["name"])
	assert.Equal(t, msgGUID.String(), first["guid"])
}

func TestParseMsg_Invalid(t *testing.T) {
	t.Parallel()

	data := sampleMsg()
	u64 := func(off int) int { return int(binary.LittleEndian.Uint64(data[off:])) } //nolint:gosec // test data
	with32 := func(off int, v uint32) []byte {
		out := slices.Clone(data)
		binary.LittleEndian.PutUint32(out[off:], v)
		return out
	}
	with64 := func(off int, v uint64) []byte {
		out := slices.Clone(data)
		binary.LittleEndian.PutUint64(out[off:], v)
		return out
	}
	// Header offsets: strings at 0x20, languages at 0x30, first entry at 0x48.
	langs := u64(0x30)
	entry := u64(0x48)

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"version", with32(0, 18), ErrFormat},
		{"magic", with32(4, 0), ErrFormat},
		{"header constant", with64(8, 0x20), ErrFormat},
		{"truncated", data[:0x30], ErrFormat},
		{"language order", with32(langs+4, 0), ErrCorruptData},
		{"entry moved", with64(0x48, uint64(entry)+8), ErrCorruptData}, //nolint:gosec // test data
		{"name before strings", with64(entry+24, 0), ErrCorruptData},
		{"string past end", with64(entry+24, uint64(len(data))+2), ErrCorruptData},
		{"entry count", with32(0x10, 1<<20), ErrCorruptData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseMsg(tt.data)
			require.ErrorIs(t, err, tt.want)
		})
	}
}
