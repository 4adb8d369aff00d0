package keymap

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jetkvm/sun3kbd/internal/action"
	"github.com/jetkvm/sun3kbd/internal/keycode"
)

func TestCodecRoundTrip(t *testing.T) {
	for _, f := range []Format{FormatJSON, FormatYAML, FormatTOML, FormatBinary} {
		t.Run(string(f), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, Sun3(), f))

			got, err := Decode(&buf, f)
			require.NoError(t, err)
			assert.True(t, Sun3().Equal(got))
			assert.Equal(t, Sun3Name, got.Name())

			Sun3().Cells(func(layer, row, col int, want keycode.Keycode) bool {
				kc, err := got.Keycode(layer, row, col)
				require.NoError(t, err)
				assert.Equal(t, want, kc, "layer %d row %d col %d", layer, row, col)
				return true
			})
			assert.Equal(t, Sun3().FnSlots(), got.FnSlots())
		})
	}
}

func TestDocumentNames(t *testing.T) {
	doc := Sun3().Document()
	assert.Equal(t, FormatVersion, doc.Version)
	assert.Equal(t, "FN0", doc.Layers[0][0][1])
	assert.Equal(t, "NO", doc.Layers[0][0][0])
	assert.Equal(t, "LGUI+T", doc.Fn[0].Action)
	assert.Equal(t, "SCLN", doc.Fn[1].Fallback)
}

func TestDecodeRejectsVersion(t *testing.T) {
	doc := Sun3().Document()
	doc.Version = "2.0.0"
	_, err := doc.Provider()
	assert.ErrorIs(t, err, ErrUnsupportedVersion)

	doc.Version = "not-a-version"
	_, err = doc.Provider()
	assert.Error(t, err)

	doc.Version = "1.3.0"
	_, err = doc.Provider()
	assert.NoError(t, err)
}

func TestDecodeRejectsShape(t *testing.T) {
	doc := Sun3().Document()
	doc.Layers[0] = doc.Layers[0][:15]
	_, err := doc.Provider()
	assert.Error(t, err)

	doc = Sun3().Document()
	doc.Layers[0][3] = doc.Layers[0][3][:7]
	_, err = doc.Provider()
	assert.Error(t, err)

	doc = Sun3().Document()
	doc.Cols = 9
	_, err = doc.Provider()
	assert.Error(t, err)

	doc = Sun3().Document()
	doc.Layers[0][0][0] = "BOGUS"
	_, err = doc.Provider()
	assert.Error(t, err)

	doc = Sun3().Document()
	doc.Fn[0].Action = "LGUI+BOGUS"
	_, err = doc.Provider()
	assert.Error(t, err)
}

func TestDecodeJSON(t *testing.T) {
	var sb strings.Builder
	sb.WriteString(`{"version":"1.0.0","name":"tiny","rows":16,"cols":8,"layers":[[`)
	for r := 0; r < Rows; r++ {
		if r > 0 {
			sb.WriteString(",")
		}
		if r == 0 {
			sb.WriteString(`["NO","ESC","NO","NO","NO","NO","NO","NO"]`)
			continue
		}
		sb.WriteString(`["NO","NO","NO","NO","NO","NO","NO","NO"]`)
	}
	sb.WriteString(`]],"fn":[{"layer":1,"fallback":"SPC","action":"RCTL+C"}]}`)

	p, err := Decode(strings.NewReader(sb.String()), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "tiny", p.Name())
	kc, err := p.Keycode(0, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, keycode.Escape, kc)
	a, err := p.FnToAction(keycode.Fn0)
	require.NoError(t, err)
	assert.Equal(t, "RCTL+C", a.String())
}

func TestDecodeBinaryRejects(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("NOPE0000000")), FormatBinary)
	assert.Error(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, Sun3(), FormatBinary))
	b := buf.Bytes()
	b[4] = 2
	_, err = Decode(bytes.NewReader(b), FormatBinary)
	assert.ErrorIs(t, err, ErrUnsupportedVersion)

	var short bytes.Buffer
	require.NoError(t, Encode(&short, Sun3(), FormatBinary))
	_, err = Decode(bytes.NewReader(short.Bytes()[:40]), FormatBinary)
	assert.Error(t, err)
}

func TestUnnamedKeycodesCrossFormats(t *testing.T) {
	base, err := Sun3().Layer(0)
	require.NoError(t, err)
	base[3][0] = keycode.Keycode(0x80)
	fn := Sun3().FnSlots()
	fn[2].Fallback = keycode.Keycode(0xBA)
	fn[3].Action = action.ModsKey(action.LSFT, keycode.Keycode(0x9A))
	p, err := NewProvider("gaps", []Matrix{base}, fn)
	require.NoError(t, err)

	var bin bytes.Buffer
	require.NoError(t, Encode(&bin, p, FormatBinary))
	fromBin, err := Decode(bytes.NewReader(bin.Bytes()), FormatBinary)
	require.NoError(t, err)

	for _, f := range []Format{FormatJSON, FormatYAML, FormatTOML} {
		t.Run(string(f), func(t *testing.T) {
			var text bytes.Buffer
			require.NoError(t, Encode(&text, fromBin, f))
			assert.Contains(t, text.String(), "0x80")

			fromText, err := Decode(&text, f)
			require.NoError(t, err)
			assert.True(t, p.Equal(fromText))

			var again bytes.Buffer
			require.NoError(t, Encode(&again, fromText, FormatBinary))
			assert.Equal(t, bin.Bytes(), again.Bytes())
		})
	}
}

func TestDecodeBinaryRejectsBareRightFlag(t *testing.T) {
	p, err := NewProvider("side", []Matrix{{}}, []FnSlot{{Action: action.ModsKey(action.RGUI, keycode.T)}})
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, p, FormatBinary))

	// the slot's modifier byte is the second to last
	b := buf.Bytes()
	b[len(b)-2] = 0x10
	_, err = Decode(bytes.NewReader(b), FormatBinary)
	assert.Error(t, err)
}

func TestEncodeBinaryRejectsLongName(t *testing.T) {
	p := &Provider{name: strings.Repeat("n", MaxNameLen+1), layers: []Matrix{{}}}
	err := Encode(&bytes.Buffer{}, p, FormatBinary)
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{
		"json": FormatJSON, "YAML": FormatYAML, "yml": FormatYAML,
		"toml": FormatTOML, "bin": FormatBinary, ".json": FormatJSON,
	} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)

	f, err := FormatFromPath("/etc/sun3kbd/keymap.toml")
	require.NoError(t, err)
	assert.Equal(t, FormatTOML, f)
}
