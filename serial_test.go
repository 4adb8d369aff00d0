package sun3kbd

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jetkvm/sun3kbd/internal/hid"
	"github.com/jetkvm/sun3kbd/internal/keymap"
	"github.com/jetkvm/sun3kbd/internal/sunkbd"
)

// fakeLine plays back a keyboard byte stream and records host commands.
type fakeLine struct {
	in  *bytes.Reader
	out bytes.Buffer
}

func (l *fakeLine) Read(p []byte) (int, error)  { return l.in.Read(p) }
func (l *fakeLine) Write(p []byte) (int, error) { return l.out.Write(p) }

func TestRunKeyboard(t *testing.T) {
	line := &fakeLine{in: bytes.NewReader([]byte{0xFF, sunkbd.TypeSun3, posA, posA | 0x80, 0x7F})}
	sink := &recordingSink{}
	conv := NewConverter(keymap.Sun3(), sink)

	require.NoError(t, runKeyboard(context.Background(), line, conv, false))
	assert.Equal(t, []byte{byte(sunkbd.CmdReset), byte(sunkbd.CmdClickOff)}, line.out.Bytes())
	assert.Equal(t, []hid.Report{{Keys: keys(0x04)}, {}}, sink.Keyboard())
}

func TestRunKeyboardReleasesOnEOF(t *testing.T) {
	// the line drops while A is held
	line := &fakeLine{in: bytes.NewReader([]byte{0xFF, sunkbd.TypeSun3, posA})}
	sink := &recordingSink{}
	conv := NewConverter(keymap.Sun3(), sink)

	require.NoError(t, runKeyboard(context.Background(), line, conv, true))
	assert.Equal(t, []byte{byte(sunkbd.CmdReset), byte(sunkbd.CmdClickOn)}, line.out.Bytes())
	assert.Equal(t, []hid.Report{{Keys: keys(0x04)}, {}}, sink.Keyboard())
}

func TestRunKeyboardCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	line := &fakeLine{in: bytes.NewReader([]byte{posA})}
	sink := &recordingSink{}

	require.NoError(t, runKeyboard(ctx, line, NewConverter(keymap.Sun3(), sink), false))
	assert.Empty(t, sink.Keyboard())
}

func TestSerialMode(t *testing.T) {
	m := serialMode(sunkbd.BaudRate)
	assert.Equal(t, 1200, m.BaudRate)
	assert.Equal(t, 8, m.DataBits)
}

func TestRunSerialMissingPort(t *testing.T) {
	cfg := NewConfig()
	cfg.SerialPort = "/nonexistent/tty"
	err := RunSerial(context.Background(), cfg, NewConverter(keymap.Sun3(), &recordingSink{}))
	assert.Error(t, err)
}
