package sunkbd

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecoder(t *testing.T) {
	var d Decoder

	ev, ok := d.Feed(0x4D)
	require.True(t, ok)
	assert.Equal(t, Event{Kind: KeyDown, Position: 0x4D}, ev)

	ev, ok = d.Feed(0xCD)
	require.True(t, ok)
	assert.Equal(t, Event{Kind: KeyUp, Position: 0x4D}, ev)

	ev, ok = d.Feed(0x7F)
	require.True(t, ok)
	assert.Equal(t, Idle, ev.Kind)

	_, ok = d.Feed(0xFF)
	assert.False(t, ok)
	ev, ok = d.Feed(TypeSun3)
	require.True(t, ok)
	assert.Equal(t, Event{Kind: ResetDone, Value: TypeSun3}, ev)

	_, ok = d.Feed(0xFE)
	assert.False(t, ok)
	ev, ok = d.Feed(0x21)
	require.True(t, ok)
	assert.Equal(t, Event{Kind: LayoutReport, Value: 0x21}, ev)

	// a pending prefix is dropped on Reset
	_, ok = d.Feed(0xFF)
	assert.False(t, ok)
	d.Reset()
	ev, ok = d.Feed(0x01)
	require.True(t, ok)
	assert.Equal(t, Event{Kind: KeyDown, Position: 0x01}, ev)
}

func TestCommandBytes(t *testing.T) {
	assert.Equal(t, []byte{0x01}, CmdReset.Bytes())
	assert.Equal(t, []byte{0x0E, 0x09}, CmdLED.Bytes(LEDNumLock|LEDCapsLock))
	assert.Equal(t, []byte{0x0E, 0x00}, CmdLED.Bytes())
	assert.Equal(t, "click-off", CmdClickOff.String())
	assert.Equal(t, "cmd(0x7E)", Command(0x7E).String())
}

func TestEventString(t *testing.T) {
	assert.Equal(t, "down K4D", Event{Kind: KeyDown, Position: 0x4D}.String())
	assert.Equal(t, "reset 0x03", Event{Kind: ResetDone, Value: 3}.String())
	assert.Equal(t, "idle", Event{Kind: Idle}.String())
}

func TestReaderRun(t *testing.T) {
	line := bytes.NewReader([]byte{0xFF, 0x03, 0x4D, 0x4E, 0xCD, 0xCE, 0x7F})
	var got []Event
	err := NewReader(line).Run(context.Background(), func(ev Event) error {
		got = append(got, ev)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []Event{
		{Kind: ResetDone, Value: 0x03},
		{Kind: KeyDown, Position: 0x4D},
		{Kind: KeyDown, Position: 0x4E},
		{Kind: KeyUp, Position: 0x4D},
		{Kind: KeyUp, Position: 0x4E},
		{Kind: Idle},
	}, got)
}

func TestReaderStops(t *testing.T) {
	stop := errors.New("stop")
	line := bytes.NewReader([]byte{0x01, 0x02, 0x03})
	n := 0
	err := NewReader(line).Run(context.Background(), func(Event) error {
		n++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, n)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = NewReader(bytes.NewReader([]byte{0x01})).Run(ctx, func(Event) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}
