// Package hid tracks pressed keys and renders boot keyboard reports.
package hid

import (
	"fmt"

	"github.com/jetkvm/sun3kbd/internal/action"
	"github.com/jetkvm/sun3kbd/internal/keycode"
)

// ReportKeys is the key array size of a boot keyboard report.
const ReportKeys = 6

// Report is a boot protocol keyboard report.
type Report struct {
	Modifier byte
	Keys     [ReportKeys]byte
}

// Bytes returns the 8-byte wire form: modifier, reserved, six keys.
func (r Report) Bytes() []byte {
	b := make([]byte, 2+ReportKeys)
	b[0] = r.Modifier
	copy(b[2:], r.Keys[:])
	return b
}

func (r Report) String() string {
	return fmt.Sprintf("mod=%02x keys=% x", r.Modifier, r.Keys[:])
}

// Keyboard accumulates key state the way a USB keyboard reports it.
// A modifier bit or key stays down while any holder still holds it: a
// physical key, or an Fn action that carries it. It is not safe for
// concurrent use.
type Keyboard struct {
	modifier byte
	keys     [ReportKeys]byte
	consumer uint16
	system   uint16
	overflow int

	// holders per modifier bit and per key usage
	modCount [8]int
	keyCount map[byte]int

	// held Fn actions, so their modifiers are released together with the key
	actions map[keycode.Keycode]*heldAction
}

type heldAction struct {
	action.Action
	holders int
}

func NewKeyboard() *Keyboard {
	return &Keyboard{
		keyCount: map[byte]int{},
		actions:  map[keycode.Keycode]*heldAction{},
	}
}

// Press adds a holder for kc. It reports whether the keyboard report
// changed.
func (k *Keyboard) Press(kc keycode.Keycode) bool {
	switch {
	case kc.IsModifier():
		return k.holdModifiers(kc.ModBit())
	case kc.IsKey():
		return k.holdKey(byte(kc))
	case kc.IsConsumer():
		u, _ := kc.ConsumerUsage()
		changed := k.consumer != u
		k.consumer = u
		return changed
	case kc.IsSystem():
		u, _ := kc.SystemUsage()
		changed := k.system != u
		k.system = u
		return changed
	}
	return false
}

// Release drops one holder of kc.
func (k *Keyboard) Release(kc keycode.Keycode) bool {
	switch {
	case kc.IsModifier():
		return k.dropModifiers(kc.ModBit())
	case kc.IsKey():
		return k.dropKey(byte(kc))
	case kc.IsConsumer():
		u, _ := kc.ConsumerUsage()
		if k.consumer != u {
			return false
		}
		k.consumer = 0
		return true
	case kc.IsSystem():
		u, _ := kc.SystemUsage()
		if k.system != u {
			return false
		}
		k.system = 0
		return true
	}
	return false
}

// PressAction presses the action's modifiers and key on behalf of the Fn
// keycode fn. Pressing an fn that is already held only adds a holder.
func (k *Keyboard) PressAction(fn keycode.Keycode, a action.Action) bool {
	if h, ok := k.actions[fn]; ok {
		h.holders++
		return false
	}
	k.actions[fn] = &heldAction{Action: a, holders: 1}
	changed := k.holdModifiers(a.Mods.HIDModifier())
	if a.Key.Defined() && k.Press(a.Key) {
		changed = true
	}
	return changed
}

// ReleaseAction releases whatever PressAction pressed for fn once its last
// holder lets go.
func (k *Keyboard) ReleaseAction(fn keycode.Keycode) bool {
	a, ok := k.actions[fn]
	if !ok {
		return false
	}
	if a.holders--; a.holders > 0 {
		return false
	}
	delete(k.actions, fn)
	changed := false
	if a.Key.Defined() && k.Release(a.Key) {
		changed = true
	}
	if k.dropModifiers(a.Mods.HIDModifier()) {
		changed = true
	}
	return changed
}

// Reset releases everything.
func (k *Keyboard) Reset() bool {
	changed := k.modifier != 0 || k.keys != [ReportKeys]byte{} || k.consumer != 0 || k.system != 0
	k.modifier = 0
	k.keys = [ReportKeys]byte{}
	k.consumer = 0
	k.system = 0
	k.modCount = [8]int{}
	clear(k.keyCount)
	clear(k.actions)
	return changed
}

func (k *Keyboard) Report() Report {
	return Report{Modifier: k.modifier, Keys: k.keys}
}

// Consumer returns the consumer page usage currently held, or 0.
func (k *Keyboard) Consumer() uint16 { return k.consumer }

// System returns the system control usage currently held, or 0.
func (k *Keyboard) System() uint16 { return k.system }

// Overflow counts presses dropped because all six key slots were taken.
func (k *Keyboard) Overflow() int { return k.overflow }

func (k *Keyboard) holdModifiers(m byte) bool {
	prev := k.modifier
	for bit := 0; bit < 8; bit++ {
		if m&(1<<bit) != 0 {
			k.modCount[bit]++
			k.modifier |= 1 << bit
		}
	}
	return k.modifier != prev
}

func (k *Keyboard) dropModifiers(m byte) bool {
	prev := k.modifier
	for bit := 0; bit < 8; bit++ {
		if m&(1<<bit) == 0 || k.modCount[bit] == 0 {
			continue
		}
		k.modCount[bit]--
		if k.modCount[bit] == 0 {
			k.modifier &^= 1 << bit
		}
	}
	return k.modifier != prev
}

func (k *Keyboard) holdKey(b byte) bool {
	if k.keyCount[b] > 0 {
		k.keyCount[b]++
		return false
	}
	if !k.addKey(b) {
		return false
	}
	k.keyCount[b] = 1
	return true
}

func (k *Keyboard) dropKey(b byte) bool {
	n := k.keyCount[b]
	if n == 0 {
		return false
	}
	if n > 1 {
		k.keyCount[b] = n - 1
		return false
	}
	delete(k.keyCount, b)
	return k.removeKey(b)
}

func (k *Keyboard) addKey(b byte) bool {
	free := -1
	for i, v := range k.keys {
		if v == 0 {
			free = i
			break
		}
	}
	if free < 0 {
		k.overflow++
		return false
	}
	k.keys[free] = b
	return true
}

func (k *Keyboard) removeKey(b byte) bool {
	for i, v := range k.keys {
		if v == b {
			k.keys[i] = 0
			return true
		}
	}
	return false
}
