// Package keymap holds the keymap tables of a converter: one key matrix per
// layer plus the Fn slot table, with bounds-checked read accessors.
//
// A Provider never changes after construction, so its methods may be called
// from any number of goroutines without locking.
package keymap

import (
	"fmt"

	"github.com/jetkvm/sun3kbd/internal/action"
	"github.com/jetkvm/sun3kbd/internal/keycode"
)

// FnSlot is everything bound to one Fn key.
type FnSlot struct {
	// Layer to activate while the Fn key is held; 0 means no layer switch.
	Layer uint8
	// Fallback is sent when the Fn key is tapped without using the layer;
	// keycode.None means nothing is sent.
	Fallback keycode.Keycode
	// Action is fired when the Fn keycode is dispatched.
	Action action.Action
}

// Provider serves lookups over an immutable set of keymap tables.
type Provider struct {
	name   string
	layers []Matrix
	fn     []FnSlot
}

// MaxNameLen is the longest keymap name, in bytes.
const MaxNameLen = 255

// NewProvider copies layers and fn into a new Provider.
func NewProvider(name string, layers []Matrix, fn []FnSlot) (*Provider, error) {
	if len(name) > MaxNameLen {
		return nil, fmt.Errorf("keymap name is %d bytes, at most %d allowed", len(name), MaxNameLen)
	}
	if len(layers) == 0 {
		return nil, fmt.Errorf("keymap %q: at least one layer is required", name)
	}
	if len(layers) > 256 {
		return nil, fmt.Errorf("keymap %q: %d layers exceed the 256 addressable", name, len(layers))
	}
	if len(fn) > keycode.FnCount {
		return nil, fmt.Errorf("keymap %q: %d fn slots exceed the %d fn keycodes", name, len(fn), keycode.FnCount)
	}
	p := &Provider{
		name:   name,
		layers: append([]Matrix(nil), layers...),
		fn:     append([]FnSlot(nil), fn...),
	}
	return p, nil
}

func (p *Provider) Name() string { return p.name }

func (p *Provider) Layers() int { return len(p.layers) }

func (p *Provider) Rows() int { return Rows }

func (p *Provider) Cols() int { return Cols }

func (p *Provider) FnCount() int { return len(p.fn) }

func (p *Provider) checkCell(layer, row, col int) error {
	if err := checkIndex("layer", layer, len(p.layers)); err != nil {
		return err
	}
	if err := checkIndex("row", row, Rows); err != nil {
		return err
	}
	return checkIndex("col", col, Cols)
}

// Keycode returns the keycode at layer/row/col. The result may be
// keycode.None when no key sits at that cell.
func (p *Provider) Keycode(layer, row, col int) (keycode.Keycode, error) {
	if err := p.checkCell(layer, row, col); err != nil {
		return keycode.None, err
	}
	return p.layers[layer][row][col], nil
}

// Lookup is Keycode with the "no key" sentinel reported as ok == false.
func (p *Provider) Lookup(layer, row, col int) (kc keycode.Keycode, ok bool, err error) {
	kc, err = p.Keycode(layer, row, col)
	if err != nil {
		return keycode.None, false, err
	}
	return kc, kc.Defined(), nil
}

// KeycodeAt resolves a physical position on the given layer.
func (p *Provider) KeycodeAt(layer int, pos Position) (keycode.Keycode, error) {
	if pos > MaxPosition {
		return keycode.None, &IndexError{Table: "position", Index: int(pos), Limit: int(MaxPosition) + 1}
	}
	row, col := pos.Cell()
	return p.Keycode(layer, row, col)
}

// Layer returns a copy of one layer's matrix.
func (p *Provider) Layer(layer int) (Matrix, error) {
	if err := checkIndex("layer", layer, len(p.layers)); err != nil {
		return Matrix{}, err
	}
	return p.layers[layer], nil
}

// FnSlot returns the composite record of Fn key index.
func (p *Provider) FnSlot(index int) (FnSlot, error) {
	if err := checkIndex("fn", index, len(p.fn)); err != nil {
		return FnSlot{}, err
	}
	return p.fn[index], nil
}

// FnLayer returns the layer to switch to while Fn key index is held.
func (p *Provider) FnLayer(index int) (uint8, error) {
	s, err := p.FnSlot(index)
	return s.Layer, err
}

// FnKeycode returns the keycode to send when Fn key index is tapped alone.
func (p *Provider) FnKeycode(index int) (keycode.Keycode, error) {
	s, err := p.FnSlot(index)
	if err != nil {
		return keycode.None, err
	}
	return s.Fallback, nil
}

// FnAction returns the action bound to Fn key index.
func (p *Provider) FnAction(index int) (action.Action, error) {
	s, err := p.FnSlot(index)
	return s.Action, err
}

// FnToAction translates an Fn keycode to its action.
func (p *Provider) FnToAction(kc keycode.Keycode) (action.Action, error) {
	index, ok := kc.FnIndex()
	if !ok {
		return action.Action{}, fmt.Errorf("keymap: %s is not an fn keycode: %w", kc, ErrIndexOutOfRange)
	}
	return p.FnAction(index)
}

// FnSlots returns a copy of the Fn slot table.
func (p *Provider) FnSlots() []FnSlot {
	return append([]FnSlot(nil), p.fn...)
}

// Cells calls fn for every cell in layer, row, column order and stops early
// when fn returns false.
func (p *Provider) Cells(fn func(layer, row, col int, kc keycode.Keycode) bool) {
	for l := range p.layers {
		for r := 0; r < Rows; r++ {
			for c := 0; c < Cols; c++ {
				if !fn(l, r, c, p.layers[l][r][c]) {
					return
				}
			}
		}
	}
}

// Equal reports whether both providers map every cell and Fn slot alike.
func (p *Provider) Equal(o *Provider) bool {
	if len(p.layers) != len(o.layers) || len(p.fn) != len(o.fn) {
		return false
	}
	for i := range p.layers {
		if p.layers[i] != o.layers[i] {
			return false
		}
	}
	for i := range p.fn {
		if p.fn[i] != o.fn[i] {
			return false
		}
	}
	return true
}
