package keymap

import (
	"fmt"

	"github.com/jetkvm/sun3kbd/internal/keycode"
)

const (
	Rows = 16
	Cols = 8
)

// Matrix is one layer of the key matrix. Cells without a physical switch
// hold keycode.None.
type Matrix [Rows][Cols]keycode.Keycode

// Position is a physical key position: the scancode the keyboard reports
// for the switch. The scancode encodes the matrix cell directly.
type Position uint8

// MaxPosition is the last cell of the matrix.
const MaxPosition Position = Rows*Cols - 1

// Cell returns the matrix coordinates of p.
func (p Position) Cell() (row, col int) {
	return int(p >> 3), int(p & 0x07)
}

func (p Position) String() string {
	return fmt.Sprintf("K%02X", uint8(p))
}

// PositionAt is the inverse of Cell.
func PositionAt(row, col int) (Position, error) {
	if err := checkIndex("row", row, Rows); err != nil {
		return 0, err
	}
	if err := checkIndex("col", col, Cols); err != nil {
		return 0, err
	}
	return Position(row<<3 | col), nil
}

// Layout lists physical positions in diagram order: left to right, top to
// bottom, the way keys are written out in a keymap definition.
type Layout []Position

// Build places keys[i] into the cell of l[i]. Cells the layout does not name
// are left as keycode.None.
func (l Layout) Build(keys ...keycode.Keycode) (Matrix, error) {
	var m Matrix
	if err := l.Validate(); err != nil {
		return m, err
	}
	if len(keys) != len(l) {
		return m, fmt.Errorf("keymap: layout has %d positions, got %d keys", len(l), len(keys))
	}
	for i, p := range l {
		row, col := p.Cell()
		m[row][col] = keys[i]
	}
	return m, nil
}

// Validate rejects duplicate or out-of-range positions.
func (l Layout) Validate() error {
	var seen [Rows * Cols]bool
	for i, p := range l {
		if p > MaxPosition {
			return fmt.Errorf("keymap: layout entry %d: position %s beyond matrix", i, p)
		}
		if seen[p] {
			return fmt.Errorf("keymap: layout entry %d: duplicate position %s", i, p)
		}
		seen[p] = true
	}
	return nil
}

// Contains reports whether p is part of the layout.
func (l Layout) Contains(p Position) bool {
	for _, q := range l {
		if q == p {
			return true
		}
	}
	return false
}

// Keys reads a matrix back out in layout order.
func (l Layout) Keys(m Matrix) []keycode.Keycode {
	out := make([]keycode.Keycode, len(l))
	for i, p := range l {
		row, col := p.Cell()
		out[i] = m[row][col]
	}
	return out
}
