package keymap

import (
	"errors"
	"fmt"
)

// ErrIndexOutOfRange is matched by every lookup outside the table bounds.
var ErrIndexOutOfRange = errors.New("index out of range")

// IndexError names the table and index of a rejected lookup.
type IndexError struct {
	Table string
	Index int
	Limit int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("keymap: %s index %d out of range [0,%d)", e.Table, e.Index, e.Limit)
}

func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfRange
}

func checkIndex(table string, i, limit int) error {
	if i < 0 || i >= limit {
		return &IndexError{Table: table, Index: i, Limit: limit}
	}
	return nil
}
