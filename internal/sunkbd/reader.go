package sunkbd

import (
	"bufio"
	"context"
	"errors"
	"io"
)

// Handler receives decoded events. Returning an error stops the reader.
type Handler func(Event) error

// Reader pulls bytes from a keyboard line and hands events to a handler.
type Reader struct {
	r   *bufio.Reader
	dec Decoder
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReaderSize(r, 64)}
}

// Next blocks for the next complete event.
func (r *Reader) Next() (Event, error) {
	for {
		b, err := r.r.ReadByte()
		if err != nil {
			return Event{}, err
		}
		if ev, ok := r.dec.Feed(b); ok {
			return ev, nil
		}
	}
}

// Run delivers events until the line hits EOF, ctx is done or h fails.
// A clean EOF returns nil.
func (r *Reader) Run(ctx context.Context, h Handler) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		ev, err := r.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := h(ev); err != nil {
			return err
		}
	}
}
