package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jetkvm/sun3kbd"
	"github.com/jetkvm/sun3kbd/internal/keymap"
)

func newLookupCommand(cfg *sun3kbd.Config, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <layer> <row> <col>",
		Short: "Print the keycode at a matrix cell.",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := atoiArgs(args)
			if err != nil {
				return err
			}
			p, err := sun3kbd.LoadKeymap(cfg.KeymapFile)
			if err != nil {
				return err
			}
			kc, ok, err := p.Lookup(idx[0], idx[1], idx[2])
			if err != nil {
				return err
			}
			pos, _ := keymap.PositionAt(idx[1], idx[2])
			if !ok {
				fmt.Fprintf(stdout, "%s %s (no keycode)\n", pos, kc)
				return nil
			}
			fmt.Fprintf(stdout, "%s %s\n", pos, kc)
			return nil
		},
	}
}

func newFnCommand(cfg *sun3kbd.Config, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "fn <index>",
		Short: "Print the layer, fallback keycode and action of an Fn slot.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := atoiArgs(args)
			if err != nil {
				return err
			}
			p, err := sun3kbd.LoadKeymap(cfg.KeymapFile)
			if err != nil {
				return err
			}
			s, err := p.FnSlot(idx[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "FN%d layer=%d fallback=%s action=%s (0x%04X)\n",
				idx[0], s.Layer, s.Fallback, s.Action, s.Action.Code())
			return nil
		},
	}
}

func atoiArgs(args []string) ([]int, error) {
	out := make([]int, len(args))
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %q is not an integer", i+1, a)
		}
		out[i] = v
	}
	return out, nil
}
