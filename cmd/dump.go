package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/table"
	"github.com/jedib0t/go-pretty/text"
	"github.com/spf13/cobra"

	"github.com/jetkvm/sun3kbd"
	"github.com/jetkvm/sun3kbd/internal/keycode"
	"github.com/jetkvm/sun3kbd/internal/keymap"
)

func newDumpCommand(cfg *sun3kbd.Config, stdout io.Writer) *cobra.Command {
	var layer int
	dumpCmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the keymap as tables.",
		Long: `
Prints every layer of the keymap as a 16x8 matrix, followed by the Fn slots.
Matrix cells without a keycode are left blank.
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := sun3kbd.LoadKeymap(cfg.KeymapFile)
			if err != nil {
				return err
			}
			return dumpKeymap(stdout, p, layer)
		},
	}
	dumpCmd.Flags().IntVarP(&layer, "layer", "l", -1, "Only print this layer; all layers when negative.")
	return dumpCmd
}

func dumpKeymap(w io.Writer, p *keymap.Provider, only int) error {
	layers := []int{}
	if only >= 0 {
		layers = append(layers, only)
	} else {
		for l := 0; l < p.Layers(); l++ {
			layers = append(layers, l)
		}
	}

	for _, l := range layers {
		m, err := p.Layer(l)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s layer %d\n", p.Name(), l)
		writeMatrix(w, m)
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "%s fn slots\n", p.Name())
	writeFnSlots(w, p.FnSlots())
	return nil
}

func writeMatrix(w io.Writer, m keymap.Matrix) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.Style().Format.Header = text.FormatDefault

	header := table.Row{"row"}
	for c := 0; c < keymap.Cols; c++ {
		header = append(header, strconv.Itoa(c))
	}
	t.AppendHeader(header)

	for r := range m {
		row := table.Row{fmt.Sprintf("%X", r)}
		for _, kc := range m[r] {
			cell := ""
			if kc != keycode.None {
				cell = kc.String()
			}
			row = append(row, cell)
		}
		t.AppendRow(row)
	}
	t.Render()
}

func writeFnSlots(w io.Writer, slots []keymap.FnSlot) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.Style().Format.Header = text.FormatDefault
	t.AppendHeader(table.Row{"fn", "layer", "fallback", "action", "code"})
	for i, s := range slots {
		fn, _ := keycode.FnKey(i)
		t.AppendRow(table.Row{fn.String(), s.Layer, s.Fallback.String(), s.Action.String(), fmt.Sprintf("0x%04X", s.Action.Code())})
	}
	t.Render()
}
