package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/jetkvm/sun3kbd"
	"github.com/jetkvm/sun3kbd/internal/keymap"
)

func newExportCommand(cfg *sun3kbd.Config, stdout io.Writer) *cobra.Command {
	var (
		format string
		output string
	)
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write the keymap in another format.",
		Long: `
Encodes the keymap as json, yaml, toml or binary. Without --output-file the
keymap is written to STDOUT. Combined with --keymap-file this converts a
keymap between formats.
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := keymap.ParseFormat(format)
			if err != nil {
				return err
			}
			p, err := sun3kbd.LoadKeymap(cfg.KeymapFile)
			if err != nil {
				return err
			}
			if output == "" {
				return keymap.Encode(stdout, p, f)
			}
			return keymap.WriteFile(output, p, f)
		},
	}
	flags := exportCmd.Flags()
	flags.StringVarP(&format, "format", "f", string(keymap.FormatJSON), "Output format: json, yaml, toml or binary.")
	flags.StringVarP(&output, "output-file", "o", "", "File to write the keymap to - default stdout")
	return exportCmd
}
