package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jetkvm/sun3kbd"
)

const envPrefix = "SUN3KBD"

func NewRootCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	cfg := sun3kbd.NewConfig()
	rc := &cobra.Command{
		Use:   "sun3kbd",
		Short: "Sun Type-3 keyboard to USB HID converter.",
		Long: `Converts the serial protocol of a Sun Type-3 keyboard into USB HID
keyboard reports, and inspects or exports the keymap it uses.

Every flag can also be set from the environment (SUN3KBD_ followed by the
flag name in upper case, dashes as underscores) or from a TOML file given
with --config.
`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v := viper.New()
			return setAllConfig(v, cmd.Flags())
		},
	}
	flags := rc.PersistentFlags()
	flags.StringP("config", "c", "", "Configuration file to read from.")
	flags.StringVarP(&cfg.KeymapFile, "keymap-file", "k", cfg.KeymapFile, "Keymap file (.json, .yaml, .toml or .bin); the built-in Type-3 keymap when empty.")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: trace, debug, info, warn or error.")

	rc.AddCommand(newDumpCommand(cfg, stdout))
	rc.AddCommand(newExportCommand(cfg, stdout))
	rc.AddCommand(newLookupCommand(cfg, stdout))
	rc.AddCommand(newFnCommand(cfg, stdout))
	rc.AddCommand(newRunCommand(cfg))
	rc.AddCommand(newServeCommand(cfg))

	rc.SetIn(stdin)
	rc.SetOut(stdout)
	rc.SetErr(stderr)
	return rc
}

// setAllConfig takes a FlagSet to be the definition of all configuration
// options, as well as their defaults. It then reads from the command line, the
// environment, and a config file (if specified), and applies the configuration
// in that priority order. Each flag points at the field it sets, so the
// Config the commands share is filled in place.
func setAllConfig(v *viper.Viper, flags *pflag.FlagSet) error {
	if err := v.BindPFlags(flags); err != nil {
		return err
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	validTags := make(map[string]bool)
	flags.VisitAll(func(f *pflag.Flag) {
		validTags[f.Name] = true
	})

	if c := v.GetString("config"); c != "" {
		v.SetConfigFile(c)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("error reading configuration file '%s': %v", c, err)
		}
		for _, key := range v.AllKeys() {
			if _, ok := validTags[key]; !ok {
				return fmt.Errorf("invalid option in configuration file: %v", key)
			}
		}
	}

	var flagErr error
	flags.VisitAll(func(f *pflag.Flag) {
		if flagErr != nil || f.Changed {
			// a flag on the command line wins over env and file
			return
		}
		flagErr = f.Value.Set(v.GetString(f.Name))
	})
	return flagErr
}
