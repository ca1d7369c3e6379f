package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type rootOptions struct {
	configPath string
	verbose    bool
}

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	v := newViper()

	cmd := &cobra.Command{
		Use:          "netquiz",
		Short:        "Line-protocol quiz server and client",
		SilenceUsage: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "path to YAML config, defaults apply when empty (env: NETQUIZ_CONFIG)")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "log debug output (env: NETQUIZ_VERBOSE)")
	bindEnv(v, pf)

	cmd.AddCommand(NewStartCmd(opts, v))
	cmd.AddCommand(NewClientCmd(opts, v))
	cmd.AddCommand(NewMigrateCmd(opts, v))

	cmd.CompletionOptions.HiddenDefaultCmd = true
	return cmd
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("NETQUIZ")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// bindEnv lets NETQUIZ_<FLAG> stand in for any flag not given on the
// command line.
func bindEnv(v *viper.Viper, fs *pflag.FlagSet) {
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})
	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func setupLogging(verbose bool) *slog.Logger {
	logger := newLogger(os.Stderr, verbose)
	slog.SetDefault(logger)
	return logger
}
