package main

import (
	"context"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/walteh/regexrules/cmd/regexrules/commands"
	"github.com/walteh/regexrules/cmd/regexrules/opts"
	"github.com/walteh/regexrules/pkg/engine"
	"github.com/walteh/regexrules/pkg/invoke"
	"github.com/walteh/regexrules/pkg/log"
)

const (
	exitOK            = 0
	exitError         = 1
	exitNotApplicable = 2
)

// newRootCmd builds the command tree. Persistent flags are bound to
// REGEXRULES_* environment variables through v.
func newRootCmd(o *opts.RootOpts, v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "regexrules",
		Short: "Apply named regex find/replace rules to text",
		Long: `regexrules applies named regular-expression find/replace rules, and ordered
rulesets of them, to files, stdin and the clipboard. Rules are read from YAML,
JSON or HCL config, locally or from GitHub.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			o.Settings = opts.Settings{
				Sources:      v.GetStringSlice("config"),
				StatePath:    v.GetString("state"),
				Engine:       v.GetString("engine"),
				MatchTimeout: v.GetDuration("match-timeout"),
				Debug:        v.GetBool("debug"),
			}
			cmd.SetContext(setupLogging(cmd.Context(), o))
			return nil
		},
	}

	addRootFlags(cmd, v)

	cmd.AddCommand(
		commands.NewRuleCmd(o),
		commands.NewRulesetCmd(o),
		commands.NewPasteCmd(o),
		commands.NewClipCmd(o),
		commands.NewApplyCmd(o),
		commands.NewListCmd(o),
		commands.NewSortCmd(o),
		commands.NewStringifyCmd(o),
		newVersionCmd(o),
	)

	return cmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, v *viper.Viper) {
	flags := cmd.PersistentFlags()
	flags.StringSliceP("config", "c", nil, "rule config source, local path or github:owner/repo/path[@ref] (repeatable, later wins)")
	flags.String("state", "", "usage state file (default: user config dir)")
	flags.String("engine", string(engine.BackendECMAScript), "regex engine: ecmascript or re2")
	flags.Duration("match-timeout", 0, "bound a single match attempt on the ecmascript engine (0: no bound)")
	flags.BoolP("debug", "d", false, "enable debug logging")

	v.SetEnvPrefix("REGEXRULES")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	for _, name := range []string{"config", "state", "engine", "match-timeout", "debug"} {
		_ = v.BindPFlag(name, flags.Lookup(name))
	}
}

// setupLogging puts a zerolog console logger and the console reporter on ctx
func setupLogging(ctx context.Context, o *opts.RootOpts) context.Context {
	level := zerolog.WarnLevel
	if o.Settings.Debug {
		level = zerolog.DebugLevel
	}
	zlog := zerolog.New(zerolog.ConsoleWriter{Out: o.Err}).Level(level).With().Timestamp().Logger()
	ctx = zlog.WithContext(ctx)
	return log.NewContext(ctx, log.New(o.Err, zlog))
}

// run executes the CLI and returns the process exit status
func run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	o := &opts.RootOpts{In: in, Out: out, Err: errOut}
	if invoke.SystemClipboardSupported() {
		o.Clipboard = invoke.SystemClipboard{}
	}
	return execute(ctx, o, args)
}

func execute(ctx context.Context, o *opts.RootOpts, args []string) int {
	cmd := newRootCmd(o, viper.New())
	cmd.SetArgs(args)
	cmd.SetIn(o.In)
	cmd.SetOut(o.Out)
	cmd.SetErr(o.Err)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}

	ctx = setupLogging(ctx, o)
	log.FromContext(ctx).Failure(err)
	if kind, ok := engine.KindOf(err); ok && kind == engine.KindNotApplicable {
		return exitNotApplicable
	}
	return exitError
}
