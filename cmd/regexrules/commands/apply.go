package commands

import (
	"github.com/spf13/cobra"
	"github.com/walteh/regexrules/cmd/regexrules/opts"
	"github.com/walteh/regexrules/pkg/engine"
	"github.com/walteh/regexrules/pkg/invoke"
	"github.com/walteh/regexrules/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// NewApplyCmd creates the apply command
func NewApplyCmd(o *opts.RootOpts) *cobra.Command {
	var (
		ruleName    string
		rulesetName string
		options     operation.Options
	)

	cmd := &cobra.Command{
		Use:   "apply (--rule NAME | --ruleset NAME) GLOB...",
		Short: "Apply a rule or ruleset to many files",
		Long: `Apply runs one rule or ruleset over every file matched by the globs under
--root. Files whose language the rule excludes are skipped. The first other
failure stops the batch.`,
		Example: `  regexrules apply --ruleset cleanup '**/*.md' --exclude 'vendor/**'
  regexrules apply --rule strip-trailing-ws --dry-run '*.go'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			inv, err := o.Invoker(ctx)
			if err != nil {
				return err
			}
			cfg, err := o.Config(ctx)
			if err != nil {
				return err
			}
			st, err := o.State(ctx)
			if err != nil {
				return err
			}

			target := invoke.Rule(ruleName)
			if rulesetName != "" {
				target = invoke.Ruleset(rulesetName)
			}
			if target.Kind == invoke.KindRule {
				if _, ok := cfg.GetRule(target.Name); !ok {
					return &engine.Error{Kind: engine.KindUnknownRule, Rule: target.Name}
				}
			} else if _, ok := cfg.GetRuleset(target.Name); !ok {
				return errors.Errorf("%w %q", invoke.ErrUnknownRuleset, target.Name)
			}

			options.Applier = inv
			options.Tracker = st
			options.Target = target
			options.Patterns = args

			op, err := operation.New(options)
			if err != nil {
				return err
			}
			report, err := op.Execute(ctx)
			if err != nil {
				return err
			}

			o.Logger(ctx).Report(target, report)
			return nil
		},
	}

	cmd.Flags().StringVar(&ruleName, "rule", "", "rule to apply")
	cmd.Flags().StringVar(&rulesetName, "ruleset", "", "ruleset to apply")
	cmd.MarkFlagsMutuallyExclusive("rule", "ruleset")
	cmd.MarkFlagsOneRequired("rule", "ruleset")
	cmd.Flags().StringVar(&options.Root, "root", ".", "directory the globs are matched under")
	cmd.Flags().StringArrayVar(&options.Exclude, "exclude", nil, "glob of files to leave alone, repeatable")
	cmd.Flags().StringVarP(&options.LanguageID, "language", "l", "", "language id for every file (default: detected per file)")
	cmd.Flags().IntVarP(&options.Jobs, "jobs", "j", 4, "files processed at once")
	cmd.Flags().BoolVar(&options.DryRun, "dry-run", false, "report changes without writing")
	cmd.Flags().BoolVar(&options.Backup, "backup", false, "keep a .bak copy of each rewritten file")

	return cmd
}
