package commands

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/walteh/regexrules/cmd/regexrules/opts"
	"github.com/walteh/regexrules/pkg/invoke"
	"github.com/walteh/regexrules/pkg/view"
)

// NewRuleCmd creates the rule command
func NewRuleCmd(o *opts.RootOpts) *cobra.Command {
	return newRunCmd(o, invoke.KindRule)
}

// NewRulesetCmd creates the ruleset command
func NewRulesetCmd(o *opts.RootOpts) *cobra.Command {
	return newRunCmd(o, invoke.KindRuleset)
}

func newRunCmd(o *opts.RootOpts, kind invoke.Kind) *cobra.Command {
	var flags documentFlags

	cmd := &cobra.Command{
		Use:   kind.String() + " [NAME]",
		Short: "Apply a " + kind.String() + " to a file or stdin",
		Long: `Applies the named ` + kind.String() + ` to each selected line range of the
document, or to the whole document when no --lines are given. Without a NAME
an interactive picker lists the available names, most recently used first.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			inv, err := o.Invoker(ctx)
			if err != nil {
				return err
			}
			target, err := resolveTarget(ctx, o, kind, args)
			if err != nil {
				return err
			}
			doc, err := flags.load(o, true)
			if err != nil {
				return err
			}

			var out *invoke.Outcome
			if kind == invoke.KindRule {
				out, err = inv.RunRule(ctx, target.Name, doc)
			} else {
				out, err = inv.RunRuleset(ctx, target.Name, doc)
			}
			if err != nil {
				return err
			}
			return flags.emit(ctx, o, target, doc, out)
		},
	}

	flags.register(cmd, true)
	return cmd
}

// NewPasteCmd creates the paste command and its rule and ruleset subcommands
func NewPasteCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "paste",
		Short: "Transform the clipboard and insert it into a document",
	}
	cmd.AddCommand(newPasteCmd(o, invoke.KindRule), newPasteCmd(o, invoke.KindRuleset))
	return cmd
}

func newPasteCmd(o *opts.RootOpts, kind invoke.Kind) *cobra.Command {
	var flags documentFlags

	cmd := &cobra.Command{
		Use:   kind.String() + " [NAME]",
		Short: "Paste the clipboard transformed by a " + kind.String(),
		Long: `Transforms the clipboard text with the named ` + kind.String() + ` and puts the
result in place of each selected line range of --file, or of the whole file.
Without --file the transformed clipboard is printed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			inv, err := o.Invoker(ctx)
			if err != nil {
				return err
			}
			target, err := resolveTarget(ctx, o, kind, args)
			if err != nil {
				return err
			}
			doc, err := flags.load(o, false)
			if err != nil {
				return err
			}

			var out *invoke.Outcome
			if kind == invoke.KindRule {
				out, err = inv.PasteRule(ctx, target.Name, doc)
			} else {
				out, err = inv.PasteRuleset(ctx, target.Name, doc)
			}
			if err != nil {
				return err
			}
			return flags.emit(ctx, o, target, doc, out)
		},
	}

	flags.register(cmd, false)
	return cmd
}

// NewClipCmd creates the clip command, which rewrites the clipboard in place
func NewClipCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clip",
		Short: "Transform the clipboard in place",
	}
	for _, kind := range []invoke.Kind{invoke.KindRule, invoke.KindRuleset} {
		kind := kind
		cmd.AddCommand(&cobra.Command{
			Use:   kind.String() + " [NAME]",
			Short: "Rewrite the clipboard with a " + kind.String(),
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := cmd.Context()

				inv, err := o.Invoker(ctx)
				if err != nil {
					return err
				}
				target, err := resolveTarget(ctx, o, kind, args)
				if err != nil {
					return err
				}
				out, err := inv.TransformClipboard(ctx, target)
				if err != nil {
					return err
				}
				o.Logger(ctx).Outcome(target, out)
				return nil
			},
		})
	}
	return cmd
}

// resolveTarget takes the name from args, or asks the picker
func resolveTarget(ctx context.Context, o *opts.RootOpts, kind invoke.Kind, args []string) (invoke.Target, error) {
	if len(args) == 1 {
		return invoke.Target{Kind: kind, Name: args[0]}, nil
	}

	cfg, err := o.Config(ctx)
	if err != nil {
		return invoke.Target{}, err
	}
	st, err := o.State(ctx)
	if err != nil {
		return invoke.Target{}, err
	}

	names := cfg.RuleNames()
	if kind == invoke.KindRuleset {
		names = cfg.RulesetNames()
	}

	picker := o.Picker
	if picker == nil {
		picker = view.InteractivePicker{MaxHeight: 15}
	}
	name, err := view.Choose(ctx, picker, "Select a "+kind.String(), names, st)
	if err != nil {
		return invoke.Target{}, err
	}
	return invoke.Target{Kind: kind, Name: name}, nil
}
