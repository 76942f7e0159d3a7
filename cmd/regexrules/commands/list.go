package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/walteh/regexrules/cmd/regexrules/opts"
	"github.com/walteh/regexrules/pkg/provider"
	"github.com/walteh/regexrules/pkg/state"
	"github.com/walteh/regexrules/pkg/view"
)

// modeUsage sorts with a fixed mode instead of the stored one
type modeUsage struct {
	*state.Manager
	mode state.SortMode
}

func (m modeUsage) Sort(names []string) []string {
	return m.SortBy(m.mode, names)
}

// NewListCmd creates the list command
func NewListCmd(o *opts.RootOpts) *cobra.Command {
	var (
		sortFlag    string
		showSources bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the configured rules and rulesets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := o.Config(ctx)
			if err != nil {
				return err
			}
			st, err := o.State(ctx)
			if err != nil {
				return err
			}

			var usage view.Usage = st
			if sortFlag != "" {
				mode, err := state.ParseSortMode(sortFlag)
				if err != nil {
					return err
				}
				usage = modeUsage{Manager: st, mode: mode}
			}

			if err := view.RenderTree(o.Out, cfg, usage); err != nil {
				return err
			}
			if showSources {
				return printSources(ctx, o.Out, cfg.Sources())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sortFlag, "sort", "", "order for this listing: alphabetical or recent")
	cmd.Flags().BoolVar(&showSources, "sources", false, "also list the config sources, with links for remote ones")
	return cmd
}

// printSources writes one line per config source, in load order. Remote
// sources are followed by their provider's permalink.
func printSources(ctx context.Context, w io.Writer, sources []string) error {
	fmt.Fprintln(w, "Sources:")
	for _, src := range sources {
		if !provider.IsRemote(src) {
			fmt.Fprintf(w, "  %s\n", src)
			continue
		}

		s, err := provider.ParseSource(src)
		if err != nil {
			return err
		}
		link, err := provider.Permalink(ctx, s)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "  %s → %s\n", src, link)
	}
	return nil
}

// NewSortCmd creates the sort command, which shows or sets the stored sort mode
func NewSortCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:       "sort [alphabetical|recent]",
		Short:     "Show or set how rules are ordered",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(state.SortAlphabetical), string(state.SortRecent)},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			st, err := o.State(ctx)
			if err != nil {
				return err
			}

			if len(args) == 0 {
				fmt.Fprintln(o.Out, st.SortMode())
				return nil
			}

			mode, err := state.ParseSortMode(args[0])
			if err != nil {
				return err
			}
			if err := st.SetSortMode(ctx, mode); err != nil {
				return err
			}
			o.Logger(ctx).Successf("sort mode set to %s", mode)
			return nil
		},
	}
}
