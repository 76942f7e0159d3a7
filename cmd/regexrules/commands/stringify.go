package commands

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/regexrules/cmd/regexrules/opts"
	"gitlab.com/tozd/go/errors"
)

// NewStringifyCmd creates the stringify command
func NewStringifyCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "stringify [PATTERN]",
		Short: "Print a pattern as a JSON string for a rule's find field",
		Long: `Stringify validates a regular expression and prints its source as a JSON
string. A pattern written as /source/flags has its delimiters and flags
removed. Without PATTERN the pattern is prompted for, or read as the first
line of stdin when it is not a terminal.`,
		Example: `  regexrules stringify '/\d+\/\w+/g'    # "\\d+\\/\\w+"`,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := o.Engine()
			if err != nil {
				return err
			}

			var input string
			switch {
			case len(args) == 1:
				input = args[0]
			case isTerminal(o.In):
				input, err = pterm.DefaultInteractiveTextInput.Show("Regular expression")
				if err != nil {
					return errors.Errorf("reading pattern: %w", err)
				}
			default:
				line, err := bufio.NewReader(o.In).ReadString('\n')
				if err != nil && line == "" {
					return errors.Errorf("reading pattern: %w", err)
				}
				input = strings.TrimRight(line, "\r\n")
			}

			out, err := e.Stringify(input)
			if err != nil {
				return err
			}
			fmt.Fprintln(o.Out, out)
			return nil
		},
	}
}
