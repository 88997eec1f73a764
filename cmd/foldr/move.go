package main

import (
	"fmt"
	"strings"

	"foldr/cmd/foldr/cli"
	"foldr/internal/errors"
	"foldr/internal/organize"
	"foldr/internal/tui"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// NewMoveCmd creates the move command
func NewMoveCmd(opts *rootOptions) *cobra.Command {
	var target string

	cmd := &cobra.Command{
		Use:   "move <folder>",
		Short: "Move a folder into a target folder",
		Long: `Move an asset folder into a target folder. Without --to a picker lists
the configured targets. Scripts with hardcoded asset paths can be patched to
the new location before the move.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := opts.app
			out := cli.NewPrinter(cmd.OutOrStdout())

			source, err := a.projectPath(args[0])
			if err != nil {
				return err
			}

			if target == "" {
				if !interactive(cmd) {
					return errors.New("--to is required when not running in a terminal")
				}
				picked, ok, err := tui.NewPrompter(a.tr, nil, nil).Pick(a.store.Config(), source)
				if err != nil {
					return errors.Wrap(err, "error running picker")
				}
				if !ok {
					out.PrintWarning("No target chosen.")
					return nil
				}
				target = picked
			}
			target, err = a.projectPath(target)
			if err != nil {
				return err
			}

			host := newCLIHost(out)
			mover := organize.New(a.root, a.store, newPrompter(cmd, a.tr), host, a.tr)
			res, err := mover.Move(cmd.Context(), source, target)
			if err != nil {
				return err
			}
			printMoveResult(out, res)
			host.Flush()
			return nil
		},
	}

	cmd.Flags().StringVarP(&target, "to", "t", "", "target folder (default opens the picker)")

	return cmd
}

func printMoveResult(out *cli.Printer, res *organize.Result) {
	if res.Outcome == organize.Cancelled {
		out.PrintWarning("Move cancelled.")
		return
	}

	details := []string{"Operation " + res.OperationID}
	if res.Outcome == organize.Merged {
		out.PrintSuccess(fmt.Sprintf("Merged %s into %s", res.Source, res.Destination))
		details = append(details, fmt.Sprintf("%d file(s), %s merged", res.Merge.Files, humanize.Bytes(uint64(res.Merge.Bytes))))
	} else {
		out.PrintSuccess(fmt.Sprintf("Moved %s to %s", res.Source, res.Destination))
	}
	if res.Patched > 0 {
		details = append(details, fmt.Sprintf("%d script(s) patched", res.Patched))
	}
	out.PrintBox(strings.Join(details, "\n"))
}
