package main

import (
	"fmt"
	"strconv"

	"foldr/cmd/foldr/cli"
	"foldr/internal/patch"
	"foldr/internal/scan"

	"github.com/spf13/cobra"
)

// NewScanCmd creates the scan command
func NewScanCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "scan <folder>",
		Short: "List scripts in a folder that contain hardcoded asset paths",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := opts.app
			out := cli.NewPrinter(cmd.OutOrStdout())

			dir, err := a.projectPath(args[0])
			if err != nil {
				return err
			}
			res, err := scan.Folder(a.root, dir, a.store.Config().Settings.ScriptPatterns)
			if err != nil {
				return err
			}

			out.PrintInfo(fmt.Sprintf("%d script(s) in %s", len(res.Scripts), dir))
			if !res.HasMatches() {
				out.PrintSuccess("No hardcoded paths found.")
				return nil
			}

			rows := make([][]string, 0, len(res.Matches))
			for _, m := range res.Matches {
				rows = append(rows, []string{m.File, strconv.Itoa(m.Line), m.Text})
			}
			out.PrintHeader(a.tr.Get("hardcoded_paths_title"))
			out.PrintTable([]string{"File", "Line", "Text"}, rows)
			return nil
		},
	}
}

// NewPatchCmd creates the patch command
func NewPatchCmd(opts *rootOptions) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "patch <folder> <new location>",
		Short: "Rewrite hardcoded paths in a folder's scripts",
		Long: `Rewrite every occurrence of the folder's path in its scripts to the new
location. With --dry-run the changes are shown as a diff and nothing is
written.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := opts.app
			out := cli.NewPrinter(cmd.OutOrStdout())

			oldRoot, err := a.projectPath(args[0])
			if err != nil {
				return err
			}
			newRoot, err := a.projectPath(args[1])
			if err != nil {
				return err
			}

			p, err := patch.New(a.root, a.store.Config().Settings.ScriptPatterns)
			if err != nil {
				return err
			}

			if dryRun {
				diffs, err := p.Preview(oldRoot, newRoot)
				if err != nil {
					return err
				}
				if len(diffs) == 0 {
					out.PrintInfo("Nothing to patch.")
					return nil
				}
				for _, d := range diffs {
					out.PrintDiff(d.String())
				}
				out.PrintInfo(fmt.Sprintf("%d file(s) would be patched", len(diffs)))
				return nil
			}

			n, err := p.Apply(oldRoot, newRoot)
			if err != nil {
				return err
			}
			out.PrintSuccess(a.tr.Get("patch_complete", n))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "show the changes without writing them")

	return cmd
}
