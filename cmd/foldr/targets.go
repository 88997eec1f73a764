package main

import (
	"fmt"
	"strings"
	"time"

	"foldr/cmd/foldr/cli"
	"foldr/internal/config"
	"foldr/internal/errors"
	"foldr/internal/organize"

	"github.com/spf13/cobra"
)

// NewTargetsCmd creates the targets command
func NewTargetsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "targets",
		Short: "Manage target folders",
	}

	cmd.AddCommand(newTargetsListCmd(opts))
	cmd.AddCommand(newTargetsAddCmd(opts))
	cmd.AddCommand(newTargetsRemoveCmd(opts))
	cmd.AddCommand(newTargetsRenameCmd(opts))
	cmd.AddCommand(newTargetsCategoryCmd(opts))

	return cmd
}

func newTargetsListCmd(opts *rootOptions) *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List target folders grouped by category",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := opts.app
			out := cli.NewPrinter(cmd.OutOrStdout())
			cfg := a.store.Config()

			if len(cfg.Targets) == 0 {
				out.PrintInfo(a.tr.Get("no_targets"))
				return nil
			}

			fs := organize.NewOSFileSystem(a.root)
			var rows [][]string
			for _, g := range cfg.Group(search) {
				for _, t := range g.Targets {
					status := ""
					if !fs.IsDir(t.Path) {
						status = "missing"
					}
					rows = append(rows, []string{g.Category, t.DisplayName, t.Path, status})
				}
			}
			out.PrintTable([]string{a.tr.Get("category"), a.tr.Get("display_name"), a.tr.Get("path"), ""}, rows)
			return nil
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "only list targets whose name or path contains this text")

	return cmd
}

func newTargetsAddCmd(opts *rootOptions) *cobra.Command {
	var (
		name     string
		category string
	)

	cmd := &cobra.Command{
		Use:   "add <folder>...",
		Short: "Register folders as targets",
		Long: `Register one or more folders as targets. --name applies only when a
single folder is added; otherwise each target is named after its folder.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := opts.app
			out := cli.NewPrinter(cmd.OutOrStdout())

			paths := make([]string, 0, len(args))
			for _, arg := range args {
				p, err := a.projectPath(arg)
				if err != nil {
					out.PrintWarning(err.Error())
					continue
				}
				paths = append(paths, p)
			}

			var report config.AddReport
			fs := organize.NewOSFileSystem(a.root)
			err := a.store.Update(func(c *config.Config) error {
				var err error
				report, err = c.AddTargets(fs, paths, name, category, time.Now())
				return err
			})
			if err != nil {
				return err
			}

			for _, p := range report.Added {
				out.PrintSuccess("Added target " + p)
			}
			for _, p := range report.Existing {
				out.PrintWarning("Already a target: " + p)
			}
			for _, p := range report.Invalid {
				out.PrintWarning(a.tr.Get("target_missing", p))
			}
			if len(report.Added) == 0 {
				return errors.New("no targets added")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "display name for a single target")
	cmd.Flags().StringVarP(&category, "category", "c", config.DefaultCategory, "category for the new targets")

	return cmd
}

func newTargetsRemoveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <target>",
		Aliases: []string{"rm"},
		Short:   "Remove a target folder from the list",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := opts.app
			p, err := a.projectPath(args[0])
			if err != nil {
				return err
			}
			if err := a.store.Update(func(c *config.Config) error {
				return c.RemoveTarget(p)
			}); err != nil {
				return err
			}
			cli.NewPrinter(cmd.OutOrStdout()).PrintSuccess("Removed target " + p)
			return nil
		},
	}
}

func newTargetsRenameCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <target> <display name>",
		Short: "Change the display name of a target",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := opts.app
			p, err := a.projectPath(args[0])
			if err != nil {
				return err
			}
			name := strings.Join(args[1:], " ")
			if err := a.store.Update(func(c *config.Config) error {
				return c.RenameTarget(p, name)
			}); err != nil {
				return err
			}
			cli.NewPrinter(cmd.OutOrStdout()).PrintSuccess(fmt.Sprintf("Renamed %s to %q", p, name))
			return nil
		},
	}
}

func newTargetsCategoryCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set-category <target> <category>",
		Short: "Move a target into another category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := opts.app
			p, err := a.projectPath(args[0])
			if err != nil {
				return err
			}
			if err := a.store.Update(func(c *config.Config) error {
				return c.SetTargetCategory(p, args[1])
			}); err != nil {
				return err
			}
			cli.NewPrinter(cmd.OutOrStdout()).PrintSuccess(fmt.Sprintf("%s is now in %s", p, args[1]))
			return nil
		},
	}
}
