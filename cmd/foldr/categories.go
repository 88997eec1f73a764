package main

import (
	"fmt"
	"strconv"

	"foldr/cmd/foldr/cli"
	"foldr/internal/config"
	"foldr/internal/errors"

	"github.com/spf13/cobra"
)

// NewCategoriesCmd creates the categories command
func NewCategoriesCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category"},
		Short:   "Manage target categories",
	}

	cmd.AddCommand(&cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List categories in display order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := opts.app
			cfg := a.store.Config()

			counts := map[string]int{}
			for _, t := range cfg.Targets {
				counts[t.CategoryName()]++
			}
			var rows [][]string
			for i, cat := range cfg.LiveCategories() {
				rows = append(rows, []string{strconv.Itoa(i), cat, strconv.Itoa(counts[cat])})
			}
			cli.NewPrinter(cmd.OutOrStdout()).PrintTable([]string{"#", a.tr.Get("category"), "Targets"}, rows)
			return nil
		},
	})

	cmd.AddCommand(categoryMutation(opts, "add <name>", "Add a custom category", 1,
		func(c *config.Config, args []string) error { return c.AddCategory(args[0]) },
		func(args []string) string { return "Added category " + args[0] }))

	cmd.AddCommand(categoryMutation(opts, "rename <name> <new name>", "Rename a category and its targets", 2,
		func(c *config.Config, args []string) error { return c.RenameCategory(args[0], args[1]) },
		func(args []string) string { return fmt.Sprintf("Renamed category %s to %s", args[0], args[1]) }))

	cmd.AddCommand(categoryMutation(opts, "remove <name>", "Remove a category; its targets move to Default", 1,
		func(c *config.Config, args []string) error { return c.RemoveCategory(args[0]) },
		func(args []string) string { return "Removed category " + args[0] }))

	cmd.AddCommand(categoryMutation(opts, "move <name> <position>", "Move a custom category to a position", 2,
		func(c *config.Config, args []string) error {
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return errors.Wrapf(err, "invalid position %q", args[1])
			}
			// Position 0 is always Default; custom categories start at 1.
			return c.MoveCategory(args[0], index-1)
		},
		func(args []string) string { return fmt.Sprintf("Moved category %s to position %s", args[0], args[1]) }))

	return cmd
}

// categoryMutation builds a subcommand that applies fn through the store.
func categoryMutation(opts *rootOptions, use, short string, nargs int,
	fn func(*config.Config, []string) error, done func([]string) string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.app.store.Update(func(c *config.Config) error {
				return fn(c, args)
			}); err != nil {
				return err
			}
			cli.NewPrinter(cmd.OutOrStdout()).PrintSuccess(done(args))
			return nil
		},
	}
}
