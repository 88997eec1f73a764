package main

import (
	"strconv"
	"time"

	"foldr/cmd/foldr/cli"
	"foldr/internal/config"
	"foldr/internal/errors"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command
func NewHistoryCmd(opts *rootOptions) *cobra.Command {
	var (
		clearAll bool
		jump     int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show moves and target changes, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := opts.app
			out := cli.NewPrinter(cmd.OutOrStdout())

			if clearAll {
				if err := a.store.Update(func(c *config.Config) error {
					c.ClearHistory()
					return nil
				}); err != nil {
					return err
				}
				out.PrintSuccess("History cleared.")
				return nil
			}

			entries := a.store.Config().NewestFirst()
			if len(entries) == 0 {
				out.PrintInfo(a.tr.Get("no_history_yet"))
				return nil
			}

			if jump != 0 {
				if jump < 1 || jump > len(entries) {
					return errors.Newf("no history entry %d", jump)
				}
				newCLIHost(out).Select(entries[jump-1].JumpPath())
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for i, e := range entries {
				detail := e.Extra
				if e.Action == config.ActionSetTarget {
					detail = e.Category
				}
				rows = append(rows, []string{strconv.Itoa(i + 1), whenText(e.Timestamp), string(e.Action), e.Path, detail})
			}
			out.PrintHeader(a.tr.Get("action_history"))
			out.PrintTable([]string{"#", "When", "Action", a.tr.Get("path"), ""}, rows)
			return nil
		},
	}

	cmd.Flags().BoolVar(&clearAll, "clear", false, "delete all history entries")
	cmd.Flags().IntVarP(&jump, "jump", "j", 0, "select the location of entry N (1 is the newest)")

	return cmd
}

// whenText renders a history timestamp relative to now, falling back to the
// raw text when it cannot be parsed.
func whenText(ts string) string {
	t, err := time.ParseInLocation(config.TimestampLayout, ts, time.Local)
	if err != nil {
		return ts
	}
	return humanize.Time(t)
}

// NewRecentCmd creates the recent command
func NewRecentCmd(opts *rootOptions) *cobra.Command {
	var clearAll bool

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Show recently used targets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := opts.app
			out := cli.NewPrinter(cmd.OutOrStdout())

			if clearAll {
				if err := a.store.Update(func(c *config.Config) error {
					c.ClearRecents()
					return nil
				}); err != nil {
					return err
				}
				out.PrintSuccess("Recent targets cleared.")
				return nil
			}

			cfg := a.store.Config()
			if len(cfg.Recent) == 0 {
				out.PrintInfo("No recent targets.")
				return nil
			}
			rows := make([][]string, 0, len(cfg.Recent))
			for i, p := range cfg.Recent {
				name := ""
				if t, ok := cfg.Target(p); ok {
					name = t.DisplayName
				}
				rows = append(rows, []string{strconv.Itoa(i + 1), name, p})
			}
			out.PrintHeader(a.tr.Get("recent"))
			out.PrintTable([]string{"#", a.tr.Get("display_name"), a.tr.Get("path")}, rows)
			return nil
		},
	}

	cmd.Flags().BoolVar(&clearAll, "clear", false, "forget all recent targets")

	return cmd
}
