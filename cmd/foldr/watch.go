package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"foldr/cmd/foldr/cli"
	"foldr/internal/errors"
	"foldr/internal/watch"

	"github.com/spf13/cobra"
)

// NewWatchCmd creates the watch command
func NewWatchCmd(opts *rootOptions) *cobra.Command {
	var prune bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch target folders and report the ones that disappear",
		Long: `Watch the parent of every target folder. When a target is removed or
renamed a warning is printed; with --prune the target is also removed from
the configuration. Requires the enable_experimental setting.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := opts.app
			out := cli.NewPrinter(cmd.OutOrStdout())

			if !a.store.Config().Settings.EnableExperimental {
				return errors.NewConfigError("watch is experimental; run 'foldr settings set enable_experimental true' first",
					"enable_experimental", errors.InvalidConfig, nil)
			}

			m, err := watch.NewMonitor(a.root, a.store, prune)
			if err != nil {
				return err
			}
			m.SetCallback(func(r watch.Report) {
				switch {
				case r.Err != nil:
					out.PrintError(fmt.Sprintf("%s: %v", r.Target.Path, r.Err))
				case r.Pruned:
					out.PrintWarning(a.tr.Get("target_missing", r.Target.Path) + " (removed)")
				case r.Missing:
					out.PrintWarning(a.tr.Get("target_missing", r.Target.Path))
				default:
					out.PrintSuccess("Target is back: " + r.Target.Path)
				}
			})

			if err := m.Start(); err != nil {
				return err
			}
			out.PrintInfo("Watching target folders. Press Ctrl+C to stop.")

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			<-ctx.Done()

			m.Stop()
			status := m.Status()
			out.PrintInfo(fmt.Sprintf("Stopped. %d missing, %d pruned.", status.Missing, status.Pruned))
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		},
	}

	cmd.Flags().BoolVar(&prune, "prune", false, "remove missing targets from the configuration")

	return cmd
}
