package main

import (
	"foldr/cmd/foldr/cli"
	"foldr/internal/log"
	"foldr/internal/organize"
	"foldr/internal/prompt"
	"foldr/internal/tui"

	"github.com/spf13/cobra"
)

// cliHost stands in for an editor: it queues deferred calls and prints the
// folder the editor would select.
type cliHost struct {
	out   *cli.Printer
	queue []func()
}

var _ organize.Host = (*cliHost)(nil)

func newCLIHost(out *cli.Printer) *cliHost {
	return &cliHost{out: out}
}

func (h *cliHost) Refresh() {
	log.Debug("Project tree refreshed")
}

func (h *cliHost) DelayCall(fn func()) {
	h.queue = append(h.queue, fn)
}

func (h *cliHost) Select(p string) {
	h.out.PrintInfo("Selected " + p)
}

// Flush runs queued calls in order, including any they queue.
func (h *cliHost) Flush() {
	for len(h.queue) > 0 {
		fn := h.queue[0]
		h.queue = h.queue[1:]
		fn()
	}
}

// interactive reports whether the command talks to a terminal.
func interactive(cmd *cobra.Command) bool {
	return cli.IsTerminal(cmd.InOrStdin()) && cli.IsTerminal(cmd.OutOrStdout())
}

// newPrompter returns the full-screen prompter on a terminal and a
// line-based one otherwise.
func newPrompter(cmd *cobra.Command, tr organize.Translator) organize.Prompter {
	if interactive(cmd) {
		return tui.NewPrompter(tr, nil, nil)
	}
	return prompt.NewLine(cmd.InOrStdin(), cmd.OutOrStdout())
}
