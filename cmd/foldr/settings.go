package main

import (
	"fmt"
	"strconv"

	"foldr/cmd/foldr/cli"
	"foldr/internal/config"
	"foldr/internal/errors"
	"foldr/internal/i18n"

	"github.com/spf13/cobra"
)

// toggle is a boolean setting the user can change from the command line.
type toggle struct {
	key   string
	label string // string table key
	field func(*config.Settings) *bool
}

var toggles = []toggle{
	{"confirm_before_move", "always_confirm_before_move", func(s *config.Settings) *bool { return &s.ConfirmBeforeMove }},
	{"show_script_warnings", "warn_if_scripts", func(s *config.Settings) *bool { return &s.ShowScriptWarnings }},
	{"show_patch_dialog", "offer_patch_hardcoded", func(s *config.Settings) *bool { return &s.ShowPatchDialog }},
	{"show_recent_targets", "display_recent_targets", func(s *config.Settings) *bool { return &s.ShowRecentTargets }},
	{"jump_to_new_folder", "auto_select_after_move", func(s *config.Settings) *bool { return &s.JumpToNewFolder }},
	{"show_debug_logs", "show_debug_logs", func(s *config.Settings) *bool { return &s.ShowDebugLogs }},
	{"enable_experimental", "enable_experimental", func(s *config.Settings) *bool { return &s.EnableExperimental }},
}

func findToggle(key string) (toggle, bool) {
	for _, t := range toggles {
		if t.key == key {
			return t, true
		}
	}
	return toggle{}, false
}

// NewSettingsCmd creates the settings command
func NewSettingsCmd(opts *rootOptions) *cobra.Command {
	list := &cobra.Command{
		Use:   "list",
		Short: "Show all settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := opts.app
			settings := a.store.Config().Settings

			rows := make([][]string, 0, len(toggles)+1)
			for _, t := range toggles {
				rows = append(rows, []string{t.key, strconv.FormatBool(*t.field(&settings)), a.tr.Get(t.label)})
			}
			rows = append(rows, []string{"language", settings.Language, a.tr.Get("language")})
			cli.NewPrinter(cmd.OutOrStdout()).PrintTable([]string{"Key", "Value", ""}, rows)
			return nil
		},
	}

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change settings",
		Args:  cobra.NoArgs,
		RunE:  list.RunE,
	}
	cmd.AddCommand(list)

	cmd.AddCommand(&cobra.Command{
		Use:       "set <key> <true|false>",
		Short:     "Change a setting",
		Args:      cobra.ExactArgs(2),
		ValidArgs: toggleKeys(),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, ok := findToggle(args[0])
			if !ok {
				return errors.NewConfigError("unknown setting", args[0], errors.InvalidConfig, nil)
			}
			value, err := strconv.ParseBool(args[1])
			if err != nil {
				return errors.NewConfigError(fmt.Sprintf("invalid value %q", args[1]), args[0], errors.InvalidConfig, err)
			}
			if err := opts.app.store.Update(func(c *config.Config) error {
				*t.field(&c.Settings) = value
				return nil
			}); err != nil {
				return err
			}
			cli.NewPrinter(cmd.OutOrStdout()).PrintSuccess(fmt.Sprintf("%s = %t", t.key, value))
			return nil
		},
	})

	return cmd
}

func toggleKeys() []string {
	keys := make([]string, 0, len(toggles))
	for _, t := range toggles {
		keys = append(keys, t.key)
	}
	return keys
}

// NewLangCmd creates the lang command
func NewLangCmd(opts *rootOptions) *cobra.Command {
	list := &cobra.Command{
		Use:   "list",
		Short: "List available languages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := opts.app
			locales, err := a.catalog.Locales()
			if err != nil {
				return err
			}
			current := a.tr.Locale()
			rows := make([][]string, 0, len(locales))
			for _, l := range locales {
				mark := ""
				if l.Code == current {
					mark = "*"
				}
				rows = append(rows, []string{mark, l.Code, l.Label})
			}
			cli.NewPrinter(cmd.OutOrStdout()).PrintTable([]string{"", "Code", a.tr.Get("language")}, rows)
			return nil
		},
	}

	cmd := &cobra.Command{
		Use:   "lang",
		Short: "Show or change the interface language",
		Args:  cobra.NoArgs,
		RunE:  list.RunE,
	}
	cmd.AddCommand(list)

	cmd.AddCommand(&cobra.Command{
		Use:   "set <code>",
		Short: "Change the interface language",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := opts.app
			code := args[0]
			locales, err := a.catalog.Locales()
			if err != nil {
				return err
			}
			if !hasLocale(locales, code) {
				return errors.NewConfigError("unknown language", code, errors.InvalidConfig, nil)
			}
			if err := a.store.Update(func(c *config.Config) error {
				c.Settings.Language = code
				return nil
			}); err != nil {
				return err
			}
			cli.NewPrinter(cmd.OutOrStdout()).PrintSuccess(fmt.Sprintf("%s: %s", a.catalog.Load(code).Get("language"), i18n.Label(code)))
			return nil
		},
	})

	return cmd
}

func hasLocale(locales []i18n.Locale, code string) bool {
	for _, l := range locales {
		if l.Code == code {
			return true
		}
	}
	return false
}
