package main

import (
	"os"
	"path/filepath"
	"strings"

	"foldr/internal/config"
	"foldr/internal/errors"
	"foldr/internal/i18n"
	"foldr/internal/log"

	"github.com/spf13/cobra"
)

// app is the per-invocation state shared by all commands.
type app struct {
	root    string
	store   *config.Store
	catalog *i18n.Catalog
	tr      *i18n.Table
}

type rootOptions struct {
	project string
	cfgFile string
	debug   bool

	app *app
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "foldr",
		Short: "Move Unity asset folders into target folders",
		Long: `foldr moves asset folders of a Unity project into configured target
folders. It warns about scripts with hardcoded asset paths, offers to patch
them, and resolves name conflicts by merging or renaming.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.load(cmd)
			if err != nil {
				return err
			}
			opts.app = a
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.project, "project", "p", "", "Unity project root (default is the current directory)")
	rootCmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (default is <project>/.foldr/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(NewMoveCmd(opts))
	rootCmd.AddCommand(NewTargetsCmd(opts))
	rootCmd.AddCommand(NewCategoriesCmd(opts))
	rootCmd.AddCommand(NewHistoryCmd(opts))
	rootCmd.AddCommand(NewRecentCmd(opts))
	rootCmd.AddCommand(NewScanCmd(opts))
	rootCmd.AddCommand(NewPatchCmd(opts))
	rootCmd.AddCommand(NewSettingsCmd(opts))
	rootCmd.AddCommand(NewLangCmd(opts))
	rootCmd.AddCommand(NewWatchCmd(opts))

	return rootCmd
}

// load opens the project configuration and sets up logging and strings.
func (o *rootOptions) load(cmd *cobra.Command) (*app, error) {
	log.SetOutput(cmd.ErrOrStderr())
	log.SetDebug(o.debug)

	root := o.project
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "error getting current directory")
		}
		root = wd
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrap(err, "invalid project path")
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil, errors.NewFileError("project root is not a directory", root, errors.InvalidPath, err)
	}

	cfgPath := o.cfgFile
	if cfgPath == "" {
		cfgPath = config.DefaultPath(root)
	}
	store, err := config.Open(cfgPath)
	if err != nil {
		return nil, err
	}

	settings := store.Config().Settings
	if settings.ShowDebugLogs {
		log.SetDebug(true)
	}

	localeDir := settings.LocaleDir
	if localeDir != "" && !filepath.IsAbs(localeDir) {
		localeDir = filepath.Join(root, localeDir)
	}
	catalog := i18n.NewCatalog(localeDir)

	log.LogWithFields(log.F("project", root), log.F("config", cfgPath)).Debug("Project loaded")
	return &app{
		root:    root,
		store:   store,
		catalog: catalog,
		tr:      catalog.Load(settings.Language),
	}, nil
}

// projectPath turns a command-line path into a project-relative slash path.
// Absolute paths must lie inside the project.
func (a *app) projectPath(arg string) (string, error) {
	if filepath.IsAbs(arg) {
		rel, err := filepath.Rel(a.root, arg)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return "", errors.NewFileError("path is outside the project", arg, errors.InvalidPath, err)
		}
		arg = rel
	}
	p := config.CleanPath(filepath.ToSlash(arg))
	if !config.InProject(p) {
		return "", errors.NewFileError("path is outside the project", arg, errors.InvalidPath, nil)
	}
	return p, nil
}
