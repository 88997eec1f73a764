// Package organize moves asset folders into target folders, asking the user
// before anything risky happens.
package organize

import (
	"context"
	"path"
	"strings"
	"time"

	"foldr/internal/config"
	"foldr/internal/errors"
	"foldr/internal/log"
	"foldr/internal/patch"
	"foldr/internal/scan"

	"github.com/google/uuid"
)

// summaryLimit caps the hardcoded-path lines shown in a dialog.
const summaryLimit = 10

// State is a step of a move.
type State int

const (
	Idle State = iota
	ConfirmPending
	ScriptWarningPending
	ConflictPending
	Executing
	Done
)

var stateNames = map[State]string{
	Idle:                 "idle",
	ConfirmPending:       "confirm-pending",
	ScriptWarningPending: "script-warning-pending",
	ConflictPending:      "conflict-pending",
	Executing:            "executing",
	Done:                 "done",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Outcome is how a move ended.
type Outcome int

const (
	None Outcome = iota
	Moved
	Merged
	Renamed
	Cancelled
)

var outcomeNames = map[Outcome]string{
	None:      "none",
	Moved:     "moved",
	Merged:    "merged",
	Renamed:   "renamed",
	Cancelled: "cancelled",
}

func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return "unknown"
}

// Result describes a finished or abandoned move. State is the last state
// reached, so a cancelled move reports the dialog it was cancelled in.
type Result struct {
	OperationID string
	State       State
	Outcome     Outcome
	Source      string
	Destination string
	Patched     int
	Merge       MergeStats
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithFileSystem replaces the on-disk file system.
func WithFileSystem(fs FileSystem) Option {
	return func(o *Orchestrator) { o.fs = fs }
}

// WithClock sets the source of history timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// Orchestrator runs the move workflow for one project: confirm, warn about
// scripts, resolve name conflicts, move, then record.
type Orchestrator struct {
	root   string
	fs     FileSystem
	store  ConfigStore
	prompt Prompter
	host   Host
	tr     Translator
	now    func() time.Time
}

// New returns an orchestrator for the project at root.
func New(root string, store ConfigStore, prompt Prompter, host Host, tr Translator, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		root:   root,
		fs:     NewOSFileSystem(root),
		store:  store,
		prompt: prompt,
		host:   host,
		tr:     tr,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// move is the state carried through one run.
type move struct {
	*Result
	target string
	name   string
	merge  bool
	logger *log.Logger
}

// Move moves the folder source into the folder target, so that it ends up
// at target/base(source). Invalid arguments are rejected before any dialog
// is shown. Declining any dialog cancels the move without side effects.
func (o *Orchestrator) Move(ctx context.Context, source, target string) (*Result, error) {
	source, target = config.CleanPath(source), config.CleanPath(target)
	name := path.Base(source)

	m := &move{
		Result: &Result{
			OperationID: uuid.NewString(),
			State:       Idle,
			Source:      source,
			Destination: path.Join(target, name),
		},
		target: target,
		name:   name,
	}
	m.logger = log.LogWithFields(
		log.F("op", m.OperationID),
		log.F("source", source),
		log.F("target", target),
	)

	if err := o.validate(source, target); err != nil {
		m.logger.With(log.F("error", err)).Debug("Move rejected")
		return m.Result, err
	}

	steps := []func(context.Context, *move) (bool, error){
		o.confirm,
		o.checkScripts,
		o.resolveConflict,
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return m.Result, err
		}
		proceed, err := step(ctx, m)
		if err != nil {
			return m.Result, err
		}
		if !proceed {
			m.Outcome = Cancelled
			m.logger.With(log.F("state", m.State.String())).Info("Move cancelled")
			return m.Result, nil
		}
	}

	if err := ctx.Err(); err != nil {
		return m.Result, err
	}
	if err := o.execute(m); err != nil {
		return m.Result, err
	}
	return m.Result, o.record(m)
}

func (o *Orchestrator) validate(source, target string) error {
	if !config.InProject(source) {
		return errors.NewFileError("source is outside the project", source, errors.InvalidPath, nil)
	}
	if !config.InProject(target) {
		return errors.NewFileError("target is outside the project", target, errors.InvalidPath, nil)
	}
	if !o.fs.IsDir(source) {
		return errors.NewFileError("source is not a folder", source, errors.InvalidPath, nil)
	}
	if !o.fs.IsDir(target) {
		return errors.NewFileError("target folder does not exist", target, errors.TargetNotFound, nil)
	}
	if target == source || strings.HasPrefix(target, source+"/") {
		return errors.NewFileError("cannot move a folder into itself", target, errors.InvalidPath, nil)
	}
	if path.Dir(source) == target {
		return errors.NewFileError("folder is already in the target", source, errors.InvalidPath, nil)
	}
	return nil
}

func (o *Orchestrator) confirm(_ context.Context, m *move) (bool, error) {
	if !o.store.Config().Settings.ConfirmBeforeMove {
		return true, nil
	}
	m.State = ConfirmPending

	choice, err := o.prompt.Choose(Dialog{
		Title:   o.tr.Get("app_title"),
		Message: o.tr.Get("confirm_move", m.name, m.Destination),
		Options: []string{o.tr.Get("move"), o.tr.Get("cancel"), o.tr.Get("move_and_dont_ask")},
	})
	if err != nil {
		return false, err
	}

	switch choice {
	case ChoicePrimary:
		return true, nil
	case ChoiceAlternate:
		if err := o.store.Update(func(c *config.Config) error {
			c.Settings.ConfirmBeforeMove = false
			return nil
		}); err != nil {
			return false, errors.Wrap(err, "failed to save settings")
		}
		m.logger.Info("Move confirmation turned off")
		return true, nil
	default:
		return false, nil
	}
}

func (o *Orchestrator) checkScripts(_ context.Context, m *move) (bool, error) {
	settings := o.store.Config().Settings

	scanner, err := scan.New(o.root, settings.ScriptPatterns)
	if err != nil {
		return false, err
	}
	res, err := scanner.Folder(m.Source)
	if err != nil {
		return false, err
	}

	switch {
	case res.HasMatches() && settings.ShowPatchDialog:
		m.State = ScriptWarningPending
		choice, err := o.prompt.Choose(Dialog{
			Title:   o.tr.Get("hardcoded_paths_title"),
			Message: o.tr.Get("hardcoded_paths", res.Summary(summaryLimit)),
			Options: []string{o.tr.Get("patch_and_move"), o.tr.Get("cancel"), o.tr.Get("move_anyway")},
		})
		if err != nil {
			return false, err
		}
		switch choice {
		case ChoicePrimary:
			return true, o.patch(m, settings.ScriptPatterns)
		case ChoiceAlternate:
			return true, nil
		default:
			return false, nil
		}

	case res.HasScripts() && settings.ShowScriptWarnings:
		m.State = ScriptWarningPending
		choice, err := o.prompt.Choose(Dialog{
			Title:   o.tr.Get("script_warning_title"),
			Message: o.tr.Get("script_warning"),
			Options: []string{o.tr.Get("move_anyway"), o.tr.Get("cancel")},
		})
		if err != nil {
			return false, err
		}
		return choice == ChoicePrimary, nil
	}
	return true, nil
}

// patch rewrites the scripts to point at the planned destination.
func (o *Orchestrator) patch(m *move, patterns []string) error {
	p, err := patch.New(o.root, patterns)
	if err != nil {
		return err
	}
	n, err := p.Apply(m.Source, m.Destination)
	if err != nil {
		return errors.Wrap(err, "failed to patch scripts")
	}
	m.Patched = n
	m.logger.With(log.F("files", n)).Info("Patched hardcoded paths")
	return o.prompt.Alert(o.tr.Get("patch_complete_title"), o.tr.Get("patch_complete", n))
}

func (o *Orchestrator) resolveConflict(_ context.Context, m *move) (bool, error) {
	if !o.fs.Exists(m.Destination) {
		return true, nil
	}
	m.State = ConflictPending

	choice, err := o.prompt.Choose(Dialog{
		Title:   o.tr.Get("duplicate_folder_title"),
		Message: o.tr.Get("duplicate_folder", m.name),
		Options: []string{o.tr.Get("merge"), o.tr.Get("cancel"), o.tr.Get("rename")},
	})
	if err != nil {
		return false, err
	}

	switch choice {
	case ChoicePrimary:
		m.merge = true
		return true, nil
	case ChoiceAlternate:
		return o.askName(m)
	default:
		return false, nil
	}
}

// askName prompts until the user gives a folder name that is free in the
// target, or gives up.
func (o *Orchestrator) askName(m *move) (bool, error) {
	for {
		value, ok, err := o.prompt.Input(o.tr.Get("rename_title"), o.tr.Get("rename_prompt", m.name), m.name)
		if err != nil {
			return false, err
		}
		value = strings.TrimSpace(value)
		if !ok || value == "" {
			return false, nil
		}

		if !validFolderName(value) {
			if err := o.prompt.Alert(o.tr.Get("app_title"), o.tr.Get("invalid_folder_name", value)); err != nil {
				return false, err
			}
			continue
		}

		candidate := path.Join(m.target, value)
		if o.fs.Exists(candidate) {
			if err := o.prompt.Alert(o.tr.Get("app_title"), o.tr.Get("folder_exists", value)); err != nil {
				return false, err
			}
			continue
		}

		m.Destination = candidate
		return true, nil
	}
}

func validFolderName(name string) bool {
	return name != "." && name != ".." && !strings.ContainsAny(name, `/\`)
}

func (o *Orchestrator) execute(m *move) error {
	m.State = Executing
	m.logger = m.logger.With(log.F("destination", m.Destination))

	var err error
	switch {
	case m.merge:
		m.Merge, err = o.fs.Merge(m.Source, m.Destination)
		m.Outcome = Merged
	case m.Destination != path.Join(m.target, m.name):
		err = o.fs.Move(m.Source, m.Destination)
		m.Outcome = Renamed
	default:
		err = o.fs.Move(m.Source, m.Destination)
		m.Outcome = Moved
	}
	if err == nil {
		return nil
	}

	m.Outcome = None
	m.logger.With(log.F("error", err)).Error("Move failed")
	if alertErr := o.prompt.Alert(o.tr.Get("move_failed_title"), o.tr.Get("move_failed", err.Error())); alertErr != nil {
		m.logger.With(log.F("error", alertErr)).Warn("Failed to report move failure")
	}
	return errors.NewFileError("failed to move folder", m.Source, errors.FileOperationFailed, err)
}

// record logs the move in history and recents and hands the new location to
// the host.
func (o *Orchestrator) record(m *move) error {
	m.State = Done
	m.logger.With(log.F("outcome", m.Outcome.String())).Info("Folder moved")

	err := o.store.Update(func(c *config.Config) error {
		c.AppendHistory(config.HistoryEntry{
			Action:    config.ActionMove,
			Path:      m.Source,
			Extra:     m.Destination,
			Timestamp: o.now().Format(config.TimestampLayout),
		})
		c.PushRecent(m.target)
		return nil
	})

	o.host.Refresh()
	if o.store.Config().Settings.JumpToNewFolder {
		dest := m.Destination
		o.host.DelayCall(func() { o.host.Select(dest) })
	}

	if err != nil {
		m.logger.With(log.F("error", err)).Warn("Failed to record move")
		return errors.Wrap(err, "folder moved but history was not saved")
	}
	return nil
}
