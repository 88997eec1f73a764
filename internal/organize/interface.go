package organize

import (
	"context"

	"foldr/internal/config"
)

// Dialog buttons are always ordered primary action, Cancel, alternate action.
const (
	ChoiceDismissed = -1
	ChoicePrimary   = 0
	ChoiceCancel    = 1
	ChoiceAlternate = 2
)

// Dialog is a modal choice between Options.
type Dialog struct {
	Title   string
	Message string
	Options []string
}

// Prompter asks the user things on behalf of the orchestrator.
type Prompter interface {
	// Choose shows d and returns the index of the picked option, or
	// ChoiceDismissed if the dialog was closed without a choice.
	Choose(d Dialog) (int, error)

	// Input asks for a line of text. ok is false when the user cancelled.
	Input(title, prompt, initial string) (value string, ok bool, err error)

	// Alert shows a message with a single OK button.
	Alert(title, message string) error
}

// Host is the surrounding application.
type Host interface {
	// Refresh tells the host that the project tree changed.
	Refresh()
	// DelayCall runs fn on the host's next idle tick.
	DelayCall(fn func())
	// Select highlights a project path.
	Select(p string)
}

// Translator looks up UI strings.
type Translator interface {
	Get(key string, args ...interface{}) string
}

// ConfigStore is the persisted configuration the orchestrator reads toggles
// from and records history in.
type ConfigStore interface {
	Config() *config.Config
	Update(fn func(*config.Config) error) error
}

// Mover moves a folder into a target folder.
// This allows for dependency injection in the UI and its tests.
type Mover interface {
	Move(ctx context.Context, source, target string) (*Result, error)
}

// Ensure Orchestrator implements the Mover interface
var _ Mover = (*Orchestrator)(nil)
