package tui

import (
	"io"
	"strconv"
	"strings"

	"foldr/internal/config"
	"foldr/internal/organize"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// choiceModel is a modal dialog with a row of buttons.
type choiceModel struct {
	dialog organize.Dialog
	focus  int
	choice int
}

func newChoiceModel(d organize.Dialog) *choiceModel {
	return &choiceModel{dialog: d, choice: organize.ChoiceDismissed}
}

func (m *choiceModel) Init() tea.Cmd { return nil }

func (m *choiceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	n := len(m.dialog.Options)

	switch key.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		m.choice = organize.ChoiceDismissed
		return m, tea.Quit
	case tea.KeyEnter:
		if n > 0 {
			m.choice = m.focus
		}
		return m, tea.Quit
	case tea.KeyLeft, tea.KeyShiftTab:
		if n > 0 {
			m.focus = (m.focus + n - 1) % n
		}
		return m, nil
	case tea.KeyRight, tea.KeyTab:
		if n > 0 {
			m.focus = (m.focus + 1) % n
		}
		return m, nil
	case tea.KeyRunes:
		if i, err := strconv.Atoi(string(key.Runes)); err == nil && i >= 1 && i <= n {
			m.choice = i - 1
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *choiceModel) View() string {
	var sb strings.Builder
	sb.WriteString(TitleStyle.Render(m.dialog.Title))
	sb.WriteString("\n\n")
	sb.WriteString(m.dialog.Message)
	sb.WriteString("\n\n")

	buttons := make([]string, 0, len(m.dialog.Options))
	for i, opt := range m.dialog.Options {
		label := strconv.Itoa(i+1) + ". " + opt
		if i == m.focus {
			buttons = append(buttons, ActiveButtonStyle.Render(label))
		} else {
			buttons = append(buttons, ButtonStyle.Render(label))
		}
	}
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, buttons...))
	sb.WriteString("\n\n")
	sb.WriteString(HelpStyle.Render("[←/→] Select  [Enter] Confirm  [Esc] Close"))
	return App.Render(sb.String())
}

// inputModel asks for one line of text.
type inputModel struct {
	title  string
	prompt string
	input  textinput.Model
	ok     bool
}

func newInputModel(title, prompt, initial string) *inputModel {
	ti := textinput.New()
	ti.SetValue(initial)
	ti.CursorEnd()
	ti.Focus()
	return &inputModel{title: title, prompt: prompt, input: ti}
}

func (m *inputModel) Init() tea.Cmd { return textinput.Blink }

func (m *inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEsc, tea.KeyCtrlC:
			m.ok = false
			return m, tea.Quit
		case tea.KeyEnter:
			m.ok = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *inputModel) View() string {
	var sb strings.Builder
	sb.WriteString(TitleStyle.Render(m.title))
	sb.WriteString("\n\n")
	sb.WriteString(m.prompt)
	sb.WriteString("\n")
	sb.WriteString(m.input.View())
	sb.WriteString("\n\n")
	sb.WriteString(HelpStyle.Render("[Enter] OK  [Esc] Cancel"))
	return App.Render(sb.String())
}

func (m *inputModel) value() string {
	return m.input.Value()
}

// Prompter shows orchestrator dialogs as full-screen bubbletea programs.
type Prompter struct {
	tr   organize.Translator
	opts []tea.ProgramOption
}

var _ organize.Prompter = (*Prompter)(nil)

// NewPrompter returns a prompter that reads keys from in and draws to out.
// Nil streams fall back to the terminal.
func NewPrompter(tr organize.Translator, in io.Reader, out io.Writer) *Prompter {
	return &Prompter{tr: tr, opts: programOptions(in, out)}
}

func programOptions(in io.Reader, out io.Writer) []tea.ProgramOption {
	var opts []tea.ProgramOption
	if in != nil {
		opts = append(opts, tea.WithInput(in))
	}
	if out != nil {
		opts = append(opts, tea.WithOutput(out))
	}
	return opts
}

func (p *Prompter) run(m tea.Model) (tea.Model, error) {
	return tea.NewProgram(m, p.opts...).Run()
}

// Choose implements organize.Prompter
func (p *Prompter) Choose(d organize.Dialog) (int, error) {
	final, err := p.run(newChoiceModel(d))
	if err != nil {
		return organize.ChoiceDismissed, err
	}
	return final.(*choiceModel).choice, nil
}

// Input implements organize.Prompter
func (p *Prompter) Input(title, prompt, initial string) (string, bool, error) {
	final, err := p.run(newInputModel(title, prompt, initial))
	if err != nil {
		return "", false, err
	}
	m := final.(*inputModel)
	if !m.ok {
		return "", false, nil
	}
	return m.value(), true, nil
}

// Alert implements organize.Prompter
func (p *Prompter) Alert(title, message string) error {
	_, err := p.Choose(organize.Dialog{
		Title:   title,
		Message: message,
		Options: []string{p.tr.Get("ok")},
	})
	return err
}

// Pick runs the target picker and returns the chosen target path. ok is
// false when the user cancelled.
func (p *Prompter) Pick(cfg *config.Config, source string) (string, bool, error) {
	final, err := p.run(NewPicker(cfg, source, p.tr))
	if err != nil {
		return "", false, err
	}
	target, ok := final.(*Picker).Chosen()
	return target, ok, nil
}
