// Package tui holds the terminal picker and dialogs used by foldr.
package tui

import (
	"fmt"
	"path"
	"strings"

	"foldr/internal/config"
	"foldr/internal/organize"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const defaultWidth = 80

// row is one line of the picker: a section header or a target.
type row struct {
	header string
	name   string
	path   string
}

func (r row) selectable() bool {
	return r.header == ""
}

// Picker lets the user choose a target folder for source, grouped by
// category and filtered by a search box.
type Picker struct {
	cfg    *config.Config
	source string
	tr     organize.Translator

	search textinput.Model
	rows   []row
	cursor int // index into rows; always a selectable row when any exist
	width  int

	chosen    string
	cancelled bool
}

// NewPicker builds a picker over the targets of cfg.
func NewPicker(cfg *config.Config, source string, tr organize.Translator) *Picker {
	ti := textinput.New()
	ti.Placeholder = tr.Get("search")
	ti.Prompt = tr.Get("search") + ": "
	ti.Focus()

	p := &Picker{
		cfg:    cfg,
		source: source,
		tr:     tr,
		search: ti,
		width:  defaultWidth,
	}
	p.rebuild()
	return p
}

// Init implements tea.Model
func (p *Picker) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (p *Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		return p, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEsc, tea.KeyCtrlC:
			p.cancelled = true
			return p, tea.Quit
		case tea.KeyEnter:
			if r, ok := p.current(); ok {
				p.chosen = r.path
				return p, tea.Quit
			}
			return p, nil
		case tea.KeyUp, tea.KeyCtrlP:
			p.move(-1)
			return p, nil
		case tea.KeyDown, tea.KeyCtrlN, tea.KeyTab:
			p.move(1)
			return p, nil
		}
	}

	before := p.search.Value()
	var cmd tea.Cmd
	p.search, cmd = p.search.Update(msg)
	if p.search.Value() != before {
		p.rebuild()
	}
	return p, cmd
}

// rebuild recomputes the rows for the current search and puts the cursor
// on the first target.
func (p *Picker) rebuild() {
	search := strings.TrimSpace(p.search.Value())
	p.rows = p.rows[:0]

	for _, g := range p.cfg.Group(search) {
		p.rows = append(p.rows, row{header: g.Category})
		for _, t := range g.Targets {
			p.rows = append(p.rows, row{name: t.DisplayName, path: t.Path})
		}
	}

	if p.cfg.Settings.ShowRecentTargets {
		var recent []row
		for _, r := range p.cfg.Recent {
			tf, ok := p.cfg.Target(r)
			if !ok {
				tf = config.TargetFolder{Path: r, DisplayName: path.Base(r)}
			}
			if tf.Matches(search) {
				recent = append(recent, row{name: tf.DisplayName, path: tf.Path})
			}
		}
		if len(recent) > 0 {
			p.rows = append(p.rows, row{header: p.tr.Get("recent")})
			p.rows = append(p.rows, recent...)
		}
	}

	p.cursor = -1
	p.move(1)
}

// move steps the cursor over headers in direction dir, stopping at the ends.
func (p *Picker) move(dir int) {
	for i := p.cursor + dir; i >= 0 && i < len(p.rows); i += dir {
		if p.rows[i].selectable() {
			p.cursor = i
			return
		}
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
}

func (p *Picker) current() (row, bool) {
	if p.cursor < 0 || p.cursor >= len(p.rows) || !p.rows[p.cursor].selectable() {
		return row{}, false
	}
	return p.rows[p.cursor], true
}

// View implements tea.Model
func (p *Picker) View() string {
	var sb strings.Builder

	sb.WriteString(TitleStyle.Render(p.tr.Get("move_to", path.Base(p.source))))
	sb.WriteString("\n\n")
	sb.WriteString(p.search.View())
	sb.WriteString("\n\n")

	if len(p.cfg.Targets) == 0 {
		sb.WriteString(ErrorStyle.Render(p.tr.Get("no_targets")))
		sb.WriteString("\n")
	}

	nameWidth := 0
	for _, r := range p.rows {
		if w := lipgloss.Width(r.name); w > nameWidth {
			nameWidth = w
		}
	}
	pathWidth := p.width - nameWidth - 10
	if pathWidth < 20 {
		pathWidth = 20
	}

	for i, r := range p.rows {
		if !r.selectable() {
			style := CategoryStyle
			if r.header == p.tr.Get("recent") && i > 0 {
				style = RecentStyle
			}
			sb.WriteString(style.Render(r.header))
			sb.WriteString("\n")
			continue
		}
		line := fmt.Sprintf("%-*s  %s", nameWidth, r.name, StatusStyle.Render(ShortenPath(r.path, pathWidth)))
		if i == p.cursor {
			sb.WriteString(SelectedStyle.Render("> " + line))
		} else {
			sb.WriteString("  " + line)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(HelpStyle.Render("[↑/↓] Move  [Enter] Pick  [Esc] " + p.tr.Get("cancel")))
	return App.Render(sb.String())
}

// Chosen returns the picked target path, or false if the picker was
// cancelled.
func (p *Picker) Chosen() (string, bool) {
	if p.cancelled || p.chosen == "" {
		return "", false
	}
	return p.chosen, true
}

// Cursor returns the path under the cursor.
func (p *Picker) Cursor() string {
	r, _ := p.current()
	return r.path
}

// Rows returns the visible rows as display strings, headers prefixed with
// "#".
func (p *Picker) Rows() []string {
	out := make([]string, 0, len(p.rows))
	for _, r := range p.rows {
		if r.selectable() {
			out = append(out, r.name+" "+r.path)
		} else {
			out = append(out, "# "+r.header)
		}
	}
	return out
}
