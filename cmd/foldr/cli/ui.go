// Package cli holds the terminal output helpers shared by foldr commands.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
)

// ColorTheme represents a set of colors for the CLI. A nil color prints
// plain text.
type ColorTheme struct {
	Name       string
	Success    *color.Color
	Error      *color.Color
	Warning    *color.Color
	Info       *color.Color
	Header     *color.Color
	BoxOutline *color.Color
}

var (
	DefaultTheme = ColorTheme{
		Name:       "default",
		Success:    color.New(color.FgGreen),
		Error:      color.New(color.FgRed),
		Warning:    color.New(color.FgYellow),
		Info:       color.New(color.FgBlue),
		Header:     color.New(color.FgCyan, color.Bold),
		BoxOutline: color.New(color.FgCyan),
	}

	// PlainTheme is used when output is not a terminal.
	PlainTheme = ColorTheme{Name: "plain"}
)

// Printer writes themed messages to a stream.
type Printer struct {
	w     io.Writer
	theme ColorTheme
}

// NewPrinter returns a printer for w, colored only when w is a terminal.
func NewPrinter(w io.Writer) *Printer {
	theme := PlainTheme
	if IsTerminal(w) {
		theme = DefaultTheme
	}
	return &Printer{w: w, theme: theme}
}

// IsTerminal reports whether v is a file attached to a terminal.
func IsTerminal(v interface{}) bool {
	file, ok := v.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func paint(c *color.Color, msg string) string {
	if c == nil {
		return msg
	}
	return c.Sprint(msg)
}

// PrintSuccess prints a success message
func (p *Printer) PrintSuccess(message string) {
	fmt.Fprintln(p.w, paint(p.theme.Success, "✓ "+message))
}

// PrintError prints an error message
func (p *Printer) PrintError(message string) {
	fmt.Fprintln(p.w, paint(p.theme.Error, "✗ "+message))
}

// PrintWarning prints a warning message
func (p *Printer) PrintWarning(message string) {
	fmt.Fprintln(p.w, paint(p.theme.Warning, "! "+message))
}

// PrintInfo prints an informational message
func (p *Printer) PrintInfo(message string) {
	fmt.Fprintln(p.w, paint(p.theme.Info, "ℹ "+message))
}

// PrintHeader prints a section header
func (p *Printer) PrintHeader(message string) {
	fmt.Fprintln(p.w, "\n"+paint(p.theme.Header, message))
	fmt.Fprintln(p.w, strings.Repeat("─", lipgloss.Width(message)))
}

// PrintBox prints content inside a box
func (p *Printer) PrintBox(content string) {
	fmt.Fprintln(p.w, DrawBox(content, p.theme.BoxOutline))
}

// PrintTable renders rows under headers as a table.
func (p *Printer) PrintTable(headers []string, rows [][]string) {
	fmt.Fprintln(p.w, RenderTable(headers, rows))
}

// DrawBox creates a box around content, outlined in c when it is not nil
func DrawBox(content string, c *color.Color) string {
	lines := strings.Split(content, "\n")
	maxLen := 0
	for _, line := range lines {
		if w := lipgloss.Width(line); w > maxLen {
			maxLen = w
		}
	}

	edge := func(s string) string { return paint(c, s) }

	var sb strings.Builder
	sb.WriteString(edge("┌"+strings.Repeat("─", maxLen+2)+"┐") + "\n")
	for _, line := range lines {
		sb.WriteString(edge("│") + " " + line + strings.Repeat(" ", maxLen-lipgloss.Width(line)) + " " + edge("│") + "\n")
	}
	sb.WriteString(edge("└" + strings.Repeat("─", maxLen+2) + "┘"))
	return sb.String()
}

// RenderTable renders a rounded table with left-aligned columns.
func RenderTable(headers []string, rows [][]string) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       text.AlignLeft,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}
