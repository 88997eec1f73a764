package cli

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
)

// Highlight colors source with the chroma lexer registered under language.
// Unknown languages are returned unchanged.
func Highlight(source, language string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		return source
	}
	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return source
	}

	style := styles.Get("catppuccin-mocha")
	var result strings.Builder
	for token := iterator(); token != chroma.EOF; token = iterator() {
		entry := style.Get(token.Type)
		if !entry.Colour.IsSet() {
			result.WriteString(token.Value)
			continue
		}
		styled := lipgloss.NewStyle().Foreground(lipgloss.Color(entry.Colour.String()))
		if entry.Bold == chroma.Yes {
			styled = styled.Bold(true)
		}
		// Render per line so styles never span a newline.
		lines := strings.Split(token.Value, "\n")
		for i, line := range lines {
			if i > 0 {
				result.WriteString("\n")
			}
			if line != "" {
				result.WriteString(styled.Render(line))
			}
		}
	}
	return result.String()
}

// PrintDiff prints a unified-style diff, highlighted on a terminal.
func (p *Printer) PrintDiff(diff string) {
	if p.theme.Name != PlainTheme.Name {
		diff = Highlight(diff, "diff")
	}
	fmt.Fprint(p.w, diff)
}
