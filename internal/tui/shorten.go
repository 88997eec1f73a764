package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const ellipsis = "..."

// ShortenPath fits p into width cells by replacing middle segments with
// ".../". The first and last segments are always kept, so the result can
// still be wider than width.
func ShortenPath(p string, width int) string {
	if p == "" || lipgloss.Width(p) <= width {
		return p
	}
	parts := strings.Split(p, "/")
	if len(parts) < 3 {
		return p
	}

	for keep := len(parts) - 2; keep >= 1; keep-- {
		candidate := parts[0] + "/" + ellipsis + "/" + strings.Join(parts[len(parts)-keep:], "/")
		if lipgloss.Width(candidate) <= width || keep == 1 {
			return candidate
		}
	}
	return p
}
