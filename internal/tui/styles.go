package tui

import (
	"charm.land/lipgloss/v2"

	"github.com/xonecas/mimir/internal/highlight"
)

// Styles are the lipgloss styles for the chrome, derived from the syntax
// theme so the content and the frame agree.
type Styles struct {
	BgFill    lipgloss.Style
	Text      lipgloss.Style
	Dim       lipgloss.Style
	Muted     lipgloss.Style
	Accent    lipgloss.Style
	Error     lipgloss.Style
	Border    lipgloss.Style
	Selected  lipgloss.Style
	Header    lipgloss.Style
	Handle    lipgloss.Style
	HandleHot lipgloss.Style
}

// NewStyles builds Styles from a palette.
func NewStyles(p highlight.Palette) Styles {
	bg := lipgloss.Color(p.Bg)
	base := lipgloss.NewStyle().Background(bg)
	return Styles{
		BgFill:    base,
		Text:      base.Foreground(lipgloss.Color(p.Fg)),
		Dim:       base.Foreground(lipgloss.Color(p.Dim)),
		Muted:     base.Foreground(lipgloss.Color(p.Muted)),
		Accent:    base.Foreground(lipgloss.Color(p.Accent)),
		Error:     base.Foreground(lipgloss.Color(p.Error)),
		Border:    base.Foreground(lipgloss.Color(p.Border)),
		Selected:  base.Foreground(lipgloss.Color(p.Accent)).Bold(true),
		Header:    base.Foreground(lipgloss.Color(p.Fg)).Bold(true),
		Handle:    base.Foreground(lipgloss.Color(p.Dim)),
		HandleHot: base.Foreground(lipgloss.Color(p.Accent)),
	}
}
