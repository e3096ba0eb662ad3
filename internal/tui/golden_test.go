package tui

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/exp/golden"

	"github.com/xonecas/mimir/internal/content"
)

func TestLayout(t *testing.T) {
	site := &content.Site{Name: "golden", Pages: []content.Page{
		content.Parse("intro", "# Intro\n\nHello terminal."),
		content.Parse("next", "# Next\n\nMore."),
	}}

	tests := []struct {
		name  string
		keys  []tea.KeyPressMsg
		width int
	}{
		{"80x12", nil, 80},
		{"80x12-nav-closed", []tea.KeyPressMsg{ctrl('b')}, 80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(Options{Site: site})
			t.Cleanup(m.Close)
			m, _ = update(m, tea.WindowSizeMsg{Width: tt.width, Height: 12})
			for _, k := range tt.keys {
				m, _ = update(m, k)
			}
			golden.RequireEqual(t, []byte(ansi.Strip(m.renderContent())))
		})
	}
}
