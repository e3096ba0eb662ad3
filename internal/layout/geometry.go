// Package layout derives the page geometry from the live widths of the two
// side panels and publishes it to whatever renders the shell.
//
// All values are in abstract pixels. Hosts that measure in other units
// (terminal cells) convert at their boundary.
package layout

import "strconv"

const (
	// DefaultPanelWidth is used for a panel whose element is not mounted.
	DefaultPanelWidth = 260
	// MinMainContentWidth is the floor for the main content region.
	MinMainContentWidth = 300
	// ChatGutter separates the main content from the chat panel.
	ChatGutter = 16
)

// Geometry is one immutable snapshot of the page layout. It is recomputed,
// never mutated in place.
type Geometry struct {
	ViewportWidth    int
	ViewportHeight   int
	SidebarWidth     int
	ChatPanelWidth   int
	MainContentWidth int
	MainContentLeft  int
	TerminalHeight   int
	TerminalLeft     int
	TerminalRight    int
}

// Compute derives a Geometry from the viewport and the measured panel sizes.
func Compute(viewportW, viewportH, sidebarW, chatW, terminalH int) Geometry {
	return Geometry{
		ViewportWidth:    viewportW,
		ViewportHeight:   viewportH,
		SidebarWidth:     sidebarW,
		ChatPanelWidth:   chatW,
		MainContentWidth: max(MinMainContentWidth, viewportW-sidebarW-(chatW+ChatGutter)),
		MainContentLeft:  sidebarW,
		TerminalHeight:   terminalH,
		TerminalLeft:     sidebarW,
		TerminalRight:    chatW + ChatGutter,
	}
}

// Vars renders the geometry as the shared style variables consumed by
// fixed overlays.
func (g Geometry) Vars() map[string]string {
	return map[string]string{
		"--sidebar-width":      px(g.SidebarWidth),
		"--chat-panel-width":   px(g.ChatPanelWidth),
		"--main-content-width": px(g.MainContentWidth),
		"--main-content-left":  px(g.MainContentLeft),
		"--terminal-height":    px(g.TerminalHeight),
		"--terminal-left":      px(g.TerminalLeft),
		"--terminal-right":     px(g.TerminalRight),
	}
}

func px(n int) string { return strconv.Itoa(n) + "px" }
