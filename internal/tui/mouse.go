package tui

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/xonecas/mimir/internal/layout"
	"github.com/xonecas/mimir/internal/panel"
	"github.com/xonecas/mimir/internal/sidebar"
)

// ---------------------------------------------------------------------------
// Mouse filter: throttle high-frequency events at program level.
// ---------------------------------------------------------------------------

var lastMouseEvent time.Time

// MouseEventFilter rate-limits wheel and motion events (15 ms).
// Pass to tea.WithFilter. Never drops clicks or releases.
func MouseEventFilter(_ tea.Model, msg tea.Msg) tea.Msg {
	switch msg.(type) {
	case tea.MouseWheelMsg, tea.MouseMotionMsg:
		now := time.Now()
		if now.Sub(lastMouseEvent) < 15*time.Millisecond {
			return nil
		}
		lastMouseEvent = now
	}
	return msg
}

// ---------------------------------------------------------------------------
// Mouse handling: active drags first, then presses, then wheel.
// ---------------------------------------------------------------------------

func mouseXY(msg tea.MouseMsg) (int, int) {
	m := msg.Mouse()
	return m.X, m.Y
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	x, y := mouseXY(msg)

	// Move and release only reach a controller while its drag is active.
	// The filter may have dropped the last motions, so a release moves to
	// its own position before ending the drag.
	if m.dragging() {
		switch msg.(type) {
		case tea.MouseMotionMsg:
			m.dragMove(x, y)
		case tea.MouseReleaseMsg:
			m.dragMove(x, y)
			m.dragRelease()
		}
		return m, nil
	}

	switch ev := msg.(type) {
	case tea.MouseClickMsg:
		if ev.Button == tea.MouseLeft {
			m.handlePress(x, y)
		}
	case tea.MouseWheelMsg:
		m.handleWheel(ev, x, y)
	}
	return m, nil
}

func (m Model) dragging() bool {
	return m.ws.nav.Dragging() || m.ws.chat.Dragging() || m.ws.terminal.Dragging()
}

// handlePress starts a drag on a handle or moves focus.
func (m *Model) handlePress(x, y int) {
	s := m.screen()
	switch {
	case inRect(x, y, s.navDiv):
		m.ws.nav.Press(pixelX(x))
	case inRect(x, y, s.chatDiv):
		m.ws.chat.Press(pixelX(x))
	case inRect(x, y, s.termEdge):
		m.ws.terminal.PressEdge(pixelY(y))
	case inRect(x, y, s.handle):
		m.ws.terminal.PressFooter(pixelY(y))
	case inRect(x, y, s.nav):
		m.setFocus(focusContent)
		m.selectPage(y - s.nav.Min.Y - navListOffset)
	case inRect(x, y, s.chat):
		m.setFocus(focusChat)
	case inRect(x, y, s.terminal):
		m.setFocus(focusTerminal)
	case inRect(x, y, s.main):
		m.setFocus(focusContent)
	}
}

func (m *Model) dragMove(x, y int) {
	switch {
	case m.ws.nav.Dragging():
		m.ws.nav.Move(pixelX(x))
		m.resizePanel(sidebar.MainSidebar, m.ws.nav)
	case m.ws.chat.Dragging():
		m.ws.chat.Move(pixelX(x))
		m.resizePanel(sidebar.AIChatSidebar, m.ws.chat)
	case m.ws.terminal.Dragging():
		m.ws.terminal.Move(pixelY(y))
		m.syncTerminal()
	}
	m.updateComponentSizes()
}

func (m *Model) resizePanel(id string, r *panel.Resizer) {
	m.ws.elements.Resize(layout.ElementID(id), layout.Size{Width: r.Width(), Height: pixelY(m.height)})
}

func (m *Model) dragRelease() {
	switch {
	case m.ws.nav.Dragging():
		if m.ws.nav.Release() {
			m.persist(sidebar.MainSidebar)
		}
	case m.ws.chat.Dragging():
		if m.ws.chat.Release() {
			m.persist(sidebar.AIChatSidebar)
		}
	case m.ws.terminal.Dragging():
		m.ws.terminal.Release()
		m.syncTerminal()
		if m.ws.terminal.IsOpen() {
			m.setFocus(focusTerminal)
		}
	}
	m.updateComponentSizes()
}

func (m *Model) handleWheel(ev tea.MouseWheelMsg, x, y int) {
	if !inRect(x, y, m.screen().main) {
		return
	}
	switch ev.Button {
	case tea.MouseWheelUp:
		m.scrollContent(-wheelStep)
	case tea.MouseWheelDown:
		m.scrollContent(wheelStep)
	}
}
