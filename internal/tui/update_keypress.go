package tui

import (
	tea "charm.land/bubbletea/v2"

	"github.com/xonecas/mimir/internal/sidebar"
)

// handleKeyPress processes key events. Returns (model, cmd, true) if handled.
func (m *Model) handleKeyPress(msg tea.KeyPressMsg) (Model, tea.Cmd, bool) {
	handler := m.keyPressHandlers()[msg.Keystroke()]
	if handler == nil {
		return Model{}, nil, false
	}
	return handler(m)
}

func (m *Model) keyPressHandlers() map[string]func(*Model) (Model, tea.Cmd, bool) {
	return map[string]func(*Model) (Model, tea.Cmd, bool){
		"ctrl+c":       (*Model).handleCtrlC,
		"tab":          (*Model).handleTab,
		"ctrl+b":       (*Model).handleToggleNav,
		"ctrl+l":       (*Model).handleToggleChat,
		"ctrl+j":       (*Model).handleToggleTerminal,
		"ctrl+shift+r": (*Model).handleReset,
		"enter":        (*Model).handleEnter,
		"up":           (*Model).handleUp,
		"down":         (*Model).handleDown,
		"pgup":         (*Model).handlePgUp,
		"pgdown":       (*Model).handlePgDown,
	}
}

func (m *Model) handleCtrlC() (Model, tea.Cmd, bool) {
	m.cancel()
	return *m, tea.Quit, true
}

// handleTab cycles focus through the visible regions.
func (m *Model) handleTab() (Model, tea.Cmd, bool) {
	order := []focus{focusContent}
	if m.chatOpen {
		order = append(order, focusChat)
	}
	if m.ws.terminal.IsOpen() {
		order = append(order, focusTerminal)
	}
	next := order[0]
	for i, f := range order {
		if f == m.focus {
			next = order[(i+1)%len(order)]
			break
		}
	}
	m.setFocus(next)
	return *m, nil, true
}

func (m *Model) handleToggleNav() (Model, tea.Cmd, bool) {
	m.navOpen = !m.navOpen
	m.mountPanels()
	m.persist(sidebar.MainSidebar)
	m.updateComponentSizes()
	return *m, nil, true
}

func (m *Model) handleToggleChat() (Model, tea.Cmd, bool) {
	m.chatOpen = !m.chatOpen
	m.mountPanels()
	m.persist(sidebar.AIChatSidebar)
	if m.chatOpen {
		m.setFocus(focusChat)
	} else if m.focus == focusChat {
		m.setFocus(focusContent)
	}
	m.updateComponentSizes()
	return *m, nil, true
}

func (m *Model) handleToggleTerminal() (Model, tea.Cmd, bool) {
	m.ws.terminal.Toggle()
	m.syncTerminal()
	if m.ws.terminal.IsOpen() {
		m.setFocus(focusTerminal)
	}
	m.updateComponentSizes()
	return *m, nil, true
}

// handleReset forgets every persisted sidebar state and reloads the layout
// from defaults.
func (m *Model) handleReset() (Model, tea.Cmd, bool) {
	m.store.ResetAll()
	m.restore()
	if m.focus == focusChat && !m.chatOpen {
		m.setFocus(focusContent)
	}
	m.updateComponentSizes()
	return *m, nil, true
}

func (m *Model) handleEnter() (Model, tea.Cmd, bool) {
	switch m.focus {
	case focusChat:
		return *m, m.submitChat(), true
	case focusTerminal:
		return *m, m.submitCommand(), true
	}
	return Model{}, nil, false
}

func (m *Model) handleUp() (Model, tea.Cmd, bool) {
	if m.focus != focusContent {
		return Model{}, nil, false
	}
	m.selectPage(m.page - 1)
	return *m, nil, true
}

func (m *Model) handleDown() (Model, tea.Cmd, bool) {
	if m.focus != focusContent {
		return Model{}, nil, false
	}
	m.selectPage(m.page + 1)
	return *m, nil, true
}

func (m *Model) handlePgUp() (Model, tea.Cmd, bool) {
	m.scrollContent(-max(1, m.screen().main.Dy()-1))
	return *m, nil, true
}

func (m *Model) handlePgDown() (Model, tea.Cmd, bool) {
	m.scrollContent(max(1, m.screen().main.Dy()-1))
	return *m, nil, true
}

// selectPage switches to page i when it exists.
func (m *Model) selectPage(i int) {
	if m.site == nil || i < 0 || i >= len(m.site.Pages) || i == m.page {
		return
	}
	m.page = i
	m.scroll = 0
}

func (m *Model) scrollContent(delta int) {
	maxScroll := max(0, len(m.pageLines())-m.screen().main.Dy())
	m.scroll = min(max(m.scroll+delta, 0), maxScroll)
}
