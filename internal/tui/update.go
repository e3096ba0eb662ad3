package tui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog/log"

	"github.com/xonecas/mimir/internal/chatproxy"
)

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	// -- Window resize -------------------------------------------------------
	case tea.WindowSizeMsg:
		m.handleResize(msg)
		return m, nil

	// -- Mouse ---------------------------------------------------------------
	case tea.MouseMsg:
		return m.handleMouse(msg)

	// -- Keyboard ------------------------------------------------------------
	case tea.KeyPressMsg:
		if mdl, cmd, handled := m.handleKeyPress(msg); handled {
			return mdl, cmd
		}

	// -- Chat ----------------------------------------------------------------
	case chatReplyMsg:
		m.handleChatReply(msg)
		return m, nil

	// -- Terminal ------------------------------------------------------------
	case shellResultMsg:
		m.handleShellResult(msg)
		return m, nil
	}

	// Forward everything else to the focused input.
	var cmd tea.Cmd
	switch m.focus {
	case focusChat:
		m.chatInput, cmd = m.chatInput.Update(msg)
	case focusTerminal:
		m.termInput, cmd = m.termInput.Update(msg)
	}
	return m, cmd
}

// handleResize applies a window size change and re-derives layout.
func (m *Model) handleResize(msg tea.WindowSizeMsg) {
	m.width, m.height = msg.Width, msg.Height
	vw, vh := pixelX(m.width), pixelY(m.height)
	m.ws.terminal.SetViewportHeight(vh)
	m.mountPanels()
	m.ws.coord.SetViewport(vw, vh)
	m.syncTerminal()
	m.updateComponentSizes()
}

// syncTerminal publishes the terminal panel's height to the coordinator.
func (m *Model) syncTerminal() {
	m.ws.coord.SetTerminalHeight(m.ws.terminal.VisibleHeight())
	if !m.ws.terminal.IsOpen() && m.focus == focusTerminal {
		m.setFocus(focusContent)
	}
}

// updateComponentSizes pushes layout dimensions to the inputs.
func (m *Model) updateComponentSizes() {
	s := m.screen()
	m.chatInput.SetWidth(max(1, s.chat.Dx()-1-len(m.chatInput.Prompt)))
	m.termInput.SetWidth(max(1, s.terminal.Dx()-len(m.termInput.Prompt)))
}

func (m Model) screen() screen {
	return buildScreen(m.width, m.height, m.ws.geometry, m.ws.terminal.VisibleHeight())
}

func (m *Model) setFocus(f focus) {
	m.focus = f
	m.chatInput.Blur()
	m.termInput.Blur()
	switch f {
	case focusChat:
		m.chatInput.Focus()
	case focusTerminal:
		m.termInput.Focus()
	}
}

// submitChat records the user's message and sends the conversation.
func (m *Model) submitChat() tea.Cmd {
	text := strings.TrimSpace(m.chatInput.Value())
	if text == "" || m.chatPending {
		return nil
	}
	m.chatInput.Reset()
	m.conversation = append(m.conversation, chatproxy.Message{Role: "user", Content: text})
	m.chatLines = append(m.chatLines, chatLine{role: "user", text: text})
	m.chatPending = true
	return m.sendChat()
}

func (m *Model) handleChatReply(msg chatReplyMsg) {
	m.chatPending = false
	if msg.err != nil {
		log.Warn().Err(msg.err).Msg("chat request failed")
		m.chatLines = append(m.chatLines, chatLine{role: "error", text: chatErrorText(msg.err)})
		return
	}
	m.conversation = append(m.conversation, chatproxy.Message{Role: "assistant", Content: msg.reply})
	m.chatLines = append(m.chatLines, chatLine{role: "assistant", text: msg.reply})
}

// submitCommand runs the terminal input line.
func (m *Model) submitCommand() tea.Cmd {
	command := strings.TrimSpace(m.termInput.Value())
	if command == "" || m.termBusy {
		return nil
	}
	m.termInput.Reset()
	m.termBusy = true
	m.appendTerminal("$ " + command)
	return m.runShell(command)
}

func (m *Model) handleShellResult(msg shellResultMsg) {
	m.termBusy = false
	out := strings.TrimRight(msg.res.Output, "\n")
	if out != "" {
		m.appendTerminal(strings.Split(out, "\n")...)
	}
	if msg.res.ExitCode != 0 {
		m.appendTerminal(fmt.Sprintf("[exit %d]", msg.res.ExitCode))
	}
}

func (m *Model) appendTerminal(lines ...string) {
	m.termLines = append(m.termLines, lines...)
	if over := len(m.termLines) - maxTermLines; over > 0 {
		m.termLines = append(m.termLines[:0], m.termLines[over:]...)
	}
}
