package tui

import (
	"context"
	"errors"

	tea "charm.land/bubbletea/v2"

	"github.com/xonecas/mimir/internal/chatproxy"
	"github.com/xonecas/mimir/internal/shell"
)

type chatReplyMsg struct {
	reply string
	err   error
}

type shellResultMsg struct{ res shell.Result }

var errNoProxy = errors.New("chat proxy is not configured")

// sendChat posts the whole conversation to the proxy.
func (m Model) sendChat() tea.Cmd {
	client, model := m.client, m.chatModel
	history := append([]chatproxy.Message(nil), m.conversation...)
	ctx := m.ctx
	return func() tea.Msg {
		if client == nil {
			return chatReplyMsg{err: errNoProxy}
		}
		reply, err := client.Send(ctx, model, history)
		return chatReplyMsg{reply: reply, err: err}
	}
}

// runShell executes one terminal command.
func (m Model) runShell(command string) tea.Cmd {
	sh := m.sh
	ctx := m.ctx
	return func() tea.Msg {
		if sh == nil {
			return shellResultMsg{res: shell.Result{Command: command, Output: "terminal unavailable\n", ExitCode: 1}}
		}
		return shellResultMsg{res: sh.Run(ctx, command)}
	}
}

func chatErrorText(err error) string {
	var se *chatproxy.StatusError
	if errors.As(err, &se) {
		return se.Error()
	}
	if errors.Is(err, context.Canceled) {
		return "request cancelled"
	}
	return err.Error()
}
