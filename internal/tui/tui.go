// Package tui is the reader: navigation sidebar, lesson content, AI chat
// sidebar and a drag-to-open terminal panel.
package tui

import (
	"context"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog/log"

	"github.com/xonecas/mimir/internal/chatproxy"
	"github.com/xonecas/mimir/internal/content"
	"github.com/xonecas/mimir/internal/highlight"
	"github.com/xonecas/mimir/internal/layout"
	"github.com/xonecas/mimir/internal/panel"
	"github.com/xonecas/mimir/internal/shell"
	"github.com/xonecas/mimir/internal/sidebar"
)

// Terminal cells are converted to layout pixels with a fixed cell size.
const (
	CellWidth  = 8
	CellHeight = 16
)

const (
	headerRows      = 1
	footerRows      = 1
	maxTermLines    = 500
	wheelStep       = 3
	defaultChatOpen = false
	defaultNavOpen  = true
)

type focus int

const (
	focusContent focus = iota
	focusChat
	focusTerminal
)

// Options wires the model to its collaborators. Every field except Site is
// optional.
type Options struct {
	Site      *content.Site
	Store     *sidebar.Store
	Chat      *chatproxy.Client
	ChatModel string
	Shell     *shell.Session
	Theme     string
}

// workspace is the mutable state shared by every copy of Model.
type workspace struct {
	elements *layout.Elements
	coord    *layout.Coordinator
	geometry layout.Geometry
	unsub    func()

	nav      *panel.Resizer
	chat     *panel.Resizer
	terminal *panel.Terminal

	// Wrapped page lines, rebuilt when the page or main width changes.
	pageLines []string
	pageKey   [2]int
}

// Model is the application model.
type Model struct {
	width  int
	height int
	ws     *workspace
	styles Styles
	hl     *highlight.Highlighter
	focus  focus

	navOpen  bool
	chatOpen bool

	site   *content.Site
	page   int
	scroll int

	store *sidebar.Store

	client       *chatproxy.Client
	chatModel    string
	chatInput    textinput.Model
	conversation []chatproxy.Message
	chatLines    []chatLine
	chatPending  bool

	sh        *shell.Session
	termInput textinput.Model
	termLines []string
	termBusy  bool

	ctx    context.Context
	cancel context.CancelFunc
}

type chatLine struct {
	role string // "user", "assistant" or "error"
	text string
}

// New creates the model, restoring persisted sidebar state.
func New(opts Options) Model {
	hl := highlight.New(opts.Theme)

	chatInput := textinput.New()
	chatInput.Placeholder = "Ask the tutor..."
	chatInput.Prompt = "> "

	termInput := textinput.New()
	termInput.Placeholder = "command"
	termInput.Prompt = "$ "

	ctx, cancel := context.WithCancel(context.Background())

	m := Model{
		hl:        hl,
		styles:    NewStyles(hl.Palette()),
		site:      opts.Site,
		store:     opts.Store,
		client:    opts.Chat,
		chatModel: opts.ChatModel,
		chatInput: chatInput,
		sh:        opts.Shell,
		termInput: termInput,
		ctx:       ctx,
		cancel:    cancel,
	}
	m.ws = newWorkspace()
	m.restore()
	return m
}

func newWorkspace() *workspace {
	ws := &workspace{
		elements: layout.NewElements(),
		nav:      panel.NewResizer(panel.GrowRight, layout.DefaultPanelWidth),
		chat:     panel.NewResizer(panel.GrowLeft, layout.DefaultPanelWidth),
		terminal: panel.NewTerminal(0),
		pageKey:  [2]int{-1, -1},
	}
	ws.coord = layout.NewCoordinator(ws.elements, layout.ElementID(sidebar.MainSidebar), layout.ElementID(sidebar.AIChatSidebar))
	ws.geometry = ws.coord.Geometry()
	ws.unsub = ws.coord.Subscribe(func(g layout.Geometry) {
		if g.MainContentWidth != ws.geometry.MainContentWidth {
			ws.pageKey = [2]int{-1, -1}
		}
		ws.geometry = g
		log.Debug().Interface("vars", g.Vars()).Msg("layout changed")
	})
	return ws
}

// restore applies persisted sidebar state, falling back to defaults for
// anything missing or malformed.
func (m *Model) restore() {
	m.navOpen, m.chatOpen = defaultNavOpen, defaultChatOpen
	m.ws.nav.SetWidth(layout.DefaultPanelWidth)
	m.ws.chat.SetWidth(layout.DefaultPanelWidth)

	states := m.store.States()
	if ps, ok := sidebar.Decode(states.MainSidebar); ok {
		m.navOpen = ps.Open
		if ps.Width > 0 {
			m.ws.nav.SetWidth(ps.Width)
		}
	}
	if ps, ok := sidebar.Decode(states.AIChatSidebar); ok {
		m.chatOpen = ps.Open
		if ps.Width > 0 {
			m.ws.chat.SetWidth(ps.Width)
		}
	}
	m.mountPanels()
}

// mountPanels reports both sidebars' sizes to the element registry. A
// closed sidebar stays mounted at zero width.
func (m *Model) mountPanels() {
	h := m.height * CellHeight
	navW, chatW := 0, 0
	if m.navOpen {
		navW = m.ws.nav.Width()
	}
	if m.chatOpen {
		chatW = m.ws.chat.Width()
	}
	m.ws.elements.Resize(layout.ElementID(sidebar.MainSidebar), layout.Size{Width: navW, Height: h})
	m.ws.elements.Resize(layout.ElementID(sidebar.AIChatSidebar), layout.Size{Width: chatW, Height: h})
}

// persist writes one sidebar's state.
func (m *Model) persist(id string) {
	switch id {
	case sidebar.MainSidebar:
		m.store.Set(id, sidebar.PanelState{Open: m.navOpen, Width: m.ws.nav.Width()}.State())
	case sidebar.AIChatSidebar:
		m.store.Set(id, sidebar.PanelState{Open: m.chatOpen, Width: m.ws.chat.Width()}.State())
	}
}

// Init initializes the TUI.
func (m Model) Init() tea.Cmd {
	return nil
}

// Close releases the layout watches. Safe to call more than once.
func (m Model) Close() {
	if m.cancel != nil {
		m.cancel()
	}
	m.ws.unsub()
	m.ws.coord.Close()
}

// Geometry returns the current layout snapshot in pixels.
func (m Model) Geometry() layout.Geometry {
	return m.ws.geometry
}
