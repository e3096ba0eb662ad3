package tui

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

// navListOffset is the number of nav rows above the page list.
const navListOffset = 2

// ---------------------------------------------------------------------------
// View
// ---------------------------------------------------------------------------

func (m Model) View() tea.View {
	v := tea.NewView(m.renderContent())
	v.AltScreen = true
	v.MouseMode = tea.MouseModeAllMotion
	return v
}

// renderContent produces the string content for the view.
func (m Model) renderContent() string {
	if m.width == 0 || m.height <= headerRows+footerRows {
		return ""
	}
	s := m.screen()
	bg := m.pad

	navLines := m.navLines(s.nav.Dx() - 1)
	page := m.pageLines()
	chat := m.renderChat(s.chat.Dx()-1, s.chat.Dy())
	term := m.terminalLines(s.terminal.Dx(), s.terminal.Dy())

	var b strings.Builder
	b.WriteString(m.renderHeader(s.header.Dx()))
	b.WriteByte('\n')
	for y := s.header.Max.Y; y < s.footer.Min.Y; y++ {
		row := y - s.header.Max.Y
		if s.nav.Dx() > 0 {
			b.WriteString(fit(lineAt(navLines, row), s.nav.Dx()-1, bg))
			b.WriteString(m.divider(m.ws.nav.Dragging()))
		}
		switch {
		case y < s.main.Max.Y:
			b.WriteString(fit(lineAt(page, m.scroll+row), s.main.Dx(), bg))
		case y == s.termEdge.Min.Y:
			b.WriteString(m.renderTermEdge(s.termEdge.Dx()))
		default:
			b.WriteString(fit(lineAt(term, y-s.terminal.Min.Y), s.terminal.Dx(), bg))
		}
		b.WriteString(bg(strings.Repeat(" ", s.gutter.Dx())))
		if s.chat.Dx() > 0 {
			b.WriteString(m.divider(m.ws.chat.Dragging()))
			b.WriteString(fit(lineAt(chat, row), s.chat.Dx()-1, bg))
		}
		b.WriteByte('\n')
	}
	b.WriteString(m.renderFooter(s))
	return b.String()
}

// pad renders filler in the background color.
func (m Model) pad(s string) string {
	return m.styles.BgFill.Render(s)
}

func lineAt(lines []string, i int) string {
	if i < 0 || i >= len(lines) {
		return ""
	}
	return lines[i]
}

func (m Model) divider(hot bool) string {
	if hot {
		return m.styles.HandleHot.Render("┃")
	}
	return m.styles.Border.Render("│")
}

func (m Model) renderHeader(width int) string {
	title := " mimir"
	if m.site != nil {
		title += " · " + m.site.Name
		if m.page < len(m.site.Pages) {
			title += " · " + m.site.Pages[m.page].Title
		}
	}
	hints := "^b nav  ^l chat  ^j terminal "
	left := m.styles.Header.Render(title)
	right := m.styles.Dim.Render(hints)
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return fit(left, width, m.pad)
	}
	return left + m.styles.BgFill.Render(strings.Repeat(" ", gap)) + right
}

// renderFooter draws the footer row with the terminal drag handle centred
// under the main region.
func (m Model) renderFooter(s screen) string {
	bg := m.pad
	style := m.styles.Handle
	if m.ws.terminal.Dragging() {
		style = m.styles.HandleHot
	}
	label := "━━━━  terminal  ━━━━"
	if m.ws.terminal.IsOpen() {
		label = "━━━━━━━━━━━━━━━━━━━━"
	}
	w := s.handle.Dx()
	handle := bg(strings.Repeat(" ", w))
	if lw := ansi.StringWidth(label); lw <= w {
		pad := (w - lw) / 2
		handle = bg(strings.Repeat(" ", pad)) + style.Render(label) + bg(strings.Repeat(" ", w-pad-lw))
	}
	return bg(strings.Repeat(" ", s.handle.Min.X)) + handle + bg(strings.Repeat(" ", s.footer.Dx()-s.handle.Max.X))
}

func (m Model) renderTermEdge(width int) string {
	style := m.styles.Border
	if m.ws.terminal.Dragging() {
		style = m.styles.HandleHot
	}
	label := " terminal "
	if m.sh != nil {
		label = " " + m.sh.Dir() + " "
	}
	line := "──" + label
	if n := width - ansi.StringWidth(line); n > 0 {
		line += strings.Repeat("─", n)
	}
	return style.Render(ansi.Truncate(line, width, ""))
}

// navLines lists the site's pages with the current page highlighted.
func (m Model) navLines(width int) []string {
	if width <= 0 || m.site == nil {
		return nil
	}
	lines := []string{m.styles.Header.Render(ansi.Truncate(" "+m.site.Name, width, "…")), ""}
	for i, p := range m.site.Pages {
		entry := ansi.Truncate(" "+p.Title, width, "…")
		switch {
		case i == m.page:
			entry = m.styles.Selected.Render(ansi.Truncate("›"+p.Title, width, "…"))
		default:
			entry = m.styles.Muted.Render(entry)
		}
		lines = append(lines, entry)
	}
	return lines
}

// pageLines returns the current page highlighted and wrapped to the main
// region, cached per page and width.
func (m Model) pageLines() []string {
	if m.site == nil || m.page >= len(m.site.Pages) {
		return nil
	}
	width := max(1, m.screen().main.Dx()-2)
	key := [2]int{m.page, width}
	if m.ws.pageKey == key {
		return m.ws.pageLines
	}
	var lines []string
	for i, block := range m.site.Pages[m.page].Blocks {
		if i > 0 {
			lines = append(lines, "")
		}
		for _, l := range m.hl.Lines(block.Text, block.Lang) {
			for _, w := range wrapANSI(l, width) {
				lines = append(lines, " "+w)
			}
		}
	}
	m.ws.pageLines, m.ws.pageKey = lines, key
	return lines
}

// renderChat renders the conversation bottom-aligned above the input line.
func (m Model) renderChat(width, height int) []string {
	if width <= 0 || height <= 0 {
		return nil
	}
	var entries []string
	for _, cl := range m.chatLines {
		style, prefix := m.styles.Text, ""
		switch cl.role {
		case "user":
			style, prefix = m.styles.Accent, "you: "
		case "error":
			style = m.styles.Error
		}
		for _, w := range strings.Split(ansi.Wordwrap(prefix+cl.text, width, ""), "\n") {
			entries = append(entries, style.Render(w))
		}
		entries = append(entries, "")
	}
	if m.chatPending {
		entries = append(entries, m.styles.Dim.Render("thinking…"))
	}
	return bottomAlign(entries, m.chatInput.View(), height)
}

// terminalLines renders the output tail above the command line.
func (m Model) terminalLines(width, height int) []string {
	if width <= 0 || height <= 0 {
		return nil
	}
	var out []string
	for _, l := range m.termLines {
		out = append(out, m.styles.Text.Render(ansi.Truncate(l, width, "")))
	}
	input := m.termInput.View()
	if m.termBusy {
		input = m.styles.Dim.Render("running…")
	}
	return bottomAlign(out, input, height)
}

// bottomAlign keeps the last height-1 lines of log above input.
func bottomAlign(log []string, input string, height int) []string {
	keep := height - 1
	if len(log) > keep {
		log = log[len(log)-keep:]
	}
	lines := make([]string, 0, height)
	for range keep - len(log) {
		lines = append(lines, "")
	}
	lines = append(lines, log...)
	return append(lines, input)
}
