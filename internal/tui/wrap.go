package tui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/xonecas/mimir/internal/highlight"
)

// wrapANSI word-wraps an ANSI-styled line to width. Every resulting line
// re-opens the styles active at its start and closes them at its end, so
// lines can be rendered independently and padding never inherits color.
func wrapANSI(s string, width int) []string {
	if width <= 0 || s == "" {
		return []string{s}
	}
	wrapped := ansi.Hardwrap(ansi.Wordwrap(s, width, ""), width, true)
	lines := strings.Split(wrapped, "\n")
	if len(lines) <= 1 {
		return lines
	}
	var active []string
	for i, line := range lines {
		if i > 0 && len(active) > 0 {
			lines[i] = strings.Join(active, "") + line
		}
		active = highlight.ScanSGR(line, active)
		if i < len(lines)-1 && len(active) > 0 {
			lines[i] += ansi.ResetStyle
		}
	}
	return lines
}

// fit truncates or pads line to exactly width cells.
func fit(line string, width int, pad func(string) string) string {
	if width <= 0 {
		return ""
	}
	lw := ansi.StringWidth(line)
	if lw > width {
		line = ansi.Truncate(line, width, "")
		lw = ansi.StringWidth(line)
	}
	if lw < width {
		line += pad(strings.Repeat(" ", width-lw))
	}
	return line
}
