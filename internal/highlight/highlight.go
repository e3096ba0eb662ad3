// Package highlight colors page source and code fences with Chroma.
package highlight

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Highlighter renders text with one Chroma theme.
type Highlighter struct {
	style   *chroma.Style
	bgSeq   string
	palette Palette
}

// New returns a Highlighter for theme; unknown themes fall back to Chroma's
// default style.
func New(theme string) *Highlighter {
	sty := styles.Get(theme)
	p := paletteFor(sty)
	return &Highlighter{
		style:   sty,
		bgSeq:   bgSequence(p.Bg),
		palette: p,
	}
}

// Palette returns the UI colors derived from the theme.
func (h *Highlighter) Palette() Palette {
	return h.palette
}

// Lines highlights text as language and splits it into independently
// renderable lines. Unknown languages come back unstyled.
func (h *Highlighter) Lines(text, language string) []string {
	lex := lexers.Get(language)
	if lex == nil {
		return strings.Split(text, "\n")
	}
	it, err := chroma.Coalesce(lex).Tokenise(nil, text)
	if err != nil {
		return strings.Split(text, "\n")
	}
	fmtr := formatters.Get("terminal16m")
	if fmtr == nil {
		fmtr = formatters.Fallback
	}
	var buf strings.Builder
	if err := fmtr.Format(&buf, h.style, it); err != nil {
		return strings.Split(text, "\n")
	}
	raw := strings.TrimRight(buf.String(), "\n")
	// Every reset also clears the background; put it back.
	raw = h.bgSeq + strings.ReplaceAll(raw, "\x1b[0m", "\x1b[0m"+h.bgSeq)
	return carrySGR(strings.Split(raw, "\n"))
}

// carrySGR prefixes each line with the SGR state left open by the lines
// above it.
func carrySGR(lines []string) []string {
	var active []string
	for i, line := range lines {
		if i > 0 && len(active) > 0 {
			lines[i] = strings.Join(active, "") + line
		}
		active = ScanSGR(line, active)
	}
	return lines
}

// ScanSGR updates the active SGR sequences with those found in line. A
// reset clears the list.
func ScanSGR(line string, active []string) []string {
	for j := 0; j < len(line); j++ {
		if line[j] != '\x1b' || j+1 >= len(line) || line[j+1] != '[' {
			continue
		}
		k := j + 2
		for k < len(line) && line[k] != 'm' && line[k] != '\x1b' {
			k++
		}
		if k >= len(line) || line[k] != 'm' {
			continue
		}
		if params := line[j+2 : k]; params == "" || params == "0" {
			active = active[:0]
		} else {
			active = append(active, line[j:k+1])
		}
		j = k
	}
	return active
}

func bgSequence(hex string) string {
	r, g, b, ok := parseHex(hex)
	if !ok {
		return ""
	}
	return fmt.Sprintf("\x1b[48;2;%d;%d;%dm", r, g, b)
}

func parseHex(hex string) (r, g, b int, ok bool) {
	if len(hex) != 7 || hex[0] != '#' {
		return 0, 0, 0, false
	}
	if _, err := fmt.Sscanf(hex[1:], "%02x%02x%02x", &r, &g, &b); err != nil {
		return 0, 0, 0, false
	}
	return r, g, b, true
}
