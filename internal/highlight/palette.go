package highlight

import (
	"fmt"

	"github.com/alecthomas/chroma/v2"
)

// Palette holds the chrome colors derived from a theme. Grays are
// interpolated from background to foreground.
type Palette struct {
	Bg     string
	Fg     string
	Border string // dividers and drag handles
	Dim    string // footer, hints
	Muted  string // inactive nav entries
	Accent string // most saturated token color
	Error  string
}

var fallbackPalette = Palette{
	Bg: "#000000", Fg: "#c8c8c8",
	Border: "#141414", Dim: "#323232", Muted: "#5a5a5a",
	Accent: "#00dfff", Error: "#932e2e",
}

func paletteFor(sty *chroma.Style) Palette {
	if sty == nil {
		return fallbackPalette
	}
	entry := sty.Get(chroma.Background)
	bg, fg := fallbackPalette.Bg, fallbackPalette.Fg
	if entry.Background.IsSet() {
		bg = entry.Background.String()
	}
	if entry.Colour.IsSet() {
		fg = entry.Colour.String()
	}
	errColor := lerp(bg, fg, 0.45)
	if e := sty.Get(chroma.Error); e.Colour.IsSet() {
		errColor = lerp(bg, e.Colour.String(), 0.45)
	}
	return Palette{
		Bg:     bg,
		Fg:     fg,
		Border: lerp(bg, fg, 0.15),
		Dim:    lerp(bg, fg, 0.30),
		Muted:  lerp(bg, fg, 0.50),
		Accent: accent(sty, fg),
		Error:  errColor,
	}
}

func accent(sty *chroma.Style, fallback string) string {
	best, bestSat := fallback, 0.0
	for _, tt := range []chroma.TokenType{
		chroma.Keyword, chroma.NameFunction, chroma.NameTag,
		chroma.LiteralString, chroma.GenericHeading, chroma.NameBuiltin,
	} {
		e := sty.Get(tt)
		if !e.Colour.IsSet() {
			continue
		}
		r, g, b, ok := parseHex(e.Colour.String())
		if !ok {
			continue
		}
		hi, lo := max(r, g, b), min(r, g, b)
		if hi == 0 {
			continue
		}
		if sat := float64(hi-lo) / float64(hi); sat > bestSat {
			best, bestSat = e.Colour.String(), sat
		}
	}
	return best
}

func lerp(a, b string, t float64) string {
	ar, ag, ab, _ := parseHex(a)
	br, bg, bb, _ := parseHex(b)
	mix := func(x, y int) int {
		return min(255, max(0, int(float64(x)+float64(y-x)*t+0.5)))
	}
	return fmt.Sprintf("#%02x%02x%02x", mix(ar, br), mix(ag, bg), mix(ab, bb))
}
