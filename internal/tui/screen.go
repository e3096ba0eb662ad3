package tui

import (
	"image"

	"github.com/xonecas/mimir/internal/layout"
)

// screen holds the cell rectangles of every region for one frame.
type screen struct {
	header   image.Rectangle
	nav      image.Rectangle // includes navDiv as its last column
	navDiv   image.Rectangle
	main     image.Rectangle // above the terminal
	gutter   image.Rectangle
	chatDiv  image.Rectangle
	chat     image.Rectangle // includes chatDiv as its first column
	termEdge image.Rectangle
	terminal image.Rectangle // below termEdge
	footer   image.Rectangle
	handle   image.Rectangle
}

func inRect(x, y int, r image.Rectangle) bool {
	return image.Pt(x, y).In(r)
}

// toCells converts a pixel length to whole cells.
func toCells(px, cell int) int {
	if px <= 0 {
		return 0
	}
	return px / cell
}

// buildScreen maps the pixel geometry onto a width x height cell grid.
// termPx is the terminal panel's visible height.
func buildScreen(width, height int, g layout.Geometry, termPx int) screen {
	var s screen
	if width <= 0 || height <= headerRows+footerRows {
		return s
	}
	top, bottom := headerRows, height-footerRows

	navW := min(toCells(g.SidebarWidth, CellWidth), width)
	rightW := min(toCells(g.TerminalRight, CellWidth), width-navW)
	chatW := min(toCells(g.ChatPanelWidth, CellWidth), rightW)
	// Cells lost to rounding go to the gutter; a main width floored above
	// what fits is clipped.
	mainW := max(0, min(toCells(g.MainContentWidth, CellWidth), width-navW-rightW))
	rightX := navW + mainW

	s.header = image.Rect(0, 0, width, top)
	s.footer = image.Rect(0, bottom, width, height)
	s.handle = image.Rect(navW, bottom, rightX, height)

	if navW > 0 {
		s.nav = image.Rect(0, top, navW, bottom)
		s.navDiv = image.Rect(navW-1, top, navW, bottom)
	}
	s.gutter = image.Rect(rightX, top, width-chatW, bottom)
	if chatW > 0 {
		s.chat = image.Rect(width-chatW, top, width, bottom)
		s.chatDiv = image.Rect(width-chatW, top, width-chatW+1, bottom)
	}

	termRows := min(toCells(termPx, CellHeight), bottom-top-1)
	mainBottom := bottom
	if termRows > 0 {
		edgeY := bottom - termRows
		s.termEdge = image.Rect(navW, edgeY, rightX, edgeY+1)
		s.terminal = image.Rect(navW, edgeY+1, rightX, bottom)
		mainBottom = edgeY
	}
	s.main = image.Rect(navW, top, rightX, mainBottom)
	return s
}

// pixelY is the pointer's vertical position in layout pixels.
func pixelY(y int) int { return y * CellHeight }

// pixelX is the pointer's horizontal position in layout pixels.
func pixelX(x int) int { return x * CellWidth }
