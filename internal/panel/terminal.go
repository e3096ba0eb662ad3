// Package panel implements press-drag-release resizing for the bottom
// terminal panel and the side panels.
package panel

const (
	MinTerminalHeight     = 120
	MaxTerminalHeight     = 600
	DefaultTerminalHeight = 360

	HeaderHeight = 64
	FooterHeight = 36
	Margin       = 32

	// OpenThreshold is how far a footer drag must travel before the panel
	// opens, and how far above MinTerminalHeight a release must land to
	// stay open.
	OpenThreshold = 20
)

// State of the terminal panel.
type State int

const (
	Closed State = iota
	Opening
	Open
	Resizing
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Opening:
		return "opening"
	case Open:
		return "open"
	case Resizing:
		return "resizing"
	}
	return "unknown"
}

// Origin is where a drag session started.
type Origin int

const (
	FromFooter Origin = iota
	FromEdge
)

// DragSession lives from press to release.
type DragSession struct {
	Origin      Origin
	StartY      int
	StartHeight int
}

// UpperBound is the tallest the panel may be for a viewport height.
func UpperBound(viewportH int) int {
	return min(MaxTerminalHeight, viewportH-HeaderHeight-FooterHeight-Margin)
}

// Terminal is the bottom panel controller.
type Terminal struct {
	state     State
	height    int
	viewportH int
	drag      *DragSession
}

// NewTerminal returns a closed panel with the default height.
func NewTerminal(viewportH int) *Terminal {
	return &Terminal{state: Closed, height: DefaultTerminalHeight, viewportH: viewportH}
}

func (t *Terminal) State() State { return t.state }

// Height is the current panel height. For a closed panel it is the height
// the panel will reopen at.
func (t *Terminal) Height() int { return t.height }

// IsOpen reports whether the panel is visible.
func (t *Terminal) IsOpen() bool { return t.state != Closed }

// VisibleHeight is Height for an open panel and 0 otherwise.
func (t *Terminal) VisibleHeight() int {
	if !t.IsOpen() {
		return 0
	}
	return t.height
}

// Dragging reports whether a drag session is active. Hosts forward pointer
// move and release events only while this is true.
func (t *Terminal) Dragging() bool { return t.drag != nil }

// upper is UpperBound for the current viewport, never below
// MinTerminalHeight so edge clamping keeps a valid range.
func (t *Terminal) upper() int {
	return max(UpperBound(t.viewportH), MinTerminalHeight)
}

// PressFooter starts a drag from the footer affordance. The panel height is
// measured from zero. Ignored while open.
func (t *Terminal) PressFooter(y int) {
	if t.drag != nil || t.state != Closed {
		return
	}
	t.drag = &DragSession{Origin: FromFooter, StartY: y}
}

// PressEdge starts a drag from the panel's top edge. Ignored while closed.
func (t *Terminal) PressEdge(y int) {
	if t.drag != nil || t.state != Open {
		return
	}
	t.drag = &DragSession{Origin: FromEdge, StartY: y, StartHeight: t.height}
	t.state = Resizing
}

// Move applies the pointer position to an active session.
func (t *Terminal) Move(y int) {
	if t.drag == nil {
		return
	}
	delta := t.drag.StartY - y
	switch t.drag.Origin {
	case FromFooter:
		t.height = clamp(delta, 0, min(MaxTerminalHeight, UpperBound(t.viewportH)))
		if delta > OpenThreshold {
			t.state = Opening
		}
	case FromEdge:
		t.height = clamp(t.drag.StartHeight+delta, MinTerminalHeight, t.upper())
	}
}

// Release ends the session, snapping closed when the panel ended up too
// short to be useful.
func (t *Terminal) Release() {
	if t.drag == nil {
		return
	}
	origin := t.drag.Origin
	t.drag = nil

	if t.state == Closed {
		// A footer drag that never crossed the threshold.
		if origin == FromFooter {
			t.height = DefaultTerminalHeight
		}
		return
	}
	if t.height < MinTerminalHeight+OpenThreshold {
		t.state = Closed
		t.height = DefaultTerminalHeight
		return
	}
	t.state = Open
}

// Toggle opens the panel at its remembered height or closes it.
func (t *Terminal) Toggle() {
	if t.drag != nil {
		return
	}
	if t.state == Closed {
		t.state = Open
		t.height = clamp(t.height, MinTerminalHeight, t.upper())
		return
	}
	t.state = Closed
}

// SetViewportHeight recomputes bounds and re-clamps an open panel.
func (t *Terminal) SetViewportHeight(h int) {
	t.viewportH = h
	if t.state == Open {
		t.height = clamp(t.height, MinTerminalHeight, t.upper())
	}
}

func clamp(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
