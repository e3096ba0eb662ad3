package panel

const (
	MinPanelWidth = 180
	MaxPanelWidth = 520
)

// Direction is the pointer direction that grows a side panel.
type Direction int

const (
	GrowRight Direction = 1
	GrowLeft  Direction = -1
)

// Resizer drags a side panel's width between MinPanelWidth and
// MaxPanelWidth.
type Resizer struct {
	dir        Direction
	width      int
	dragging   bool
	startX     int
	startWidth int
}

// NewResizer returns a resizer holding width, clamped to bounds.
func NewResizer(dir Direction, width int) *Resizer {
	return &Resizer{dir: dir, width: clamp(width, MinPanelWidth, MaxPanelWidth)}
}

func (r *Resizer) Width() int     { return r.width }
func (r *Resizer) Dragging() bool { return r.dragging }

// SetWidth replaces the width outside of a drag, e.g. from persisted state.
func (r *Resizer) SetWidth(w int) {
	r.width = clamp(w, MinPanelWidth, MaxPanelWidth)
}

func (r *Resizer) Press(x int) {
	r.dragging = true
	r.startX = x
	r.startWidth = r.width
}

func (r *Resizer) Move(x int) {
	if !r.dragging {
		return
	}
	r.width = clamp(r.startWidth+int(r.dir)*(x-r.startX), MinPanelWidth, MaxPanelWidth)
}

// Release ends the drag and reports whether the width changed.
func (r *Resizer) Release() bool {
	if !r.dragging {
		return false
	}
	r.dragging = false
	return r.width != r.startWidth
}
