package layout

// Coordinator keeps a Geometry in sync with the measured widths of the
// sidebar and the chat panel and hands each new snapshot to subscribers.
type Coordinator struct {
	watcher   ElementSizeWatcher
	sidebarID ElementID
	chatID    ElementID

	viewportW int
	viewportH int
	terminalH int

	geometry Geometry
	unwatch  []func()
	subs     map[int]func(Geometry)
	nextSub  int
	closed   bool
}

// NewCoordinator starts observing both panels and computes the initial
// geometry.
func NewCoordinator(w ElementSizeWatcher, sidebarID, chatID ElementID) *Coordinator {
	c := &Coordinator{
		watcher:   w,
		sidebarID: sidebarID,
		chatID:    chatID,
		subs:      make(map[int]func(Geometry)),
	}
	onResize := func(Size) { c.Recompute() }
	c.unwatch = append(c.unwatch,
		w.Watch(sidebarID, onResize),
		w.Watch(chatID, onResize),
	)
	c.geometry = c.compute()
	return c
}

// Geometry returns the current snapshot.
func (c *Coordinator) Geometry() Geometry {
	return c.geometry
}

// SetViewport is the window-resize hook.
func (c *Coordinator) SetViewport(width, height int) {
	c.viewportW, c.viewportH = width, height
	c.Recompute()
}

// SetTerminalHeight publishes the bottom panel's current height.
func (c *Coordinator) SetTerminalHeight(h int) {
	c.terminalH = h
	c.Recompute()
}

// Recompute re-measures both panels. Safe to call redundantly: subscribers
// only hear about geometry that actually changed.
func (c *Coordinator) Recompute() {
	if c.closed {
		return
	}
	g := c.compute()
	if g == c.geometry {
		return
	}
	c.geometry = g
	for _, fn := range c.subs {
		fn(g)
	}
}

// Subscribe registers fn for future geometry changes.
func (c *Coordinator) Subscribe(fn func(Geometry)) (cancel func()) {
	c.nextSub++
	key := c.nextSub
	c.subs[key] = fn
	return func() { delete(c.subs, key) }
}

// Close deregisters every watch and subscriber.
func (c *Coordinator) Close() {
	if c.closed {
		return
	}
	c.closed = true
	for _, u := range c.unwatch {
		u()
	}
	c.unwatch = nil
	clear(c.subs)
}

func (c *Coordinator) compute() Geometry {
	return Compute(c.viewportW, c.viewportH, c.width(c.sidebarID), c.width(c.chatID), c.terminalH)
}

// width measures a panel, falling back to DefaultPanelWidth when its element
// is absent.
func (c *Coordinator) width(id ElementID) int {
	s, ok := c.watcher.Measure(id)
	if !ok {
		return DefaultPanelWidth
	}
	return s.Width
}
