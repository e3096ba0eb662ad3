package layout

// ElementID names an observed element (a panel) in the host.
type ElementID string

// Size is the measured box of an element.
type Size struct {
	Width  int
	Height int
}

// ElementSizeWatcher reports size changes of host elements. Measure returns
// false when the element is not currently mounted.
type ElementSizeWatcher interface {
	Watch(id ElementID, fn func(Size)) (unwatch func())
	Measure(id ElementID) (Size, bool)
}

// Elements is an in-process ElementSizeWatcher: the host mounts elements and
// reports their sizes, and watchers are notified after each change. Not safe
// for concurrent use; it lives on the UI event loop.
type Elements struct {
	sizes    map[ElementID]Size
	watchers map[ElementID]map[int]func(Size)
	nextID   int
}

// NewElements returns an empty registry.
func NewElements() *Elements {
	return &Elements{
		sizes:    make(map[ElementID]Size),
		watchers: make(map[ElementID]map[int]func(Size)),
	}
}

// Mount registers an element with its initial size and notifies watchers.
func (e *Elements) Mount(id ElementID, s Size) {
	e.sizes[id] = s
	e.notify(id, s)
}

// Resize records a new size. Unchanged sizes are dropped so repeated host
// reports do not fan out.
func (e *Elements) Resize(id ElementID, s Size) {
	if cur, ok := e.sizes[id]; ok && cur == s {
		return
	}
	e.sizes[id] = s
	e.notify(id, s)
}

// Remove unmounts an element. Watchers receive a zero Size; Measure reports
// the element as absent from then on.
func (e *Elements) Remove(id ElementID) {
	if _, ok := e.sizes[id]; !ok {
		return
	}
	delete(e.sizes, id)
	e.notify(id, Size{})
}

// Measure implements ElementSizeWatcher.
func (e *Elements) Measure(id ElementID) (Size, bool) {
	s, ok := e.sizes[id]
	return s, ok
}

// Watch implements ElementSizeWatcher.
func (e *Elements) Watch(id ElementID, fn func(Size)) func() {
	e.nextID++
	key := e.nextID
	if e.watchers[id] == nil {
		e.watchers[id] = make(map[int]func(Size))
	}
	e.watchers[id][key] = fn
	return func() {
		delete(e.watchers[id], key)
		if len(e.watchers[id]) == 0 {
			delete(e.watchers, id)
		}
	}
}

// Watching reports how many watchers are registered for id.
func (e *Elements) Watching(id ElementID) int {
	return len(e.watchers[id])
}

func (e *Elements) notify(id ElementID, s Size) {
	for _, fn := range e.watchers[id] {
		fn(s)
	}
}
