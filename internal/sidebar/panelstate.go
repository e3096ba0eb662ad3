package sidebar

import (
	"encoding/json"
	"sync"
)

// PanelState is the shape the TUI stores for each sidebar.
type PanelState struct {
	Open  bool `json:"open"`
	Width int  `json:"width,omitempty"`
}

// Decode reads a PanelState out of a stored State. ok is false for a nil
// state or one that does not fit the shape.
func Decode(st State) (PanelState, bool) {
	if st == nil {
		return PanelState{}, false
	}
	data, err := json.Marshal(st)
	if err != nil {
		return PanelState{}, false
	}
	var ps PanelState
	if err := json.Unmarshal(data, &ps); err != nil {
		return PanelState{}, false
	}
	return ps, true
}

// MemoryKV is a KV held in memory.
type MemoryKV struct {
	mu   sync.Mutex
	data map[string]string
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string]string)}
}

func (m *MemoryKV) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryKV) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemoryKV) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// State converts p into the generic form Set stores.
func (p PanelState) State() State {
	st := State{"open": p.Open}
	if p.Width > 0 {
		st["width"] = p.Width
	}
	return st
}
