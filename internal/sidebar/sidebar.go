// Package sidebar persists per-sidebar UI state (open/closed, width) in an
// injected key-value store. Storage is best-effort: every failure is logged
// and swallowed so the UI never crashes over it.
package sidebar

import (
	"encoding/json"

	"github.com/rs/zerolog/log"
)

// Sidebar identifiers.
const (
	MainSidebar   = "main-sidebar"
	AIChatSidebar = "ai-chat-sidebar"
)

// IDs lists every known sidebar identifier.
var IDs = []string{MainSidebar, AIChatSidebar}

// KV is the persistence backend.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// State is an arbitrary JSON-serializable state object.
type State map[string]any

// States holds the parsed state of each known sidebar; nil when absent or
// unparsable.
type States struct {
	MainSidebar   State
	AIChatSidebar State
}

// Key returns the namespaced storage key for a sidebar identifier.
func Key(id string) string {
	return "sidebar-" + id
}

// Store reads and writes sidebar state.
type Store struct {
	kv KV
}

// New wraps kv. A nil kv yields a store where every read misses and every
// write is dropped.
func New(kv KV) *Store {
	return &Store{kv: kv}
}

// ResetAll removes every known sidebar key.
func (s *Store) ResetAll() {
	if s == nil || s.kv == nil {
		return
	}
	for _, id := range IDs {
		if err := s.kv.Delete(Key(id)); err != nil {
			log.Warn().Err(err).Str("sidebar", id).Msg("failed to reset sidebar state")
		}
	}
	log.Info().Msg("sidebar state reset")
}

// States returns the stored state of every known sidebar.
func (s *Store) States() States {
	return States{
		MainSidebar:   s.Get(MainSidebar),
		AIChatSidebar: s.Get(AIChatSidebar),
	}
}

// Get returns the stored state for id, or nil.
func (s *Store) Get(id string) State {
	if s == nil || s.kv == nil {
		return nil
	}
	raw, ok, err := s.kv.Get(Key(id))
	if err != nil {
		log.Warn().Err(err).Str("sidebar", id).Msg("failed to read sidebar state")
		return nil
	}
	if !ok {
		return nil
	}
	var st State
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		log.Warn().Err(err).Str("sidebar", id).Msg("discarding unparsable sidebar state")
		return nil
	}
	return st
}

// Set serializes state and writes it under id's key.
func (s *Store) Set(id string, state any) {
	if s == nil || s.kv == nil {
		return
	}
	data, err := json.Marshal(state)
	if err != nil {
		log.Warn().Err(err).Str("sidebar", id).Msg("failed to encode sidebar state")
		return
	}
	if err := s.kv.Set(Key(id), string(data)); err != nil {
		log.Warn().Err(err).Str("sidebar", id).Msg("failed to save sidebar state")
	}
}
