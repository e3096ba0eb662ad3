package store

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/xonecas/mimir/internal/sidebar"
)

func openTestKV(t *testing.T) *KV {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestKV_SetGet(t *testing.T) {
	s := openTestKV(t)

	// Miss on empty.
	if _, ok, err := s.Get("sidebar-main-sidebar"); ok || err != nil {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	if err := s.Set("sidebar-main-sidebar", `{"open":true}`); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok, err := s.Get("sidebar-main-sidebar")
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if got != `{"open":true}` {
		t.Errorf("got %q", got)
	}

	// Overwrite.
	if err := s.Set("sidebar-main-sidebar", `{"open":false}`); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, _, _ = s.Get("sidebar-main-sidebar")
	if got != `{"open":false}` {
		t.Errorf("after overwrite got %q", got)
	}
}

func TestKV_Delete(t *testing.T) {
	s := openTestKV(t)
	s.Set("a", "1")
	s.Set("b", "2")

	if err := s.Delete("a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete("missing"); err != nil {
		t.Fatalf("Delete missing: %v", err)
	}
	if _, ok, _ := s.Get("a"); ok {
		t.Error("a should be gone")
	}
	if keys := s.Keys(); !reflect.DeepEqual(keys, []string{"b"}) {
		t.Errorf("Keys() = %v", keys)
	}
}

func TestKV_Persists(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "state.db")
	s, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	s.Set("k", "v")
	s.Close()

	s, err = Open(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	if v, ok, _ := s.Get("k"); !ok || v != "v" {
		t.Errorf("after reopen got %q, %v", v, ok)
	}
}

func TestKV_NilReceiver(t *testing.T) {
	var s *KV
	if _, ok, err := s.Get("k"); ok || err != nil {
		t.Error("nil Get should miss")
	}
	if err := s.Set("k", "v"); err != nil {
		t.Error("nil Set should be a no-op")
	}
	if err := s.Delete("k"); err != nil {
		t.Error("nil Delete should be a no-op")
	}
	if s.Keys() != nil {
		t.Error("nil Keys should be empty")
	}
	if err := s.Close(); err != nil {
		t.Error("nil Close should be a no-op")
	}
}

func TestKV_BacksSidebarStore(t *testing.T) {
	s := openTestKV(t)
	states := sidebar.New(s)

	states.Set(sidebar.MainSidebar, sidebar.PanelState{Open: true, Width: 250})
	states.Set(sidebar.AIChatSidebar, sidebar.PanelState{Open: false})

	if keys := s.Keys(); !reflect.DeepEqual(keys, []string{"sidebar-ai-chat-sidebar", "sidebar-main-sidebar"}) {
		t.Errorf("Keys() = %v", keys)
	}
	ps, ok := sidebar.Decode(states.States().MainSidebar)
	if !ok || ps.Width != 250 || !ps.Open {
		t.Errorf("main sidebar = %+v, %v", ps, ok)
	}

	states.ResetAll()
	if keys := s.Keys(); len(keys) != 0 {
		t.Errorf("Keys() after reset = %v", keys)
	}
}
