package sidebar

import (
	"errors"
	"reflect"
	"testing"
)

// failingKV fails every operation, like a browser store over quota.
type failingKV struct{}

func (failingKV) Get(string) (string, bool, error) { return "", false, errors.New("read failed") }
func (failingKV) Set(string, string) error         { return errors.New("quota exceeded") }
func (failingKV) Delete(string) error              { return errors.New("delete failed") }

func TestResetThenStatesIsEmpty(t *testing.T) {
	kv := NewMemoryKV()
	s := New(kv)
	s.Set(MainSidebar, State{"open": true})
	s.Set(AIChatSidebar, PanelState{Open: false, Width: 300})

	s.ResetAll()

	got := s.States()
	if got.MainSidebar != nil || got.AIChatSidebar != nil {
		t.Errorf("States() after reset = %+v, want both nil", got)
	}
}

func TestSetThenGet(t *testing.T) {
	s := New(NewMemoryKV())
	s.Set("main-sidebar", map[string]any{"open": true})

	got := s.States().MainSidebar
	want := State{"open": true}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MainSidebar = %#v, want %#v", got, want)
	}
	if s.States().AIChatSidebar != nil {
		t.Errorf("AIChatSidebar should be nil")
	}
}

func TestSetUsesNamespacedKeys(t *testing.T) {
	kv := NewMemoryKV()
	New(kv).Set(AIChatSidebar, PanelState{Open: true, Width: 320})

	raw, ok, _ := kv.Get("sidebar-ai-chat-sidebar")
	if !ok {
		t.Fatal("expected key sidebar-ai-chat-sidebar")
	}
	if raw != `{"open":true,"width":320}` {
		t.Errorf("stored %s", raw)
	}
}

func TestUnparsableStateIsNil(t *testing.T) {
	kv := NewMemoryKV()
	kv.Set(Key(MainSidebar), "{not json")
	kv.Set(Key(AIChatSidebar), "[1,2,3]")

	got := New(kv).States()
	if got.MainSidebar != nil || got.AIChatSidebar != nil {
		t.Errorf("States() = %+v, want nil for unparsable values", got)
	}
}

func TestFailuresAreSwallowed(t *testing.T) {
	s := New(failingKV{})
	s.Set(MainSidebar, State{"open": true})
	s.ResetAll()
	if got := s.States(); got.MainSidebar != nil || got.AIChatSidebar != nil {
		t.Errorf("States() = %+v, want nil", got)
	}
}

func TestUnencodableStateIsDropped(t *testing.T) {
	kv := NewMemoryKV()
	New(kv).Set(MainSidebar, State{"bad": make(chan int)})
	if _, ok, _ := kv.Get(Key(MainSidebar)); ok {
		t.Error("unencodable state should not be written")
	}
}

func TestNilStore(t *testing.T) {
	var s *Store
	s.Set(MainSidebar, State{"open": true})
	s.ResetAll()
	if got := s.States(); got.MainSidebar != nil {
		t.Error("nil store should read nothing")
	}
	if got := New(nil).Get(MainSidebar); got != nil {
		t.Error("store without kv should read nothing")
	}
}

func TestDecodePanelState(t *testing.T) {
	s := New(NewMemoryKV())
	s.Set(MainSidebar, PanelState{Open: true, Width: 240})

	ps, ok := Decode(s.Get(MainSidebar))
	if !ok || ps != (PanelState{Open: true, Width: 240}) {
		t.Errorf("Decode = %+v, %v", ps, ok)
	}
	if _, ok := Decode(nil); ok {
		t.Error("Decode(nil) should fail")
	}
	if _, ok := Decode(State{"open": "yes"}); ok {
		t.Error("Decode should reject mistyped fields")
	}
}

func TestPanelStateRoundTripsThroughState(t *testing.T) {
	for _, ps := range []PanelState{{Open: true, Width: 300}, {Open: false}} {
		got, ok := Decode(ps.State())
		if !ok || got != ps {
			t.Errorf("Decode(%+v.State()) = %+v, %v", ps, got, ok)
		}
	}
}
