package input

import (
	"errors"
	"testing"
	"time"
)

// fakeProvider is an in-package test double. internal/gpio exports a fake
// too, but importing it from here would be an import cycle.
type fakeProvider struct {
	levels       map[int]bool
	modes        map[int]Mode
	configureErr error
	readErr      error
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		levels: make(map[int]bool),
		modes:  make(map[int]Mode),
	}
}

func (f *fakeProvider) Configure(pin int, mode Mode) error {
	if f.configureErr != nil {
		return f.configureErr
	}
	f.modes[pin] = mode
	if _, ok := f.levels[pin]; !ok {
		f.levels[pin] = true
	}
	return nil
}

func (f *fakeProvider) ReadLevel(pin int) (bool, error) {
	if f.readErr != nil {
		return false, f.readErr
	}
	return f.levels[pin], nil
}

func (f *fakeProvider) set(pin int, level bool) {
	f.levels[pin] = level
}

// firing records one delivered callback.
type firing struct {
	pin      int
	newLevel Level
	oldLevel Level
	event    EventType
	at       time.Time
}

type recorder struct {
	firings []firing
}

func (r *recorder) callback() Callback {
	return func(pin int, newLevel, oldLevel Level, event EventType, now time.Time) {
		r.firings = append(r.firings, firing{pin, newLevel, oldLevel, event, now})
	}
}

func (r *recorder) count(e EventType) int {
	n := 0
	for _, f := range r.firings {
		if f.event == e {
			n++
		}
	}
	return n
}

var base = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func at(ms int) time.Time {
	return base.Add(time.Duration(ms) * time.Millisecond)
}

func TestAddDefaults(t *testing.T) {
	fake := newFakeProvider()
	m := New(fake)

	if !m.Add(17, ModeInputPullUp) {
		t.Fatal("Add returned false")
	}
	if !m.IsRegistered(17) {
		t.Error("pin 17 should be registered")
	}
	if mode, ok := m.PinMode(17); !ok || mode != ModeInputPullUp {
		t.Errorf("expected mode input-pullup, got %v (ok=%v)", mode, ok)
	}
	if got, ok := fake.modes[17]; !ok || got != ModeInputPullUp {
		t.Errorf("provider not configured: got %v", got)
	}
	if d, ok := m.DebounceTime(17); !ok || d != DefaultDebounce {
		t.Errorf("expected default debounce %v, got %v", DefaultDebounce, d)
	}
	if level, ok := m.ReadPin(17); !ok || level != High {
		t.Errorf("expected initial level HIGH, got %v", level)
	}
}

func TestAddSamplesInitialLevel(t *testing.T) {
	fake := newFakeProvider()
	fake.set(5, false)
	m := New(fake)

	if !m.Add(5, ModeInput) {
		t.Fatal("Add returned false")
	}
	if level, ok := m.ReadPin(5); !ok || level != Low {
		t.Errorf("expected initial level LOW, got %v", level)
	}
}

func TestAddDuplicate(t *testing.T) {
	m := New(newFakeProvider())

	if !m.Add(17, ModeInputPullUp) {
		t.Fatal("first Add returned false")
	}
	if m.Add(17, ModeInput) {
		t.Error("duplicate Add should return false")
	}
	// The original registration must be untouched.
	if mode, _ := m.PinMode(17); mode != ModeInputPullUp {
		t.Errorf("duplicate Add mutated mode: %v", mode)
	}
}

func TestAddConfigureError(t *testing.T) {
	fake := newFakeProvider()
	fake.configureErr = errors.New("line busy")
	m := New(fake)

	if m.Add(17, ModeInput) {
		t.Error("Add should fail when the provider refuses the pin")
	}
	if m.IsRegistered(17) {
		t.Error("failed Add must not register the pin")
	}
}

func TestRemove(t *testing.T) {
	m := New(newFakeProvider())
	m.Add(17, ModeInputPullUp)
	m.Add(27, ModeInputPullUp)

	if !m.Remove(17) {
		t.Fatal("Remove returned false")
	}
	if m.IsRegistered(17) {
		t.Error("pin 17 still registered after Remove")
	}
	if m.Remove(17) {
		t.Error("second Remove should return false")
	}
	if _, ok := m.ReadPin(17); ok {
		t.Error("ReadPin should fail after Remove")
	}
	if m.SetDebounceTime(17, time.Millisecond) {
		t.Error("SetDebounceTime should fail after Remove")
	}
	// The other pin survives with its slot intact.
	if !m.IsRegistered(27) {
		t.Error("pin 27 lost by removing pin 17")
	}
	if !m.SetDebounceTime(27, 20*time.Millisecond) {
		t.Error("pin 27 unreachable after removal of pin 17")
	}
}

func TestUnknownPin(t *testing.T) {
	m := New(newFakeProvider())
	rec := &recorder{}

	if m.IsRegistered(99) {
		t.Error("IsRegistered(99) = true")
	}
	if _, ok := m.PinMode(99); ok {
		t.Error("PinMode should fail for unknown pin")
	}
	if _, ok := m.ReadPin(99); ok {
		t.Error("ReadPin should fail for unknown pin")
	}
	if _, ok := m.DebounceTime(99); ok {
		t.Error("DebounceTime should fail for unknown pin")
	}
	if m.SetDebounceTime(99, time.Millisecond) {
		t.Error("SetDebounceTime should fail for unknown pin")
	}
	if m.SetClickParameters(99, 0, time.Second) {
		t.Error("SetClickParameters should fail for unknown pin")
	}
	if m.OnChange(99, rec.callback(), 0) {
		t.Error("OnChange should fail for unknown pin")
	}
	if m.OnSinglePress(99, rec.callback(), 0) {
		t.Error("OnSinglePress should fail for unknown pin")
	}
	if m.OnDoublePress(99, rec.callback(), 0, time.Second) {
		t.Error("OnDoublePress should fail for unknown pin")
	}
	if m.OnLongPress(99, rec.callback(), 0, time.Second, false) {
		t.Error("OnLongPress should fail for unknown pin")
	}
	if m.EnableEvents(99) || m.DisableEvents(99) {
		t.Error("event toggles should fail for unknown pin")
	}
}

func TestReRegistrationOverwrites(t *testing.T) {
	fake := newFakeProvider()
	m := New(fake)
	m.Add(17, ModeInputPullUp)

	first := &recorder{}
	second := &recorder{}
	m.OnSinglePress(17, first.callback(), 0)
	m.OnSinglePress(17, second.callback(), 0)

	m.Update(at(0))
	fake.set(17, false)
	m.Update(at(10))
	m.Update(at(70))
	fake.set(17, true)
	m.Update(at(80))
	m.Update(at(140))

	if len(first.firings) != 0 {
		t.Errorf("overwritten callback fired %d times", len(first.firings))
	}
	if second.count(EventSinglePress) != 1 {
		t.Errorf("expected 1 single press on new callback, got %d", second.count(EventSinglePress))
	}
}

func TestEnableDisableAllEvents(t *testing.T) {
	fake := newFakeProvider()
	m := New(fake)
	m.Add(17, ModeInputPullUp)
	m.Add(27, ModeInputPullUp)

	rec := &recorder{}
	m.OnChange(17, rec.callback(), 0)
	m.OnChange(27, rec.callback(), 0)

	m.DisableAllEvents()
	fake.set(17, false)
	fake.set(27, false)
	m.Update(at(0))
	m.Update(at(60))
	if len(rec.firings) != 0 {
		t.Fatalf("expected no events while disabled, got %d", len(rec.firings))
	}

	m.EnableAllEvents()
	fake.set(17, true)
	fake.set(27, true)
	m.Update(at(100))
	m.Update(at(160))
	if rec.count(EventChange) != 2 {
		t.Errorf("expected 2 change events after enable, got %d", rec.count(EventChange))
	}
}
