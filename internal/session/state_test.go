package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/username/booking-form/internal/calendar"
)

func TestManager_LoadMissingFile(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "missing.json"), zap.NewNop())
	if err := m.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if *m.State() != (State{}) {
		t.Errorf("State() = %+v, want empty", m.State())
	}
}

func TestManager_LoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	os.WriteFile(path, []byte("{not json"), 0644)

	if err := NewManager(path, zap.NewNop()).Load(); err == nil {
		t.Error("Load() of corrupt file succeeded")
	}
}

func TestManager_SaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	now := time.Date(2025, time.March, 18, 10, 0, 0, 0, time.UTC)

	m := NewManager(path, zap.NewNop())
	m.now = func() time.Time { return now }

	engine := calendar.NewEngine(now)
	engine.Navigate(calendar.Next)
	engine.Select(time.Date(2025, time.April, 2, 0, 0, 0, 0, time.UTC))
	m.Capture(engine)
	m.SetTime("14:00")

	if err := m.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded := NewManager(path, zap.NewNop())
	if err := loaded.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := State{
		Cursor:    "2025-04",
		Selected:  "2025-04-02",
		Time:      "14:00",
		UpdatedAt: "2025-03-18T10:00:00Z",
	}
	if got := *loaded.State(); got != want {
		t.Errorf("State() = %+v, want %+v", got, want)
	}

	restored := loaded.Restore(now)
	if got := restored.Cursor(); !got.Equal(time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("restored cursor = %v, want 2025-04-01", got)
	}
	if got, ok := restored.Selected(); !ok || got.Day() != 2 || got.Month() != time.April {
		t.Errorf("restored selection = %v, %v", got, ok)
	}
}

func TestManager_RestoreClampsStaleCursor(t *testing.T) {
	m := NewManager("unused.json", zap.NewNop())
	m.state = &State{Cursor: "2024-01", Selected: "garbage"}

	now := time.Date(2025, time.March, 18, 10, 0, 0, 0, time.UTC)
	engine := m.Restore(now)

	if got := engine.Cursor(); !got.Equal(time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("cursor = %v, want 2025-03-01", got)
	}
	if _, ok := engine.Selected(); ok {
		t.Error("invalid selection restored")
	}
}

func TestManager_CaptureClearsTimeWithoutSelection(t *testing.T) {
	m := NewManager("unused.json", zap.NewNop())
	m.state = &State{Selected: "2025-03-19", Time: "12:00"}

	m.Capture(calendar.NewEngine(time.Date(2025, time.March, 18, 0, 0, 0, 0, time.UTC)))

	if m.State().Selected != "" || m.State().Time != "" {
		t.Errorf("State() = %+v, want selection and time cleared", m.State())
	}
	if m.State().Cursor != "2025-03" {
		t.Errorf("Cursor = %q, want 2025-03", m.State().Cursor)
	}
}
